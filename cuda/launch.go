/*
 *	Copyright 2025 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package cuda

import (
	"reflect"
	"unsafe"

	"github.com/gomlx/gocuda/driver"
	"github.com/pkg/errors"
)

// Dim3 is a grid or block dimension.
type Dim3 = driver.Dim3

// LaunchConfig is the geometry of a kernel launch.
type LaunchConfig struct {
	Grid, Block    Dim3
	SharedMemBytes uint32
}

// Linear returns a one-dimensional launch configuration with numBlocks blocks of threadsPerBlock threads.
func Linear(numBlocks, threadsPerBlock uint32) LaunchConfig {
	return LaunchConfig{
		Grid:  Dim3{X: numBlocks, Y: 1, Z: 1},
		Block: Dim3{X: threadsPerBlock, Y: 1, Z: 1},
	}
}

// DevicePointer is implemented by kernel arguments that are device memory, like *Memory[T].
type DevicePointer interface {
	DevicePtr() driver.DevicePtr
}

// Launch enqueues the execution of fn on the device stream. It doesn't wait for it to complete.
//
// Each argument is either a DevicePointer, passed to the kernel as its device address, or a plain data value
// (booleans, numbers, and arrays and structs of those), passed by value.
func (d *Device) Launch(fn *Function, cfg LaunchConfig, args ...any) error {
	s := d.state
	if err := s.checkValid("Device.Launch"); err != nil {
		return err
	}
	if fn == nil {
		return errors.New("Device.Launch: nil function")
	}
	if fn.module.state != s {
		return errors.Errorf("Device.Launch(%q): function belongs to a module of a different device", fn.name)
	}
	if !fn.module.IsLoaded() {
		return errors.Errorf("Device.Launch(%q): module %q was unloaded", fn.name, fn.module.name)
	}
	params, err := kernelParams(d, args)
	if err != nil {
		return errors.WithMessagef(err, "Device.Launch(%q)", fn.name)
	}
	unlock, err := s.activate()
	if err != nil {
		return err
	}
	defer unlock()
	r := s.drv.LaunchKernel(fn.handle, cfg.Grid, cfg.Block, cfg.SharedMemBytes, s.stream, params)
	return errors.WithMessagef(toError("cuLaunchKernel", r), "Device.Launch(%q)", fn.name)
}

// kernelParams returns one pointer per argument, to a copy of its value.
func kernelParams(d *Device, args []any) ([]unsafe.Pointer, error) {
	params := make([]unsafe.Pointer, len(args))
	for ii, arg := range args {
		switch v := arg.(type) {
		case nil:
			return nil, errors.Errorf("argument #%d is nil", ii)
		case DevicePointer:
			if owned, ok := arg.(interface{ Device() *Device }); ok && owned.Device() != d {
				return nil, errors.Errorf("argument #%d is memory of a different device (%s)", ii, owned.Device())
			}
			ptr := v.DevicePtr()
			if ptr == 0 {
				return nil, errors.Errorf("argument #%d (%T) is a released or null device pointer", ii, arg)
			}
			params[ii] = unsafe.Pointer(&ptr)
		default:
			value := reflect.ValueOf(arg)
			if !isPlainType(value.Type()) {
				return nil, errors.Errorf("argument #%d of type %T is neither a DevicePointer nor plain data", ii, arg)
			}
			copied := reflect.New(value.Type())
			copied.Elem().Set(value)
			params[ii] = copied.UnsafePointer()
		}
	}
	return params, nil
}
