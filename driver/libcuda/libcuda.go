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

// Package libcuda implements driver.Driver with NVidia's CUDA driver library (libcuda.so), loaded at runtime.
//
// No cgo is required: the library is opened with dlopen and its entry points bound using
// github.com/ebitengine/purego.
//
// The library is searched in the GOCUDA_LIBRARY_PATH directories -- or it can point directly to the library file.
// If it is not set, it searches LD_LIBRARY_PATH, the directories listed in /etc/ld.so.conf and finally lets
// the dynamic loader search its default paths.
package libcuda

import (
	"bytes"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/gomlx/gocuda/driver"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// LibraryPathEnv is the name of the environment variable with the search paths for the CUDA driver library.
	LibraryPathEnv = "GOCUDA_LIBRARY_PATH"

	// deviceNameSize is the buffer size used to query device names.
	deviceNameSize = 256
)

// LibraryNames are the file names tried, in order, for the CUDA driver library.
var LibraryNames = []string{"libcuda.so.1", "libcuda.so"}

var (
	// loaded caches the driver once loaded. Protected by muLoad.
	loaded *Driver
	muLoad sync.Mutex
)

// Driver is the CUDA driver loaded from libcuda.so. It implements driver.Driver.
//
// The library stays loaded until the end of the process.
type Driver struct {
	path   string
	handle uintptr

	cuInit                    func(flags uint32) driver.Result
	cuDriverGetVersion        func(version *int32) driver.Result
	cuDeviceGetCount          func(count *int32) driver.Result
	cuDeviceGet               func(device *driver.Device, ordinal int32) driver.Result
	cuDeviceGetName           func(name *byte, length int32, dev driver.Device) driver.Result
	cuDeviceTotalMem          func(bytes *uint64, dev driver.Device) driver.Result
	cuDevicePrimaryCtxRetain  func(ctx *driver.Context, dev driver.Device) driver.Result
	cuDevicePrimaryCtxRelease func(dev driver.Device) driver.Result
	cuCtxSetCurrent           func(ctx driver.Context) driver.Result
	cuStreamCreate            func(stream *driver.Stream, flags uint32) driver.Result
	cuStreamSynchronize       func(stream driver.Stream) driver.Result
	cuStreamDestroy           func(stream driver.Stream) driver.Result
	cuModuleLoadData          func(module *driver.Module, image unsafe.Pointer) driver.Result
	cuModuleGetFunction       func(function *driver.Function, module driver.Module, name *byte) driver.Result
	cuModuleUnload            func(module driver.Module) driver.Result
	cuLaunchKernel            func(f driver.Function, gridX, gridY, gridZ, blockX, blockY, blockZ, sharedMemBytes uint32,
		stream driver.Stream, kernelParams unsafe.Pointer, extra unsafe.Pointer) driver.Result
	cuMemAllocAsync   func(ptr *driver.DevicePtr, size uintptr, stream driver.Stream) driver.Result
	cuMemsetD8Async   func(ptr driver.DevicePtr, value uint8, n uintptr, stream driver.Stream) driver.Result
	cuMemcpyHtoDAsync func(dst driver.DevicePtr, src unsafe.Pointer, n uintptr, stream driver.Stream) driver.Result
	cuMemcpyDtoHAsync func(dst unsafe.Pointer, src driver.DevicePtr, n uintptr, stream driver.Stream) driver.Result
	cuMemFreeAsync    func(ptr driver.DevicePtr, stream driver.Stream) driver.Result
}

var _ driver.Driver = (*Driver)(nil)

// symbols lists the native entry points bound to the Driver fields, with their versioned names.
func (d *Driver) symbols() []struct {
	name string
	fn   any
} {
	return []struct {
		name string
		fn   any
	}{
		{"cuInit", &d.cuInit},
		{"cuDriverGetVersion", &d.cuDriverGetVersion},
		{"cuDeviceGetCount", &d.cuDeviceGetCount},
		{"cuDeviceGet", &d.cuDeviceGet},
		{"cuDeviceGetName", &d.cuDeviceGetName},
		{"cuDeviceTotalMem_v2", &d.cuDeviceTotalMem},
		{"cuDevicePrimaryCtxRetain", &d.cuDevicePrimaryCtxRetain},
		{"cuDevicePrimaryCtxRelease_v2", &d.cuDevicePrimaryCtxRelease},
		{"cuCtxSetCurrent", &d.cuCtxSetCurrent},
		{"cuStreamCreate", &d.cuStreamCreate},
		{"cuStreamSynchronize", &d.cuStreamSynchronize},
		{"cuStreamDestroy_v2", &d.cuStreamDestroy},
		{"cuModuleLoadData", &d.cuModuleLoadData},
		{"cuModuleGetFunction", &d.cuModuleGetFunction},
		{"cuModuleUnload", &d.cuModuleUnload},
		{"cuLaunchKernel", &d.cuLaunchKernel},
		{"cuMemAllocAsync", &d.cuMemAllocAsync},
		{"cuMemsetD8Async", &d.cuMemsetD8Async},
		{"cuMemcpyHtoDAsync_v2", &d.cuMemcpyHtoDAsync},
		{"cuMemcpyDtoHAsync_v2", &d.cuMemcpyDtoHAsync},
		{"cuMemFreeAsync", &d.cuMemFreeAsync},
	}
}

// Load returns the CUDA driver, loading the library on the first call.
//
// It is safe to call it from different goroutines: the driver is loaded only once.
func Load() (*Driver, error) {
	muLoad.Lock()
	defer muLoad.Unlock()
	if loaded != nil {
		return loaded, nil
	}
	d, err := loadDriver()
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("loaded CUDA driver from %s", d.path)
	loaded = d
	return d, nil
}

// Path returns the path from where the library was loaded.
func (d *Driver) Path() string {
	return d.path
}

// Version returns the version of the CUDA driver, e.g. 12040 for 12.4.
func (d *Driver) Version() (int, error) {
	var version int32
	if r := d.cuDriverGetVersion(&version); r != driver.CUDA_SUCCESS {
		return 0, errors.Errorf("cuDriverGetVersion failed: %s", r)
	}
	return int(version), nil
}

// String implements fmt.Stringer.
func (d *Driver) String() string {
	version, err := d.Version()
	if err != nil {
		return fmt.Sprintf("CUDA driver (%s)", d.path)
	}
	return fmt.Sprintf("CUDA driver v%d.%d (%s)", version/1000, version%1000/10, d.path)
}

// Init implements driver.Driver.
func (d *Driver) Init(flags uint32) driver.Result {
	return d.cuInit(flags)
}

// DeviceGetCount implements driver.Driver.
func (d *Driver) DeviceGetCount() (int, driver.Result) {
	var count int32
	r := d.cuDeviceGetCount(&count)
	return int(count), r
}

// DeviceGet implements driver.Driver.
func (d *Driver) DeviceGet(ordinal int) (driver.Device, driver.Result) {
	var dev driver.Device
	r := d.cuDeviceGet(&dev, int32(ordinal))
	return dev, r
}

// DeviceGetName implements driver.Driver.
func (d *Driver) DeviceGetName(dev driver.Device) (string, driver.Result) {
	name := make([]byte, deviceNameSize)
	r := d.cuDeviceGetName(&name[0], deviceNameSize, dev)
	if r != driver.CUDA_SUCCESS {
		return "", r
	}
	if idx := bytes.IndexByte(name, 0); idx >= 0 {
		name = name[:idx]
	}
	return string(name), r
}

// DeviceTotalMem implements driver.Driver.
func (d *Driver) DeviceTotalMem(dev driver.Device) (uint64, driver.Result) {
	var total uint64
	r := d.cuDeviceTotalMem(&total, dev)
	return total, r
}

// DevicePrimaryCtxRetain implements driver.Driver.
func (d *Driver) DevicePrimaryCtxRetain(dev driver.Device) (driver.Context, driver.Result) {
	var ctx driver.Context
	r := d.cuDevicePrimaryCtxRetain(&ctx, dev)
	return ctx, r
}

// DevicePrimaryCtxRelease implements driver.Driver.
func (d *Driver) DevicePrimaryCtxRelease(dev driver.Device) driver.Result {
	return d.cuDevicePrimaryCtxRelease(dev)
}

// CtxSetCurrent implements driver.Driver.
func (d *Driver) CtxSetCurrent(ctx driver.Context) driver.Result {
	return d.cuCtxSetCurrent(ctx)
}

// StreamCreate implements driver.Driver.
func (d *Driver) StreamCreate(flags driver.StreamFlags) (driver.Stream, driver.Result) {
	var s driver.Stream
	r := d.cuStreamCreate(&s, uint32(flags))
	return s, r
}

// StreamSynchronize implements driver.Driver.
func (d *Driver) StreamSynchronize(s driver.Stream) driver.Result {
	return d.cuStreamSynchronize(s)
}

// StreamDestroy implements driver.Driver.
func (d *Driver) StreamDestroy(s driver.Stream) driver.Result {
	return d.cuStreamDestroy(s)
}

// ModuleLoadData implements driver.Driver.
// PTX images must be NUL terminated: if image isn't, a terminated copy is used.
func (d *Driver) ModuleLoadData(image []byte) (driver.Module, driver.Result) {
	if len(image) == 0 {
		return 0, driver.CUDA_ERROR_INVALID_IMAGE
	}
	if image[len(image)-1] != 0 {
		image = append(bytes.Clone(image), 0)
	}
	var pinner runtime.Pinner
	defer pinner.Unpin()
	data := unsafe.SliceData(image)
	pinner.Pin(data)

	var m driver.Module
	r := d.cuModuleLoadData(&m, unsafe.Pointer(data))
	return m, r
}

// ModuleGetFunction implements driver.Driver.
func (d *Driver) ModuleGetFunction(m driver.Module, name string) (driver.Function, driver.Result) {
	cName := append([]byte(name), 0)
	var f driver.Function
	r := d.cuModuleGetFunction(&f, m, &cName[0])
	return f, r
}

// ModuleUnload implements driver.Driver.
func (d *Driver) ModuleUnload(m driver.Module) driver.Result {
	return d.cuModuleUnload(m)
}

// LaunchKernel implements driver.Driver.
//
// The driver copies the parameter values during the call, so they only need to be kept alive until it returns.
func (d *Driver) LaunchKernel(f driver.Function, grid, block driver.Dim3, sharedMemBytes uint32, s driver.Stream, params []unsafe.Pointer) driver.Result {
	// The array of pointers is handed to C: it and everything it points to must be pinned.
	var pinner runtime.Pinner
	defer pinner.Unpin()
	var paramsPtr unsafe.Pointer
	if len(params) > 0 {
		for _, p := range params {
			pinner.Pin(p)
		}
		paramsPtr = unsafe.Pointer(unsafe.SliceData(params))
		pinner.Pin(paramsPtr)
	}
	return d.cuLaunchKernel(f, grid.X, grid.Y, grid.Z, block.X, block.Y, block.Z, sharedMemBytes, s, paramsPtr, nil)
}

// MemAllocAsync implements driver.Driver.
func (d *Driver) MemAllocAsync(size uintptr, s driver.Stream) (driver.DevicePtr, driver.Result) {
	var ptr driver.DevicePtr
	r := d.cuMemAllocAsync(&ptr, size, s)
	return ptr, r
}

// MemsetD8Async implements driver.Driver.
func (d *Driver) MemsetD8Async(ptr driver.DevicePtr, value byte, n uintptr, s driver.Stream) driver.Result {
	return d.cuMemsetD8Async(ptr, value, n, s)
}

// MemcpyHtoDAsync implements driver.Driver.
func (d *Driver) MemcpyHtoDAsync(dst driver.DevicePtr, src unsafe.Pointer, n uintptr, s driver.Stream) driver.Result {
	return d.cuMemcpyHtoDAsync(dst, src, n, s)
}

// MemcpyDtoHAsync implements driver.Driver.
func (d *Driver) MemcpyDtoHAsync(dst unsafe.Pointer, src driver.DevicePtr, n uintptr, s driver.Stream) driver.Result {
	return d.cuMemcpyDtoHAsync(dst, src, n, s)
}

// MemFreeAsync implements driver.Driver.
func (d *Driver) MemFreeAsync(ptr driver.DevicePtr, s driver.Stream) driver.Result {
	return d.cuMemFreeAsync(ptr, s)
}
