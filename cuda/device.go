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
	"fmt"
	"runtime"
	"slices"
	"sync/atomic"

	"github.com/gomlx/gocuda/driver"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Device owns one device's primary context, a stream where all its work is enqueued, the modules loaded in it and
// its outstanding memory allocations.
//
// Create it with NewDevice or with New(drv)...Done(), and release it with Destroy. If it is garbage collected
// without being destroyed, it is destroyed automatically, and a failure in doing so is fatal.
//
// A Device is not safe for concurrent use: callers sharing it between goroutines must serialize access.
type Device struct {
	state *deviceState
}

// deviceState holds the resources owned by a Device.
//
// It must not hold references to the Device or to the Memory handles: the Device cleanup receives it as argument,
// and it would never run otherwise.
type deviceState struct {
	drv      driver.Driver
	ordinal  int
	dev      driver.Device
	ctx      driver.Context
	stream   driver.Stream
	name     string
	totalMem uint64

	modules     map[string]*Module
	allocations map[driver.DevicePtr]*allocation

	// pendingHost are host buffers used by copies that may still be in flight. They are unpinned and dropped
	// on the next synchronize.
	pendingHost []*runtime.Pinner

	leakStacks bool
	stack      []byte
	destroyed  bool
}

var devicesAlive atomic.Int64

// DevicesAlive returns the number of Devices created and not yet destroyed.
func DevicesAlive() int64 {
	return devicesAlive.Load()
}

// DeviceConfig configures the creation of a Device. Create it with New, configure it and call Done.
//
// The first error found while configuring is deferred to Done.
type DeviceConfig struct {
	drv         driver.Driver
	ordinal     int
	streamFlags driver.StreamFlags
	leakStacks  bool
	err         error
}

// New returns the configuration of a Device on drv. Set the options and call Done to create it.
//
// Defaults: ordinal 0, driver.StreamNonBlocking stream, and creation stacks recorded only if $GOCUDA_LEAK_STACKS is set.
func New(drv driver.Driver) *DeviceConfig {
	return &DeviceConfig{
		drv:         drv,
		streamFlags: driver.StreamNonBlocking,
		leakStacks:  leakStacksFromEnv(),
	}
}

// NewDevice creates a Device for the given ordinal, with the default options. See New for other options.
func NewDevice(drv driver.Driver, ordinal int) (*Device, error) {
	return New(drv).WithOrdinal(ordinal).Done()
}

// WithOrdinal selects the device. Out-of-range ordinals fail in Done, with CUDA_ERROR_INVALID_DEVICE.
func (c *DeviceConfig) WithOrdinal(ordinal int) *DeviceConfig {
	c.ordinal = ordinal
	return c
}

// WithStreamFlags sets the flags used to create the device stream.
func (c *DeviceConfig) WithStreamFlags(flags driver.StreamFlags) *DeviceConfig {
	if c.err != nil {
		return c
	}
	if flags != driver.StreamDefault && flags != driver.StreamNonBlocking {
		c.err = errors.Errorf("DeviceConfig.WithStreamFlags(%s): unknown stream flags", flags)
		return c
	}
	c.streamFlags = flags
	return c
}

// WithLeakStacks sets whether the Device and its Memory handles record where they were created, to report it if
// they are garbage collected without being released. Overrides $GOCUDA_LEAK_STACKS.
func (c *DeviceConfig) WithLeakStacks(enabled bool) *DeviceConfig {
	c.leakStacks = enabled
	return c
}

// Done creates the Device: it initializes the driver, retains the device's primary context and creates the stream.
//
// If any step fails, the steps already taken are undone before returning the error.
func (c *DeviceConfig) Done() (*Device, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.drv == nil {
		return nil, errors.New("cuda.New() requires a driver, got nil")
	}
	s := &deviceState{
		drv:         c.drv,
		ordinal:     c.ordinal,
		modules:     make(map[string]*Module),
		allocations: make(map[driver.DevicePtr]*allocation),
		leakStacks:  c.leakStacks,
	}
	if err := cuInit(s.drv); err != nil {
		return nil, errors.WithMessage(err, "failed to initialize the CUDA driver")
	}
	var err error
	s.dev, err = cuDeviceGet(s.drv, s.ordinal)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to get CUDA device #%d", s.ordinal)
	}
	s.name, err = cuDeviceGetName(s.drv, s.dev)
	if err != nil {
		klog.Errorf("Failed to get name of CUDA device #%d: %+v", s.ordinal, err)
	}
	s.totalMem, err = cuDeviceTotalMem(s.drv, s.dev)
	if err != nil {
		klog.Errorf("Failed to get total memory of CUDA device #%d: %+v", s.ordinal, err)
	}

	s.ctx, err = cuDevicePrimaryCtxRetain(s.drv, s.dev)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to retain primary context of CUDA device #%d", s.ordinal)
	}
	unlock, err := s.activate()
	if err != nil {
		s.releaseContextOrLog()
		return nil, errors.WithMessagef(err, "failed to activate context of CUDA device #%d", s.ordinal)
	}
	defer unlock()
	s.stream, err = cuStreamCreate(s.drv, c.streamFlags)
	if err != nil {
		s.releaseContextOrLog()
		return nil, errors.WithMessagef(err, "failed to create stream for CUDA device #%d", s.ordinal)
	}

	s.stack = captureStack(s.leakStacks)
	d := &Device{state: s}
	devicesAlive.Add(1)
	runtime.AddCleanup(d, finalizeDevice, s)
	klog.V(1).Infof("created %s", d)
	return d, nil
}

// releaseContextOrLog is used to undo a partial creation.
func (s *deviceState) releaseContextOrLog() {
	if err := cuDevicePrimaryCtxRelease(s.drv, s.dev); err != nil {
		klog.Errorf("Failed to release primary context of CUDA device #%d: %+v", s.ordinal, err)
	}
}

// finalizeDevice is called when a Device is garbage collected. There is no one to return an error to, so
// failing to release the device's resources is fatal.
func finalizeDevice(s *deviceState) {
	if s.destroyed {
		return
	}
	reportLeak(fmt.Sprintf("cuda.Device #%d", s.ordinal), s.stack)
	if err := s.destroy(); err != nil {
		klog.Fatalf("Failed to destroy garbage collected cuda.Device #%d: %+v", s.ordinal, err)
	}
}

// activate locks the goroutine to its OS thread and makes the device's context current on it.
// The returned function must be called to unlock it, once the driver calls are done.
func (s *deviceState) activate() (unlock func(), err error) {
	runtime.LockOSThread()
	if err = cuCtxSetCurrent(s.drv, s.ctx); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return runtime.UnlockOSThread, nil
}

// checkValid returns an error if the device has been destroyed.
func (s *deviceState) checkValid(method string) error {
	if s == nil || s.destroyed {
		return errors.Errorf("%s: cuda.Device is nil or has already been destroyed", method)
	}
	return nil
}

// synchronize waits for all the work in the stream and then drops the host buffers that were pending.
// The context must be current.
func (s *deviceState) synchronize() error {
	if err := cuStreamSynchronize(s.drv, s.stream); err != nil {
		return err
	}
	s.unpinPending()
	return nil
}

func (s *deviceState) unpinPending() {
	for _, pinner := range s.pendingHost {
		pinner.Unpin()
	}
	s.pendingHost = nil
}

// destroy tears down the device in a fixed order:
//
//  1. Free the outstanding allocations.
//  2. Synchronize the stream, and unpin the host buffers of copies that were in flight.
//  3. Unload the modules.
//  4. Destroy the stream.
//  5. Release the primary context.
//
// It continues past failures, so everything that can be released is: the first error is returned and the others
// are logged.
func (s *deviceState) destroy() error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true
	devicesAlive.Add(-1)

	var firstErr error
	record := func(err error) {
		if err == nil {
			return
		}
		if firstErr == nil {
			firstErr = err
			return
		}
		klog.Errorf("Destroying cuda.Device #%d: %+v", s.ordinal, err)
	}
	if unlock, err := s.activate(); err != nil {
		record(err)
	} else {
		defer unlock()
	}

	// 1. Allocations, in address order.
	ptrs := make([]driver.DevicePtr, 0, len(s.allocations))
	for ptr := range s.allocations {
		ptrs = append(ptrs, ptr)
	}
	slices.Sort(ptrs)
	for _, ptr := range ptrs {
		a := s.allocations[ptr]
		err := toError("cuMemFreeAsync", s.drv.MemFreeAsync(ptr, s.stream))
		record(errors.WithMessagef(err, "freeing %s", a))
		s.retire(a)
	}

	// 2. Synchronize: host buffers are unpinned even if it fails, the stream is being destroyed anyway.
	record(cuStreamSynchronize(s.drv, s.stream))
	s.unpinPending()

	// 3. Modules.
	for _, name := range s.moduleNames() {
		record(s.modules[name].unload())
	}
	clear(s.modules)

	// 4. Stream.
	record(cuStreamDestroy(s.drv, s.stream))
	s.stream = 0

	// 5. Context.
	record(cuDevicePrimaryCtxRelease(s.drv, s.dev))
	s.ctx = 0

	klog.V(1).Infof("destroyed cuda.Device #%d", s.ordinal)
	return firstErr
}

func (s *deviceState) moduleNames() []string {
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Destroy releases all the resources owned by the Device: outstanding allocations, modules, the stream and the
// reference to the primary context, in this order.
//
// It is idempotent: calling it on an already destroyed Device is a no-op.
// Memory handles of the device can no longer be released after it, and its Functions can no longer be launched.
func (d *Device) Destroy() error {
	if d == nil || d.state == nil {
		return nil
	}
	return d.state.destroy()
}

// IsValid returns whether the Device has not been destroyed.
func (d *Device) IsValid() bool {
	return d != nil && d.state != nil && !d.state.destroyed
}

// Synchronize blocks until all the work enqueued on the device stream is completed.
func (d *Device) Synchronize() error {
	if err := d.state.checkValid("Device.Synchronize"); err != nil {
		return err
	}
	unlock, err := d.state.activate()
	if err != nil {
		return err
	}
	defer unlock()
	return d.state.synchronize()
}

// Ordinal returns the index of the device.
func (d *Device) Ordinal() int {
	return d.state.ordinal
}

// Name returns the name reported by the driver, or "" if it couldn't be queried.
func (d *Device) Name() string {
	return d.state.name
}

// TotalMemory returns the total memory of the device in bytes, or 0 if it couldn't be queried.
func (d *Device) TotalMemory() uint64 {
	return d.state.totalMem
}

// Driver used by the device.
func (d *Device) Driver() driver.Driver {
	return d.state.drv
}

// Stream returns the handle of the stream where the device's work is enqueued. It is owned by the Device.
func (d *Device) Stream() driver.Stream {
	return d.state.stream
}

// NumAllocations returns the number of outstanding device allocations: allocated and not yet freed.
func (d *Device) NumAllocations() int {
	return len(d.state.allocations)
}

// String implements fmt.Stringer.
func (d *Device) String() string {
	if d == nil || d.state == nil {
		return "cuda.Device(nil)"
	}
	s := d.state
	if s.destroyed {
		return fmt.Sprintf("cuda.Device #%d (destroyed)", s.ordinal)
	}
	return fmt.Sprintf("cuda.Device #%d %q (%d MiB, %d modules, %d allocations)",
		s.ordinal, s.name, s.totalMem>>20, len(s.modules), len(s.allocations))
}
