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

// Package fakedriver implements driver.Driver with a simulated device in Go memory.
//
// It is strict where the real driver would be undefined: it checks handles, initialization and the current
// context, detects double frees, and keeps account of everything still alive, so tests can assert that nothing
// leaked. Asynchronous work is queued per stream and only executed, in FIFO order, by StreamSynchronize (or by
// StreamDestroy, which drains the stream). That makes the completion barrier of a synchronize observable.
//
// Every entry point called is recorded by its native name (e.g. "cuStreamCreate"), see Driver.Calls.
//
// The current context is kept per Driver, not per OS thread.
package fakedriver

import (
	"bytes"
	"fmt"
	"slices"
	"sync"
	"unsafe"

	"github.com/gomlx/gocuda/driver"
)

const (
	// DefaultTotalMemory is the memory of each simulated device, unless changed with Driver.SetTotalMemory.
	DefaultTotalMemory = 1 << 30

	// uninitializedByte fills freshly allocated device memory, so reading memory that was never written is visible.
	uninitializedByte = 0xCD

	// allocAlignment of device pointers, as in the real driver.
	allocAlignment = 256

	firstDevicePtr = 0x7f00_0000_0000
	firstHandle    = 0x1000
)

// Kernel simulates a device entry point.
//
// It is called by LaunchKernel with the kernel parameters, which are only valid during the call: decode them there.
// It returns the work to run when the stream reaches the launch.
type Kernel func(params []unsafe.Pointer) func(mem Memory)

// Memory gives the work of simulated kernels access to device memory.
type Memory interface {
	// Bytes returns the device memory from ptr to the end of its allocation, or nil if ptr is not valid.
	// Changes to the returned slice change the device memory.
	Bytes(ptr driver.DevicePtr) []byte
}

// Driver is a simulated CUDA driver. It is safe for concurrent use.
type Driver struct {
	mu sync.Mutex

	initialized bool
	devices     []*fakeDevice
	current     driver.Context
	nextHandle  uintptr
	nextPtr     uintptr

	defaultStream *fakeStream
	streams       map[driver.Stream]*fakeStream
	modules       map[driver.Module]*fakeModule
	functions     map[driver.Function]*fakeFunction
	allocations   map[driver.DevicePtr]*fakeAllocation
	images        []*fakeImage

	calls    []string
	failures map[string][]driver.Result
}

var _ driver.Driver = (*Driver)(nil)

type fakeDevice struct {
	ordinal  int
	name     string
	totalMem uint64
	usedMem  uint64
	ctx      driver.Context
	refCount int
}

type fakeStream struct {
	ctx   driver.Context
	flags driver.StreamFlags
	queue []fakeOp
}

type fakeOp struct {
	name string
	run  func() driver.Result
}

type fakeImage struct {
	image   []byte
	kernels map[string]Kernel
}

type fakeModule struct {
	ctx       driver.Context
	kernels   map[string]Kernel
	functions map[string]driver.Function
}

type fakeFunction struct {
	module driver.Module
	name   string
	kernel Kernel
}

type fakeAllocation struct {
	dev         *fakeDevice
	data        []byte
	freePending bool
}

// New creates a simulated driver with numDevices devices.
func New(numDevices int) *Driver {
	d := &Driver{
		nextHandle:    firstHandle,
		nextPtr:       firstDevicePtr,
		defaultStream: &fakeStream{},
		streams:       make(map[driver.Stream]*fakeStream),
		modules:       make(map[driver.Module]*fakeModule),
		functions:     make(map[driver.Function]*fakeFunction),
		allocations:   make(map[driver.DevicePtr]*fakeAllocation),
		failures:      make(map[string][]driver.Result),
	}
	for ii := range numDevices {
		d.devices = append(d.devices, &fakeDevice{
			ordinal:  ii,
			name:     fmt.Sprintf("Fake CUDA Device #%d", ii),
			totalMem: DefaultTotalMemory,
		})
	}
	return d
}

// String implements fmt.Stringer.
func (d *Driver) String() string {
	return fmt.Sprintf("fakedriver[%d devices]", len(d.devices))
}

// SetTotalMemory changes the memory available in the device of the given ordinal.
func (d *Driver) SetTotalMemory(ordinal int, totalMem uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.devices[ordinal].totalMem = totalMem
}

// RegisterImage makes image loadable by ModuleLoadData, with the given entry points.
// Loading any other image fails with CUDA_ERROR_INVALID_IMAGE.
func (d *Driver) RegisterImage(image []byte, kernels map[string]Kernel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.images = append(d.images, &fakeImage{image: slices.Clone(image), kernels: kernels})
}

// FailNext makes the next call to the named entry point (e.g. "cuStreamCreate") return r, without any other effect.
// Multiple failures for the same entry point are returned in the order they were given.
func (d *Driver) FailNext(call string, r driver.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[call] = append(d.failures[call], r)
}

// Calls returns the names of the entry points called so far, in order.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.calls)
}

// ResetCalls clears the record of calls.
func (d *Driver) ResetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

// LiveAllocations returns the number of device allocations not yet freed by the device.
// An allocation whose free is still queued on a stream counts as live.
func (d *Driver) LiveAllocations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.allocations)
}

// LiveStreams returns the number of streams created and not destroyed.
func (d *Driver) LiveStreams() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.streams)
}

// LiveModules returns the number of modules loaded and not unloaded.
func (d *Driver) LiveModules() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.modules)
}

// ContextRefCount returns the reference count of the primary context of the device with the given ordinal.
func (d *Driver) ContextRefCount(ordinal int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.devices[ordinal].refCount
}

// Pending returns the number of operations enqueued on s and not yet executed.
func (d *Driver) Pending(s driver.Stream) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.lookupStream(s)
	if !ok {
		return 0
	}
	return len(st.queue)
}

// DeviceBytes returns a copy of the device memory from ptr to the end of its allocation, or nil if ptr is invalid.
func (d *Driver) DeviceBytes(ptr driver.DevicePtr) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(memView{d}.Bytes(ptr))
}

// enter records the call and returns any failure injected for it, or CUDA_ERROR_NOT_INITIALIZED if Init was not
// yet called. Must be called with d.mu locked.
func (d *Driver) enter(call string) driver.Result {
	d.calls = append(d.calls, call)
	if pending := d.failures[call]; len(pending) > 0 {
		r := pending[0]
		d.failures[call] = pending[1:]
		return r
	}
	if !d.initialized && call != "cuInit" {
		return driver.CUDA_ERROR_NOT_INITIALIZED
	}
	return driver.CUDA_SUCCESS
}

func (d *Driver) newHandle() uintptr {
	d.nextHandle++
	return d.nextHandle
}

// currentDevice returns the device whose primary context is current. Must be called with d.mu locked.
func (d *Driver) currentDevice() (*fakeDevice, driver.Result) {
	if d.current == 0 {
		return nil, driver.CUDA_ERROR_INVALID_CONTEXT
	}
	for _, dev := range d.devices {
		if dev.ctx == d.current {
			if dev.refCount == 0 {
				return nil, driver.CUDA_ERROR_CONTEXT_IS_DESTROYED
			}
			return dev, driver.CUDA_SUCCESS
		}
	}
	return nil, driver.CUDA_ERROR_INVALID_CONTEXT
}

func (d *Driver) lookupStream(s driver.Stream) (*fakeStream, bool) {
	if s == 0 {
		return d.defaultStream, true
	}
	st, ok := d.streams[s]
	return st, ok
}

// lookupRange checks that [ptr, ptr+n) is within one live allocation and returns the allocation and the offset.
func (d *Driver) lookupRange(ptr driver.DevicePtr, n uintptr) (*fakeAllocation, uintptr, driver.Result) {
	for base, alloc := range d.allocations {
		if ptr < base || uintptr(ptr) >= uintptr(base)+uintptr(len(alloc.data)) {
			continue
		}
		if alloc.freePending {
			return nil, 0, driver.CUDA_ERROR_INVALID_VALUE
		}
		offset := uintptr(ptr - base)
		if offset+n > uintptr(len(alloc.data)) {
			return nil, 0, driver.CUDA_ERROR_INVALID_VALUE
		}
		return alloc, offset, driver.CUDA_SUCCESS
	}
	return nil, 0, driver.CUDA_ERROR_INVALID_VALUE
}

// streamForWork validates the current context and the stream used to enqueue work.
func (d *Driver) streamForWork(s driver.Stream) (*fakeStream, driver.Result) {
	if _, r := d.currentDevice(); r != driver.CUDA_SUCCESS {
		return nil, r
	}
	st, ok := d.lookupStream(s)
	if !ok {
		return nil, driver.CUDA_ERROR_INVALID_HANDLE
	}
	if s != 0 && st.ctx != d.current {
		return nil, driver.CUDA_ERROR_INVALID_CONTEXT
	}
	return st, driver.CUDA_SUCCESS
}

// drain executes all queued operations of the stream, in order, and returns the first failure.
func (d *Driver) drain(st *fakeStream) driver.Result {
	result := driver.CUDA_SUCCESS
	for len(st.queue) > 0 {
		op := st.queue[0]
		st.queue = st.queue[1:]
		if r := op.run(); r != driver.CUDA_SUCCESS && result == driver.CUDA_SUCCESS {
			result = r
		}
	}
	return result
}

// memView implements Memory. It doesn't lock: it's used while d.mu is held.
type memView struct {
	d *Driver
}

// Bytes implements Memory.
func (m memView) Bytes(ptr driver.DevicePtr) []byte {
	for base, alloc := range m.d.allocations {
		if ptr >= base && uintptr(ptr) < uintptr(base)+uintptr(len(alloc.data)) {
			return alloc.data[uintptr(ptr-base):]
		}
	}
	return nil
}

// Init implements driver.Driver.
func (d *Driver) Init(flags uint32) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuInit"); r != driver.CUDA_SUCCESS {
		return r
	}
	if flags != 0 {
		return driver.CUDA_ERROR_INVALID_VALUE
	}
	d.initialized = true
	return driver.CUDA_SUCCESS
}

// DeviceGetCount implements driver.Driver.
func (d *Driver) DeviceGetCount() (int, driver.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuDeviceGetCount"); r != driver.CUDA_SUCCESS {
		return 0, r
	}
	return len(d.devices), driver.CUDA_SUCCESS
}

// DeviceGet implements driver.Driver.
func (d *Driver) DeviceGet(ordinal int) (driver.Device, driver.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuDeviceGet"); r != driver.CUDA_SUCCESS {
		return 0, r
	}
	if ordinal < 0 || ordinal >= len(d.devices) {
		return 0, driver.CUDA_ERROR_INVALID_DEVICE
	}
	return driver.Device(ordinal), driver.CUDA_SUCCESS
}

func (d *Driver) lookupDevice(dev driver.Device) (*fakeDevice, driver.Result) {
	if dev < 0 || int(dev) >= len(d.devices) {
		return nil, driver.CUDA_ERROR_INVALID_DEVICE
	}
	return d.devices[dev], driver.CUDA_SUCCESS
}

// DeviceGetName implements driver.Driver.
func (d *Driver) DeviceGetName(dev driver.Device) (string, driver.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuDeviceGetName"); r != driver.CUDA_SUCCESS {
		return "", r
	}
	fd, r := d.lookupDevice(dev)
	if r != driver.CUDA_SUCCESS {
		return "", r
	}
	return fd.name, driver.CUDA_SUCCESS
}

// DeviceTotalMem implements driver.Driver.
func (d *Driver) DeviceTotalMem(dev driver.Device) (uint64, driver.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuDeviceTotalMem"); r != driver.CUDA_SUCCESS {
		return 0, r
	}
	fd, r := d.lookupDevice(dev)
	if r != driver.CUDA_SUCCESS {
		return 0, r
	}
	return fd.totalMem, driver.CUDA_SUCCESS
}

// DevicePrimaryCtxRetain implements driver.Driver.
func (d *Driver) DevicePrimaryCtxRetain(dev driver.Device) (driver.Context, driver.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuDevicePrimaryCtxRetain"); r != driver.CUDA_SUCCESS {
		return 0, r
	}
	fd, r := d.lookupDevice(dev)
	if r != driver.CUDA_SUCCESS {
		return 0, r
	}
	if fd.refCount == 0 {
		fd.ctx = driver.Context(d.newHandle())
	}
	fd.refCount++
	return fd.ctx, driver.CUDA_SUCCESS
}

// DevicePrimaryCtxRelease implements driver.Driver.
func (d *Driver) DevicePrimaryCtxRelease(dev driver.Device) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuDevicePrimaryCtxRelease"); r != driver.CUDA_SUCCESS {
		return r
	}
	fd, r := d.lookupDevice(dev)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	if fd.refCount == 0 {
		return driver.CUDA_ERROR_INVALID_CONTEXT
	}
	fd.refCount--
	return driver.CUDA_SUCCESS
}

// CtxSetCurrent implements driver.Driver.
func (d *Driver) CtxSetCurrent(ctx driver.Context) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuCtxSetCurrent"); r != driver.CUDA_SUCCESS {
		return r
	}
	if ctx != 0 && !slices.ContainsFunc(d.devices, func(fd *fakeDevice) bool { return fd.ctx == ctx && fd.refCount > 0 }) {
		return driver.CUDA_ERROR_INVALID_CONTEXT
	}
	d.current = ctx
	return driver.CUDA_SUCCESS
}

// StreamCreate implements driver.Driver.
func (d *Driver) StreamCreate(flags driver.StreamFlags) (driver.Stream, driver.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuStreamCreate"); r != driver.CUDA_SUCCESS {
		return 0, r
	}
	if _, r := d.currentDevice(); r != driver.CUDA_SUCCESS {
		return 0, r
	}
	if flags != driver.StreamDefault && flags != driver.StreamNonBlocking {
		return 0, driver.CUDA_ERROR_INVALID_VALUE
	}
	s := driver.Stream(d.newHandle())
	d.streams[s] = &fakeStream{ctx: d.current, flags: flags}
	return s, driver.CUDA_SUCCESS
}

// StreamSynchronize implements driver.Driver: it executes all work queued on s.
func (d *Driver) StreamSynchronize(s driver.Stream) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuStreamSynchronize"); r != driver.CUDA_SUCCESS {
		return r
	}
	st, r := d.streamForWork(s)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	return d.drain(st)
}

// StreamDestroy implements driver.Driver. Work still queued on s is executed first.
func (d *Driver) StreamDestroy(s driver.Stream) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuStreamDestroy"); r != driver.CUDA_SUCCESS {
		return r
	}
	if s == 0 {
		return driver.CUDA_ERROR_INVALID_HANDLE
	}
	st, r := d.streamForWork(s)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	_ = d.drain(st)
	delete(d.streams, s)
	return driver.CUDA_SUCCESS
}

// ModuleLoadData implements driver.Driver. Only images given to RegisterImage can be loaded.
func (d *Driver) ModuleLoadData(image []byte) (driver.Module, driver.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuModuleLoadData"); r != driver.CUDA_SUCCESS {
		return 0, r
	}
	if _, r := d.currentDevice(); r != driver.CUDA_SUCCESS {
		return 0, r
	}
	idx := slices.IndexFunc(d.images, func(img *fakeImage) bool { return bytes.Equal(img.image, image) })
	if idx < 0 {
		return 0, driver.CUDA_ERROR_INVALID_IMAGE
	}
	m := driver.Module(d.newHandle())
	d.modules[m] = &fakeModule{
		ctx:       d.current,
		kernels:   d.images[idx].kernels,
		functions: make(map[string]driver.Function),
	}
	return m, driver.CUDA_SUCCESS
}

// ModuleGetFunction implements driver.Driver.
func (d *Driver) ModuleGetFunction(m driver.Module, name string) (driver.Function, driver.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuModuleGetFunction"); r != driver.CUDA_SUCCESS {
		return 0, r
	}
	fm, ok := d.modules[m]
	if !ok {
		return 0, driver.CUDA_ERROR_INVALID_HANDLE
	}
	if f, found := fm.functions[name]; found {
		return f, driver.CUDA_SUCCESS
	}
	kernel, found := fm.kernels[name]
	if !found {
		return 0, driver.CUDA_ERROR_NOT_FOUND
	}
	f := driver.Function(d.newHandle())
	fm.functions[name] = f
	d.functions[f] = &fakeFunction{module: m, name: name, kernel: kernel}
	return f, driver.CUDA_SUCCESS
}

// ModuleUnload implements driver.Driver.
func (d *Driver) ModuleUnload(m driver.Module) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuModuleUnload"); r != driver.CUDA_SUCCESS {
		return r
	}
	fm, ok := d.modules[m]
	if !ok {
		return driver.CUDA_ERROR_INVALID_HANDLE
	}
	for _, f := range fm.functions {
		delete(d.functions, f)
	}
	delete(d.modules, m)
	return driver.CUDA_SUCCESS
}

// LaunchKernel implements driver.Driver.
func (d *Driver) LaunchKernel(f driver.Function, grid, block driver.Dim3, sharedMemBytes uint32, s driver.Stream, params []unsafe.Pointer) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuLaunchKernel"); r != driver.CUDA_SUCCESS {
		return r
	}
	st, r := d.streamForWork(s)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	ff, ok := d.functions[f]
	if !ok {
		return driver.CUDA_ERROR_INVALID_HANDLE
	}
	if grid.X*grid.Y*grid.Z == 0 || block.X*block.Y*block.Z == 0 {
		return driver.CUDA_ERROR_INVALID_VALUE
	}
	var work func(Memory)
	if ff.kernel != nil {
		work = ff.kernel(params)
	}
	st.queue = append(st.queue, fakeOp{name: "launch " + ff.name, run: func() driver.Result {
		if work != nil {
			work(memView{d})
		}
		return driver.CUDA_SUCCESS
	}})
	return driver.CUDA_SUCCESS
}

// MemAllocAsync implements driver.Driver. The pointer is returned immediately, the memory is filled with
// garbage (0xCD bytes).
func (d *Driver) MemAllocAsync(size uintptr, s driver.Stream) (driver.DevicePtr, driver.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuMemAllocAsync"); r != driver.CUDA_SUCCESS {
		return 0, r
	}
	st, r := d.streamForWork(s)
	if r != driver.CUDA_SUCCESS {
		return 0, r
	}
	if size == 0 {
		return 0, driver.CUDA_ERROR_INVALID_VALUE
	}
	dev, _ := d.currentDevice()
	if dev.usedMem+uint64(size) > dev.totalMem {
		return 0, driver.CUDA_ERROR_OUT_OF_MEMORY
	}
	ptr := driver.DevicePtr(d.nextPtr)
	d.nextPtr += (size + allocAlignment - 1) &^ (allocAlignment - 1)
	data := bytes.Repeat([]byte{uninitializedByte}, int(size))
	dev.usedMem += uint64(size)
	d.allocations[ptr] = &fakeAllocation{dev: dev, data: data}
	st.queue = append(st.queue, fakeOp{name: "alloc", run: func() driver.Result { return driver.CUDA_SUCCESS }})
	return ptr, driver.CUDA_SUCCESS
}

// MemsetD8Async implements driver.Driver.
func (d *Driver) MemsetD8Async(ptr driver.DevicePtr, value byte, n uintptr, s driver.Stream) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuMemsetD8Async"); r != driver.CUDA_SUCCESS {
		return r
	}
	st, r := d.streamForWork(s)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	alloc, offset, r := d.lookupRange(ptr, n)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	st.queue = append(st.queue, fakeOp{name: "memset", run: func() driver.Result {
		for ii := range alloc.data[offset : offset+n] {
			alloc.data[offset+uintptr(ii)] = value
		}
		return driver.CUDA_SUCCESS
	}})
	return driver.CUDA_SUCCESS
}

// MemcpyHtoDAsync implements driver.Driver. The host memory is read when the stream executes the copy.
func (d *Driver) MemcpyHtoDAsync(dst driver.DevicePtr, src unsafe.Pointer, n uintptr, s driver.Stream) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuMemcpyHtoDAsync"); r != driver.CUDA_SUCCESS {
		return r
	}
	st, r := d.streamForWork(s)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	if src == nil {
		return driver.CUDA_ERROR_INVALID_VALUE
	}
	alloc, offset, r := d.lookupRange(dst, n)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	st.queue = append(st.queue, fakeOp{name: "memcpyHtoD", run: func() driver.Result {
		copy(alloc.data[offset:offset+n], unsafe.Slice((*byte)(src), n))
		return driver.CUDA_SUCCESS
	}})
	return driver.CUDA_SUCCESS
}

// MemcpyDtoHAsync implements driver.Driver. The host memory is written when the stream executes the copy.
func (d *Driver) MemcpyDtoHAsync(dst unsafe.Pointer, src driver.DevicePtr, n uintptr, s driver.Stream) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuMemcpyDtoHAsync"); r != driver.CUDA_SUCCESS {
		return r
	}
	st, r := d.streamForWork(s)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	if dst == nil {
		return driver.CUDA_ERROR_INVALID_VALUE
	}
	alloc, offset, r := d.lookupRange(src, n)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	st.queue = append(st.queue, fakeOp{name: "memcpyDtoH", run: func() driver.Result {
		copy(unsafe.Slice((*byte)(dst), n), alloc.data[offset:offset+n])
		return driver.CUDA_SUCCESS
	}})
	return driver.CUDA_SUCCESS
}

// MemFreeAsync implements driver.Driver. Freeing a pointer twice fails with CUDA_ERROR_INVALID_VALUE, even if the
// first free is still queued.
func (d *Driver) MemFreeAsync(ptr driver.DevicePtr, s driver.Stream) driver.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r := d.enter("cuMemFreeAsync"); r != driver.CUDA_SUCCESS {
		return r
	}
	st, r := d.streamForWork(s)
	if r != driver.CUDA_SUCCESS {
		return r
	}
	alloc, ok := d.allocations[ptr]
	if !ok || alloc.freePending {
		return driver.CUDA_ERROR_INVALID_VALUE
	}
	alloc.freePending = true
	st.queue = append(st.queue, fakeOp{name: "free", run: func() driver.Result {
		alloc.dev.usedMem -= uint64(len(alloc.data))
		delete(d.allocations, ptr)
		return driver.CUDA_SUCCESS
	}})
	return driver.CUDA_SUCCESS
}
