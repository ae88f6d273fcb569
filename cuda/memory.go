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
	"reflect"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/gomlx/gocuda/driver"
	"github.com/pkg/errors"
)

// allocation is the device's record of one device memory allocation.
//
// The Memory handle points to it, but it doesn't point back: a Memory handle can be garbage collected while the
// allocation stays registered with its device, to be reclaimed by the device's Destroy.
type allocation struct {
	ptr      driver.DevicePtr
	size     uintptr
	typeName string

	// host is the pinned host buffer used by the copies, a *T. It may be nil.
	host   any
	pinner *runtime.Pinner

	stack   []byte
	retired atomic.Bool
}

func (a *allocation) String() string {
	return fmt.Sprintf("%s allocation of %d bytes at 0x%x", a.typeName, a.size, uintptr(a.ptr))
}

var allocationsAlive atomic.Int64

// AllocationsAlive returns the number of device allocations made by gocuda and not yet freed, across all devices.
func AllocationsAlive() int64 {
	return allocationsAlive.Load()
}

// allocate enqueues the allocation of size bytes and registers it with the device. The context must be current.
func (s *deviceState) allocate(size uintptr, typeName string) (*allocation, error) {
	ptr, r := s.drv.MemAllocAsync(size, s.stream)
	if err := toError("cuMemAllocAsync", r); err != nil {
		return nil, errors.WithMessagef(err, "allocating %d bytes for %s", size, typeName)
	}
	a := &allocation{ptr: ptr, size: size, typeName: typeName, stack: captureStack(s.leakStacks)}
	s.allocations[ptr] = a
	allocationsAlive.Add(1)
	return a, nil
}

// free enqueues the release of the allocation. If it fails the allocation stays registered, to be reclaimed when
// the device is destroyed. The context must be current.
func (s *deviceState) free(a *allocation) error {
	if err := toError("cuMemFreeAsync", s.drv.MemFreeAsync(a.ptr, s.stream)); err != nil {
		return errors.WithMessagef(err, "freeing %s", a)
	}
	s.retire(a)
	return nil
}

// retire removes the allocation from the device. Its host buffer may still be read by a copy in flight, so it
// stays pinned until the next synchronize.
func (s *deviceState) retire(a *allocation) {
	delete(s.allocations, a.ptr)
	if a.pinner != nil {
		s.pendingHost = append(s.pendingHost, a.pinner)
		a.pinner = nil
	}
	a.host = nil
	a.retired.Store(true)
	allocationsAlive.Add(-1)
}

// Memory is a handle to a device allocation holding one value of type T.
//
// T must be plain data: a fixed-size type without pointers (booleans, numbers, and arrays and structs of those).
// All transfers copy the whole value: unsafe.Sizeof(T) bytes.
//
// A Memory handle is consumed by Release or Free, and can't be used after that: releasing it twice panics.
// It keeps its Device alive, but the Device owns the allocation: if the Device is destroyed first, the memory is
// reclaimed and Release returns an error.
//
// Like the Device, it is not safe for concurrent use.
type Memory[T any] struct {
	device   *Device
	alloc    *allocation
	consumed bool
}

// AllocZeros allocates memory for a T on the device and fills it with zero bytes.
//
// It doesn't wait for the device: the allocation and the fill are enqueued on the device stream.
// The caller is responsible for the all-zero bit pattern being a valid T.
func AllocZeros[T any](dev *Device) (*Memory[T], error) {
	if err := dev.state.checkValid("cuda.AllocZeros"); err != nil {
		return nil, err
	}
	size, typeName, err := plainSize[T]()
	if err != nil {
		return nil, err
	}
	s := dev.state
	unlock, err := s.activate()
	if err != nil {
		return nil, err
	}
	defer unlock()
	a, err := s.allocate(size, typeName)
	if err != nil {
		return nil, err
	}
	if err = toError("cuMemsetD8Async", s.drv.MemsetD8Async(a.ptr, 0, size, s.stream)); err != nil {
		return nil, errors.WithMessagef(err, "zero-filling %s", a)
	}
	return newMemory[T](dev, a), nil
}

// CopyToDevice allocates memory for a T on the device and copies value to it.
//
// It doesn't wait for the device: the allocation and the copy are enqueued on the device stream. The value is
// moved to a host buffer owned by the handle, which is reused by Release.
func CopyToDevice[T any](dev *Device, value T) (*Memory[T], error) {
	if err := dev.state.checkValid("cuda.CopyToDevice"); err != nil {
		return nil, err
	}
	size, typeName, err := plainSize[T]()
	if err != nil {
		return nil, err
	}
	s := dev.state
	unlock, err := s.activate()
	if err != nil {
		return nil, err
	}
	defer unlock()
	a, err := s.allocate(size, typeName)
	if err != nil {
		return nil, err
	}
	host := new(T)
	*host = value
	a.host = host
	a.pinner = &runtime.Pinner{}
	a.pinner.Pin(host)
	if err = toError("cuMemcpyHtoDAsync", s.drv.MemcpyHtoDAsync(a.ptr, unsafe.Pointer(host), size, s.stream)); err != nil {
		return nil, errors.WithMessagef(err, "copying value to %s", a)
	}
	return newMemory[T](dev, a), nil
}

func newMemory[T any](dev *Device, a *allocation) *Memory[T] {
	m := &Memory[T]{device: dev, alloc: a}
	runtime.AddCleanup(m, finalizeMemory, a)
	return m
}

// finalizeMemory only reports the leak: the device may be in use by another goroutine, so the allocation is left
// for the device's Destroy.
func finalizeMemory(a *allocation) {
	if a.retired.Load() {
		return
	}
	reportLeak("cuda.Memory with "+a.String(), a.stack)
}

// mustNotBeConsumed panics if the handle was already released: using a consumed handle is a programming error.
func (m *Memory[T]) mustNotBeConsumed(method string) {
	if m == nil {
		panic(errors.Errorf("cuda.Memory[%s].%s called on a nil handle", reflect.TypeFor[T](), method))
	}
	if m.consumed {
		panic(errors.Errorf("cuda.Memory[%s].%s called on a handle already released", reflect.TypeFor[T](), method))
	}
}

// Release copies the value back from the device, waits for the device to finish all its enqueued work, frees the
// device memory and returns the value.
//
// The handle is consumed, even on error: calling Release again panics.
// It returns an error if the Device has already been destroyed.
func (m *Memory[T]) Release() (T, error) {
	var zero T
	m.mustNotBeConsumed("Release")
	m.consumed = true
	s := m.device.state
	if err := s.checkValid("Memory.Release"); err != nil {
		return zero, errors.WithMessagef(err, "the device memory of cuda.Memory[%s] was reclaimed", reflect.TypeFor[T]())
	}
	unlock, err := s.activate()
	if err != nil {
		return zero, err
	}
	defer unlock()

	a := m.alloc
	host, _ := a.host.(*T)
	if host == nil {
		host = new(T)
		a.host = host
		a.pinner = &runtime.Pinner{}
		a.pinner.Pin(host)
	}
	if err = toError("cuMemcpyDtoHAsync", s.drv.MemcpyDtoHAsync(unsafe.Pointer(host), a.ptr, a.size, s.stream)); err != nil {
		return zero, errors.WithMessagef(err, "copying value from %s", a)
	}
	if err = s.synchronize(); err != nil {
		return zero, errors.WithMessagef(err, "waiting for copy from %s", a)
	}
	value := *host
	if err = s.free(a); err != nil {
		return value, err
	}
	return value, nil
}

// Free enqueues the release of the device memory, without retrieving the value.
//
// It is idempotent, so it can be deferred, and it's a no-op if the handle was already released or its Device
// destroyed.
func (m *Memory[T]) Free() error {
	if m == nil || m.consumed {
		return nil
	}
	m.consumed = true
	s := m.device.state
	if s.destroyed {
		return nil
	}
	unlock, err := s.activate()
	if err != nil {
		return err
	}
	defer unlock()
	return s.free(m.alloc)
}

// IsValid returns whether the handle still owns device memory: it was not released, and its Device was not destroyed.
func (m *Memory[T]) IsValid() bool {
	return m != nil && !m.consumed && m.device.IsValid()
}

// DevicePtr returns the device address of the memory, to be passed to kernels. It returns 0 if the handle is not valid.
func (m *Memory[T]) DevicePtr() driver.DevicePtr {
	if !m.IsValid() {
		return 0
	}
	return m.alloc.ptr
}

// Device owning the memory.
func (m *Memory[T]) Device() *Device {
	return m.device
}

// Size in bytes of the memory, the size of T.
func (m *Memory[T]) Size() uintptr {
	return m.alloc.size
}

// String implements fmt.Stringer.
func (m *Memory[T]) String() string {
	if m == nil {
		return "cuda.Memory(nil)"
	}
	if !m.IsValid() {
		return fmt.Sprintf("cuda.Memory[%s] (released)", m.alloc.typeName)
	}
	return fmt.Sprintf("cuda.Memory[%s] on %s: %d bytes at 0x%x", m.alloc.typeName, m.device, m.alloc.size, uintptr(m.alloc.ptr))
}
