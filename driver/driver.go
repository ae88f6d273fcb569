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

// Package driver defines the contract with the native CUDA driver: opaque handles, status codes and the
// Driver interface with one method per driver entry point used by gocuda.
//
// Nothing in this package is memory-safe: handles are plain integers, and passing a stale or foreign handle to
// a Driver is undefined behavior at the hardware level. Use package cuda, which owns and releases the handles.
//
// Implementations:
//
//   - driver/libcuda: the real driver, loaded from libcuda.so at runtime.
//   - driver/fakedriver: a simulated device, for tests.
package driver

import (
	"fmt"
	"unsafe"
)

// Device is the driver's identifier of a device (CUdevice).
type Device int32

// Context is an opaque handle to a device context (CUcontext).
type Context uintptr

// Stream is an opaque handle to a command queue (CUstream). The zero value is the legacy default stream.
type Stream uintptr

// Module is an opaque handle to loaded device code (CUmodule).
type Module uintptr

// Function is an opaque handle to an entry point within a Module (CUfunction).
type Function uintptr

// DevicePtr is an address in the device address space (CUdeviceptr).
type DevicePtr uintptr

// StreamFlags configures the creation of a Stream (CUstream_flags).
type StreamFlags uint32

const (
	// StreamDefault creates a stream that synchronizes with the legacy default stream.
	StreamDefault StreamFlags = 0

	// StreamNonBlocking creates a stream whose work doesn't implicitly serialize with the legacy default stream.
	StreamNonBlocking StreamFlags = 1
)

// String implements fmt.Stringer.
func (f StreamFlags) String() string {
	switch f {
	case StreamDefault:
		return "CU_STREAM_DEFAULT"
	case StreamNonBlocking:
		return "CU_STREAM_NON_BLOCKING"
	}
	return fmt.Sprintf("StreamFlags(%d)", uint32(f))
}

// Dim3 is a grid or block dimension for kernel launches.
type Dim3 struct {
	X, Y, Z uint32
}

// Driver is the narrow interface to the native driver. Each method is one native entry point: it returns the
// driver's status code, and out-values are only meaningful when the status is CUDA_SUCCESS.
//
// The caller must uphold the native preconditions: valid handles, host pointers to at least n bytes that stay
// alive (and pinned) until the asynchronous operation using them completes, and a current context on the calling
// OS thread for every call other than Init and the device queries.
//
// Methods with the Async suffix only enqueue work on the given stream and return immediately.
// StreamSynchronize is the only method that blocks until device work completes.
type Driver interface {
	// Init initializes the driver. flags must be 0. It may be called more than once.
	Init(flags uint32) Result

	// DeviceGetCount returns the number of devices.
	DeviceGetCount() (int, Result)

	// DeviceGet returns the device for the ordinal, or CUDA_ERROR_INVALID_DEVICE if out of range.
	DeviceGet(ordinal int) (Device, Result)

	// DeviceGetName returns the device name reported by the driver.
	DeviceGetName(dev Device) (string, Result)

	// DeviceTotalMem returns the total memory of the device in bytes.
	DeviceTotalMem(dev Device) (uint64, Result)

	// DevicePrimaryCtxRetain increments the reference count of the device's primary context and returns it.
	DevicePrimaryCtxRetain(dev Device) (Context, Result)

	// DevicePrimaryCtxRelease decrements the reference count of the device's primary context.
	DevicePrimaryCtxRelease(dev Device) Result

	// CtxSetCurrent binds ctx to the calling OS thread.
	CtxSetCurrent(ctx Context) Result

	StreamCreate(flags StreamFlags) (Stream, Result)

	// StreamSynchronize blocks until all work previously enqueued on s has completed.
	StreamSynchronize(s Stream) Result

	StreamDestroy(s Stream) Result

	// ModuleLoadData loads a module image (PTX, cubin or fatbin) into the current context.
	ModuleLoadData(image []byte) (Module, Result)

	ModuleGetFunction(m Module, name string) (Function, Result)

	ModuleUnload(m Module) Result

	// LaunchKernel enqueues f on s. params holds one pointer per kernel parameter, to the parameter's value.
	LaunchKernel(f Function, grid, block Dim3, sharedMemBytes uint32, s Stream, params []unsafe.Pointer) Result

	MemAllocAsync(size uintptr, s Stream) (DevicePtr, Result)

	MemsetD8Async(ptr DevicePtr, value byte, n uintptr, s Stream) Result

	MemcpyHtoDAsync(dst DevicePtr, src unsafe.Pointer, n uintptr, s Stream) Result

	MemcpyDtoHAsync(dst unsafe.Pointer, src DevicePtr, n uintptr, s Stream) Result

	MemFreeAsync(ptr DevicePtr, s Stream) Result
}
