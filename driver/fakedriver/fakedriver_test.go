package fakedriver

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/gomlx/gocuda/driver"
	"github.com/stretchr/testify/require"
)

// newWithContext returns an initialized driver with the primary context of device 0 current, and a stream.
func newWithContext(t *testing.T) (*Driver, driver.Stream) {
	d := New(1)
	require.Equal(t, driver.CUDA_SUCCESS, d.Init(0))
	dev, r := d.DeviceGet(0)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	ctx, r := d.DevicePrimaryCtxRetain(dev)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	require.Equal(t, driver.CUDA_SUCCESS, d.CtxSetCurrent(ctx))
	s, r := d.StreamCreate(driver.StreamNonBlocking)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	return d, s
}

func TestNotInitialized(t *testing.T) {
	d := New(1)
	_, r := d.DeviceGet(0)
	require.Equal(t, driver.CUDA_ERROR_NOT_INITIALIZED, r)
	require.Equal(t, driver.CUDA_ERROR_INVALID_VALUE, d.Init(1))
	require.Equal(t, driver.CUDA_SUCCESS, d.Init(0))
	_, r = d.DeviceGet(1)
	require.Equal(t, driver.CUDA_ERROR_INVALID_DEVICE, r)
	_, r = d.StreamCreate(driver.StreamNonBlocking)
	require.Equal(t, driver.CUDA_ERROR_INVALID_CONTEXT, r)
	require.Equal(t, []string{"cuDeviceGet", "cuInit", "cuInit", "cuDeviceGet", "cuStreamCreate"}, d.Calls())
}

func TestStreamExecutesOnlyOnSynchronize(t *testing.T) {
	d, s := newWithContext(t)
	ptr, r := d.MemAllocAsync(4, s)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	require.Equal(t, []byte{0xCD, 0xCD, 0xCD, 0xCD}, d.DeviceBytes(ptr))

	value := uint32(0x01020304)
	require.Equal(t, driver.CUDA_SUCCESS, d.MemsetD8Async(ptr, 0, 4, s))
	require.Equal(t, driver.CUDA_SUCCESS, d.MemcpyHtoDAsync(ptr, unsafe.Pointer(&value), 4, s))
	var out uint32
	require.Equal(t, driver.CUDA_SUCCESS, d.MemcpyDtoHAsync(unsafe.Pointer(&out), ptr, 4, s))
	require.Equal(t, 4, d.Pending(s))
	require.Zero(t, out, "nothing should have executed before synchronize")

	require.Equal(t, driver.CUDA_SUCCESS, d.StreamSynchronize(s))
	require.Zero(t, d.Pending(s))
	require.Equal(t, value, out)

	require.Equal(t, driver.CUDA_SUCCESS, d.MemFreeAsync(ptr, s))
	require.Equal(t, driver.CUDA_ERROR_INVALID_VALUE, d.MemFreeAsync(ptr, s), "double free must be detected")
	require.Equal(t, 1, d.LiveAllocations(), "free is still queued")
	require.Equal(t, driver.CUDA_SUCCESS, d.StreamDestroy(s))
	require.Zero(t, d.LiveAllocations())
	require.Zero(t, d.LiveStreams())
}

func TestOutOfRangeAndOutOfMemory(t *testing.T) {
	d, s := newWithContext(t)
	d.SetTotalMemory(0, 16)
	_, r := d.MemAllocAsync(32, s)
	require.Equal(t, driver.CUDA_ERROR_OUT_OF_MEMORY, r)
	ptr, r := d.MemAllocAsync(8, s)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	require.Equal(t, driver.CUDA_ERROR_INVALID_VALUE, d.MemsetD8Async(ptr, 0, 9, s))
	require.Equal(t, driver.CUDA_ERROR_INVALID_VALUE, d.MemsetD8Async(ptr+1024, 0, 1, s))
}

func TestFailNext(t *testing.T) {
	d, _ := newWithContext(t)
	d.FailNext("cuStreamCreate", driver.CUDA_ERROR_OUT_OF_MEMORY)
	d.FailNext("cuStreamCreate", driver.CUDA_ERROR_UNKNOWN)
	_, r := d.StreamCreate(driver.StreamNonBlocking)
	require.Equal(t, driver.CUDA_ERROR_OUT_OF_MEMORY, r)
	_, r = d.StreamCreate(driver.StreamNonBlocking)
	require.Equal(t, driver.CUDA_ERROR_UNKNOWN, r)
	_, r = d.StreamCreate(driver.StreamNonBlocking)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	require.Equal(t, 2, d.LiveStreams())
}

func TestContextRefCount(t *testing.T) {
	d := New(2)
	require.Equal(t, driver.CUDA_SUCCESS, d.Init(0))
	ctx1, r := d.DevicePrimaryCtxRetain(1)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	ctx2, r := d.DevicePrimaryCtxRetain(1)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	require.Equal(t, ctx1, ctx2)
	require.Equal(t, 2, d.ContextRefCount(1))
	require.Zero(t, d.ContextRefCount(0))
	require.Equal(t, driver.CUDA_SUCCESS, d.DevicePrimaryCtxRelease(1))
	require.Equal(t, driver.CUDA_SUCCESS, d.DevicePrimaryCtxRelease(1))
	require.Equal(t, driver.CUDA_ERROR_INVALID_CONTEXT, d.DevicePrimaryCtxRelease(1))
	require.Equal(t, driver.CUDA_ERROR_INVALID_CONTEXT, d.CtxSetCurrent(ctx1), "released context can't be made current")
}

func TestModulesAndKernels(t *testing.T) {
	d, s := newWithContext(t)
	image := []byte("fake ptx")
	d.RegisterImage(image, map[string]Kernel{
		"store": func(params []unsafe.Pointer) func(Memory) {
			ptr := *(*driver.DevicePtr)(params[0])
			value := *(*uint32)(params[1])
			return func(mem Memory) {
				binary.LittleEndian.PutUint32(mem.Bytes(ptr), value)
			}
		},
	})
	_, r := d.ModuleLoadData([]byte("unknown"))
	require.Equal(t, driver.CUDA_ERROR_INVALID_IMAGE, r)
	m, r := d.ModuleLoadData(image)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	_, r = d.ModuleGetFunction(m, "load")
	require.Equal(t, driver.CUDA_ERROR_NOT_FOUND, r)
	f, r := d.ModuleGetFunction(m, "store")
	require.Equal(t, driver.CUDA_SUCCESS, r)

	ptr, r := d.MemAllocAsync(4, s)
	require.Equal(t, driver.CUDA_SUCCESS, r)
	value := uint32(7)
	one := driver.Dim3{X: 1, Y: 1, Z: 1}
	require.Equal(t, driver.CUDA_ERROR_INVALID_VALUE,
		d.LaunchKernel(f, driver.Dim3{}, one, 0, s, []unsafe.Pointer{unsafe.Pointer(&ptr), unsafe.Pointer(&value)}))
	require.Equal(t, driver.CUDA_SUCCESS,
		d.LaunchKernel(f, one, one, 0, s, []unsafe.Pointer{unsafe.Pointer(&ptr), unsafe.Pointer(&value)}))
	require.Equal(t, driver.CUDA_SUCCESS, d.StreamSynchronize(s))
	require.Equal(t, uint32(7), binary.LittleEndian.Uint32(d.DeviceBytes(ptr)))

	require.Equal(t, driver.CUDA_SUCCESS, d.ModuleUnload(m))
	require.Equal(t, driver.CUDA_ERROR_INVALID_HANDLE, d.ModuleUnload(m))
	require.Equal(t, driver.CUDA_ERROR_INVALID_HANDLE, d.LaunchKernel(f, one, one, 0, s, nil))
	require.Zero(t, d.LiveModules())
}
