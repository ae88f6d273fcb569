package cuda

import (
	"testing"

	"github.com/gomlx/gocuda/driver"
	"github.com/gomlx/gocuda/driver/fakedriver"
	"github.com/stretchr/testify/require"
)

func TestNewDevice(t *testing.T) {
	drv := getDriver(t)
	alive := DevicesAlive()
	dev := capture(NewDevice(drv, 0)).Test(t)
	require.True(t, dev.IsValid())
	require.Equal(t, alive+1, DevicesAlive())
	require.Equal(t, 0, dev.Ordinal())
	require.NotEmpty(t, dev.Name())
	require.Positive(t, dev.TotalMemory())
	require.Same(t, drv, dev.Driver())
	require.NotZero(t, dev.Stream())
	require.Zero(t, dev.NumAllocations())
	require.Empty(t, dev.ModuleNames())
	t.Logf("%s", dev)

	require.NoError(t, dev.Synchronize())
	require.NoError(t, dev.Destroy())
	require.False(t, dev.IsValid())
	require.Equal(t, alive, DevicesAlive())
	require.Contains(t, dev.String(), "destroyed")

	// Idempotent.
	require.NoError(t, dev.Destroy())
	require.Error(t, dev.Synchronize())
}

func TestDeviceCount(t *testing.T) {
	fake := getFake(t)
	require.Equal(t, 1, capture(DeviceCount(fake)).Test(t))
	require.Equal(t, 3, capture(DeviceCount(fakedriver.New(3))).Test(t))
}

func TestNewDeviceInvalidOrdinal(t *testing.T) {
	fake := getFake(t)
	alive := DevicesAlive()
	_, err := NewDevice(fake, 999)
	require.Error(t, err)
	require.True(t, IsCode(err, driver.CUDA_ERROR_INVALID_DEVICE), "got %+v", err)
	code, ok := Code(err)
	require.True(t, ok)
	require.Equal(t, driver.CUDA_ERROR_INVALID_DEVICE, code)
	require.Contains(t, err.Error(), "CUDA_ERROR_INVALID_DEVICE")
	require.Contains(t, err.Error(), "cuDeviceGet")

	// Nothing is left alive.
	require.Equal(t, alive, DevicesAlive())
	require.Zero(t, fake.ContextRefCount(0))
	require.Zero(t, fake.LiveStreams())
}

func TestNewDeviceRollback(t *testing.T) {
	fake := getFake(t)
	fake.FailNext("cuStreamCreate", driver.CUDA_ERROR_OUT_OF_MEMORY)
	_, err := NewDevice(fake, 0)
	require.True(t, IsCode(err, driver.CUDA_ERROR_OUT_OF_MEMORY), "got %+v", err)
	require.Zero(t, fake.ContextRefCount(0), "primary context should have been released")
	require.Zero(t, fake.LiveStreams())

	fake.FailNext("cuCtxSetCurrent", driver.CUDA_ERROR_INVALID_CONTEXT)
	_, err = NewDevice(fake, 0)
	require.True(t, IsCode(err, driver.CUDA_ERROR_INVALID_CONTEXT), "got %+v", err)
	require.Zero(t, fake.ContextRefCount(0))

	fake.FailNext("cuInit", driver.CUDA_ERROR_UNKNOWN)
	_, err = NewDevice(fake, 0)
	require.True(t, IsCode(err, driver.CUDA_ERROR_UNKNOWN), "got %+v", err)

	// Recovers once the failures are gone.
	dev := newTestDevice(t, fake)
	require.Equal(t, 1, fake.ContextRefCount(0))
	require.Equal(t, 1, fake.LiveStreams())
	require.True(t, dev.IsValid())
}

func TestNewDeviceQueriesNotFatal(t *testing.T) {
	fake := getFake(t)
	fake.FailNext("cuDeviceGetName", driver.CUDA_ERROR_UNKNOWN)
	fake.FailNext("cuDeviceTotalMem", driver.CUDA_ERROR_UNKNOWN)
	dev := newTestDevice(t, fake)
	require.Empty(t, dev.Name())
	require.Zero(t, dev.TotalMemory())
}

func TestDeviceConfig(t *testing.T) {
	fake := getFake(t)
	_, err := New(nil).Done()
	require.Error(t, err)

	_, err = New(fake).WithStreamFlags(driver.StreamFlags(7)).WithOrdinal(0).Done()
	require.ErrorContains(t, err, "StreamFlags(7)")

	dev := capture(New(fake).WithOrdinal(0).WithStreamFlags(driver.StreamDefault).WithLeakStacks(true).Done()).Test(t)
	require.NotEmpty(t, dev.state.stack)
	require.True(t, dev.state.leakStacks)
	require.NoError(t, dev.Destroy())
}

func TestSameOrdinalTwice(t *testing.T) {
	fake := getFake(t)
	dev1 := capture(NewDevice(fake, 0)).Test(t)
	dev2 := capture(NewDevice(fake, 0)).Test(t)
	require.Equal(t, 2, fake.ContextRefCount(0))
	require.NotEqual(t, dev1.Stream(), dev2.Stream())

	require.NoError(t, dev1.Destroy())
	require.Equal(t, 1, fake.ContextRefCount(0))
	mem := capture(CopyToDevice(dev2, int32(42))).Test(t)
	require.Equal(t, int32(42), capture(mem.Release()).Test(t))
	require.NoError(t, dev2.Destroy())
	require.Zero(t, fake.ContextRefCount(0))
}

func TestTeardownOrder(t *testing.T) {
	fake := getFake(t)
	fake.RegisterImage([]byte("module A"), map[string]fakedriver.Kernel{"a": nil})
	fake.RegisterImage([]byte("module B"), map[string]fakedriver.Kernel{"b": nil})
	allocationsAlive := AllocationsAlive()
	dev := capture(NewDevice(fake, 0)).Test(t)
	capture(dev.LoadModule("A").FromImage([]byte("module A")).WithFunctions("a").Done()).Test(t)
	capture(dev.LoadModule("B").FromImage([]byte("module B")).WithFunctions("b").Done()).Test(t)
	zeros := capture(AllocZeros[int64](dev)).Test(t)
	value := capture(CopyToDevice(dev, 3.0)).Test(t)
	released := capture(CopyToDevice(dev, uint8(1))).Test(t)
	require.Equal(t, uint8(1), capture(released.Release()).Test(t))
	require.Equal(t, 2, dev.NumAllocations())
	require.Equal(t, allocationsAlive+2, AllocationsAlive())

	fake.ResetCalls()
	require.NoError(t, dev.Destroy())
	require.Equal(t, []string{
		"cuMemFreeAsync", "cuMemFreeAsync",
		"cuStreamSynchronize",
		"cuModuleUnload", "cuModuleUnload",
		"cuStreamDestroy",
		"cuDevicePrimaryCtxRelease",
	}, workCalls(fake))
	require.Zero(t, fake.LiveAllocations())
	require.Zero(t, fake.LiveModules())
	require.Zero(t, fake.LiveStreams())
	require.Zero(t, fake.ContextRefCount(0))
	require.Equal(t, allocationsAlive, AllocationsAlive())
	require.Zero(t, dev.NumAllocations())
	require.Empty(t, dev.ModuleNames())

	// Handles of the destroyed device.
	_, err := zeros.Release()
	require.Error(t, err)
	require.NoError(t, value.Free())
	require.Zero(t, value.DevicePtr())

	// Destroy again is a no-op.
	fake.ResetCalls()
	require.NoError(t, dev.Destroy())
	require.Empty(t, fake.Calls())
}

func TestDestroyContinuesPastFailures(t *testing.T) {
	fake := getFake(t)
	fake.RegisterImage([]byte("module"), nil)
	dev := capture(NewDevice(fake, 0)).Test(t)
	capture(dev.LoadModule("m").FromImage([]byte("module")).Done()).Test(t)
	capture(AllocZeros[float32](dev)).Test(t)

	fake.FailNext("cuModuleUnload", driver.CUDA_ERROR_UNKNOWN)
	fake.FailNext("cuStreamDestroy", driver.CUDA_ERROR_INVALID_HANDLE)
	err := dev.Destroy()
	require.True(t, IsCode(err, driver.CUDA_ERROR_UNKNOWN), "first error should be returned, got %+v", err)
	require.False(t, dev.IsValid())
	require.Zero(t, fake.ContextRefCount(0), "context must be released even if previous steps failed")
	require.Zero(t, fake.LiveAllocations())
}

func TestSynchronize(t *testing.T) {
	fake := getFake(t)
	dev := newTestDevice(t, fake)
	mem := capture(CopyToDevice(dev, int64(7))).Test(t)
	require.Equal(t, 2, fake.Pending(dev.Stream()), "allocation and copy should be enqueued")
	require.NoError(t, dev.Synchronize())
	require.Zero(t, fake.Pending(dev.Stream()))
	require.Equal(t, []byte{7, 0, 0, 0, 0, 0, 0, 0}, fake.DeviceBytes(mem.DevicePtr()))

	fake.FailNext("cuStreamSynchronize", driver.CUDA_ERROR_LAUNCH_FAILED)
	err := dev.Synchronize()
	require.True(t, IsCode(err, driver.CUDA_ERROR_LAUNCH_FAILED), "got %+v", err)
	require.NoError(t, mem.Free())
}

func TestFinalizeDevice(t *testing.T) {
	fake := getFake(t)
	alive := DevicesAlive()
	dev := capture(NewDevice(fake, 0)).Test(t)
	capture(AllocZeros[int32](dev)).Test(t)
	finalizeDevice(dev.state)
	require.False(t, dev.IsValid())
	require.Equal(t, alive, DevicesAlive())
	require.Zero(t, fake.LiveAllocations())
	require.Zero(t, fake.ContextRefCount(0))

	// Already destroyed: nothing happens.
	fake.ResetCalls()
	finalizeDevice(dev.state)
	require.Empty(t, fake.Calls())
}
