package cuda

import (
	"testing"

	"github.com/gomlx/gocuda/driver"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

type particle struct {
	Position [3]float32
	Mass     float64
	Charge   int8
	Active   bool
}

func TestAllocZeros(t *testing.T) {
	dev := newTestDevice(t, getDriver(t))
	require.Equal(t, int64(0), capture(capture(AllocZeros[int64](dev)).Test(t).Release()).Test(t))
	require.Equal(t, [5]float32{}, capture(capture(AllocZeros[[5]float32](dev)).Test(t).Release()).Test(t))
	require.Equal(t, particle{}, capture(capture(AllocZeros[particle](dev)).Test(t).Release()).Test(t))
	require.Zero(t, dev.NumAllocations())
}

func TestCopyToDeviceRoundTrip(t *testing.T) {
	dev := newTestDevice(t, getDriver(t))
	require.Equal(t, int32(42), capture(capture(CopyToDevice(dev, int32(42))).Test(t).Release()).Test(t))
	require.Equal(t, complex(1.5, -2), capture(capture(CopyToDevice(dev, complex(1.5, -2))).Test(t).Release()).Test(t))

	p := particle{Position: [3]float32{1, 2, 3}, Mass: 0.5, Charge: -1, Active: true}
	require.Equal(t, p, capture(capture(CopyToDevice(dev, p)).Test(t).Release()).Test(t))

	half := [4]float16.Float16{float16.Fromfloat32(0.5), float16.Fromfloat32(-1), float16.Inf(1), float16.Fromfloat32(65504)}
	got := capture(capture(CopyToDevice(dev, half)).Test(t).Release()).Test(t)
	require.Equal(t, half, got)
	require.Equal(t, float32(65504), got[3].Float32())
	require.Zero(t, dev.NumAllocations())
}

func TestMemoryAccessors(t *testing.T) {
	dev := newTestDevice(t, getDriver(t))
	mem := capture(CopyToDevice(dev, int64(-3))).Test(t)
	require.True(t, mem.IsValid())
	require.Equal(t, uintptr(8), mem.Size())
	require.NotZero(t, mem.DevicePtr())
	require.Same(t, dev, mem.Device())
	require.Equal(t, 1, dev.NumAllocations())
	require.Contains(t, mem.String(), "cuda.Memory[int64]")

	require.NoError(t, mem.Free())
	require.False(t, mem.IsValid())
	require.Zero(t, mem.DevicePtr())
	require.Contains(t, mem.String(), "released")
	require.Zero(t, dev.NumAllocations())
}

func TestReleaseConsumesHandle(t *testing.T) {
	dev := newTestDevice(t, getDriver(t))
	mem := capture(CopyToDevice(dev, uint16(11))).Test(t)
	require.Equal(t, uint16(11), capture(mem.Release()).Test(t))
	require.Panics(t, func() { _, _ = mem.Release() })
	require.NoError(t, mem.Free(), "Free after Release is a no-op")

	mem = capture(AllocZeros[uint16](dev)).Test(t)
	require.NoError(t, mem.Free())
	require.NoError(t, mem.Free(), "Free is idempotent")
	require.Panics(t, func() { _, _ = mem.Release() })

	var nilMem *Memory[int]
	require.Panics(t, func() { _, _ = nilMem.Release() })
	require.NoError(t, nilMem.Free())
}

func TestReleaseAfterDestroy(t *testing.T) {
	dev := capture(NewDevice(getDriver(t), 0)).Test(t)
	mem := capture(CopyToDevice(dev, 1.0)).Test(t)
	require.NoError(t, dev.Destroy())
	_, err := mem.Release()
	require.ErrorContains(t, err, "destroyed")
	require.Panics(t, func() { _, _ = mem.Release() })

	_, err = AllocZeros[int32](dev)
	require.Error(t, err)
	_, err = CopyToDevice(dev, int32(1))
	require.Error(t, err)
}

func TestFailedCopyReclaimedAtTeardown(t *testing.T) {
	fake := getFake(t)
	alive := AllocationsAlive()
	dev := capture(NewDevice(fake, 0)).Test(t)
	fake.FailNext("cuMemcpyHtoDAsync", driver.CUDA_ERROR_UNKNOWN)
	_, err := CopyToDevice(dev, int32(42))
	require.True(t, IsCode(err, driver.CUDA_ERROR_UNKNOWN), "got %+v", err)
	require.Equal(t, 1, dev.NumAllocations(), "allocation stays with the device")

	fake.FailNext("cuMemsetD8Async", driver.CUDA_ERROR_UNKNOWN)
	_, err = AllocZeros[int32](dev)
	require.True(t, IsCode(err, driver.CUDA_ERROR_UNKNOWN), "got %+v", err)
	require.Equal(t, 2, dev.NumAllocations())
	require.Equal(t, alive+2, AllocationsAlive())

	require.NoError(t, dev.Destroy())
	require.Zero(t, fake.LiveAllocations())
	require.Equal(t, alive, AllocationsAlive())
}

func TestFailedAllocation(t *testing.T) {
	fake := getFake(t)
	fake.SetTotalMemory(0, 16)
	dev := newTestDevice(t, fake)
	_, err := CopyToDevice(dev, [32]byte{})
	require.True(t, IsCode(err, driver.CUDA_ERROR_OUT_OF_MEMORY), "got %+v", err)
	require.Zero(t, dev.NumAllocations())
	require.Zero(t, fake.LiveAllocations())
}

func TestFailedRelease(t *testing.T) {
	fake := getFake(t)
	dev := newTestDevice(t, fake)
	mem := capture(CopyToDevice(dev, int32(42))).Test(t)
	fake.FailNext("cuMemcpyDtoHAsync", driver.CUDA_ERROR_UNKNOWN)
	_, err := mem.Release()
	require.True(t, IsCode(err, driver.CUDA_ERROR_UNKNOWN), "got %+v", err)
	require.Equal(t, 1, dev.NumAllocations(), "allocation is reclaimed when the device is destroyed")
	require.Panics(t, func() { _, _ = mem.Release() })
}

func TestNonPlainTypes(t *testing.T) {
	dev := newTestDevice(t, getDriver(t))
	_, err := AllocZeros[string](dev)
	require.Error(t, err)
	_, err = AllocZeros[*int](dev)
	require.Error(t, err)
	_, err = CopyToDevice(dev, []float32{1, 2})
	require.Error(t, err)
	_, err = CopyToDevice(dev, map[int]int{})
	require.Error(t, err)
	_, err = AllocZeros[struct {
		A int
		B *float64
	}](dev)
	require.Error(t, err)
	_, err = AllocZeros[struct{}](dev)
	require.ErrorContains(t, err, "size 0")
	_, err = CopyToDevice[any](dev, 1)
	require.ErrorContains(t, err, "interface")
	require.Zero(t, dev.NumAllocations())
}

func TestFreeKeepsHostBufferUntilSynchronize(t *testing.T) {
	fake := getFake(t)
	dev := newTestDevice(t, fake)
	mem := capture(CopyToDevice(dev, [4]int32{1, 2, 3, 4})).Test(t)
	require.NoError(t, mem.Free())
	require.Len(t, dev.state.pendingHost, 1, "copy may still be reading the host buffer")
	require.Equal(t, 1, fake.LiveAllocations(), "free is only enqueued")
	require.NoError(t, dev.Synchronize())
	require.Empty(t, dev.state.pendingHost)
	require.Zero(t, fake.LiveAllocations())
}

func TestFinalizeMemory(t *testing.T) {
	dev := newTestDevice(t, getDriver(t))
	mem := capture(AllocZeros[int32](dev)).Test(t)
	finalizeMemory(mem.alloc) // Only logs.
	require.Equal(t, 1, dev.NumAllocations())
	require.NoError(t, mem.Free())
	finalizeMemory(mem.alloc)
}

func BenchmarkRoundTrip(b *testing.B) {
	dev := must.M1(NewDevice(getDriver(b), 0))
	defer func() { must.M(dev.Destroy()) }()
	value := [256]float32{}
	for b.Loop() {
		mem := must.M1(CopyToDevice(dev, value))
		value = must.M1(mem.Release())
	}
}
