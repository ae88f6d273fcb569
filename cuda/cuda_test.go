package cuda

// Common initialization and testing tools for all test files.

import (
	"flag"
	"slices"
	"testing"

	"github.com/gomlx/gocuda/driver"
	"github.com/gomlx/gocuda/driver/fakedriver"
	"github.com/gomlx/gocuda/driver/libcuda"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

var flagDriver = flag.String("driver", "fake", "driver to test with: \"fake\" for the simulated device or \"cuda\" for the real one")

func init() {
	klog.InitFlags(nil)
}

type errTester[T any] struct {
	value T
	err   error
}

// capture is a shortcut to test that there is no error and return the value.
func capture[T any](value T, err error) errTester[T] {
	return errTester[T]{value, err}
}

func (e errTester[T]) Test(t *testing.T) T {
	require.NoError(t, e.err)
	return e.value
}

// getDriver returns the driver selected by -driver. It skips the test if it requires a GPU and there is none.
func getDriver(t testing.TB) driver.Driver {
	switch *flagDriver {
	case "fake":
		return fakedriver.New(1)
	case "cuda":
		if !libcuda.HasNvidiaGPU() {
			t.Skip("No NVidia GPU available")
		}
		drv, err := libcuda.Load()
		require.NoError(t, err)
		return drv
	}
	t.Fatalf("unknown -driver=%q, valid values are \"fake\" and \"cuda\"", *flagDriver)
	return nil
}

// getFake returns a new fake driver with one device, for tests that inspect the driver state.
// They are skipped when testing the real driver.
func getFake(t *testing.T) *fakedriver.Driver {
	if *flagDriver != "fake" {
		t.Skipf("test requires the fake driver, running with -driver=%s", *flagDriver)
	}
	return fakedriver.New(1)
}

// newTestDevice creates device 0 on drv, destroyed at the end of the test.
func newTestDevice(t *testing.T, drv driver.Driver) *Device {
	dev := capture(NewDevice(drv, 0)).Test(t)
	t.Cleanup(func() { require.NoError(t, dev.Destroy()) })
	return dev
}

// workCalls filters out the calls to cuCtxSetCurrent, issued at the start of every operation.
func workCalls(fake *fakedriver.Driver) []string {
	return slices.DeleteFunc(fake.Calls(), func(call string) bool { return call == "cuCtxSetCurrent" })
}
