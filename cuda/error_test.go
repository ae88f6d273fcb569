package cuda

import (
	"testing"

	"github.com/gomlx/gocuda/driver"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestToError(t *testing.T) {
	require.NoError(t, toError("cuInit", driver.CUDA_SUCCESS))

	err := toError("cuMemAllocAsync", driver.CUDA_ERROR_OUT_OF_MEMORY)
	require.EqualError(t, err, "CUDA error CUDA_ERROR_OUT_OF_MEMORY (code=2) in cuMemAllocAsync")
	require.True(t, IsCode(err, driver.CUDA_ERROR_OUT_OF_MEMORY))
	require.False(t, IsCode(err, driver.CUDA_ERROR_INVALID_VALUE))

	// Context added by composite operations keeps the code.
	wrapped := errors.WithMessagef(err, "allocating %d bytes", 1<<40)
	code, ok := Code(wrapped)
	require.True(t, ok)
	require.Equal(t, driver.CUDA_ERROR_OUT_OF_MEMORY, code)

	_, ok = Code(errors.New("not from the driver"))
	require.False(t, ok)
	require.False(t, IsCode(nil, driver.CUDA_SUCCESS))

	require.Contains(t, toError("cuInit", driver.Result(12345)).Error(), "Result(12345)")
}
