package driver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultString(t *testing.T) {
	require.Equal(t, "CUDA_SUCCESS", CUDA_SUCCESS.String())
	require.Equal(t, "CUDA_ERROR_INVALID_DEVICE", CUDA_ERROR_INVALID_DEVICE.String())
	require.Equal(t, "CUDA_ERROR_UNKNOWN", CUDA_ERROR_UNKNOWN.String())
	require.Equal(t, "Result(12345)", Result(12345).String())

	r, err := ResultString("cuda_error_out_of_memory")
	require.NoError(t, err)
	require.Equal(t, CUDA_ERROR_OUT_OF_MEMORY, r)
	_, err = ResultString("CUDA_ERROR_MILLIWAYS")
	require.Error(t, err)

	require.True(t, CUDA_SUCCESS.IsSuccess())
	require.False(t, CUDA_ERROR_NOT_READY.IsSuccess())
	require.False(t, Result(-1).IsAResult())
}

func TestStreamFlagsString(t *testing.T) {
	require.Equal(t, "CU_STREAM_NON_BLOCKING", StreamNonBlocking.String())
	require.Equal(t, "StreamFlags(7)", StreamFlags(7).String())
}
