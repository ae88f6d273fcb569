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

package driver

// Result is the status code returned by every CUDA driver entry point (CUresult).
//
// CUDA_SUCCESS is the only value that is not an error.
type Result int32

//go:generate go tool enumer -type=Result result.go

// Values copied from cuda.h (enum cudaError_enum). Deprecated and reserved values are left out.
const (
	CUDA_SUCCESS                              Result = 0
	CUDA_ERROR_INVALID_VALUE                  Result = 1
	CUDA_ERROR_OUT_OF_MEMORY                  Result = 2
	CUDA_ERROR_NOT_INITIALIZED                Result = 3
	CUDA_ERROR_DEINITIALIZED                  Result = 4
	CUDA_ERROR_PROFILER_DISABLED              Result = 5
	CUDA_ERROR_STUB_LIBRARY                   Result = 34
	CUDA_ERROR_DEVICE_UNAVAILABLE             Result = 46
	CUDA_ERROR_NO_DEVICE                      Result = 100
	CUDA_ERROR_INVALID_DEVICE                 Result = 101
	CUDA_ERROR_DEVICE_NOT_LICENSED            Result = 102
	CUDA_ERROR_INVALID_IMAGE                  Result = 200
	CUDA_ERROR_INVALID_CONTEXT                Result = 201
	CUDA_ERROR_MAP_FAILED                     Result = 205
	CUDA_ERROR_UNMAP_FAILED                   Result = 206
	CUDA_ERROR_ARRAY_IS_MAPPED                Result = 207
	CUDA_ERROR_ALREADY_MAPPED                 Result = 208
	CUDA_ERROR_NO_BINARY_FOR_GPU              Result = 209
	CUDA_ERROR_ALREADY_ACQUIRED               Result = 210
	CUDA_ERROR_NOT_MAPPED                     Result = 211
	CUDA_ERROR_ECC_UNCORRECTABLE              Result = 214
	CUDA_ERROR_UNSUPPORTED_LIMIT              Result = 215
	CUDA_ERROR_CONTEXT_ALREADY_IN_USE         Result = 216
	CUDA_ERROR_PEER_ACCESS_UNSUPPORTED        Result = 217
	CUDA_ERROR_INVALID_PTX                    Result = 218
	CUDA_ERROR_INVALID_GRAPHICS_CONTEXT       Result = 219
	CUDA_ERROR_NVLINK_UNCORRECTABLE           Result = 220
	CUDA_ERROR_JIT_COMPILER_NOT_FOUND         Result = 221
	CUDA_ERROR_UNSUPPORTED_PTX_VERSION        Result = 222
	CUDA_ERROR_JIT_COMPILATION_DISABLED       Result = 223
	CUDA_ERROR_INVALID_SOURCE                 Result = 300
	CUDA_ERROR_FILE_NOT_FOUND                 Result = 301
	CUDA_ERROR_SHARED_OBJECT_SYMBOL_NOT_FOUND Result = 302
	CUDA_ERROR_SHARED_OBJECT_INIT_FAILED      Result = 303
	CUDA_ERROR_OPERATING_SYSTEM               Result = 304
	CUDA_ERROR_INVALID_HANDLE                 Result = 400
	CUDA_ERROR_ILLEGAL_STATE                  Result = 401
	CUDA_ERROR_NOT_FOUND                      Result = 500
	CUDA_ERROR_NOT_READY                      Result = 600
	CUDA_ERROR_ILLEGAL_ADDRESS                Result = 700
	CUDA_ERROR_LAUNCH_OUT_OF_RESOURCES        Result = 701
	CUDA_ERROR_LAUNCH_TIMEOUT                 Result = 702
	CUDA_ERROR_PEER_ACCESS_ALREADY_ENABLED    Result = 704
	CUDA_ERROR_PEER_ACCESS_NOT_ENABLED        Result = 705
	CUDA_ERROR_PRIMARY_CONTEXT_ACTIVE         Result = 708
	CUDA_ERROR_CONTEXT_IS_DESTROYED           Result = 709
	CUDA_ERROR_ASSERT                         Result = 710
	CUDA_ERROR_TOO_MANY_PEERS                 Result = 711
	CUDA_ERROR_HARDWARE_STACK_ERROR           Result = 714
	CUDA_ERROR_ILLEGAL_INSTRUCTION            Result = 715
	CUDA_ERROR_MISALIGNED_ADDRESS             Result = 716
	CUDA_ERROR_INVALID_ADDRESS_SPACE          Result = 717
	CUDA_ERROR_INVALID_PC                     Result = 718
	CUDA_ERROR_LAUNCH_FAILED                  Result = 719
	CUDA_ERROR_COOPERATIVE_LAUNCH_TOO_LARGE   Result = 720
	CUDA_ERROR_NOT_PERMITTED                  Result = 800
	CUDA_ERROR_NOT_SUPPORTED                  Result = 801
	CUDA_ERROR_SYSTEM_NOT_READY               Result = 802
	CUDA_ERROR_SYSTEM_DRIVER_MISMATCH         Result = 803
	CUDA_ERROR_STREAM_CAPTURE_UNSUPPORTED     Result = 900
	CUDA_ERROR_STREAM_CAPTURE_INVALIDATED     Result = 901
	CUDA_ERROR_TIMEOUT                        Result = 909
	CUDA_ERROR_UNKNOWN                        Result = 999
)

// IsSuccess returns whether r is CUDA_SUCCESS.
func (r Result) IsSuccess() bool {
	return r == CUDA_SUCCESS
}
