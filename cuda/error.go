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

	"github.com/gomlx/gocuda/driver"
	"github.com/pkg/errors"
)

// Error is a failed driver call: the status code returned and the name of the driver entry point.
//
// Errors returned by this package wrap *Error (with a stack trace and possibly extra context), use Code or IsCode
// to inspect them.
type Error struct {
	Code driver.Result
	Call string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("CUDA error %s (code=%d) in %s", e.Code, int32(e.Code), e.Call)
}

// toError converts the result of the driver entry point call to a Go error, with a stack trace
// (see github.com/pkg/errors package).
// It returns nil if r is CUDA_SUCCESS.
func toError(call string, r driver.Result) error {
	if r == driver.CUDA_SUCCESS {
		return nil
	}
	return errors.WithStack(&Error{Code: r, Call: call})
}

// Code returns the status code of the driver call that caused err, if err wraps an *Error.
func Code(err error) (driver.Result, bool) {
	var cudaErr *Error
	if errors.As(err, &cudaErr) {
		return cudaErr.Code, true
	}
	return driver.CUDA_SUCCESS, false
}

// IsCode returns whether err was caused by a driver call that returned code.
func IsCode(err error, code driver.Result) bool {
	c, ok := Code(err)
	return ok && c == code
}
