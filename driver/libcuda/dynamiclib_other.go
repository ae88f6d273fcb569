//go:build !linux

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

package libcuda

import (
	"runtime"

	"github.com/pkg/errors"
)

func loadDriver() (*Driver, error) {
	return nil, errors.Errorf("the CUDA driver library is only supported on linux, not on %s", runtime.GOOS)
}

// HasNvidiaGPU always returns false outside linux.
func HasNvidiaGPU() bool {
	return false
}
