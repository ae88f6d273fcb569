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
	"os"
	"runtime"
	"strconv"

	"k8s.io/klog/v2"
)

// LeakStacksEnv is the environment variable that, if set to true, makes Devices and Memory handles record the stack
// where they were created, to be reported if they are garbage collected without being released.
//
// It can also be set per Device with DeviceConfig.WithLeakStacks.
const LeakStacksEnv = "GOCUDA_LEAK_STACKS"

func leakStacksFromEnv() bool {
	value := os.Getenv(LeakStacksEnv)
	if value == "" {
		return false
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		klog.Warningf("Invalid value for $%s=%q, ignoring it: %v", LeakStacksEnv, value, err)
		return false
	}
	return enabled
}

// captureStack returns the stack of the current goroutine, or nil if not enabled.
func captureStack(enabled bool) []byte {
	if !enabled {
		return nil
	}
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return buf[:n]
}

// reportLeak logs that something was garbage collected without being released.
func reportLeak(what string, stack []byte) {
	if stack == nil {
		klog.Warningf("%s garbage collected without being released -- set $%s=1 to see where it was created", what, LeakStacksEnv)
		return
	}
	klog.Warningf("%s garbage collected without being released. Created at:\n%s\n", what, stack)
}
