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

// Package cuda is an ownership layer over the CUDA driver API: a Device owns a device's primary context,
// a stream, the modules loaded in it and its memory allocations, and releases all of them exactly once,
// in a fixed order, when destroyed.
//
// Device memory is handled by Memory[T], a handle to one value of a plain data type T:
//
//	dev, err := cuda.NewDevice(drv, 0)
//	if err != nil { ... }
//	defer func() { _ = dev.Destroy() }()
//
//	mem, err := cuda.CopyToDevice(dev, int32(42))
//	if err != nil { ... }
//	value, err := mem.Release()  // Waits for the device, value == 42.
//
// Allocations, copies and kernel launches are enqueued on the device stream and return immediately.
// Only Device.Synchronize and Memory.Release wait for the device.
//
// The driver, driver.Driver, is either the real one (see package driver/libcuda) or a simulated one for
// tests (see package driver/fakedriver). Failed driver calls are returned as errors wrapping *Error,
// see Code and IsCode.
//
// Devices and their Memory handles are not safe for concurrent use.
package cuda
