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
	"github.com/gomlx/gocuda/driver"
)

// Thin wrappers over the driver entry points: one call each, translated with toError. They don't retry.

func cuInit(drv driver.Driver) error {
	return toError("cuInit", drv.Init(0))
}

func cuDeviceGetCount(drv driver.Driver) (int, error) {
	count, r := drv.DeviceGetCount()
	return count, toError("cuDeviceGetCount", r)
}

func cuDeviceGet(drv driver.Driver, ordinal int) (driver.Device, error) {
	dev, r := drv.DeviceGet(ordinal)
	return dev, toError("cuDeviceGet", r)
}

func cuDeviceGetName(drv driver.Driver, dev driver.Device) (string, error) {
	name, r := drv.DeviceGetName(dev)
	return name, toError("cuDeviceGetName", r)
}

func cuDeviceTotalMem(drv driver.Driver, dev driver.Device) (uint64, error) {
	total, r := drv.DeviceTotalMem(dev)
	return total, toError("cuDeviceTotalMem", r)
}

func cuDevicePrimaryCtxRetain(drv driver.Driver, dev driver.Device) (driver.Context, error) {
	ctx, r := drv.DevicePrimaryCtxRetain(dev)
	return ctx, toError("cuDevicePrimaryCtxRetain", r)
}

func cuDevicePrimaryCtxRelease(drv driver.Driver, dev driver.Device) error {
	return toError("cuDevicePrimaryCtxRelease", drv.DevicePrimaryCtxRelease(dev))
}

func cuCtxSetCurrent(drv driver.Driver, ctx driver.Context) error {
	return toError("cuCtxSetCurrent", drv.CtxSetCurrent(ctx))
}

func cuStreamCreate(drv driver.Driver, flags driver.StreamFlags) (driver.Stream, error) {
	s, r := drv.StreamCreate(flags)
	return s, toError("cuStreamCreate", r)
}

// cuStreamSynchronize is the only blocking call: it waits for all the work enqueued in s.
func cuStreamSynchronize(drv driver.Driver, s driver.Stream) error {
	return toError("cuStreamSynchronize", drv.StreamSynchronize(s))
}

func cuStreamDestroy(drv driver.Driver, s driver.Stream) error {
	return toError("cuStreamDestroy", drv.StreamDestroy(s))
}

// DeviceCount returns the number of devices visible to the driver. It initializes the driver if needed.
func DeviceCount(drv driver.Driver) (int, error) {
	if err := cuInit(drv); err != nil {
		return 0, err
	}
	return cuDeviceGetCount(drv)
}
