// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Device is the logical GPU device and its command queue.
// All GPU objects are created against a Device and must be
// released before the Device itself.
type Device struct {
	// Device is the logical device.
	Device *wgpu.Device

	// Queue is the command queue for this device.
	Queue *wgpu.Queue
}

// NewDevice returns a new device for the given GPU, with default
// limits. Device acquisition blocks until complete and has no
// fallback path, so failure is fatal.
func NewDevice(gp *GPU) *Device {
	limits := wgpu.DefaultLimits()
	dev, err := gp.Adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "kiln",
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		Fatal(fmt.Errorf("gpu: device acquisition failed: %w", err))
	}
	return &Device{Device: dev, Queue: dev.GetQueue()}
}

func (dv *Device) Release() {
	if dv.Device == nil {
		return
	}
	dv.Device.Poll(true, nil)
	dv.Device.Release()
	dv.Device = nil
	dv.Queue = nil
}

// WaitDone waits until all submitted GPU commands have completed.
func (dv *Device) WaitDone() {
	if dv.Device == nil {
		return
	}
	dv.Device.Poll(true, nil)
}
