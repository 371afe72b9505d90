// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Debug enables extra logging of GPU operations.
var Debug = false

var theInstance *wgpu.Instance

// Instance returns the WebGPU instance, creating it on first call.
// Instance creation happens once per process.
func Instance() *wgpu.Instance {
	if theInstance == nil {
		theInstance = wgpu.CreateInstance(nil)
	}
	return theInstance
}

// GPU represents the physical GPU hardware: the adapter selected
// for rendering and its capability limits. A single GPU can serve
// multiple Devices and Surfaces.
type GPU struct {
	// Adapter is the selected adapter.
	Adapter *wgpu.Adapter

	// Limits are the supported limits reported by the adapter,
	// used for uniform offset alignment and capability checks.
	Limits wgpu.SupportedLimits

	// Properties are the adapter info properties, for diagnostics.
	Properties wgpu.AdapterInfo
}

// NewGPU returns a new GPU with a high-performance adapter
// compatible with the given surface (which can be nil for
// offscreen-only rendering). Adapter acquisition blocks until
// the handshake completes; there is no software fallback, so
// failure is fatal.
func NewGPU(sf *wgpu.Surface) *GPU {
	gp := &GPU{}
	gp.init(sf)
	return gp
}

func (gp *GPU) init(sf *wgpu.Surface) {
	inst := Instance()
	ad, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
		CompatibleSurface: sf,
	})
	if err != nil {
		Fatal(fmt.Errorf("gpu: no compatible GPU adapter found: %w", err))
	}
	gp.Adapter = ad
	gp.Limits = ad.GetLimits()
	gp.Properties = ad.GetInfo()
	gp.checkLimits()
	if Debug {
		slog.Info("gpu: selected adapter", "name", gp.Properties.Name)
	}
}

// checkLimits verifies the hard capability requirements for the
// rendering scheme: four bind groups (camera, texture, lights,
// per-object), a uniform binding large enough for the packed light
// block, and a sane dynamic offset alignment. These must hold on
// any conformant WebGPU implementation; an adapter that fails
// them cannot render the scene at all.
func (gp *GPU) checkLimits() {
	lm := &gp.Limits.Limits
	if lm.MaxBindGroups < 4 {
		Fatal(fmt.Errorf("gpu: adapter %q supports only %d bind groups, need 4",
			gp.Properties.Name, lm.MaxBindGroups))
	}
	if lm.MaxUniformBufferBindingSize < 1024 {
		Fatal(fmt.Errorf("gpu: adapter %q uniform binding size %d too small for light block",
			gp.Properties.Name, lm.MaxUniformBufferBindingSize))
	}
	if lm.MinUniformBufferOffsetAlignment == 0 {
		Fatal(fmt.Errorf("gpu: adapter %q reports zero uniform offset alignment",
			gp.Properties.Name))
	}
}

// UniformAlign returns the required alignment for dynamic uniform
// buffer offsets on this adapter.
func (gp *GPU) UniformAlign() int {
	return int(gp.Limits.Limits.MinUniformBufferOffsetAlignment)
}

func (gp *GPU) Release() {
	if gp.Adapter != nil {
		gp.Adapter.Release()
		gp.Adapter = nil
	}
}

// Fatal logs the given unrecoverable error and exits the process.
// Used for the fatal class of failures: adapter and device
// acquisition, library load failures, and catalog misses, where
// continuing to render is not possible.
func Fatal(err error) {
	errors.Log(err)
	os.Exit(1)
}

// MemSizeAlign returns the size aligned according to align byte increments,
// e.g., if align = 16 and size = 12, it returns 16.
func MemSizeAlign(size, align int) int {
	if size%align == 0 {
		return size
	}
	nb := size / align
	return (nb + 1) * align
}

// IsSurfaceOutdated reports whether the given surface frame
// acquisition error is the transient "outdated" condition that
// races a resize, which callers handle by skipping the frame.
// All other acquisition errors are unrecoverable.
func IsSurfaceOutdated(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "outdated") || strings.Contains(msg, "lost") ||
		strings.Contains(msg, "suboptimal")
}
