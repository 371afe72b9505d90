// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"
	"image/color"

	"cogentcore.org/core/colors"
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the depth buffer format used for all rendering.
const DepthFormat = wgpu.TextureFormatDepth32Float

// Render holds the render pass configuration for a render target:
// the color format, clear values, and the depth buffer. The Render
// lives on the Surface or RenderTexture that owns the target.
type Render struct {
	// Format is the color attachment texture format.
	Format wgpu.TextureFormat

	// ClearColor is the color the frame is cleared to when a
	// render pass begins.
	ClearColor color.Color

	// ClearDepth is the depth value the depth buffer is cleared
	// to; 1 is the far plane.
	ClearDepth float32

	// Depth is the depth buffer texture, matching the target size.
	Depth Texture

	device *Device
}

// Config configures the render for the given device, color format
// and initial size, with a depth buffer if depth is true.
// Clear values default to black and far depth.
func (rd *Render) Config(dev *Device, format wgpu.TextureFormat, size image.Point, depth bool) {
	rd.device = dev
	rd.Format = format
	rd.ClearColor = colors.Black
	rd.ClearDepth = 1
	if depth {
		rd.Depth.device = dev
		rd.Depth.ConfigDepth(dev, DepthFormat, size)
	}
}

// SetSize updates the depth buffer to the given size.
// The color target is resized by its owner.
func (rd *Render) SetSize(size image.Point) {
	if rd.Depth.texture != nil {
		rd.Depth.ConfigDepth(rd.device, DepthFormat, size)
	}
}

// BeginRenderPass begins a render pass on the given command
// encoder targeting the given view, clearing the color target to
// ClearColor and the depth buffer to ClearDepth.
func (rd *Render) BeginRenderPass(cmd *wgpu.CommandEncoder, view *wgpu.TextureView) *wgpu.RenderPassEncoder {
	r, g, b, a := colors.ToFloat32(rd.ClearColor)
	desc := &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a)},
		}},
	}
	if rd.Depth.view != nil {
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            rd.Depth.view,
			DepthClearValue: rd.ClearDepth,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
		}
	}
	return cmd.BeginRenderPass(desc)
}

func (rd *Render) Release() {
	rd.Depth.Release()
}
