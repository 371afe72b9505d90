// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// RenderTexture is an offscreen, non-window-backed render target,
// functioning like a Surface. It is used for headless rendering
// and testing, where no display surface exists.
type RenderTexture struct {
	// GPU is the physical GPU this target renders on.
	GPU *GPU

	// Format is the color texture format, RGBA8 sRGB.
	Format wgpu.TextureFormat

	// Frame is the color target texture.
	Frame *Texture

	render Render
	device *Device
}

// NewRenderTexture returns a new offscreen render target of the
// given size, with its own device.
func NewRenderTexture(gp *GPU, size image.Point) *RenderTexture {
	rt := &RenderTexture{GPU: gp, Format: wgpu.TextureFormatRGBA8UnormSrgb}
	rt.device = NewDevice(gp)
	rt.render.Config(rt.device, rt.Format, size, true)
	rt.Frame = NewTexture(rt.device)
	rt.Frame.Name = "offscreen"
	rt.Frame.ConfigRenderTexture(rt.device, rt.Format, size)
	return rt
}

func (rt *RenderTexture) Device() *Device { return rt.device }
func (rt *RenderTexture) Render() *Render { return &rt.render }

func (rt *RenderTexture) Size() image.Point { return rt.Frame.Size }

func (rt *RenderTexture) SetSize(size image.Point) {
	if size.X == 0 || size.Y == 0 || size == rt.Frame.Size {
		return
	}
	rt.render.SetSize(size)
	rt.Frame.ConfigRenderTexture(rt.device, rt.Format, size)
}

// GetCurrentTexture returns a new view of the frame texture. The
// caller releases it after the frame; the frame texture itself
// persists across frames.
func (rt *RenderTexture) GetCurrentTexture() (*wgpu.TextureView, error) {
	return rt.Frame.NewView()
}

// Present is a no-op for an offscreen target.
func (rt *RenderTexture) Present() {}

func (rt *RenderTexture) Release() {
	if rt.Frame != nil {
		rt.Frame.Release()
		rt.Frame = nil
	}
	rt.render.Release()
	if rt.device != nil {
		rt.device.Release()
		rt.device = nil
	}
}
