// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// Renderer is the interface for something that can be rendered to:
// either a window-backed Surface or an offscreen RenderTexture.
type Renderer interface {
	// Device returns the device this renderer renders to.
	Device() *Device

	// Render returns the render configuration (clear values, depth).
	Render() *Render

	// Size returns the current pixel size of the render target.
	Size() image.Point

	// SetSize sets the render target size. A zero dimension is
	// ignored; an unchanged size is a no-op.
	SetSize(size image.Point)

	// GetCurrentTexture returns the texture view to render into
	// this frame. The caller owns the returned view and must
	// release it when the frame is done. For a Surface the error
	// can be a transient outdated condition; see
	// [IsSurfaceOutdated].
	GetCurrentTexture() (*wgpu.TextureView, error)

	// Present presents the rendered frame (no-op offscreen).
	Present()

	Release()
}

// Surface manages the window surface and its swapchain
// configuration: format, size, and present mode. It implements
// [Renderer] for window-backed rendering.
type Surface struct {
	// GPU is the physical GPU this surface renders on.
	GPU *GPU

	// Format is the surface texture format, the first format
	// reported by the surface capabilities (typically BGRA8 sRGB).
	Format wgpu.TextureFormat

	// Config is the current surface configuration. Width and
	// Height track the window size; mutated only by SetSize.
	Config wgpu.SurfaceConfiguration

	// NeedsRedraw is set by SetSize after a successful
	// reconfigure, and cleared by the caller when it draws.
	NeedsRedraw bool

	render  Render
	surface *wgpu.Surface
	device  *Device
	curTex  *wgpu.Texture
}

// NewSurface configures the given wgpu surface at the given size
// for render-attachment usage with mailbox present mode, creating
// a new device for it. The surface takes ownership of the device.
func NewSurface(gp *GPU, wsurf *wgpu.Surface, size image.Point) *Surface {
	sf := &Surface{GPU: gp, surface: wsurf}
	sf.device = NewDevice(gp)
	caps := wsurf.GetCapabilities(gp.Adapter)
	sf.Format = caps.Formats[0]
	sf.Config = wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      sf.Format,
		Width:       uint32(size.X),
		Height:      uint32(size.Y),
		PresentMode: wgpu.PresentModeMailbox,
		AlphaMode:   caps.AlphaModes[0],
	}
	wsurf.Configure(gp.Adapter, sf.device.Device, &sf.Config)
	sf.render.Config(sf.device, sf.Format, size, true)
	return sf
}

func (sf *Surface) Device() *Device { return sf.device }
func (sf *Surface) Render() *Render { return &sf.render }

func (sf *Surface) Size() image.Point {
	return image.Pt(int(sf.Config.Width), int(sf.Config.Height))
}

// SetSize reconfigures the surface to the given size and requests
// a redraw. A size with a zero dimension (minimized window) is
// ignored. Calling with an unchanged nonzero size reconfigures
// again, which is safe to repeat.
func (sf *Surface) SetSize(size image.Point) {
	if !sf.setConfigSize(size) {
		return
	}
	sf.surface.Configure(sf.GPU.Adapter, sf.device.Device, &sf.Config)
	sf.render.SetSize(size)
}

// setConfigSize updates the configured size and latches the
// redraw request, reporting whether the surface needs
// reconfiguring. A zero dimension leaves the configuration
// untouched.
func (sf *Surface) setConfigSize(size image.Point) bool {
	if size.X == 0 || size.Y == 0 {
		return false
	}
	sf.Config.Width = uint32(size.X)
	sf.Config.Height = uint32(size.Y)
	sf.NeedsRedraw = true
	return true
}

// GetCurrentTexture returns the texture view for the next
// presentable frame. An outdated surface, which transiently
// happens when a resize races the redraw, is reported as an
// error satisfying [IsSurfaceOutdated]; callers skip the frame.
func (sf *Surface) GetCurrentTexture() (*wgpu.TextureView, error) {
	tex, err := sf.surface.GetCurrentTexture()
	if err != nil {
		if IsSurfaceOutdated(err) {
			slog.Debug("gpu: surface outdated, skipping frame")
		}
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	sf.curTex = tex
	return view, nil
}

func (sf *Surface) Present() {
	sf.surface.Present()
	if sf.curTex != nil {
		sf.curTex.Release()
		sf.curTex = nil
	}
}

func (sf *Surface) Release() {
	sf.render.Release()
	if sf.surface != nil {
		sf.surface.Release()
		sf.surface = nil
	}
	if sf.device != nil {
		sf.device.Release()
		sf.device = nil
	}
}
