// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
)

// Texture represents a WebGPU texture with an associated view,
// in device memory.
type Texture struct {
	// Name of the texture, for debugging; auto-set to the file
	// name if loaded from a file.
	Name string

	// Size is the pixel size of the texture.
	Size image.Point

	// Format is the texture format.
	Format wgpu.TextureFormat

	texture *wgpu.Texture
	view    *wgpu.TextureView
	device  *Device
}

func NewTexture(dev *Device) *Texture {
	return &Texture{device: dev, Format: wgpu.TextureFormatRGBA8UnormSrgb}
}

// View returns the texture view owned by the texture, released
// with it.
func (tx *Texture) View() *wgpu.TextureView { return tx.view }

// NewView returns a new view of the texture. The caller owns the
// returned view and must release it.
func (tx *Texture) NewView() (*wgpu.TextureView, error) {
	return tx.texture.CreateView(nil)
}

// CreateTexture creates the texture and its view based on current
// Size and Format, releasing any prior texture first.
func (tx *Texture) CreateTexture(usage wgpu.TextureUsage) error {
	tx.Release()
	t, err := tx.device.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: tx.Name,
		Size: wgpu.Extent3D{
			Width:              uint32(tx.Size.X),
			Height:             uint32(tx.Size.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        tx.Format,
		Usage:         usage,
	})
	if err != nil {
		return err
	}
	tx.texture = t
	vw, err := t.CreateView(nil)
	if err != nil {
		return err
	}
	tx.view = vw
	return nil
}

// SetFromPixels uploads the given RGBA8 pixel data at the given
// size, creating the texture for sampling use. The pixel slice
// must be exactly 4*w*h bytes.
func (tx *Texture) SetFromPixels(pix []byte, size image.Point) error {
	if len(pix) != 4*size.X*size.Y {
		return fmt.Errorf("gpu.Texture %s: have %d pixel bytes, need %d for %v",
			tx.Name, len(pix), 4*size.X*size.Y, size)
	}
	tx.Size = size
	err := tx.CreateTexture(wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst)
	if err != nil {
		return err
	}
	tx.device.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  tx.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
		},
		pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * uint32(size.X),
			RowsPerImage: uint32(size.Y),
		},
		&wgpu.Extent3D{
			Width:              uint32(size.X),
			Height:             uint32(size.Y),
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

// ConfigDepth configures this texture as a depth buffer of the
// given format and size. If the current texture already matches,
// it is not recreated.
func (tx *Texture) ConfigDepth(dev *Device, format wgpu.TextureFormat, size image.Point) error {
	tx.device = dev
	if tx.texture != nil && tx.Format == format && tx.Size == size {
		return nil
	}
	tx.Format = format
	tx.Size = size
	tx.Name = "depth"
	return tx.CreateTexture(wgpu.TextureUsageRenderAttachment)
}

// ConfigRenderTexture configures this texture as an offscreen
// color render target of the given format and size, which can
// also be copied from for readback.
func (tx *Texture) ConfigRenderTexture(dev *Device, format wgpu.TextureFormat, size image.Point) error {
	tx.device = dev
	tx.Format = format
	tx.Size = size
	return tx.CreateTexture(wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc)
}

func (tx *Texture) Release() {
	if tx.view != nil {
		tx.view.Release()
		tx.view = nil
	}
	if tx.texture != nil {
		tx.texture.Release()
		tx.texture = nil
	}
}
