// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texture provides the texture library: GPU textures,
// samplers, and bind groups decoded from KTX2 containers for a
// fixed catalog of texture identifiers.
package texture

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kiln3d/kiln/gpu"
)

// ID is a stable handle identifying a texture catalog entry.
type ID int32

// None marks the absence of a texture reference: the object
// renders through the default untextured path.
const None ID = -1

// CatalogEntry is one compile-time catalog item mapping an ID to
// a KTX2 file path. Index position in the catalog is the ID.
type CatalogEntry struct {
	Name string
	Path string
}

// Catalog is the association list from IDs to texture files,
// fixed at library load time.
type Catalog []CatalogEntry

// Add appends an entry and returns the ID it will load under.
func (ct *Catalog) Add(name, path string) ID {
	*ct = append(*ct, CatalogEntry{Name: name, Path: path})
	return ID(len(*ct) - 1)
}

// Texture is one GPU-resident library entry. Each entry carries
// its own texture, view, sampler, and bind group.
type Texture struct {
	// Name is the catalog entry name.
	Name string

	// Tex is the underlying GPU texture.
	Tex *gpu.Texture

	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup
}

// BindGroup returns the bind group binding this texture's view
// and sampler, for the per-object texture slot.
func (tx *Texture) BindGroup() *wgpu.BindGroup { return tx.bindGroup }

func (tx *Texture) Release() {
	if tx.bindGroup != nil {
		tx.bindGroup.Release()
		tx.bindGroup = nil
	}
	if tx.sampler != nil {
		tx.sampler.Release()
		tx.sampler = nil
	}
	if tx.Tex != nil {
		tx.Tex.Release()
		tx.Tex = nil
	}
}

// Library holds the GPU-resident textures for every catalog
// entry, plus the default white texture used for untextured
// objects. Loaded once at startup, immutable afterward.
type Library struct {
	// Entries is indexed by ID.
	Entries []*Texture

	// Default is the 1x1 white texture bound for objects with no
	// texture reference.
	Default *Texture
}

// BindGroupLayout returns the bind group layout every library
// entry's bind group conforms to: a filterable 2D texture at
// binding 0 and a filtering sampler at binding 1, visible to the
// fragment stage.
func BindGroupLayout(dev *gpu.Device) (*wgpu.BindGroupLayout, error) {
	return dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "texture bind group layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
}

// LoadAll synchronously loads every catalog entry and the default
// texture. Any entry failing to open or parse fails the whole
// library; no partial state is usable.
func LoadAll(dev *gpu.Device, layout *wgpu.BindGroupLayout, catalog Catalog) (*Library, error) {
	lb := &Library{}
	def, err := fromPixels(dev, layout, "default", []byte{0xFF, 0xFF, 0xFF, 0xFF}, image.Pt(1, 1))
	if err != nil {
		return nil, err
	}
	lb.Default = def
	for _, ce := range catalog {
		tx, err := fromFile(dev, layout, ce)
		if err != nil {
			lb.Release()
			return nil, err
		}
		lb.Entries = append(lb.Entries, tx)
	}
	slog.Info("texture: library loaded", "entries", len(lb.Entries))
	return lb, nil
}

// fromFile decodes the KTX2 container at the entry's path and
// uploads it as one library texture.
func fromFile(dev *gpu.Device, layout *wgpu.BindGroupLayout, ce CatalogEntry) (*Texture, error) {
	data, err := os.ReadFile(ce.Path)
	if err != nil {
		return nil, fmt.Errorf("texture: failed to read texture file %s: %w", ce.Path, err)
	}
	img, err := decodeKTX2(data)
	if err != nil {
		return nil, fmt.Errorf("texture: texture file %s: %w", ce.Path, err)
	}
	return fromPixels(dev, layout, ce.Name, img.Pixels, img.Size)
}

func fromPixels(dev *gpu.Device, layout *wgpu.BindGroupLayout, name string, pix []byte, size image.Point) (*Texture, error) {
	tx := &Texture{Name: name, Tex: gpu.NewTexture(dev)}
	tx.Tex.Name = name
	if err := tx.Tex.SetFromPixels(pix, size); err != nil {
		return nil, err
	}
	smp, err := dev.Device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        name,
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	tx.sampler = smp
	bg, err := dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  name,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: tx.Tex.View()},
			{Binding: 1, Sampler: smp},
		},
	})
	if err != nil {
		return nil, err
	}
	tx.bindGroup = bg
	return tx, nil
}

// Get returns the entry for a previously loaded ID. Calling with
// an unregistered ID is a programming error and panics.
func (lb *Library) Get(id ID) *Texture {
	if int(id) < 0 || int(id) >= len(lb.Entries) {
		panic(fmt.Sprintf("texture: tried to access texture with bad id %d", id))
	}
	return lb.Entries[id]
}

func (lb *Library) Release() {
	for _, tx := range lb.Entries {
		tx.Release()
	}
	lb.Entries = nil
	if lb.Default != nil {
		lb.Default.Release()
		lb.Default = nil
	}
}
