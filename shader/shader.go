// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shader loads shader modules from WGSL or SPIR-V sources
// and keeps them in an id-addressed library for pipeline setup.
package shader

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/kiln3d/kiln/gpu"
)

// Kind is the source language of a shader module.
type Kind int32

const (
	// WGSL is textual WebGPU shading language source (.wgsl).
	WGSL Kind = iota

	// SPIRV is binary SPIR-V bytecode (.spv).
	SPIRV
)

// spirvMagic is the first word of every valid SPIR-V module.
const spirvMagic = 0x07230203

// Shader is one compiled shader module plus the entry point
// name that pipelines call into.
type Shader struct {
	// Name identifies the shader in the library.
	Name string

	// Kind is the source language the module was built from.
	Kind Kind

	// Entry is the entry point function name.
	Entry string

	module *wgpu.ShaderModule
}

// Module returns the compiled module handle.
func (sh *Shader) Module() *wgpu.ShaderModule { return sh.module }

func (sh *Shader) Release() {
	if sh.module == nil {
		return
	}
	sh.module.Release()
	sh.module = nil
}

// Builder assembles a Shader from a source path, filling in
// defaults from the path itself: the name is the file stem,
// the kind comes from the extension, and the entry point is
// "main". Each default can be overridden before Build.
type Builder struct {
	path   string
	name   string
	entry  string
	kind   Kind
	source []byte
	err    error
}

// NewBuilder starts a shader build from the given source file.
// The extension must be .wgsl or .spv.
func NewBuilder(path string) *Builder {
	b := &Builder{path: path, entry: "main"}
	ext := filepath.Ext(path)
	b.name = strings.TrimSuffix(filepath.Base(path), ext)
	switch ext {
	case ".wgsl":
		b.kind = WGSL
	case ".spv":
		b.kind = SPIRV
	default:
		b.err = fmt.Errorf("shader %q: unknown source extension %q", path, ext)
	}
	return b
}

// Name overrides the default name (the source file stem).
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Entry overrides the default entry point ("main").
func (b *Builder) Entry(entry string) *Builder {
	b.entry = entry
	return b
}

// Source supplies the shader source directly instead of reading
// the path from disk, for embedded shaders. The path still
// determines the default name and the kind.
func (b *Builder) Source(src []byte) *Builder {
	b.source = src
	return b
}

// Build validates the source and creates the module on the device.
func (b *Builder) Build(dev *gpu.Device) (*Shader, error) {
	if b.err != nil {
		return nil, b.err
	}
	src := b.source
	if src == nil {
		data, err := os.ReadFile(b.path)
		if err != nil {
			return nil, fmt.Errorf("shader %q: %w", b.path, err)
		}
		src = data
	}
	desc := &wgpu.ShaderModuleDescriptor{Label: b.name}
	switch b.kind {
	case WGSL:
		if len(src) == 0 {
			return nil, fmt.Errorf("shader %q: empty WGSL source", b.name)
		}
		desc.WGSLDescriptor = &wgpu.ShaderModuleWGSLDescriptor{Code: string(src)}
	case SPIRV:
		if err := ValidateSPIRV(src); err != nil {
			return nil, fmt.Errorf("shader %q: %w", b.name, err)
		}
		desc.SPIRVDescriptor = &wgpu.ShaderModuleSPIRVDescriptor{Code: src}
	}
	mod, err := dev.Device.CreateShaderModule(desc)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", b.name, err)
	}
	return &Shader{Name: b.name, Kind: b.kind, Entry: b.entry, module: mod}, nil
}

// ValidateSPIRV checks that data is plausibly a SPIR-V module:
// a whole number of 32-bit words starting with the SPIR-V magic
// number. Truncation and wrong-file errors are distinguished.
func ValidateSPIRV(data []byte) error {
	if len(data)%4 != 0 {
		return fmt.Errorf("%d bytes is not a whole number of 32-bit words, corrupt SPIR-V", len(data))
	}
	if len(data) < 4 || binary.LittleEndian.Uint32(data) != spirvMagic {
		return fmt.Errorf("missing SPIR-V magic number, not a SPIR-V file")
	}
	return nil
}
