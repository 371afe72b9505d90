// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shader

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderDefaults(t *testing.T) {
	b := NewBuilder("shaders/forward.wgsl")
	assert.NoError(t, b.err)
	assert.Equal(t, "forward", b.name)
	assert.Equal(t, "main", b.entry)
	assert.Equal(t, WGSL, b.kind)

	b = NewBuilder("assets/lit.spv")
	assert.NoError(t, b.err)
	assert.Equal(t, "lit", b.name)
	assert.Equal(t, SPIRV, b.kind)
}

func TestBuilderOverrides(t *testing.T) {
	b := NewBuilder("forward.wgsl").Name("sky").Entry("fs_main")
	assert.Equal(t, "sky", b.name)
	assert.Equal(t, "fs_main", b.entry)
}

func TestBuilderUnknownExtension(t *testing.T) {
	b := NewBuilder("forward.glsl")
	assert.ErrorContains(t, b.err, "unknown source extension")

	_, err := b.Build(nil)
	assert.Error(t, err)
}

func TestValidateSPIRV(t *testing.T) {
	word := make([]byte, 8)
	binary.LittleEndian.PutUint32(word, spirvMagic)
	assert.NoError(t, ValidateSPIRV(word))
}

func TestValidateSPIRVCorrupt(t *testing.T) {
	// a truncated module is not a whole number of words
	err := ValidateSPIRV(make([]byte, 7))
	assert.ErrorContains(t, err, "corrupt")
}

func TestValidateSPIRVWrongFile(t *testing.T) {
	err := ValidateSPIRV([]byte("WGSL"))
	assert.ErrorContains(t, err, "not a SPIR-V file")

	err = ValidateSPIRV(nil)
	assert.ErrorContains(t, err, "not a SPIR-V file")
}
