// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemSizeAlign(t *testing.T) {
	assert.Equal(t, 16, MemSizeAlign(12, 16))
	assert.Equal(t, 16, MemSizeAlign(16, 16))
	assert.Equal(t, 256, MemSizeAlign(80, 256))
	assert.Equal(t, 512, MemSizeAlign(257, 256))
}

func TestGrowCapacity(t *testing.T) {
	assert.Equal(t, 16, GrowCapacity(16, 10))
	assert.Equal(t, 16, GrowCapacity(16, 16))
	assert.Equal(t, 32, GrowCapacity(16, 17))
	assert.Equal(t, 128, GrowCapacity(16, 100))
	assert.Equal(t, 1, GrowCapacity(0, 1))
	assert.Equal(t, 8, GrowCapacity(0, 5))
}

func TestIsSurfaceOutdated(t *testing.T) {
	assert.False(t, IsSurfaceOutdated(nil))
	assert.True(t, IsSurfaceOutdated(errors.New("Surface texture is Outdated")))
	assert.True(t, IsSurfaceOutdated(errors.New("surface lost")))
	assert.False(t, IsSurfaceOutdated(errors.New("device out of memory")))
}

func TestSetConfigSizeZeroDim(t *testing.T) {
	sf := &Surface{}
	sf.Config.Width = 800
	sf.Config.Height = 600

	assert.False(t, sf.setConfigSize(image.Pt(0, 480)))
	assert.False(t, sf.setConfigSize(image.Pt(640, 0)))
	assert.Equal(t, uint32(800), sf.Config.Width)
	assert.Equal(t, uint32(600), sf.Config.Height)
	assert.False(t, sf.NeedsRedraw)
}

func TestSetConfigSize(t *testing.T) {
	sf := &Surface{}
	sf.Config.Width = 800
	sf.Config.Height = 600

	assert.True(t, sf.setConfigSize(image.Pt(1024, 768)))
	assert.Equal(t, uint32(1024), sf.Config.Width)
	assert.Equal(t, uint32(768), sf.Config.Height)
	assert.True(t, sf.NeedsRedraw)

	// the caller clears the latch when it draws
	sf.NeedsRedraw = false
	assert.True(t, sf.setConfigSize(image.Pt(1024, 768)))
	assert.True(t, sf.NeedsRedraw)
}
