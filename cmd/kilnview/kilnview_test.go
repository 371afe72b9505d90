// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSceneCamera(t *testing.T) {
	cfg := defaultConfig()
	world, cam, _ := buildScene(cfg, nil, nil)

	assert.InDelta(t, float64(cfg.Width)/float64(cfg.Height), float64(cam.Aspect), 1e-6)

	// the returned camera is the live main camera: updating its
	// aspect, as the resize callback does, changes the next frame
	cam.Aspect = 2
	cv, err := world.MainCamera()
	assert.NoError(t, err)
	assert.Equal(t, float32(2), cv.Camera.Aspect)
}

func TestBuildSceneContents(t *testing.T) {
	world, _, spin := buildScene(defaultConfig(), nil, nil)

	// floor, cube, tetrahedron, and the cube row render; the
	// camera and lights do not
	assert.Len(t, world.Renderables(), 13)
	assert.Len(t, spin.ids, 12)

	ls := world.Lights()
	assert.Len(t, ls.Global, 1)
	assert.Len(t, ls.Point, 1)
	assert.Empty(t, ls.Spot)
}
