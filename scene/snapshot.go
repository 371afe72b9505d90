// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cogentcore.org/core/math32"

	"github.com/kiln3d/kiln/geometry"
	"github.com/kiln3d/kiln/texture"
)

// Renderable is one drawable object gathered for a frame: its
// world model matrix and the geometry and texture handles to draw
// it with. Texture is [texture.None] for the untextured path.
type Renderable struct {
	Model    math32.Matrix4
	Geometry geometry.ID
	Texture  texture.ID
}

// Snapshot is the read-only view of scene state the renderer
// consumes each frame. The render core depends only on this
// interface, never on a concrete entity store; hosts with their
// own storage implement it with an adapter. Implementations are
// read during the frame and never mutated by the renderer.
type Snapshot interface {
	// MainCamera returns the camera view of the unique
	// main-camera entity. It returns ErrNoMainCamera or
	// ErrMultipleMainCameras when that entity does not uniquely
	// exist; the renderer logs and skips the frame.
	MainCamera() (CameraView, error)

	// Renderables returns the drawable objects for this frame,
	// in stable encounter order.
	Renderables() []Renderable

	// Lights returns all lights in encounter order, untruncated.
	Lights() LightSet
}
