// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cogentcore.org/core/math32"
)

// Camera is a perspective projection paired with a Transform that
// supplies the view position and orientation. Exactly one entity
// carries the main-camera marker at any time; the renderer skips
// the frame if zero or more than one exist.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV float32

	// Aspect is the width / height aspect ratio, updated by the
	// host on window resize.
	Aspect float32

	// Near and Far are the clip plane distances.
	Near float32
	Far  float32
}

// Defaults sets projection defaults: 90 degree field of view,
// near 0.05, far 1000.
func (cm *Camera) Defaults() {
	cm.FOV = 90
	cm.Aspect = 1
	cm.Near = 0.05
	cm.Far = 1000
}

// Projection returns the perspective projection matrix. Depth
// maps to the [0, 1] clip range used by WebGPU: near lands at 0
// and far at 1, not the [-1, 1] GL convention.
func (cm *Camera) Projection() math32.Matrix4 {
	var m math32.Matrix4
	f := 1 / math32.Tan(math32.DegToRad(cm.FOV)*0.5)
	m[0] = f / cm.Aspect
	m[5] = f
	m[10] = cm.Far / (cm.Near - cm.Far)
	m[11] = -1
	m[14] = cm.Near * cm.Far / (cm.Near - cm.Far)
	return m
}

// CameraView is the camera state gathered for one frame: the
// projection parameters and the camera's world isometry.
type CameraView struct {
	Camera Camera
	World  Transform
}

// ViewProjection returns projection * inverse(world isometry),
// the matrix bound once per frame for all draws. With an identity
// world isometry this is exactly the projection matrix.
func (cv *CameraView) ViewProjection() math32.Matrix4 {
	proj := cv.Camera.Projection()
	inv := cv.World.Inverse()
	view := inv.Matrix()
	var vp math32.Matrix4
	vp.MulMatrices(&proj, &view)
	return vp
}

// Position returns the camera world position, the translation
// component of the isometry, as a homogeneous vector with w=1.
func (cv *CameraView) Position() math32.Vector4 {
	p := cv.World.Pos
	return math32.Vector4{X: p.X, Y: p.Y, Z: p.Z, W: 1}
}
