// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"

	"github.com/kiln3d/kiln/geometry"
	"github.com/kiln3d/kiln/texture"
)

func assertMatrixNear(t *testing.T, want, got *math32.Matrix4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestProjectionDepthRange(t *testing.T) {
	var cm Camera
	cm.Defaults()
	p := cm.Projection()

	// view-space near and far planes map to clip depth 0 and 1
	near := math32.Vector4{Z: -cm.Near, W: 1}.MulMatrix4(&p)
	assert.InDelta(t, 0, near.Z/near.W, 1e-5)
	far := math32.Vector4{Z: -cm.Far, W: 1}.MulMatrix4(&p)
	assert.InDelta(t, 1, far.Z/far.W, 1e-4)
}

func TestViewProjection(t *testing.T) {
	var cm Camera
	cm.Defaults()
	cm.Aspect = 1.5

	world := NewTransform()
	world.Pos = math32.Vec3(3, 0, 0)
	world.Quat.SetFromAxisAngle(math32.Vec3(0, 1, 0), math32.DegToRad(30))

	cv := CameraView{Camera: cm, World: world}
	vp := cv.ViewProjection()

	proj := cm.Projection()
	inv := world.Inverse()
	view := inv.Matrix()
	var want math32.Matrix4
	want.MulMatrices(&proj, &view)
	assertMatrixNear(t, &want, &vp)
}

func TestViewProjectionIdentity(t *testing.T) {
	var cm Camera
	cm.Defaults()
	cv := CameraView{Camera: cm, World: NewTransform()}
	vp := cv.ViewProjection()
	proj := cm.Projection()
	assertMatrixNear(t, &proj, &vp)
}

func TestTransformInverse(t *testing.T) {
	tf := NewTransform()
	tf.Pos = math32.Vec3(1, 2, 3)
	tf.Quat.SetFromAxisAngle(math32.Vec3(0, 0, 1), math32.DegToRad(45))

	inv := tf.Inverse()
	id := tf.Mul(&inv)
	assert.InDelta(t, 0, id.Pos.Length(), 1e-5)
	assert.True(t, id.Quat == (math32.Quat{W: 1}) || id.Quat.Dot(math32.Quat{W: 1}) > 0.99999)
}

func TestWorldTransformComposition(t *testing.T) {
	w := NewWorld()
	parent := w.NewEntity()
	child := w.NewEntity()
	w.Transform(parent).Pos = math32.Vec3(1, 0, 0)
	w.Transform(child).Pos = math32.Vec3(0, 1, 0)
	assert.NoError(t, w.SetParent(child, parent))

	wt := w.WorldTransform(child)
	assert.InDelta(t, 1, wt.Pos.X, 1e-6)
	assert.InDelta(t, 1, wt.Pos.Y, 1e-6)
	assert.InDelta(t, 0, wt.Pos.Z, 1e-6)
}

func TestSetParentCycle(t *testing.T) {
	w := NewWorld()
	a := w.NewEntity()
	b := w.NewEntity()
	assert.NoError(t, w.SetParent(b, a))
	err := w.SetParent(a, b)
	assert.Error(t, err)
	// links unchanged after the rejected line
	assert.Equal(t, NoEntity, w.Transform(a).Parent)
	assert.Equal(t, a, w.Transform(b).Parent)
}

func TestMainCamera(t *testing.T) {
	w := NewWorld()
	_, err := w.MainCamera()
	assert.ErrorIs(t, err, ErrNoMainCamera)

	var cm Camera
	cm.Defaults()
	e := w.NewEntity()
	w.Transform(e).Pos = math32.Vec3(3, 0, 0)
	w.SetCamera(e, &cm)
	w.SetMainCamera(e)

	cv, err := w.MainCamera()
	assert.NoError(t, err)
	assert.Equal(t, float32(3), cv.World.Pos.X)
	assert.Equal(t, float32(1), cv.Position().W)

	e2 := w.NewEntity()
	w.SetCamera(e2, &cm)
	w.SetMainCamera(e2)
	_, err = w.MainCamera()
	assert.ErrorIs(t, err, ErrMultipleMainCameras)
}

func TestRenderablesEncounterOrder(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 3; i++ {
		e := w.NewEntity()
		w.Transform(e).Pos = math32.Vec3(float32(i), 0, 0)
		w.SetGeometry(e, geometry.Cube)
	}
	// only the middle entity is textured
	w.SetTexture(1, texture.ID(0))

	rs := w.Renderables()
	assert.Len(t, rs, 3)
	for i, r := range rs {
		assert.Equal(t, float32(i), r.Model[12], "translation x lives at element 12")
	}
	assert.Equal(t, texture.None, rs[0].Texture)
	assert.Equal(t, texture.ID(0), rs[1].Texture)
	assert.Equal(t, texture.None, rs[2].Texture)
}

func TestLightsGatherWorldPosition(t *testing.T) {
	w := NewWorld()
	parent := w.NewEntity()
	w.Transform(parent).Pos = math32.Vec3(0, 5, 0)
	lit := w.NewEntity()
	w.Transform(lit).Pos = math32.Vec3(1, 0, 0)
	assert.NoError(t, w.SetParent(lit, parent))
	w.SetPointLight(lit, PointLight{Power: 2, Radius: 10})
	w.SetGlobalLight(parent, GlobalLight{Power: 100, Direction: math32.Vec3(1, 1, 1)})

	ls := w.Lights()
	assert.Len(t, ls.Global, 1)
	assert.Len(t, ls.Point, 1)
	assert.Empty(t, ls.Spot)
	assert.Equal(t, math32.Vec3(1, 5, 0), ls.Point[0].Pos)
}
