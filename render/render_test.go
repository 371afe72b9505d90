// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"encoding/binary"
	"image"
	"math"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"

	"github.com/kiln3d/kiln/geometry"
	"github.com/kiln3d/kiln/gpu"
	"github.com/kiln3d/kiln/scene"
	"github.com/kiln3d/kiln/texture"
)

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestPackCamera(t *testing.T) {
	var vp math32.Matrix4
	for i := range vp {
		vp[i] = float32(i)
	}
	b := PackCamera(&vp, math32.Vector4{X: 1, Y: 2, Z: 3, W: 1})
	assert.Len(t, b, CameraBlockBytes)
	for i := range vp {
		assert.Equal(t, float32(i), f32At(b, i*4))
	}
	assert.Equal(t, float32(1), f32At(b, 64))
	assert.Equal(t, float32(2), f32At(b, 68))
	assert.Equal(t, float32(3), f32At(b, 72))
	assert.Equal(t, float32(1), f32At(b, 76))
}

func TestPackLights(t *testing.T) {
	ls := scene.LightSet{
		Global: []scene.GlobalLight{{
			Color: math32.Vec3(1, 0, 0), Power: 5,
			Direction: math32.Vec3(0, -1, 0),
		}},
		Point: []scene.PointLightInstance{{
			PointLight: scene.PointLight{Color: math32.Vec3(0, 1, 0), Power: 7, Radius: 20},
			Pos:        math32.Vec3(1, 2, 3),
		}},
		Spot: []scene.SpotLightInstance{{
			SpotLight: scene.SpotLight{
				Color: math32.Vec3(0, 0, 1), Power: 9, Radius: 15,
				Direction: math32.Vec3(0, 0, -1), CutOff: 0.9,
			},
			Pos: math32.Vec3(4, 5, 6),
		}},
	}
	b := PackLights(&ls)
	assert.Len(t, b, LightBlockBytes)

	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[0:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[4:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[8:]))

	// global: color+power, then direction
	assert.Equal(t, float32(1), f32At(b, globalLightOffset))
	assert.Equal(t, float32(5), f32At(b, globalLightOffset+12))
	assert.Equal(t, float32(-1), f32At(b, globalLightOffset+20))

	// point: power in color w, radius in position w
	assert.Equal(t, float32(7), f32At(b, pointLightOffset+12))
	assert.Equal(t, float32(1), f32At(b, pointLightOffset+16))
	assert.Equal(t, float32(20), f32At(b, pointLightOffset+28))

	// spot: cutoff in direction w
	assert.Equal(t, float32(9), f32At(b, spotLightOffset+12))
	assert.Equal(t, float32(15), f32At(b, spotLightOffset+28))
	assert.Equal(t, float32(-1), f32At(b, spotLightOffset+40))
	assert.Equal(t, float32(0.9), f32At(b, spotLightOffset+44))
}

func TestPackLightsTruncation(t *testing.T) {
	var ls scene.LightSet
	for i := 0; i < 9; i++ {
		ls.Point = append(ls.Point, scene.PointLightInstance{
			PointLight: scene.PointLight{Power: float32(i + 1)},
		})
	}
	b := PackLights(&ls)

	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(b[4:]))
	// the 8th encountered light occupies the last slot
	last := pointLightOffset + 7*pointLightStride
	assert.Equal(t, float32(8), f32At(b, last+12))
	// the 9th light's power must not appear anywhere in the block
	for off := 0; off+4 <= len(b); off += 4 {
		assert.NotEqual(t, float32(9), f32At(b, off), "found truncated light at offset %d", off)
	}
}

type stubSnapshot struct {
	cam    scene.CameraView
	camErr error
	objs   []scene.Renderable
	lights scene.LightSet
}

func (s *stubSnapshot) MainCamera() (scene.CameraView, error) { return s.cam, s.camErr }
func (s *stubSnapshot) Renderables() []scene.Renderable       { return s.objs }
func (s *stubSnapshot) Lights() scene.LightSet                { return s.lights }

func TestBuildFramePlanNoCamera(t *testing.T) {
	sn := &stubSnapshot{camErr: scene.ErrNoMainCamera}
	plan, err := buildFramePlan(sn)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, scene.ErrNoMainCamera)
}

func TestBuildFramePlan(t *testing.T) {
	sn := &stubSnapshot{
		cam:  scene.CameraView{World: scene.NewTransform()},
		objs: []scene.Renderable{{Geometry: geometry.Cube}},
	}
	sn.cam.Camera.Defaults()
	plan, err := buildFramePlan(sn)
	assert.NoError(t, err)
	assert.Len(t, plan.camera, CameraBlockBytes)
	assert.Len(t, plan.lights, LightBlockBytes)
	assert.Len(t, plan.objects, 1)
}

func renderableAt(g geometry.ID, x float32) scene.Renderable {
	tf := scene.NewTransform()
	tf.Pos.X = x
	return scene.Renderable{Model: tf.Matrix(), Geometry: g, Texture: texture.None}
}

func TestBatchInstances(t *testing.T) {
	objs := []scene.Renderable{
		renderableAt(geometry.Cube, 1),
		renderableAt(geometry.Plane, 2),
		renderableAt(geometry.Cube, 3),
		renderableAt(geometry.Tetrahedron, 4),
		renderableAt(geometry.Plane, 5),
	}
	batches, data := batchInstances(objs)
	assert.Len(t, data, 5*geometry.InstanceBytes)

	assert.Equal(t, []batch{
		{geom: geometry.Plane, texture: texture.None, first: 0, count: 2},
		{geom: geometry.Cube, texture: texture.None, first: 2, count: 2},
		{geom: geometry.Tetrahedron, texture: texture.None, first: 4, count: 1},
	}, batches)

	// stable within kind: x translation lands at column 3 of each
	// packed matrix, 48 bytes into the 64-byte record
	xs := make([]float32, 5)
	for i := range xs {
		xs[i] = f32At(data, i*geometry.InstanceBytes+48)
	}
	assert.Equal(t, []float32{2, 5, 1, 3, 4}, xs)
}

func TestInstanceGrowthKeepsOffsets(t *testing.T) {
	objs := make([]scene.Renderable, 100)
	for i := range objs {
		objs[i] = renderableAt(geometry.ID(i%3), float32(i))
	}
	before, bdata := batchInstances(objs)

	// growth from the initial capacity reallocates to the
	// smallest power-of-two multiple that fits
	assert.Equal(t, 128, gpu.GrowCapacity(initialObjectCapacity, len(objs)))

	// batching is independent of buffer capacity: ranges and data
	// are identical after a reallocation forces a full rewrite
	after, adata := batchInstances(objs)
	assert.Equal(t, before, after)
	assert.Equal(t, bdata, adata)
}

func TestClipDepthRange(t *testing.T) {
	// main camera at origin looking down -Z, cube at (0,0,-5):
	// every cube vertex must land inside the [0,1] clip depth range
	cv := scene.CameraView{World: scene.NewTransform()}
	cv.Camera.Defaults()
	vp := cv.ViewProjection()

	tf := scene.NewTransform()
	tf.Pos.Z = -5
	model := tf.Matrix()

	var mvp math32.Matrix4
	mvp.MulMatrices(&vp, &model)

	for _, v := range geometry.CubeVertices() {
		clip := v.Position.MulMatrix4(&mvp)
		assert.Greater(t, clip.W, float32(0))
		ndc := clip.Z / clip.W
		assert.GreaterOrEqual(t, ndc, float32(0))
		assert.LessOrEqual(t, ndc, float32(1))
	}
}

// skipWithoutAdapter skips the test when no GPU adapter can be
// acquired, so the offscreen path runs wherever one exists.
func skipWithoutAdapter(t *testing.T) {
	t.Helper()
	ad, err := gpu.Instance().RequestAdapter(&wgpu.RequestAdapterOptions{})
	if err != nil || ad == nil {
		t.Skip("no GPU adapter available")
	}
	ad.Release()
}

func TestFrameOffscreen(t *testing.T) {
	skipWithoutAdapter(t)
	gp := gpu.NewGPU(nil)
	rt := gpu.NewRenderTexture(gp, image.Pt(32, 32))
	rs, err := NewRenderState(gp, rt, geometry.StandardCatalog(), nil)
	if err != nil {
		t.Fatalf("render state: %v", err)
	}

	sn := &stubSnapshot{
		cam:  scene.CameraView{World: scene.NewTransform()},
		objs: []scene.Renderable{renderableAt(geometry.Cube, 0)},
	}
	sn.cam.Camera.Defaults()

	// consecutive frames: the frame texture persists across them
	// while each frame's view is created and released per call
	rs.Frame(sn)
	rs.Frame(sn)
	rs.FrameInstanced(sn)
	rt.Device().WaitDone()

	rs.Release()
	rt.Release()
	gp.Release()
}
