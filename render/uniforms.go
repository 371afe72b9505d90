// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"encoding/binary"
	"math"

	"cogentcore.org/core/math32"

	"github.com/kiln3d/kiln/geometry"
	"github.com/kiln3d/kiln/scene"
)

// MaxLightsPerKind is the per-kind light capacity of the packed
// light block. Lights beyond it are silently dropped for the
// frame, in encounter order; this is policy, not an error.
const MaxLightsPerKind = 8

// CameraBlockBytes is the byte size of the packed camera uniform:
// the view-projection matrix followed by the homogeneous camera
// world position.
const CameraBlockBytes = 64 + 16

// Packed light block layout, std140-compatible with the Lights
// struct in the fragment shader:
//
//	offset 16*0  counts        vec4<i32> (global, point, spot, 0)
//	offset 16    global[8]     2 x vec4 each (32 bytes)
//	offset 272   point[8]      2 x vec4 each (32 bytes)
//	offset 528   spot[8]       3 x vec4 each (48 bytes)
//	total 912
const (
	globalLightOffset = 16
	globalLightStride = 32
	pointLightOffset  = globalLightOffset + MaxLightsPerKind*globalLightStride
	pointLightStride  = 32
	spotLightOffset   = pointLightOffset + MaxLightsPerKind*pointLightStride
	spotLightStride   = 48

	// LightBlockBytes is the byte size of the packed light uniform.
	LightBlockBytes = spotLightOffset + MaxLightsPerKind*spotLightStride
)

func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

// putVec3W writes a Vector3 plus a packed scalar in the unused
// w component, the convention for all light vectors.
func putVec3W(b []byte, off int, v math32.Vector3, w float32) {
	putF32(b, off+0, v.X)
	putF32(b, off+4, v.Y)
	putF32(b, off+8, v.Z)
	putF32(b, off+12, w)
}

// PackCamera packs the per-frame camera uniform: the
// view-projection matrix followed by the camera world position.
func PackCamera(vp *math32.Matrix4, pos math32.Vector4) []byte {
	b := make([]byte, 0, CameraBlockBytes)
	b = geometry.MatrixBytes(b, vp)
	b = append(b, make([]byte, 16)...)
	putF32(b, 64+0, pos.X)
	putF32(b, 64+4, pos.Y)
	putF32(b, 64+8, pos.Z)
	putF32(b, 64+12, pos.W)
	return b
}

// PackLights packs the frame's lights into the fixed-size light
// block. At most [MaxLightsPerKind] of each kind are packed, in
// the order they appear in the set; the rest are dropped without
// error. Color vectors carry power in w; position vectors carry
// radius in w; spot direction vectors carry the cutoff cosine.
func PackLights(ls *scene.LightSet) []byte {
	b := make([]byte, LightBlockBytes)
	ng := min(len(ls.Global), MaxLightsPerKind)
	np := min(len(ls.Point), MaxLightsPerKind)
	ns := min(len(ls.Spot), MaxLightsPerKind)
	binary.LittleEndian.PutUint32(b[0:], uint32(ng))
	binary.LittleEndian.PutUint32(b[4:], uint32(np))
	binary.LittleEndian.PutUint32(b[8:], uint32(ns))

	for i := 0; i < ng; i++ {
		l := &ls.Global[i]
		off := globalLightOffset + i*globalLightStride
		putVec3W(b, off, l.Color, l.Power)
		putVec3W(b, off+16, l.Direction, 0)
	}
	for i := 0; i < np; i++ {
		l := &ls.Point[i]
		off := pointLightOffset + i*pointLightStride
		putVec3W(b, off, l.Color, l.Power)
		putVec3W(b, off+16, l.Pos, l.Radius)
	}
	for i := 0; i < ns; i++ {
		l := &ls.Spot[i]
		off := spotLightOffset + i*spotLightStride
		putVec3W(b, off, l.Color, l.Power)
		putVec3W(b, off+16, l.Pos, l.Radius)
		putVec3W(b, off+32, l.Direction, l.CutOff)
	}
	return b
}
