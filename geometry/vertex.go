// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"encoding/binary"
	"math"

	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// Vertex is the interleaved vertex format shared by all geometry:
// homogeneous position, normal, and texture coordinate.
//
// GPU byte layout (little endian, stride VertexBytes):
//
//	offset  0: Position  4 x float32
//	offset 16: Normal    4 x float32
//	offset 32: UV        2 x float32
type Vertex struct {
	Position math32.Vector4
	Normal   math32.Vector4
	UV       math32.Vector2
}

// VertexBytes is the byte stride of one encoded Vertex.
const VertexBytes = 40

// Pos returns a vertex at the given position with w=1 and zero
// normal and texture coordinates.
func Pos(x, y, z float32) Vertex {
	return Vertex{Position: math32.Vector4{X: x, Y: y, Z: z, W: 1}}
}

// PosUV returns a vertex at the given position with w=1 and the
// given texture coordinates.
func PosUV(x, y, z, u, v float32) Vertex {
	return Vertex{
		Position: math32.Vector4{X: x, Y: y, Z: z, W: 1},
		UV:       math32.Vec2(u, v),
	}
}

// AppendBytes appends the encoded vertex to the given buffer in
// the documented layout.
func (vt *Vertex) AppendBytes(b []byte) []byte {
	for _, f := range [...]float32{
		vt.Position.X, vt.Position.Y, vt.Position.Z, vt.Position.W,
		vt.Normal.X, vt.Normal.Y, vt.Normal.Z, vt.Normal.W,
		vt.UV.X, vt.UV.Y,
	} {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

// VertexFromBytes decodes one vertex from the given bytes, which
// must be at least VertexBytes long.
func VertexFromBytes(b []byte) Vertex {
	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return Vertex{
		Position: math32.Vector4{X: f(0), Y: f(1), Z: f(2), W: f(3)},
		Normal:   math32.Vector4{X: f(4), Y: f(5), Z: f(6), W: f(7)},
		UV:       math32.Vec2(f(8), f(9)),
	}
}

// VertexBytesFor encodes the given vertices contiguously.
func VertexBytesFor(vs []Vertex) []byte {
	b := make([]byte, 0, len(vs)*VertexBytes)
	for i := range vs {
		b = vs[i].AppendBytes(b)
	}
	return b
}

// IndexBytesFor encodes the given 16-bit indices contiguously,
// little endian.
func IndexBytesFor(ix []uint16) []byte {
	b := make([]byte, 0, len(ix)*2)
	for _, i := range ix {
		b = binary.LittleEndian.AppendUint16(b, i)
	}
	return b
}

// VertexLayout returns the vertex buffer layout for the shared
// vertex format, at shader locations 0-2.
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: VertexBytes,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 32, ShaderLocation: 2},
		},
	}
}

// InstanceBytes is the byte stride of one instance record:
// a model matrix as four float32 column vectors.
const InstanceBytes = 64

// InstanceLayout returns the per-instance buffer layout carrying
// the model matrix as four Float32x4 attributes at shader
// locations 3-6, used by the instanced batch path.
func InstanceLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: InstanceBytes,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 3},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 4},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 5},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 6},
		},
	}
}

// MatrixBytes appends the encoded 4x4 matrix in column-major
// order, the layout of both instance records and uniform data.
func MatrixBytes(b []byte, m *math32.Matrix4) []byte {
	for _, f := range m {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}
