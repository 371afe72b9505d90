// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVertexLayout(t *testing.T) {
	vt := PosUV(1, 2, 3, 0.5, 0.25)
	vt.Normal.Set(0, 1, 0, 0)
	b := vt.AppendBytes(nil)
	assert.Equal(t, VertexBytes, len(b))

	got := VertexFromBytes(b)
	assert.Equal(t, vt, got)

	lay := VertexLayout()
	assert.Equal(t, uint64(VertexBytes), lay.ArrayStride)
	assert.Equal(t, uint64(0), lay.Attributes[0].Offset)
	assert.Equal(t, uint64(16), lay.Attributes[1].Offset)
	assert.Equal(t, uint64(32), lay.Attributes[2].Offset)
}

func TestReverseWinding(t *testing.T) {
	ix := []uint16{0, 1, 2, 3, 4, 5}
	ReverseWinding(ix)
	assert.Equal(t, []uint16{2, 1, 0, 5, 4, 3}, ix)
}

const triObj = `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`

func TestReadOBJ(t *testing.T) {
	ms, err := ReadOBJ(strings.NewReader(triObj))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(ms.Vertices))
	// input triple [0,1,2] comes out winding-reversed
	assert.Equal(t, []uint16{2, 1, 0}, ms.Indices)
	assert.Equal(t, float32(1), ms.Vertices[0].Position.W)
	assert.Equal(t, float32(1), ms.Vertices[1].UV.X)
	assert.Equal(t, float32(1), ms.Vertices[0].Normal.Z)
}

func TestReadOBJSharedCorners(t *testing.T) {
	// two triangles sharing an edge reuse the shared vertices
	obj := triObj + "v 1 1 0\nf 2/2/1 4/1/1 3/3/1\n"
	ms, err := ReadOBJ(strings.NewReader(obj))
	assert.NoError(t, err)
	assert.Equal(t, 4, len(ms.Vertices))
	assert.Equal(t, 6, len(ms.Indices))
}

func TestReadOBJIndexCeiling(t *testing.T) {
	// a mesh with more than 65536 distinct corners must fail,
	// not wrap: vertices are never shared here because each face
	// pairs positions with distinct texture coordinates.
	var sb strings.Builder
	n := MaxIndex + 3
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "v %d 0 0\n", i)
	}
	for i := 1; i+2 <= n; i += 3 {
		fmt.Fprintf(&sb, "f %d %d %d\n", i, i+1, i+2)
	}
	_, err := ReadOBJ(strings.NewReader(sb.String()))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "16-bit")
}

func TestReadOBJNotTriangulated(t *testing.T) {
	obj := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"
	_, err := ReadOBJ(strings.NewReader(obj))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "triangulated")
}

func TestBuildBlobs(t *testing.T) {
	entries, vdata, idata, err := buildBlobs(StandardCatalog())
	assert.NoError(t, err)
	assert.Equal(t, 3, len(entries))

	pl, cb, tt := entries[Plane], entries[Cube], entries[Tetrahedron]
	assert.Equal(t, uint64(0), pl.VertexOffset)
	assert.Equal(t, uint64(4*VertexBytes), cb.VertexOffset)
	assert.Equal(t, uint64((4+8)*VertexBytes), tt.VertexOffset)

	assert.Equal(t, uint64(0), pl.IndexOffset)
	assert.Equal(t, uint64(6*2), cb.IndexOffset)
	assert.Equal(t, uint64((6+36)*2), tt.IndexOffset)

	assert.Equal(t, uint32(6), pl.IndexCount)
	assert.Equal(t, uint32(36), cb.IndexCount)
	assert.Equal(t, uint32(12), tt.IndexCount)

	assert.Equal(t, (4+8+4)*VertexBytes, len(vdata))
	assert.Equal(t, (6+36+12)*2, len(idata))
}

func TestCatalogAdd(t *testing.T) {
	ct := StandardCatalog()
	id := ct.Add("torus", "assets/torus.obj")
	assert.Equal(t, ID(3), id)
	assert.Equal(t, "torus", ct[id].Name)
}
