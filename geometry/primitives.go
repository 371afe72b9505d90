// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

// Baked vertex and index data for the primitive geometries.
// These constants are part of the engine's visual contract:
// winding is chosen for the counter-clockwise front-face,
// front-cull pipeline configuration.

// PlaneVertices returns the unit plane in the XY plane.
func PlaneVertices() []Vertex {
	return []Vertex{
		PosUV(1, 1, 0, 1, 1),
		PosUV(-1, 1, 0, 1, 0),
		PosUV(1, -1, 0, 0, 1),
		PosUV(-1, -1, 0, 0, 0),
	}
}

func PlaneIndices() []uint16 {
	return []uint16{
		3, 1, 0,
		2, 3, 0,
	}
}

// CubeVertices returns the 2-unit cube centered on the origin:
// the front four vertices then the back four.
func CubeVertices() []Vertex {
	return []Vertex{
		PosUV(-1, -1, 1, 1, 1),
		PosUV(1, -1, 1, 1, 0),
		PosUV(1, 1, 1, 0, 1),
		PosUV(-1, 1, 1, 0, 0),
		PosUV(-1, 1, -1, 1, 1),
		PosUV(1, 1, -1, 1, 0),
		PosUV(1, -1, -1, 0, 1),
		PosUV(-1, -1, -1, 0, 0),
	}
}

func CubeIndices() []uint16 {
	return []uint16{
		2, 1, 0, // front
		3, 2, 0,
		6, 5, 7, // back
		5, 4, 7,
		1, 6, 0, // bottom
		6, 7, 0,
		3, 4, 2, // top
		4, 5, 2,
		4, 3, 0, // left
		7, 4, 0,
		2, 5, 1, // right
		5, 6, 1,
	}
}

// TetrahedronVertices returns a tetrahedron centered on the
// origin: base under the Y plane, apex pointing up along Y.
func TetrahedronVertices() []Vertex {
	return []Vertex{
		Pos(0, -0.57735, -1.15470),
		Pos(-1, -0.57735, 0.57735),
		Pos(1, -0.57735, 0.57735),
		Pos(0, 1.15470, 0),
	}
}

func TetrahedronIndices() []uint16 {
	return []uint16{
		0, 1, 2,
		0, 3, 1,
		3, 0, 2,
		2, 1, 3,
	}
}
