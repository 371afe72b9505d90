// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"
)

// MaxIndex is the largest vertex index an imported mesh may use;
// the index format is fixed at 16-bit unsigned.
const MaxIndex = 1 << 16

// Mesh is mesh data imported from an external file, in the shared
// interleaved vertex format with 16-bit indices.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16
}

// ImportOBJ reads a triangulated OBJ mesh from the file at the
// given path. See [ReadOBJ] for the import contract.
func ImportOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geometry: failed to open mesh file %s: %w", path, err)
	}
	defer f.Close()
	ms, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("geometry: mesh file %s: %w", path, err)
	}
	return ms, nil
}

// ReadOBJ reads a triangulated OBJ mesh: positions, normals, and
// texture coordinates are zipped into one single-indexed
// interleaved vertex per distinct corner. Indices wider than 16
// bits are a load error, never truncated or wrapped. Each index
// triple is reversed to flip the triangle winding, compensating
// for the handedness mismatch between the OBJ convention and the
// renderer's counter-clockwise front-face, front-cull
// configuration.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions []math32.Vector3
		normals   []math32.Vector3
		uvs       []math32.Vector2
	)
	ms := &Mesh{}
	corners := map[string]int{}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex position: %w", line, err)
			}
			positions = append(positions, math32.Vec3(v[0], v[1], v[2]))
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex normal: %w", line, err)
			}
			normals = append(normals, math32.Vec3(v[0], v[1], v[2]))
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coordinate: %w", line, err)
			}
			uvs = append(uvs, math32.Vec2(v[0], v[1]))
		case "f":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: face with %d corners, mesh must be triangulated", line, len(fields)-1)
			}
			var tri [3]uint16
			for i, corner := range fields[1:] {
				idx, err := ms.corner(corners, corner, positions, uvs, normals)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				tri[i] = idx
			}
			ms.Indices = append(ms.Indices, tri[0], tri[1], tri[2])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(ms.Indices) == 0 {
		return nil, fmt.Errorf("mesh has no faces")
	}
	ReverseWinding(ms.Indices)
	return ms, nil
}

// ReverseWinding flips the triangle winding of the given index
// list in place, reversing each index triple [a,b,c] to [c,b,a].
// Imported meshes pass through this to match the renderer's
// front-face convention.
func ReverseWinding(ix []uint16) {
	for i := 0; i+2 < len(ix); i += 3 {
		ix[i], ix[i+2] = ix[i+2], ix[i]
	}
}

// corner resolves one face corner spec (v, v/vt, v/vt/vn, v//vn)
// to a vertex index, reusing the existing vertex for a previously
// seen corner.
func (ms *Mesh) corner(seen map[string]int, spec string, positions []math32.Vector3, uvs []math32.Vector2, normals []math32.Vector3) (uint16, error) {
	if i, ok := seen[spec]; ok {
		return uint16(i), nil
	}
	parts := strings.Split(spec, "/")
	if len(parts) > 3 {
		return 0, fmt.Errorf("bad face corner %q", spec)
	}
	var vt Vertex
	vt.Position.W = 1
	pi, err := objIndex(parts[0], len(positions))
	if err != nil {
		return 0, fmt.Errorf("face corner %q: %w", spec, err)
	}
	p := positions[pi]
	vt.Position.X, vt.Position.Y, vt.Position.Z = p.X, p.Y, p.Z
	if len(parts) > 1 && parts[1] != "" {
		ti, err := objIndex(parts[1], len(uvs))
		if err != nil {
			return 0, fmt.Errorf("face corner %q: %w", spec, err)
		}
		vt.UV = uvs[ti]
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, err := objIndex(parts[2], len(normals))
		if err != nil {
			return 0, fmt.Errorf("face corner %q: %w", spec, err)
		}
		n := normals[ni]
		vt.Normal.X, vt.Normal.Y, vt.Normal.Z = n.X, n.Y, n.Z
	}
	idx := len(ms.Vertices)
	if idx >= MaxIndex {
		return 0, fmt.Errorf("vertex index %d exceeds 16-bit index format", idx)
	}
	ms.Vertices = append(ms.Vertices, vt)
	seen[spec] = idx
	return uint16(idx), nil
}

// objIndex parses a 1-based, possibly negative OBJ index against
// a list of n elements.
func objIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: %w", s, err)
	}
	if i < 0 {
		i = n + i + 1
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("index %d out of range 1..%d", i, n)
	}
	return i - 1, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("have %d components, need %d", len(fields), n)
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", fields[i], err)
		}
		out[i] = float32(f)
	}
	return out, nil
}
