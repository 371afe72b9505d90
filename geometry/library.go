// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geometry provides the geometry library: GPU-resident
// vertex and index data for a fixed catalog of geometry
// identifiers, either baked primitives or imported mesh files.
// All entries share one vertex buffer and one index buffer;
// entries carry byte offsets and counts for sub-buffer draws.
package geometry

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kiln3d/kiln/gpu"
)

// ID is a stable handle identifying a geometry catalog entry.
// Consumers hold copyable IDs; the library owns the GPU data.
type ID int32

// The built-in procedural geometries.
const (
	Plane ID = iota
	Cube
	Tetrahedron
)

// CatalogEntry is one compile-time catalog item: either a baked
// primitive (Vertices and Indices funcs) or an external mesh file
// (Path), keyed by the ID it will be loaded under.
type CatalogEntry struct {
	Name string

	// Path is the mesh file to import, for file-backed entries.
	Path string

	// Vertices and Indices produce baked data, for procedural
	// entries.
	Vertices func() []Vertex
	Indices  func() []uint16
}

// Catalog is the association list from IDs to geometry sources,
// fixed at library load time. Index position is the ID.
type Catalog []CatalogEntry

// StandardCatalog returns the catalog of built-in primitives.
// Append file-backed entries before LoadAll to extend it.
func StandardCatalog() Catalog {
	return Catalog{
		{Name: "plane", Vertices: PlaneVertices, Indices: PlaneIndices},
		{Name: "cube", Vertices: CubeVertices, Indices: CubeIndices},
		{Name: "tetrahedron", Vertices: TetrahedronVertices, Indices: TetrahedronIndices},
	}
}

// Add appends a file-backed entry to the catalog and returns the
// ID it will be loaded under.
func (ct *Catalog) Add(name, path string) ID {
	*ct = append(*ct, CatalogEntry{Name: name, Path: path})
	return ID(len(*ct) - 1)
}

// Entry is one loaded geometry: byte regions within the library's
// shared vertex and index buffers, and the index count to draw.
type Entry struct {
	// Name is the catalog entry name, for diagnostics.
	Name string

	// VertexOffset and VertexSize are the byte region within the
	// shared vertex buffer.
	VertexOffset uint64
	VertexSize   uint64

	// IndexOffset and IndexSize are the byte region within the
	// shared index buffer.
	IndexOffset uint64
	IndexSize   uint64

	// IndexCount is the number of indices to draw.
	IndexCount uint32
}

// Library holds the GPU-resident geometry for every catalog
// entry. Loaded once at startup by LoadAll and immutable
// afterward; there is no eviction. The library exclusively owns
// its buffers, which are released together with it.
type Library struct {
	// Entries is indexed by ID.
	Entries []Entry

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
}

// LoadAll synchronously loads every catalog entry, concatenating
// all vertex and index data into one shared buffer each and
// uploading both to the given device. Any entry failing to load
// fails the whole library; no partial state is usable.
func LoadAll(dev *gpu.Device, catalog Catalog) (*Library, error) {
	lb := &Library{}
	entries, vdata, idata, err := buildBlobs(catalog)
	if err != nil {
		return nil, err
	}
	lb.Entries = entries
	lb.vertexBuffer, err = gpu.NewVertexBufferInit(dev, "geometry vertices", vdata)
	if err != nil {
		return nil, fmt.Errorf("geometry: vertex buffer upload: %w", err)
	}
	lb.indexBuffer, err = gpu.NewIndexBufferInit(dev, "geometry indices", idata)
	if err != nil {
		return nil, fmt.Errorf("geometry: index buffer upload: %w", err)
	}
	slog.Info("geometry: library loaded", "entries", len(lb.Entries),
		"vertexBytes", len(vdata), "indexBytes", len(idata))
	return lb, nil
}

// buildBlobs loads every catalog entry and concatenates the data
// into the shared vertex and index blobs, computing each entry's
// byte regions.
func buildBlobs(catalog Catalog) (entries []Entry, vdata, idata []byte, err error) {
	for _, ce := range catalog {
		vs, ix, err := ce.load()
		if err != nil {
			return nil, nil, nil, err
		}
		entries = append(entries, Entry{
			Name:         ce.Name,
			VertexOffset: uint64(len(vdata)),
			VertexSize:   uint64(len(vs) * VertexBytes),
			IndexOffset:  uint64(len(idata)),
			IndexSize:    uint64(len(ix) * 2),
			IndexCount:   uint32(len(ix)),
		})
		vdata = append(vdata, VertexBytesFor(vs)...)
		idata = append(idata, IndexBytesFor(ix)...)
	}
	return entries, vdata, idata, nil
}

func (ce *CatalogEntry) load() ([]Vertex, []uint16, error) {
	if ce.Vertices != nil {
		return ce.Vertices(), ce.Indices(), nil
	}
	ms, err := ImportOBJ(ce.Path)
	if err != nil {
		return nil, nil, err
	}
	return ms.Vertices, ms.Indices, nil
}

// Get returns the entry for a previously loaded ID. Calling with
// an unregistered ID is a programming error and panics.
func (lb *Library) Get(id ID) *Entry {
	if int(id) < 0 || int(id) >= len(lb.Entries) {
		panic(fmt.Sprintf("geometry: tried to access geometry with bad id %d", id))
	}
	return &lb.Entries[id]
}

// VertexBuffer returns the shared vertex buffer.
func (lb *Library) VertexBuffer() *wgpu.Buffer { return lb.vertexBuffer }

// IndexBuffer returns the shared index buffer.
func (lb *Library) IndexBuffer() *wgpu.Buffer { return lb.indexBuffer }

func (lb *Library) Release() {
	if lb.vertexBuffer != nil {
		lb.vertexBuffer.Release()
		lb.vertexBuffer = nil
	}
	if lb.indexBuffer != nil {
		lb.indexBuffer.Release()
		lb.indexBuffer = nil
	}
	lb.Entries = nil
}
