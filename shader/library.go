// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shader

import (
	"fmt"
	"log/slog"

	"github.com/kiln3d/kiln/gpu"
)

// ID is a stable index into a shader Library.
type ID int32

// CatalogEntry names one shader source to load. A zero Name or
// Entry uses the Builder defaults. Source, when set, supplies the
// bytes directly (embedded shaders); the Path then only provides
// the default name and the kind.
type CatalogEntry struct {
	Name   string
	Path   string
	Entry  string
	Source []byte
}

// Catalog lists the shaders a Library loads, in id order.
type Catalog []CatalogEntry

// Add appends a shader source and returns the ID it will load under.
func (ct *Catalog) Add(name, path string) ID {
	id := ID(len(*ct))
	*ct = append(*ct, CatalogEntry{Name: name, Path: path})
	return id
}

// Library holds the loaded shader modules, addressed by ID.
type Library struct {
	Entries []*Shader

	byName map[string]ID
}

// LoadAll builds every catalog shader on the device. On failure
// the already-built modules are released and the error names the
// offending source.
func LoadAll(dev *gpu.Device, catalog Catalog) (*Library, error) {
	lib := &Library{byName: make(map[string]ID, len(catalog))}
	for _, ce := range catalog {
		bd := NewBuilder(ce.Path)
		if ce.Name != "" {
			bd.Name(ce.Name)
		}
		if ce.Entry != "" {
			bd.Entry(ce.Entry)
		}
		if ce.Source != nil {
			bd.Source(ce.Source)
		}
		sh, err := bd.Build(dev)
		if err != nil {
			lib.Release()
			return nil, err
		}
		if _, dup := lib.byName[sh.Name]; dup {
			lib.Release()
			sh.Release()
			return nil, fmt.Errorf("shader %q: duplicate name in catalog", sh.Name)
		}
		lib.byName[sh.Name] = ID(len(lib.Entries))
		lib.Entries = append(lib.Entries, sh)
	}
	slog.Info("shader library loaded", "shaders", len(lib.Entries))
	return lib, nil
}

// Get returns the shader for id. The id must have come from this
// library's catalog.
func (lib *Library) Get(id ID) *Shader {
	if id < 0 || int(id) >= len(lib.Entries) {
		panic(fmt.Sprintf("shader: tried to access shader with bad id %d", id))
	}
	return lib.Entries[id]
}

// ByName returns the id loaded under name.
func (lib *Library) ByName(name string) (ID, bool) {
	id, ok := lib.byName[name]
	return id, ok
}

func (lib *Library) Release() {
	for _, sh := range lib.Entries {
		sh.Release()
	}
	lib.Entries = nil
}
