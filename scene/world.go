// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"errors"
	"slices"

	"github.com/kiln3d/kiln/geometry"
	"github.com/kiln3d/kiln/texture"
)

var (
	// ErrNoMainCamera is returned by MainCamera when no entity
	// carries the main-camera marker.
	ErrNoMainCamera = errors.New("scene: no main camera entity")

	// ErrMultipleMainCameras is returned by MainCamera when more
	// than one entity carries the main-camera marker.
	ErrMultipleMainCameras = errors.New("scene: multiple main camera entities")
)

// World is a simple array-of-structs entity store implementing
// [Snapshot], for hosts without their own entity system and for
// tests. Entities are small integer ids indexing Transforms;
// optional components live in side maps. Iteration is always in
// entity id order, so encounter order is stable.
type World struct {
	// Transforms holds the Transform of every entity, indexed by
	// entity id.
	Transforms []Transform

	cameras  map[int]*Camera
	mainCams map[int]bool
	geoms    map[int]geometry.ID
	textures map[int]texture.ID
	globals  map[int]GlobalLight
	points   map[int]PointLight
	spots    map[int]SpotLight
}

func NewWorld() *World {
	return &World{
		cameras:  map[int]*Camera{},
		mainCams: map[int]bool{},
		geoms:    map[int]geometry.ID{},
		textures: map[int]texture.ID{},
		globals:  map[int]GlobalLight{},
		points:   map[int]PointLight{},
		spots:    map[int]SpotLight{},
	}
}

// NewEntity adds a new entity with an identity transform and
// returns its id.
func (w *World) NewEntity() int {
	w.Transforms = append(w.Transforms, NewTransform())
	return len(w.Transforms) - 1
}

// Transform returns the transform of the given entity for
// modification.
func (w *World) Transform(id int) *Transform {
	return &w.Transforms[id]
}

// SetParent links child under parent, updating the weak
// parent/child references. It returns an error and leaves the
// links unchanged if the link would create a cycle.
func (w *World) SetParent(child, parent int) error {
	tf := &w.Transforms[child]
	prev := tf.Parent
	tf.Parent = parent
	if err := validateAcyclic(w, child); err != nil {
		tf.Parent = prev
		return err
	}
	if prev != NoEntity {
		pc := &w.Transforms[prev].Children
		if i := slices.Index(*pc, child); i >= 0 {
			*pc = slices.Delete(*pc, i, i+1)
		}
	}
	if parent != NoEntity {
		w.Transforms[parent].Children = append(w.Transforms[parent].Children, child)
	}
	return nil
}

// WorldTransform returns the world-space isometry of the given
// entity, composing up the parent chain.
func (w *World) WorldTransform(id int) Transform {
	tf := w.Transforms[id]
	for p := tf.Parent; p != NoEntity; p = w.Transforms[p].Parent {
		tf = w.Transforms[p].Mul(&tf)
		tf.Parent = w.Transforms[p].Parent
	}
	tf.Parent = NoEntity
	return tf
}

// SetCamera attaches a camera to the given entity.
func (w *World) SetCamera(id int, cm *Camera) {
	w.cameras[id] = cm
}

// SetMainCamera marks the given entity as the main camera.
// The marker on any other entity is not cleared; the uniqueness
// check happens at MainCamera time.
func (w *World) SetMainCamera(id int) {
	w.mainCams[id] = true
}

// SetGeometry attaches a geometry handle to the given entity,
// making it renderable. Immutable once assigned by convention.
func (w *World) SetGeometry(id int, gid geometry.ID) {
	w.geoms[id] = gid
}

// SetTexture attaches a texture handle to the given entity.
// Entities without one render through the untextured path.
func (w *World) SetTexture(id int, tid texture.ID) {
	w.textures[id] = tid
}

func (w *World) SetGlobalLight(id int, lt GlobalLight) { w.globals[id] = lt }
func (w *World) SetPointLight(id int, lt PointLight)   { w.points[id] = lt }
func (w *World) SetSpotLight(id int, lt SpotLight)     { w.spots[id] = lt }

// MainCamera implements [Snapshot].
func (w *World) MainCamera() (CameraView, error) {
	found := NoEntity
	for id := range w.Transforms {
		if !w.mainCams[id] {
			continue
		}
		if _, ok := w.cameras[id]; !ok {
			continue
		}
		if found != NoEntity {
			return CameraView{}, ErrMultipleMainCameras
		}
		found = id
	}
	if found == NoEntity {
		return CameraView{}, ErrNoMainCamera
	}
	return CameraView{
		Camera: *w.cameras[found],
		World:  w.WorldTransform(found),
	}, nil
}

// Renderables implements [Snapshot].
func (w *World) Renderables() []Renderable {
	var rs []Renderable
	for id := range w.Transforms {
		gid, ok := w.geoms[id]
		if !ok {
			continue
		}
		tid := texture.None
		if t, ok := w.textures[id]; ok {
			tid = t
		}
		tf := w.WorldTransform(id)
		rs = append(rs, Renderable{Model: tf.Matrix(), Geometry: gid, Texture: tid})
	}
	return rs
}

// Lights implements [Snapshot].
func (w *World) Lights() LightSet {
	var ls LightSet
	for id := range w.Transforms {
		if lt, ok := w.globals[id]; ok {
			ls.Global = append(ls.Global, lt)
		}
		if lt, ok := w.points[id]; ok {
			ls.Point = append(ls.Point, PointLightInstance{PointLight: lt, Pos: w.WorldTransform(id).Pos})
		}
		if lt, ok := w.spots[id]; ok {
			ls.Spot = append(ls.Spot, SpotLightInstance{SpotLight: lt, Pos: w.WorldTransform(id).Pos})
		}
	}
	return ls
}
