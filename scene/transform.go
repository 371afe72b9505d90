// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene provides the data model consumed by the renderer:
// spatial transforms, cameras, lights, and renderable references,
// together with the Snapshot interface that decouples the render
// core from any particular entity store, and a simple slice-backed
// World store implementing it.
package scene

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// NoEntity is the nil entity id, used for absent parent links.
const NoEntity = -1

// Transform is a rigid isometry: rotation and translation, with
// no scale or shear. An optional parent link composes transforms
// hierarchically; parent and child links are weak back-references
// for lookup only, and must remain acyclic.
type Transform struct {
	// Pos is the translation component.
	Pos math32.Vector3

	// Quat is the rotation component.
	Quat math32.Quat

	// Parent is the id of the parent entity, or NoEntity.
	Parent int

	// Children are the ids of child entities, maintained as weak
	// back-references by [World.SetParent].
	Children []int
}

// NewTransform returns an identity transform with no parent.
func NewTransform() Transform {
	tf := Transform{Parent: NoEntity}
	tf.Quat.SetIdentity()
	return tf
}

// Matrix returns the local isometry as a 4x4 matrix.
func (tf *Transform) Matrix() math32.Matrix4 {
	var m math32.Matrix4
	m.SetTransform(tf.Pos, tf.Quat, math32.Vec3(1, 1, 1))
	return m
}

// Mul returns the composition of this transform followed by the
// given local child transform: the child expressed in this
// transform's frame.
func (tf *Transform) Mul(child *Transform) Transform {
	out := NewTransform()
	out.Pos = child.Pos.MulQuat(tf.Quat).Add(tf.Pos)
	out.Quat = tf.Quat.Mul(child.Quat)
	return out
}

// Inverse returns the inverse isometry.
func (tf *Transform) Inverse() Transform {
	out := NewTransform()
	iq := tf.Quat
	iq.SetConjugate()
	out.Quat = iq
	out.Pos = tf.Pos.Negate().MulQuat(iq)
	return out
}

// validateAcyclic walks the parent chain from the given entity and
// returns an error if the entity is its own ancestor.
func validateAcyclic(w *World, id int) error {
	seen := 0
	for p := w.Transforms[id].Parent; p != NoEntity; p = w.Transforms[p].Parent {
		if p == id {
			return fmt.Errorf("scene: entity %d is its own ancestor", id)
		}
		seen++
		if seen > len(w.Transforms) {
			return fmt.Errorf("scene: parent chain cycle above entity %d", id)
		}
	}
	return nil
}
