// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cogentcore.org/core/math32"
)

// GlobalLight is a directional light affecting the whole scene,
// like sunlight. It has no position; only the direction matters.
type GlobalLight struct {
	// Color is the light color (RGB, 0-1).
	Color math32.Vector3

	// Power is the scalar intensity.
	Power float32

	// Direction the light shines in.
	Direction math32.Vector3
}

// PointLight shines in all directions from the position given by
// its entity's Transform, out to Radius.
type PointLight struct {
	// Color is the light color (RGB, 0-1).
	Color math32.Vector3

	// Power is the scalar intensity.
	Power float32

	// Radius is the effective extent of the light.
	Radius float32
}

// SpotLight shines a cone of light from the position given by its
// entity's Transform.
type SpotLight struct {
	// Color is the light color (RGB, 0-1).
	Color math32.Vector3

	// Power is the scalar intensity.
	Power float32

	// Radius is the effective extent of the light.
	Radius float32

	// Direction is the cone axis.
	Direction math32.Vector3

	// CutOff is the cosine of the cone half-angle.
	CutOff float32
}

// PointLightInstance is a point light with its world position
// resolved from the owning entity's Transform.
type PointLightInstance struct {
	PointLight
	Pos math32.Vector3
}

// SpotLightInstance is a spot light with its world position
// resolved from the owning entity's Transform.
type SpotLightInstance struct {
	SpotLight
	Pos math32.Vector3
}

// LightSet is the set of lights gathered for one frame, in scene
// encounter order. The renderer exposes at most a fixed maximum
// per kind to the GPU; excess lights are silently truncated.
type LightSet struct {
	Global []GlobalLight
	Point  []PointLightInstance
	Spot   []SpotLightInstance
}
