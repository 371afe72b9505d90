// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command kilnview opens a window and renders a small demo scene:
// a floor plane, spinning primitives, and a few lights, driven by
// the fixed-step update loop. Settings come from an optional
// kilnview.toml next to the binary.
package main

import (
	"image"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"cogentcore.org/core/math32"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/kiln3d/kiln/clock"
	"github.com/kiln3d/kiln/geometry"
	"github.com/kiln3d/kiln/gpu"
	"github.com/kiln3d/kiln/render"
	"github.com/kiln3d/kiln/scene"
	"github.com/kiln3d/kiln/texture"
)

func init() {
	// must lock main thread for gpu!
	runtime.LockOSThread()
}

func main() {
	cfg, err := loadConfig("kilnview.toml")
	if err != nil {
		gpu.Fatal(err)
	}

	size := image.Pt(cfg.Width, cfg.Height)
	wsurf, terminate, pollEvents, window, err := gpu.GLFWCreateWindow(size, cfg.Title)
	if err != nil {
		gpu.Fatal(err)
	}
	gp := gpu.NewGPU(wsurf)
	sf := gpu.NewSurface(gp, wsurf, size)

	geoCat := geometry.StandardCatalog()
	var meshIDs []geometry.ID
	for _, m := range cfg.Meshes {
		meshIDs = append(meshIDs, geoCat.Add(m.Name, m.Path))
	}
	var texCat texture.Catalog
	var texIDs []texture.ID
	for _, t := range cfg.Textures {
		texIDs = append(texIDs, texCat.Add(t.Name, t.Path))
	}

	rs, err := render.NewRenderState(gp, sf, geoCat, texCat)
	if err != nil {
		gpu.Fatal(err)
	}
	destroy := func() {
		rs.Release()
		sf.Release()
		gp.Release()
		terminate()
	}

	world, cam, spinners := buildScene(cfg, meshIDs, texIDs)
	window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		sf.SetSize(image.Pt(width, height))
		if width > 0 && height > 0 {
			cam.Aspect = float32(width) / float32(height)
		}
	})

	ck := clock.New(
		time.Second/time.Duration(cfg.UpdateHz),
		time.Second/time.Duration(cfg.FrameHz),
	)
	dt := float32(1) / float32(cfg.UpdateHz)
	slog.Info("kilnview starting", "size", size, "updateHz", cfg.UpdateHz, "frameHz", cfg.FrameHz)

	for pollEvents() {
		steps, frameDue := ck.Advance(time.Now())
		for i := 0; i < steps; i++ {
			spinners.step(world, dt)
		}
		if frameDue || sf.NeedsRedraw {
			sf.NeedsRedraw = false
			rs.Frame(world)
		}
	}
	destroy()
}

// spinnerSet rotates a set of entities around fixed random axes,
// one increment per update step.
type spinnerSet struct {
	ids  []int
	axes []math32.Vector3
}

func (ss *spinnerSet) add(id int) {
	ss.ids = append(ss.ids, id)
	ss.axes = append(ss.axes, randAxis())
}

func (ss *spinnerSet) step(w *scene.World, dt float32) {
	for i, id := range ss.ids {
		tf := w.Transform(id)
		rot := math32.NewQuatAxisAngle(ss.axes[i], dt)
		tf.Quat = rot.Mul(tf.Quat)
	}
}

func randAxis() math32.Vector3 {
	v := math32.Vec3(rand.Float32()*2-1, rand.Float32()*2-1, rand.Float32()*2-1)
	if v.Length() < 1e-4 {
		return math32.Vec3(0, 1, 0)
	}
	return v.Normal()
}

// buildScene populates the demo world: a main camera, a floor
// plane, spinning primitives, and the demo lights. The returned
// camera is the live main camera; the resize callback updates its
// aspect ratio.
func buildScene(cfg *Config, meshIDs []geometry.ID, texIDs []texture.ID) (*scene.World, *scene.Camera, *spinnerSet) {
	w := scene.NewWorld()
	spin := &spinnerSet{}

	texAt := func(i int) texture.ID {
		if len(texIDs) == 0 {
			return texture.None
		}
		return texIDs[i%len(texIDs)]
	}

	var cam scene.Camera
	cam.Defaults()
	cam.Aspect = float32(cfg.Width) / float32(cfg.Height)
	eye := w.NewEntity()
	w.Transform(eye).Pos = math32.Vec3(3, 0, 0)
	w.SetCamera(eye, &cam)
	w.SetMainCamera(eye)

	floor := w.NewEntity()
	w.Transform(floor).Pos = math32.Vec3(0, -2, -5)
	w.SetGeometry(floor, geometry.Plane)
	w.SetTexture(floor, texAt(1))

	cube := w.NewEntity()
	w.Transform(cube).Pos = math32.Vec3(0, 0, -5)
	w.SetGeometry(cube, geometry.Cube)
	w.SetTexture(cube, texAt(0))
	spin.add(cube)

	tetra := w.NewEntity()
	w.Transform(tetra).Pos = math32.Vec3(3, 0, -5)
	w.SetGeometry(tetra, geometry.Tetrahedron)
	w.SetTexture(tetra, texAt(0))
	spin.add(tetra)

	// a row of spinning cubes with alternating textures
	for i := 0; i < 10; i++ {
		e := w.NewEntity()
		w.Transform(e).Pos = math32.Vec3(float32(i), 3, -5)
		w.SetGeometry(e, geometry.Cube)
		w.SetTexture(e, texAt(i))
		spin.add(e)
	}
	// any configured meshes line up next to the primitives
	for i, id := range meshIDs {
		e := w.NewEntity()
		w.Transform(e).Pos = math32.Vec3(float32(6+3*i), 0, -5)
		w.SetGeometry(e, id)
		w.SetTexture(e, texAt(i))
	}

	point := w.NewEntity()
	w.SetPointLight(point, scene.PointLight{
		Color:  math32.Vec3(1, 1, 1),
		Power:  1,
		Radius: 1,
	})
	sun := w.NewEntity()
	w.SetGlobalLight(sun, scene.GlobalLight{
		Color:     math32.Vec3(1, 1, 1),
		Power:     100,
		Direction: math32.Vec3(1, 1, 1),
	})
	return w, &cam, spin
}
