// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kiln3d/kiln/geometry"
	"github.com/kiln3d/kiln/gpu"
	"github.com/kiln3d/kiln/scene"
	"github.com/kiln3d/kiln/texture"
)

// framePlan is everything computed CPU-side for one frame before
// any GPU write is queued: the packed uniform blocks and the
// objects to draw. Building the plan fails when the snapshot has
// no unique main camera, in which case nothing reaches the GPU.
type framePlan struct {
	camera  []byte
	lights  []byte
	objects []scene.Renderable
}

func buildFramePlan(sn scene.Snapshot) (*framePlan, error) {
	cam, err := sn.MainCamera()
	if err != nil {
		return nil, err
	}
	vp := cam.ViewProjection()
	ls := sn.Lights()
	return &framePlan{
		camera:  PackCamera(&vp, cam.Position()),
		lights:  PackLights(&ls),
		objects: sn.Renderables(),
	}, nil
}

// Frame renders one frame of the snapshot to the target: uniform
// writes are queued, then one render pass draws every renderable
// with its own model matrix bound at a dynamic offset.
//
// A snapshot without a unique main camera logs an error and skips
// the frame with no partial work. An outdated surface (a resize
// racing the redraw) skips the frame silently. Any other frame
// acquisition failure is fatal.
func (rs *RenderState) Frame(sn scene.Snapshot) {
	plan, err := buildFramePlan(sn)
	if err != nil {
		slog.Error("render: skipping frame", "err", err)
		return
	}
	dev := rs.Target.Device()

	if n := len(plan.objects); n > 0 && rs.models.EnsureCapacity(n) {
		if err := rs.bindModels(dev); err != nil {
			gpu.Fatal(err)
		}
	}
	// uniform writes are queued; they complete before the draw
	// without any explicit synchronization
	if err := dev.Queue.WriteBuffer(rs.cameraBuffer, 0, plan.camera); err != nil {
		gpu.Fatal(err)
	}
	if err := dev.Queue.WriteBuffer(rs.lightBuffer, 0, plan.lights); err != nil {
		gpu.Fatal(err)
	}
	for i := range plan.objects {
		mb := geometry.MatrixBytes(make([]byte, 0, geometry.InstanceBytes), &plan.objects[i].Model)
		if err := rs.models.Write(i, mb); err != nil {
			gpu.Fatal(err)
		}
	}

	view, err := rs.Target.GetCurrentTexture()
	if err != nil {
		if gpu.IsSurfaceOutdated(err) {
			return
		}
		gpu.Fatal(fmt.Errorf("render: failed to acquire next frame: %w", err))
	}
	defer view.Release()

	cmd, err := dev.Device.CreateCommandEncoder(nil)
	if err != nil {
		gpu.Fatal(err)
	}
	rp := rs.Target.Render().BeginRenderPass(cmd, view)
	rp.SetPipeline(rs.pipeline)
	rp.SetBindGroup(0, rs.cameraGroup, nil)
	rp.SetBindGroup(2, rs.lightGroup, nil)

	// rebinding the texture group only on handle change keeps
	// state changes down when objects are grouped by texture
	bound := texture.ID(-2)
	for i := range plan.objects {
		ob := &plan.objects[i]
		if ob.Texture != bound {
			rp.SetBindGroup(1, rs.textureGroup(ob.Texture), nil)
			bound = ob.Texture
		}
		rp.SetBindGroup(3, rs.modelGroup, []uint32{uint32(i * rs.modelStride)})
		ge := rs.Geometry.Get(ob.Geometry)
		rp.SetVertexBuffer(0, rs.Geometry.VertexBuffer(), uint64(ge.VertexOffset), uint64(ge.VertexSize))
		rp.SetIndexBuffer(rs.Geometry.IndexBuffer(), wgpu.IndexFormatUint16, uint64(ge.IndexOffset), uint64(ge.IndexSize))
		rp.DrawIndexed(uint32(ge.IndexCount), 1, 0, 0, 0)
	}
	rp.End()
	rp.Release() // must happen before Finish

	cb, err := cmd.Finish(nil)
	if err != nil {
		gpu.Fatal(err)
	}
	dev.Queue.Submit(cb)
	rs.Target.Present()
	cb.Release()
	cmd.Release()
}

// textureGroup returns the bind group for a texture handle, the
// default white texture for [texture.None].
func (rs *RenderState) textureGroup(id texture.ID) *wgpu.BindGroup {
	if id == texture.None {
		return rs.Textures.Default.BindGroup()
	}
	return rs.Textures.Get(id).BindGroup()
}
