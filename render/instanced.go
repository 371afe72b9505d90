// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kiln3d/kiln/geometry"
	"github.com/kiln3d/kiln/gpu"
	"github.com/kiln3d/kiln/scene"
	"github.com/kiln3d/kiln/texture"
)

// batch is one contiguous run of instances sharing a geometry,
// drawn with a single indexed-instanced draw. The batch texture
// is the first one encountered for the geometry; the instanced
// path assumes instances of a kind share a texture.
type batch struct {
	geom    geometry.ID
	texture texture.ID
	first   int
	count   int
}

// batchInstances stable-sorts the objects by geometry kind and
// packs their model matrices contiguously in sorted order,
// returning one batch per kind with its instance range.
func batchInstances(objects []scene.Renderable) ([]batch, []byte) {
	sorted := slices.Clone(objects)
	slices.SortStableFunc(sorted, func(a, b scene.Renderable) int {
		return int(a.Geometry) - int(b.Geometry)
	})
	data := make([]byte, 0, len(sorted)*geometry.InstanceBytes)
	var batches []batch
	for i := range sorted {
		ob := &sorted[i]
		data = geometry.MatrixBytes(data, &ob.Model)
		if n := len(batches); n > 0 && batches[n-1].geom == ob.Geometry {
			batches[n-1].count++
		} else {
			batches = append(batches, batch{geom: ob.Geometry, texture: ob.Texture, first: i, count: 1})
		}
	}
	return batches, data
}

// FrameInstanced renders one frame using the instanced path: all
// model matrices go into one instance buffer and each geometry
// kind is drawn with a single instanced draw, trading a sort pass
// per frame for a draw count independent of object count. Suited
// to scenes with many objects over a few geometry kinds.
//
// Camera and surface error handling matches [RenderState.Frame].
func (rs *RenderState) FrameInstanced(sn scene.Snapshot) {
	plan, err := buildFramePlan(sn)
	if err != nil {
		slog.Error("render: skipping frame", "err", err)
		return
	}
	dev := rs.Target.Device()
	batches, data := batchInstances(plan.objects)

	// growth invalidates prior contents, but the full range is
	// rewritten below anyway
	rs.instances.EnsureCapacity(len(plan.objects))
	if err := dev.Queue.WriteBuffer(rs.cameraBuffer, 0, plan.camera); err != nil {
		gpu.Fatal(err)
	}
	if err := dev.Queue.WriteBuffer(rs.lightBuffer, 0, plan.lights); err != nil {
		gpu.Fatal(err)
	}
	if len(data) > 0 {
		if err := rs.instances.Write(0, data); err != nil {
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
	rp.SetPipeline(rs.instancedPipeline)
	rp.SetBindGroup(0, rs.cameraGroup, nil)
	rp.SetBindGroup(2, rs.lightGroup, nil)
	rp.SetVertexBuffer(1, rs.instances.Buffer(), 0, wgpu.WholeSize)

	for _, ba := range batches {
		rp.SetBindGroup(1, rs.textureGroup(ba.texture), nil)
		ge := rs.Geometry.Get(ba.geom)
		rp.SetVertexBuffer(0, rs.Geometry.VertexBuffer(), uint64(ge.VertexOffset), uint64(ge.VertexSize))
		rp.SetIndexBuffer(rs.Geometry.IndexBuffer(), wgpu.IndexFormatUint16, uint64(ge.IndexOffset), uint64(ge.IndexSize))
		rp.DrawIndexed(uint32(ge.IndexCount), uint32(ba.count), 0, 0, uint32(ba.first))
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
