// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render turns scene snapshots into GPU draw calls. A
// RenderState owns the pipelines, uniform buffers, and resource
// libraries, and renders one frame per call to Render.
package render

import (
	_ "embed"
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/kiln3d/kiln/geometry"
	"github.com/kiln3d/kiln/gpu"
	"github.com/kiln3d/kiln/shader"
	"github.com/kiln3d/kiln/texture"
)

//go:embed shaders/forward_vert.wgsl
var forwardVertWGSL []byte

//go:embed shaders/forward_frag.wgsl
var forwardFragWGSL []byte

//go:embed shaders/instanced_vert.wgsl
var instancedVertWGSL []byte

// Shader ids in the order [shaderCatalog] lists them.
const (
	ForwardVert shader.ID = iota
	ForwardFrag
	InstancedVert
)

func shaderCatalog() shader.Catalog {
	return shader.Catalog{
		{Path: "shaders/forward_vert.wgsl", Source: forwardVertWGSL},
		{Path: "shaders/forward_frag.wgsl", Source: forwardFragWGSL},
		{Path: "shaders/instanced_vert.wgsl", Source: instancedVertWGSL},
	}
}

// initialObjectCapacity is the starting element capacity of the
// per-object and instance buffers; both grow by doubling.
const initialObjectCapacity = 64

// RenderState owns everything needed to draw frames on a render
// target: the libraries, the render pipelines, and the per-frame
// uniform buffers. All methods must be called from the single
// render thread; nothing here is safe for concurrent use.
type RenderState struct {
	// GPU is the physical GPU the target renders on.
	GPU *gpu.GPU

	// Target is the render target, a window Surface or an
	// offscreen RenderTexture.
	Target gpu.Renderer

	// Geometry, Textures, and Shaders are the loaded resource
	// libraries, read-only after construction.
	Geometry *geometry.Library
	Textures *texture.Library
	Shaders  *shader.Library

	pipeline          *wgpu.RenderPipeline
	instancedPipeline *wgpu.RenderPipeline

	cameraBuffer *wgpu.Buffer
	lightBuffer  *wgpu.Buffer
	cameraGroup  *wgpu.BindGroup
	lightGroup   *wgpu.BindGroup

	// models holds one model matrix per object at modelStride
	// byte spacing, bound at group 3 with a dynamic offset.
	models      *gpu.GrowingBuffer
	modelGroup  *wgpu.BindGroup
	modelLayout *wgpu.BindGroupLayout
	modelStride int

	// instances is the instance-path matrix buffer, slot 1.
	instances *gpu.GrowingBuffer
}

// NewRenderState loads the given catalogs and builds the render
// pipelines against the target's format. Library load failures
// leave no usable state and propagate as errors; they are fatal
// at startup.
func NewRenderState(gp *gpu.GPU, target gpu.Renderer, geoms geometry.Catalog, texs texture.Catalog) (*RenderState, error) {
	dev := target.Device()
	rs := &RenderState{GPU: gp, Target: target}

	var err error
	if rs.Shaders, err = shader.LoadAll(dev, shaderCatalog()); err != nil {
		return nil, err
	}
	if rs.Geometry, err = geometry.LoadAll(dev, geoms); err != nil {
		rs.Release()
		return nil, err
	}
	texLayout, err := texture.BindGroupLayout(dev)
	if err != nil {
		rs.Release()
		return nil, err
	}
	defer texLayout.Release()
	if rs.Textures, err = texture.LoadAll(dev, texLayout, texs); err != nil {
		rs.Release()
		return nil, err
	}
	if err = rs.initUniforms(dev); err != nil {
		rs.Release()
		return nil, err
	}
	if err = rs.initPipelines(dev, texLayout); err != nil {
		rs.Release()
		return nil, err
	}
	return rs, nil
}

func uniformEntry(binding uint32, vis wgpu.ShaderStage, dynamic bool) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: vis,
		Buffer: wgpu.BufferBindingLayout{
			Type:             wgpu.BufferBindingTypeUniform,
			HasDynamicOffset: dynamic,
		},
	}
}

func (rs *RenderState) initUniforms(dev *gpu.Device) error {
	var err error
	rs.cameraBuffer, err = gpu.NewUniformBuffer(dev, "camera", CameraBlockBytes)
	if err != nil {
		return err
	}
	rs.lightBuffer, err = gpu.NewUniformBuffer(dev, "lights", LightBlockBytes)
	if err != nil {
		return err
	}
	rs.modelStride = gpu.MemSizeAlign(geometry.InstanceBytes, rs.GPU.UniformAlign())
	rs.models = gpu.NewGrowingBuffer(dev, "models", rs.modelStride,
		initialObjectCapacity, wgpu.BufferUsageUniform)
	rs.instances = gpu.NewGrowingBuffer(dev, "instances", geometry.InstanceBytes,
		initialObjectCapacity, wgpu.BufferUsageVertex)
	return nil
}

// singleUniformGroup creates a bind group layout with one uniform
// buffer entry and the bind group binding buf to it.
func singleUniformGroup(dev *gpu.Device, label string, vis wgpu.ShaderStage, buf *wgpu.Buffer, size uint64) (*wgpu.BindGroupLayout, *wgpu.BindGroup, error) {
	layout, err := dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, vis, false)},
	})
	if err != nil {
		return nil, nil, err
	}
	bg, err := dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Size:    size,
		}},
	})
	if err != nil {
		layout.Release()
		return nil, nil, err
	}
	return layout, bg, nil
}

// bindModels (re)creates the group 3 bind group over the current
// model buffer allocation. Called at init and after growth.
func (rs *RenderState) bindModels(dev *gpu.Device) error {
	if rs.modelGroup != nil {
		rs.modelGroup.Release()
		rs.modelGroup = nil
	}
	bg, err := dev.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "models",
		Layout: rs.modelLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  rs.models.Buffer(),
			Size:    uint64(geometry.InstanceBytes),
		}},
	})
	if err != nil {
		return err
	}
	rs.modelGroup = bg
	return nil
}

func (rs *RenderState) initPipelines(dev *gpu.Device, texLayout *wgpu.BindGroupLayout) error {
	cameraLayout, cameraGroup, err := singleUniformGroup(dev, "camera",
		wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, rs.cameraBuffer, CameraBlockBytes)
	if err != nil {
		return err
	}
	defer cameraLayout.Release()
	rs.cameraGroup = cameraGroup

	lightLayout, lightGroup, err := singleUniformGroup(dev, "lights",
		wgpu.ShaderStageFragment, rs.lightBuffer, LightBlockBytes)
	if err != nil {
		return err
	}
	defer lightLayout.Release()
	rs.lightGroup = lightGroup

	rs.modelLayout, err = dev.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "models",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex, true)},
	})
	if err != nil {
		return err
	}
	if err = rs.bindModels(dev); err != nil {
		return err
	}

	format := rs.Target.Render().Format
	depth := &wgpu.DepthStencilState{
		Format:            gpu.DepthFormat,
		DepthWriteEnabled: true,
		DepthCompare:      wgpu.CompareFunctionLess,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
	// Front faces are culled, not back faces. Imported meshes
	// compensate by reversing index winding at load; changing
	// either side alone inverts culling.
	primitive := wgpu.PrimitiveState{
		Topology:  wgpu.PrimitiveTopologyTriangleList,
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeFront,
	}
	multisample := wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF}

	layout, err := dev.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "forward",
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraLayout, texLayout, lightLayout, rs.modelLayout},
	})
	if err != nil {
		return err
	}
	defer layout.Release()

	vert := rs.Shaders.Get(ForwardVert)
	frag := rs.Shaders.Get(ForwardFrag)
	rs.pipeline, err = dev.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "forward",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vert.Module(),
			EntryPoint: vert.Entry,
			Buffers:    []wgpu.VertexBufferLayout{geometry.VertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     frag.Module(),
			EntryPoint: frag.Entry,
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive:    primitive,
		DepthStencil: depth,
		Multisample:  multisample,
	})
	if err != nil {
		return fmt.Errorf("render: forward pipeline: %w", err)
	}

	// the instanced variant reads the model matrix from vertex
	// buffer slot 1 instead of group 3
	instLayout, err := dev.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "instanced",
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraLayout, texLayout, lightLayout},
	})
	if err != nil {
		return err
	}
	defer instLayout.Release()

	ivert := rs.Shaders.Get(InstancedVert)
	rs.instancedPipeline, err = dev.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "instanced",
		Layout: instLayout,
		Vertex: wgpu.VertexState{
			Module:     ivert.Module(),
			EntryPoint: ivert.Entry,
			Buffers:    []wgpu.VertexBufferLayout{geometry.VertexLayout(), geometry.InstanceLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     frag.Module(),
			EntryPoint: frag.Entry,
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive:    primitive,
		DepthStencil: depth,
		Multisample:  multisample,
	})
	if err != nil {
		return fmt.Errorf("render: instanced pipeline: %w", err)
	}
	return nil
}

// SetSize forwards a window resize to the render target.
// Zero-area sizes are ignored by the target.
func (rs *RenderState) SetSize(size image.Point) {
	rs.Target.SetSize(size)
}

func (rs *RenderState) Release() {
	if rs.pipeline != nil {
		rs.pipeline.Release()
		rs.pipeline = nil
	}
	if rs.instancedPipeline != nil {
		rs.instancedPipeline.Release()
		rs.instancedPipeline = nil
	}
	if rs.modelGroup != nil {
		rs.modelGroup.Release()
		rs.modelGroup = nil
	}
	if rs.modelLayout != nil {
		rs.modelLayout.Release()
		rs.modelLayout = nil
	}
	if rs.cameraGroup != nil {
		rs.cameraGroup.Release()
		rs.cameraGroup = nil
	}
	if rs.lightGroup != nil {
		rs.lightGroup.Release()
		rs.lightGroup = nil
	}
	if rs.cameraBuffer != nil {
		rs.cameraBuffer.Release()
		rs.cameraBuffer = nil
	}
	if rs.lightBuffer != nil {
		rs.lightBuffer.Release()
		rs.lightBuffer = nil
	}
	if rs.models != nil {
		rs.models.Release()
		rs.models = nil
	}
	if rs.instances != nil {
		rs.instances.Release()
		rs.instances = nil
	}
	if rs.Textures != nil {
		rs.Textures.Release()
		rs.Textures = nil
	}
	if rs.Geometry != nil {
		rs.Geometry.Release()
		rs.Geometry = nil
	}
	if rs.Shaders != nil {
		rs.Shaders.Release()
		rs.Shaders = nil
	}
}
