// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// NewUniformBuffer returns a zero-initialized uniform buffer of the
// given byte size, written with [wgpu.Queue.WriteBuffer].
func NewUniformBuffer(dev *Device, label string, size int) (*wgpu.Buffer, error) {
	return dev.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
}

// NewVertexBufferInit returns a vertex buffer initialized with the
// given contents.
func NewVertexBufferInit(dev *Device, label string, contents []byte) (*wgpu.Buffer, error) {
	return dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
}

// NewIndexBufferInit returns an index buffer initialized with the
// given contents.
func NewIndexBufferInit(dev *Device, label string, contents []byte) (*wgpu.Buffer, error) {
	return dev.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
}

// GrowingBuffer is a GPU buffer of fixed-stride elements that
// grows by doubling when the requested element count exceeds its
// capacity, amortizing reallocation to O(1) per frame. Used for
// per-object dynamic uniform data and for instance buffers, whose
// element counts vary frame to frame.
type GrowingBuffer struct {
	// Label is the buffer debug label.
	Label string

	// Stride is the byte stride per element.
	Stride int

	// Capacity is the current element capacity.
	Capacity int

	// Usage is the buffer usage flags.
	Usage wgpu.BufferUsage

	buffer *wgpu.Buffer
	device *Device
}

// NewGrowingBuffer returns a growing buffer with the given element
// stride and initial element capacity, allocated immediately.
func NewGrowingBuffer(dev *Device, label string, stride, capacity int, usage wgpu.BufferUsage) *GrowingBuffer {
	gb := &GrowingBuffer{Label: label, Stride: stride, Usage: usage, device: dev}
	gb.alloc(capacity)
	return gb
}

// Buffer returns the current underlying buffer. The returned
// pointer is invalidated by a growing EnsureCapacity call.
func (gb *GrowingBuffer) Buffer() *wgpu.Buffer { return gb.buffer }

// GrowCapacity returns the smallest power-of-two multiple of
// current that holds n elements, the growth policy used by
// [GrowingBuffer.EnsureCapacity].
func GrowCapacity(current, n int) int {
	if current < 1 {
		current = 1
	}
	for current < n {
		current *= 2
	}
	return current
}

// EnsureCapacity grows the buffer to hold at least n elements,
// reallocating to the next power-of-two multiple of the current
// capacity when needed. Returns true if the buffer was
// reallocated, in which case previously written contents are gone
// and the caller must rewrite the full range.
func (gb *GrowingBuffer) EnsureCapacity(n int) bool {
	if n <= gb.Capacity {
		return false
	}
	gb.alloc(GrowCapacity(gb.Capacity, n))
	return true
}

func (gb *GrowingBuffer) alloc(capacity int) {
	if gb.buffer != nil {
		gb.buffer.Release()
	}
	buf, err := gb.device.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: gb.Label,
		Size:  uint64(capacity * gb.Stride),
		Usage: gb.Usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		Fatal(err)
	}
	gb.buffer = buf
	gb.Capacity = capacity
}

// Write writes the given bytes at the given element index.
func (gb *GrowingBuffer) Write(idx int, data []byte) error {
	return gb.device.Queue.WriteBuffer(gb.buffer, uint64(idx*gb.Stride), data)
}

func (gb *GrowingBuffer) Release() {
	if gb.buffer != nil {
		gb.buffer.Release()
		gb.buffer = nil
	}
	gb.Capacity = 0
}
