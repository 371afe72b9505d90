// Copyright (c) 2026, Kiln Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
)

// ktx2Magic is the KTX2 container file identifier.
var ktx2Magic = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x32, 0x30, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

// vkFormatRGBA8SRGB is VK_FORMAT_R8G8B8A8_SRGB, the only pixel
// format the library accepts.
const vkFormatRGBA8SRGB = 43

// ktx2Image is the decoded payload of an accepted KTX2 container:
// the level-0 RGBA8 sRGB pixel data.
type ktx2Image struct {
	Size   image.Point
	Pixels []byte
}

// decodeKTX2 parses a KTX2 container and extracts the level-0
// pixel data. The container must satisfy the library's fixed
// expectations: RGBA8 sRGB format, zero pixel depth, a single
// mip level, and no supercompression; each violation is reported
// naming the violated expectation.
func decodeKTX2(data []byte) (*ktx2Image, error) {
	// identifier + header + section index + one level index entry
	if len(data) < len(ktx2Magic)+36+32+24 {
		return nil, fmt.Errorf("file too short for KTX2 container")
	}
	if !bytes.Equal(data[:len(ktx2Magic)], ktx2Magic) {
		return nil, fmt.Errorf("missing KTX2 identifier, not a KTX2 file")
	}
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off:]) }
	u64 := func(off int) uint64 { return binary.LittleEndian.Uint64(data[off:]) }

	const h = 12 // header starts after the identifier
	var (
		vkFormat         = u32(h + 0)
		pixelWidth       = u32(h + 8)
		pixelHeight      = u32(h + 12)
		pixelDepth       = u32(h + 16)
		levelCount       = u32(h + 28)
		supercompression = u32(h + 32)
	)
	if vkFormat != vkFormatRGBA8SRGB {
		return nil, fmt.Errorf("pixel format %d, expected R8G8B8A8_SRGB (%d)", vkFormat, vkFormatRGBA8SRGB)
	}
	if pixelDepth != 0 {
		return nil, fmt.Errorf("pixel depth %d, expected 0 (2D texture)", pixelDepth)
	}
	if levelCount != 1 {
		return nil, fmt.Errorf("level count %d, expected a single mip level", levelCount)
	}
	if supercompression != 0 {
		return nil, fmt.Errorf("supercompression scheme %d, expected none", supercompression)
	}

	// level index follows the header and the 32-byte section index
	const levelIndex = h + 36 + 32
	off := u64(levelIndex + 0)
	length := u64(levelIndex + 8)
	if off+length > uint64(len(data)) {
		return nil, fmt.Errorf("level 0 data range %d+%d exceeds file size %d", off, length, len(data))
	}
	want := uint64(4 * pixelWidth * pixelHeight)
	if length < want {
		return nil, fmt.Errorf("level 0 has %d bytes, need %d for %dx%d RGBA8", length, want, pixelWidth, pixelHeight)
	}
	return &ktx2Image{
		Size:   image.Pt(int(pixelWidth), int(pixelHeight)),
		Pixels: data[off : off+want],
	}, nil
}
