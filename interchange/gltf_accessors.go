// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package interchange

import (
	"encoding/binary"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/brepio/corebrep/errs"
)

// The read side below mirrors the retrieved corpus's own manual
// accessor/bufferView/buffer walk (models/gltf.go's readVec3Accessor /
// readAccessorData) rather than reaching for the gltf module's higher-level
// helpers, since that is the one glTF-reading idiom this codebase has
// actually seen. The write side is this repository's mirror image of the
// same buffer layout, since the retrieved corpus only ever reads glTF.

func readVec3Accessor(doc *gltf.Document, accessorIdx uint32) ([][3]float32, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != gltf.AccessorVec3 {
		return nil, errs.InvalidInput("interchange.readVec3Accessor", "accessor %d is not VEC3", accessorIdx)
	}
	if acc.BufferView == nil {
		return nil, errs.InvalidInput("interchange.readVec3Accessor", "accessor %d has no buffer view", accessorIdx)
	}
	bv := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[bv.Buffer].Data
	stride := bv.ByteStride
	if stride == 0 {
		stride = 12
	}
	start := bv.ByteOffset + acc.ByteOffset
	out := make([][3]float32, acc.Count)
	for i := range out {
		off := start + i*stride
		out[i] = [3]float32{
			readFloat32LE(buf[off:]),
			readFloat32LE(buf[off+4:]),
			readFloat32LE(buf[off+8:]),
		}
	}
	return out, nil
}

func readIndexAccessor(doc *gltf.Document, accessorIdx uint32) ([]uint32, error) {
	acc := doc.Accessors[accessorIdx]
	if acc.Type != gltf.AccessorScalar {
		return nil, errs.InvalidInput("interchange.readIndexAccessor", "accessor %d is not SCALAR", accessorIdx)
	}
	if acc.BufferView == nil {
		return nil, errs.InvalidInput("interchange.readIndexAccessor", "accessor %d has no buffer view", accessorIdx)
	}
	bv := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[bv.Buffer].Data
	start := bv.ByteOffset + acc.ByteOffset

	out := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		for i := range out {
			out[i] = uint32(buf[start+i])
		}
	case gltf.ComponentUshort:
		stride := bv.ByteStride
		if stride == 0 {
			stride = 2
		}
		for i := range out {
			out[i] = uint32(binary.LittleEndian.Uint16(buf[start+i*stride:]))
		}
	case gltf.ComponentUint:
		stride := bv.ByteStride
		if stride == 0 {
			stride = 4
		}
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(buf[start+i*stride:])
		}
	default:
		return nil, errs.InvalidInput("interchange.readIndexAccessor", "accessor %d has unsupported component type %v", accessorIdx, acc.ComponentType)
	}
	return out, nil
}

func readFloat32LE(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// writeVec3Accessor appends verts to doc's (single, shared) buffer and
// returns the new accessor's index, including the min/max bounds glTF
// validators expect on a POSITION accessor.
func writeVec3Accessor(doc *gltf.Document, verts [][3]float32) uint32 {
	buf := ensureBuffer(doc)
	offset := len(buf.Data)

	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range verts {
		for k := 0; k < 3; k++ {
			f := float64(v[k])
			if f < min[k] {
				min[k] = f
			}
			if f > max[k] {
				max[k] = f
			}
		}
		buf.Data = appendFloat32LE(buf.Data, v[0], v[1], v[2])
	}

	bvIdx := appendBufferView(doc, offset, len(buf.Data)-offset)
	accIdx := uint32(len(doc.Accessors))
	doc.Accessors = append(doc.Accessors, &gltf.Accessor{
		BufferView:    &bvIdx,
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(len(verts)),
		Min:           min[:],
		Max:           max[:],
	})
	return accIdx
}

// writeIndexAccessor appends a triangle index list, always as uint32 —
// simple and correct at the triangle counts this module operates on,
// unlike a GPU-facing exporter that would downshift to uint16/uint8.
func writeIndexAccessor(doc *gltf.Document, indices []uint32) uint32 {
	buf := ensureBuffer(doc)
	offset := len(buf.Data)
	for _, idx := range indices {
		buf.Data = appendUint32LE(buf.Data, idx)
	}
	bvIdx := appendBufferView(doc, offset, len(buf.Data)-offset)
	accIdx := uint32(len(doc.Accessors))
	doc.Accessors = append(doc.Accessors, &gltf.Accessor{
		BufferView:    &bvIdx,
		ComponentType: gltf.ComponentUint,
		Type:          gltf.AccessorScalar,
		Count:         uint32(len(indices)),
	})
	return accIdx
}

func ensureBuffer(doc *gltf.Document) *gltf.Buffer {
	if len(doc.Buffers) == 0 {
		doc.Buffers = append(doc.Buffers, &gltf.Buffer{})
	}
	return doc.Buffers[0]
}

func appendBufferView(doc *gltf.Document, offset, length int) uint32 {
	idx := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: length,
	})
	return idx
}

func appendFloat32LE(b []byte, fs ...float32) []byte {
	for _, f := range fs {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(f))
		b = append(b, tmp[:]...)
	}
	return b
}

func appendUint32LE(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}
