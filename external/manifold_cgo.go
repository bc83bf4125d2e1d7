// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build manifold

// Binding to the Manifold library (https://github.com/elalish/manifold) for
// guaranteed-manifold mesh booleans, grounded on the manifoldc cgo pattern:
// one C pointer per Go handle, opaque alloc/delete pairs, and
// runtime.SetFinalizer as a backstop for handles the caller forgets to
// Delete. Build with: go build -tags=manifold. Requires manifoldc installed
// (see https://github.com/elalish/manifold for build instructions).
package external

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/brepio/corebrep/mathx"
)

var _ Kernel = (*ManifoldKernel)(nil)
var _ Solid = (*manifoldSolid)(nil)

// ManifoldKernel builds Solids backed by the native Manifold library.
type ManifoldKernel struct{}

// NewManifoldKernel returns the cgo-backed Kernel; it exists only in builds
// with the "manifold" tag. Repair uses whichever Kernel its caller passes:
// RemoveInternalTriangles calls it under StrategyManifold, and
// CollapseTinyTriangles calls it under any strategy.
func NewManifoldKernel() Kernel { return ManifoldKernel{} }

// manifoldSolid wraps a C ManifoldManifold pointer. FaceIDs are carried as
// a fourth per-vertex property channel (manifold properties are per-vertex,
// not per-triangle); GetMesh reads the property back off each triangle's
// first vertex. A vertex shared by triangles of different faces carries the
// face-id of the last such triangle Build wrote, so a triangle whose first
// vertex lies on a face boundary can come back with a neighbour's face-id.
type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

func newManifoldSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func (k ManifoldKernel) Build(m RawMesh) (Solid, error) {
	if len(m.Triangles) == 0 {
		return nil, fmt.Errorf("external: Build called with zero triangles")
	}
	numProp := C.int(4) // x, y, z, face-id
	props := make([]C.float, len(m.Positions)*4)
	for i, p := range m.Positions {
		faceID := float32(0)
		props[i*4+0] = C.float(p.X)
		props[i*4+1] = C.float(p.Y)
		props[i*4+2] = C.float(p.Z)
		props[i*4+3] = C.float(faceID)
	}
	for ti, tri := range m.Triangles {
		if ti >= len(m.FaceIDs) {
			continue
		}
		fid := float32(m.FaceIDs[ti])
		for _, vi := range tri {
			props[vi*4+3] = C.float(fid)
		}
	}
	indices := make([]C.uint32_t, len(m.Triangles)*3)
	for ti, tri := range m.Triangles {
		indices[ti*3+0] = C.uint32_t(tri[0])
		indices[ti*3+1] = C.uint32_t(tri[1])
		indices[ti*3+2] = C.uint32_t(tri[2])
	}

	meshGL := C.manifold_meshgl(
		unsafe.Pointer(&props[0]), C.size_t(len(m.Positions)), numProp,
		unsafe.Pointer(&indices[0]), C.size_t(len(m.Triangles)),
	)
	defer C.manifold_delete_meshgl(meshGL)

	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_of_meshgl(alloc, meshGL)
	if C.manifold_is_empty(ptr) != 0 && len(m.Triangles) > 0 {
		return nil, fmt.Errorf("external: manifold_of_meshgl produced a non-manifold or empty result")
	}
	return newManifoldSolid(ptr), nil
}

func (s *manifoldSolid) BoundingBox() (min, max mathx.V3) {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)
	min = *mathx.NewV3S(float64(C.manifold_box_min_x(bbox)), float64(C.manifold_box_min_y(bbox)), float64(C.manifold_box_min_z(bbox)))
	max = *mathx.NewV3S(float64(C.manifold_box_max_x(bbox)), float64(C.manifold_box_max_y(bbox)), float64(C.manifold_box_max_z(bbox)))
	return min, max
}

func (s *manifoldSolid) Intersect(other Solid) (Solid, error) {
	os, ok := other.(*manifoldSolid)
	if !ok {
		return nil, fmt.Errorf("external: Intersect requires both solids from the same Kernel backend")
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_intersection(alloc, s.ptr, os.ptr)
	return newManifoldSolid(ptr), nil
}

func (s *manifoldSolid) GetMesh() RawMesh {
	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, s.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return RawMesh{}
	}
	numProp := int(C.manifold_meshgl_num_prop(meshGL))

	propData := make([]C.float, numVert*numProp)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&propData[0])), meshGL)

	idxData := make([]C.uint32_t, numTri*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&idxData[0])), meshGL)

	out := RawMesh{
		Positions: make([]mathx.V3, numVert),
		Triangles: make([][3]int, numTri),
		FaceIDs:   make([]uint32, numTri),
	}
	for i := 0; i < numVert; i++ {
		base := i * numProp
		out.Positions[i] = *mathx.NewV3S(float64(propData[base+0]), float64(propData[base+1]), float64(propData[base+2]))
	}
	hasFaceID := numProp >= 4
	for t := 0; t < numTri; t++ {
		i0 := int(idxData[t*3+0])
		i1 := int(idxData[t*3+1])
		i2 := int(idxData[t*3+2])
		out.Triangles[t] = [3]int{i0, i1, i2}
		if hasFaceID {
			out.FaceIDs[t] = uint32(propData[i0*numProp+3])
		}
	}
	return out
}

func (s *manifoldSolid) Delete() {
	if s.ptr != nil {
		C.manifold_delete_manifold(s.ptr)
		s.ptr = nil
	}
}
