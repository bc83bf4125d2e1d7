// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package mesh is the tagged mesh store: the in-memory representation of a
// face-tagged indexed triangle mesh, and the single data structure every
// other package in this module reads and mutates. It owns vertex positions,
// triangle indices, per-triangle face-ids, per-face metadata, and a
// face-name lookup, and lazily re-manifoldizes through an external.Kernel
// on read after any mutation.
package mesh

import (
	"fmt"

	"github.com/brepio/corebrep/errs"
	"github.com/brepio/corebrep/external"
	"github.com/brepio/corebrep/mathx"
)

// Polyline is a non-mesh annotation: an ordered list of 3D points carried
// alongside the mesh but not triangulated (e.g. a debug trace or an
// auxiliary reference curve).
type Polyline struct {
	Points []mathx.V3
}

// TaggedMesh is the top-level entity of this module: a dense indexed
// triangle soup plus semantic face metadata. It is not safe for concurrent
// use (spec_full §5: the core is single-threaded; one TaggedMesh belongs to
// exactly one logical pipeline at a time).
type TaggedMesh struct {
	positions []mathx.V3
	triangles [][3]int
	triFace   []FaceID

	faceMeta     map[FaceID]FaceMeta
	faceNameToID map[string]FaceID
	faceIDToName map[FaceID]string
	nextFaceID   FaceID

	auxEdges []Polyline

	// WeldTolerance, if > 0, welds vertices within this distance instead of
	// requiring bit-exact coordinate match. Zero (the default) matches
	// spec_full's base contract: weld on exact equality only.
	WeldTolerance float64

	vertKey map[string]int

	dirty       bool
	version     uint64
	cachedMesh  external.RawMesh
	cacheFilled bool
}

// NewTaggedMesh returns an empty mesh ready to accept triangles.
func NewTaggedMesh() *TaggedMesh {
	return &TaggedMesh{
		faceMeta:     make(map[FaceID]FaceMeta),
		faceNameToID: make(map[string]FaceID),
		faceIDToName: make(map[FaceID]string),
		vertKey:      make(map[string]int),
	}
}

// NumVertices returns the current vertex count V.
func (m *TaggedMesh) NumVertices() int { return len(m.positions) }

// NumTriangles returns the current triangle count T.
func (m *TaggedMesh) NumTriangles() int { return len(m.triangles) }

// Position returns the position of vertex i.
func (m *TaggedMesh) Position(i int) mathx.V3 { return m.positions[i] }

// Positions returns the backing position slice. Callers must not retain or
// mutate it across a call that changes the mesh; use Clone for a private
// copy.
func (m *TaggedMesh) Positions() []mathx.V3 { return m.positions }

// Triangle returns the vertex index triple of triangle t.
func (m *TaggedMesh) Triangle(t int) [3]int { return m.triangles[t] }

// Triangles returns the backing triangle slice (see Positions' aliasing note).
func (m *TaggedMesh) Triangles() [][3]int { return m.triangles }

// FaceOf returns the face-id of triangle t.
func (m *TaggedMesh) FaceOf(t int) FaceID { return m.triFace[t] }

// TriFaces returns the backing tri_face slice (see Positions' aliasing note).
func (m *TaggedMesh) TriFaces() []FaceID { return m.triFace }

// Version returns a counter incremented on every mutation, usable by
// callers as a cheap cache key independent of the dirty bit.
func (m *TaggedMesh) Version() uint64 { return m.version }

// Dirty reports whether the mesh has been mutated since the last
// successful GetMesh.
func (m *TaggedMesh) Dirty() bool { return m.dirty }

// AuxEdges returns the auxiliary polylines carried alongside the mesh.
func (m *TaggedMesh) AuxEdges() []Polyline { return m.auxEdges }

// AddAuxEdge appends a non-mesh annotation polyline.
func (m *TaggedMesh) AddAuxEdge(p Polyline) { m.auxEdges = append(m.auxEdges, p) }

// FaceMeta returns the metadata for a face-id, and whether it was found.
func (m *TaggedMesh) FaceMeta(id FaceID) (FaceMeta, bool) {
	meta, ok := m.faceMeta[id]
	return meta, ok
}

// SetFaceMeta assigns metadata to a face-id, validating invariant I6 for
// cylindrical faces.
func (m *TaggedMesh) SetFaceMeta(id FaceID, meta FaceMeta) error {
	if err := meta.Validate(); err != nil {
		return err
	}
	m.faceMeta[id] = meta
	return nil
}

// FaceName returns the registered display name for a face-id (invariant
// I7: face_name is bijective on its domain).
func (m *TaggedMesh) FaceName(id FaceID) (string, bool) {
	name, ok := m.faceIDToName[id]
	return name, ok
}

// FaceIDByName returns the face-id registered under name.
func (m *TaggedMesh) FaceIDByName(name string) (FaceID, bool) {
	id, ok := m.faceNameToID[name]
	return id, ok
}

// FaceIDs returns every face-id currently present in the face-name table,
// in no particular order.
func (m *TaggedMesh) FaceIDs() []FaceID {
	ids := make([]FaceID, 0, len(m.faceIDToName))
	for id := range m.faceIDToName {
		ids = append(ids, id)
	}
	return ids
}

// faceIDFor resolves name to a face-id, assigning a fresh one (and
// registering the bijective name mapping) if name has not been seen.
func (m *TaggedMesh) faceIDFor(name string) FaceID {
	if id, ok := m.faceNameToID[name]; ok {
		return id
	}
	id := m.nextFaceID
	m.nextFaceID++
	m.faceNameToID[name] = id
	m.faceIDToName[id] = name
	return id
}

// AddTriangle inserts a triangle tagged with faceName, welding each vertex
// onto an existing slot on exact coordinate match (or within WeldTolerance
// if set), and returns the new triangle's index. Vertex indices already
// handed out by prior AddTriangle calls never change (the welding
// contract, spec_full §4.1).
func (m *TaggedMesh) AddTriangle(faceName string, p0, p1, p2 mathx.V3) (int, error) {
	for _, p := range [3]mathx.V3{p0, p1, p2} {
		if !isFinite(p) {
			return -1, errs.InvalidInput("TaggedMesh.AddTriangle", "non-finite vertex coordinate in face %q", faceName)
		}
	}
	v0 := m.weldVertex(p0)
	v1 := m.weldVertex(p1)
	v2 := m.weldVertex(p2)
	if v0 == v1 || v1 == v2 || v0 == v2 {
		return -1, errs.DegenerateGeometry("TaggedMesh.AddTriangle", "triangle in face %q has a repeated vertex after welding", faceName)
	}
	faceID := m.faceIDFor(faceName)
	idx := len(m.triangles)
	m.triangles = append(m.triangles, [3]int{v0, v1, v2})
	m.triFace = append(m.triFace, faceID)
	m.markDirty()
	return idx, nil
}

func isFinite(p mathx.V3) bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if c != c || c > maxFinite || c < -maxFinite {
			return false
		}
	}
	return true
}

const maxFinite = 1e300

// weldVertex reuses an existing vertex slot on exact coordinate match (or
// within WeldTolerance), appending a new slot otherwise.
func (m *TaggedMesh) weldVertex(p mathx.V3) int {
	if m.WeldTolerance <= 0 {
		key := weldKeyExact(p)
		if idx, ok := m.vertKey[key]; ok {
			return idx
		}
		idx := len(m.positions)
		m.positions = append(m.positions, p)
		m.vertKey[key] = idx
		return idx
	}
	for i, q := range m.positions {
		if mathx.EdgeLength(p, q) <= m.WeldTolerance {
			return i
		}
	}
	idx := len(m.positions)
	m.positions = append(m.positions, p)
	return idx
}

func weldKeyExact(p mathx.V3) string {
	return fmt.Sprintf("%x|%x|%x", p.X, p.Y, p.Z)
}

func (m *TaggedMesh) markDirty() {
	m.dirty = true
	m.version++
	m.cacheFilled = false
}

// Clone returns a deep copy of all buffers and maps; caches are dropped
// (the clone starts dirty so the next GetMesh re-manifoldizes).
func (m *TaggedMesh) Clone() *TaggedMesh {
	c := NewTaggedMesh()
	c.positions = append([]mathx.V3(nil), m.positions...)
	c.triangles = append([][3]int(nil), m.triangles...)
	c.triFace = append([]FaceID(nil), m.triFace...)
	for id, meta := range m.faceMeta {
		c.faceMeta[id] = meta
	}
	for name, id := range m.faceNameToID {
		c.faceNameToID[name] = id
	}
	for id, name := range m.faceIDToName {
		c.faceIDToName[id] = name
	}
	c.nextFaceID = m.nextFaceID
	c.auxEdges = append([]Polyline(nil), m.auxEdges...)
	c.WeldTolerance = m.WeldTolerance
	for k, v := range m.vertKey {
		c.vertKey[k] = v
	}
	c.dirty = true
	c.version = m.version
	return c
}

// Free drops any cached manifold view and marks the mesh dirty. Idempotent;
// the mesh remains fully usable afterward and will re-cache lazily on the
// next GetMesh.
func (m *TaggedMesh) Free() {
	m.cachedMesh = external.RawMesh{}
	m.cacheFilled = false
	m.dirty = true
}

// GetMesh returns a RawMesh view of the current triangle soup, pushed
// through kernel.Build to canonicalize it (weld, drop exactly-canceling
// triangles) when the mesh is dirty or has no cache yet. The result is
// cached until the next mutation.
func (m *TaggedMesh) GetMesh(kernel external.Kernel) (external.RawMesh, error) {
	if !m.dirty && m.cacheFilled {
		return m.cachedMesh, nil
	}
	if kernel == nil {
		kernel = external.NewFallbackKernel()
	}
	raw := external.RawMesh{
		Positions: append([]mathx.V3(nil), m.positions...),
		Triangles: append([][3]int(nil), m.triangles...),
		FaceIDs:   faceIDsToUint32(m.triFace),
	}
	solid, err := kernel.Build(raw)
	if err != nil {
		return external.RawMesh{}, errs.TopologyFailure("TaggedMesh.GetMesh", "manifoldization failed: %v", err)
	}
	defer solid.Delete()
	result := solid.GetMesh()
	m.cachedMesh = result
	m.cacheFilled = true
	m.dirty = false
	return result, nil
}

func faceIDsToUint32(ids []FaceID) []uint32 {
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}
