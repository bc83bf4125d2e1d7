// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package mesh

import "github.com/brepio/corebrep/mathx"

// The operations below are the low-level mutation primitives repair
// operators compose; AddTriangle's welding contract only applies to the
// public ingestion path, so operators that generate new geometry directly
// (split, remesh, collapse) use these instead.

// AppendVertexRaw appends a new vertex without consulting the weld map and
// returns its index. Used by operators that must introduce a genuinely new
// point (a split intersection point, a remesh midpoint).
func (m *TaggedMesh) AppendVertexRaw(p mathx.V3) int {
	idx := len(m.positions)
	m.positions = append(m.positions, p)
	m.markDirty()
	return idx
}

// AppendTriangleRaw appends a triangle referencing existing vertex indices
// under face id fid, bypassing vertex welding.
func (m *TaggedMesh) AppendTriangleRaw(tri [3]int, fid FaceID) int {
	idx := len(m.triangles)
	m.triangles = append(m.triangles, tri)
	m.triFace = append(m.triFace, fid)
	m.markDirty()
	return idx
}

// SetVertexPosition overwrites vertex i's position in place (used by the
// neutral-fiber offsetter to relocate a vertex without touching topology).
func (m *TaggedMesh) SetVertexPosition(i int, p mathx.V3) {
	m.positions[i] = p
	m.markDirty()
}

// SetTriangle overwrites triangle t's vertex indices in place (used by the
// edge-flip operator to rotate a diagonal without changing triangle count).
func (m *TaggedMesh) SetTriangle(t int, tri [3]int) {
	m.triangles[t] = tri
	m.markDirty()
}

// FlipWinding reverses triangle t's winding (swaps its last two indices).
func (m *TaggedMesh) FlipWinding(t int) {
	tri := m.triangles[t]
	m.triangles[t] = [3]int{tri[0], tri[2], tri[1]}
	m.markDirty()
}

// SetFaceOf reassigns triangle t to face id fid (used by merge_tiny_faces).
func (m *TaggedMesh) SetFaceOf(t int, fid FaceID) {
	m.triFace[t] = fid
	m.markDirty()
}

// RemoveTriangles deletes the triangles at the given indices (order
// independent, duplicates tolerated) and compacts vertices no longer
// referenced by any remaining triangle. Returns the number removed.
func (m *TaggedMesh) RemoveTriangles(indices []int) int {
	if len(indices) == 0 {
		return 0
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	newTris := make([][3]int, 0, len(m.triangles)-len(drop))
	newFaces := make([]FaceID, 0, len(m.triFace)-len(drop))
	removed := 0
	for t, tri := range m.triangles {
		if drop[t] {
			removed++
			continue
		}
		newTris = append(newTris, tri)
		newFaces = append(newFaces, m.triFace[t])
	}
	m.triangles = newTris
	m.triFace = newFaces
	if removed > 0 {
		m.CompactVertices()
		m.markDirty()
	}
	return removed
}

// ReplaceAll wholesale-replaces the triangle soup (used by operators that
// rebuild the mesh from an external kernel's output, e.g. collapse's AABB
// intersection and remove_internal_triangles' manifold-rebuild strategy).
// faceIDs must be the same length as triangles.
func (m *TaggedMesh) ReplaceAll(positions []mathx.V3, triangles [][3]int, faceIDs []FaceID) {
	m.positions = positions
	m.triangles = triangles
	m.triFace = faceIDs
	m.vertKey = make(map[string]int, len(positions))
	for i, p := range positions {
		m.vertKey[weldKeyExact(p)] = i
	}
	m.markDirty()
}

// CompactVertices drops vertices referenced by no triangle, remapping
// triangle indices accordingly. Safe to call when nothing needs compaction.
func (m *TaggedMesh) CompactVertices() {
	used := make([]bool, len(m.positions))
	for _, tri := range m.triangles {
		used[tri[0]] = true
		used[tri[1]] = true
		used[tri[2]] = true
	}
	remap := make([]int, len(m.positions))
	newPositions := make([]mathx.V3, 0, len(m.positions))
	for i, p := range m.positions {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(newPositions)
		newPositions = append(newPositions, p)
	}
	if len(newPositions) == len(m.positions) {
		return
	}
	for t, tri := range m.triangles {
		m.triangles[t] = [3]int{remap[tri[0]], remap[tri[1]], remap[tri[2]]}
	}
	m.positions = newPositions
	m.vertKey = make(map[string]int, len(newPositions))
	for i, p := range newPositions {
		m.vertKey[weldKeyExact(p)] = i
	}
}

// UnionVertices merges vertex src onto vertex dst everywhere src is
// referenced. It does not compact: src stays in the position table until
// the caller runs CompactVertices. Used by collapse_tiny_triangles' union-find
// pass (spec_full §4.3.5: "move non-representatives onto their root").
func (m *TaggedMesh) UnionVertices(dst, src int) {
	if dst == src {
		return
	}
	for t, tri := range m.triangles {
		for k, v := range tri {
			if v == src {
				m.triangles[t][k] = dst
			}
		}
	}
	m.markDirty()
}
