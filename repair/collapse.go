// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"github.com/brepio/corebrep/external"
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// CollapseSafetyMargin inflates the AABB collapse_tiny_triangles intersects
// against, so the cleanup pass never clips legitimate geometry sitting
// exactly on the original bounding box (spec_full §4.3.5).
const CollapseSafetyMargin = 1e-3

// CollapseTinyTriangles implements spec_full §4.3.5: union-find the two
// endpoints of any triangle's shortest edge shorter than lengthThreshold
// (lower vertex index wins as representative), move every non-representative
// vertex onto its root, then clean up the resulting degenerate triangles by
// intersecting the mesh with its own (safety-margin-inflated) axis-aligned
// bounding box through the external boolean kernel, adopting the result's
// triangles, vertices, and face-id assignment back.
func CollapseTinyTriangles(m *mesh.TaggedMesh, lengthThreshold float64, kernel external.Kernel) (int, error) {
	positions := m.Positions()
	triangles := m.Triangles()
	if len(positions) == 0 {
		return 0, nil
	}

	uf := newUnionFind(len(positions))
	collapsed := 0
	for _, tri := range triangles {
		a, b, c := tri[0], tri[1], tri[2]
		pa, pb, pc := positions[a], positions[b], positions[c]
		shortestEdge := [2]int{a, b}
		shortestLen := pa.Dist(&pb)
		if l := pb.Dist(&pc); l < shortestLen {
			shortestLen, shortestEdge = l, [2]int{b, c}
		}
		if l := pc.Dist(&pa); l < shortestLen {
			shortestLen, shortestEdge = l, [2]int{c, a}
		}
		if shortestLen < lengthThreshold {
			if uf.find(shortestEdge[0]) != uf.find(shortestEdge[1]) {
				collapsed++
			}
			uf.union(shortestEdge[0], shortestEdge[1])
		}
	}
	if collapsed == 0 {
		return 0, nil
	}

	for v := range positions {
		root := uf.find(v)
		if root != v {
			m.UnionVertices(root, v)
		}
	}
	m.CompactVertices()

	if kernel == nil {
		kernel = external.NewFallbackKernel()
	}
	raw := external.RawMesh{
		Positions: append([]mathx.V3(nil), m.Positions()...),
		Triangles: append([][3]int(nil), m.Triangles()...),
		FaceIDs:   faceIDsU32(m.TriFaces()),
	}
	mainSolid, err := kernel.Build(raw)
	if err != nil {
		return collapsed, err
	}
	defer mainSolid.Delete()

	lo, hi := mainSolid.BoundingBox()
	margin := mathx.V3{X: CollapseSafetyMargin, Y: CollapseSafetyMargin, Z: CollapseSafetyMargin}
	boxMesh := boxRawMesh(mathx.SubV3(lo, margin), mathx.AddV3(hi, margin))
	boxSolid, err := kernel.Build(boxMesh)
	if err != nil {
		return collapsed, err
	}
	defer boxSolid.Delete()

	result, err := mainSolid.Intersect(boxSolid)
	if err != nil {
		return collapsed, err
	}
	defer result.Delete()

	cleaned := result.GetMesh()
	m.ReplaceAll(cleaned.Positions, cleaned.Triangles, u32ToFaceIDs(cleaned.FaceIDs))
	return collapsed, nil
}

func faceIDsU32(ids []mesh.FaceID) []uint32 {
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}

func u32ToFaceIDs(ids []uint32) []mesh.FaceID {
	out := make([]mesh.FaceID, len(ids))
	for i, id := range ids {
		out[i] = mesh.FaceID(id)
	}
	return out
}

// boxRawMesh builds the 12-triangle box soup spanning [lo,hi].
func boxRawMesh(lo, hi mathx.V3) external.RawMesh {
	corners := [8]mathx.V3{
		{X: lo.X, Y: lo.Y, Z: lo.Z}, {X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z}, {X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z}, {X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z}, {X: lo.X, Y: hi.Y, Z: hi.Z},
	}
	faces := [6][4]int{
		{0, 1, 2, 3}, {4, 5, 6, 7}, {0, 1, 5, 4},
		{1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
	}
	raw := external.RawMesh{Positions: corners[:]}
	for _, f := range faces {
		raw.Triangles = append(raw.Triangles, [3]int{f[0], f[1], f[2]}, [3]int{f[0], f[2], f[3]})
	}
	raw.FaceIDs = make([]uint32, len(raw.Triangles))
	return raw
}
