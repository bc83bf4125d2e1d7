// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
	"github.com/brepio/corebrep/topology"
)

// RemoveOppositeSingleEdgeFaces implements spec_full §4.3.2: for each face
// pair sharing exactly one connected boundary chain, if the two faces'
// area-weighted normals oppose each other within normalDotThreshold (default
// -0.95), drop the triangles of whichever of the two faces borders only
// that one neighbor (a face entirely surrounded by, and facing away from, a
// single other face is the thin sliver this operator targets).
func RemoveOppositeSingleEdgeFaces(m *mesh.TaggedMesh, normalDotThreshold float64) (int, error) {
	idx := topology.Build(m)
	positions := m.Positions()
	triangles := m.Triangles()

	faceNormal := make(map[mesh.FaceID]mathx.V3)
	for fid, tris := range idx.FaceTris {
		var sum mathx.V3
		for _, t := range tris {
			tri := triangles[t]
			n := mathx.TriangleNormal(positions[tri[0]], positions[tri[1]], positions[tri[2]])
			sum = mathx.AddV3(sum, n)
		}
		faceNormal[fid] = sum
	}

	var drop []int
	seen := make(map[topology.FacePair]bool)
	for pair, chains := range idx.FacePairEdges {
		if len(chains) != 1 || seen[pair] {
			continue
		}
		seen[pair] = true
		a, b := pair[0], pair[1]
		na, nb := mathx.UnitV3(faceNormal[a]), mathx.UnitV3(faceNormal[b])
		if na.AeqZ() || nb.AeqZ() {
			continue
		}
		if mathx.DotV3(na, nb) > normalDotThreshold {
			continue
		}
		if len(idx.Neighbors(a)) == 1 {
			drop = append(drop, idx.FaceTris[a]...)
		}
		if len(idx.Neighbors(b)) == 1 {
			drop = append(drop, idx.FaceTris[b]...)
		}
	}
	return m.RemoveTriangles(drop), nil
}
