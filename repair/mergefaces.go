// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
	"github.com/brepio/corebrep/topology"
)

// MergeTinyFaces implements spec_full §4.3.9: any face whose total planar
// area falls below maxArea is renamed, triangle by triangle, onto its
// topological neighbor with the largest area. Faces with no neighbor are
// left untouched (nothing to merge into). Returns the number of retagged
// triangles.
func MergeTinyFaces(m *mesh.TaggedMesh, maxArea float64) (int, error) {
	idx := topology.Build(m)
	positions := m.Positions()
	triangles := m.Triangles()

	area := make(map[mesh.FaceID]float64)
	for fid, tris := range idx.FaceTris {
		var sum float64
		for _, t := range tris {
			tri := triangles[t]
			sum += mathx.TriangleArea(positions[tri[0]], positions[tri[1]], positions[tri[2]])
		}
		area[fid] = sum
	}

	retagged := 0
	for fid, a := range area {
		if a >= maxArea {
			continue
		}
		neighbors := idx.Neighbors(fid)
		if len(neighbors) == 0 {
			continue
		}
		best := neighbors[0]
		for _, n := range neighbors[1:] {
			if area[n] > area[best] {
				best = n
			}
		}
		for _, t := range idx.FaceTris[fid] {
			m.SetFaceOf(t, best)
			retagged++
		}
	}
	return retagged, nil
}
