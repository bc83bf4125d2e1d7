// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"github.com/brepio/corebrep/config"
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// RemoveDegenerateTriangles drops any triangle that repeats a vertex index
// or whose area is at or below tol.Area. Idempotent (P3): a second call on its
// own output finds nothing left to remove.
func RemoveDegenerateTriangles(m *mesh.TaggedMesh, tol config.Tolerances) (int, error) {
	positions := m.Positions()
	var drop []int
	for t, tri := range m.Triangles() {
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			drop = append(drop, t)
			continue
		}
		p0, p1, p2 := positions[tri[0]], positions[tri[1]], positions[tri[2]]
		if mathx.TriangleArea(p0, p1, p2) <= tol.Area {
			drop = append(drop, t)
		}
	}
	return m.RemoveTriangles(drop), nil
}
