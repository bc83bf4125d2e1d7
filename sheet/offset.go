// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package sheet

import (
	"log/slog"

	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// Offset implements spec_full §4.5: every vertex touched by a triangle of
// cls.IncludeSet's sub-mesh is moved by -(k*thickness) along its
// area-weighted vertex normal. Vertices outside the sub-mesh are untouched.
// Returns the number of vertices moved.
func Offset(m *mesh.TaggedMesh, cls Classification) int {
	if len(cls.IncludeSet) == 0 {
		return 0
	}
	triangles := m.Triangles()
	faces := m.TriFaces()
	positions := m.Positions()

	normals := make(map[int]mathx.V3)
	var subTris []int
	for t, tri := range triangles {
		if !cls.IncludeSet[faces[t]] {
			continue
		}
		subTris = append(subTris, t)
		p0, p1, p2 := positions[tri[0]], positions[tri[1]], positions[tri[2]]
		n := mathx.TriangleNormal(p0, p1, p2) // area-weighted: left unnormalized.
		for _, v := range tri {
			acc := normals[v]
			normals[v] = mathx.AddV3(acc, n)
		}
	}
	if len(subTris) == 0 {
		return 0
	}

	if components := countComponents(triangles, subTris); components > 1 {
		slog.Warn("sheet.Offset: surface sub-mesh has multiple connected components",
			"components", components, "triangles", len(subTris))
	}

	offsetLen := cls.NeutralFactor * cls.Thickness
	moved := 0
	for v, n := range normals {
		unit := mathx.UnitV3(n)
		if unit.LenSqr() == 0 {
			slog.Warn("sheet.Offset: degenerate vertex normal, vertex left in place", "vertex", v)
			continue
		}
		p := positions[v]
		p = mathx.SubV3(p, mathx.ScaleV3(unit, offsetLen))
		m.SetVertexPosition(v, p)
		moved++
	}
	return moved
}

// countComponents groups subTris by shared-edge adjacency (within the
// sub-mesh only) via union-find, mirroring repair.RemoveSmallIslands'
// component-finding idiom.
func countComponents(triangles [][3]int, subTris []int) int {
	index := make(map[int]int, len(subTris))
	for i, t := range subTris {
		index[t] = i
	}
	uf := newUnionFind(len(subTris))
	edgeOwner := make(map[[2]int]int)
	for i, t := range subTris {
		tri := triangles[t]
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if owner, ok := edgeOwner[key]; ok {
				uf.union(owner, i)
			} else {
				edgeOwner[key] = i
			}
		}
	}
	roots := make(map[int]bool)
	for i := range subTris {
		roots[uf.find(i)] = true
	}
	return len(roots)
}
