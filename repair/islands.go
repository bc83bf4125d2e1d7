// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"github.com/brepio/corebrep/config"
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// IslandOptions configures RemoveSmallIslands (spec_full §4.3.1, §6).
type IslandOptions struct {
	MaxTriangles   int
	RemoveInternal bool
	RemoveExternal bool
}

// RemoveSmallIslands groups triangles into connected components via
// manifold edge adjacency (an edge shared by exactly two triangles links
// them into the same component), identifies the largest component as the
// main shell, and removes every other component with at most MaxTriangles
// triangles whose inside/outside classification (ray-cast from a jittered
// centroid along +X, odd crossing count = inside) matches the caller's
// RemoveInternal/RemoveExternal flags.
func RemoveSmallIslands(m *mesh.TaggedMesh, opts IslandOptions) (int, error) {
	triangles := m.Triangles()
	n := len(triangles)
	if n == 0 {
		return 0, nil
	}
	positions := m.Positions()

	edgeToTris := make(map[edgeKey][]int, n*3)
	for t, tri := range triangles {
		for i := 0; i < 3; i++ {
			k := sortedEdgeKey(tri[i], tri[(i+1)%3])
			edgeToTris[k] = append(edgeToTris[k], t)
		}
	}

	uf := newUnionFind(n)
	for _, tris := range edgeToTris {
		if len(tris) != 2 {
			continue
		}
		uf.union(tris[0], tris[1])
	}

	components := make(map[int][]int)
	for t := 0; t < n; t++ {
		root := uf.find(t)
		components[root] = append(components[root], t)
	}

	mainRoot, mainSize := -1, -1
	for root, tris := range components {
		if len(tris) > mainSize {
			mainRoot, mainSize = root, len(tris)
		}
	}
	mainTris := components[mainRoot]

	const jitter = 1e-4
	const eps = 1e-9
	var drop []int
	for root, tris := range components {
		if root == mainRoot || len(tris) > opts.MaxTriangles {
			continue
		}
		tri := triangles[tris[0]]
		centroid := mathx.TriangleCentroid(positions[tri[0]], positions[tri[1]], positions[tri[2]])
		origin := mathx.AddV3(centroid, mathx.V3{X: jitter, Y: jitter * 0.37, Z: jitter * 0.71})
		crossings := countCrossings(origin, mathx.V3{X: 1, Y: 0, Z: 0}, positions, triangles, mainTris, eps)
		inside := isOdd(crossings)
		if (inside && opts.RemoveInternal) || (!inside && opts.RemoveExternal) {
			drop = append(drop, tris...)
		}
	}
	return m.RemoveTriangles(drop), nil
}

// islandOptionsFrom adapts the shared config.Options table to IslandOptions.
func islandOptionsFrom(opts config.Options) IslandOptions {
	return IslandOptions{
		MaxTriangles:   opts.MaxTriangles,
		RemoveInternal: opts.RemoveInternal,
		RemoveExternal: opts.RemoveExternal,
	}
}
