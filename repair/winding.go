// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import "github.com/brepio/corebrep/mesh"

// edgeKey is an undirected edge, stored (min,max) by sortedEdgeKey so both
// triangles on an edge map to the same key. Two triangles that walk that
// edge in the *same* direction have opposite winding relative to each other
// and must be flipped apart (spec_full §4.3.10).
type edgeKey [2]int

func sortedEdgeKey(a, b int) edgeKey {
	if a < b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// FixTriangleWindingsByAdjacency performs a BFS over manifold edges
// (exactly two incident triangles) from an arbitrary seed triangle in each
// connected component, flipping a triangle whenever it walks a shared edge
// in the same direction as its already-visited neighbor. This spreads one
// consistent orientation across each connected component (spec_full
// §4.3.10). Idempotent and converges in one pass per component (P4).
func FixTriangleWindingsByAdjacency(m *mesh.TaggedMesh) (int, error) {
	triangles := m.Triangles()
	n := len(triangles)
	if n == 0 {
		return 0, nil
	}

	edgeToTris := make(map[edgeKey][]int, n*3)
	for t, tri := range triangles {
		for i := 0; i < 3; i++ {
			a, b := tri[i], tri[(i+1)%3]
			k := sortedEdgeKey(a, b)
			edgeToTris[k] = append(edgeToTris[k], t)
		}
	}

	visited := make([]bool, n)
	flips := 0
	for seed := 0; seed < n; seed++ {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		queue := []int{seed}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			tri := m.Triangle(cur)
			for i := 0; i < 3; i++ {
				a, b := tri[i], tri[(i+1)%3]
				k := sortedEdgeKey(a, b)
				for _, other := range edgeToTris[k] {
					if other == cur {
						continue
					}
					if visited[other] {
						continue
					}
					visited[other] = true
					if walksSameDirection(m.Triangle(other), a, b) {
						m.FlipWinding(other)
						flips++
					}
					queue = append(queue, other)
				}
			}
		}
	}
	return flips, nil
}

// walksSameDirection reports whether triangle tri, walked CCW, traverses
// edge (a,b) in the direction a->b (as opposed to b->a). Two adjacent
// triangles sharing an edge are consistently wound iff they walk that edge
// in opposite directions.
func walksSameDirection(tri [3]int, a, b int) bool {
	for i := 0; i < 3; i++ {
		x, y := tri[i], tri[(i+1)%3]
		if x == a && y == b {
			return true
		}
		if x == b && y == a {
			return false
		}
	}
	return false
}
