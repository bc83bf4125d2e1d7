// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

// Path-compressing union-find over dense integer ids, grounded on
// physics/broad.go's uf_find/uf_union (body-id union-find for collision
// islands), generalized here to vertex indices (collapse_tiny_triangles,
// spec_full §4.3.5) and triangle indices (connected-component grouping,
// spec_full §4.3.1).
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges the sets containing x and y; the lower-indexed root wins as
// representative (spec_full §4.3.5: "lower index wins as representative").
func (uf *unionFind) union(x, y int) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	if rx < ry {
		uf.parent[ry] = rx
	} else {
		uf.parent[rx] = ry
	}
}
