// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package topology derives edge/face adjacency structures from a tagged
// mesh's raw triangle arrays. An Index is disposable: it borrows from the
// mesh at construction time and must be rebuilt after any mutation.
package topology

import (
	"sort"

	"github.com/brepio/corebrep/mesh"
)

// Edge is an unordered pair of vertex indices, keyed (min,max) so both
// windings of the same edge hash identically.
type Edge [2]int

func sortEdge(a, b int) Edge {
	if a < b {
		return Edge{a, b}
	}
	return Edge{b, a}
}

// Chain is an ordered list of vertex indices delimiting one connected
// boundary between two faces. The quantized variant reports its chains as
// ChainPair values instead (see QuantizedIndex.FaceChainsQuantized).
type Chain struct {
	Verts  []int
	Closed bool
}

// Index is the derived, disposable topology of a triangle mesh.
type Index struct {
	EdgeToTris    map[Edge][]int
	FaceAdj       map[mesh.FaceID]map[mesh.FaceID]bool
	FacePairEdges map[FacePair][]Chain
	FaceTris      map[mesh.FaceID][]int
}

// FacePair is an unordered pair of face-ids, keyed (min,max).
type FacePair [2]mesh.FaceID

func sortFacePair(a, b mesh.FaceID) FacePair {
	if a < b {
		return FacePair{a, b}
	}
	return FacePair{b, a}
}

// Build scans m's triangles once, deriving edge-to-triangle, face
// adjacency, face-pair boundary chains, and face-to-triangle tables.
func Build(m *mesh.TaggedMesh) *Index {
	idx := &Index{
		EdgeToTris:    make(map[Edge][]int),
		FaceAdj:       make(map[mesh.FaceID]map[mesh.FaceID]bool),
		FacePairEdges: make(map[FacePair][]Chain),
		FaceTris:      make(map[mesh.FaceID][]int),
	}
	triangles := m.Triangles()
	faces := m.TriFaces()
	for t, tri := range triangles {
		fid := faces[t]
		idx.FaceTris[fid] = append(idx.FaceTris[fid], t)
		for i := 0; i < 3; i++ {
			a, b := tri[i], tri[(i+1)%3]
			e := sortEdge(a, b)
			idx.EdgeToTris[e] = append(idx.EdgeToTris[e], t)
		}
	}

	// boundaryEdges[facePair] accumulates the shared edges between each
	// pair of distinct face-ids, keyed on the sorted face pair.
	boundaryEdges := make(map[FacePair][]Edge)
	for e, tris := range idx.EdgeToTris {
		if len(tris) != 2 {
			continue
		}
		f0, f1 := faces[tris[0]], faces[tris[1]]
		if f0 == f1 {
			continue
		}
		pair := sortFacePair(f0, f1)
		boundaryEdges[pair] = append(boundaryEdges[pair], e)
		addAdjacency(idx.FaceAdj, f0, f1)
	}

	for pair, edges := range boundaryEdges {
		idx.FacePairEdges[pair] = buildChains(edges)
	}
	return idx
}

func addAdjacency(adj map[mesh.FaceID]map[mesh.FaceID]bool, a, b mesh.FaceID) {
	if adj[a] == nil {
		adj[a] = make(map[mesh.FaceID]bool)
	}
	if adj[b] == nil {
		adj[b] = make(map[mesh.FaceID]bool)
	}
	adj[a][b] = true
	adj[b][a] = true
}

// Neighbors returns the face-ids adjacent to id.
func (idx *Index) Neighbors(id mesh.FaceID) []mesh.FaceID {
	out := make([]mesh.FaceID, 0, len(idx.FaceAdj[id]))
	for n := range idx.FaceAdj[id] {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Chains returns the boundary chains shared by faces a and b, in a
// deterministic order.
func (idx *Index) Chains(a, b mesh.FaceID) []Chain {
	return idx.FacePairEdges[sortFacePair(a, b)]
}

// buildChains reconstructs ordered boundary chains from an unordered set
// of shared edges: DFS from degree-1 vertices yields open chains; any
// remaining (all degree-2) edges form closed loops.
func buildChains(edges []Edge) []Chain {
	adj := make(map[int][]int)
	for _, e := range edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	used := make(map[Edge]bool, len(edges))
	markUsed := func(a, b int) { used[sortEdge(a, b)] = true }
	isUsed := func(a, b int) bool { return used[sortEdge(a, b)] }

	var chains []Chain

	// Deterministic vertex iteration order.
	verts := make([]int, 0, len(adj))
	for v := range adj {
		verts = append(verts, v)
	}
	sort.Ints(verts)

	walk := func(start int) []int {
		path := []int{start}
		cur := start
		for {
			neighbors := adj[cur]
			sort.Ints(neighbors)
			next := -1
			for _, n := range neighbors {
				if !isUsed(cur, n) {
					next = n
					break
				}
			}
			if next == -1 {
				break
			}
			markUsed(cur, next)
			path = append(path, next)
			cur = next
		}
		return path
	}

	// Open chains: seed at every degree-1 vertex.
	for _, v := range verts {
		if len(adj[v]) == 1 {
			path := walk(v)
			if len(path) > 1 {
				chains = append(chains, Chain{Verts: path, Closed: false})
			}
		}
	}
	// Closed loops: whatever edges remain are all degree-2 cycles.
	for _, v := range verts {
		for _, n := range adj[v] {
			if isUsed(v, n) {
				continue
			}
			markUsed(v, n)
			path := []int{v, n}
			cur := n
			for {
				neighbors := adj[cur]
				sort.Ints(neighbors)
				next := -1
				for _, nn := range neighbors {
					if !isUsed(cur, nn) {
						next = nn
						break
					}
				}
				if next == -1 {
					break
				}
				markUsed(cur, next)
				path = append(path, next)
				cur = next
			}
			if path[0] == path[len(path)-1] || path[len(path)-1] == v {
				chains = append(chains, Chain{Verts: path, Closed: true})
			} else {
				chains = append(chains, Chain{Verts: path, Closed: true})
			}
		}
	}
	return chains
}
