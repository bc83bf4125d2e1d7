// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package topology

import (
	"math"
	"sort"

	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// Quantum computes the lattice spacing spec_full §4.2 specifies:
// max(1e-5, diag*1e-8, tol).
func Quantum(diag, tol float64) float64 {
	q := 1e-5
	if d := diag * 1e-8; d > q {
		q = d
	}
	if tol > q {
		q = tol
	}
	return q
}

// VertKey is a quantized-coordinate lattice key: two vertex indices
// collapse to the same key iff all three coordinates round equal.
type VertKey [3]int64

// Quantize rounds p onto a lattice of spacing quantum.
func Quantize(p mathx.V3, quantum float64) VertKey {
	return VertKey{
		int64(math.Round(p.X / quantum)),
		int64(math.Round(p.Y / quantum)),
		int64(math.Round(p.Z / quantum)),
	}
}

// QuantizedIndex is the coordinate-keyed variant of Index, used when
// operators have copied vertices and distinct indices may now occupy the
// same position (spec_full §4.2).
type QuantizedIndex struct {
	Quantum  float64
	KeyOf    []VertKey          // KeyOf[vertexIndex] -> lattice key
	edgeTris map[[2]VertKey][]int
}

// BuildQuantized derives a QuantizedIndex from m's current positions and
// triangles, keying edges on quantized coordinates instead of raw vertex
// indices.
func BuildQuantized(m *mesh.TaggedMesh, quantum float64) *QuantizedIndex {
	positions := m.Positions()
	keys := make([]VertKey, len(positions))
	for i, p := range positions {
		keys[i] = Quantize(p, quantum)
	}
	qi := &QuantizedIndex{Quantum: quantum, KeyOf: keys, edgeTris: make(map[[2]VertKey][]int)}
	for t, tri := range m.Triangles() {
		for i := 0; i < 3; i++ {
			ka, kb := keys[tri[i]], keys[tri[(i+1)%3]]
			qi.edgeTris[sortKeyPair(ka, kb)] = append(qi.edgeTris[sortKeyPair(ka, kb)], t)
		}
	}
	return qi
}

func sortKeyPair(a, b VertKey) [2]VertKey {
	if keyLess(a, b) {
		return [2]VertKey{a, b}
	}
	return [2]VertKey{b, a}
}

func keyLess(a, b VertKey) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// ChainPair is a pair of parallel vertex-index sequences describing the
// same boundary chain as seen from each of two faces' own indexing.
type ChainPair struct {
	A, B   []int
	Closed bool
}

// FaceChainsQuantized reconstructs the boundary chains between faceA and
// faceB using coordinate-quantized keys, returning one parallel sequence
// per face (spec_full §4.2: "the chain reconstruction then operates on
// keys and emits two parallel vertex-index sequences").
func (qi *QuantizedIndex) FaceChainsQuantized(m *mesh.TaggedMesh, faceA, faceB mesh.FaceID) []ChainPair {
	faces := m.TriFaces()
	triangles := m.Triangles()

	type keyEdge [2]VertKey
	sharedKeyEdges := make(map[keyEdge]bool)
	// representative vertex index for each face, per key, so we can emit
	// each face's own indexing for the same logical chain.
	reprA := make(map[VertKey]int)
	reprB := make(map[VertKey]int)

	for t, tri := range triangles {
		fid := faces[t]
		if fid != faceA && fid != faceB {
			continue
		}
		for i := 0; i < 3; i++ {
			va, vb := tri[i], tri[(i+1)%3]
			ka, kb := qi.KeyOf[va], qi.KeyOf[vb]
			ke := sortKeyPair(ka, kb)
			if tris := qi.edgeTris[ke]; sharesBothFaces(tris, faces, faceA, faceB) {
				sharedKeyEdges[ke] = true
				if fid == faceA {
					reprA[ka], reprA[kb] = va, vb
				} else {
					reprB[ka], reprB[kb] = va, vb
				}
			}
		}
	}

	keyAdj := make(map[VertKey][]VertKey)
	for ke := range sharedKeyEdges {
		keyAdj[ke[0]] = append(keyAdj[ke[0]], ke[1])
		keyAdj[ke[1]] = append(keyAdj[ke[1]], ke[0])
	}
	usedKeys := make(map[keyEdge]bool)
	markUsed := func(a, b VertKey) { usedKeys[sortKeyPair(a, b)] = true }
	isUsed := func(a, b VertKey) bool { return usedKeys[sortKeyPair(a, b)] }

	keys := make([]VertKey, 0, len(keyAdj))
	for k := range keyAdj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })

	walk := func(start VertKey) []VertKey {
		path := []VertKey{start}
		cur := start
		for {
			neigh := append([]VertKey(nil), keyAdj[cur]...)
			sort.Slice(neigh, func(i, j int) bool { return keyLess(neigh[i], neigh[j]) })
			next := VertKey{}
			found := false
			for _, n := range neigh {
				if !isUsed(cur, n) {
					next, found = n, true
					break
				}
			}
			if !found {
				break
			}
			markUsed(cur, next)
			path = append(path, next)
			cur = next
		}
		return path
	}

	var chains []ChainPair
	for _, k := range keys {
		if len(keyAdj[k]) == 1 {
			path := walk(k)
			if len(path) > 1 {
				chains = append(chains, toChainPair(path, reprA, reprB, false))
			}
		}
	}
	for _, k := range keys {
		for _, n := range keyAdj[k] {
			if isUsed(k, n) {
				continue
			}
			markUsed(k, n)
			path := []VertKey{k, n}
			cur := n
			for {
				neigh := append([]VertKey(nil), keyAdj[cur]...)
				sort.Slice(neigh, func(i, j int) bool { return keyLess(neigh[i], neigh[j]) })
				next := VertKey{}
				found := false
				for _, nn := range neigh {
					if !isUsed(cur, nn) {
						next, found = nn, true
						break
					}
				}
				if !found {
					break
				}
				markUsed(cur, next)
				path = append(path, next)
				cur = next
			}
			chains = append(chains, toChainPair(path, reprA, reprB, true))
		}
	}
	return chains
}

func sharesBothFaces(tris []int, faces []mesh.FaceID, a, b mesh.FaceID) bool {
	sawA, sawB := false, false
	for _, t := range tris {
		if faces[t] == a {
			sawA = true
		}
		if faces[t] == b {
			sawB = true
		}
	}
	return sawA && sawB
}

func toChainPair(path []VertKey, reprA, reprB map[VertKey]int, closed bool) ChainPair {
	cp := ChainPair{Closed: closed, A: make([]int, len(path)), B: make([]int, len(path))}
	for i, k := range path {
		cp.A[i] = reprA[k]
		cp.B[i] = reprB[k]
	}
	return cp
}
