// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package external

import (
	"fmt"
	"math"
	"sort"

	"github.com/brepio/corebrep/mathx"
)

// fallbackKernel is a pure-Go stand-in for a real geometry-kernel boolean
// engine. It does not perform a general CSG boolean; it only implements the
// two operations the core actually calls through Kernel/Solid in the
// absence of a real backend:
//
//   - Build: weld coincident vertices by coordinate quantization and drop
//     triangles that exactly cancel (same three vertices, opposite
//     winding) — the signature of two coincident internal faces left by a
//     naive union of touching solids (spec_full scenario S2).
//   - Intersect: crops the solid to the other solid's axis-aligned
//     bounding box, dropping every triangle with any vertex outside it
//     and keeping the survivors' shared vertices shared. This is the operation collapse_tiny_triangles (spec_full
//     §4.3.5) actually needs: "intersect with an inflated AABB".
//
// This is intentionally narrow. A real project wires in the cgo Manifold
// backend (manifold_cgo.go, build tag "manifold") for anything beyond these
// two call sites; TopologyFailure from this fallback is expected and
// handled by repair's configured fallback strategy (spec_full §7).
type fallbackKernel struct{}

// NewFallbackKernel returns the default Kernel used when no cgo Manifold
// backend is linked in.
func NewFallbackKernel() Kernel { return fallbackKernel{} }

func (fallbackKernel) Build(m RawMesh) (Solid, error) {
	welded := weldCoincidentVertices(m)
	welded = dropCancelingTriangles(welded)
	return &fallbackSolid{mesh: welded}, nil
}

type fallbackSolid struct {
	mesh    RawMesh
	deleted bool
}

func (s *fallbackSolid) BoundingBox() (min, max mathx.V3) {
	if len(s.mesh.Positions) == 0 {
		return mathx.V3{}, mathx.V3{}
	}
	lo := s.mesh.Positions[0]
	hi := s.mesh.Positions[0]
	for _, p := range s.mesh.Positions[1:] {
		if p.X < lo.X {
			lo.X = p.X
		}
		if p.Y < lo.Y {
			lo.Y = p.Y
		}
		if p.Z < lo.Z {
			lo.Z = p.Z
		}
		if p.X > hi.X {
			hi.X = p.X
		}
		if p.Y > hi.Y {
			hi.Y = p.Y
		}
		if p.Z > hi.Z {
			hi.Z = p.Z
		}
	}
	return lo, hi
}

func (s *fallbackSolid) Intersect(other Solid) (Solid, error) {
	if s.deleted {
		return nil, fmt.Errorf("external: Intersect called on deleted solid")
	}
	omin, omax := other.BoundingBox()
	kept := RawMesh{}
	newIdx := make(map[int]int)
	for ti, tri := range s.mesh.Triangles {
		inside := true
		for _, vi := range tri {
			p := s.mesh.Positions[vi]
			if p.X < omin.X || p.Y < omin.Y || p.Z < omin.Z ||
				p.X > omax.X || p.Y > omax.Y || p.Z > omax.Z {
				inside = false
				break
			}
		}
		if !inside {
			continue
		}
		remap := [3]int{}
		for k, vi := range tri {
			j, ok := newIdx[vi]
			if !ok {
				j = appendVertex(&kept, s.mesh.Positions[vi])
				newIdx[vi] = j
			}
			remap[k] = j
		}
		kept.Triangles = append(kept.Triangles, remap)
		if ti < len(s.mesh.FaceIDs) {
			kept.FaceIDs = append(kept.FaceIDs, s.mesh.FaceIDs[ti])
		}
	}
	return &fallbackSolid{mesh: kept}, nil
}

func (s *fallbackSolid) GetMesh() RawMesh { return s.mesh }

func (s *fallbackSolid) Delete() { s.deleted = true }

func appendVertex(m *RawMesh, p mathx.V3) int {
	idx := len(m.Positions)
	m.Positions = append(m.Positions, p)
	return idx
}

func weldCoincidentVertices(m RawMesh) RawMesh {
	const quantum = 1e-9
	type key [3]int64
	keyOf := func(p mathx.V3) key {
		return key{
			int64(math.Round(p.X / quantum)),
			int64(math.Round(p.Y / quantum)),
			int64(math.Round(p.Z / quantum)),
		}
	}
	seen := make(map[key]int, len(m.Positions))
	remap := make([]int, len(m.Positions))
	out := RawMesh{FaceIDs: m.FaceIDs}
	for i, p := range m.Positions {
		k := keyOf(p)
		if j, ok := seen[k]; ok {
			remap[i] = j
			continue
		}
		j := len(out.Positions)
		out.Positions = append(out.Positions, p)
		seen[k] = j
		remap[i] = j
	}
	out.Triangles = make([][3]int, len(m.Triangles))
	for i, tri := range m.Triangles {
		out.Triangles[i] = [3]int{remap[tri[0]], remap[tri[1]], remap[tri[2]]}
	}
	return out
}

// dropCancelingTriangles removes pairs of triangles that reference the same
// three vertices with opposite winding: the signature left behind when two
// coincident shells (e.g. two boxes glued face-to-face) are concatenated
// without deduplication.
func dropCancelingTriangles(m RawMesh) RawMesh {
	type sig [3]int
	// sigOf returns t's sorted vertex set and whether t lists that set in
	// cyclic (even) order; two triangles with equal sets and different
	// parities have opposite winding.
	sigOf := func(t [3]int) (sig, bool) {
		v := t
		sort.Ints(v[:])
		even := t == v || t == [3]int{v[1], v[2], v[0]} || t == [3]int{v[2], v[0], v[1]}
		return sig(v), even
	}
	counts := make(map[sig]*[2][]int, len(m.Triangles))
	for i, t := range m.Triangles {
		s, even := sigOf(t)
		g := counts[s]
		if g == nil {
			g = &[2][]int{}
			counts[s] = g
		}
		if even {
			g[0] = append(g[0], i)
		} else {
			g[1] = append(g[1], i)
		}
	}
	removed := make(map[int]bool)
	for _, g := range counts {
		// Pair each triangle with one of opposite winding on the same vertex
		// set; same-winding duplicates and any odd one out are kept.
		for len(g[0]) > 0 && len(g[1]) > 0 {
			removed[g[0][0]] = true
			removed[g[1][0]] = true
			g[0], g[1] = g[0][1:], g[1][1:]
		}
	}
	if len(removed) == 0 {
		return m
	}
	out := RawMesh{}
	for i, t := range m.Triangles {
		if removed[i] {
			continue
		}
		out.Triangles = append(out.Triangles, t)
		if i < len(m.FaceIDs) {
			out.FaceIDs = append(out.FaceIDs, m.FaceIDs[i])
		}
	}
	out.Positions = m.Positions
	return out
}
