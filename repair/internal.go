// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"math"

	"github.com/brepio/corebrep/config"
	"github.com/brepio/corebrep/errs"
	"github.com/brepio/corebrep/external"
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// RemoveInternalTriangles implements spec_full §4.3.8. The manifold strategy
// hands the triangle soup to the external boolean kernel and adopts
// whatever shell it returns; the other two strategies classify and drop
// triangles directly. If strategy is StrategyManifold and the kernel
// returns an error, the configured fallback strategy runs instead, per
// spec.md §4.8 step 4's "with fallback to winding" pipeline note.
func RemoveInternalTriangles(m *mesh.TaggedMesh, opts config.Options, kernel external.Kernel) (int, error) {
	strategy := opts.InternalStrategy
	if strategy == "" {
		strategy = config.StrategyManifold
	}

	switch strategy {
	case config.StrategyManifold:
		n, err := removeInternalManifold(m, kernel)
		if err == nil {
			return n, nil
		}
		fallback := opts.Fallback
		if fallback == "" {
			fallback = config.FallbackWinding
		}
		switch fallback {
		case config.FallbackRaycast:
			return removeInternalRaycast(m, opts.CrossingTolerance)
		default:
			return removeInternalWinding(m, opts.OffsetScale)
		}
	case config.StrategyRaycast:
		return removeInternalRaycast(m, opts.CrossingTolerance)
	case config.StrategyWinding:
		return removeInternalWinding(m, opts.OffsetScale)
	default:
		return 0, errs.InvalidInput("repair.RemoveInternalTriangles", "unknown internal_strategy %q", strategy)
	}
}

func removeInternalManifold(m *mesh.TaggedMesh, kernel external.Kernel) (int, error) {
	if kernel == nil {
		kernel = external.NewFallbackKernel()
	}
	before := m.NumTriangles()
	raw := external.RawMesh{
		Positions: append([]mathx.V3(nil), m.Positions()...),
		Triangles: append([][3]int(nil), m.Triangles()...),
		FaceIDs:   faceIDsU32(m.TriFaces()),
	}
	solid, err := kernel.Build(raw)
	if err != nil {
		return 0, err
	}
	defer solid.Delete()
	result := solid.GetMesh()
	m.ReplaceAll(result.Positions, result.Triangles, u32ToFaceIDs(result.FaceIDs))
	after := m.NumTriangles()
	if after > before {
		return 0, nil
	}
	return before - after, nil
}

// removeInternalRaycast implements the raycast-vote strategy: for each
// triangle, probe its jittered centroid along +X, +Y, +Z, classify
// inside/outside per axis by odd/even crossing count against the whole
// mesh, and remove triangles where the majority of axes vote inside.
func removeInternalRaycast(m *mesh.TaggedMesh, eps float64) (int, error) {
	if eps <= 0 {
		eps = 1e-9
	}
	positions := m.Positions()
	triangles := m.Triangles()
	all := make([]int, len(triangles))
	for i := range all {
		all[i] = i
	}

	axes := [3]mathx.V3{{X: 1}, {Y: 1}, {Z: 1}}
	jitter := [3]mathx.V3{{X: 7 * eps, Y: 11 * eps, Z: 13 * eps}, {X: -5 * eps, Y: 3 * eps, Z: 17 * eps}, {X: 9 * eps, Y: -2 * eps, Z: 4 * eps}}

	var drop []int
	for t, tri := range triangles {
		centroid := mathx.TriangleCentroid(positions[tri[0]], positions[tri[1]], positions[tri[2]])
		votes := 0
		for i, axis := range axes {
			origin := mathx.AddV3(centroid, jitter[i])
			crossings := countCrossings(origin, axis, positions, triangles, all, eps)
			if isOdd(crossings) {
				votes++
			}
		}
		if votes >= 2 {
			drop = append(drop, t)
		}
	}
	n := m.RemoveTriangles(drop)
	if n > 0 {
		m.CompactVertices()
	}
	return n, nil
}

// removeInternalWinding implements the generalized-winding-number strategy:
// probe each triangle's centroid offset by ±eps·normal and compute the
// winding number w(P) = (1/4π)·Σ Ω(P;A,B,C) via the van Oosterom–Strang
// solid-angle formula. Triangles where w stays ≈1 on both sides are
// interior and removed; triangles where w stays ≈0 on both sides are
// exterior (disconnected/reversed) and removed; triangles where w crosses
// 0.5 between the two probes are genuinely on the surface and kept.
func removeInternalWinding(m *mesh.TaggedMesh, eps float64) (int, error) {
	if eps <= 0 {
		eps = 1e-4
	}
	positions := m.Positions()
	triangles := m.Triangles()

	var drop []int
	for t, tri := range triangles {
		n := mathx.TriangleUnitNormal(positions[tri[0]], positions[tri[1]], positions[tri[2]])
		centroid := mathx.TriangleCentroid(positions[tri[0]], positions[tri[1]], positions[tri[2]])
		inner := mathx.SubV3(centroid, mathx.ScaleV3(n, eps))
		outer := mathx.AddV3(centroid, mathx.ScaleV3(n, eps))
		wIn := windingNumber(inner, positions, triangles)
		wOut := windingNumber(outer, positions, triangles)
		onSurface := (wIn > 0.5) != (wOut > 0.5)
		if onSurface {
			continue
		}
		if wIn > 0.5 && wOut > 0.5 {
			drop = append(drop, t) // interior
		} else if wIn < 0.5 && wOut < 0.5 {
			drop = append(drop, t) // exterior / disconnected
		}
	}
	n := m.RemoveTriangles(drop)
	if n > 0 {
		m.CompactVertices()
	}
	return n, nil
}

// windingNumber computes the generalized winding number of point p with
// respect to the closed (or not) triangle soup, via van Oosterom & Strang's
// numerically stable oriented-solid-angle formula for each triangle.
func windingNumber(p mathx.V3, positions []mathx.V3, triangles [][3]int) float64 {
	sum := 0.0
	for _, tri := range triangles {
		sum += solidAngle(p, positions[tri[0]], positions[tri[1]], positions[tri[2]])
	}
	return sum / (4 * math.Pi)
}

// solidAngle returns the oriented solid angle Ω subtended by triangle A,B,C
// as seen from p, via the van Oosterom–Strang tangent formula:
//
//	tan(Ω/2) = (a·(b×c)) / (|a||b||c| + (a·b)|c| + (b·c)|a| + (c·a)|b|)
//
// where a,b,c are A-p, B-p, C-p.
func solidAngle(p, a, b, c mathx.V3) float64 {
	va := mathx.SubV3(a, p)
	vb := mathx.SubV3(b, p)
	vc := mathx.SubV3(c, p)
	la, lb, lc := va.Len(), vb.Len(), vc.Len()
	if la < 1e-12 || lb < 1e-12 || lc < 1e-12 {
		return 0
	}
	numerator := mathx.DotV3(va, mathx.CrossV3(vb, vc))
	denominator := la*lb*lc +
		mathx.DotV3(va, vb)*lc +
		mathx.DotV3(vb, vc)*la +
		mathx.DotV3(vc, va)*lb
	return 2 * math.Atan2(numerator, denominator)
}
