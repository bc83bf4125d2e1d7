// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package mathx

// Triangle-level geometry primitives. The teacher's math/lin has no
// free-standing triangle helpers (every consumer there built its own
// winding from the mutate-style V3 API); these are written once here and
// reused across repair, sheet, and unfold rather than inlined at each call
// site. They return values instead of mutating a receiver, matching how
// Rigid2's pure functions sit alongside the mutate-style V3/V2 API in this
// package: a one-shot derived quantity gains nothing from chaining.

// TriangleNormal returns the unnormalized (area-weighted) normal of the
// triangle (p0,p1,p2) under CCW winding: (p1-p0) x (p2-p0).
func TriangleNormal(p0, p1, p2 V3) V3 {
	var e1, e2, n V3
	e1.Sub(&p1, &p0)
	e2.Sub(&p2, &p0)
	n.Cross(&e1, &e2)
	return n
}

// TriangleArea returns the area of the triangle (p0,p1,p2).
func TriangleArea(p0, p1, p2 V3) float64 {
	n := TriangleNormal(p0, p1, p2)
	return 0.5 * n.Len()
}

// TriangleUnitNormal returns the unit normal of (p0,p1,p2), or the zero
// vector if the triangle is degenerate.
func TriangleUnitNormal(p0, p1, p2 V3) V3 {
	n := TriangleNormal(p0, p1, p2)
	return *n.Unit()
}

// TriangleCentroid returns the arithmetic mean of the triangle's vertices.
func TriangleCentroid(p0, p1, p2 V3) V3 {
	return V3{
		X: (p0.X + p1.X + p2.X) / 3,
		Y: (p0.Y + p1.Y + p2.Y) / 3,
		Z: (p0.Z + p1.Z + p2.Z) / 3,
	}
}

// EdgeLength returns the distance between a and b.
func EdgeLength(a, b V3) float64 {
	return a.Dist(&b)
}

// AddV3 returns a+b without mutating either argument.
func AddV3(a, b V3) V3 {
	var r V3
	r.Add(&a, &b)
	return r
}

// SubV3 returns a-b without mutating either argument.
func SubV3(a, b V3) V3 {
	var r V3
	r.Sub(&a, &b)
	return r
}

// ScaleV3 returns a*s without mutating a.
func ScaleV3(a V3, s float64) V3 {
	var r V3
	r.Scale(&a, s)
	return r
}

// DotV3 returns a.b.
func DotV3(a, b V3) float64 { return a.Dot(&b) }

// CrossV3 returns a x b.
func CrossV3(a, b V3) V3 {
	var r V3
	r.Cross(&a, &b)
	return r
}

// UnitV3 returns a normalized to unit length, or the zero vector if a is
// zero length.
func UnitV3(a V3) V3 {
	r := a
	return *r.Unit()
}

// LerpV3 returns the point a fraction of the way from a to b.
func LerpV3(a, b V3, fraction float64) V3 {
	var r V3
	r.Lerp(&a, &b, fraction)
	return r
}
