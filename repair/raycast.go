// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"math"

	"github.com/brepio/corebrep/mathx"
)

// rayTriangleHit reports whether the ray from origin along dir crosses
// triangle (p0,p1,p2) at a strictly positive parameter t, using the
// standard Möller–Trumbore formulation. Used by both the small-island
// inside/outside classifier (spec_full §4.3.1) and the raycast-vote
// internal-triangle strategy (spec_full §4.3.8).
func rayTriangleHit(origin, dir, p0, p1, p2 mathx.V3, eps float64) bool {
	e1 := mathx.SubV3(p1, p0)
	e2 := mathx.SubV3(p2, p0)
	h := mathx.CrossV3(dir, e2)
	a := mathx.DotV3(e1, h)
	if math.Abs(a) < eps {
		return false
	}
	f := 1 / a
	s := mathx.SubV3(origin, p0)
	u := f * mathx.DotV3(s, h)
	if u < 0 || u > 1 {
		return false
	}
	q := mathx.CrossV3(s, e1)
	v := f * mathx.DotV3(dir, q)
	if v < 0 || u+v > 1 {
		return false
	}
	t := f * mathx.DotV3(e2, q)
	return t > eps
}

// countCrossings counts how many of the given triangles a ray from origin
// along dir crosses.
func countCrossings(origin, dir mathx.V3, positions []mathx.V3, triangles [][3]int, tris []int, eps float64) int {
	count := 0
	for _, t := range tris {
		tri := triangles[t]
		if rayTriangleHit(origin, dir, positions[tri[0]], positions[tri[1]], positions[tri[2]], eps) {
			count++
		}
	}
	return count
}

// isOdd reports whether n is odd (the standard inside/outside parity rule
// for ray-triangle crossing counts).
func isOdd(n int) bool { return n%2 == 1 }
