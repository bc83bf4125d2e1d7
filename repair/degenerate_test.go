// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"testing"

	"github.com/brepio/corebrep/config"
)

func TestRemoveDegenerateTrianglesDropsDuplicateVertexTriangle(t *testing.T) {
	m := unitCube()
	before := m.NumTriangles()
	// A triangle referencing the same vertex twice, appended raw since
	// AddTriangle's own degenerate check would reject it before it ever
	// reached this operator.
	m.AppendTriangleRaw([3]int{0, 1, 0}, 0)
	n, err := RemoveDegenerateTriangles(m, config.DefaultTolerances())
	if err != nil {
		t.Fatalf("RemoveDegenerateTriangles: %v", err)
	}
	if n != 1 {
		t.Fatalf("removed = %d, want 1", n)
	}
	if m.NumTriangles() != before {
		t.Fatalf("NumTriangles = %d, want %d", m.NumTriangles(), before)
	}
}

func TestRemoveDegenerateTrianglesIdempotent(t *testing.T) {
	m := unitCube()
	tol := config.DefaultTolerances()
	if _, err := RemoveDegenerateTriangles(m, tol); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	n, err := RemoveDegenerateTriangles(m, tol)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if n != 0 {
		t.Fatalf("second pass removed %d, want 0 (idempotent)", n)
	}
}
