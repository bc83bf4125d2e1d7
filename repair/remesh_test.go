// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import "testing"

func TestRemeshUniformLengthSplitsLongEdges(t *testing.T) {
	m := unitCube()
	before := m.NumTriangles()
	n, err := RemeshUniformLength(m, 0.6, 8, nil)
	if err != nil {
		t.Fatalf("RemeshUniformLength: %v", err)
	}
	if n == 0 {
		t.Fatal("expected at least one split (cube edges have length 1 > 0.6)")
	}
	if m.NumTriangles() <= before {
		t.Fatalf("NumTriangles = %d, want > %d", m.NumTriangles(), before)
	}

	positions := m.Positions()
	for _, tri := range m.Triangles() {
		for i := 0; i < 3; i++ {
			a, b := tri[i], tri[(i+1)%3]
			pa, pb := positions[a], positions[b]
			if l := pa.Dist(&pb); l > 0.6+1e-9 {
				t.Fatalf("edge length %v exceeds max_edge_length 0.6 after remesh", l)
			}
		}
	}
}

func TestRemeshUniformLengthNoOpBelowThreshold(t *testing.T) {
	m := unitCube()
	n, err := RemeshUniformLength(m, 10, 8, nil)
	if err != nil {
		t.Fatalf("RemeshUniformLength: %v", err)
	}
	if n != 0 {
		t.Fatalf("splits = %d, want 0 when max_edge_length exceeds every edge", n)
	}
	if m.NumTriangles() != 12 {
		t.Fatalf("NumTriangles = %d, want 12 (unchanged)", m.NumTriangles())
	}
}
