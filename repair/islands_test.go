// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import "testing"

func TestRemoveSmallIslandsDropsInteriorTetrahedron(t *testing.T) {
	m := unitCube()
	// A small tetrahedron fully inside the cube, on its own face-id, gives
	// a second, tiny connected component whose centroid ray-casts odd
	// (inside) against the cube's shell.
	a := v(0.4, 0.4, 0.4)
	b := v(0.6, 0.4, 0.4)
	c := v(0.5, 0.6, 0.4)
	d := v(0.5, 0.5, 0.6)
	must(m.AddTriangle("speck", a, c, b))
	must(m.AddTriangle("speck", a, b, d))
	must(m.AddTriangle("speck", b, c, d))
	must(m.AddTriangle("speck", c, a, d))

	before := m.NumTriangles()
	n, err := RemoveSmallIslands(m, IslandOptions{MaxTriangles: 10, RemoveInternal: true, RemoveExternal: false})
	if err != nil {
		t.Fatalf("RemoveSmallIslands: %v", err)
	}
	if n != 4 {
		t.Fatalf("removed = %d, want 4 (the tetrahedron)", n)
	}
	if m.NumTriangles() != before-4 {
		t.Fatalf("NumTriangles = %d, want %d", m.NumTriangles(), before-4)
	}
}

func TestRemoveSmallIslandsKeepsLargeComponentsRegardless(t *testing.T) {
	m := unitCube()
	n, err := RemoveSmallIslands(m, IslandOptions{MaxTriangles: 1, RemoveInternal: true, RemoveExternal: true})
	if err != nil {
		t.Fatalf("RemoveSmallIslands: %v", err)
	}
	if n != 0 {
		t.Fatalf("removed = %d, want 0 (the only component is main and exceeds max_triangles anyway)", n)
	}
	if m.NumTriangles() != 12 {
		t.Fatalf("NumTriangles = %d, want 12", m.NumTriangles())
	}
}
