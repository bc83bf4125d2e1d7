// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"testing"

	"github.com/brepio/corebrep/mesh"
)

// backToBackPanels builds two unit-square faces occupying the same plane
// with opposing normals, triangulated along different diagonals so they
// share only their four perimeter edges (not the diagonal): the textbook
// defect remove_opposite_single_edge_faces targets.
func backToBackPanels(t *testing.T) *mesh.TaggedMesh {
	t.Helper()
	m := mesh.NewTaggedMesh()
	p0 := v(0, 0, 0)
	p1 := v(1, 0, 0)
	p2 := v(1, 1, 0)
	p3 := v(0, 1, 0)
	must(m.AddTriangle("a", p0, p1, p2))
	must(m.AddTriangle("a", p0, p2, p3))
	must(m.AddTriangle("b", p1, p0, p3))
	must(m.AddTriangle("b", p1, p3, p2))
	return m
}

func TestRemoveOppositeSingleEdgeFacesDropsBackToBackPanels(t *testing.T) {
	m := backToBackPanels(t)
	n, err := RemoveOppositeSingleEdgeFaces(m, -0.95)
	if err != nil {
		t.Fatalf("RemoveOppositeSingleEdgeFaces: %v", err)
	}
	if n != 4 {
		t.Fatalf("removed = %d, want 4 (both faces participate only in this one opposing pair)", n)
	}
	if m.NumTriangles() != 0 {
		t.Fatalf("NumTriangles = %d, want 0", m.NumTriangles())
	}
}

func TestRemoveOppositeSingleEdgeFacesNoOpOnCube(t *testing.T) {
	m := unitCube()
	n, err := RemoveOppositeSingleEdgeFaces(m, -0.95)
	if err != nil {
		t.Fatalf("RemoveOppositeSingleEdgeFaces: %v", err)
	}
	if n != 0 {
		t.Fatalf("removed = %d, want 0 (adjacent cube faces meet at ~90 degrees, not opposing)", n)
	}
}
