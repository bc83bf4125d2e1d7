// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"testing"

	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// quadMesh builds quad A,B,C,D split along the diagonal B-D: A(0,0),
// B(1,0), C(0,3), D(-1,0.01). That diagonal leaves triangle A-B-D a
// near-zero-area sliver (A,B,D are nearly collinear) while the other
// diagonal, A-C, splits the same quad into two well-shaped triangles.
func quadMesh(t *testing.T) *mesh.TaggedMesh {
	t.Helper()
	m := mesh.NewTaggedMesh()
	a := v(0, 0, 0)
	b := v(1, 0, 0)
	c := v(0, 3, 0)
	d := v(-1, 0.01, 0)
	if _, err := m.AddTriangle("f1", a, b, d); err != nil {
		t.Fatalf("AddTriangle f1: %v", err)
	}
	if _, err := m.AddTriangle("f2", b, c, d); err != nil {
		t.Fatalf("AddTriangle f2: %v", err)
	}
	return m
}

func TestFlipTinyTriangleEdgesRotatesBadDiagonal(t *testing.T) {
	m := quadMesh(t)
	n, err := FlipTinyTriangleEdges(m, 0.1, 4, nil)
	if err != nil {
		t.Fatalf("FlipTinyTriangleEdges: %v", err)
	}
	if n != 1 {
		t.Fatalf("flips = %d, want 1", n)
	}
	if m.NumTriangles() != 2 {
		t.Fatalf("NumTriangles = %d, want 2", m.NumTriangles())
	}

	positions := m.Positions()
	minArea := 1e9
	for _, tri := range m.Triangles() {
		a := mathx.TriangleArea(positions[tri[0]], positions[tri[1]], positions[tri[2]])
		if a < minArea {
			minArea = a
		}
	}
	if minArea < 1.0 {
		t.Fatalf("post-flip min triangle area = %v, want >= 1.0 (diagonal should have rotated to A-C)", minArea)
	}
}

func TestFlipTinyTriangleEdgesNoOpAboveThreshold(t *testing.T) {
	m := quadMesh(t)
	n, err := FlipTinyTriangleEdges(m, 1e-6, 4, nil)
	if err != nil {
		t.Fatalf("FlipTinyTriangleEdges: %v", err)
	}
	if n != 0 {
		t.Fatalf("flips = %d, want 0 when threshold is below the sliver's area", n)
	}
}
