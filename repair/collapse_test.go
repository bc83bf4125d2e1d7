// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"testing"

	"github.com/brepio/corebrep/external"
)

func TestCollapseTinyTrianglesShrinksVertexCount(t *testing.T) {
	m := unitCube()
	// Split one edge of the bottom face with a vertex very close to one of
	// its endpoints, introducing a sliver triangle with a sub-threshold
	// shortest edge.
	near := v(0.001, 0, 0)
	m.AppendVertexRaw(near)
	idx := m.NumVertices() - 1
	m.AppendTriangleRaw([3]int{0, idx, 3}, m.FaceOf(0))

	beforeVerts := m.NumVertices()
	n, err := CollapseTinyTriangles(m, 0.01, external.NewFallbackKernel())
	if err != nil {
		t.Fatalf("CollapseTinyTriangles: %v", err)
	}
	if n == 0 {
		t.Fatal("expected at least one collapsed edge")
	}
	if m.NumVertices() >= beforeVerts {
		t.Fatalf("NumVertices = %d, want < %d after collapse", m.NumVertices(), beforeVerts)
	}
}
