// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"testing"

	"github.com/brepio/corebrep/config"
)

func TestPipelineDefaultRunsCleanlyOnCleanCube(t *testing.T) {
	m := unitCube()
	opts := config.Default()
	p := NewPipeline(m, opts, nil, nil)
	results, err := p.Default(8).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 9 {
		t.Fatalf("len(results) = %d, want 9 (the default §4.8 sequence)", len(results))
	}
	wantNames := []string{
		"remove_degenerate_triangles",
		"collapse_tiny_triangles",
		"split_self_intersecting_triangles",
		"remove_internal_triangles",
		"fix_triangle_windings_by_adjacency",
		"remove_small_islands",
		"remove_tiny_boundary_triangles",
		"merge_tiny_faces",
		"fix_triangle_windings_by_adjacency",
	}
	for i, want := range wantNames {
		if results[i].Name != want {
			t.Fatalf("results[%d].Name = %q, want %q", i, results[i].Name, want)
		}
	}
	if m.NumTriangles() != 12 {
		t.Fatalf("NumTriangles = %d, want 12 (a clean cube survives the pipeline unchanged)", m.NumTriangles())
	}
}

func TestPipelineDefaultDropsInjectedDegenerateTriangleAndIsland(t *testing.T) {
	m := unitCube()
	// A zero-area degenerate triangle with a repeated vertex.
	m.AppendTriangleRaw([3]int{0, 1, 0}, m.FaceOf(0))
	// A tiny disconnected tetrahedron floating outside the cube: a small
	// island the pipeline's remove_small_islands step should drop.
	base := m.NumVertices()
	m.AppendVertexRaw(v(5, 5, 5))
	m.AppendVertexRaw(v(5.01, 5, 5))
	m.AppendVertexRaw(v(5, 5.01, 5))
	m.AppendVertexRaw(v(5, 5, 5.01))
	specFace := m.FaceOf(0)
	m.AppendTriangleRaw([3]int{base, base + 2, base + 1}, specFace)
	m.AppendTriangleRaw([3]int{base, base + 1, base + 3}, specFace)
	m.AppendTriangleRaw([3]int{base, base + 3, base + 2}, specFace)
	m.AppendTriangleRaw([3]int{base + 1, base + 2, base + 3}, specFace)

	opts := config.Default()
	p := NewPipeline(m, opts, nil, nil)
	results, err := p.Default(8).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var degenerateChanged, islandsChanged int
	for _, r := range results {
		switch r.Name {
		case "remove_degenerate_triangles":
			degenerateChanged = r.Changed
		case "remove_small_islands":
			islandsChanged = r.Changed
		}
	}
	if degenerateChanged == 0 {
		t.Fatal("expected remove_degenerate_triangles to drop the zero-area triangle")
	}
	if islandsChanged == 0 {
		t.Fatal("expected remove_small_islands to drop the floating tetrahedron")
	}
	if m.NumTriangles() != 12 {
		t.Fatalf("NumTriangles = %d, want 12 (back to a clean cube)", m.NumTriangles())
	}
}
