// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package external

import (
	"testing"

	"github.com/brepio/corebrep/mathx"
)

func TestFallbackKernelWeldsCoincidentVertices(t *testing.T) {
	m := RawMesh{
		Positions: []mathx.V3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			// Duplicate of vertex 0, bit-identical.
			{X: 0, Y: 0, Z: 0},
		},
		Triangles: [][3]int{{0, 1, 2}, {3, 1, 2}},
		FaceIDs:   []uint32{1, 1},
	}
	solid, err := NewFallbackKernel().Build(m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := solid.GetMesh()
	if len(out.Positions) != 3 {
		t.Fatalf("expected coincident vertices welded to 3 positions, got %d", len(out.Positions))
	}
	if out.Triangles[0] != out.Triangles[1] {
		t.Errorf("expected both triangles to reference the same welded vertex indices, got %v and %v", out.Triangles[0], out.Triangles[1])
	}
}

func TestFallbackKernelDropsCancelingTriangles(t *testing.T) {
	m := RawMesh{
		Positions: []mathx.V3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Triangles: [][3]int{{0, 1, 2}, {0, 2, 1}},
		FaceIDs:   []uint32{1, 2},
	}
	solid, err := NewFallbackKernel().Build(m)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := solid.GetMesh()
	if len(out.Triangles) != 0 {
		t.Errorf("expected opposite-winding duplicate triangles to cancel, got %d remaining", len(out.Triangles))
	}
}

func TestFallbackSolidIntersectCropsToBoundingBox(t *testing.T) {
	base := RawMesh{
		Positions: []mathx.V3{
			{X: -5, Y: 0, Z: 0},
			{X: -4, Y: 0, Z: 0},
			{X: -5, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Triangles: [][3]int{{0, 1, 2}, {3, 4, 5}},
		FaceIDs:   []uint32{1, 2},
	}
	kernel := NewFallbackKernel()
	solid, err := kernel.Build(base)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	cropBox, err := kernel.Build(RawMesh{
		Positions: []mathx.V3{{X: -1, Y: -1, Z: -1}, {X: 2, Y: 2, Z: 1}, {X: -1, Y: 2, Z: -1}},
		Triangles: [][3]int{{0, 1, 2}},
		FaceIDs:   []uint32{9},
	})
	if err != nil {
		t.Fatalf("Build crop: %v", err)
	}
	cropped, err := solid.Intersect(cropBox)
	if err != nil {
		t.Fatalf("Intersect: %v", err)
	}
	out := cropped.GetMesh()
	if len(out.Triangles) != 1 {
		t.Fatalf("expected exactly one triangle to survive the crop, got %d", len(out.Triangles))
	}
	if out.FaceIDs[0] != 2 {
		t.Errorf("expected surviving triangle's face id to be 2, got %d", out.FaceIDs[0])
	}
}

func TestFallbackSolidDeleteIsIdempotent(t *testing.T) {
	solid, err := NewFallbackKernel().Build(RawMesh{
		Positions: []mathx.V3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Triangles: [][3]int{{0, 1, 2}},
		FaceIDs:   []uint32{1},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	solid.Delete()
	solid.Delete()
	if _, err := solid.(*fallbackSolid).Intersect(solid); err == nil {
		t.Error("expected Intersect on a deleted solid to error")
	}
}
