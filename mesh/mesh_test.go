// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/brepio/corebrep/errs"
	"github.com/brepio/corebrep/external"
	"github.com/brepio/corebrep/mathx"
)

func v(x, y, z float64) mathx.V3 { return mathx.V3{X: x, Y: y, Z: z} }

func TestAddTriangleWeldsExactDuplicateVertices(t *testing.T) {
	m := NewTaggedMesh()
	if _, err := m.AddTriangle("top", v(0, 0, 0), v(1, 0, 0), v(0, 1, 0)); err != nil {
		t.Fatalf("AddTriangle: %v", err)
	}
	if _, err := m.AddTriangle("top", v(1, 0, 0), v(1, 1, 0), v(0, 1, 0)); err != nil {
		t.Fatalf("AddTriangle: %v", err)
	}
	if got, want := m.NumVertices(), 4; got != want {
		t.Fatalf("NumVertices = %d, want %d (shared edge should weld to 4 verts, not 6)", got, want)
	}
	if got, want := m.NumTriangles(), 2; got != want {
		t.Fatalf("NumTriangles = %d, want %d", got, want)
	}
}

func TestAddTriangleAssignsStableFaceIDs(t *testing.T) {
	m := NewTaggedMesh()
	t0, _ := m.AddTriangle("a", v(0, 0, 0), v(1, 0, 0), v(0, 1, 0))
	t1, _ := m.AddTriangle("b", v(0, 0, 1), v(1, 0, 1), v(0, 1, 1))
	t2, _ := m.AddTriangle("a", v(2, 0, 0), v(3, 0, 0), v(2, 1, 0))
	if m.FaceOf(t0) != m.FaceOf(t2) {
		t.Errorf("expected triangles tagged %q to share a face-id", "a")
	}
	if m.FaceOf(t0) == m.FaceOf(t1) {
		t.Errorf("expected triangles tagged %q and %q to differ", "a", "b")
	}
	name, ok := m.FaceName(m.FaceOf(t0))
	if !ok || name != "a" {
		t.Errorf("FaceName round-trip failed: got (%q, %v)", name, ok)
	}
}

func TestAddTriangleRejectsDegenerateAfterWeld(t *testing.T) {
	m := NewTaggedMesh()
	_, err := m.AddTriangle("a", v(0, 0, 0), v(0, 0, 0), v(1, 0, 0))
	if !errors.Is(err, errs.ErrDegenerateGeometry) {
		t.Fatalf("expected ErrDegenerateGeometry, got %v", err)
	}
}

func TestAddTriangleRejectsNonFiniteCoordinate(t *testing.T) {
	m := NewTaggedMesh()
	_, err := m.AddTriangle("a", v(0, 0, 0), v(1, 0, 0), v(math.NaN(), 1, 0))
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := NewTaggedMesh()
	m.AddTriangle("a", v(0, 0, 0), v(1, 0, 0), v(0, 1, 0))
	c := m.Clone()
	c.AddTriangle("a", v(5, 5, 5), v(6, 5, 5), v(5, 6, 5))
	if m.NumTriangles() != 1 {
		t.Errorf("mutating clone affected original: NumTriangles = %d, want 1", m.NumTriangles())
	}
	if c.NumTriangles() != 2 {
		t.Errorf("clone did not record its own addition: NumTriangles = %d, want 2", c.NumTriangles())
	}
}

func TestGetMeshCachesUntilDirty(t *testing.T) {
	m := NewTaggedMesh()
	m.AddTriangle("a", v(0, 0, 0), v(1, 0, 0), v(0, 1, 0))
	kernel := external.NewFallbackKernel()
	first, err := m.GetMesh(kernel)
	if err != nil {
		t.Fatalf("GetMesh: %v", err)
	}
	if m.Dirty() {
		t.Error("GetMesh should clear the dirty flag")
	}
	second, err := m.GetMesh(kernel)
	if err != nil {
		t.Fatalf("GetMesh (cached): %v", err)
	}
	if len(first.Triangles) != len(second.Triangles) {
		t.Errorf("cached GetMesh returned a different triangle count")
	}
	m.AddTriangle("a", v(2, 0, 0), v(3, 0, 0), v(2, 1, 0))
	if !m.Dirty() {
		t.Error("AddTriangle should set dirty")
	}
}

func TestFreeIsIdempotentAndReCaches(t *testing.T) {
	m := NewTaggedMesh()
	m.AddTriangle("a", v(0, 0, 0), v(1, 0, 0), v(0, 1, 0))
	kernel := external.NewFallbackKernel()
	if _, err := m.GetMesh(kernel); err != nil {
		t.Fatalf("GetMesh: %v", err)
	}
	m.Free()
	m.Free()
	if !m.Dirty() {
		t.Error("Free should leave the mesh dirty")
	}
	if _, err := m.GetMesh(kernel); err != nil {
		t.Fatalf("GetMesh after Free: %v", err)
	}
}
