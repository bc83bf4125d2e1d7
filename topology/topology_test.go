// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package topology

import (
	"testing"

	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// twoQuadMesh builds two adjacent unit-square faces sharing one edge:
//
//	(0,1)--(1,1)--(2,1)
//	  |  A   |  B   |
//	(0,0)--(1,0)--(2,0)
func twoQuadMesh(t *testing.T) *mesh.TaggedMesh {
	t.Helper()
	m := mesh.NewTaggedMesh()
	v := func(x, y float64) mathx.V3 { return mathx.V3{X: x, Y: y} }
	if _, err := m.AddTriangle("A", v(0, 0), v(1, 0), v(1, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddTriangle("A", v(0, 0), v(1, 1), v(0, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddTriangle("B", v(1, 0), v(2, 0), v(2, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddTriangle("B", v(1, 0), v(2, 1), v(1, 1)); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestBuildFaceAdjacency(t *testing.T) {
	m := twoQuadMesh(t)
	idx := Build(m)
	faceA, _ := m.FaceIDByName("A")
	faceB, _ := m.FaceIDByName("B")
	neighbors := idx.Neighbors(faceA)
	if len(neighbors) != 1 || neighbors[0] != faceB {
		t.Fatalf("Neighbors(A) = %v, want [%v]", neighbors, faceB)
	}
}

func TestFacePairEdgesFormsOneOpenChain(t *testing.T) {
	m := twoQuadMesh(t)
	idx := Build(m)
	faceA, _ := m.FaceIDByName("A")
	faceB, _ := m.FaceIDByName("B")
	chains := idx.Chains(faceA, faceB)
	if len(chains) != 1 {
		t.Fatalf("expected exactly one shared chain, got %d", len(chains))
	}
	c := chains[0]
	if c.Closed {
		t.Error("expected an open chain along the shared edge, got closed")
	}
	if len(c.Verts) != 2 {
		t.Errorf("expected a 2-vertex chain for a single shared edge, got %d verts", len(c.Verts))
	}
}

func TestQuantizeCollapsesNearCoincidentVertices(t *testing.T) {
	q := Quantum(10, 0)
	a := Quantize(mathx.V3{X: 1, Y: 2, Z: 3}, q)
	b := Quantize(mathx.V3{X: 1 + 1e-9, Y: 2, Z: 3}, q)
	if a != b {
		t.Errorf("expected near-coincident vertices to share a quantized key, got %v and %v", a, b)
	}
}

func TestBuildQuantizedMatchesFaceChainsQuantized(t *testing.T) {
	m := twoQuadMesh(t)
	qi := BuildQuantized(m, Quantum(2, 0))
	faceA, _ := m.FaceIDByName("A")
	faceB, _ := m.FaceIDByName("B")
	chains := qi.FaceChainsQuantized(m, faceA, faceB)
	if len(chains) != 1 {
		t.Fatalf("expected exactly one shared chain, got %d", len(chains))
	}
	if len(chains[0].A) != len(chains[0].B) {
		t.Errorf("expected parallel per-face index sequences of equal length")
	}
}
