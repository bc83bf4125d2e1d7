// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"testing"

	"github.com/brepio/corebrep/config"
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// twoTouchingBoxes builds spec_full's scenario S2: two unit cubes sharing a
// full face at x=1, naively concatenated (24 triangles, 4 of which are the
// coincident internal face shared by both boxes).
func twoTouchingBoxes(t *testing.T) *mesh.TaggedMesh {
	t.Helper()
	m := unitCube()
	second := unitCube()
	positions := second.Positions()
	for tIdx, tri := range second.Triangles() {
		fname, _ := second.FaceName(second.FaceOf(tIdx))
		a := translateX(positions[tri[0]], 1)
		b := translateX(positions[tri[1]], 1)
		c := translateX(positions[tri[2]], 1)
		if _, err := m.AddTriangle(fname+"_2", a, b, c); err != nil {
			t.Fatalf("AddTriangle: %v", err)
		}
	}
	return m
}

func translateX(p mathx.V3, dx float64) mathx.V3 {
	p.X += dx
	return p
}

func TestRemoveInternalTrianglesManifoldStrategyDropsCoincidentFaces(t *testing.T) {
	m := twoTouchingBoxes(t)
	if m.NumTriangles() != 24 {
		t.Fatalf("NumTriangles = %d, want 24 before repair", m.NumTriangles())
	}

	opts := config.Default()
	opts.InternalStrategy = config.StrategyManifold
	n, err := RemoveInternalTriangles(m, opts, nil)
	if err != nil {
		t.Fatalf("RemoveInternalTriangles: %v", err)
	}
	if n != 4 {
		t.Fatalf("removed = %d, want 4 (the two coincident internal faces)", n)
	}
	if m.NumTriangles() != 20 {
		t.Fatalf("NumTriangles = %d, want 20", m.NumTriangles())
	}
}

func TestRemoveInternalTrianglesWindingStrategyKeepsClosedShell(t *testing.T) {
	m := unitCube()
	opts := config.Default()
	n, err := removeInternalWinding(m, opts.OffsetScale)
	if err != nil {
		t.Fatalf("removeInternalWinding: %v", err)
	}
	if n != 0 {
		t.Fatalf("removed = %d, want 0 on a clean closed cube", n)
	}
	if m.NumTriangles() != 12 {
		t.Fatalf("NumTriangles = %d, want 12", m.NumTriangles())
	}
}

func TestRemoveInternalTrianglesRaycastStrategyKeepsClosedShell(t *testing.T) {
	m := unitCube()
	n, err := removeInternalRaycast(m, 1e-9)
	if err != nil {
		t.Fatalf("removeInternalRaycast: %v", err)
	}
	if n != 0 {
		t.Fatalf("removed = %d, want 0 on a clean closed cube", n)
	}
}
