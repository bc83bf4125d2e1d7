// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package interchange

import (
	"strings"
	"testing"

	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
	"github.com/brepio/corebrep/unfold"
)

const twoFaceOBJ = `
o top
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 1 2 3
f 1 3 4
o bottom
v 0 0 0
v 1 0 0
v 1 1 0
f 5 6 7
`

func TestLoadOBJTagsTrianglesByGroup(t *testing.T) {
	m, err := LoadOBJ(strings.NewReader(twoFaceOBJ))
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if m.NumTriangles() != 3 {
		t.Fatalf("NumTriangles() = %d, want 3", m.NumTriangles())
	}
	topID, ok := m.FaceIDByName("top")
	if !ok {
		t.Fatal("expected a \"top\" face")
	}
	bottomID, ok := m.FaceIDByName("bottom")
	if !ok {
		t.Fatal("expected a \"bottom\" face")
	}
	if topID == bottomID {
		t.Fatal("top and bottom should be distinct faces")
	}

	faces := m.TriFaces()
	topCount := 0
	for _, fid := range faces {
		if fid == topID {
			topCount++
		}
	}
	if topCount != 2 {
		t.Fatalf("top face has %d triangles, want 2", topCount)
	}
}

func TestLoadOBJRejectsEmptyFile(t *testing.T) {
	if _, err := LoadOBJ(strings.NewReader("# just a comment\n")); err == nil {
		t.Fatal("expected an error for a file with no triangles")
	}
}

func TestSaveOBJRoundTripsThroughLoadOBJ(t *testing.T) {
	m := mesh.NewTaggedMesh()
	must(m.AddTriangle("panel", mathx.V3{X: 0, Y: 0, Z: 0}, mathx.V3{X: 2, Y: 0, Z: 0}, mathx.V3{X: 2, Y: 1, Z: 0}))
	must(m.AddTriangle("panel", mathx.V3{X: 0, Y: 0, Z: 0}, mathx.V3{X: 2, Y: 1, Z: 0}, mathx.V3{X: 0, Y: 1, Z: 0}))

	var buf strings.Builder
	if err := SaveOBJ(m, &buf); err != nil {
		t.Fatalf("SaveOBJ: %v", err)
	}

	reloaded, err := LoadOBJ(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("LoadOBJ(SaveOBJ output): %v", err)
	}
	if reloaded.NumTriangles() != m.NumTriangles() {
		t.Fatalf("round-tripped triangle count = %d, want %d", reloaded.NumTriangles(), m.NumTriangles())
	}
	if reloaded.NumVertices() != m.NumVertices() {
		t.Fatalf("round-tripped vertex count = %d, want %d (welding should be preserved)", reloaded.NumVertices(), m.NumVertices())
	}
}

func TestSaveFlatPatternOBJGroupsByFaceID(t *testing.T) {
	fp := &unfold.FlatPattern{
		Positions: []mathx.V3{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1},
			{X: 2, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1},
		},
		Triangles: [][3]int{{0, 1, 2}, {3, 4, 5}},
		FaceIDs:   []mesh.FaceID{7, 9},
	}
	var buf strings.Builder
	if err := SaveFlatPatternOBJ(fp, &buf); err != nil {
		t.Fatalf("SaveFlatPatternOBJ: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "o face_7") || !strings.Contains(out, "o face_9") {
		t.Fatalf("expected both face groups in output, got:\n%s", out)
	}
	if strings.Count(out, "f ") != 2 {
		t.Fatalf("expected 2 face lines, got output:\n%s", out)
	}
}

func must(_ int, err error) {
	if err != nil {
		panic(err)
	}
}
