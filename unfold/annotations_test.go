// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package unfold

import (
	"math"
	"testing"

	"github.com/brepio/corebrep/mesh"
	"github.com/brepio/corebrep/topology"
)

// bentStrip builds a planar-cylindrical-planar sandwich: a flat "top" panel,
// a quarter-cylinder "bend" face of radius 1 sharing an edge with top, and a
// flat "bottom" panel sharing the bend's other edge — the minimal shape that
// has two genuine creases to extract.
func bentStrip(t *testing.T) *mesh.TaggedMesh {
	t.Helper()
	m := mesh.NewTaggedMesh()
	r := 1.0

	// top: z=1, x in [0,2], the straight panel feeding into the bend at x=0.
	must2(m.AddTriangle("top", v3(0, 0, 1), v3(2, 0, 1), v3(2, 1, 1)))
	must2(m.AddTriangle("top", v3(0, 0, 1), v3(2, 1, 1), v3(0, 1, 1)))
	topID, _ := m.FaceIDByName("top")
	if err := m.SetFaceMeta(topID, mesh.FaceMeta{Kind: mesh.KindPlanar, SheetSide: mesh.SheetSideA, Name: "top"}); err != nil {
		t.Fatalf("SetFaceMeta top: %v", err)
	}

	// bend: quarter cylinder, axis along Y, center at (0,_,0), running from
	// theta=0 (x=0,z=1, exactly top's edge) to theta=pi/2 (x=1,z=0, exactly
	// bottom's edge). Endpoints are given as literals, not computed via
	// math.Sin/Cos, so they weld bit-exactly onto top's and bottom's edges.
	must2(m.AddTriangle("bend", v3(0, 0, 1), v3(1, 0, 0), v3(1, 1, 0)))
	must2(m.AddTriangle("bend", v3(0, 0, 1), v3(1, 1, 0), v3(0, 1, 1)))
	bendID, _ := m.FaceIDByName("bend")
	axis := v3(0, 1, 0)
	center := v3(0, 0, 0)
	if err := m.SetFaceMeta(bendID, mesh.FaceMeta{Kind: mesh.KindCylindrical, Axis: &axis, Center: &center, Radius: r, SheetSide: mesh.SheetSideA, Name: "bend"}); err != nil {
		t.Fatalf("SetFaceMeta bend: %v", err)
	}

	// bottom: z=0 plane extension from the bend's far edge at x=1, x in [1,3].
	must2(m.AddTriangle("bottom", v3(1, 0, 0), v3(3, 0, 0), v3(3, 1, 0)))
	must2(m.AddTriangle("bottom", v3(1, 0, 0), v3(3, 1, 0), v3(1, 1, 0)))
	bottomID, _ := m.FaceIDByName("bottom")
	if err := m.SetFaceMeta(bottomID, mesh.FaceMeta{Kind: mesh.KindPlanar, SheetSide: mesh.SheetSideA, Name: "bottom"}); err != nil {
		t.Fatalf("SetFaceMeta bottom: %v", err)
	}
	return m
}

func TestBuildAnnotationsProducesTwoCreasesAndACenterline(t *testing.T) {
	m := bentStrip(t)
	cls := fullInclude(m)
	cls.SurfaceType = mesh.SheetSideA

	params, err := Parametrize(m, cls)
	if err != nil {
		t.Fatalf("Parametrize: %v", err)
	}
	idx := topology.Build(m)
	placements := Layout(m, idx, params)

	anns := BuildAnnotations(m, idx, cls, params, placements)
	bendID, _ := m.FaceIDByName("bend")
	ann, ok := anns[bendID]
	if !ok {
		t.Fatal("expected an Annotation for the bend face")
	}
	if len(ann.BendEdges) != 2 {
		t.Fatalf("len(BendEdges) = %d, want 2", len(ann.BendEdges))
	}
	if !ann.ToWardA {
		t.Fatal("expected ToWardA = true (surface type is A)")
	}
	if ann.Ambiguous {
		t.Fatal("expected Ambiguous = false when the bend and its neighbors all agree on sheet_side")
	}

	e0, e1 := ann.BendEdges[0], ann.BendEdges[1]
	segLen := func(s Segment) float64 { return math.Hypot(s.P1.X-s.P0.X, s.P1.Y-s.P0.Y) }
	if segLen(e0) < 1e-6 || segLen(e1) < 1e-6 {
		t.Fatalf("expected non-degenerate bend-edge segments, got lengths %v, %v", segLen(e0), segLen(e1))
	}

	// The centerline must sit strictly between the two crease edges along
	// the perpendicular axis, not coincide with either.
	mid := func(s Segment) (float64, float64) {
		return (s.P0.X + s.P1.X) / 2, (s.P0.Y + s.P1.Y) / 2
	}
	cx, cy := mid(ann.Centerline)
	x0, y0 := mid(e0)
	x1, y1 := mid(e1)
	dCenterToE0 := math.Hypot(cx-x0, cy-y0)
	dE0ToE1 := math.Hypot(x1-x0, y1-y0)
	if dCenterToE0 >= dE0ToE1 {
		t.Fatalf("centerline midpoint (%v,%v) not between the two crease midpoints (%v,%v) and (%v,%v)", cx, cy, x0, y0, x1, y1)
	}
}

func TestBuildAnnotationsFlagsAmbiguousWhenNeighborsDisagree(t *testing.T) {
	m := bentStrip(t)
	bottomID, _ := m.FaceIDByName("bottom")
	meta, _ := m.FaceMeta(bottomID)
	meta.SheetSide = mesh.SheetSideB
	if err := m.SetFaceMeta(bottomID, meta); err != nil {
		t.Fatalf("SetFaceMeta bottom: %v", err)
	}

	cls := fullInclude(m)
	cls.SurfaceType = mesh.SheetSideA

	params, err := Parametrize(m, cls)
	if err != nil {
		t.Fatalf("Parametrize: %v", err)
	}
	idx := topology.Build(m)
	placements := Layout(m, idx, params)

	anns := BuildAnnotations(m, idx, cls, params, placements)
	bendID, _ := m.FaceIDByName("bend")
	ann, ok := anns[bendID]
	if !ok {
		t.Fatal("expected an Annotation for the bend face")
	}
	if !ann.Ambiguous {
		t.Fatal("expected Ambiguous = true when a planar neighbor's sheet_side disagrees with the bend's own")
	}
	// The bend's own tag (still A) wins over the disagreeing neighbor rather
	// than the mesh-wide classification being consulted.
	if !ann.ToWardA {
		t.Fatal("expected ToWardA to follow the bend's own sheet_side tag (A)")
	}
}

func TestBuildAnnotationsSkipsPlanarFaces(t *testing.T) {
	m := bentStrip(t)
	cls := fullInclude(m)
	params, err := Parametrize(m, cls)
	if err != nil {
		t.Fatalf("Parametrize: %v", err)
	}
	idx := topology.Build(m)
	placements := Layout(m, idx, params)

	anns := BuildAnnotations(m, idx, cls, params, placements)
	topID, _ := m.FaceIDByName("top")
	if _, ok := anns[topID]; ok {
		t.Fatal("did not expect an Annotation for a planar face")
	}
}
