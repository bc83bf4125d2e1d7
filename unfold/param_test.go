// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package unfold

import (
	"math"
	"testing"

	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
	"github.com/brepio/corebrep/sheet"
)

func v3(x, y, z float64) mathx.V3 { return mathx.V3{X: x, Y: y, Z: z} }

func must2(_ int, err error) {
	if err != nil {
		panic(err)
	}
}

// planarQuad builds a single 2x1 rectangular face in the z=0 plane, split
// into two triangles.
func planarQuad(t *testing.T) (*mesh.TaggedMesh, mesh.FaceID) {
	t.Helper()
	m := mesh.NewTaggedMesh()
	must2(m.AddTriangle("panel", v3(0, 0, 0), v3(2, 0, 0), v3(2, 1, 0)))
	must2(m.AddTriangle("panel", v3(0, 0, 0), v3(2, 1, 0), v3(0, 1, 0)))
	id, _ := m.FaceIDByName("panel")
	if err := m.SetFaceMeta(id, mesh.FaceMeta{Kind: mesh.KindPlanar, SheetSide: mesh.SheetSideA, Name: "panel"}); err != nil {
		t.Fatalf("SetFaceMeta: %v", err)
	}
	return m, id
}

func fullInclude(m *mesh.TaggedMesh) sheet.Classification {
	include := make(map[mesh.FaceID]bool)
	for _, id := range m.FaceIDs() {
		include[id] = true
	}
	return sheet.Classification{Thickness: 1, NeutralFactor: 0.5, IncludeSet: include}
}

func TestParametrizePlanarPreservesEdgeLengths(t *testing.T) {
	m, id := planarQuad(t)
	cls := fullInclude(m)

	params, err := Parametrize(m, cls)
	if err != nil {
		t.Fatalf("Parametrize: %v", err)
	}
	p, ok := params[id]
	if !ok {
		t.Fatal("expected a FaceParam for the panel face")
	}
	if len(p.Coords) != 4 {
		t.Fatalf("len(Coords) = %d, want 4 (one per distinct corner)", len(p.Coords))
	}

	// The longest edge (length 2, along global X) becomes the u axis, so two
	// corners 2 apart in X should land exactly 2 apart in the 2D param.
	positions := m.Positions()
	triangles := m.Triangles()
	var idxA, idxB int = -1, -1
	for _, tri := range triangles {
		for _, vi := range tri {
			if positions[vi] == v3(0, 0, 0) {
				idxA = vi
			}
			if positions[vi] == v3(2, 0, 0) {
				idxB = vi
			}
		}
	}
	if idxA < 0 || idxB < 0 {
		t.Fatal("could not locate corner vertices")
	}
	ca, cb := p.Coords[idxA], p.Coords[idxB]
	dist := math.Hypot(ca.X-cb.X, ca.Y-cb.Y)
	if math.Abs(dist-2) > 1e-9 {
		t.Fatalf("2D distance between corners = %v, want 2 (edge length preserved)", dist)
	}
}

// cylWedge builds a cylindrical face of radius 2 around the Y axis spanning
// 320 degrees, split into triangles that cross the +-pi branch cut of raw
// atan2, specifically to exercise the angle-unwrap BFS.
func cylWedge(t *testing.T) (*mesh.TaggedMesh, mesh.FaceID) {
	t.Helper()
	m := mesh.NewTaggedMesh()
	r := 2.0
	// Angular stations spanning 320 degrees around the Y axis, deliberately
	// crossing the atan2 branch cut at +-pi, plus their y=1 counterparts,
	// fanned as triangles.
	angles := []float64{
		-160 * math.Pi / 180, -120 * math.Pi / 180, -80 * math.Pi / 180,
		-40 * math.Pi / 180, 0, 40 * math.Pi / 180, 80 * math.Pi / 180,
		120 * math.Pi / 180, 160 * math.Pi / 180,
	}
	pt := func(theta, y float64) mathx.V3 {
		return v3(r*math.Cos(theta), y, r*math.Sin(theta))
	}
	for i := 0; i < len(angles)-1; i++ {
		a0, a1 := angles[i], angles[i+1]
		must2(m.AddTriangle("bend", pt(a0, 0), pt(a1, 0), pt(a1, 1)))
		must2(m.AddTriangle("bend", pt(a0, 0), pt(a1, 1), pt(a0, 1)))
	}
	id, _ := m.FaceIDByName("bend")
	axis := v3(0, 1, 0)
	center := v3(0, 0, 0)
	if err := m.SetFaceMeta(id, mesh.FaceMeta{Kind: mesh.KindCylindrical, Axis: &axis, Center: &center, Radius: r, SheetSide: mesh.SheetSideA, Name: "bend"}); err != nil {
		t.Fatalf("SetFaceMeta: %v", err)
	}
	return m, id
}

func TestParametrizeCylindricalUnwrapsAcrossSeam(t *testing.T) {
	m, id := cylWedge(t)
	cls := fullInclude(m)
	cls.SurfaceIsInside = true

	params, err := Parametrize(m, cls)
	if err != nil {
		t.Fatalf("Parametrize: %v", err)
	}
	p, ok := params[id]
	if !ok {
		t.Fatal("expected a FaceParam for the bend face")
	}

	positions := m.Positions()
	triangles := m.Triangles()
	thetaOf := func(want mathx.V3) float64 {
		for _, tri := range triangles {
			for _, vi := range tri {
				if aeq(positions[vi], want) {
					return p.Coords[vi].Y
				}
			}
		}
		t.Fatalf("vertex %v not found", want)
		return 0
	}

	r := 2.0
	neutral := r + 0.5*cls.Thickness // inside surface: R + k*thickness.
	aStart, aEnd := -160*math.Pi/180, 160*math.Pi/180
	thetaNeg := thetaOf(v3(r*math.Cos(aStart), 0, r*math.Sin(aStart)))
	thetaPos := thetaOf(v3(r*math.Cos(aEnd), 0, r*math.Sin(aEnd)))

	// Unwrapped and scaled by the neutral radius, the total sweep across the
	// full 320 degree span (which crosses the +-pi branch cut raw atan2
	// would wrap at) must come out continuous, not folded back into a
	// [-pi,pi]-sized arc.
	sweep := math.Abs(thetaPos - thetaNeg)
	want := neutral * (aEnd - aStart)
	if math.Abs(sweep-want) > 1e-6 {
		t.Fatalf("unwrapped theta sweep = %v, want %v (continuous across the branch cut)", sweep, want)
	}
}

func aeq(a, b mathx.V3) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}
