// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package interchange

import (
	"testing"

	"github.com/brepio/corebrep/mesh"
)

func TestFaceMetaFromExtrasRoundTripsCylindricalFields(t *testing.T) {
	raw := map[string]any{
		"kind":       "cylindrical",
		"radius":     2.5,
		"sheet_side": "A",
		"color":      "#ff0000",
		"name":       "bend",
		"axis":       []any{0.0, 1.0, 0.0},
		"center":     []any{1.0, 0.0, 0.0},
	}
	meta, ok := faceMetaFromExtras(raw)
	if !ok {
		t.Fatal("expected faceMetaFromExtras to succeed on a well-formed map")
	}
	if meta.Kind != mesh.KindCylindrical {
		t.Fatalf("Kind = %v, want KindCylindrical", meta.Kind)
	}
	if meta.Radius != 2.5 {
		t.Fatalf("Radius = %v, want 2.5", meta.Radius)
	}
	if meta.SheetSide != mesh.SheetSideA {
		t.Fatalf("SheetSide = %v, want SheetSideA", meta.SheetSide)
	}
	if meta.Axis == nil || meta.Axis.Y != 1 {
		t.Fatalf("Axis = %v, want (0,1,0)", meta.Axis)
	}
	if meta.Center == nil || meta.Center.X != 1 {
		t.Fatalf("Center = %v, want (1,0,0)", meta.Center)
	}
}

func TestFaceMetaFromExtrasRejectsNonMap(t *testing.T) {
	if _, ok := faceMetaFromExtras("not a map"); ok {
		t.Fatal("expected faceMetaFromExtras to reject a non-map value")
	}
}

func TestFaceMetaFromExtrasDefaultsKindOther(t *testing.T) {
	meta, ok := faceMetaFromExtras(map[string]any{"name": "panel"})
	if !ok {
		t.Fatal("expected faceMetaFromExtras to succeed")
	}
	if meta.Kind != mesh.KindOther {
		t.Fatalf("Kind = %v, want KindOther when \"kind\" is absent", meta.Kind)
	}
}

func TestVec3FromAnyRejectsWrongLength(t *testing.T) {
	if _, ok := vec3FromAny([]any{1.0, 2.0}); ok {
		t.Fatal("expected vec3FromAny to reject a 2-element array")
	}
}

func TestSortFaceIDsOrdersAscending(t *testing.T) {
	ids := []mesh.FaceID{5, 1, 3}
	sortFaceIDs(ids)
	want := []mesh.FaceID{1, 3, 5}
	for i, id := range ids {
		if id != want[i] {
			t.Fatalf("sortFaceIDs(%v) = %v, want %v", []mesh.FaceID{5, 1, 3}, ids, want)
		}
	}
}
