// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package mesh

import "github.com/brepio/corebrep/mathx"

// FaceID uniquely identifies a face (a maximal connected set of triangles
// sharing a semantic tag) within a TaggedMesh.
type FaceID uint32

// Kind classifies a face's geometry for the sheet-metal classifier and the
// unfolder: planar faces get a plane parametrization, cylindrical faces get
// an axis unroll, "other" faces are carried through repair but are not
// flattened.
type Kind uint8

const (
	KindOther Kind = iota
	KindPlanar
	KindCylindrical
)

func (k Kind) String() string {
	switch k {
	case KindPlanar:
		return "planar"
	case KindCylindrical:
		return "cylindrical"
	default:
		return "other"
	}
}

// SheetSide names one of the two nominal faces of a sheet-metal panel.
type SheetSide uint8

const (
	SheetSideNone SheetSide = iota
	SheetSideA
	SheetSideB
)

func (s SheetSide) String() string {
	switch s {
	case SheetSideA:
		return "A"
	case SheetSideB:
		return "B"
	default:
		return ""
	}
}

// FaceMeta is the semantic metadata spec_full attaches to a face: its kind,
// optional cylindrical parameters, optional sheet-metal side, and display
// attributes carried through repair untouched.
type FaceMeta struct {
	Kind Kind

	// Cylindrical-only. Axis must be unit length; Radius must be > 0
	// (invariant I6). Validated by Validate(), not enforced at assignment
	// time so callers can build metadata incrementally.
	Axis   *mathx.V3
	Center *mathx.V3
	Radius float64

	SheetSide SheetSide

	Color string // hex24, e.g. "#a0a0a0"; empty if unset.
	Name  string // human-readable display name; distinct from the face-id's
	// registered lookup name in the TaggedMesh's face-name bimap.
}

// Validate enforces invariant I6 for cylindrical faces: a unit axis and a
// strictly positive radius. Returns nil for any other kind.
func (m FaceMeta) Validate() error {
	if m.Kind != KindCylindrical {
		return nil
	}
	if m.Axis == nil {
		return errMissingAxis
	}
	if !mathx.Aeq(m.Axis.Len(), 1) {
		return errNonUnitAxis
	}
	if m.Radius <= 0 {
		return errNonPositiveRadius
	}
	return nil
}
