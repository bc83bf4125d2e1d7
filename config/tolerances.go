// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package config collects the numeric tolerances and per-operator options
// that spec_full names as "magic numbers scattered through the pipeline"
// into named, YAML-loadable structs.
package config

// Tolerances bundles the small set of epsilons every repair and unfold
// operator shares, instead of each hand-rolling its own magic number.
type Tolerances struct {
	Weld      float64 `yaml:"weld"`      // vertex welding slop; no operator reads it (AddTriangle uses TaggedMesh.WeldTolerance).
	Area      float64 `yaml:"area"`      // ε_area: triangles below this area are degenerate.
	Collinear float64 `yaml:"collinear"` // angular slop (radians) for "nearly collinear" edges.
	Plane     float64 `yaml:"plane"`     // distance slop for "point lies in plane".
	Coplanar  float64 `yaml:"coplanar"`  // normal-dot slop for "two triangle planes coincide".
}

// DefaultTolerances returns the values named throughout spec_full §4.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Weld:      0,
		Area:      1e-9,
		Collinear: 1e-6,
		Plane:     1e-9,
		Coplanar:  1e-6,
	}
}

// Quantum returns the lattice spacing used by the quantized topology
// variant: max(1e-5, diag*1e-8, tol), per spec_full §4.2.
func Quantum(diag, tol float64) float64 {
	q := 1e-5
	if d := diag * 1e-8; d > q {
		q = d
	}
	if tol > q {
		q = tol
	}
	return q
}
