// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/brepio/corebrep/errs"
)

// InternalFallback selects the alternative strategy remove_internal_triangles
// falls back to when its primary strategy fails (spec_full §4.3.8).
type InternalFallback string

const (
	FallbackWinding  InternalFallback = "winding"
	FallbackRaycast  InternalFallback = "raycast"
)

// InternalStrategy selects one of the three remove_internal_triangles
// strategies from spec_full §4.3.8.
type InternalStrategy string

const (
	StrategyManifold InternalStrategy = "manifold"
	StrategyRaycast  InternalStrategy = "raycast"
	StrategyWinding  InternalStrategy = "winding"
)

// Options is the full per-call configuration table from spec_full §6. Every
// operator reads only the fields it needs; Load starts from Default() and
// overwrites only the keys the document sets, so a field left out of the
// document keeps its default while an explicit zero stays zero.
type Options struct {
	// remove_small_islands
	MaxTriangles    int  `yaml:"max_triangles"`
	RemoveInternal  bool `yaml:"remove_internal"`
	RemoveExternal  bool `yaml:"remove_external"`

	// remove_opposite_single_edge_faces
	NormalDotThreshold float64 `yaml:"normal_dot_threshold"`

	// tiny-triangle edge flip
	FlipAreaThreshold float64 `yaml:"flip_area_threshold"`
	FlipMaxIterations int     `yaml:"flip_max_iterations"`

	// uniform-length remesh
	MaxEdgeLength      float64 `yaml:"max_edge_length"`
	RemeshMaxIterations int    `yaml:"remesh_max_iterations"`

	// collapse tiny triangles
	LengthThreshold float64 `yaml:"length_threshold"`

	// remove_internal_triangles
	InternalStrategy InternalStrategy `yaml:"internal_strategy"`
	Fallback         InternalFallback `yaml:"fallback"`

	// winding-number / raycast classifier knobs
	OffsetScale       float64 `yaml:"offset_scale"`
	CrossingTolerance float64 `yaml:"crossing_tolerance"`

	// merge_tiny_faces
	MaxArea float64 `yaml:"max_area"`

	// unfolder / sheet metal
	NeutralFactor float64 `yaml:"neutral_factor"`
	Thickness     float64 `yaml:"thickness"`
	BendRadius    float64 `yaml:"bend_radius"`

	// topology quantization
	EdgeTolerance  float64 `yaml:"edge_tolerance"`
	MergeTolerance float64 `yaml:"merge_tolerance"`

	StrictSurfaceType bool `yaml:"strict_surface_type"`

	Debug                bool `yaml:"debug"`
	DebugPlacementSteps  bool `yaml:"debug_placement_steps"`

	Tolerances Tolerances `yaml:"tolerances"`

	// soft cap on triangle-count growth for operators that may subdivide
	// (remesh, self-intersection split); spec_full §5.
	MaxTriangleGrowthFactor float64 `yaml:"max_triangle_growth_factor"`
}

// Default returns the numeric defaults named throughout spec_full §4 and §6.
func Default() Options {
	return Options{
		MaxTriangles:            30,
		RemoveInternal:          true,
		RemoveExternal:          true,
		NormalDotThreshold:      -0.95,
		FlipAreaThreshold:       1e-6,
		FlipMaxIterations:       20,
		MaxEdgeLength:           1.0,
		RemeshMaxIterations:     8,
		LengthThreshold:         1e-4,
		InternalStrategy:        StrategyManifold,
		Fallback:                FallbackWinding,
		OffsetScale:             1e-4,
		CrossingTolerance:       1e-9,
		MaxArea:                 1e-6,
		NeutralFactor:           0.5,
		EdgeTolerance:           1e-5,
		MergeTolerance:          1e-5,
		StrictSurfaceType:       false,
		Tolerances:              DefaultTolerances(),
		MaxTriangleGrowthFactor: 10,
	}
}

// Load decodes a YAML document overriding any subset of Default()'s fields.
// Unknown keys are rejected (strict decode) and surfaced as an
// errs.ErrInvalidInput so a caller's config typo fails loudly.
func Load(r io.Reader) (Options, error) {
	opts := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, errs.InvalidInput("config.Load", "%s", err)
	}
	return opts, nil
}

// Validate checks the global options before any operator runs:
// max_triangles >= 0, neutral_factor in [0,1], a positive
// max_triangle_growth_factor and a known internal_strategy. Thickness is not
// checked here (sheet.Classify resolves a positive one or returns an error),
// and cylindrical axes are per-face metadata the sheet code normalizes itself.
func (o Options) Validate() error {
	if o.MaxTriangles < 0 {
		return errs.InvalidInput("config.Validate", "max_triangles must be >= 0, got %d", o.MaxTriangles)
	}
	if o.NeutralFactor < 0 || o.NeutralFactor > 1 {
		return errs.InvalidInput("config.Validate", "neutral_factor must be in [0,1], got %v", o.NeutralFactor)
	}
	if o.MaxTriangleGrowthFactor <= 0 {
		return errs.InvalidInput("config.Validate", "max_triangle_growth_factor must be > 0, got %v", o.MaxTriangleGrowthFactor)
	}
	switch o.InternalStrategy {
	case StrategyManifold, StrategyRaycast, StrategyWinding, "":
	default:
		return errs.InvalidInput("config.Validate", "unknown internal_strategy %q", o.InternalStrategy)
	}
	return nil
}

// String renders Options as a one-line summary, useful in debug logs.
func (o Options) String() string {
	return fmt.Sprintf("Options{maxTriangles=%d thickness=%v neutralFactor=%v strategy=%s}",
		o.MaxTriangles, o.Thickness, o.NeutralFactor, o.InternalStrategy)
}
