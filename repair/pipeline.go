// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"github.com/brepio/corebrep/config"
	"github.com/brepio/corebrep/errs"
	"github.com/brepio/corebrep/external"
	"github.com/brepio/corebrep/mesh"
)

// Pipeline is the fluent orchestrator of spec_full §4.8: each step mutates
// the mesh in place and records its change count, in the style of the
// teacher's InitData(...).InitFaces(...) method-chaining builders. A
// Pipeline is single-use; call Run to execute the accumulated steps in
// order and stop at the first error.
type Pipeline struct {
	mesh   *mesh.TaggedMesh
	opts   config.Options
	kernel external.Kernel
	cancel *Token

	steps   []step
	changed []StepResult
}

type step struct {
	name string
	run  func(*mesh.TaggedMesh) (int, error)
}

// StepResult records one orchestrator step's name and the number of
// triangles/faces it changed.
type StepResult struct {
	Name    string
	Changed int
}

// NewPipeline returns an orchestrator bound to m, using opts for every
// step's tunables and kernel for steps that call through to the external
// boolean engine (nil uses the pure-Go fallback). cancel may be nil.
func NewPipeline(m *mesh.TaggedMesh, opts config.Options, kernel external.Kernel, cancel *Token) *Pipeline {
	return &Pipeline{mesh: m, opts: opts, kernel: kernel, cancel: cancel}
}

func (p *Pipeline) add(name string, run func(*mesh.TaggedMesh) (int, error)) *Pipeline {
	p.steps = append(p.steps, step{name, run})
	return p
}

// RemoveDegenerateTriangles is spec.md §4.8 step 1.
func (p *Pipeline) RemoveDegenerateTriangles() *Pipeline {
	return p.add("remove_degenerate_triangles", func(m *mesh.TaggedMesh) (int, error) {
		return RemoveDegenerateTriangles(m, p.opts.Tolerances)
	})
}

// CollapseTinyTriangles is spec.md §4.8 step 2.
func (p *Pipeline) CollapseTinyTriangles() *Pipeline {
	return p.add("collapse_tiny_triangles", func(m *mesh.TaggedMesh) (int, error) {
		return CollapseTinyTriangles(m, p.opts.LengthThreshold, p.kernel)
	})
}

// SplitSelfIntersectingTriangles is spec.md §4.8 step 3.
func (p *Pipeline) SplitSelfIntersectingTriangles(maxIterations int) *Pipeline {
	return p.add("split_self_intersecting_triangles", func(m *mesh.TaggedMesh) (int, error) {
		return SplitSelfIntersectingTriangles(m, p.opts.Tolerances, maxIterations, p.cancel)
	})
}

// RemoveInternalTriangles is spec.md §4.8 step 4, including the
// manifold-strategy-falls-back-to-winding behavior the pipeline note names.
func (p *Pipeline) RemoveInternalTriangles() *Pipeline {
	return p.add("remove_internal_triangles", func(m *mesh.TaggedMesh) (int, error) {
		return RemoveInternalTriangles(m, p.opts, p.kernel)
	})
}

// FixTriangleWindingsByAdjacency is spec.md §4.8 steps 5 and 9.
func (p *Pipeline) FixTriangleWindingsByAdjacency() *Pipeline {
	return p.add("fix_triangle_windings_by_adjacency", FixTriangleWindingsByAdjacency)
}

// RemoveSmallIslands is spec.md §4.8 step 6.
func (p *Pipeline) RemoveSmallIslands() *Pipeline {
	return p.add("remove_small_islands", func(m *mesh.TaggedMesh) (int, error) {
		return RemoveSmallIslands(m, islandOptionsFrom(p.opts))
	})
}

// RemoveTinyBoundaryTriangles is spec.md §4.8 step 7: the tiny-triangle
// edge-flip operator, run at the face-boundary scale named by the
// orchestrator step (spec.md §4.3.3).
func (p *Pipeline) RemoveTinyBoundaryTriangles() *Pipeline {
	return p.add("remove_tiny_boundary_triangles", func(m *mesh.TaggedMesh) (int, error) {
		return FlipTinyTriangleEdges(m, p.opts.FlipAreaThreshold, p.opts.FlipMaxIterations, p.cancel)
	})
}

// MergeTinyFaces is spec.md §4.8 step 8.
func (p *Pipeline) MergeTinyFaces() *Pipeline {
	return p.add("merge_tiny_faces", func(m *mesh.TaggedMesh) (int, error) {
		return MergeTinyFaces(m, p.opts.MaxArea)
	})
}

// RemoveOppositeSingleEdgeFaces is spec.md §4.3.2, not named in the default
// §4.8 sequence but available for a caller assembling its own pipeline.
func (p *Pipeline) RemoveOppositeSingleEdgeFaces() *Pipeline {
	return p.add("remove_opposite_single_edge_faces", func(m *mesh.TaggedMesh) (int, error) {
		return RemoveOppositeSingleEdgeFaces(m, p.opts.NormalDotThreshold)
	})
}

// RemeshUniformLength is spec.md §4.3.4, available for custom pipelines.
func (p *Pipeline) RemeshUniformLength() *Pipeline {
	return p.add("remesh_uniform_length", func(m *mesh.TaggedMesh) (int, error) {
		return RemeshUniformLength(m, p.opts.MaxEdgeLength, p.opts.RemeshMaxIterations, p.cancel)
	})
}

// Default assembles spec.md §4.8's common pipeline: the nine steps in the
// order the spec lists, with a final winding fix-up.
func (p *Pipeline) Default(selfIntersectMaxIterations int) *Pipeline {
	return p.
		RemoveDegenerateTriangles().
		CollapseTinyTriangles().
		SplitSelfIntersectingTriangles(selfIntersectMaxIterations).
		RemoveInternalTriangles().
		FixTriangleWindingsByAdjacency().
		RemoveSmallIslands().
		RemoveTinyBoundaryTriangles().
		MergeTinyFaces().
		FixTriangleWindingsByAdjacency()
}

// Run executes every accumulated step in order against the bound mesh,
// stopping at the first error. On success it returns one StepResult per
// step describing how many triangles/faces it changed; a triangle-growth
// guard rejects the run (spec_full §5's soft cap) if the mesh ever exceeds
// MaxTriangleGrowthFactor times its starting size.
func (p *Pipeline) Run() ([]StepResult, error) {
	startCount := p.mesh.NumTriangles()
	growthFactor := p.opts.MaxTriangleGrowthFactor
	if growthFactor <= 0 {
		growthFactor = 10
	}
	limit := int(float64(startCount)*growthFactor) + 64

	results := make([]StepResult, 0, len(p.steps))
	for _, s := range p.steps {
		if p.cancel.Cancelled() {
			break
		}
		n, err := s.run(p.mesh)
		if err != nil {
			return results, err
		}
		results = append(results, StepResult{Name: s.name, Changed: n})
		if p.mesh.NumTriangles() > limit {
			return results, errs.ExceededBudget("repair.Pipeline.Run",
				"step %q grew mesh to %d triangles, exceeding %vx starting %d",
				s.name, p.mesh.NumTriangles(), growthFactor, startCount)
		}
	}
	p.changed = results
	return results, nil
}
