// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package unfold

import (
	"math"

	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
	"github.com/brepio/corebrep/sheet"
	"github.com/brepio/corebrep/topology"
)

// Segment is a straight 2D run in the flat-pattern plane.
type Segment struct {
	P0, P1 mathx.V2
}

// Annotation is one cylindrical face's bend markup: the two crease edges
// where it meets a planar neighbor, plus the centerline midway between them.
type Annotation struct {
	BendEdges  []Segment
	Centerline Segment
	ToWardA    bool
	// Ambiguous is set when the face's own sheet_side tag disagrees with a
	// planar neighbor's, per spec_full §9: rather than silently picking a
	// side, the disagreement is surfaced to the caller.
	Ambiguous bool
}

// BuildAnnotations implements spec_full §4.7: for every unrolled
// cylindrical face, extract its boundary creases against planar neighbors,
// estimate the strip's axis from its dominant edge direction, and emit the
// two crease segments plus a centerline at their midpoint offset.
func BuildAnnotations(m *mesh.TaggedMesh, idx *topology.Index, cls sheet.Classification, params map[mesh.FaceID]*FaceParam, placements map[mesh.FaceID]Placement) map[mesh.FaceID]*Annotation {
	out := make(map[mesh.FaceID]*Annotation)
	for fid, param := range params {
		meta, ok := m.FaceMeta(fid)
		if !ok || meta.Kind != mesh.KindCylindrical {
			continue
		}
		pl, ok := placements[fid]
		if !ok {
			continue
		}
		creaseEdges := creaseSegments(m, idx, fid, param, pl)
		if len(creaseEdges) == 0 {
			continue
		}
		axis, ok := dominantGlobalEdgeDirection(m, fid, param, pl)
		if !ok {
			continue
		}
		towardA, ambiguous := faceToWardA(m, idx, fid, meta, cls)
		ann := buildAnnotation(creaseEdges, axis, towardA, ambiguous)
		out[fid] = ann
	}
	return out
}

// creaseSegments collects, for every planar neighbor of fid, the shared
// boundary chain's two global endpoints as one Segment each.
func creaseSegments(m *mesh.TaggedMesh, idx *topology.Index, fid mesh.FaceID, param *FaceParam, pl Placement) []Segment {
	var segs []Segment
	for _, nb := range idx.Neighbors(fid) {
		meta, ok := m.FaceMeta(nb)
		if !ok || meta.Kind != mesh.KindPlanar {
			continue
		}
		for _, chain := range idx.Chains(fid, nb) {
			if len(chain.Verts) < 2 {
				continue
			}
			v0, v1 := chain.Verts[0], chain.Verts[len(chain.Verts)-1]
			c0, ok0 := param.Coords[v0]
			c1, ok1 := param.Coords[v1]
			if !ok0 || !ok1 {
				continue
			}
			segs = append(segs, Segment{P0: pl.Transform.Apply(c0), P1: pl.Transform.Apply(c1)})
		}
	}
	return segs
}

// dominantGlobalEdgeDirection picks the longest boundary edge of fid (an
// edge used by exactly one of fid's triangles, so interior diagonals are
// skipped) in global flat-pattern space, mirroring param.go's
// longestEdgeDirection but operating on the already-placed 2D coordinates
// instead of 3D ones.
func dominantGlobalEdgeDirection(m *mesh.TaggedMesh, fid mesh.FaceID, param *FaceParam, pl Placement) (mathx.V2, bool) {
	triangles := m.Triangles()
	faces := m.TriFaces()

	uses := make(map[[2]int]int)
	for t, tri := range triangles {
		if faces[t] != fid {
			continue
		}
		for i := 0; i < 3; i++ {
			a, b := tri[i], tri[(i+1)%3]
			uses[[2]int{min(a, b), max(a, b)}]++
		}
	}

	bestLen := -1.0
	var best mathx.V2
	for t, tri := range triangles {
		if faces[t] != fid {
			continue
		}
		for i := 0; i < 3; i++ {
			a, b := tri[i], tri[(i+1)%3]
			if uses[[2]int{min(a, b), max(a, b)}] > 1 {
				continue
			}
			ca, okA := param.Coords[a]
			cb, okB := param.Coords[b]
			if !okA || !okB {
				continue
			}
			pa := pl.Transform.Apply(ca)
			pb := pl.Transform.Apply(cb)
			dx, dy := pb.X-pa.X, pb.Y-pa.Y
			l := math.Hypot(dx, dy)
			if l > bestLen {
				bestLen, best = l, mathx.V2{X: dx, Y: dy}
			}
		}
	}
	if bestLen <= 0 {
		return mathx.V2{}, false
	}
	l := best.Len()
	return mathx.V2{X: best.X / l, Y: best.Y / l}, true
}

// faceToWardA resolves spec_full §4.7's "outside normal points to the A
// side" tag per cylindrical face rather than once for the whole mesh: the
// face's own sheet_side tag wins, falling back to the mesh-wide
// classification only when the face carries none. It also reports whether
// that tag disagrees with any adjoining planar neighbor's own sheet_side,
// the ambiguous case spec_full §9 requires flagging instead of silently
// resolving.
func faceToWardA(m *mesh.TaggedMesh, idx *topology.Index, fid mesh.FaceID, meta mesh.FaceMeta, cls sheet.Classification) (towardA, ambiguous bool) {
	own := meta.SheetSide
	if own == mesh.SheetSideNone {
		own = cls.SurfaceType
	}
	for _, nb := range idx.Neighbors(fid) {
		nbMeta, ok := m.FaceMeta(nb)
		if !ok || nbMeta.Kind != mesh.KindPlanar || nbMeta.SheetSide == mesh.SheetSideNone {
			continue
		}
		if nbMeta.SheetSide != own {
			ambiguous = true
		}
	}
	return own == mesh.SheetSideA, ambiguous
}

// buildAnnotation projects every crease endpoint onto axis/perpendicular
// coordinates, splits them into the two extreme-offset groups (the two
// creases), and emits bend-edge segments plus a midway centerline.
func buildAnnotation(creaseEdges []Segment, axis mathx.V2, towardA, ambiguous bool) *Annotation {
	perp := mathx.V2{X: -axis.Y, Y: axis.X}

	var points []mathx.V2
	for _, s := range creaseEdges {
		points = append(points, s.P0, s.P1)
	}
	origin := points[0]

	type proj struct{ a, b float64 }
	projs := make([]proj, len(points))
	minB, maxB := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		rel := mathx.V2{X: p.X - origin.X, Y: p.Y - origin.Y}
		a := rel.X*axis.X + rel.Y*axis.Y
		b := rel.X*perp.X + rel.Y*perp.Y
		projs[i] = proj{a, b}
		minB, maxB = math.Min(minB, b), math.Max(maxB, b)
	}
	mid := (minB + maxB) / 2

	segmentAt := func(targetB float64, include func(b float64) bool) Segment {
		aMin, aMax := math.Inf(1), math.Inf(-1)
		for _, pr := range projs {
			if include(pr.b) {
				aMin, aMax = math.Min(aMin, pr.a), math.Max(aMax, pr.a)
			}
		}
		if aMin > aMax {
			aMin, aMax = 0, 0
		}
		p0 := mathx.V2{X: origin.X + axis.X*aMin + perp.X*targetB, Y: origin.Y + axis.Y*aMin + perp.Y*targetB}
		p1 := mathx.V2{X: origin.X + axis.X*aMax + perp.X*targetB, Y: origin.Y + axis.Y*aMax + perp.Y*targetB}
		return Segment{P0: p0, P1: p1}
	}

	edge0 := segmentAt(minB, func(b float64) bool { return b <= mid })
	edge1 := segmentAt(maxB, func(b float64) bool { return b > mid })
	centerline := segmentAt(mid, func(b float64) bool { return true })

	return &Annotation{
		BendEdges:  []Segment{edge0, edge1},
		Centerline: centerline,
		ToWardA:    towardA,
		Ambiguous:  ambiguous,
	}
}
