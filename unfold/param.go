// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package unfold implements the flat-pattern unfolder (spec_full §4.6): per
// face 2D parametrization, a BFS placement pass that assembles those local
// frames into a single non-overlapping layout, and an annotation builder
// that extracts bend centerlines/edges from the result (spec_full §4.7).
package unfold

import (
	"math"
	"sort"

	"github.com/brepio/corebrep/errs"
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
	"github.com/brepio/corebrep/sheet"
)

// polar is one vertex's raw cylindrical-unroll coordinate pair before angle
// unwrapping: axial position and raw (branch-cut-prone) angle.
type polar struct {
	t     float64
	theta float64
}

// FaceParam is one face's local 2D parametrization: coords[v] is the
// face-local (u,v) position of mesh vertex index v, valid only for vertices
// that belong to a triangle of this face.
type FaceParam struct {
	ID     mesh.FaceID
	Coords map[int]mathx.V2
}

// Parametrize builds a FaceParam for every face in cls.IncludeSet, using the
// planar projection for KindPlanar faces and the axis unroll for
// KindCylindrical faces (spec_full §4.6 "Per-face parametrization").
func Parametrize(m *mesh.TaggedMesh, cls sheet.Classification) (map[mesh.FaceID]*FaceParam, error) {
	triangles := m.Triangles()
	faces := m.TriFaces()
	byFace := make(map[mesh.FaceID][]int)
	for t := range triangles {
		fid := faces[t]
		if cls.IncludeSet[fid] {
			byFace[fid] = append(byFace[fid], t)
		}
	}

	params := make(map[mesh.FaceID]*FaceParam, len(byFace))
	for fid, tris := range byFace {
		meta, ok := m.FaceMeta(fid)
		if !ok {
			continue
		}
		var p *FaceParam
		var err error
		switch meta.Kind {
		case mesh.KindCylindrical:
			p, err = parametrizeCylindrical(m, fid, tris, meta, cls)
		default:
			p, err = parametrizePlanar(m, fid, tris)
		}
		if err != nil {
			return nil, err
		}
		params[fid] = p
	}
	return params, nil
}

// parametrizePlanar implements spec_full §4.6's planar case: area-weighted
// normal and centroid, u along the longest edge's in-plane projection, v
// completing a right-handed in-plane basis.
func parametrizePlanar(m *mesh.TaggedMesh, fid mesh.FaceID, tris []int) (*FaceParam, error) {
	positions := m.Positions()
	triangles := m.Triangles()

	var normal, centroidSum mathx.V3
	var areaSum float64
	for _, t := range tris {
		tri := triangles[t]
		p0, p1, p2 := positions[tri[0]], positions[tri[1]], positions[tri[2]]
		n := mathx.TriangleNormal(p0, p1, p2)
		area := 0.5 * n.Len()
		normal = mathx.AddV3(normal, n)
		centroidSum = mathx.AddV3(centroidSum, mathx.ScaleV3(mathx.TriangleCentroid(p0, p1, p2), area))
		areaSum += area
	}
	if areaSum == 0 {
		return nil, errs.DegenerateGeometry("unfold.parametrizePlanar", "face %d has zero total area", fid)
	}
	n := mathx.UnitV3(normal)
	origin := mathx.ScaleV3(centroidSum, 1/areaSum)

	u, ok := longestEdgeDirection(positions, triangles, tris, n)
	if !ok {
		u = canonicalPerpendicular(n)
	}
	vAxis := mathx.CrossV3(n, u)

	coords := make(map[int]mathx.V2)
	for _, t := range tris {
		for _, vi := range triangles[t] {
			if _, seen := coords[vi]; seen {
				continue
			}
			d := mathx.SubV3(positions[vi], origin)
			coords[vi] = mathx.V2{X: mathx.DotV3(d, u), Y: mathx.DotV3(d, vAxis)}
		}
	}
	return &FaceParam{ID: fid, Coords: coords}, nil
}

func longestEdgeDirection(positions []mathx.V3, triangles [][3]int, tris []int, n mathx.V3) (mathx.V3, bool) {
	var best mathx.V3
	bestLen := -1.0
	for _, t := range tris {
		tri := triangles[t]
		for i := 0; i < 3; i++ {
			a, b := positions[tri[i]], positions[tri[(i+1)%3]]
			e := mathx.SubV3(b, a)
			l := e.Len()
			if l > bestLen {
				bestLen, best = l, e
			}
		}
	}
	if bestLen <= 0 {
		return mathx.V3{}, false
	}
	// Project the edge into the plane perpendicular to n, then normalize.
	proj := mathx.SubV3(best, mathx.ScaleV3(n, mathx.DotV3(best, n)))
	if proj.LenSqr() == 0 {
		return mathx.V3{}, false
	}
	return mathx.UnitV3(proj), true
}

// canonicalPerpendicular returns an arbitrary unit vector perpendicular to n,
// used when every edge of a face projects to zero length (degenerate input).
func canonicalPerpendicular(n mathx.V3) mathx.V3 {
	ref := mathx.V3{X: 1}
	if math.Abs(n.X) > 0.9 {
		ref = mathx.V3{Y: 1}
	}
	return mathx.UnitV3(mathx.CrossV3(n, ref))
}

// parametrizeCylindrical implements spec_full §4.6's axis-unroll case.
func parametrizeCylindrical(m *mesh.TaggedMesh, fid mesh.FaceID, tris []int, meta mesh.FaceMeta, cls sheet.Classification) (*FaceParam, error) {
	if meta.Axis == nil || meta.Center == nil {
		return nil, errs.InvalidInput("unfold.parametrizeCylindrical", "face %d missing axis/center metadata", fid)
	}
	positions := m.Positions()
	triangles := m.Triangles()
	axis := mathx.UnitV3(*meta.Axis)
	o := *meta.Center

	r, ok := referenceRadial(m, fid, tris, axis, o)
	if !ok {
		r = canonicalPerpendicular(axis)
	}
	uAx := mathx.UnitV3(r)
	vAx := mathx.CrossV3(axis, uAx)

	raw := make(map[int]polar)
	verts := faceVertices(triangles, tris)
	for _, vi := range verts {
		p := positions[vi]
		t := mathx.DotV3(mathx.SubV3(p, o), axis)
		proj := mathx.AddV3(o, mathx.ScaleV3(axis, t))
		radial := mathx.SubV3(p, proj)
		theta := math.Atan2(mathx.DotV3(radial, vAx), mathx.DotV3(radial, uAx))
		raw[vi] = polar{t: t, theta: theta}
	}

	theta := unwrapAngles(triangles, tris, verts, raw)

	radius := neutralRadius(meta.Radius, cls)
	coords := make(map[int]mathx.V2, len(verts))
	for _, vi := range verts {
		coords[vi] = mathx.V2{X: raw[vi].t, Y: theta[vi] * radius}
	}
	return &FaceParam{ID: fid, Coords: coords}, nil
}

// neutralRadius applies spec_full §4.6's bend-neutral radius adjustment:
// R_face + k*thickness on the inside surface, R_face - (1-k)*thickness on
// the outside surface.
func neutralRadius(faceRadius float64, cls sheet.Classification) float64 {
	if cls.SurfaceIsInside {
		return faceRadius + cls.NeutralFactor*cls.Thickness
	}
	return faceRadius - (1-cls.NeutralFactor)*cls.Thickness
}

// referenceRadial picks a radial direction from a vertex shared with a
// neighboring face so that cylindrical seams line up, falling back to any
// vertex of the face itself.
func referenceRadial(m *mesh.TaggedMesh, fid mesh.FaceID, tris []int, axis, o mathx.V3) (mathx.V3, bool) {
	positions := m.Positions()
	triangles := m.Triangles()
	faces := m.TriFaces()

	// Mark vertices of this face that also appear in a triangle of a
	// different face (a shared boundary vertex).
	boundary := make(map[int]bool)
	faceVerts := make(map[int]bool)
	for _, t := range tris {
		for _, vi := range triangles[t] {
			faceVerts[vi] = true
		}
	}
	for t, tri := range triangles {
		if faces[t] == fid {
			continue
		}
		for _, vi := range tri {
			if faceVerts[vi] {
				boundary[vi] = true
			}
		}
	}

	pick := func(vi int) mathx.V3 {
		p := positions[vi]
		t := mathx.DotV3(mathx.SubV3(p, o), axis)
		proj := mathx.AddV3(o, mathx.ScaleV3(axis, t))
		return mathx.SubV3(p, proj)
	}

	var boundaryVerts []int
	for vi := range boundary {
		boundaryVerts = append(boundaryVerts, vi)
	}
	sort.Ints(boundaryVerts)
	for _, vi := range boundaryVerts {
		radial := pick(vi)
		if radial.LenSqr() > 0 {
			return radial, true
		}
	}
	var allVerts []int
	for vi := range faceVerts {
		allVerts = append(allVerts, vi)
	}
	sort.Ints(allVerts)
	for _, vi := range allVerts {
		radial := pick(vi)
		if radial.LenSqr() > 0 {
			return radial, true
		}
	}
	return mathx.V3{}, false
}

func faceVertices(triangles [][3]int, tris []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, t := range tris {
		for _, vi := range triangles[t] {
			if !seen[vi] {
				seen[vi] = true
				out = append(out, vi)
			}
		}
	}
	sort.Ints(out)
	return out
}

// unwrapAngles removes branch-cut discontinuities in raw angle values by BFS
// over the face's own vertex-adjacency graph, snapping each neighbor's angle
// to the value nearest the parent's modulo 2*pi.
func unwrapAngles(triangles [][3]int, tris []int, verts []int, raw map[int]polar) map[int]float64 {
	adj := make(map[int]map[int]bool)
	for _, t := range tris {
		tri := triangles[t]
		for i := 0; i < 3; i++ {
			a, b := tri[i], tri[(i+1)%3]
			if adj[a] == nil {
				adj[a] = make(map[int]bool)
			}
			if adj[b] == nil {
				adj[b] = make(map[int]bool)
			}
			adj[a][b] = true
			adj[b][a] = true
		}
	}

	unwrapped := make(map[int]float64, len(verts))
	visited := make(map[int]bool, len(verts))
	seed := verts[0]
	unwrapped[seed] = raw[seed].theta
	visited[seed] = true
	queue := []int{seed}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		neighbors := make([]int, 0, len(adj[cur]))
		for n := range adj[cur] {
			neighbors = append(neighbors, n)
		}
		sort.Ints(neighbors)
		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			visited[n] = true
			unwrapped[n] = nearestCongruent(raw[n].theta, unwrapped[cur])
			queue = append(queue, n)
		}
	}
	// Any vertex unreached by BFS (disconnected within the face) keeps its
	// raw angle; this should not happen for a single-component face.
	for _, vi := range verts {
		if _, ok := unwrapped[vi]; !ok {
			unwrapped[vi] = raw[vi].theta
		}
	}
	return unwrapped
}

func nearestCongruent(theta, reference float64) float64 {
	k := math.Round((reference - theta) / (2 * math.Pi))
	return theta + k*2*math.Pi
}
