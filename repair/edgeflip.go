// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"sort"

	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// FlipTinyTriangleEdges implements spec_full §4.3.3. Each outer pass finds
// every edge bordering two differently-faced triangles whose smaller
// incident area is below areaThreshold, sorts candidates by that minimum
// area ascending, and greedily flips the diagonal where doing so is valid
// (the opposite diagonal does not already exist, both resulting triangles
// have strictly positive area, and the flip does not shrink the smaller
// area). Each triangle participates in at most one flip per pass. Stops
// after maxIterations passes or when no flip applies, then re-runs winding
// fix-up. Honors cancel at the top of each pass.
func FlipTinyTriangleEdges(m *mesh.TaggedMesh, areaThreshold float64, maxIterations int, cancel *Token) (int, error) {
	total := 0
	for iter := 0; iter < maxIterations; iter++ {
		if cancel.Cancelled() {
			break
		}
		n, err := flipPass(m, areaThreshold)
		if err != nil {
			return total, err
		}
		total += n
		if n == 0 {
			break
		}
	}
	if total > 0 {
		if _, err := FixTriangleWindingsByAdjacency(m); err != nil {
			return total, err
		}
	}
	return total, nil
}

type flipCandidate struct {
	edge     edgeKey
	tA, tB   int
	minArea  float64
}

func flipPass(m *mesh.TaggedMesh, areaThreshold float64) (int, error) {
	positions := m.Positions()
	triangles := m.Triangles()
	faces := m.TriFaces()

	edgeToTris := make(map[edgeKey][]int, len(triangles)*3)
	for t, tri := range triangles {
		for i := 0; i < 3; i++ {
			k := sortedEdgeKey(tri[i], tri[(i+1)%3])
			edgeToTris[k] = append(edgeToTris[k], t)
		}
	}
	triArea := func(t int) float64 {
		tri := triangles[t]
		return mathx.TriangleArea(positions[tri[0]], positions[tri[1]], positions[tri[2]])
	}

	var candidates []flipCandidate
	for e, tris := range edgeToTris {
		if len(tris) != 2 {
			continue
		}
		a, b := tris[0], tris[1]
		if faces[a] == faces[b] {
			continue
		}
		aa, ab := triArea(a), triArea(b)
		minArea := aa
		if ab < minArea {
			minArea = ab
		}
		if minArea >= areaThreshold {
			continue
		}
		candidates = append(candidates, flipCandidate{edge: e, tA: a, tB: b, minArea: minArea})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].minArea < candidates[j].minArea })

	locked := make([]bool, len(triangles))
	flips := 0
	for _, c := range candidates {
		if locked[c.tA] || locked[c.tB] {
			continue
		}
		if tryFlip(m, positions, triangles, c) {
			locked[c.tA] = true
			locked[c.tB] = true
			flips++
		}
	}
	return flips, nil
}

// tryFlip attempts to rotate the shared diagonal of triangles tA/tB (which
// share edge c.edge) to the opposite corners, subject to spec_full §4.3.3's
// validity conditions.
func tryFlip(m *mesh.TaggedMesh, positions []mathx.V3, triangles [][3]int, c flipCandidate) bool {
	triA, triB := triangles[c.tA], triangles[c.tB]
	oppA, ok := thirdVertex(triA, c.edge)
	if !ok {
		return false
	}
	oppB, ok := thirdVertex(triB, c.edge)
	if !ok {
		return false
	}
	if oppA == oppB {
		return false
	}
	newDiag := sortedEdgeKey(oppA, oppB)
	for i := 0; i < 3; i++ {
		if sortedEdgeKey(triA[i], triA[(i+1)%3]) == newDiag {
			return false
		}
	}

	beforeMin := mathx.TriangleArea(positions[triA[0]], positions[triA[1]], positions[triA[2]])
	bArea := mathx.TriangleArea(positions[triB[0]], positions[triB[1]], positions[triB[2]])
	if bArea < beforeMin {
		beforeMin = bArea
	}

	// Build the two post-flip triangles, preserving each side's original
	// winding sense by walking the old diagonal's endpoints in the same
	// order the original triangle used.
	e0, e1 := c.edge[0], c.edge[1]
	newA := [3]int{e0, oppB, oppA}
	newB := [3]int{e1, oppA, oppB}
	areaA := mathx.TriangleArea(positions[newA[0]], positions[newA[1]], positions[newA[2]])
	areaB := mathx.TriangleArea(positions[newB[0]], positions[newB[1]], positions[newB[2]])
	if areaA <= 0 || areaB <= 0 {
		return false
	}
	afterMin := areaA
	if areaB < afterMin {
		afterMin = areaB
	}
	if afterMin < beforeMin {
		return false
	}

	m.SetTriangle(c.tA, newA)
	m.SetTriangle(c.tB, newB)
	return true
}

// thirdVertex returns the vertex of tri not on edge e.
func thirdVertex(tri [3]int, e edgeKey) (int, bool) {
	for _, v := range tri {
		if v != e[0] && v != e[1] {
			return v, true
		}
	}
	return 0, false
}
