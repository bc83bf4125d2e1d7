// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import "github.com/brepio/corebrep/mesh"

// RemeshUniformLength implements spec_full §4.3.4: repeatedly split every
// edge longer than maxEdgeLength by its midpoint, subdividing each triangle
// via the standard longest-edge bisection pattern (0/1/2/3 long edges ->
// 1/2/3/4 sub-triangles, face-id inherited), until no long edges remain or
// maxIterations passes have run. Re-runs winding fix-up afterward since
// bisection can introduce locally inconsistent windings at T-junction
// boundaries against untouched neighbors.
func RemeshUniformLength(m *mesh.TaggedMesh, maxEdgeLength float64, maxIterations int, cancel *Token) (int, error) {
	splits := 0
	for iter := 0; iter < maxIterations; iter++ {
		if cancel.Cancelled() {
			break
		}
		n, err := remeshPass(m, maxEdgeLength)
		if err != nil {
			return splits, err
		}
		splits += n
		if n == 0 {
			break
		}
	}
	if splits > 0 {
		if _, err := FixTriangleWindingsByAdjacency(m); err != nil {
			return splits, err
		}
	}
	return splits, nil
}

func remeshPass(m *mesh.TaggedMesh, maxEdgeLength float64) (int, error) {
	positions := m.Positions()
	triangles := m.Triangles()
	faces := m.TriFaces()

	longEdge := func(a, b int) bool {
		return positions[a].Dist(&positions[b]) > maxEdgeLength
	}

	midpoints := make(map[edgeKey]int)
	midpointOf := func(a, b int) int {
		k := sortedEdgeKey(a, b)
		if v, ok := midpoints[k]; ok {
			return v
		}
		pa, pb := positions[a], positions[b]
		midPoint := pa
		midPoint.X = (pa.X + pb.X) / 2
		midPoint.Y = (pa.Y + pb.Y) / 2
		midPoint.Z = (pa.Z + pb.Z) / 2
		idx := m.AppendVertexRaw(midPoint)
		midpoints[k] = idx
		return idx
	}

	newTriangles := make([][3]int, 0, len(triangles))
	newFaces := make([]mesh.FaceID, 0, len(triangles))
	splitCount := 0

	for t, tri := range triangles {
		fid := faces[t]
		v0, v1, v2 := tri[0], tri[1], tri[2]
		long := [3]bool{longEdge(v0, v1), longEdge(v1, v2), longEdge(v2, v0)}
		cnt := 0
		for _, l := range long {
			if l {
				cnt++
			}
		}
		switch cnt {
		case 0:
			newTriangles = append(newTriangles, tri)
			newFaces = append(newFaces, fid)
		case 1:
			i := 0
			for !long[i] {
				i++
			}
			a, b, c := rotated3(v0, v1, v2, i)
			mab := midpointOf(a, b)
			newTriangles = append(newTriangles, [3]int{a, mab, c}, [3]int{mab, b, c})
			newFaces = append(newFaces, fid, fid)
			splitCount++
		case 2:
			i := 0
			for long[i] {
				i++
			}
			// rotate so the short edge lands between positions 2 and 0.
			a, b, c := rotated3(v0, v1, v2, (i+1)%3)
			mab := midpointOf(a, b)
			mbc := midpointOf(b, c)
			newTriangles = append(newTriangles,
				[3]int{b, mbc, mab},
				[3]int{a, mab, mbc},
				[3]int{a, mbc, c},
			)
			newFaces = append(newFaces, fid, fid, fid)
			splitCount++
		case 3:
			m01 := midpointOf(v0, v1)
			m12 := midpointOf(v1, v2)
			m20 := midpointOf(v2, v0)
			newTriangles = append(newTriangles,
				[3]int{v0, m01, m20},
				[3]int{v1, m12, m01},
				[3]int{v2, m20, m12},
				[3]int{m01, m12, m20},
			)
			newFaces = append(newFaces, fid, fid, fid, fid)
			splitCount++
		}
	}

	if splitCount == 0 {
		return 0, nil
	}
	m.ReplaceAll(m.Positions(), newTriangles, newFaces)
	return splitCount, nil
}

// rotated3 returns (v0,v1,v2) rotated left by i positions.
func rotated3(v0, v1, v2, i int) (int, int, int) {
	v := [3]int{v0, v1, v2}
	return v[i%3], v[(i+1)%3], v[(i+2)%3]
}
