// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package unfold

import (
	"math"

	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// FlatPattern is the final 2D layout, expressed as a z=0 indexed triangle
// mesh so it fits the same {vert_properties, tri_verts, tri_faces} egress
// shape the repaired mesh uses, plus the UVs spec_full's egress record adds.
type FlatPattern struct {
	Positions []mathx.V3
	Triangles [][3]int
	FaceIDs   []mesh.FaceID
	UVs       []mathx.V2
}

// Assemble implements spec_full §4.6's "Output assembly" at the base 1e-5
// quantization tolerance. Use AssembleWithThickness when a sheet thickness
// is known, per spec_full's max(1e-5, thickness*1e-6) tolerance rule.
func Assemble(m *mesh.TaggedMesh, params map[mesh.FaceID]*FaceParam, placements map[mesh.FaceID]Placement) *FlatPattern {
	return assemble(m, params, placements, 1e-5)
}

// AssembleWithThickness resolves the weld quantum from thickness
// (max(1e-5, thickness*1e-6)) before assembling: every face's triangles are
// transformed through its packed placement, and coincident transformed
// vertices are welded so faces meeting edge-to-edge share vertices in the
// output, the same lattice-rounding scheme topology.Quantize uses for
// mesh-internal welding.
func AssembleWithThickness(m *mesh.TaggedMesh, params map[mesh.FaceID]*FaceParam, placements map[mesh.FaceID]Placement, thickness float64) *FlatPattern {
	return assemble(m, params, placements, math.Max(1e-5, thickness*1e-6))
}

func assemble(m *mesh.TaggedMesh, params map[mesh.FaceID]*FaceParam, placements map[mesh.FaceID]Placement, quantum float64) *FlatPattern {
	triangles := m.Triangles()
	faces := m.TriFaces()

	fp := &FlatPattern{}
	keyToIndex := make(map[[2]int64]int)

	quantize := func(p mathx.V2) [2]int64 {
		return [2]int64{
			int64(math.Round(p.X / quantum)),
			int64(math.Round(p.Y / quantum)),
		}
	}

	for t, tri := range triangles {
		fid := faces[t]
		param, ok := params[fid]
		if !ok {
			continue
		}
		pl, ok := placements[fid]
		if !ok {
			continue
		}

		var outTri [3]int
		complete := true
		for k, vi := range tri {
			local, ok := param.Coords[vi]
			if !ok {
				complete = false
				break
			}
			global := pl.Transform.Apply(local)
			key := quantize(global)
			idx, seen := keyToIndex[key]
			if !seen {
				idx = len(fp.Positions)
				keyToIndex[key] = idx
				fp.Positions = append(fp.Positions, mathx.V3{X: global.X, Y: global.Y})
				fp.UVs = append(fp.UVs, global)
			}
			outTri[k] = idx
		}
		if !complete {
			continue
		}
		fp.Triangles = append(fp.Triangles, outTri)
		fp.FaceIDs = append(fp.FaceIDs, fid)
	}
	return fp
}
