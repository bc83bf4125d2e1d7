// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package interchange

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/brepio/corebrep/errs"
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

// faceExtras is the per-face metadata spec_full §6 carries in glTF mesh
// "extras": one glTF mesh per tagged face, so the mapping is 1:1 rather than
// per-triangle. Kind/sheet_side are written as their String() form and
// re-parsed on load.
type faceExtras struct {
	FaceID    uint32     `json:"face_id"`
	Kind      string     `json:"kind"`
	Axis      *[3]float64 `json:"axis,omitempty"`
	Center    *[3]float64 `json:"center,omitempty"`
	Radius    float64    `json:"radius,omitempty"`
	SheetSide string     `json:"sheet_side,omitempty"`
	Color     string     `json:"color,omitempty"`
	Name      string     `json:"name,omitempty"`
}

// SaveGLTF writes m as a glTF document with one mesh (and one node) per
// tagged face, carrying that face's FaceMeta as the mesh's "extras" — the
// natural home for arbitrary per-primitive metadata spec_full's DOMAIN STACK
// calls out, since glTF itself has no notion of a named face group. Binary
// (.glb) is written when path ends in ".glb", the default text+embedded-
// buffer form otherwise.
func SaveGLTF(m *mesh.TaggedMesh, path string) error {
	doc := &gltf.Document{
		Asset:  gltf.Asset{Version: "2.0"},
		Scene:  u32ptr(0),
		Scenes: []*gltf.Scene{{}},
	}

	byFace := make(map[mesh.FaceID][]int)
	triangles := m.Triangles()
	faces := m.TriFaces()
	for t := range triangles {
		byFace[faces[t]] = append(byFace[faces[t]], t)
	}

	ids := m.FaceIDs()
	sortFaceIDs(ids)
	positions := m.Positions()

	for _, id := range ids {
		tris := byFace[id]
		if len(tris) == 0 {
			continue
		}
		localIdx := make(map[int]uint32)
		var verts [][3]float32
		var indices []uint32
		for _, t := range tris {
			for _, vi := range triangles[t] {
				li, ok := localIdx[vi]
				if !ok {
					li = uint32(len(verts))
					localIdx[vi] = li
					p := positions[vi]
					verts = append(verts, [3]float32{float32(p.X), float32(p.Y), float32(p.Z)})
				}
				indices = append(indices, li)
			}
		}

		posAccessor := writeVec3Accessor(doc, verts)
		idxAccessor := writeIndexAccessor(doc, indices)

		name, _ := m.FaceName(id)
		meshIdx := uint32(len(doc.Meshes))
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: name,
			Primitives: []*gltf.Primitive{{
				Mode:       gltf.PrimitiveTriangles,
				Attributes: map[string]uint32{gltf.POSITION: posAccessor},
				Indices:    u32ptr(idxAccessor),
			}},
			Extras: faceExtrasFor(id, name, m),
		})
		nodeIdx := uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: u32ptr(meshIdx)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeIdx)
	}

	if len(doc.Buffers) > 0 {
		doc.Buffers[0].ByteLength = len(doc.Buffers[0].Data)
	}

	if strings.EqualFold(filepath.Ext(path), ".glb") {
		if err := gltf.SaveBinary(doc, path); err != nil {
			return errs.InvalidInput("interchange.SaveGLTF", "save binary: %v", err)
		}
		return nil
	}
	if err := gltf.Save(doc, path); err != nil {
		return errs.InvalidInput("interchange.SaveGLTF", "save: %v", err)
	}
	return nil
}

func faceExtrasFor(id mesh.FaceID, name string, m *mesh.TaggedMesh) *faceExtras {
	meta, ok := m.FaceMeta(id)
	if !ok {
		return &faceExtras{FaceID: uint32(id), Kind: mesh.KindOther.String(), Name: name}
	}
	fe := &faceExtras{
		FaceID:    uint32(id),
		Kind:      meta.Kind.String(),
		Radius:    meta.Radius,
		SheetSide: meta.SheetSide.String(),
		Color:     meta.Color,
		Name:      meta.Name,
	}
	if meta.Axis != nil {
		fe.Axis = &[3]float64{meta.Axis.X, meta.Axis.Y, meta.Axis.Z}
	}
	if meta.Center != nil {
		fe.Center = &[3]float64{meta.Center.X, meta.Center.Y, meta.Center.Z}
	}
	return fe
}

// LoadGLTF reads a glTF/GLB document back into a tagged mesh: every glTF
// mesh becomes one face (named from the glTF mesh's "name", falling back to
// "face_N"), and every triangle of every primitive is replayed
// through AddTriangle so welding follows the same exact-match contract as
// any other ingress path.
func LoadGLTF(path string) (*mesh.TaggedMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errs.InvalidInput("interchange.LoadGLTF", "open: %v", err)
	}

	out := mesh.NewTaggedMesh()
	for i, gm := range doc.Meshes {
		name := gm.Name
		if name == "" {
			name = fmt.Sprintf("face_%d", i)
		}
		for _, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return nil, errs.InvalidInput("interchange.LoadGLTF", "mesh %q: %v", name, err)
			}
			var indices []uint32
			if prim.Indices != nil {
				indices, err = readIndexAccessor(doc, *prim.Indices)
				if err != nil {
					return nil, errs.InvalidInput("interchange.LoadGLTF", "mesh %q: %v", name, err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}
			for k := 0; k+2 < len(indices); k += 3 {
				p0 := positions[indices[k]]
				p1 := positions[indices[k+1]]
				p2 := positions[indices[k+2]]
				if _, err := out.AddTriangle(name, p0, p1, p2); err != nil {
					return nil, err
				}
			}
		}
		id, ok := out.FaceIDByName(name)
		if !ok {
			continue
		}
		if meta, ok := faceMetaFromExtras(gm.Extras); ok {
			if err := out.SetFaceMeta(id, meta); err != nil {
				return nil, errs.InvalidInput("interchange.LoadGLTF", "mesh %q: %v", name, err)
			}
		}
	}
	if out.NumTriangles() == 0 {
		return nil, errs.InvalidInput("interchange.LoadGLTF", "no triangles found in %s", path)
	}
	return out, nil
}

// faceMetaFromExtras decodes the loosely-typed JSON "extras" value glTF
// round-trips as map[string]any back into a FaceMeta, tolerating missing
// optional fields.
func faceMetaFromExtras(raw any) (mesh.FaceMeta, bool) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return mesh.FaceMeta{}, false
	}
	meta := mesh.FaceMeta{}
	switch s, _ := fields["kind"].(string); s {
	case "planar":
		meta.Kind = mesh.KindPlanar
	case "cylindrical":
		meta.Kind = mesh.KindCylindrical
	default:
		meta.Kind = mesh.KindOther
	}
	if r, ok := fields["radius"].(float64); ok {
		meta.Radius = r
	}
	switch s, _ := fields["sheet_side"].(string); s {
	case "A":
		meta.SheetSide = mesh.SheetSideA
	case "B":
		meta.SheetSide = mesh.SheetSideB
	}
	if c, ok := fields["color"].(string); ok {
		meta.Color = c
	}
	if n, ok := fields["name"].(string); ok {
		meta.Name = n
	}
	if v, ok := vec3FromAny(fields["axis"]); ok {
		meta.Axis = &v
	}
	if v, ok := vec3FromAny(fields["center"]); ok {
		meta.Center = &v
	}
	return meta, true
}

func vec3FromAny(raw any) (mathx.V3, bool) {
	arr, ok := raw.([]any)
	if !ok || len(arr) != 3 {
		return mathx.V3{}, false
	}
	x, ok0 := arr[0].(float64)
	y, ok1 := arr[1].(float64)
	z, ok2 := arr[2].(float64)
	if !ok0 || !ok1 || !ok2 {
		return mathx.V3{}, false
	}
	return mathx.V3{X: x, Y: y, Z: z}, true
}

func u32ptr(v uint32) *uint32 { return &v }

func sortFaceIDs(ids []mesh.FaceID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
