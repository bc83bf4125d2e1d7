// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package interchange holds the thin mesh ingress/egress shells spec_full §6
// names: Wavefront OBJ text loading (a triangle soup tagged by face/object
// name) and glTF reading/writing (the same tagging carried as per-mesh
// extras, since glTF has no native notion of a named face group).
package interchange

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/brepio/corebrep/errs"
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
	"github.com/brepio/corebrep/unfold"
)

// LoadOBJ reads a Wavefront OBJ triangle soup, tagging every triangle with
// the name of the "o" group it appeared under ("default" if the file never
// declares one). Reader r is expected to be opened and closed by the caller.
// Adapted from the teacher's line-scanning loader: vertices are collected
// globally, faces resolved against that list, and each resulting triangle
// handed to TaggedMesh.AddTriangle, which performs its own exact-coordinate
// welding rather than this loader's.
func LoadOBJ(r io.Reader) (*mesh.TaggedMesh, error) {
	m := mesh.NewTaggedMesh()
	var verts []mathx.V3
	faceName := "default"

	reader := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		lineNo++
		if line != "" {
			if perr := parseOBJLine(line, m, &verts, &faceName); perr != nil {
				return nil, errs.InvalidInput("interchange.LoadOBJ", "line %d: %v", lineNo, perr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.InvalidInput("interchange.LoadOBJ", "%v", err)
		}
	}
	if m.NumTriangles() == 0 {
		return nil, errs.InvalidInput("interchange.LoadOBJ", "no triangles found")
	}
	return m, nil
}

func parseOBJLine(line string, m *mesh.TaggedMesh, verts *[]mathx.V3, faceName *string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}
	switch tokens[0] {
	case "o", "g":
		if len(tokens) >= 2 {
			*faceName = tokens[1]
		}
	case "v":
		var x, y, z float64
		if _, err := fmt.Sscanf(line, "v %f %f %f", &x, &y, &z); err != nil {
			return fmt.Errorf("bad vertex %q: %w", line, err)
		}
		*verts = append(*verts, mathx.V3{X: x, Y: y, Z: z})
	case "f":
		idxs := make([]int, 0, len(tokens)-1)
		for _, tok := range tokens[1:] {
			vi, err := parseFaceVertexIndex(tok, len(*verts))
			if err != nil {
				return err
			}
			idxs = append(idxs, vi)
		}
		if len(idxs) < 3 {
			return fmt.Errorf("face %q has fewer than 3 vertices", line)
		}
		// Fan-triangulate faces with more than 3 vertices, matching the
		// teacher's assumption of triangle-soup input while tolerating
		// quads/n-gons some exporters emit.
		for i := 1; i+1 < len(idxs); i++ {
			p0, p1, p2 := (*verts)[idxs[0]], (*verts)[idxs[i]], (*verts)[idxs[i+1]]
			if _, err := m.AddTriangle(*faceName, p0, p1, p2); err != nil {
				return err
			}
		}
	case "vn", "vt", "s", "mtllib", "usemtl":
		// Normals, texture coordinates and material directives carry no
		// information the tagged mesh store keeps; ignored on load.
	}
	return nil
}

// parseFaceVertexIndex extracts the vertex index from one "f" token, which
// may be "v", "v/t", "v//n", or "v/t/n", and resolves OBJ's 1-based
// (or negative, relative-to-end) indexing into a 0-based slice index.
func parseFaceVertexIndex(tok string, vertCount int) (int, error) {
	parts := strings.SplitN(tok, "/", 2)
	var v int
	if _, err := fmt.Sscanf(parts[0], "%d", &v); err != nil {
		return 0, fmt.Errorf("bad face index %q: %w", tok, err)
	}
	switch {
	case v > 0:
		v--
	case v < 0:
		v = vertCount + v
	default:
		return 0, fmt.Errorf("face index %q is zero", tok)
	}
	if v < 0 || v >= vertCount {
		return 0, fmt.Errorf("face index %q out of range (have %d vertices)", tok, vertCount)
	}
	return v, nil
}

// SaveOBJ writes m as a Wavefront OBJ, one "o" group per face, sorted by
// face-id for deterministic output. Every face's triangles are emitted
// after its "o" line; vertex positions are written once, up front, and
// referenced by their (1-based) global index, matching the teacher's
// global-vertex-table convention in load/obj.go.
func SaveOBJ(m *mesh.TaggedMesh, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range m.Positions() {
		if _, err := fmt.Fprintf(bw, "v %.9g %.9g %.9g\n", p.X, p.Y, p.Z); err != nil {
			return err
		}
	}

	byFace := make(map[mesh.FaceID][]int)
	triangles := m.Triangles()
	faces := m.TriFaces()
	for t := range triangles {
		byFace[faces[t]] = append(byFace[faces[t]], t)
	}
	ids := m.FaceIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		name, _ := m.FaceName(id)
		if _, err := fmt.Fprintf(bw, "o %s\n", name); err != nil {
			return err
		}
		for _, t := range byFace[id] {
			tri := triangles[t]
			if _, err := fmt.Fprintf(bw, "f %d %d %d\n", tri[0]+1, tri[1]+1, tri[2]+1); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// SaveFlatPatternOBJ writes an unfold.FlatPattern as a z=0 Wavefront OBJ,
// one "o" group per source face-id so the flattened panels stay traceable
// back to the solid they came from, mirroring SaveOBJ's grouping but reading
// straight off fp.Triangles/fp.FaceIDs instead of a TaggedMesh.
func SaveFlatPatternOBJ(fp *unfold.FlatPattern, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range fp.Positions {
		if _, err := fmt.Fprintf(bw, "v %.9g %.9g %.9g\n", p.X, p.Y, p.Z); err != nil {
			return err
		}
	}

	byFace := make(map[mesh.FaceID][]int)
	for t, fid := range fp.FaceIDs {
		byFace[fid] = append(byFace[fid], t)
	}
	ids := make([]mesh.FaceID, 0, len(byFace))
	for id := range byFace {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if _, err := fmt.Fprintf(bw, "o face_%d\n", id); err != nil {
			return err
		}
		for _, t := range byFace[id] {
			tri := fp.Triangles[t]
			if _, err := fmt.Fprintf(bw, "f %d %d %d\n", tri[0]+1, tri[1]+1, tri[2]+1); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
