// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package repair

import (
	"github.com/brepio/corebrep/mathx"
	"github.com/brepio/corebrep/mesh"
)

func v(x, y, z float64) mathx.V3 { return mathx.V3{X: x, Y: y, Z: z} }

// unitCube returns a closed, outward-wound 12-triangle cube spanning
// [0,1]^3, one face-id per cube face, used as the manifold fixture most
// repair operator tests build on.
func unitCube() *mesh.TaggedMesh {
	m := mesh.NewTaggedMesh()
	corners := [8]mathx.V3{
		v(0, 0, 0), v(1, 0, 0), v(1, 1, 0), v(0, 1, 0),
		v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1),
	}
	faces := []struct {
		name       string
		quad       [4]int
	}{
		{"bottom", [4]int{0, 3, 2, 1}},
		{"top", [4]int{4, 5, 6, 7}},
		{"front", [4]int{0, 1, 5, 4}},
		{"right", [4]int{1, 2, 6, 5}},
		{"back", [4]int{2, 3, 7, 6}},
		{"left", [4]int{3, 0, 4, 7}},
	}
	for _, f := range faces {
		a, b, c, d := corners[f.quad[0]], corners[f.quad[1]], corners[f.quad[2]], corners[f.quad[3]]
		must(m.AddTriangle(f.name, a, b, c))
		must(m.AddTriangle(f.name, a, c, d))
	}
	return m
}

func must(_ int, err error) {
	if err != nil {
		panic(err)
	}
}
