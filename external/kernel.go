// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package external defines the opaque manifold-boolean collaborator spec_full
// §6 treats as a black box: build(vert_properties, tri_verts, tri_ids) ->
// handle, handle.intersect(other) -> handle, handle.get_mesh() -> mesh,
// handle.delete(). The core never implements CSG itself (spec_full §1
// non-goals); it only calls through this interface.
//
// Two backends satisfy Kernel: the cgo-bound real Manifold library behind
// the "manifold" build tag (manifold_cgo.go), and a pure-Go fallback
// (fallback.go) used by default so the module works without a system
// Manifold install.
package external

import "github.com/brepio/corebrep/mathx"

// RawMesh is the wire shape spec_full §6 names for mesh ingress/egress:
// positions, triangle indices, and a face-id per triangle.
type RawMesh struct {
	Positions []mathx.V3
	Triangles [][3]int
	FaceIDs   []uint32
}

// Solid is a handle to geometry held by the boolean kernel. Handles are not
// safe for concurrent use; the core is single-threaded (spec_full §5).
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box of the solid.
	BoundingBox() (min, max mathx.V3)

	// Intersect returns the boolean intersection of this solid with other.
	Intersect(other Solid) (Solid, error)

	// GetMesh extracts the current triangle mesh from the solid, with
	// face-ids preserved.
	GetMesh() RawMesh

	// Delete releases any native resources held by the handle. Delete is
	// idempotent; calling GetMesh or Intersect after Delete is an error.
	Delete()
}

// Kernel builds Solids from raw triangle soups.
type Kernel interface {
	Build(m RawMesh) (Solid, error)
}
