// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package errs

import (
	"errors"
	"testing"
)

func TestSentinelMembership(t *testing.T) {
	err := DegenerateGeometry("collapse_tiny_triangles", "zero-length edge %d", 7)
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Error("expected errors.Is to match ErrDegenerateGeometry")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("did not expect errors.Is to match ErrInvalidInput")
	}
}

func TestOpErrorMessage(t *testing.T) {
	err := InvalidInput("add_triangle", "vertex index %d out of range", 12)
	want := "add_triangle: invalid input: vertex index 12 out of range"
	if got := err.Error(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}
