// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/brepio/corebrep/errs"
)

func TestLoadOverridesDefaults(t *testing.T) {
	doc := "max_triangles: 50\nthickness: 2.0\n"
	opts, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.MaxTriangles != 50 {
		t.Errorf("MaxTriangles got %d want 50", opts.MaxTriangles)
	}
	if opts.Thickness != 2.0 {
		t.Errorf("Thickness got %v want 2.0", opts.Thickness)
	}
	// Untouched fields keep their default.
	if opts.NeutralFactor != 0.5 {
		t.Errorf("NeutralFactor got %v want default 0.5", opts.NeutralFactor)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("not_a_real_option: 1\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown config key")
	}
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidateRejectsBadNeutralFactor(t *testing.T) {
	opts := Default()
	opts.NeutralFactor = 1.5
	if err := opts.Validate(); err == nil {
		t.Fatal("expected Validate to reject neutral_factor > 1")
	}
}
