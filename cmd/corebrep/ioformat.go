// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brepio/corebrep/config"
	"github.com/brepio/corebrep/interchange"
	"github.com/brepio/corebrep/mesh"
)

// loadMesh dispatches to interchange's OBJ or glTF loader by file extension.
func loadMesh(path string) (*mesh.TaggedMesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return interchange.LoadOBJ(f)
	case ".gltf", ".glb":
		return interchange.LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q (use .obj, .gltf, or .glb)", ext)
	}
}

// saveMesh dispatches to interchange's OBJ or glTF writer by file extension.
func saveMesh(m *mesh.TaggedMesh, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return interchange.SaveOBJ(m, f)
	case ".gltf", ".glb":
		return interchange.SaveGLTF(m, path)
	default:
		return fmt.Errorf("unsupported mesh format %q (use .obj, .gltf, or .glb)", ext)
	}
}

// loadConfig reads opts from path when set, falling back to config.Default.
func loadConfig(path string) (config.Options, error) {
	if path == "" {
		return config.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return config.Options{}, err
	}
	defer f.Close()
	opts, err := config.Load(f)
	if err != nil {
		return config.Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return config.Options{}, err
	}
	return opts, nil
}
