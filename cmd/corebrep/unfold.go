// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brepio/corebrep/interchange"
	"github.com/brepio/corebrep/sheet"
	"github.com/brepio/corebrep/topology"
	"github.com/brepio/corebrep/unfold"
)

func newUnfoldCmd() *cobra.Command {
	var (
		configPath string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "unfold <input>",
		Short: "Classify, parametrize, pack, and flatten a sheet-metal mesh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return fmt.Errorf("--out is required")
			}

			opts, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			m, err := loadMesh(args[0])
			if err != nil {
				return err
			}

			cls, err := sheet.Classify(m, opts)
			if err != nil {
				return err
			}
			moved := sheet.Offset(m, cls)
			fmt.Fprintf(cmd.OutOrStdout(), "offset %d vertices along the neutral fiber\n", moved)

			params, err := unfold.Parametrize(m, cls)
			if err != nil {
				return err
			}
			idx := topology.Build(m)
			placements := unfold.Layout(m, idx, params)
			placements = unfold.PackComponents(params, placements, cls.Thickness)

			fp := unfold.AssembleWithThickness(m, params, placements, cls.Thickness)
			fmt.Fprintf(cmd.OutOrStdout(), "flat pattern: %d vertices, %d triangles across %d faces\n",
				len(fp.Positions), len(fp.Triangles), len(params))

			anns := unfold.BuildAnnotations(m, idx, cls, params, placements)
			fmt.Fprintf(cmd.OutOrStdout(), "%d bend annotations\n", len(anns))

			return saveFlatPattern(fp, outPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file overriding defaults")
	cmd.Flags().StringVar(&outPath, "out", "", "output flat-pattern OBJ path (required)")
	return cmd
}

// saveFlatPattern writes fp as an OBJ; only this text format round-trips a
// flat pattern today, since unfold.FlatPattern carries no face metadata for
// interchange's glTF extras to hang off of.
func saveFlatPattern(fp *unfold.FlatPattern, path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".obj" {
		return fmt.Errorf("unsupported flat-pattern format %q (use .obj)", ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return interchange.SaveFlatPatternOBJ(fp, f)
}
