// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brepio/corebrep/external"
	"github.com/brepio/corebrep/repair"
)

func newRepairCmd() *cobra.Command {
	var (
		configPath    string
		outPath       string
		selfIntersect int
	)

	cmd := &cobra.Command{
		Use:   "repair <input>",
		Short: "Run the default cleanup pipeline over a mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			out := outPath
			if out == "" {
				out = in
			}

			opts, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			m, err := loadMesh(in)
			if err != nil {
				return err
			}

			kernel := external.NewFallbackKernel()

			results, err := repair.NewPipeline(m, opts, kernel, nil).Default(selfIntersect).Run()
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s %6d changed\n", r.Name, r.Changed)
			}
			if err != nil {
				return err
			}
			return saveMesh(m, out)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file overriding defaults")
	cmd.Flags().StringVar(&outPath, "out", "", "output mesh path (defaults to overwriting the input)")
	cmd.Flags().IntVar(&selfIntersect, "self-intersect-max-iterations", 8, "max outer passes for self-intersection splitting")
	return cmd
}
