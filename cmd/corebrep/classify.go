// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brepio/corebrep/sheet"
)

func newClassifyCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "classify <input>",
		Short: "Report the sheet-metal classification of a mesh without mutating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			report := struct {
				Thickness       float64 `yaml:"thickness"`
				BendRadius      float64 `yaml:"bend_radius"`
				NeutralFactor   float64 `yaml:"neutral_factor"`
				InsideType      string  `yaml:"inside_type"`
				SurfaceType     string  `yaml:"surface_type"`
				SurfaceIsInside bool    `yaml:"surface_is_inside"`
				IncludedFaces   int     `yaml:"included_faces"`
			}{
				Thickness:       cls.Thickness,
				BendRadius:      cls.BendRadius,
				NeutralFactor:   cls.NeutralFactor,
				InsideType:      cls.InsideType.String(),
				SurfaceType:     cls.SurfaceType.String(),
				SurfaceIsInside: cls.SurfaceIsInside,
				IncludedFaces:   len(cls.IncludeSet),
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file overriding defaults")
	return cmd
}
