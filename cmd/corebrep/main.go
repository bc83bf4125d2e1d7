// Copyright © 2026 corebrep Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command corebrep is the batch CLI over the repair, sheet-classification,
// and unfolding libraries: "repair" runs the default cleanup pipeline over
// a mesh file, "classify" reports a sheet-metal read of a mesh without
// mutating it, and "unfold" carries a classified mesh all the way through
// to a flat pattern.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "corebrep",
		Short:         "Mesh repair and sheet-metal unfolding toolchain",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRepairCmd())
	root.AddCommand(newClassifyCmd())
	root.AddCommand(newUnfoldCmd())

	if err := fang.Execute(context.Background(), root); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
