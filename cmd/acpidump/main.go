// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command acpidump inspects a single ACPI table image, and can reassemble an
// IORT table from a JSON-described platform object set.
// The CLI itself is an external collaborator of the engine (§1): it only
// wires flags to the acpi and generator packages.
package main

import (
	"fmt"
	"os"

	"github.com/firmwarekit/acpiparse"
	"github.com/firmwarekit/acpiparse/log"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	consistent bool
)

func inspect(cmd *cobra.Command, args []string) {
	filePath := args[0]

	img, err := acpi.OpenImage(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "acpidump: %s: %v\n", filePath, err)
		os.Exit(1)
	}
	defer img.Close()

	level := log.LevelWarn
	if verbose {
		level = log.LevelDebug
	}
	logger := log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(level))

	sink := log.NewSink(logger)
	sink.Quiet = quiet
	// Quiet mode forces consistency mode off (§7 "User-visible behavior").
	sink.ConsistencyMode = consistent && !quiet

	if !acpi.DispatchTable(sink, img.Bytes()) {
		os.Exit(1)
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "acpidump",
		Short: "An ACPI firmware table inspector and generator",
		Long:  "acpidump decodes, validates, and traces ACPI firmware tables, and can reassemble a subset of them from abstract platform objects",
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("acpidump 0.1.0")
		},
	}

	var inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Decode, validate and trace a single ACPI table image",
		Args:  cobra.ExactArgs(1),
		Run:   inspect,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(newGenerateCmd())

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace every field, not just warnings and errors")
	inspectCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings/errors and force consistency mode off")
	inspectCmd.Flags().BoolVarP(&consistent, "consistency", "c", true, "run per-field validators and cross-structure checks")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
