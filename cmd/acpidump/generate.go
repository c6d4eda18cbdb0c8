// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/firmwarekit/acpiparse/generator"
	"github.com/spf13/cobra"
)

// platformDescription is the on-disk JSON shape a "generate" invocation
// reads: a flat list of IORT objects, keyed by kind. The configuration
// repository itself (§4.8) has no notion of JSON; this is the CLI's own
// translation layer, same as pedumper's prettyPrint/json.Marshal glue.
type platformDescription struct {
	ITSGroups       []generator.ITSGroupObject       `json:"its_groups,omitempty"`
	NamedComponents []generator.NamedComponentObject `json:"named_components,omitempty"`
	RootComplexes   []generator.RootComplexObject    `json:"root_complexes,omitempty"`
}

func loadPlatformDescription(path string) (*platformDescription, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var desc platformDescription
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

func buildIORTRepository(desc *platformDescription) *generator.MemRepository {
	repo := generator.NewMemRepository()
	for i := range desc.ITSGroups {
		o := desc.ITSGroups[i]
		repo.AddObject(generator.ObjIortITSGroup, o.Token, &o)
	}
	for i := range desc.NamedComponents {
		o := desc.NamedComponents[i]
		repo.AddObject(generator.ObjIortNamedComponent, o.Token, &o)
	}
	for i := range desc.RootComplexes {
		o := desc.RootComplexes[i]
		repo.AddObject(generator.ObjIortRootComplex, o.Token, &o)
	}
	return repo
}

func newGenerateCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "generate [iort] <platform.json>",
		Short: "Assemble a byte-exact ACPI table from a platform object description",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			table, path := args[0], args[1]

			desc, err := loadPlatformDescription(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "acpidump: %s: %v\n", path, err)
				os.Exit(1)
			}

			var buf []byte
			switch table {
			case "iort":
				repo := buildIORTRepository(desc)
				buf, err = generator.GenerateIORT(repo, generator.HeaderFields{
					Revision:        0,
					OEMID:           [6]byte{'A', 'C', 'P', 'I', 'K', 'T'},
					OEMTableID:      [8]byte{'A', 'C', 'P', 'I', 'P', 'A', 'R', 'S'},
					CreatorID:       [4]byte{'A', 'C', 'P', 'K'},
					CreatorRevision: 1,
				})
			default:
				fmt.Fprintf(os.Stderr, "acpidump: unsupported table kind %q (want: iort)\n", table)
				os.Exit(1)
			}

			if err != nil {
				fmt.Fprintf(os.Stderr, "acpidump: generation failed: %v\n", err)
				os.Exit(1)
			}

			if outPath == "" {
				os.Stdout.Write(buf)
				return
			}
			if err := ioutil.WriteFile(outPath, buf, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "acpidump: %s: %v\n", outPath, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the generated table to this path instead of stdout")
	return cmd
}
