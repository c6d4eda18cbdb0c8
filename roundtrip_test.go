// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"testing"

	"github.com/firmwarekit/acpiparse/generator"
	"github.com/firmwarekit/acpiparse/log"
)

// assertNoTaxonomyErrors fails the test if any record carries one of §7's
// error-kind tags, the shape every Sink.Errorf call produces.
func assertNoTaxonomyErrors(t *testing.T, table string, records []string) {
	t.Helper()
	for _, kind := range []string{"[csum]", "[value]", "[length]", "[parse]", "[cross]"} {
		for _, r := range records {
			if containsAll(r, kind) {
				t.Fatalf("%s: generated table produced an unexpected error: %s", table, r)
			}
		}
	}
}

// §8 "Round-trip": a table assembled by the generator must
// parse under the inspector with zero errors in consistency mode.

func TestRoundTripMADT(t *testing.T) {
	repo := generator.NewMemRepository()
	gicc := &generator.GICCObject{Token: 1, ACPIProcessorUID: 7, PhysicalBaseAddress: 0xE000}
	gicd := &generator.GICDObject{Token: 2, GICID: 0, GlobalSystemInterruptBase: 0}
	repo.AddObject(generator.ObjMadtGICC, gicc.Token, gicc)
	repo.AddObject(generator.ObjMadtGICD, gicd.Token, gicd)

	buf, err := generator.GenerateMADT(repo, generator.HeaderFields{
		OEMID:           [6]byte{'T', 'E', 'S', 'T', 0, 0},
		OEMTableID:      [8]byte{'T', 'E', 'S', 'T', 0, 0, 0, 0},
		CreatorID:       [4]byte{'T', 'E', 'S', 'T'},
		CreatorRevision: 1,
	}, 0xFEE00000, 1)
	if err != nil {
		t.Fatalf("GenerateMADT failed: %v", err)
	}

	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))
	sink.ConsistencyMode = true
	ParseMADT(sink, buf)

	assertNoTaxonomyErrors(t, "MADT", records)
}

func TestRoundTripMCFG(t *testing.T) {
	repo := generator.NewMemRepository()
	alloc := &generator.MCFGAllocationObject{
		Token:       1,
		BaseAddress: 0xE0000000,
		PCISegment:  0,
		StartBusNum: 0,
		EndBusNum:   0xFF,
	}
	repo.AddObject(generator.ObjMcfgAllocation, alloc.Token, alloc)

	buf, err := generator.GenerateMCFG(repo, generator.HeaderFields{
		CreatorID:       [4]byte{'T', 'E', 'S', 'T'},
		CreatorRevision: 1,
	})
	if err != nil {
		t.Fatalf("GenerateMCFG failed: %v", err)
	}

	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))
	sink.ConsistencyMode = true
	ParseMCFG(sink, buf)

	assertNoTaxonomyErrors(t, "MCFG", records)
}

func TestRoundTripSRAT(t *testing.T) {
	repo := generator.NewMemRepository()
	mem := &generator.MemoryAffinityObject{Token: 1, ProximityDomain: 2, BaseAddressLow: 0x1000, LengthLow: 0x2000}
	gicc := &generator.GICCAffinityObject{Token: 2, ProximityDomain: 2, ACPIProcessorUID: 3, ClockDomain: 0}
	repo.AddObject(generator.ObjSratMemoryAffinity, mem.Token, mem)
	repo.AddObject(generator.ObjSratGICCAffinity, gicc.Token, gicc)

	buf, err := generator.GenerateSRAT(repo, generator.HeaderFields{
		CreatorID:       [4]byte{'T', 'E', 'S', 'T'},
		CreatorRevision: 1,
	})
	if err != nil {
		t.Fatalf("GenerateSRAT failed: %v", err)
	}

	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))
	sink.ConsistencyMode = true
	ParseSRAT(sink, buf)

	assertNoTaxonomyErrors(t, "SRAT", records)
}

func TestRoundTripIORT(t *testing.T) {
	repo := generator.NewMemRepository()
	itsToken := generator.Token(1)
	its := &generator.ITSGroupObject{Token: itsToken, ITUIdentifiers: []uint32{1, 2}}
	repo.AddObject(generator.ObjIortITSGroup, itsToken, its)

	rc := &generator.RootComplexObject{
		Token: generator.Token(2),
		IDMappings: []generator.IDMapping{
			{InputBase: 0, NumIDs: 2, OutputBase: 0, OutputReference: itsToken},
		},
	}
	repo.AddObject(generator.ObjIortRootComplex, rc.Token, rc)

	buf, err := generator.GenerateIORT(repo, generator.HeaderFields{
		OEMID:           [6]byte{'T', 'E', 'S', 'T', 0, 0},
		OEMTableID:      [8]byte{'T', 'E', 'S', 'T', 0, 0, 0, 0},
		CreatorID:       [4]byte{'T', 'E', 'S', 'T'},
		CreatorRevision: 1,
	})
	if err != nil {
		t.Fatalf("GenerateIORT failed: %v", err)
	}

	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))
	sink.ConsistencyMode = true
	ParseIORT(sink, buf)

	assertNoTaxonomyErrors(t, "IORT", records)
}
