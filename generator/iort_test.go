// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package generator

import (
	"encoding/binary"
	"testing"
)

// §8 scenario 6: one ITS Group (ids={1,2}) plus one Root Complex referencing
// it. The generated table's length must match the formula, the Root
// Complex's id-mapping OutputReference must resolve to the ITS group's
// offset, and the whole buffer's byte-sum mod 256 must be zero.
func TestGenerateIORTITSGroupAndRootComplex(t *testing.T) {
	repo := NewMemRepository()

	itsToken := Token(1)
	its := &ITSGroupObject{Token: itsToken, ITUIdentifiers: []uint32{1, 2}}
	repo.AddObject(ObjIortITSGroup, itsToken, its)

	rc := &RootComplexObject{
		Token:            Token(2),
		PCISegmentNumber: 0,
		IDMappings: []IDMapping{
			{InputBase: 0, NumIDs: 2, OutputBase: 0, OutputReference: itsToken},
		},
	}
	repo.AddObject(ObjIortRootComplex, rc.Token, rc)

	buf, err := GenerateIORT(repo, HeaderFields{
		OEMID:           [6]byte{'T', 'E', 'S', 'T', 0, 0},
		OEMTableID:      [8]byte{'T', 'E', 'S', 'T', 0, 0, 0, 0},
		CreatorID:       [4]byte{'T', 'E', 'S', 'T'},
		CreatorRevision: 1,
	})
	if err != nil {
		t.Fatalf("GenerateIORT failed: %v", err)
	}

	const (
		itsSize = iortNodeHeaderSize + 4 + 2*4 // header + NumITUIdentifiers + 2 ids
		rcSize  = iortNodeHeaderSize + 16 + 1*iortIDMappingSize
	)
	wantLength := uint32(iortFixedSize + itsSize + rcSize)
	if len(buf) != int(wantLength) {
		t.Fatalf("generated table length = %d, want %d", len(buf), wantLength)
	}

	if sig := string(buf[0:4]); sig != "IORT" {
		t.Fatalf("signature = %q, want IORT", sig)
	}
	if got := binary.LittleEndian.Uint32(buf[4:8]); got != wantLength {
		t.Fatalf("header Length = %d, want %d", got, wantLength)
	}
	if got := binary.LittleEndian.Uint32(buf[36:40]); got != 2 {
		t.Fatalf("NumNodes = %d, want 2", got)
	}

	itsOffset := uint32(iortFixedSize)
	rcOffset := itsOffset + itsSize

	if got := buf[itsOffset]; got != iortTypeITSGroup {
		t.Fatalf("first node type = %d, want ITS Group (%d)", got, iortTypeITSGroup)
	}
	if got := buf[rcOffset]; got != iortTypeRootComplex {
		t.Fatalf("second node type = %d, want Root Complex (%d)", got, iortTypeRootComplex)
	}

	rcMappingOffsetField := binary.LittleEndian.Uint32(buf[rcOffset+12 : rcOffset+16])
	mappingStart := rcOffset + rcMappingOffsetField
	outputRef := binary.LittleEndian.Uint32(buf[mappingStart+12 : mappingStart+16])
	if outputRef != itsOffset {
		t.Fatalf("Root Complex id-mapping OutputReference = %d, want the ITS group's offset %d", outputRef, itsOffset)
	}

	var sum uint8
	for _, b := range buf {
		sum += b
	}
	if sum != 0 {
		t.Fatalf("table byte-sum mod 256 = %d, want 0", sum)
	}
}
