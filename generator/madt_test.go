// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package generator

import (
	"encoding/binary"
	"testing"
)

func TestGenerateMADTOneGICCOneGICD(t *testing.T) {
	repo := NewMemRepository()
	gicc := &GICCObject{Token: 1, ACPIProcessorUID: 7, PhysicalBaseAddress: 0xE000}
	gicd := &GICDObject{Token: 2, GICID: 0, GlobalSystemInterruptBase: 0}
	repo.AddObject(ObjMadtGICC, gicc.Token, gicc)
	repo.AddObject(ObjMadtGICD, gicd.Token, gicd)

	buf, err := GenerateMADT(repo, HeaderFields{CreatorID: [4]byte{'T', 'E', 'S', 'T'}}, 0xFEE00000, 1)
	if err != nil {
		t.Fatalf("GenerateMADT failed: %v", err)
	}

	wantLength := madtFixedSize + madtGICCSize + madtGICDSize
	if len(buf) != wantLength {
		t.Fatalf("table length = %d, want %d", len(buf), wantLength)
	}
	if sig := string(buf[0:4]); sig != "APIC" {
		t.Fatalf("signature = %q, want APIC", sig)
	}
	if got := binary.LittleEndian.Uint32(buf[36:40]); got != 0xFEE00000 {
		t.Fatalf("LocalApicAddress = 0x%x, want 0xFEE00000", got)
	}

	giccOffset := madtFixedSize
	gicdOffset := giccOffset + madtGICCSize
	if got := binary.LittleEndian.Uint32(buf[giccOffset+8 : giccOffset+12]); got != 7 {
		t.Fatalf("GICC ACPIProcessorUID = %d, want 7", got)
	}
	if got := buf[gicdOffset]; got != 0x0C {
		t.Fatalf("second node type = 0x%x, want GICD (0x0C)", got)
	}

	var sum uint8
	for _, b := range buf {
		sum += b
	}
	if sum != 0 {
		t.Fatalf("table byte-sum mod 256 = %d, want 0", sum)
	}
}

func TestGenerateMADTRejectsMultipleGICD(t *testing.T) {
	repo := NewMemRepository()
	repo.AddObject(ObjMadtGICD, Token(1), &GICDObject{Token: 1})
	repo.AddObject(ObjMadtGICD, Token(2), &GICDObject{Token: 2})

	_, err := GenerateMADT(repo, HeaderFields{}, 0, 0)
	if err != ErrTooLarge {
		t.Fatalf("GenerateMADT with two GICDs should fail with ErrTooLarge, got %v", err)
	}
}
