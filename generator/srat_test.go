// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package generator

import (
	"encoding/binary"
	"testing"
)

func TestGenerateSRATMemoryAndGICCAffinity(t *testing.T) {
	repo := NewMemRepository()
	mem := &MemoryAffinityObject{Token: 1, ProximityDomain: 2, BaseAddressLow: 0x1000, LengthLow: 0x2000}
	gicc := &GICCAffinityObject{Token: 2, ProximityDomain: 2, ACPIProcessorUID: 3, ClockDomain: 0}
	repo.AddObject(ObjSratMemoryAffinity, mem.Token, mem)
	repo.AddObject(ObjSratGICCAffinity, gicc.Token, gicc)

	buf, err := GenerateSRAT(repo, HeaderFields{CreatorID: [4]byte{'T', 'E', 'S', 'T'}})
	if err != nil {
		t.Fatalf("GenerateSRAT failed: %v", err)
	}

	wantLength := sratFixedSize + sratMemoryAffinitySize + sratGICCAffinitySize
	if len(buf) != wantLength {
		t.Fatalf("table length = %d, want %d", len(buf), wantLength)
	}
	if sig := string(buf[0:4]); sig != "SRAT" {
		t.Fatalf("signature = %q, want SRAT", sig)
	}

	memOffset := sratFixedSize
	giccOffset := memOffset + sratMemoryAffinitySize
	if got := binary.LittleEndian.Uint32(buf[memOffset+8 : memOffset+12]); got != 0x1000 {
		t.Fatalf("BaseAddressLow = 0x%x, want 0x1000", got)
	}
	if got := buf[giccOffset]; got != 0x03 {
		t.Fatalf("second node type = 0x%x, want GICC Affinity (0x03)", got)
	}

	var sum uint8
	for _, b := range buf {
		sum += b
	}
	if sum != 0 {
		t.Fatalf("table byte-sum mod 256 = %d, want 0", sum)
	}
}
