// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// SRAT sub-structure type tags (ACPI 6.3 §5.2.16).
const (
	SratLocalApicAffinity    uint8 = 0x00
	SratMemoryAffinity       uint8 = 0x01
	SratLocalX2ApicAffinity  uint8 = 0x02
	SratGICCAffinity         uint8 = 0x03
	SratGICITSAffinity       uint8 = 0x04
	SratGenericInitiatorAffinity uint8 = 0x05

	sratEntryCount = 0x06
)

// SRATInfo carries the System Resource Affinity Table's fixed fields. Every
// variable-length entry below is dispatched through db, mirroring MADT's
// walk (§4.2 applies uniformly to every table with a sub-structure region).
type SRATInfo struct {
	Header *HeaderInfo
}

func sratFixedFields() []Field {
	return []Field{
		{Length: 4, Offset: 36}, // Reserved (used to be Table Revision)
		{Length: 8, Offset: 40}, // Reserved
	}
}

func sratDatabase() *Database {
	lapicAffinityFields := []Field{
		{Name: "ProximityDomain_7_0", Length: 1, Offset: 2, Format: "ProximityDomain[7:0]: %d"},
		{Name: "APICID", Length: 1, Offset: 3, Format: "APICID: %d"},
		{Name: "Flags", Length: 4, Offset: 4, Format: "Flags: 0x%X"},
		{Name: "LocalSAPICEID", Length: 1, Offset: 8, Format: "LocalSAPICEID: %d"},
		{Name: "ProximityDomain_31_8", Length: 3, Offset: 9, Render: RenderHex},
		{Name: "ClockDomain", Length: 4, Offset: 12, Format: "ClockDomain: 0x%X"},
	}

	memAffinityFields := []Field{
		{Name: "ProximityDomain", Length: 4, Offset: 2, Format: "ProximityDomain: %d"},
		{Length: 2, Offset: 6}, // Reserved
		{Name: "BaseAddressLow", Length: 4, Offset: 8, Format: "BaseAddressLow: 0x%X"},
		{Name: "BaseAddressHigh", Length: 4, Offset: 12, Format: "BaseAddressHigh: 0x%X"},
		{Name: "LengthLow", Length: 4, Offset: 16, Format: "LengthLow: 0x%X"},
		{Name: "LengthHigh", Length: 4, Offset: 20, Format: "LengthHigh: 0x%X"},
		{Length: 4, Offset: 24}, // Reserved
		{Name: "Flags", Length: 4, Offset: 28, Format: "Flags: 0x%X"},
	}

	x2apicAffinityFields := []Field{
		{Length: 2, Offset: 2}, // Reserved
		{Name: "ProximityDomain", Length: 4, Offset: 4, Format: "ProximityDomain: 0x%X"},
		{Name: "X2ApicID", Length: 4, Offset: 8, Format: "X2ApicID: 0x%X"},
		{Name: "Flags", Length: 4, Offset: 12, Format: "Flags: 0x%X"},
		{Name: "ClockDomain", Length: 4, Offset: 16, Format: "ClockDomain: 0x%X"},
		{Length: 4, Offset: 20}, // Reserved
	}

	giccAffinityFields := []Field{
		{Name: "ProximityDomain", Length: 4, Offset: 2, Format: "ProximityDomain: 0x%X"},
		{Name: "ACPIProcessorUID", Length: 4, Offset: 6, Format: "ACPIProcessorUID: 0x%X"},
		{Name: "Flags", Length: 4, Offset: 10, Format: "Flags: 0x%X"},
		{Name: "ClockDomain", Length: 4, Offset: 14, Format: "ClockDomain: 0x%X"},
	}

	gicitsAffinityFields := []Field{
		{Name: "ProximityDomain", Length: 4, Offset: 2, Format: "ProximityDomain: 0x%X"},
		{Length: 2, Offset: 6}, // Reserved
		{Name: "ITSID", Length: 4, Offset: 8, Format: "ITSID: 0x%X"},
	}

	genericInitiatorFields := []Field{
		{Length: 1, Offset: 2}, // Reserved
		{Name: "DeviceHandleType", Length: 1, Offset: 3, Format: "DeviceHandleType: %d"},
		{Name: "ProximityDomain", Length: 4, Offset: 4, Format: "ProximityDomain: 0x%X"},
		{Name: "DeviceHandle", Length: 16, Offset: 8, Render: RenderHex},
		{Name: "Flags", Length: 4, Offset: 24, Format: "Flags: 0x%X"},
		{Length: 4, Offset: 28}, // Reserved
	}

	return NewDatabase("SRAT", []RegistryEntry{
		{Type: SratLocalApicAffinity, Name: "Processor Local APIC/SAPIC Affinity", Arch: ArchIA32 | ArchX64, Handler: FieldTableHandler(lapicAffinityFields)},
		{Type: SratMemoryAffinity, Name: "Memory Affinity", Arch: ArchAll, Handler: FieldTableHandler(memAffinityFields)},
		{Type: SratLocalX2ApicAffinity, Name: "Processor Local x2APIC Affinity", Arch: ArchX64, Handler: FieldTableHandler(x2apicAffinityFields)},
		{Type: SratGICCAffinity, Name: "GICC Affinity", Arch: ArchARM | ArchAARCH64, Handler: FieldTableHandler(giccAffinityFields)},
		{Type: SratGICITSAffinity, Name: "GIC ITS Affinity", Arch: ArchARM | ArchAARCH64, Handler: FieldTableHandler(gicitsAffinityFields)},
		{Type: SratGenericInitiatorAffinity, Name: "Generic Initiator Affinity", Arch: ArchAll, Handler: FieldTableHandler(genericInitiatorFields)},
	})
}

// ParseSRAT parses the System Resource Affinity Table.
func ParseSRAT(sink *log.Sink, buf []byte) *SRATInfo {
	header, n := ParseHeader(sink, buf)
	info := &SRATInfo{Header: header}
	if uint32(len(buf)) < n {
		sink.Errorf(log.KindLength, "SRAT: buffer shorter than header")
		return info
	}

	VerifyChecksum(sink, "SRAT", buf)
	offset := Parse(sink, true, "SRAT", buf, sratFixedFields())

	db := sratDatabase()
	db.Reset()

	for offset < uint32(len(buf)) {
		sub := ParseSubHeader(sink, buf[offset:])
		if len(sub.Type) == 0 || len(sub.Length) == 0 {
			break
		}
		typeTag := sub.Type[0]
		subLen := uint32(sub.Length[0])
		if subLen < 2 || offset+subLen > uint32(len(buf)) {
			sink.Errorf(log.KindLength, "SRAT: sub-structure at +0x%x declares an out-of-range length %d", offset, subLen)
			break
		}

		ParseStruct(sink, db, offset, typeTag, subLen, buf[offset:offset+subLen])
		offset += subLen
	}

	ReportArchCompatibility(sink, db)
	return info
}
