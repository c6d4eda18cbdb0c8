// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// MADT sub-structure type tags (ACPI 6.3 §5.2.12).
const (
	MadtLocalAPIC               uint8 = 0x00
	MadtIOAPIC                  uint8 = 0x01
	MadtInterruptSourceOverride uint8 = 0x02
	MadtNMISource               uint8 = 0x03
	MadtLocalAPICNMI            uint8 = 0x04
	MadtLocalAPICAddressOverride uint8 = 0x05
	MadtIOSAPIC                 uint8 = 0x06
	MadtLocalSAPIC              uint8 = 0x07
	MadtPlatformInterruptSources uint8 = 0x08
	MadtLocalX2APIC             uint8 = 0x09
	MadtLocalX2APICNMI          uint8 = 0x0A
	MadtGICC                    uint8 = 0x0B
	MadtGICD                    uint8 = 0x0C
	MadtGICMSIFrame             uint8 = 0x0D
	MadtGICR                    uint8 = 0x0E
	MadtGICITS                  uint8 = 0x0F

	madtEntryCount = 0x10
)

// MADTInfo carries the fixed portion of the Multiple APIC Description Table
// plus the two cross-validated accumulators scenarios 2-4 exercise: the GICD
// instance count and the set of ACPI Processor UIDs seen across LocalAPIC,
// LocalX2APIC and GICC entries.
type MADTInfo struct {
	Header           *HeaderInfo
	LocalApicAddress []byte
	Flags            []byte

	gicdOffsets []uint32
	procUIDs    CrossList
}

func madtFixedFields(info *MADTInfo) []Field {
	return []Field{
		{Name: "LocalApicAddress", Length: 4, Offset: 36, Format: "LocalApicAddress: 0x%X", Capture: &info.LocalApicAddress},
		{Name: "Flags", Length: 4, Offset: 40, Format: "Flags: 0x%X", Capture: &info.Flags},
	}
}

// GICDInfo is zero-valued by its struct literal before ParseStruct ever
// touches it, so every capture slot reads as nil (not a stale pointer) until
// Parse populates it — the Go shape of §9(c)'s "initialize before dereference"
// fix for AddGICD.
type GICDInfo struct {
	GICID              []byte
	GlobalSystemInterruptBase []byte
}

func gicdFields(info *GICDInfo) []Field {
	return []Field{
		{Length: 2, Offset: 2}, // Reserved
		{Name: "GICID", Length: 4, Offset: 4, Format: "GICID: %d", Capture: &info.GICID},
		{Name: "GlobalSystemInterruptBase", Length: 4, Offset: 8, Format: "GlobalSystemInterruptBase: 0x%X", Capture: &info.GlobalSystemInterruptBase},
	}
}

func madtDatabase(info *MADTInfo) *Database {
	localAPICFields := func() []Field {
		var uid, apicID, flags []byte
		return []Field{
			{Name: "ACPIProcessorUID", Length: 1, Offset: 2, Format: "ACPIProcessorUID: %d", Capture: &uid},
			{Name: "APICID", Length: 1, Offset: 3, Format: "APICID: %d", Capture: &apicID},
			{Name: "Flags", Length: 4, Offset: 4, Format: "Flags: 0x%X", Capture: &flags},
		}
	}

	ioapicFields := []Field{
		{Name: "IOAPICID", Length: 1, Offset: 2, Format: "IOAPICID: %d"},
		{Length: 1, Offset: 3}, // Reserved
		{Name: "IOAPICAddress", Length: 4, Offset: 4, Format: "IOAPICAddress: 0x%X"},
		{Name: "GlobalSystemInterruptBase", Length: 4, Offset: 8, Format: "GlobalSystemInterruptBase: 0x%X"},
	}

	isoFields := []Field{
		{Name: "Bus", Length: 1, Offset: 2, Format: "Bus: %d"},
		{Name: "Source", Length: 1, Offset: 3, Format: "Source: %d"},
		{Name: "GlobalSystemInterrupt", Length: 4, Offset: 4, Format: "GlobalSystemInterrupt: 0x%X"},
		{Name: "Flags", Length: 2, Offset: 8, Format: "Flags: 0x%X"},
	}

	nmiSourceFields := []Field{
		{Name: "Flags", Length: 2, Offset: 2, Format: "Flags: 0x%X"},
		{Name: "GlobalSystemInterrupt", Length: 4, Offset: 4, Format: "GlobalSystemInterrupt: 0x%X"},
	}

	lapicNMIFields := []Field{
		{Name: "ACPIProcessorUID", Length: 1, Offset: 2, Format: "ACPIProcessorUID: %d"},
		{Name: "Flags", Length: 2, Offset: 3, Format: "Flags: 0x%X"},
		{Name: "LINT", Length: 1, Offset: 5, Format: "LINT: %d"},
	}

	lapicAddrOverrideFields := []Field{
		{Length: 2, Offset: 2}, // Reserved
		{Name: "Address", Length: 8, Offset: 4, Format: "Address: 0x%X"},
	}

	iosapicFields := []Field{
		{Name: "IOAPICID", Length: 1, Offset: 2, Format: "IOAPICID: %d"},
		{Length: 1, Offset: 3}, // Reserved
		{Name: "GlobalSystemInterruptBase", Length: 4, Offset: 4, Format: "GlobalSystemInterruptBase: 0x%X"},
		{Name: "IOSAPICAddress", Length: 8, Offset: 8, Format: "IOSAPICAddress: 0x%X"},
	}

	lsapicFields := []Field{
		{Name: "ACPIProcessorID", Length: 1, Offset: 2, Format: "ACPIProcessorID: %d"},
		{Name: "LocalSAPICID", Length: 1, Offset: 3, Format: "LocalSAPICID: %d"},
		{Name: "LocalSAPICEID", Length: 1, Offset: 4, Format: "LocalSAPICEID: %d"},
		{Length: 3, Offset: 5}, // Reserved
		{Name: "Flags", Length: 4, Offset: 8, Format: "Flags: 0x%X"},
		{Name: "ACPIProcessorUIDValue", Length: 4, Offset: 12, Format: "ACPIProcessorUIDValue: 0x%X"},
	}

	platformInterruptFields := []Field{
		{Name: "Flags", Length: 2, Offset: 2, Format: "Flags: 0x%X"},
		{Name: "InterruptType", Length: 1, Offset: 4, Format: "InterruptType: %d"},
		{Name: "ProcessorID", Length: 1, Offset: 5, Format: "ProcessorID: %d"},
		{Name: "ProcessorEID", Length: 1, Offset: 6, Format: "ProcessorEID: %d"},
		{Name: "IOSAPICVector", Length: 1, Offset: 7, Format: "IOSAPICVector: %d"},
		{Name: "GlobalSystemInterrupt", Length: 4, Offset: 8, Format: "GlobalSystemInterrupt: 0x%X"},
		{Name: "PlatformInterruptSourceFlags", Length: 4, Offset: 12, Format: "PlatformInterruptSourceFlags: 0x%X"},
	}

	x2apicFields := func() []Field {
		var uid []byte
		return []Field{
			{Length: 2, Offset: 2}, // Reserved
			{Name: "X2ApicID", Length: 4, Offset: 4, Format: "X2ApicID: 0x%X"},
			{Name: "Flags", Length: 4, Offset: 8, Format: "Flags: 0x%X"},
			{Name: "ACPIProcessorUID", Length: 4, Offset: 12, Format: "ACPIProcessorUID: 0x%X", Capture: &uid},
		}
	}

	x2apicNMIFields := []Field{
		{Name: "Flags", Length: 2, Offset: 2, Format: "Flags: 0x%X"},
		{Name: "ACPIProcessorUID", Length: 4, Offset: 4, Format: "ACPIProcessorUID: 0x%X"},
		{Name: "LocalX2APICLINT", Length: 1, Offset: 8, Format: "LocalX2APICLINT: %d"},
	}

	giccFields := []Field{
		{Name: "CPUInterfaceNumber", Length: 4, Offset: 4, Format: "CPUInterfaceNumber: 0x%X"},
		{Name: "ACPIProcessorUID", Length: 4, Offset: 8, Format: "ACPIProcessorUID: 0x%X"},
		{Name: "Flags", Length: 4, Offset: 12, Format: "Flags: 0x%X"},
		{Name: "ParkingProtocolVersion", Length: 4, Offset: 16, Format: "ParkingProtocolVersion: 0x%X"},
		{Name: "PerformanceInterruptGSIV", Length: 4, Offset: 20, Format: "PerformanceInterruptGSIV: 0x%X"},
		{Name: "ParkedAddress", Length: 8, Offset: 24, Format: "ParkedAddress: 0x%X"},
		{Name: "PhysicalBaseAddress", Length: 8, Offset: 32, Format: "PhysicalBaseAddress: 0x%X"},
		{Name: "GICV", Length: 8, Offset: 40, Format: "GICV: 0x%X"},
		{Name: "GICH", Length: 8, Offset: 48, Format: "GICH: 0x%X"},
		{Name: "VGICMaintenanceInterrupt", Length: 4, Offset: 56, Format: "VGICMaintenanceInterrupt: 0x%X"},
		{Name: "GICRBaseAddress", Length: 8, Offset: 60, Format: "GICRBaseAddress: 0x%X"},
		{Name: "MPIDR", Length: 8, Offset: 68, Format: "MPIDR: 0x%X"},
		// SpeOverflowInterrupt occupies bytes reserved in revisions <= 6.2 of
		// the ACPI spec; the field is always declared so the byte layout is
		// identical across revisions, per §9(d) — only whether the value is
		// meaningful changes, never the offset.
		{Name: "SpeOverflowInterrupt", Length: 2, Offset: 76, Format: "SpeOverflowInterrupt: 0x%X"},
	}

	msiFrameFields := []Field{
		{Length: 2, Offset: 2}, // Reserved
		{Name: "GICMSIFrameID", Length: 4, Offset: 4, Format: "GICMSIFrameID: 0x%X"},
		{Name: "PhysicalBaseAddress", Length: 8, Offset: 8, Format: "PhysicalBaseAddress: 0x%X"},
		{Name: "Flags", Length: 4, Offset: 16, Format: "Flags: 0x%X"},
		{Name: "SPICount", Length: 2, Offset: 20, Format: "SPICount: %d"},
		{Name: "SPIBase", Length: 2, Offset: 22, Format: "SPIBase: %d"},
	}

	gicrFields := []Field{
		{Length: 2, Offset: 2}, // Reserved
		{Name: "DiscoveryRangeBaseAddress", Length: 8, Offset: 4, Format: "DiscoveryRangeBaseAddress: 0x%X"},
		{Name: "DiscoveryRangeLength", Length: 4, Offset: 12, Format: "DiscoveryRangeLength: 0x%X"},
	}

	gicitsFields := []Field{
		{Length: 2, Offset: 2}, // Reserved
		{Name: "GICITSID", Length: 4, Offset: 4, Format: "GICITSID: 0x%X"},
		{Name: "PhysicalBaseAddress", Length: 8, Offset: 8, Format: "PhysicalBaseAddress: 0x%X"},
		{Length: 4, Offset: 16}, // Reserved
	}

	return NewDatabase("MADT", []RegistryEntry{
		{Type: MadtLocalAPIC, Name: "Processor Local APIC", Arch: ArchIA32 | ArchX64, Handler: FieldTableHandler(localAPICFields())},
		{Type: MadtIOAPIC, Name: "I/O APIC", Arch: ArchIA32 | ArchX64, Handler: FieldTableHandler(ioapicFields)},
		{Type: MadtInterruptSourceOverride, Name: "Interrupt Source Override", Arch: ArchIA32 | ArchX64, Handler: FieldTableHandler(isoFields)},
		{Type: MadtNMISource, Name: "NMI Source", Arch: ArchIA32 | ArchX64, Handler: FieldTableHandler(nmiSourceFields)},
		{Type: MadtLocalAPICNMI, Name: "Local APIC NMI", Arch: ArchIA32 | ArchX64, Handler: FieldTableHandler(lapicNMIFields)},
		{Type: MadtLocalAPICAddressOverride, Name: "Local APIC Address Override", Arch: ArchIA32 | ArchX64, Handler: FieldTableHandler(lapicAddrOverrideFields)},
		{Type: MadtIOSAPIC, Name: "I/O SAPIC", Arch: ArchIA32 | ArchX64, Handler: FieldTableHandler(iosapicFields)},
		{Type: MadtLocalSAPIC, Name: "Local SAPIC", Arch: ArchIA32 | ArchX64, Handler: FieldTableHandler(lsapicFields)},
		{Type: MadtPlatformInterruptSources, Name: "Platform Interrupt Sources", Arch: ArchIA32 | ArchX64, Handler: FieldTableHandler(platformInterruptFields)},
		{Type: MadtLocalX2APIC, Name: "Processor Local x2APIC", Arch: ArchX64, Handler: FieldTableHandler(x2apicFields())},
		{Type: MadtLocalX2APICNMI, Name: "Local x2APIC NMI", Arch: ArchX64, Handler: FieldTableHandler(x2apicNMIFields)},
		{Type: MadtGICC, Name: "GICC", Arch: ArchARM | ArchAARCH64, Handler: FieldTableHandler(giccFields)},
		{Type: MadtGICD, Name: "GICD", Arch: ArchARM | ArchAARCH64, Handler: CustomHandler(madtGICDHandler(info))},
		{Type: MadtGICMSIFrame, Name: "GIC MSI Frame", Arch: ArchARM | ArchAARCH64, Handler: FieldTableHandler(msiFrameFields)},
		{Type: MadtGICR, Name: "GICR", Arch: ArchARM | ArchAARCH64, Handler: FieldTableHandler(gicrFields)},
		{Type: MadtGICITS, Name: "GIC ITS", Arch: ArchARM | ArchAARCH64, Handler: FieldTableHandler(gicitsFields)},
	})
}

// madtGICDHandler returns a CustomDispatcher that parses one GICD
// sub-structure and appends one entry to info.gicdOffsets for the "at most
// one GICD" cross-check ParseMADT runs after the walk completes.
func madtGICDHandler(info *MADTInfo) CustomDispatcher {
	return func(sink *log.Sink, trace bool, data []byte, length uint32) {
		gicd := &GICDInfo{}
		Parse(sink, trace, "GICD", data, gicdFields(gicd))
		// The sub-structure length is appended here only as a placeholder;
		// ParseMADT overwrites it with the table-absolute offset of the
		// sub-structure before the cross-check runs.
		info.gicdOffsets = append(info.gicdOffsets, length)
	}
}

// ParseMADT parses the Multiple APIC Description Table: the common header,
// the two fixed fields, then every variable-length sub-structure in order
// (§4.2). After the walk, in consistency mode, it runs two cross-checks:
// scenario 3's "only one GICD" rule and scenario 4's duplicate ACPI Processor
// UID rule.
func ParseMADT(sink *log.Sink, buf []byte) *MADTInfo {
	header, n := ParseHeader(sink, buf)
	info := &MADTInfo{Header: header}
	if uint32(len(buf)) < n {
		sink.Errorf(log.KindLength, "MADT: buffer shorter than header")
		return info
	}

	VerifyChecksum(sink, "MADT", buf)
	offset := Parse(sink, true, "MADT", buf, madtFixedFields(info))

	db := madtDatabase(info)
	db.Reset()

	for offset < uint32(len(buf)) {
		sub := ParseSubHeader(sink, buf[offset:])
		if len(sub.Type) == 0 || len(sub.Length) == 0 {
			break
		}
		typeTag := sub.Type[0]
		subLen := uint32(sub.Length[0])
		if subLen < 2 || offset+subLen > uint32(len(buf)) {
			sink.Errorf(log.KindLength, "MADT: sub-structure at +0x%x declares an out-of-range length %d", offset, subLen)
			break
		}

		entryStart := offset
		ParseStruct(sink, db, offset, typeTag, subLen, buf[offset:offset+subLen])

		if typeTag == MadtGICD {
			info.gicdOffsets[len(info.gicdOffsets)-1] = entryStart
		}
		if typeTag == MadtLocalAPIC && subLen >= 3 {
			info.procUIDs = append(info.procUIDs, CrossEntry{Data: buf[offset+2 : offset+3], Type: typeTag, Offset: entryStart})
		}
		if typeTag == MadtLocalX2APIC && subLen >= 16 {
			info.procUIDs = append(info.procUIDs, CrossEntry{Data: buf[offset+12 : offset+16], Type: typeTag, Offset: entryStart})
		}
		if typeTag == MadtGICC && subLen >= 12 {
			info.procUIDs = append(info.procUIDs, CrossEntry{Data: buf[offset+8 : offset+12], Type: typeTag, Offset: entryStart})
		}

		offset += subLen
	}

	ReportArchCompatibility(sink, db)

	if !sink.ConsistencyMode {
		return info
	}

	if len(info.gicdOffsets) > 1 {
		sink.Errorf(log.KindCross, "MADT: only one GICD must be present, found %d", len(info.gicdOffsets))
	}

	CheckUnique(sink, info.procUIDs, func(a, b []byte) bool {
		return string(a) == string(b)
	}, "MADT", "ACPI Processor UID")

	return info
}
