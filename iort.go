// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// IORT node type tags (ACPI IO Remapping Table, §3 "ITS Group" etc).
const (
	IortITSGroup     uint8 = 0x00
	IortNamedComponent uint8 = 0x01
	IortRootComplex  uint8 = 0x02
	IortSMMUv1v2     uint8 = 0x03
	IortSMMUv3       uint8 = 0x04
	IortPMCG         uint8 = 0x05

	iortNodeHeaderSize = 16
	iortIDMappingSize  = 20
)

// IORTIDMapping is one entry of a node's ID mapping array: a contiguous
// input ID range re-based onto an output ID range, referencing another node
// by table-absolute byte offset (§3 "id-mapping record").
type IORTIDMapping struct {
	InputBase       uint32
	NumIDs          uint32
	OutputBase      uint32
	OutputReference uint32
	Flags           uint32
}

// IORTInfo carries the IO Remapping Table's header and the flattened list of
// every node seen during the walk, indexed by table-absolute offset so
// output-reference fields in the ID mapping arrays can be resolved.
type IORTInfo struct {
	Header *HeaderInfo
	Nodes  CrossList
}

// parseIDMappings reads count mapping entries starting at offset within buf,
// tracing each as an indented item line.
func parseIDMappings(sink *log.Sink, buf []byte, offset, count uint32) []IORTIDMapping {
	leave := sink.Enter()
	defer leave()

	var mappings []IORTIDMapping
	for i := uint32(0); i < count; i++ {
		start := uint64(offset) + uint64(i)*iortIDMappingSize
		if start+iortIDMappingSize > uint64(len(buf)) {
			sink.Errorf(log.KindLength, "IORT: ID mapping %d extends past the end of the table", i)
			break
		}
		entry := buf[start : start+iortIDMappingSize]
		m := IORTIDMapping{
			InputBase:       uint32(readUint(entry[0:4], 4)),
			NumIDs:          uint32(readUint(entry[4:8], 4)),
			OutputBase:      uint32(readUint(entry[8:12], 4)),
			OutputReference: uint32(readUint(entry[12:16], 4)),
			Flags:           uint32(readUint(entry[16:20], 4)),
		}
		sink.Itemf("ID Mapping", int(i), uint32(start))
		sink.Infof("InputBase: 0x%X, NumIDs: %d, OutputBase: 0x%X, OutputReference: 0x%X, Flags: 0x%X",
			m.InputBase, m.NumIDs, m.OutputBase, m.OutputReference, m.Flags)
		mappings = append(mappings, m)
	}
	return mappings
}

func iortITSGroupFields() []Field {
	return []Field{
		{Name: "NumITUs", Length: 4, Offset: 16, Format: "NumITUs: %d"},
		// Followed by NumITUs uint32 GIC ITS identifiers, variable length:
		// left untraced here since it carries no cross-validated semantics.
	}
}

func iortNamedComponentFields() []Field {
	return []Field{
		{Name: "Flags", Length: 4, Offset: 16, Format: "Flags: 0x%X"},
		{Name: "CacheCoherent", Length: 4, Offset: 20, Format: "CacheCoherent: 0x%X"},
		{Name: "AllocationHints", Length: 1, Offset: 24, Format: "AllocationHints: 0x%X"},
		{Length: 2, Offset: 25}, // Reserved
		{Name: "MemoryAccessFlags", Length: 1, Offset: 27, Format: "MemoryAccessFlags: 0x%X"},
		{Name: "AddressSizeLimit", Length: 4, Offset: 28, Format: "AddressSizeLimit: %d"},
		// DeviceObjectName: a NUL-terminated inline string follows at offset
		// 32, padded out to the node's declared length; it has no descriptor
		// since its length is not statically known, and is not rendered.
	}
}

func iortRootComplexFields() []Field {
	return []Field{
		{Name: "MemoryAccessProperties", Length: 4, Offset: 16, Format: "MemoryAccessProperties: 0x%X"},
		{Name: "ATSAttribute", Length: 4, Offset: 20, Format: "ATSAttribute: 0x%X"},
		{Name: "PCISegmentNumber", Length: 4, Offset: 24, Format: "PCISegmentNumber: %d"},
		{Name: "MemoryAddressSizeLimit", Length: 1, Offset: 28, Format: "MemoryAddressSizeLimit: %d"},
		{Length: 3, Offset: 29}, // Reserved
	}
}

func iortSMMUv1v2Fields() []Field {
	return []Field{
		{Name: "Base", Length: 8, Offset: 16, Format: "Base: 0x%X"},
		{Name: "Span", Length: 8, Offset: 24, Format: "Span: 0x%X"},
		{Name: "Model", Length: 4, Offset: 32, Format: "Model: %d"},
		{Name: "Flags", Length: 4, Offset: 36, Format: "Flags: 0x%X"},
		{Name: "GlobalInterruptArrayRef", Length: 4, Offset: 40, Format: "GlobalInterruptArrayRef: 0x%X"},
		{Name: "NumContextInterrupts", Length: 4, Offset: 44, Format: "NumContextInterrupts: %d"},
		{Name: "ContextInterruptArrayRef", Length: 4, Offset: 48, Format: "ContextInterruptArrayRef: 0x%X"},
		{Name: "NumPMUInterrupts", Length: 4, Offset: 52, Format: "NumPMUInterrupts: %d"},
		{Name: "PMUInterruptArrayRef", Length: 4, Offset: 56, Format: "PMUInterruptArrayRef: 0x%X"},
		{Name: "SMMU_NSgIrpt", Length: 4, Offset: 60, Format: "SMMU_NSgIrpt: 0x%X"},
		{Name: "SMMU_NSgIrptFlags", Length: 4, Offset: 64, Format: "SMMU_NSgIrptFlags: 0x%X"},
		{Name: "SMMU_NSgCfgIrpt", Length: 4, Offset: 68, Format: "SMMU_NSgCfgIrpt: 0x%X"},
		{Name: "SMMU_NSgCfgIrptFlags", Length: 4, Offset: 72, Format: "SMMU_NSgCfgIrptFlags: 0x%X"},
	}
}

func iortSMMUv3Fields() []Field {
	return []Field{
		{Name: "Base", Length: 8, Offset: 16, Format: "Base: 0x%X"},
		{Name: "Flags", Length: 4, Offset: 24, Format: "Flags: 0x%X"},
		{Length: 4, Offset: 28}, // Reserved
		{Name: "VATOSAddress", Length: 8, Offset: 32, Format: "VATOSAddress: 0x%X"},
		{Name: "Model", Length: 4, Offset: 40, Format: "Model: %d"},
		{Name: "Event", Length: 4, Offset: 44, Format: "Event: 0x%X"},
		{Name: "Pri", Length: 4, Offset: 48, Format: "Pri: 0x%X"},
		{Name: "Gerr", Length: 4, Offset: 52, Format: "Gerr: 0x%X"},
		{Name: "Sync", Length: 4, Offset: 56, Format: "Sync: 0x%X"},
		{Name: "ProximityDomain", Length: 4, Offset: 60, Format: "ProximityDomain: 0x%X"},
		{Name: "DeviceIDMappingIndex", Length: 4, Offset: 64, Format: "DeviceIDMappingIndex: %d"},
	}
}

func iortPMCGFields() []Field {
	return []Field{
		{Name: "Base", Length: 8, Offset: 16, Format: "Base: 0x%X"},
		{Name: "OverflowInterruptGSIV", Length: 4, Offset: 24, Format: "OverflowInterruptGSIV: 0x%X"},
		{Name: "NodeReference", Length: 4, Offset: 28, Format: "NodeReference: 0x%X"},
		{Name: "PageSize1Base", Length: 8, Offset: 32, Format: "PageSize1Base: 0x%X"},
	}
}

// iortFieldHandler wraps a fixed field table with the common ID mapping
// array parse every node kind shares: parse fixed body fields, then walk
// NumIDMappings entries at IDMappingOffset (§3 "Structure handler": the
// field-table kind handles the fixed part; the shared suffix is folded into
// every closure here rather than expressed as a base class).
func iortFieldHandler(fields []Field) CustomDispatcher {
	return func(sink *log.Sink, trace bool, data []byte, length uint32) {
		Parse(sink, trace, "IORT node", data, fields)
		if len(data) < iortNodeHeaderSize {
			return
		}
		numMappings := uint32(readUint(data[8:12], 4))
		mappingOffset := uint32(readUint(data[12:16], 4))
		if numMappings == 0 {
			return
		}
		parseIDMappings(sink, data, mappingOffset, numMappings)
	}
}

func iortDatabase() *Database {
	return NewDatabase("IORT", []RegistryEntry{
		{Type: IortITSGroup, Name: "ITS Group", Arch: ArchARM | ArchAARCH64, Handler: CustomHandler(iortFieldHandler(iortITSGroupFields()))},
		{Type: IortNamedComponent, Name: "Named Component", Arch: ArchARM | ArchAARCH64, Handler: CustomHandler(iortFieldHandler(iortNamedComponentFields()))},
		{Type: IortRootComplex, Name: "Root Complex", Arch: ArchARM | ArchAARCH64, Handler: CustomHandler(iortFieldHandler(iortRootComplexFields()))},
		{Type: IortSMMUv1v2, Name: "SMMUv1/SMMUv2", Arch: ArchARM | ArchAARCH64, Handler: CustomHandler(iortFieldHandler(iortSMMUv1v2Fields()))},
		{Type: IortSMMUv3, Name: "SMMUv3", Arch: ArchARM | ArchAARCH64, Handler: CustomHandler(iortFieldHandler(iortSMMUv3Fields()))},
		{Type: IortPMCG, Name: "PMCG", Arch: ArchARM | ArchAARCH64, Handler: CustomHandler(iortFieldHandler(iortPMCGFields()))},
	})
}

// ParseIORT parses the IO Remapping Table: the header, the node count and
// array offset, then every node in turn, each followed by its ID mapping
// array (§4.2's dispatch loop generalized to a 4-byte type+length+revision
// node header instead of MADT's 1-byte type+length).
func ParseIORT(sink *log.Sink, buf []byte) *IORTInfo {
	header, n := ParseHeader(sink, buf)
	info := &IORTInfo{Header: header}
	if uint32(len(buf)) < n+8 {
		sink.Errorf(log.KindLength, "IORT: buffer shorter than header plus node count and offset")
		return info
	}

	VerifyChecksum(sink, "IORT", buf)

	var numNodes, nodeOffsetField []byte
	Parse(sink, true, "IORT", buf, []Field{
		{Name: "NumNodes", Length: 4, Offset: 36, Format: "NumNodes: %d", Capture: &numNodes},
		{Name: "NodeOffset", Length: 4, Offset: 40, Format: "NodeOffset: 0x%X", Capture: &nodeOffsetField},
	})

	count := uint32(readUint(numNodes, 4))
	offset := uint32(readUint(nodeOffsetField, 4))

	db := iortDatabase()
	db.Reset()

	for i := uint32(0); i < count && offset < uint32(len(buf)); i++ {
		if offset+iortNodeHeaderSize > uint32(len(buf)) {
			sink.Errorf(log.KindLength, "IORT: node %d header extends past the end of the table", i)
			break
		}
		typeTag := buf[offset]
		length := uint32(readUint(buf[offset+1:offset+3], 2))
		if length < iortNodeHeaderSize || offset+length > uint32(len(buf)) {
			sink.Errorf(log.KindLength, "IORT: node at +0x%x declares an out-of-range length %d", offset, length)
			break
		}

		ParseStruct(sink, db, offset, typeTag, length, buf[offset:offset+length])
		info.Nodes = append(info.Nodes, CrossEntry{Data: buf[offset : offset+length], Type: typeTag, Offset: offset})

		offset += length
	}

	ReportArchCompatibility(sink, db)
	return info
}
