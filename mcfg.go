// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// mcfgAllocationSize is the byte size of one PCI Express memory-mapped
// configuration space base address allocation structure.
const mcfgAllocationSize = 12

// MCFGAllocation is one base-address allocation entry from the PCI Express
// Memory Mapped Configuration Table.
type MCFGAllocation struct {
	BaseAddress  []byte
	PCISegment   []byte
	StartBusNum  []byte
	EndBusNum    []byte
}

func mcfgAllocationFields(info *MCFGAllocation) []Field {
	return []Field{
		{Name: "BaseAddress", Length: 8, Offset: 0, Format: "BaseAddress: 0x%X", Capture: &info.BaseAddress},
		{Name: "PCISegmentGroupNumber", Length: 2, Offset: 8, Format: "PCISegmentGroupNumber: %d", Capture: &info.PCISegment},
		{Name: "StartBusNumber", Length: 1, Offset: 10, Format: "StartBusNumber: %d", Capture: &info.StartBusNum},
		{Name: "EndBusNumber", Length: 1, Offset: 11, Format: "EndBusNumber: %d", Capture: &info.EndBusNum},
	}
}

// MCFGInfo carries the PCI Express Memory Mapped Configuration Table: a
// header, 8 reserved bytes, then a packed array of allocation entries.
type MCFGInfo struct {
	Header      *HeaderInfo
	Allocations []*MCFGAllocation
}

// ParseMCFG parses the MCFG table.
func ParseMCFG(sink *log.Sink, buf []byte) *MCFGInfo {
	header, n := ParseHeader(sink, buf)
	info := &MCFGInfo{Header: header}
	if uint32(len(buf)) < n {
		sink.Errorf(log.KindLength, "MCFG: buffer shorter than header")
		return info
	}

	VerifyChecksum(sink, "MCFG", buf)

	offset := n + 8 // Reserved.
	index := 0
	var segments CrossList
	for offset+mcfgAllocationSize <= uint32(len(buf)) {
		sink.Itemf("PCI Config Space Base Address Allocation", index, offset)
		alloc := &MCFGAllocation{}
		Parse(sink, true, "MCFG Allocation", buf[offset:offset+mcfgAllocationSize], mcfgAllocationFields(alloc))
		info.Allocations = append(info.Allocations, alloc)
		segments = append(segments, CrossEntry{Data: alloc.PCISegment, Type: 0, Offset: offset})

		offset += mcfgAllocationSize
		index++
	}

	if !sink.ConsistencyMode {
		return info
	}

	CheckUnique(sink, segments, func(a, b []byte) bool {
		return string(a) == string(b)
	}, "MCFG", "PCI Segment Group Number")

	return info
}
