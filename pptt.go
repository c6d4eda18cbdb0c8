// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// PPTT sub-structure type tags (ACPI 6.3 §5.2.29).
const (
	PpttProcessorHierarchyNode uint8 = 0x00
	PpttCacheNode              uint8 = 0x01
	PpttIDNode                 uint8 = 0x02
)

// PPTTInfo carries the Processor Properties Topology Table's header and the
// flattened list of every sub-structure seen during the walk, kept around so
// ParseMADT-style cross-checks (parent-chain cycle detection, private
// resource kind checks) can run once the whole table has been read.
type PPTTInfo struct {
	Header *HeaderInfo
	Nodes  CrossList
}

func processorHierarchyFields() []Field {
	return []Field{
		{Name: "Flags", Length: 4, Offset: 4, Format: "Flags: 0x%X"},
		{Name: "Parent", Length: 4, Offset: 8, Format: "Parent: 0x%X"},
		{Name: "ACPIProcessorID", Length: 4, Offset: 12, Format: "ACPIProcessorID: 0x%X"},
		{Name: "NumberOfPrivateResources", Length: 4, Offset: 16, Format: "NumberOfPrivateResources: %d"},
	}
}

func cacheNodeFields() []Field {
	return []Field{
		{Name: "Flags", Length: 4, Offset: 4, Format: "Flags: 0x%X"},
		{Name: "NextLevelOfCache", Length: 4, Offset: 8, Format: "NextLevelOfCache: 0x%X"},
		{Name: "Size", Length: 4, Offset: 12, Format: "Size: 0x%X"},
		{Name: "NumberOfSets", Length: 4, Offset: 16, Format: "NumberOfSets: %d"},
		{Name: "Associativity", Length: 1, Offset: 20, Format: "Associativity: %d"},
		{Name: "Attributes", Length: 1, Offset: 21, Format: "Attributes: 0x%X"},
		{Name: "LineSize", Length: 2, Offset: 22, Format: "LineSize: %d"},
	}
}

func idNodeFields() []Field {
	return []Field{
		{Length: 2, Offset: 4}, // Reserved
		{Name: "VendorID", Length: 4, Offset: 8, Render: RenderASCII},
		{Name: "Level1ID", Length: 8, Offset: 12, Format: "Level1ID: 0x%X"},
		{Name: "Level2ID", Length: 8, Offset: 20, Format: "Level2ID: 0x%X"},
		{Name: "MajorRevision", Length: 2, Offset: 28, Format: "MajorRevision: %d"},
		{Name: "MinorRevision", Length: 2, Offset: 30, Format: "MinorRevision: %d"},
		{Name: "SpecRevision", Length: 2, Offset: 32, Format: "SpecRevision: %d"},
	}
}

func ppttDatabase() *Database {
	return NewDatabase("PPTT", []RegistryEntry{
		{Type: PpttProcessorHierarchyNode, Name: "Processor Hierarchy Node", Arch: ArchAll, Handler: FieldTableHandler(processorHierarchyFields())},
		{Type: PpttCacheNode, Name: "Cache Type", Arch: ArchAll, Handler: FieldTableHandler(cacheNodeFields())},
		{Type: PpttIDNode, Name: "ID", Arch: ArchAll, Handler: FieldTableHandler(idNodeFields())},
	})
}

// parseWideSubHeader reads a PPTT sub-structure's type (byte 0) and its
// 2-byte little-endian length (bytes 2-3), in place of the 1-byte length at
// byte 1 that ParseSubHeader reads for MADT/SRAT. It returns (0, 0) when buf
// is shorter than 4 bytes.
func parseWideSubHeader(buf []byte) (typeTag uint8, length uint32) {
	if len(buf) < 4 {
		return 0, 0
	}
	return buf[0], uint32(readUint(buf[2:4], 2))
}

// ParsePPTT parses the Processor Properties Topology Table and then, in
// consistency mode, runs §4.3's parent-chain cycle detection (scenario 5) plus the private-resource
// kind check over every Processor Hierarchy Node's private-resource array.
func ParsePPTT(sink *log.Sink, buf []byte) *PPTTInfo {
	header, n := ParseHeader(sink, buf)
	info := &PPTTInfo{Header: header}
	if uint32(len(buf)) < n {
		sink.Errorf(log.KindLength, "PPTT: buffer shorter than header")
		return info
	}

	VerifyChecksum(sink, "PPTT", buf)

	db := ppttDatabase()
	db.Reset()

	offset := n
	for offset < uint32(len(buf)) {
		typeTag, length := parseWideSubHeader(buf[offset:])
		if length < 4 || offset+length > uint32(len(buf)) {
			sink.Errorf(log.KindLength, "PPTT: sub-structure at +0x%x declares an out-of-range length %d", offset, length)
			break
		}

		ParseStruct(sink, db, offset, typeTag, length, buf[offset:offset+length])
		info.Nodes = append(info.Nodes, CrossEntry{Data: buf[offset : offset+length], Type: typeTag, Offset: offset})

		offset += length
	}

	ReportArchCompatibility(sink, db)

	if !sink.ConsistencyMode {
		return info
	}

	isLeaf := func(entry *CrossEntry) bool {
		// A processor hierarchy node counts as a leaf, and so may not be
		// referenced as a parent, when bit 4 of its Flags is set. No other
		// flag bit and no count of child nodes is consulted.
		if len(entry.Data) < 8 {
			return false
		}
		flags := uint32(readUint(entry.Data[4:8], 4))
		return flags&(1<<4) != 0
	}

	nextParent := func(entry *CrossEntry) uint32 {
		if entry.Type != PpttProcessorHierarchyNode || len(entry.Data) < 12 {
			return 0
		}
		return uint32(readUint(entry.Data[8:12], 4))
	}

	for _, node := range info.Nodes {
		if node.Type != PpttProcessorHierarchyNode || len(node.Data) < 12 {
			continue
		}
		parent := uint32(readUint(node.Data[8:12], 4))
		FollowReferenceChain(sink, info.Nodes, parent, ReferenceChainOptions{
			SameKind: PpttProcessorHierarchyNode,
			KindName: "Processor Hierarchy Node",
			IsLeaf:   isLeaf,
			Next:     nextParent,
		})

		if len(node.Data) < 20 {
			continue
		}
		numResources := uint32(readUint(node.Data[16:20], 4))
		for i := uint32(0); i < numResources && 20+(i+1)*4 <= uint32(len(node.Data)); i++ {
			ref := uint32(readUint(node.Data[20+i*4:24+i*4], 4))
			PrivateResourceKindCheck(sink, info.Nodes, ref, PpttCacheNode, PpttIDNode)
		}
	}

	return info
}
