// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package generator

import (
	"fmt"
)

const (
	iortNodeHeaderSize = 16
	iortIDMappingSize  = 20
	iortFixedSize      = sdtHeaderSize + 8 // NumNodes + NodeOffset
)

// Node type tags, mirrored from the inspector's iort.go so the two cores
// agree on the wire values without importing one another.
const (
	iortTypeITSGroup       uint8 = 0x00
	iortTypeNamedComponent uint8 = 0x01
	iortTypeRootComplex    uint8 = 0x02
	iortTypeSMMUv1v2       uint8 = 0x03
	iortTypePMCG           uint8 = 0x05
)

// IDMapping is one id-mapping record, generator-side: OutputReference is a
// token resolved through the node indexer during emission, not yet a byte
// offset (§3 "Abstract platform object").
type IDMapping struct {
	InputBase       uint32
	NumIDs          uint32
	OutputBase      uint32
	OutputReference Token
	Flags           uint32
}

// ITSGroupObject is one ITS Group node.
type ITSGroupObject struct {
	Token           Token
	ITUIdentifiers  []uint32
}

// NamedComponentObject is one Named Component node.
type NamedComponentObject struct {
	Token             Token
	Flags             uint32
	CacheCoherent     uint32
	AllocationHints   uint8
	MemoryAccessFlags uint8
	AddressSizeLimit  uint32
	DeviceObjectName  string
	IDMappings        []IDMapping
}

// RootComplexObject is one Root Complex node.
type RootComplexObject struct {
	Token                  Token
	MemoryAccessProperties uint32
	ATSAttribute           uint32
	PCISegmentNumber       uint32
	MemoryAddressSizeLimit uint8
	IDMappings             []IDMapping
}

// InterruptFlagsPair is one (GSIV, flags) entry of an SMMUv1/v2 context or
// PMU interrupt array.
type InterruptFlagsPair struct {
	GSIV  uint32
	Flags uint32
}

// SMMUv1v2Object is one SMMUv1/SMMUv2 node.
type SMMUv1v2Object struct {
	Token                Token
	Base                 uint64
	Span                 uint64
	Model                uint32
	Flags                uint32
	ContextInterrupts    []InterruptFlagsPair
	PMUInterrupts        []InterruptFlagsPair
	SMMU_NSgIrpt         uint32
	SMMU_NSgIrptFlags    uint32
	SMMU_NSgCfgIrpt      uint32
	SMMU_NSgCfgIrptFlags uint32
	IDMappings           []IDMapping
}

// PMCGObject is one Performance Monitoring Counter Group node.
type PMCGObject struct {
	Token                 Token
	Base                  uint64
	OverflowInterruptGSIV uint32
	NodeReference         Token
	PageSize1Base         uint64
	IDMappings            []IDMapping
}

func idMappingArraySize(n int) uint32 { return uint32(n) * iortIDMappingSize }

func itsGroupSize(o *ITSGroupObject) uint32 {
	return iortNodeHeaderSize + 4 + uint32(len(o.ITUIdentifiers))*4
}

func namedComponentSize(o *NamedComponentObject) uint32 {
	fixed := uint32(16) // Flags..AddressSizeLimit
	nameLen := align4(uint32(len(o.DeviceObjectName)) + 1)
	return iortNodeHeaderSize + fixed + nameLen + idMappingArraySize(len(o.IDMappings))
}

func rootComplexSize(o *RootComplexObject) uint32 {
	fixed := uint32(16)
	return iortNodeHeaderSize + fixed + idMappingArraySize(len(o.IDMappings))
}

func smmuv1v2Size(o *SMMUv1v2Object) uint32 {
	fixed := uint32(60) // Base..SMMU_NSgCfgIrptFlags (offsets 16..76)
	return iortNodeHeaderSize + fixed +
		uint32(len(o.ContextInterrupts))*8 +
		uint32(len(o.PMUInterrupts))*8 +
		idMappingArraySize(len(o.IDMappings))
}

func pmcgSize(o *PMCGObject) uint32 {
	fixed := uint32(24) // Base..PageSize1Base (offsets 16..40)
	return iortNodeHeaderSize + fixed + idMappingArraySize(len(o.IDMappings))
}

// writeIDMappings writes count id-mapping records starting at buf[offset:],
// resolving each OutputReference token through ix. Returns an error and
// leaves buf untouched past the failure point if any token is unresolvable
// (§4.6 "a token not in the indexer is a not-found failure").
func writeIDMappings(buf []byte, offset uint32, mappings []IDMapping, ix *Indexer) error {
	for i, m := range mappings {
		out, err := ix.Resolve(m.OutputReference)
		if err != nil {
			return fmt.Errorf("id mapping %d: %w", i, err)
		}
		base := offset + uint32(i)*iortIDMappingSize
		putUint32(buf, base, m.InputBase)
		putUint32(buf, base+4, m.NumIDs)
		putUint32(buf, base+8, m.OutputBase)
		putUint32(buf, base+12, out)
		putUint32(buf, base+16, m.Flags)
	}
	return nil
}

func writeIortNodeHeader(buf []byte, start uint32, typeTag uint8, length uint32, numMappings uint32, mappingOffset uint32) {
	putUint8(buf, start, typeTag)
	putUint16(buf, start+1, uint16(length))
	putUint8(buf, start+3, 0) // Revision.
	putUint32(buf, start+4, 0) // Reserved.
	putUint32(buf, start+8, numMappings)
	putUint32(buf, start+12, mappingOffset)
}

// GenerateIORT assembles a complete IO Remapping Table from the objects
// registered in repo, following the two-pass sizing-then-emission protocol
// of §4.4/§4.5. Node kinds are emitted in a fixed order (ITS Group, Named
// Component, Root Complex, SMMUv1/v2, PMCG); nodes of each kind are emitted
// in repository order.
func GenerateIORT(repo Repository, header HeaderFields) ([]byte, error) {
	itsObjs, _, err := repo.GetObjects(ObjIortITSGroup, NullToken)
	if err != nil {
		return nil, err
	}
	ncObjs, _, err := repo.GetObjects(ObjIortNamedComponent, NullToken)
	if err != nil {
		return nil, err
	}
	rcObjs, _, err := repo.GetObjects(ObjIortRootComplex, NullToken)
	if err != nil {
		return nil, err
	}
	smmuObjs, _, err := repo.GetObjects(ObjIortSMMUv1v2, NullToken)
	if err != nil {
		return nil, err
	}
	pmcgObjs, _, err := repo.GetObjects(ObjIortPMCG, NullToken)
	if err != nil {
		return nil, err
	}

	ix := NewIndexer()
	offset := uint32(iortFixedSize)

	type placed struct {
		typeTag uint8
		offset  uint32
		size    uint32
	}
	var nodes []placed

	for _, v := range itsObjs {
		o := v.(*ITSGroupObject)
		size := itsGroupSize(o)
		if size > 0xFFFF {
			return nil, ErrTooLarge
		}
		ix.Add(o.Token, offset, o)
		nodes = append(nodes, placed{iortTypeITSGroup, offset, size})
		offset += size
	}
	for _, v := range ncObjs {
		o := v.(*NamedComponentObject)
		size := namedComponentSize(o)
		if size > 0xFFFF {
			return nil, ErrTooLarge
		}
		ix.Add(o.Token, offset, o)
		nodes = append(nodes, placed{iortTypeNamedComponent, offset, size})
		offset += size
	}
	for _, v := range rcObjs {
		o := v.(*RootComplexObject)
		size := rootComplexSize(o)
		if size > 0xFFFF {
			return nil, ErrTooLarge
		}
		ix.Add(o.Token, offset, o)
		nodes = append(nodes, placed{iortTypeRootComplex, offset, size})
		offset += size
	}
	for _, v := range smmuObjs {
		o := v.(*SMMUv1v2Object)
		size := smmuv1v2Size(o)
		if size > 0xFFFF {
			return nil, ErrTooLarge
		}
		ix.Add(o.Token, offset, o)
		nodes = append(nodes, placed{iortTypeSMMUv1v2, offset, size})
		offset += size
	}
	for _, v := range pmcgObjs {
		o := v.(*PMCGObject)
		size := pmcgSize(o)
		if size > 0xFFFF {
			return nil, ErrTooLarge
		}
		ix.Add(o.Token, offset, o)
		nodes = append(nodes, placed{iortTypePMCG, offset, size})
		offset += size
	}

	tableLength := offset
	if uint64(tableLength) > 0xFFFFFFFF {
		return nil, ErrTooLarge
	}

	buf := make([]byte, tableLength)
	header.Signature = [4]byte{'I', 'O', 'R', 'T'}
	writeSDTHeader(buf, header)
	putUint32(buf, 36, uint32(len(nodes)))
	putUint32(buf, 40, iortFixedSize)

	for _, n := range nodes {
		switch n.typeTag {
		case iortTypeITSGroup:
			var o *ITSGroupObject
			for _, v := range itsObjs {
				if cand := v.(*ITSGroupObject); cand.Token != NullToken {
					if off, _ := ix.Resolve(cand.Token); off == n.offset {
						o = cand
						break
					}
				}
			}
			writeIortNodeHeader(buf, n.offset, n.typeTag, n.size, 0, 0)
			putUint32(buf, n.offset+16, uint32(len(o.ITUIdentifiers)))
			for i, id := range o.ITUIdentifiers {
				putUint32(buf, n.offset+20+uint32(i)*4, id)
			}

		case iortTypeNamedComponent:
			o := findNamedComponent(ncObjs, ix, n.offset)
			mappingOffset := uint32(16+16) + align4(uint32(len(o.DeviceObjectName))+1)
			writeIortNodeHeader(buf, n.offset, n.typeTag, n.size, uint32(len(o.IDMappings)), mappingOffset)
			putUint32(buf, n.offset+16, o.Flags)
			putUint32(buf, n.offset+20, o.CacheCoherent)
			putUint8(buf, n.offset+24, o.AllocationHints)
			putUint8(buf, n.offset+27, o.MemoryAccessFlags)
			putUint32(buf, n.offset+28, o.AddressSizeLimit)
			copy(buf[n.offset+32:], o.DeviceObjectName)
			if err := writeIDMappings(buf, n.offset+mappingOffset, o.IDMappings, ix); err != nil {
				return nil, err
			}

		case iortTypeRootComplex:
			o := findRootComplex(rcObjs, ix, n.offset)
			mappingOffset := uint32(16 + 16)
			writeIortNodeHeader(buf, n.offset, n.typeTag, n.size, uint32(len(o.IDMappings)), mappingOffset)
			putUint32(buf, n.offset+16, o.MemoryAccessProperties)
			putUint32(buf, n.offset+20, o.ATSAttribute)
			putUint32(buf, n.offset+24, o.PCISegmentNumber)
			putUint8(buf, n.offset+28, o.MemoryAddressSizeLimit)
			if err := writeIDMappings(buf, n.offset+mappingOffset, o.IDMappings, ix); err != nil {
				return nil, err
			}

		case iortTypeSMMUv1v2:
			o := findSMMU(smmuObjs, ix, n.offset)
			ctxOffset := uint32(16 + 60)
			pmuOffset := ctxOffset + uint32(len(o.ContextInterrupts))*8
			mappingOffset := pmuOffset + uint32(len(o.PMUInterrupts))*8
			writeIortNodeHeader(buf, n.offset, n.typeTag, n.size, uint32(len(o.IDMappings)), mappingOffset)
			putUint64(buf, n.offset+16, o.Base)
			putUint64(buf, n.offset+24, o.Span)
			putUint32(buf, n.offset+32, o.Model)
			putUint32(buf, n.offset+36, o.Flags)
			putUint32(buf, n.offset+40, 0) // GlobalInterruptArrayRef, unused here.
			putUint32(buf, n.offset+44, uint32(len(o.ContextInterrupts)))
			putUint32(buf, n.offset+48, ctxOffset)
			putUint32(buf, n.offset+52, uint32(len(o.PMUInterrupts)))
			putUint32(buf, n.offset+56, pmuOffset)
			putUint32(buf, n.offset+60, o.SMMU_NSgIrpt)
			putUint32(buf, n.offset+64, o.SMMU_NSgIrptFlags)
			putUint32(buf, n.offset+68, o.SMMU_NSgCfgIrpt)
			putUint32(buf, n.offset+72, o.SMMU_NSgCfgIrptFlags)
			for i, p := range o.ContextInterrupts {
				putUint32(buf, n.offset+ctxOffset+uint32(i)*8, p.GSIV)
				putUint32(buf, n.offset+ctxOffset+uint32(i)*8+4, p.Flags)
			}
			for i, p := range o.PMUInterrupts {
				putUint32(buf, n.offset+pmuOffset+uint32(i)*8, p.GSIV)
				putUint32(buf, n.offset+pmuOffset+uint32(i)*8+4, p.Flags)
			}
			if err := writeIDMappings(buf, n.offset+mappingOffset, o.IDMappings, ix); err != nil {
				return nil, err
			}

		case iortTypePMCG:
			o := findPMCG(pmcgObjs, ix, n.offset)
			mappingOffset := uint32(16 + 24)
			writeIortNodeHeader(buf, n.offset, n.typeTag, n.size, uint32(len(o.IDMappings)), mappingOffset)
			putUint64(buf, n.offset+16, o.Base)
			putUint32(buf, n.offset+24, o.OverflowInterruptGSIV)
			nodeRef, err := ix.Resolve(o.NodeReference)
			if err != nil {
				return nil, err
			}
			putUint32(buf, n.offset+28, nodeRef)
			putUint64(buf, n.offset+32, o.PageSize1Base)
			if err := writeIDMappings(buf, n.offset+mappingOffset, o.IDMappings, ix); err != nil {
				return nil, err
			}
		}
	}

	finalizeChecksum(buf)
	return buf, nil
}

func findNamedComponent(objs []interface{}, ix *Indexer, offset uint32) *NamedComponentObject {
	for _, v := range objs {
		o := v.(*NamedComponentObject)
		if off, err := ix.Resolve(o.Token); err == nil && off == offset {
			return o
		}
	}
	return nil
}

func findRootComplex(objs []interface{}, ix *Indexer, offset uint32) *RootComplexObject {
	for _, v := range objs {
		o := v.(*RootComplexObject)
		if off, err := ix.Resolve(o.Token); err == nil && off == offset {
			return o
		}
	}
	return nil
}

func findSMMU(objs []interface{}, ix *Indexer, offset uint32) *SMMUv1v2Object {
	for _, v := range objs {
		o := v.(*SMMUv1v2Object)
		if off, err := ix.Resolve(o.Token); err == nil && off == offset {
			return o
		}
	}
	return nil
}

func findPMCG(objs []interface{}, ix *Indexer, offset uint32) *PMCGObject {
	for _, v := range objs {
		o := v.(*PMCGObject)
		if off, err := ix.Resolve(o.Token); err == nil && off == offset {
			return o
		}
	}
	return nil
}
