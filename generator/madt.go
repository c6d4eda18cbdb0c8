// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package generator

const (
	madtFixedSize = sdtHeaderSize + 8 // LocalApicAddress + Flags
	madtGICCSize  = 80
	madtGICDSize  = 24
)

// GICCObject is one Processor Local GIC node (MADT type 0x0B).
type GICCObject struct {
	Token                    Token
	ACPIProcessorUID         uint32
	Flags                    uint32
	PhysicalBaseAddress      uint64
	GICRBaseAddress          uint64
	MPIDR                    uint64
}

// GICDObject is one GIC Distributor node (MADT type 0x0C). §9(c) notes a
// source bug dereferencing this object before it was initialized; this
// generator never holds a *GICDObject before its fields are fully set by the
// caller, since Go zero-values the struct at construction.
type GICDObject struct {
	Token                     Token
	GICID                     uint32
	GlobalSystemInterruptBase uint32
}

func giccSize(*GICCObject) uint32 { return madtGICCSize }
func gicdSize(*GICDObject) uint32 { return madtGICDSize }

// GenerateMADT assembles a Multiple APIC Description Table from the GICC and
// GICD objects registered in repo. At most one GICD may be registered
// (mirrors the inspector's §8 scenario 3 cross-check, enforced here on the
// generator's input instead of its output).
func GenerateMADT(repo Repository, header HeaderFields, localApicAddress, flags uint32) ([]byte, error) {
	giccs, _, err := repo.GetObjects(ObjMadtGICC, NullToken)
	if err != nil {
		return nil, err
	}
	gicds, _, err := repo.GetObjects(ObjMadtGICD, NullToken)
	if err != nil {
		return nil, err
	}
	if len(gicds) > 1 {
		return nil, ErrTooLarge
	}

	offset := uint32(madtFixedSize)
	for range giccs {
		offset += madtGICCSize
	}
	for range gicds {
		offset += madtGICDSize
	}

	buf := make([]byte, offset)
	header.Signature = [4]byte{'A', 'P', 'I', 'C'}
	writeSDTHeader(buf, header)
	putUint32(buf, 36, localApicAddress)
	putUint32(buf, 40, flags)

	pos := uint32(madtFixedSize)
	for _, v := range giccs {
		o := v.(*GICCObject)
		putUint8(buf, pos, 0x0B)
		putUint8(buf, pos+1, madtGICCSize)
		putUint32(buf, pos+8, o.ACPIProcessorUID)
		putUint32(buf, pos+12, o.Flags)
		putUint64(buf, pos+32, o.PhysicalBaseAddress)
		putUint64(buf, pos+60, o.GICRBaseAddress)
		putUint64(buf, pos+68, o.MPIDR)
		pos += madtGICCSize
	}
	for _, v := range gicds {
		o := v.(*GICDObject)
		putUint8(buf, pos, 0x0C)
		putUint8(buf, pos+1, madtGICDSize)
		putUint32(buf, pos+4, o.GICID)
		putUint32(buf, pos+8, o.GlobalSystemInterruptBase)
		pos += madtGICDSize
	}

	finalizeChecksum(buf)
	return buf, nil
}
