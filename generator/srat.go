// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package generator

const (
	sratFixedSize          = sdtHeaderSize + 12 // Reserved + Reserved
	sratMemoryAffinitySize = 40
	sratGICCAffinitySize   = 18
)

// MemoryAffinityObject is one Memory Affinity structure (SRAT type 0x01).
type MemoryAffinityObject struct {
	Token           Token
	ProximityDomain uint32
	BaseAddressLow  uint32
	BaseAddressHigh uint32
	LengthLow       uint32
	LengthHigh      uint32
	Flags           uint32
}

// GICCAffinityObject is one GICC Affinity structure (SRAT type 0x03).
type GICCAffinityObject struct {
	Token            Token
	ProximityDomain  uint32
	ACPIProcessorUID uint32
	Flags            uint32
	ClockDomain      uint32
}

// GenerateSRAT assembles a System Resource Affinity Table from the memory
// and GICC affinity objects registered in repo.
func GenerateSRAT(repo Repository, header HeaderFields) ([]byte, error) {
	memObjs, _, err := repo.GetObjects(ObjSratMemoryAffinity, NullToken)
	if err != nil {
		return nil, err
	}
	giccObjs, _, err := repo.GetObjects(ObjSratGICCAffinity, NullToken)
	if err != nil {
		return nil, err
	}

	length := uint32(sratFixedSize) +
		uint32(len(memObjs))*sratMemoryAffinitySize +
		uint32(len(giccObjs))*sratGICCAffinitySize

	buf := make([]byte, length)
	header.Signature = [4]byte{'S', 'R', 'A', 'T'}
	writeSDTHeader(buf, header)

	pos := uint32(sratFixedSize)
	for _, v := range memObjs {
		o := v.(*MemoryAffinityObject)
		putUint8(buf, pos, 0x01)
		putUint8(buf, pos+1, sratMemoryAffinitySize)
		putUint32(buf, pos+2, o.ProximityDomain)
		putUint32(buf, pos+8, o.BaseAddressLow)
		putUint32(buf, pos+12, o.BaseAddressHigh)
		putUint32(buf, pos+16, o.LengthLow)
		putUint32(buf, pos+20, o.LengthHigh)
		putUint32(buf, pos+28, o.Flags)
		pos += sratMemoryAffinitySize
	}
	for _, v := range giccObjs {
		o := v.(*GICCAffinityObject)
		putUint8(buf, pos, 0x03)
		putUint8(buf, pos+1, sratGICCAffinitySize)
		putUint32(buf, pos+2, o.ProximityDomain)
		putUint32(buf, pos+6, o.ACPIProcessorUID)
		putUint32(buf, pos+10, o.Flags)
		putUint32(buf, pos+14, o.ClockDomain)
		pos += sratGICCAffinitySize
	}

	finalizeChecksum(buf)
	return buf, nil
}
