// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package generator

const (
	mcfgFixedSize      = sdtHeaderSize + 8 // Reserved
	mcfgAllocationSize = 12
)

// MCFGAllocationObject is one PCI Express configuration space base address
// allocation.
type MCFGAllocationObject struct {
	Token         Token
	BaseAddress   uint64
	PCISegment    uint16
	StartBusNum   uint8
	EndBusNum     uint8
}

// GenerateMCFG assembles an MCFG table from the allocation objects
// registered in repo.
func GenerateMCFG(repo Repository, header HeaderFields) ([]byte, error) {
	allocs, _, err := repo.GetObjects(ObjMcfgAllocation, NullToken)
	if err != nil {
		return nil, err
	}

	length := uint32(mcfgFixedSize) + uint32(len(allocs))*mcfgAllocationSize
	buf := make([]byte, length)
	header.Signature = [4]byte{'M', 'C', 'F', 'G'}
	writeSDTHeader(buf, header)

	pos := uint32(mcfgFixedSize)
	for _, v := range allocs {
		o := v.(*MCFGAllocationObject)
		putUint64(buf, pos, o.BaseAddress)
		putUint16(buf, pos+8, o.PCISegment)
		putUint8(buf, pos+10, o.StartBusNum)
		putUint8(buf, pos+11, o.EndBusNum)
		pos += mcfgAllocationSize
	}

	finalizeChecksum(buf)
	return buf, nil
}
