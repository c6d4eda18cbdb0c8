// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package generator

import (
	"encoding/binary"
	"errors"
)

// sdtHeaderSize mirrors acpi.SDTHeaderSize; duplicated rather than imported
// to keep the generator independent of the inspector package (§1: the two
// cores share a format, not a dependency).
const sdtHeaderSize = 36

// ErrTooLarge is returned by the sizing pass when a node kind's region would
// overflow the binary format's length field (§4.4 step 4). GenerateMADT also
// returns it when more than one GICD is registered.
var ErrTooLarge = errors.New("generator: region exceeds the table's length field")

// HeaderFields carries the values written into every generated table's
// common SDT header, all caller-supplied except Length and Checksum, which
// the generator computes.
type HeaderFields struct {
	Signature       [4]byte
	Revision        uint8
	OEMID           [6]byte
	OEMTableID      [8]byte
	OEMRevision     uint32
	CreatorID       [4]byte
	CreatorRevision uint32
}

// writeSDTHeader writes the 36-byte common header into buf[0:36]. Length and
// Checksum are filled in by finalizeChecksum once the whole buffer is
// written, so both are written as zero here.
func writeSDTHeader(buf []byte, h HeaderFields) {
	copy(buf[0:4], h.Signature[:])
	// buf[4:8] length — patched by finalizeChecksum.
	buf[8] = h.Revision
	// buf[9] checksum — patched by finalizeChecksum.
	copy(buf[10:16], h.OEMID[:])
	copy(buf[16:24], h.OEMTableID[:])
	binary.LittleEndian.PutUint32(buf[24:28], h.OEMRevision)
	copy(buf[28:32], h.CreatorID[:])
	binary.LittleEndian.PutUint32(buf[32:36], h.CreatorRevision)
}

// finalizeChecksum writes buf's length into the header's Length field and
// computes the Checksum byte so the whole buffer's byte-sum mod 256 is zero
// (§8 "for a generated table: the byte-sum mod 256 of the buffer after the
// checksum field is written is zero").
func finalizeChecksum(buf []byte) {
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(buf)))
	buf[9] = 0
	var sum uint8
	for _, b := range buf {
		sum += b
	}
	buf[9] = uint8(0x100 - int(sum)&0xff)
}

func putUint8(buf []byte, off uint32, v uint8)   { buf[off] = v }
func putUint16(buf []byte, off uint32, v uint16) { binary.LittleEndian.PutUint16(buf[off:off+2], v) }
func putUint32(buf []byte, off uint32, v uint32) { binary.LittleEndian.PutUint32(buf[off:off+4], v) }
func putUint64(buf []byte, off uint32, v uint64) { binary.LittleEndian.PutUint64(buf[off:off+8], v) }

// align4 rounds n up to the next multiple of 4, used for inline string
// padding (§4.5 "named-component node").
func align4(n uint32) uint32 {
	return (n + 3) &^ 3
}
