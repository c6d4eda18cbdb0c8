// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"encoding/binary"

	"github.com/firmwarekit/acpiparse/log"
)

// ParseXSDT parses the Extended System Description Table: a header followed
// by a packed array of 8-byte table pointers. ParseRSDT is the same
// structure with 4-byte pointers, selected by the RSDP revision (§6).
func ParseXSDT(sink *log.Sink, buf []byte) (*HeaderInfo, []uint64) {
	info, n := ParseHeader(sink, buf)
	if len(buf) < int(n) {
		sink.Errorf(log.KindLength, "XSDT: buffer shorter than header")
		return info, nil
	}

	VerifyChecksum(sink, "XSDT", buf)

	var pointers []uint64
	for off := n; off+8 <= uint32(len(buf)); off += 8 {
		pointers = append(pointers, binary.LittleEndian.Uint64(buf[off:off+8]))
	}
	return info, pointers
}

// ParseRSDT parses the (ACPI 1.0) Root System Description Table.
func ParseRSDT(sink *log.Sink, buf []byte) (*HeaderInfo, []uint32) {
	info, n := ParseHeader(sink, buf)
	if len(buf) < int(n) {
		sink.Errorf(log.KindLength, "RSDT: buffer shorter than header")
		return info, nil
	}

	VerifyChecksum(sink, "RSDT", buf)

	var pointers []uint32
	for off := n; off+4 <= uint32(len(buf)); off += 4 {
		pointers = append(pointers, binary.LittleEndian.Uint32(buf[off:off+4]))
	}
	return info, pointers
}
