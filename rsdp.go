// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// RSDPSize is the byte size of the ACPI 1.0 Root System Description Pointer.
const RSDPSize = 20

// RSDPExtSize is the byte size of the ACPI 2.0+ extended RSDP.
const RSDPExtSize = 36

// RSDPInfo captures the fields of a parsed RSDP (§3, gopher-os's
// RSDPDescriptor/ExtRSDPDescriptor struct-tag layout grounds this field set).
type RSDPInfo struct {
	Signature   []byte
	Checksum    []byte
	OEMID       []byte
	Revision    []byte
	RSDTAddress []byte

	// Present only when the buffer is long enough for the extended RSDP.
	Length           []byte
	XSDTAddress      []byte
	ExtendedChecksum []byte
}

func rsdpFields(info *RSDPInfo) []Field {
	return []Field{
		{Name: "Signature", Length: 8, Offset: 0, Render: RenderASCII, Capture: &info.Signature},
		{Name: "Checksum", Length: 1, Offset: 8, Format: "Checksum: 0x%02x", Capture: &info.Checksum},
		{Name: "OEMID", Length: 6, Offset: 9, Render: RenderASCII, Capture: &info.OEMID},
		{Name: "Revision", Length: 1, Offset: 15, Format: "Revision: %d", Capture: &info.Revision},
		{Name: "RsdtAddress", Length: 4, Offset: 16, Format: "RsdtAddress: 0x%X", Capture: &info.RSDTAddress},
	}
}

func rsdpExtFields(info *RSDPInfo) []Field {
	return []Field{
		{Name: "Length", Length: 4, Offset: 20, Format: "Length: 0x%X", Capture: &info.Length},
		{Name: "XsdtAddress", Length: 8, Offset: 24, Format: "XsdtAddress: 0x%X", Capture: &info.XSDTAddress},
		{Name: "ExtendedChecksum", Length: 1, Offset: 32, Format: "ExtendedChecksum: 0x%02x", Capture: &info.ExtendedChecksum},
	}
}

// ParseRSDP parses the Root System Description Pointer. Unlike every other
// supported table, the RSDP has no §4.2 sub-structure region and carries its
// own two-stage checksum: the first 20 bytes sum to zero for ACPI 1.0, and
// the full extended structure sums to zero independently for ACPI 2.0+
// (§6 "Bit-exact constraints").
func ParseRSDP(sink *log.Sink, buf []byte) *RSDPInfo {
	if len(buf) < RSDPSize {
		sink.Errorf(log.KindLength, "RSDP: buffer too small (%d bytes, need at least %d)", len(buf), RSDPSize)
		return nil
	}

	info := &RSDPInfo{}
	Parse(sink, true, "RSDP", buf, rsdpFields(info))
	VerifyChecksum(sink, "RSDP", buf[:RSDPSize])

	if info.RevisionValue() >= 2 && len(buf) >= RSDPExtSize {
		Parse(sink, true, "RSDP", buf, rsdpExtFields(info))
		VerifyChecksum(sink, "RSDP (extended)", buf[:RSDPExtSize])
	}

	return info
}

// RevisionValue returns the RSDP's declared ACPI revision.
func (r *RSDPInfo) RevisionValue() uint8 {
	if len(r.Revision) == 0 {
		return 0
	}
	return r.Revision[0]
}
