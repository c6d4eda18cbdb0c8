// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// SDTHeaderSize is the byte size of the common ACPI system descriptor table
// header (signature through creator revision).
const SDTHeaderSize = 36

// HeaderInfo is the header-info sidecar: captured pointers to the fields of
// the standard ACPI descriptor header, populated as a side effect of parsing
// the header (§3 "Header-info sidecar"). It is scratch state scoped to one
// parse call; it must never be shared across tables (§5).
type HeaderInfo struct {
	Signature      []byte
	Length         []byte
	Revision       []byte
	Checksum       []byte
	OEMID          []byte
	OEMTableID     []byte
	OEMRevision    []byte
	CreatorID      []byte
	CreatorRevision []byte
}

// SignatureString returns the 4-character table signature.
func (h *HeaderInfo) SignatureString() string { return string(h.Signature) }

// LengthValue returns the table's declared total length.
func (h *HeaderInfo) LengthValue() uint32 { return uint32(readUint(h.Length, 4)) }

// RevisionValue returns the table's declared revision.
func (h *HeaderInfo) RevisionValue() uint8 { return byte(readUint(h.Revision, 1)) }

// headerFields returns the field-descriptor table for the common ACPI SDT
// header, writing every captured field into info.
func headerFields(info *HeaderInfo) []Field {
	return []Field{
		{Name: "Signature", Length: 4, Offset: 0, Render: RenderASCII, Capture: &info.Signature},
		{Name: "Length", Length: 4, Offset: 4, Format: "Length: 0x%X", Capture: &info.Length},
		{Name: "Revision", Length: 1, Offset: 8, Format: "Revision: %d", Capture: &info.Revision},
		{Name: "Checksum", Length: 1, Offset: 9, Format: "Checksum: 0x%02X", Capture: &info.Checksum},
		{Name: "OEMID", Length: 6, Offset: 10, Render: RenderASCII, Capture: &info.OEMID},
		{Name: "OEMTableID", Length: 8, Offset: 16, Render: RenderASCII, Capture: &info.OEMTableID},
		{Name: "OEMRevision", Length: 4, Offset: 24, Format: "OEMRevision: 0x%X", Capture: &info.OEMRevision},
		{Name: "CreatorID", Length: 4, Offset: 28, Render: RenderASCII, Capture: &info.CreatorID},
		{Name: "CreatorRevision", Length: 4, Offset: 32, Format: "CreatorRevision: 0x%X", Capture: &info.CreatorRevision},
	}
}

// ParseHeader parses the fixed ACPI SDT header at the start of buf, tracing
// every field, and returns the populated sidecar plus the number of bytes
// consumed (always SDTHeaderSize when buf is long enough).
func ParseHeader(sink *log.Sink, buf []byte) (*HeaderInfo, uint32) {
	info := &HeaderInfo{}
	n := Parse(sink, true, "Header", buf, headerFields(info))
	return info, n
}

// VerifyChecksum sums every byte of buf modulo 256 and reports a checksum
// error if the result is non-zero (§7 "checksum").
func VerifyChecksum(sink *log.Sink, tableName string, buf []byte) bool {
	var sum uint8
	for _, b := range buf {
		sum += b
	}
	if sum != 0 {
		sink.Errorf(log.KindChecksum, "%s: checksum mismatch (byte-sum mod 256 = 0x%02x, want 0x00)", tableName, sum)
		return false
	}
	sink.Goodf("%s: checksum valid", tableName)
	return true
}

// SubHeader is the tiny (type, 1-byte length) header at the front of each
// MADT and SRAT sub-structure (§4.2 "header parser"). PPTT and IORT read
// their 2-byte lengths separately.
type SubHeader struct {
	Type   []byte
	Length []byte
}

// subHeaderFields returns the descriptor table for the generic
// type-at-0/length-at-1 sub-structure header, used in no-trace mode to
// populate captured pointers for type and length.
func subHeaderFields(h *SubHeader) []Field {
	return []Field{
		{Length: 1, Offset: 0, Capture: &h.Type},
		{Length: 1, Offset: 1, Capture: &h.Length},
	}
}

// ParseSubHeader parses the (type, length) pair at the front of buf without
// tracing, returning the populated captures.
func ParseSubHeader(sink *log.Sink, buf []byte) *SubHeader {
	h := &SubHeader{}
	Parse(sink, false, "", buf, subHeaderFields(h))
	return h
}
