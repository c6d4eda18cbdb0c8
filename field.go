// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"encoding/binary"
	"strings"

	"github.com/firmwarekit/acpiparse/log"
)

// Renderer renders a field's raw bytes as a trace line. It replaces the
// default "apply Format to the fixed-width value read from the buffer"
// behavior for fields that need custom formatting (hex dumps, ASCII/UTF-16
// strings, bitmask breakdowns).
type Renderer func(sink *log.Sink, d *Field, data []byte)

// Validator inspects one field's raw bytes (plus the descriptor's Context)
// and reports errors/warnings to sink. Validators never abort parsing; they
// only emit (§4.1, §7).
type Validator func(data []byte, ctx interface{}, sink *log.Sink)

// Field is the engine's field descriptor: an immutable record describing one
// packed field within a structure (§3 "Field descriptor"). Per-field custom
// behavior is carried as optional function values, not as a subclass
// hierarchy (§9 "Descriptor tables as data vs. classes").
type Field struct {
	// Name is the display name, or empty for header-only fields that are
	// parsed but never traced.
	Name string

	// Length is the field's byte length: 1, 2, 4, 8, or n for fixed byte
	// arrays / inline strings.
	Length uint32

	// Offset is the byte offset from the start of the enclosing structure.
	Offset uint32

	// Format is an optional printf-style format applied to the value read
	// at Length. Ignored when Render is set.
	Format string

	// Render, if non-nil, takes over formatting entirely.
	Render Renderer

	// Capture, if non-nil, receives a slice aliasing the field's bytes
	// within the parsed buffer once parsing reaches this field. The alias
	// is a borrow: valid only as long as the buffer handed to Parse is
	// (§9 "Captured pointers as controlled aliasing").
	Capture *[]byte

	// Validate, if non-nil, runs after rendering when trace+consistency
	// mode are both enabled (§4.1).
	Validate Validator

	// Context is passed to Validate unchanged.
	Context interface{}
}

// renderDefault applies Format to the value read from data at the
// descriptor's declared length. Only lengths of 1, 2, 4 or 8 may carry a
// Format string; anything else with a Format set is a malformed descriptor,
// not a data defect, and is reported as a value error each time such a
// descriptor is rendered (§4.1).
func renderDefault(sink *log.Sink, d *Field, data []byte) {
	if d.Format == "" {
		return
	}

	switch d.Length {
	case 1:
		sink.Infof(d.Format, data[0])
	case 2:
		sink.Infof(d.Format, binary.LittleEndian.Uint16(data))
	case 4:
		sink.Infof(d.Format, binary.LittleEndian.Uint32(data))
	case 8:
		sink.Infof(d.Format, binary.LittleEndian.Uint64(data))
	default:
		sink.Errorf(log.KindValue, "malformed field descriptor %q: length %d cannot carry a format string",
			d.Name, d.Length)
	}
}

// RenderHex renders data as a compact hex dump, for byte-array fields such as
// GUIDs, reserved padding, or inline identifier arrays.
func RenderHex(sink *log.Sink, d *Field, data []byte) {
	sink.Infof("%s: %s", d.Name, hexString(data))
}

// RenderASCII renders data as a trimmed, NUL-padded ASCII string, for OEM ID
// / OEM Table ID / Creator ID style fields.
func RenderASCII(sink *log.Sink, d *Field, data []byte) {
	sink.Infof("%s: %q", d.Name, strings.TrimRight(string(data), "\x00"))
}

func hexString(b []byte) string {
	const hexDigits = "0123456789ABCDEF"
	out := make([]byte, 0, len(b)*3)
	for i, c := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, hexDigits[c>>4], hexDigits[c&0xf])
	}
	return string(out)
}

// readUint reads an unaligned little-endian integer of the given byte width
// (1/2/4/8) starting at offset 0 of data. It is the engine's one entry point
// for fixed-width unaligned loads (§6 "Abstract byte reads").
func readUint(data []byte, width uint32) uint64 {
	switch width {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(data))
	case 4:
		return uint64(binary.LittleEndian.Uint32(data))
	case 8:
		return binary.LittleEndian.Uint64(data)
	default:
		return 0
	}
}
