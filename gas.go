// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// GASSize is the byte size of a Generic Address Structure.
const GASSize = 12

// GASInfo captures a parsed Generic Address Structure's fields (§8 scenario
// 1: "GASParser over valid GAS").
type GASInfo struct {
	AddressSpaceID   []byte
	RegisterBitWidth []byte
	RegisterBitOffset []byte
	AccessSize       []byte
	Address          []byte
}

func gasFields(info *GASInfo) []Field {
	return []Field{
		{Name: "AddressSpaceID", Length: 1, Offset: 0, Format: "AddressSpaceID: %d", Capture: &info.AddressSpaceID},
		{Name: "RegisterBitWidth", Length: 1, Offset: 1, Format: "RegisterBitWidth: %d", Capture: &info.RegisterBitWidth},
		{Name: "RegisterBitOffset", Length: 1, Offset: 2, Format: "RegisterBitOffset: %d", Capture: &info.RegisterBitOffset},
		{Name: "AccessSize", Length: 1, Offset: 3, Format: "AccessSize: %d", Capture: &info.AccessSize},
		{Name: "Address", Length: 8, Offset: 4, Format: "Address: 0x%X", Capture: &info.Address},
	}
}

// ParseGAS parses one Generic Address Structure, tracing all five fields,
// and returns the number of bytes consumed (always GASSize for a buffer
// that is at least that long).
func ParseGAS(sink *log.Sink, buf []byte) (*GASInfo, uint32) {
	info := &GASInfo{}
	n := Parse(sink, true, "GAS", buf, gasFields(info))
	return info, n
}
