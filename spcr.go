// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// SPCRInfo carries the Serial Port Console Redirection Table's fields.
type SPCRInfo struct {
	Header          *HeaderInfo
	InterfaceType   []byte
	BaseAddress     []byte
	InterruptType   []byte
	IRQ             []byte
	GlobalSystemInterrupt []byte
	BaudRate        []byte
	Parity          []byte
	StopBits        []byte
	FlowControl     []byte
	TerminalType    []byte
	PciDeviceID     []byte
	PciVendorID     []byte
}

func spcrFields(info *SPCRInfo) []Field {
	return []Field{
		{Name: "InterfaceType", Length: 1, Offset: 36, Format: "InterfaceType: %d", Capture: &info.InterfaceType},
		{Length: 3, Offset: 37}, // Reserved
		{Name: "BaseAddress", Length: 12, Offset: 40, Render: renderGAS, Capture: &info.BaseAddress},
		{Name: "InterruptType", Length: 1, Offset: 52, Format: "InterruptType: 0x%X", Capture: &info.InterruptType},
		{Name: "IRQ", Length: 1, Offset: 53, Format: "IRQ: %d", Capture: &info.IRQ},
		{Name: "GlobalSystemInterrupt", Length: 4, Offset: 54, Format: "GlobalSystemInterrupt: 0x%X", Capture: &info.GlobalSystemInterrupt},
		{Name: "BaudRate", Length: 1, Offset: 58, Format: "BaudRate: %d", Capture: &info.BaudRate},
		{Name: "Parity", Length: 1, Offset: 59, Format: "Parity: %d", Capture: &info.Parity},
		{Name: "StopBits", Length: 1, Offset: 60, Format: "StopBits: %d", Capture: &info.StopBits},
		{Name: "FlowControl", Length: 1, Offset: 61, Format: "FlowControl: 0x%X", Capture: &info.FlowControl},
		{Name: "TerminalType", Length: 1, Offset: 62, Format: "TerminalType: %d", Capture: &info.TerminalType},
		{Length: 1, Offset: 63}, // Reserved (language)
		{Name: "PciDeviceID", Length: 2, Offset: 64, Format: "PciDeviceID: 0x%X", Capture: &info.PciDeviceID},
		{Name: "PciVendorID", Length: 2, Offset: 66, Format: "PciVendorID: 0x%X", Capture: &info.PciVendorID},
	}
}

// ParseSPCR parses the Serial Port Console Redirection Table.
func ParseSPCR(sink *log.Sink, buf []byte) *SPCRInfo {
	header, n := ParseHeader(sink, buf)
	info := &SPCRInfo{Header: header}
	if uint32(len(buf)) < n {
		sink.Errorf(log.KindLength, "SPCR: buffer shorter than header")
		return info
	}

	VerifyChecksum(sink, "SPCR", buf)
	Parse(sink, true, "SPCR", buf, spcrFields(info))

	if len(info.BaudRate) == 1 && readUint(info.BaudRate, 1) > 6 {
		sink.Warnf("SPCR: BaudRate %d is outside the 0-6 range ACPI 6.3 defines", readUint(info.BaudRate, 1))
	}
	return info
}
