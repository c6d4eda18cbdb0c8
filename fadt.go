// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// FADTInfo captures the Fixed ACPI Description Table's fields relevant to
// the inspector (gopher-os's acpi.go uses FADT.Dsdt / FADT.Ext.Dsdt to chase
// down the DSDT address; that lookup is reproduced here as DsdtAddress).
type FADTInfo struct {
	Header *HeaderInfo

	FirmwareCtrl []byte
	Dsdt         []byte
	Preferred_PM_Profile []byte
	SCI_Interrupt []byte
	SMI_CommandPort []byte
	PM1aEventBlock []byte
	PM1aControlBlock []byte
	PMTimerBlock []byte

	X_FirmwareCtrl []byte
	X_Dsdt         []byte
	X_PM1aEventBlock []byte
}

// renderGAS is a field Renderer that decodes its 12-byte payload as a nested
// Generic Address Structure and traces it one indent level deeper.
func renderGAS(sink *log.Sink, d *Field, data []byte) {
	sink.Infof("%s:", d.Name)
	if len(data) < GASSize {
		sink.Errorf(log.KindLength, "%s: truncated Generic Address Structure", d.Name)
		return
	}
	ParseGAS(sink, data)
}

func fadtFields(info *FADTInfo) []Field {
	return []Field{
		{Name: "FirmwareCtrl", Length: 4, Offset: 36, Format: "FirmwareCtrl: 0x%X", Capture: &info.FirmwareCtrl},
		{Name: "Dsdt", Length: 4, Offset: 40, Format: "Dsdt: 0x%X", Capture: &info.Dsdt},
		{Name: "Preferred_PM_Profile", Length: 1, Offset: 45, Format: "Preferred_PM_Profile: %d", Capture: &info.Preferred_PM_Profile},
		{Name: "SCI_Interrupt", Length: 2, Offset: 46, Format: "SCI_Interrupt: %d", Capture: &info.SCI_Interrupt},
		{Name: "SMI_CommandPort", Length: 4, Offset: 48, Format: "SMI_CommandPort: 0x%X", Capture: &info.SMI_CommandPort},
		{Name: "PM1aEventBlock", Length: 4, Offset: 56, Format: "PM1aEventBlock: 0x%X", Capture: &info.PM1aEventBlock},
		{Name: "PM1aControlBlock", Length: 4, Offset: 64, Format: "PM1aControlBlock: 0x%X", Capture: &info.PM1aControlBlock},
		{Name: "PMTimerBlock", Length: 4, Offset: 76, Format: "PMTimerBlock: 0x%X", Capture: &info.PMTimerBlock},
		{Name: "X_FirmwareCtrl", Length: 8, Offset: 132, Format: "X_FirmwareCtrl: 0x%X", Capture: &info.X_FirmwareCtrl},
		{Name: "X_Dsdt", Length: 8, Offset: 140, Format: "X_Dsdt: 0x%X", Capture: &info.X_Dsdt},
		{Name: "X_PM1aEventBlock", Length: 12, Offset: 148, Render: renderGAS, Capture: &info.X_PM1aEventBlock},
	}
}

// ParseFADT parses the Fixed ACPI Description Table.
func ParseFADT(sink *log.Sink, buf []byte) *FADTInfo {
	header, n := ParseHeader(sink, buf)
	info := &FADTInfo{Header: header}
	if uint32(len(buf)) < n {
		sink.Errorf(log.KindLength, "FADT: buffer shorter than header")
		return info
	}

	VerifyChecksum(sink, "FADT", buf)
	Parse(sink, true, "FADT", buf, fadtFields(info))
	return info
}

// DsdtAddress returns the best available DSDT address: the 64-bit extended
// field when the table revision is 2 or higher and non-zero, otherwise the
// legacy 32-bit field (mirrors gopher-os's acpiRev2Plus branch in acpi.go).
func (f *FADTInfo) DsdtAddress() uint64 {
	if f.Header != nil && f.Header.RevisionValue() >= 2 && len(f.X_Dsdt) == 8 {
		addr := readUint(f.X_Dsdt, 8)
		if addr != 0 {
			return addr
		}
	}
	if len(f.Dsdt) == 4 {
		return readUint(f.Dsdt, 4)
	}
	return 0
}
