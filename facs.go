// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// FACSInfo captures the Firmware ACPI Control Structure's fields. The FACS
// does not use the common SDT header (§6): it has its own signature/length
// pair with no OEM/creator fields and no checksum.
type FACSInfo struct {
	Signature             []byte
	Length                []byte
	HardwareSignature      []byte
	FirmwareWakingVector   []byte
	GlobalLock             []byte
	Flags                  []byte
	XFirmwareWakingVector  []byte
	Version                []byte
	OSPMFlags              []byte
}

func facsFields(info *FACSInfo) []Field {
	return []Field{
		{Name: "Signature", Length: 4, Offset: 0, Render: RenderASCII, Capture: &info.Signature},
		{Name: "Length", Length: 4, Offset: 4, Format: "Length: 0x%X", Capture: &info.Length},
		{Name: "HardwareSignature", Length: 4, Offset: 8, Format: "HardwareSignature: 0x%X", Capture: &info.HardwareSignature},
		{Name: "FirmwareWakingVector", Length: 4, Offset: 12, Format: "FirmwareWakingVector: 0x%X", Capture: &info.FirmwareWakingVector},
		{Name: "GlobalLock", Length: 4, Offset: 16, Format: "GlobalLock: 0x%X", Capture: &info.GlobalLock},
		{Name: "Flags", Length: 4, Offset: 20, Format: "Flags: 0x%X", Capture: &info.Flags},
		{Name: "XFirmwareWakingVector", Length: 8, Offset: 24, Format: "XFirmwareWakingVector: 0x%X", Capture: &info.XFirmwareWakingVector},
		{Name: "Version", Length: 1, Offset: 32, Format: "Version: %d", Capture: &info.Version},
		// Bytes 33-35 are reserved.
		{Name: "OSPMFlags", Length: 4, Offset: 36, Format: "OSPMFlags: 0x%X", Capture: &info.OSPMFlags},
		// Bytes 40-63 are reserved.
	}
}

// ParseFACS parses the Firmware ACPI Control Structure.
func ParseFACS(sink *log.Sink, buf []byte) *FACSInfo {
	info := &FACSInfo{}
	Parse(sink, true, "FACS", buf, facsFields(info))
	return info
}
