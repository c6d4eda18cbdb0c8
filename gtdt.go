// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// GTDTInfo carries the Generic Timer Description Table's fixed fields, up to
// and including CntReadBasePhysicalAddr. GT Block and Watchdog entries are
// not decoded.
type GTDTInfo struct {
	Header                       *HeaderInfo
	CntControlBasePhysicalAddr   []byte
	SecurePL1TimerGSIV           []byte
	SecurePL1TimerFlags          []byte
	NonSecurePL1TimerGSIV        []byte
	NonSecurePL1TimerFlags       []byte
	VirtualTimerGSIV             []byte
	VirtualTimerFlags            []byte
	NonSecurePL2TimerGSIV        []byte
	NonSecurePL2TimerFlags       []byte
	CntReadBasePhysicalAddr      []byte
}

func gtdtFields(info *GTDTInfo) []Field {
	return []Field{
		{Name: "CntControlBasePhysicalAddr", Length: 8, Offset: 36, Format: "CntControlBasePhysicalAddr: 0x%X", Capture: &info.CntControlBasePhysicalAddr},
		{Length: 4, Offset: 44}, // Reserved
		{Name: "SecurePL1TimerGSIV", Length: 4, Offset: 48, Format: "SecurePL1TimerGSIV: 0x%X", Capture: &info.SecurePL1TimerGSIV},
		{Name: "SecurePL1TimerFlags", Length: 4, Offset: 52, Format: "SecurePL1TimerFlags: 0x%X", Capture: &info.SecurePL1TimerFlags},
		{Name: "NonSecurePL1TimerGSIV", Length: 4, Offset: 56, Format: "NonSecurePL1TimerGSIV: 0x%X", Capture: &info.NonSecurePL1TimerGSIV},
		{Name: "NonSecurePL1TimerFlags", Length: 4, Offset: 60, Format: "NonSecurePL1TimerFlags: 0x%X", Capture: &info.NonSecurePL1TimerFlags},
		{Name: "VirtualTimerGSIV", Length: 4, Offset: 64, Format: "VirtualTimerGSIV: 0x%X", Capture: &info.VirtualTimerGSIV},
		{Name: "VirtualTimerFlags", Length: 4, Offset: 68, Format: "VirtualTimerFlags: 0x%X", Capture: &info.VirtualTimerFlags},
		{Name: "NonSecurePL2TimerGSIV", Length: 4, Offset: 72, Format: "NonSecurePL2TimerGSIV: 0x%X", Capture: &info.NonSecurePL2TimerGSIV},
		{Name: "NonSecurePL2TimerFlags", Length: 4, Offset: 76, Format: "NonSecurePL2TimerFlags: 0x%X", Capture: &info.NonSecurePL2TimerFlags},
		{Name: "CntReadBasePhysicalAddr", Length: 8, Offset: 80, Format: "CntReadBasePhysicalAddr: 0x%X", Capture: &info.CntReadBasePhysicalAddr},
	}
}

// ParseGTDT parses the Generic Timer Description Table.
func ParseGTDT(sink *log.Sink, buf []byte) *GTDTInfo {
	header, n := ParseHeader(sink, buf)
	info := &GTDTInfo{Header: header}
	if uint32(len(buf)) < n {
		sink.Errorf(log.KindLength, "GTDT: buffer shorter than header")
		return info
	}

	VerifyChecksum(sink, "GTDT", buf)
	Parse(sink, true, "GTDT", buf, gtdtFields(info))
	return info
}
