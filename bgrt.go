// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// BGRTInfo carries the Boot Graphics Resource Table's fields.
type BGRTInfo struct {
	Header          *HeaderInfo
	Version         []byte
	Status          []byte
	ImageType       []byte
	ImageAddress    []byte
	ImageOffsetX    []byte
	ImageOffsetY    []byte
}

func bgrtFields(info *BGRTInfo) []Field {
	return []Field{
		{Name: "Version", Length: 2, Offset: 36, Format: "Version: %d", Capture: &info.Version},
		{Name: "Status", Length: 1, Offset: 38, Format: "Status: 0x%X", Capture: &info.Status},
		{Name: "ImageType", Length: 1, Offset: 39, Format: "ImageType: %d", Capture: &info.ImageType},
		{Name: "ImageAddress", Length: 8, Offset: 40, Format: "ImageAddress: 0x%X", Capture: &info.ImageAddress},
		{Name: "ImageOffsetX", Length: 4, Offset: 48, Format: "ImageOffsetX: %d", Capture: &info.ImageOffsetX},
		{Name: "ImageOffsetY", Length: 4, Offset: 52, Format: "ImageOffsetY: %d", Capture: &info.ImageOffsetY},
	}
}

// ParseBGRT parses the Boot Graphics Resource Table.
func ParseBGRT(sink *log.Sink, buf []byte) *BGRTInfo {
	header, n := ParseHeader(sink, buf)
	info := &BGRTInfo{Header: header}
	if uint32(len(buf)) < n {
		sink.Errorf(log.KindLength, "BGRT: buffer shorter than header")
		return info
	}

	VerifyChecksum(sink, "BGRT", buf)
	Parse(sink, true, "BGRT", buf, bgrtFields(info))

	if len(info.Version) == 2 && readUint(info.Version, 2) != 1 {
		sink.Warnf("BGRT: Version %d is not the only value defined by ACPI 6.3 (1)", readUint(info.Version, 2))
	}
	return info
}
