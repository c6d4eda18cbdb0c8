// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// SLITInfo carries the System Locality distance Information Table: a header,
// a locality count, then a row-major NumberOfSystemLocalities^2 distance
// matrix of single bytes.
type SLITInfo struct {
	Header              *HeaderInfo
	NumberOfLocalities  []byte
	Matrix              [][]byte
}

// ParseSLIT parses the SLIT table.
func ParseSLIT(sink *log.Sink, buf []byte) *SLITInfo {
	header, n := ParseHeader(sink, buf)
	info := &SLITInfo{Header: header}
	if uint32(len(buf)) < n+8 {
		sink.Errorf(log.KindLength, "SLIT: buffer shorter than header plus locality count")
		return info
	}

	VerifyChecksum(sink, "SLIT", buf)

	Parse(sink, true, "SLIT", buf, []Field{
		{Name: "NumberOfSystemLocalities", Length: 8, Offset: 36, Format: "NumberOfSystemLocalities: %d", Capture: &info.NumberOfLocalities},
	})

	count := uint32(readUint(info.NumberOfLocalities, 8))
	offset := n + 8

	for row := uint32(0); row < count; row++ {
		if uint64(offset)+uint64(count) > uint64(len(buf)) {
			sink.Errorf(log.KindLength, "SLIT: distance matrix row %d extends past the end of the table", row)
			break
		}
		rowData := buf[offset : offset+count]
		sink.Infof("Entry[%d]: %s", row, hexString(rowData))
		info.Matrix = append(info.Matrix, rowData)
		offset += count
	}

	return info
}
