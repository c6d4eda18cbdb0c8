// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// DBG2DeviceInfo is one Debug Device Information structure within a DBG2
// table.
type DBG2DeviceInfo struct {
	PortType       []byte
	PortSubtype    []byte
	BaseAddressRegisterOffset []byte
	NamespaceStringOffset     []byte
}

func dbg2DeviceFields(info *DBG2DeviceInfo) []Field {
	return []Field{
		{Length: 1, Offset: 0}, // Revision
		{Length: 2, Offset: 1}, // Length (already consumed by the caller)
		{Length: 1, Offset: 3}, // NumberOfGenericAddressRegisters
		{Length: 2, Offset: 4}, // NamespaceStringLength
		{Name: "NamespaceStringOffset", Length: 2, Offset: 6, Format: "NamespaceStringOffset: 0x%X", Capture: &info.NamespaceStringOffset},
		{Length: 2, Offset: 8}, // OemDataLength
		{Length: 2, Offset: 10}, // OemDataOffset
		{Name: "PortType", Length: 2, Offset: 12, Format: "PortType: 0x%X", Capture: &info.PortType},
		{Name: "PortSubtype", Length: 2, Offset: 14, Format: "PortSubtype: 0x%X", Capture: &info.PortSubtype},
		{Length: 2, Offset: 16}, // Reserved
		{Name: "BaseAddressRegisterOffset", Length: 2, Offset: 18, Format: "BaseAddressRegisterOffset: 0x%X", Capture: &info.BaseAddressRegisterOffset},
	}
}

// DBG2Info carries the Debug Port Table 2's fixed fields and device entries.
type DBG2Info struct {
	Header            *HeaderInfo
	OffsetDbgDeviceInfo []byte
	NumberDbgDeviceInfo []byte
	Devices           []*DBG2DeviceInfo
}

// ParseDBG2 parses the Debug Port Table 2.
func ParseDBG2(sink *log.Sink, buf []byte) *DBG2Info {
	header, n := ParseHeader(sink, buf)
	info := &DBG2Info{Header: header}
	if uint32(len(buf)) < n+8 {
		sink.Errorf(log.KindLength, "DBG2: buffer shorter than header plus device info offset and count")
		return info
	}

	VerifyChecksum(sink, "DBG2", buf)

	Parse(sink, true, "DBG2", buf, []Field{
		{Name: "OffsetDbgDeviceInfo", Length: 4, Offset: 36, Format: "OffsetDbgDeviceInfo: 0x%X", Capture: &info.OffsetDbgDeviceInfo},
		{Name: "NumberDbgDeviceInfo", Length: 4, Offset: 40, Format: "NumberDbgDeviceInfo: %d", Capture: &info.NumberDbgDeviceInfo},
	})

	offset := uint32(readUint(info.OffsetDbgDeviceInfo, 4))
	count := uint32(readUint(info.NumberDbgDeviceInfo, 4))

	for i := uint32(0); i < count; i++ {
		if uint64(offset)+4 > uint64(len(buf)) {
			sink.Errorf(log.KindLength, "DBG2: device info %d starts past the end of the table", i)
			break
		}
		sub := ParseSubHeader(sink, buf[offset:])
		_ = sub
		length := uint32(readUint(buf[offset+1:offset+3], 2))
		if length < 4 || offset+length > uint32(len(buf)) {
			sink.Errorf(log.KindLength, "DBG2: device info %d declares an out-of-range length %d", i, length)
			break
		}

		sink.Itemf("Debug Device Information", int(i), offset)
		dev := &DBG2DeviceInfo{}
		Parse(sink, true, "Debug Device Information", buf[offset:offset+length], dbg2DeviceFields(dev))
		info.Devices = append(info.Devices, dev)

		offset += length
	}

	return info
}
