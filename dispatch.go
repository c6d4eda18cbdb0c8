// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// DispatchTable inspects buf's 4-byte signature and routes it to the
// matching per-table dispatcher (§6 "Supported ACPI tables (inspector)").
// An unrecognized signature is reported as a value error and the call
// returns false; every dispatcher aborts only its own table, never the
// caller, so DispatchTable never panics on malformed input.
func DispatchTable(sink *log.Sink, buf []byte) bool {
	if len(buf) < 4 {
		sink.Errorf(log.KindLength, "table buffer shorter than a signature")
		return false
	}

	sink.NewTrace()

	switch string(buf[0:4]) {
	case "FACP":
		ParseFADT(sink, buf)
	case "FACS":
		ParseFACS(sink, buf)
	case "DSDT":
		ParseDSDT(sink, buf)
	case "SSDT":
		ParseSSDT(sink, buf)
	case "APIC":
		ParseMADT(sink, buf)
	case "MCFG":
		ParseMCFG(sink, buf)
	case "GTDT":
		ParseGTDT(sink, buf)
	case "IORT":
		ParseIORT(sink, buf)
	case "PPTT":
		ParsePPTT(sink, buf)
	case "SRAT":
		ParseSRAT(sink, buf)
	case "SLIT":
		ParseSLIT(sink, buf)
	case "SPCR":
		ParseSPCR(sink, buf)
	case "DBG2":
		ParseDBG2(sink, buf)
	case "BGRT":
		ParseBGRT(sink, buf)
	case "XSDT":
		ParseXSDT(sink, buf)
	case "RSDT":
		ParseRSDT(sink, buf)
	default:
		sink.Errorf(log.KindValue, "unrecognized ACPI table signature %q", string(buf[0:4]))
		return false
	}
	return true
}
