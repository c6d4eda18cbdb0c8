// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// ParseDSDT parses only the DSDT's common header; the AML bytecode body is
// out of scope (§1 Non-goals: "executing AML bytecode"). ParseSSDT is
// identical in shape and kept as a separate entry point since the two tables
// are distinct ACPI signatures a caller dispatches on independently.
func ParseDSDT(sink *log.Sink, buf []byte) *HeaderInfo {
	info, _ := ParseHeader(sink, buf)
	VerifyChecksum(sink, "DSDT", buf)
	return info
}

// ParseSSDT parses only the SSDT's common header.
func ParseSSDT(sink *log.Sink, buf []byte) *HeaderInfo {
	info, _ := ParseHeader(sink, buf)
	VerifyChecksum(sink, "SSDT", buf)
	return info
}
