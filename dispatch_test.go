// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"testing"

	"github.com/firmwarekit/acpiparse/log"
)

func TestDispatchTableUnknownSignature(t *testing.T) {
	buf := make([]byte, SDTHeaderSize)
	copy(buf[0:4], "ZZZZ")
	fixChecksum(buf)

	sink := log.NewSink(log.NewDiscardLogger())
	if DispatchTable(sink, buf) {
		t.Fatalf("an unrecognized signature must make DispatchTable return false")
	}
}

func TestDispatchTableTooShortForSignature(t *testing.T) {
	sink := log.NewSink(log.NewDiscardLogger())
	if DispatchTable(sink, []byte{0x01, 0x02}) {
		t.Fatalf("a buffer shorter than 4 bytes must make DispatchTable return false")
	}
}

func TestDispatchTableRoutesBySignature(t *testing.T) {
	buf := make([]byte, SDTHeaderSize)
	copy(buf[0:4], "GTDT")
	fixChecksum(buf)

	sink := log.NewSink(log.NewDiscardLogger())
	if !DispatchTable(sink, buf) {
		t.Fatalf("a recognized signature must make DispatchTable return true")
	}
}
