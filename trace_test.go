// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"testing"

	"github.com/firmwarekit/acpiparse/log"
)

// §7 "report, don't raise": a soft anomaly (here, SPCR's BaudRate outside
// its defined 0-6 range) must land in both the log stream and the
// in-flight Trace's Anomalies slice, and a fresh DispatchTable call must
// reset that slice rather than accumulate across tables.
func TestDispatchTableTracksAnomalies(t *testing.T) {
	buf := make([]byte, SDTHeaderSize+32)
	copy(buf[0:4], "SPCR")
	buf[36] = 1   // InterfaceType
	buf[58] = 200 // BaudRate, out of the defined 0-6 range
	fixChecksum(buf)

	sink := log.NewSink(log.NewDiscardLogger())
	if !DispatchTable(sink, buf) {
		t.Fatalf("DispatchTable(SPCR) = false, want true")
	}

	if sink.Trace == nil {
		t.Fatalf("sink.Trace is nil after DispatchTable")
	}
	if !containsAll(joinAll(sink.Trace.Anomalies), "BaudRate", "200") {
		t.Fatalf("Trace.Anomalies = %v, want an entry naming the out-of-range BaudRate", sink.Trace.Anomalies)
	}

	clean := make([]byte, SDTHeaderSize+32)
	copy(clean[0:4], "SPCR")
	clean[36] = 1
	clean[58] = 3 // within the defined range
	fixChecksum(clean)

	if !DispatchTable(sink, clean) {
		t.Fatalf("DispatchTable(SPCR) = false, want true")
	}
	if len(sink.Trace.Anomalies) != 0 {
		t.Fatalf("Trace.Anomalies = %v, want empty after a fresh dispatch with no anomalies", sink.Trace.Anomalies)
	}
}

func joinAll(ss []string) string {
	out := ""
	for _, s := range ss {
		out += s + "\n"
	}
	return out
}
