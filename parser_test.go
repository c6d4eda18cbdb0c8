// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"testing"

	"github.com/firmwarekit/acpiparse/log"
)

func TestParseConsumesDeclaredLengths(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	var a, b []byte
	fields := []Field{
		{Name: "A", Length: 4, Offset: 0, Format: "A: 0x%X", Capture: &a},
		{Name: "B", Length: 4, Offset: 4, Format: "B: 0x%X", Capture: &b},
	}

	sink := log.NewSink(log.NewDiscardLogger())
	n := Parse(sink, true, "Test", buf, fields)

	if n != 8 {
		t.Fatalf("Parse returned %d, want 8", n)
	}
	if len(a) != 4 || len(b) != 4 {
		t.Fatalf("capture slots not populated correctly: a=%v b=%v", a, b)
	}
}

func TestParseOutOfRangeFieldSkippedWithoutAbort(t *testing.T) {
	buf := []byte{0x01, 0x02}
	var a, b []byte
	fields := []Field{
		{Name: "A", Length: 2, Offset: 0, Format: "A: %d", Capture: &a},
		{Name: "B", Length: 4, Offset: 2, Format: "B: %d", Capture: &b},
	}

	sink := log.NewSink(log.NewDiscardLogger())
	n := Parse(sink, true, "Test", buf, fields)

	if a == nil {
		t.Fatalf("in-range field A should have been captured")
	}
	if b != nil {
		t.Fatalf("out-of-range field B should have its capture slot cleared, got %v", b)
	}
	if n != 6 {
		t.Fatalf("Parse returned %d, want 6 (2 + declared 4)", n)
	}
}

func TestParseConsistencyModeFlagsOffsetMismatch(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	fields := []Field{
		{Name: "A", Length: 1, Offset: 0},
		// Declares offset 2 but only 1 byte was consumed by A: a mismatch.
		{Name: "B", Length: 1, Offset: 2},
	}

	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))
	sink.ConsistencyMode = true

	Parse(sink, true, "Test", buf, fields)

	found := false
	for _, r := range records {
		if containsAll(r, "offset mismatch", "+0x1", "+0x2") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an offset-mismatch parse error, got records: %v", records)
	}
}

// recordingLogger and containsAll are small test-only helpers defined in this
// file and shared by the package's other test files (cross, MADT, PPTT,
// round-trip and trace tests).
type recordingLogger func(level log.Level, msg string)

func (r recordingLogger) Log(level log.Level, keyvals ...interface{}) error {
	for i := 0; i+1 < len(keyvals); i += 2 {
		if keyvals[i] == "msg" {
			if s, ok := keyvals[i+1].(string); ok {
				r(level, s)
			}
		}
	}
	return nil
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !stringsContains(s, sub) {
			return false
		}
	}
	return true
}

func stringsContains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
