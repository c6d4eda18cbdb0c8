// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"testing"

	"github.com/firmwarekit/acpiparse/log"
)

const (
	madtGICCSubLen = 80
	madtGICDSubLen = 24
)

func buildMadtHeader(buf []byte, length uint32) {
	copy(buf[0:4], "APIC")
	putLE(buf, 4, uint64(length), 4)
}

func writeGICC(buf []byte, offset int, acpiProcessorUID uint32) {
	buf[offset] = MadtGICC
	buf[offset+1] = madtGICCSubLen
	putLE(buf, offset+8, uint64(acpiProcessorUID), 4)
}

func writeGICD(buf []byte, offset int, gicid uint32) {
	buf[offset] = MadtGICD
	buf[offset+1] = madtGICDSubLen
	putLE(buf, offset+4, uint64(gicid), 4)
}

func collectLogs(f func(sink *log.Sink)) []string {
	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))
	sink.ConsistencyMode = true
	f(sink)
	return records
}

// §8 scenario 2: one GICC and one GICD must produce no cross errors, and the
// arch-compatibility report must show one instance of each.
func TestParseMADTOneGICCOneGICD(t *testing.T) {
	total := SDTHeaderSize + 8 + madtGICCSubLen + madtGICDSubLen
	buf := make([]byte, total)
	buildMadtHeader(buf, uint32(total))

	giccOffset := SDTHeaderSize + 8
	gicdOffset := giccOffset + madtGICCSubLen
	writeGICC(buf, giccOffset, 1)
	writeGICD(buf, gicdOffset, 0)
	fixChecksum(buf)

	records := collectLogs(func(sink *log.Sink) { ParseMADT(sink, buf) })

	for _, r := range records {
		if containsAll(r, "cross") {
			t.Fatalf("one GICC + one GICD should raise no cross error, got: %v", records)
		}
	}
	giccCount, gicdCount := false, false
	for _, r := range records {
		if containsAll(r, "GICC: 1 instance") {
			giccCount = true
		}
		if containsAll(r, "GICD: 1 instance") {
			gicdCount = true
		}
	}
	if !giccCount || !gicdCount {
		t.Fatalf("expected both GICC and GICD instance counts to be 1, got: %v", records)
	}
}

// §8 scenario 3: two GICDs must raise exactly one "only one GICD" cross error.
func TestParseMADTDuplicateGICD(t *testing.T) {
	total := SDTHeaderSize + 8 + 2*madtGICDSubLen
	buf := make([]byte, total)
	buildMadtHeader(buf, uint32(total))

	firstOffset := SDTHeaderSize + 8
	secondOffset := firstOffset + madtGICDSubLen
	writeGICD(buf, firstOffset, 0)
	writeGICD(buf, secondOffset, 1)
	fixChecksum(buf)

	records := collectLogs(func(sink *log.Sink) { ParseMADT(sink, buf) })

	count := 0
	for _, r := range records {
		if containsAll(r, "only one GICD must be present, found 2") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one 'only one GICD' cross error, got %d in: %v", count, records)
	}
}

// §8 scenario 4: two GICCs with the same ACPI Processor UID must raise one
// cross error naming both structure offsets.
func TestParseMADTDuplicateProcessorUID(t *testing.T) {
	total := SDTHeaderSize + 8 + 2*madtGICCSubLen
	buf := make([]byte, total)
	buildMadtHeader(buf, uint32(total))

	firstOffset := SDTHeaderSize + 8
	secondOffset := firstOffset + madtGICCSubLen
	writeGICC(buf, firstOffset, 7)
	writeGICC(buf, secondOffset, 7)
	fixChecksum(buf)

	records := collectLogs(func(sink *log.Sink) { ParseMADT(sink, buf) })

	wantA := firstOffset
	wantB := secondOffset
	found := false
	for _, r := range records {
		if containsAll(r, "duplicate", "ACPI Processor UID") &&
			containsAll(r, hexOffset(wantA)) && containsAll(r, hexOffset(wantB)) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate ACPI Processor UID cross error naming both offsets, got: %v", records)
	}
}

func hexOffset(n int) string {
	const hexDigits = "0123456789abcdef"
	if n == 0 {
		return "0x0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{hexDigits[n%16]}, digits...)
		n /= 16
	}
	return "0x" + string(digits)
}
