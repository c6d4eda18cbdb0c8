// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"testing"

	"github.com/firmwarekit/acpiparse/log"
)

// buildPPTTHeader writes the common 36-byte SDT header with "PPTT" as its
// signature and the given total table length; the checksum byte is fixed up
// separately once the whole table is assembled.
func buildPPTTHeader(buf []byte, length uint32) {
	copy(buf[0:4], "PPTT")
	putLE(buf, 4, uint64(length), 4)
}

// writeProcessorHierarchyNode writes a minimal (no private resources)
// Processor Hierarchy Node at offset, pointing at parentOffset.
func writeProcessorHierarchyNode(buf []byte, offset int, parentOffset uint32) {
	buf[offset] = PpttProcessorHierarchyNode
	putLE(buf, offset+2, 20, 2) // Length
	putLE(buf, offset+8, uint64(parentOffset), 4)
}

// §8 scenario 5: a 3-node parent chain that cycles back on itself must be
// reported as "reference loop detected", not an infinite loop.
func TestParsePPTTDetectsReferenceCycle(t *testing.T) {
	const nodeSize = 20
	total := SDTHeaderSize + 3*nodeSize
	buf := make([]byte, total)
	buildPPTTHeader(buf, uint32(total))

	offsetA := uint32(SDTHeaderSize)
	offsetB := offsetA + nodeSize
	offsetC := offsetB + nodeSize

	writeProcessorHierarchyNode(buf, int(offsetA), offsetB)
	writeProcessorHierarchyNode(buf, int(offsetB), offsetC)
	writeProcessorHierarchyNode(buf, int(offsetC), offsetA)

	fixChecksum(buf)

	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))
	sink.ConsistencyMode = true

	ParsePPTT(sink, buf)

	found := false
	for _, r := range records {
		if containsAll(r, "reference loop detected") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a 'reference loop detected' cross error, got: %v", records)
	}
}

// A single root node (Parent == 0, meaning "no parent") must validate
// cleanly: 0 is always a valid reference.
func TestParsePPTTRootNodeHasNoParent(t *testing.T) {
	const nodeSize = 20
	total := SDTHeaderSize + nodeSize
	buf := make([]byte, total)
	buildPPTTHeader(buf, uint32(total))
	writeProcessorHierarchyNode(buf, SDTHeaderSize, 0)
	fixChecksum(buf)

	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))
	sink.ConsistencyMode = true

	info := ParsePPTT(sink, buf)
	if len(info.Nodes) != 1 {
		t.Fatalf("expected 1 parsed node, got %d", len(info.Nodes))
	}
	for _, r := range records {
		if containsAll(r, "cross") {
			t.Fatalf("a root node should not raise any cross error, got: %v", records)
		}
	}
}

// A private-resource reference that does not point at a Cache or ID node
// must be reported.
func TestParsePPTTPrivateResourceKindMismatch(t *testing.T) {
	// Layout: a Processor Hierarchy Node (with 1 private resource
	// reference pointing at itself, an illegal kind) followed by nothing.
	const nodeSize = 24 // header(20) + one 4-byte resource reference
	total := SDTHeaderSize + nodeSize
	buf := make([]byte, total)
	buildPPTTHeader(buf, uint32(total))

	offset := SDTHeaderSize
	buf[offset] = PpttProcessorHierarchyNode
	putLE(buf, offset+2, uint64(nodeSize), 2)
	putLE(buf, offset+16, 1, 4)                            // NumberOfPrivateResources
	putLE(buf, offset+20, uint64(offset), 4)                // references itself: a Processor Hierarchy Node
	fixChecksum(buf)

	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))
	sink.ConsistencyMode = true

	ParsePPTT(sink, buf)

	found := false
	for _, r := range records {
		if containsAll(r, "private resource", "not a Cache or ID node") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a private-resource kind-mismatch cross error, got: %v", records)
	}
}
