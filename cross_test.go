// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"testing"

	"github.com/firmwarekit/acpiparse/log"
)

func byteEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCheckUniqueReportsBothOffsets(t *testing.T) {
	list := CrossList{
		{Data: []byte{0x01}, Offset: 0x10},
		{Data: []byte{0x02}, Offset: 0x20},
		{Data: []byte{0x01}, Offset: 0x30},
	}

	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))

	ok := CheckUnique(sink, list, byteEqual, "Test", "Thing")
	if ok {
		t.Fatalf("CheckUnique should report the duplicate between offsets 0x10 and 0x30")
	}

	found := false
	for _, r := range records {
		if containsAll(r, "duplicate", "+0x10", "+0x30") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a cross error naming both colliding offsets, got: %v", records)
	}
}

func TestCheckUniqueNoCollision(t *testing.T) {
	list := CrossList{
		{Data: []byte{0x01}, Offset: 0x10},
		{Data: []byte{0x02}, Offset: 0x20},
	}
	sink := log.NewSink(log.NewDiscardLogger())
	if !CheckUnique(sink, list, byteEqual, "Test", "Thing") {
		t.Fatalf("CheckUnique should find no collision in a distinct set")
	}
}

func TestFollowReferenceChainZeroIsAlwaysValid(t *testing.T) {
	sink := log.NewSink(log.NewDiscardLogger())
	if !FollowReferenceChain(sink, nil, 0, ReferenceChainOptions{}) {
		t.Fatalf("a start offset of 0 must always be valid")
	}
}

func TestFollowReferenceChainTerminates(t *testing.T) {
	// A -> B -> terminator (Next returns 0).
	list := CrossList{
		{Type: 1, Offset: 0x10, Data: []byte{0x20, 0, 0, 0}},
		{Type: 1, Offset: 0x20, Data: []byte{0, 0, 0, 0}},
	}
	next := func(e *CrossEntry) uint32 { return readUintLE32(e.Data) }

	sink := log.NewSink(log.NewDiscardLogger())
	ok := FollowReferenceChain(sink, list, 0x10, ReferenceChainOptions{
		SameKind: 1,
		KindName: "Node",
		Next:     next,
	})
	if !ok {
		t.Fatalf("a terminating chain should validate cleanly")
	}
}

func TestFollowReferenceChainDetectsCycle(t *testing.T) {
	// A -> B -> A: a cycle with no terminator.
	list := CrossList{
		{Type: 1, Offset: 0x10, Data: []byte{0x20, 0, 0, 0}},
		{Type: 1, Offset: 0x20, Data: []byte{0x10, 0, 0, 0}},
	}
	next := func(e *CrossEntry) uint32 { return readUintLE32(e.Data) }

	var records []string
	sink := log.NewSink(recordingLogger(func(level log.Level, msg string) {
		records = append(records, msg)
	}))
	ok := FollowReferenceChain(sink, list, 0x10, ReferenceChainOptions{
		SameKind: 1,
		KindName: "Node",
		Next:     next,
	})
	if ok {
		t.Fatalf("a cyclic chain must be rejected")
	}
	found := false
	for _, r := range records {
		if containsAll(r, "reference loop detected") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a 'reference loop detected' error, got: %v", records)
	}
}

func TestFollowReferenceChainRejectsLeafParent(t *testing.T) {
	list := CrossList{
		{Type: 1, Offset: 0x10, Data: []byte{0x01}},
	}
	sink := log.NewSink(log.NewDiscardLogger())
	ok := FollowReferenceChain(sink, list, 0x10, ReferenceChainOptions{
		SameKind: 1,
		KindName: "Node",
		IsLeaf:   func(e *CrossEntry) bool { return e.Data[0] == 0x01 },
		Next:     func(e *CrossEntry) uint32 { return 0 },
	})
	if ok {
		t.Fatalf("a leaf-marked node referenced as a parent must be rejected")
	}
}

func TestFollowReferenceChainDanglingReference(t *testing.T) {
	sink := log.NewSink(log.NewDiscardLogger())
	ok := FollowReferenceChain(sink, CrossList{}, 0x10, ReferenceChainOptions{
		SameKind: 1,
		KindName: "Node",
		Next:     func(e *CrossEntry) uint32 { return 0 },
	})
	if ok {
		t.Fatalf("a reference to a nonexistent offset must be rejected")
	}
}

func TestPrivateResourceKindCheck(t *testing.T) {
	list := CrossList{
		{Type: PpttCacheNode, Offset: 0x40},
		{Type: PpttProcessorHierarchyNode, Offset: 0x60},
	}
	sink := log.NewSink(log.NewDiscardLogger())

	if !PrivateResourceKindCheck(sink, list, 0x40, PpttCacheNode, PpttIDNode) {
		t.Fatalf("a Cache node reference should be accepted")
	}
	if PrivateResourceKindCheck(sink, list, 0x60, PpttCacheNode, PpttIDNode) {
		t.Fatalf("a Processor Hierarchy node reference should be rejected")
	}
	if PrivateResourceKindCheck(sink, list, 0x80, PpttCacheNode, PpttIDNode) {
		t.Fatalf("a reference to a nonexistent offset should be rejected")
	}
}

func readUintLE32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
