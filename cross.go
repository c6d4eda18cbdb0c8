// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// CrossEntry is one collected sample of a field (or one indexed node during
// generation): the bytes (a sub-slice of the parsed table buffer, not a copy,
// so valid only while that buffer is), its size, the owning
// sub-structure's type tag, and its byte offset from the start of the table
// (§3 "Cross-reference entry").
type CrossEntry struct {
	Data   []byte
	Type   uint8
	Offset uint32
}

// CrossList accumulates CrossEntry values across one walk of a table. It is
// local to a single validation pass and is discarded once the pass completes
// (§3, §4.3 "Lifecycle").
type CrossList []CrossEntry

// Comparator reports whether two collected field values collide.
type Comparator func(a, b []byte) bool

// CheckUnique compares every unordered pair in list under cmp. Every
// colliding pair emits one cross error citing both offsets
// (§4.3 "Uniqueness check", fixing the source bug noted in §9(b) where only
// one offset was reported). It returns true if no collision was found.
func CheckUnique(sink *log.Sink, list CrossList, cmp Comparator, structName, fieldName string) bool {
	ok := true
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if cmp(list[i].Data, list[j].Data) {
				sink.Errorf(log.KindCross,
					"%s: duplicate %s at offsets +0x%x and +0x%x",
					structName, fieldName, list[i].Offset, list[j].Offset)
				ok = false
			}
		}
	}
	return ok
}

// findByOffset returns the entry at the given table offset, or nil.
func findByOffset(list CrossList, offset uint32) *CrossEntry {
	for i := range list {
		if list[i].Offset == offset {
			return &list[i]
		}
	}
	return nil
}

// ReferenceChainOptions configures FollowReferenceChain.
type ReferenceChainOptions struct {
	// SameKind is the type tag the referenced node must have.
	SameKind uint8

	// KindName names SameKind for error messages.
	KindName string

	// IsLeaf, if non-nil, marks a node as a disallowed chain terminus
	// (PPTT: a leaf-marked processor node may not be referenced as a
	// parent).
	IsLeaf func(entry *CrossEntry) bool

	// Next extracts the next reference offset from an entry; a returned
	// value of 0 is the terminator (§4.3).
	Next func(entry *CrossEntry) uint32
}

// FollowReferenceChain validates a reference chain starting at startOffset
// against list, per §4.3's "Reference check for chains with cycle
// detection". A startOffset of 0 is always valid (no reference). Otherwise
// the referenced entry must exist, must be of opts.SameKind, and must not be
// leaf-marked; the chain is then followed hop by hop, bounded by len(list)
// hops, until a terminator (next offset == 0) is reached. Exceeding the
// bound without terminating is reported as "reference loop detected".
func FollowReferenceChain(sink *log.Sink, list CrossList, startOffset uint32, opts ReferenceChainOptions) bool {
	if startOffset == 0 {
		return true
	}

	offset := startOffset
	maxHops := len(list)
	for hop := 0; hop <= maxHops; hop++ {
		entry := findByOffset(list, offset)
		if entry == nil {
			sink.Errorf(log.KindCross, "dangling reference to offset +0x%x (expected %s)", offset, opts.KindName)
			return false
		}
		if entry.Type != opts.SameKind {
			sink.Errorf(log.KindCross, "reference at +0x%x does not target a %s node", offset, opts.KindName)
			return false
		}
		if opts.IsLeaf != nil && opts.IsLeaf(entry) {
			sink.Errorf(log.KindCross, "reference at +0x%x targets a leaf node, which cannot be a parent", offset)
			return false
		}

		next := opts.Next(entry)
		if next == 0 {
			return true
		}
		offset = next
	}

	sink.Errorf(log.KindCross, "reference loop detected starting at offset +0x%x", startOffset)
	return false
}

// PrivateResourceKindCheck confirms that an entry exists at offset and that
// its kind is one of allowedKinds (§4.3 "Private-resource check": PPTT
// private resources must be either Cache or ID nodes).
func PrivateResourceKindCheck(sink *log.Sink, list CrossList, offset uint32, allowedKinds ...uint8) bool {
	entry := findByOffset(list, offset)
	if entry == nil {
		sink.Errorf(log.KindCross, "private resource reference to offset +0x%x does not exist", offset)
		return false
	}
	for _, k := range allowedKinds {
		if entry.Type == k {
			return true
		}
	}
	sink.Errorf(log.KindCross, "private resource at +0x%x is not a Cache or ID node", offset)
	return false
}
