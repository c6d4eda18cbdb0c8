// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"strconv"

	"github.com/firmwarekit/acpiparse/log"
)

// Arch is a bitmask over the architectures a sub-structure kind may be
// compatible with (§4.7).
type Arch uint8

// Architecture bits.
const (
	ArchIA32 Arch = 1 << iota
	ArchX64
	ArchARM
	ArchAARCH64
	ArchRISCV64

	ArchAll = ArchIA32 | ArchX64 | ArchARM | ArchAARCH64 | ArchRISCV64
)

// CurrentArch is the build's own architecture set, consulted by §4.7
// reporting. Tests may override it; production callers leave it at its
// default, which allows every architecture (an inspector binary is not
// itself tied to the architecture of the table it inspects).
var CurrentArch = ArchAll

// HandlerKind tags which variant of Handler is active (§3 "Structure
// handler"). It is a plain integer tag: the compiler does not check that a
// switch over it covers every kind, and ParseStruct sends any kind other
// than HandlerFieldTable and HandlerCustom down the fatal path.
type HandlerKind int

// Handler kinds.
const (
	HandlerFieldTable HandlerKind = iota
	HandlerCustom
	HandlerUnimplemented
)

// CustomDispatcher is a sub-structure handler that parses its own body
// rather than delegating to a flat field-descriptor table (used for
// sub-structures whose layout depends on an earlier field, e.g. IORT ID
// mapping arrays).
type CustomDispatcher func(sink *log.Sink, trace bool, data []byte, length uint32)

// Handler is the structure handler tagged variant: at most one of Fields or
// Custom is meaningful, selected by Kind (§3 "Structure handler").
type Handler struct {
	Kind   HandlerKind
	Fields []Field
	Custom CustomDispatcher
}

// FieldTableHandler builds a Handler that dispatches to a flat descriptor
// table.
func FieldTableHandler(fields []Field) Handler {
	return Handler{Kind: HandlerFieldTable, Fields: fields}
}

// CustomHandler builds a Handler that dispatches to fn.
func CustomHandler(fn CustomDispatcher) Handler {
	return Handler{Kind: HandlerCustom, Custom: fn}
}

// UnimplementedHandler marks a sub-structure kind the engine recognizes by
// name but does not decode. ParseStruct reports a sub-structure of such a
// kind as a fatal-tagged error and returns (§4.2); the table walk that
// called it goes on with the next sub-structure.
func UnimplementedHandler() Handler {
	return Handler{Kind: HandlerUnimplemented}
}

// RegistryEntry is a per-sub-structure-type registry entry within a table's
// structure database (§3 "Structure registry entry").
type RegistryEntry struct {
	// Name is the human-readable structure name.
	Name string

	// Type is the ACPI-defined numeric type tag; Database enforces
	// Entries[i].Type == i.
	Type uint8

	// Arch is the architecture-compatibility mask.
	Arch Arch

	// Count is the mutable instance counter, reset per parse.
	Count int

	// Handler dispatches the sub-structure's body.
	Handler Handler
}

// Database is a per-table structure database: an ordered array of registry
// entries indexed by the ACPI-defined type tag (§3 "Structure database").
// The invariant Entries[i].Type == i with no gaps is validated by NewDatabase
// rather than trusted silently, since a violation is a defect of the
// database itself, not of parsed data.
type Database struct {
	Name    string
	Entries []RegistryEntry
}

// NewDatabase builds a Database from entries, which must already be ordered
// by Type with no gaps (entries[i].Type == i). It panics if that invariant
// does not hold, since the invariant is a compile-time property of the
// engine, not something recoverable at runtime.
func NewDatabase(name string, entries []RegistryEntry) *Database {
	for i := range entries {
		if int(entries[i].Type) != i {
			panic("acpi: structure database " + name + " has a gap or misordered entry at index " +
				strconv.Itoa(i))
		}
	}
	return &Database{Name: name, Entries: entries}
}

// Reset zeroes every instance counter, as required at the start of each
// table parse (§4.2 step 2).
func (db *Database) Reset() {
	for i := range db.Entries {
		db.Entries[i].Count = 0
	}
}

// Lookup returns the registry entry for typeTag, or nil if typeTag is
// outside the database's range.
func (db *Database) Lookup(typeTag uint8) *RegistryEntry {
	if int(typeTag) >= len(db.Entries) {
		return nil
	}
	return &db.Entries[typeTag]
}

// ParseStruct dispatches one sub-structure: it looks up typeTag in db,
// reports an unknown-type value error if absent, otherwise logs the item
// line, increments the instance counter and dispatches by handler kind
// (§4.2 "ParseStruct").
func ParseStruct(sink *log.Sink, db *Database, offset uint32, typeTag uint8, length uint32, data []byte) {
	entry := db.Lookup(typeTag)
	if entry == nil {
		sink.Errorf(log.KindValue, "%s: unknown sub-structure type 0x%x at +0x%x", db.Name, typeTag, offset)
		return
	}

	sink.Itemf(entry.Name, entry.Count, offset)
	entry.Count++

	switch entry.Handler.Kind {
	case HandlerFieldTable:
		Parse(sink, true, entry.Name, data, entry.Handler.Fields)
	case HandlerCustom:
		entry.Handler.Custom(sink, true, data, length)
	default:
		sink.Fatalf("%s: sub-structure %q has no implemented handler", db.Name, entry.Name)
	}
}

// ReportArchCompatibility logs §4.7's reporting rule for every entry in db:
// a compatible type's count is always shown; an incompatible type with a
// zero count is silent; an incompatible type with a non-zero count is an
// error.
func ReportArchCompatibility(sink *log.Sink, db *Database) {
	for i := range db.Entries {
		e := &db.Entries[i]
		compatible := e.Arch&CurrentArch != 0
		switch {
		case compatible:
			sink.Infof("%s: %d instance(s)", e.Name, e.Count)
		case e.Count == 0:
			// Incompatible and unused: nothing to report.
		default:
			sink.Errorf(log.KindValue, "%s: structure not valid for the target architecture", e.Name)
		}
	}
}
