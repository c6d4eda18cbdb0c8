// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"strings"
	"sync"
)

// Severity is one of the engine's output tags (§6 of the spec: seven
// severity tags plus the error taxonomy carried under "Error").
type Severity int8

// Severity tags.
const (
	Good Severity = iota
	Info
	Warn
	Bad
	Item
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Good:
		return "good"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Bad:
		return "bad"
	case Item:
		return "item"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "?"
	}
}

// Trace accumulates the non-fatal anomalies observed during one top-level
// table parse (§7 "report, don't raise"), mirroring the teacher's
// File.Anomalies/addAnomaly pairing (anomaly.go) generalized across every
// table instead of one PE-specific catalogue.
type Trace struct {
	Anomalies []string
}

func (t *Trace) add(msg string) {
	for _, existing := range t.Anomalies {
		if existing == msg {
			return
		}
	}
	t.Anomalies = append(t.Anomalies, msg)
}

// Kind tags an Error-severity record with the error taxonomy from §7.
type Kind string

// Error kinds.
const (
	KindChecksum Kind = "csum"
	KindValue    Kind = "value"
	KindLength   Kind = "length"
	KindParse    Kind = "parse"
	KindCross    Kind = "cross"
)

// Sink is the engine's output sink: a severity-tagged log channel with an
// indent counter shared across every parser invocation (§3, §5, §9). A Sink
// is safe for the single-threaded cooperative model the engine uses; it is
// not meant to be shared across concurrent table parses.
type Sink struct {
	mu     sync.Mutex
	helper *Helper
	indent int

	// Quiet suppresses warn/bad/error output (§7 "User-visible behavior").
	// It does not change ConsistencyMode; cmd/acpidump clears that flag
	// itself when quiet mode is requested.
	Quiet bool

	// ConsistencyMode enables per-field validators and cross-structure
	// checks (§7 "Consistency mode is a process-wide flag").
	ConsistencyMode bool

	// Trace is the anomaly accumulator for the table parse currently in
	// flight, set by NewTrace. It is nil until the first top-level
	// dispatch calls NewTrace.
	Trace *Trace
}

// NewTrace resets s's anomaly accumulator for a fresh top-level table parse
// and returns it.
func (s *Sink) NewTrace() *Trace {
	s.Trace = &Trace{}
	return s.Trace
}

// NewSink returns a Sink writing through logger.
func NewSink(logger Logger) *Sink {
	return &Sink{helper: NewHelper(logger)}
}

// Enter increments the indent counter and returns a function that restores
// it. Callers must defer the returned function so the counter is restored on
// every exit path, including panics recovered upstream (§9).
func (s *Sink) Enter() func() {
	s.mu.Lock()
	s.indent++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.indent--
		s.mu.Unlock()
	}
}

// Indent returns the current indent depth.
func (s *Sink) Indent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indent
}

func (s *Sink) prefix() string {
	return strings.Repeat("  ", s.Indent())
}

// emit writes one record at the given severity, honoring quiet mode.
func (s *Sink) emit(sev Severity, format string, a ...interface{}) {
	if s.Quiet && (sev == Warn || sev == Bad || sev == Error) {
		return
	}
	line := s.prefix() + fmt.Sprintf(format, a...)
	switch sev {
	case Fatal:
		s.helper.Fatalf("%s", line)
	case Error, Bad:
		s.helper.Errorf("%s", line)
	case Warn:
		s.helper.Warnf("%s", line)
	default:
		s.helper.Infof("%s", line)
	}
}

// Goodf reports a positive confirmation (e.g. a checksum that validated).
func (s *Sink) Goodf(format string, a ...interface{}) { s.emit(Good, format, a...) }

// Infof reports a neutral trace line.
func (s *Sink) Infof(format string, a ...interface{}) { s.emit(Info, format, a...) }

// Warnf reports a non-fatal anomaly, also recording it on the in-flight
// Trace (if any) so callers can inspect the full anomaly set after a parse
// completes, not just the emitted log stream.
func (s *Sink) Warnf(format string, a ...interface{}) {
	if s.Trace != nil {
		s.Trace.add(fmt.Sprintf(format, a...))
	}
	s.emit(Warn, format, a...)
}

// Badf reports a plain defect with no specific taxonomy.
func (s *Sink) Badf(format string, a ...interface{}) { s.emit(Bad, format, a...) }

// Itemf reports one sub-structure instance line:
// "name[instance_index] (+0xoffset)" per §4.2.
func (s *Sink) Itemf(name string, index int, offset uint32) {
	s.emit(Item, "%s[%d] (+0x%x)", name, index, offset)
}

// Errorf reports a taxonomy-tagged error (§7: csum|value|length|parse|cross).
func (s *Sink) Errorf(kind Kind, format string, a ...interface{}) {
	s.emit(Error, "[%s] "+format, append([]interface{}{kind}, a...)...)
}

// Fatalf reports an unimplemented handler path or a broken internal
// invariant. It only emits the record: it never exits the process or
// panics, and it does not stop the table parse that called it.
func (s *Sink) Fatalf(format string, a ...interface{}) { s.emit(Fatal, format, a...) }
