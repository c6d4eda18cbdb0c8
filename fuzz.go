// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import "github.com/firmwarekit/acpiparse/log"

// Fuzz is the go-fuzz entry point: it drives DispatchTable over arbitrary
// bytes with the sink pointed at a discard logger, so a crash or infinite
// loop is the only failure mode worth reporting (every other defect is
// swallowed into the sink by design, §7).
func Fuzz(data []byte) int {
	sink := log.NewSink(log.NewDiscardLogger())
	sink.ConsistencyMode = true

	if !DispatchTable(sink, data) {
		return 0
	}
	return 1
}
