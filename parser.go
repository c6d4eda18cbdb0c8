// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"github.com/firmwarekit/acpiparse/log"
)

// Parse walks descriptors over buf in order, tracing each field when trace
// is true, and returns the cumulative offset (§4.1): the end (Offset+Length)
// of the last descriptor. It is the number of bytes walked only when the
// first descriptor starts at offset 0; otherwise it includes that offset.
//
// For every descriptor whose declared byte range [Offset, Offset+Length)
// fully fits within len(buf): the value is rendered (custom Render or the
// default Format-driven renderer), the Capture slot (if any) is populated,
// and - when trace and sink.ConsistencyMode are both true - Validate runs.
//
// A descriptor extending past len(buf) is skipped without aborting: its
// Capture slot is cleared and the declared Length is still added to the
// cumulative advance, since the declared offset of the next descriptor
// remains the authoritative pointer.
//
// When sink.ConsistencyMode is on, a cumulative offset that disagrees with a
// descriptor's declared Offset is reported once as a parse error; the
// declared offset is authoritative for every descriptor after that. The
// first descriptor anchors the walk - its declared Offset is never itself
// flagged, since callers routinely start a descriptor table partway through
// buf (right after a header already consumed outside this call).
func Parse(sink *log.Sink, trace bool, name string, buf []byte, descriptors []Field) uint32 {
	leave := sink.Enter()
	defer leave()

	var cumulative uint32
	for i := range descriptors {
		d := &descriptors[i]

		if i == 0 {
			cumulative = d.Offset
		}

		if sink.ConsistencyMode && cumulative != d.Offset {
			label := d.Name
			if label == "" {
				label = name
			}
			sink.Errorf(log.KindParse,
				"%s: field %q offset mismatch: parser at +0x%x, descriptor declares +0x%x",
				name, label, cumulative, d.Offset)
		}

		end := d.Offset + d.Length
		inBounds := end >= d.Offset && end <= uint32(len(buf))

		if !inBounds {
			if d.Capture != nil {
				*d.Capture = nil
			}
			cumulative = d.Offset + d.Length
			continue
		}

		data := buf[d.Offset:end]

		if d.Capture != nil {
			*d.Capture = data
		}

		if trace {
			if d.Name != "" {
				if d.Render != nil {
					d.Render(sink, d, data)
				} else {
					renderDefault(sink, d, data)
				}
			}

			if sink.ConsistencyMode && d.Validate != nil {
				d.Validate(data, d.Context, sink)
			}
		}

		cumulative = d.Offset + d.Length
	}

	return cumulative
}
