// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package acpi

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// Image is a memory-mapped ACPI table image: the inspector core operates on
// an in-memory buffer (§1), and this is the one place that buffer is
// obtained from a file (mirrors the teacher's File.New/mmap.Map pairing in
// file.go, generalized from a PE image to a single packed ACPI table).
type Image struct {
	data mmap.MMap
	f    *os.File
}

// OpenImage memory-maps name read-only and returns an Image whose Bytes are
// ready for DispatchTable or any Parse* function. The caller must Close the
// Image once done with it.
func OpenImage(name string) (*Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Image{data: data, f: f}, nil
}

// Bytes returns the image's backing buffer.
func (img *Image) Bytes() []byte { return img.data }

// Close unmaps the image and closes the underlying file.
func (img *Image) Close() error {
	if img.data != nil {
		_ = img.data.Unmap()
	}
	if img.f != nil {
		return img.f.Close()
	}
	return nil
}
