// Copyright 2026 The zeroarc Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build linux || darwin

package mmapbuf

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmap maps size bytes of f read-only, as a shared mapping (nothing in
// this package ever writes to it).
func mmap(f *os.File, size int) (*Buffer, error) {
	if size == 0 {
		// unix.Mmap rejects a zero-length mapping outright; an empty
		// buffer is a legitimate archived value (spec §8, "Empty
		// container... Expected: 0-byte archived footprint"), so hand
		// back a Buffer over a non-nil, zero-length slice instead of
		// erroring.
		return &Buffer{data: []byte{}}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &Buffer{data: data}, nil
}

// Close unmaps b's backing memory. Using b.Bytes() after Close is
// undefined behavior, identically to holding a pointer derived from
// zeroarc.Access past the lifetime of the buffer it pointed into.
func (b *Buffer) Close() error {
	if len(b.data) == 0 {
		return nil
	}
	return unix.Munmap(b.data)
}
