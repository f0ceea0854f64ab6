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

// Package mmapbuf demonstrates the claim in spec §1 end to end: a buffer
// produced by this framework "can be memory-mapped or otherwise obtained
// as-is and accessed directly... without parsing, allocation, or pointer
// fix-up." It backs a [zeroarc.Access]/[zeroarc.MustAccess] call with a
// real mmap(2) mapping instead of a []byte already resident in the Go
// heap, so the round trip from disk to typed reference never copies the
// buffer.
//
// This package is optional: nothing in the core (zeroarc, container,
// validate, ...) depends on it. A caller that's happy reading a whole
// file into memory, or that already has a []byte from some other source,
// never needs it.
package mmapbuf

import "os"

// Buffer is a memory-mapped, read-only view of a file's contents.
type Buffer struct {
	data []byte
}

// Bytes returns the mapped file contents. The returned slice is valid
// until Close is called; callers must not retain it past that point.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the length of the mapped file.
func (b *Buffer) Len() int { return len(b.data) }

// Open maps the file at path into memory read-only. The caller is
// responsible for calling Close once the mapping is no longer needed.
//
// path must name a file previously produced by a call to
// [github.com/zeroarc/zeroarc.ToBytes] (or written out by some other
// means using the same Config); mmapbuf has no way to verify that, the
// same way a bare []byte passed to zeroarc.Access isn't checked either.
func Open(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return mmap(f, int(info.Size()))
}

// WriteFile writes buf to a new file at path, truncating it if it
// already exists. This is a convenience for round-tripping the output of
// [github.com/zeroarc/zeroarc.ToBytes] through a file without the caller
// having to reach for os.WriteFile directly, kept here so the "produce,
// persist, mmap back" cycle has one obvious entry point on each side.
func WriteFile(path string, buf []byte) error {
	return os.WriteFile(path, buf, 0o644)
}
