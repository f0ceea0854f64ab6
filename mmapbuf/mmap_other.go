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

//go:build !linux && !darwin

package mmapbuf

import (
	"io"
	"os"
)

// mmap falls back to reading the whole file into a heap-allocated slice
// on platforms golang.org/x/sys/unix doesn't cover. The "no parsing on
// load" claim (spec §1) still holds once this returns: the bytes are
// handed to zeroarc.Access exactly as read, with no deserialization
// pass; only the "no copy off disk" part of the claim is unavailable
// here.
func mmap(f *os.File, size int) (*Buffer, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return &Buffer{data: data}, nil
}

// Close is a no-op fallback: there is no mapping to release.
func (b *Buffer) Close() error { return nil }
