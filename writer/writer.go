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

// Package writer implements the append-only byte sink a serializer writes
// an archived buffer through (spec §4.4), plus the scratch space used to
// stage children of unknown final size (spec §4.4, §5).
//
// A Writer never reorders or rewrites bytes once they've been appended;
// the only mutation of already-written bytes is through a Place obtained
// from Reserve, which always addresses a span that was itself just
// reserved. This mirrors the append-only growth of the teacher's parsed
// message tables, except here the buffer is being produced, not consumed.
package writer

import (
	"github.com/zeroarc/zeroarc/internal/xunsafe/layout"
	"github.com/zeroarc/zeroarc/zerr"
)

// Writer is an append-only byte sink.
//
// Implementations must not reorder writes: byte i is always written
// before byte j for i < j. Pos, PadTo and WriteSlice are the primitives
// the place package builds Reserve and Place.Write on top of.
type Writer interface {
	// Pos returns the current length of the written buffer.
	Pos() int
	// PadTo writes zero bytes until Pos() is a multiple of align, which
	// must be a power of two. It fails with OutOfSpace if the writer is
	// bounded and the full pad doesn't fit; on failure no padding bytes
	// are written and Pos() is unchanged.
	PadTo(align int) error
	// WriteSlice appends b verbatim, returning the position it was
	// written at. It fails with OutOfSpace if the writer is bounded and
	// out of room.
	WriteSlice(b []byte) (int, error)
	// Bytes exposes the buffer written so far. The returned slice is
	// only valid until the next call that grows the writer; callers that
	// need a stable span should copy it or re-derive it from a Place.
	Bytes() []byte
}

// Scratcher is optionally implemented by a Writer that hosts a scratch
// space for staging children of unknown final size. A Writer without one
// still works; types that require scratch fail with ScratchUnsupported
// when serialized through it.
type Scratcher interface {
	Scratch() *Scratch
}

// Buffer is an unbounded Writer backed by a growable Go slice. It hosts
// its own scratch space.
type Buffer struct {
	buf     []byte
	scratch Scratch
}

// NewBuffer creates an empty Buffer with capacity hint capHint.
func NewBuffer(capHint int) *Buffer {
	return &Buffer{buf: make([]byte, 0, capHint)}
}

func (w *Buffer) Pos() int { return len(w.buf) }

func (w *Buffer) PadTo(align int) error {
	pos := len(w.buf)
	pad := layout.Padding(pos, align)
	for i := 0; i < pad; i++ {
		w.buf = append(w.buf, 0)
	}
	return nil
}

func (w *Buffer) WriteSlice(b []byte) (int, error) {
	pos := len(w.buf)
	w.buf = append(w.buf, b...)
	return pos, nil
}

func (w *Buffer) Bytes() []byte { return w.buf }

func (w *Buffer) Scratch() *Scratch { return &w.scratch }

// Bounded is a Writer with a fixed maximum size, failing with OutOfSpace
// once exhausted instead of growing (spec §4.4: "OutOfSpace when a
// bounded writer is full").
type Bounded struct {
	buf []byte
	pos int
}

// NewBounded creates a Writer that can hold at most max bytes.
func NewBounded(max int) *Bounded {
	return &Bounded{buf: make([]byte, max)}
}

func (w *Bounded) Pos() int { return w.pos }

func (w *Bounded) PadTo(align int) error {
	pad := layout.Padding(w.pos, align)
	if w.pos+pad > len(w.buf) {
		return zerr.At(zerr.OutOfSpace, w.pos)
	}
	for i := 0; i < pad; i++ {
		w.buf[w.pos] = 0
		w.pos++
	}
	return nil
}

func (w *Bounded) WriteSlice(b []byte) (int, error) {
	if w.pos+len(b) > len(w.buf) {
		return 0, zerr.At(zerr.OutOfSpace, w.pos)
	}
	pos := w.pos
	copy(w.buf[pos:], b)
	w.pos += len(b)
	return pos, nil
}

func (w *Bounded) Bytes() []byte { return w.buf[:w.pos] }
