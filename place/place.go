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

// Package place implements the place/out-pointer capability (spec §4.3):
// a typed handle onto "bytes of the right size and alignment for an A at
// some known position", the only sanctioned way to mutate the
// otherwise-uninitialized bytes of a buffer under construction.
//
// A Place never holds a raw pointer into the writer's buffer, because the
// buffer backing a [writer.Buffer] can move (the underlying slice may be
// reallocated by append) for as long as serialization is still underway.
// Instead a Place is a (Writer, position) pair and re-derives its pointer
// from the writer on every Write or Project call, the same way the
// teacher's parser re-derives pointers from a stored base rather than
// caching one that a reallocation could invalidate.
package place

import (
	"github.com/zeroarc/zeroarc/internal/xunsafe"
	"github.com/zeroarc/zeroarc/internal/xunsafe/layout"
	"github.com/zeroarc/zeroarc/writer"
)

// Place represents a reserved, correctly-sized and -aligned region of a
// Writer's buffer for a value of archived type A. The zero Place is not
// valid; obtain one from Reserve or Project.
type Place[A any] struct {
	w   writer.Writer
	pos int
}

// Pos returns the byte position of this place within its writer's buffer.
func (p Place[A]) Pos() int { return p.pos }

// Reserve pads w to A's required alignment, advances it by size(A), and
// returns a Place referencing the reserved region (spec §4.4 "reserve").
func Reserve[A any](w writer.Writer) (Place[A], error) {
	if err := w.PadTo(layout.Align[A]()); err != nil {
		return Place[A]{}, err
	}
	pos, err := w.WriteSlice(make([]byte, layout.Size[A]()))
	if err != nil {
		return Place[A]{}, err
	}
	return Place[A]{w: w, pos: pos}, nil
}

// ReserveN is Reserve for a contiguous run of n values of type A, as used
// by variable-length sequences (spec §4.4: "reserve... an array of
// resolved element types"). The returned Place references the first
// element; later elements are reached with Index.
func ReserveN[A any](w writer.Writer, n int) (Place[A], error) {
	if err := w.PadTo(layout.Align[A]()); err != nil {
		return Place[A]{}, err
	}
	pos, err := w.WriteSlice(make([]byte, n*layout.Size[A]()))
	if err != nil {
		return Place[A]{}, err
	}
	return Place[A]{w: w, pos: pos}, nil
}

// At constructs a Place for a value already known to occupy size(A) bytes
// at pos within w's buffer, for callers (such as a variable-length
// sequence's element loop) that derived pos themselves rather than
// through Reserve.
func At[A any](w writer.Writer, pos int) Place[A] {
	return Place[A]{w: w, pos: pos}
}

// Write writes a fully-materialized value into the region referenced by
// p, overwriting whatever zero bytes Reserve put there.
func Write[A any](p Place[A], value A) {
	size := layout.Size[A]()
	dst := p.w.Bytes()[p.pos : p.pos+size]
	copy(dst, xunsafe.Bytes(&value))
}

// Project produces a Place for a sub-field of A living offset bytes into
// it, sharing p's writer (spec §4.3 "project").
func Project[A, F any](p Place[A], offset uintptr) Place[F] {
	return Place[F]{w: p.w, pos: p.pos + int(offset)}
}

// Index returns the Place for the i-th element of a contiguous run of A
// values starting at base, as produced by reserving an array or a
// variable-length sequence's element span.
func Index[A any](base Place[A], i int) Place[A] {
	return Place[A]{w: base.w, pos: base.pos + i*layout.Size[A]()}
}

// Offset is a convenience for computing a field's byte offset within A by
// way of a representative zero value and a field-selecting function,
// matching the pattern generated glue code uses to call Project.
func Offset[A, F any](fieldAddr func(a *A) *F) uintptr {
	var a A
	base := xunsafe.Cast[byte](&a)
	field := xunsafe.Cast[byte](fieldAddr(&a))
	return uintptr(xunsafe.Sub(field, base))
}
