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

package arena

import (
	"github.com/zeroarc/zeroarc/internal/xunsafe"
	"github.com/zeroarc/zeroarc/internal/xunsafe/layout"
)

// Slice is a growable, arena-backed slice used to stage the elements of a
// variable-length sequence while its final length is still unknown (spec
// §4.6 "Variable-length sequence": the elements are written through
// projected places before the length and relative pointer are known).
//
// Unlike a Go slice, appending to a Slice never invalidates a pointer
// previously obtained from Ptr, because Grow always allocates fresh arena
// memory rather than growing in place when relocation would be unsafe.
type Slice[T any] struct {
	ptr      *T
	len, cap int
}

// NewSlice allocates a slice with capacity for at least n elements of T.
func NewSlice[T any](a *Arena, n int) Slice[T] {
	if n == 0 {
		return Slice[T]{}
	}
	size := layout.Size[T]() * n
	p := xunsafe.Cast[T](a.Alloc(size))
	return Slice[T]{ptr: p, cap: n}
}

// Ptr returns the base pointer of this slice's storage.
func (s Slice[T]) Ptr() *T { return s.ptr }

// Len returns the number of elements appended so far.
func (s Slice[T]) Len() int { return s.len }

// Raw returns the elements appended so far as an ordinary Go slice.
//
// The result must not escape past the lifetime of the owning Arena.
func (s Slice[T]) Raw() []T {
	return xunsafe.Slice(s.ptr, s.len)
}

// Append appends elems to the slice, growing on a if necessary.
func (s Slice[T]) Append(a *Arena, elems ...T) Slice[T] {
	if s.cap-s.len < len(elems) {
		s = s.grow(a, len(elems))
	}
	copy(xunsafe.Slice(xunsafe.Add(s.ptr, s.len), len(elems)), elems)
	s.len += len(elems)
	return s
}

func (s Slice[T]) grow(a *Arena, need int) Slice[T] {
	size := layout.Size[T]()
	newCap := max(s.cap*2, s.cap+need, 4)

	if s.ptr == nil {
		return NewSlice[T](a, newCap)
	}

	p := a.realloc(newCap*size, s.cap*size, xunsafe.Cast[byte](s.ptr))
	s.ptr = xunsafe.Cast[T](p)
	s.cap = newCap
	return s
}
