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

// Package layout provides the compile-time size/alignment arithmetic that
// underpins every archived type's fixed layout (spec "Layout stability"
// invariant): size, alignment, and rounding to an alignment boundary.
package layout

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Int is any integer type usable as an index or count in xunsafe's pointer
// arithmetic helpers.
type Int interface {
	constraints.Integer
}

// Size returns the size in bytes of T, as unsafe.Sizeof would.
func Size[T any]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// Align returns the required alignment of T, as unsafe.Alignof would.
func Align[T any]() int {
	var z T
	return int(unsafe.Alignof(z))
}

// Bits returns the width in bits of T.
func Bits[T any]() int {
	return Size[T]() * 8
}

// RoundUp rounds n up to the next multiple of align, which must be a power
// of two. If n is already a multiple of align, it is returned unchanged.
func RoundUp[I constraints.Integer](n, align I) I {
	return (n + align - 1) &^ (align - 1)
}

// RoundDown rounds n down to the previous multiple of align, which must be
// a power of two.
func RoundDown[I constraints.Integer](n, align I) I {
	return n &^ (align - 1)
}

// Padding returns the number of bytes needed to round n up to align, which
// must be a power of two.
func Padding[I constraints.Integer](n, align I) I {
	return RoundUp(n, align) - n
}
