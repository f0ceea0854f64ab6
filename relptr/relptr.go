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

// Package relptr implements the relative pointer (spec §4.2): a signed,
// configurable-width offset from a pointer cell's own address to its
// pointee. Unlike an absolute pointer it survives being copied, mmapped at
// a different base address, or sent over the wire; the archived buffer
// never contains an absolute address.
//
// This generalizes the packed offset+length Range the teacher uses to
// address into a parsed protobuf message buffer (internal/zc.Range) into a
// family of standalone, independently-addressed pointer cells of
// configurable width, since a general archive format can't assume every
// pointee is reachable from one shared base pointer the way a parsed
// message's submessages are.
package relptr

import (
	"github.com/zeroarc/zeroarc/internal/xunsafe"
	"github.com/zeroarc/zeroarc/prim"
	"github.com/zeroarc/zeroarc/zerr"
)

// Width is the configured byte width of a relative pointer's offset field.
type Width int

const (
	Width16 Width = 2
	Width32 Width = 4
	Width64 Width = 8
)

// Rel16, Rel32 and Rel64 are relative pointer cells at each supported
// width. A is the archived type of the pointee; the zero value of each is
// the null pointer (spec §4.2: "Null is encoded as offset = 0"). The
// offset is held as its native signed type so a composite embedding a
// cell gets the cell's natural alignment from Go's own struct layout;
// the stored byte order is governed by the Order passed to each
// operation, never read through the field directly.
type (
	Rel16[A any] struct{ off int16 }
	Rel32[A any] struct{ off int32 }
	Rel64[A any] struct{ off int64 }
)

// IsNull reports whether r is the null relative pointer.
func (r *Rel16[A]) IsNull(order prim.Order) bool {
	return prim.LoadI[int16](xunsafe.Cast[byte](r), order) == 0
}

func (r *Rel32[A]) IsNull(order prim.Order) bool {
	return prim.LoadI[int32](xunsafe.Cast[byte](r), order) == 0
}

func (r *Rel64[A]) IsNull(order prim.Order) bool {
	return prim.LoadI[int64](xunsafe.Cast[byte](r), order) == 0
}

// New16 sets r to point from fromPos to toPos, failing with OffsetOverflow
// if the delta doesn't fit in 16 bits, or is the reserved null encoding 0
// (a non-null pointer that happens to compute a zero delta cannot be
// represented; §4.2).
func New16[A any](r *Rel16[A], order prim.Order, fromPos, toPos int) error {
	d, err := delta(fromPos, toPos, 1<<15-1, -(1 << 15))
	if err != nil {
		return err
	}
	prim.StoreI(xunsafe.Cast[byte](r), order, int16(d))
	return nil
}

// New32 is New16 at 32-bit width.
func New32[A any](r *Rel32[A], order prim.Order, fromPos, toPos int) error {
	d, err := delta(fromPos, toPos, 1<<31-1, -(1 << 31))
	if err != nil {
		return err
	}
	prim.StoreI(xunsafe.Cast[byte](r), order, int32(d))
	return nil
}

// New64 is New16 at 64-bit width.
func New64[A any](r *Rel64[A], order prim.Order, fromPos, toPos int) error {
	d, err := delta(fromPos, toPos, 1<<63-1, -(1 << 63))
	if err != nil {
		return err
	}
	prim.StoreI(xunsafe.Cast[byte](r), order, int64(d))
	return nil
}

func delta(fromPos, toPos int, max, min int64) (int64, error) {
	d := int64(toPos) - int64(fromPos)
	if d > max || d < min {
		return 0, zerr.AtExpected(zerr.OffsetOverflow, fromPos,
			"offset fitting in configured pointer width", "delta too large")
	}
	if d == 0 {
		// A non-null pointer whose cell and pointee coincide would
		// otherwise silently encode as the null sentinel (offset 0);
		// reject it rather than lose the pointee (spec §4.2: "d = 0 is
		// the explicit 'null' encoding").
		return 0, zerr.AtExpected(zerr.OffsetOverflow, fromPos,
			"non-zero offset to pointee", "pointee coincides with pointer cell")
	}
	return d, nil
}

// Deref16 resolves r, which is known to live at address self, into a
// pointer to its pointee; Deref32 and Deref64 do the same at their widths. The caller must have already validated r (or otherwise
// know the buffer is trusted); Deref performs no bounds checking of its
// own, matching the teacher's zc.Range.Bytes, which likewise trusts its
// caller.
func Deref16[A any](r *Rel16[A], self *byte, order prim.Order) *A {
	d := prim.LoadI[int16](xunsafe.Cast[byte](r), order)
	return xunsafe.Cast[A](xunsafe.Add(self, int(d)))
}

func Deref32[A any](r *Rel32[A], self *byte, order prim.Order) *A {
	d := prim.LoadI[int32](xunsafe.Cast[byte](r), order)
	return xunsafe.Cast[A](xunsafe.Add(self, int(d)))
}

func Deref64[A any](r *Rel64[A], self *byte, order prim.Order) *A {
	d := prim.LoadI[int64](xunsafe.Cast[byte](r), order)
	return xunsafe.Cast[A](xunsafe.Add(self, int(d)))
}

// SelfAddr computes the address of a relative pointer cell given the base
// address of the buffer it lives in and its byte position within it.
func SelfAddr(base *byte, pos int) *byte {
	return xunsafe.Add(base, pos)
}
