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

package container

import (
	"github.com/zeroarc/zeroarc"
	"github.com/zeroarc/zeroarc/internal/xunsafe"
	"github.com/zeroarc/zeroarc/internal/xunsafe/layout"
	"github.com/zeroarc/zeroarc/place"
	"github.com/zeroarc/zeroarc/prim"
	"github.com/zeroarc/zeroarc/relptr"
	"github.com/zeroarc/zeroarc/validate"
	"github.com/zeroarc/zeroarc/zerr"
)

// Vec is an owned, variable-length sequence of elements of native type T,
// archived as a relative pointer to a contiguous run of ArchivedVec's
// element type plus a length (spec §1 item 5, "Vec").
type Vec[A validate.Validatable, R any, T element[A, R, T]] struct {
	V []T
}

// ArchivedVec is Vec's archived form.
type ArchivedVec[A validate.Validatable] struct {
	ptr relptr.Rel32[A]
	len prim.ArchivedU32
}

type vecResolver[R any] struct {
	basePos int
	n       int
	order   prim.Order
	elems   []R
}

// Serialize archives every element first, so each element's own children
// land before the contiguous element run, then reserves that run as one
// block (spec §4.4: "reserve... an array of resolved element types").
func (s Vec[A, R, T]) Serialize(ctx *zeroarc.Context) (vecResolver[R], error) {
	elems := make([]R, len(s.V))
	for i, v := range s.V {
		r, err := v.Serialize(ctx)
		if err != nil {
			return vecResolver[R]{}, err
		}
		elems[i] = r
	}

	if len(s.V) == 0 {
		return vecResolver[R]{order: ctx.Order}, nil
	}

	base, err := place.ReserveN[A](ctx.W, len(s.V))
	if err != nil {
		return vecResolver[R]{}, ctx.Fail(err)
	}
	for i, v := range s.V {
		if err := v.Archive(place.Index(base, i), elems[i]); err != nil {
			return vecResolver[R]{}, ctx.Fail(err)
		}
	}
	return vecResolver[R]{basePos: base.Pos(), n: len(s.V), order: ctx.Order, elems: elems}, nil
}

// Archive fills in ArchivedVec's pointer and length fields. The element
// run itself was already written during Serialize, since its final
// position has to be known before any relative pointer into it can be
// computed.
func (s Vec[A, R, T]) Archive(p place.Place[ArchivedVec[A]], r vecResolver[R]) error {
	ptrField := place.Project[ArchivedVec[A], relptr.Rel32[A]](p, place.Offset(func(v *ArchivedVec[A]) *relptr.Rel32[A] { return &v.ptr }))
	if r.n == 0 {
		place.Write(ptrField, relptr.Rel32[A]{})
	} else if err := relptr.PlaceRel32(ptrField, r.order, r.basePos); err != nil {
		return err
	}

	lenField := place.Project[ArchivedVec[A], prim.ArchivedU32](p, place.Offset(func(v *ArchivedVec[A]) *prim.ArchivedU32 { return &v.len }))
	var lb prim.ArchivedU32
	lb.Set(r.order, uint32(r.n))
	place.Write(lenField, lb)
	return nil
}

// Deserialize reconstructs an owned Vec, recursively deserializing every
// element (spec §4.6).
func (s Vec[A, R, T]) Deserialize(a *ArchivedVec[A], d *zeroarc.Deserializer) (Vec[A, R, T], error) {
	n := a.Len(d.Order)
	if n == 0 {
		return Vec[A, R, T]{}, nil
	}
	out := make([]T, n)
	for i := range out {
		v, err := zeroarc.Deserialize[A, T](a.Index(i, d.Order), d)
		if err != nil {
			return Vec[A, R, T]{}, err
		}
		out[i] = v
	}
	return Vec[A, R, T]{V: out}, nil
}

// Len returns the archived vector's element count.
func (a *ArchivedVec[A]) Len(order prim.Order) int {
	return int(a.len.Get(order))
}

// Index returns a pointer to the i-th archived element, without a copy or
// a bounds check.
func (a *ArchivedVec[A]) Index(i int, order prim.Order) *A {
	self := xunsafe.Cast[byte](a)
	base := relptr.Deref32[A](&a.ptr, self, order)
	return xunsafe.Add(base, i)
}

// ValidateBytes implements validate.Validatable.
func (a ArchivedVec[A]) ValidateBytes(v *validate.Validator, pos int) error {
	n := int(a.len.Get(v.Order()))

	target, isNull := v.RelTarget(pos, 4)
	if isNull {
		if n != 0 {
			return zerr.AtExpected(zerr.OutOfBounds, pos, "zero length for a null element pointer", "non-zero")
		}
		return nil
	}
	if err := v.Length(target, n, layout.Size[A]()); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := validate.Descend[A](v, target+i*layout.Size[A]()); err != nil {
			return err
		}
	}
	return nil
}
