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
	"github.com/zeroarc/zeroarc/place"
	"github.com/zeroarc/zeroarc/prim"
	"github.com/zeroarc/zeroarc/relptr"
	"github.com/zeroarc/zeroarc/validate"
	"github.com/zeroarc/zeroarc/zerr"
)

// Box owns a value of native type T, archived out-of-line behind a
// non-null relative pointer (spec §1 item 5, "Box").
type Box[A validate.Validatable, R any, T element[A, R, T]] struct {
	V T
}

// ArchivedBox is Box's archived form.
type ArchivedBox[A validate.Validatable] struct {
	ptr relptr.Rel32[A]
}

type boxResolver struct {
	pos   int
	order prim.Order
}

// Serialize archives b.V out-of-line, ahead of the place reserved for the
// box itself (spec §4.6, "Resolve/serialize ordering").
func (b Box[A, R, T]) Serialize(ctx *zeroarc.Context) (boxResolver, error) {
	p, err := zeroarc.Serialize[A, R](ctx, b.V)
	if err != nil {
		return boxResolver{}, err
	}
	return boxResolver{pos: p.Pos(), order: ctx.Order}, nil
}

// Archive fills in ArchivedBox's pointer field.
func (b Box[A, R, T]) Archive(p place.Place[ArchivedBox[A]], r boxResolver) error {
	ptrField := place.Project[ArchivedBox[A], relptr.Rel32[A]](p, place.Offset(func(v *ArchivedBox[A]) *relptr.Rel32[A] { return &v.ptr }))
	return relptr.PlaceRel32(ptrField, r.order, r.pos)
}

// Deserialize reconstructs an owned Box, recursively deserializing the
// pointee (spec §4.6).
func (b Box[A, R, T]) Deserialize(a *ArchivedBox[A], d *zeroarc.Deserializer) (Box[A, R, T], error) {
	v, err := zeroarc.Deserialize[A, T](a.Get(d.Order), d)
	if err != nil {
		return Box[A, R, T]{}, err
	}
	return Box[A, R, T]{V: v}, nil
}

// Get resolves the boxed value, without a copy.
func (a *ArchivedBox[A]) Get(order prim.Order) *A {
	self := xunsafe.Cast[byte](a)
	return relptr.Deref32[A](&a.ptr, self, order)
}

// ValidateBytes implements validate.Validatable.
func (a ArchivedBox[A]) ValidateBytes(v *validate.Validator, pos int) error {
	target, isNull := v.RelTarget(pos, 4)
	if isNull {
		return zerr.AtExpected(zerr.OutOfBounds, pos, "non-null box pointer", "null")
	}
	return validate.Descend[A](v, target)
}
