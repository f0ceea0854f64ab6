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
)

// Option archives a value that may be absent, niched into the relative
// pointer's own null encoding rather than carrying a separate discriminant
// byte (spec §4.2, "Niching": "Option<T> can be encoded in an invalid bit
// pattern of T... a null relative pointer (offset 0)"). A nil V is None.
type Option[A validate.Validatable, R any, T element[A, R, T]] struct {
	V *T
}

// ArchivedOption is Option's archived form: a single relative pointer,
// null for None.
type ArchivedOption[A validate.Validatable] struct {
	ptr relptr.Rel32[A]
}

type optionResolver struct {
	some  bool
	pos   int
	order prim.Order
}

// Serialize archives the held value, if any, ahead of the option's own
// place.
func (o Option[A, R, T]) Serialize(ctx *zeroarc.Context) (optionResolver, error) {
	if o.V == nil {
		return optionResolver{order: ctx.Order}, nil
	}
	p, err := zeroarc.Serialize[A, R](ctx, *o.V)
	if err != nil {
		return optionResolver{}, err
	}
	return optionResolver{some: true, pos: p.Pos(), order: ctx.Order}, nil
}

// Archive fills in ArchivedOption's pointer field, leaving it null for
// None.
func (o Option[A, R, T]) Archive(p place.Place[ArchivedOption[A]], r optionResolver) error {
	ptrField := place.Project[ArchivedOption[A], relptr.Rel32[A]](p, place.Offset(func(v *ArchivedOption[A]) *relptr.Rel32[A] { return &v.ptr }))
	if !r.some {
		place.Write(ptrField, relptr.Rel32[A]{})
		return nil
	}
	return relptr.PlaceRel32(ptrField, r.order, r.pos)
}

// Deserialize reconstructs an owned Option: nil for None, a freshly
// deserialized value for Some (spec §4.6).
func (o Option[A, R, T]) Deserialize(a *ArchivedOption[A], d *zeroarc.Deserializer) (Option[A, R, T], error) {
	p, ok := a.Get(d.Order)
	if !ok {
		return Option[A, R, T]{}, nil
	}
	v, err := zeroarc.Deserialize[A, T](p, d)
	if err != nil {
		return Option[A, R, T]{}, err
	}
	return Option[A, R, T]{V: &v}, nil
}

// Get resolves the held value, reporting false if this is None.
func (a *ArchivedOption[A]) Get(order prim.Order) (*A, bool) {
	if a.ptr.IsNull(order) {
		return nil, false
	}
	self := xunsafe.Cast[byte](a)
	return relptr.Deref32[A](&a.ptr, self, order), true
}

// ValidateBytes implements validate.Validatable.
func (a ArchivedOption[A]) ValidateBytes(v *validate.Validator, pos int) error {
	target, isNull := v.RelTarget(pos, 4)
	if isNull {
		return nil
	}
	return validate.Descend[A](v, target)
}
