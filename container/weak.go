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
	"github.com/zeroarc/zeroarc/share"
	"github.com/zeroarc/zeroarc/sharetag"
	"github.com/zeroarc/zeroarc/validate"
	"github.com/zeroarc/zeroarc/zerr"
)

// Weak is the non-owning counterpart of Rc (spec §4.7: "Weak pointers
// follow the same identity rule but register a weak entry"). A nil V
// models a weak handle whose payload is already gone; it archives as the
// null pointer. A non-nil V shares the registry with every Rc over the
// same payload, so the payload is still emitted at most once no matter
// which handle kind sights it first.
type Weak[A validate.Validatable, R any, T element[A, R, T]] struct {
	V *T
}

// ArchivedWeak is Weak's archived form, byte-identical in layout to
// ArchivedRc; only a null pointer distinguishes a dead handle (spec
// §4.7: "the validator treats weak and strong targets interchangeably at
// the byte level").
type ArchivedWeak[A validate.Validatable] struct {
	tag sharetag.Tag
	ptr relptr.Rel32[A]
}

type weakResolver struct {
	pos   int
	tag   sharetag.Tag
	order prim.Order
	dead  bool
}

// Serialize registers w.V's identity as a weak entry, emitting the
// payload only if no handle of either kind has seen this identity yet.
func (w Weak[A, R, T]) Serialize(ctx *zeroarc.Context) (weakResolver, error) {
	tag := sharetag.Of[A]()
	if w.V == nil {
		return weakResolver{tag: tag, order: ctx.Order, dead: true}, nil
	}
	id := share.Identity(w.V)

	pos, err := ctx.Shared.Weak(id, tag, func() (int, error) {
		p, err := zeroarc.Serialize[A, R](ctx, *w.V)
		if err != nil {
			return 0, err
		}
		return p.Pos(), nil
	})
	if err != nil {
		return weakResolver{}, ctx.Fail(err)
	}
	return weakResolver{pos: pos, tag: tag, order: ctx.Order}, nil
}

// Archive fills in ArchivedWeak's tag and pointer fields; a dead handle
// gets the null pointer.
func (w Weak[A, R, T]) Archive(p place.Place[ArchivedWeak[A]], res weakResolver) error {
	tagField := place.Project[ArchivedWeak[A], sharetag.Tag](p, place.Offset(func(v *ArchivedWeak[A]) *sharetag.Tag { return &v.tag }))
	place.Write(tagField, res.tag)

	ptrField := place.Project[ArchivedWeak[A], relptr.Rel32[A]](p, place.Offset(func(v *ArchivedWeak[A]) *relptr.Rel32[A] { return &v.ptr }))
	if res.dead {
		place.Write(ptrField, relptr.Rel32[A]{})
		return nil
	}
	return relptr.PlaceRel32(ptrField, res.order, res.pos)
}

// Get resolves the payload, reporting false for a dead handle.
func (a *ArchivedWeak[A]) Get(order prim.Order) (*A, bool) {
	if a.ptr.IsNull(order) {
		return nil, false
	}
	self := xunsafe.Cast[byte](&a.ptr)
	return relptr.Deref32[A](&a.ptr, self, order), true
}

// ValidateBytes implements validate.Validatable. Unlike ArchivedRc, a
// null pointer is admitted here: it's the dead-handle encoding.
func (a ArchivedWeak[A]) ValidateBytes(v *validate.Validator, pos int) error {
	if a.tag != sharetag.Of[A]() {
		return zerr.At(zerr.SharedTypeMismatch, pos)
	}

	var zero ArchivedWeak[A]
	base := xunsafe.Cast[byte](&zero)
	field := xunsafe.Cast[byte](&zero.ptr)
	ptrOffset := xunsafe.Sub(field, base)

	target, isNull := v.RelTarget(pos+ptrOffset, 4)
	if isNull {
		return nil
	}
	return validate.Descend[A](v, target)
}

// Deserialize reconstructs a weak handle through the same resurrection
// map Rc uses, so a weak and a strong handle over one archived payload
// end up holding the same native pointer.
func (w Weak[A, R, T]) Deserialize(a *ArchivedWeak[A], d *zeroarc.Deserializer) (Weak[A, R, T], error) {
	payload, ok := a.Get(d.Order)
	if !ok {
		return Weak[A, R, T]{}, nil
	}
	p, err := zeroarc.Shared(d, zeroarc.PosOf(d, payload), func() (*T, error) {
		v, err := zeroarc.Deserialize[A, T](payload, d)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
	if err != nil {
		return Weak[A, R, T]{}, err
	}
	return Weak[A, R, T]{V: p}, nil
}
