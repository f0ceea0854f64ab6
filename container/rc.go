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

// Rc is a reference-counted shared pointer (spec §4.7, §1 item 5, "Rc"):
// multiple Rc values holding the same *T archive to the same position, the
// payload emitted only on the first sighting (spec §4.7: "the first
// sight... emits; later sights... alias").
type Rc[A validate.Validatable, R any, T element[A, R, T]] struct {
	V *T
}

// ArchivedRc is Rc's archived form: an embedded erased-type tag followed
// by a relative pointer to the (possibly shared) payload.
type ArchivedRc[A validate.Validatable] struct {
	tag sharetag.Tag
	ptr relptr.Rel32[A]
}

type rcResolver struct {
	pos   int
	tag   sharetag.Tag
	order prim.Order
}

// Serialize registers r.V's identity with the context's shared-pointer
// registry, emitting the payload only if this identity hasn't been seen
// before in this serialization.
func (r Rc[A, R, T]) Serialize(ctx *zeroarc.Context) (rcResolver, error) {
	tag := sharetag.Of[A]()
	id := share.Identity(r.V)

	pos, err := ctx.Shared.Strong(id, tag, func() (int, error) {
		p, err := zeroarc.Serialize[A, R](ctx, *r.V)
		if err != nil {
			return 0, err
		}
		return p.Pos(), nil
	})
	if err != nil {
		return rcResolver{}, ctx.Fail(err)
	}
	return rcResolver{pos: pos, tag: tag, order: ctx.Order}, nil
}

// Archive fills in ArchivedRc's tag and pointer fields.
func (r Rc[A, R, T]) Archive(p place.Place[ArchivedRc[A]], res rcResolver) error {
	tagField := place.Project[ArchivedRc[A], sharetag.Tag](p, place.Offset(func(v *ArchivedRc[A]) *sharetag.Tag { return &v.tag }))
	place.Write(tagField, res.tag)

	ptrField := place.Project[ArchivedRc[A], relptr.Rel32[A]](p, place.Offset(func(v *ArchivedRc[A]) *relptr.Rel32[A] { return &v.ptr }))
	return relptr.PlaceRel32(ptrField, res.order, res.pos)
}

// Deserialize reconstructs a shared handle through the deserializer's
// resurrection map, so every Rc over the same archived payload ends up
// holding the same native pointer (spec §8, "Sharing preservation").
func (r Rc[A, R, T]) Deserialize(a *ArchivedRc[A], d *zeroarc.Deserializer) (Rc[A, R, T], error) {
	payload := a.Get(d.Order)
	p, err := zeroarc.Shared(d, zeroarc.PosOf(d, payload), func() (*T, error) {
		v, err := zeroarc.Deserialize[A, T](payload, d)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
	if err != nil {
		return Rc[A, R, T]{}, err
	}
	return Rc[A, R, T]{V: p}, nil
}

// Get resolves the shared payload, without a copy.
func (a *ArchivedRc[A]) Get(order prim.Order) *A {
	self := xunsafe.Cast[byte](&a.ptr)
	return relptr.Deref32[A](&a.ptr, self, order)
}

// ValidateBytes implements validate.Validatable, confirming the embedded
// tag matches what this instantiation of A expects before trusting the
// pointee's layout (spec §4.7: "the validator treats weak and strong
// targets interchangeably at the byte level", but must still reject a
// tag mismatch as SharedTypeMismatch).
func (a ArchivedRc[A]) ValidateBytes(v *validate.Validator, pos int) error {
	if a.tag != sharetag.Of[A]() {
		return zerr.At(zerr.SharedTypeMismatch, pos)
	}

	var zero ArchivedRc[A]
	base := xunsafe.Cast[byte](&zero)
	field := xunsafe.Cast[byte](&zero.ptr)
	ptrOffset := xunsafe.Sub(field, base)

	target, isNull := v.RelTarget(pos+ptrOffset, 4)
	if isNull {
		return zerr.AtExpected(zerr.OutOfBounds, pos, "non-null shared pointer", "null")
	}
	return validate.Descend[A](v, target)
}
