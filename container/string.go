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
	"strings"

	"github.com/zeroarc/zeroarc"
	"github.com/zeroarc/zeroarc/internal/xunsafe"
	"github.com/zeroarc/zeroarc/place"
	"github.com/zeroarc/zeroarc/prim"
	"github.com/zeroarc/zeroarc/relptr"
	"github.com/zeroarc/zeroarc/validate"
	"github.com/zeroarc/zeroarc/zerr"
)

// String is an owned UTF-8 string, archived identically to a
// variable-length sequence of bytes with a length prefix (spec §4.6,
// "Owned string").
type String string

// ArchivedString is String's archived form: a relative pointer to its
// UTF-8 bytes plus their length.
type ArchivedString struct {
	ptr relptr.Rel32[byte]
	len prim.ArchivedU32
}

type stringResolver struct {
	pos, n int
	order  prim.Order
}

// Serialize writes s's bytes to the writer verbatim; since bytes need no
// padding between them, this bypasses place.Reserve/Write and appends
// directly (spec §4.4, "write_slice... raw append").
func (s String) Serialize(ctx *zeroarc.Context) (stringResolver, error) {
	pos, err := ctx.W.WriteSlice([]byte(s))
	if err != nil {
		return stringResolver{}, ctx.Fail(err)
	}
	return stringResolver{pos: pos, n: len(s), order: ctx.Order}, nil
}

// Archive fills in ArchivedString's pointer and length fields.
func (s String) Archive(p place.Place[ArchivedString], r stringResolver) error {
	ptrField := place.Project[ArchivedString, relptr.Rel32[byte]](p, place.Offset(func(v *ArchivedString) *relptr.Rel32[byte] { return &v.ptr }))
	if r.n == 0 {
		place.Write(ptrField, relptr.Rel32[byte]{})
	} else if err := relptr.PlaceRel32(ptrField, r.order, r.pos); err != nil {
		return err
	}

	lenField := place.Project[ArchivedString, prim.ArchivedU32](p, place.Offset(func(v *ArchivedString) *prim.ArchivedU32 { return &v.len }))
	var lb prim.ArchivedU32
	lb.Set(r.order, uint32(r.n))
	place.Write(lenField, lb)
	return nil
}

// Deserialize copies the archived bytes back out into an owned string;
// unlike the String accessor, the result does not alias the buffer.
func (s String) Deserialize(a *ArchivedString, d *zeroarc.Deserializer) (String, error) {
	return String(strings.Clone(a.String(d.Order))), nil
}

// Len returns the archived string's byte length.
func (a *ArchivedString) Len(order prim.Order) int {
	return int(a.len.Get(order))
}

// String reinterprets the archived bytes as a Go string, without a copy.
func (a *ArchivedString) String(order prim.Order) string {
	n := a.Len(order)
	if n == 0 {
		return ""
	}
	self := xunsafe.Cast[byte](&a.ptr)
	base := relptr.Deref32[byte](&a.ptr, self, order)
	return xunsafe.String(base, n)
}

// ValidateBytes implements validate.Validatable.
func (a ArchivedString) ValidateBytes(v *validate.Validator, pos int) error {
	n := int(a.len.Get(v.Order()))

	target, isNull := v.RelTarget(pos, 4)
	if isNull {
		if n != 0 {
			return invalidNullLength(pos)
		}
		return nil
	}
	return v.UTF8(target, n)
}

func invalidNullLength(pos int) error {
	return zerr.AtExpected(zerr.OutOfBounds, pos, "zero length for a null string pointer", "non-zero")
}
