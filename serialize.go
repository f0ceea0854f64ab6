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

package zeroarc

import "github.com/zeroarc/zeroarc/place"

// Value is implemented by a native type that can be archived as A, using
// an intermediate resolver R produced by Serialize and consumed by
// Archive (spec §4.6, "Archive/Serialize/Deserialize contracts").
//
// Generated glue (see internal/schema, cmd/archivegen) produces these
// methods for user types; container types (package container) implement
// them by hand as worked examples of the contract.
type Value[A, R any] interface {
	// Serialize may emit child values to ctx, recursively serializing
	// and archiving them, and returns a resolver recording whatever
	// positions or metadata Archive needs to fill in relative-pointer
	// fields.
	Serialize(ctx *Context) (R, error)
	// Archive writes every byte of this value's archived form into p,
	// using r to compute each relative pointer's offset. It can still
	// fail here, and only here: a relative pointer's delta depends on
	// p's final position, which isn't known until Reserve runs, so
	// OffsetOverflow can only be detected at Archive time (spec §4.2).
	Archive(p place.Place[A], r R) error
}

// Serialize runs the two-phase resolve/archive protocol for v (spec
// §4.6, "Resolve/serialize ordering"): v.Serialize is called first, so
// any children it emits land at positions strictly before the place
// finally reserved for v itself; only then is that place reserved and
// v.Archive invoked to fill it in.
//
// This ordering guarantees that no relative pointer ever needs to point
// to a not-yet-determined position, and that every byte of the buffer is
// written exactly once.
func Serialize[A, R any, T Value[A, R]](ctx *Context, v T) (place.Place[A], error) {
	r, err := v.Serialize(ctx)
	if err != nil {
		return place.Place[A]{}, ctx.Fail(err)
	}

	p, err := place.Reserve[A](ctx.W)
	if err != nil {
		return place.Place[A]{}, ctx.Fail(err)
	}

	if err := v.Archive(p, r); err != nil {
		return place.Place[A]{}, ctx.Fail(err)
	}
	return p, nil
}

// ToBytes runs Serialize for v against a fresh, unbounded writer and
// returns the resulting buffer along with the root position convention
// described by RootPos: len(buf) - size(A).
//
// Per spec §6, the returned buffer carries no magic number, version tag
// or footer; the caller is responsible for remembering the root type and
// this function's RootPos convention.
func ToBytes[A, R any, T Value[A, R]](v T, opts ...Option) ([]byte, int, error) {
	ctx := NewContext(newUnboundedWriter(), opts...)
	p, err := Serialize[A, R](ctx, v)
	if err != nil {
		return nil, 0, err
	}
	buf := ctx.W.Bytes()
	return buf, p.Pos(), nil
}
