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

package container_test

import (
	"github.com/zeroarc/zeroarc"
	"github.com/zeroarc/zeroarc/place"
	"github.com/zeroarc/zeroarc/prim"
	"github.com/zeroarc/zeroarc/validate"
)

// u32 is the leaf zeroarc.Value used by every container test: a plain
// primitive with no indirection of its own, so tests can focus on the
// container's own pointer/length bookkeeping instead of a nested
// resolver tree.
type u32 uint32

type archivedU32 struct{ v prim.ArchivedU32 }

type u32Resolver struct{ order prim.Order }

func (v u32) Serialize(ctx *zeroarc.Context) (u32Resolver, error) {
	return u32Resolver{order: ctx.Order}, nil
}

func (v u32) Archive(p place.Place[archivedU32], r u32Resolver) error {
	var b archivedU32
	b.v.Set(r.order, uint32(v))
	place.Write(p, b)
	return nil
}

// ValidateBytes implements validate.Validatable; any 4-byte pattern is a
// valid u32 (spec §4.1).
func (archivedU32) ValidateBytes(v *validate.Validator, pos int) error { return nil }

func (u32) Deserialize(a *archivedU32, d *zeroarc.Deserializer) (u32, error) {
	return u32(a.Get(d.Order)), nil
}

func (a *archivedU32) Get(order prim.Order) uint32 {
	return a.v.Get(order)
}
