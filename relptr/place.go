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

package relptr

import (
	"github.com/zeroarc/zeroarc/place"
	"github.com/zeroarc/zeroarc/prim"
)

// PlaceRel16 constructs a relative pointer from p's own position to toPos
// and writes it into p, the common case of filling in a pointer field
// once both positions are known.
func PlaceRel16[A any](p place.Place[Rel16[A]], order prim.Order, toPos int) error {
	var r Rel16[A]
	if err := New16(&r, order, p.Pos(), toPos); err != nil {
		return err
	}
	place.Write(p, r)
	return nil
}

// PlaceRel32 is PlaceRel16 at 32-bit width.
func PlaceRel32[A any](p place.Place[Rel32[A]], order prim.Order, toPos int) error {
	var r Rel32[A]
	if err := New32(&r, order, p.Pos(), toPos); err != nil {
		return err
	}
	place.Write(p, r)
	return nil
}

// PlaceRel64 is PlaceRel16 at 64-bit width.
func PlaceRel64[A any](p place.Place[Rel64[A]], order prim.Order, toPos int) error {
	var r Rel64[A]
	if err := New64(&r, order, p.Pos(), toPos); err != nil {
		return err
	}
	place.Write(p, r)
	return nil
}
