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

// Package prim implements the primitive codec (spec §4.1): endianness-aware,
// optionally-unaligned store/load of the fixed-width primitives that every
// archived composite type is built out of.
//
// Every archived value bottoms out in one of these primitives. Their store
// and load operations are the only place in the framework that is aware of
// [Order] and of whether a field happens to be naturally aligned; everything
// above this package (relptr, place, the container glue) just moves bytes
// through them.
package prim

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"golang.org/x/exp/constraints"

	"github.com/zeroarc/zeroarc/internal/xunsafe"
)

func mathBits32(f float32) uint32  { return math.Float32bits(f) }
func mathBits64(f float64) uint64  { return math.Float64bits(f) }
func mathFloat32(u uint32) float32 { return math.Float32frombits(u) }
func mathFloat64(u uint64) float64 { return math.Float64frombits(u) }

// Order is the configured byte order for a buffer. All primitives in a
// single buffer must be encoded with the same Order; mixing orders within
// one buffer is not supported (spec §6: "Any change to [byte order]
// invalidates previously-produced buffers").
type Order = binary.ByteOrder

// LittleEndian and BigEndian are the two supported orders; LittleEndian is
// the default (spec §4.1).
var (
	LittleEndian Order = binary.LittleEndian
	BigEndian    Order = binary.BigEndian
)

// native is the host's own byte order, used to recognize when a store/load
// can bypass byte.ByteOrder and go through a direct, aligned pointer cast.
var native = func() Order {
	var probe uint16 = 1
	if *(*byte)(xunsafe.Cast[byte](&probe)) == 1 {
		return LittleEndian
	}
	return BigEndian
}()

// Unsigned is any unsigned fixed-width integer primitive.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// StoreU stores an unsigned integer at p using order, at whatever alignment
// p happens to have (no alignment is assumed or required).
func StoreU[T Unsigned](p *byte, order Order, v T) {
	switch any(v).(type) {
	case uint8:
		*p = byte(v)
	case uint16:
		if order == native {
			*xunsafe.Cast[uint16](p) = uint16(v)
			return
		}
		order.PutUint16(xunsafe.Slice(p, 2), uint16(v))
	case uint32:
		if order == native {
			*xunsafe.Cast[uint32](p) = uint32(v)
			return
		}
		order.PutUint32(xunsafe.Slice(p, 4), uint32(v))
	case uint64:
		if order == native {
			*xunsafe.Cast[uint64](p) = uint64(v)
			return
		}
		order.PutUint64(xunsafe.Slice(p, 8), uint64(v))
	}
}

// LoadU loads an unsigned integer from p using order.
func LoadU[T Unsigned](p *byte, order Order) T {
	var z T
	switch any(z).(type) {
	case uint8:
		return T(*p)
	case uint16:
		if order == native {
			return T(*xunsafe.Cast[uint16](p))
		}
		return T(order.Uint16(xunsafe.Slice(p, 2)))
	case uint32:
		if order == native {
			return T(*xunsafe.Cast[uint32](p))
		}
		return T(order.Uint32(xunsafe.Slice(p, 4)))
	case uint64:
		if order == native {
			return T(*xunsafe.Cast[uint64](p))
		}
		return T(order.Uint64(xunsafe.Slice(p, 8)))
	default:
		panic("zeroarc: unreachable primitive width")
	}
}

// Signed is any signed fixed-width integer primitive.
type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// StoreI stores a signed integer using two's complement, delegating to
// StoreU on the matching unsigned width.
func StoreI[T Signed](p *byte, order Order, v T) {
	switch x := any(v).(type) {
	case int8:
		StoreU(p, order, uint8(x))
	case int16:
		StoreU(p, order, uint16(x))
	case int32:
		StoreU(p, order, uint32(x))
	case int64:
		StoreU(p, order, uint64(x))
	}
}

// LoadI loads a two's-complement signed integer, delegating to LoadU on the
// matching unsigned width.
func LoadI[T Signed](p *byte, order Order) T {
	var z T
	switch any(z).(type) {
	case int8:
		return T(int8(LoadU[uint8](p, order)))
	case int16:
		return T(int16(LoadU[uint16](p, order)))
	case int32:
		return T(int32(LoadU[uint32](p, order)))
	case int64:
		return T(int64(LoadU[uint64](p, order)))
	default:
		panic("zeroarc: unreachable primitive width")
	}
}

// Float is any IEEE-754 floating point primitive.
type Float interface {
	~float32 | ~float64
}

// StoreF stores a float by bit-casting it to its unsigned integer
// representation and storing that.
func StoreF[T Float](p *byte, order Order, v T) {
	switch x := any(v).(type) {
	case float32:
		StoreU(p, order, mathBits32(x))
	case float64:
		StoreU(p, order, mathBits64(x))
	}
}

// LoadF loads a float stored by StoreF.
func LoadF[T Float](p *byte, order Order) T {
	var z T
	switch any(z).(type) {
	case float32:
		return T(mathFloat32(LoadU[uint32](p, order)))
	case float64:
		return T(mathFloat64(LoadU[uint64](p, order)))
	default:
		panic("zeroarc: unreachable float width")
	}
}

// StoreBool stores a bool as a single byte: 0x00 or 0x01.
func StoreBool(p *byte, v bool) {
	if v {
		*p = 1
	} else {
		*p = 0
	}
}

// IsValidBool reports whether b is a valid encoded bool (spec §4.1: "only
// 0x00 and 0x01 are valid").
func IsValidBool(b byte) bool {
	return b == 0 || b == 1
}

// LoadBool loads a bool without validating it; callers on the access path
// must have validated the buffer first.
func LoadBool(p *byte) bool {
	return *p != 0
}

// StoreChar stores a rune as its four-byte Unicode scalar value.
func StoreChar(p *byte, order Order, r rune) {
	StoreU(p, order, uint32(r))
}

// LoadChar loads a rune stored by StoreChar without validating it.
func LoadChar(p *byte, order Order) rune {
	return rune(LoadU[uint32](p, order))
}

// IsValidChar reports whether v is a valid Unicode scalar value: not a
// surrogate and within the Unicode range (spec §4.1: "char... must be a
// Unicode scalar value (not a surrogate)").
func IsValidChar(v uint32) bool {
	if v > utf8.MaxRune {
		return false
	}
	return !(v >= 0xD800 && v <= 0xDFFF)
}

// Index is any integer usable as a length or position field in an archived
// container.
type Index interface {
	constraints.Integer
}
