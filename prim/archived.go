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

package prim

import "github.com/zeroarc/zeroarc/internal/xunsafe"

// The Archived* types are transparent wrappers over a primitive's stored
// bytes (spec §4.1). Each wraps its primitive's native Go type rather
// than a byte array, so an archived composite embedding one inherits the
// primitive's natural size and alignment from Go's own struct layout —
// which is what makes the alignment law (spec §8 property 8) hold for
// every field Reserve places. The wrapped value is never read directly;
// Get and Set go through the order-aware codec, so the in-memory field
// holds whatever byte pattern the configured Order dictates.
type (
	ArchivedU8  struct{ v uint8 }
	ArchivedU16 struct{ v uint16 }
	ArchivedU32 struct{ v uint32 }
	ArchivedU64 struct{ v uint64 }

	ArchivedI8  struct{ v int8 }
	ArchivedI16 struct{ v int16 }
	ArchivedI32 struct{ v int32 }
	ArchivedI64 struct{ v int64 }

	ArchivedF32 struct{ v float32 }
	ArchivedF64 struct{ v float64 }

	// ArchivedBool is a single byte; only 0x00 and 0x01 are valid.
	ArchivedBool struct{ v uint8 }
	// ArchivedChar is a four-byte Unicode scalar value.
	ArchivedChar struct{ v uint32 }
)

func (a *ArchivedU8) Get(order Order) uint8   { return LoadU[uint8](xunsafe.Cast[byte](a), order) }
func (a *ArchivedU16) Get(order Order) uint16 { return LoadU[uint16](xunsafe.Cast[byte](a), order) }
func (a *ArchivedU32) Get(order Order) uint32 { return LoadU[uint32](xunsafe.Cast[byte](a), order) }
func (a *ArchivedU64) Get(order Order) uint64 { return LoadU[uint64](xunsafe.Cast[byte](a), order) }

func (a *ArchivedU8) Set(order Order, v uint8)   { StoreU(xunsafe.Cast[byte](a), order, v) }
func (a *ArchivedU16) Set(order Order, v uint16) { StoreU(xunsafe.Cast[byte](a), order, v) }
func (a *ArchivedU32) Set(order Order, v uint32) { StoreU(xunsafe.Cast[byte](a), order, v) }
func (a *ArchivedU64) Set(order Order, v uint64) { StoreU(xunsafe.Cast[byte](a), order, v) }

func (a *ArchivedI8) Get(order Order) int8   { return LoadI[int8](xunsafe.Cast[byte](a), order) }
func (a *ArchivedI16) Get(order Order) int16 { return LoadI[int16](xunsafe.Cast[byte](a), order) }
func (a *ArchivedI32) Get(order Order) int32 { return LoadI[int32](xunsafe.Cast[byte](a), order) }
func (a *ArchivedI64) Get(order Order) int64 { return LoadI[int64](xunsafe.Cast[byte](a), order) }

func (a *ArchivedI8) Set(order Order, v int8)   { StoreI(xunsafe.Cast[byte](a), order, v) }
func (a *ArchivedI16) Set(order Order, v int16) { StoreI(xunsafe.Cast[byte](a), order, v) }
func (a *ArchivedI32) Set(order Order, v int32) { StoreI(xunsafe.Cast[byte](a), order, v) }
func (a *ArchivedI64) Set(order Order, v int64) { StoreI(xunsafe.Cast[byte](a), order, v) }

func (a *ArchivedF32) Get(order Order) float32 { return LoadF[float32](xunsafe.Cast[byte](a), order) }
func (a *ArchivedF64) Get(order Order) float64 { return LoadF[float64](xunsafe.Cast[byte](a), order) }

func (a *ArchivedF32) Set(order Order, v float32) { StoreF(xunsafe.Cast[byte](a), order, v) }
func (a *ArchivedF64) Set(order Order, v float64) { StoreF(xunsafe.Cast[byte](a), order, v) }

func (a *ArchivedBool) Get() bool  { return LoadBool(xunsafe.Cast[byte](a)) }
func (a *ArchivedBool) Set(v bool) { StoreBool(xunsafe.Cast[byte](a), v) }

func (a *ArchivedChar) Get(order Order) rune    { return LoadChar(xunsafe.Cast[byte](a), order) }
func (a *ArchivedChar) Set(order Order, r rune) { StoreChar(xunsafe.Cast[byte](a), order, r) }
