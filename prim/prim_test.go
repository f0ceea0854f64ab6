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

package prim_test

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc/prim"
)

func TestStoreLoadU(t *testing.T) {
	for _, order := range []prim.Order{prim.LittleEndian, prim.BigEndian} {
		var buf [8]byte
		prim.StoreU(&buf[0], order, uint64(0x0102030405060708))
		require.Equal(t, uint64(0x0102030405060708), prim.LoadU[uint64](&buf[0], order))

		prim.StoreU(&buf[0], order, uint32(0xAABBCCDD))
		require.Equal(t, uint32(0xAABBCCDD), prim.LoadU[uint32](&buf[0], order))

		prim.StoreU(&buf[0], order, uint16(0xBEEF))
		require.Equal(t, uint16(0xBEEF), prim.LoadU[uint16](&buf[0], order))

		prim.StoreU(&buf[0], order, uint8(0x42))
		require.Equal(t, uint8(0x42), prim.LoadU[uint8](&buf[0], order))
	}
}

func TestByteOrderDiffers(t *testing.T) {
	var le, be [4]byte
	prim.StoreU(&le[0], prim.LittleEndian, uint32(1))
	prim.StoreU(&be[0], prim.BigEndian, uint32(1))
	require.NotEqual(t, le, be)
	require.Equal(t, byte(1), le[0])
	require.Equal(t, byte(1), be[3])
}

func TestStoreLoadI(t *testing.T) {
	var buf [8]byte
	prim.StoreI(&buf[0], prim.LittleEndian, int64(-1))
	require.Equal(t, int64(-1), prim.LoadI[int64](&buf[0], prim.LittleEndian))

	prim.StoreI(&buf[0], prim.LittleEndian, int32(-12345))
	require.Equal(t, int32(-12345), prim.LoadI[int32](&buf[0], prim.LittleEndian))
}

func TestStoreLoadF(t *testing.T) {
	var buf [8]byte
	prim.StoreF(&buf[0], prim.LittleEndian, float64(3.14159265358979))
	require.InDelta(t, 3.14159265358979, prim.LoadF[float64](&buf[0], prim.LittleEndian), 1e-12)

	prim.StoreF(&buf[0], prim.BigEndian, float32(2.5))
	require.Equal(t, float32(2.5), prim.LoadF[float32](&buf[0], prim.BigEndian))
}

func TestBool(t *testing.T) {
	var b byte
	prim.StoreBool(&b, true)
	require.True(t, prim.IsValidBool(b))
	require.True(t, prim.LoadBool(&b))

	prim.StoreBool(&b, false)
	require.True(t, prim.IsValidBool(b))
	require.False(t, prim.LoadBool(&b))

	require.False(t, prim.IsValidBool(2))
	require.False(t, prim.IsValidBool(0xFF))
}

func TestChar(t *testing.T) {
	var buf [4]byte
	prim.StoreChar(&buf[0], prim.LittleEndian, 'z')
	require.Equal(t, rune('z'), prim.LoadChar(&buf[0], prim.LittleEndian))

	require.True(t, prim.IsValidChar(0x41))
	require.True(t, prim.IsValidChar(0x10FFFF))
	require.False(t, prim.IsValidChar(0x110000))
	require.False(t, prim.IsValidChar(0xD800))
	require.False(t, prim.IsValidChar(0xDFFF))
}

func TestArchivedWrappers(t *testing.T) {
	var u prim.ArchivedU32
	u.Set(prim.BigEndian, 0x01020304)
	require.Equal(t, uint32(0x01020304), u.Get(prim.BigEndian))

	var i prim.ArchivedI16
	i.Set(prim.LittleEndian, -2)
	require.Equal(t, int16(-2), i.Get(prim.LittleEndian))

	var f prim.ArchivedF64
	f.Set(prim.LittleEndian, 2.5)
	require.Equal(t, 2.5, f.Get(prim.LittleEndian))

	var b prim.ArchivedBool
	b.Set(true)
	require.True(t, b.Get())

	var c prim.ArchivedChar
	c.Set(prim.LittleEndian, '界')
	require.Equal(t, '界', c.Get(prim.LittleEndian))
}

func TestArchivedWrapperAlignment(t *testing.T) {
	// The wrappers exist so archived composites inherit each primitive's
	// natural alignment from Go's own struct layout.
	require.Equal(t, uintptr(8), unsafe.Alignof(prim.ArchivedU64{}))
	require.Equal(t, uintptr(4), unsafe.Alignof(prim.ArchivedF32{}))
	require.Equal(t, uintptr(1), unsafe.Alignof(prim.ArchivedBool{}))
	require.Equal(t, uintptr(4), unsafe.Alignof(prim.ArchivedChar{}))
}

func TestDurationByteLayout(t *testing.T) {
	d := prim.Duration{Secs: 42, Nanos: 123_456_789}
	var arc prim.ArchivedDuration
	d.Archive(&arc, prim.LittleEndian)

	want := []byte{
		0x2A, 0, 0, 0, 0, 0, 0, 0, // secs
		0x15, 0xCD, 0x5B, 0x07, // nanos
	}
	require.Equal(t, want, (*[12]byte)(unsafe.Pointer(&arc))[:])
	require.Equal(t, uint64(42), arc.AsSecs(prim.LittleEndian))
	require.Equal(t, uint32(123_456_789), arc.SubsecNanos(prim.LittleEndian))
	require.Equal(t, uint64(42_123_456_789), arc.AsNanos(prim.LittleEndian))
}

func TestDurationRoundTrip(t *testing.T) {
	d := prim.FromStd(2*time.Second + 500*time.Millisecond)

	var arc prim.ArchivedDuration
	d.Archive(&arc, prim.LittleEndian)

	require.Equal(t, uint64(2), arc.AsSecs(prim.LittleEndian))
	require.Equal(t, uint32(5e8), arc.SubsecNanos(prim.LittleEndian))
	require.Equal(t, d.Std(), arc.Std(prim.LittleEndian).Std())
}
