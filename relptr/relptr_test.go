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

package relptr_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc/prim"
	"github.com/zeroarc/zeroarc/relptr"
	"github.com/zeroarc/zeroarc/zerr"
)

// layout mimics a tiny archived buffer: a pointer cell at offset 0 and a
// pointee at offset 16.
type layout struct {
	cell    relptr.Rel32[uint64]
	_       [12]byte
	pointee uint64
}

func TestNullIsZero(t *testing.T) {
	var r relptr.Rel32[uint64]
	require.True(t, r.IsNull(prim.LittleEndian))
}

func TestRoundTrip(t *testing.T) {
	var l layout
	base := (*byte)(unsafe.Pointer(&l))
	cellPos := int(unsafe.Offsetof(l.cell))
	pointeePos := int(unsafe.Offsetof(l.pointee))

	require.NoError(t, relptr.New32(&l.cell, prim.LittleEndian, cellPos, pointeePos))
	require.False(t, l.cell.IsNull(prim.LittleEndian))

	l.pointee = 0xDEADBEEF

	self := relptr.SelfAddr(base, cellPos)
	got := relptr.Deref32[uint64](&l.cell, self, prim.LittleEndian)
	require.Equal(t, uint64(0xDEADBEEF), *got)
}

func TestOverflow16(t *testing.T) {
	var r relptr.Rel16[uint32]
	err := relptr.New16(&r, prim.LittleEndian, 0, 1<<20)
	require.Error(t, err)
	require.True(t, zerr.Is(err, zerr.OffsetOverflow))
}

func TestZeroDeltaRejected(t *testing.T) {
	var r relptr.Rel32[uint32]
	err := relptr.New32(&r, prim.LittleEndian, 40, 40)
	require.Error(t, err)
	require.True(t, zerr.Is(err, zerr.OffsetOverflow))
}

func TestNegativeDelta(t *testing.T) {
	var fwd, back relptr.Rel32[uint32]
	require.NoError(t, relptr.New32(&fwd, prim.LittleEndian, 10, 100))
	require.NoError(t, relptr.New32(&back, prim.LittleEndian, 100, 10))

	var buf [200]byte
	base := &buf[0]

	fwdTarget := relptr.Deref32[uint32](&fwd, relptr.SelfAddr(base, 10), prim.LittleEndian)
	backTarget := relptr.Deref32[uint32](&back, relptr.SelfAddr(base, 100), prim.LittleEndian)

	require.Equal(t, unsafe.Pointer(&buf[100]), unsafe.Pointer(fwdTarget))
	require.Equal(t, unsafe.Pointer(&buf[10]), unsafe.Pointer(backTarget))
}
