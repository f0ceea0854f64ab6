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

package writer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc/writer"
	"github.com/zeroarc/zeroarc/zerr"
)

func TestBufferPadTo(t *testing.T) {
	w := writer.NewBuffer(0)
	_, err := w.WriteSlice([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, w.Pos())

	require.NoError(t, w.PadTo(8))
	require.Equal(t, 8, w.Pos())
	require.Equal(t, []byte{1, 2, 3, 0, 0, 0, 0, 0}, w.Bytes())

	require.NoError(t, w.PadTo(8))
	require.Equal(t, 8, w.Pos(), "padding to an already-satisfied alignment is a no-op")
}

func TestBoundedOutOfSpace(t *testing.T) {
	w := writer.NewBounded(4)
	_, err := w.WriteSlice([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	_, err = w.WriteSlice([]byte{5})
	require.Error(t, err)
	require.True(t, zerr.Is(err, zerr.OutOfSpace))
}

func TestBoundedPadToFailsWithoutPartialAdvance(t *testing.T) {
	w := writer.NewBounded(3)
	_, err := w.WriteSlice([]byte{1})
	require.NoError(t, err)
	require.Equal(t, 1, w.Pos())

	// Padding to an 8-byte alignment from position 1 needs 7 bytes, but
	// only 2 remain: PadTo must fail outright rather than writing the 2
	// bytes it has room for and leaving Pos() misaligned.
	err = w.PadTo(8)
	require.Error(t, err)
	require.True(t, zerr.Is(err, zerr.OutOfSpace))
	require.Equal(t, 1, w.Pos(), "a failed PadTo must not partially advance Pos()")
}

func TestScratchLIFO(t *testing.T) {
	var s writer.Scratch

	a := s.Begin()
	ap := writer.New(&s, uint64(1))
	b := s.Begin()
	bp := writer.New(&s, uint64(2))

	require.Equal(t, uint64(1), *ap)
	require.Equal(t, uint64(2), *bp)

	// Releasing a before b is out of order.
	err := s.Release(a)
	require.Error(t, err)
	require.True(t, zerr.Is(err, zerr.ScratchLeak))

	require.NoError(t, s.Release(b))
	require.NoError(t, s.Release(a))
	require.False(t, s.Open())
}
