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

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc/prim"
	"github.com/zeroarc/zeroarc/validate"
	"github.com/zeroarc/zeroarc/zerr"
)

// leaf is an archived type with no children: a single validated byte.
type leaf struct{ b byte }

func (l leaf) ValidateBytes(v *validate.Validator, pos int) error {
	return v.Bool(pos)
}

// node is a two-deep archived type: a bool byte followed by a 4-byte
// relative offset to another leaf, used to exercise Descend.
type node struct {
	flag byte
	_    [3]byte
	next int32
}

func (n node) ValidateBytes(v *validate.Validator, pos int) error {
	if err := v.Bool(pos); err != nil {
		return err
	}
	target := pos + 4 + int(n.next)
	return validate.Descend[leaf](v, target)
}

func TestRootOutOfBounds(t *testing.T) {
	buf := make([]byte, 4)
	buf[0] = 1

	v := validate.New(buf)
	_, err := validate.Root[leaf](v, 10)
	require.True(t, zerr.Is(err, zerr.OutOfBounds))
}

func TestRootInvalidBool(t *testing.T) {
	buf := []byte{2}
	v := validate.New(buf)
	_, err := validate.Root[leaf](v, 0)
	require.True(t, zerr.Is(err, zerr.InvalidBool))
}

func TestDescendValid(t *testing.T) {
	buf := make([]byte, 16)
	buf[0] = 1                                          // node.flag
	prim.StoreI(&buf[4], prim.LittleEndian, int32(8-4)) // points to byte 8
	buf[8] = 1                                          // leaf.b

	v := validate.New(buf)
	_, err := validate.Root[node](v, 0)
	require.NoError(t, err)
}

func TestCycleDetected(t *testing.T) {
	buf := make([]byte, 16)
	buf[0] = 1
	// node at 0 points to itself at offset 0 (relative to field at 4): delta = -4.
	prim.StoreI(&buf[4], prim.LittleEndian, int32(-4))

	v := validate.New(buf)
	_, err := validate.Root[node](v, 0)
	require.True(t, zerr.Is(err, zerr.CycleDetected))
}

func TestSharedAliasingIsNotOverlap(t *testing.T) {
	buf := make([]byte, 32)
	buf[8] = 1 // shared leaf

	v := validate.New(buf)
	require.NoError(t, validate.Descend[leaf](v, 8))
	// A second descent into the exact same, already-validated span must
	// succeed without re-walking it.
	require.NoError(t, validate.Descend[leaf](v, 8))
}

func TestPartialOverlapRejected(t *testing.T) {
	buf := make([]byte, 64)

	v := validate.New(buf)
	_, err := validate.Root[leaf](v, 8)
	require.NoError(t, err)

	// Re-validating a distinct, non-identical span starting at the same
	// byte with a bigger type is a partial overlap, not shared aliasing.
	_, err2 := validate.Root[node](v, 8)
	require.True(t, zerr.Is(err2, zerr.OverlapError))
}

// chain descends into another chain 8 bytes further on, without end, so
// only the depth limit (or the end of the buffer) stops the walk.
type chain struct{ _ [8]byte }

func (chain) ValidateBytes(v *validate.Validator, pos int) error {
	return validate.Descend[chain](v, pos+8)
}

func TestDepthExceeded(t *testing.T) {
	buf := make([]byte, 4096)

	v := validate.New(buf, validate.WithMaxDepth(4))
	_, err := validate.Root[chain](v, 0)
	require.True(t, zerr.Is(err, zerr.DepthExceeded))
}

func TestDepthAtLimitSucceeds(t *testing.T) {
	// A node→leaf tree is exactly two levels deep: admitted with the
	// limit at 2, rejected with it at 1.
	buf := make([]byte, 16)
	buf[0] = 1
	prim.StoreI(&buf[4], prim.LittleEndian, int32(4))
	buf[8] = 1

	v := validate.New(buf, validate.WithMaxDepth(2))
	_, err := validate.Root[node](v, 0)
	require.NoError(t, err)

	v2 := validate.New(buf, validate.WithMaxDepth(1))
	_, err = validate.Root[node](v2, 0)
	require.True(t, zerr.Is(err, zerr.DepthExceeded))
}

func TestDiscriminant(t *testing.T) {
	v := validate.New(nil)
	require.NoError(t, v.Discriminant(0, 1, 0, 1, 2))
	require.True(t, zerr.Is(v.Discriminant(0, 9, 0, 1, 2), zerr.InvalidDiscriminant))
}

func TestChar(t *testing.T) {
	v := validate.New(nil)
	require.NoError(t, v.Char(0, 'A'))
	require.True(t, zerr.Is(v.Char(0, 0xD800), zerr.InvalidChar))
	require.True(t, zerr.Is(v.Char(0, 0x110000), zerr.InvalidChar))
}

// FuzzValidateNode feeds arbitrary bytes through the full Root walk of a
// two-level archived type. Whatever the input, Root must either reject it
// or return a reference whose every reachable byte satisfies the checks
// it claims to have run; it must never panic.
func FuzzValidateNode(f *testing.F) {
	f.Add([]byte{1, 0, 0, 0, 4, 0, 0, 0, 1})
	f.Add(make([]byte, 16))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, b []byte) {
		v := validate.New(b)
		root, err := validate.Root[node](v, 0)
		if err != nil {
			require.Nil(t, root)
			return
		}
		require.True(t, b[0] == 0 || b[0] == 1)
		target := 4 + int(prim.LoadI[int32](&b[4], prim.LittleEndian))
		require.True(t, b[target] == 0 || b[target] == 1)
	})
}

func TestUTF8(t *testing.T) {
	v := validate.New([]byte("hello"))
	require.NoError(t, v.UTF8(0, 5))

	v2 := validate.New([]byte{'h', 'i', 0xFF, 0xFE})
	require.True(t, zerr.Is(v2.UTF8(0, 4), zerr.InvalidUTF8))

	v3 := validate.New([]byte("hi"))
	require.True(t, zerr.Is(v3.UTF8(0, 10), zerr.OutOfBounds))
}
