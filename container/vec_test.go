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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc"
	"github.com/zeroarc/zeroarc/container"
	"github.com/zeroarc/zeroarc/place"
	"github.com/zeroarc/zeroarc/prim"
	"github.com/zeroarc/zeroarc/writer"
)

func TestVecRoundTrip(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(64))
	v := container.Vec[archivedU32, u32Resolver, u32]{V: []u32{1, 2, 3}}

	r, err := v.Serialize(ctx)
	require.NoError(t, err)
	p, err := place.Reserve[container.ArchivedVec[archivedU32]](ctx.W)
	require.NoError(t, err)
	require.NoError(t, v.Archive(p, r))

	buf := ctx.W.Bytes()
	archived, err := zeroarc.MustAccess[container.ArchivedVec[archivedU32]](buf, p.Pos())
	require.NoError(t, err)
	require.Equal(t, 3, archived.Len(prim.LittleEndian))
	for i, want := range []uint32{1, 2, 3} {
		require.Equal(t, want, archived.Index(i, prim.LittleEndian).Get(prim.LittleEndian))
	}
}

func TestVecEmpty(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(64))
	v := container.Vec[archivedU32, u32Resolver, u32]{}

	r, err := v.Serialize(ctx)
	require.NoError(t, err)
	p, err := place.Reserve[container.ArchivedVec[archivedU32]](ctx.W)
	require.NoError(t, err)
	require.NoError(t, v.Archive(p, r))

	archived, err := zeroarc.MustAccess[container.ArchivedVec[archivedU32]](ctx.W.Bytes(), p.Pos())
	require.NoError(t, err)
	require.Equal(t, 0, archived.Len(prim.LittleEndian))
}

func TestVecDeserialize(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(64))
	v := container.Vec[archivedU32, u32Resolver, u32]{V: []u32{1, 2, 3}}

	r, err := v.Serialize(ctx)
	require.NoError(t, err)
	p, err := place.Reserve[container.ArchivedVec[archivedU32]](ctx.W)
	require.NoError(t, err)
	require.NoError(t, v.Archive(p, r))

	buf := ctx.W.Bytes()
	archived, err := zeroarc.MustAccess[container.ArchivedVec[archivedU32]](buf, p.Pos())
	require.NoError(t, err)

	got, err := zeroarc.Deserialize[container.ArchivedVec[archivedU32], container.Vec[archivedU32, u32Resolver, u32]](archived, zeroarc.NewDeserializer(buf))
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestVecLengthOverrunFailsValidation(t *testing.T) {
	// A declared length that would read past the end of the buffer must
	// be rejected (spec §4.8 step 2: "length * size(elem) <= len(B) - q").
	ctx := zeroarc.NewContext(writer.NewBuffer(64))
	v := container.Vec[archivedU32, u32Resolver, u32]{V: []u32{1}}

	r, err := v.Serialize(ctx)
	require.NoError(t, err)
	p, err := place.Reserve[container.ArchivedVec[archivedU32]](ctx.W)
	require.NoError(t, err)
	require.NoError(t, v.Archive(p, r))

	buf := ctx.W.Bytes()
	lenFieldPos := p.Pos() + 4
	prim.StoreU(&buf[lenFieldPos], prim.LittleEndian, uint32(1_000_000))

	_, err = zeroarc.MustAccess[container.ArchivedVec[archivedU32]](buf, p.Pos())
	require.Error(t, err)
}
