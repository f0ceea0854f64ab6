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

package zeroarc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc"
	"github.com/zeroarc/zeroarc/prim"
	"github.com/zeroarc/zeroarc/writer"
)

func TestDefaultConfig(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(16))
	require.Equal(t, prim.LittleEndian, ctx.Order)
	require.Equal(t, 32, ctx.PointerWidth)
	require.False(t, ctx.Unaligned)
	require.True(t, ctx.Validation)
}

func TestWithBigEndian(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(16), zeroarc.WithBigEndian())
	require.Equal(t, prim.BigEndian, ctx.Order)
}

func TestWithUnaligned(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(16), zeroarc.WithUnaligned())
	require.True(t, ctx.Unaligned)
}

func TestWithPointerWidth(t *testing.T) {
	ctx16 := zeroarc.NewContext(writer.NewBuffer(16), zeroarc.WithPointerWidth16())
	require.Equal(t, 16, ctx16.PointerWidth)

	ctx64 := zeroarc.NewContext(writer.NewBuffer(16), zeroarc.WithPointerWidth64())
	require.Equal(t, 64, ctx64.PointerWidth)

	ctx32 := zeroarc.NewContext(writer.NewBuffer(16), zeroarc.WithPointerWidth32())
	require.Equal(t, 32, ctx32.PointerWidth)
}

func TestWithValidationDisabled(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(16), zeroarc.WithValidation(false))
	require.False(t, ctx.Validation)
}
