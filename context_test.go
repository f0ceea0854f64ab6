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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc"
	"github.com/zeroarc/zeroarc/writer"
	"github.com/zeroarc/zeroarc/zerr"
)

func TestContextFailShortCircuitsOnFirstError(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(16))
	require.Nil(t, ctx.Err())

	first := errors.New("first")
	second := errors.New("second")

	require.Equal(t, first, ctx.Fail(first))
	require.Equal(t, first, ctx.Fail(second))
	require.Equal(t, first, ctx.Err())
}

func TestContextFailIgnoresNil(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(16))
	require.NoError(t, ctx.Fail(nil))
	require.Nil(t, ctx.Err())
}

func TestScratchIsAWriterCapability(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(16))
	s, err := ctx.Scratch()
	require.NoError(t, err)
	tok := s.Begin()
	require.NoError(t, s.Release(tok))

	// A bounded writer over preallocated memory hosts no scratch arena.
	bounded := zeroarc.NewContext(writer.NewBounded(16))
	_, err = bounded.Scratch()
	require.True(t, zerr.Is(err, zerr.ScratchUnsupported))
	require.Error(t, bounded.Err(), "a scratch miss short-circuits the context")
}

func TestContextReset(t *testing.T) {
	ctx := zeroarc.NewContext(writer.NewBuffer(16))
	ctx.Fail(errors.New("boom"))
	require.NotNil(t, ctx.Err())

	ctx.Reset()
	require.Nil(t, ctx.Err())
}
