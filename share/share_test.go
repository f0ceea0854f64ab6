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

package share_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc/share"
	"github.com/zeroarc/zeroarc/sharetag"
	"github.com/zeroarc/zeroarc/zerr"
)

func TestFirstSightEmitsSecondDoesNot(t *testing.T) {
	r := share.NewRegistry()
	payload := new(int)
	id := share.Identity(payload)
	tag := sharetag.Of[int]()

	calls := 0
	emit := func() (int, error) {
		calls++
		return 42, nil
	}

	pos1, err := r.Strong(id, tag, emit)
	require.NoError(t, err)
	require.Equal(t, 42, pos1)

	pos2, err := r.Strong(id, tag, emit)
	require.NoError(t, err)
	require.Equal(t, 42, pos2)
	require.Equal(t, 1, calls, "second strong reference must not re-emit the payload")

	e, ok := r.Lookup(id)
	require.True(t, ok)
	require.Equal(t, 2, e.Strong)
}

func TestTagMismatch(t *testing.T) {
	r := share.NewRegistry()
	payload := new(int)
	id := share.Identity(payload)

	_, err := r.Strong(id, sharetag.Of[int](), func() (int, error) { return 1, nil })
	require.NoError(t, err)

	_, err = r.Strong(id, sharetag.Of[string](), func() (int, error) { return 2, nil })
	require.Error(t, err)
	require.True(t, zerr.Is(err, zerr.SharedTypeMismatch))
}

func TestWeakSharesStrongEntry(t *testing.T) {
	r := share.NewRegistry()
	payload := new(int)
	id := share.Identity(payload)
	tag := sharetag.Of[int]()

	pos, err := r.Strong(id, tag, func() (int, error) { return 7, nil })
	require.NoError(t, err)

	weakPos, err := r.Weak(id, tag, func() (int, error) { t.Fatal("must not emit"); return 0, nil })
	require.NoError(t, err)
	require.Equal(t, pos, weakPos)
}
