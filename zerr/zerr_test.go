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

package zerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc/zerr"
)

func TestAtCarriesPosition(t *testing.T) {
	err := zerr.At(zerr.OutOfBounds, 12)
	require.Equal(t, 12, err.Offset())
	require.Equal(t, zerr.OutOfBounds, err.Kind())
	require.Contains(t, err.Error(), "offset 12")
}

func TestNewHasNoPosition(t *testing.T) {
	err := zerr.New(zerr.ScratchLeak)
	require.Equal(t, -1, err.Offset())
	require.NotContains(t, err.Error(), "offset")
}

func TestAtExpectedFormatsDiagnostic(t *testing.T) {
	err := zerr.AtExpected(zerr.InvalidBool, 4, "0x00 or 0x01", "0x02")
	require.Contains(t, err.Error(), "expected 0x00 or 0x01, got 0x02")
}

func TestWrapAttachesUserKindAndUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := zerr.Wrap(cause, 8)
	require.Equal(t, zerr.User, err.Kind())
	require.ErrorIs(t, err, cause)
}

func TestWrapNilReturnsNil(t *testing.T) {
	require.Nil(t, zerr.Wrap(nil, 0))
}

func TestIsFollowsUnwrapChain(t *testing.T) {
	inner := zerr.At(zerr.CycleDetected, 3)
	wrapped := fmt.Errorf("while validating: %w", inner)
	require.True(t, zerr.Is(wrapped, zerr.CycleDetected))
	require.False(t, zerr.Is(wrapped, zerr.OverlapError))
}

func TestKindStringUnknown(t *testing.T) {
	require.Equal(t, "unknown error kind", zerr.Kind(999).String())
}
