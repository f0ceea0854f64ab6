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

package mmapbuf_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc/mmapbuf"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.zeroarc")
	want := []byte("hello, archived world")

	require.NoError(t, mmapbuf.WriteFile(path, want))

	buf, err := mmapbuf.Open(path)
	require.NoError(t, err)
	defer buf.Close()

	require.Equal(t, len(want), buf.Len())
	require.Equal(t, want, buf.Bytes())
}

func TestEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zeroarc")
	require.NoError(t, mmapbuf.WriteFile(path, nil))

	buf, err := mmapbuf.Open(path)
	require.NoError(t, err)
	defer buf.Close()

	require.Equal(t, 0, buf.Len())
}
