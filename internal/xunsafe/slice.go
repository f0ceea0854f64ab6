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

package xunsafe

import (
	"unsafe"

	"github.com/zeroarc/zeroarc/internal/xunsafe/layout"
)

// Slice builds a []E out of a pointer and a length, without a bounds check.
func Slice[P ~*E, E any, I Int](p P, n I) []E {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*E)(p), int(n))
}

// Bytes reinterprets the E that p points to as a byte slice covering it.
func Bytes[P ~*E, E any](p P) []byte {
	return Slice(Cast[byte](p), layout.Size[E]())
}

// String builds a string out of a pointer and a length, without a bounds
// check or a copy.
func String[P ~*E, E any, I Int](p P, n I) string {
	if n == 0 {
		return ""
	}
	return unsafe.String(Cast[byte](p), int(n))
}
