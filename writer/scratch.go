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

package writer

import (
	"github.com/zeroarc/zeroarc/internal/arena"
	"github.com/zeroarc/zeroarc/zerr"
)

// Scratch is a LIFO-scoped allocator for staging the elements of a
// variable-length value before its final size is known (spec §4.4, §5).
// It is backed by an arena, so pointers handed out by Alloc stay valid for
// as long as the Scratch itself does.
//
// Every Begin must be matched by a Release in reverse order; releasing out
// of order is a programmer error reported as ScratchLeak rather than
// silently corrupting the stack.
type Scratch struct {
	arena arena.Arena
	stack []Token
	next  Token
}

// Token identifies one Begin/Release pair.
type Token int64

// Begin opens a new scratch frame, returning a Token that must be passed
// to a matching Release once the frame's contents have been fully
// consumed (i.e. copied into the final archived buffer via a Place).
func (s *Scratch) Begin() Token {
	s.next++
	s.stack = append(s.stack, s.next)
	return s.next
}

// Release closes the most recently opened, not-yet-released frame. It
// fails with ScratchLeak if t is not the innermost open frame, meaning
// some frame opened after it was never released.
func (s *Scratch) Release(t Token) error {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1] != t {
		return zerr.New(zerr.ScratchLeak)
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// Alloc allocates size bytes of scratch memory within the current frame.
func (s *Scratch) Alloc(size int) *byte {
	return s.arena.Alloc(size)
}

// New allocates and initializes a scratch value of type T.
func New[T any](s *Scratch, value T) *T {
	return arena.New(&s.arena, value)
}

// Reset discards every frame and every allocation, whether or not they
// were released. It is meant to be called once an entire top-level
// serialization has completed (successfully or not) and the scratch
// arena's memory is no longer needed.
func (s *Scratch) Reset() {
	s.arena.Reset()
	s.stack = nil
	s.next = 0
}

// Open reports whether there is at least one unreleased frame, useful for
// asserting a serializer context is clean before Reset.
func (s *Scratch) Open() bool {
	return len(s.stack) > 0
}
