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

// Package arena provides a bump allocator used to stage the variable-length
// children of a value whose final size isn't known until serialization of
// that value completes (spec "scratch space", see package writer).
//
// Unlike a long-lived object arena, memory handed out here is never
// referenced by the archived buffer itself: it is working storage, read by
// the owning value's Archive method and then discarded, so it needs none of
// the GC self-pointer tricks a persistent arena requires. Each block is its
// own ordinary Go allocation; once a block is full a new one is grown and
// the old one is kept alive in Arena.blocks so that pointers already handed
// out by Alloc are never invalidated.
package arena

import (
	"github.com/zeroarc/zeroarc/internal/debug"
	"github.com/zeroarc/zeroarc/internal/xunsafe"
	"github.com/zeroarc/zeroarc/internal/xunsafe/layout"
)

// Arena is a bump allocator over a growing set of blocks.
//
// A zero Arena is empty and ready to use.
type Arena struct {
	_ xunsafe.NoCopy

	block  []byte   // current block; Alloc hands out slices of this.
	next   int      // offset of the next free byte in block.
	blocks [][]byte // every block ever allocated, kept alive for Alloc's pointers.
}

// Align is the alignment of every allocation made on an Arena.
const Align = 8

// New allocates a new value of type T on an arena.
func New[T any](a *Arena, value T) *T {
	if layout.Align[T]() > Align {
		panic("zeroarc: over-aligned scratch object")
	}

	p := xunsafe.Cast[T](a.Alloc(layout.Size[T]()))
	*p = value
	return p
}

// Alloc allocates size bytes of pointer-aligned scratch memory.
//
// The returned pointer remains valid for the lifetime of the Arena; it is
// never invalidated by a later Alloc call, even one that grows the arena.
func (a *Arena) Alloc(size int) *byte {
	size = layout.RoundUp(size, Align)

	if a.next+size > len(a.block) {
		a.growBlock(size)
	}

	p := &a.block[a.next]
	a.next += size
	debug.Log(nil, "arena alloc", "%d/%d in block %d", a.next-size, a.next, len(a.blocks)-1)

	return p
}

// Reset discards every allocation made on this arena, allowing its backing
// memory to be garbage collected.
//
// Memory returned by a prior Alloc call must not be referenced after Reset.
func (a *Arena) Reset() {
	a.block = nil
	a.blocks = nil
	a.next = 0
}

func (a *Arena) growBlock(need int) {
	size := max(need, 4096)
	if n := len(a.blocks); n > 0 {
		size = max(size, len(a.blocks[n-1])*2)
	}

	block := make([]byte, size)
	a.blocks = append(a.blocks, block)
	a.block = block
	a.next = 0
	debug.Log(nil, "arena grow", "new block of %d bytes, %d total", size, len(a.blocks))
}

// realloc grows an in-place allocation, copying to a fresh allocation if p
// is not the most recent allocation made in the current block.
func (a *Arena) realloc(newSize, oldSize int, p *byte) *byte {
	newSize = layout.RoundUp(newSize, Align)
	oldSize = layout.RoundUp(oldSize, Align)

	if len(a.block) > 0 {
		i := a.next - oldSize
		if i >= 0 && &a.block[i] == p && i+newSize <= len(a.block) {
			a.next = i + newSize
			return p
		}
	}

	q := a.Alloc(newSize)
	if oldSize > 0 {
		copy(xunsafe.Slice(q, oldSize), xunsafe.Slice(p, oldSize))
	}
	return q
}
