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

package zeroarc

import (
	"github.com/zeroarc/zeroarc/internal/xunsafe"
	"github.com/zeroarc/zeroarc/internal/xunsafe/layout"
	"github.com/zeroarc/zeroarc/validate"
)

// RootPos returns the conventional root position within a buffer of the
// given length: the root is the last thing written (spec §6: "The root
// position is conventionally len(B) - size(A(Root))").
func RootPos[A any](buf []byte) int {
	return len(buf) - layout.Size[A]()
}

// Access reinterprets buf[pos:pos+size(A)] as an A, without validation.
// It is a constant-time operation whose precondition is that buf was
// produced by this package, or has already been validated by MustAccess
// (spec §4.9: "Unchecked access reinterpret-casts... a constant-time
// operation whose precondition is that B was produced by this
// framework").
//
// Calling Access on an untrusted or unvalidated buffer is undefined
// behavior: out-of-bounds relative pointers, misaligned reads and invalid
// discriminants are not caught.
func Access[A any](buf []byte, pos int) *A {
	if pos == len(buf) && layout.Size[A]() == 0 {
		// A zero-sized root at the very end of the buffer has no byte of
		// its own to point at; any non-nil pointer serves.
		return new(A)
	}
	return xunsafe.Cast[A](&buf[pos])
}

// Mut is the mutable-access capability over an archived root (spec
// §4.9): it permits in-place writes that do not change the buffer's
// structure — primitive field stores, reorders of fixed-layout elements
// — never an operation that would require re-resolving a relative
// pointer or changing a length or discriminant. The capability is a
// wrapper type rather than a checked barrier; the structural restriction
// is a contract on the closure passed to Update.
type Mut[A any] struct {
	root *A
}

// AccessMut reinterprets buf at pos like Access and wraps the result in
// the mutation capability. The caller must hold buf exclusively for as
// long as the Mut is in use; concurrent readers are excluded (spec §5).
func AccessMut[A any](buf []byte, pos int) Mut[A] {
	return Mut[A]{root: Access[A](buf, pos)}
}

// Get returns the archived root for reading.
func (m Mut[A]) Get() *A { return m.root }

// Update applies f to the archived root in place.
func (m Mut[A]) Update(f func(*A)) { f(m.root) }

// MustAccess validates buf at pos against A's structural invariants and,
// on success, returns a typed reference usable exactly like the result of
// Access (spec §4.9: "Checked access first runs [the validator]").
//
// The access API never returns a reference alongside an error (spec §7):
// on failure the returned pointer is always nil.
func MustAccess[A validate.Validatable](buf []byte, pos int, opts ...Option) (*A, error) {
	cfg := newConfig(opts)

	if !cfg.Validation {
		return Access[A](buf, pos), nil
	}

	vopts := []validate.Option{validate.WithOrder(cfg.Order)}
	if cfg.Unaligned {
		vopts = append(vopts, validate.WithUnaligned())
	}

	v := validate.New(buf, vopts...)
	return validate.Root[A](v, pos)
}
