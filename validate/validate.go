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

// Package validate implements the recursive validator (spec §4.8): the
// one and only place untrusted bytes are walked before a typed reference
// into them is handed to a caller. A successful validation establishes
// every invariant the zero-copy access path relies on: every relative
// pointer lands in-bounds and aligned, every discriminant is one of the
// declared variants, every length fits, every shared-pointer subtree is
// either disjoint from or identical to one already seen, and no cycle
// runs through an owning (non-shared) edge.
package validate

import (
	"unicode/utf8"

	"github.com/zeroarc/zeroarc/internal/xunsafe"
	"github.com/zeroarc/zeroarc/internal/xunsafe/layout"
	"github.com/zeroarc/zeroarc/prim"
	"github.com/zeroarc/zeroarc/zerr"
)

// Validatable is implemented by every archived type that can validate its
// own bytes. Implementations call back into the Validator's Descend,
// Bool, Char, Discriminant and UTF8 helpers rather than inspecting bytes
// directly, so that the bookkeeping in this package stays centralized.
type Validatable interface {
	ValidateBytes(v *Validator, pos int) error
}

// region is a fully-validated archived subtree's byte span.
type region struct{ start, end int }

// Validator carries all of the state a validation pass accumulates:
// the buffer being validated, the configured byte order and maximum
// recursion depth, the set of positions currently on the DFS stack (for
// cycle detection), and the registry of fully-validated subtree spans
// (for the overlap policy).
type Validator struct {
	buf       []byte
	order     prim.Order
	maxDepth  int
	unaligned bool

	depth   int
	onStack map[int]struct{}
	regions []region
}

// Order returns the byte order this Validator was configured with.
func (v *Validator) Order() prim.Order { return v.order }

// Option configures a Validator.
type Option func(*Validator)

// WithMaxDepth sets the maximum recursion depth; exceeding it fails with
// DepthExceeded (spec §4.8 step 5). The default is 128.
func WithMaxDepth(n int) Option {
	return func(v *Validator) { v.maxDepth = n }
}

// WithUnaligned disables alignment checking, for buffers whose values do
// not sit at their natural alignment (spec §6, Open Questions: "alignment
// requirements collapse to 1 in unaligned mode").
func WithUnaligned() Option {
	return func(v *Validator) { v.unaligned = true }
}

// WithOrder sets the byte order primitive fields (including relative
// pointer deltas) are decoded with. The default is little-endian.
func WithOrder(order prim.Order) Option {
	return func(v *Validator) { v.order = order }
}

// New creates a Validator over buf.
func New(buf []byte, opts ...Option) *Validator {
	v := &Validator{
		buf:      buf,
		order:    prim.LittleEndian,
		maxDepth: 128,
		onStack:  make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Root validates a root value of archived type A at byte position pos,
// returning a typed pointer into buf on success (spec §4.8 step 1, the
// root check, plus the structural walk of the whole tree hanging off it).
func Root[A Validatable](v *Validator, pos int) (*A, error) {
	size := layout.Size[A]()
	align := layout.Align[A]()

	skip, done, err := v.descend(pos, size, align)
	if err != nil {
		return nil, err
	}

	p := cast[A](v.buf, pos, size)
	if !skip {
		if verr := (*p).ValidateBytes(v, pos); verr != nil {
			done(verr)
			return nil, verr
		}
	}
	if derr := done(nil); derr != nil {
		return nil, derr
	}
	return p, nil
}

// Descend validates a pointee of archived type A reachable via a relative
// pointer at byte position pos. It is the workhorse every generated or
// hand-written ValidateBytes implementation calls for each child it
// reaches through a RelPtr.
func Descend[A Validatable](v *Validator, pos int) error {
	size := layout.Size[A]()
	align := layout.Align[A]()

	skip, done, err := v.descend(pos, size, align)
	if err != nil {
		return err
	}
	if skip {
		return done(nil)
	}

	p := cast[A](v.buf, pos, size)
	verr := (*p).ValidateBytes(v, pos)
	return done(verr)
}

// cast reinterprets buf[pos:pos+size] as an A whose bounds descend has
// already admitted. A zero-sized value at the very end of the buffer has
// no byte of its own to point at; any non-nil pointer serves.
func cast[A any](buf []byte, pos, size int) *A {
	if size == 0 && pos == len(buf) {
		return new(A)
	}
	return xunsafe.Cast[A](&buf[pos])
}

// descend performs the bounds, alignment, overlap, cycle and depth checks
// for a subtree of size bytes (aligned to align) at byte position pos,
// per spec §4.8 steps 1 and 3-5.
//
// If skip is true, the subtree has already been fully validated at this
// exact position (shared-pointer aliasing) and the caller must not
// re-validate it; done must still be called (with a nil error) to balance
// bookkeeping. Otherwise the caller must validate the subtree's own
// bytes and any further descents, then call done with the resulting
// error (nil on success).
func (v *Validator) descend(pos, size, align int) (skip bool, done func(err error) error, err error) {
	if v.unaligned {
		align = 1
	}

	if pos < 0 || size < 0 || pos+size > len(v.buf) {
		return false, nil, zerr.At(zerr.OutOfBounds, pos)
	}
	if align > 1 && pos%align != 0 {
		return false, nil, zerr.At(zerr.Unaligned, pos)
	}

	end := pos + size
	for _, r := range v.regions {
		if r.start == pos && r.end == end {
			// Identical subtree already validated: shared-pointer
			// aliasing, not a conflict (spec §4.8 step 3(b)).
			return true, func(error) error { return nil }, nil
		}
		if pos < r.end && r.start < end {
			return false, nil, zerr.At(zerr.OverlapError, pos)
		}
	}

	if _, onStack := v.onStack[pos]; onStack {
		return false, nil, zerr.At(zerr.CycleDetected, pos)
	}
	if v.depth >= v.maxDepth {
		return false, nil, zerr.At(zerr.DepthExceeded, pos)
	}

	v.onStack[pos] = struct{}{}
	v.depth++

	return false, func(cause error) error {
		v.depth--
		delete(v.onStack, pos)
		if cause != nil {
			return cause
		}
		v.regions = append(v.regions, region{start: pos, end: end})
		return nil
	}, nil
}

// Bool validates a single byte as a bool at byte position pos, failing
// with InvalidBool if it's anything other than 0x00 or 0x01.
func (v *Validator) Bool(pos int) error {
	if v.buf[pos] != 0 && v.buf[pos] != 1 {
		return zerr.AtExpected(zerr.InvalidBool, pos, "0x00 or 0x01", byteHex(v.buf[pos]))
	}
	return nil
}

// RelTarget decodes the relative pointer of the given byte width stored
// at byte position fieldPos and returns the absolute position it targets
// along with whether it's the null encoding. ValidateBytes
// implementations use this to resolve a pointer field into a position to
// Descend into, without holding a live memory pointer: nothing is
// trusted to be a valid address until validation of the whole tree
// succeeds.
func (v *Validator) RelTarget(fieldPos, width int) (target int, isNull bool) {
	switch width {
	case 2:
		d := prim.LoadI[int16](&v.buf[fieldPos], v.order)
		return fieldPos + int(d), d == 0
	case 4:
		d := prim.LoadI[int32](&v.buf[fieldPos], v.order)
		return fieldPos + int(d), d == 0
	case 8:
		d := prim.LoadI[int64](&v.buf[fieldPos], v.order)
		return fieldPos + int(d), d == 0
	default:
		panic("zeroarc: unsupported pointer width")
	}
}

// Char validates a four-byte little/big-endian-decoded value as a
// Unicode scalar value at byte position pos.
func (v *Validator) Char(pos int, value uint32) error {
	if value > utf8.MaxRune || (value >= 0xD800 && value <= 0xDFFF) {
		return zerr.At(zerr.InvalidChar, pos)
	}
	return nil
}

// Discriminant validates that value is one of the declared discriminants
// for a sum type at byte position pos.
func (v *Validator) Discriminant(pos int, value uint32, declared ...uint32) error {
	for _, d := range declared {
		if d == value {
			return nil
		}
	}
	return zerr.At(zerr.InvalidDiscriminant, pos)
}

// UTF8 validates that the length bytes at byte position pos form
// well-formed UTF-8 (spec §4.8 step 2, "For UTF-8 strings, run a UTF-8
// well-formedness check over the payload bytes").
//
// A length that would run past the end of the buffer is reported as
// OutOfBounds rather than InvalidUtf8, even if the partial bytes present
// happen to look like a truncated code point (spec §8, Open Questions:
// "Implementations should prefer OutOfBounds (layout first)").
func (v *Validator) UTF8(pos, length int) error {
	if pos < 0 || length < 0 || pos+length > len(v.buf) {
		return zerr.At(zerr.OutOfBounds, pos)
	}
	if !utf8.Valid(v.buf[pos : pos+length]) {
		return zerr.At(zerr.InvalidUTF8, pos)
	}
	return nil
}

// Length validates that a variable-length container of n elements of the
// given element size fits within the buffer starting at byte position
// pos (spec §4.8 step 2, "check length * size(A(elem)) <= len(B) - q").
func (v *Validator) Length(pos, n, elemSize int) error {
	if n < 0 || elemSize < 0 {
		return zerr.At(zerr.OutOfBounds, pos)
	}
	if pos+n*elemSize > len(v.buf) || pos+n*elemSize < pos {
		return zerr.At(zerr.OutOfBounds, pos)
	}
	return nil
}

func byteHex(b byte) string {
	const hex = "0123456789abcdef"
	return string([]byte{'0', 'x', hex[b>>4], hex[b&0xF]})
}
