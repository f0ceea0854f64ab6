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

// Package zerr is the structured error taxonomy shared by the serializer,
// the validator and the access path (spec §7). Errors are classified by
// Kind, not by Go type: every fallible operation in this module returns an
// *Error wrapping one of the Kind constants, carrying whatever position and
// expected/actual context is available at the point of failure.
package zerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error without tying callers to a concrete Go type,
// mirroring the errCode/errParse split in the teacher's wire-format parser.
type Kind int

const (
	// Capacity errors: the buffer or pointer width ran out of room.
	OutOfSpace Kind = iota
	OffsetOverflow
	DepthExceeded

	// Encoding errors: a byte pattern doesn't decode to a valid value.
	InvalidBool
	InvalidChar
	InvalidDiscriminant
	InvalidUTF8

	// Layout errors: a reference doesn't point where it's supposed to.
	Unaligned
	OutOfBounds

	// Graph errors: the shape of the value graph is unsound.
	CycleDetected
	OverlapError
	SharedTypeMismatch

	// Resource errors: scratch space was used incorrectly.
	ScratchUnsupported
	ScratchLeak

	// User wraps an error surfaced by a caller-supplied Serialize or
	// Deserialize implementation; it carries no position of its own beyond
	// what the wrapped error provides.
	User
)

var kindNames = [...]string{
	OutOfSpace:          "out of space",
	OffsetOverflow:      "offset overflow",
	DepthExceeded:       "recursion depth exceeded",
	InvalidBool:         "invalid bool",
	InvalidChar:         "invalid char",
	InvalidDiscriminant: "invalid discriminant",
	InvalidUTF8:         "invalid utf-8",
	Unaligned:           "unaligned reference",
	OutOfBounds:         "reference out of bounds",
	CycleDetected:       "cycle detected",
	OverlapError:        "overlapping subtrees",
	SharedTypeMismatch:  "shared pointer type mismatch",
	ScratchUnsupported:  "scratch space unsupported",
	ScratchLeak:         "scratch released out of order",
	User:                "user error",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown error kind"
	}
	return kindNames[k]
}

// Error is the concrete error type returned throughout this module. It is
// never constructed directly outside this package; use the New/At/Wrap
// helpers below so every site attaches a Kind.
type Error struct {
	kind Kind
	// pos is the byte offset the error occurred at, or -1 if not
	// applicable (e.g. a programmer-error ScratchLeak).
	pos int
	// expected and actual hold free-form diagnostic context, printed by
	// Error when non-empty.
	expected, actual string
	cause            error
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Offset returns the byte offset at which the error occurred, or -1 if the
// error is not associated with a position.
func (e *Error) Offset() int { return e.pos }

// Unwrap implements error unwrapping via [errors.Unwrap].
func (e *Error) Unwrap() error { return e.cause }

// Error implements [error].
func (e *Error) Error() string {
	msg := fmt.Sprintf("zeroarc: %s", e.kind)
	if e.pos >= 0 {
		msg = fmt.Sprintf("%s at offset %d/%#x", msg, e.pos, e.pos)
	}
	if e.expected != "" || e.actual != "" {
		msg = fmt.Sprintf("%s (expected %s, got %s)", msg, e.expected, e.actual)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// New creates an Error of the given kind with no positional context.
func New(kind Kind) *Error {
	return &Error{kind: kind, pos: -1}
}

// At creates an Error of the given kind at byte offset pos.
func At(kind Kind, pos int) *Error {
	return &Error{kind: kind, pos: pos}
}

// AtExpected creates a positional Error additionally describing what was
// expected versus what was actually found, for diagnostics that don't
// require re-running the failing operation (spec §7, "User-visible
// behavior").
func AtExpected(kind Kind, pos int, expected, actual string) *Error {
	return &Error{kind: kind, pos: pos, expected: expected, actual: actual}
}

// Wrap wraps an arbitrary error from user-supplied serialize/deserialize
// code as a User-kind Error, attaching a stack trace via
// github.com/pkg/errors so the original failure site survives the
// short-circuit up through the serializer context.
func Wrap(cause error, pos int) *Error {
	if cause == nil {
		return nil
	}
	return &Error{kind: User, pos: pos, cause: errors.WithStack(cause)}
}

// Is reports whether err is a *Error of the given kind, following Unwrap
// chains the way errors.Is does.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ze, ok := err.(*Error); ok {
			e = ze
			break
		}
		err = errors.Unwrap(err)
	}
	return e != nil && e.kind == kind
}
