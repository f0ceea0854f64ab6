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

// Package share implements the shared-pointer registry (spec §4.7): a
// table, keyed by the identity of the shared payload rather than of the
// handle pointing at it, that lets a second or third serialize of the
// same payload short-circuit into a relative pointer at the
// already-recorded position instead of re-emitting the payload.
//
// The registry only exists during serialization; nothing about it is
// archived directly; what lands in the buffer is an ordinary relative
// pointer plus an embedded sharetag.Tag the validator uses to confirm two
// pointers claiming the same position agree on payload type.
package share

import (
	"unsafe"

	"github.com/zeroarc/zeroarc/internal/xunsafe"
	"github.com/zeroarc/zeroarc/sharetag"
	"github.com/zeroarc/zeroarc/zerr"
)

// Entry is what the registry remembers about one payload identity.
type Entry struct {
	Pos    int
	Tag    sharetag.Tag
	Strong int
	Weak   int
}

// Registry tracks shared-pointer payload identities for a single
// serialization. It is not safe for concurrent use, matching the
// serializer context it's embedded in (spec §4.5: "single-threaded;
// there is no concurrent serialization of one buffer").
type Registry struct {
	entries map[uintptr]*Entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uintptr]*Entry)}
}

// Identity extracts the payload identity of a boxed value, keyed on the
// address of the payload it points to (spec §4.7: "the address of the
// shared payload, not of the handle").
func Identity(payload any) uintptr {
	// Escaping payload keeps a pointee the caller would otherwise allocate
	// on its stack on the heap instead, so its address cannot change when
	// the goroutine's stack is moved between two sightings.
	xunsafe.Escape(&payload)
	return uintptr(unsafe.Pointer(xunsafe.AnyData(payload)))
}

// Strong registers a strong shared pointer to the payload at identity id.
// If this is the first sighting of id, emit is called to serialize the
// payload and its return value is recorded as the payload's position;
// otherwise emit is skipped and the previously-recorded position is
// returned, provided tag matches what was recorded before.
func (r *Registry) Strong(id uintptr, tag sharetag.Tag, emit func() (int, error)) (int, error) {
	if e, ok := r.entries[id]; ok {
		if e.Tag != tag {
			return 0, zerr.New(zerr.SharedTypeMismatch)
		}
		e.Strong++
		return e.Pos, nil
	}

	pos, err := emit()
	if err != nil {
		return 0, err
	}
	r.entries[id] = &Entry{Pos: pos, Tag: tag, Strong: 1}
	return pos, nil
}

// Weak registers a weak shared pointer, following the same identity rule
// as Strong but recording a weak entry. The archived form of a weak
// pointer is a relative pointer to the same payload layout as a strong
// one; only the registry's bookkeeping distinguishes them (spec §4.7:
// "the validator treats weak and strong targets interchangeably at the
// byte level").
func (r *Registry) Weak(id uintptr, tag sharetag.Tag, emit func() (int, error)) (int, error) {
	if e, ok := r.entries[id]; ok {
		if e.Tag != tag {
			return 0, zerr.New(zerr.SharedTypeMismatch)
		}
		e.Weak++
		return e.Pos, nil
	}

	pos, err := emit()
	if err != nil {
		return 0, err
	}
	r.entries[id] = &Entry{Pos: pos, Tag: tag, Weak: 1}
	return pos, nil
}

// Lookup returns the recorded entry for id, if any.
func (r *Registry) Lookup(id uintptr) (Entry, bool) {
	e, ok := r.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Reset discards every recorded entry, for reuse across serializations.
func (r *Registry) Reset() {
	clear(r.entries)
}
