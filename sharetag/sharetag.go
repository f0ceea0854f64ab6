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

// Package sharetag computes the erased-type tag stamped into every
// archived shared-pointer header (spec §4.7). The tag lets the registry
// and, later, the validator tell two shared pointers to the same archived
// position apart when they claim different payload types, without
// carrying Go's reflect.Type (which has no stable, archivable
// representation) into the buffer itself.
package sharetag

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/zeroarc/zeroarc/internal/xsync"
)

// namespace is a fixed UUID used to derive deterministic, buffer-portable
// type tags via UUIDv5 (RFC 4122 name-based generation): the same Go type
// always hashes to the same tag, on any machine, in any process, which is
// the property a cross-process archive format needs from a type tag.
var namespace = uuid.MustParse("8f14e45f-ceea-4d1d-9b1c-2e1f0b5c9a7c")

// Tag is the 16-byte erased-type tag embedded in an archived shared
// pointer header.
type Tag [16]byte

var cache xsync.Map[reflect.Type, Tag]

// Of computes the tag for archived type A. Tags are cached per
// reflect.Type since UUIDv5 generation hashes the type's name on every
// call.
func Of[A any]() Tag {
	var zero A
	t := reflect.TypeOf(zero)
	return OfType(t)
}

// OfType computes the tag for a reflect.Type directly, for callers that
// only have a runtime type available (e.g. validator descriptors).
func OfType(t reflect.Type) Tag {
	if tag, ok := cache.Load(t); ok {
		return tag
	}

	name := "<nil>"
	if t != nil {
		name = t.PkgPath() + "." + t.Name()
		if t.Name() == "" {
			// Anonymous or generic-instantiated types stringify with
			// their full type arguments, which is exactly the
			// granularity a shared-pointer tag needs.
			name = t.String()
		}
	}

	tag := Tag(uuid.NewSHA1(namespace, []byte(name)))
	cache.Store(t, tag)
	return tag
}

// Equal reports whether two tags match.
func (t Tag) Equal(other Tag) bool { return t == other }
