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
	"github.com/zeroarc/zeroarc/zerr"
)

// Deserializer carries the state one archived-to-native reconstruction
// threads through its traversal (spec §6, "Deserializer interface"): the
// byte-layout Config the buffer was produced under, the buffer itself
// (for recovering a payload's archived position), and the resurrection
// map that restores sharing.
//
// Like Context it is single-threaded and scoped to one buffer; reusing a
// Deserializer across buffers would alias unrelated payloads that happen
// to share a position.
type Deserializer struct {
	Config

	buf    []byte
	shared map[int]any
}

// NewDeserializer creates a Deserializer for values archived in buf.
func NewDeserializer(buf []byte, opts ...Option) *Deserializer {
	return &Deserializer{
		Config: newConfig(opts),
		buf:    buf,
		shared: make(map[int]any),
	}
}

// Deserializable is the third per-type operation (spec §4.6,
// "deserialize"): reconstruct an owned native T from an archived A,
// recursively deserializing children. Containers and generated glue
// implement it alongside [Value]'s Serialize/Archive.
type Deserializable[A, T any] interface {
	Deserialize(a *A, d *Deserializer) (T, error)
}

// Deserialize reconstructs an owned native T from its archived form.
func Deserialize[A any, T Deserializable[A, T]](a *A, d *Deserializer) (T, error) {
	var z T
	return z.Deserialize(a, d)
}

// PosOf recovers the archived position of a pointer into the
// deserializer's buffer: the key the resurrection map is indexed by.
func PosOf[A any](d *Deserializer, p *A) int {
	if len(d.buf) == 0 {
		return 0
	}
	return xunsafe.ByteSub(p, &d.buf[0])
}

// Shared returns the native handle already resurrected for the payload
// at archived position pos, or calls build to construct and record one.
// Handles resurrected from the same archived position compare equal as
// pointers (spec §8, "Sharing preservation").
func Shared[T any](d *Deserializer, pos int, build func() (*T, error)) (*T, error) {
	if v, ok := d.shared[pos]; ok {
		p, ok := v.(*T)
		if !ok {
			return nil, zerr.At(zerr.SharedTypeMismatch, pos)
		}
		return p, nil
	}
	p, err := build()
	if err != nil {
		return nil, err
	}
	d.shared[pos] = p
	return p, nil
}
