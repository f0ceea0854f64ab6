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

package container

import (
	"github.com/zeroarc/zeroarc"
	"github.com/zeroarc/zeroarc/internal/xunsafe"
	"github.com/zeroarc/zeroarc/internal/xunsafe/layout"
	"github.com/zeroarc/zeroarc/place"
	"github.com/zeroarc/zeroarc/validate"
)

// SerializeArray and ArchiveArray archive a fixed-length run of N elements
// embedded inline in their parent, with no indirection of their own (spec
// §1 item 5, "Array"): unlike Vec there is no pointer or length field,
// just N contiguous archived elements at a position the parent already
// reserved.
//
// Go has no const-generic array length, so unlike rkyv's Array<T, N> this
// takes an ordinary slice; the caller is responsible for reserving exactly
// len(vals) contiguous elements (e.g. with place.ReserveN) and for keeping
// that length fixed across every archive of a given schema, since nothing
// here enforces it.

// SerializeArray serializes every element of vals, in order, returning
// their resolvers for a matching ArchiveArray call.
func SerializeArray[A, R any, T zeroarc.Value[A, R]](ctx *zeroarc.Context, vals []T) ([]R, error) {
	resolvers := make([]R, len(vals))
	for i, v := range vals {
		r, err := v.Serialize(ctx)
		if err != nil {
			return nil, err
		}
		resolvers[i] = r
	}
	return resolvers, nil
}

// ArchiveArray archives each element of vals into its slot starting at
// base, using the resolvers SerializeArray returned.
func ArchiveArray[A, R any, T zeroarc.Value[A, R]](base place.Place[A], vals []T, resolvers []R) error {
	for i, v := range vals {
		if err := v.Archive(place.Index(base, i), resolvers[i]); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeArray reconstructs the native elements of a fixed-length
// run of n archived values starting at base.
func DeserializeArray[A validate.Validatable, R any, T element[A, R, T]](d *zeroarc.Deserializer, base *A, n int) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := zeroarc.Deserialize[A, T](xunsafe.Add(base, i), d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ValidateArray validates n contiguous elements of archived type A
// starting at byte position pos, the array analog of Vec's length-plus-
// descend validation but without a length field of its own: n is supplied
// by the caller's own schema, not read from the buffer.
func ValidateArray[A validate.Validatable](v *validate.Validator, pos, n int) error {
	if err := v.Length(pos, n, layout.Size[A]()); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := validate.Descend[A](v, pos+i*layout.Size[A]()); err != nil {
			return err
		}
	}
	return nil
}
