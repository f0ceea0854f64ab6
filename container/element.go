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
	"github.com/zeroarc/zeroarc/validate"
)

// element is the constraint every container element satisfies: the
// serialize/archive half of the per-type contract plus native
// reconstruction, self-referentially bound so Deserialize yields the
// element's own type.
type element[A validate.Validatable, R, T any] interface {
	zeroarc.Value[A, R]
	zeroarc.Deserializable[A, T]
}
