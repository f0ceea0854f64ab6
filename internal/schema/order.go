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

package schema

import (
	"fmt"
	"iter"

	"github.com/zeroarc/zeroarc/internal/scc"
)

// root is a synthetic node depending on every declared type, so a single
// call to scc.Sort can order an entire Schema instead of one call per
// disconnected type.
const root = ""

// dependencies yields the names of the other declared types t's fields
// require to already have generated glue, per the field's indirection
// (spec §4.6, "Resolve/serialize ordering": children are serialized
// before their parent, and generated glue reflects the same order).
// Box/Vec/Shared fields still name a dependency — their glue calls the
// pointee type's Serialize/Archive — except when OmitRecursiveBound says
// the edge is the "back" edge of a cycle the generator must not wait on.
func (t *TypeDef) dependencies() iter.Seq[string] {
	return func(yield func(string) bool) {
		fields := t.Fields
		for _, v := range t.Variants {
			fields = append(fields, v.Fields...)
		}
		for _, f := range fields {
			if f.OmitRecursiveBound {
				continue
			}
			if f.Type == "string" {
				continue
			}
			if _, ok := primitives[f.Type]; ok {
				continue
			}
			if !yield(f.Type) {
				return
			}
		}
	}
}

// Order topologically sorts s.Types so that every type's dependencies
// (per TypeDef.dependencies) precede it, using Tarjan's algorithm
// (internal/scc) to also catch unmarked cycles: a strongly-connected
// component of more than one declared type means two or more types
// depend on each other without an OmitRecursiveBound marker breaking the
// cycle, which the generator rejects rather than guess at (spec §9:
// "Recursive types with self-referential bounds... the framework
// provides a declarative omit bounds marker at the field level" — the
// marker is how the author says "yes, this is intentional").
func (s *Schema) Order() ([]string, error) {
	byName := s.byName()
	graph := func(name string) iter.Seq[string] {
		if name == root {
			return func(yield func(string) bool) {
				for _, t := range s.Types {
					if !yield(t.Name) {
						return
					}
				}
			}
		}
		t := byName[name]
		if t == nil {
			return func(func(string) bool) {}
		}
		return t.dependencies()
	}

	dag := scc.Sort(root, graph)
	var order []string
	for c := range dag.Topological() {
		members := c.Members()
		if len(members) > 1 {
			return nil, fmt.Errorf(
				"schema: types %v form a dependency cycle with no omit_recursive_bound marker on the back edge",
				members)
		}
		name := members[0]
		if name == root {
			continue
		}
		for dep := range byName[name].dependencies() {
			if dep == name {
				return nil, fmt.Errorf(
					"schema: %s: directly self-referential field with no omit_recursive_bound marker", name)
			}
		}
		order = append(order, name)
	}
	return order, nil
}
