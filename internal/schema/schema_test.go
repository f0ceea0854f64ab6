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

package schema_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroarc/zeroarc/internal/schema"
)

func mustParse(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return s
}

func TestParseDefaultsPointerWidth(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `
module: example.com/m
package: archived
types: []
`)
	assert.Equal(t, 32, s.PointerWidth)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "minimal struct",
			doc: `
module: example.com/m
package: archived
types:
  - name: Point
    kind: struct
    fields:
      - {name: X, type: f32}
      - {name: Y, type: f32}
`,
		},
		{
			name: "minimal enum",
			doc: `
module: example.com/m
package: archived
types:
  - name: Status
    kind: enum
    variants:
      - name: Ok
      - name: Err
        fields:
          - {name: Code, type: i32}
`,
		},
		{
			name: "missing module",
			doc: `
package: archived
types: []
`,
			wantErr: "module is required",
		},
		{
			name: "bad pointer width",
			doc: `
module: example.com/m
package: archived
pointer_width: 24
types: []
`,
			wantErr: "pointer_width must be 16, 32 or 64",
		},
		{
			name: "duplicate type",
			doc: `
module: example.com/m
package: archived
types:
  - {name: A, kind: struct, fields: [{name: X, type: i32}]}
  - {name: A, kind: struct, fields: [{name: X, type: i32}]}
`,
			wantErr: `duplicate type "A"`,
		},
		{
			name: "unknown field type",
			doc: `
module: example.com/m
package: archived
types:
  - {name: A, kind: struct, fields: [{name: X, type: Nope}]}
`,
			wantErr: `unknown type "Nope"`,
		},
		{
			name: "box and vec together",
			doc: `
module: example.com/m
package: archived
types:
  - name: B
    kind: struct
    fields:
      - {name: X, type: i32}
  - name: A
    kind: struct
    fields:
      - {name: X, type: B, box: true, vec: true}
`,
			wantErr: "at most one of box/vec/shared",
		},
		{
			name: "self-embed by value",
			doc: `
module: example.com/m
package: archived
types:
  - name: A
    kind: struct
    fields:
      - {name: Next, type: A}
`,
			wantErr: "may not embed its own type by value",
		},
		{
			name: "optional without indirection",
			doc: `
module: example.com/m
package: archived
types:
  - name: A
    kind: struct
    fields:
      - {name: X, type: i32, optional: true}
`,
			wantErr: "optional requires box or shared",
		},
		{
			name: "boxed string",
			doc: `
module: example.com/m
package: archived
types:
  - name: A
    kind: struct
    fields:
      - {name: X, type: string, box: true}
`,
			wantErr: "may not be combined with box/vec/shared",
		},
		{
			name: "enum variant with box field",
			doc: `
module: example.com/m
package: archived
types:
  - name: Inner
    kind: struct
    fields:
      - {name: X, type: i32}
  - name: Sum
    kind: enum
    variants:
      - name: V
        fields:
          - {name: F, type: Inner, box: true}
`,
			wantErr: "variant payload fields may not be indirected",
		},
		{
			name: "enum variant with non-primitive field",
			doc: `
module: example.com/m
package: archived
types:
  - name: Inner
    kind: struct
    fields:
      - {name: X, type: i32}
  - name: Sum
    kind: enum
    variants:
      - name: V
        fields:
          - {name: F, type: Inner}
`,
			wantErr: "variant payload fields must be a primitive type",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := mustParse(t, tt.doc)
			err := s.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOrderTopologicallySortsDependencies(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `
module: example.com/m
package: archived
types:
  - name: Leaf
    kind: struct
    fields:
      - {name: V, type: i32}
  - name: Mid
    kind: struct
    fields:
      - {name: L, type: Leaf}
  - name: Root
    kind: struct
    fields:
      - {name: M, type: Mid}
      - {name: Boxed, type: Leaf, box: true}
`)
	require.NoError(t, s.Validate())

	order, err := s.Order()
	require.NoError(t, err)
	require.Equal(t, []string{"Leaf", "Mid", "Root"}, order)
}

func TestOrderRejectsUnmarkedCycle(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `
module: example.com/m
package: archived
types:
  - name: A
    kind: struct
    fields:
      - {name: B, type: B, box: true}
  - name: B
    kind: struct
    fields:
      - {name: A, type: A, box: true}
`)
	require.NoError(t, s.Validate())

	_, err := s.Order()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency cycle")
}

func TestOrderAllowsMarkedCycle(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `
module: example.com/m
package: archived
types:
  - name: A
    kind: struct
    fields:
      - {name: B, type: B, box: true}
  - name: B
    kind: struct
    fields:
      - {name: A, type: A, box: true, omit_recursive_bound: true}
`)
	require.NoError(t, s.Validate())

	order, err := s.Order()
	require.NoError(t, err)
	assert.Len(t, order, 2)
}

func TestOrderRejectsDirectSelfLoop(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `
module: example.com/m
package: archived
types:
  - name: A
    kind: struct
    fields:
      - {name: Next, type: A, box: true}
`)
	require.NoError(t, s.Validate())

	_, err := s.Order()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directly self-referential")
}

func TestGenerateStruct(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `
module: example.com/m
package: archived
types:
  - name: Point
    kind: struct
    fields:
      - {name: X, type: f32}
      - {name: Y, type: f32}
      - {name: Label, type: string}
`)
	require.NoError(t, s.Validate())
	order, err := s.Order()
	require.NoError(t, err)

	files, err := schema.Generate(s, order)
	require.NoError(t, err)

	src, ok := files["point_archive.go"]
	require.True(t, ok)
	out := string(src)

	assert.Contains(t, out, "package archived")
	assert.Contains(t, out, "type Point struct")
	assert.Contains(t, out, "type ArchivedPoint struct")
	assert.Contains(t, out, "x prim.ArchivedF32",
		"archived primitive fields carry natural alignment via the prim wrappers")
	assert.Contains(t, out, "func (v Point) Serialize(ctx *zeroarc.Context)")
	assert.Contains(t, out, "func (v Point) Archive(p place.Place[ArchivedPoint]")
	assert.Contains(t, out, "func (a ArchivedPoint) ValidateBytes(v *validate.Validator, pos int) error")
	assert.Contains(t, out, "func (Point) Deserialize(a *ArchivedPoint, d *zeroarc.Deserializer) (Point, error)")
	assert.Contains(t, out, "zeroarc/relptr", "the string field needs relptr for its own pointer+length")

	runtime, ok := files["zz_runtime_archive.go"]
	require.True(t, ok)
	assert.Contains(t, string(runtime), "func sizeOf[T any]() int")
}

func TestGenerateEnum(t *testing.T) {
	t.Parallel()

	s := mustParse(t, `
module: example.com/m
package: archived
types:
  - name: Status
    kind: enum
    variants:
      - name: Ok
      - name: Err
        fields:
          - {name: Code, type: i32}
`)
	require.NoError(t, s.Validate())
	order, err := s.Order()
	require.NoError(t, err)

	files, err := schema.Generate(s, order)
	require.NoError(t, err)

	out := string(files["status_archive.go"])
	assert.Contains(t, out, "type StatusKind uint8")
	assert.Contains(t, out, "StatusOk StatusKind = iota")
	assert.Contains(t, out, "StatusErr")
	// One byte of tag, three of padding, four of i32 payload: eight bytes
	// total, the layout spec §8 scenario 3 works through.
	assert.Contains(t, out, "[0]uint32")
	assert.Contains(t, out, "[3]byte")
	assert.Contains(t, out, "payload [4]byte")
	assert.Contains(t, out, "func (a *ArchivedStatus) IsErr() bool { return a.tag == 1 }")
	assert.Contains(t, out, "func (a *ArchivedStatus) AsErr() (*archivedStatusErr, bool)")
	assert.Contains(t, out, "func (d *archivedStatusErr) Code(order prim.Order) int32")
	assert.Contains(t, out, "func (Status) Deserialize(a *ArchivedStatus, d *zeroarc.Deserializer) (Status, error)")
	assert.Contains(t, out, `"unsafe"`)
}

func TestGenerateRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	s := &schema.Schema{
		Module:       "example.com/m",
		Package:      "archived",
		PointerWidth: 32,
		Types: []schema.TypeDef{
			{Name: "Weird", Kind: "tuple"},
		},
	}

	_, err := schema.Generate(s, []string{"Weird"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown kind "tuple"`)
}
