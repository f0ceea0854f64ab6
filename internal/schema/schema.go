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

// Package schema is the minimal type-description DSL the derive-glue tool
// (cmd/archivegen) compiles into Go source (spec §9, "Derive macros": "a
// build-time code-generator tool operating on a minimal type-description
// DSL: list of fields, their source types, optional per-field
// transformers, optional niche declarations").
//
// A schema is a YAML document naming a Go module and package plus a list
// of product (struct) and sum (enum) type definitions. This package only
// parses and validates that document; internal/schema/codegen.go turns a
// validated Schema into Go source text.
package schema

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Schema is a parsed, not-yet-validated type-description document.
type Schema struct {
	Module       string    `yaml:"module"`
	Package      string    `yaml:"package"`
	PointerWidth int       `yaml:"pointer_width"`
	Types        []TypeDef `yaml:"types"`
}

// TypeDef describes one archived type: either a product type (Kind
// "struct", a field list) or a sum type (Kind "enum", a variant list).
type TypeDef struct {
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"`
	Fields   []FieldDef   `yaml:"fields,omitempty"`
	Variants []VariantDef `yaml:"variants,omitempty"`
}

// FieldDef describes one field of a product type, or of a sum type's
// variant payload.
//
// Type names a primitive ("i8".."i64", "u8".."u64", "f32", "f64", "bool",
// "char", "string") or another type declared in the same Schema, embedded
// by value.
//
// At most one of Box, Vec, Shared may be set; they select the field's
// indirection (spec §4.6, "Indirected layouts"):
//
//   - Box: Type is archived out-of-line behind an owning relative
//     pointer. The native field is *Type.
//   - Vec: Type is archived as a variable-length contiguous run behind a
//     relative pointer plus a length. The native field is []Type.
//   - Shared: Type is archived behind a shared pointer registered with
//     the serializer's Registry ("rc" is the only recognized value,
//     spec §1 item 5 "Rc"). The native field is *Type.
//
// Optional takes full effect only for Box fields (the archived pointer's
// own null encoding niches the absent case, spec §4.10); a nil Go pointer
// is an error for a non-Optional Box field, not a None. A Shared field is
// never encoded as None: generated Serialize reports a nil pointer as an
// error and generated validation rejects a null shared pointer, whether
// or not Optional is set.
//
// OmitRecursiveBound marks a field whose Type is (mutually) recursive
// with the type containing it, matching spec §9 "recursive types with
// self-referential bounds": "the generated glue must elide the recursive
// bound on the inner pointee." Without this marker, [Schema.Order] treats
// a field reference back into its own dependency cycle as an error,
// since a Go struct literal can't describe "generate fields in some
// order that works" when two types depend on each other directly; Box
// breaks the *size* cycle (the field is a pointer, not an embedded
// value) but codegen still needs telling not to wait for the pointee's
// own glue to exist first.
type FieldDef struct {
	Name               string `yaml:"name"`
	Type               string `yaml:"type"`
	Box                bool   `yaml:"box,omitempty"`
	Vec                bool   `yaml:"vec,omitempty"`
	Shared             string `yaml:"shared,omitempty"`
	Optional           bool   `yaml:"optional,omitempty"`
	OmitRecursiveBound bool   `yaml:"omit_recursive_bound,omitempty"`
}

// VariantDef describes one variant of a sum type. A variant's discriminant
// is its index among its TypeDef's Variants, in declaration order (spec
// §4.6, "Sum (enum)": "Discriminants are assigned in source declaration
// order, starting at zero").
type VariantDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields,omitempty"`
}

// primInfo describes one recognized primitive type name.
type primInfo struct {
	size, align int
	goType      string
}

// primitives is the fixed set of primitive type names a FieldDef.Type may
// name without referring to another declared TypeDef (spec §4.1).
var primitives = map[string]primInfo{
	"i8":   {1, 1, "int8"},
	"i16":  {2, 2, "int16"},
	"i32":  {4, 4, "int32"},
	"i64":  {8, 8, "int64"},
	"u8":   {1, 1, "uint8"},
	"u16":  {2, 2, "uint16"},
	"u32":  {4, 4, "uint32"},
	"u64":  {8, 8, "uint64"},
	"f32":  {4, 4, "float32"},
	"f64":  {8, 8, "float64"},
	"bool": {1, 1, "bool"},
	"char": {4, 4, "rune"},
}

// Parse decodes a type-description document from r.
func Parse(r io.Reader) (*Schema, error) {
	var s Schema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("schema: parsing document: %w", err)
	}
	if s.PointerWidth == 0 {
		s.PointerWidth = 32
	}
	return &s, nil
}

// byName indexes s.Types by name; callers must call Validate first to be
// sure there are no duplicate or missing names.
func (s *Schema) byName() map[string]*TypeDef {
	m := make(map[string]*TypeDef, len(s.Types))
	for i := range s.Types {
		m[s.Types[i].Name] = &s.Types[i]
	}
	return m
}

// Validate checks a Schema for internal consistency: a supported pointer
// width, unique non-empty type and field names, field types that resolve
// to either a primitive or another declared type, and indirection flags
// used consistently with spec §4.6's layout rules. It does not check for
// unmarked recursive cycles; see [Schema.Order] for that.
func (s *Schema) Validate() error {
	if s.Module == "" {
		return fmt.Errorf("schema: module is required")
	}
	if s.Package == "" {
		return fmt.Errorf("schema: package is required")
	}
	switch s.PointerWidth {
	case 16, 32, 64:
	default:
		return fmt.Errorf("schema: pointer_width must be 16, 32 or 64, got %d", s.PointerWidth)
	}

	seen := make(map[string]bool, len(s.Types))
	for _, t := range s.Types {
		if t.Name == "" {
			return fmt.Errorf("schema: type with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("schema: duplicate type %q", t.Name)
		}
		seen[t.Name] = true
	}

	byName := s.byName()
	for _, t := range s.Types {
		switch t.Kind {
		case "struct":
			if len(t.Variants) != 0 {
				return fmt.Errorf("schema: %s: struct type may not declare variants", t.Name)
			}
			if err := validateFields(t.Name, t.Fields, byName); err != nil {
				return err
			}
		case "enum":
			if len(t.Fields) != 0 {
				return fmt.Errorf("schema: %s: enum type may not declare top-level fields", t.Name)
			}
			if len(t.Variants) == 0 {
				return fmt.Errorf("schema: %s: enum type must declare at least one variant", t.Name)
			}
			if len(t.Variants) > 256 {
				return fmt.Errorf("schema: %s: %d variants exceeds the 256-variant single-byte discriminant limit (spec §4.6)", t.Name, len(t.Variants))
			}
			seenVariant := make(map[string]bool, len(t.Variants))
			for _, v := range t.Variants {
				if v.Name == "" {
					return fmt.Errorf("schema: %s: variant with empty name", t.Name)
				}
				if seenVariant[v.Name] {
					return fmt.Errorf("schema: %s: duplicate variant %q", t.Name, v.Name)
				}
				seenVariant[v.Name] = true
				if err := validateFields(t.Name+"."+v.Name, v.Fields, byName); err != nil {
					return err
				}
				for _, f := range v.Fields {
					if f.Box || f.Vec || f.Shared != "" {
						return fmt.Errorf("schema: %s.%s.%s: variant payload fields may not be indirected (box/vec/shared); the generator only supports inline variant payloads", t.Name, v.Name, f.Name)
					}
					if _, ok := primitives[f.Type]; !ok {
						return fmt.Errorf("schema: %s.%s.%s: variant payload fields must be a primitive type; the generator lays out a union's variants as flat, equally-sized byte spans with no nested resolver", t.Name, v.Name, f.Name)
					}
				}
			}
		default:
			return fmt.Errorf("schema: %s: kind must be \"struct\" or \"enum\", got %q", t.Name, t.Kind)
		}
	}
	return nil
}

func validateFields(owner string, fields []FieldDef, byName map[string]*TypeDef) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("schema: %s: field with empty name", owner)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema: %s: duplicate field %q", owner, f.Name)
		}
		seen[f.Name] = true

		mods := 0
		if f.Box {
			mods++
		}
		if f.Vec {
			mods++
		}
		if f.Shared != "" {
			mods++
		}
		if mods > 1 {
			return fmt.Errorf("schema: %s.%s: at most one of box/vec/shared may be set", owner, f.Name)
		}
		if f.Shared != "" && f.Shared != "rc" {
			return fmt.Errorf("schema: %s.%s: shared must be \"rc\", got %q", owner, f.Name, f.Shared)
		}
		if f.Optional && mods == 0 {
			return fmt.Errorf("schema: %s.%s: optional requires box or shared (spec §4.10 niches an indirected field's own null encoding)", owner, f.Name)
		}
		if f.Vec && f.Optional {
			return fmt.Errorf("schema: %s.%s: vec fields are never optional; use a zero-length vec for \"absent\"", owner, f.Name)
		}

		if f.Type == "string" {
			if mods != 0 {
				return fmt.Errorf("schema: %s.%s: string fields carry their own pointer and length and may not be combined with box/vec/shared", owner, f.Name)
			}
			continue
		}
		if _, ok := primitives[f.Type]; ok {
			if f.Box || f.Shared != "" {
				return fmt.Errorf("schema: %s.%s: box/shared require a declared type; a primitive is embedded by value", owner, f.Name)
			}
			continue
		}
		if _, ok := byName[f.Type]; !ok {
			return fmt.Errorf("schema: %s.%s: unknown type %q", owner, f.Name, f.Type)
		}
		if f.Type == owner && mods == 0 {
			return fmt.Errorf("schema: %s.%s: a field may not embed its own type by value; use box", owner, f.Name)
		}
	}
	return nil
}
