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

import "github.com/zeroarc/zeroarc/prim"

// Config is the byte-layout discipline a buffer was (or will be) produced
// under (spec §6: "Byte layout discipline is fully determined by..."). Two
// buffers produced under different Configs are not interchangeable.
type Config struct {
	Order        prim.Order
	PointerWidth int
	Unaligned    bool
	Validation   bool
}

// Only Order, Unaligned and Validation are consulted by this package
// itself (NewContext, MustAccess). PointerWidth is carried on Context for
// a Value implementation to read and act on; the hand-written container
// package is fixed at a 32-bit relptr.Rel32 by design (container/doc.go)
// and does not consult it. cmd/archivegen-generated code selects its
// width from a schema's own pointer_width field instead of this Config,
// since generated code targets a separately compiled module and can't
// import this package's internal width-dispatch machinery even if it
// existed.

// defaultConfig matches the spec's stated default: little-endian, no
// alignment removal, 32-bit pointers, validation descriptors included.
func defaultConfig() Config {
	return Config{
		Order:        prim.LittleEndian,
		PointerWidth: 32,
		Validation:   true,
	}
}

// Option is a configuration setting recognized by [NewContext] and
// [MustAccess].
//
// This mirrors the teacher's own CompileOption/UnmarshalOption: a struct
// wrapping an apply closure rather than an interface, so that With*
// constructors stay on the hot configuration path without forcing an
// allocation through an interface value.
type Option struct{ apply func(*Config) }

// WithLittleEndian stores all primitives in little-endian order. This is
// the default.
func WithLittleEndian() Option {
	return Option{func(c *Config) { c.Order = prim.LittleEndian }}
}

// WithBigEndian stores all primitives in big-endian order, mutually
// exclusive with WithLittleEndian.
func WithBigEndian() Option {
	return Option{func(c *Config) { c.Order = prim.BigEndian }}
}

// WithUnaligned turns off the validator's alignment check in MustAccess
// (spec §8, Open Questions). Serialization does not consult it: Reserve
// still pads every value to its natural alignment, and composite layouts
// keep Go's own field padding.
func WithUnaligned() Option {
	return Option{func(c *Config) { c.Unaligned = true }}
}

// WithPointerWidth16 records a 16-bit offset/length width on the
// resulting Config/Context. It has no effect on the built-in container
// package, which is fixed at 32 bits; it exists for Value
// implementations (hand-written or generated) that choose their own
// relptr width by reading ctx.PointerWidth.
func WithPointerWidth16() Option {
	return Option{func(c *Config) { c.PointerWidth = 16 }}
}

// WithPointerWidth32 is WithPointerWidth16 at 32 bits. This is the
// default, and the only width the built-in container package supports.
func WithPointerWidth32() Option {
	return Option{func(c *Config) { c.PointerWidth = 32 }}
}

// WithPointerWidth64 is WithPointerWidth16 at 64 bits.
func WithPointerWidth64() Option {
	return Option{func(c *Config) { c.PointerWidth = 64 }}
}

// WithValidation sets whether MustAccess runs the validator before
// returning a reference. When disabled, MustAccess degrades to Access
// (no bounds, alignment, discriminant or pointer-target check) and is
// only safe when the buffer's provenance is otherwise trusted.
func WithValidation(enabled bool) Option {
	return Option{func(c *Config) { c.Validation = enabled }}
}

func newConfig(opts []Option) Config {
	c := defaultConfig()
	for _, opt := range opts {
		opt.apply(&c)
	}
	return c
}
