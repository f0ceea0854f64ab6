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

// Package zeroarc is the root of a zero-copy archive format: values are
// serialized into a flat byte buffer such that reading them back out
// never requires parsing, only a pointer cast validated once up front.
//
// The package ties together relptr (relative pointers), place (the
// out-pointer capability), writer (the append-only sink and its scratch
// space), share (the shared-pointer registry) and validate (the
// recursive validator) into the serializer [Context] and the [Access] /
// [MustAccess] entry points.
package zeroarc

import (
	"github.com/zeroarc/zeroarc/share"
	"github.com/zeroarc/zeroarc/writer"
	"github.com/zeroarc/zeroarc/zerr"
)

// Context bundles a writer, a shared-pointer registry and a scratch space
// (spec §4.5): "A serializer context bundles writer + shared_registry +
// scratch. It is passed by mutable reference through the serialization
// traversal."
//
// A Context is single-threaded; there is no concurrent serialization of
// one buffer (spec §5).
type Context struct {
	Config

	W      writer.Writer
	Shared *share.Registry

	err error
}

// NewContext creates a serializer Context writing through w.
func NewContext(w writer.Writer, opts ...Option) *Context {
	return &Context{
		Config: newConfig(opts),
		W:      w,
		Shared: share.NewRegistry(),
	}
}

// Scratch returns the writer's scratch space, used to stage children
// whose final size isn't known until they've been fully serialized. A
// writer that doesn't host one makes any type requiring scratch fail
// with ScratchUnsupported (spec §6: "A writer may additionally expose a
// scratch allocator; if absent, types that require scratch return
// ScratchUnsupported").
func (c *Context) Scratch() (*writer.Scratch, error) {
	if s, ok := c.W.(writer.Scratcher); ok {
		return s.Scratch(), nil
	}
	return nil, c.Fail(zerr.New(zerr.ScratchUnsupported))
}

// newUnboundedWriter creates a fresh, growable Writer for ToBytes.
func newUnboundedWriter() writer.Writer {
	return writer.NewBuffer(256)
}

// Fail records err as the context's terminal error if one isn't already
// recorded, and returns the recorded error. Every fallible operation on
// a Context should route its error through Fail so that the first error
// short-circuits the rest of the traversal (spec §7, "Propagation": "The
// serializer context short-circuits on the first error"); later errors
// are dropped in favor of the first one recorded.
func (c *Context) Fail(err error) error {
	if err == nil {
		return nil
	}
	if c.err == nil {
		c.err = err
	}
	return c.err
}

// Err returns the first error recorded by Fail, or nil if none has been.
func (c *Context) Err() error {
	return c.err
}

// Reset clears a Context's accumulated error and scratch state so it can
// be reused for a new top-level serialization with the same writer and
// configuration. The shared-pointer registry is also cleared: sharing is
// scoped to one buffer, not across reuses of a Context.
func (c *Context) Reset() {
	c.err = nil
	if s, ok := c.W.(writer.Scratcher); ok {
		s.Scratch().Reset()
	}
	c.Shared.Reset()
}
