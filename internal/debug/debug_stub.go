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

//go:build !debug

// Package debug includes debugging helpers used by the serializer and
// validator traversals. This build compiles every operation away, so the
// release build pays nothing for them.
package debug

// Enabled is true if the binary is being built with the debug tag.
const Enabled = false

// Log is a no-op unless built with -tags debug.
func Log(context []any, operation string, format string, args ...any) {}

// Assert is a no-op unless built with -tags debug.
func Assert(cond bool, format string, args ...any) {}

// Value is a value of any type that only exists when the debug tag is
// enabled. Outside of debug builds it carries no storage.
type Value[T any] struct{}

// Get panics: there is no storage for Value outside of a debug build.
func (v *Value[T]) Get() *T { panic("zeroarc: debug.Value accessed outside of a debug build") }
