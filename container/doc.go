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

// Package container provides hand-written, generic implementations of
// the standard composite shapes (spec §1 item 5): Box, Vec, String,
// Option, Array, Rc and Weak. They exist to exercise the core package's
// Value/Serialize/Context contracts end to end, the way the generated
// glue from cmd/archivegen would for a user's own types, and to give
// every other core package (relptr, place, writer, share, validate) at
// least one concrete caller.
//
// All of these implement zeroarc.Value[A, R] for some archived type A
// and resolver type R; callers drive them through zeroarc.Serialize or
// zeroarc.ToBytes exactly like any other user type would.
//
// Every pointer-bearing container here uses a 32-bit relative pointer
// (relptr.Rel32), rather than threading the configured pointer width
// through a type parameter: a fully general implementation would need
// that (spec §6, "pointer_width_16/32/64"), but doing so for an example
// package would mean either a third type parameter on every container
// or a runtime width switch duplicating validate and relptr's own
// per-width code three times over. cmd/archivegen's generated glue
// (internal/schema) is where that generality actually belongs, since it
// emits one concrete width per compiled schema rather than needing all
// three simultaneously.
package container
