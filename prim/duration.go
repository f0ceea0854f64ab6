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

package prim

import "time"

// Duration mirrors time.Duration, split into whole seconds and a
// nanosecond remainder, the way rkyv archives core::time::Duration. It is
// the canonical "simplest possible composite" used throughout the test
// suite: a plain product of two primitives, no indirection.
type Duration struct {
	Secs  uint64
	Nanos uint32
}

// FromStd converts a time.Duration into the Secs/Nanos split.
func FromStd(d time.Duration) Duration {
	secs := d / time.Second
	nanos := d % time.Second
	return Duration{Secs: uint64(secs), Nanos: uint32(nanos)}
}

// Std converts back into a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.Secs)*time.Second + time.Duration(d.Nanos)
}

// ArchivedDuration is the archived, portable layout of Duration: 8 bytes of
// seconds followed by 4 bytes of nanoseconds, no padding, no indirection
// (spec §8 scenario 1).
type ArchivedDuration struct {
	secs  [8]byte
	nanos [4]byte
}

// Archive writes d's archived form into *out using order.
func (d Duration) Archive(out *ArchivedDuration, order Order) {
	StoreU(&out.secs[0], order, d.Secs)
	StoreU(&out.nanos[0], order, d.Nanos)
}

// AsSecs returns the whole-seconds component.
func (a *ArchivedDuration) AsSecs(order Order) uint64 {
	return LoadU[uint64](&a.secs[0], order)
}

// SubsecNanos returns the nanosecond remainder.
func (a *ArchivedDuration) SubsecNanos(order Order) uint32 {
	return LoadU[uint32](&a.nanos[0], order)
}

// AsNanos returns the whole duration as a single nanosecond count.
func (a *ArchivedDuration) AsNanos(order Order) uint64 {
	return a.AsSecs(order)*uint64(time.Second) + uint64(a.SubsecNanos(order))
}

// Std converts the archived form back into a native Duration.
func (a *ArchivedDuration) Std(order Order) Duration {
	return Duration{Secs: a.AsSecs(order), Nanos: a.SubsecNanos(order)}
}
