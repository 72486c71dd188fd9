// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package matrix

import "runtime"

// DefaultMinChunkLen is used when Options.MinChunkLen is zero. It is
// implementation-defined (§4.3.2): large enough that false sharing on
// the pivot map stays rare on small matrices, small enough that a
// matrix of a few thousand columns still splits across all threads.
const DefaultMinChunkLen = 64

// Options configures a reduction run (§6).
type Options struct {
	// MaintainV retains the V change-of-basis matrix so that
	// representatives can be recovered. Must be true for the
	// with-reps entry point.
	MaintainV bool

	// NumThreads bounds the size of the worker pool. Zero selects
	// runtime.GOMAXPROCS(0) (hardware parallelism); 1 forces the
	// serial path regardless of which entry point was called.
	NumThreads int

	// ColumnHeight is the known column height, zero when unknown.
	// The engine does not read it: the pivot map is always sized to
	// the matrix, so the field affects neither correctness nor
	// allocation.
	ColumnHeight int

	// MinChunkLen is the minimum number of consecutive columns a
	// parallel worker is assigned. Zero selects DefaultMinChunkLen.
	MinChunkLen int

	// Clearing enables the clearing optimisation (§4.3.4) when
	// column dimensions are available. Nil selects the default:
	// enabled iff dimensions were supplied. Set to a non-nil false
	// to force it off even when dimensions are present (used by the
	// clearing-invariance test, property 6 of §8).
	Clearing *bool

	// ColumnRepr selects the sparse column representation used for
	// newly allocated columns (R and V entries). Ordered is the
	// engine default; Heap is the alternative representation (§9).
	ColumnRepr Repr
}

// Repr names a column.Kind without importing the column package from
// this file's call sites that only need the enum.
type Repr int

const (
	ReprOrdered Repr = iota
	ReprHeap
)

// Threads resolves NumThreads against hardware parallelism.
func (o Options) Threads() int {
	if o.NumThreads > 0 {
		return o.NumThreads
	}
	return runtime.GOMAXPROCS(0)
}

// ChunkLen resolves MinChunkLen against its default.
func (o Options) ChunkLen() int {
	if o.MinChunkLen > 0 {
		return o.MinChunkLen
	}
	return DefaultMinChunkLen
}

// ClearingEnabled resolves the Clearing tri-state against whether
// dimensions were supplied.
func (o Options) ClearingEnabled(hasDims bool) bool {
	if o.Clearing != nil {
		return *o.Clearing && hasDims
	}
	return hasDims
}

// Validate checks option combinations that are rejected outright
// before reduction begins (§7: InvalidOption).
func (o Options) Validate(withReps bool) error {
	if o.NumThreads < 0 {
		return &ValidationError{Kind: InvalidOption, Index: -1, Msg: "num_threads must be positive or zero"}
	}
	if o.MinChunkLen < 0 {
		return &ValidationError{Kind: InvalidOption, Index: -1, Msg: "min_chunk_len must be positive or zero"}
	}
	if withReps && !o.MaintainV {
		return &ValidationError{Kind: InvalidOption, Index: -1, Msg: "with_reps requires maintain_v"}
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }

// WithClearing returns a copy of o with Clearing forced to v.
func (o Options) WithClearing(v bool) Options {
	o.Clearing = boolPtr(v)
	return o
}
