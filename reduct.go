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

// Package reduct computes persistence pairings of a filtered 𝔽₂
// boundary matrix: the facade in front of column, pivot, matrix,
// reduce and dual.
package reduct

import (
	"github.com/sneller-reduct/reduct/dual"
	"github.com/sneller-reduct/reduct/matrix"
	"github.com/sneller-reduct/reduct/reduce"
)

// Diagram is re-exported so callers need not import matrix directly
// for the common case.
type Diagram = matrix.Diagram

// Options is re-exported for the same reason.
type Options = matrix.Options

// ComputePairingsSerial is compute_pairings_serial (§6): single-
// threaded reduction, no anti-transpose.
func ComputePairingsSerial(in *matrix.Input) (*Diagram, error) {
	var opts Options
	if err := opts.Validate(false); err != nil {
		return nil, err
	}
	red := matrix.New(in, false, opts.ColumnRepr)
	pivotOf := reduce.Serial(red, opts.ClearingEnabled(in.HasDims()))
	return matrix.FromPivots(in.N, pivotOf), nil
}

// ComputePairingsLockFree is compute_pairings_lock_free (§6): the
// lock-free parallel strategy, no anti-transpose. num_threads=1
// degrades to the serial algorithm (§6: "1 forces serial path").
func ComputePairingsLockFree(in *matrix.Input, opts Options) (*Diagram, error) {
	if err := opts.Validate(false); err != nil {
		return nil, err
	}
	clearing := opts.ClearingEnabled(in.HasDims())
	if opts.NumThreads == 1 {
		red := matrix.New(in, opts.MaintainV, opts.ColumnRepr)
		pivotOf := reduce.Serial(red, clearing)
		return matrix.FromPivots(in.N, pivotOf), nil
	}
	red := matrix.New(in, opts.MaintainV, opts.ColumnRepr)
	var pivotOf map[int]int
	if opts.MaintainV {
		pivotOf = reduce.LockFreeWithV(red, clearing, opts.Threads(), opts.ChunkLen())
	} else {
		pivotOf = reduce.LockFree(red, clearing, opts.Threads(), opts.ChunkLen())
	}
	return matrix.FromPivots(in.N, pivotOf), nil
}

// ComputePairingsAntiTranspose is compute_pairings_anti_transpose
// (§6): builds D^⊥, reduces it with the lock-free strategy, and maps
// the resulting cohomology pairing back to D's index space (§4.4).
func ComputePairingsAntiTranspose(in *matrix.Input, opts Options) (*Diagram, error) {
	if err := opts.Validate(false); err != nil {
		return nil, err
	}
	dualIn := dual.AntiTranspose(in)
	clearing := opts.ClearingEnabled(dualIn.HasDims())
	red := matrix.New(dualIn, false, opts.ColumnRepr)
	var pivotOf map[int]int
	if opts.NumThreads == 1 {
		pivotOf = reduce.Serial(red, clearing)
	} else {
		pivotOf = reduce.LockFree(red, clearing, opts.Threads(), opts.ChunkLen())
	}
	return dual.Dualise(in, pivotOf), nil
}

// ComputePairings is compute_pairings (§6): the general entry point.
// antiTranspose selects between the homology and cohomology paths;
// nil selects the default (enabled iff the input carries dimensions,
// §4.4).
func ComputePairings(in *matrix.Input, opts Options, antiTranspose *bool) (*Diagram, error) {
	use := in.HasDims()
	if antiTranspose != nil {
		use = *antiTranspose
	}
	if use {
		return ComputePairingsAntiTranspose(in, opts)
	}
	return ComputePairingsLockFree(in, opts)
}

// Representatives holds the with-reps variant's extra output: the V
// column recovered for each pair and each unpaired index (§6, §9
// "paired_reps[k] = V[j_k] where (i_k, j_k) is the k-th pair").
type Representatives struct {
	Diagram      *Diagram
	PairedReps   map[[2]int][]int
	UnpairedReps map[int][]int
}

// ComputePairingsWithReps is compute_pairings_with_reps (§6): requires
// maintain_v (§7 InvalidOption otherwise) and returns representative
// cycles alongside the diagram.
func ComputePairingsWithReps(in *matrix.Input, opts Options) (*Representatives, error) {
	if err := opts.Validate(true); err != nil {
		return nil, err
	}
	clearing := opts.ClearingEnabled(in.HasDims())
	red := matrix.New(in, true, opts.ColumnRepr)

	var pivotOf map[int]int
	if opts.NumThreads == 1 {
		pivotOf = reduce.Serial(red, clearing)
	} else {
		pivotOf = reduce.LockFreeWithV(red, clearing, opts.Threads(), opts.ChunkLen())
	}

	diagram := matrix.FromPivots(in.N, pivotOf)
	reps := &Representatives{
		Diagram:      diagram,
		PairedReps:   make(map[[2]int][]int, len(diagram.Paired)),
		UnpairedReps: make(map[int][]int, len(diagram.Unpaired)),
	}
	for pair := range diagram.Paired {
		reps.PairedReps[pair] = red.V[pair[1]].Entries()
	}
	for j := range diagram.Unpaired {
		reps.UnpairedReps[j] = red.V[j].Entries()
	}
	return reps, nil
}
