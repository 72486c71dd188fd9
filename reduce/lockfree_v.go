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

package reduce

import (
	"github.com/sneller-reduct/reduct/column"
	"github.com/sneller-reduct/reduct/matrix"
)

// LockFreeWithV computes the pivot assignment with the real lock-free
// parallel engine (fast path, R only, no V overhead on the contended
// path), then re-derives V by replaying the now-fixed pivot
// assignment in a second, contention-free pass (§4.3.3, §9
// "Reps-only pass": "defer V construction until after R stabilises,
// then recover representatives by a second solve").
//
// red must be allocated with maintain_v (red.V non-nil). On return
// red.R holds the reduced matrix and red.V holds representatives
// consistent with it (the DV-consistency invariant, §3 / §8
// property 2).
func LockFreeWithV(red *matrix.Reduction, clearing bool, numThreads, minChunkLen int) map[int]int {
	n := len(red.R)

	scratch := &matrix.Reduction{R: cloneColumns(red.R), Dims: red.Dims}
	pivotOf := LockFree(scratch, clearing, numThreads, minChunkLen)

	// Replaying in ascending order against a pivot oracle that never
	// changes has no contention to resolve, and reproduces exactly
	// what Serial(red, clearing) would have computed on its own
	// (algorithm agreement, §8 property 4), this time with V along
	// for the ride.
	for _, stratum := range Strata(n, red.Dims, clearing) {
		for _, j := range stratum.Indices {
			if clearing {
				if _, known := pivotOf[j]; known {
					red.Clear(j)
					continue
				}
			}
			replayColumn(red, j, pivotOf)
		}
	}
	return pivotOf
}

func replayColumn(red *matrix.Reduction, j int, pivotOf map[int]int) {
	for {
		p, ok := red.R[j].Pivot()
		if !ok {
			return
		}
		owner, claimed := pivotOf[p]
		if !claimed || owner == j {
			return
		}
		red.AddColumn(j, owner)
	}
}

func cloneColumns(cols []column.Column) []column.Column {
	out := make([]column.Column, len(cols))
	for i, c := range cols {
		out[i] = c.Clone()
	}
	return out
}
