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

// Package dual implements the anti-transpose dualisation of §4.4:
// reducing a boundary matrix's anti-transpose yields the cohomology
// pairing, in bijection with the homology pairing of the original.
package dual

import (
	"sort"

	"github.com/sneller-reduct/reduct/matrix"
)

// AntiTranspose builds D^⊥ from D: D^⊥[i][j] = D[n-1-j][n-1-i] (§4.4).
// Rows and columns swap roles and are both reflected, so entry value r
// in column j of D becomes entry (n-1-j) in column (n-1-r) of D^⊥.
//
// The dimension of column j in D^⊥ is (topDim - dim(D[n-1-j])) when
// D carries dimensions, which keeps clearing's "highest dimension
// first" order meaningful in the dualised matrix.
func AntiTranspose(in *matrix.Input) *matrix.Input {
	n := in.N
	out := &matrix.Input{N: n, D: make([][]int, n)}

	// bucket original column j's entries by the dual row they land
	// in: entry (col=j, row=r) in D becomes (col=n-1-r, row=n-1-j).
	buckets := make([][]int, n)
	for j := 0; j < n; j++ {
		for _, r := range in.D[j] {
			dualCol := n - 1 - r
			dualRow := n - 1 - j
			buckets[dualCol] = append(buckets[dualCol], dualRow)
		}
	}
	for j := range buckets {
		if buckets[j] == nil {
			// an empty column is an empty, non-nil slice
			buckets[j] = []int{}
		}
		sort.Ints(buckets[j])
		out.D[j] = buckets[j]
	}

	if in.HasDims() {
		topDim := 0
		for _, d := range in.Dims {
			if d > topDim {
				topDim = d
			}
		}
		out.Dims = make([]int, n)
		for j := 0; j < n; j++ {
			out.Dims[j] = topDim - in.Dims[n-1-j]
		}
	}
	return out
}

// UndualPaired maps a pair found in the reduced D^⊥ back to the
// corresponding pair of the original D: (a,b) paired in D^⊥ means
// (n-1-b, n-1-a) paired in D (§4.4).
func UndualPaired(n, a, b int) (origBirth, origDeath int) {
	return n - 1 - b, n - 1 - a
}

// UndualUnpaired maps an unpaired index of D^⊥ back to D: j unpaired
// in D^⊥ means (n-1-j) unpaired in D.
func UndualUnpaired(n, j int) int {
	return n - 1 - j
}

// Dualise takes the pivot assignment of an already reduced D^⊥ (as
// returned by reduce.Serial or reduce.LockFree) and remaps the
// resulting diagram back into D's index space.
func Dualise(in *matrix.Input, pivotOfDual map[int]int) *matrix.Diagram {
	n := in.N
	dualDiagram := matrix.FromPivots(n, pivotOfDual)
	out := matrix.NewDiagram()
	for p := range dualDiagram.Paired {
		a, b := UndualPaired(n, p[0], p[1])
		out.Paired[[2]int{a, b}] = struct{}{}
	}
	for u := range dualDiagram.Unpaired {
		out.Unpaired[UndualUnpaired(n, u)] = struct{}{}
	}
	return out
}
