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

import "sort"

// Stratum is a contiguous-in-order (but not contiguous in index)
// group of column indices sharing one dimension, ordered from the
// highest dimension to the lowest (§4.3.4: "clearing proceeds
// strictly from higher dimensions to lower"). When clearing is
// disabled, or the matrix carries no dimensions, there is exactly one
// stratum holding every column in ascending index order.
type Stratum struct {
	Dim     int
	Indices []int
}

// Strata partitions [0,n) for a reduction run. Within a stratum, the
// order of Indices is ascending and carries no further constraint:
// §4.3.4 guarantees "within a stratum, parallelism is unconstrained".
func Strata(n int, dims []int, clearing bool) []Stratum {
	if !clearing || dims == nil {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return []Stratum{{Dim: -1, Indices: idx}}
	}
	byDim := map[int][]int{}
	for j, d := range dims {
		byDim[d] = append(byDim[d], j)
	}
	dimsSeen := make([]int, 0, len(byDim))
	for d := range byDim {
		dimsSeen = append(dimsSeen, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(dimsSeen)))
	out := make([]Stratum, 0, len(dimsSeen))
	for _, d := range dimsSeen {
		idx := byDim[d]
		sort.Ints(idx)
		out = append(out, Stratum{Dim: d, Indices: idx})
	}
	return out
}
