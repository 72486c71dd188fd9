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

import "github.com/sneller-reduct/reduct/column"

// Reduction owns the R matrix (and optionally V) that a reduction
// algorithm mutates in place (§3, §4.2).
type Reduction struct {
	R    []column.Column
	V    []column.Column // nil unless maintain_v
	Dims []int           // nil when unannotated
}

// New allocates R[j] = D[j] for every column, and, if maintainV,
// V[j] = {j} (§3: "Initially R[j] = D[j]" / "V[j] = {j}").
func New(in *Input, maintainV bool, repr Repr) *Reduction {
	red := &Reduction{
		R:    make([]column.Column, in.N),
		Dims: in.Dims,
	}
	newCol := func(rows []int) column.Column {
		switch repr {
		case ReprHeap:
			h := column.NewHeap()
			h.Add(column.FromSorted(rows))
			return h
		default:
			cp := make([]int, len(rows))
			copy(cp, rows)
			return column.FromSorted(cp)
		}
	}
	for j := range in.D {
		red.R[j] = newCol(in.D[j])
	}
	if maintainV {
		red.V = make([]column.Column, in.N)
		for j := range red.V {
			switch repr {
			case ReprHeap:
				h := column.NewHeap()
				h.Add(column.Unit(j))
				red.V[j] = h
			default:
				red.V[j] = column.Unit(j)
			}
		}
	}
	return red
}

// Dim returns the dimension of column j, or -1 if the matrix is
// unannotated.
func (r *Reduction) Dim(j int) int {
	if r.Dims == nil {
		return -1
	}
	return r.Dims[j]
}

// AddColumn performs R[j] += R[k] (and V[j] += V[k] when maintained),
// the single elementary operation every reduction strategy composes
// (§4.3).
func (r *Reduction) AddColumn(j, k int) {
	r.R[j].Add(r.R[k])
	if r.V != nil {
		r.V[j].Add(r.V[k])
	}
}

// Clear empties R[i] (and V[i]) as dictated by the clearing rule
// (§4.3.4): i is known to already be in reduced form.
func (r *Reduction) Clear(i int) {
	r.R[i].Reset()
	if r.V != nil {
		r.V[i].Reset()
	}
}

// Diagram is the persistence diagram emitted by every entry point
// (§6): the set of (birth, death) pairs and the set of essential
// (unpaired) indices.
type Diagram struct {
	Paired   map[[2]int]struct{}
	Unpaired map[int]struct{}
}

// NewDiagram builds an empty diagram.
func NewDiagram() *Diagram {
	return &Diagram{Paired: map[[2]int]struct{}{}, Unpaired: map[int]struct{}{}}
}

// Equal implements diagram equality (§6: "two diagrams are equal iff
// their paired and unpaired sets are equal as sets").
func (d *Diagram) Equal(o *Diagram) bool {
	if len(d.Paired) != len(o.Paired) || len(d.Unpaired) != len(o.Unpaired) {
		return false
	}
	for p := range d.Paired {
		if _, ok := o.Paired[p]; !ok {
			return false
		}
	}
	for u := range d.Unpaired {
		if _, ok := o.Unpaired[u]; !ok {
			return false
		}
	}
	return true
}

// FromPivots derives the diagram from a completed reduction's pivot
// assignments: pivot[i] = j means row i is claimed by column j, i.e.
// the pair (i, j) (§3 Pairing invariant, §8 property 3).
func FromPivots(n int, pivotOf map[int]int) *Diagram {
	d := NewDiagram()
	isDeath := make([]bool, n)
	for i, j := range pivotOf {
		d.Paired[[2]int{i, j}] = struct{}{}
		isDeath[j] = true
	}
	birthClaimed := make([]bool, n)
	for i := range pivotOf {
		birthClaimed[i] = true
	}
	for j := 0; j < n; j++ {
		if !isDeath[j] && !birthClaimed[j] {
			d.Unpaired[j] = struct{}{}
		}
	}
	return d
}
