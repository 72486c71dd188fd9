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

// Input is a validated, square 𝔽₂ boundary matrix ready for reduction:
// D[j] lists the sorted row indices of the boundary of cell j, and
// Dims[j] is its filtration dimension when the source supplied one.
type Input struct {
	N    int
	D    [][]int
	Dims []int // nil when the source is unannotated
}

// HasDims reports whether clearing is eligible (§3: "When all columns
// are dimension-unlabelled, clearing is disabled").
func (in *Input) HasDims() bool {
	return in.Dims != nil
}

// ColumnSource describes a column as delivered by the host (§6). Dim
// is meaningless unless the source is annotated.
type ColumnSource struct {
	Dim       int
	Rows      []int
	Annotated bool
}

// NewInput validates and assembles a finite sequence of columns
// delivered in filtration order into a square Input matrix. Every
// column must be strictly ascending with entries in [0,n), and
// either every column is annotated or none is (§7:
// InconsistentDimensions).
func NewInput(cols []ColumnSource) (*Input, error) {
	n := len(cols)
	anyAnnotated, anyBare := false, false
	for _, c := range cols {
		if c.Annotated {
			anyAnnotated = true
		} else {
			anyBare = true
		}
	}
	if anyAnnotated && anyBare {
		return nil, &ValidationError{Kind: InconsistentDimensions, Index: -1, Msg: "some columns are annotated with a dimension and others are not"}
	}

	d := make([][]int, n)
	var dims []int
	if anyAnnotated {
		dims = make([]int, n)
	}
	for j, c := range cols {
		if !column.IsSortedAscending(c.Rows) {
			return nil, &ValidationError{Kind: InvalidColumn, Index: j, Msg: "row indices must be strictly ascending with no duplicates"}
		}
		for _, r := range c.Rows {
			if r < 0 || r >= n {
				return nil, &ValidationError{Kind: InvalidColumn, Index: j, Msg: "row index out of [0,n) range"}
			}
		}
		d[j] = c.Rows
		if anyAnnotated {
			dims[j] = c.Dim
		}
	}
	return &Input{N: n, D: d, Dims: dims}, nil
}

// Unannotated is a convenience constructor for a column source with
// no dimension labels (clearing disabled).
func Unannotated(cols [][]int) (*Input, error) {
	src := make([]ColumnSource, len(cols))
	for i, rows := range cols {
		src[i] = ColumnSource{Rows: rows}
	}
	return NewInput(src)
}

// Annotated is a convenience constructor for a dimension-labelled
// column source.
func Annotated(dims []int, cols [][]int) (*Input, error) {
	if len(dims) != len(cols) {
		return nil, &ValidationError{Kind: InvalidColumn, Index: -1, Msg: "dims and columns must be the same length"}
	}
	src := make([]ColumnSource, len(cols))
	for i, rows := range cols {
		src[i] = ColumnSource{Dim: dims[i], Rows: rows, Annotated: true}
	}
	return NewInput(src)
}
