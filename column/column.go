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

// Package column implements sparse 𝔽₂ vectors over nonnegative row
// indices: the unit of storage a boundary-matrix reduction operates on.
package column

// Column is a sparse 𝔽₂ vector over row indices. Both representations
// in this package (Ordered, Heap) implement it; the reduction engine
// is written against the interface so either can be swapped in.
type Column interface {
	// Pivot returns the maximum row index present, or ok=false if empty.
	Pivot() (row int, ok bool)
	// Add computes the symmetric difference with other, in place.
	Add(other Column)
	// IsEmpty reports whether the column has no surviving entries.
	IsEmpty() bool
	// Entries returns the row indices present, in ascending order.
	// The caller must not mutate the returned slice.
	Entries() []int
	// Clone returns an independent copy with the same entries.
	Clone() Column
	// Reset empties the column, discarding all entries.
	Reset()
}

// Unit builds the length-1 column {row}, the initial value of a V
// matrix slot (§3: "V[j] = {j}").
func Unit(row int) *Ordered {
	return &Ordered{rows: []int{row}}
}

// Empty builds an empty column of the given kind.
func Empty(kind Kind) Column {
	switch kind {
	case KindHeap:
		return NewHeap()
	default:
		return NewOrdered()
	}
}

// Kind selects a Column representation. Ordered is the default; Heap
// trades pivot-query cost for lower amortised add cost under many
// additions between pivot queries (§9 "Dual-representation columns").
type Kind int

const (
	KindOrdered Kind = iota
	KindHeap
)
