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

package column

import "golang.org/x/exp/slices"

// Ordered stores row indices sorted ascending with no duplicates. It
// is the default representation: Add is a linear two-finger merge and
// Pivot is O(1).
type Ordered struct {
	rows []int
}

// NewOrdered returns an empty ordered column.
func NewOrdered() *Ordered {
	return &Ordered{}
}

// FromSorted wraps an already strictly-ascending slice of row indices.
// The caller transfers ownership of rows to the returned column.
func FromSorted(rows []int) *Ordered {
	return &Ordered{rows: rows}
}

func (c *Ordered) Pivot() (int, bool) {
	if len(c.rows) == 0 {
		return 0, false
	}
	return c.rows[len(c.rows)-1], true
}

func (c *Ordered) IsEmpty() bool {
	return len(c.rows) == 0
}

func (c *Ordered) Entries() []int {
	return c.rows
}

func (c *Ordered) Reset() {
	c.rows = c.rows[:0]
}

func (c *Ordered) Clone() Column {
	cp := make([]int, len(c.rows))
	copy(cp, c.rows)
	return &Ordered{rows: cp}
}

// Add replaces c with the 𝔽₂ symmetric difference c + other: a row
// index survives iff it appears in exactly one of the two columns.
func (c *Ordered) Add(other Column) {
	var b []int
	if o, ok := other.(*Ordered); ok {
		b = o.rows
	} else {
		b = other.Entries()
	}
	c.rows = mergeXOR(c.rows, b)
}

// AddRows merges a raw ascending, duplicate-free slice of row indices
// directly, without requiring the caller to box it as a Column. Used
// when ingesting D[j] from the column source.
func (c *Ordered) AddRows(rows []int) {
	c.rows = mergeXOR(c.rows, rows)
}

func mergeXOR(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			// equal: cancel, 1+1=0 over F2
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// IsSortedAscending reports whether rows is strictly increasing, the
// form required of every input column (§6: "unsorted entries" and
// "duplicate entries" are both validation failures).
func IsSortedAscending(rows []int) bool {
	return slices.IsSortedFunc(rows, func(a, b int) bool { return a < b }) && noDuplicates(rows)
}

func noDuplicates(rows []int) bool {
	for i := 1; i < len(rows); i++ {
		if rows[i] == rows[i-1] {
			return false
		}
	}
	return true
}
