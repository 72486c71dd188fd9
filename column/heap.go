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

import "sort"

// Heap is a max-heap of row indices with lazy 𝔽₂ cancellation: Add
// simply pushes every entry of the other column, and duplicate (hence
// cancelling) entries are only reconciled when Pivot or Entries forces
// a "normalise" pass. This amortises well when many Adds happen
// between pivot queries (§4.1).
type Heap struct {
	h []int
}

// NewHeap returns an empty heap-backed column.
func NewHeap() *Heap {
	return &Heap{}
}

func (c *Heap) IsEmpty() bool {
	_, ok := c.Pivot()
	return !ok
}

// Pivot normalises the top of the heap (popping matched pairs) and
// returns the numerically greatest surviving row index.
func (c *Heap) Pivot() (int, bool) {
	for len(c.h) > 0 {
		top := c.h[0]
		c.pop()
		if len(c.h) > 0 && c.h[0] == top {
			// second occurrence: the pair cancels over F2
			c.pop()
			continue
		}
		// top survives; push it back so state is unchanged
		c.push(top)
		return top, true
	}
	return 0, false
}

func (c *Heap) Add(other Column) {
	for _, r := range other.Entries() {
		c.push(r)
	}
}

// Entries drains a normalised copy of the heap into ascending order,
// leaving the receiver intact.
func (c *Heap) Entries() []int {
	scratch := append([]int(nil), c.h...)
	cpy := &Heap{h: scratch}
	var out []int
	for {
		r, ok := cpy.Pivot()
		if !ok {
			break
		}
		out = append(out, r)
		cpy.popExact(r)
	}
	sort.Ints(out)
	return out
}

func (c *Heap) Reset() {
	c.h = c.h[:0]
}

func (c *Heap) Clone() Column {
	cp := make([]int, len(c.h))
	copy(cp, c.h)
	return &Heap{h: cp}
}

// popExact removes one occurrence equal to the current top (used by
// Entries, which already verified r is the top via Pivot).
func (c *Heap) popExact(r int) {
	if len(c.h) > 0 && c.h[0] == r {
		c.pop()
	}
}

// push/pop implement a standard binary max-heap on c.h.

func (c *Heap) push(v int) {
	c.h = append(c.h, v)
	i := len(c.h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if c.h[parent] >= c.h[i] {
			break
		}
		c.h[parent], c.h[i] = c.h[i], c.h[parent]
		i = parent
	}
}

func (c *Heap) pop() int {
	top := c.h[0]
	n := len(c.h) - 1
	c.h[0] = c.h[n]
	c.h = c.h[:n]
	i := 0
	for {
		left, right := 2*i+1, 2*i+2
		largest := i
		if left < n && c.h[left] > c.h[largest] {
			largest = left
		}
		if right < n && c.h[right] > c.h[largest] {
			largest = right
		}
		if largest == i {
			break
		}
		c.h[i], c.h[largest] = c.h[largest], c.h[i]
		i = largest
	}
	return top
}
