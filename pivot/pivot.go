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

// Package pivot implements the low-index pivot map P used by the
// lock-free parallel reduction strategies (§4.2): a dense array of
// atomic slots, one per row index, each holding the index of the
// column that currently claims the row as its pivot.
package pivot

import (
	"sync/atomic"

	"github.com/sneller-reduct/reduct/internal/atomicext"
)

// Map is an atomic row -> claimant-column mapping. It is sized to the
// matrix (a row index space of the same size as the column index
// space, §3), which lets it be a plain array rather than a hash map
// (§9: "a dense array keyed by row index is preferable to a hash map
// in the parallel engine").
//
// Slots store column+1 so the zero value of atomic.Int64 doubles as
// the "unclaimed" sentinel (§9: "reserve one sentinel for
// unclaimed").
type Map struct {
	slots []atomic.Int64
	// highWater tracks the largest row index ever successfully
	// claimed, plus one (so zero means none), for diagnostics. Plain
	// int64 rather than atomic.Int64 so it can be updated through
	// atomicext.MaxInt64's CAS-retry loop.
	highWater int64
}

// New allocates a pivot map over row indices [0, n).
func New(n int) *Map {
	return &Map{slots: make([]atomic.Int64, n)}
}

// HighWaterMark returns the largest row index claimed so far, or -1 if
// no row has ever been claimed.
func (m *Map) HighWaterMark() int {
	return int(atomic.LoadInt64(&m.highWater)) - 1
}

// Load returns the column currently claiming row, or ok=false if the
// row is unclaimed.
func (m *Map) Load(row int) (col int, ok bool) {
	v := m.slots[row].Load()
	if v == 0 {
		return 0, false
	}
	return int(v - 1), true
}

// TryClaim attempts to move row from unclaimed to column j. It
// implements the "unclaimed -> j" arm of the commit protocol
// (§4.3.2).
func (m *Map) TryClaim(row, j int) bool {
	ok := m.slots[row].CompareAndSwap(0, int64(j)+1)
	if ok {
		atomicext.MaxInt64(&m.highWater, int64(row)+1)
	}
	return ok
}

// TrySteal attempts to replace the current claimant `from` with the
// smaller claimant `to` (§4.3.2: "smallest claimant wins"). Callers
// must only invoke this with to < from; the map itself does not
// enforce the ordering so it stays a pure CAS primitive, matching the
// compare_exchange described in §4.2.
func (m *Map) TrySteal(row, from, to int) bool {
	return m.slots[row].CompareAndSwap(int64(from)+1, int64(to)+1)
}

// Snapshot returns a plain map[row]column view of every claimed slot,
// used once reduction has converged to derive the persistence
// diagram (§6).
func (m *Map) Snapshot() map[int]int {
	out := make(map[int]int)
	for row := range m.slots {
		if col, ok := m.Load(row); ok {
			out[row] = col
		}
	}
	return out
}
