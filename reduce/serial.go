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

// Package reduce implements the three 𝔽₂ matrix reduction strategies
// of §4.3: serial, lock-free parallel, and lock-free parallel with V,
// plus the clearing optimisation (§4.3.4) shared by all three.
package reduce

import "github.com/sneller-reduct/reduct/matrix"

// Serial reduces red single-threaded, in increasing column order
// within each dimension stratum (§4.3.1). It maintains a plain map
// for the pivot assignments, since there is no contention to
// coordinate. Returns pivot[i] = j, the row->claimant mapping the
// diagram is derived from.
//
// Clearing (§4.3.4) needs no bookkeeping beyond pivotOf itself: row
// and column indices share one space, so "column j is already known
// empty because some earlier, higher-dimension column claimed row j"
// is exactly "j is a key of pivotOf" at the moment j's stratum is
// reached.
func Serial(red *matrix.Reduction, clearing bool) map[int]int {
	pivotOf := make(map[int]int)
	for _, stratum := range Strata(len(red.R), red.Dims, clearing) {
		for _, j := range stratum.Indices {
			if clearing {
				if _, known := pivotOf[j]; known {
					red.Clear(j)
					continue
				}
			}
			reduceColumnSerial(red, j, pivotOf)
		}
	}
	return pivotOf
}

// reduceColumnSerial runs the standard reduction loop of §4.3 for a
// single column: repeatedly add the current owner of the pivot row
// until the column is empty or claims an unowned pivot.
func reduceColumnSerial(red *matrix.Reduction, j int, pivotOf map[int]int) {
	for {
		p, ok := red.R[j].Pivot()
		if !ok {
			return
		}
		if owner, claimed := pivotOf[p]; claimed {
			// In serial, left-to-right order guarantees owner < j
			// always: only earlier columns can have committed.
			red.AddColumn(j, owner)
			continue
		}
		pivotOf[p] = j
		return
	}
}
