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
	"sync"

	"github.com/sneller-reduct/reduct/internal/atomicext"
	"github.com/sneller-reduct/reduct/matrix"
	"github.com/sneller-reduct/reduct/pivot"
)

// LockFree reduces red using the lock-free parallel strategy of
// §4.3.2: a fixed worker pool processes chunked columns concurrently,
// coordinating ownership of pivot rows through an atomic
// compare-and-swap map under the rule "smallest claimant wins".
//
// If red.V is allocated, it is maintained in-line (every R add has a
// matching V add), same as the serial strategy; LockFreeWithV instead
// defers V to a second pass (§4.3.3, §9 "Reps-only pass").
func LockFree(red *matrix.Reduction, clearing bool, numThreads, minChunkLen int) map[int]int {
	n := len(red.R)
	locks := make([]sync.Mutex, n)
	P := pivot.New(n)
	for _, stratum := range Strata(n, red.Dims, clearing) {
		runStratum(red, P, locks, stratum.Indices, clearing, numThreads, minChunkLen)
	}
	return P.Snapshot()
}

// runStratum reduces one dimension stratum to completion before
// returning, acting as the barrier between strata that clearing
// requires (§4.3.4).
func runStratum(red *matrix.Reduction, P *pivot.Map, locks []sync.Mutex, indices []int, clearing bool, numThreads, minChunkLen int) {
	if len(indices) == 0 {
		return
	}
	chunks := splitChunks(indices, numThreads, minChunkLen)
	owner := make(map[int]int, len(indices))
	queues := make([]*dirtyQueue, len(chunks))
	for wi, chunk := range chunks {
		queues[wi] = newDirtyQueue()
		for _, j := range chunk {
			owner[j] = wi
		}
	}

	// pending counts column-processing attempts still outstanding,
	// including ones not yet created by a future steal; it reaches
	// zero only once no worker can possibly dirty another column,
	// which is the epoch-stability condition of §4.3.2 condition (c)
	// implemented as a counting barrier instead of an epoch clock.
	var pending sync.WaitGroup
	pending.Add(len(indices))

	process := func(j int) {
		defer pending.Done()
		if clearing {
			if _, known := P.Load(j); known {
				red.Clear(j)
				return
			}
		}
		reduceColumnParallel(red, P, locks, j, func(stolen int) {
			pending.Add(1)
			queues[owner[stolen]].push(stolen)
		})
	}

	var workers sync.WaitGroup
	for wi, chunk := range chunks {
		workers.Add(1)
		go func(wi int, chunk []int) {
			defer workers.Done()
			for _, j := range chunk {
				process(j)
			}
			q := queues[wi]
			for {
				j, ok := q.pop()
				if !ok {
					return
				}
				process(j)
			}
		}(wi, chunk)
	}

	pending.Wait()
	for _, q := range queues {
		q.close()
	}
	workers.Wait()
}

// reduceColumnParallel runs the commit protocol of §4.3.2 for a
// single column j: add the current low-index owner of its pivot,
// contend for an unowned pivot, or steal from a higher-index owner.
// onSteal is called with the dirtied column whenever j wins a steal.
func reduceColumnParallel(red *matrix.Reduction, P *pivot.Map, locks []sync.Mutex, j int, onSteal func(int)) {
	for {
		p, ok := readPivot(red, locks, j)
		if !ok {
			return
		}
		owner, claimed := P.Load(p)
		switch {
		case !claimed:
			if P.TryClaim(p, j) {
				return
			}
			atomicext.Pause()
		case owner < j:
			lockedAdd(red, locks, j, owner)
		case owner > j:
			if P.TrySteal(p, owner, j) {
				onSteal(owner)
				return
			}
			atomicext.Pause()
		default:
			// owner == j: already committed this exact row, nothing
			// left to do (cannot happen under correct bookkeeping,
			// guarded against regardless).
			return
		}
	}
}

func readPivot(red *matrix.Reduction, locks []sync.Mutex, j int) (int, bool) {
	locks[j].Lock()
	defer locks[j].Unlock()
	return red.R[j].Pivot()
}

// lockedAdd performs red.AddColumn(j, k), locking both columns in
// ascending index order to avoid deadlock. This is this engine's
// answer to §5's cross-chunk read discipline: a per-column mutex
// rather than a seqlock (see DESIGN.md for the tradeoff).
func lockedAdd(red *matrix.Reduction, locks []sync.Mutex, j, k int) {
	first, second := j, k
	if second < first {
		first, second = second, first
	}
	locks[first].Lock()
	locks[second].Lock()
	red.AddColumn(j, k)
	locks[second].Unlock()
	locks[first].Unlock()
}
