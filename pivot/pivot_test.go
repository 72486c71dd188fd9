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

package pivot

import (
	"sync"
	"testing"
)

func TestLoadUnclaimed(t *testing.T) {
	m := New(4)
	if _, ok := m.Load(0); ok {
		t.Fatalf("expected row 0 unclaimed")
	}
}

func TestTryClaimThenSteal(t *testing.T) {
	m := New(4)
	if m.HighWaterMark() != -1 {
		t.Fatalf("HighWaterMark of a fresh map = %d, want -1", m.HighWaterMark())
	}
	if !m.TryClaim(0, 5) {
		t.Fatalf("claim of unclaimed row should succeed")
	}
	if m.TryClaim(0, 9) {
		t.Fatalf("second claim of already-claimed row should fail")
	}
	if !m.TrySteal(0, 5, 2) {
		t.Fatalf("stealing to a smaller claimant should succeed")
	}
	col, ok := m.Load(0)
	if !ok || col != 2 {
		t.Fatalf("Load = %v, %v, want 2, true", col, ok)
	}
	if m.TrySteal(0, 5, 1) {
		t.Fatalf("stealing against a stale expected claimant should fail")
	}
	if m.TryClaim(2, 1); m.HighWaterMark() != 2 {
		t.Fatalf("HighWaterMark after claiming row 2 = %d, want 2", m.HighWaterMark())
	}
}

// TestSmallestClaimantWins hammers one row with every column index
// from n-1 down to 0 contending concurrently; the surviving claimant
// must be 0, independent of goroutine scheduling (§4.3.2, §8
// property 5: thread invariance).
func TestSmallestClaimantWins(t *testing.T) {
	const n = 64
	m := New(1)
	var wg sync.WaitGroup
	for j := n - 1; j >= 0; j-- {
		wg.Add(1)
		go func(j int) {
			defer wg.Done()
			for {
				cur, ok := m.Load(0)
				if !ok {
					if m.TryClaim(0, j) {
						return
					}
					continue
				}
				if j >= cur {
					return
				}
				if m.TrySteal(0, cur, j) {
					return
				}
			}
		}(j)
	}
	wg.Wait()
	col, ok := m.Load(0)
	if !ok || col != 0 {
		t.Fatalf("winning claimant = %v, %v, want 0, true", col, ok)
	}
}
