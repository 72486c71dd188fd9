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

// Package fingerprint computes content digests of persistence
// diagrams and representative cycles. cmd/reductcli reports them in
// its JSON output, so two runs (or two strategies) can be compared by
// digest instead of by their full sets.
package fingerprint

import (
	"encoding/binary"
	"sort"

	"github.com/dchest/siphash"
	"golang.org/x/crypto/blake2b"
)

// fixed, arbitrary 128-bit siphash key; the fingerprint is used for
// equality checks within a single run, never persisted or compared
// across versions of this package, so a constant key is adequate.
const k0, k1 = 0x5ee0a9df4d5a0a5c, 0x1f9a7c8b5f3e2d17

// Diagram returns a 128-bit digest of a diagram's paired and unpaired
// sets, canonicalised by sorting before hashing so that two diagrams
// equal as sets (§6) always fingerprint identically regardless of
// iteration order.
func Diagram(paired [][2]int, unpaired []int) (lo, hi uint64) {
	p := append([][2]int(nil), paired...)
	sort.Slice(p, func(i, j int) bool {
		if p[i][0] != p[j][0] {
			return p[i][0] < p[j][0]
		}
		return p[i][1] < p[j][1]
	})
	u := append([]int(nil), unpaired...)
	sort.Ints(u)

	buf := make([]byte, 0, 8*(2*len(p)+len(u)+2))
	buf = appendUint64(buf, uint64(len(p)))
	for _, pair := range p {
		buf = appendUint64(buf, uint64(pair[0]))
		buf = appendUint64(buf, uint64(pair[1]))
	}
	buf = appendUint64(buf, uint64(len(u)))
	for _, j := range u {
		buf = appendUint64(buf, uint64(j))
	}
	return siphash.Hash128(k0, k1, buf)
}

// Representatives digests the row indices of a set of representative
// cycles (the V columns surfaced by the with-reps entry point) with
// blake2b: siphash's fixed 128-bit output is adequate for diagram
// fingerprints, but cycle bases can be adversarially large, and
// blake2b's wider internal state is the better fit there.
func Representatives(cycles [][]int) [32]byte {
	h, _ := blake2b.New256(nil)
	for _, cyc := range cycles {
		rows := append([]int(nil), cyc...)
		sort.Ints(rows)
		lenBuf := make([]byte, 8)
		binary.LittleEndian.PutUint64(lenBuf, uint64(len(rows)))
		h.Write(lenBuf)
		for _, r := range rows {
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(r))
			h.Write(b[:])
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}
