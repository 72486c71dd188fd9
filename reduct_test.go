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

package reduct

import (
	"reflect"
	"testing"

	"github.com/sneller-reduct/reduct/matrix"
	"github.com/sneller-reduct/reduct/reduce"
)

// tetrahedron builds S1 from spec.md §8: the boundary of a filled
// tetrahedron.
func tetrahedron(t *testing.T) *matrix.Input {
	t.Helper()
	dims := []int{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2}
	cols := [][]int{
		{}, {}, {}, {}, // vertices 0..3
		{0, 1}, {0, 2}, {1, 2}, {0, 3}, {1, 3}, {2, 3}, // edges 4..9
		{4, 7, 8}, {5, 7, 9}, {6, 8, 9}, {4, 5, 6}, // triangles 10..13
	}
	in, err := matrix.Annotated(dims, cols)
	if err != nil {
		t.Fatal(err)
	}
	return in
}

func twoSimplex(t *testing.T) *matrix.Input {
	t.Helper()
	dims := []int{0, 0, 0, 1, 1, 1, 2}
	cols := [][]int{
		{}, {}, {},
		{0, 1}, {0, 2}, {1, 2},
		{3, 4, 5},
	}
	in, err := matrix.Annotated(dims, cols)
	if err != nil {
		t.Fatal(err)
	}
	return in
}

func birthSet(d *Diagram) map[int]bool {
	out := map[int]bool{}
	for p := range d.Paired {
		out[p[0]] = true
	}
	return out
}

func deathSet(d *Diagram) map[int]bool {
	out := map[int]bool{}
	for p := range d.Paired {
		out[p[1]] = true
	}
	return out
}

func eqIntSet(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func TestS1Tetrahedron(t *testing.T) {
	in := tetrahedron(t)
	d, err := ComputePairingsSerial(in)
	if err != nil {
		t.Fatal(err)
	}
	wantBirths := map[int]bool{1: true, 2: true, 3: true, 6: true, 8: true, 9: true}
	wantDeaths := map[int]bool{4: true, 5: true, 7: true, 10: true, 11: true, 12: true}
	if !eqIntSet(birthSet(d), wantBirths) {
		t.Errorf("births = %v, want %v", birthSet(d), wantBirths)
	}
	if !eqIntSet(deathSet(d), wantDeaths) {
		t.Errorf("deaths = %v, want %v", deathSet(d), wantDeaths)
	}
	wantUnpaired := map[int]bool{0: true, 13: true}
	got := map[int]bool{}
	for j := range d.Unpaired {
		got[j] = true
	}
	if !eqIntSet(got, wantUnpaired) {
		t.Errorf("unpaired = %v, want %v", got, wantUnpaired)
	}
}

func TestS2TwoSimplex(t *testing.T) {
	in := twoSimplex(t)
	d, err := ComputePairingsSerial(in)
	if err != nil {
		t.Fatal(err)
	}
	want := NewTestDiagram(t, [][2]int{{1, 3}, {2, 4}, {5, 6}}, []int{0})
	if !d.Equal(want) {
		t.Fatalf("got paired=%v unpaired=%v, want paired=%v unpaired=%v", d.Paired, d.Unpaired, want.Paired, want.Unpaired)
	}
}

func TestS3EmptyMatrix(t *testing.T) {
	in, err := matrix.Unannotated(nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := ComputePairingsSerial(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Paired) != 0 || len(d.Unpaired) != 0 {
		t.Fatalf("expected empty diagram, got %v / %v", d.Paired, d.Unpaired)
	}
}

func TestS4AllZeroMatrix(t *testing.T) {
	in, err := matrix.Unannotated([][]int{{}, {}, {}, {}})
	if err != nil {
		t.Fatal(err)
	}
	d, err := ComputePairingsSerial(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Paired) != 0 {
		t.Fatalf("expected no pairs, got %v", d.Paired)
	}
	want := map[int]bool{0: true, 1: true, 2: true, 3: true}
	got := map[int]bool{}
	for j := range d.Unpaired {
		got[j] = true
	}
	if !eqIntSet(got, want) {
		t.Fatalf("unpaired = %v, want %v", got, want)
	}
}

func TestS5SinglePair(t *testing.T) {
	in, err := matrix.Unannotated([][]int{{}, {0}})
	if err != nil {
		t.Fatal(err)
	}
	d, err := ComputePairingsSerial(in)
	if err != nil {
		t.Fatal(err)
	}
	want := NewTestDiagram(t, [][2]int{{0, 1}}, nil)
	if !d.Equal(want) {
		t.Fatalf("got %v/%v, want %v/%v", d.Paired, d.Unpaired, want.Paired, want.Unpaired)
	}
}

func TestS6TwoIndependentPairs(t *testing.T) {
	in, err := matrix.Unannotated([][]int{{}, {}, {0}, {1}})
	if err != nil {
		t.Fatal(err)
	}
	d, err := ComputePairingsSerial(in)
	if err != nil {
		t.Fatal(err)
	}
	want := NewTestDiagram(t, [][2]int{{0, 2}, {1, 3}}, nil)
	if !d.Equal(want) {
		t.Fatalf("got %v/%v, want %v/%v", d.Paired, d.Unpaired, want.Paired, want.Unpaired)
	}
}

// NewTestDiagram is a small helper kept local to the test binary.
func NewTestDiagram(t *testing.T, paired [][2]int, unpaired []int) *Diagram {
	t.Helper()
	d := matrix.NewDiagram()
	for _, p := range paired {
		d.Paired[p] = struct{}{}
	}
	for _, u := range unpaired {
		d.Unpaired[u] = struct{}{}
	}
	return d
}

func TestAlgorithmAgreement(t *testing.T) {
	in := tetrahedron(t)

	serial, err := ComputePairingsSerial(in)
	if err != nil {
		t.Fatal(err)
	}
	lockFree, err := ComputePairingsLockFree(in, Options{NumThreads: 4, MinChunkLen: 1})
	if err != nil {
		t.Fatal(err)
	}
	anti, err := ComputePairingsAntiTranspose(in, Options{NumThreads: 4, MinChunkLen: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !serial.Equal(lockFree) {
		t.Errorf("serial and lock-free disagree: %v/%v vs %v/%v", serial.Paired, serial.Unpaired, lockFree.Paired, lockFree.Unpaired)
	}
	if !serial.Equal(anti) {
		t.Errorf("serial and anti-transpose disagree: %v/%v vs %v/%v", serial.Paired, serial.Unpaired, anti.Paired, anti.Unpaired)
	}
}

func TestThreadInvariance(t *testing.T) {
	in := tetrahedron(t)
	base, err := ComputePairingsSerial(in)
	if err != nil {
		t.Fatal(err)
	}
	for _, threads := range []int{1, 2, 3, 8} {
		for _, chunk := range []int{1, 2, 5} {
			got, err := ComputePairingsLockFree(in, Options{NumThreads: threads, MinChunkLen: chunk})
			if err != nil {
				t.Fatal(err)
			}
			if !base.Equal(got) {
				t.Errorf("threads=%d chunk=%d: got %v/%v, want %v/%v", threads, chunk, got.Paired, got.Unpaired, base.Paired, base.Unpaired)
			}
		}
	}
}

func TestClearingInvariance(t *testing.T) {
	in := tetrahedron(t)
	on, err := ComputePairingsLockFree(in, Options{NumThreads: 4})
	if err != nil {
		t.Fatal(err)
	}
	off, err := ComputePairingsLockFree(in, Options{NumThreads: 4, Clearing: boolPtrForTest(false)})
	if err != nil {
		t.Fatal(err)
	}
	if !on.Equal(off) {
		t.Errorf("clearing changed the diagram: on=%v/%v off=%v/%v", on.Paired, on.Unpaired, off.Paired, off.Unpaired)
	}
}

func boolPtrForTest(v bool) *bool { return &v }

func TestWithRepsConsistency(t *testing.T) {
	in := twoSimplex(t)
	reps, err := ComputePairingsWithReps(in, Options{NumThreads: 4, MaintainV: true})
	if err != nil {
		t.Fatal(err)
	}
	for pair, v := range reps.PairedReps {
		sum := xorRows(in, v)
		// sum should equal the originally boundary of the death column's
		// reduced R column pivoted at pair[0]; spot check it is non-empty
		// and its maximum row is the birth index.
		if len(sum) == 0 {
			t.Errorf("pair %v: representative resolves to an empty boundary", pair)
			continue
		}
		max := sum[len(sum)-1]
		if max != pair[0] {
			t.Errorf("pair %v: R=DV pivot mismatch, got max row %d", pair, max)
		}
	}
}

func xorRows(in *matrix.Input, v []int) []int {
	acc := map[int]bool{}
	for _, k := range v {
		for _, r := range in.D[k] {
			acc[r] = !acc[r]
		}
	}
	var out []int
	for r, present := range acc {
		if present {
			out = append(out, r)
		}
	}
	// simple insertion sort; v is small in tests
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func TestInvalidOptionWithRepsNeedsMaintainV(t *testing.T) {
	in := twoSimplex(t)
	if _, err := ComputePairingsWithReps(in, Options{MaintainV: false}); err == nil {
		t.Fatal("expected InvalidOption error when maintain_v is false")
	}
	if _, err := ComputePairingsWithReps(in, Options{MaintainV: true}); err != nil {
		t.Fatalf("ComputePairingsWithReps with maintain_v set should succeed, got error: %v", err)
	}
}

func TestValidationRejectsUnsortedColumn(t *testing.T) {
	_, err := matrix.Unannotated([][]int{{}, {1, 0}})
	if err == nil {
		t.Fatal("expected validation error for unsorted column")
	}
}

func TestValidationRejectsOutOfRangeRow(t *testing.T) {
	_, err := matrix.Unannotated([][]int{{}, {5}})
	if err == nil {
		t.Fatal("expected validation error for out-of-range row index")
	}
}

func TestValidationRejectsInconsistentDimensions(t *testing.T) {
	_, err := matrix.NewInput([]matrix.ColumnSource{
		{Annotated: true, Dim: 0, Rows: nil},
		{Annotated: false, Rows: nil},
	})
	if err == nil {
		t.Fatal("expected InconsistentDimensions validation error")
	}
}

// TestIdempotence reduces the tetrahedron, feeds the reduced columns R
// back in as a new input, and checks that reducing R again leaves every
// column and the diagram unchanged (§8 property 8).
func TestIdempotence(t *testing.T) {
	in := tetrahedron(t)
	red := matrix.New(in, false, matrix.ReprOrdered)
	d1 := matrix.FromPivots(in.N, reduce.Serial(red, false))
	reduced := make([][]int, in.N)
	for j, c := range red.R {
		reduced[j] = append([]int{}, c.Entries()...)
	}
	again, err := matrix.Annotated(in.Dims, reduced)
	if err != nil {
		t.Fatal(err)
	}
	red2 := matrix.New(again, false, matrix.ReprOrdered)
	d2 := matrix.FromPivots(in.N, reduce.Serial(red2, false))
	for j, c := range red2.R {
		if !reflect.DeepEqual(c.Entries(), reduced[j]) {
			t.Fatalf("column %d changed on re-reduction: %v, want %v", j, c.Entries(), reduced[j])
		}
	}
	if !d1.Equal(d2) {
		t.Fatalf("reducing R again gave a different diagram")
	}
}
