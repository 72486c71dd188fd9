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

// Command reductcli reduces a filtered 𝔽₂ boundary matrix read from a
// zstd-compressed column file and prints the resulting persistence
// diagram.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/cpu"
	"sigs.k8s.io/yaml"

	"github.com/sneller-reduct/reduct"
	"github.com/sneller-reduct/reduct/internal/colio"
	"github.com/sneller-reduct/reduct/internal/fingerprint"
	"github.com/sneller-reduct/reduct/matrix"
)

var (
	dashin      string
	dashout     string
	dashopts    string
	dashthreads int
	dashv       bool
	dashanti    bool
	dashprint   bool
)

func init() {
	flag.IntVar(&dashthreads, "threads", 0, "worker pool size (0 = hardware parallelism, 1 = serial)")
	flag.StringVar(&dashin, "in", "", "path to a zstd-compressed column file (required)")
	flag.StringVar(&dashout, "out", "", "path for the diagram as JSON (default stdout)")
	flag.StringVar(&dashopts, "opts", "", "YAML file overriding reduct.Options defaults")
	flag.BoolVar(&dashv, "reps", false, "maintain V and report representative cycles")
	flag.BoolVar(&dashanti, "anti-transpose", false, "reduce via the anti-transpose dual")
	flag.BoolVar(&dashprint, "print-cpu", false, "print an informational AVX2 capability line and exit")
}

// optionsFile mirrors matrix.Options for the subset a user would
// reasonably want to override from a config file; a zero numThreads
// falls back to the -threads flag, a zero minChunkLen to
// defaultChunkLen, and an absent clearing to the matrix.Options default.
type optionsFile struct {
	NumThreads  int  `json:"numThreads,omitempty"`
	MinChunkLen int  `json:"minChunkLen,omitempty"`
	Clearing    *bool `json:"clearing,omitempty"`
}

func loadOptions(path string) (matrix.Options, error) {
	var opts matrix.Options
	if path == "" {
		return opts, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading options file: %w", err)
	}
	var of optionsFile
	if err := yaml.Unmarshal(raw, &of); err != nil {
		return opts, fmt.Errorf("parsing options file: %w", err)
	}
	opts.NumThreads = of.NumThreads
	opts.MinChunkLen = of.MinChunkLen
	opts.Clearing = of.Clearing
	return opts, nil
}

// defaultChunkLen doubles matrix.DefaultMinChunkLen on hardware with
// AVX2. The column code has no SIMD path; the CPU check only adjusts
// this tuning default. An explicit minChunkLen in the -opts file always
// wins, and the reduction's result never depends on it (§8 property:
// thread/chunk invariance).
func defaultChunkLen() int {
	if cpu.X86.HasAVX2 {
		return matrix.DefaultMinChunkLen * 2
	}
	return matrix.DefaultMinChunkLen
}

type result struct {
	RunID      string           `json:"runId"`
	Elapsed    string           `json:"elapsed"`
	Paired     [][2]int         `json:"paired"`
	Unpaired   []int            `json:"unpaired"`
	FingerLo   uint64           `json:"fingerprintLo"`
	FingerHi   uint64           `json:"fingerprintHi"`
	Reps       map[string][]int `json:"representatives,omitempty"`
	RepsDigest string           `json:"representativesDigest,omitempty"`
}

func main() {
	flag.Parse()

	if dashprint {
		fmt.Printf("AVX2: %v\n", cpu.X86.HasAVX2)
		return
	}

	if dashin == "" {
		fmt.Fprintln(os.Stderr, "reductcli: -in is required")
		os.Exit(1)
	}

	in, err := readInput(dashin)
	if err != nil {
		exit(err)
	}

	opts, err := loadOptions(dashopts)
	if err != nil {
		exit(err)
	}
	if opts.NumThreads == 0 {
		opts.NumThreads = dashthreads
	}
	if opts.MinChunkLen == 0 {
		opts.MinChunkLen = defaultChunkLen()
	}

	runID := uuid.New().String()
	start := time.Now()

	res := result{RunID: runID}
	if dashv {
		opts.MaintainV = true
		reps, err := reduct.ComputePairingsWithReps(in, opts)
		if err != nil {
			exit(err)
		}
		fillDiagram(&res, reps.Diagram)
		res.Reps = make(map[string][]int, len(reps.PairedReps)+len(reps.UnpairedReps))
		cycles := make([][]int, 0, len(reps.PairedReps)+len(reps.UnpairedReps))
		for pair, v := range reps.PairedReps {
			res.Reps[fmt.Sprintf("%d,%d", pair[0], pair[1])] = v
			cycles = append(cycles, v)
		}
		for j, v := range reps.UnpairedReps {
			res.Reps[fmt.Sprintf("%d", j)] = v
			cycles = append(cycles, v)
		}
		digest := fingerprint.Representatives(cycles)
		res.RepsDigest = hex.EncodeToString(digest[:])
	} else {
		var d *reduct.Diagram
		if dashanti {
			d, err = reduct.ComputePairingsAntiTranspose(in, opts)
		} else {
			d, err = reduct.ComputePairingsLockFree(in, opts)
		}
		if err != nil {
			exit(err)
		}
		fillDiagram(&res, d)
	}

	res.Elapsed = time.Since(start).String()

	var out = os.Stdout
	if dashout != "" {
		f, err := os.Create(dashout)
		if err != nil {
			exit(err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		exit(err)
	}
}

func fillDiagram(res *result, d *reduct.Diagram) {
	for p := range d.Paired {
		res.Paired = append(res.Paired, p)
	}
	for j := range d.Unpaired {
		res.Unpaired = append(res.Unpaired, j)
	}
	res.FingerLo, res.FingerHi = fingerprint.Diagram(res.Paired, res.Unpaired)
}

func readInput(path string) (*matrix.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return colio.ReadZstd(f)
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, "reductcli:", err)
	os.Exit(1)
}
