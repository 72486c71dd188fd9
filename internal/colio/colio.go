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

// Package colio streams annotated boundary-matrix columns to and
// from zstd-compressed files, so cmd/reductcli doesn't have to
// round-trip large matrices uncompressed (mirrors ion/compress.go's
// use of a compression codec for on-disk block storage).
package colio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/sneller-reduct/reduct/matrix"
)

// one line per column: "dim:r1,r2,r3" when annotated, "r1,r2,r3" (or
// "-" for an empty boundary) when not. The file as a whole is
// annotated iff every line carries a "dim:" prefix.
const emptyMarker = "-"

// WriteZstd writes the columns of in to w as zstd-compressed lines.
func WriteZstd(w io.Writer, in *matrix.Input) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	for j := 0; j < in.N; j++ {
		if in.HasDims() {
			fmt.Fprintf(bw, "%d:", in.Dims[j])
		}
		if len(in.D[j]) == 0 {
			bw.WriteString(emptyMarker)
		} else {
			for i, r := range in.D[j] {
				if i > 0 {
					bw.WriteByte(',')
				}
				bw.WriteString(strconv.Itoa(r))
			}
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// ReadZstd reads a column stream previously written by WriteZstd.
func ReadZstd(r io.Reader) (*matrix.Input, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var cols []matrix.ColumnSource
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		var c matrix.ColumnSource
		if idx := strings.IndexByte(line, ':'); idx >= 0 {
			dim, err := strconv.Atoi(line[:idx])
			if err != nil {
				return nil, fmt.Errorf("colio: bad dimension prefix %q: %w", line[:idx], err)
			}
			c.Dim = dim
			c.Annotated = true
			line = line[idx+1:]
		}
		if line != emptyMarker && line != "" {
			parts := strings.Split(line, ",")
			c.Rows = make([]int, len(parts))
			for i, p := range parts {
				v, err := strconv.Atoi(p)
				if err != nil {
					return nil, fmt.Errorf("colio: bad row index %q: %w", p, err)
				}
				c.Rows[i] = v
			}
		}
		cols = append(cols, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return matrix.NewInput(cols)
}
