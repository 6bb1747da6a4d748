/*
Copyright © 2024 the oceanplot authors.
This file is part of oceanplot.

oceanplot is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

oceanplot is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with oceanplot.  If not, see <http://www.gnu.org/licenses/>.
*/

package load

import (
	"fmt"
	"io"
	"strings"

	"github.com/gwenn/yacr"
	"github.com/spatialmodel/oceanplot"
)

// FromCSV reads a dataset from comma-separated values with a header row.
// Empty cells are missing values. The time column may hold numbers, which
// are seconds since the Unix epoch, or timestamps.
func FromCSV(r io.Reader, opts Options) (*oceanplot.Dataset, error) {
	s := yacr.DefaultReader(r)
	s.Trim = true
	var header []string
	for s.Scan() {
		header = append(header, s.Text())
		if s.EndOfRecord() {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("load: reading csv header: %w", err)
	}
	if len(header) == 0 || (len(header) == 1 && header[0] == "") {
		return nil, fmt.Errorf("%w in csv header", ErrNoColumns)
	}

	cols := make([][]string, len(header))
	var row []string
	line := 1
	for s.Scan() {
		row = append(row, s.Text())
		if !s.EndOfRecord() {
			continue
		}
		line++
		if len(row) == 1 && row[0] == "" {
			row = row[:0]
			continue
		}
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: csv row %d has %d cells and the header has %d", ErrRaggedRow, line, len(row), len(header))
		}
		for i, c := range row {
			cols[i] = append(cols[i], c)
		}
		row = row[:0]
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("load: reading csv: %w", err)
	}

	t := newTable("csv file")
	for i, name := range header {
		t.add(strings.TrimSpace(name), cols[i])
	}
	return t.dataset(opts)
}
