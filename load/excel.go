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
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ctessum/requestcache"
	"github.com/spatialmodel/oceanplot"
	"github.com/spatialmodel/oceanplot/internal/hash"
	"github.com/tealeg/xlsx"
)

// excelCache holds previously opened workbooks so that reading several
// sheets of one file opens it once. Entries are keyed by path, size and
// modification time, so an edited workbook is read again.
var excelCache *requestcache.Cache

var loadExcelCacheOnce sync.Once

func loadExcelFile(ctx context.Context, fileName string) (*xlsx.File, error) {
	loadExcelCacheOnce.Do(func() {
		excelCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			f, err := xlsx.OpenFile(req.(string))
			if err != nil {
				return nil, fmt.Errorf("load: opening xlsx file: %w", err)
			}
			return f, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(100))
	})
	info, err := os.Stat(fileName)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	key := hash.Key(fileName, info.Size(), info.ModTime().UnixNano())
	r := excelCache.NewRequest(ctx, fileName, key)
	f, err := r.Result()
	if err != nil {
		return nil, err
	}
	return f.(*xlsx.File), nil
}

// FromExcel reads a dataset from a worksheet of an Excel workbook. The
// first row holds the column names. opts.Sheet selects the worksheet; the
// first one is used if it is empty. Numeric cells in the time column are
// Excel serial dates.
func FromExcel(ctx context.Context, path string, opts Options) (*oceanplot.Dataset, error) {
	f, err := loadExcelFile(ctx, path)
	if err != nil {
		return nil, err
	}
	var s *xlsx.Sheet
	if opts.Sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", ErrNoSheet, path)
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		if s, ok = f.Sheet[opts.Sheet]; !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrNoSheet, opts.Sheet, path)
		}
	}
	if len(s.Rows) == 0 {
		return nil, fmt.Errorf("%w in sheet %s of %s", ErrNoColumns, s.Name, path)
	}

	var header []string
	for _, c := range s.Rows[0].Cells {
		header = append(header, strings.TrimSpace(c.Value))
	}
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%w in sheet %s of %s", ErrNoColumns, s.Name, path)
	}

	cols := make([][]string, len(header))
	for _, r := range s.Rows[1:] {
		if emptyRow(r) {
			continue
		}
		for i := range header {
			var v string
			if i < len(r.Cells) {
				v = strings.TrimSpace(r.Cells[i].Value)
			}
			cols[i] = append(cols[i], v)
		}
	}

	t := newTable(path)
	timeCol := MapVariables(header, opts.Mapping)["time"]
	for i, name := range header {
		if name == timeCol {
			t.add(name, excelTimes(cols[i], f.Date1904))
			continue
		}
		t.add(name, cols[i])
	}
	return t.dataset(opts)
}

func emptyRow(r *xlsx.Row) bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c.Value) != "" {
			return false
		}
	}
	return true
}

// excelTimes converts a column of serial dates to timestamps. Columns
// that hold anything else are returned unchanged.
func excelTimes(col []string, date1904 bool) interface{} {
	o := make([]time.Time, len(col))
	for i, c := range col {
		if c == "" {
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return col
		}
		o[i] = xlsx.TimeFromExcelTime(v, date1904).UTC()
	}
	return o
}
