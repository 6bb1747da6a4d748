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
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tealeg/xlsx"
)

func writeExcel(t *testing.T, sheets map[string][][]interface{}, order ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xlsx")
	writeExcelTo(t, path, sheets, order...)
	return path
}

func writeExcelTo(t *testing.T, path string, sheets map[string][][]interface{}, order ...string) {
	t.Helper()
	f := xlsx.NewFile()
	for _, name := range order {
		s, err := f.AddSheet(name)
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range sheets[name] {
			row := s.AddRow()
			for _, v := range r {
				c := row.AddCell()
				switch x := v.(type) {
				case string:
					c.SetString(x)
				case float64:
					c.SetFloat(x)
				}
			}
		}
	}
	if err := f.Save(path); err != nil {
		t.Fatal(err)
	}
}

func TestFromExcel(t *testing.T) {
	path := writeExcel(t, map[string][][]interface{}{
		"notes": {{"cruise notes"}},
		"ctd": {
			{"lat", "lon", "salinity", "time"},
			{27.5, -94.0, 35.1, 45292.0},
			{27.6, -94.1, "", 45292.5},
			{},
			{27.7, -94.2, 35.3, 45293.0},
		},
	}, "notes", "ctd")

	d, err := FromExcel(context.Background(), path, Options{Sheet: "ctd", Log: quiet})
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 3 {
		t.Fatalf("length: want 3, got %d", d.Len())
	}
	if !sameValues(d.Salinity.Data.Values(), []float64{35.1, math.NaN(), 35.3}) {
		t.Errorf("salinity: %v", d.Salinity.Data)
	}
	want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := d.Time.Data.Times()[1]; got.Sub(want).Abs() > time.Second {
		t.Errorf("time: want %v, got %v", want, got)
	}

	if _, err = FromExcel(context.Background(), path, Options{Log: quiet}); !errors.Is(err, ErrNoColumns) {
		t.Errorf("first sheet: want ErrNoColumns, got %v", err)
	}
	if _, err = FromExcel(context.Background(), path, Options{Sheet: "adcp", Log: quiet}); !errors.Is(err, ErrNoSheet) {
		t.Errorf("want ErrNoSheet, got %v", err)
	}
}

func TestFromExcelEdited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cast.xlsx")
	writeExcelTo(t, path, map[string][][]interface{}{
		"ctd": {{"depth"}, {1.0}},
	}, "ctd")
	d, err := FromExcel(context.Background(), path, Options{Log: quiet})
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 {
		t.Fatalf("length: want 1, got %d", d.Len())
	}

	writeExcelTo(t, path, map[string][][]interface{}{
		"ctd": {{"depth"}, {1.0}, {2.0}, {3.0}},
	}, "ctd")
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	d, err = FromExcel(context.Background(), path, Options{Log: quiet})
	if err != nil {
		t.Fatal(err)
	}
	if !sameValues(d.Depth.Data.Values(), []float64{1, 2, 3}) {
		t.Errorf("edited workbook: got %v", d.Depth.Data)
	}
}
