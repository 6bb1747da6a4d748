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
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ctessum/cdf"
)

type ncVar struct {
	name  string
	data  interface{}
	attrs map[string]interface{}
}

// writeNetCDF creates a NetCDF file with one dimension, "obs", holding the
// given variables, and returns it open for reading.
func writeNetCDF(t *testing.T, n int, vars []ncVar) *os.File {
	t.Helper()
	w, err := os.Create(filepath.Join(t.TempDir(), "test.nc"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { w.Close() })
	h := cdf.NewHeader([]string{"obs"}, []int{n})
	h.AddAttribute("", "comment", "oceanplot test file")
	for _, v := range vars {
		switch v.data.(type) {
		case []float64:
			h.AddVariable(v.name, []string{"obs"}, []float64{0})
		case []float32:
			h.AddVariable(v.name, []string{"obs"}, []float32{0})
		case []int32:
			h.AddVariable(v.name, []string{"obs"}, []int32{0})
		}
		for a, val := range v.attrs {
			h.AddAttribute(v.name, a, val)
		}
	}
	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vars {
		end := f.Header.Lengths(v.name)
		start := make([]int, len(end))
		if _, err := f.Writer(v.name, start, end).Write(v.data); err != nil {
			t.Fatalf("writing %s: %v", v.name, err)
		}
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestFromNetCDF(t *testing.T) {
	nan := float32(math.NaN())
	f := writeNetCDF(t, 4, []ncVar{
		{name: "time", data: []float64{0, 1, 2, 3}, attrs: map[string]interface{}{"units": "hours since 2024-01-01 00:00:00"}},
		{name: "m_time", data: []float64{0, 2, 4, 6}, attrs: map[string]interface{}{"units": "hours since 2024-01-01 00:00:00"}},
		{name: "latitude", data: []float32{10, nan, 14, 16}},
		{name: "longitude", data: []float64{100, 102, 104, 106}},
		{name: "temperature", data: []float32{20, -999, 21, 22}, attrs: map[string]interface{}{"_FillValue": []float32{-999}, "units": "degC"}},
		{name: "profile_id", data: []int32{1, 1, 2, 2}},
	})

	d, err := FromNetCDF(f, Options{Log: quiet})
	if err != nil {
		t.Fatal(err)
	}
	if !sameValues(d.Lat.Data.Values(), []float64{10, math.NaN(), 14, 16}) {
		t.Errorf("lat: %v", d.Lat.Data)
	}
	if !sameValues(d.Temperature.Data.Values(), []float64{20, math.NaN(), 21, 22}) {
		t.Errorf("temperature: %v", d.Temperature.Data)
	}
	want := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	if got := d.Time.Data.Times()[3]; !got.Equal(want) {
		t.Errorf("time: want %v, got %v", want, got)
	}

	d, err = FromNetCDF(f, Options{InterpGlider: true, Log: quiet})
	if err != nil {
		t.Fatal(err)
	}
	if !sameValues(d.Lat.Data.Values(), []float64{10, 11, 12, 13}) {
		t.Errorf("interpolated lat: %v", d.Lat.Data)
	}
	if !sameValues(d.Lon.Data.Values(), []float64{100, 101, 102, 103}) {
		t.Errorf("interpolated lon: %v", d.Lon.Data)
	}
}

func TestFromNetCDFErrors(t *testing.T) {
	f := writeNetCDF(t, 2, []ncVar{
		{name: "time", data: []float64{0, 1}, attrs: map[string]interface{}{"units": "fortnights since 2024-01-01"}},
	})
	if _, err := FromNetCDF(f, Options{Log: quiet}); !errors.Is(err, ErrTimeUnits) {
		t.Errorf("want ErrTimeUnits, got %v", err)
	}

	f = writeNetCDF(t, 2, []ncVar{
		{name: "time", data: []float64{0, 1}},
		{name: "latitude", data: []float64{0, 1}},
	})
	if _, err := FromNetCDF(f, Options{InterpGlider: true, Log: quiet}); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("want ErrMissingColumn, got %v", err)
	}
}

func TestParseTimeUnits(t *testing.T) {
	tests := []struct {
		units string
		step  time.Duration
		epoch time.Time
	}{
		{units: "seconds since 1970-01-01", step: time.Second, epoch: time.Unix(0, 0)},
		{units: "days since 2000-1-1 00:00:00 UTC", step: 24 * time.Hour, epoch: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{units: "Minutes since 2020-06-01T12:00:00Z", step: time.Minute, epoch: time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	for _, test := range tests {
		step, epoch, err := parseTimeUnits(test.units)
		if err != nil {
			t.Errorf("%s: %v", test.units, err)
			continue
		}
		if step != test.step || !epoch.Equal(test.epoch) {
			t.Errorf("%s: got %v since %v", test.units, step, epoch)
		}
	}
	for _, bad := range []string{"seconds", "seconds since yesterday", "weeks since 2000-01-01"} {
		if _, _, err := parseTimeUnits(bad); !errors.Is(err, ErrTimeUnits) {
			t.Errorf("%s: want ErrTimeUnits, got %v", bad, err)
		}
	}
}

func TestDecodeTimes(t *testing.T) {
	epoch := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		units   string
		offsets []float64
		want    []time.Time
	}{
		{
			units:   "days since 0001-01-01",
			offsets: []float64{738000, 0.5, math.NaN()},
			want:    []time.Time{epoch.AddDate(0, 0, 738000), epoch.Add(12 * time.Hour), {}},
		},
		{
			units:   "days since 1900-01-01 00:00:00",
			offsets: []float64{45000},
			want:    []time.Time{time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 45000)},
		},
		{
			units:   "seconds since 1970-01-01",
			offsets: []float64{-1.25},
			want:    []time.Time{time.Unix(-2, 750000000).UTC()},
		},
	}
	for _, test := range tests {
		got, err := decodeTimes(test.offsets, test.units)
		if err != nil {
			t.Errorf("%s: %v", test.units, err)
			continue
		}
		for i, w := range test.want {
			if !got[i].Equal(w) {
				t.Errorf("%s: offset %g: want %v, got %v", test.units, test.offsets[i], w, got[i])
			}
		}
	}
}

func TestInterpolate(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name     string
		x, y, xs []float64
		want     []float64
	}{
		{name: "clamped", x: []float64{1, 2}, y: []float64{10, 20}, xs: []float64{0, 1.5, 3}, want: []float64{10, 15, 20}},
		{name: "unsorted", x: []float64{2, 1, 1}, y: []float64{20, 10, 99}, xs: []float64{1.25}, want: []float64{12.5}},
		{name: "single", x: []float64{1, 2}, y: []float64{nan, 5}, xs: []float64{0, nan}, want: []float64{5, nan}},
		{name: "none", x: []float64{1}, y: []float64{nan}, xs: []float64{0}, want: []float64{nan}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := interpolate(test.x, test.y, test.xs)
			if err != nil {
				t.Fatal(err)
			}
			if !sameValues(got, test.want) {
				t.Errorf("want %v, got %v", test.want, got)
			}
		})
	}
}
