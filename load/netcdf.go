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
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/oceanplot"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/interp"
)

// Names of the glider variables used by InterpGlider.
const (
	gliderClock = "m_time"
	gliderLat   = "latitude"
	gliderLon   = "longitude"
	timeVar     = "time"
)

// FromNetCDF reads a dataset from the one-dimensional variables of a
// NetCDF file. Variables with CF time units ("<unit> since <epoch>") are
// decoded as timestamps. Values equal to a variable's _FillValue or
// missing_value attribute are missing.
func FromNetCDF(rw cdf.ReaderWriterAt, opts Options) (*oceanplot.Dataset, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("load: opening netcdf: %w", err)
	}
	t := newTable("netcdf file")
	for _, v := range f.Header.Variables() {
		dims := f.Header.Lengths(v)
		if len(dims) != 1 {
			opts.log().Debugf("load: skipping %d-dimensional netcdf variable %s", len(dims), v)
			continue
		}
		data, err := readVariable(f, v)
		if err != nil {
			return nil, err
		}
		if data == nil {
			opts.log().Debugf("load: skipping non-numeric netcdf variable %s", v)
			continue
		}
		units, _ := f.Header.GetAttribute(v, "units").(string)
		if strings.Contains(units, " since ") {
			times, err := decodeTimes(data, units)
			if err != nil {
				return nil, fmt.Errorf("load: netcdf variable %s: %w", v, err)
			}
			t.add(v, times)
			continue
		}
		t.add(v, data)
	}
	if opts.InterpGlider {
		if err := interpGlider(t); err != nil {
			return nil, err
		}
	}
	return t.dataset(opts)
}

// readVariable reads a numeric variable as float64 values. It returns nil
// for character variables.
func readVariable(f *cdf.File, v string) ([]float64, error) {
	r := f.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("load: reading netcdf variable %s: %w", v, err)
	}
	data := toFloats(buf)
	if data == nil {
		return nil, nil
	}
	for _, a := range []string{"_FillValue", "missing_value"} {
		fill := toFloats(f.Header.GetAttribute(v, a))
		if len(fill) == 0 {
			continue
		}
		for i, x := range data {
			if x == fill[0] {
				data[i] = math.NaN()
			}
		}
	}
	return data, nil
}

// toFloats converts a numeric netcdf value to float64. It returns nil for
// other types.
func toFloats(v interface{}) []float64 {
	var o []float64
	switch b := v.(type) {
	case []float64:
		o = append(o, b...)
	case []float32:
		o = make([]float64, len(b))
		for i, x := range b {
			o[i] = float64(x)
		}
	case []int32:
		o = make([]float64, len(b))
		for i, x := range b {
			o[i] = float64(x)
		}
	case []int16:
		o = make([]float64, len(b))
		for i, x := range b {
			o[i] = float64(x)
		}
	case []int8:
		o = make([]float64, len(b))
		for i, x := range b {
			o[i] = float64(x)
		}
	}
	return o
}

// decodeTimes converts time offsets with CF units to timestamps. Missing
// offsets become the zero time.
func decodeTimes(offsets []float64, units string) ([]time.Time, error) {
	step, epoch, err := parseTimeUnits(units)
	if err != nil {
		return nil, err
	}
	o := make([]time.Time, len(offsets))
	for i, x := range offsets {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		// Offsets from distant epochs overflow a time.Duration, so whole
		// seconds and the remainder are added separately.
		secs := x * step.Seconds()
		whole := math.Floor(secs)
		nsec := int64(math.Round((secs - whole) * 1e9))
		o[i] = time.Unix(epoch.Unix()+int64(whole), int64(epoch.Nanosecond())+nsec).UTC()
	}
	return o, nil
}

// epochLayouts are reference time layouts common in CF files that are
// not understood by cast.
var epochLayouts = []string{
	"2006-1-2 15:4:5.999999999",
	"2006-1-2 15:4:5",
	"2006-1-2 15:4",
	"2006-1-2",
}

// parseEpoch parses the reference time of CF time units.
func parseEpoch(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), " UTC")
	for _, layout := range epochLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	t, err := cast.ToTimeE(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// interpGlider replaces the latitude and longitude columns, which gliders
// record on the m_time clock, with their linear interpolation onto the
// time column. Missing positions are ignored and positions before the
// first or after the last fix take the value of the nearest fix. The
// m_time column is removed.
func interpGlider(t *table) error {
	for _, name := range []string{gliderClock, timeVar, gliderLat, gliderLon} {
		if _, ok := t.cols[name]; !ok {
			return fmt.Errorf("load: glider interpolation: %w: %q", ErrMissingColumn, name)
		}
	}
	clock, err := seconds(t.cols[gliderClock])
	if err != nil {
		return err
	}
	target, err := seconds(t.cols[timeVar])
	if err != nil {
		return err
	}
	for _, name := range []string{gliderLat, gliderLon} {
		pos, ok := t.cols[name].([]float64)
		if !ok {
			return fmt.Errorf("load: glider interpolation: %w: %s is not numeric", oceanplot.ErrConversion, name)
		}
		if len(pos) != len(clock) {
			return fmt.Errorf("load: glider interpolation: %w: %s has %d values and %s has %d",
				oceanplot.ErrLengthMismatch, name, len(pos), gliderClock, len(clock))
		}
		v, err := interpolate(clock, pos, target)
		if err != nil {
			return fmt.Errorf("load: glider interpolation of %s: %w", name, err)
		}
		t.add(name, v)
	}
	t.remove(gliderClock)
	return nil
}

// seconds converts a time column to seconds since the Unix epoch.
func seconds(col interface{}) ([]float64, error) {
	switch c := col.(type) {
	case []float64:
		return c, nil
	case []time.Time:
		o := make([]float64, len(c))
		for i, x := range c {
			if x.IsZero() {
				o[i] = math.NaN()
				continue
			}
			o[i] = float64(x.UnixNano()) / 1e9
		}
		return o, nil
	}
	return nil, fmt.Errorf("load: %w: %T is not a time column", oceanplot.ErrConversion, col)
}

// interpolate evaluates the piecewise linear function through the
// non-missing (x, y) pairs at each of xs. Repeated x values keep their
// first y value.
func interpolate(x, y, xs []float64) ([]float64, error) {
	type pair struct{ x, y float64 }
	pairs := make([]pair, 0, len(x))
	for i := range x {
		if !math.IsNaN(x[i]) && !math.IsNaN(y[i]) {
			pairs = append(pairs, pair{x[i], y[i]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].x < pairs[j].x })
	var px, py []float64
	for i, p := range pairs {
		if i > 0 && p.x == pairs[i-1].x {
			continue
		}
		px = append(px, p.x)
		py = append(py, p.y)
	}

	o := make([]float64, len(xs))
	switch len(px) {
	case 0:
		for i := range o {
			o[i] = math.NaN()
		}
		return o, nil
	case 1:
		for i, v := range xs {
			o[i] = py[0]
			if math.IsNaN(v) {
				o[i] = math.NaN()
			}
		}
		return o, nil
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(px, py); err != nil {
		return nil, err
	}
	for i, v := range xs {
		if math.IsNaN(v) {
			o[i] = math.NaN()
			continue
		}
		o[i] = pl.Predict(v)
	}
	return o, nil
}
