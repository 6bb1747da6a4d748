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

// Package load reads instrument datasets from CSV, NetCDF and Excel
// files. Source columns are matched to standard field names with
// MapVariables.
package load

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/oceanplot"
)

// Errors returned while loading files.
var (
	// ErrNoColumns is returned when a file has no header or no usable columns.
	ErrNoColumns = errors.New("load: no columns")

	// ErrMissingColumn is returned when a provided mapping names a column
	// that is not in the file.
	ErrMissingColumn = errors.New("load: mapped column not found")

	// ErrRaggedRow is returned when a row has a different number of cells
	// than the header.
	ErrRaggedRow = errors.New("load: row length differs from header")

	// ErrNoSheet is returned when a workbook has no sheet with the requested name.
	ErrNoSheet = errors.New("load: no such sheet")

	// ErrTimeUnits is returned when time units are not of the form
	// "<unit> since <epoch>".
	ErrTimeUnits = errors.New("load: invalid time units")
)

// Options control how files are loaded.
type Options struct {
	// Mapping overrides automatic matching of source names to standard
	// field names. See MapVariables.
	Mapping map[string]string

	// Sheet is the name of the worksheet to read from Excel files. If it
	// is empty the first sheet is read.
	Sheet string

	// InterpGlider enables interpolation of glider positions from the
	// m_time clock onto the time coordinate of NetCDF files.
	InterpGlider bool

	// Bounds is passed on to the new dataset.
	Bounds *oceanplot.Bounds

	// Log receives progress messages. If it is nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

func (o Options) log() logrus.FieldLogger {
	if o.Log == nil {
		return logrus.StandardLogger()
	}
	return o.Log
}

// table holds columns read from a file in their original order. Column
// data is []float64, []time.Time or []string.
type table struct {
	source string
	names  []string
	cols   map[string]interface{}
}

func newTable(source string) *table {
	return &table{source: source, cols: make(map[string]interface{})}
}

func (t *table) add(name string, data interface{}) {
	if _, ok := t.cols[name]; !ok {
		t.names = append(t.names, name)
	}
	t.cols[name] = data
}

func (t *table) remove(name string) {
	delete(t.cols, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			return
		}
	}
}

// dataset creates a Dataset from the columns matched to standard fields.
// String columns other than time are parsed as numbers.
func (t *table) dataset(opts Options) (*oceanplot.Dataset, error) {
	if len(t.names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoColumns, t.source)
	}
	mapping := MapVariables(t.names, opts.Mapping)
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w matching a standard field in %s (columns are %s)",
			ErrNoColumns, t.source, strings.Join(t.names, ", "))
	}
	vars := make(map[string]interface{}, len(mapping))
	fields := make(logrus.Fields, len(mapping))
	for key, col := range mapping {
		data, ok := t.cols[col]
		if !ok {
			return nil, fmt.Errorf("%w: %q (for %s) in %s", ErrMissingColumn, col, key, t.source)
		}
		if s, ok := data.([]string); ok && key != "time" {
			v, err := parseFloats(s)
			if err != nil {
				return nil, fmt.Errorf("load: column %q in %s: %w", col, t.source, err)
			}
			data = v
		}
		vars[key] = data
		fields[key] = col
	}
	opts.log().WithFields(fields).Debugf("load: matched %d of %d columns in %s", len(mapping), len(t.names), t.source)
	d, err := oceanplot.NewDataset(vars, opts.Bounds)
	if err != nil {
		return nil, fmt.Errorf("load: %s: %w", t.source, err)
	}
	return d, nil
}

// parseFloats parses numeric cells. Empty cells are missing values.
func parseFloats(s []string) ([]float64, error) {
	o := make([]float64, len(s))
	for i, c := range s {
		c = strings.TrimSpace(c)
		if c == "" {
			o[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %q is not a number", oceanplot.ErrConversion, i+1, c)
		}
		o[i] = v
	}
	return o, nil
}

// timeUnits holds the duration of each CF time unit.
var timeUnits = map[string]time.Duration{
	"days":         24 * time.Hour,
	"day":          24 * time.Hour,
	"d":            24 * time.Hour,
	"hours":        time.Hour,
	"hour":         time.Hour,
	"hr":           time.Hour,
	"h":            time.Hour,
	"minutes":      time.Minute,
	"minute":       time.Minute,
	"min":          time.Minute,
	"seconds":      time.Second,
	"second":       time.Second,
	"sec":          time.Second,
	"s":            time.Second,
	"milliseconds": time.Millisecond,
	"millisecond":  time.Millisecond,
	"ms":           time.Millisecond,
}

// parseTimeUnits parses CF-style units such as
// "seconds since 1970-01-01 00:00:00".
func parseTimeUnits(units string) (step time.Duration, epoch time.Time, err error) {
	parts := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(parts) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: %q", ErrTimeUnits, units)
	}
	step, ok := timeUnits[strings.ToLower(strings.TrimSpace(parts[0]))]
	if !ok {
		return 0, time.Time{}, fmt.Errorf("%w: unknown unit in %q", ErrTimeUnits, units)
	}
	epoch, err = parseEpoch(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: %q: %v", ErrTimeUnits, units, err)
	}
	return step, epoch, nil
}
