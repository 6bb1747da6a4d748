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

package oceanplot

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/palette"
)

// timeName is the name of the field whose value range is never computed.
const timeName = "time"

// Percentiles used to derive a Field's default value range.
const (
	lowerPercentile = 0.01
	upperPercentile = 0.99
)

// Field is a named one-dimensional series of observations together with
// the metadata needed to display it.
type Field struct {
	// Name identifies the field within its Dataset.
	Name string

	// Data holds the observations.
	Data Array

	// Colormap is the color-mapping policy for the field. If it is nil,
	// renderers choose their own.
	Colormap *Colormap

	// Units are appended to the label. Empty units are not displayed.
	Units string

	// VMin and VMax are the display range. NaN means unset.
	VMin, VMax float64

	// Label is the axis or colorbar label. If it is empty, GetLabel
	// computes one from Name and Units.
	Label string
}

// FieldOption sets an optional Field attribute.
type FieldOption func(*Field)

// WithColormap sets the Field colormap.
func WithColormap(c *Colormap) FieldOption {
	return func(f *Field) { f.Colormap = c }
}

// WithUnits sets the Field units.
func WithUnits(units string) FieldOption {
	return func(f *Field) { f.Units = units }
}

// WithRange sets both display limits.
func WithRange(min, max float64) FieldOption {
	return func(f *Field) { f.VMin, f.VMax = min, max }
}

// WithMin sets the lower display limit.
func WithMin(min float64) FieldOption {
	return func(f *Field) { f.VMin = min }
}

// WithMax sets the upper display limit.
func WithMax(max float64) FieldOption {
	return func(f *Field) { f.VMax = max }
}

// WithLabel sets the Field label.
func WithLabel(label string) FieldOption {
	return func(f *Field) { f.Label = label }
}

// NewField creates a Field from data, which may be any input accepted by
// NewArray. Unless the field is named "time", display limits that are not
// set by an option are computed from the 1st and 99th percentiles of the
// non-missing data.
func NewField(name string, data interface{}, opts ...FieldOption) (*Field, error) {
	a, err := NewArray(data)
	if err != nil {
		return nil, fmt.Errorf("oceanplot: field %q: %w", name, err)
	}
	f := &Field{
		Name: name,
		Data: a,
		VMin: math.NaN(),
		VMax: math.NaN(),
	}
	for _, o := range opts {
		o(f)
	}
	f.fillRange()
	return f, nil
}

// fillRange computes any unset display limits from the data.
func (f *Field) fillRange() {
	if f.Name == timeName || f.Data.IsTime() {
		return
	}
	if !math.IsNaN(f.VMin) && !math.IsNaN(f.VMax) {
		return
	}
	lo, hi, ok := percentileRange(f.Data.Values())
	if !ok {
		return
	}
	if math.IsNaN(f.VMin) {
		f.VMin = lo
	}
	if math.IsNaN(f.VMax) {
		f.VMax = hi
	}
}

// percentileRange returns the lower and upper percentiles of the non-NaN
// values in v. ok is false if there are no such values.
func percentileRange(v []float64) (lo, hi float64, ok bool) {
	x := dropNaN(v)
	if len(x) == 0 {
		return math.NaN(), math.NaN(), false
	}
	sort.Float64s(x)
	lo = stat.Quantile(lowerPercentile, stat.Empirical, x, nil)
	hi = stat.Quantile(upperPercentile, stat.Empirical, x, nil)
	return lo, hi, true
}

// dropNaN returns a copy of v without its NaN values.
func dropNaN(v []float64) []float64 {
	o := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) {
			o = append(o, x)
		}
	}
	return o
}

// ResetRange discards the display limits and recomputes them from the
// current data.
func (f *Field) ResetRange() {
	f.VMin, f.VMax = math.NaN(), math.NaN()
	f.fillRange()
}

// GetLabel returns the field label, computing and storing it first if it
// has not been set.
func (f *Field) GetLabel() string {
	if f.Label == "" {
		f.Label = capitalize(f.Name)
		if f.Units != "" {
			f.Label += " (" + f.Units + ")"
		}
	}
	return f.Label
}

// ResetLabel clears the stored label so that the next call to GetLabel
// recomputes it.
func (f *Field) ResetLabel() { f.Label = "" }

// capitalize upper-cases the first letter of s and lower-cases the rest.
func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[n:])
}

// ColorMap returns a new color map for the field spanning its display
// limits. It returns nil if the field has no colormap.
func (f *Field) ColorMap() (palette.ColorMap, error) {
	if f.Colormap == nil {
		return nil, nil
	}
	return f.Colormap.New(f.VMin, f.VMax)
}

// Clone returns a deep copy of f.
func (f *Field) Clone() *Field {
	o := *f
	o.Data = f.Data.Clone()
	if f.Colormap != nil {
		c := *f.Colormap
		o.Colormap = &c
	}
	return &o
}

type fieldAttribute struct {
	get func(f *Field) interface{}
	set func(f *Field, v interface{}) error
}

// fieldAttributes is the dispatch table for Get and Set.
var fieldAttributes = map[string]fieldAttribute{
	"data": {
		get: func(f *Field) interface{} { return f.Data },
		set: func(f *Field, v interface{}) error {
			a, err := NewArray(v)
			if err != nil {
				return err
			}
			f.Data = a
			return nil
		},
	},
	"name": {
		get: func(f *Field) interface{} { return f.Name },
		set: func(f *Field, v interface{}) error {
			s, err := cast.ToStringE(v)
			if err != nil {
				return fmt.Errorf("%w: name: %v", ErrConversion, err)
			}
			f.Name = s
			return nil
		},
	},
	"cmap": {
		get: func(f *Field) interface{} { return f.Colormap },
		set: func(f *Field, v interface{}) error {
			switch c := v.(type) {
			case nil:
				f.Colormap = nil
			case *Colormap:
				f.Colormap = c
			case Colormap:
				f.Colormap = &c
			case string:
				cm, err := NamedColormap(c)
				if err != nil {
					return err
				}
				f.Colormap = cm
			default:
				return fmt.Errorf("%w: cmap: %T is not a colormap", ErrConversion, v)
			}
			return nil
		},
	},
	"units": {
		get: func(f *Field) interface{} { return f.Units },
		set: func(f *Field, v interface{}) error {
			if v == nil {
				f.Units = ""
				return nil
			}
			s, err := cast.ToStringE(v)
			if err != nil {
				return fmt.Errorf("%w: units: %v", ErrConversion, err)
			}
			f.Units = s
			return nil
		},
	},
	"vmin": {
		get: func(f *Field) interface{} { return f.VMin },
		set: func(f *Field, v interface{}) error { return setLimit(&f.VMin, "vmin", v) },
	},
	"vmax": {
		get: func(f *Field) interface{} { return f.VMax },
		set: func(f *Field, v interface{}) error { return setLimit(&f.VMax, "vmax", v) },
	},
	"label": {
		get: func(f *Field) interface{} { return f.Label },
		set: func(f *Field, v interface{}) error {
			if v == nil {
				f.Label = ""
				return nil
			}
			s, err := cast.ToStringE(v)
			if err != nil {
				return fmt.Errorf("%w: label: %v", ErrConversion, err)
			}
			f.Label = s
			return nil
		},
	},
}

func setLimit(dst *float64, name string, v interface{}) error {
	if v == nil {
		*dst = math.NaN()
		return nil
	}
	x, err := cast.ToFloat64E(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConversion, name, err)
	}
	*dst = x
	return nil
}

// Attributes returns the names accepted by Get and Set, in sorted order.
func (f *Field) Attributes() []string {
	names := make([]string, 0, len(fieldAttributes))
	for n := range fieldAttributes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the named attribute.
func (f *Field) Get(attr string) (interface{}, error) {
	a, ok := fieldAttributes[attr]
	if !ok {
		return nil, fmt.Errorf("oceanplot: %w %q; valid attributes are %s", ErrUnknownAttribute, attr, strings.Join(f.Attributes(), ", "))
	}
	return a.get(f), nil
}

// Set sets the named attribute. Derived attributes such as the label and
// the display limits are not recomputed.
func (f *Field) Set(attr string, v interface{}) error {
	a, ok := fieldAttributes[attr]
	if !ok {
		return fmt.Errorf("oceanplot: %w %q; valid attributes are %s", ErrUnknownAttribute, attr, strings.Join(f.Attributes(), ", "))
	}
	if err := a.set(f, v); err != nil {
		return fmt.Errorf("oceanplot: field %q: %w", f.Name, err)
	}
	return nil
}

// String lists every attribute of f in sorted order. Long data arrays are
// summarized.
func (f *Field) String() string {
	if f == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(fieldAttributes))
	for _, n := range f.Attributes() {
		var s string
		switch n {
		case "vmin":
			s = formatLimit(f.VMin)
		case "vmax":
			s = formatLimit(f.VMax)
		case "name", "units", "label":
			s = strconv.Quote(fieldAttributes[n].get(f).(string))
		default:
			s = fmt.Sprint(fieldAttributes[n].get(f))
		}
		parts = append(parts, n+": "+s)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatLimit(v float64) string {
	if math.IsNaN(v) {
		return "<unset>"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
