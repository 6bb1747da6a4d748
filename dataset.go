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
	"strings"
)

// Dataset holds Fields that share one sample index: element i of every
// Field describes observation i. The standard fields are held in named
// slots, which are nil when the dataset does not carry that quantity.
// Other quantities are registered as custom fields.
//
// A Dataset is not safe for concurrent use. Callers that share one should
// hand out copies made with Slice(Span{Stop: End}).
type Dataset struct {
	// Coordinates.
	Lat, Lon, Depth, Time *Field

	// Physical measurements.
	Temperature, Salinity, Density *Field

	// Velocity components and speed.
	U, V, W, Speed *Field

	// Bio-optical measurements.
	CDOM, Chlor, Turbidity *Field

	custom      map[string]*Field
	customOrder []string

	bounds *Bounds
}

// NewDataset creates a Dataset from the given standard fields. Each value
// in vars is either a *Field, which is used as it is, or raw data, which is
// wrapped in a Field with the default display metadata for its name. Nil
// values are skipped. Time data is normalized to UTC timestamps; numeric
// times are seconds since the Unix epoch. A *Field given for time is
// copied before it is normalized, so the caller's Field is left as it was.
// bounds, which may be nil, is kept as the dataset's bounding box.
func NewDataset(vars map[string]interface{}, bounds *Bounds) (*Dataset, error) {
	d := &Dataset{custom: make(map[string]*Field)}
	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		slot, ok := standardSlots[name]
		if !ok {
			return nil, fmt.Errorf("oceanplot: creating dataset: %w %q; standard fields are %s",
				ErrUnknownField, name, strings.Join(standardNames, ", "))
		}
		var f *Field
		switch v := vars[name].(type) {
		case nil:
			continue
		case *Field:
			if v == nil {
				continue
			}
			f = v
			if name == timeName {
				f = v.Clone()
			}
		default:
			var err error
			if f, err = NewStandardField(name, v); err != nil {
				return nil, fmt.Errorf("oceanplot: creating dataset: %w", err)
			}
		}
		if name == timeName {
			f.Data = f.Data.toUTC()
		}
		if err := d.checkLength(name, f); err != nil {
			return nil, fmt.Errorf("oceanplot: creating dataset: %w", err)
		}
		*slot(d) = f
	}
	if bounds != nil {
		if err := bounds.Validate(); err != nil {
			return nil, err
		}
		d.bounds = bounds
	}
	return d, nil
}

// Len returns the number of samples in each field, or 0 if the dataset
// has no fields.
func (d *Dataset) Len() int {
	n := 0
	d.eachField(func(_ string, f *Field) bool {
		n = f.Data.Len()
		return false
	})
	return n
}

// eachField calls fn for every populated field, standard fields first.
// Iteration stops when fn returns false.
func (d *Dataset) eachField(fn func(name string, f *Field) bool) {
	for _, name := range standardNames {
		if f := *standardSlots[name](d); f != nil {
			if !fn(name, f) {
				return
			}
		}
	}
	for _, name := range d.customOrder {
		if !fn(name, d.custom[name]) {
			return
		}
	}
}

// checkLength checks that f, to be stored under name, has the same length
// as every other populated field.
func (d *Dataset) checkLength(name string, f *Field) error {
	var err error
	d.eachField(func(other string, g *Field) bool {
		if other == name {
			return true
		}
		if g.Data.Len() != f.Data.Len() {
			err = fmt.Errorf("%w: field %q has %d samples but field %q has %d",
				ErrLengthMismatch, name, f.Data.Len(), other, g.Data.Len())
			return false
		}
		return true
	})
	return err
}

func unknownStandard(name string) error {
	return fmt.Errorf("oceanplot: %w %q; standard fields are %s", ErrUnknownField, name, strings.Join(standardNames, ", "))
}

func (d *Dataset) unknown(name string) error {
	return fmt.Errorf("oceanplot: %w %q; fields with data are %s", ErrUnknownField, name, strings.Join(d.FieldNames(WithData), ", "))
}

// Field returns the named standard or custom field. It returns nil if
// name is a standard field that the dataset does not carry.
func (d *Dataset) Field(name string) (*Field, error) {
	if slot, ok := standardSlots[name]; ok {
		return *slot(d), nil
	}
	if f, ok := d.custom[name]; ok {
		return f, nil
	}
	return nil, d.unknown(name)
}

// SetField replaces the named standard or custom field with f. A nil f
// clears a standard field. The metadata of f is used as it is.
func (d *Dataset) SetField(name string, f *Field) error {
	slot, standard := standardSlots[name]
	_, custom := d.custom[name]
	switch {
	case !standard && !custom:
		return d.unknown(name)
	case f == nil && standard:
		*slot(d) = nil
		return nil
	case f == nil:
		return fmt.Errorf("oceanplot: setting custom field %q: %w", name, ErrNotField)
	}
	if err := d.checkLength(name, f); err != nil {
		return fmt.Errorf("oceanplot: setting field %q: %w", name, err)
	}
	if standard {
		*slot(d) = f
	} else {
		d.custom[name] = f
	}
	return nil
}

// Has reports whether name is a populated standard field or a
// registered custom field.
func (d *Dataset) Has(name string) bool {
	if slot, ok := standardSlots[name]; ok {
		return *slot(d) != nil
	}
	_, ok := d.custom[name]
	return ok
}

// DataFilter selects field names by whether they hold data.
type DataFilter int

// Field name filters for FieldNames.
const (
	// AnyData selects every standard field name and every custom field.
	AnyData DataFilter = iota
	// WithData selects populated standard fields and every custom field.
	WithData
	// WithoutData selects standard fields that are not populated.
	WithoutData
)

// FieldNames returns field names chosen by filter: standard fields in
// display order followed by custom fields in registration order.
func (d *Dataset) FieldNames(filter DataFilter) []string {
	var o []string
	for _, name := range standardNames {
		populated := *standardSlots[name](d) != nil
		if filter == AnyData || (filter == WithData) == populated {
			o = append(o, name)
		}
	}
	if filter != WithoutData {
		o = append(o, d.customOrder...)
	}
	return o
}

// AddCustomField registers f under its own name. Names of standard
// fields and of already registered custom fields are only accepted when
// allowOverwrite is true; in that case the existing field is replaced.
func (d *Dataset) AddCustomField(f *Field, allowOverwrite bool) error {
	if f == nil {
		return fmt.Errorf("oceanplot: adding custom field: %w", ErrNotField)
	}
	name := f.Name
	slot, standard := standardSlots[name]
	_, custom := d.custom[name]
	if (standard || custom) && !allowOverwrite {
		return fmt.Errorf("oceanplot: adding custom field: %w: %q", ErrFieldExists, name)
	}
	if err := d.checkLength(name, f); err != nil {
		return fmt.Errorf("oceanplot: adding custom field: %w", err)
	}
	switch {
	case standard:
		*slot(d) = f
	case custom:
		d.custom[name] = f
	default:
		if d.custom == nil {
			d.custom = make(map[string]*Field)
		}
		d.custom[name] = f
		d.customOrder = append(d.customOrder, name)
	}
	return nil
}

// RemoveCustomField removes a registered custom field. Standard fields
// cannot be removed this way; use SetField(name, nil).
func (d *Dataset) RemoveCustomField(name string) error {
	if _, ok := d.custom[name]; !ok {
		return fmt.Errorf("oceanplot: removing field: %w: %q is not a custom field", ErrUnknownField, name)
	}
	delete(d.custom, name)
	for i, n := range d.customOrder {
		if n == name {
			d.customOrder = append(d.customOrder[:i], d.customOrder[i+1:]...)
			break
		}
	}
	return nil
}

// CheckRequired returns nil if every named field is known and populated.
// Empty names are ignored. It returns an error wrapping ErrMissingFields
// that names the missing fields, or ErrNoFieldsRequested if no names
// remain.
func (d *Dataset) CheckRequired(names ...string) error {
	var requested, missing []string
	for _, n := range names {
		if n == "" {
			continue
		}
		requested = append(requested, n)
		if !d.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(requested) == 0 {
		return fmt.Errorf("oceanplot: checking fields: %w", ErrNoFieldsRequested)
	}
	if len(missing) > 0 {
		return fmt.Errorf("oceanplot: %w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

// clone returns a deep copy of d.
func (d *Dataset) clone() *Dataset {
	o := &Dataset{
		custom:      make(map[string]*Field, len(d.custom)),
		customOrder: append([]string(nil), d.customOrder...),
		bounds:      d.bounds.Clone(),
	}
	for _, name := range standardNames {
		if f := *standardSlots[name](d); f != nil {
			*standardSlots[name](o) = f.Clone()
		}
	}
	for name, f := range d.custom {
		o.custom[name] = f.Clone()
	}
	return o
}

// Slice returns an independent copy of d in which the data of every
// populated field holds only the samples chosen by sel. Absent fields
// stay absent.
func (d *Dataset) Slice(sel Selector) (*Dataset, error) {
	idx, err := sel.Resolve(d.Len())
	if err != nil {
		return nil, fmt.Errorf("oceanplot: slicing dataset: %w", err)
	}
	o := d.clone()
	o.eachField(func(_ string, f *Field) bool {
		f.Data = f.Data.take(idx)
		return true
	})
	return o, nil
}

// NumericTime returns the time field as fractional days since
// 1970-01-01T00:00:00Z, the date convention of common plotting libraries.
// Missing times are NaN.
func (d *Dataset) NumericTime() ([]float64, error) {
	if d.Time == nil {
		return nil, fmt.Errorf("oceanplot: numeric time: %w", ErrNoTime)
	}
	const secondsPerDay = 86400.0
	a := d.Time.Data
	if !a.IsTime() {
		a = a.toUTC()
	}
	o := make([]float64, a.Len())
	for i, t := range a.Times() {
		if t.IsZero() {
			o[i] = math.NaN()
			continue
		}
		o[i] = float64(t.Unix())/secondsPerDay + float64(t.Nanosecond())/(secondsPerDay*1e9)
	}
	return o, nil
}

// Bounds returns the bounding box, or nil if it has not been set or detected.
func (d *Dataset) Bounds() *Bounds { return d.bounds }

// SetBounds replaces the bounding box. DetectBounds will return b until
// it is cleared.
func (d *Dataset) SetBounds(b *Bounds) error {
	if b != nil {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	d.bounds = b
	return nil
}

// ClearBounds forgets the bounding box so the next DetectBounds call
// recomputes it.
func (d *Dataset) ClearBounds() { d.bounds = nil }

// DetectBounds returns the dataset's bounding box, computing and storing
// it first if there is none. The latitude and longitude extents are each
// widened by padding times their own range, split evenly between both
// sides. The depth extent is the raw minimum (top) and maximum (bottom).
// Coordinates without data give nil extents. Once stored, the bounding
// box is returned unchanged whatever padding is requested.
func (d *Dataset) DetectBounds(padding float64) (*Bounds, error) {
	if d.bounds != nil {
		return d.bounds, nil
	}
	b := new(Bounds)
	for _, c := range []struct {
		f      *Field
		dst    **Extent
		padded bool
	}{
		{d.Lat, &b.Lat, true},
		{d.Lon, &b.Lon, true},
		{d.Depth, &b.Depth, false},
	} {
		if c.f == nil {
			continue
		}
		if c.f.Data.IsTime() {
			return nil, fmt.Errorf("oceanplot: detecting bounds: %w: field %q holds times", ErrConversion, c.f.Name)
		}
		if c.padded {
			*c.dst, _ = paddedExtent(c.f.Data.Values(), padding)
		} else {
			*c.dst, _ = extent(c.f.Data.Values())
		}
	}
	d.bounds = b
	return b, nil
}

// String lists the fields and bounding box of d.
func (d *Dataset) String() string {
	var b strings.Builder
	b.WriteString("{")
	names := d.FieldNames(AnyData)
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for i, name := range sorted {
		if i > 0 {
			b.WriteString(",\n ")
		}
		f, _ := d.Field(name)
		fmt.Fprintf(&b, "%q: %v", name, f)
	}
	if len(sorted) > 0 {
		b.WriteString(",\n ")
	}
	fmt.Fprintf(&b, "\"bounds\": %v}", d.bounds)
	return b.String()
}
