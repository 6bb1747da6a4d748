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
	"reflect"
	"sort"
	"time"

	"github.com/ctessum/sparse"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/mat"
)

// Array is a flat sequence of observations. It holds either numeric values,
// where NaN marks a missing sample, or timestamps, where the zero time
// marks a missing sample.
type Array struct {
	values []float64
	times  []time.Time
	isTime bool
}

// NumericArray returns an Array holding a copy of v.
func NumericArray(v []float64) Array {
	o := make([]float64, len(v))
	copy(o, v)
	return Array{values: o}
}

// TimeArray returns an Array holding a copy of t.
func TimeArray(t []time.Time) Array {
	o := make([]time.Time, len(t))
	copy(o, t)
	return Array{times: o, isTime: true}
}

// NewArray converts data into a flat Array. Supported inputs are
// slices and arrays of numbers, strings, timestamps or interface values,
// gonum vectors, one-dimensional sparse.DenseArrays, maps with numeric or
// string keys (values are taken in key order) and sets, which are maps
// with struct{} or bool values (keys are taken in sorted order).
// Strings are numeric if every non-empty element parses as a number and
// are otherwise parsed as timestamps.
func NewArray(data interface{}) (Array, error) {
	switch d := data.(type) {
	case nil:
		return Array{}, fmt.Errorf("oceanplot: %w: no data", ErrConversion)
	case Array:
		return d.Clone(), nil
	case *Array:
		if d == nil {
			return Array{}, fmt.Errorf("oceanplot: %w: no data", ErrConversion)
		}
		return d.Clone(), nil
	case []float64:
		return NumericArray(d), nil
	case []time.Time:
		return TimeArray(d), nil
	case *sparse.DenseArray:
		if len(d.Shape) != 1 {
			return Array{}, fmt.Errorf("oceanplot: %w: array has %d dimensions; it must be flat", ErrConversion, len(d.Shape))
		}
		return NumericArray(d.Elements), nil
	case mat.Vector:
		o := make([]float64, d.Len())
		for i := range o {
			o[i] = d.AtVec(i)
		}
		return Array{values: o}, nil
	case mat.Matrix:
		return Array{}, fmt.Errorf("oceanplot: %w: %T is a matrix; it must be flat", ErrConversion, data)
	}
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]interface{}, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return fromElements(elems)
	case reflect.Map:
		return fromMap(rv)
	}
	return Array{}, fmt.Errorf("oceanplot: %w: %T is not a sequence", ErrConversion, data)
}

// fromMap converts a map into an Array. Sets contribute their keys, and
// all other maps contribute their values ordered by key.
func fromMap(rv reflect.Value) (Array, error) {
	keys := rv.MapKeys()
	if err := sortKeys(keys); err != nil {
		return Array{}, err
	}
	elem := rv.Type().Elem()
	isSet := elem.Kind() == reflect.Bool || (elem.Kind() == reflect.Struct && elem.NumField() == 0)
	elems := make([]interface{}, len(keys))
	for i, k := range keys {
		if isSet {
			elems[i] = k.Interface()
		} else {
			elems[i] = rv.MapIndex(k).Interface()
		}
	}
	return fromElements(elems)
}

// sortKeys sorts map keys in place. Only numeric and string keys have an
// ordering.
func sortKeys(keys []reflect.Value) error {
	if len(keys) == 0 {
		return nil
	}
	var less func(a, b reflect.Value) bool
	switch keys[0].Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		less = func(a, b reflect.Value) bool { return a.Int() < b.Int() }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		less = func(a, b reflect.Value) bool { return a.Uint() < b.Uint() }
	case reflect.Float32, reflect.Float64:
		less = func(a, b reflect.Value) bool { return a.Float() < b.Float() }
	case reflect.String:
		less = func(a, b reflect.Value) bool { return a.String() < b.String() }
	default:
		return fmt.Errorf("oceanplot: %w: map keys of type %s have no ordering", ErrConversion, keys[0].Type())
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return nil
}

// fromElements converts individual values into an Array. A nil element or
// an empty string is a missing sample.
func fromElements(elems []interface{}) (Array, error) {
	allTimes := true
	for _, e := range elems {
		if e == nil {
			continue
		}
		switch reflect.TypeOf(e).Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return Array{}, fmt.Errorf("oceanplot: %w: element of type %T is not a scalar; data must be flat", ErrConversion, e)
		}
		if _, ok := e.(time.Time); !ok {
			allTimes = false
		}
	}
	if allTimes && len(elems) > 0 {
		return timesFromElements(elems)
	}
	o := make([]float64, len(elems))
	for i, e := range elems {
		if missing(e) {
			o[i] = math.NaN()
			continue
		}
		v, err := cast.ToFloat64E(e)
		if err != nil {
			return timesFromElements(elems)
		}
		o[i] = v
	}
	return Array{values: o}, nil
}

func timesFromElements(elems []interface{}) (Array, error) {
	o := make([]time.Time, len(elems))
	for i, e := range elems {
		if missing(e) {
			continue
		}
		t, err := cast.ToTimeE(e)
		if err != nil {
			return Array{}, fmt.Errorf("oceanplot: %w: element %d (%v) is neither a number nor a time", ErrConversion, i, e)
		}
		o[i] = t.UTC()
	}
	return Array{times: o, isTime: true}, nil
}

func missing(e interface{}) bool {
	if e == nil {
		return true
	}
	s, ok := e.(string)
	return ok && s == ""
}

// Len returns the number of samples.
func (a Array) Len() int {
	if a.isTime {
		return len(a.times)
	}
	return len(a.values)
}

// IsTime reports whether a holds timestamps rather than numbers.
func (a Array) IsTime() bool { return a.isTime }

// Values returns the numeric samples. It returns nil for time arrays.
// The returned slice shares memory with a.
func (a Array) Values() []float64 { return a.values }

// Times returns the timestamps. It returns nil for numeric arrays.
// The returned slice shares memory with a.
func (a Array) Times() []time.Time { return a.times }

// Clone returns a deep copy of a.
func (a Array) Clone() Array {
	if a.isTime {
		return TimeArray(a.times)
	}
	if a.values == nil {
		return Array{}
	}
	return NumericArray(a.values)
}

// Index returns a new Array holding the samples chosen by sel.
func (a Array) Index(sel Selector) (Array, error) {
	idx, err := sel.Resolve(a.Len())
	if err != nil {
		return Array{}, err
	}
	return a.take(idx), nil
}

// take returns the samples at the given (already validated) positions.
func (a Array) take(idx []int) Array {
	if a.isTime {
		o := make([]time.Time, len(idx))
		for i, j := range idx {
			o[i] = a.times[j]
		}
		return Array{times: o, isTime: true}
	}
	o := make([]float64, len(idx))
	for i, j := range idx {
		o[i] = a.values[j]
	}
	return Array{values: o}
}

// toUTC returns a as a time array. Numeric samples are seconds since the
// Unix epoch and NaN samples become the zero time.
func (a Array) toUTC() Array {
	o := make([]time.Time, a.Len())
	if a.isTime {
		for i, t := range a.times {
			if !t.IsZero() {
				o[i] = t.UTC()
			}
		}
		return Array{times: o, isTime: true}
	}
	for i, v := range a.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sec, frac := math.Modf(v)
		o[i] = time.Unix(int64(sec), int64(frac*1e9)).UTC()
	}
	return Array{times: o, isTime: true}
}

// String summarizes a, printing at most the first few samples.
func (a Array) String() string {
	const maxShown, shown = 6, 3
	n := a.Len()
	limit := n
	if n > maxShown {
		limit = shown
	}
	s := "["
	for i := 0; i < limit; i++ {
		if i > 0 {
			s += " "
		}
		if a.isTime {
			if a.times[i].IsZero() {
				s += "NaT"
			} else {
				s += a.times[i].Format(time.RFC3339Nano)
			}
		} else {
			s += fmt.Sprintf("%g", a.values[i])
		}
	}
	if n > maxShown {
		return fmt.Sprintf("%s ...] (len=%d)", s, n)
	}
	return s + "]"
}
