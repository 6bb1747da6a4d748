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
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/mat"
)

func different(a, b, tolerance float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) != math.IsNaN(b)
	}
	return math.Abs(a-b) > tolerance*math.Max(1, math.Abs(b))
}

func sameValues(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if different(a[i], b[i], 1.e-12) {
			return false
		}
	}
	return true
}

func TestNewArray(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		data   interface{}
		values []float64
		times  []time.Time
	}{
		{name: "float64", data: []float64{1, 2, 3}, values: []float64{1, 2, 3}},
		{name: "int", data: []int{4, 5}, values: []float64{4, 5}},
		{name: "float32 array", data: [2]float32{1.5, 2.5}, values: []float64{1.5, 2.5}},
		{name: "interface with missing", data: []interface{}{1.0, nil, "", "2"}, values: []float64{1, math.NaN(), math.NaN(), 2}},
		{name: "map by key", data: map[int]float64{2: 20, 0: 0, 1: 10}, values: []float64{0, 10, 20}},
		{name: "set", data: map[float64]struct{}{3: {}, 1: {}, 2: {}}, values: []float64{1, 2, 3}},
		{name: "bool set", data: map[string]bool{"2": true, "1": true}, values: []float64{1, 2}},
		{name: "vector", data: mat.NewVecDense(3, []float64{7, 8, 9}), values: []float64{7, 8, 9}},
		{name: "sparse", data: sparse.ZerosDense(2), values: []float64{0, 0}},
		{name: "times", data: []time.Time{t0, t0.Add(time.Hour)}, times: []time.Time{t0, t0.Add(time.Hour)}},
		{name: "time strings", data: []string{"2024-05-01T12:00:00Z", ""}, times: []time.Time{t0, {}}},
		{name: "empty", data: []float64{}, values: []float64{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a, err := NewArray(test.data)
			if err != nil {
				t.Fatal(err)
			}
			if test.times != nil {
				if !a.IsTime() {
					t.Fatalf("want time array, got %v", a)
				}
				if !reflect.DeepEqual(a.Times(), test.times) {
					t.Errorf("want %v, got %v", test.times, a.Times())
				}
				return
			}
			if a.IsTime() {
				t.Fatalf("want numeric array, got %v", a)
			}
			if !sameValues(a.Values(), test.values) {
				t.Errorf("want %v, got %v", test.values, a.Values())
			}
		})
	}
}

func TestNewArrayErrors(t *testing.T) {
	tests := []struct {
		name string
		data interface{}
	}{
		{name: "nil", data: nil},
		{name: "scalar", data: 3.0},
		{name: "nested", data: [][]float64{{1, 2}, {3, 4}}},
		{name: "matrix", data: mat.NewDense(2, 2, nil)},
		{name: "2d sparse", data: sparse.ZerosDense(2, 2)},
		{name: "words", data: []string{"a", "b"}},
		{name: "unordered keys", data: map[[2]int]float64{{1, 2}: 1}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewArray(test.data)
			if !errors.Is(err, ErrConversion) {
				t.Errorf("want ErrConversion, got %v", err)
			}
		})
	}
}

func TestArrayCopies(t *testing.T) {
	v := []float64{1, 2, 3}
	a := NumericArray(v)
	v[0] = 100
	if a.Values()[0] != 1 {
		t.Errorf("array shares memory with its input")
	}
	b := a.Clone()
	b.Values()[1] = 200
	if a.Values()[1] != 2 {
		t.Errorf("clone shares memory with the original")
	}
}

func TestArrayIndex(t *testing.T) {
	a := NumericArray([]float64{0, 1, 2, 3, 4, 5})
	tests := []struct {
		name string
		sel  Selector
		want []float64
	}{
		{name: "all", sel: Span{Stop: End}, want: []float64{0, 1, 2, 3, 4, 5}},
		{name: "head", sel: Span{Stop: 2}, want: []float64{0, 1}},
		{name: "tail", sel: Span{Start: -2, Stop: End}, want: []float64{4, 5}},
		{name: "step", sel: Span{Start: 1, Stop: End, Step: 2}, want: []float64{1, 3, 5}},
		{name: "reverse", sel: Span{Start: End, Stop: -End, Step: -1}, want: []float64{5, 4, 3, 2, 1, 0}},
		{name: "reverse part", sel: Span{Start: 4, Stop: 1, Step: -2}, want: []float64{4, 2}},
		{name: "clipped", sel: Span{Start: -100, Stop: 100}, want: []float64{0, 1, 2, 3, 4, 5}},
		{name: "empty", sel: Span{Start: 4, Stop: 2}, want: []float64{}},
		{name: "huge step", sel: Span{Start: 1, Stop: End, Step: End}, want: []float64{1}},
		{name: "huge negative step", sel: Span{Start: End, Stop: -End, Step: -End}, want: []float64{5}},
		{name: "minimum step", sel: Span{Start: -2, Stop: -End, Step: math.MinInt}, want: []float64{4}},
		{name: "indices", sel: Indices{0, -1, 2}, want: []float64{0, 5, 2}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := a.Index(test.sel)
			if err != nil {
				t.Fatal(err)
			}
			if !sameValues(b.Values(), test.want) {
				t.Errorf("want %v, got %v", test.want, b.Values())
			}
		})
	}
	if _, err := a.Index(Indices{6}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("want ErrIndexOutOfRange, got %v", err)
	}
	if _, err := a.Index(Indices{-7}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("want ErrIndexOutOfRange, got %v", err)
	}
}

func TestArrayString(t *testing.T) {
	tests := []struct {
		a    Array
		want string
	}{
		{a: NumericArray([]float64{1, 2.5, math.NaN()}), want: "[1 2.5 NaN]"},
		{a: NumericArray([]float64{1, 2, 3, 4, 5, 6, 7}), want: "[1 2 3 ...] (len=7)"},
		{a: TimeArray([]time.Time{time.Unix(0, 0).UTC(), {}}), want: "[1970-01-01T00:00:00Z NaT]"},
	}
	for _, test := range tests {
		if got := test.a.String(); got != test.want {
			t.Errorf("want %q, got %q", test.want, got)
		}
	}
}
