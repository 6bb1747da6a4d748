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
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Extent is a closed interval.
type Extent struct {
	Min, Max float64
}

func (e *Extent) String() string {
	if e == nil {
		return "<nil>"
	}
	return "[" + strconv.FormatFloat(e.Min, 'g', -1, 64) + ", " + strconv.FormatFloat(e.Max, 'g', -1, 64) + "]"
}

// Bounds is the spatial and vertical extent of a Dataset.
type Bounds struct {
	// Lat and Lon are the horizontal extents in degrees. Nil means unknown.
	Lat, Lon *Extent

	// Depth is the vertical extent, where Min is the top (for example 0
	// for the surface) and Max is the bottom, both as positive depths.
	Depth *Extent

	// VerticalScale multiplies depths when drawing in three dimensions.
	// Zero means no scaling.
	VerticalScale float64

	// VerticalUnits are the units of the vertical axis.
	VerticalUnits string
}

// Validate checks that no horizontal extent has a minimum larger than its
// maximum. A single-point extent, as detected from data at one position,
// is valid.
func (b *Bounds) Validate() error {
	if b.Lat != nil && !(b.Lat.Min <= b.Lat.Max) {
		return fmt.Errorf("oceanplot: %w: latitude minimum %g must not exceed maximum %g", ErrInvalidBounds, b.Lat.Min, b.Lat.Max)
	}
	if b.Lon != nil && !(b.Lon.Min <= b.Lon.Max) {
		return fmt.Errorf("oceanplot: %w: longitude minimum %g must not exceed maximum %g", ErrInvalidBounds, b.Lon.Min, b.Lon.Max)
	}
	return nil
}

// Clone returns a deep copy of b.
func (b *Bounds) Clone() *Bounds {
	if b == nil {
		return nil
	}
	o := *b
	for _, e := range []**Extent{&o.Lat, &o.Lon, &o.Depth} {
		if *e != nil {
			c := **e
			*e = &c
		}
	}
	return &o
}

// VerticalLabel returns the label of the vertical axis.
func (b *Bounds) VerticalLabel() string {
	if b.VerticalUnits == "" {
		return "Depth"
	}
	return "Depth (" + b.VerticalUnits + ")"
}

func (b *Bounds) String() string {
	if b == nil {
		return "<nil>"
	}
	return fmt.Sprintf("{depth: %v, lat: %v, lon: %v, vertical_scale: %g, vertical_units: %q}",
		b.Depth, b.Lat, b.Lon, b.VerticalScale, b.VerticalUnits)
}

// extent returns the NaN-ignoring minimum and maximum of v.
func extent(v []float64) (*Extent, bool) {
	x := dropNaN(v)
	if len(x) == 0 {
		return nil, false
	}
	return &Extent{Min: floats.Min(x), Max: floats.Max(x)}, true
}

// paddedExtent widens the extent of v by padding times its range,
// half on each side.
func paddedExtent(v []float64, padding float64) (*Extent, bool) {
	e, ok := extent(v)
	if !ok {
		return nil, false
	}
	pad := (e.Max - e.Min) * padding / 2
	if math.IsNaN(pad) || math.IsInf(pad, 0) {
		return e, true
	}
	e.Min -= pad
	e.Max += pad
	return e, true
}
