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

package bathy

import (
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Names of the variables read from seafloor files.
const (
	latVar       = "lat"
	lonVar       = "lon"
	elevationVar = "elevation"
)

// seafloor is a regular grid of seafloor elevations, with rows along
// latitude and columns along longitude.
type seafloor struct {
	lat, lon  []float64
	elevation *sparse.DenseArray
}

// readSeafloor reads the lat, lon and elevation variables of a NetCDF
// file. Elevation may be stored as (lat, lon) or (lon, lat).
func readSeafloor(path string) (*seafloor, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bathy: %w", err)
	}
	defer r.Close()
	f, err := cdf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("bathy: opening %s: %w", path, err)
	}
	s := new(seafloor)
	if s.lat, err = readFloats(f, latVar); err != nil {
		return nil, err
	}
	if s.lon, err = readFloats(f, lonVar); err != nil {
		return nil, err
	}
	elev, err := readFloats(f, elevationVar)
	if err != nil {
		return nil, err
	}
	dims := f.Header.Dimensions(elevationVar)
	if len(dims) != 2 {
		return nil, fmt.Errorf("bathy: %s in %s has %d dimensions; it must have 2", elevationVar, path, len(dims))
	}
	nlat, nlon := len(s.lat), len(s.lon)
	if len(elev) != nlat*nlon {
		return nil, fmt.Errorf("bathy: %s in %s has %d values but the grid has %d", elevationVar, path, len(elev), nlat*nlon)
	}
	s.elevation = sparse.ZerosDense(nlat, nlon)
	switch {
	case dims[0] == latVar && dims[1] == lonVar:
		copy(s.elevation.Elements, elev)
	case dims[0] == lonVar && dims[1] == latVar:
		for i := 0; i < nlon; i++ {
			for j := 0; j < nlat; j++ {
				s.elevation.Set(elev[i*nlat+j], j, i)
			}
		}
	default:
		return nil, fmt.Errorf("bathy: %s in %s has dimensions %v; want (%s, %s)", elevationVar, path, dims, latVar, lonVar)
	}
	return s, nil
}

// readFloats reads a numeric variable. Values equal to its _FillValue
// are NaN.
func readFloats(f *cdf.File, v string) ([]float64, error) {
	if len(f.Header.Lengths(v)) == 0 {
		return nil, fmt.Errorf("bathy: variable %s not in file", v)
	}
	r := f.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("bathy: reading variable %s: %w", v, err)
	}
	var o []float64
	switch b := buf.(type) {
	case []float64:
		o = b
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
	default:
		return nil, fmt.Errorf("bathy: variable %s has unsupported type %T", v, buf)
	}
	var fill float64
	switch a := f.Header.GetAttribute(v, "_FillValue").(type) {
	case []float64:
		fill = a[0]
	case []float32:
		fill = float64(a[0])
	case []int32:
		fill = float64(a[0])
	case []int16:
		fill = float64(a[0])
	default:
		return o, nil
	}
	for i, x := range o {
		if x == fill {
			o[i] = math.NaN()
		}
	}
	return o, nil
}

// window returns the positions of the values of x within [min, max].
func window(x []float64, min, max float64) []int {
	var o []int
	for i, v := range x {
		if v >= min && v <= max {
			o = append(o, i)
		}
	}
	return o
}

// subset returns the part of s within the given extents, averaged over
// blocks of res × res cells. Cells that do not fill a whole block at the
// end of each axis are dropped. Missing elevations are ignored in the
// averages.
func (s *seafloor) subset(latMin, latMax, lonMin, lonMax float64, res int) *seafloor {
	rows := window(s.lat, latMin, latMax)
	cols := window(s.lon, lonMin, lonMax)
	if res < 1 {
		res = 1
	}
	nr, nc := len(rows)/res, len(cols)/res
	o := &seafloor{
		lat:       make([]float64, nr),
		lon:       make([]float64, nc),
		elevation: sparse.ZerosDense(nr, nc),
	}
	for i := 0; i < nr; i++ {
		o.lat[i] = mean(s.lat, rows[i*res:(i+1)*res])
	}
	for j := 0; j < nc; j++ {
		o.lon[j] = mean(s.lon, cols[j*res:(j+1)*res])
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			var sum float64
			var n int
			for _, r := range rows[i*res : (i+1)*res] {
				for _, c := range cols[j*res : (j+1)*res] {
					if v := s.elevation.Get(r, c); !math.IsNaN(v) {
						sum += v
						n++
					}
				}
			}
			v := math.NaN()
			if n > 0 {
				v = sum / float64(n)
			}
			o.elevation.Set(v, i, j)
		}
	}
	return o
}

func mean(x []float64, idx []int) float64 {
	var sum float64
	for _, i := range idx {
		sum += x[i]
	}
	return sum / float64(len(idx))
}
