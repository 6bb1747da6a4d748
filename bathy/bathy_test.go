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
	"context"
	"errors"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/oceanplot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/plotter"
)

var quiet = func() logrus.FieldLogger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}()

// writeSeafloor writes a 4 × 6 seafloor grid. Latitude runs from 20 to 23
// and longitude from -100 to -95. The elevation of the cell at row i and
// column j is -100*(i+1) - 10*j, except that the last column is land.
func writeSeafloor(t *testing.T, transposed bool) string {
	t.Helper()
	lat := []float64{20, 21, 22, 23}
	lon := []float64{-100, -99, -98, -97, -96, -95}
	path := filepath.Join(t.TempDir(), "seafloor.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	h := cdf.NewHeader([]string{"lat", "lon"}, []int{len(lat), len(lon)})
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	elevDims := []string{"lat", "lon"}
	if transposed {
		elevDims = []string{"lon", "lat"}
	}
	h.AddVariable("elevation", elevDims, []float32{0})
	h.AddAttribute("elevation", "units", "m")
	h.AddAttribute("elevation", "_FillValue", []float32{-32767})
	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		t.Fatal(err)
	}
	elev := make([]float32, len(lat)*len(lon))
	for i := range lat {
		for j := range lon {
			v := float32(-100*(i+1) - 10*j)
			if j == len(lon)-1 {
				v = 50
			}
			if i == 0 && j == 0 {
				v = -32767
			}
			if transposed {
				elev[j*len(lat)+i] = v
			} else {
				elev[i*len(lon)+j] = v
			}
		}
	}
	for name, data := range map[string]interface{}{"lat": lat, "lon": lon, "elevation": elev} {
		end := f.Header.Lengths(name)
		if _, err := f.Writer(name, make([]int, len(end)), end).Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	for _, transposed := range []bool{false, true} {
		path := writeSeafloor(t, transposed)
		cfg := &Config{File: path, Resolution: 1, ContourLevels: 3, Log: quiet}
		b, err := Load(context.Background(), cfg, &oceanplot.Bounds{
			Lat:   &oceanplot.Extent{Min: 20.5, Max: 23},
			Lon:   &oceanplot.Extent{Min: -98, Max: -95},
			Depth: &oceanplot.Extent{Min: 0, Max: 400},
		})
		if err != nil {
			t.Fatal(err)
		}
		if c, r := b.Dims(); c != 4 || r != 3 {
			t.Fatalf("dims: want 4 × 3, got %d × %d", c, r)
		}
		if !reflect.DeepEqual(b.Lat.Shape, []int{3, 4}) {
			t.Errorf("shape: %v", b.Lat.Shape)
		}
		// Row 0 is latitude 21 and column 0 is longitude -98.
		want := []float64{
			220, 230, 240, 0,
			320, 330, 340, 0,
			400, 400, 400, 0,
		}
		if !floats.Equal(b.Depth.Elements, want) {
			t.Errorf("transposed=%v: depth: want %v, got %v", transposed, want, b.Depth.Elements)
		}
		if b.Lat.Get(2, 1) != 23 || b.Lon.Get(2, 1) != -97 || b.X(3) != -95 || b.Y(0) != 21 {
			t.Errorf("coordinates: lat %v, lon %v", b.Lat.Elements, b.Lon.Elements)
		}
		if !floats.Equal(b.Levels(), []float64{0, 200, 400}) {
			t.Errorf("levels: %v", b.Levels())
		}
	}
}

func TestLoadCoarsened(t *testing.T) {
	path := writeSeafloor(t, false)
	b, err := Load(context.Background(), &Config{File: path, Resolution: 2, Log: quiet}, &oceanplot.Bounds{
		Lat:           &oceanplot.Extent{Min: 20, Max: 23},
		Lon:           &oceanplot.Extent{Min: -100, Max: -96},
		VerticalScale: 0.001,
		VerticalUnits: "km",
	})
	if err != nil {
		t.Fatal(err)
	}
	if c, r := b.Dims(); c != 2 || r != 2 {
		t.Fatalf("dims: want 2 × 2, got %d × %d", c, r)
	}
	// The first block skips the missing cell at row 0, column 0.
	want := []float64{
		(110 + 200 + 210) / 3.0 / 1000, (120 + 130 + 220 + 230) / 4.0 / 1000,
		(300 + 310 + 400 + 410) / 4.0 / 1000, (320 + 330 + 420 + 430) / 4.0 / 1000,
	}
	if !floats.EqualApprox(b.Depth.Elements, want, 1e-12) {
		t.Errorf("depth: want %v, got %v", want, b.Depth.Elements)
	}
	if !floats.Equal(b.Lat.Elements, []float64{20.5, 20.5, 22.5, 22.5}) {
		t.Errorf("lat: %v", b.Lat.Elements)
	}
	if !floats.Equal(b.Lon.Elements, []float64{-99.5, -97.5, -99.5, -97.5}) {
		t.Errorf("lon: %v", b.Lon.Elements)
	}
	if b.Label() != "Bathymetry (km)" {
		t.Errorf("label: %q", b.Label())
	}
	lon, lat, depth := b.CenterOfMass()
	if lon != -98.5 || lat != 21.5 || math.Abs(depth-floats.Sum(want)/4) > 1e-12 {
		t.Errorf("center of mass: %g, %g, %g", lon, lat, depth)
	}

	d, err := b.Dataset()
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 4 || d.Depth.Units != "m" || !floats.Equal(d.Lat.Data.Values(), b.Lat.Elements) {
		t.Errorf("dataset: %v", d)
	}

	cm, err := b.ColorMap()
	if err != nil {
		t.Fatal(err)
	}
	if cm.Min() != 0 || math.Abs(cm.Max()-0.375) > 1e-12 {
		t.Errorf("color map range: [%g, %g]", cm.Min(), cm.Max())
	}
	var _ plotter.GridXYZ = b
}

func TestLoadErrors(t *testing.T) {
	path := writeSeafloor(t, false)
	ctx := context.Background()
	full := &oceanplot.Bounds{Lat: &oceanplot.Extent{Min: 0, Max: 90}, Lon: &oceanplot.Extent{Min: -180, Max: 180}}
	tests := []struct {
		name   string
		cfg    *Config
		bounds *oceanplot.Bounds
		err    error
	}{
		{name: "no bounds", cfg: &Config{File: path}, err: ErrNoBounds},
		{name: "no lon", cfg: &Config{File: path}, bounds: &oceanplot.Bounds{Lat: full.Lat}, err: ErrNoBounds},
		{name: "no file", cfg: &Config{}, bounds: full, err: ErrNoFile},
		{name: "missing file", cfg: &Config{File: path + ".missing"}, bounds: full, err: os.ErrNotExist},
		{name: "colormap", cfg: &Config{File: path, Colormap: "jet"}, bounds: full, err: oceanplot.ErrUnknownColormap},
		{
			name:   "outside",
			cfg:    &Config{File: path},
			bounds: &oceanplot.Bounds{Lat: &oceanplot.Extent{Min: 40, Max: 50}, Lon: full.Lon},
			err:    ErrEmpty,
		},
		{name: "too coarse", cfg: &Config{File: path, Resolution: 5}, bounds: full, err: ErrEmpty},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.cfg.Log = quiet
			_, err := Load(ctx, test.cfg, test.bounds)
			if !errors.Is(err, test.err) {
				t.Errorf("want %v, got %v", test.err, err)
			}
		})
	}
}
