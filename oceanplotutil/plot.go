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


package oceanplotutil

import (
	"fmt"
	"image/color"
	"math"

	"github.com/spatialmodel/oceanplot"
	"github.com/spatialmodel/oceanplot/bathy"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// fieldValues returns the field called name and its values. Times are
// converted to days since 1970-01-01.
func fieldValues(d *oceanplot.Dataset, name string) (*oceanplot.Field, []float64, error) {
	f, err := d.Field(name)
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return nil, nil, fmt.Errorf("oceanplot: field %q has no data", name)
	}
	if !f.Data.IsTime() {
		return f, f.Data.Values(), nil
	}
	t := f.Data.Times()
	v := make([]float64, len(t))
	for i, ti := range t {
		if ti.IsZero() {
			v[i] = math.NaN()
			continue
		}
		v[i] = float64(ti.Unix()) / 86400
	}
	return f, v, nil
}

// scatterPlot draws the yName field against the xName field with points
// colored by the colorName field. Points missing any of the three values
// are left out.
func scatterPlot(d *oceanplot.Dataset, xName, yName, colorName string) (*plot.Plot, error) {
	xf, x, err := fieldValues(d, xName)
	if err != nil {
		return nil, err
	}
	yf, y, err := fieldValues(d, yName)
	if err != nil {
		return nil, err
	}
	cf, c, err := fieldValues(d, colorName)
	if err != nil {
		return nil, err
	}
	cm, err := cf.ColorMap()
	if err != nil {
		return nil, err
	}

	xys := make(plotter.XYs, 0, len(x))
	var z []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsNaN(c[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
		z = append(z, math.Min(math.Max(c[i], cm.Min()), cm.Max()))
	}
	if len(xys) == 0 {
		return nil, fmt.Errorf("oceanplot: no points with %s, %s, and %s", xName, yName, colorName)
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		col, err := cm.At(z[i])
		if err != nil {
			col = color.Black
		}
		return draw.GlyphStyle{Color: col, Radius: vg.Points(2), Shape: draw.CircleGlyph{}}
	}

	p := plot.New()
	p.Title.Text = cf.GetLabel()
	p.X.Label.Text = xf.GetLabel()
	p.Y.Label.Text = yf.GetLabel()
	p.Add(s)
	return p, nil
}

// bathyPlot draws the depth grid of b with its contours.
func bathyPlot(b *bathy.Bathy) (*plot.Plot, error) {
	cm, err := b.ColorMap()
	if err != nil {
		return nil, err
	}
	h := plotter.NewHeatMap(b, cm.Palette(255))
	h.Min, h.Max = cm.Min(), cm.Max()
	h.Underflow = color.Gray{Y: 200}
	h.NaN = color.Transparent

	p := plot.New()
	p.Title.Text = b.Label()
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(h)
	if levels := b.Levels(); len(levels) > 0 {
		p.Add(plotter.NewContour(b, levels, nil))
	}
	return p, nil
}
