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

import "math"

// Standard field names, in display order.
var standardNames = []string{
	"lat", "lon", "depth", "time",
	"temperature", "salinity", "density",
	"u", "v", "w", "speed",
	"cdom", "chlor", "turbidity",
}

// standardSlots is the dispatch table from standard field name to the
// Dataset slot holding it.
var standardSlots = map[string]func(d *Dataset) **Field{
	"lat":         func(d *Dataset) **Field { return &d.Lat },
	"lon":         func(d *Dataset) **Field { return &d.Lon },
	"depth":       func(d *Dataset) **Field { return &d.Depth },
	"time":        func(d *Dataset) **Field { return &d.Time },
	"temperature": func(d *Dataset) **Field { return &d.Temperature },
	"salinity":    func(d *Dataset) **Field { return &d.Salinity },
	"density":     func(d *Dataset) **Field { return &d.Density },
	"u":           func(d *Dataset) **Field { return &d.U },
	"v":           func(d *Dataset) **Field { return &d.V },
	"w":           func(d *Dataset) **Field { return &d.W },
	"speed":       func(d *Dataset) **Field { return &d.Speed },
	"cdom":        func(d *Dataset) **Field { return &d.CDOM },
	"chlor":       func(d *Dataset) **Field { return &d.Chlor },
	"turbidity":   func(d *Dataset) **Field { return &d.Turbidity },
}

// StandardNames returns the standard field names in display order.
func StandardNames() []string {
	o := make([]string, len(standardNames))
	copy(o, standardNames)
	return o
}

// IsStandard reports whether name is a standard field name.
func IsStandard(name string) bool {
	_, ok := standardSlots[name]
	return ok
}

// display holds the default display metadata of a standard field.
// NaN limits are computed from the data.
type display struct {
	colormap   string
	units      string
	vmin, vmax float64
}

var nan = math.NaN()

var standardDisplay = map[string]display{
	"lat":         {colormap: "haline", units: "°", vmin: nan, vmax: nan},
	"lon":         {colormap: "thermal", units: "°", vmin: nan, vmax: nan},
	"depth":       {colormap: "deep", units: "m", vmin: nan, vmax: nan},
	"time":        {colormap: "thermal", units: "", vmin: nan, vmax: nan},
	"temperature": {colormap: "thermal", units: "°C", vmin: -10, vmax: 40},
	"salinity":    {colormap: "haline", units: "", vmin: 28, vmax: 40},
	"density":     {colormap: "dense", units: "kg/m³", vmin: 1020, vmax: 1035},
	"u":           {colormap: "balance", units: "m/s", vmin: -5, vmax: 5},
	"v":           {colormap: "balance", units: "m/s", vmin: -5, vmax: 5},
	"w":           {colormap: "balance", units: "m/s", vmin: -5, vmax: 5},
	"speed":       {colormap: "speed", units: "m/s", vmin: 0, vmax: 5},
	"cdom":        {colormap: "matter", units: "ppb", vmin: nan, vmax: nan},
	"chlor":       {colormap: "algae", units: "μg/L", vmin: nan, vmax: nan},
	"turbidity":   {colormap: "turbid", units: "NTU", vmin: nan, vmax: nan},
}

// NewStandardField wraps data in a Field carrying the default display
// metadata of the named standard field. Each call returns Fields with
// their own Colormap.
func NewStandardField(name string, data interface{}) (*Field, error) {
	disp, ok := standardDisplay[name]
	if !ok {
		return nil, unknownStandard(name)
	}
	return NewField(name, data,
		WithColormap(&Colormap{Name: disp.colormap}),
		WithUnits(disp.units),
		WithRange(disp.vmin, disp.vmax),
	)
}
