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

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// colormaps maps colormap names to constructors. Every call builds a new
// palette.ColorMap, so Fields never share a mutable color map.
var colormaps = map[string]func() palette.ColorMap{
	"thermal": func() palette.ColorMap { return moreland.ExtendedBlackBody() },
	"haline":  func() palette.ColorMap { return moreland.SmoothBlueTan() },
	"dense":   func() palette.ColorMap { return moreland.Kindlmann() },
	"balance": func() palette.ColorMap { return moreland.SmoothBlueRed() },
	"speed":   func() palette.ColorMap { return moreland.BlackBody() },
	"deep":    func() palette.ColorMap { return moreland.ExtendedKindlmann() },
	"algae":   func() palette.ColorMap { return moreland.SmoothGreenRed() },
	"matter":  func() palette.ColorMap { return moreland.SmoothPurpleOrange() },
	"turbid":  func() palette.ColorMap { return moreland.SmoothGreenPurple() },
}

// Colormap refers to a named color-mapping policy. Renderers turn it
// into a palette.ColorMap with New.
type Colormap struct {
	Name string
}

// NamedColormap returns a reference to the named colormap.
func NamedColormap(name string) (*Colormap, error) {
	if _, ok := colormaps[name]; !ok {
		return nil, fmt.Errorf("oceanplot: %w %q; valid names are %s", ErrUnknownColormap, name, strings.Join(ColormapNames(), ", "))
	}
	return &Colormap{Name: name}, nil
}

// ColormapNames returns the registered colormap names in sorted order.
func ColormapNames() []string {
	names := make([]string, 0, len(colormaps))
	for n := range colormaps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New returns a new color map spanning [min, max]. NaN limits leave the
// color map's own limits in place.
func (c *Colormap) New(min, max float64) (palette.ColorMap, error) {
	build, ok := colormaps[c.Name]
	if !ok {
		return nil, fmt.Errorf("oceanplot: %w %q", ErrUnknownColormap, c.Name)
	}
	cm := build()
	if !math.IsNaN(max) {
		cm.SetMax(max)
	}
	if !math.IsNaN(min) {
		cm.SetMin(min)
	}
	return cm, nil
}

func (c *Colormap) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}
