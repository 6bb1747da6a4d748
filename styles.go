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
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Style overrides the display metadata of one field. Unset members leave
// the field unchanged.
type Style struct {
	Colormap string   `toml:"colormap"`
	Units    *string  `toml:"units"`
	VMin     *float64 `toml:"vmin"`
	VMax     *float64 `toml:"vmax"`
	Label    string   `toml:"label"`
}

// Styles holds display overrides by field name.
type Styles struct {
	Fields map[string]Style `toml:"fields"`
}

// ParseStyles reads display overrides in TOML format, for example:
//
//	[fields.temperature]
//	colormap = "thermal"
//	units = "°F"
//	vmin = 30.0
//	vmax = 90.0
//
// Unknown keys and colormap names are errors.
func ParseStyles(r io.Reader) (*Styles, error) {
	s := new(Styles)
	md, err := toml.DecodeReader(r, s)
	if err != nil {
		return nil, fmt.Errorf("oceanplot: reading styles: %w", err)
	}
	if u := md.Undecoded(); len(u) > 0 {
		keys := make([]string, len(u))
		for i, k := range u {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("oceanplot: reading styles: unknown keys %s", strings.Join(keys, ", "))
	}
	for name, st := range s.Fields {
		if st.Colormap == "" {
			continue
		}
		if _, err := NamedColormap(st.Colormap); err != nil {
			return nil, fmt.Errorf("oceanplot: style for %q: %w", name, err)
		}
	}
	return s, nil
}

// ApplyStyles overrides the display metadata of the fields in d that
// have a style. Styles for fields that d does not carry are ignored.
// Labels that are not overridden are reset so that they reflect any new
// units.
func (d *Dataset) ApplyStyles(s *Styles) error {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Fields))
	for n := range s.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		if !d.Has(name) {
			continue
		}
		f, err := d.Field(name)
		if err != nil {
			return err
		}
		if err := s.Fields[name].apply(f); err != nil {
			return fmt.Errorf("oceanplot: styling %q: %w", name, err)
		}
	}
	return nil
}

func (st Style) apply(f *Field) error {
	if st.Colormap != "" {
		c, err := NamedColormap(st.Colormap)
		if err != nil {
			return err
		}
		f.Colormap = c
	}
	if st.Units != nil {
		f.Units = *st.Units
	}
	if st.VMin != nil {
		f.VMin = *st.VMin
	}
	if st.VMax != nil {
		f.VMax = *st.VMax
	}
	if st.Label != "" {
		f.Label = st.Label
	} else {
		f.ResetLabel()
	}
	return nil
}
