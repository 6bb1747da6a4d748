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

package load

import (
	"strings"

	"github.com/spatialmodel/oceanplot"
)

// synonyms are alternative source names for standard fields. They match
// case-insensitively, either exactly or as substrings of a source name.
var synonyms = map[string][]string{
	"depth":       {"pressure", "pres"},
	"temperature": {"temp", "temperature_measure"},
	"salinity":    {"salt", "salinity_level"},
	"density":     {"density_metric", "rho"},
	"u":           {"eastward_velocity", "u_component", "u_current", "current_u"},
	"v":           {"northward_velocity", "v_component", "v_current", "current_v"},
	"w":           {"downward_velocity", "upward_velocity", "w_component", "w_current", "current_w"},
	"cdom":        {"cdom_concentration", "cdom_concentration_measure", "sci_flbbcd_cdom_units"},
	"chlor":       {"chlorophyll_concentration", "chlorophyll_concentration_measure", "sci_flbbcd_chlor_units"},
	"turbidity":   {"turbidity_measure", "turbidity_units", "turbidity", "sci_flbbcd_bb_units"},
}

// blocklist holds substrings that disqualify a source name for a
// standard field.
var blocklist = map[string][]string{
	"lat": {"platform"},
}

// MapVariables matches source column or variable names to standard field
// names. For each standard field the source names are searched in order,
// and the first one that matches is used. A source name matches if it
// equals the standard name or one of its synonyms. Otherwise, single
// letter names such as u match source names that start with "u_" or end
// with "_u", and longer names match source names that contain the
// standard name or a synonym. Source names containing a blocked word for
// the standard field never match it. All comparisons ignore case.
//
// Entries in provided override the matches. An empty value in provided
// removes the match for that standard field. Standard fields without a
// match are not included in the result.
func MapVariables(sources []string, provided map[string]string) map[string]string {
	o := make(map[string]string)
	for _, key := range oceanplot.StandardNames() {
		if src, ok := matchVariable(key, sources); ok {
			o[key] = src
		}
	}
	for key, src := range provided {
		if src == "" {
			delete(o, key)
			continue
		}
		o[key] = src
	}
	return o
}

func matchVariable(key string, sources []string) (string, bool) {
	candidates := append([]string{key}, synonyms[key]...)
	for _, src := range sources {
		s := strings.ToLower(src)
		if blocked(key, s) {
			continue
		}
		for _, c := range candidates {
			if s == c {
				return src, true
			}
		}
		if len(key) == 1 {
			if strings.HasPrefix(s, key+"_") || strings.HasSuffix(s, "_"+key) {
				return src, true
			}
			continue
		}
		for _, c := range candidates {
			if strings.Contains(s, c) {
				return src, true
			}
		}
	}
	return "", false
}

func blocked(key, source string) bool {
	for _, b := range blocklist[key] {
		if strings.Contains(source, b) {
			return true
		}
	}
	return false
}
