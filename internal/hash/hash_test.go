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

package hash

import (
	"testing"
)

type request struct {
	File       string
	Resolution int
	Levels     []float64
}

func TestKey(t *testing.T) {
	a := Key(request{File: "a.nc", Resolution: 5})
	if a != Key(request{File: "a.nc", Resolution: 5}) {
		t.Errorf("equal values give different keys")
	}
	if a == Key(request{File: "a.nc", Resolution: 4}) {
		t.Errorf("different values give equal keys")
	}
	if a == Key(request{File: "a.nc", Resolution: 5}, 1) {
		t.Errorf("extra values are ignored")
	}

	var p *request
	n := Key("a.nc", p)
	if n != Key("a.nc", p) {
		t.Errorf("nil values give different keys")
	}
	if n == Key("b.nc", p) {
		t.Errorf("nil values hide the other values")
	}
}
