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

// Package hash computes cache keys.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// Key returns a key identifying the given values. Equal values give
// equal keys.
func Key(values ...interface{}) string {
	h := fnv.New128a()
	e := gob.NewEncoder(h)
	for _, v := range values {
		if err := e.Encode(v); err != nil {
			return spewKey(values)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// spewKey hashes a printed representation of values that gob cannot
// encode, such as nil values.
func spewKey(values []interface{}) string {
	h := fnv.New128a()
	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	printer.Fprintf(h, "%#v", values)
	return fmt.Sprintf("%x", h.Sum(nil))
}
