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
)

// End is a Span stop (or start) that lies beyond the last sample.
const End = math.MaxInt

// Selector chooses samples from a sequence of length n.
type Selector interface {
	// Resolve returns the positions of the chosen samples.
	Resolve(n int) ([]int, error)
}

// Span selects every Step-th sample from Start up to but not including Stop.
// Negative positions count back from the end, positions beyond either end
// are clipped, and a zero Step means 1. Span{Stop: End} selects every sample
// and Span{Start: End, Stop: -End, Step: -1} reverses the sequence.
type Span struct {
	Start, Stop, Step int
}

// Resolve implements Selector.
func (s Span) Resolve(n int) ([]int, error) {
	step := s.Step
	if step == 0 {
		step = 1
	}
	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}
	clip := func(i int) int {
		if i < 0 {
			if i < -n {
				return lower
			}
			i += n
			if i < lower {
				return lower
			}
			return i
		}
		if i > upper {
			return upper
		}
		return i
	}
	start, stop := clip(s.Start), clip(s.Stop)
	// The count is computed first so that large steps cannot overflow.
	var o []int
	switch {
	case step > 0 && start < stop:
		last := (stop - start - 1) / step
		for k := 0; k <= last; k++ {
			o = append(o, start+k*step)
		}
	case step < 0 && start > stop:
		last := 0
		if step >= -n {
			last = (start - stop - 1) / -step
		}
		for k := 0; k <= last; k++ {
			o = append(o, start+k*step)
		}
	}
	return o, nil
}

// Indices selects samples by position. Negative positions count back
// from the end.
type Indices []int

// Resolve implements Selector.
func (ix Indices) Resolve(n int) ([]int, error) {
	o := make([]int, len(ix))
	for i, j := range ix {
		if j < 0 {
			j += n
		}
		if j < 0 || j >= n {
			return nil, fmt.Errorf("oceanplot: %w: index %d with %d samples", ErrIndexOutOfRange, ix[i], n)
		}
		o[i] = j
	}
	return o, nil
}
