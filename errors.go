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
	"errors"
	"fmt"
)

// Errors returned by Field and Dataset operations. They are wrapped with
// context, so callers should compare them with errors.Is.
var (
	// ErrConversion is returned when input data cannot be converted into a
	// flat Array, or when a Field attribute is set to a value of the wrong type.
	ErrConversion = errors.New("cannot convert to a flat array")

	// ErrUnknownAttribute is returned when a Field attribute name is not one
	// of the attributes listed by Field.Attributes.
	ErrUnknownAttribute = errors.New("unknown field attribute")

	// ErrUnknownField is returned when a field name is neither a standard
	// field name nor a registered custom field.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotField is returned when a nil Field is supplied where a Field is required.
	ErrNotField = errors.New("not a field")

	// ErrFieldExists is returned when a custom field would replace an existing
	// field without permission to overwrite it.
	ErrFieldExists = errors.New("field already exists")

	// ErrMissingFields is returned when fields needed by an operation are unset.
	ErrMissingFields = errors.New("missing required fields")

	// ErrNoFieldsRequested is returned by CheckRequired when no field names are given.
	ErrNoFieldsRequested = errors.New("no field names requested")

	// ErrNoTime is returned when an operation needs the time field and it is unset.
	ErrNoTime = fmt.Errorf("%w: time", ErrMissingFields)

	// ErrLengthMismatch is returned when a field's length differs from the
	// length of the other fields in its dataset.
	ErrLengthMismatch = errors.New("field lengths differ")

	// ErrIndexOutOfRange is returned when a selector refers to a sample that
	// does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidBounds is returned when a bounding box has a minimum larger
	// than its maximum.
	ErrInvalidBounds = errors.New("invalid bounds")

	// ErrUnknownColormap is returned for colormap names that are not registered.
	ErrUnknownColormap = errors.New("unknown colormap")

	// ErrSegmentLength is returned when a spectral segment length does not
	// fit the available data.
	ErrSegmentLength = errors.New("invalid segment length")
)
