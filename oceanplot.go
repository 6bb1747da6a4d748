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

// Package oceanplot holds oceanographic instrument data (gliders, buoys, CTDs)
// in a form ready for plotting. A Dataset is a set of named Fields that share
// one sample index: the coordinate fields (latitude, longitude, depth, time),
// the standard measurement fields, and any custom fields registered at run time.
// Each Field carries the metadata a renderer needs to display it: a colormap,
// units, a value range and a label.
package oceanplot

// Version gives the version number.
const Version = "0.3.0"
