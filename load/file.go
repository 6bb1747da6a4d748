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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spatialmodel/oceanplot"
)

// File reads a dataset from the named file, choosing the reader by the
// file extension: .csv, .nc or .cdf, and .xlsx.
func File(ctx context.Context, path string, opts Options) (*oceanplot.Dataset, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		defer f.Close()
		return FromCSV(f, opts)
	case ".nc", ".cdf":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		defer f.Close()
		return FromNetCDF(f, opts)
	case ".xlsx":
		return FromExcel(ctx, path, opts)
	default:
		return nil, fmt.Errorf("load: unsupported file type %q for %s", ext, path)
	}
}
