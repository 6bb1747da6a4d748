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

// Package bathy loads seafloor depth grids for the region of an
// instrument dataset.
package bathy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/oceanplot"
	"github.com/spatialmodel/oceanplot/internal/hash"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/palette"
)

var (
	// ErrNoBounds is returned when the bounds do not give both a latitude
	// and a longitude extent.
	ErrNoBounds = errors.New("bathy: latitude and longitude bounds are required")

	// ErrNoFile is returned when no seafloor file is configured.
	ErrNoFile = errors.New("bathy: no seafloor file")

	// ErrEmpty is returned when no grid cells fall within the bounds.
	ErrEmpty = errors.New("bathy: no seafloor data within bounds")
)

// Config holds the bathymetry settings.
type Config struct {
	// File is a NetCDF file with lat and lon coordinate variables and an
	// elevation variable in meters, positive up.
	File string

	// Resolution is the number of grid cells along each axis that are
	// averaged into one output cell. Values below 2 keep the file's
	// resolution.
	Resolution int

	// ContourLevels is the number of depth contours returned by Levels.
	ContourLevels int

	// Colormap is the name of the colormap for depths. The default is "deep".
	Colormap string

	// Log receives progress messages. If it is nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

// DefaultConfig returns the default bathymetry settings.
func DefaultConfig() *Config {
	return &Config{
		Resolution:    5,
		ContourLevels: 50,
		Colormap:      "deep",
	}
}

// seafloorCache holds previously read seafloor files.
var seafloorCache *requestcache.Cache

var seafloorCacheOnce sync.Once

// loadSeafloor reads the seafloor file at path, reusing the result of
// earlier reads of the same unchanged file.
func loadSeafloor(ctx context.Context, path string) (*seafloor, error) {
	seafloorCacheOnce.Do(func() {
		seafloorCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			return readSeafloor(req.(string))
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(10))
	})
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("bathy: %w", err)
	}
	key := hash.Key(path, info.Size(), info.ModTime().UnixNano())
	s, err := seafloorCache.NewRequest(ctx, path, key).Result()
	if err != nil {
		return nil, err
	}
	return s.(*seafloor), nil
}

// Bathy is a seafloor depth grid. Lon, Lat and Depth all have shape
// [rows, columns], with rows along latitude and columns along longitude.
type Bathy struct {
	Lon, Lat, Depth *sparse.DenseArray

	// Bounds is the region the grid was selected for.
	Bounds *oceanplot.Bounds

	// VMin is the lower display limit of depth. Shallower cells, including
	// land, fall below it.
	VMin float64

	contourLevels int
	colormap      *oceanplot.Colormap
	lat, lon      []float64
}

// Load reads the seafloor grid within the latitude and longitude extents
// of b. Depth is the negated elevation, limited to the depth extent of b
// when there is one and multiplied by b.VerticalScale when that is not
// zero.
func Load(ctx context.Context, cfg *Config, b *oceanplot.Bounds) (*Bathy, error) {
	if b == nil || b.Lat == nil || b.Lon == nil {
		return nil, ErrNoBounds
	}
	if cfg.File == "" {
		return nil, ErrNoFile
	}
	name := cfg.Colormap
	if name == "" {
		name = "deep"
	}
	cmap, err := oceanplot.NamedColormap(name)
	if err != nil {
		return nil, fmt.Errorf("bathy: %w", err)
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	s, err := loadSeafloor(ctx, cfg.File)
	if err != nil {
		return nil, err
	}
	s = s.subset(b.Lat.Min, b.Lat.Max, b.Lon.Min, b.Lon.Max, cfg.Resolution)
	if len(s.lat) == 0 || len(s.lon) == 0 {
		return nil, fmt.Errorf("%w %v in %s", ErrEmpty, b, cfg.File)
	}
	log.WithFields(logrus.Fields{
		"file":    cfg.File,
		"rows":    len(s.lat),
		"columns": len(s.lon),
	}).Info("bathy: loaded seafloor grid")

	nr, nc := len(s.lat), len(s.lon)
	o := &Bathy{
		Lon:           sparse.ZerosDense(nr, nc),
		Lat:           sparse.ZerosDense(nr, nc),
		Depth:         sparse.ZerosDense(nr, nc),
		Bounds:        b.Clone(),
		contourLevels: cfg.ContourLevels,
		colormap:      cmap,
		lat:           s.lat,
		lon:           s.lon,
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			o.Lat.Set(s.lat[i], i, j)
			o.Lon.Set(s.lon[j], i, j)
			d := -s.elevation.Get(i, j)
			if b.Depth != nil && !math.IsNaN(d) {
				d = math.Min(math.Max(d, b.Depth.Min), b.Depth.Max)
			}
			if b.VerticalScale != 0 {
				d *= b.VerticalScale
			}
			o.Depth.Set(d, i, j)
		}
	}
	return o, nil
}

// Label returns the colorbar label for depth.
func (b *Bathy) Label() string {
	if b.Bounds == nil || b.Bounds.VerticalUnits == "" {
		return "Bathymetry"
	}
	return "Bathymetry (" + b.Bounds.VerticalUnits + ")"
}

// CenterOfMass returns the mean longitude, latitude and depth of the
// grid cells, ignoring missing depths.
func (b *Bathy) CenterOfMass() (lon, lat, depth float64) {
	return nanMean(b.Lon.Elements), nanMean(b.Lat.Elements), nanMean(b.Depth.Elements)
}

func nanMean(x []float64) float64 {
	var sum float64
	var n int
	for _, v := range x {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// maxDepth returns the largest non-missing depth.
func (b *Bathy) maxDepth() float64 {
	max := math.NaN()
	for _, v := range b.Depth.Elements {
		if !math.IsNaN(v) && (math.IsNaN(max) || v > max) {
			max = v
		}
	}
	return max
}

// ColorMap returns a color map spanning VMin to the largest depth.
func (b *Bathy) ColorMap() (palette.ColorMap, error) {
	return b.colormap.New(b.VMin, b.maxDepth())
}

// Levels returns evenly spaced contour depths from VMin to the largest
// depth.
func (b *Bathy) Levels() []float64 {
	max := b.maxDepth()
	if b.contourLevels < 2 || math.IsNaN(max) || max <= b.VMin {
		return nil
	}
	return floats.Span(make([]float64, b.contourLevels), b.VMin, max)
}

// Dataset returns the grid cells as a dataset with lat, lon and depth
// fields.
func (b *Bathy) Dataset() (*oceanplot.Dataset, error) {
	return oceanplot.NewDataset(map[string]interface{}{
		"lat":   b.Lat.Elements,
		"lon":   b.Lon.Elements,
		"depth": b.Depth.Elements,
	}, b.Bounds.Clone())
}

// Dims, Z, X and Y let a Bathy be drawn by gonum plotters such as
// plotter.Contour and plotter.HeatMap.

// Dims returns the number of columns and rows.
func (b *Bathy) Dims() (c, r int) { return len(b.lon), len(b.lat) }

// Z returns the depth at column c and row r.
func (b *Bathy) Z(c, r int) float64 { return b.Depth.Get(r, c) }

// X returns the longitude of column c.
func (b *Bathy) X(c int) float64 { return b.lon[c] }

// Y returns the latitude of row r.
func (b *Bathy) Y(r int) float64 { return b.lat[r] }
