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


package oceanplotutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/oceanplot"
	"github.com/spatialmodel/oceanplot/bathy"
	"github.com/spatialmodel/oceanplot/load"
	"github.com/spf13/cast"
)

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		if v == "" {
			return nil, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("oceanplot: invalid value for %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("oceanplot: invalid type for %s: %#v", varName, i)
	}
}

// loadDataset reads the input file named in cfg and applies the styles
// file, if there is one.
func loadDataset(ctx context.Context, cfg *viper.Viper) (*oceanplot.Dataset, error) {
	input := os.ExpandEnv(cfg.GetString("input"))
	if input == "" {
		return nil, fmt.Errorf(`oceanplot: you need to specify an input file (for example: --input="ctd.csv")`)
	}
	mapping, err := GetStringMapString("mapping", cfg)
	if err != nil {
		return nil, err
	}
	d, err := load.File(ctx, input, load.Options{
		Mapping:      mapping,
		Sheet:        cfg.GetString("sheet"),
		InterpGlider: cfg.GetBool("interp_glider"),
		Log:          logrus.StandardLogger(),
	})
	if err != nil {
		return nil, err
	}
	stylesPath := os.ExpandEnv(cfg.GetString("styles"))
	if stylesPath == "" {
		return d, nil
	}
	f, err := os.Open(stylesPath)
	if err != nil {
		return nil, fmt.Errorf("oceanplot: problem opening styles file: %v", err)
	}
	defer f.Close()
	s, err := oceanplot.ParseStyles(f)
	if err != nil {
		return nil, err
	}
	if err := d.ApplyStyles(s); err != nil {
		return nil, err
	}
	return d, nil
}

// bathyConfig returns the bathymetry settings in cfg.
func bathyConfig(cfg *viper.Viper) *bathy.Config {
	c := bathy.DefaultConfig()
	c.File = os.ExpandEnv(cfg.GetString("Bathy.File"))
	c.Resolution = cfg.GetInt("Bathy.Resolution")
	c.ContourLevels = cfg.GetInt("Bathy.ContourLevels")
	c.Colormap = cfg.GetString("Bathy.Colormap")
	c.Log = logrus.StandardLogger()
	return c
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(varName, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("oceanplot: you need to specify an output file using the %s configuration variable", varName)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return f, fmt.Errorf("oceanplot: the %s directory doesn't exist: %v", varName, err)
	}
	return f, nil
}
