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


// Package oceanplotutil contains the oceanplot command-line interface and
// its configuration.
package oceanplotutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gwenn/yacr"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/oceanplot"
	"github.com/spatialmodel/oceanplot/bathy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/plot/vg"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Root.AddCommand(versionCmd, describeCmd, boundsCmd, speedCmd, spectraCmd, bathyCmd, scatterCmd)
}

func init() {
	dataFlags := []*pflag.FlagSet{describeCmd.Flags(), boundsCmd.Flags(), speedCmd.Flags(),
		spectraCmd.Flags(), bathyCmd.Flags(), scatterCmd.Flags()}

	// Options are the configuration options available to oceanplot.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "log-level",
			usage: `
              log-level sets the logging level: one of panic, fatal, error,
              warn, info, or debug.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "input",
			usage: `
              input is the instrument data file to read. The reader is chosen
              by the file extension: .csv, .nc or .cdf (NetCDF), or .xlsx.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   dataFlags,
		},
		{
			name: "sheet",
			usage: `
              sheet is the worksheet to read from Excel input files. The first
              sheet is read if it is empty.`,
			defaultVal: "",
			flagsets:   dataFlags,
		},
		{
			name: "mapping",
			usage: `
              mapping overrides the automatic matching of input columns to
              standard field names. It is a JSON object from standard names
              to column names, for example {"temperature":"TEMP_C"}. An empty
              column name drops that field.`,
			defaultVal: map[string]string{},
			flagsets:   dataFlags,
		},
		{
			name: "interp_glider",
			usage: `
              interp_glider interpolates glider positions recorded on the
              m_time clock onto the time coordinate of NetCDF input.`,
			defaultVal: false,
			flagsets:   dataFlags,
		},
		{
			name: "styles",
			usage: `
              styles is a TOML file with per-field display settings
              (colormap, units, vmin, vmax, label) under [fields.<name>].`,
			defaultVal: "",
			flagsets:   dataFlags,
		},
		{
			name: "padding",
			usage: `
              padding is the fraction of the latitude and longitude ranges
              added around the data when bounds are detected.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{boundsCmd.Flags(), bathyCmd.Flags()},
		},
		{
			name: "include_vertical",
			usage: `
              include_vertical includes the w component in the speed.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{speedCmd.Flags()},
		},
		{
			name: "Spectra.SamplingFrequency",
			usage: `
              Spectra.SamplingFrequency is the number of samples per day.
              Frequencies are reported in cycles per day.`,
			defaultVal: 24.0,
			flagsets:   []*pflag.FlagSet{spectraCmd.Flags()},
		},
		{
			name: "Spectra.SegmentLength",
			usage: `
              Spectra.SegmentLength is the number of samples in each Welch
              segment.`,
			defaultVal: 256,
			flagsets:   []*pflag.FlagSet{spectraCmd.Flags()},
		},
		{
			name: "Spectra.Theta",
			usage: `
              Spectra.Theta rotates the velocity vectors counterclockwise by
              this angle in radians before the spectra are calculated.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{spectraCmd.Flags()},
		},
		{
			name: "Spectra.Output",
			usage: `
              Spectra.Output is the CSV file the spectra are written to. They
              are written to standard output if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{spectraCmd.Flags()},
		},
		{
			name: "Bathy.File",
			usage: `
              Bathy.File is a NetCDF seafloor file with lat, lon, and
              elevation variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{bathyCmd.Flags()},
		},
		{
			name: "Bathy.Resolution",
			usage: `
              Bathy.Resolution is the number of seafloor grid cells along each
              axis that are averaged together.`,
			defaultVal: 5,
			flagsets:   []*pflag.FlagSet{bathyCmd.Flags()},
		},
		{
			name: "Bathy.ContourLevels",
			usage: `
              Bathy.ContourLevels is the number of depth contours.`,
			defaultVal: 50,
			flagsets:   []*pflag.FlagSet{bathyCmd.Flags()},
		},
		{
			name: "Bathy.Colormap",
			usage: `
              Bathy.Colormap is the colormap used for depth.`,
			defaultVal: "deep",
			flagsets:   []*pflag.FlagSet{bathyCmd.Flags()},
		},
		{
			name: "Bathy.Output",
			usage: `
              Bathy.Output is an image file (.png, .svg, .pdf) to draw the
              bathymetry to. Nothing is drawn if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{bathyCmd.Flags()},
		},
		{
			name: "Scatter.X",
			usage: `
              Scatter.X is the field on the horizontal axis.`,
			defaultVal: "lon",
			flagsets:   []*pflag.FlagSet{scatterCmd.Flags()},
		},
		{
			name: "Scatter.Y",
			usage: `
              Scatter.Y is the field on the vertical axis.`,
			defaultVal: "lat",
			flagsets:   []*pflag.FlagSet{scatterCmd.Flags()},
		},
		{
			name: "Scatter.Color",
			usage: `
              Scatter.Color is the field that sets the point colors.`,
			defaultVal: "temperature",
			flagsets:   []*pflag.FlagSet{scatterCmd.Flags()},
		},
		{
			name: "Scatter.Output",
			usage: `
              Scatter.Output is the image file (.png, .svg, .pdf) to draw to.`,
			defaultVal: "scatter.png",
			flagsets:   []*pflag.FlagSet{scatterCmd.Flags()},
		},
	}

	Cfg = viper.New()
	Cfg.SetEnvPrefix("OCEANPLOT")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := strings.TrimSpace(b.String())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
		}
		Cfg.BindPFlag(option.name, option.flagsets[0].Lookup(option.name))
	}
}

// setConfig reads the configuration file, if there is one, and sets the
// logging level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("oceanplot: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("oceanplot: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "oceanplot",
	Short: "Inspect and plot oceanographic instrument data.",
	Long: `oceanplot reads oceanographic instrument data (CTD casts, gliders, moorings,
and similar) from CSV, NetCDF, and Excel files, matches the columns to standard
field names, and computes and draws quantities from them.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'OCEANPLOT_var' where 'var' is the
name of the variable to be set, with any '.' replaced by '_'. File paths are
additionally allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return setConfig()
	},
}

// versionCmd prints the version number.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of oceanplot.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "oceanplot v%s\n", oceanplot.Version)
	},
	DisableAutoGenTag: true,
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize an input file.",
	Long: `describe reads the input file and prints the number of records and the
fields that were found, together with their units, labels, and display ranges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset(context.Background(), Cfg)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "records: %d\n", d.Len())
		fmt.Fprintf(w, "fields: %s\n", strings.Join(d.FieldNames(oceanplot.WithData), ", "))
		fmt.Fprintln(w, d)
		return nil
	},
	DisableAutoGenTag: true,
}

var boundsCmd = &cobra.Command{
	Use:   "bounds",
	Short: "Print the extent of an input file.",
	Long: `bounds prints the latitude, longitude, and depth extent of the input
data, with the horizontal extents widened by the padding fraction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset(context.Background(), Cfg)
		if err != nil {
			return err
		}
		b, err := d.DetectBounds(Cfg.GetFloat64("padding"))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), b)
		return nil
	},
	DisableAutoGenTag: true,
}

var speedCmd = &cobra.Command{
	Use:   "speed",
	Short: "Calculate current speed.",
	Long: `speed calculates the current speed from the u and v velocity
components, and from w as well if include_vertical is set. Input files that
already have a speed column are left unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset(context.Background(), Cfg)
		if err != nil {
			return err
		}
		if err := d.CalculateSpeed(Cfg.GetBool("include_vertical")); err != nil {
			return err
		}
		f, err := d.Field("speed")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), f)
		return nil
	},
	DisableAutoGenTag: true,
}

var spectraCmd = &cobra.Command{
	Use:   "spectra",
	Short: "Calculate velocity power spectra.",
	Long: `spectra calculates Welch power spectral densities of the velocity
components and writes them as CSV with one row per frequency.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset(context.Background(), Cfg)
		if err != nil {
			return err
		}
		var theta *float64
		if t := Cfg.GetFloat64("Spectra.Theta"); t != 0 {
			theta = &t
		}
		psd, err := d.PowerSpectra(Cfg.GetFloat64("Spectra.SamplingFrequency"), Cfg.GetInt("Spectra.SegmentLength"), theta)
		if err != nil {
			return err
		}
		out := Cfg.GetString("Spectra.Output")
		if out == "" {
			return writeTable(cmd.OutOrStdout(), psd)
		}
		if out, err = checkOutputFile("Spectra.Output", out); err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("oceanplot: %v", err)
		}
		if err := writeTable(f, psd); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
	DisableAutoGenTag: true,
}

var bathyCmd = &cobra.Command{
	Use:   "bathy",
	Short: "Load bathymetry for the region of an input file.",
	Long: `bathy reads the seafloor depth within the bounds of the input data from
Bathy.File and prints a summary of the grid. If Bathy.Output is set the depth
grid is drawn with its contours.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset(context.Background(), Cfg)
		if err != nil {
			return err
		}
		bounds, err := d.DetectBounds(Cfg.GetFloat64("padding"))
		if err != nil {
			return err
		}
		b, err := bathy.Load(context.Background(), bathyConfig(Cfg), bounds)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		nc, nr := b.Dims()
		lon, lat, depth := b.CenterOfMass()
		fmt.Fprintf(w, "%s: %d × %d grid within %v\n", b.Label(), nr, nc, bounds)
		fmt.Fprintf(w, "center of mass: lon %g, lat %g, depth %g\n", lon, lat, depth)
		if levels := b.Levels(); len(levels) > 0 {
			fmt.Fprintf(w, "contours: %d levels from %g to %g\n", len(levels), levels[0], levels[len(levels)-1])
		}
		out := Cfg.GetString("Bathy.Output")
		if out == "" {
			return nil
		}
		if out, err = checkOutputFile("Bathy.Output", out); err != nil {
			return err
		}
		p, err := bathyPlot(b)
		if err != nil {
			return err
		}
		return p.Save(6*vg.Inch, 5*vg.Inch, out)
	},
	DisableAutoGenTag: true,
}

var scatterCmd = &cobra.Command{
	Use:   "scatter",
	Short: "Draw a scatter plot.",
	Long: `scatter draws the Scatter.Y field against the Scatter.X field, with
the points colored by the Scatter.Color field using its colormap and display
range.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset(context.Background(), Cfg)
		if err != nil {
			return err
		}
		out, err := checkOutputFile("Scatter.Output", Cfg.GetString("Scatter.Output"))
		if err != nil {
			return err
		}
		p, err := scatterPlot(d, Cfg.GetString("Scatter.X"), Cfg.GetString("Scatter.Y"), Cfg.GetString("Scatter.Color"))
		if err != nil {
			return err
		}
		if err := p.Save(6*vg.Inch, 4*vg.Inch, out); err != nil {
			return err
		}
		logrus.WithField("file", out).Info("oceanplot: wrote scatter plot")
		return nil
	},
	DisableAutoGenTag: true,
}

// writeTable writes the fields of d that have data as CSV columns.
func writeTable(w io.Writer, d *oceanplot.Dataset) error {
	names := d.FieldNames(oceanplot.WithData)
	cols := make([]oceanplot.Array, len(names))
	for i, name := range names {
		f, err := d.Field(name)
		if err != nil {
			return err
		}
		cols[i] = f.Data
	}
	cw := yacr.DefaultWriter(w)
	for _, name := range names {
		cw.WriteString(name)
	}
	cw.EndOfRecord()
	for r := 0; r < d.Len(); r++ {
		for _, c := range cols {
			if c.IsTime() {
				cw.WriteValue(c.Times()[r])
			} else {
				cw.WriteValue(c.Values()[r])
			}
		}
		cw.EndOfRecord()
	}
	cw.Flush()
	return cw.Err()
}
