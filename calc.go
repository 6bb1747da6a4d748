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

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// CalculateSpeed stores the current speed, sqrt(u²+v²), in the speed
// field. When includeVertical is true the vertical component is included
// and w is required. Nothing is done if the speed field is already set.
func (d *Dataset) CalculateSpeed(includeVertical bool) error {
	if d.Speed != nil {
		return nil
	}
	required := []string{"u", "v"}
	if includeVertical {
		required = append(required, "w")
	}
	if err := d.CheckRequired(required...); err != nil {
		return fmt.Errorf("oceanplot: calculating speed: %w", err)
	}
	comps := make([][]float64, len(required))
	for i, name := range required {
		f := *standardSlots[name](d)
		if f.Data.IsTime() {
			return fmt.Errorf("oceanplot: calculating speed: %w: field %q holds times", ErrConversion, name)
		}
		comps[i] = f.Data.Values()
	}
	s := make([]float64, len(comps[0]))
	for i := range s {
		var sum float64
		for _, c := range comps {
			sum += c[i] * c[i]
		}
		s[i] = math.Sqrt(sum)
	}
	f, err := NewStandardField("speed", s)
	if err != nil {
		return err
	}
	d.Speed = f
	return nil
}

// RotateVectors returns the horizontal velocity components rotated
// counter-clockwise by theta radians.
func (d *Dataset) RotateVectors(theta float64) (u, v []float64, err error) {
	if err := d.CheckRequired("u", "v"); err != nil {
		return nil, nil, fmt.Errorf("oceanplot: rotating vectors: %w", err)
	}
	u, v = rotate(d.U.Data.Values(), d.V.Data.Values(), theta)
	return u, v, nil
}

func rotate(u, v []float64, theta float64) (ur, vr []float64) {
	sin, cos := math.Sincos(theta)
	ur = make([]float64, len(u))
	vr = make([]float64, len(v))
	for i := range u {
		ur[i] = u[i]*cos - v[i]*sin
		vr[i] = u[i]*sin + v[i]*cos
	}
	return ur, vr
}

// Names of the fields created by PowerSpectra.
const (
	PSDFreq = "psd_freq"
	PSDU    = "psd_u"
	PSDV    = "psd_v"
	PSDW    = "psd_w"
)

const psdUnits = "cm²/s²/cpd"

// PowerSpectra estimates the power spectral density of the squared
// velocity components with Welch's method. fs is the sampling frequency
// and nperseg the number of samples in each segment. If theta is not nil
// the horizontal components are first rotated by *theta radians. Missing
// samples are dropped from each component before the estimate.
//
// The result is a new dataset, since the spectra do not share the sample
// index of d. It holds the custom fields psd_freq, psd_u and psd_v, plus
// psd_w if d carries vertical velocity.
func (d *Dataset) PowerSpectra(fs float64, nperseg int, theta *float64) (*Dataset, error) {
	if err := d.CheckRequired("u", "v"); err != nil {
		return nil, fmt.Errorf("oceanplot: power spectra: %w", err)
	}
	u, v := d.U.Data.Values(), d.V.Data.Values()
	if theta != nil {
		u, v = rotate(u, v, *theta)
	}
	comps := []struct {
		name, label string
		data        []float64
	}{
		{PSDU, "U", u},
		{PSDV, "V", v},
	}
	if d.W != nil {
		comps = append(comps, struct {
			name, label string
			data        []float64
		}{PSDW, "W", d.W.Data.Values()})
	}

	o := &Dataset{custom: make(map[string]*Field)}
	var freq []float64
	for _, c := range comps {
		x := dropNaN(c.data)
		for i := range x {
			x[i] *= x[i]
		}
		f, psd, err := welch(x, fs, nperseg)
		if err != nil {
			return nil, fmt.Errorf("oceanplot: power spectra of %s: %w", c.label, err)
		}
		if freq == nil {
			freq = f
			ff, err := NewField(PSDFreq, freq, WithColormap(&Colormap{Name: "thermal"}),
				WithUnits("cpd"), WithLabel("Power Spectra Density Frequency (cpd)"))
			if err != nil {
				return nil, err
			}
			if err := o.AddCustomField(ff, true); err != nil {
				return nil, err
			}
		}
		pf, err := NewField(c.name, psd, WithColormap(&Colormap{Name: "thermal"}),
			WithUnits(psdUnits), WithLabel("Power Spectra Density "+c.label+" ("+psdUnits+")"))
		if err != nil {
			return nil, err
		}
		if err := o.AddCustomField(pf, true); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// periodicHann returns the n-point periodic Hann window, the first n
// points of the symmetric window of length n+1.
func periodicHann(n int) []float64 {
	w := make([]float64, n+1)
	for i := range w {
		w[i] = 1
	}
	return window.Hann(w)[:n]
}

// welch returns the one-sided power spectral density of x, estimated by
// averaging the periodograms of Hann-windowed segments of nperseg samples
// that overlap by half. The mean of each segment is removed first.
func welch(x []float64, fs float64, nperseg int) (freq, psd []float64, err error) {
	if nperseg < 2 || nperseg > len(x) {
		return nil, nil, fmt.Errorf("%w: %d samples per segment with %d samples", ErrSegmentLength, nperseg, len(x))
	}
	win := periodicHann(nperseg)
	scale := 1 / (fs * floats.Dot(win, win))

	step := nperseg - nperseg/2
	nfreq := nperseg/2 + 1
	fft := fourier.NewFFT(nperseg)
	coef := make([]complex128, nfreq)
	seg := make([]float64, nperseg)
	psd = make([]float64, nfreq)
	nseg := 0
	for start := 0; start+nperseg <= len(x); start += step {
		copy(seg, x[start:start+nperseg])
		mean := floats.Sum(seg) / float64(nperseg)
		for i := range seg {
			seg[i] = (seg[i] - mean) * win[i]
		}
		coef = fft.Coefficients(coef, seg)
		for i, c := range coef {
			psd[i] += real(c)*real(c) + imag(c)*imag(c)
		}
		nseg++
	}

	// Fold negative frequencies into the one-sided spectrum. The zero
	// frequency and, for even segment lengths, the Nyquist frequency
	// have no negative counterpart.
	last := nfreq
	if nperseg%2 == 0 {
		last--
	}
	for i := range psd {
		psd[i] *= scale / float64(nseg)
		if i > 0 && i < last {
			psd[i] *= 2
		}
	}

	freq = make([]float64, nfreq)
	for i := range freq {
		freq[i] = fft.Freq(i) * fs
	}
	return freq, psd, nil
}
