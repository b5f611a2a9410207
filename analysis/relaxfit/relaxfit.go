/*
 * relaxfit.go, part of gorelax.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package relaxfit fits the peak intensities of a series of spectra, recorded
//with different relaxation delays, to the two parameter exponential decay
//
//	I(t) = i0 * exp(-rx * t)
//
//which gives the R1 or R2 relaxation rate, rx, of each spin. Importing the
//package registers it for the relax_fit pipe type.
package relaxfit

import (
	"log"
	"math"
	"regexp"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/spectrum"
)

// The parameters of the model.
const (
	Rx = "rx"
	I0 = "i0"
)

func init() {
	relax.RegisterAnalysis(relax.RelaxFit, func() relax.Analysis { return New() })
}

// Fit is the exponential curve fitting analysis.
type Fit struct {
	T *relax.ParamTable
}

// New returns the exponential curve fitting analysis.
func New() *Fit {
	return &Fit{relax.NewParamTable(
		relax.Param{Name: Rx, Desc: "Either the R1 or R2 relaxation rate", Default: 8.0, GridLower: 0, GridUpper: 20,
			Spin: true, Pattern: regexp.MustCompile(`^[Rr]x$`), Units: "1/s"},
		//the upper grid bound of i0 is replaced by the largest intensity of each spin.
		relax.Param{Name: I0, Desc: "The initial intensity", Default: 10000.0, GridLower: 0, GridUpper: 1,
			Spin: true, Pattern: regexp.MustCompile(`^[Ii]0$`)},
	)}
}

func (F *Fit) Name() string { return "relax_fit" }

func (F *Fit) ParamNames(P *relax.Pipe, S *relax.Spin) []string { return []string{Rx, I0} }

func (F *Fit) DefaultValue(param string) (float64, bool) { return F.T.DefaultValue(param) }

func (F *Fit) ReturnDataName(name string) string { return F.T.ReturnDataName(name) }

func (F *Fit) IsSpinParam(param string) bool { return true }

// RelaxTime sets the relaxation delay, in seconds, of the spectrum id of the
// current pipe.
func RelaxTime(C *relax.Context, id string, t float64) error {
	P, err := C.Current()
	if err != nil {
		return relax.DecorateError(err, "RelaxTime")
	}
	if !spectrum.Exists(P, id) {
		return relax.NewError(relax.PreconditionError, "RelaxTime", spectrum.NoSpectrum, id)
	}
	if t < 0 || math.IsNaN(t) {
		return relax.NewError(relax.ConfigError, "RelaxTime", "Invalid relaxation time %v for the spectrum %q", t, id)
	}
	if P.RelaxTimes == nil {
		P.RelaxTimes = make(map[string]float64)
	}
	P.RelaxTimes[id] = t
	return nil
}

// OverfitDeselect deselects the spins with no intensities, or with fewer than
// 3 of them. It is an error for a spin to have a different number of
// intensities than there are relaxation times.
func (F *Fit) OverfitDeselect(P *relax.Pipe) error {
	if err := P.TestSequence(); err != nil {
		return relax.DecorateError(err, "OverfitDeselect")
	}
	for _, s := range P.Spins() {
		if !s.Select {
			continue
		}
		switch n := len(s.Intensity); {
		case n == 0:
			log.Printf("Warning: the spin %q has been deselected: missing intensity data", s.SpinID())
			s.Select = false
			continue
		case n < 3:
			log.Printf("Warning: the spin %q has been deselected: insufficient data, 3 or more data points are required", s.SpinID())
			s.Select = false
			continue
		}
		if len(s.Intensity) != len(P.RelaxTimes) {
			return relax.NewError(relax.DataError, "OverfitDeselect", "The %d peak intensities of the spin %q do not match the %d relaxation times", len(s.Intensity), s.SpinID(), len(P.RelaxTimes))
		}
		for id := range s.Intensity {
			if _, ok := P.RelaxTimes[id]; !ok {
				return relax.NewError(relax.DataError, "OverfitDeselect", "The spectrum %q of the spin %q has no relaxation time", id, s.SpinID())
			}
		}
	}
	return nil
}

// curve holds the data of one spin for fitting, in spectrum order.
type curve struct {
	ids   []string
	times []float64
	vals  []float64
	errs  []float64
}

// maxIntensity returns the largest absolute intensity of the curve, or 1.
func (c *curve) maxIntensity() float64 {
	m := 0.0
	for _, v := range c.vals {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	if m == 0 || math.IsNaN(m) {
		return 1
	}
	return m
}

// data returns the curve of the spin S for the simulation sim, or the
// measured one for relax.NoSim. Errors are required.
func data(P *relax.Pipe, S *relax.Spin, sim int) (*curve, error) {
	c := new(curve)
	if sim != relax.NoSim && (sim >= len(S.IntensitySim) || S.IntensitySim[sim] == nil) {
		return nil, relax.NewError(relax.PreconditionError, "data", "The spin %q has no simulated intensities for the simulation %d", S.SpinID(), sim)
	}
	for _, id := range P.SpectrumIDs {
		t, ok := P.RelaxTimes[id]
		if !ok {
			continue
		}
		v, ok := S.Intensity[id]
		if !ok {
			continue
		}
		if sim != relax.NoSim {
			v = S.IntensitySim[sim][id]
		}
		e, ok := S.IntensityErr[id]
		if !ok || math.IsNaN(e) || e <= 0 {
			return nil, relax.NewError(relax.DataError, "data", "The peak intensity of the spin %q in the spectrum %q has no error", S.SpinID(), id)
		}
		c.ids = append(c.ids, id)
		c.times = append(c.times, t)
		c.vals = append(c.vals, v)
		c.errs = append(c.errs, e)
	}
	return c, nil
}

// params returns the current rx and i0 of the spin, for the simulation sim.
func params(S *relax.Spin, sim int) (float64, float64, bool) {
	var rx, i0 float64
	var ok1, ok2 bool
	if sim == relax.NoSim {
		rx, ok1 = S.Value(Rx)
		i0, ok2 = S.Value(I0)
	} else {
		rx, i0 = S.Sim(Rx, sim), S.Sim(I0, sim)
		ok1, ok2 = !math.IsNaN(rx), !math.IsNaN(i0)
	}
	return rx, i0, ok1 && ok2
}

// store sets rx and i0 for the spin, for the simulation sim.
func store(P *relax.Pipe, S *relax.Spin, sim int, x []float64) {
	if sim == relax.NoSim {
		S.SetValue(Rx, x[0])
		S.SetValue(I0, x[1])
		return
	}
	S.SetSim(Rx, sim, P.SimNumber, x[0])
	S.SetSim(I0, sim, P.SimNumber, x[1])
}

// SetParamValues sets the values, or errors, of the parameters for the spins
// matching spinID. Unless force is true, existing values are not overwritten.
func (F *Fit) SetParamValues(P *relax.Pipe, params []string, vals []float64, isErr bool, spinID string, force bool) error {
	spins, err := P.SpinLoop(spinID, false)
	if err != nil {
		return relax.DecorateError(err, "SetParamValues")
	}
	names := make([]string, len(params))
	for i, p := range params {
		if names[i] = F.T.ReturnDataName(p); names[i] == "" {
			return relax.NewError(relax.ConfigError, "SetParamValues", relax.UnknownParam, p, F.Name())
		}
	}
	if !force && !isErr {
		for _, s := range spins {
			for _, n := range names {
				if _, ok := s.Value(n); ok {
					return relax.NewError(relax.ConfigError, "SetParamValues", "The parameter %q of the spin %q is already set", n, s.SpinID())
				}
			}
		}
	}
	for _, s := range spins {
		for i, n := range names {
			if isErr {
				s.SetError(n, vals[i])
			} else {
				s.SetValue(n, vals[i])
			}
		}
	}
	return nil
}

// ReturnValue returns the value and error of a parameter of the spin S.
func (F *Fit) ReturnValue(P *relax.Pipe, S *relax.Spin, param string, sim int) (float64, float64, error) {
	name := F.T.ReturnDataName(param)
	if name == "" {
		return math.NaN(), math.NaN(), relax.NewError(relax.ConfigError, "ReturnValue", relax.UnknownParam, param, F.Name())
	}
	if S == nil {
		return math.NaN(), math.NaN(), relax.NewError(relax.ConfigError, "ReturnValue", "The parameter %q is a spin parameter", name)
	}
	e, ok := S.Error(name)
	if !ok {
		e = math.NaN()
	}
	if sim != relax.NoSim {
		return S.Sim(name, sim), e, nil
	}
	v, ok := S.Value(name)
	if !ok {
		v = math.NaN()
	}
	return v, e, nil
}

// CreateMCData returns the intensities of the spin, back calculated from the
// fitted parameters if backCalc is true, along with their errors.
func (F *Fit) CreateMCData(P *relax.Pipe, S *relax.Spin, backCalc bool) ([]string, []float64, []float64, error) {
	if len(S.Intensity) == 0 {
		return nil, nil, nil, nil
	}
	var keys []string
	var vals, errs []float64
	rx, i0, ok := params(S, relax.NoSim)
	if backCalc && !ok {
		return nil, nil, nil, relax.NewError(relax.PreconditionError, "CreateMCData", "The spin %q has not been fitted", S.SpinID())
	}
	for _, id := range P.SpectrumIDs {
		v, ok := S.Intensity[id]
		if !ok {
			continue
		}
		if backCalc {
			t, ok := P.RelaxTimes[id]
			if !ok {
				continue
			}
			v = i0 * math.Exp(-rx*t)
		}
		e, ok := S.IntensityErr[id]
		if !ok {
			e = math.NaN()
		}
		keys = append(keys, id)
		vals = append(vals, v)
		errs = append(errs, e)
	}
	return keys, vals, errs, nil
}

// SimPackData stores the simulated intensities of the simulation sim.
func (F *Fit) SimPackData(P *relax.Pipe, S *relax.Spin, sim int, keys []string, vals []float64) error {
	if sim < 0 || sim >= P.SimNumber {
		return relax.NewError(relax.ConfigError, "SimPackData", "Invalid simulation index %d", sim)
	}
	if len(S.IntensitySim) != P.SimNumber {
		n := make([]map[string]float64, P.SimNumber)
		copy(n, S.IntensitySim)
		S.IntensitySim = n
	}
	m := make(map[string]float64, len(keys))
	for i, k := range keys {
		m[k] = vals[i]
	}
	S.IntensitySim[sim] = m
	return nil
}
