/*
 * noe.go, part of gorelax.
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

//Package noe calculates steady-state heteronuclear NOEs from the peak
//intensities of a reference and a saturated spectrum. The error of each NOE is
//
//	sd(NOE) = sqrt((sd(sat)*I(ref))^2 + (sd(ref)*I(sat))^2) / I(ref)^2
//
//Replicated spectra of the same type are averaged. Importing the package
//registers it for the noe pipe type.
package noe

import (
	"fmt"
	"log"
	"math"
	"regexp"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/spectrum"
)

// The spectrum types.
const (
	Ref = "ref"
	Sat = "sat"
)

// NOE is the only parameter of the analysis.
const NOE = "noe"

func init() {
	relax.RegisterAnalysis(relax.NOE, func() relax.Analysis { return New() })
}

// Analysis is the steady-state NOE analysis.
type Analysis struct {
	T *relax.ParamTable
}

// New returns the NOE analysis.
func New() *Analysis {
	return &Analysis{relax.NewParamTable(
		relax.Param{Name: NOE, Desc: "The steady-state NOE", Default: math.NaN(), Spin: true,
			Pattern: regexp.MustCompile(`^[Nn][Oo][Ee]$`)},
		relax.Param{Name: Ref, Desc: "The reference peak intensity", Default: math.NaN(), Spin: true,
			Pattern: regexp.MustCompile(`^[Rr]ef(erence)?$`)},
		relax.Param{Name: Sat, Desc: "The saturated peak intensity", Default: math.NaN(), Spin: true,
			Pattern: regexp.MustCompile(`^[Ss]at(urated)?$`)},
	)}
}

func (A *Analysis) Name() string { return "noe" }

func (A *Analysis) ParamNames(P *relax.Pipe, S *relax.Spin) []string { return []string{NOE} }

func (A *Analysis) DefaultValue(param string) (float64, bool) { return A.T.DefaultValue(param) }

func (A *Analysis) ReturnDataName(name string) string { return A.T.ReturnDataName(name) }

func (A *Analysis) IsSpinParam(param string) bool { return true }

// SpectrumType sets the spectrum id of the current pipe as a reference
// ("ref") or saturated ("sat") spectrum.
func SpectrumType(C *relax.Context, id, stype string) error {
	P, err := C.Current()
	if err != nil {
		return relax.DecorateError(err, "SpectrumType")
	}
	if !spectrum.Exists(P, id) {
		return relax.NewError(relax.PreconditionError, "SpectrumType", spectrum.NoSpectrum, id)
	}
	if stype != Ref && stype != Sat {
		return relax.NewError(relax.ConfigError, "SpectrumType", "The spectrum type %q is not one of %q or %q", stype, Ref, Sat)
	}
	if P.SpectrumTypes == nil {
		P.SpectrumTypes = make(map[string]string)
	}
	P.SpectrumTypes[id] = stype
	return nil
}

// ids returns the spectrum IDs of the given type, in loading order.
func ids(P *relax.Pipe, stype string) []string {
	var ret []string
	for _, id := range P.SpectrumIDs {
		if P.SpectrumTypes[id] == stype {
			ret = append(ret, id)
		}
	}
	return ret
}

// intensity returns the mean intensity, and its error, of the spectra ids for
// the spin S and the simulation sim. ok is false if any value is missing.
func intensity(S *relax.Spin, ids []string, sim int) (val, sd float64, ok bool) {
	if len(ids) == 0 {
		return math.NaN(), math.NaN(), false
	}
	data := S.Intensity
	if sim != relax.NoSim {
		if sim >= len(S.IntensitySim) || S.IntensitySim[sim] == nil {
			return math.NaN(), math.NaN(), false
		}
		data = S.IntensitySim[sim]
	}
	for _, id := range ids {
		v, ok1 := data[id]
		e, ok2 := S.IntensityErr[id]
		if !ok1 || !ok2 || math.IsNaN(v) || math.IsNaN(e) {
			return math.NaN(), math.NaN(), false
		}
		val += v
		sd += e * e
	}
	n := float64(len(ids))
	return val / n, math.Sqrt(sd) / n, true
}

// Calc returns the NOE and its error for the given intensities.
func Calc(ref, refErr, sat, satErr float64) (float64, float64) {
	noe := sat / ref
	err := math.Sqrt(math.Pow(satErr*ref, 2)+math.Pow(refErr*sat, 2)) / (ref * ref)
	return noe, err
}

// Calculate sets the NOE, and its error, of the selected spins matching
// spinID with data. Within Monte Carlo simulations, only the simulated NOE is
// set.
func (A *Analysis) Calculate(P *relax.Pipe, spinID string, verbosity int, sim int) error {
	refs, sats := ids(P, Ref), ids(P, Sat)
	if len(refs) == 0 || len(sats) == 0 {
		return relax.NewError(relax.PreconditionError, "Calculate", NoSpectra, P.Name)
	}
	spins, err := P.SpinLoop(spinID, true)
	if err != nil {
		return relax.DecorateError(err, "Calculate")
	}
	for _, s := range spins {
		ref, refErr, ok1 := intensity(s, refs, sim)
		sat, satErr, ok2 := intensity(s, sats, sim)
		if !ok1 || !ok2 {
			continue
		}
		if ref == 0 {
			log.Printf("Warning: the reference intensity of the spin %q is zero, the NOE cannot be calculated", s.SpinID())
			continue
		}
		noe, e := Calc(ref, refErr, sat, satErr)
		if sim != relax.NoSim {
			s.SetSim(NOE, sim, P.SimNumber, noe)
			continue
		}
		s.SetValue(NOE, noe)
		s.SetError(NOE, e)
		if verbosity > 1 {
			fmt.Printf("Spin %s: NOE %.5f +/- %.5f\n", s.SpinID(), noe, e)
		}
	}
	return nil
}

// OverfitDeselect deselects the spins lacking either intensity, or its
// error, in any of the reference and saturated spectra, and those with a
// zero reference intensity.
func (A *Analysis) OverfitDeselect(P *relax.Pipe) error {
	if err := P.TestSequence(); err != nil {
		return relax.DecorateError(err, "OverfitDeselect")
	}
	refs, sats := ids(P, Ref), ids(P, Sat)
	for _, s := range P.Spins() {
		if !s.Select {
			continue
		}
		ref, _, ok1 := intensity(s, refs, relax.NoSim)
		_, _, ok2 := intensity(s, sats, relax.NoSim)
		switch {
		case !ok1 || !ok2:
			log.Printf("Warning: the spin %q has been deselected: missing intensity data", s.SpinID())
			s.Select = false
		case ref == 0:
			log.Printf("Warning: the spin %q has been deselected: zero reference intensity", s.SpinID())
			s.Select = false
		}
	}
	return nil
}

// GridSearch always fails, as the NOE is calculated, not optimised.
func (A *Analysis) GridSearch(P *relax.Pipe, args *relax.GridArgs, sim int) error {
	return relax.NewError(relax.ConfigError, "GridSearch", NoOptimisation)
}

// Minimise always fails, as the NOE is calculated, not optimised.
func (A *Analysis) Minimise(P *relax.Pipe, args *relax.MinArgs, sim int) error {
	return relax.NewError(relax.ConfigError, "Minimise", NoOptimisation)
}

// SetParamValues sets the NOE values, or errors, of the spins matching spinID.
// The intensities cannot be set this way. Unless force is true, existing
// values are not overwritten.
func (A *Analysis) SetParamValues(P *relax.Pipe, params []string, vals []float64, isErr bool, spinID string, force bool) error {
	for _, p := range params {
		if A.T.ReturnDataName(p) != NOE {
			return relax.NewError(relax.ConfigError, "SetParamValues", relax.UnknownParam, p, A.Name())
		}
	}
	spins, err := P.SpinLoop(spinID, false)
	if err != nil {
		return relax.DecorateError(err, "SetParamValues")
	}
	for _, s := range spins {
		if _, ok := s.Value(NOE); ok && !force && !isErr {
			return relax.NewError(relax.ConfigError, "SetParamValues", "The NOE of the spin %q is already set", s.SpinID())
		}
	}
	for _, s := range spins {
		for i := range params {
			if isErr {
				s.SetError(NOE, vals[i])
			} else {
				s.SetValue(NOE, vals[i])
			}
		}
	}
	return nil
}

// ReturnValue returns the NOE, or the averaged reference or saturated
// intensity, of the spin S, and its error.
func (A *Analysis) ReturnValue(P *relax.Pipe, S *relax.Spin, param string, sim int) (float64, float64, error) {
	name := A.T.ReturnDataName(param)
	if name == "" {
		return math.NaN(), math.NaN(), relax.NewError(relax.ConfigError, "ReturnValue", relax.UnknownParam, param, A.Name())
	}
	if S == nil {
		return math.NaN(), math.NaN(), relax.NewError(relax.ConfigError, "ReturnValue", "The parameter %q is a spin parameter", name)
	}
	if name != NOE {
		v, e, _ := intensity(S, ids(P, name), sim)
		return v, e, nil
	}
	e, ok := S.Error(NOE)
	if !ok {
		e = math.NaN()
	}
	if sim != relax.NoSim {
		return S.Sim(NOE, sim), e, nil
	}
	v, ok := S.Value(NOE)
	if !ok {
		v = math.NaN()
	}
	return v, e, nil
}

// CreateMCData returns the intensities of the reference and saturated spectra
// of the spin, with their errors. If backCalc is true, the saturated
// intensities are back calculated from the NOE and the reference intensities.
func (A *Analysis) CreateMCData(P *relax.Pipe, S *relax.Spin, backCalc bool) ([]string, []float64, []float64, error) {
	noe, ok := S.Value(NOE)
	if backCalc && !ok {
		return nil, nil, nil, relax.NewError(relax.PreconditionError, "CreateMCData", "The NOE of the spin %q has not been calculated", S.SpinID())
	}
	ref, _, _ := intensity(S, ids(P, Ref), relax.NoSim)
	var keys []string
	var vals, errs []float64
	for _, id := range P.SpectrumIDs {
		v, ok := S.Intensity[id]
		if !ok {
			continue
		}
		if backCalc && P.SpectrumTypes[id] == Sat {
			v = noe * ref
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
func (A *Analysis) SimPackData(P *relax.Pipe, S *relax.Spin, sim int, keys []string, vals []float64) error {
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

const (
	NoSpectra      = "The pipe %q needs both reference and saturated spectra"
	NoOptimisation = "The NOE analysis has no parameters to optimise"
)
