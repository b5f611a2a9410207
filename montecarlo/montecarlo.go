/*
 * montecarlo.go, part of gorelax.
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

//Package montecarlo implements Monte Carlo simulations for the error
//analysis of the current data pipe.
//
//The usual sequence is: fit or calculate the model, Setup, CreateData,
//InitialValues (only for minimised models), fit or calculate again (now
//on the simulations), and ErrorAnalysis.
package montecarlo

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	relax "github.com/rmera/gorelax"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinSims is the smallest number of simulations accepted by Setup.
const MinSims = 3

var validate = validator.New()

type setupArgs struct {
	Number int `validate:"min=3"`
}

// current returns the current pipe, which must have the simulations set up.
func current(C *relax.Context, caller string) (*relax.Pipe, error) {
	P, err := C.Current()
	if err != nil {
		return nil, relax.DecorateError(err, caller)
	}
	if P.SimNumber < 1 {
		return nil, relax.NewError(relax.PreconditionError, caller, NotSetUp)
	}
	return P, nil
}

// Setup sets the number of simulations for the current pipe, turns the
// simulations on and selects all of them. Simulation data from an earlier
// setup is truncated, or padded with unset values, to the new number.
func Setup(C *relax.Context, number int) error {
	P, err := C.Current()
	if err != nil {
		return relax.DecorateError(err, "Setup")
	}
	if err := validate.Struct(setupArgs{number}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return relax.NewError(relax.ConfigError, "Setup", TooFewSims, MinSims, number)
		}
		return relax.NewError(relax.ConfigError, "Setup", "%s", err.Error())
	}
	P.SimNumber = number
	P.SimState = true
	resize(P, number)
	return SelectAllSims(C)
}

// resize sets the length of every simulation array of the pipe, and of its
// spins, to n. Arrays never created are left nil.
func resize(P *relax.Pipe, n int) {
	for k, v := range P.Sims {
		P.Sims[k] = resizeSims(v, n)
	}
	if P.SimStats != nil {
		P.SimStats = resizeStats(P.SimStats, n)
	}
	for _, s := range P.Spins() {
		for k, v := range s.Sims {
			s.Sims[k] = resizeSims(v, n)
		}
		if s.SimStats != nil {
			s.SimStats = resizeStats(s.SimStats, n)
		}
		if s.IntensitySim != nil && len(s.IntensitySim) != n {
			is := make([]map[string]float64, n)
			copy(is, s.IntensitySim)
			s.IntensitySim = is
		}
	}
}

// resizeSims returns s with length n, new elements set to NaN.
func resizeSims(s []float64, n int) []float64 {
	if len(s) == n {
		return s
	}
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = math.NaN()
	}
	copy(ret, s)
	return ret
}

func resizeStats(s []relax.MinStats, n int) []relax.MinStats {
	if len(s) == n {
		return s
	}
	ret := make([]relax.MinStats, n)
	copy(ret, s)
	return ret
}

// On turns the simulations on, so fitting and calculation act on the
// simulated data.
func On(C *relax.Context) error {
	P, err := current(C, "On")
	if err != nil {
		return err
	}
	P.SimState = true
	return nil
}

// Off turns the simulations off, so fitting and calculation act on the
// model parameters.
func Off(C *relax.Context) error {
	P, err := current(C, "Off")
	if err != nil {
		return err
	}
	P.SimState = false
	return nil
}

func allTrue(n int) []bool {
	ret := make([]bool, n)
	for i := range ret {
		ret[i] = true
	}
	return ret
}

// SelectAllSims selects all the simulations of the current pipe and of
// each of its spins.
func SelectAllSims(C *relax.Context) error {
	P, err := current(C, "SelectAllSims")
	if err != nil {
		return err
	}
	P.SelectSim = allTrue(P.SimNumber)
	for _, s := range P.Spins() {
		s.SelectSim = allTrue(P.SimNumber)
	}
	return nil
}

// Simulation data creation methods.
const (
	BackCalc = "back_calc"
	Direct   = "direct"
)

// DataOptions are the options for CreateData. With the "back_calc" method,
// the simulated data is randomised from the data back calculated from the
// model. With "direct", the measured data is used instead. If FixedError is
// positive, it is used as the standard deviation of the noise instead of
// the measured errors. Src is the source of randomness; nil means the
// global one.
type DataOptions struct {
	Method     string  `validate:"oneof=back_calc direct"`
	FixedError float64 `validate:"gte=0"`
	Src        rand.Source
}

// DefaultDataOptions returns options for proper Monte Carlo simulations.
func DefaultDataOptions() *DataOptions {
	return &DataOptions{Method: BackCalc}
}

// CreateData creates the simulated data sets of the selected spins in the
// current pipe by adding gaussian noise to the back calculated, or the
// measured, data. Data points without a value or an error are simulated
// as NaN.
func CreateData(C *relax.Context, O *DataOptions) error {
	if O == nil {
		O = DefaultDataOptions()
	}
	if err := validate.Struct(O); err != nil {
		return relax.NewError(relax.ConfigError, "CreateData", BadMethod, O.Method, O.FixedError)
	}
	P, err := current(C, "CreateData")
	if err != nil {
		return err
	}
	A, err := P.Analysis()
	if err != nil {
		return relax.DecorateError(err, "CreateData")
	}
	mc, ok := A.(relax.MonteCarloer)
	if !ok {
		return relax.NewError(relax.ConfigError, "CreateData", NoMonteCarlo, A.Name())
	}
	spins, err := P.SpinLoop("", true)
	if err != nil {
		return relax.DecorateError(err, "CreateData")
	}
	noise := distuv.Normal{Mu: 0, Sigma: 1, Src: O.Src}
	for _, s := range spins {
		keys, vals, errs, err := mc.CreateMCData(P, s, O.Method == BackCalc)
		if err != nil {
			return relax.DecorateError(err, "CreateData")
		}
		if len(keys) == 0 {
			continue
		}
		rvals := make([]float64, len(vals))
		for i := 0; i < P.SimNumber; i++ {
			for j, v := range vals {
				sd := errs[j]
				if O.FixedError > 0 {
					sd = O.FixedError
				}
				if math.IsNaN(v) || math.IsNaN(sd) {
					rvals[j] = math.NaN()
					continue
				}
				rvals[j] = v + sd*noise.Rand()
			}
			if err := mc.SimPackData(P, s, i, keys, rvals); err != nil {
				return relax.DecorateError(err, "CreateData")
			}
		}
	}
	return nil
}

// InitialValues sets the parameters of every simulation to the fitted
// parameters of the model, as starting points for the fitting of the
// simulations. It is an error for the simulated parameters to be set already.
func InitialValues(C *relax.Context) error {
	P, err := current(C, "InitialValues")
	if err != nil {
		return err
	}
	A, err := P.Analysis()
	if err != nil {
		return relax.DecorateError(err, "InitialValues")
	}
	spins, err := P.SpinLoop("", true)
	if err != nil {
		return relax.DecorateError(err, "InitialValues")
	}
	n := P.SimNumber
	for _, s := range spins {
		for _, param := range A.ParamNames(P, s) {
			if !A.IsSpinParam(param) {
				continue
			}
			if simsSet(s.Sims[param]) {
				return relax.NewError(relax.ConfigError, "InitialValues", SimsExist, param, s.SpinID())
			}
			v, _, err := A.ReturnValue(P, s, param, relax.NoSim)
			if err != nil {
				return relax.DecorateError(err, "InitialValues")
			}
			for i := 0; i < n; i++ {
				s.SetSim(param, i, n, v)
			}
		}
		s.SimStats = make([]relax.MinStats, n)
		for i := range s.SimStats {
			s.SimStats[i] = copyStats(s.Stats)
		}
	}
	for _, param := range A.ParamNames(P, nil) {
		if A.IsSpinParam(param) {
			continue
		}
		v, ok := P.Values[param]
		if !ok {
			continue
		}
		if simsSet(P.Sims[param]) {
			return relax.NewError(relax.ConfigError, "InitialValues", SimsExist, param, P.Name)
		}
		if P.Sims == nil {
			P.Sims = make(map[string][]float64)
		}
		sims := make([]float64, n)
		for i := range sims {
			sims[i] = v
		}
		P.Sims[param] = sims
	}
	return nil
}

func simsSet(s []float64) bool {
	for _, v := range s {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

func copyStats(M relax.MinStats) relax.MinStats {
	var ret relax.MinStats
	if M.Chi2 != nil {
		v := *M.Chi2
		ret.Chi2 = &v
	}
	for _, p := range []struct{ src, dst **int }{{&M.Iter, &ret.Iter}, {&M.FCount, &ret.FCount}, {&M.GCount, &ret.GCount}, {&M.HCount, &ret.HCount}} {
		if *p.src != nil {
			v := **p.src
			*p.dst = &v
		}
	}
	if M.Warning != nil {
		v := *M.Warning
		ret.Warning = &v
	}
	return ret
}

// selected returns the values of the first n simulations that are selected
// and set.
func selected(sims []float64, sel []bool, n int) []float64 {
	ret := make([]float64, 0, n)
	for i := 0; i < n && i < len(sims); i++ {
		if i < len(sel) && !sel[i] {
			continue
		}
		if math.IsNaN(sims[i]) {
			continue
		}
		ret = append(ret, sims[i])
	}
	return ret
}

// ErrorAnalysis sets the error of each parameter to the standard deviation
// (unbiased) of its values across the selected simulations, and turns the
// simulations off. Parameters with fewer than 2 simulated values are left
// untouched.
func ErrorAnalysis(C *relax.Context) error {
	P, err := current(C, "ErrorAnalysis")
	if err != nil {
		return err
	}
	A, err := P.Analysis()
	if err != nil {
		return relax.DecorateError(err, "ErrorAnalysis")
	}
	spins, err := P.SpinLoop("", true)
	if err != nil {
		return relax.DecorateError(err, "ErrorAnalysis")
	}
	for _, s := range spins {
		sel := s.SelectSim
		if len(sel) != P.SimNumber {
			sel = P.SelectSim
		}
		for _, param := range A.ParamNames(P, s) {
			if !A.IsSpinParam(param) {
				continue
			}
			x := selected(s.Sims[param], sel, P.SimNumber)
			if len(x) < 2 {
				continue
			}
			s.SetError(param, stat.StdDev(x, nil))
		}
	}
	for param, sims := range P.Sims {
		x := selected(sims, P.SelectSim, P.SimNumber)
		if len(x) < 2 {
			continue
		}
		if P.Errors == nil {
			P.Errors = make(map[string]float64)
		}
		P.Errors[param] = stat.StdDev(x, nil)
	}
	P.SimState = false
	return nil
}

// Describe returns a one-line summary of the simulation state of the pipe.
func Describe(P *relax.Pipe) string {
	if P.SimNumber < 1 {
		return fmt.Sprintf("%s: no Monte Carlo simulations", P.Name)
	}
	state := "off"
	if P.SimState {
		state = "on"
	}
	nsel := 0
	for _, v := range P.SelectSim {
		if v {
			nsel++
		}
	}
	return fmt.Sprintf("%s: %d Monte Carlo simulations (%d selected), %s", P.Name, P.SimNumber, nsel, state)
}

const (
	NotSetUp     = "Monte Carlo simulations have not been set up"
	TooFewSims   = "A minimum of %d Monte Carlo simulations is required, got %d"
	BadMethod    = "Invalid simulation options: method %q, fixed error %v"
	NoMonteCarlo = "The analysis type %q does not support Monte Carlo simulations"
	SimsExist    = "Monte Carlo values of the parameter %q of %q have already been set"
)
