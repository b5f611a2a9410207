/*
 * interfaces.go, part of gorelax.
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

package relax

import (
	"sort"
	"strings"
	"sync"
)

// NoSim is the simulation index used outside of Monte Carlo simulations.
const NoSim = -1

// GridArgs are the arguments for a grid search. Bounds are given in real,
// unscaled, units. Nil bounds mean the analysis defaults. A single increment
// is used for all the parameters.
type GridArgs struct {
	Lower       []float64
	Upper       []float64
	Inc         []int
	Constraints bool
	Verbosity   int
}

// MinArgs are the arguments for a minimisation.
type MinArgs struct {
	Algorithm   string
	AlgOptions  []string
	FuncTol     float64
	GradTol     float64 //0 means that the gradient is not used as a termination criterion.
	MaxIter     int
	Constraints bool
	Scaling     bool
	Verbosity   int
}

// Analysis is the strategy each analysis type implements. The minimisation
// orchestrator and the value dispatch layer work only through this interface.
// The sim argument is the Monte Carlo simulation index, or NoSim.
type Analysis interface {
	Name() string
	//ParamNames returns the model parameters of the spin or, if S is nil, all the parameters of the analysis.
	ParamNames(P *Pipe, S *Spin) []string
	Calculate(P *Pipe, spinID string, verbosity int, sim int) error
	GridSearch(P *Pipe, args *GridArgs, sim int) error
	Minimise(P *Pipe, args *MinArgs, sim int) error
	//OverfitDeselect deselects the spins with insufficient data for the model.
	OverfitDeselect(P *Pipe) error
	DefaultValue(param string) (float64, bool)
	//ReturnDataName returns the parameter name matching name, or "".
	ReturnDataName(name string) string
	IsSpinParam(param string) bool
	SetParamValues(P *Pipe, params []string, vals []float64, isErr bool, spinID string, force bool) error
	//ReturnValue returns the value and error of a parameter for the spin S (nil for global
	//parameters). Unset values are NaN.
	ReturnValue(P *Pipe, S *Spin, param string, sim int) (float64, float64, error)
}

// MonteCarloer is implemented by the analyses that support Monte Carlo simulations.
type MonteCarloer interface {
	//CreateMCData returns the data (back calculated if backCalc is true, measured otherwise)
	//and its errors for the spin S, keyed by data ID.
	CreateMCData(P *Pipe, S *Spin, backCalc bool) (keys []string, vals, errs []float64, err error)
	//SimPackData stores the randomised data of the simulation sim.
	SimPackData(P *Pipe, S *Spin, sim int, keys []string, vals []float64) error
}

// ErrorDecorator is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else. If passed an empty string, Decorate just returns the current decoration.
type ErrorDecorator interface {
	Error() string
	Decorate(string) []string
}

// PipeType is the analysis type of a data pipe.
type PipeType int

const (
	NoType PipeType = iota
	CT
	FrameOrder
	JW
	Hybrid
	MF
	NState
	NOE
	RelaxFit
	RelaxDisp
)

var typeNames = map[PipeType]string{
	NoType:     "",
	CT:         "ct",
	FrameOrder: "frame order",
	JW:         "jw",
	Hybrid:     "hybrid",
	MF:         "mf",
	NState:     "N-state",
	NOE:        "noe",
	RelaxFit:   "relax_fit",
	RelaxDisp:  "relax_disp",
}

func (T PipeType) String() string {
	if s, ok := typeNames[T]; ok {
		return s
	}
	return "unknown"
}

// ParseType returns the pipe type with the given name.
func ParseType(name string) (PipeType, error) {
	name = strings.TrimSpace(name)
	for k, v := range typeNames {
		if v == name && k != NoType {
			return k, nil
		}
	}
	return NoType, NewError(ConfigError, "ParseType", NoAnalysis, name)
}

// TypeNames returns the names of all the pipe types, sorted.
func TypeNames() []string {
	ret := make([]string, 0, len(typeNames))
	for k, v := range typeNames {
		if k != NoType {
			ret = append(ret, v)
		}
	}
	sort.Strings(ret)
	return ret
}

var registry = struct {
	sync.RWMutex
	m map[PipeType]func() Analysis
}{m: make(map[PipeType]func() Analysis)}

// RegisterAnalysis makes an analysis available for pipes of type t.
// Analysis packages call it from their init function.
func RegisterAnalysis(t PipeType, f func() Analysis) {
	registry.Lock()
	defer registry.Unlock()
	registry.m[t] = f
}

// AnalysisFor returns the analysis for pipes of type t.
func AnalysisFor(t PipeType) (Analysis, error) {
	registry.RLock()
	defer registry.RUnlock()
	f, ok := registry.m[t]
	if !ok {
		return nil, NewError(ConfigError, "AnalysisFor", NoAnalysis, t.String())
	}
	return f(), nil
}
