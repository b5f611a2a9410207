/*
 * minimise.go, part of gorelax.
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

//Package minimise runs the calculations, grid searches and minimisations of
//the analysis of the current data pipe, including Monte Carlo simulations.
package minimise

import (
	"fmt"

	relax "github.com/rmera/gorelax"
)

// setup returns the current pipe and its analysis, after deselecting the
// spins without enough data for the model.
func setup(C *relax.Context, caller string) (*relax.Pipe, relax.Analysis, error) {
	P, err := C.Current()
	if err != nil {
		return nil, nil, relax.DecorateError(err, caller)
	}
	A, err := P.Analysis()
	if err != nil {
		return nil, nil, relax.DecorateError(err, caller)
	}
	if err := A.OverfitDeselect(P); err != nil {
		return nil, nil, relax.DecorateError(err, caller)
	}
	return P, A, nil
}

// simLoop calls f once with relax.NoSim or, if the Monte Carlo simulations are
// on, once per simulation, with the current simulation index of the context
// set. The index is cleared on return, also on error.
func simLoop(C *relax.Context, P *relax.Pipe, verbosity int, f func(sim, verbosity int) error) error {
	if !P.SimState {
		return f(relax.NoSim, verbosity)
	}
	defer C.ClearSimIndex()
	for i := 0; i < P.SimNumber; i++ {
		C.SetSimIndex(i)
		if err := f(i, verbosity-1); err != nil {
			return relax.DecorateError(err, "simLoop")
		}
		if verbosity > 0 {
			fmt.Printf("Simulation %d\n", i+1)
		}
	}
	return nil
}

// Calc calculates the target function value, or the analysis-specific values,
// for the current pipe.
func Calc(C *relax.Context, verbosity int) error {
	P, A, err := setup(C, "Calc")
	if err != nil {
		return err
	}
	return simLoop(C, P, verbosity, func(sim, v int) error {
		return A.Calculate(P, "", v, sim)
	})
}

// GridSearch runs a grid search over the model parameters of the current pipe.
// The bounds and increments are checked by the analysis.
func GridSearch(C *relax.Context, args *relax.GridArgs) error {
	P, A, err := setup(C, "GridSearch")
	if err != nil {
		return err
	}
	if args == nil {
		args = &relax.GridArgs{Inc: []int{21}, Constraints: true, Verbosity: 1}
	}
	return simLoop(C, P, args.Verbosity, func(sim, v int) error {
		a := *args
		a.Verbosity = v
		return A.GridSearch(P, &a, sim)
	})
}

// Minimise optimises the model parameters of the current pipe. If sim is not
// relax.NoSim, only that Monte Carlo simulation is optimised, which is meant for
// callers running their own simulation loop.
func Minimise(C *relax.Context, O *Options, sim int) error {
	if O == nil {
		O = DefaultOptions()
	}
	P, A, err := setup(C, "Minimise")
	if err != nil {
		return err
	}
	args := MinArgs(O)
	if sim != relax.NoSim {
		return A.Minimise(P, args, sim)
	}
	return simLoop(C, P, O.Verbosity(), func(sim, v int) error {
		a := *args
		a.Verbosity = v
		return A.Minimise(P, &a, sim)
	})
}

// MinArgs packs the options for the analyses. With constraints, the
// algorithm is given first in the algorithm options, followed by the line
// search and Hessian settings.
func MinArgs(O *Options) *relax.MinArgs {
	args := &relax.MinArgs{
		Algorithm:   O.Algorithm(),
		FuncTol:     O.FuncTol(),
		GradTol:     O.GradTol(),
		MaxIter:     O.MaxIter(),
		Constraints: O.Constraints(),
		Scaling:     O.Scaling(),
		Verbosity:   O.Verbosity(),
	}
	if args.Constraints {
		args.AlgOptions = append(args.AlgOptions, O.Algorithm())
	}
	for _, s := range []string{O.LineSearch(), O.HessianMod(), O.HessianType()} {
		if s != "" {
			args.AlgOptions = append(args.AlgOptions, s)
		}
	}
	return args
}
