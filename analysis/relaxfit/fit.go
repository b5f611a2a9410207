/*
 * fit.go, part of gorelax.
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

package relaxfit

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/minimise"
	"gonum.org/v1/gonum/optimize"
)

// fitted returns the selected spins with intensities, matching spinID.
func fitted(P *relax.Pipe, spinID string) ([]*relax.Spin, error) {
	spins, err := P.SpinLoop(spinID, true)
	if err != nil {
		return nil, err
	}
	ret := spins[:0]
	for _, s := range spins {
		if len(s.Intensity) > 0 {
			ret = append(ret, s)
		}
	}
	return ret, nil
}

// Calculate sets the chi-squared value of the current parameters of each
// selected spin with data.
func (F *Fit) Calculate(P *relax.Pipe, spinID string, verbosity int, sim int) error {
	spins, err := fitted(P, spinID)
	if err != nil {
		return relax.DecorateError(err, "Calculate")
	}
	for _, s := range spins {
		rx, i0, ok := params(s, sim)
		if !ok {
			return relax.NewError(relax.PreconditionError, "Calculate", "The parameters of the spin %q are not set", s.SpinID())
		}
		c, err := data(P, s, sim)
		if err != nil {
			return relax.DecorateError(err, "Calculate")
		}
		T := &target{c: c}
		chi2 := T.chi2(rx, i0)
		minimise.Store(P, s, sim, chi2, 0, 0, 0, 0, "")
		if verbosity > 1 {
			fmt.Printf("Spin %s: chi2 %g\n", s.SpinID(), chi2)
		}
	}
	return nil
}

// GridSearch sets the parameters of each spin to the best point of a regular
// grid. The default bounds are 0 to 20 for rx and 0 to the largest intensity
// of the spin for i0. With constraints, points with negative parameters are
// skipped.
func (F *Fit) GridSearch(P *relax.Pipe, args *relax.GridArgs, sim int) error {
	if args == nil {
		args = &relax.GridArgs{Inc: []int{21}, Constraints: true}
	}
	spins, err := fitted(P, "")
	if err != nil {
		return relax.DecorateError(err, "GridSearch")
	}
	names := F.ParamNames(P, nil)
	for _, s := range spins {
		c, err := data(P, s, sim)
		if err != nil {
			return relax.DecorateError(err, "GridSearch")
		}
		upper := args.Upper
		if upper == nil {
			//the i0 default is replaced before the bounds are checked.
			p, _ := F.T.Get(Rx)
			upper = []float64{p.GridUpper, c.maxIntensity()}
		}
		lo, up, inc, err := relax.GridSetup(F.T, names, args.Lower, upper, args.Inc, false)
		if err != nil {
			return relax.DecorateError(err, "GridSearch")
		}
		T := &target{c: c}
		best := math.Inf(1)
		var bestX []float64
		points := relax.GridLattice(lo, up, inc)
		for _, x := range points {
			if args.Constraints && (x[0] < 0 || x[1] < 0) {
				continue
			}
			if f := T.chi2(x[0], x[1]); f < best {
				best, bestX = f, x
			}
		}
		if bestX == nil {
			return relax.NewError(relax.DataError, "GridSearch", "No valid grid point for the spin %q", s.SpinID())
		}
		store(P, s, sim, bestX)
		minimise.Store(P, s, sim, best, len(points), len(points), 0, 0, "")
		if args.Verbosity > 0 {
			fmt.Printf("Grid search for spin %s: rx %g, i0 %g, chi2 %g\n", s.SpinID(), bestX[0], bestX[1], best)
		}
	}
	return nil
}

var (
	simplexRe = regexp.MustCompile(`^[Ss]implex$`)
	bfgsRe    = regexp.MustCompile(`^[Bb][Ff][Gg][Ss]$`)
	lbfgsRe   = regexp.MustCompile(`^[Ll]-?[Bb][Ff][Gg][Ss]$`)
	sdRe      = regexp.MustCompile(`^([Ss][Dd]|[Ss]teepest[ _-][Dd]escent)$`)
	cgRe      = regexp.MustCompile(`^([Cc][Gg]|[Cc]onjugate[ _-][Gg]radient)$`)
	newtonRe  = regexp.MustCompile(`^[Nn]ewton$`)
)

// linesearcher returns the line search named in the options, or nil for
// the default of each method.
func linesearcher(opts []string) optimize.Linesearcher {
	for _, o := range opts {
		switch strings.ToLower(o) {
		case "backtrack", "backtracking":
			return &optimize.Backtracking{}
		case "more thuente", "mt", "more-thuente":
			return &optimize.MoreThuente{}
		case "bisection", "bisect":
			return &optimize.Bisection{}
		}
	}
	return nil
}

// method returns the optimisation method for the arguments. With constraints
// the algorithm is the first of the algorithm options.
func method(args *relax.MinArgs) (optimize.Method, error) {
	alg, opts := args.Algorithm, args.AlgOptions
	if args.Constraints && len(opts) > 0 {
		alg, opts = opts[0], opts[1:]
	}
	ls := linesearcher(opts)
	switch {
	case simplexRe.MatchString(alg):
		return &optimize.NelderMead{}, nil
	case bfgsRe.MatchString(alg):
		return &optimize.BFGS{Linesearcher: ls}, nil
	case lbfgsRe.MatchString(alg):
		return &optimize.LBFGS{Linesearcher: ls}, nil
	case sdRe.MatchString(alg):
		return &optimize.GradientDescent{Linesearcher: ls}, nil
	case cgRe.MatchString(alg):
		return &optimize.CG{Linesearcher: ls}, nil
	case newtonRe.MatchString(alg):
		return &optimize.Newton{Linesearcher: ls}, nil
	}
	return nil, relax.NewError(relax.ConfigError, "method", "The minimisation algorithm %q is not supported", alg)
}

// Minimise fits rx and i0 for each selected spin with data, starting from
// the current values (the defaults if unset). The parameters are scaled by
// the largest intensity of the spin, for i0, if scaling is requested.
func (F *Fit) Minimise(P *relax.Pipe, args *relax.MinArgs, sim int) error {
	if args == nil {
		args = minimise.MinArgs(minimise.DefaultOptions())
	}
	if _, err := method(args); err != nil {
		return relax.DecorateError(err, "Minimise")
	}
	spins, err := fitted(P, "")
	if err != nil {
		return relax.DecorateError(err, "Minimise")
	}
	names := F.ParamNames(P, nil)
	for _, s := range spins {
		c, err := data(P, s, sim)
		if err != nil {
			return relax.DecorateError(err, "Minimise")
		}
		rx, i0, ok := params(s, sim)
		if !ok {
			rx, _ = F.DefaultValue(Rx)
			i0, _ = F.DefaultValue(I0)
		}
		S := relax.ScalingMatrix(F.T, names, args.Scaling)
		if args.Scaling {
			S.SetDiag(1, c.maxIntensity())
		}
		T := &target{c: c, S: S, constraints: args.Constraints}
		if args.Verbosity > 0 {
			title := fmt.Sprintf("Fitting to spin %q", s.SpinID())
			fmt.Printf("\n%s\n%s\n", title, strings.Repeat("~", len(title)))
		}
		m, _ := method(args) //methods are stateful.
		settings := &optimize.Settings{
			MajorIterations:   args.MaxIter,
			GradientThreshold: args.GradTol,
			Converger:         &optimize.FunctionConverge{Absolute: args.FuncTol, Iterations: 100},
		}
		problem := optimize.Problem{Func: T.Func, Grad: T.Grad, Hess: T.Hess}
		res, err := optimize.Minimize(problem, T.scale(rx, i0), settings, m)
		if res == nil {
			return relax.NewError(relax.DataError, "Minimise", "The fit of the spin %q failed: %v", s.SpinID(), err)
		}
		warning := ""
		switch {
		case err != nil:
			warning = err.Error()
		case res.Status == optimize.IterationLimit:
			warning = "Maximum number of iterations reached"
		}
		rx, i0 = T.unscale(res.X)
		store(P, s, sim, []float64{rx, i0})
		minimise.Store(P, s, sim, T.chi2(rx, i0), res.MajorIterations, res.FuncEvaluations, res.GradEvaluations, res.HessEvaluations, warning)
		if args.Verbosity > 0 {
			fmt.Printf("rx: %g i0: %g chi2: %g (%s)\n", rx, i0, T.chi2(rx, i0), res.Status)
		}
		if warning != "" && args.Verbosity > 0 {
			fmt.Printf("Warning: %s\n", warning)
		}
	}
	return nil
}
