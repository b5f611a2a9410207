/*
 * grid.go, part of gorelax.
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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GridSetup checks and completes the grid search bounds for the parameters.
// Nil bounds are taken from the table. A single increment is used for all
// the parameters. If scaling is true, the bounds returned are divided by the
// scaling factor of each parameter.
func GridSetup(T *ParamTable, params []string, lower, upper []float64, inc []int, scaling bool) ([]float64, []float64, []int, error) {
	n := len(params)
	if n == 0 {
		return nil, nil, nil, NewError(ConfigError, "GridSetup", "Cannot run a grid search on a model with zero parameters")
	}
	if len(inc) == 1 && n > 1 {
		i := inc[0]
		inc = make([]int, n)
		for j := range inc {
			inc[j] = i
		}
	}
	if len(inc) != n {
		return nil, nil, nil, NewError(ConfigError, "GridSetup", "The increment list %v must have %d elements", inc, n)
	}
	if lower != nil && len(lower) != n {
		return nil, nil, nil, NewError(ConfigError, "GridSetup", "The lower bounds %v must have %d elements", lower, n)
	}
	if upper != nil && len(upper) != n {
		return nil, nil, nil, NewError(ConfigError, "GridSetup", "The upper bounds %v must have %d elements", upper, n)
	}
	lo := make([]float64, n)
	up := make([]float64, n)
	incs := make([]int, n)
	for i, name := range params {
		p, ok := T.Get(name)
		if !ok {
			return nil, nil, nil, NewError(ConfigError, "GridSetup", UnknownParam, name, "")
		}
		if inc[i] < 1 {
			return nil, nil, nil, NewError(ConfigError, "GridSetup", "The grid increment for %q must be at least 1", name)
		}
		incs[i] = inc[i]
		lo[i], up[i] = p.GridLower, p.GridUpper
		if lower != nil {
			lo[i] = lower[i]
		}
		if upper != nil {
			up[i] = upper[i]
		}
		if lo[i] > up[i] {
			return nil, nil, nil, NewError(ConfigError, "GridSetup", "The lower bound %g for %q is larger than the upper bound %g", lo[i], name, up[i])
		}
		if scaling {
			f := T.ScalingFactor(name)
			lo[i] /= f
			up[i] /= f
		}
	}
	return lo, up, incs, nil
}

// GridLattice returns all the points of a regular grid with inc[i] points
// between lower[i] and upper[i], both included. With a single increment, the
// lower bound is used. The first parameter varies slowest.
func GridLattice(lower, upper []float64, inc []int) [][]float64 {
	axes := make([][]float64, len(inc))
	total := 1
	for i, n := range inc {
		if n < 2 {
			axes[i] = []float64{lower[i]}
		} else {
			axes[i] = floats.Span(make([]float64, n), lower[i], upper[i])
		}
		total *= len(axes[i])
	}
	if len(inc) == 0 {
		return nil
	}
	ret := make([][]float64, 0, total)
	idx := make([]int, len(axes))
	for {
		p := make([]float64, len(axes))
		for i, a := range axes {
			p[i] = a[idx[i]]
		}
		ret = append(ret, p)
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(axes[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return ret
}

// ScalingMatrix returns the diagonal scaling matrix for the parameters, or
// the identity if scaling is false.
func ScalingMatrix(T *ParamTable, params []string, scaling bool) *mat.DiagDense {
	if len(params) == 0 {
		return nil
	}
	d := make([]float64, len(params))
	for i, name := range params {
		d[i] = 1
		if scaling {
			d[i] = T.ScalingFactor(name)
		}
	}
	return mat.NewDiagDense(len(d), d)
}
