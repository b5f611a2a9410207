/*
 * options.go, part of gorelax.
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

package minimise

// Options contains the options for a minimisation.
type Options struct {
	algorithm   string
	lineSearch  string
	hessianMod  string
	hessianType string
	funcTol     float64
	gradTol     float64
	maxIter     int
	constraints bool
	scaling     bool
	verbosity   int
}

// DefaultOptions returns the default minimisation options: the simplex
// algorithm, a function tolerance of 1e-25, no gradient tolerance,
// 10 000 000 iterations, and both constraints and scaling on.
func DefaultOptions() *Options {
	r := new(Options)
	r.algorithm = "simplex"
	r.funcTol = 1e-25
	r.maxIter = 10000000
	r.constraints = true
	r.scaling = true
	r.verbosity = 1
	return r
}

//Returns the minimisation algorithm, and sets it to a new value, if given.
func (O *Options) Algorithm(alg ...string) string {
	if len(alg) > 0 && alg[0] != "" {
		O.algorithm = alg[0]
	}
	return O.algorithm
}

//Returns the line search algorithm, and sets it to a new value, if given.
func (O *Options) LineSearch(ls ...string) string {
	if len(ls) > 0 {
		O.lineSearch = ls[0]
	}
	return O.lineSearch
}

//Returns the Hessian modification, and sets it to a new value, if given.
func (O *Options) HessianMod(h ...string) string {
	if len(h) > 0 {
		O.hessianMod = h[0]
	}
	return O.hessianMod
}

//Returns the Hessian type, and sets it to a new value, if given.
func (O *Options) HessianType(h ...string) string {
	if len(h) > 0 {
		O.hessianType = h[0]
	}
	return O.hessianType
}

//Returns the function tolerance, and sets it to a new value, if given.
//A tolerance of 0 turns the check off.
func (O *Options) FuncTol(tol ...float64) float64 {
	if len(tol) > 0 && tol[0] >= 0 {
		O.funcTol = tol[0]
	}
	return O.funcTol
}

//Returns the gradient tolerance, and sets it to a new value, if given.
//A tolerance of 0 turns the check off.
func (O *Options) GradTol(tol ...float64) float64 {
	if len(tol) > 0 && tol[0] >= 0 {
		O.gradTol = tol[0]
	}
	return O.gradTol
}

//Returns the maximum number of iterations, and sets it to a new value, if given.
func (O *Options) MaxIter(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.maxIter = n[0]
	}
	return O.maxIter
}

//Returns true if constraints are used, and sets the flag, if given.
func (O *Options) Constraints(c ...bool) bool {
	if len(c) > 0 {
		O.constraints = c[0]
	}
	return O.constraints
}

//Returns true if diagonal scaling is used, and sets the flag, if given.
func (O *Options) Scaling(s ...bool) bool {
	if len(s) > 0 {
		O.scaling = s[0]
	}
	return O.scaling
}

//Returns the verbosity level, and sets it to a new value, if given.
func (O *Options) Verbosity(v ...int) int {
	if len(v) > 0 {
		O.verbosity = v[0]
	}
	return O.verbosity
}
