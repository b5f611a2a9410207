/*
 * target.go, part of gorelax.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

// penalty weighs the violation of the rx >= 0 and i0 >= 0 constraints.
const penalty = 1e6

// target is the chi-squared of the exponential curve, as a function of the
// scaled parameters (rx/S00, i0/S11).
type target struct {
	c           *curve
	S           *mat.DiagDense
	constraints bool
}

// unscale returns the real parameters for the scaled ones.
func (T *target) unscale(xs []float64) (float64, float64) {
	var x mat.VecDense
	x.MulVec(T.S, mat.NewVecDense(len(xs), xs))
	return x.AtVec(0), x.AtVec(1)
}

// scale returns the scaled parameters for the real ones.
func (T *target) scale(rx, i0 float64) []float64 {
	return []float64{rx / T.S.At(0, 0), i0 / T.S.At(1, 1)}
}

// chi2 returns the chi-squared value for the real parameters.
func (T *target) chi2(rx, i0 float64) float64 {
	sum := 0.0
	for i, t := range T.c.times {
		d := (T.c.vals[i] - i0*math.Exp(-rx*t)) / T.c.errs[i]
		sum += d * d
	}
	return sum
}

// Func is the function minimised.
func (T *target) Func(xs []float64) float64 {
	f := T.chi2(T.unscale(xs))
	if T.constraints {
		for _, v := range xs {
			if v < 0 {
				f += penalty * v * v
			}
		}
	}
	return f
}

// Grad is the gradient of Func.
func (T *target) Grad(grad, xs []float64) {
	rx, i0 := T.unscale(xs)
	var gr, gi float64
	for i, t := range T.c.times {
		e := math.Exp(-rx * t)
		w := -2 * (T.c.vals[i] - i0*e) / (T.c.errs[i] * T.c.errs[i])
		gr += w * (-t * i0 * e)
		gi += w * e
	}
	grad[0] = gr * T.S.At(0, 0)
	grad[1] = gi * T.S.At(1, 1)
	if T.constraints {
		for j, v := range xs {
			if v < 0 {
				grad[j] += 2 * penalty * v
			}
		}
	}
}

// Hess is the Hessian of Func.
func (T *target) Hess(hess *mat.SymDense, xs []float64) {
	rx, i0 := T.unscale(xs)
	var hrr, hri, hii float64
	for i, t := range T.c.times {
		e := math.Exp(-rx * t)
		w := 2 / (T.c.errs[i] * T.c.errs[i])
		res := T.c.vals[i] - i0*e
		dr, di := -t*i0*e, e
		hrr += w * (dr*dr - res*t*t*i0*e)
		hri += w * (dr*di + res*t*e)
		hii += w * di * di
	}
	s0, s1 := T.S.At(0, 0), T.S.At(1, 1)
	hrr *= s0 * s0
	hri *= s0 * s1
	hii *= s1 * s1
	if T.constraints {
		if xs[0] < 0 {
			hrr += 2 * penalty
		}
		if xs[1] < 0 {
			hii += 2 * penalty
		}
	}
	hess.SetSym(0, 0, hrr)
	hess.SetSym(0, 1, hri)
	hess.SetSym(1, 1, hii)
}
