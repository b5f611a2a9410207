/*
 * relaxfit_test.go, part of gorelax.
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
	"strings"
	"testing"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/minimise"
	"github.com/rmera/gorelax/montecarlo"
	"github.com/rmera/gorelax/seqio"
	"github.com/rmera/gorelax/spectrum"
	"github.com/rmera/gorelax/spinid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var times = []float64{0, 0.05, 0.1, 0.2, 0.4, 0.8}

// rates are the rx of residues 1 to 3. i0 is 1e5 for all of them.
var rates = []float64{5, 2.5, 10}

// decay returns a pipe with 3 spins whose intensities follow exact
// exponential decays, with an error of 100 for each point.
func decay(Te *testing.T) (*relax.Context, *relax.Pipe) {
	C := relax.NewContext()
	P, err := C.Create("R1", relax.RelaxFit)
	require.NoError(Te, err)
	for i := range rates {
		_, err := P.CreateSpin(spinid.ID{ResNum: i + 1, SpinNum: spinid.NoNum, SpinName: "N"})
		require.NoError(Te, err)
	}
	cols := seqio.DefaultColumns()
	cols.ResNum, cols.SpinName, cols.Data = 1, 2, 3
	for j, t := range times {
		var b strings.Builder
		for i, rx := range rates {
			fmt.Fprintf(&b, "%d N %.15g\n", i+1, 1e5*math.Exp(-rx*t))
		}
		id := fmt.Sprintf("T%d", j)
		_, err := spectrum.ReadIntensities(C, spectrum.ReadOptions{File: strings.NewReader(b.String()), Cols: cols, SpectrumID: id})
		require.NoError(Te, err)
		require.NoError(Te, spectrum.SetErrors(C, id, 100, ""))
		require.NoError(Te, RelaxTime(C, id, t))
	}
	return C, P
}

func TestRelaxTime(Te *testing.T) {
	C, P := decay(Te)
	err := RelaxTime(C, "missing", 1)
	assert.True(Te, relax.IsKind(err, relax.PreconditionError))
	err = RelaxTime(C, "T1", -1)
	assert.True(Te, relax.IsKind(err, relax.ConfigError))
	assert.Equal(Te, 0.05, P.RelaxTimes["T1"])
}

func TestOverfitDeselect(Te *testing.T) {
	_, P := decay(Te)
	s, err := P.CreateSpin(spinid.ID{ResNum: 9, SpinNum: spinid.NoNum, SpinName: "N"})
	require.NoError(Te, err)
	s2, err := P.CreateSpin(spinid.ID{ResNum: 10, SpinNum: spinid.NoNum, SpinName: "N"})
	require.NoError(Te, err)
	s2.Intensity = map[string]float64{"T0": 1, "T1": 0.5}
	F := New()
	require.NoError(Te, F.OverfitDeselect(P))
	assert.False(Te, s.Select)
	assert.False(Te, s2.Select)
	assert.True(Te, P.Spins()[0].Select)
	//a missing time point is an error.
	delete(P.Spins()[0].Intensity, "T3")
	err = F.OverfitDeselect(P)
	assert.True(Te, relax.IsKind(err, relax.DataError))
}

func TestGridSearch(Te *testing.T) {
	C, P := decay(Te)
	require.NoError(Te, minimise.GridSearch(C, &relax.GridArgs{Inc: []int{41}, Constraints: true}))
	s := P.Spins()[0]
	rx, _ := s.Value(Rx)
	i0, _ := s.Value(I0)
	assert.InDelta(Te, 5.0, rx, 1e-9)
	assert.InDelta(Te, 1e5, i0, 1e-6)
	chi2, err := minimise.ReturnValue(P, s, "chi2", relax.NoSim)
	require.NoError(Te, err)
	assert.InDelta(Te, 0, chi2, 1e-12)
	it, _ := minimise.ReturnValue(P, s, "iter", relax.NoSim)
	assert.Equal(Te, 41.0*41.0, it)
	err = minimise.GridSearch(C, &relax.GridArgs{Inc: []int{5}, Lower: []float64{0}})
	assert.True(Te, relax.IsKind(err, relax.ConfigError))
	//an i0 lower bound above 1 is checked against the largest intensity.
	require.NoError(Te, minimise.GridSearch(C, &relax.GridArgs{Inc: []int{41}, Lower: []float64{1, 1000}, Constraints: true}))
	i0, _ = s.Value(I0)
	assert.InDelta(Te, 1e5, i0, 2500)
	err = minimise.GridSearch(C, &relax.GridArgs{Inc: []int{5}, Lower: []float64{1, 2e5}})
	assert.True(Te, relax.IsKind(err, relax.ConfigError))
}

func TestMinimise(Te *testing.T) {
	for _, alg := range []string{"simplex", "bfgs", "lbfgs", "newton"} {
		for _, constraints := range []bool{true, false} {
			C, P := decay(Te)
			require.NoError(Te, minimise.GridSearch(C, &relax.GridArgs{Inc: []int{11}, Constraints: true}))
			O := minimise.DefaultOptions()
			O.Algorithm(alg)
			O.Constraints(constraints)
			O.MaxIter(5000)
			O.FuncTol(1e-12)
			O.Verbosity(0)
			require.NoError(Te, minimise.Minimise(C, O, relax.NoSim), alg)
			for i, s := range P.Spins() {
				rx, _ := s.Value(Rx)
				i0, _ := s.Value(I0)
				assert.InDelta(Te, rates[i], rx, 1e-3, alg)
				assert.InDelta(Te, 1e5, i0, 1, alg)
				fc, _ := minimise.ReturnValue(P, s, "f_count", relax.NoSim)
				assert.Greater(Te, fc, 0.0)
			}
		}
	}
}

func TestBadAlgorithm(Te *testing.T) {
	C, _ := decay(Te)
	O := minimise.DefaultOptions()
	O.Algorithm("levenberg")
	err := minimise.Minimise(C, O, relax.NoSim)
	assert.True(Te, relax.IsKind(err, relax.ConfigError))
}

func TestCalculate(Te *testing.T) {
	C, P := decay(Te)
	err := minimise.Calc(C, 0)
	assert.True(Te, relax.IsKind(err, relax.PreconditionError))
	for i, s := range P.Spins() {
		s.SetValue(Rx, rates[i])
		s.SetValue(I0, 1e5+100)
	}
	require.NoError(Te, minimise.Calc(C, 0))
	chi2, _ := minimise.ReturnValue(P, P.Spins()[1], "chi2", relax.NoSim)
	assert.Greater(Te, chi2, 0.0)
}

func TestMonteCarlo(Te *testing.T) {
	C, P := decay(Te)
	require.NoError(Te, minimise.GridSearch(C, &relax.GridArgs{Inc: []int{21}, Constraints: true}))
	O := minimise.DefaultOptions()
	O.Algorithm("bfgs")
	O.MaxIter(5000)
	O.FuncTol(1e-12)
	O.Verbosity(0)
	require.NoError(Te, minimise.Minimise(C, O, relax.NoSim))
	require.NoError(Te, montecarlo.Setup(C, 20))
	require.NoError(Te, montecarlo.CreateData(C, &montecarlo.DataOptions{Method: montecarlo.BackCalc, Src: rand.NewSource(42)}))
	require.NoError(Te, montecarlo.InitialValues(C))
	require.NoError(Te, minimise.Minimise(C, O, relax.NoSim))
	assert.Equal(Te, relax.NoSim, C.SimIndex())
	require.NoError(Te, montecarlo.ErrorAnalysis(C))
	for i, s := range P.Spins() {
		require.Len(Te, s.Sims[Rx], 20)
		require.Len(Te, s.SimStats, 20)
		e, ok := s.Error(Rx)
		require.True(Te, ok)
		assert.Greater(Te, e, 0.0)
		assert.Less(Te, e, 0.1*rates[i])
		ei, _ := s.Error(I0)
		assert.Greater(Te, ei, 0.0)
	}
	assert.False(Te, P.SimState)
}
