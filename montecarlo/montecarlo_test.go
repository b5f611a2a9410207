/*
 * montecarlo_test.go, part of gorelax.
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

package montecarlo

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/spinid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// mean is an analysis whose only parameter, x, is the mean of the
// intensities of the spin.
type mean struct{}

func (M mean) Name() string                                       { return "mean" }
func (M mean) ParamNames(P *relax.Pipe, S *relax.Spin) []string { return []string{"x"} }
func (M mean) GridSearch(P *relax.Pipe, args *relax.GridArgs, sim int) error {
	return nil
}
func (M mean) Minimise(P *relax.Pipe, args *relax.MinArgs, sim int) error { return nil }
func (M mean) OverfitDeselect(P *relax.Pipe) error                         { return nil }
func (M mean) DefaultValue(param string) (float64, bool)                   { return 0, true }
func (M mean) ReturnDataName(name string) string                           { return name }
func (M mean) IsSpinParam(param string) bool                               { return true }
func (M mean) SetParamValues(P *relax.Pipe, params []string, vals []float64, isErr bool, spinID string, force bool) error {
	return nil
}

func (M mean) ReturnValue(P *relax.Pipe, S *relax.Spin, param string, sim int) (float64, float64, error) {
	if sim != relax.NoSim {
		return S.Sim(param, sim), math.NaN(), nil
	}
	v, _ := S.Value(param)
	e, _ := S.Error(param)
	return v, e, nil
}

func (M mean) Calculate(P *relax.Pipe, spinID string, verbosity int, sim int) error {
	for _, s := range P.Spins() {
		data := s.Intensity
		if sim != relax.NoSim {
			data = s.IntensitySim[sim]
		}
		sum := 0.0
		for _, v := range data {
			sum += v
		}
		if sim == relax.NoSim {
			s.SetValue("x", sum/float64(len(data)))
		} else {
			s.SetSim("x", sim, P.SimNumber, sum/float64(len(data)))
		}
	}
	return nil
}

func (M mean) CreateMCData(P *relax.Pipe, S *relax.Spin, backCalc bool) ([]string, []float64, []float64, error) {
	keys := []string{"d1", "d2"}
	vals := make([]float64, 2)
	errs := make([]float64, 2)
	for i, k := range keys {
		vals[i] = S.Intensity[k]
		if backCalc {
			vals[i], _ = S.Value("x")
		}
		errs[i] = S.IntensityErr[k]
	}
	return keys, vals, errs, nil
}

func (M mean) SimPackData(P *relax.Pipe, S *relax.Spin, sim int, keys []string, vals []float64) error {
	if len(S.IntensitySim) != P.SimNumber {
		S.IntensitySim = make([]map[string]float64, P.SimNumber)
	}
	S.IntensitySim[sim] = make(map[string]float64)
	for i, k := range keys {
		S.IntensitySim[sim][k] = vals[i]
	}
	return nil
}

func newContext(Te *testing.T) (*relax.Context, *relax.Pipe) {
	relax.RegisterAnalysis(relax.CT, func() relax.Analysis { return mean{} })
	C := relax.NewContext()
	P, err := C.Create("mc", relax.CT)
	require.NoError(Te, err)
	for i := 1; i <= 3; i++ {
		s, err := P.CreateSpin(spinid.ID{ResNum: i, SpinNum: spinid.NoNum, SpinName: "N"})
		require.NoError(Te, err)
		s.Intensity = map[string]float64{"d1": float64(i), "d2": float64(i) + 2}
		s.IntensityErr = map[string]float64{"d1": 0.1, "d2": 0.1}
	}
	return C, P
}

func TestSetup(Te *testing.T) {
	C, P := newContext(Te)
	err := On(C)
	assert.True(Te, relax.IsKind(err, relax.PreconditionError))
	err = Setup(C, 2)
	assert.True(Te, relax.IsKind(err, relax.ConfigError))
	assert.Equal(Te, 0, P.SimNumber)
	require.NoError(Te, Setup(C, 5))
	assert.True(Te, P.SimState)
	assert.Len(Te, P.SelectSim, 5)
	for _, s := range P.Spins() {
		assert.Len(Te, s.SelectSim, 5)
	}
	require.NoError(Te, Off(C))
	assert.False(Te, P.SimState)
	assert.Contains(Te, Describe(P), "5 Monte Carlo simulations (5 selected), off")
}

func TestCreateData(Te *testing.T) {
	C, P := newContext(Te)
	require.NoError(Te, Setup(C, 4))
	err := CreateData(C, &DataOptions{Method: "bootstrap"})
	assert.True(Te, relax.IsKind(err, relax.ConfigError))
	require.NoError(Te, CreateData(C, &DataOptions{Method: Direct, Src: rand.NewSource(1)}))
	for _, s := range P.Spins() {
		require.Len(Te, s.IntensitySim, 4)
		for _, sim := range s.IntensitySim {
			assert.InDelta(Te, s.Intensity["d1"], sim["d1"], 1.0)
			assert.NotEqual(Te, s.Intensity["d1"], sim["d1"])
		}
	}
	//zero errors leave the data unchanged, and missing errors give missing data.
	s := P.Spins()[0]
	s.IntensityErr = map[string]float64{"d1": 0, "d2": math.NaN()}
	require.NoError(Te, CreateData(C, &DataOptions{Method: Direct}))
	assert.Equal(Te, s.Intensity["d1"], s.IntensitySim[2]["d1"])
	assert.True(Te, math.IsNaN(s.IntensitySim[2]["d2"]))
}

func TestBackCalc(Te *testing.T) {
	C, P := newContext(Te)
	require.NoError(Te, mean{}.Calculate(P, "", 0, relax.NoSim))
	require.NoError(Te, Setup(C, 3))
	require.NoError(Te, CreateData(C, &DataOptions{Method: BackCalc, FixedError: 1e-9, Src: rand.NewSource(7)}))
	s := P.Spins()[1]
	x, _ := s.Value("x")
	assert.Equal(Te, 3.0, x)
	for _, sim := range s.IntensitySim {
		assert.InDelta(Te, x, sim["d1"], 1e-6)
		assert.InDelta(Te, x, sim["d2"], 1e-6)
	}
}

func TestInitialValues(Te *testing.T) {
	C, P := newContext(Te)
	require.NoError(Te, mean{}.Calculate(P, "", 0, relax.NoSim))
	P.Spins()[0].Stats.Store(1.5, 3, 10, 0, 0, "")
	require.NoError(Te, Setup(C, 3))
	require.NoError(Te, InitialValues(C))
	s := P.Spins()[0]
	assert.Equal(Te, []float64{2, 2, 2}, s.Sims["x"])
	require.Len(Te, s.SimStats, 3)
	assert.Equal(Te, 1.5, *s.SimStats[2].Chi2)
	//the copies are independent.
	*s.SimStats[0].Chi2 = 7
	assert.Equal(Te, 1.5, *s.Stats.Chi2)
	err := InitialValues(C)
	assert.True(Te, relax.IsKind(err, relax.ConfigError))
}

func TestErrorAnalysis(Te *testing.T) {
	C, P := newContext(Te)
	require.NoError(Te, Setup(C, 5))
	s := P.Spins()[0]
	s.Sims = map[string][]float64{"x": {1, 2, 3, 4, 5}}
	s2 := P.Spins()[1]
	s2.Sims = map[string][]float64{"x": {1, 2, 3, 4, 5}}
	s2.SelectSim[4] = false
	P.Sims = map[string][]float64{"g": {2, 2, 2, 2, 2}}
	require.NoError(Te, ErrorAnalysis(C))
	e, ok := s.Error("x")
	require.True(Te, ok)
	assert.InDelta(Te, math.Sqrt(2.5), e, 1e-12)
	e, _ = s2.Error("x")
	assert.InDelta(Te, math.Sqrt(5.0/3.0), e, 1e-12)
	_, ok = P.Spins()[2].Error("x")
	assert.False(Te, ok)
	assert.Equal(Te, 0.0, P.Errors["g"])
	assert.False(Te, P.SimState)
}

func TestSetupAgain(Te *testing.T) {
	C, P := newContext(Te)
	require.NoError(Te, mean{}.Calculate(P, "", 0, relax.NoSim))
	require.NoError(Te, Setup(C, 5))
	require.NoError(Te, CreateData(C, &DataOptions{Method: Direct, Src: rand.NewSource(3)}))
	s := P.Spins()[0]
	s.Sims = map[string][]float64{"x": {1, 2, 3, 4, 1000}}
	s.SimStats = make([]relax.MinStats, 5)
	P.Sims = map[string][]float64{"g": {1, 1, 1, 1, 50}}
	P.SimStats = make([]relax.MinStats, 5)
	require.NoError(Te, Setup(C, 3))
	assert.Equal(Te, []float64{1, 2, 3}, s.Sims["x"])
	assert.Len(Te, s.SimStats, 3)
	assert.Len(Te, P.SimStats, 3)
	assert.Len(Te, P.Sims["g"], 3)
	for _, sp := range P.Spins() {
		assert.Len(Te, sp.IntensitySim, 3)
		assert.Len(Te, sp.SelectSim, 3)
	}
	require.NoError(Te, ErrorAnalysis(C))
	e, _ := s.Error("x")
	assert.InDelta(Te, 1.0, e, 1e-12)
	assert.Equal(Te, 0.0, P.Errors["g"])
	//growing pads with unset simulations, which are skipped.
	require.NoError(Te, Setup(C, 4))
	require.Len(Te, s.Sims["x"], 4)
	assert.True(Te, math.IsNaN(s.Sims["x"][3]))
	assert.Nil(Te, P.Spins()[1].IntensitySim[3])
	require.NoError(Te, ErrorAnalysis(C))
	e, _ = s.Error("x")
	assert.InDelta(Te, 1.0, e, 1e-12)
}

// The full simulation cycle leaves every simulation array with one element
// per simulation.
func TestSimulationLengths(Te *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("simulation arrays have SimNumber elements", prop.ForAll(
		func(n int) bool {
			C, P := newContext(Te)
			if err := (mean{}).Calculate(P, "", 0, relax.NoSim); err != nil {
				return false
			}
			if Setup(C, n) != nil || CreateData(C, &DataOptions{Method: BackCalc, Src: rand.NewSource(uint64(n))}) != nil {
				return false
			}
			if InitialValues(C) != nil {
				return false
			}
			for i := 0; i < n; i++ {
				if (mean{}).Calculate(P, "", 0, i) != nil {
					return false
				}
			}
			for _, s := range P.Spins() {
				if len(s.Sims["x"]) != n || len(s.IntensitySim) != n || len(s.SelectSim) != n || len(s.SimStats) != n {
					return false
				}
			}
			return ErrorAnalysis(C) == nil
		},
		gen.IntRange(MinSims, 40),
	))
	properties.TestingRun(Te)
}
