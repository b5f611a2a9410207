/*
 * script_test.go, part of gorelax.
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

package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sequence = `ubi 1 MET None N
ubi 2 GLN None N
ubi 3 ILE None N
`

var times = []float64{0, 0.05, 0.1, 0.2, 0.4, 0.8}

var rates = []float64{5, 2.5, 10}

// fitScript writes the sequence and the peak lists to dir, and returns a
// script fitting them.
func fitScript(Te *testing.T, dir string) string {
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "ubi.seq"), []byte(sequence), 0644))
	var b strings.Builder
	b.WriteString("steps:\n")
	b.WriteString("  - op: pipe.create\n    args: {name: R1, type: relax_fit}\n")
	b.WriteString("  - op: sequence.read\n    args: {file: ubi.seq}\n")
	for j, t := range times {
		var p strings.Builder
		for i, rx := range rates {
			fmt.Fprintf(&p, "%d N %.15g\n", i+1, 1e5*math.Exp(-rx*t))
		}
		name := fmt.Sprintf("T%d.list", j)
		require.NoError(Te, os.WriteFile(filepath.Join(dir, name), []byte(p.String()), 0644))
		fmt.Fprintf(&b, "  - op: spectrum.read_intensities\n    args: {file: %s, spectrum_id: T%d, res_num_col: 1, spin_name_col: 2, data_col: 3, rmsd: 100, time: %g}\n", name, j, t)
	}
	b.WriteString(`  - op: minimise.grid_search
    args: {inc: 11}
  - op: minimise.minimise
    args: {func_tol: 1e-12}
  - op: value.write
    args: {file: rx.out, param: rx}
  - op: state.save
    args: {file: results}
`)
	return b.String()
}

func TestRun(Te *testing.T) {
	dir := Te.TempDir()
	S, err := ParseScript(strings.NewReader(fitScript(Te, dir)))
	require.NoError(Te, err)
	require.NoError(Te, S.Check())
	R := NewRunner(dir)
	var out bytes.Buffer
	R.Out = &out
	require.NoError(Te, R.Run(S))
	P, err := R.C.Current()
	require.NoError(Te, err)
	for i, s := range P.Spins() {
		rx, ok := s.Value("rx")
		require.True(Te, ok)
		assert.InDelta(Te, rates[i], rx, 1e-3)
	}
	written, err := os.ReadFile(filepath.Join(dir, "rx.out"))
	require.NoError(Te, err)
	assert.Contains(Te, string(written), "Res_num")
	assert.Equal(Te, 4, strings.Count(string(written), "\n"))
	C, H, err := state.LoadFile("results", dir)
	require.NoError(Te, err)
	assert.Equal(Te, "R1", H.Current)
	P2, err := C.Current()
	require.NoError(Te, err)
	s, err := P2.ReturnSpin(":3@N")
	require.NoError(Te, err)
	rx, _ := s.Value("rx")
	assert.InDelta(Te, 10.0, rx, 1e-3)
	//running it again fails at the first step, as the pipe exists.
	err = R.Run(S)
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "step 1 (pipe.create)")
	assert.True(Te, relax.IsKind(err, relax.ConfigError))
}

func TestMonteCarloScript(Te *testing.T) {
	dir := Te.TempDir()
	script := fitScript(Te, dir) + `  - op: montecarlo.setup
    args: {number: 5}
  - op: montecarlo.create_data
  - op: montecarlo.initial_values
  - op: minimise.minimise
  - op: montecarlo.error_analysis
  - op: pipe.display
`
	S, err := ParseScript(strings.NewReader(script))
	require.NoError(Te, err)
	R := NewRunner(dir)
	var out bytes.Buffer
	R.Out = &out
	require.NoError(Te, R.Run(S))
	P, err := R.C.Current()
	require.NoError(Te, err)
	for _, s := range P.Spins() {
		e, ok := s.Error("rx")
		require.True(Te, ok)
		assert.False(Te, math.IsNaN(e))
		assert.Greater(Te, e, 0.0)
	}
	assert.Contains(Te, out.String(), "* R1")
	assert.Contains(Te, out.String(), "5 Monte Carlo simulations")
}

func TestReadScript(Te *testing.T) {
	dir := Te.TempDir()
	sub := filepath.Join(dir, "scripts")
	require.NoError(Te, os.Mkdir(sub, 0755))
	name := filepath.Join(sub, "fit.yaml")
	require.NoError(Te, os.WriteFile(name, []byte("dir: ../data\nsteps:\n  - op: pipe.create\n    args: {name: a, type: noe}\n"), 0644))
	S, err := ReadScript(name)
	require.NoError(Te, err)
	assert.Equal(Te, filepath.Join(dir, "data"), S.Dir)
	_, err = ReadScript(filepath.Join(dir, "missing.yaml"))
	assert.True(Te, relax.IsKind(err, relax.FileError))
}

func TestInvalidScripts(Te *testing.T) {
	//errors found when parsing.
	for _, s := range []string{
		"steps: []\n",
		"steps:\n  - args: {name: a}\n",
		"dir: x\nsteps:\n  - op: pipe.create\nextra: 1\n",
	} {
		_, err := ParseScript(strings.NewReader(s))
		assert.True(Te, relax.IsKind(err, relax.ConfigError), s)
	}
	//errors found when checking.
	for _, s := range []string{
		"steps:\n  - op: pipe.explode\n",
		"steps:\n  - op: pipe.create\n",
		"steps:\n  - op: pipe.create\n    args: {nmae: a}\n",
		"steps:\n  - op: montecarlo.setup\n    args: {number: two}\n",
		"steps:\n  - op: value.write\n    args: {file: a, param: rx, compress: rar}\n",
		"steps:\n  - op: spectrum.read_intensities\n    args: {file: a, spectrum_id: b, spectrum_type: both}\n",
	} {
		S, err := ParseScript(strings.NewReader(s))
		require.NoError(Te, err, s)
		err = S.Check()
		assert.True(Te, relax.IsKind(err, relax.ConfigError), s)
	}
	S, err := ParseScript(strings.NewReader("steps:\n  - op: pipe.explode\n"))
	require.NoError(Te, err)
	assert.Contains(Te, S.Check().Error(), "pipe.create")
	//nothing runs if a later step is invalid.
	S, err = ParseScript(strings.NewReader("steps:\n  - op: pipe.create\n    args: {name: a, type: noe}\n  - op: pipe.explode\n"))
	require.NoError(Te, err)
	R := NewRunner(Te.TempDir())
	require.Error(Te, R.Run(S))
	assert.Empty(Te, R.C.Names())
}

func TestCommands(Te *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(Te, rootCmd.Execute())
	assert.Equal(Te, "gorelax "+Version+"\n", out.String())
	dir := Te.TempDir()
	name := filepath.Join(dir, "s.yaml")
	require.NoError(Te, os.WriteFile(name, []byte("steps:\n  - op: pipe.create\n    args: {name: a, type: noe}\n  - op: montecarlo.off\n"), 0644))
	out.Reset()
	rootCmd.SetArgs([]string{"validate", name})
	require.NoError(Te, rootCmd.Execute())
	assert.Contains(Te, out.String(), "2 valid steps")
}
