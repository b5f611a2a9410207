/*
 * containers.go, part of gorelax.
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
	"bytes"
	"encoding/gob"
	"math"

	"github.com/rmera/gorelax/spinid"
)

// MinStats holds the statistics of a minimisation. A nil field
// means that the statistic has not been set.
type MinStats struct {
	Chi2    *float64
	Iter    *int
	FCount  *int
	GCount  *int
	HCount  *int
	Warning *string
}

// Reset sets all the statistics to unset.
func (M *MinStats) Reset() {
	*M = MinStats{}
}

// IsSet returns true if at least one statistic is set.
func (M *MinStats) IsSet() bool {
	return M.Chi2 != nil || M.Iter != nil || M.FCount != nil || M.GCount != nil || M.HCount != nil || M.Warning != nil
}

// Store sets all the statistics at once. An empty warning is stored as unset.
func (M *MinStats) Store(chi2 float64, iter, fcount, gcount, hcount int, warning string) {
	M.Chi2 = &chi2
	M.Iter = &iter
	M.FCount = &fcount
	M.GCount = &gcount
	M.HCount = &hcount
	M.Warning = nil
	if warning != "" {
		M.Warning = &warning
	}
}

// minStatsWire is the gob form of MinStats. Set marks the fields present,
// so a zero statistic is not read back as unset.
type minStatsWire struct {
	Set                          uint8
	Chi2                         float64
	Iter, FCount, GCount, HCount int
	Warning                      string
}

const (
	setChi2 uint8 = 1 << iota
	setIter
	setFCount
	setGCount
	setHCount
	setWarning
)

// GobEncode implements gob.GobEncoder.
func (M MinStats) GobEncode() ([]byte, error) {
	var w minStatsWire
	if M.Chi2 != nil {
		w.Set |= setChi2
		w.Chi2 = *M.Chi2
	}
	ints := []struct {
		p   *int
		dst *int
		bit uint8
	}{{M.Iter, &w.Iter, setIter}, {M.FCount, &w.FCount, setFCount}, {M.GCount, &w.GCount, setGCount}, {M.HCount, &w.HCount, setHCount}}
	for _, v := range ints {
		if v.p != nil {
			w.Set |= v.bit
			*v.dst = *v.p
		}
	}
	if M.Warning != nil {
		w.Set |= setWarning
		w.Warning = *M.Warning
	}
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(w)
	return buf.Bytes(), err
}

// GobDecode implements gob.GobDecoder.
func (M *MinStats) GobDecode(b []byte) error {
	var w minStatsWire
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&w); err != nil {
		return err
	}
	M.Reset()
	if w.Set&setChi2 != 0 {
		M.Chi2 = &w.Chi2
	}
	if w.Set&setIter != 0 {
		M.Iter = &w.Iter
	}
	if w.Set&setFCount != 0 {
		M.FCount = &w.FCount
	}
	if w.Set&setGCount != 0 {
		M.GCount = &w.GCount
	}
	if w.Set&setHCount != 0 {
		M.HCount = &w.HCount
	}
	if w.Set&setWarning != 0 {
		M.Warning = &w.Warning
	}
	return nil
}

// Molecule is a container of residues.
type Molecule struct {
	Name string
	Type string
	Res  []*Residue
}

// Residue is a container of spins.
type Residue struct {
	Num  int
	Name string
	Spin []*Spin
	mol  *Molecule
}

// Mol returns the molecule the residue belongs to.
func (R *Residue) Mol() *Molecule {
	return R.mol
}

// Spin is the container for the data of a single nucleus.
type Spin struct {
	Num     int
	Name    string
	Select  bool
	Element string
	Isotope string
	//one position per structural model.
	Pos   [][]float64
	Model string
	//the parameters of the current model
	Params []string
	//parameter values, errors and Monte Carlo simulated values.
	Values map[string]float64
	Errors map[string]float64
	Sims   map[string][]float64
	//peak intensities, keyed by spectrum ID. IntensitySim is indexed by simulation.
	Intensity    map[string]float64
	IntensityErr map[string]float64
	IntensitySim []map[string]float64
	Stats        MinStats
	SimStats     []MinStats
	SelectSim    []bool
	res          *Residue
	ids          []string
}

// NewSpin returns a selected spin with the given number and name.
func NewSpin(num int, name string) *Spin {
	return &Spin{Num: num, Name: name, Select: true}
}

// Res returns the residue the spin belongs to.
func (S *Spin) Res() *Residue {
	return S.res
}

// ID returns the full address of the spin.
func (S *Spin) ID() spinid.ID {
	id := spinid.Empty()
	id.SpinNum = S.Num
	id.SpinName = S.Name
	if S.res != nil {
		id.ResNum = S.res.Num
		id.ResName = S.res.Name
		if S.res.mol != nil {
			id.Mol = S.res.mol.Name
		}
	}
	return id
}

// SpinID returns the canonical spin ID string of the spin.
func (S *Spin) SpinID() string {
	return spinid.Generate(S.ID())
}

// Aliases returns all the spin ID strings that address this spin
// unambiguously in its pipe.
func (S *Spin) Aliases() []string {
	return S.ids
}

// Value returns the value of the parameter, and whether it is set.
func (S *Spin) Value(param string) (float64, bool) {
	v, ok := S.Values[param]
	return v, ok
}

// SetValue sets the value of a parameter.
func (S *Spin) SetValue(param string, val float64) {
	if S.Values == nil {
		S.Values = make(map[string]float64)
	}
	S.Values[param] = val
}

// Error returns the error of the parameter, and whether it is set.
func (S *Spin) Error(param string) (float64, bool) {
	v, ok := S.Errors[param]
	return v, ok
}

// SetError sets the error of a parameter.
func (S *Spin) SetError(param string, val float64) {
	if S.Errors == nil {
		S.Errors = make(map[string]float64)
	}
	S.Errors[param] = val
}

// Sim returns the value of the parameter for the simulation i. The value
// is NaN if it is not set.
func (S *Spin) Sim(param string, i int) float64 {
	s := S.Sims[param]
	if i < 0 || i >= len(s) {
		return math.NaN()
	}
	return s[i]
}

// SetSim sets the simulated value of a parameter for the simulation i
// of n. The simulation slice is created, with NaN values, if needed.
func (S *Spin) SetSim(param string, i, n int, val float64) {
	if S.Sims == nil {
		S.Sims = make(map[string][]float64)
	}
	S.Sims[param] = fitSims(S.Sims[param], n)
	if i >= 0 && i < n {
		S.Sims[param][i] = val
	}
}

// NumData returns the number of peak intensities stored in the spin.
func (S *Spin) NumData() int {
	return len(S.Intensity)
}

// fitSims returns s resized to n, filling new elements with NaN.
func fitSims(s []float64, n int) []float64 {
	if len(s) == n {
		return s
	}
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = math.NaN()
		if i < len(s) {
			ret[i] = s[i]
		}
	}
	return ret
}

// Interatom holds the data for a pair of spins. The spins are referred to by
// their spin IDs, which are resolved against the pipe each time they are used.
type Interatom struct {
	SpinID1    string
	SpinID2    string
	Select     bool
	DipolePair bool
	Dist       *float64
	//unit vectors from spin 1 to spin 2, one per structural model.
	Vector [][]float64
	//residual dipolar couplings keyed by alignment ID.
	RDC    map[string]float64
	RDCErr map[string]float64
}
