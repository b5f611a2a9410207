/*
 * pipe.go, part of gorelax.
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
	"github.com/rmera/gorelax/spinid"
)

// Pipe is a data pipe: one analysis context, with its molecule-residue-spin
// hierarchy, interatomic containers and global data.
type Pipe struct {
	Name        string
	Type        PipeType
	Mol         []*Molecule
	Interatomic []*Interatom
	//global minimisation statistics, and their Monte Carlo counterparts.
	Stats    MinStats
	SimStats []MinStats
	//global parameters.
	Values map[string]float64
	Errors map[string]float64
	Sims   map[string][]float64
	//Monte Carlo simulation state.
	SimNumber int
	SimState  bool
	SelectSim []bool
	//spectral data.
	SpectrumIDs   []string
	RelaxTimes    map[string]float64
	SpectrumTypes map[string]string
	NCProc        map[string]int //Bruker binary intensity scaling exponents.
	index         map[string]*Spin
}

// NewPipe returns an empty pipe of the given type.
func NewPipe(name string, t PipeType) *Pipe {
	P := &Pipe{Name: name, Type: t}
	P.Reindex()
	return P
}

// Analysis returns the analysis type strategy for the pipe.
func (P *Pipe) Analysis() (Analysis, error) {
	a, err := AnalysisFor(P.Type)
	if err != nil {
		return nil, errDecorate(err, "Analysis")
	}
	return a, nil
}

// Spins returns all the spins in the pipe, in sequence order.
func (P *Pipe) Spins() []*Spin {
	ret := make([]*Spin, 0, 16)
	for _, m := range P.Mol {
		for _, r := range m.Res {
			ret = append(ret, r.Spin...)
		}
	}
	return ret
}

// SpinCount returns the number of spins in the pipe.
func (P *Pipe) SpinCount() int {
	n := 0
	for _, m := range P.Mol {
		for _, r := range m.Res {
			n += len(r.Spin)
		}
	}
	return n
}

// HasSequence returns true if the pipe contains at least one spin.
func (P *Pipe) HasSequence() bool {
	return P.SpinCount() > 0
}

// TestSequence returns a precondition error if the pipe has no spins.
func (P *Pipe) TestSequence() error {
	if !P.HasSequence() {
		return NewError(PreconditionError, "TestSequence", NoSequence, P.Name)
	}
	return nil
}

// Reindex rebuilds the spin ID lookup table and the parent links of the
// residues and spins. It must be called after any change to the structure
// of the molecule-residue-spin hierarchy.
func (P *Pipe) Reindex() {
	P.index = make(map[string]*Spin)
	top := newCounts()
	molc := make([]*idCounts, len(P.Mol))
	resc := make([][]*idCounts, len(P.Mol))
	full := make(map[string]int)
	for i, m := range P.Mol {
		molc[i] = newCounts()
		resc[i] = make([]*idCounts, len(m.Res))
		for j, r := range m.Res {
			r.mol = m
			resc[i][j] = newCounts()
			for _, c := range []*idCounts{top, molc[i]} {
				if r.Name != "" {
					c.resName[r.Name]++
				}
				if r.Num != spinid.NoNum {
					c.resNum[r.Num]++
				}
			}
			for _, s := range r.Spin {
				s.res = r
				full[s.SpinID()]++
				for _, c := range []*idCounts{top, molc[i], resc[i][j]} {
					if s.Name != "" {
						c.spinName[s.Name]++
					}
					if s.Num != spinid.NoNum {
						c.spinNum[s.Num]++
					}
				}
			}
		}
	}
	clash := make(map[string]bool)
	for i, m := range P.Mol {
		for j, r := range m.Res {
			for _, s := range r.Spin {
				s.ids = nil
				if id := s.SpinID(); full[id] == 1 {
					s.ids = append(s.ids, id)
				}
				s.ids = appendUnique(s.ids, variants(m, r, s, top, molc[i], resc[i][j])...)
				for _, id := range s.ids {
					if prev, ok := P.index[id]; ok && prev != s {
						clash[id] = true
					}
					P.index[id] = s
				}
			}
		}
	}
	for id := range clash {
		delete(P.index, id)
	}
}

// idCounts holds how many times each residue and spin name and
// number appears at one level of the hierarchy.
type idCounts struct {
	resName  map[string]int
	resNum   map[int]int
	spinName map[string]int
	spinNum  map[int]int
}

func newCounts() *idCounts {
	return &idCounts{map[string]int{}, map[int]int{}, map[string]int{}, map[int]int{}}
}

func appendUnique(list []string, ids ...string) []string {
	for _, id := range ids {
		if !isInString(list, id) {
			list = append(list, id)
		}
	}
	return list
}

// variants returns the spin IDs that address the spin s unambiguously, given the
// counts of names and numbers at the top, molecule and residue levels.
func variants(m *Molecule, r *Residue, s *Spin, t, mo, re *idCounts) []string {
	hasResName, hasResNum := r.Name != "", r.Num != spinid.NoNum
	hasSpinName, hasSpinNum := s.Name != "", s.Num != spinid.NoNum
	uTopResName := !hasResName || t.resName[r.Name] <= 1
	uTopResNum := !hasResNum || t.resNum[r.Num] <= 1
	uTopSpinName := !hasSpinName || t.spinName[s.Name] <= 1
	uTopSpinNum := !hasSpinNum || t.spinNum[s.Num] <= 1
	uMolResName := !hasResName || mo.resName[r.Name] <= 1
	uMolResNum := !hasResNum || mo.resNum[r.Num] <= 1
	uMolSpinName := !hasSpinName || mo.spinName[s.Name] <= 1
	uMolSpinNum := !hasSpinNum || mo.spinNum[s.Num] <= 1
	uResSpinName := !hasSpinName || re.spinName[s.Name] <= 1
	uResSpinNum := !hasSpinNum || re.spinNum[s.Num] <= 1
	nspins, nres := len(r.Spin), len(m.Res)
	gen := func(mol string, resNum int, resName string, spinNum int, spinName string) string {
		return spinid.Generate(spinid.ID{Mol: mol, ResNum: resNum, ResName: resName, SpinNum: spinNum, SpinName: spinName})
	}
	no := spinid.NoNum
	var ids []string
	if m.Name != "" {
		if hasResName {
			if hasSpinName && uMolResName && uResSpinName {
				ids = append(ids, gen(m.Name, no, r.Name, no, s.Name))
			}
			if hasSpinNum && uMolResName && uResSpinNum {
				ids = append(ids, gen(m.Name, no, r.Name, s.Num, ""))
			}
			if nspins == 1 && uMolResName {
				ids = append(ids, gen(m.Name, no, r.Name, no, ""))
			}
		}
		if hasResNum {
			if hasSpinName && uMolResNum && uResSpinName {
				ids = append(ids, gen(m.Name, r.Num, "", no, s.Name))
			}
			if hasSpinNum && uMolResNum && uResSpinNum {
				ids = append(ids, gen(m.Name, r.Num, "", s.Num, ""))
			}
			if nspins == 1 && uMolResNum {
				ids = append(ids, gen(m.Name, r.Num, "", no, ""))
			}
		}
		if hasSpinName && uMolSpinName {
			ids = append(ids, gen(m.Name, no, "", no, s.Name))
		}
		if hasSpinNum && uMolSpinNum {
			ids = append(ids, gen(m.Name, no, "", s.Num, ""))
		}
		if nspins == 1 && nres == 1 {
			ids = append(ids, gen(m.Name, no, "", no, ""))
		}
	}
	if hasResName {
		if hasSpinName && uTopResName && uResSpinName {
			ids = append(ids, gen("", no, r.Name, no, s.Name))
		}
		if hasSpinNum && uTopResName && uResSpinNum {
			ids = append(ids, gen("", no, r.Name, s.Num, ""))
		}
		if nspins == 1 && uTopResName {
			ids = append(ids, gen("", no, r.Name, no, ""))
		}
	}
	if hasResNum {
		if hasSpinName && uTopResNum && uResSpinName {
			ids = append(ids, gen("", r.Num, "", no, s.Name))
		}
		if hasSpinNum && uTopResNum && uResSpinNum {
			ids = append(ids, gen("", r.Num, "", s.Num, ""))
		}
		if nspins == 1 && uTopResNum {
			ids = append(ids, gen("", r.Num, "", no, ""))
		}
	}
	if hasSpinName && uTopSpinName {
		ids = append(ids, gen("", no, "", no, s.Name))
	}
	if hasSpinNum && uTopSpinNum {
		ids = append(ids, gen("", no, "", s.Num, ""))
	}
	return ids
}
