/*
 * spins.go, part of gorelax.
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

// findMol returns the molecule with the given name. An empty name
// refers to the only molecule in the pipe, if there is only one,
// or to the unnamed molecule otherwise.
func (P *Pipe) findMol(name string) *Molecule {
	if name == "" && len(P.Mol) == 1 {
		return P.Mol[0]
	}
	for _, m := range P.Mol {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// findRes returns the residue matching the given number and name.
// When both are set, both must match.
func findRes(m *Molecule, num int, name string) *Residue {
	for _, r := range m.Res {
		if num != spinid.NoNum && r.Num != num {
			continue
		}
		if name != "" && r.Name != name {
			continue
		}
		if num == spinid.NoNum && name == "" && (r.Num != spinid.NoNum || r.Name != "") {
			continue
		}
		return r
	}
	return nil
}

func findSpin(r *Residue, num int, name string) *Spin {
	for _, s := range r.Spin {
		if num != spinid.NoNum && s.Num != num {
			continue
		}
		if name != "" && s.Name != name {
			continue
		}
		if num == spinid.NoNum && name == "" && (s.Num != spinid.NoNum || s.Name != "") {
			continue
		}
		return s
	}
	return nil
}

// residueFor returns the residue of m for the ID, or nil. Residue numbers
// are unique within a molecule, so a numbered residue is found by number
// alone, and a different name is an error.
func residueFor(m *Molecule, id spinid.ID) (*Residue, error) {
	if id.ResNum == spinid.NoNum {
		return findRes(m, id.ResNum, id.ResName), nil
	}
	r := findRes(m, id.ResNum, "")
	if r != nil && id.ResName != "" && r.Name != "" && r.Name != id.ResName {
		return nil, NewError(ConfigError, "residueFor", ResNameMismatch, id.ResNum, r.Name, id.ResName)
	}
	return r, nil
}

// CreateSpin adds a new, selected, spin to the pipe, creating its
// molecule and residue if needed. It is an error for the spin to exist.
func (P *Pipe) CreateSpin(id spinid.ID) (*Spin, error) {
	m := P.findMol(id.Mol)
	if m != nil && id.Mol != "" && m.Name != id.Mol {
		m = nil
	}
	if m == nil {
		//an unnamed molecule with no residues is taken over.
		if len(P.Mol) == 1 && P.Mol[0].Name == "" && len(P.Mol[0].Res) == 0 {
			m = P.Mol[0]
			m.Name = id.Mol
		} else {
			m = &Molecule{Name: id.Mol}
			P.Mol = append(P.Mol, m)
		}
	}
	r, err := residueFor(m, id)
	if err != nil {
		return nil, errDecorate(err, "CreateSpin")
	}
	if r == nil {
		r = &Residue{Num: id.ResNum, Name: id.ResName}
		m.Res = append(m.Res, r)
	}
	if findSpin(r, id.SpinNum, id.SpinName) != nil {
		return nil, NewError(ConfigError, "CreateSpin", SpinExists, spinid.Generate(id))
	}
	if r.Name == "" {
		r.Name = id.ResName
	}
	s := NewSpin(id.SpinNum, id.SpinName)
	r.Spin = append(r.Spin, s)
	P.Reindex()
	return s, nil
}

// GenerateSpin returns the spin with the given ID, creating it if needed,
// and sets its selection state.
func (P *Pipe) GenerateSpin(id spinid.ID, sel bool) (*Spin, error) {
	var s *Spin
	if m := P.findMol(id.Mol); m != nil && (id.Mol == "" || m.Name == id.Mol) {
		r, err := residueFor(m, id)
		if err != nil {
			return nil, errDecorate(err, "GenerateSpin")
		}
		if r != nil {
			s = findSpin(r, id.SpinNum, id.SpinName)
			if s != nil && r.Name == "" {
				r.Name = id.ResName
				P.Reindex()
			}
		}
	}
	if s == nil {
		var err error
		s, err = P.CreateSpin(id)
		if err != nil {
			return nil, errDecorate(err, "GenerateSpin")
		}
	}
	s.Select = sel
	return s, nil
}

// DeleteSpin removes all the spins matching the selection, along with
// the residues and molecules left empty. Interatomic containers are not
// touched; the ones referring to the deleted spins will no longer resolve.
func (P *Pipe) DeleteSpin(selection string) error {
	sel, err := spinid.NewSelection(selection)
	if err != nil {
		return NewError(ConfigError, "DeleteSpin", "%s", err.Error())
	}
	mols := P.Mol[:0]
	for _, m := range P.Mol {
		res := m.Res[:0]
		for _, r := range m.Res {
			spins := r.Spin[:0]
			for _, s := range r.Spin {
				if !sel.Contains(s.ID()) {
					spins = append(spins, s)
				}
			}
			r.Spin = spins
			if len(r.Spin) > 0 {
				res = append(res, r)
			}
		}
		m.Res = res
		if len(m.Res) > 0 {
			mols = append(mols, m)
		}
	}
	P.Mol = mols
	P.Reindex()
	return nil
}

// ReturnSpin returns the spin addressed by id. The lookup table is used
// first. Otherwise all the spins are compared against the selection, in
// which case it is an error for more than one spin to match. If no spin
// matches, a precondition error is returned.
func (P *Pipe) ReturnSpin(id string) (*Spin, error) {
	id = spinid.StripQuotes(id)
	if s, ok := P.index[id]; ok {
		return s, nil
	}
	sel, err := spinid.NewSelection(id)
	if err != nil {
		return nil, NewError(ConfigError, "ReturnSpin", "%s", err.Error())
	}
	var ret *Spin
	for _, s := range P.Spins() {
		if !sel.Contains(s.ID()) {
			continue
		}
		if ret != nil {
			return nil, NewError(ConfigError, "ReturnSpin", MultipleSpins, id)
		}
		ret = s
	}
	if ret == nil {
		return nil, NewError(PreconditionError, "ReturnSpin", NoSpin, id)
	}
	return ret, nil
}

// SpinLoop returns the spins matching the selection (all of them, if
// the selection is empty), in sequence order. Deselected spins are left
// out if skipDesel is true.
func (P *Pipe) SpinLoop(selection string, skipDesel bool) ([]*Spin, error) {
	sel, err := spinid.NewSelection(selection)
	if err != nil {
		return nil, NewError(ConfigError, "SpinLoop", "%s", err.Error())
	}
	ret := make([]*Spin, 0, 16)
	for _, s := range P.Spins() {
		if skipDesel && !s.Select {
			continue
		}
		if sel.Contains(s.ID()) {
			ret = append(ret, s)
		}
	}
	return ret, nil
}

// Select selects the spins matching the selection. If changeAll is true,
// all the other spins are deselected.
func (P *Pipe) Select(selection string, changeAll bool) error {
	return P.changeSelection(selection, changeAll, true)
}

// Deselect deselects the spins matching the selection. If changeAll is
// true, all the other spins are selected.
func (P *Pipe) Deselect(selection string, changeAll bool) error {
	return P.changeSelection(selection, changeAll, false)
}

func (P *Pipe) changeSelection(selection string, changeAll, state bool) error {
	if err := P.TestSequence(); err != nil {
		return errDecorate(err, "changeSelection")
	}
	sel, err := spinid.NewSelection(selection)
	if err != nil {
		return NewError(ConfigError, "changeSelection", "%s", err.Error())
	}
	for _, s := range P.Spins() {
		if sel.Contains(s.ID()) {
			s.Select = state
		} else if changeAll {
			s.Select = !state
		}
	}
	return nil
}

// SelectAll selects all the spins in the pipe.
func (P *Pipe) SelectAll() error {
	return P.Select("", false)
}

// Reverse inverts the selection state of the spins matching the selection.
func (P *Pipe) Reverse(selection string) error {
	spins, err := P.SpinLoop(selection, false)
	if err != nil {
		return errDecorate(err, "Reverse")
	}
	for _, s := range spins {
		s.Select = !s.Select
	}
	return nil
}
