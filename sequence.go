/*
 * sequence.go, part of gorelax.
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
	"fmt"
	"io"
	"log"

	"github.com/rmera/gorelax/seqio"
	"github.com/rmera/gorelax/spinid"
)

// ReadSequence creates the spins listed in file (a name or an open reader) in
// the pipe, which must not have sequence data. If cols is nil, the layout of
// seqio.SequenceColumns is used. It returns the warnings for the skipped rows.
func (P *Pipe) ReadSequence(file interface{}, dir, sep string, cols *seqio.Columns, restrict string) ([]string, error) {
	if P.HasSequence() {
		return nil, NewError(PreconditionError, "ReadSequence", SequenceExists, P.Name)
	}
	if cols == nil {
		cols = seqio.SequenceColumns()
	}
	rows, warnings, err := seqio.ReadFile(file, dir, sep, cols, restrict)
	if err != nil {
		return warnings, errDecorate(err, "ReadSequence")
	}
	for _, r := range rows {
		if _, err := P.GenerateSpin(r.ID, true); err != nil {
			return warnings, errDecorate(err, "ReadSequence")
		}
	}
	return warnings, nil
}

// GenerateSequence creates, selected, all the given spins.
func (P *Pipe) GenerateSequence(ids []spinid.ID) error {
	for _, id := range ids {
		if _, err := P.GenerateSpin(id, true); err != nil {
			return errDecorate(err, "GenerateSequence")
		}
	}
	return nil
}

// sequenceTable returns a table with the identification of the given spins.
func sequenceTable(spins []*Spin) *seqio.Table {
	n := len(spins)
	T := &seqio.Table{
		MolNames:  make([]string, n),
		ResNums:   make([]int, n),
		ResNames:  make([]string, n),
		SpinNums:  make([]int, n),
		SpinNames: make([]string, n),
	}
	for i, s := range spins {
		id := s.ID()
		T.MolNames[i] = id.Mol
		T.ResNums[i] = id.ResNum
		T.ResNames[i] = id.ResName
		T.SpinNums[i] = id.SpinNum
		T.SpinNames[i] = id.SpinName
	}
	return T
}

// WriteSequence writes the molecule, residue and spin identification of the spins
// matching the selection to w.
func (P *Pipe) WriteSequence(w io.Writer, sep, selection string) error {
	if err := P.TestSequence(); err != nil {
		return errDecorate(err, "WriteSequence")
	}
	spins, err := P.SpinLoop(selection, false)
	if err != nil {
		return errDecorate(err, "WriteSequence")
	}
	if err := seqio.WriteSpinData(w, sep, sequenceTable(spins)); err != nil {
		return errDecorate(err, "WriteSequence")
	}
	return nil
}

// CopySequence copies the molecule, residue and spin structure from the pipe
// from to the pipe to ("" meaning the current pipe in either case, but not in
// both). The target must not have sequence data. If empty is true, only the
// spin names and numbers are copied, not the spin data. If preserveSelect is
// false, all the new spins are selected.
func (C *Context) CopySequence(from, to string, preserveSelect, empty bool) error {
	if from == "" && to == "" {
		return NewError(ConfigError, "CopySequence", "The source and target pipes cannot both be the current pipe")
	}
	src, err := C.Get(from)
	if err != nil {
		return errDecorate(err, "CopySequence")
	}
	dst, err := C.Get(to)
	if err != nil {
		return errDecorate(err, "CopySequence")
	}
	if !src.HasSequence() {
		return NewError(PreconditionError, "CopySequence", NoSequence, src.Name)
	}
	if dst.HasSequence() {
		return NewError(PreconditionError, "CopySequence", SequenceExists, dst.Name)
	}
	//everything is read before anything is written.
	cp, err := src.Clone()
	if err != nil {
		return errDecorate(err, "CopySequence")
	}
	for _, m := range cp.Mol {
		for _, r := range m.Res {
			for i, s := range r.Spin {
				if empty {
					n := NewSpin(s.Num, s.Name)
					n.Select = s.Select
					r.Spin[i] = n
					s = n
				}
				if !preserveSelect {
					s.Select = true
				}
			}
		}
	}
	dst.Mol = cp.Mol
	dst.Reindex()
	return nil
}

// CompareSequence returns a DataError if the sequences of the two pipes differ.
func CompareSequence(a, b *Pipe) error {
	if len(a.Mol) != len(b.Mol) {
		return NewError(DataError, "CompareSequence", "The number of molecules of the pipes %q (%d) and %q (%d) differ", a.Name, len(a.Mol), b.Name, len(b.Mol))
	}
	for i, ma := range a.Mol {
		mb := b.Mol[i]
		if len(ma.Res) != len(mb.Res) {
			return NewError(DataError, "CompareSequence", "The number of residues of the molecule %d of the pipes %q and %q differ", i+1, a.Name, b.Name)
		}
		for j, ra := range ma.Res {
			rb := mb.Res[j]
			if len(ra.Spin) != len(rb.Spin) {
				return NewError(DataError, "CompareSequence", "The number of spins of the residue %d of the molecule %d of the pipes %q and %q differ", j+1, i+1, a.Name, b.Name)
			}
			for k, sa := range ra.Spin {
				if ida, idb := sa.SpinID(), rb.Spin[k].SpinID(); ida != idb {
					return NewError(DataError, "CompareSequence", "The sequences of the pipes %q and %q differ: %q vs %q", a.Name, b.Name, ida, idb)
				}
			}
		}
	}
	return nil
}

// AttachProtons creates a proton, named H, in the residue of each heteronucleus
// without an attached proton. All the spins named H get the H element and the
// 1H isotope.
func (P *Pipe) AttachProtons() error {
	if err := P.TestSequence(); err != nil {
		return errDecorate(err, "AttachProtons")
	}
	var res []*Residue
	for _, s := range P.Spins() {
		if s.Element == "H" || s.Name == "H" {
			continue
		}
		found := false
		for _, I := range P.Interatomic {
			s1, s2, err := P.InteratomSpins(I)
			if err != nil {
				continue
			}
			if s1 != s && s2 != s {
				continue
			}
			other := s2
			if s2 == s {
				other = s1
			}
			if other.Element == "H" || other.Name == "H" {
				found = true
				break
			}
		}
		if !found && findSpin(s.Res(), spinid.NoNum, "H") == nil {
			res = append(res, s.Res())
		}
	}
	//created outside of the spin loop, as it changes the sequence.
	created := 0
	for _, r := range res {
		if findSpin(r, spinid.NoNum, "H") != nil {
			continue
		}
		r.Spin = append(r.Spin, NewSpin(spinid.NoNum, "H"))
		created++
	}
	P.Reindex()
	protons, err := P.SpinLoop("@H", false)
	if err != nil {
		return errDecorate(err, "AttachProtons")
	}
	for _, s := range protons {
		s.Element = "H"
		s.Isotope = "1H"
	}
	if created > 0 {
		log.Printf("%d protons attached", created)
	}
	return nil
}

// SetElement sets the element of the spins matching the selection.
func (P *Pipe) SetElement(selection, element string) error {
	return P.setSpinString(selection, func(S *Spin) { S.Element = element })
}

// SetIsotope sets the isotope of the spins matching the selection.
func (P *Pipe) SetIsotope(selection, isotope string) error {
	return P.setSpinString(selection, func(S *Spin) { S.Isotope = isotope })
}

func (P *Pipe) setSpinString(selection string, f func(*Spin)) error {
	if err := P.TestSequence(); err != nil {
		return errDecorate(err, "setSpinString")
	}
	spins, err := P.SpinLoop(selection, false)
	if err != nil {
		return errDecorate(err, "setSpinString")
	}
	if len(spins) == 0 {
		return NewError(PreconditionError, "setSpinString", NoSpin, selection)
	}
	for _, s := range spins {
		f(s)
	}
	return nil
}

// SequenceString returns one line per spin with its ID and selection state.
func (P *Pipe) SequenceString() string {
	ret := ""
	for _, s := range P.Spins() {
		ret += fmt.Sprintf("%-20s %v\n", s.SpinID(), s.Select)
	}
	return ret
}
