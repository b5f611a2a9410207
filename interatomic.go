/*
 * interatomic.go, part of gorelax.
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

// InteratomSpins resolves the two spins of the container against the pipe.
// An error is returned if either of them no longer exists.
func (P *Pipe) InteratomSpins(I *Interatom) (*Spin, *Spin, error) {
	s1, err := P.ReturnSpin(I.SpinID1)
	if err != nil {
		return nil, nil, errDecorate(err, "InteratomSpins")
	}
	s2, err := P.ReturnSpin(I.SpinID2)
	if err != nil {
		return nil, nil, errDecorate(err, "InteratomSpins")
	}
	return s1, s2, nil
}

// findInteratom returns the container between the two spins, in either order, or nil.
func (P *Pipe) findInteratom(s1, s2 *Spin) *Interatom {
	for _, I := range P.Interatomic {
		a, b, err := P.InteratomSpins(I)
		if err != nil {
			continue
		}
		if (a == s1 && b == s2) || (a == s2 && b == s1) {
			return I
		}
	}
	return nil
}

// CreateInteratom creates the container between the spins id1 and id2. It is an
// error for a container between those spins to exist, in either order.
func (P *Pipe) CreateInteratom(id1, id2 string) (*Interatom, error) {
	s1, err := P.ReturnSpin(id1)
	if err != nil {
		return nil, errDecorate(err, "CreateInteratom")
	}
	s2, err := P.ReturnSpin(id2)
	if err != nil {
		return nil, errDecorate(err, "CreateInteratom")
	}
	if P.findInteratom(s1, s2) != nil {
		return nil, NewError(ConfigError, "CreateInteratom", InteratomExists, id1, id2)
	}
	I := &Interatom{SpinID1: s1.SpinID(), SpinID2: s2.SpinID(), Select: true}
	P.Interatomic = append(P.Interatomic, I)
	return I, nil
}

// ReturnInteratom returns the container between the spins id1 and id2, in either
// order, or nil if there is none. An error is returned only if the spins
// cannot be resolved.
func (P *Pipe) ReturnInteratom(id1, id2 string) (*Interatom, error) {
	s1, err := P.ReturnSpin(id1)
	if err != nil {
		return nil, errDecorate(err, "ReturnInteratom")
	}
	s2, err := P.ReturnSpin(id2)
	if err != nil {
		return nil, errDecorate(err, "ReturnInteratom")
	}
	return P.findInteratom(s1, s2), nil
}

// RequireInteratom is like ReturnInteratom, but a missing container is an error.
func (P *Pipe) RequireInteratom(id1, id2 string) (*Interatom, error) {
	I, err := P.ReturnInteratom(id1, id2)
	if err != nil {
		return nil, errDecorate(err, "RequireInteratom")
	}
	if I == nil {
		return nil, NewError(PreconditionError, "RequireInteratom", NoInteratom, id1, id2)
	}
	return I, nil
}

// InteratomLoop returns the containers with one spin in sel1 and the other in
// sel2. If sel2 is empty, containers with either spin in sel1 are returned.
// Containers whose spins no longer exist are skipped. If skipDesel is true,
// deselected containers, and those with a deselected spin, are skipped too.
func (P *Pipe) InteratomLoop(sel1, sel2 string, skipDesel bool) ([]*Interatom, error) {
	S1, err := spinid.NewSelection(sel1)
	if err != nil {
		return nil, NewError(ConfigError, "InteratomLoop", "%s", err.Error())
	}
	S2, err := spinid.NewSelection(sel2)
	if err != nil {
		return nil, NewError(ConfigError, "InteratomLoop", "%s", err.Error())
	}
	var ret []*Interatom
	for _, I := range P.Interatomic {
		a, b, err := P.InteratomSpins(I)
		if err != nil {
			continue
		}
		if skipDesel && (!I.Select || !a.Select || !b.Select) {
			continue
		}
		ida, idb := a.ID(), b.ID()
		if sel2 == "" {
			if !S1.Contains(ida) && !S1.Contains(idb) {
				continue
			}
		} else if !(S1.Contains(ida) && S2.Contains(idb)) && !(S1.Contains(idb) && S2.Contains(ida)) {
			continue
		}
		ret = append(ret, I)
	}
	return ret, nil
}

func isHeteroPair(e1, e2 string) bool {
	if e1 == "H" {
		e1, e2 = e2, e1
	}
	return e2 == "H" && (e1 == "N" || e1 == "C")
}

// DefineDipolePair sets up the magnetic dipole-dipole interaction between the
// spins in sel1 and those in sel2, creating the interatomic containers as needed.
// If directBond is true, only N-H and C-H pairs in the same residue are used.
// It returns the spin ID pairs set. It is an error for any of the interactions
// to exist, in which case the pipe is not changed.
func (P *Pipe) DefineDipolePair(sel1, sel2 string, directBond bool) ([][2]string, error) {
	spins1, err := P.SpinLoop(sel1, false)
	if err != nil {
		return nil, errDecorate(err, "DefineDipolePair")
	}
	spins2, err := P.SpinLoop(sel2, false)
	if err != nil {
		return nil, errDecorate(err, "DefineDipolePair")
	}
	//all pairs are checked before the pipe is changed.
	var pairs [][2]*Spin
	seen := make(map[[2]*Spin]bool)
	for _, s1 := range spins1 {
		for _, s2 := range spins2 {
			if s1 == s2 {
				continue
			}
			id1, id2 := s1.SpinID(), s2.SpinID()
			if directBond {
				if s1.Element == "" {
					return nil, NewError(DataError, "DefineDipolePair", "The spin %q does not have the element type set", id1)
				}
				if s2.Element == "" {
					return nil, NewError(DataError, "DefineDipolePair", "The spin %q does not have the element type set", id2)
				}
				if !isHeteroPair(s1.Element, s2.Element) || !sameResidue(s1, s2) {
					continue
				}
			}
			if I := P.findInteratom(s1, s2); (I != nil && I.DipolePair) || seen[[2]*Spin{s1, s2}] {
				return nil, NewError(ConfigError, "DefineDipolePair", DipoleExists, id1, id2)
			}
			seen[[2]*Spin{s1, s2}] = true
			seen[[2]*Spin{s2, s1}] = true
			pairs = append(pairs, [2]*Spin{s1, s2})
		}
	}
	var ids [][2]string
	for _, pair := range pairs {
		id1, id2 := pair[0].SpinID(), pair[1].SpinID()
		I := P.findInteratom(pair[0], pair[1])
		if I == nil {
			I = &Interatom{SpinID1: id1, SpinID2: id2, Select: true}
			P.Interatomic = append(P.Interatomic, I)
		}
		I.DipolePair = true
		ids = append(ids, [2]string{id1, id2})
	}
	if len(ids) == 0 {
		switch {
		case len(spins1) == 0 && len(spins2) == 0:
			return nil, NewError(PreconditionError, "DefineDipolePair", "Both spin IDs %q and %q match no spins", sel1, sel2)
		case len(spins1) == 0:
			return nil, NewError(PreconditionError, "DefineDipolePair", "The spin ID %q matches no spins", sel1)
		case len(spins2) == 0:
			return nil, NewError(PreconditionError, "DefineDipolePair", "The spin ID %q matches no spins", sel2)
		}
		return nil, NewError(DataError, "DefineDipolePair", "No spin pairs between %q and %q could be set", sel1, sel2)
	}
	return ids, nil
}

// SetDist sets the averaged distance, in meters, for the interatomic
// containers between sel1 and sel2.
func (P *Pipe) SetDist(sel1, sel2 string, r float64) error {
	if r <= 0 {
		return NewError(ConfigError, "SetDist", "The distance %g must be positive", r)
	}
	inter, err := P.InteratomLoop(sel1, sel2, false)
	if err != nil {
		return errDecorate(err, "SetDist")
	}
	if len(inter) == 0 {
		return NewError(PreconditionError, "SetDist", NoInteratom, sel1, sel2)
	}
	for _, I := range inter {
		d := r
		I.Dist = &d
	}
	return nil
}

// ConsistentInteratomicData returns a DataError unless both pipes have the
// same interatomic containers, in the same order.
func ConsistentInteratomicData(a, b *Pipe) error {
	if len(a.Interatomic) != len(b.Interatomic) {
		return NewError(DataError, "ConsistentInteratomicData", "The number of interatomic containers of the pipes %q (%d) and %q (%d) differ", a.Name, len(a.Interatomic), b.Name, len(b.Interatomic))
	}
	for i, Ia := range a.Interatomic {
		Ib := b.Interatomic[i]
		if Ia.SpinID1 != Ib.SpinID1 || Ia.SpinID2 != Ib.SpinID2 {
			return NewError(DataError, "ConsistentInteratomicData", "The interatomic containers %q-%q and %q-%q of the pipes %q and %q differ", Ia.SpinID1, Ia.SpinID2, Ib.SpinID1, Ib.SpinID2, a.Name, b.Name)
		}
	}
	return nil
}
