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

package structure

import (
	"fmt"
	"log"
	"math"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/spinid"
	"gonum.org/v1/gonum/floats"
)

// Angstrom is the length of an Angstrom in meters.
const Angstrom = 1e-10

// LoadSpins creates a spin, in the molecule molName, for each atom of the
// structure matching the selection, and sets the element and the positions
// (one per model) of the spin. Spins that already exist, addressed by their
// molecule, residue number and atom name, are updated instead, and get the
// atom number if they had none. It returns the IDs of the spins loaded.
func LoadSpins(C *relax.Context, st *Structure, selection, molName string) ([]string, error) {
	P, err := C.Current()
	if err != nil {
		return nil, relax.DecorateError(err, "LoadSpins")
	}
	sel, err := spinid.NewSelection(selection)
	if err != nil {
		return nil, relax.NewError(relax.ConfigError, "LoadSpins", "%s", err.Error())
	}
	var loaded []string
	for i, a := range st.Atoms {
		id := spinid.ID{Mol: molName, ResNum: a.ResNum, ResName: a.ResName, SpinNum: a.ID, SpinName: a.Name}
		if !sel.Contains(id) {
			continue
		}
		addr := spinid.Generate(spinid.ID{Mol: molName, ResNum: a.ResNum, SpinNum: spinid.NoNum, SpinName: a.Name})
		s, err := P.ReturnSpin(addr)
		switch {
		case relax.IsKind(err, relax.PreconditionError):
			if s, err = P.CreateSpin(id); err != nil {
				return loaded, relax.DecorateError(err, "LoadSpins")
			}
		case err != nil:
			return loaded, relax.DecorateError(err, "LoadSpins")
		case s.Num == spinid.NoNum:
			s.Num = a.ID
		}
		s.Element = a.Symbol
		s.Pos = make([][]float64, st.NModels())
		for m := range s.Pos {
			s.Pos[m] = st.Coord(m, i)
		}
		loaded = append(loaded, s.SpinID())
	}
	if len(loaded) == 0 {
		return nil, relax.NewError(relax.DataError, "LoadSpins", "No atoms match the selection %q", selection)
	}
	P.Reindex()
	return loaded, nil
}

// UnitVectors sets the unit vectors, one per model, of the selected
// interatomic containers with a dipole-dipole interaction. Containers whose
// distance is unset get the distance averaged over the models, in meters.
// Pairs lacking positions are skipped with a warning, and the warnings are
// returned.
func UnitVectors(C *relax.Context) ([]string, error) {
	P, err := C.Current()
	if err != nil {
		return nil, relax.DecorateError(err, "UnitVectors")
	}
	var warnings []string
	n := 0
	for _, I := range P.Interatomic {
		if !I.Select || !I.DipolePair {
			continue
		}
		s1, s2, err := P.InteratomSpins(I)
		if err != nil {
			warnings = append(warnings, warn("The interatomic container %q-%q does not resolve, skipping", I.SpinID1, I.SpinID2))
			continue
		}
		if len(s1.Pos) == 0 || len(s1.Pos) != len(s2.Pos) {
			warnings = append(warnings, warn("The spins %q and %q do not have matching positions, skipping", I.SpinID1, I.SpinID2))
			continue
		}
		vecs := make([][]float64, len(s1.Pos))
		d := 0.0
		ok := true
		for m := range s1.Pos {
			v := make([]float64, 3)
			floats.SubTo(v, s2.Pos[m], s1.Pos[m])
			norm := floats.Norm(v, 2)
			if norm == 0 || math.IsNaN(norm) {
				ok = false
				break
			}
			floats.Scale(1/norm, v)
			vecs[m] = v
			d += norm
		}
		if !ok {
			warnings = append(warnings, warn("The spins %q and %q overlap, skipping", I.SpinID1, I.SpinID2))
			continue
		}
		I.Vector = vecs
		if I.Dist == nil {
			r := Angstrom * d / float64(len(vecs))
			I.Dist = &r
		}
		n++
	}
	if n == 0 {
		return warnings, relax.NewError(relax.PreconditionError, "UnitVectors", "No unit vectors could be calculated for the pipe %q", P.Name)
	}
	return warnings, nil
}

func warn(format string, args ...interface{}) string {
	w := fmt.Sprintf(format, args...)
	log.Printf("Warning: %s", w)
	return w
}
