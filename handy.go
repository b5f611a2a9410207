/*
 * handy.go, part of gorelax.
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

//Some internal convenience functions.

//isInString returns true if test is in container, false otherwise.
func isInString(container []string, test string) bool {
	if container == nil {
		return false
	}
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}

// sameResidue returns true if both spins belong to the same residue of the
// same molecule. Residues without number are compared by name.
func sameResidue(s1, s2 *Spin) bool {
	r1, r2 := s1.Res(), s2.Res()
	if r1 == nil || r2 == nil {
		return false
	}
	if r1 == r2 {
		return true
	}
	if r1.Mol() != r2.Mol() {
		return false
	}
	if r1.Num != r2.Num {
		return false
	}
	return r1.Name == r2.Name
}
