/*
 * pdb.go, part of gorelax.
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

//Package structure reads molecular structures from PDB files, and uses them
//to create spins, with their elements and positions, and to obtain the
//interatomic vectors of the magnetic dipole-dipole interactions.
package structure

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/colio"
	"gonum.org/v1/gonum/mat"
)

// Atom holds the information of an ATOM or HETATM record, other than
// the coordinates.
type Atom struct {
	ID        int
	Name      string
	ResName   string
	Chain     byte
	ResNum    int
	Symbol    string
	Het       bool
	Occupancy float64
	Bfactor   float64
}

// Structure is a set of atoms with one set of coordinates per model.
type Structure struct {
	Atoms  []*Atom
	Models []int        //the model numbers.
	Coords []*mat.Dense //one len(Atoms)x3 matrix per model, in Angstrom.
}

// Len returns the number of atoms.
func (S *Structure) Len() int {
	return len(S.Atoms)
}

// NModels returns the number of models.
func (S *Structure) NModels() int {
	return len(S.Coords)
}

// Coord returns the coordinates of the atom i in the model with index m.
func (S *Structure) Coord(m, i int) []float64 {
	return mat.Row(nil, i, S.Coords[m])
}

// symbolFromName guesses the element symbol from a PDB atom name. Mostly
// based on AMBER names, only some common bio-elements are considered.
func symbolFromName(name string) string {
	name = strings.TrimLeft(strings.ToUpper(name), "0123456789")
	if name == "" {
		return ""
	}
	if len(name) == 4 || name[0] == 'H' { //only Hs have 4-char names in amber.
		return "H"
	}
	switch name {
	case "CU":
		return "Cu"
	case "CO":
		return "Co"
	case "CL":
		return "Cl"
	case "NA":
		return "Na"
	case "SE":
		return "Se"
	case "ZN":
		return "Zn"
	case "MG":
		return "Mg"
	case "FE":
		return "Fe"
	}
	switch name[0] {
	case 'C', 'N', 'O', 'P', 'S':
		return name[:1]
	}
	return ""
}

// elementSymbol returns the element as written in the symbol columns of a
// PDB file, with its case fixed.
func elementSymbol(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// readAtomLine parses an ATOM or HETATM line. It returns the atom and its
// coordinates.
func readAtomLine(line string, contlines int) (*Atom, []float64, error) {
	if len(line) < 54 {
		return nil, nil, relax.NewError(relax.DataError, "readAtomLine", "Line %d is too short for an atom record", contlines)
	}
	errs := make([]error, 5)
	coords := make([]float64, 3)
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, errs[0] = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	atom.ResName = strings.TrimSpace(line[17:20])
	atom.Chain = line[21]
	atom.ResNum, errs[1] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	coords[0], errs[2] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	coords[1], errs[3] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	coords[2], errs[4] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	//the remaining fields are optional.
	if len(line) >= 60 {
		atom.Occupancy, _ = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
	}
	if len(line) >= 66 {
		atom.Bfactor, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	}
	if len(line) >= 78 {
		atom.Symbol = elementSymbol(line[76:78])
	}
	if atom.Symbol == "" {
		atom.Symbol = symbolFromName(atom.Name)
	}
	for _, err := range errs {
		if err != nil {
			return nil, nil, relax.NewError(relax.DataError, "readAtomLine", "Line %d: %s", contlines, err.Error())
		}
	}
	return atom, coords, nil
}

// ReadPDB reads the ATOM and HETATM records of a PDB stream. The atoms are
// taken from the first model; every other model must have the same
// number of atoms.
func ReadPDB(r io.Reader) (*Structure, error) {
	S := new(Structure)
	var coords [][]float64
	model := 1
	first := true
	started := false
	contlines := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		contlines++
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "MODEL"):
			if n, err := strconv.Atoi(strings.TrimSpace(line[5:])); err == nil {
				model = n
			}
			if started {
				first = false
			}
			S.Models = append(S.Models, model)
			coords = append(coords, nil)
			started = true
		case strings.HasPrefix(line, "ATOM"), strings.HasPrefix(line, "HETATM"):
			if !started {
				S.Models = append(S.Models, model)
				coords = append(coords, nil)
				started = true
			}
			atom, c, err := readAtomLine(line, contlines)
			if err != nil {
				return nil, relax.DecorateError(err, "ReadPDB")
			}
			//atom data other than coords is the same in all models.
			if first {
				S.Atoms = append(S.Atoms, atom)
			}
			coords[len(coords)-1] = append(coords[len(coords)-1], c...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, relax.NewError(relax.FileError, "ReadPDB", "%s", err.Error())
	}
	if len(S.Atoms) == 0 {
		return nil, relax.NewError(relax.DataError, "ReadPDB", "No atoms found in the PDB data")
	}
	for i, c := range coords {
		if len(c) != 3*len(S.Atoms) {
			return nil, relax.NewError(relax.DataError, "ReadPDB", "The model %d has %d atoms, the first one has %d", S.Models[i], len(c)/3, len(S.Atoms))
		}
		S.Coords = append(S.Coords, mat.NewDense(len(S.Atoms), 3, c))
	}
	return S, nil
}

// ReadPDBFile reads a PDB file, which may be compressed, from the directory dir.
func ReadPDBFile(name, dir string) (*Structure, error) {
	r, err := colio.OpenRead(name, dir)
	if err != nil {
		return nil, relax.DecorateError(err, "ReadPDBFile")
	}
	defer r.Close()
	S, err := ReadPDB(r)
	if err != nil {
		return nil, relax.DecorateError(err, "ReadPDBFile")
	}
	return S, nil
}
