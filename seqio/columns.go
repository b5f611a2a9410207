/*
 * columns.go, part of gorelax.
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

package seqio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Unset marks a column that is not read.
const Unset = -1

var validate = validator.New()

// Columns holds the 1-based numbers of the columns to be read from a
// file. Use DefaultColumns to obtain a value with all columns unset,
// as 0 is not a valid column number.
type Columns struct {
	SpinID   int `validate:"eq=-1|min=1"`
	MolName  int `validate:"eq=-1|min=1"`
	ResNum   int `validate:"eq=-1|min=1"`
	ResName  int `validate:"eq=-1|min=1"`
	SpinNum  int `validate:"eq=-1|min=1"`
	SpinName int `validate:"eq=-1|min=1"`
	Data     int `validate:"eq=-1|min=1"`
	Error    int `validate:"eq=-1|min=1"`
}

// DefaultColumns returns a Columns with no column set.
func DefaultColumns() *Columns {
	return &Columns{Unset, Unset, Unset, Unset, Unset, Unset, Unset, Unset}
}

// SequenceColumns returns the usual layout of a sequence file, with the
// molecule name, residue number and name, and spin number and name, in
// columns 1 to 5.
func SequenceColumns() *Columns {
	C := DefaultColumns()
	C.MolName, C.ResNum, C.ResName, C.SpinNum, C.SpinName = 1, 2, 3, 4, 5
	return C
}

// Validate checks the column numbers. Column numbers start at 1, and the spin
// ID column cannot be given together with any of the molecule, residue or spin
// columns. At least one spin identification column is needed.
func (C *Columns) Validate() error {
	if err := validate.Struct(C); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			bad := make([]string, 0, len(verrs))
			for _, v := range verrs {
				bad = append(bad, fmt.Sprintf("%s=%v", v.Field(), v.Value()))
			}
			return Error{ConfigError, fmt.Sprintf("%s (%s)", BadColumn, strings.Join(bad, ", ")), []string{"Validate"}}
		}
		return Error{ConfigError, err.Error(), []string{"Validate"}}
	}
	discrete := C.MolName != Unset || C.ResNum != Unset || C.ResName != Unset || C.SpinNum != Unset || C.SpinName != Unset
	if C.SpinID != Unset && discrete {
		return Error{ConfigError, SpinIDExclusive, []string{"Validate"}}
	}
	if C.SpinID == Unset && !discrete {
		return Error{ConfigError, NoIDColumns, []string{"Validate"}}
	}
	return nil
}

// max returns the largest column number in use.
func (C *Columns) max() int {
	m := 0
	for _, c := range []int{C.SpinID, C.MolName, C.ResNum, C.ResName, C.SpinNum, C.SpinName, C.Data, C.Error} {
		if c > m {
			m = c
		}
	}
	return m
}
