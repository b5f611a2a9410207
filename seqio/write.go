/*
 * write.go, part of gorelax.
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
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/rmera/gorelax/colio"
	"github.com/rmera/gorelax/spinid"
)

// Table holds per-spin data to be written. Only the non-nil columns are
// written, and all of them must have the same length. Missing numbers are
// spinid.NoNum, missing values and errors are NaN. All are written as "None".
type Table struct {
	SpinIDs   []string
	MolNames  []string
	ResNums   []int
	ResNames  []string
	SpinNums  []int
	SpinNames []string
	Data      []float64
	Errors    []float64
	DataName  string //defaults to "Value"
	ErrorName string //defaults to "Error"
	Format    string //float format, defaults to "%.15g"
}

// Len returns the number of rows in the table, or -1 if the columns
// have different lengths.
func (T *Table) Len() int {
	n := -1
	lens := []int{}
	if T.SpinIDs != nil {
		lens = append(lens, len(T.SpinIDs))
	}
	if T.MolNames != nil {
		lens = append(lens, len(T.MolNames))
	}
	if T.ResNums != nil {
		lens = append(lens, len(T.ResNums))
	}
	if T.ResNames != nil {
		lens = append(lens, len(T.ResNames))
	}
	if T.SpinNums != nil {
		lens = append(lens, len(T.SpinNums))
	}
	if T.SpinNames != nil {
		lens = append(lens, len(T.SpinNames))
	}
	if T.Data != nil {
		lens = append(lens, len(T.Data))
	}
	if T.Errors != nil {
		lens = append(lens, len(T.Errors))
	}
	for _, l := range lens {
		if n >= 0 && l != n {
			return -1
		}
		n = l
	}
	if n < 0 {
		return 0
	}
	return n
}

// Columns returns the column layout in which the table is written.
func (T *Table) Columns() *Columns {
	C := DefaultColumns()
	i := 1
	next := func(present bool, c *int) {
		if present {
			*c = i
			i++
		}
	}
	next(T.SpinIDs != nil, &C.SpinID)
	next(T.MolNames != nil, &C.MolName)
	next(T.ResNums != nil, &C.ResNum)
	next(T.ResNames != nil, &C.ResName)
	next(T.SpinNums != nil, &C.SpinNum)
	next(T.SpinNames != nil, &C.SpinName)
	next(T.Data != nil, &C.Data)
	next(T.Errors != nil, &C.Error)
	return C
}

func formatNum(n int) string {
	if n == spinid.NoNum {
		return "None"
	}
	return strconv.Itoa(n)
}

func formatStr(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func formatFloat(format string, f float64) string {
	if math.IsNaN(f) {
		return "None"
	}
	return fmt.Sprintf(format, f)
}

// WriteSpinData writes the table to w, using sep as the column separator
// (space-padded columns if sep is empty), with a header row.
func WriteSpinData(w io.Writer, sep string, T *Table) error {
	n := T.Len()
	if n < 0 {
		return Error{ConfigError, "The columns of the table have different lengths", []string{"WriteSpinData"}}
	}
	format := T.Format
	if format == "" {
		format = "%.15g"
	}
	dname, ename := T.DataName, T.ErrorName
	if dname == "" {
		dname = "Value"
	}
	if ename == "" {
		ename = "Error"
	}
	var head []string
	if T.SpinIDs != nil {
		head = append(head, "Spin_ID")
	}
	if T.MolNames != nil {
		head = append(head, "Mol_name")
	}
	if T.ResNums != nil {
		head = append(head, "Res_num")
	}
	if T.ResNames != nil {
		head = append(head, "Res_name")
	}
	if T.SpinNums != nil {
		head = append(head, "Spin_num")
	}
	if T.SpinNames != nil {
		head = append(head, "Spin_name")
	}
	if T.Data != nil {
		head = append(head, dname)
	}
	if T.Errors != nil {
		head = append(head, ename)
	}
	data := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(head))
		if T.SpinIDs != nil {
			//quoted, so the ID can't be taken for a comment.
			row = append(row, "'"+T.SpinIDs[i]+"'")
		}
		if T.MolNames != nil {
			row = append(row, formatStr(T.MolNames[i]))
		}
		if T.ResNums != nil {
			row = append(row, formatNum(T.ResNums[i]))
		}
		if T.ResNames != nil {
			row = append(row, formatStr(T.ResNames[i]))
		}
		if T.SpinNums != nil {
			row = append(row, formatNum(T.SpinNums[i]))
		}
		if T.SpinNames != nil {
			row = append(row, formatStr(T.SpinNames[i]))
		}
		if T.Data != nil {
			row = append(row, formatFloat(format, T.Data[i]))
		}
		if T.Errors != nil {
			row = append(row, formatFloat(format, T.Errors[i]))
		}
		data[i] = row
	}
	if err := colio.WriteData(w, data, sep, head); err != nil {
		return err
	}
	return nil
}
