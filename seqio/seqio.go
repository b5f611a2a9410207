/*
 * seqio.go, part of gorelax.
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

//Package seqio reads and writes per-spin columnar data.
package seqio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/rmera/gorelax/colio"
	"github.com/rmera/gorelax/spinid"
)

// Row is one valid row of spin data.
type Row struct {
	Line     int //1-based, counting only the rows given to the reader.
	ID       spinid.ID
	SpinID   string
	Value    float64
	HasValue bool
	Error    float64
	HasError bool
}

// Reader goes through rows of data, returning the valid ones, one at a time.
type Reader struct {
	rows     [][]string
	cols     Columns
	restrict *spinid.Selection
	pos      int
	valid    int
	warnings []string
	done     bool
}

// NewReader returns a reader over the rows (as obtained from colio.ExtractData
// and colio.Strip). The columns are checked here, so a configuration error
// is returned before any row is read. If restrict is not empty, only spins
// matching that selection are returned.
func NewReader(rows [][]string, cols *Columns, restrict string) (*Reader, error) {
	if cols == nil {
		return nil, Error{ConfigError, NoIDColumns, []string{"NewReader"}}
	}
	if err := cols.Validate(); err != nil {
		return nil, errDecorate(err, "NewReader")
	}
	R := &Reader{rows: rows, cols: *cols}
	if restrict != "" {
		sel, err := spinid.NewSelection(restrict)
		if err != nil {
			return nil, Error{ConfigError, err.Error(), []string{"NewReader"}}
		}
		R.restrict = sel
	}
	return R, nil
}

// Warnings returns the warnings for the rows skipped so far.
func (R *Reader) Warnings() []string {
	return R.warnings
}

func (R *Reader) warn(format string, args ...interface{}) {
	w := fmt.Sprintf(format, args...)
	R.warnings = append(R.warnings, w)
	log.Printf("Warning: %s", w)
}

// Next returns the next valid row. Invalid rows are skipped with a warning.
// At the end of the data, it returns io.EOF or, if not a single row was
// valid, a NoData error.
func (R *Reader) Next() (*Row, error) {
	if R.done {
		return nil, io.EOF
	}
	for R.pos < len(R.rows) {
		line := R.rows[R.pos]
		R.pos++
		row, ok := R.parse(line)
		if !ok {
			continue
		}
		row.Line = R.pos
		if R.restrict != nil && !R.restrict.Contains(row.ID) {
			continue
		}
		R.valid++
		return row, nil
	}
	R.done = true
	if R.valid == 0 {
		return nil, Error{NoData, NoDataFound, []string{"Next"}}
	}
	return nil, io.EOF
}

func field(line []string, col int) string {
	return strings.TrimSpace(line[col-1])
}

// parse returns the row for line or false, after issuing a warning,
// if the line is not valid.
func (R *Reader) parse(line []string) (*Row, bool) {
	C := R.cols
	if len(line) < C.max() {
		R.warn("The data %v is invalid, as it has fewer than %d columns", line, C.max())
		return nil, false
	}
	row := &Row{ID: spinid.Empty(), Value: math.NaN(), Error: math.NaN()}
	var err error
	if C.SpinID != Unset {
		raw := spinid.StripQuotes(field(line, C.SpinID))
		row.ID, err = spinid.ToData(raw)
		if err != nil {
			R.warn("The spin ID %q of the data %v is invalid: %s", raw, line, err.Error())
			return nil, false
		}
	} else {
		if C.MolName != Unset {
			row.ID.Mol = noneToEmpty(spinid.StripQuotes(field(line, C.MolName)))
		}
		if C.ResName != Unset {
			row.ID.ResName = noneToEmpty(spinid.StripQuotes(field(line, C.ResName)))
		}
		if C.SpinName != Unset {
			row.ID.SpinName = noneToEmpty(spinid.StripQuotes(field(line, C.SpinName)))
		}
		if C.ResNum != Unset {
			if row.ID.ResNum, err = parseNum(field(line, C.ResNum)); err != nil {
				R.warn("The residue number of the data %v is invalid", line)
				return nil, false
			}
		}
		if C.SpinNum != Unset {
			if row.ID.SpinNum, err = parseNum(field(line, C.SpinNum)); err != nil {
				R.warn("The spin number of the data %v is invalid", line)
				return nil, false
			}
		}
	}
	if row.ID.IsEmpty() {
		R.warn("The data %v has no spin identification", line)
		return nil, false
	}
	row.SpinID = spinid.Generate(row.ID)
	if C.Data != Unset {
		if row.Value, row.HasValue, err = parseFloat(field(line, C.Data)); err != nil {
			R.warn("Invalid floating point data %q in %v", field(line, C.Data), line)
			return nil, false
		}
	}
	if C.Error != Unset {
		if row.Error, row.HasError, err = parseFloat(field(line, C.Error)); err != nil {
			R.warn("Invalid floating point error %q in %v", field(line, C.Error), line)
			return nil, false
		}
	}
	return row, true
}

func noneToEmpty(s string) string {
	if s == "None" {
		return ""
	}
	return s
}

func parseNum(s string) (int, error) {
	if s == "None" {
		return spinid.NoNum, nil
	}
	return strconv.Atoi(s)
}

// parseFloat parses s, where "None" is a valid absent value.
func parseFloat(s string) (float64, bool, error) {
	if s == "None" {
		return math.NaN(), false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false, err
	}
	return f, true, nil
}

// ReadAll reads all the valid rows, returning them along with the warnings
// for the invalid ones.
func ReadAll(rows [][]string, cols *Columns, restrict string) ([]*Row, []string, error) {
	R, err := NewReader(rows, cols, restrict)
	if err != nil {
		return nil, nil, errDecorate(err, "ReadAll")
	}
	ret := make([]*Row, 0, len(rows))
	for {
		row, err := R.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, R.Warnings(), errDecorate(err, "ReadAll")
		}
		ret = append(ret, row)
	}
	return ret, R.Warnings(), nil
}

// ReadFile opens and parses file (a name or an open reader) and then
// reads all the valid rows from it. Comment and empty lines are removed
// after splitting, so quoted spin IDs are kept as they are.
func ReadFile(file interface{}, dir, sep string, cols *Columns, restrict string) ([]*Row, []string, error) {
	if cols == nil {
		return nil, nil, Error{ConfigError, NoIDColumns, []string{"ReadFile"}}
	}
	if err := cols.Validate(); err != nil {
		return nil, nil, errDecorate(err, "ReadFile")
	}
	data, err := colio.ExtractFile(file, dir, sep, false)
	if err != nil {
		return nil, nil, err
	}
	data = colio.Strip(data, true)
	return ReadAll(data, cols, restrict)
}

// Error is the general structure for seqio errors.
type Error struct {
	kind    Kind
	message string
	deco    []string
}

// Kind identifies the condition behind an Error.
type Kind int

const (
	ConfigError Kind = iota
	NoData
)

func (err Error) Error() string {
	return err.message
}

// Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Kind returns the kind of condition that caused the error.
func (err Error) Kind() Kind { return err.kind }

// IsKind returns true if err is, or wraps, a seqio Error of kind k.
func IsKind(err error, k Kind) bool {
	var e Error
	if errors.As(err, &e) {
		return e.kind == k
	}
	return false
}

func errDecorate(err error, caller string) error {
	if err2, ok := err.(Error); ok {
		err2.deco = append(err2.deco, caller)
		return err2
	}
	return err
}

const (
	BadColumn       = "Column numbers start at 1"
	SpinIDExclusive = "The spin ID column cannot be given together with the molecule, residue or spin columns"
	NoIDColumns     = "No spin identification columns given"
	NoDataFound     = "No corresponding data could be found in the file"
)
