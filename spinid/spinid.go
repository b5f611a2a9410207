/*
 * spinid.go, part of gorelax.
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

package spinid

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// NoNum marks a residue or spin number that is not set.
const NoNum = math.MinInt32

// ID is the structured address of a spin. Names are empty and
// numbers are NoNum when not set.
type ID struct {
	Mol      string
	ResNum   int
	ResName  string
	SpinNum  int
	SpinName string
}

// Empty returns an ID with no field set.
func Empty() ID {
	return ID{ResNum: NoNum, SpinNum: NoNum}
}

// IsEmpty returns true if no field of the ID is set.
func (id ID) IsEmpty() bool {
	return id.Mol == "" && id.ResNum == NoNum && id.ResName == "" && id.SpinNum == NoNum && id.SpinName == ""
}

func (id ID) String() string {
	return Generate(id)
}

// Generate builds the spin ID string for id. The residue number is used over
// the residue name, and the spin name over the spin number.
func Generate(id ID) string {
	var b strings.Builder
	if id.Mol != "" {
		b.WriteString("#" + id.Mol)
	}
	if id.ResNum != NoNum {
		fmt.Fprintf(&b, ":%d", id.ResNum)
	} else if id.ResName != "" {
		b.WriteString(":" + id.ResName)
	}
	if id.SpinName != "" {
		b.WriteString("@" + id.SpinName)
	} else if id.SpinNum != NoNum {
		fmt.Fprintf(&b, "@%d", id.SpinNum)
	}
	return b.String()
}

// FromColumns generates a spin ID from a row of data and the 1-based
// column numbers of each field. Columns set to 0 or less are ignored,
// as are fields that contain the literal "None".
func FromColumns(row []string, molCol, resNumCol, resNameCol, spinNumCol, spinNameCol int) (string, error) {
	id := Empty()
	get := func(col int) (string, bool) {
		if col <= 0 || col > len(row) {
			return "", false
		}
		v := StripQuotes(row[col-1])
		if v == "None" || v == "" {
			return "", false
		}
		return v, true
	}
	var err error
	if v, ok := get(molCol); ok {
		id.Mol = v
	}
	if v, ok := get(resNumCol); ok {
		if id.ResNum, err = strconv.Atoi(v); err != nil {
			return "", Error{fmt.Sprintf("%s: residue number %q", NotInteger, v), []string{"FromColumns"}}
		}
	}
	if v, ok := get(resNameCol); ok {
		id.ResName = v
	}
	if v, ok := get(spinNumCol); ok {
		if id.SpinNum, err = strconv.Atoi(v); err != nil {
			return "", Error{fmt.Sprintf("%s: spin number %q", NotInteger, v), []string{"FromColumns"}}
		}
	}
	if v, ok := get(spinNameCol); ok {
		id.SpinName = v
	}
	return Generate(id), nil
}

// StripQuotes removes the quotes around s, if s starts with
// a single or double quote.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q == '\'' || q == '"') && s[len(s)-1] == q {
		return s[1 : len(s)-1]
	}
	return s
}

// Tokenise splits an individual spin ID into its molecule, residue
// and spin tokens, without the leading '#', ':' and '@' characters.
// Up to one '&' is allowed in the residue and spin parts, in which
// case the returned token holds both parts separated by '&'.
func Tokenise(sel string) (mol, res, spin string, err error) {
	var molInfo, resInfo, spinInfo strings.Builder
	pos := 0 // 0 mol, 1 res, 2 spin
	for _, c := range sel {
		switch c {
		case '|':
			return "", "", "", Error{OrNotSupported, []string{"Tokenise"}}
		case ':':
			if pos == 2 {
				return "", "", "", Error{fmt.Sprintf("Invalid selection string %q", sel), []string{"Tokenise"}}
			}
			pos = 1
		case '@':
			pos = 2
		}
		switch pos {
		case 0:
			molInfo.WriteRune(c)
		case 1:
			resInfo.WriteRune(c)
		case 2:
			spinInfo.WriteRune(c)
		}
	}
	if m := molInfo.String(); m != "" {
		if strings.Contains(m, "&") {
			return "", "", "", Error{"The '&' operator is not supported for the molecule part of a spin ID", []string{"Tokenise"}}
		}
		if m[0] != '#' || strings.Count(m, "#") != 1 {
			return "", "", "", Error{fmt.Sprintf("Invalid molecule selection %q", m), []string{"Tokenise"}}
		}
		mol = m[1:]
	}
	res, err = subToken(resInfo.String(), ':', "residue")
	if err != nil {
		return "", "", "", errDecorate(err, "Tokenise")
	}
	spin, err = subToken(spinInfo.String(), '@', "spin")
	if err != nil {
		return "", "", "", errDecorate(err, "Tokenise")
	}
	if mol == "" && res == "" && spin == "" {
		return "", "", "", Error{fmt.Sprintf("The selection string %q is invalid", sel), []string{"Tokenise"}}
	}
	return mol, res, spin, nil
}

func subToken(info string, lead byte, level string) (string, error) {
	if info == "" {
		return "", nil
	}
	if strings.Count(info, "&") > 1 {
		return "", Error{fmt.Sprintf("Only one '&' is supported for the %s part of a spin ID", level), []string{"subToken"}}
	}
	parts := strings.Split(info, "&")
	for i, p := range parts {
		if p == "" || p[0] != lead || strings.Count(p, string(lead)) != 1 || strings.ContainsAny(p, forbidden(lead)) {
			return "", Error{fmt.Sprintf("Invalid %s selection %q", level, info), []string{"subToken"}}
		}
		parts[i] = p[1:]
	}
	return strings.Join(parts, "&"), nil
}

// forbidden returns the identifier characters that cannot appear
// in a token led by lead.
func forbidden(lead byte) string {
	if lead == ':' {
		return "#@"
	}
	return "#:"
}

// Elements is the parsed content of one token: the integers (including
// expanded ranges) and the names it contains, each sorted.
type Elements struct {
	Nums  []int
	Names []string
}

// Empty is true if the token had no elements.
func (e Elements) Empty() bool {
	return len(e.Nums) == 0 && len(e.Names) == 0
}

// ParseToken parses a token into its elements. Elements are separated
// by commas, a "a-b" element with integers a<b is expanded to the
// range, any other integer is a number and anything else, a name.
func ParseToken(token string) Elements {
	var ret Elements
	if token == "" {
		return ret
	}
	for _, t := range strings.Split(token, "&") {
		for _, e := range strings.Split(t, ",") {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			if start, end, ok := parseRange(e); ok {
				for i := start; i <= end; i++ {
					ret.Nums = append(ret.Nums, i)
				}
				continue
			}
			if n, err := strconv.Atoi(e); err == nil {
				ret.Nums = append(ret.Nums, n)
				continue
			}
			ret.Names = append(ret.Names, e)
		}
	}
	sort.Ints(ret.Nums)
	sort.Strings(ret.Names)
	return ret
}

// parseRange parses "a-b", where a may be negative. The first
// character is not considered a range separator.
func parseRange(e string) (int, int, bool) {
	var idx []int
	for i := 1; i < len(e); i++ {
		if e[i] == '-' {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 || len(idx) > 2 {
		return 0, 0, false
	}
	start, err := strconv.Atoi(e[:idx[0]])
	if err != nil {
		return 0, 0, false
	}
	end, err := strconv.Atoi(e[idx[0]+1:])
	if err != nil {
		return 0, 0, false
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// ToData converts an individual spin ID into an ID. Each level
// can contain at most one value.
func ToData(sel string) (ID, error) {
	id := Empty()
	if sel == "" {
		return id, nil
	}
	mol, res, spin, err := Tokenise(sel)
	if err != nil {
		return id, errDecorate(err, "ToData")
	}
	id.Mol = mol
	r := ParseToken(res)
	if len(r.Nums)+len(r.Names) > 1 {
		return id, Error{fmt.Sprintf("%s: residue part of %q", MultipleValues, sel), []string{"ToData"}}
	}
	if len(r.Nums) == 1 {
		id.ResNum = r.Nums[0]
	} else if len(r.Names) == 1 {
		id.ResName = r.Names[0]
	}
	s := ParseToken(spin)
	if len(s.Nums)+len(s.Names) > 1 {
		return id, Error{fmt.Sprintf("%s: spin part of %q", MultipleValues, sel), []string{"ToData"}}
	}
	if len(s.Nums) == 1 {
		id.SpinNum = s.Nums[0]
	} else if len(s.Names) == 1 {
		id.SpinName = s.Names[0]
	}
	return id, nil
}

// Error is the error type for spin ID parsing.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string {
	return "spin ID error: " + err.message
}

// Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func errDecorate(err error, caller string) error {
	if err2, ok := err.(Error); ok {
		err2.deco = append(err2.deco, caller)
		return err2
	}
	return err
}

const (
	OrNotSupported = "The '|' operator is not supported for individual spin IDs"
	NotInteger     = "Not an integer"
	MultipleValues = "More than one value given"
)
