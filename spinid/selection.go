/*
 * selection.go, part of gorelax.
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
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Selection is a parsed spin selection string. It is either a simple
// selection of molecules, residues and spins, or the union or intersection
// of two other selections. The '&' and '|' operators are read from right
// to left. An empty selection matches everything.
type Selection struct {
	union     [2]*Selection
	intersect [2]*Selection
	mols      Elements
	res       Elements
	spins     Elements
}

// NewSelection parses sel into a Selection.
func NewSelection(sel string) (*Selection, error) {
	S := new(Selection)
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return S, nil
	}
	and := strings.LastIndex(sel, "&")
	or := strings.LastIndex(sel, "|")
	if and != or {
		i := and
		if or > and {
			i = or
		}
		s0, err := NewSelection(sel[:i])
		if err != nil {
			return nil, errDecorate(err, "NewSelection")
		}
		s1, err := NewSelection(sel[i+1:])
		if err != nil {
			return nil, errDecorate(err, "NewSelection")
		}
		if i == and {
			S.intersect = [2]*Selection{s0, s1}
		} else {
			S.union = [2]*Selection{s0, s1}
		}
		return S, nil
	}
	mol, res, spin, err := Tokenise(sel)
	if err != nil {
		return nil, errDecorate(err, "NewSelection")
	}
	S.mols = ParseToken(mol)
	S.res = ParseToken(res)
	S.spins = ParseToken(spin)
	return S, nil
}

// MustSelection is like NewSelection but panics on error.
// It is meant for selections written in the code.
func MustSelection(sel string) *Selection {
	S, err := NewSelection(sel)
	if err != nil {
		panic(err.Error())
	}
	return S
}

// ContainsMol returns true if the molecule name is in the selection.
func (S *Selection) ContainsMol(mol string) bool {
	if S.union[0] != nil {
		return S.union[0].ContainsMol(mol) || S.union[1].ContainsMol(mol)
	}
	if S.intersect[0] != nil {
		return S.intersect[0].ContainsMol(mol) && S.intersect[1].ContainsMol(mol)
	}
	if S.mols.Empty() {
		return true
	}
	for _, n := range S.mols.Nums {
		if strconv.Itoa(n) == mol {
			return true
		}
	}
	return matchName(S.mols.Names, mol)
}

// ContainsRes returns true if the residue, in the given molecule, is in the selection.
func (S *Selection) ContainsRes(mol string, resNum int, resName string) bool {
	if S.union[0] != nil {
		return S.union[0].ContainsRes(mol, resNum, resName) || S.union[1].ContainsRes(mol, resNum, resName)
	}
	if S.intersect[0] != nil {
		return S.intersect[0].ContainsRes(mol, resNum, resName) && S.intersect[1].ContainsRes(mol, resNum, resName)
	}
	if !S.ContainsMol(mol) {
		return false
	}
	return S.res.Empty() || matchName(S.res.Names, resName) || matchNum(S.res.Nums, resNum)
}

// ContainsSpin returns true if the spin, in the given residue and molecule, is in the selection.
func (S *Selection) ContainsSpin(mol string, resNum int, resName string, spinNum int, spinName string) bool {
	if S.union[0] != nil {
		return S.union[0].ContainsSpin(mol, resNum, resName, spinNum, spinName) || S.union[1].ContainsSpin(mol, resNum, resName, spinNum, spinName)
	}
	if S.intersect[0] != nil {
		return S.intersect[0].ContainsSpin(mol, resNum, resName, spinNum, spinName) && S.intersect[1].ContainsSpin(mol, resNum, resName, spinNum, spinName)
	}
	if !S.ContainsRes(mol, resNum, resName) {
		return false
	}
	return S.spins.Empty() || matchName(S.spins.Names, spinName) || matchNum(S.spins.Nums, spinNum)
}

// Contains is ContainsSpin taking an ID.
func (S *Selection) Contains(id ID) bool {
	return S.ContainsSpin(id.Mol, id.ResNum, id.ResName, id.SpinNum, id.SpinName)
}

func matchNum(nums []int, n int) bool {
	if n == NoNum {
		return false
	}
	for _, v := range nums {
		if v == n {
			return true
		}
	}
	return false
}

var (
	wildmu    sync.Mutex
	wildcache = map[string]*regexp.Regexp{}
)

// matchName matches name against the patterns, where '*' and '?'
// are shell-style wildcards.
func matchName(patterns []string, name string) bool {
	if name == "" {
		return false
	}
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?") {
			if p == name {
				return true
			}
			continue
		}
		wildmu.Lock()
		re, ok := wildcache[p]
		if !ok {
			q := regexp.QuoteMeta(p)
			q = strings.ReplaceAll(q, `\*`, ".*")
			q = strings.ReplaceAll(q, `\?`, ".")
			re = regexp.MustCompile("^" + q + "$")
			wildcache[p] = re
		}
		wildmu.Unlock()
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
