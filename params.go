/*
 * params.go, part of gorelax.
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
	"math"
	"regexp"
)

// Param describes one parameter of an analysis.
type Param struct {
	Name      string
	Desc      string
	Default   float64 //NaN if there is no default.
	Scaling   float64 //0 means 1.
	GridLower float64
	GridUpper float64
	Spin      bool
	Pattern   *regexp.Regexp //names matched to this parameter by ReturnDataName.
	Units     string
}

// ParamTable is an ordered collection of parameters.
type ParamTable struct {
	params []Param
	byName map[string]int
}

// NewParamTable returns a table with the given parameters, in that order.
func NewParamTable(params ...Param) *ParamTable {
	T := &ParamTable{byName: make(map[string]int, len(params))}
	for _, p := range params {
		T.Add(p)
	}
	return T
}

// Add appends a parameter to the table, replacing any previous one with the same name.
func (T *ParamTable) Add(p Param) {
	if i, ok := T.byName[p.Name]; ok {
		T.params[i] = p
		return
	}
	T.byName[p.Name] = len(T.params)
	T.params = append(T.params, p)
}

// Get returns the parameter with the given name.
func (T *ParamTable) Get(name string) (Param, bool) {
	i, ok := T.byName[name]
	if !ok {
		return Param{}, false
	}
	return T.params[i], true
}

// Names returns the names of all the parameters, in order.
func (T *ParamTable) Names() []string {
	ret := make([]string, len(T.params))
	for i, p := range T.params {
		ret[i] = p.Name
	}
	return ret
}

// DefaultValue returns the default value of the parameter, if it has one.
func (T *ParamTable) DefaultValue(name string) (float64, bool) {
	p, ok := T.Get(name)
	if !ok || math.IsNaN(p.Default) {
		return math.NaN(), false
	}
	return p.Default, true
}

// ScalingFactor returns the scaling factor of the parameter, 1 if not given.
func (T *ParamTable) ScalingFactor(name string) float64 {
	p, ok := T.Get(name)
	if !ok || p.Scaling == 0 {
		return 1
	}
	return p.Scaling
}

// ReturnDataName returns the name of the first parameter whose pattern, or
// name, matches name. It returns "" if none does.
func (T *ParamTable) ReturnDataName(name string) string {
	for _, p := range T.params {
		if p.Name == name {
			return p.Name
		}
		if p.Pattern != nil && p.Pattern.MatchString(name) {
			return p.Name
		}
	}
	return ""
}

// IsSpinParam returns true unless the parameter is a known global one.
func (T *ParamTable) IsSpinParam(name string) bool {
	p, ok := T.Get(name)
	if !ok {
		return true
	}
	return p.Spin
}
