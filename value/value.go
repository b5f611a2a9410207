/*
 * value.go, part of gorelax.
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

//Package value sets, reads, writes and copies the parameter values of the
//data pipes, through the analysis of each pipe.
package value

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/colio"
	"github.com/rmera/gorelax/minimise"
	"github.com/rmera/gorelax/seqio"
)

// PartitionParams splits the parameters, and their values, into the spin
// specific ones and the rest, as told by the analysis. A single value is used
// for all the parameters. It is an error to give several values for a single
// parameter, or different numbers of parameters and values.
func PartitionParams(A relax.Analysis, params []string, vals []float64) (spinParams []string, spinVals []float64, other []string, otherVals []float64, err error) {
	if len(params) == 1 && len(vals) > 1 {
		return nil, nil, nil, nil, relax.NewError(relax.ConfigError, "PartitionParams", "The single parameter %q cannot be given the %d values %v", params[0], len(vals), vals)
	}
	if len(vals) == 1 && len(params) > 1 {
		v := vals[0]
		vals = make([]float64, len(params))
		for i := range vals {
			vals[i] = v
		}
	}
	if len(vals) != len(params) {
		return nil, nil, nil, nil, relax.NewError(relax.ConfigError, "PartitionParams", "%d values given for the %d parameters %v", len(vals), len(params), params)
	}
	for i, p := range params {
		if A.IsSpinParam(p) {
			spinParams = append(spinParams, p)
			spinVals = append(spinVals, vals[i])
		} else {
			other = append(other, p)
			otherVals = append(otherVals, vals[i])
		}
	}
	return spinParams, spinVals, other, otherVals, nil
}

// SetOptions are the arguments for Set.
type SetOptions struct {
	Pipe    string    //defaults to the current pipe.
	Params  []string  //defaults to all the parameters of the analysis.
	Vals    []float64 //defaults to the default value of each parameter.
	Error   bool      //set the errors instead of the values.
	SpinID  string    //restricts the spin parameters to the spins selected.
	Force   bool      //overwrite existing values.
	NoReset bool      //keep the minimisation statistics.
}

// Set sets parameter values, or errors. Unless O.NoReset is true, the
// minimisation statistics of the pipe are reset, once the arguments are
// checked and before any value is set.
func Set(C *relax.Context, O SetOptions) error {
	P, err := C.Get(O.Pipe)
	if err != nil {
		return relax.DecorateError(err, "Set")
	}
	A, err := P.Analysis()
	if err != nil {
		return relax.DecorateError(err, "Set")
	}
	params := O.Params
	if len(params) == 0 {
		params = A.ParamNames(P, nil)
	}
	names := make([]string, len(params))
	for i, p := range params {
		if minimise.IsMinStat(p) {
			names[i] = minimise.ReturnDataName(p)
			continue
		}
		names[i] = A.ReturnDataName(p)
		if names[i] == "" {
			return relax.NewError(relax.ConfigError, "Set", relax.UnknownParam, p, A.Name())
		}
	}
	vals := O.Vals
	if len(vals) == 0 {
		if O.Error {
			return relax.NewError(relax.ConfigError, "Set", "Error values must be given")
		}
		vals = make([]float64, len(names))
		for i, p := range names {
			v, ok := A.DefaultValue(p)
			if !ok {
				return relax.NewError(relax.ConfigError, "Set", relax.NoDefault, p)
			}
			vals[i] = v
		}
	}
	//checked before anything is set.
	statP, statV := keepStats(names, vals)
	spinP, spinV, otherP, otherV, err := PartitionParams(A, names, vals)
	if err != nil {
		return relax.DecorateError(err, "Set")
	}
	spinP, spinV = dropStats(spinP, spinV)
	otherP, otherV = dropStats(otherP, otherV)
	if len(spinP) > 0 {
		if err := P.TestSequence(); err != nil {
			return relax.DecorateError(err, "Set")
		}
	}
	if !O.Force && !O.Error {
		if err := checkUnset(P, A, spinP, otherP, O.SpinID); err != nil {
			return relax.DecorateError(err, "Set")
		}
	}
	//statistics given explicitly are set after the reset.
	if !O.NoReset {
		minimise.ResetMinStats(P)
	}
	for i, p := range statP {
		if err := setStat(P, p, statV[i], O.SpinID); err != nil {
			return relax.DecorateError(err, "Set")
		}
	}
	if len(spinP) > 0 {
		if err := A.SetParamValues(P, spinP, spinV, O.Error, O.SpinID, O.Force); err != nil {
			return relax.DecorateError(err, "Set")
		}
	}
	if len(otherP) > 0 {
		if err := A.SetParamValues(P, otherP, otherV, O.Error, "", O.Force); err != nil {
			return relax.DecorateError(err, "Set")
		}
	}
	return nil
}

// checkUnset returns an error if any of the spin parameters, for the spins
// matching spinID, or any of the global parameters, already has a value.
func checkUnset(P *relax.Pipe, A relax.Analysis, spinP, otherP []string, spinID string) error {
	if len(spinP) > 0 {
		spins, err := P.SpinLoop(spinID, false)
		if err != nil {
			return relax.DecorateError(err, "checkUnset")
		}
		for _, s := range spins {
			for _, p := range spinP {
				v, _, err := A.ReturnValue(P, s, A.ReturnDataName(p), relax.NoSim)
				if err != nil {
					return relax.DecorateError(err, "checkUnset")
				}
				if !math.IsNaN(v) {
					return relax.NewError(relax.ConfigError, "checkUnset", ValueSet, p, s.SpinID())
				}
			}
		}
	}
	for _, p := range otherP {
		if v, ok := P.Values[A.ReturnDataName(p)]; ok && !math.IsNaN(v) {
			return relax.NewError(relax.ConfigError, "checkUnset", ValueSet, p, P.Name)
		}
	}
	return nil
}

// setStat sets a global statistic or, if spinID is not empty, the statistic
// of all the spins matching spinID.
func setStat(P *relax.Pipe, stat string, val float64, spinID string) error {
	if spinID == "" {
		return minimise.Set(P, stat, val, "")
	}
	spins, err := P.SpinLoop(spinID, false)
	if err != nil {
		return err
	}
	for _, s := range spins {
		if err := minimise.Set(P, stat, val, s.SpinID()); err != nil {
			return err
		}
	}
	return nil
}

// keepStats returns the minimisation statistics among params, with their values.
// vals may have a single value for all the parameters.
func keepStats(params []string, vals []float64) ([]string, []float64) {
	var p []string
	var v []float64
	for i, name := range params {
		if !minimise.IsMinStat(name) {
			continue
		}
		p = append(p, name)
		if len(vals) == 1 {
			v = append(v, vals[0])
		} else if i < len(vals) {
			v = append(v, vals[i])
		} else {
			v = append(v, math.NaN())
		}
	}
	return p, v
}

func dropStats(params []string, vals []float64) ([]string, []float64) {
	var p []string
	var v []float64
	for i, name := range params {
		if !minimise.IsMinStat(name) {
			p = append(p, name)
			v = append(v, vals[i])
		}
	}
	return p, v
}

// ReadOptions are the arguments for Read.
type ReadOptions struct {
	Pipe    string
	Param   string
	File    interface{} //a file name or an open reader.
	Dir     string
	Sep     string
	Cols    *seqio.Columns
	SpinID  string  //only the spins matching this selection are read.
	Scaling float64 //the values read are multiplied by it. 0 means 1.
	NoReset bool
}

// Read sets the values, and errors, of a parameter from a columnar file. The
// parameter must not have a value for any spin. Rows for spins that don't
// exist, or are deselected, are skipped with a warning. It returns the warnings.
func Read(C *relax.Context, O ReadOptions) ([]string, error) {
	P, err := C.Get(O.Pipe)
	if err != nil {
		return nil, relax.DecorateError(err, "Read")
	}
	if err := P.TestSequence(); err != nil {
		return nil, relax.DecorateError(err, "Read")
	}
	A, err := P.Analysis()
	if err != nil {
		return nil, relax.DecorateError(err, "Read")
	}
	if O.Cols == nil || (O.Cols.Data == seqio.Unset && O.Cols.Error == seqio.Unset) {
		return nil, relax.NewError(relax.ConfigError, "Read", "Either the data or the error column must be given")
	}
	name := A.ReturnDataName(O.Param)
	if name == "" {
		return nil, relax.NewError(relax.ConfigError, "Read", relax.UnknownParam, O.Param, A.Name())
	}
	for _, s := range P.Spins() {
		v, e, err := A.ReturnValue(P, s, name, relax.NoSim)
		if err != nil {
			return nil, relax.DecorateError(err, "Read")
		}
		if !math.IsNaN(v) || !math.IsNaN(e) {
			return nil, relax.NewError(relax.ConfigError, "Read", "The parameter %q already has values in the pipe %q", name, P.Name)
		}
	}
	scaling := O.Scaling
	if scaling == 0 {
		scaling = 1
	}
	rows, warnings, err := seqio.ReadFile(O.File, O.Dir, O.Sep, O.Cols, O.SpinID)
	if err != nil {
		return warnings, relax.DecorateError(err, "Read")
	}
	for _, r := range rows {
		s, err := P.ReturnSpin(r.SpinID)
		if err != nil {
			warnings = append(warnings, warn("The spin %q does not exist, skipping", r.SpinID))
			continue
		}
		if !s.Select {
			warnings = append(warnings, warn("The spin %q is deselected, skipping", r.SpinID))
			continue
		}
		id := s.SpinID()
		if r.HasValue {
			if err := A.SetParamValues(P, []string{name}, []float64{r.Value * scaling}, false, id, true); err != nil {
				return warnings, relax.DecorateError(err, "Read")
			}
		}
		if r.HasError {
			if err := A.SetParamValues(P, []string{name}, []float64{r.Error * scaling}, true, id, true); err != nil {
				return warnings, relax.DecorateError(err, "Read")
			}
		}
	}
	if !O.NoReset {
		minimise.ResetMinStats(P)
	}
	return warnings, nil
}

// WriteOptions are the arguments for Write.
type WriteOptions struct {
	Pipe    string
	Param   string
	Sep     string
	Scaling float64 //the values written are divided by it. 0 means 1.
	//ReturnValue, if not nil, is used instead of the one of the analysis.
	ReturnValue func(P *relax.Pipe, S *relax.Spin, param string, sim int) (float64, float64, error)
}

// Write writes the value and error of a parameter for every spin, in sequence
// order. Missing values and errors are written as None.
func Write(C *relax.Context, w io.Writer, O WriteOptions) error {
	P, err := C.Get(O.Pipe)
	if err != nil {
		return relax.DecorateError(err, "Write")
	}
	if err := P.TestSequence(); err != nil {
		return relax.DecorateError(err, "Write")
	}
	A, err := P.Analysis()
	if err != nil {
		return relax.DecorateError(err, "Write")
	}
	rv := O.ReturnValue
	name := O.Param
	switch {
	case rv != nil:
	case minimise.IsMinStat(O.Param):
		rv = func(P *relax.Pipe, S *relax.Spin, param string, sim int) (float64, float64, error) {
			v, err := minimise.ReturnValue(P, S, param, sim)
			return v, math.NaN(), err
		}
	default:
		if name = A.ReturnDataName(O.Param); name == "" {
			return relax.NewError(relax.ConfigError, "Write", relax.UnknownParam, O.Param, A.Name())
		}
		rv = A.ReturnValue
	}
	scaling := O.Scaling
	if scaling == 0 {
		scaling = 1
	}
	spins := P.Spins()
	T := &seqio.Table{
		MolNames:  make([]string, len(spins)),
		ResNums:   make([]int, len(spins)),
		ResNames:  make([]string, len(spins)),
		SpinNums:  make([]int, len(spins)),
		SpinNames: make([]string, len(spins)),
		Data:      make([]float64, len(spins)),
		Errors:    make([]float64, len(spins)),
	}
	for i, s := range spins {
		id := s.ID()
		T.MolNames[i], T.ResNums[i], T.ResNames[i], T.SpinNums[i], T.SpinNames[i] = id.Mol, id.ResNum, id.ResName, id.SpinNum, id.SpinName
		v, e, err := rv(P, s, name, relax.NoSim)
		if err != nil {
			return relax.DecorateError(err, "Write")
		}
		T.Data[i] = v / scaling
		T.Errors[i] = e / scaling
	}
	return relax.DecorateError(seqio.WriteSpinData(w, O.Sep, T), "Write")
}

// WriteFile is Write to the file name, in the directory dir, compressed as
// requested. An existing file is overwritten only if force is true.
func WriteFile(C *relax.Context, name, dir string, comp colio.Compression, force bool, O WriteOptions) error {
	w, _, err := colio.OpenWrite(name, dir, comp, force)
	if err != nil {
		return relax.DecorateError(err, "WriteFile")
	}
	if err := Write(C, w, O); err != nil {
		w.Close()
		return relax.DecorateError(err, "WriteFile")
	}
	return w.Close()
}

// Display writes the values of the parameter to the standard output.
func Display(C *relax.Context, param string) error {
	return Write(C, os.Stdout, WriteOptions{Param: param})
}

// Copy copies the values and errors of a parameter from the spins of the pipe
// from to the spins with the same ID in the pipe to. Unless force is true,
// the parameter must not have values in the target pipe.
func Copy(C *relax.Context, from, to, param string, force bool) error {
	src, err := C.Get(from)
	if err != nil {
		return relax.DecorateError(err, "Copy")
	}
	dst, err := C.Get(to)
	if err != nil {
		return relax.DecorateError(err, "Copy")
	}
	if src == dst {
		return relax.NewError(relax.ConfigError, "Copy", "The source and target pipes are the same")
	}
	if err := src.TestSequence(); err != nil {
		return relax.DecorateError(err, "Copy")
	}
	if err := relax.CompareSequence(src, dst); err != nil {
		return relax.DecorateError(err, "Copy")
	}
	As, err := src.Analysis()
	if err != nil {
		return relax.DecorateError(err, "Copy")
	}
	Ad, err := dst.Analysis()
	if err != nil {
		return relax.DecorateError(err, "Copy")
	}
	name := As.ReturnDataName(param)
	if name == "" || Ad.ReturnDataName(param) != name {
		return relax.NewError(relax.ConfigError, "Copy", relax.UnknownParam, param, Ad.Name())
	}
	type pair struct {
		id   string
		v, e float64
	}
	//everything is read, and checked, before writing.
	var data []pair
	for _, s := range src.Spins() {
		v, e, err := As.ReturnValue(src, s, name, relax.NoSim)
		if err != nil {
			return relax.DecorateError(err, "Copy")
		}
		t, err := dst.ReturnSpin(s.SpinID())
		if err != nil {
			return relax.DecorateError(err, "Copy")
		}
		if !force {
			tv, _, err := Ad.ReturnValue(dst, t, name, relax.NoSim)
			if err != nil {
				return relax.DecorateError(err, "Copy")
			}
			if !math.IsNaN(tv) {
				return relax.NewError(relax.ConfigError, "Copy", "The parameter %q already has values in the pipe %q", name, dst.Name)
			}
		}
		data = append(data, pair{t.SpinID(), v, e})
	}
	for _, d := range data {
		if !math.IsNaN(d.v) {
			if err := Ad.SetParamValues(dst, []string{name}, []float64{d.v}, false, d.id, true); err != nil {
				return relax.DecorateError(err, "Copy")
			}
		}
		if !math.IsNaN(d.e) {
			if err := Ad.SetParamValues(dst, []string{name}, []float64{d.e}, true, d.id, true); err != nil {
				return relax.DecorateError(err, "Copy")
			}
		}
	}
	minimise.ResetMinStats(dst)
	return nil
}

func warn(format string, args ...interface{}) string {
	w := fmt.Sprintf(format, args...)
	log.Printf("Warning: %s", w)
	return w
}

const ValueSet = "The parameter %q of %q is already set"
