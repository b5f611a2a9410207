/*
 * ops.go, part of gorelax.
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

package main

import (
	"fmt"
	"log/slog"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/analysis/noe"
	"github.com/rmera/gorelax/analysis/relaxfit"
	"github.com/rmera/gorelax/colio"
	"github.com/rmera/gorelax/minimise"
	"github.com/rmera/gorelax/montecarlo"
	"github.com/rmera/gorelax/seqio"
	"github.com/rmera/gorelax/spectrum"
	"github.com/rmera/gorelax/state"
	"github.com/rmera/gorelax/structure"
)

// op is a script operation: a constructor for its arguments and the
// function running it.
type op struct {
	args func() interface{}
	run  func(R *Runner, args interface{}) error
}

func mkop[T any](f func(R *Runner, a *T) error) op {
	return op{
		args: func() interface{} { return new(T) },
		run:  func(R *Runner, a interface{}) error { return f(R, a.(*T)) },
	}
}

// columns are 1-based column numbers, 0 means unset.
type columns struct {
	SpinID   int `yaml:"spin_id_col" validate:"gte=0"`
	MolName  int `yaml:"mol_name_col" validate:"gte=0"`
	ResNum   int `yaml:"res_num_col" validate:"gte=0"`
	ResName  int `yaml:"res_name_col" validate:"gte=0"`
	SpinNum  int `yaml:"spin_num_col" validate:"gte=0"`
	SpinName int `yaml:"spin_name_col" validate:"gte=0"`
	Data     int `yaml:"data_col" validate:"gte=0"`
	Error    int `yaml:"error_col" validate:"gte=0"`
}

func (c columns) seqio() *seqio.Columns {
	unset := func(i int) int {
		if i == 0 {
			return seqio.Unset
		}
		return i
	}
	return &seqio.Columns{SpinID: unset(c.SpinID), MolName: unset(c.MolName), ResNum: unset(c.ResNum), ResName: unset(c.ResName),
		SpinNum: unset(c.SpinNum), SpinName: unset(c.SpinName), Data: unset(c.Data), Error: unset(c.Error)}
}

func (c columns) isZero() bool {
	return c == columns{}
}

// file arguments shared by the reading and writing operations.
type fileArgs struct {
	File  string `yaml:"file" validate:"required"`
	Dir   string `yaml:"dir"`
	Sep   string `yaml:"sep"`
	Force bool   `yaml:"force"`
	//compression of written files: none, bz2, gzip or zstd.
	Compress string `yaml:"compress" validate:"omitempty,oneof=none bz2 gzip zstd"`
}

func (f fileArgs) compression() colio.Compression {
	switch f.Compress {
	case "bz2":
		return colio.Bzip2
	case "gzip":
		return colio.Gzip
	case "zstd":
		return colio.Zstd
	}
	return colio.None
}

type pipeArgs struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type"`
}

type copyArgs struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required"`
}

type seqReadArgs struct {
	fileArgs `yaml:",inline"`
	Cols     columns `yaml:",inline"`
	SpinID   string  `yaml:"spin_id"`
}

type selectArgs struct {
	SpinID    string `yaml:"spin_id"`
	ChangeAll bool   `yaml:"change_all"`
}

type pdbArgs struct {
	File string `yaml:"file" validate:"required"`
	Dir  string `yaml:"dir"`
}

type loadSpinsArgs struct {
	SpinID string `yaml:"spin_id"`
	Mol    string `yaml:"mol"`
}

type dipoleArgs struct {
	SpinID1    string  `yaml:"spin_id1" validate:"required"`
	SpinID2    string  `yaml:"spin_id2" validate:"required"`
	DirectBond bool    `yaml:"direct_bond"`
	Dist       float64 `yaml:"dist" validate:"gte=0"`
}

type intensityArgs struct {
	fileArgs   `yaml:",inline"`
	Cols       columns  `yaml:",inline"`
	SpectrumID string   `yaml:"spectrum_id" validate:"required"`
	SpinID     string   `yaml:"spin_id"`
	NCProc     *int     `yaml:"ncproc"`
	RMSD       float64  `yaml:"rmsd" validate:"gte=0"`
	Time       *float64 `yaml:"time" validate:"omitempty,gte=0"`
	Type       string   `yaml:"spectrum_type" validate:"omitempty,oneof=ref sat"`
}

type spectrumArgs struct {
	SpectrumID string  `yaml:"spectrum_id" validate:"required"`
	RMSD       float64 `yaml:"rmsd" validate:"gte=0"`
	SpinID     string  `yaml:"spin_id"`
}

type valueSetArgs struct {
	Params []string  `yaml:"params"`
	Vals   []float64 `yaml:"vals"`
	Error  bool      `yaml:"error"`
	SpinID string    `yaml:"spin_id"`
	Force  bool      `yaml:"force"`
}

type valueWriteArgs struct {
	fileArgs `yaml:",inline"`
	Param    string `yaml:"param" validate:"required"`
}

type seqWriteArgs struct {
	fileArgs `yaml:",inline"`
	SpinID   string `yaml:"spin_id"`
}

type verbosityArgs struct {
	Verbosity int `yaml:"verbosity"`
}

type displayArgs struct {
	Param string `yaml:"param" validate:"required"`
}

type gridArgs struct {
	Inc         int       `yaml:"inc" validate:"omitempty,min=1"`
	Lower       []float64 `yaml:"lower"`
	Upper       []float64 `yaml:"upper"`
	Constraints *bool     `yaml:"constraints"`
	Verbosity   int       `yaml:"verbosity"`
}

type minArgs struct {
	Algorithm   string  `yaml:"algorithm"`
	LineSearch  string  `yaml:"line_search"`
	FuncTol     float64 `yaml:"func_tol" validate:"gte=0"`
	GradTol     float64 `yaml:"grad_tol" validate:"gte=0"`
	MaxIter     int     `yaml:"max_iter" validate:"gte=0"`
	Constraints *bool   `yaml:"constraints"`
	Scaling     *bool   `yaml:"scaling"`
	Verbosity   int     `yaml:"verbosity"`
}

type mcSetupArgs struct {
	Number int `yaml:"number" validate:"required"`
}

type mcDataArgs struct {
	Method     string  `yaml:"method" validate:"omitempty,oneof=back_calc direct"`
	FixedError float64 `yaml:"fixed_error" validate:"gte=0"`
}

type none struct{}

// current returns the current pipe.
func (R *Runner) current() (*relax.Pipe, error) {
	return R.C.Current()
}

var ops = map[string]op{
	"pipe.create": mkop(func(R *Runner, a *pipeArgs) error {
		t, err := relax.ParseType(a.Type)
		if err != nil {
			return err
		}
		_, err = R.C.Create(a.Name, t)
		return err
	}),
	"pipe.switch": mkop(func(R *Runner, a *pipeArgs) error { return R.C.Switch(a.Name) }),
	"pipe.delete": mkop(func(R *Runner, a *pipeArgs) error { return R.C.Delete(a.Name) }),
	"pipe.copy":   mkop(func(R *Runner, a *copyArgs) error { return R.C.CopyPipe(a.From, a.To) }),
	"pipe.display": mkop(func(R *Runner, a *none) error {
		for _, name := range R.C.Names() {
			P, _ := R.C.Get(name)
			mark := " "
			if name == R.C.CurrentName() {
				mark = "*"
			}
			fmt.Fprintf(R.Out, "%s %-20s %-12s %s\n", mark, name, P.Type, montecarlo.Describe(P))
		}
		return nil
	}),
	"sequence.read": mkop(func(R *Runner, a *seqReadArgs) error {
		P, err := R.current()
		if err != nil {
			return err
		}
		var cols *seqio.Columns
		if !a.Cols.isZero() {
			cols = a.Cols.seqio()
		}
		warnings, err := P.ReadSequence(a.File, R.dir(a.Dir), a.Sep, cols, a.SpinID)
		slog.Debug("sequence read", "spins", P.SpinCount(), "warnings", len(warnings))
		return err
	}),
	"sequence.write": mkop(func(R *Runner, a *seqWriteArgs) error {
		P, err := R.current()
		if err != nil {
			return err
		}
		w, path, err := colio.OpenWrite(a.File, R.dir(a.Dir), a.compression(), a.Force)
		if err != nil {
			return err
		}
		if err := P.WriteSequence(w, a.Sep, a.SpinID); err != nil {
			w.Close()
			return err
		}
		slog.Debug("sequence written", "file", path)
		return w.Close()
	}),
	"sequence.copy": mkop(func(R *Runner, a *copyArgs) error { return R.C.CopySequence(a.From, a.To, true, false) }),
	"sequence.attach_protons": mkop(func(R *Runner, a *none) error {
		P, err := R.current()
		if err != nil {
			return err
		}
		return P.AttachProtons()
	}),
	"spin.select": mkop(func(R *Runner, a *selectArgs) error {
		P, err := R.current()
		if err != nil {
			return err
		}
		return P.Select(a.SpinID, a.ChangeAll)
	}),
	"spin.deselect": mkop(func(R *Runner, a *selectArgs) error {
		P, err := R.current()
		if err != nil {
			return err
		}
		return P.Deselect(a.SpinID, a.ChangeAll)
	}),
	"spin.reverse": mkop(func(R *Runner, a *selectArgs) error {
		P, err := R.current()
		if err != nil {
			return err
		}
		return P.Reverse(a.SpinID)
	}),
	"spin.delete": mkop(func(R *Runner, a *selectArgs) error {
		P, err := R.current()
		if err != nil {
			return err
		}
		return P.DeleteSpin(a.SpinID)
	}),
	"structure.read_pdb": mkop(func(R *Runner, a *pdbArgs) error {
		S, err := structure.ReadPDBFile(a.File, R.dir(a.Dir))
		if err != nil {
			return err
		}
		R.Struct = S
		slog.Debug("structure read", "atoms", S.Len(), "models", S.NModels())
		return nil
	}),
	"structure.load_spins": mkop(func(R *Runner, a *loadSpinsArgs) error {
		if R.Struct == nil {
			return relax.NewError(relax.PreconditionError, "structure.load_spins", "No structure has been read")
		}
		ids, err := structure.LoadSpins(R.C, R.Struct, a.SpinID, a.Mol)
		slog.Debug("spins loaded", "spins", len(ids))
		return err
	}),
	"structure.unit_vectors": mkop(func(R *Runner, a *none) error {
		_, err := structure.UnitVectors(R.C)
		return err
	}),
	"interatom.define": mkop(func(R *Runner, a *dipoleArgs) error {
		P, err := R.current()
		if err != nil {
			return err
		}
		if _, err := P.DefineDipolePair(a.SpinID1, a.SpinID2, a.DirectBond); err != nil {
			return err
		}
		if a.Dist > 0 {
			return P.SetDist(a.SpinID1, a.SpinID2, a.Dist)
		}
		return nil
	}),
	"spectrum.read_intensities": mkop(func(R *Runner, a *intensityArgs) error {
		_, err := spectrum.ReadIntensities(R.C, spectrum.ReadOptions{File: a.File, Dir: R.dir(a.Dir), Sep: a.Sep, Cols: a.Cols.seqio(),
			SpectrumID: a.SpectrumID, SpinID: a.SpinID, NCProc: a.NCProc})
		if err != nil {
			return err
		}
		if a.RMSD > 0 {
			if err := spectrum.SetErrors(R.C, a.SpectrumID, a.RMSD, a.SpinID); err != nil {
				return err
			}
		}
		if a.Time != nil {
			if err := relaxfit.RelaxTime(R.C, a.SpectrumID, *a.Time); err != nil {
				return err
			}
		}
		if a.Type != "" {
			return noe.SpectrumType(R.C, a.SpectrumID, a.Type)
		}
		return nil
	}),
	"spectrum.errors": mkop(func(R *Runner, a *spectrumArgs) error {
		return spectrum.SetErrors(R.C, a.SpectrumID, a.RMSD, a.SpinID)
	}),
	"spectrum.delete": mkop(func(R *Runner, a *spectrumArgs) error {
		return spectrum.Delete(R.C, a.SpectrumID)
	}),
	"value.set":     mkop(setValues),
	"value.write":   mkop(writeValues),
	"value.display": mkop(func(R *Runner, a *displayArgs) error { return displayValues(R, a.Param) }),
	"minimise.calc": mkop(func(R *Runner, a *verbosityArgs) error { return minimise.Calc(R.C, a.Verbosity) }),
	"minimise.grid_search": mkop(func(R *Runner, a *gridArgs) error {
		args := &relax.GridArgs{Lower: a.Lower, Upper: a.Upper, Inc: []int{21}, Constraints: true, Verbosity: a.Verbosity}
		if a.Inc > 0 {
			args.Inc = []int{a.Inc}
		}
		if a.Constraints != nil {
			args.Constraints = *a.Constraints
		}
		return minimise.GridSearch(R.C, args)
	}),
	"minimise.minimise": mkop(func(R *Runner, a *minArgs) error {
		O := minimise.DefaultOptions()
		if a.Algorithm != "" {
			O.Algorithm(a.Algorithm)
		}
		if a.LineSearch != "" {
			O.LineSearch(a.LineSearch)
		}
		if a.FuncTol > 0 {
			O.FuncTol(a.FuncTol)
		}
		if a.GradTol > 0 {
			O.GradTol(a.GradTol)
		}
		if a.MaxIter > 0 {
			O.MaxIter(a.MaxIter)
		}
		if a.Constraints != nil {
			O.Constraints(*a.Constraints)
		}
		if a.Scaling != nil {
			O.Scaling(*a.Scaling)
		}
		O.Verbosity(a.Verbosity)
		return minimise.Minimise(R.C, O, relax.NoSim)
	}),
	"montecarlo.setup": mkop(func(R *Runner, a *mcSetupArgs) error { return montecarlo.Setup(R.C, a.Number) }),
	"montecarlo.create_data": mkop(func(R *Runner, a *mcDataArgs) error {
		O := montecarlo.DefaultDataOptions()
		if a.Method != "" {
			O.Method = a.Method
		}
		O.FixedError = a.FixedError
		return montecarlo.CreateData(R.C, O)
	}),
	"montecarlo.initial_values": mkop(func(R *Runner, a *none) error { return montecarlo.InitialValues(R.C) }),
	"montecarlo.error_analysis": mkop(func(R *Runner, a *none) error { return montecarlo.ErrorAnalysis(R.C) }),
	"montecarlo.on":             mkop(func(R *Runner, a *none) error { return montecarlo.On(R.C) }),
	"montecarlo.off":            mkop(func(R *Runner, a *none) error { return montecarlo.Off(R.C) }),
	"state.save": mkop(func(R *Runner, a *fileArgs) error {
		path, err := state.SaveFile(R.C, a.File, R.dir(a.Dir), a.Force)
		slog.Debug("state saved", "file", path)
		return err
	}),
	"state.load": mkop(func(R *Runner, a *fileArgs) error {
		C, H, err := state.LoadFile(a.File, R.dir(a.Dir))
		if err != nil {
			return err
		}
		slog.Debug("state loaded", "id", H.ID, "pipes", len(H.Pipes))
		R.C = C
		return nil
	}),
}
