/*
 * script.go, part of gorelax.
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
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/structure"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Step is one operation of a script, with its arguments.
type Step struct {
	Op   string    `yaml:"op" validate:"required"`
	Args yaml.Node `yaml:"args"`
}

// Script is a list of steps. Dir is the directory relative file names are
// taken from, the one of the script file by default.
type Script struct {
	Dir   string `yaml:"dir"`
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`
}

// ParseScript reads a script from r.
func ParseScript(r io.Reader) (*Script, error) {
	S := new(Script)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(S); err != nil {
		return nil, relax.NewError(relax.ConfigError, "ParseScript", "Invalid script: %s", err.Error())
	}
	if err := validate.Struct(S); err != nil {
		return nil, relax.NewError(relax.ConfigError, "ParseScript", "Invalid script: %s", err.Error())
	}
	return S, nil
}

// ReadScript reads the script file name.
func ReadScript(name string) (*Script, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, relax.NewError(relax.FileError, "ReadScript", "%s", err.Error())
	}
	S, err := ParseScript(bytes.NewReader(data))
	if err != nil {
		return nil, relax.DecorateError(err, "ReadScript")
	}
	if S.Dir == "" {
		S.Dir = filepath.Dir(name)
	} else if !filepath.IsAbs(S.Dir) {
		S.Dir = filepath.Join(filepath.Dir(name), S.Dir)
	}
	return S, nil
}

// args returns the validated arguments of the step i.
func (S *Script) args(i int) (op, interface{}, error) {
	st := S.Steps[i]
	o, ok := ops[st.Op]
	if !ok {
		return op{}, nil, relax.NewError(relax.ConfigError, "args", "Step %d: unknown operation %q. Known operations: %s", i+1, st.Op, strings.Join(OpNames(), ", "))
	}
	a := o.args()
	if !st.Args.IsZero() {
		if err := st.Args.Decode(a); err != nil {
			return o, nil, relax.NewError(relax.ConfigError, "args", "Step %d (%s): %s", i+1, st.Op, err.Error())
		}
	}
	if err := validate.Struct(a); err != nil {
		return o, nil, relax.NewError(relax.ConfigError, "args", "Step %d (%s): %s", i+1, st.Op, err.Error())
	}
	return o, a, nil
}

// Check validates the arguments of every step.
func (S *Script) Check() error {
	for i := range S.Steps {
		if _, _, err := S.args(i); err != nil {
			return relax.DecorateError(err, "Check")
		}
	}
	return nil
}

// OpNames returns the names of all the operations, sorted.
func OpNames() []string {
	ret := make([]string, 0, len(ops))
	for k := range ops {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Runner runs scripts on a context.
type Runner struct {
	C      *relax.Context
	Dir    string
	Out    io.Writer            //where displayed data goes.
	Struct *structure.Structure //the last structure read.
}

// NewRunner returns a runner with an empty context, which takes relative
// file names from dir.
func NewRunner(dir string) *Runner {
	return &Runner{C: relax.NewContext(), Dir: dir, Out: os.Stdout}
}

// dir returns d, relative to the directory of the runner.
func (R *Runner) dir(d string) string {
	if d == "" {
		return R.Dir
	}
	if filepath.IsAbs(d) || strings.HasPrefix(d, "~") {
		return d
	}
	return filepath.Join(R.Dir, d)
}

// Run checks all the steps of the script, and then runs them in order. It
// stops at the first failure.
func (R *Runner) Run(S *Script) error {
	if err := S.Check(); err != nil {
		return relax.DecorateError(err, "Run")
	}
	for i, st := range S.Steps {
		o, a, _ := S.args(i)
		slog.Debug("running", "step", i+1, "op", st.Op)
		if err := o.run(R, a); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
	}
	return nil
}
