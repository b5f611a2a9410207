/*
 * context.go, part of gorelax.
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
	"bytes"
	"encoding/gob"
)

// Context holds all the data pipes of an analysis, the name of the
// current one and the index of the current Monte Carlo simulation.
// A Context is not safe for concurrent use.
type Context struct {
	pipes    map[string]*Pipe
	order    []string
	current  string
	simIndex int
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{pipes: make(map[string]*Pipe), simIndex: NoSim}
}

// Create adds a new, empty, pipe of type t and makes it the current one.
func (C *Context) Create(name string, t PipeType) (*Pipe, error) {
	if name == "" {
		return nil, NewError(ConfigError, "Create", "The data pipe name cannot be empty")
	}
	if _, ok := C.pipes[name]; ok {
		return nil, NewError(ConfigError, "Create", PipeExists, name)
	}
	P := NewPipe(name, t)
	C.add(P)
	return P, nil
}

func (C *Context) add(P *Pipe) {
	C.pipes[P.Name] = P
	C.order = append(C.order, P.Name)
	C.current = P.Name
}

// Switch makes the pipe name the current one.
func (C *Context) Switch(name string) error {
	if _, ok := C.pipes[name]; !ok {
		return NewError(PreconditionError, "Switch", NoPipe, name)
	}
	C.current = name
	return nil
}

// Delete removes the pipe name or, if name is "", all the pipes. If the
// current pipe is deleted, there is no current pipe afterwards.
func (C *Context) Delete(name string) error {
	if name == "" {
		C.pipes = make(map[string]*Pipe)
		C.order = nil
		C.current = ""
		return nil
	}
	if _, ok := C.pipes[name]; !ok {
		return NewError(PreconditionError, "Delete", NoPipe, name)
	}
	delete(C.pipes, name)
	for i, v := range C.order {
		if v == name {
			C.order = append(C.order[:i], C.order[i+1:]...)
			break
		}
	}
	if C.current == name {
		C.current = ""
	}
	return nil
}

// Current returns the current pipe.
func (C *Context) Current() (*Pipe, error) {
	if C.current == "" {
		return nil, NewError(PreconditionError, "Current", NoCurrentPipe)
	}
	return C.pipes[C.current], nil
}

// CurrentName returns the name of the current pipe, or "".
func (C *Context) CurrentName() string {
	return C.current
}

// Get returns the pipe name, or the current one if name is "".
func (C *Context) Get(name string) (*Pipe, error) {
	if name == "" {
		P, err := C.Current()
		return P, errDecorate(err, "Get")
	}
	P, ok := C.pipes[name]
	if !ok {
		return nil, NewError(PreconditionError, "Get", NoPipe, name)
	}
	return P, nil
}

// Names returns the names of the pipes in order of creation.
func (C *Context) Names() []string {
	return append([]string(nil), C.order...)
}

// Exists returns true if the pipe name exists.
func (C *Context) Exists(name string) bool {
	_, ok := C.pipes[name]
	return ok
}

// TestPipe returns a precondition error if the pipe name (the current
// one, if name is "") does not exist.
func (C *Context) TestPipe(name string) error {
	_, err := C.Get(name)
	return errDecorate(err, "TestPipe")
}

// CopyPipe creates the pipe to as a deep copy of the pipe from ("" meaning the
// current pipe). The current pipe does not change.
func (C *Context) CopyPipe(from, to string) error {
	src, err := C.Get(from)
	if err != nil {
		return errDecorate(err, "CopyPipe")
	}
	if C.Exists(to) {
		return NewError(ConfigError, "CopyPipe", PipeExists, to)
	}
	P, err := src.Clone()
	if err != nil {
		return errDecorate(err, "CopyPipe")
	}
	P.Name = to
	cur := C.current
	C.add(P)
	C.current = cur
	return nil
}

// Add inserts an existing pipe, as obtained from a saved state, making it
// the current one.
func (C *Context) Add(P *Pipe) error {
	if P == nil || P.Name == "" {
		return NewError(ConfigError, "Add", "The data pipe must have a name")
	}
	if C.Exists(P.Name) {
		return NewError(ConfigError, "Add", PipeExists, P.Name)
	}
	P.Reindex()
	C.add(P)
	return nil
}

// SimIndex returns the index of the current Monte Carlo simulation, or NoSim.
func (C *Context) SimIndex() int {
	return C.simIndex
}

// SetSimIndex sets the index of the current Monte Carlo simulation.
func (C *Context) SetSimIndex(i int) {
	C.simIndex = i
}

// ClearSimIndex sets the current Monte Carlo simulation index to NoSim.
func (C *Context) ClearSimIndex() {
	C.simIndex = NoSim
}

// Clone returns a deep copy of the pipe.
func (P *Pipe) Clone() (*Pipe, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(P); err != nil {
		return nil, NewError(DataError, "Clone", "Unable to copy the data pipe %q: %s", P.Name, err.Error())
	}
	ret := new(Pipe)
	if err := gob.NewDecoder(&buf).Decode(ret); err != nil {
		return nil, NewError(DataError, "Clone", "Unable to copy the data pipe %q: %s", P.Name, err.Error())
	}
	ret.Reindex()
	return ret, nil
}
