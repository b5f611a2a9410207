/*
 * errors.go, part of gorelax.
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
	"errors"
	"fmt"

	"github.com/rmera/gorelax/colio"
	"github.com/rmera/gorelax/seqio"
)

// Kind is the kind of condition behind an error.
type Kind int

const (
	ConfigError       Kind = iota //bad argument combinations. Nothing is changed.
	PreconditionError             //missing pipe, sequence or other needed data.
	DataError                     //bad or missing data in files or containers.
	FileError                     //missing or unreadable files.
	OverwriteError                //writing over an existing file without force.
	BinaryError                   //missing or non executable external programs.
)

func (K Kind) String() string {
	switch K {
	case ConfigError:
		return "configuration"
	case PreconditionError:
		return "precondition"
	case DataError:
		return "data"
	case FileError:
		return "file"
	case OverwriteError:
		return "overwrite"
	case BinaryError:
		return "binary"
	}
	return "unknown"
}

// Error is the general structure for errors in gorelax.
type Error struct {
	message  string
	kind     Kind
	deco     []string
	critical bool
}

// NewError returns an Error of the given kind. The message is
// formatted as with fmt.Sprintf.
func NewError(kind Kind, caller string, format string, args ...interface{}) Error {
	return Error{fmt.Sprintf(format, args...), kind, []string{caller}, true}
}

func (err Error) Error() string {
	return "gorelax: " + err.message
}

// Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Kind returns the kind of condition behind the error.
func (err Error) Kind() Kind { return err.kind }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

// IsKind returns true if err is, or wraps, an error of kind k. Errors
// from the colio and seqio packages are mapped to their equivalent kind.
func IsKind(err error, k Kind) bool {
	if err == nil {
		return false
	}
	var e Error
	if errors.As(err, &e) {
		return e.kind == k
	}
	switch k {
	case ConfigError:
		return seqio.IsKind(err, seqio.ConfigError)
	case DataError:
		return seqio.IsKind(err, seqio.NoData)
	case FileError:
		return colio.IsKind(err, colio.FileNotFound) || colio.IsKind(err, colio.IOFailure)
	case OverwriteError:
		return colio.IsKind(err, colio.Overwrite)
	case BinaryError:
		return colio.IsKind(err, colio.MissingBinary) || colio.IsKind(err, colio.NonExecBinary) || colio.IsKind(err, colio.NotInPath)
	}
	return false
}

// DecorateError adds caller to the decoration of err, if err is an Error.
// Other errors, and nil, are returned unchanged.
func DecorateError(err error, caller string) error {
	return errDecorate(err, caller)
}

func errDecorate(err error, caller string) error {
	if err2, ok := err.(Error); ok {
		err2.deco = append(err2.deco, caller)
		return err2
	}
	return err
}

const (
	NoPipe          = "The data pipe %q does not exist"
	NoCurrentPipe   = "There is no current data pipe"
	PipeExists      = "The data pipe %q already exists"
	NoSequence      = "The sequence data of the pipe %q does not exist"
	SequenceExists  = "The sequence data of the pipe %q already exists"
	NoSpin          = "The spin %q does not exist"
	MultipleSpins   = "The selection %q matches more than one spin"
	SpinExists      = "The spin %q already exists"
	ResNameMismatch = "The residue %d is named %q, not %q"
	InteratomExists = "The interatomic container between the spins %q and %q already exists"
	DipoleExists    = "The magnetic dipole-dipole interaction already exists between the spins %q and %q"
	NoInteratom     = "The interatomic container between the spins %q and %q does not exist"
	NoAnalysis      = "The analysis type %q is not supported"
	UnknownParam    = "The parameter %q is not valid for the analysis type %q"
	NoDefault       = "The default value of the parameter %q cannot be determined"
)
