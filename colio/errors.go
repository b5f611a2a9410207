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

package colio

import (
	"errors"
	"fmt"
)

// Kind identifies the condition behind an Error.
type Kind int

const (
	IOFailure Kind = iota
	FileNotFound
	Overwrite
	MissingBinary
	NonExecBinary
	NotInPath
)

// Error is the general structure for colio errors.
type Error struct {
	kind     Kind
	filename string //the file involved, or empty string if none.
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return err.message
	}
	return fmt.Sprintf("%s: %s", err.message, err.filename)
}

// Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// FileName returns the file associated to the error, if any.
func (err Error) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

// Kind returns the kind of condition that caused the error.
func (err Error) Kind() Kind { return err.kind }

// IsKind returns true if err is, or wraps, a colio Error of kind k.
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
	FileMissing     = "The file does not exist"
	FileExists      = "The file already exists. Set the force flag to overwrite"
	BinaryMissing   = "The program cannot be found"
	BinaryNonExec   = "The program is not executable"
	BinaryNotInPath = "The program cannot be found in the PATH"
)
