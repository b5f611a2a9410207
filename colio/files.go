/*
 * files.go, part of gorelax.
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
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// GetFilePath joins dir and name, expanding a leading "~".
func GetFilePath(name, dir string) (string, error) {
	path := name
	if dir != "" {
		path = filepath.Join(dir, name)
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path, Error{IOFailure, path, err.Error(), []string{"GetFilePath"}, true}
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}

// MkdirNoFail creates the directory and its parents. It is not an error
// for the directory to exist already.
func MkdirNoFail(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	dir, err := GetFilePath(dir, "")
	if err != nil {
		return errDecorate(err, "MkdirNoFail")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Error{IOFailure, dir, err.Error(), []string{"MkdirNoFail"}, true}
	}
	return nil
}

// Delete removes a file, also looking for its compressed versions.
// A missing file is an error only if fail is true.
func Delete(name, dir string, fail bool) error {
	path, err := GetFilePath(name, dir)
	if err != nil {
		return errDecorate(err, "Delete")
	}
	found := ""
	for _, ext := range []string{"", ".bz2", ".gz", ".zst"} {
		if _, err := os.Stat(path + ext); err == nil {
			found = path + ext
			break
		}
	}
	if found == "" {
		if fail {
			return Error{FileNotFound, path, FileMissing, []string{"Delete"}, true}
		}
		return nil
	}
	if err := os.Remove(found); err != nil {
		return Error{IOFailure, found, err.Error(), []string{"Delete"}, true}
	}
	return nil
}

// FileRoot returns the file name without directories or extensions.
func FileRoot(path string) string {
	base := filepath.Base(path)
	for {
		ext := filepath.Ext(base)
		if ext == "" || ext == base {
			break
		}
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// SwapExtension replaces all the extensions of the file by ext.
// The directory part of the path is dropped.
func SwapExtension(path, ext string) string {
	return FileRoot(path) + "." + strings.TrimPrefix(ext, ".")
}

var digits = regexp.MustCompile(`[0-9]+|[^0-9]+`)

// SortFilenames sorts the names in place in natural (alphanumeric) order, so
// that "s2" comes before "s10", and returns the slice. The order is reversed if
// rev is true.
func SortFilenames(names []string, rev bool) []string {
	less := func(a, b string) bool {
		ca := digits.FindAllString(a, -1)
		cb := digits.FindAllString(b, -1)
		for i := 0; i < len(ca) && i < len(cb); i++ {
			if ca[i] == cb[i] {
				continue
			}
			na, erra := strconv.Atoi(ca[i])
			nb, errb := strconv.Atoi(cb[i])
			if erra == nil && errb == nil {
				if na != nb {
					return na < nb
				}
				continue
			}
			return ca[i] < cb[i]
		}
		return len(ca) < len(cb)
	}
	sort.SliceStable(names, func(i, j int) bool {
		if rev {
			return less(names[j], names[i])
		}
		return less(names[i], names[j])
	})
	return names
}

// TestBinary checks that binary is a program that can be run. If binary is
// a path to a file, the file must exist and be executable. Otherwise, the
// program (or program.exe) must be found in one of the directories in PATH.
func TestBinary(binary string) error {
	if strings.ContainsRune(binary, os.PathSeparator) || strings.ContainsRune(binary, '/') {
		st, err := os.Stat(binary)
		if err != nil || st.IsDir() {
			return Error{MissingBinary, binary, BinaryMissing, []string{"TestBinary"}, true}
		}
		if st.Mode().Perm()&0111 == 0 {
			return Error{NonExecBinary, binary, BinaryNonExec, []string{"TestBinary"}, true}
		}
		return nil
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		for _, name := range []string{binary, binary + ".exe"} {
			if st, err := os.Stat(filepath.Join(dir, name)); err == nil && !st.IsDir() {
				return nil
			}
		}
	}
	return Error{NotInPath, binary, BinaryNotInPath, []string{"TestBinary"}, true}
}
