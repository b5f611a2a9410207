/*
 * data.go, part of gorelax.
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
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ExtractData reads all the lines from r and splits them into columns,
// using sep as the separator or, if sep is empty, any whitespace.
// If comments is true, the result is passed through Strip.
func ExtractData(r io.Reader, sep string, comments bool) ([][]string, error) {
	in := bufio.NewReader(r)
	data := make([][]string, 0, 32)
	for {
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, Error{IOFailure, "", err.Error(), []string{"ExtractData"}, true}
		}
		if line != "" || err == nil {
			line = strings.TrimRight(line, "\r\n")
			var row []string
			if sep == "" {
				row = strings.Fields(line)
			} else if line != "" {
				row = strings.Split(line, sep)
			}
			data = append(data, row)
		}
		if err == io.EOF {
			break
		}
	}
	if comments {
		data = Strip(data, true)
	}
	return data, nil
}

// ExtractFile is ExtractData over a file name (or an open reader), which
// is opened with OpenRead.
func ExtractFile(file interface{}, dir, sep string, comments bool) ([][]string, error) {
	f, err := OpenRead(file, dir)
	if err != nil {
		return nil, errDecorate(err, "ExtractFile")
	}
	defer f.Close()
	data, err := ExtractData(f, sep, comments)
	if err != nil {
		return nil, errDecorate(err, "ExtractFile")
	}
	return data, nil
}

// Strip removes the empty rows and, if comments is true, the rows
// whose first element starts with '#'.
func Strip(data [][]string, comments bool) [][]string {
	ret := make([][]string, 0, len(data))
	for _, row := range data {
		if len(row) == 0 {
			continue
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if comments && strings.HasPrefix(strings.TrimSpace(row[0]), "#") {
			continue
		}
		ret = append(ret, row)
	}
	return ret
}

// WriteData writes data as a table. With an empty sep, columns are padded
// with spaces to a common width per column, otherwise fields are joined with sep.
// If headings is not nil, a header row starting with '#' is written first.
// All rows must have the same number of elements as the first one.
func WriteData(w io.Writer, data [][]string, sep string, headings []string) error {
	if len(data) == 0 && headings == nil {
		return nil
	}
	ncols := len(headings)
	if len(data) > 0 {
		ncols = len(data[0])
	}
	if headings != nil && len(headings) != ncols {
		return Error{IOFailure, "", fmt.Sprintf("%d headings given for %d columns", len(headings), ncols), []string{"WriteData"}, true}
	}
	for i, row := range data {
		if len(row) != ncols {
			return Error{IOFailure, "", fmt.Sprintf("Row %d has %d elements, %d expected", i, len(row), ncols), []string{"WriteData"}, true}
		}
	}
	out := bufio.NewWriter(w)
	if sep == "" {
		widths := make([]int, ncols)
		if headings != nil {
			for j, h := range headings {
				widths[j] = len(h)
				if j == 0 {
					widths[j] += 2
				}
			}
		}
		for _, row := range data {
			for j, v := range row {
				if len(v) > widths[j] {
					widths[j] = len(v)
				}
			}
		}
		if headings != nil {
			for j, h := range headings {
				if j == 0 {
					h = "# " + h
				}
				fmt.Fprintf(out, "%-*s", widths[j]+4, h)
			}
			out.WriteString("\n")
		}
		for _, row := range data {
			for j, v := range row {
				fmt.Fprintf(out, "%-*s", widths[j]+4, v)
			}
			out.WriteString("\n")
		}
	} else {
		if headings != nil {
			out.WriteString("#" + strings.Join(headings, sep) + "\n")
		}
		for _, row := range data {
			out.WriteString(strings.Join(row, sep) + "\n")
		}
	}
	if err := out.Flush(); err != nil {
		return Error{IOFailure, "", err.Error(), []string{"WriteData"}, true}
	}
	return nil
}
