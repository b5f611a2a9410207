/*
 * colio_test.go, part of gorelax.
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
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var table = [][]string{
	{"Ubi:1@N", "1.5", "0.1"},
	{"Ubi:2@N", "None", "None"},
	{"Ubi:10@N", "-0.25", "0.02"},
}

func writeTable(Te *testing.T, name string, comp Compression, force bool) string {
	w, path, err := OpenWrite(name, "", comp, force)
	require.NoError(Te, err)
	require.NoError(Te, WriteData(w, table, "", []string{"Spin_ID", "Value", "Error"}))
	require.NoError(Te, w.Close())
	return path
}

func TestCompressionRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	for _, comp := range []Compression{None, Bzip2, Gzip, Zstd} {
		fmt.Println("Round trip with compression", comp)
		base := filepath.Join(dir, "sub", "data_"+comp.String())
		path := writeTable(Te, base, comp, false)
		assert.Equal(Te, base+comp.Ext(), path)
		c, found, err := DetermineCompression(base)
		require.NoError(Te, err)
		assert.Equal(Te, comp, c)
		assert.Equal(Te, path, found)
		data, err := ExtractFile(base, "", "", true)
		require.NoError(Te, err)
		assert.Equal(Te, table, data)
	}
}

func TestCompressionSniff(Te *testing.T) {
	dir := Te.TempDir()
	gz := writeTable(Te, filepath.Join(dir, "sniff.gz"), None, false)
	plain := filepath.Join(dir, "sniff")
	require.NoError(Te, os.Rename(gz, plain))
	c, _, err := DetermineCompression(plain)
	require.NoError(Te, err)
	assert.Equal(Te, Gzip, c)
	data, err := ExtractFile(plain, "", "", true)
	require.NoError(Te, err)
	assert.Equal(Te, table, data)
}

func TestExtractFileComments(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "commented.txt")
	in := "# Spin_ID Value Error\nUbi:1@N 1.5 0.1\n  # a note\nUbi:2@N None None\nUbi:10@N -0.25 0.02\n"
	require.NoError(Te, os.WriteFile(name, []byte(in), 0644))
	data, err := ExtractFile(name, "", "", true)
	require.NoError(Te, err)
	assert.Equal(Te, table, data)
	data, err = ExtractFile(name, "", "", false)
	require.NoError(Te, err)
	assert.Len(Te, data, 5)
}

func TestMissingFile(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "nothere")
	_, _, err := DetermineCompression(name)
	require.Error(Te, err)
	assert.True(Te, IsKind(err, FileNotFound))
	assert.Contains(Te, err.Error(), name)
	_, err = OpenRead(name)
	assert.True(Te, IsKind(err, FileNotFound))
	assert.True(Te, IsKind(Delete(name, "", true), FileNotFound))
	assert.NoError(Te, Delete(name, "", false))
}

func TestOverwrite(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "out.txt")
	require.NoError(Te, os.WriteFile(name, []byte("old content\n"), 0644))
	_, _, err := OpenWrite(name, "", None, false)
	require.Error(Te, err)
	assert.True(Te, IsKind(err, Overwrite))
	b, _ := os.ReadFile(name)
	assert.Equal(Te, "old content\n", string(b))

	w, _, err := OpenWrite(name, "", None, true)
	require.NoError(Te, err)
	io.WriteString(w, "new content\n")
	require.NoError(Te, w.Close())
	b, _ = os.ReadFile(name)
	assert.Equal(Te, "new content\n", string(b))

	//the null device is always writable.
	w, path, err := OpenWrite("devnull", "", None, false)
	require.NoError(Te, err)
	assert.Equal(Te, os.DevNull, path)
	_, err = io.WriteString(w, "nothing")
	assert.NoError(Te, err)
}

func TestHandlesPassThrough(Te *testing.T) {
	var buf bytes.Buffer
	w, _, err := OpenWrite(&buf, "", Gzip, false)
	require.NoError(Te, err)
	io.WriteString(w, "plain")
	assert.Equal(Te, "plain", buf.String())
	rc := io.NopCloser(strings.NewReader("x y"))
	r, err := OpenRead(rc)
	require.NoError(Te, err)
	assert.Equal(Te, rc, r)
}

func TestExtractStrip(Te *testing.T) {
	in := "# comment\n\n@N 1.0\n  \n'@H' 2.0 x\n#another\n"
	data, err := ExtractData(strings.NewReader(in), "", false)
	require.NoError(Te, err)
	assert.Len(Te, data, 6)
	data = Strip(data, true)
	assert.Equal(Te, [][]string{{"@N", "1.0"}, {"'@H'", "2.0", "x"}}, data)

	data, err = ExtractData(strings.NewReader("a,b,,c\n#x,y\n"), ",", false)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"a", "b", "", "c"}, data[0])
	assert.Len(Te, Strip(data, false), 2)
	assert.Len(Te, Strip(data, true), 1)
}

func TestWriteData(Te *testing.T) {
	var buf bytes.Buffer
	require.NoError(Te, WriteData(&buf, [][]string{{"@N", "1.0"}}, "", []string{"Spin_ID", "Value"}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(Te, lines, 2)
	assert.True(Te, strings.HasPrefix(lines[0], "# Spin_ID    Value"))
	assert.Len(Te, lines[0], 13+9)
	assert.Equal(Te, "@N           1.0      ", lines[1])

	buf.Reset()
	require.NoError(Te, WriteData(&buf, [][]string{{"@N", "1.0"}, {"@H", "None"}}, ",", []string{"Spin_ID", "Value"}))
	assert.Equal(Te, "#Spin_ID,Value\n@N,1.0\n@H,None\n", buf.String())

	assert.Error(Te, WriteData(&buf, [][]string{{"a"}, {"b", "c"}}, "", nil))
}

func TestPathHelpers(Te *testing.T) {
	assert.Equal(Te, "noe", FileRoot("/tmp/results/noe.out.bz2"))
	assert.Equal(Te, "noe.agr", SwapExtension("dir/noe.out", "agr"))
	names := SortFilenames([]string{"s10.txt", "s2.txt", "s1.txt", "a.txt"}, false)
	assert.Equal(Te, []string{"a.txt", "s1.txt", "s2.txt", "s10.txt"}, names)
	names = SortFilenames(names, true)
	assert.Equal(Te, []string{"s10.txt", "s2.txt", "s1.txt", "a.txt"}, names)
}

func TestBinaries(Te *testing.T) {
	dir := Te.TempDir()
	exe := filepath.Join(dir, "prog")
	noexe := filepath.Join(dir, "data")
	require.NoError(Te, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))
	require.NoError(Te, os.WriteFile(noexe, []byte("x"), 0644))
	assert.NoError(Te, TestBinary(exe))
	assert.True(Te, IsKind(TestBinary(noexe), NonExecBinary))
	assert.True(Te, IsKind(TestBinary(filepath.Join(dir, "nope")), MissingBinary))
	Te.Setenv("PATH", dir)
	assert.NoError(Te, TestBinary("prog"))
	assert.True(Te, IsKind(TestBinary("gorelax-missing-program"), NotInPath))
}
