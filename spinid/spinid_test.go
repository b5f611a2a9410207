/*
 * spinid_test.go, part of gorelax.
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

package spinid

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(Te *testing.T) {
	id := Empty()
	assert.Equal(Te, "", Generate(id))
	id.Mol = "Ubi"
	id.ResNum = 10
	id.ResName = "GLY"
	id.SpinName = "N"
	id.SpinNum = 150
	assert.Equal(Te, "#Ubi:10@N", Generate(id))
	id.ResNum = NoNum
	id.SpinName = ""
	assert.Equal(Te, "#Ubi:GLY@150", Generate(id))
}

func TestFromColumns(Te *testing.T) {
	row := []string{"Ubi", "10", "GLY", "None", "'N'", "1.2"}
	s, err := FromColumns(row, 1, 2, 3, 4, 5)
	require.NoError(Te, err)
	assert.Equal(Te, "#Ubi:10@N", s)
	_, err = FromColumns(row, 0, 3, 0, 0, 0)
	assert.Error(Te, err)
	s, err = FromColumns(row, -1, 2, -1, -1, -1)
	require.NoError(Te, err)
	assert.Equal(Te, ":10", s)
}

func TestTokenise(Te *testing.T) {
	mol, res, spin, err := Tokenise("#Ubi:1-10@N")
	require.NoError(Te, err)
	assert.Equal(Te, "Ubi", mol)
	assert.Equal(Te, "1-10", res)
	assert.Equal(Te, "N", spin)

	_, res, spin, err = Tokenise(":5&:GLY@N&@H")
	require.NoError(Te, err)
	assert.Equal(Te, "5&GLY", res)
	assert.Equal(Te, "N&H", spin)

	for _, bad := range []string{"#A|#B", "@N:5", "#A#B", ":1&:2&:3", "#A&#B", "Ubi"} {
		_, _, _, err = Tokenise(bad)
		assert.Error(Te, err, bad)
	}
}

func TestParseToken(Te *testing.T) {
	e := ParseToken("N,1-3, CA ,-2,7")
	assert.Equal(Te, []int{-2, 1, 2, 3, 7}, e.Nums)
	assert.Equal(Te, []string{"CA", "N"}, e.Names)
	e = ParseToken("5-2")
	assert.Equal(Te, []string{"5-2"}, e.Names)
	assert.True(Te, ParseToken("").Empty())
}

func TestToData(Te *testing.T) {
	id, err := ToData("#Ubi:GLY@5")
	require.NoError(Te, err)
	assert.Equal(Te, "Ubi", id.Mol)
	assert.Equal(Te, NoNum, id.ResNum)
	assert.Equal(Te, "GLY", id.ResName)
	assert.Equal(Te, 5, id.SpinNum)
	_, err = ToData(":1,2@N")
	assert.Error(Te, err)
}

func TestStripQuotes(Te *testing.T) {
	assert.Equal(Te, "#A:5@N", StripQuotes(`'#A:5@N'`))
	assert.Equal(Te, "#A:5@N", StripQuotes(`"#A:5@N"`))
	assert.Equal(Te, "'N", StripQuotes(`'N`))
}

func TestSelection(Te *testing.T) {
	S, err := NewSelection("#Ubi:1-5@N*")
	require.NoError(Te, err)
	assert.True(Te, S.ContainsSpin("Ubi", 3, "ALA", NoNum, "NE1"))
	assert.False(Te, S.ContainsSpin("Ubi", 6, "ALA", NoNum, "N"))
	assert.False(Te, S.ContainsSpin("Ubi", 3, "ALA", NoNum, "H"))
	assert.False(Te, S.ContainsMol("Other"))

	S, err = NewSelection(":2 | :GLY")
	require.NoError(Te, err)
	assert.True(Te, S.ContainsRes("", 2, "ALA"))
	assert.True(Te, S.ContainsRes("", 7, "GLY"))
	assert.False(Te, S.ContainsRes("", 7, "ALA"))

	S, err = NewSelection(":2-10 & @H")
	require.NoError(Te, err)
	assert.True(Te, S.ContainsSpin("", 4, "", NoNum, "H"))
	assert.False(Te, S.ContainsSpin("", 4, "", NoNum, "N"))

	S, err = NewSelection("")
	require.NoError(Te, err)
	assert.True(Te, S.Contains(Empty()))
}

func TestSpinIDRoundTrip(Te *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("generated IDs parse back to the same fields", prop.ForAll(
		func(mol string, res int, spin string) bool {
			id := Empty()
			id.Mol = mol
			id.ResNum = res
			id.SpinName = spin
			back, err := ToData(Generate(id))
			if err != nil {
				return false
			}
			return back == id
		},
		gen.Identifier(),
		gen.IntRange(-20, 2000),
		gen.Identifier(),
	))

	properties.Property("generated IDs select the spin they were generated from", prop.ForAll(
		func(res int, spin int) bool {
			id := Empty()
			id.ResNum = res
			id.SpinNum = spin
			S, err := NewSelection(Generate(id))
			return err == nil && S.Contains(id)
		},
		gen.IntRange(1, 500),
		gen.IntRange(1, 5000),
	))

	properties.TestingRun(Te)
}
