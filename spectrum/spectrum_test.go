/*
 * spectrum_test.go, part of gorelax.
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

package spectrum

import (
	"strings"
	"testing"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/seqio"
	"github.com/rmera/gorelax/spinid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peakList = `# res  name  height
3  N  1.5e6
4  N  2.0e6
5  N  0.0
9  N  7.0e5
`

func newContext(Te *testing.T) (*relax.Context, *relax.Pipe) {
	C := relax.NewContext()
	P, err := C.Create("rx", relax.RelaxFit)
	require.NoError(Te, err)
	for i := 3; i <= 6; i++ {
		_, err := P.CreateSpin(spinid.ID{ResNum: i, SpinNum: spinid.NoNum, SpinName: "N"})
		require.NoError(Te, err)
	}
	require.NoError(Te, P.Deselect(":6", false))
	return C, P
}

func cols() *seqio.Columns {
	c := seqio.DefaultColumns()
	c.ResNum, c.SpinName, c.Data = 1, 2, 3
	return c
}

func TestReadIntensities(Te *testing.T) {
	C, P := newContext(Te)
	n := 2
	warnings, err := ReadIntensities(C, ReadOptions{File: strings.NewReader(peakList), Cols: cols(), SpectrumID: "T1", NCProc: &n})
	require.NoError(Te, err)
	//one zero intensity, one missing spin.
	assert.Len(Te, warnings, 2)
	assert.Equal(Te, []string{"T1"}, P.SpectrumIDs)
	s, err := P.ReturnSpin(":3")
	require.NoError(Te, err)
	assert.Equal(Te, 1.5e6/4, s.Intensity["T1"])
	_, err = ReadIntensities(C, ReadOptions{File: strings.NewReader(peakList), Cols: cols(), SpectrumID: "T1"})
	assert.True(Te, relax.IsKind(err, relax.ConfigError))
	_, err = ReadIntensities(C, ReadOptions{File: strings.NewReader(peakList), Cols: seqio.SequenceColumns(), SpectrumID: "T2"})
	assert.True(Te, relax.IsKind(err, relax.ConfigError))
	//only the deselected spin matches.
	_, err = ReadIntensities(C, ReadOptions{File: strings.NewReader("6 N 1.0\n"), Cols: cols(), SpectrumID: "T2"})
	assert.True(Te, relax.IsKind(err, relax.DataError))
	ids, err := IDs(C)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"T1"}, ids)
}

func TestSetErrors(Te *testing.T) {
	C, P := newContext(Te)
	err := SetErrors(C, "T1", 100, "")
	assert.True(Te, relax.IsKind(err, relax.PreconditionError))
	n := 1
	_, err = ReadIntensities(C, ReadOptions{File: strings.NewReader(peakList), Cols: cols(), SpectrumID: "T1", NCProc: &n})
	require.NoError(Te, err)
	require.NoError(Te, SetErrors(C, "T1", 100, ":3-5"))
	for _, s := range P.Spins() {
		e, ok := s.IntensityErr["T1"]
		switch s.Res().Num {
		case 6:
			assert.False(Te, ok)
		default:
			assert.Equal(Te, 50.0, e)
		}
	}
	assert.True(Te, relax.IsKind(SetErrors(C, "T1", -1, ""), relax.ConfigError))
}

func TestDelete(Te *testing.T) {
	C, P := newContext(Te)
	_, err := ReadIntensities(C, ReadOptions{File: strings.NewReader(peakList), Cols: cols(), SpectrumID: "T1"})
	require.NoError(Te, err)
	P.RelaxTimes = map[string]float64{"T1": 0.1}
	require.NoError(Te, Delete(C, "T1"))
	assert.Empty(Te, P.SpectrumIDs)
	assert.Empty(Te, P.RelaxTimes)
	for _, s := range P.Spins() {
		assert.Empty(Te, s.Intensity)
	}
	assert.True(Te, relax.IsKind(Delete(C, "T1"), relax.PreconditionError))
}
