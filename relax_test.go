/*
 * relax_test.go, part of gorelax.
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
	"math"
	"strings"
	"testing"

	"github.com/rmera/gorelax/spinid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(mol string, resNum int, resName string, spinNum int, spinName string) spinid.ID {
	return spinid.ID{Mol: mol, ResNum: resNum, ResName: resName, SpinNum: spinNum, SpinName: spinName}
}

// ubiquitin returns a pipe with residues 5 (GLY, spins N and H) and 6 (ALA, spin N)
// of the molecule Ubi.
func ubiquitin(Te *testing.T) *Pipe {
	P := NewPipe("test", RelaxFit)
	for _, i := range []spinid.ID{
		id("Ubi", 5, "GLY", spinid.NoNum, "N"),
		id("Ubi", 5, "GLY", spinid.NoNum, "H"),
		id("Ubi", 6, "ALA", spinid.NoNum, "N"),
	} {
		_, err := P.CreateSpin(i)
		require.NoError(Te, err)
	}
	return P
}

func TestSpinAliases(Te *testing.T) {
	P := ubiquitin(Te)
	assert.Equal(Te, 3, P.SpinCount())
	assert.Len(Te, P.Mol, 1)
	assert.Len(Te, P.Mol[0].Res, 2)
	H, err := P.ReturnSpin("#Ubi:5@H")
	require.NoError(Te, err)
	for _, alias := range []string{"@H", ":5@H", ":GLY@H", "#Ubi@H", "#Ubi:GLY@H", "'#Ubi:5@H'"} {
		s, err := P.ReturnSpin(alias)
		require.NoError(Te, err, alias)
		assert.Same(Te, H, s, alias)
	}
	assert.Contains(Te, H.Aliases(), "@H")
	assert.NotContains(Te, H.Aliases(), ":5")
	//only one spin in residue 6
	N6, err := P.ReturnSpin(":6")
	require.NoError(Te, err)
	assert.Equal(Te, "#Ubi:6@N", N6.SpinID())
	assert.Same(Te, N6.Res().Mol(), P.Mol[0])
	//found by scanning the sequence.
	s, err := P.ReturnSpin(":6-7@N")
	require.NoError(Te, err)
	assert.Same(Te, N6, s)
	_, err = P.ReturnSpin("@N")
	assert.True(Te, IsKind(err, ConfigError), "two spins named N")
	_, err = P.ReturnSpin(":5")
	assert.True(Te, IsKind(err, ConfigError))
	_, err = P.ReturnSpin(":100")
	assert.True(Te, IsKind(err, PreconditionError))
}

func TestSpinIDRoundTrip(Te *testing.T) {
	P := ubiquitin(Te)
	for _, s := range P.Spins() {
		for _, a := range append(s.Aliases(), s.SpinID()) {
			r, err := P.ReturnSpin(a)
			require.NoError(Te, err, a)
			assert.Same(Te, s, r, a)
		}
	}
}

func TestCreateDeleteSpin(Te *testing.T) {
	P := ubiquitin(Te)
	_, err := P.CreateSpin(id("Ubi", 5, "GLY", spinid.NoNum, "N"))
	assert.True(Te, IsKind(err, ConfigError))
	assert.Contains(Te, err.Error(), "already exists")
	require.NoError(Te, P.DeleteSpin(":6"))
	assert.Equal(Te, 2, P.SpinCount())
	assert.Len(Te, P.Mol[0].Res, 1, "the empty residue should be gone")
	//@N is now unique
	_, err = P.ReturnSpin("@N")
	assert.NoError(Te, err)
	require.NoError(Te, P.DeleteSpin(""))
	assert.False(Te, P.HasSequence())
	assert.Len(Te, P.Mol, 0)
	assert.True(Te, IsKind(P.TestSequence(), PreconditionError))
}

func TestCreateSpinSameResidue(Te *testing.T) {
	P := NewPipe("res", NOE)
	_, err := P.CreateSpin(id("", 5, "", spinid.NoNum, "N"))
	require.NoError(Te, err)
	_, err = P.CreateSpin(id("", 5, "GLY", spinid.NoNum, "H"))
	require.NoError(Te, err)
	require.Len(Te, P.Mol[0].Res, 1)
	assert.Equal(Te, "GLY", P.Mol[0].Res[0].Name)
	//the N spin is now also found by residue name.
	_, err = P.ReturnSpin(":GLY@N")
	assert.NoError(Te, err)
	_, err = P.CreateSpin(id("", 5, "GLY", spinid.NoNum, "N"))
	assert.Contains(Te, err.Error(), "already exists")
	_, err = P.CreateSpin(id("", 5, "ALA", spinid.NoNum, "C"))
	assert.True(Te, IsKind(err, ConfigError))
	assert.Len(Te, P.Mol[0].Res, 1)
	assert.Equal(Te, 2, P.SpinCount())
	//GenerateSpin returns the existing spin.
	N, err := P.ReturnSpin(":5@N")
	require.NoError(Te, err)
	s, err := P.GenerateSpin(id("", 5, "GLY", spinid.NoNum, "N"), false)
	require.NoError(Te, err)
	assert.Same(Te, N, s)
	assert.False(Te, N.Select)
}

func TestSelect(Te *testing.T) {
	P := ubiquitin(Te)
	require.NoError(Te, P.Deselect("@H", false))
	sel, err := P.SpinLoop("", true)
	require.NoError(Te, err)
	assert.Len(Te, sel, 2)
	require.NoError(Te, P.Select(":6", true))
	sel, _ = P.SpinLoop("", true)
	require.Len(Te, sel, 1)
	assert.Equal(Te, "#Ubi:6@N", sel[0].SpinID())
	require.NoError(Te, P.Reverse(""))
	sel, _ = P.SpinLoop("", true)
	assert.Len(Te, sel, 2)
	require.NoError(Te, P.SelectAll())
	sel, _ = P.SpinLoop("", true)
	assert.Len(Te, sel, 3)
	sel, _ = P.SpinLoop(":5|:6@N", false)
	assert.Len(Te, sel, 3)
	sel, _ = P.SpinLoop(":5&@N", false)
	assert.Len(Te, sel, 1)
	empty := NewPipe("empty", NOE)
	assert.True(Te, IsKind(empty.Select("", false), PreconditionError))
}

func dipolePipe(Te *testing.T) *Pipe {
	P := NewPipe("dipole", RelaxFit)
	for _, name := range []string{"N10", "H10"} {
		i := spinid.Empty()
		i.SpinName = name
		_, err := P.CreateSpin(i)
		require.NoError(Te, err)
	}
	return P
}

func TestDuplicateDipolePair(Te *testing.T) {
	P := dipolePipe(Te)
	ids, err := P.DefineDipolePair("@N10", "@H10", false)
	require.NoError(Te, err)
	assert.Equal(Te, [][2]string{{"@N10", "@H10"}}, ids)
	_, err = P.DefineDipolePair("@N10", "@H10", false)
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "already exists")
	assert.Len(Te, P.Interatomic, 1)
	//also in the reverse order.
	_, err = P.CreateInteratom("@H10", "@N10")
	assert.True(Te, IsKind(err, ConfigError))
}

func TestDipolePairUnchangedOnError(Te *testing.T) {
	P := ubiquitin(Te)
	_, err := P.DefineDipolePair(":6@N", ":5@H", false)
	require.NoError(Te, err)
	require.Len(Te, P.Interatomic, 1)
	//the new :5@N-:5@H pair comes first, but :6@N-:5@H exists, so nothing is created.
	_, err = P.DefineDipolePair("@N", ":5@H", false)
	require.Error(Te, err)
	assert.True(Te, IsKind(err, ConfigError))
	assert.Len(Te, P.Interatomic, 1)
	_, err = P.RequireInteratom(":5@N", ":5@H")
	assert.True(Te, IsKind(err, PreconditionError))
	ids, err := P.DefineDipolePair(":5@N", ":5@H", false)
	require.NoError(Te, err)
	assert.Equal(Te, [][2]string{{"#Ubi:5@N", "#Ubi:5@H"}}, ids)
	assert.Len(Te, P.Interatomic, 2)
}

func TestDirectBond(Te *testing.T) {
	P := ubiquitin(Te)
	_, err := P.DefineDipolePair("@N", "@H", true)
	assert.True(Te, IsKind(err, DataError), "no element set")
	require.NoError(Te, P.SetElement("@N", "N"))
	require.NoError(Te, P.SetElement("@H", "H"))
	ids, err := P.DefineDipolePair("@N", "@H", true)
	require.NoError(Te, err)
	assert.Equal(Te, [][2]string{{"#Ubi:5@N", "#Ubi:5@H"}}, ids)
	require.NoError(Te, P.SetDist("@N", "@H", 1.02e-10))
	I, err := P.RequireInteratom(":5@H", ":5@N")
	require.NoError(Te, err)
	require.NotNil(Te, I.Dist)
	assert.Equal(Te, 1.02e-10, *I.Dist)
	_, err = P.RequireInteratom(":6@N", ":5@H")
	assert.True(Te, IsKind(err, PreconditionError))
}

func TestInteratomAfterSpinDeletion(Te *testing.T) {
	P := dipolePipe(Te)
	_, err := P.DefineDipolePair("@N10", "@H10", false)
	require.NoError(Te, err)
	inter, err := P.InteratomLoop("@N10", "", false)
	require.NoError(Te, err)
	assert.Len(Te, inter, 1)
	require.NoError(Te, P.DeleteSpin("@H10"))
	assert.Len(Te, P.Interatomic, 1, "the container is not removed")
	inter, err = P.InteratomLoop("", "", false)
	require.NoError(Te, err)
	assert.Len(Te, inter, 0)
	_, err = P.ReturnInteratom("@N10", "@H10")
	assert.Error(Te, err)
}

func TestAttachProtons(Te *testing.T) {
	P := NewPipe("protons", NOE)
	require.NoError(Te, P.GenerateSequence([]spinid.ID{
		id("", 1, "MET", spinid.NoNum, "N"),
		id("", 2, "GLN", spinid.NoNum, "N"),
	}))
	require.NoError(Te, P.AttachProtons())
	assert.Equal(Te, 4, P.SpinCount())
	H, err := P.ReturnSpin(":2@H")
	require.NoError(Te, err)
	assert.Equal(Te, "H", H.Element)
	assert.Equal(Te, "1H", H.Isotope)
	require.NoError(Te, P.AttachProtons())
	assert.Equal(Te, 4, P.SpinCount())
}

func TestContext(Te *testing.T) {
	C := NewContext()
	_, err := C.Current()
	assert.True(Te, IsKind(err, PreconditionError))
	_, err = C.Create("a", RelaxFit)
	require.NoError(Te, err)
	_, err = C.Create("a", NOE)
	assert.True(Te, IsKind(err, ConfigError))
	_, err = C.Create("b", NOE)
	require.NoError(Te, err)
	assert.Equal(Te, "b", C.CurrentName())
	assert.Equal(Te, []string{"a", "b"}, C.Names())
	require.NoError(Te, C.Switch("a"))
	P, err := C.Get("")
	require.NoError(Te, err)
	assert.Equal(Te, "a", P.Name)
	assert.True(Te, IsKind(C.Switch("c"), PreconditionError))
	require.NoError(Te, C.Delete("a"))
	assert.True(Te, IsKind(C.TestPipe(""), PreconditionError))
	assert.NoError(Te, C.TestPipe("b"))
	assert.True(Te, IsKind(C.Delete("a"), PreconditionError))
	require.NoError(Te, C.Delete(""))
	assert.Empty(Te, C.Names())
	assert.Equal(Te, NoSim, C.SimIndex())
	C.SetSimIndex(3)
	assert.Equal(Te, 3, C.SimIndex())
	C.ClearSimIndex()
	assert.Equal(Te, NoSim, C.SimIndex())
}

func TestCopyPipe(Te *testing.T) {
	C := NewContext()
	P, err := C.Create("orig", RelaxFit)
	require.NoError(Te, err)
	_, err = P.CreateSpin(id("", 1, "", spinid.NoNum, "N"))
	require.NoError(Te, err)
	s, _ := P.ReturnSpin("@N")
	s.SetValue("rx", 1.5)
	s.SetSim("rx", 1, 3, 2.5)
	P.Stats.Store(0.5, 10, 20, 0, 0, "")
	require.NoError(Te, C.CopyPipe("", "copy"))
	assert.Equal(Te, "orig", C.CurrentName())
	cp, err := C.Get("copy")
	require.NoError(Te, err)
	cs, err := cp.ReturnSpin("@N")
	require.NoError(Te, err)
	assert.NotSame(Te, s, cs)
	v, ok := cs.Value("rx")
	assert.True(Te, ok)
	assert.Equal(Te, 1.5, v)
	assert.True(Te, math.IsNaN(cs.Sim("rx", 0)))
	assert.Equal(Te, 2.5, cs.Sim("rx", 1))
	require.NotNil(Te, cp.Stats.Chi2)
	assert.Equal(Te, 0.5, *cp.Stats.Chi2)
	require.NotNil(Te, cp.Stats.GCount, "a zero statistic is still set")
	assert.Equal(Te, 0, *cp.Stats.GCount)
	assert.Nil(Te, cp.Stats.Warning)
	cs.SetValue("rx", 3)
	v, _ = s.Value("rx")
	assert.Equal(Te, 1.5, v)
	assert.True(Te, IsKind(C.CopyPipe("orig", "copy"), ConfigError))
}

func TestCopySequence(Te *testing.T) {
	C := NewContext()
	src, _ := C.Create("src", RelaxFit)
	require.NoError(Te, src.GenerateSequence([]spinid.ID{id("", 1, "", spinid.NoNum, "N"), id("", 2, "", spinid.NoNum, "N")}))
	require.NoError(Te, src.Deselect(":2", false))
	s1, _ := src.ReturnSpin(":1")
	s1.SetValue("rx", 2)
	dst, _ := C.Create("dst", RelaxFit)
	require.NoError(Te, C.CopySequence("src", "", true, true))
	assert.NoError(Te, CompareSequence(src, dst))
	d1, err := dst.ReturnSpin(":1")
	require.NoError(Te, err)
	_, ok := d1.Value("rx")
	assert.False(Te, ok)
	d2, _ := dst.ReturnSpin(":2")
	assert.False(Te, d2.Select)
	assert.True(Te, IsKind(C.CopySequence("src", "dst", false, true), PreconditionError))
	//with empty false the spin data are copied too, and without preserveSelect all spins are selected.
	full, _ := C.Create("full", RelaxFit)
	require.NoError(Te, C.CopySequence("src", "", false, false))
	f1, _ := full.ReturnSpin(":1")
	rx, ok := f1.Value("rx")
	require.True(Te, ok)
	assert.Equal(Te, 2.0, rx)
	f2, _ := full.ReturnSpin(":2")
	assert.True(Te, f2.Select)
	other, _ := C.Create("other", RelaxFit)
	require.NoError(Te, other.GenerateSequence([]spinid.ID{id("", 1, "", spinid.NoNum, "N")}))
	assert.True(Te, IsKind(CompareSequence(src, other), DataError))
}

func TestSequenceFile(Te *testing.T) {
	P := ubiquitin(Te)
	var buf bytes.Buffer
	require.NoError(Te, P.WriteSequence(&buf, "", ""))
	assert.True(Te, strings.HasPrefix(buf.String(), "# Mol_name"))
	Q := NewPipe("read", RelaxFit)
	warn, err := Q.ReadSequence(strings.NewReader(buf.String()), "", "", nil, "")
	require.NoError(Te, err)
	assert.Empty(Te, warn)
	assert.NoError(Te, CompareSequence(P, Q))
	_, err = Q.ReadSequence(strings.NewReader(buf.String()), "", "", nil, "")
	assert.True(Te, IsKind(err, PreconditionError))
}

func TestConsistentInteratomicData(Te *testing.T) {
	a, b := dipolePipe(Te), dipolePipe(Te)
	_, err := a.DefineDipolePair("@N10", "@H10", false)
	require.NoError(Te, err)
	assert.True(Te, IsKind(ConsistentInteratomicData(a, b), DataError))
	_, err = b.DefineDipolePair("@N10", "@H10", false)
	require.NoError(Te, err)
	assert.NoError(Te, ConsistentInteratomicData(a, b))
}

func TestPipeTypes(Te *testing.T) {
	t, err := ParseType("relax_fit")
	require.NoError(Te, err)
	assert.Equal(Te, RelaxFit, t)
	assert.Equal(Te, "N-state", NState.String())
	_, err = ParseType("bogus")
	assert.True(Te, IsKind(err, ConfigError))
	assert.Len(Te, TypeNames(), 9)
	_, err = AnalysisFor(Hybrid)
	assert.True(Te, IsKind(err, ConfigError))
}

func TestGrid(Te *testing.T) {
	T := NewParamTable(
		Param{Name: "rx", Default: 8, Scaling: 1, GridLower: 0, GridUpper: 20, Spin: true},
		Param{Name: "i0", Default: math.NaN(), Scaling: 1000, GridLower: 0, GridUpper: 2000, Spin: true},
	)
	_, _, _, err := GridSetup(T, nil, nil, nil, []int{3}, true)
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "zero parameters")
	_, _, _, err = GridSetup(T, []string{"rx", "i0"}, []float64{0}, nil, []int{3}, true)
	assert.True(Te, IsKind(err, ConfigError))
	lo, up, inc, err := GridSetup(T, []string{"rx", "i0"}, nil, nil, []int{3}, true)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{0, 0}, lo)
	assert.Equal(Te, []float64{20, 2}, up)
	assert.Equal(Te, []int{3, 3}, inc)
	points := GridLattice(lo, up, []int{3, 2})
	require.Len(Te, points, 6)
	assert.Equal(Te, []float64{0, 0}, points[0])
	assert.Equal(Te, []float64{0, 2}, points[1])
	assert.Equal(Te, []float64{20, 2}, points[5])
	D := ScalingMatrix(T, []string{"rx", "i0"}, true)
	assert.Equal(Te, 1000.0, D.At(1, 1))
	D = ScalingMatrix(T, []string{"rx", "i0"}, false)
	assert.Equal(Te, 1.0, D.At(1, 1))
	v, ok := T.DefaultValue("rx")
	assert.True(Te, ok)
	assert.Equal(Te, 8.0, v)
	_, ok = T.DefaultValue("i0")
	assert.False(Te, ok)
}
