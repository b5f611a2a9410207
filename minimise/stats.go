/*
 * stats.go, part of gorelax.
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

package minimise

import (
	"math"
	"regexp"

	relax "github.com/rmera/gorelax"
)

// The names of the minimisation statistics.
const (
	Chi2    = "chi2"
	Iter    = "iter"
	FCount  = "f_count"
	GCount  = "g_count"
	HCount  = "h_count"
	Warning = "warning"
)

var statPatterns = []struct {
	name string
	re   []*regexp.Regexp
}{
	{Chi2, []*regexp.Regexp{regexp.MustCompile(`^[Cc]hi2$`), regexp.MustCompile(`^[Cc]hi[-_ ][Ss]quare`)}},
	{Iter, []*regexp.Regexp{regexp.MustCompile(`^[Ii]ter`)}},
	{FCount, []*regexp.Regexp{regexp.MustCompile(`^[Ff].*[ -_][Cc]ount`)}},
	{GCount, []*regexp.Regexp{regexp.MustCompile(`^[Gg].*[ -_][Cc]ount`)}},
	{HCount, []*regexp.Regexp{regexp.MustCompile(`^[Hh].*[ -_][Cc]ount`)}},
}

// ReturnDataName returns the statistic that name refers to, or "".
func ReturnDataName(name string) string {
	for _, p := range statPatterns {
		for _, re := range p.re {
			if re.MatchString(name) {
				return p.name
			}
		}
	}
	return ""
}

// IsMinStat returns true if name refers to a minimisation statistic.
func IsMinStat(name string) bool {
	return ReturnDataName(name) != ""
}

// ResetMinStats sets all the minimisation statistics of the pipe to unset,
// the global ones and those of every spin. The statistics of the Monte Carlo
// simulations are kept.
func ResetMinStats(P *relax.Pipe) {
	P.Stats.Reset()
	for _, s := range P.Spins() {
		s.Stats.Reset()
	}
}

// stats returns the statistics of the spin S (global ones if S is nil), for
// the simulation sim or, with relax.NoSim, for the fit to the real data.
func stats(P *relax.Pipe, S *relax.Spin, sim int) *relax.MinStats {
	st, sims := &P.Stats, P.SimStats
	if S != nil {
		st, sims = &S.Stats, S.SimStats
	}
	if sim == relax.NoSim {
		return st
	}
	if sim < 0 || sim >= len(sims) {
		return nil
	}
	return &sims[sim]
}

// ReturnValue returns the value of the statistic for the spin S (global if S is
// nil). The value is NaN if the statistic is not set.
func ReturnValue(P *relax.Pipe, S *relax.Spin, stat string, sim int) (float64, error) {
	name := ReturnDataName(stat)
	if name == "" {
		return math.NaN(), relax.NewError(relax.ConfigError, "ReturnValue", "%q is not a minimisation statistic", stat)
	}
	st := stats(P, S, sim)
	if st == nil {
		return math.NaN(), nil
	}
	var i *int
	switch name {
	case Chi2:
		if st.Chi2 == nil {
			return math.NaN(), nil
		}
		return *st.Chi2, nil
	case Iter:
		i = st.Iter
	case FCount:
		i = st.FCount
	case GCount:
		i = st.GCount
	case HCount:
		i = st.HCount
	}
	if i == nil {
		return math.NaN(), nil
	}
	return float64(*i), nil
}

// Set sets a global statistic or, if spinID is not empty, a statistic of that spin.
func Set(P *relax.Pipe, stat string, val float64, spinID string) error {
	name := ReturnDataName(stat)
	if name == "" {
		return relax.NewError(relax.ConfigError, "Set", "%q is not a minimisation statistic", stat)
	}
	st := &P.Stats
	if spinID != "" {
		S, err := P.ReturnSpin(spinID)
		if err != nil {
			return relax.DecorateError(err, "Set")
		}
		st = &S.Stats
	}
	n := int(val)
	switch name {
	case Chi2:
		st.Chi2 = &val
	case Iter:
		st.Iter = &n
	case FCount:
		st.FCount = &n
	case GCount:
		st.GCount = &n
	case HCount:
		st.HCount = &n
	}
	return nil
}

// Store saves the results of a minimisation for the spin S (global if nil), for
// the simulation sim or, with relax.NoSim, the real data. Simulation statistics
// are kept in slices of length P.SimNumber.
func Store(P *relax.Pipe, S *relax.Spin, sim int, chi2 float64, iter, fcount, gcount, hcount int, warning string) {
	if sim != relax.NoSim {
		sims := &P.SimStats
		if S != nil {
			sims = &S.SimStats
		}
		if len(*sims) != P.SimNumber {
			n := make([]relax.MinStats, P.SimNumber)
			copy(n, *sims)
			*sims = n
		}
	}
	st := stats(P, S, sim)
	if st == nil {
		return
	}
	st.Store(chi2, iter, fcount, gcount, hcount, warning)
}
