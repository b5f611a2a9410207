/*
 * spectrum.go, part of gorelax.
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

//Package spectrum loads peak intensities, and their errors, into the spins
//of the current data pipe. Each spectrum is identified by a string ID.
package spectrum

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/colio"
	"github.com/rmera/gorelax/seqio"
)

// ReadOptions are the arguments for ReadIntensities. Cols must have the data
// column set, which holds the peak intensities. If NCProc is not nil, the
// intensities are divided by 2^NCProc.
type ReadOptions struct {
	File       interface{} //a file name or an open reader.
	Dir        string
	Sep        string
	Cols       *seqio.Columns
	SpectrumID string
	SpinID     string //only the spins matching this selection are read.
	NCProc     *int
	Verbose    bool
}

// ReadIntensities reads the peak intensities of one spectrum into the spins
// of the current pipe. Rows for missing spins are skipped with a warning,
// rows for deselected spins are silently skipped. It is an error for no
// intensity to be loaded, in which case the spectrum is not added. The
// warnings are returned.
func ReadIntensities(C *relax.Context, O ReadOptions) ([]string, error) {
	P, err := C.Current()
	if err != nil {
		return nil, relax.DecorateError(err, "ReadIntensities")
	}
	if err := P.TestSequence(); err != nil {
		return nil, relax.DecorateError(err, "ReadIntensities")
	}
	if O.SpectrumID == "" {
		return nil, relax.NewError(relax.ConfigError, "ReadIntensities", NoID)
	}
	if Exists(P, O.SpectrumID) {
		return nil, relax.NewError(relax.ConfigError, "ReadIntensities", IDExists, O.SpectrumID)
	}
	if O.Cols == nil || O.Cols.Data == seqio.Unset {
		return nil, relax.NewError(relax.ConfigError, "ReadIntensities", NoIntensityColumn)
	}
	rows, warnings, err := seqio.ReadFile(O.File, O.Dir, O.Sep, O.Cols, O.SpinID)
	if err != nil {
		return warnings, relax.DecorateError(err, "ReadIntensities")
	}
	scale := 1.0
	if O.NCProc != nil {
		scale = 1 / math.Pow(2, float64(*O.NCProc))
	}
	type peak struct {
		s *relax.Spin
		v float64
	}
	var peaks []peak
	for _, r := range rows {
		if !r.HasValue {
			continue
		}
		if r.Value == 0 {
			warnings = append(warnings, warn("A peak intensity of zero has been encountered for the spin %q", r.SpinID))
		}
		s, err := P.ReturnSpin(r.SpinID)
		if err != nil {
			warnings = append(warnings, warn("The spin %q does not exist, skipping", r.SpinID))
			continue
		}
		if !s.Select {
			continue
		}
		peaks = append(peaks, peak{s, r.Value * scale})
	}
	if len(peaks) == 0 {
		return warnings, relax.NewError(relax.DataError, "ReadIntensities", NoPeaks, O.SpectrumID)
	}
	for _, p := range peaks {
		if p.s.Intensity == nil {
			p.s.Intensity = make(map[string]float64)
		}
		p.s.Intensity[O.SpectrumID] = p.v
	}
	P.SpectrumIDs = append(P.SpectrumIDs, O.SpectrumID)
	if O.NCProc != nil {
		if P.NCProc == nil {
			P.NCProc = make(map[string]int)
		}
		P.NCProc[O.SpectrumID] = *O.NCProc
	}
	if O.Verbose {
		data := make([][]string, 0, len(peaks))
		for _, p := range peaks {
			data = append(data, []string{p.s.SpinID(), strconv.FormatFloat(p.v, 'g', -1, 64)})
		}
		fmt.Println("The following intensities have been loaded:")
		if err := colio.WriteData(os.Stdout, data, "", []string{"Spin_ID", "Intensity"}); err != nil {
			return warnings, relax.DecorateError(err, "ReadIntensities")
		}
	}
	return warnings, nil
}

// Exists returns true if the pipe has a spectrum with the given ID.
func Exists(P *relax.Pipe, id string) bool {
	for _, v := range P.SpectrumIDs {
		if v == id {
			return true
		}
	}
	return false
}

// IDs returns the spectrum IDs of the current pipe, in loading order.
func IDs(C *relax.Context) ([]string, error) {
	P, err := C.Current()
	if err != nil {
		return nil, relax.DecorateError(err, "IDs")
	}
	return append([]string(nil), P.SpectrumIDs...), nil
}

// SetErrors sets the error of the peak intensities of the spectrum id, given as
// the RMSD of the base plane noise, for the selected spins matching spinID.
// The NCProc scaling of the spectrum, if any, is applied.
func SetErrors(C *relax.Context, id string, rmsd float64, spinID string) error {
	P, err := C.Current()
	if err != nil {
		return relax.DecorateError(err, "SetErrors")
	}
	if err := P.TestSequence(); err != nil {
		return relax.DecorateError(err, "SetErrors")
	}
	if !Exists(P, id) {
		return relax.NewError(relax.PreconditionError, "SetErrors", NoSpectrum, id)
	}
	if rmsd < 0 {
		return relax.NewError(relax.ConfigError, "SetErrors", "The peak intensity error cannot be negative (%v)", rmsd)
	}
	scale := 1.0
	if n, ok := P.NCProc[id]; ok {
		scale = 1 / math.Pow(2, float64(n))
	}
	spins, err := P.SpinLoop(spinID, true)
	if err != nil {
		return relax.DecorateError(err, "SetErrors")
	}
	for _, s := range spins {
		if s.IntensityErr == nil {
			s.IntensityErr = make(map[string]float64)
		}
		s.IntensityErr[id] = rmsd * scale
	}
	return nil
}

// Delete removes the spectrum id, and all the data associated with it,
// from the current pipe.
func Delete(C *relax.Context, id string) error {
	P, err := C.Current()
	if err != nil {
		return relax.DecorateError(err, "Delete")
	}
	if !Exists(P, id) {
		return relax.NewError(relax.PreconditionError, "Delete", NoSpectrum, id)
	}
	ids := P.SpectrumIDs[:0]
	for _, v := range P.SpectrumIDs {
		if v != id {
			ids = append(ids, v)
		}
	}
	P.SpectrumIDs = ids
	delete(P.RelaxTimes, id)
	delete(P.SpectrumTypes, id)
	delete(P.NCProc, id)
	for _, s := range P.Spins() {
		delete(s.Intensity, id)
		delete(s.IntensityErr, id)
		for _, sim := range s.IntensitySim {
			delete(sim, id)
		}
	}
	return nil
}

func warn(format string, args ...interface{}) string {
	w := fmt.Sprintf(format, args...)
	log.Printf("Warning: %s", w)
	return w
}

const (
	NoID              = "The spectrum ID must be given"
	IDExists          = "The peak intensities of the spectrum %q have already been loaded"
	NoSpectrum        = "The peak intensities of the spectrum %q do not exist"
	NoIntensityColumn = "The peak intensity column must be given"
	NoPeaks           = "No peak intensities could be loaded for the spectrum %q"
)
