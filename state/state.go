/*
 * state.go, part of gorelax.
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

//Package state saves all the data pipes of a context to a zstd-compressed
//gob stream, and loads them back. The stream starts with a Header.
package state

import (
	"encoding/gob"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	relax "github.com/rmera/gorelax"
	"github.com/rmera/gorelax/colio"
)

// Magic identifies gorelax state streams.
const Magic = "gorelax state"

// Version is the current format version.
const Version = 1

// PipeInfo names one of the pipes in a state stream.
type PipeInfo struct {
	Name string
	Type string
}

// Header precedes the pipes in a state stream.
type Header struct {
	Magic   string
	Version int
	ID      uuid.UUID
	Created time.Time
	Current string
	Pipes   []PipeInfo
}

// encode writes the uncompressed stream.
func encode(C *relax.Context, w io.Writer) (*Header, error) {
	H := &Header{Magic: Magic, Version: Version, ID: uuid.New(), Created: time.Now().UTC(), Current: C.CurrentName()}
	var pipes []*relax.Pipe
	for _, name := range C.Names() {
		P, err := C.Get(name)
		if err != nil {
			return nil, relax.DecorateError(err, "encode")
		}
		pipes = append(pipes, P)
		H.Pipes = append(H.Pipes, PipeInfo{P.Name, P.Type.String()})
	}
	enc := gob.NewEncoder(w)
	if err := enc.Encode(H); err != nil {
		return nil, relax.NewError(relax.FileError, "encode", EncodeFailure, err.Error())
	}
	for _, P := range pipes {
		if err := enc.Encode(P); err != nil {
			return nil, relax.NewError(relax.FileError, "encode", EncodeFailure, err.Error())
		}
	}
	return H, nil
}

// decode reads an uncompressed stream.
func decode(r io.Reader) (*relax.Context, *Header, error) {
	dec := gob.NewDecoder(r)
	H := new(Header)
	if err := dec.Decode(H); err != nil || H.Magic != Magic {
		return nil, nil, relax.NewError(relax.DataError, "decode", NotState)
	}
	if H.Version > Version {
		return nil, nil, relax.NewError(relax.DataError, "decode", "The state format version %d is newer than the supported one, %d", H.Version, Version)
	}
	C := relax.NewContext()
	for _, info := range H.Pipes {
		P := new(relax.Pipe)
		if err := dec.Decode(P); err != nil {
			return nil, nil, relax.NewError(relax.DataError, "decode", "Unable to read the data pipe %q: %s", info.Name, err.Error())
		}
		if P.Name != info.Name {
			return nil, nil, relax.NewError(relax.DataError, "decode", "Expected the data pipe %q, found %q", info.Name, P.Name)
		}
		if err := C.Add(P); err != nil {
			return nil, nil, relax.DecorateError(err, "decode")
		}
	}
	if H.Current != "" {
		if err := C.Switch(H.Current); err != nil {
			return nil, nil, relax.DecorateError(err, "decode")
		}
	}
	return C, H, nil
}

// Save writes all the pipes of the context to w, zstd-compressed. It returns
// the header written.
func Save(C *relax.Context, w io.Writer) (*Header, error) {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return nil, relax.NewError(relax.FileError, "Save", EncodeFailure, err.Error())
	}
	H, err := encode(C, zw)
	if err != nil {
		zw.Close()
		return nil, relax.DecorateError(err, "Save")
	}
	if err := zw.Close(); err != nil {
		return nil, relax.NewError(relax.FileError, "Save", EncodeFailure, err.Error())
	}
	return H, nil
}

// Load reads a context saved with Save. The current pipe is the one that was
// current when saving.
func Load(r io.Reader) (*relax.Context, *Header, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, nil, relax.NewError(relax.DataError, "Load", NotState)
	}
	defer zr.Close()
	C, H, err := decode(zr)
	return C, H, relax.DecorateError(err, "Load")
}

// SaveFile saves the context to the file name, in dir. The .zst extension is
// added if missing. An existing file is only overwritten if force is true.
// It returns the path written.
func SaveFile(C *relax.Context, name, dir string, force bool) (string, error) {
	w, path, err := colio.OpenWrite(name, dir, colio.Zstd, force)
	if err != nil {
		return path, relax.DecorateError(err, "SaveFile")
	}
	if _, err := encode(C, w); err != nil {
		w.Close()
		return path, relax.DecorateError(err, "SaveFile")
	}
	if err := w.Close(); err != nil {
		return path, relax.NewError(relax.FileError, "SaveFile", EncodeFailure, err.Error())
	}
	return path, nil
}

// LoadFile loads a context from the file name, or name.zst, in dir.
func LoadFile(name, dir string) (*relax.Context, *Header, error) {
	r, err := colio.OpenRead(name, dir)
	if err != nil {
		return nil, nil, relax.DecorateError(err, "LoadFile")
	}
	defer r.Close()
	C, H, err := decode(r)
	return C, H, relax.DecorateError(err, "LoadFile")
}

const (
	NotState      = "The data is not a gorelax state"
	EncodeFailure = "Unable to write the state: %s"
)
