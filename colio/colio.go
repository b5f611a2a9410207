/*
 * colio.go, part of gorelax.
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
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression is the compression format of a file.
type Compression int

const (
	None Compression = iota
	Bzip2
	Gzip
	Zstd
)

func (C Compression) String() string {
	switch C {
	case Bzip2:
		return "bz2"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	}
	return "none"
}

// Ext returns the file extension associated with the compression, including the dot.
func (C Compression) Ext() string {
	switch C {
	case Bzip2:
		return ".bz2"
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	}
	return ""
}

// FromExt returns the compression implied by the extension of name.
func FromExt(name string) Compression {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bz2":
		return Bzip2
	case ".gz":
		return Gzip
	case ".zst":
		return Zstd
	}
	return None
}

var magics = []struct {
	c     Compression
	magic []byte
}{
	{Bzip2, []byte("BZh")},
	{Gzip, []byte{0x1f, 0x8b}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
}

// sniff guesses the compression of a file from its first bytes.
func sniff(name string) Compression {
	f, err := os.Open(name)
	if err != nil {
		return None
	}
	defer f.Close()
	head := make([]byte, 4)
	n, _ := io.ReadFull(f, head)
	head = head[:n]
	for _, m := range magics {
		if bytes.HasPrefix(head, m.magic) {
			return m.c
		}
	}
	return None
}

// DetermineCompression looks for the file name, then for name.bz2,
// name.gz and name.zst, in that order. It returns the compression
// and the path of the first file found. The compression is taken from
// the extension or, if the file has no known extension, from its content.
func DetermineCompression(name string) (Compression, string, error) {
	for _, ext := range []string{"", ".bz2", ".gz", ".zst"} {
		path := name + ext
		st, err := os.Stat(path)
		if err != nil || st.IsDir() {
			continue
		}
		c := FromExt(path)
		if c == None {
			c = sniff(path)
		}
		return c, path, nil
	}
	return None, name, Error{FileNotFound, name, FileMissing, []string{"DetermineCompression"}, true}
}

// readCloser closes both the decompressor and the file below it.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (R *readCloser) Close() error {
	var err error
	for _, c := range R.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// OpenRead opens a file for reading, decompressing it if needed.
// file can be a name, in which case DetermineCompression is used
// to find it, or an already open reader, which is returned as is
// (wrapped with a no-op Close if it is not an io.ReadCloser).
func OpenRead(file interface{}, dir ...string) (io.ReadCloser, error) {
	switch f := file.(type) {
	case io.ReadCloser:
		return f, nil
	case io.Reader:
		return io.NopCloser(f), nil
	case string:
		d := ""
		if len(dir) > 0 {
			d = dir[0]
		}
		path, err := GetFilePath(f, d)
		if err != nil {
			return nil, errDecorate(err, "OpenRead")
		}
		c, path, err := DetermineCompression(path)
		if err != nil {
			return nil, errDecorate(err, "OpenRead")
		}
		return openCompressed(path, c)
	}
	return nil, Error{IOFailure, "", fmt.Sprintf("Can't open a %T for reading", file), []string{"OpenRead"}, true}
}

func openCompressed(path string, c Compression) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, Error{IOFailure, path, err.Error(), []string{"openCompressed"}, true}
	}
	R := &readCloser{closers: []func() error{fh.Close}}
	switch c {
	case Bzip2:
		b, err := bzip2.NewReader(fh, nil)
		if err != nil {
			fh.Close()
			return nil, Error{IOFailure, path, err.Error(), []string{"openCompressed"}, true}
		}
		R.Reader = b
		R.closers = append([]func() error{b.Close}, R.closers...)
	case Gzip:
		g, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, Error{IOFailure, path, err.Error(), []string{"openCompressed"}, true}
		}
		R.Reader = g
		R.closers = append([]func() error{g.Close}, R.closers...)
	case Zstd:
		z, err := zstd.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, Error{IOFailure, path, err.Error(), []string{"openCompressed"}, true}
		}
		R.Reader = z
		//the zstd decoder's Close returns nothing.
		R.closers = append([]func() error{func() error { z.Close(); return nil }}, R.closers...)
	default:
		R.Reader = bufio.NewReader(fh)
	}
	return R, nil
}

// writeCloser flushes and closes the compressor and the file below it.
type writeCloser struct {
	io.Writer
	closers []func() error
}

func (W *writeCloser) Close() error {
	var err error
	for _, c := range W.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// IsDevNull is true for the names that are sent to a null sink.
func IsDevNull(name string) bool {
	return strings.Contains(name, "devnull") || name == os.DevNull
}

// OpenWrite opens a file for writing. Already open writers are returned as they
// are. Names containing "devnull" give a writer that discards everything. Parent
// directories are created as needed. If comp is not None, the corresponding
// extension is added to the name, unless present. If comp is None, the compression
// is taken from the file extension. An existing file is only overwritten if force
// is true. The final path is returned along with the writer.
func OpenWrite(file interface{}, dir string, comp Compression, force bool) (io.WriteCloser, string, error) {
	var name string
	switch f := file.(type) {
	case io.WriteCloser:
		return f, "", nil
	case io.Writer:
		return nopWriteCloser{f}, "", nil
	case string:
		name = f
	default:
		return nil, "", Error{IOFailure, "", fmt.Sprintf("Can't open a %T for writing", file), []string{"OpenWrite"}, true}
	}
	if IsDevNull(name) {
		return nopWriteCloser{io.Discard}, os.DevNull, nil
	}
	path, err := GetFilePath(name, dir)
	if err != nil {
		return nil, "", errDecorate(err, "OpenWrite")
	}
	if comp == None {
		comp = FromExt(path)
	} else if FromExt(path) != comp {
		path += comp.Ext()
	}
	if err := MkdirNoFail(filepath.Dir(path)); err != nil {
		return nil, path, errDecorate(err, "OpenWrite")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return nil, path, Error{Overwrite, path, FileExists, []string{"OpenWrite"}, true}
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, path, Error{IOFailure, path, err.Error(), []string{"OpenWrite"}, true}
	}
	W := &writeCloser{closers: []func() error{fh.Close}}
	switch comp {
	case Bzip2:
		b, err := bzip2.NewWriter(fh, &bzip2.WriterConfig{Level: bzip2.BestCompression})
		if err != nil {
			fh.Close()
			return nil, path, Error{IOFailure, path, err.Error(), []string{"OpenWrite"}, true}
		}
		W.Writer = b
		W.closers = append([]func() error{b.Close}, W.closers...)
	case Gzip:
		g, err := gzip.NewWriterLevel(fh, gzip.BestCompression)
		if err != nil {
			fh.Close()
			return nil, path, Error{IOFailure, path, err.Error(), []string{"OpenWrite"}, true}
		}
		W.Writer = g
		W.closers = append([]func() error{g.Close}, W.closers...)
	case Zstd:
		z, err := zstd.NewWriter(fh, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			fh.Close()
			return nil, path, Error{IOFailure, path, err.Error(), []string{"OpenWrite"}, true}
		}
		W.Writer = z
		W.closers = append([]func() error{z.Close}, W.closers...)
	default:
		W.Writer = fh
	}
	return W, path, nil
}
