/*
 * dset.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dset

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	dyn "github.com/malramsay64/godyn"
)

const (
	lzwLitwidth int = 8
)

//Write!

// Writer appends observations to a compressed dataset file. It implements
// dyn.Sink.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	nbodies   int
	rotation  bool
	filename  string
	writeable bool
}

// NewWriter creates a dataset at name for observations of nbodies bodies,
// with rotation columns if rotation is true. If a file already exists at
// name it is renamed aside to name+".bak" rather than overwritten: a new
// Writer always starts a fresh dataset. The metadata in header, if any, is
// written before the first block. The compression level, if given, is used
// for the deflate-family compressors.
func NewWriter(name string, nbodies int, rotation bool, header map[string]string, compressionLevel ...int) (*Writer, error) {
	var level int = flate.DefaultCompression
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	if _, err := os.Stat(name); err == nil {
		if err := os.Rename(name, name+".bak"); err != nil {
			return nil, Error{"Can't back up the previous dataset: " + err.Error(), name, []string{"NewWriter"}, true}
		}
	}
	S := new(Writer)
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	zwriter := func(a io.Writer) (io.WriteCloser, error) {
		r, err := flate.NewWriter(a, level)
		return r, err
	}
	gzipwriter := func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, level) }
	zstdwriter := func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}

	var AnyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewWriter = gzipwriter
	case 'r':
		AnyNewWriter = zwriter
	default:
		AnyNewWriter = zstdwriter
	}

	S.h, err = AnyNewWriter(S.f)
	if err != nil {
		return nil, Error{"Can't set up the compressor: " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.nbodies = nbodies
	S.rotation = rotation
	S.filename = name
	S.writeable = true
	headerstr := ""
	for k, v := range header {
		headerstr += fmt.Sprintf("%s=%v\n", k, v)
	}
	rot := 0
	if rotation {
		rot = 1
	}
	headerstr += fmt.Sprintf("** %d %d\n", S.nbodies, rot)
	if _, err := S.h.Write([]byte(headerstr)); err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	return S, nil
}

// Len returns the number of bodies in each block of the dataset.
func (S *Writer) Len() int {
	return S.nbodies
}

// Append writes one observation as a new block. Blocks are never rewritten;
// for a given origin index they must be appended in non-decreasing elapsed
// time order, which Append does not check.
func (S *Writer) Append(o *dyn.Observation) error {
	if !S.writeable {
		return Error{SinkUnIniWrite, S.filename, []string{"Append"}, true}
	}
	if o == nil {
		return Error{NilObservation, S.filename, []string{"Append"}, true}
	}
	if len(o.Displacement) != S.nbodies {
		return Error{fmt.Sprintf("%d displacements given, but %d expected", len(o.Displacement), S.nbodies), S.filename, []string{"Append"}, true}
	}
	if S.rotation && len(o.Rotation) != S.nbodies {
		return Error{fmt.Sprintf("%d rotations given, but %d expected", len(o.Rotation), S.nbodies), S.filename, []string{"Append"}, true}
	}
	var str string
	for i := 0; i < S.nbodies; i++ {
		if S.rotation {
			str = strconv.FormatFloat(o.Displacement[i], 'g', -1, 64) + " " + strconv.FormatFloat(o.Rotation[i], 'g', -1, 64) + "\n"
		} else {
			str = strconv.FormatFloat(o.Displacement[i], 'g', -1, 64) + "\n"
		}
		if _, err := S.h.Write([]byte(str)); err != nil {
			return Error{err.Error(), S.filename, []string{"Append"}, true}
		}
	}
	if _, err := S.h.Write([]byte(fmt.Sprintf("* %d %d\n", o.OriginIndex, o.Time))); err != nil {
		return Error{err.Error(), S.filename, []string{"Append"}, true}
	}
	return nil
}

//flusher is satisfied by every compressor in use except lzw.
type flusher interface {
	Flush() error
}

// Flush pushes all buffered blocks through the compressor and syncs the
// file, making everything appended so far durable and readable.
func (S *Writer) Flush() error {
	if !S.writeable {
		return Error{SinkUnIniWrite, S.filename, []string{"Flush"}, true}
	}
	if f, ok := S.h.(flusher); ok {
		if err := f.Flush(); err != nil {
			return Error{err.Error(), S.filename, []string{"Flush"}, true}
		}
	}
	if err := S.f.Sync(); err != nil {
		return Error{err.Error(), S.filename, []string{"Flush"}, true}
	}
	return nil
}

// Close terminates the compressed stream and closes the file. The Writer
// can not be used after this call. Closing twice is harmless.
func (S *Writer) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	if err := S.h.Close(); err != nil {
		S.f.Close()
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	if err := S.f.Close(); err != nil {
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return nil
}

//Read!

// Reader reads back a dataset written by Writer, block by block.
type Reader struct {
	f        *os.File
	z        io.ReadCloser
	h        *bufio.Reader
	nbodies  int
	rotation bool
	filename string
	readable bool
}

//zstd.Decoder does not implement io.ReadCloser, as its Close returns
//nothing. stdql adapts it.
type stdql struct {
	closeql func()
	*zstd.Decoder
}

func (s stdql) Close() error {
	s.closeql()
	return nil
}

// New opens a dataset for reading and returns a handle, a map with the
// metadata (or nil if the file has none) and error or nil.
func New(name string) (*Reader, map[string]string, error) {
	S := new(Reader)
	S.nbodies = -1
	S.filename = name
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	zreader := func(a io.Reader) (io.ReadCloser, error) {
		return flate.NewReader(a), nil
	}
	gzreader := func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	zstdreader := func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return &stdql{r.Close, r}, nil
	}
	var AnyNewReader func(io.Reader) (io.ReadCloser, error)
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewReader = gzreader
	case 'r':
		AnyNewReader = zreader
	default:
		AnyNewReader = zstdreader
	}
	S.z, err = AnyNewReader(bufio.NewReader(S.f))
	if err != nil {
		return nil, nil, Error{"Can't set up the decompressor: " + err.Error(), S.filename, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.z)
	var m map[string]string
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return nil, nil, Error{"Can't read header: " + err.Error(), S.filename, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			fields := strings.Fields(str)
			if len(fields) != 3 {
				return nil, nil, Error{fmt.Sprintf("Malformed dataset header: '%s'", str), S.filename, []string{"New"}, true}
			}
			S.nbodies, err = strconv.Atoi(fields[1])
			if err != nil {
				return nil, nil, Error{"Can't read body count from header: " + err.Error(), S.filename, []string{"New"}, true}
			}
			S.rotation = fields[2] == "1"
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return nil, nil, Error{fmt.Sprintf("Malformed metadata line: '%s'", str), S.filename, []string{"New"}, true}
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[kv[0]] = kv[1]
	}
	S.readable = true
	return S, m, nil
}

// Readable returns true if the handle is readable (if it is possible to
// call Next on it).
func (S *Reader) Readable() bool {
	return S.readable
}

// Len returns the number of bodies in each block of the dataset.
func (S *Reader) Len() int {
	return S.nbodies
}

// Rotation returns whether the dataset carries rotation columns.
func (S *Reader) Rotation() bool {
	return S.rotation
}

// Next fills o with the next block of the dataset, or reads and discards
// the block if o is nil. If the error is a LastBlockError the end of the
// dataset has been reached, not an actual error.
func (S *Reader) Next(o *dyn.Observation) error {
	if !S.readable {
		return Error{SinkUnIniRead, S.filename, []string{"Next"}, true}
	}
	if o != nil {
		if len(o.Displacement) != S.nbodies {
			o.Displacement = make([]float64, S.nbodies)
		}
		if S.rotation && len(o.Rotation) != S.nbodies {
			o.Rotation = make([]float64, S.nbodies)
		}
	}
	for i := 0; i < S.nbodies; i++ {
		b, err := S.h.ReadBytes('\n')
		if err != nil {
			// EOF should only happen when reading the first body
			if err == io.EOF && i == 0 {
				//nothing bad happened here, the dataset just ended.
				S.Close()
				return newLastBlockError(S.filename, "Next")
			}
			return Error{message: err.Error(), filename: S.filename, critical: true}
		}
		fields := strings.Fields(string(b[:len(b)-1]))
		want := 1
		if S.rotation {
			want = 2
		}
		if len(fields) != want {
			return Error{fmt.Sprintf("Ill formated block line: '%s'", string(b)), S.filename, []string{"Next"}, true}
		}
		if o == nil {
			continue //we read the whole block but save nothing
		}
		o.Displacement[i], err = strconv.ParseFloat(fields[0], 64)
		if err == nil && S.rotation {
			o.Rotation[i], err = strconv.ParseFloat(fields[1], 64)
		}
		if err != nil {
			return Error{"Can't parse block value: " + err.Error(), S.filename, []string{"Next"}, true}
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil {
		return Error{"Can't read the block trailer: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 3 || fields[0] != "*" {
		return Error{fmt.Sprintf("Wrong block trailer: '%s'", s), S.filename, []string{"Next"}, true}
	}
	origin, err := strconv.Atoi(fields[1])
	if err != nil {
		return Error{"Can't parse origin index: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	elapsed, err := strconv.Atoi(fields[2])
	if err != nil {
		return Error{"Can't parse elapsed time: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if o != nil {
		o.OriginIndex = origin
		o.Time = elapsed
	}
	return nil
}

// Close closes the handle, and marks it as unreadable.
func (S *Reader) Close() {
	if !S.readable {
		return
	}
	S.z.Close()
	S.f.Close()
	S.readable = false
}

// ReadOrigin reads the whole dataset at name and collects the observations
// for the given origin index, in append order (i.e. non-decreasing elapsed
// time). The file is streamed, never held in memory at once.
func ReadOrigin(name string, index int) ([]*dyn.Observation, error) {
	r, _, err := New(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var ret []*dyn.Observation
	for {
		o := new(dyn.Observation)
		err := r.Next(o)
		if err != nil {
			if _, ok := err.(dyn.LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "ReadOrigin")
		}
		if o.OriginIndex == index {
			ret = append(ret, o)
		}
	}
	return ret, nil
}
