/*
 * lammpstrj.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

//Package lammpstrj reads LAMMPS text dump files as godyn Snapshots.
//
//Each frame must carry the x y z position columns. The ix iy iz image-flag
//columns, the qw qx qy qz orientation columns and the mol rigid-body column
//are picked up when present; dumps without image flags unwrap to the raw
//wrapped positions. Atoms are placed by their id column when the dump has
//one, so unsorted dumps are handled; otherwise file order is used. Files
//ending in .gz or .zst are decompressed on the fly.
package lammpstrj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	dyn "github.com/malramsay64/godyn"
	"gonum.org/v1/gonum/num/quat"
)

// DumpObj reads a LAMMPS dump file sequentially, one frame per Next call.
// It implements dyn.Source.
type DumpObj struct {
	f        *os.File
	z        io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	readable bool

	//column indices, discovered from the first ITEM: ATOMS header
	cols     map[string]int
	colsTot  int
	hasImage bool
	hasQuat  bool
	hasBody  bool
	hasID    bool
}

//zstd.Decoder does not implement io.ReadCloser, as its Close returns
//nothing.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

func (z zstdql) Close() error {
	z.closeql()
	return nil
}

//prepSource opens the file and, depending on the extension, sets up
//decompression. Only .gz and .zst are recognized; anything else is read as
//plain text.
func (D *DumpObj) prepSource(fname string) (io.ReadCloser, error) {
	var err error
	D.filename = fname
	D.f, err = os.Open(fname)
	if err != nil {
		return nil, Error{err.Error(), D.filename, []string{"os.Open", "prepSource"}, true}
	}
	reader := bufio.NewReader(D.f)
	temp := strings.Split(fname, ".")
	switch strings.ToLower(temp[len(temp)-1]) {
	case "gz":
		r, err := gzip.NewReader(reader)
		if err != nil {
			return nil, Error{err.Error(), D.filename, []string{"prepSource"}, true}
		}
		return r, nil
	case "zst":
		r, err := zstd.NewReader(reader)
		if err != nil {
			return nil, Error{err.Error(), D.filename, []string{"prepSource"}, true}
		}
		return zstdql{r.Close, r}, nil
	default:
		return nil, nil //read the file handle itself
	}
}

// New opens a LAMMPS dump file for reading. The number of atoms and the
// column layout are learned from the first frame, so Len returns -1 until
// Next has been called once.
func New(name string) (*DumpObj, error) {
	D := new(DumpObj)
	D.natoms = -1
	z, err := D.prepSource(name)
	if err != nil {
		return nil, err
	}
	D.z = z
	if z != nil {
		D.h = bufio.NewReader(z)
	} else {
		D.h = bufio.NewReader(D.f)
	}
	D.readable = true
	return D, nil
}

// Readable returns true if the handle is readable (if it is possible to
// call Next on it).
func (D *DumpObj) Readable() bool {
	return D.readable
}

// Len returns the number of atoms per frame, or -1 before the first frame
// has been read.
func (D *DumpObj) Len() int {
	return D.natoms
}

// Close closes the handle, and marks it as unreadable.
func (D *DumpObj) Close() {
	if !D.readable {
		return
	}
	if D.z != nil {
		D.z.Close()
	}
	D.f.Close()
	D.readable = false
}

func (D *DumpObj) readLine(caller string) (string, error) {
	s, err := D.h.ReadString('\n')
	if err != nil {
		return "", Error{"Truncated frame: " + err.Error(), D.filename, []string{caller}, true}
	}
	return strings.TrimSpace(s), nil
}

//parseColumns discovers the column layout from an "ITEM: ATOMS ..." header.
func (D *DumpObj) parseColumns(header string) error {
	fields := strings.Fields(header)
	if len(fields) < 3 {
		return Error{fmt.Sprintf("No columns in atoms header: '%s'", header), D.filename, []string{"parseColumns"}, true}
	}
	fields = fields[2:] //past "ITEM: ATOMS"
	D.cols = make(map[string]int, len(fields))
	for i, v := range fields {
		D.cols[v] = i
	}
	D.colsTot = len(fields)
	for _, v := range []string{"x", "y", "z"} {
		if _, ok := D.cols[v]; !ok {
			return Error{"Can't find the x, y and z columns", D.filename, []string{"parseColumns"}, true}
		}
	}
	_, ix := D.cols["ix"]
	_, iy := D.cols["iy"]
	_, iz := D.cols["iz"]
	D.hasImage = ix && iy && iz
	_, qw := D.cols["qw"]
	_, qx := D.cols["qx"]
	_, qy := D.cols["qy"]
	_, qz := D.cols["qz"]
	D.hasQuat = qw && qx && qy && qz
	_, D.hasBody = D.cols["mol"]
	_, D.hasID = D.cols["id"]
	return nil
}

// Next fills s with the next frame of the trajectory, or reads and discards
// the frame if s is nil. The snapshot's position, image, orientation and
// body arrays are (re)allocated as needed. If the error is a LastFrameError
// the end of the trajectory has been reached, not an actual error.
func (D *DumpObj) Next(s *dyn.Snapshot) error {
	if !D.readable {
		return Error{TrajUnIniRead, D.filename, []string{"Next"}, true}
	}
	//ITEM: TIMESTEP is the only place a frame may cleanly end
	str, err := D.h.ReadString('\n')
	if err != nil {
		if err == io.EOF && str == "" {
			D.Close()
			return newlastFrameError(D.filename, "Next")
		}
		return Error{err.Error(), D.filename, []string{"Next"}, true}
	}
	if !strings.HasPrefix(str, "ITEM: TIMESTEP") {
		return Error{fmt.Sprintf("Expected 'ITEM: TIMESTEP', got '%s'", strings.TrimSpace(str)), D.filename, []string{"Next"}, true}
	}
	line, err := D.readLine("Next")
	if err != nil {
		return err
	}
	timestep, err := strconv.Atoi(line)
	if err != nil {
		return Error{"Can't parse timestep: " + err.Error(), D.filename, []string{"Next"}, true}
	}
	if line, err = D.readLine("Next"); err != nil {
		return err
	}
	if !strings.HasPrefix(line, "ITEM: NUMBER OF ATOMS") {
		return Error{fmt.Sprintf("Expected 'ITEM: NUMBER OF ATOMS', got '%s'", line), D.filename, []string{"Next"}, true}
	}
	if line, err = D.readLine("Next"); err != nil {
		return err
	}
	natoms, err := strconv.Atoi(line)
	if err != nil {
		return Error{"Can't parse atom count: " + err.Error(), D.filename, []string{"Next"}, true}
	}
	if D.natoms < 0 {
		D.natoms = natoms
	} else if natoms != D.natoms {
		return Error{fmt.Sprintf("%d atoms in frame, but %d expected", natoms, D.natoms), D.filename, []string{"Next"}, true}
	}
	if line, err = D.readLine("Next"); err != nil {
		return err
	}
	if !strings.HasPrefix(line, "ITEM: BOX BOUNDS") {
		return Error{fmt.Sprintf("Expected 'ITEM: BOX BOUNDS', got '%s'", line), D.filename, []string{"Next"}, true}
	}
	var box dyn.Box
	for j := 0; j < 3; j++ {
		if line, err = D.readLine("Next"); err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return Error{fmt.Sprintf("Ill formated box bounds line: '%s'", line), D.filename, []string{"Next"}, true}
		}
		lo, err1 := strconv.ParseFloat(fields[0], 64)
		hi, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return Error{fmt.Sprintf("Can't parse box bounds line: '%s'", line), D.filename, []string{"Next"}, true}
		}
		box[j] = hi - lo
	}
	if line, err = D.readLine("Next"); err != nil {
		return err
	}
	if !strings.HasPrefix(line, "ITEM: ATOMS") {
		return Error{fmt.Sprintf("Expected 'ITEM: ATOMS', got '%s'", line), D.filename, []string{"Next"}, true}
	}
	if D.cols == nil {
		if err := D.parseColumns(line); err != nil {
			return err
		}
	}
	if s != nil {
		if s.Pos == nil || s.Len() != D.natoms {
			fresh := dyn.NewSnapshot(D.natoms)
			s.Pos = fresh.Pos
			s.Image = fresh.Image
		}
		if D.hasQuat {
			if len(s.Orient) != D.natoms {
				s.Orient = make([]quat.Number, D.natoms)
			}
		} else {
			s.Orient = nil
		}
		if D.hasBody {
			if len(s.Body) != D.natoms {
				s.Body = make([]int, D.natoms)
			}
		} else {
			s.Body = nil
		}
		s.Timestep = timestep
		s.Box = box
	}
	for i := 0; i < D.natoms; i++ {
		if line, err = D.readLine("Next"); err != nil {
			return err
		}
		if s == nil {
			continue //We ignore this whole frame, reading the content but not saving it.
		}
		if err := D.parseAtom(line, i, s); err != nil {
			return err
		}
	}
	return nil
}

func (D *DumpObj) parseAtom(line string, seq int, s *dyn.Snapshot) error {
	fields := strings.Fields(line)
	if len(fields) != D.colsTot {
		return Error{fmt.Sprintf("%d columns in atom line, but %d expected", len(fields), D.colsTot), D.filename, []string{"parseAtom"}, true}
	}
	at := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(fields[D.cols[name]], 64)
		if err != nil {
			return 0, Error{fmt.Sprintf("Can't parse column %s: %s", name, err.Error()), D.filename, []string{"parseAtom"}, true}
		}
		return v, nil
	}
	i := seq
	if D.hasID {
		id, err := strconv.Atoi(fields[D.cols["id"]])
		if err != nil || id < 1 || id > D.natoms {
			return Error{fmt.Sprintf("Bad atom id '%s'", fields[D.cols["id"]]), D.filename, []string{"parseAtom"}, true}
		}
		i = id - 1
	}
	for j, name := range []string{"x", "y", "z"} {
		v, err := at(name)
		if err != nil {
			return err
		}
		s.Pos.Set(i, j, v)
	}
	if D.hasImage {
		for j, name := range []string{"ix", "iy", "iz"} {
			v, err := strconv.Atoi(fields[D.cols[name]])
			if err != nil {
				return Error{fmt.Sprintf("Can't parse column %s: %s", name, err.Error()), D.filename, []string{"parseAtom"}, true}
			}
			s.Image[i][j] = v
		}
	} else {
		s.Image[i] = [3]int{}
	}
	if D.hasQuat {
		w, err := at("qw")
		if err != nil {
			return err
		}
		x, err := at("qx")
		if err != nil {
			return err
		}
		y, err := at("qy")
		if err != nil {
			return err
		}
		z, err := at("qz")
		if err != nil {
			return err
		}
		s.Orient[i] = quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
	}
	if D.hasBody {
		mol, err := strconv.Atoi(fields[D.cols["mol"]])
		if err != nil {
			return Error{"Can't parse column mol: " + err.Error(), D.filename, []string{"parseAtom"}, true}
		}
		s.Body[i] = mol - 1 //LAMMPS molecule ids start at 1
	}
	return nil
}
