/*
 * lammpstrj_test.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package lammpstrj

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	dyn "github.com/malramsay64/godyn"
)

//Two frames of three atoms each. The second frame lists atoms out of order
//on purpose: placement must follow the id column.
const testDump = `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
3
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS id mol x y z ix iy iz qw qx qy qz
1 1 9 0 0 0 0 0 1 0 0 0
2 2 1 1 1 0 0 0 1 0 0 0
3 1 2 2 2 0 0 0 0.707106781 0 0 0.707106781
ITEM: TIMESTEP
50
ITEM: NUMBER OF ATOMS
3
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS id mol x y z ix iy iz qw qx qy qz
3 1 2.5 2 2 0 0 0 0.707106781 0 0 0.707106781
1 1 1 0 0 1 0 0 1 0 0 0
2 2 1.5 1 1 0 0 0 1 0 0 0
`

func writeDump(Te *testing.T, name string, compress bool) string {
	path := filepath.Join(Te.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	if compress {
		z := gzip.NewWriter(f)
		if _, err := z.Write([]byte(testDump)); err != nil {
			Te.Fatal(err)
		}
		if err := z.Close(); err != nil {
			Te.Fatal(err)
		}
	} else {
		if _, err := f.WriteString(testDump); err != nil {
			Te.Fatal(err)
		}
	}
	return path
}

func readAll(Te *testing.T, path string) []*dyn.Snapshot {
	traj, err := New(path)
	if err != nil {
		Te.Fatal(err)
	}
	var frames []*dyn.Snapshot
	for {
		s := new(dyn.Snapshot)
		err := traj.Next(s)
		if err != nil {
			if _, ok := err.(dyn.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		frames = append(frames, s)
	}
	return frames
}

func checkFrames(Te *testing.T, frames []*dyn.Snapshot) {
	if len(frames) != 2 {
		Te.Fatal("expected 2 frames, got", len(frames))
	}
	first, second := frames[0], frames[1]
	if first.Timestep != 0 || second.Timestep != 50 {
		Te.Error("wrong timesteps:", first.Timestep, second.Timestep)
	}
	if first.Box != dyn.NewBox(10, 10, 10) {
		Te.Error("wrong box:", first.Box)
	}
	if first.Pos.At(0, 0) != 9 || first.Pos.At(2, 1) != 2 {
		Te.Error("wrong positions in the first frame")
	}
	//the out-of-order frame: atom 1 must land at index 0
	if second.Pos.At(0, 0) != 1 || second.Pos.At(2, 0) != 2.5 {
		Te.Error("atoms were not placed by id")
	}
	if second.Image[0] != [3]int{1, 0, 0} {
		Te.Error("wrong image flags:", second.Image[0])
	}
	if first.Body[0] != 0 || first.Body[1] != 1 || first.Body[2] != 0 {
		Te.Error("wrong rigid-body ids:", first.Body)
	}
	if first.Orient[0].Real != 1 || first.Orient[2].Kmag != 0.707106781 {
		Te.Error("wrong orientations")
	}
	b, err := first.Rigid()
	if err != nil {
		Te.Error(err)
	}
	if b != 2 {
		Te.Error("expected 2 rigid centers, got", b)
	}
}

func TestRead(Te *testing.T) {
	frames := readAll(Te, writeDump(Te, "test.lammpstrj", false))
	checkFrames(Te, frames)
}

func TestReadGzip(Te *testing.T) {
	frames := readAll(Te, writeDump(Te, "test.lammpstrj.gz", true))
	checkFrames(Te, frames)
}

func TestSkipFrame(Te *testing.T) {
	traj, err := New(writeDump(Te, "test.lammpstrj", false))
	if err != nil {
		Te.Fatal(err)
	}
	if err := traj.Next(nil); err != nil { //discard the first frame
		Te.Fatal(err)
	}
	if traj.Len() != 3 {
		Te.Error("expected 3 atoms per frame, got", traj.Len())
	}
	s := new(dyn.Snapshot)
	if err := traj.Next(s); err != nil {
		Te.Fatal(err)
	}
	if s.Timestep != 50 {
		Te.Error("skipping read the wrong frame:", s.Timestep)
	}
	err = traj.Next(nil)
	if _, ok := err.(dyn.LastFrameError); !ok {
		Te.Error("expected a LastFrameError at the end, got", err)
	}
	if traj.Readable() {
		Te.Error("handle still readable after the last frame")
	}
}

//A trajectory feeding an accumulator end to end, the way the batch driver
//wires them.
func TestTrackThroughTrajectory(Te *testing.T) {
	traj, err := New(writeDump(Te, "test.lammpstrj", false))
	if err != nil {
		Te.Fatal(err)
	}
	sink := new(memSink)
	acc := dyn.NewAccumulator(sink, dyn.TrackConfig{Rotation: true})
	s := new(dyn.Snapshot)
	for {
		err := traj.Next(s)
		if err != nil {
			if _, ok := err.(dyn.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		if err := acc.Record(s, 0, s.Timestep); err != nil {
			Te.Fatal(err)
		}
	}
	if err := acc.Close(); err != nil {
		Te.Fatal(err)
	}
	if len(sink.rows) != 2 {
		Te.Fatal("expected 2 rows, got", len(sink.rows))
	}
	//rigid centers only: atoms 1 and 2 are the central particles
	if len(sink.rows[1].Displacement) != 2 {
		Te.Fatal("expected 2 tracked bodies, got", len(sink.rows[1].Displacement))
	}
	//atom 1 went from 9 to 1 with one +x crossing: |11-9| = 2
	if sink.rows[1].Displacement[0] != 2 {
		Te.Error("expected displacement 2 for the first center, got", sink.rows[1].Displacement[0])
	}
	if sink.rows[1].Rotation[0] != 0 {
		Te.Error("expected no rotation for the first center, got", sink.rows[1].Rotation[0])
	}
}

type memSink struct {
	rows []*dyn.Observation
}

func (m *memSink) Append(o *dyn.Observation) error { m.rows = append(m.rows, o); return nil }
func (m *memSink) Flush() error                    { return nil }
func (m *memSink) Close() error                    { return nil }
