/*
 * dyn_test.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

//zQuat returns the quaternion for a rotation of angle about the z axis.
func zQuat(angle float64) quat.Number {
	return quat.Number{Real: math.Cos(angle / 2), Kmag: math.Sin(angle / 2)}
}

//boxSnapshot builds a snapshot with a single body at the given wrapped
//position and image, in a 10x10x10 box.
func boxSnapshot(pos [3]float64, image [3]int) *Snapshot {
	s := NewSnapshot(1)
	s.Pos.SetRow(0, pos[:])
	s.Image[0] = image
	s.Box = NewBox(10, 10, 10)
	return s
}

func TestUnwrap(Te *testing.T) {
	//a body that crossed the +x boundary once
	pos := mat.NewDense(1, 3, []float64{1, 0, 0})
	curr := Unwrap(nil, pos, [][3]int{{1, 0, 0}}, [][3]int{{0, 0, 0}}, NewBox(10, 10, 10))
	if curr.At(0, 0) != 11 || curr.At(0, 1) != 0 || curr.At(0, 2) != 0 {
		Te.Error("expected unwrapped position (11,0,0), got", mat.Formatted(curr))
	}
}

func TestUnwrapIdempotence(Te *testing.T) {
	//unchanged images mean no box-length term at all
	pos := mat.NewDense(2, 3, []float64{1.5, -2.5, 3, 0.25, 0, -4})
	images := [][3]int{{3, -1, 0}, {0, 2, 2}}
	curr := Unwrap(nil, pos, images, images, NewBox(10, 20, 30))
	if !mat.Equal(curr, pos) {
		Te.Error("unwrap with unchanged images altered the positions", mat.Formatted(curr))
	}
}

func TestBoxFromConfiguration(Te *testing.T) {
	b, err := BoxFromConfiguration([]float64{10, 20, 30, 0, 0, 0, 0, 0, 0})
	if err != nil {
		Te.Error(err)
	}
	if b != NewBox(10, 20, 30) {
		Te.Error("wrong box from configuration descriptor:", b)
	}
	_, err = BoxFromConfiguration([]float64{10, 20})
	if err == nil {
		Te.Error("expected an error for a 2-element descriptor")
	}
}

func TestDisplacementScenario(Te *testing.T) {
	//origin at (9,0,0) image (0,0,0); current at (1,0,0) image (1,0,0):
	//the body moved from 9 to 11, i.e. a displacement of 2.
	T, zero, err := NewTracker(boxSnapshot([3]float64{9, 0, 0}, [3]int{0, 0, 0}), 0, TrackConfig{})
	if err != nil {
		Te.Fatal(err)
	}
	if zero.Displacement[0] != 0 || zero.Time != 0 {
		Te.Error("zero record is not zero:", zero)
	}
	o, err := T.Observe(boxSnapshot([3]float64{1, 0, 0}, [3]int{1, 0, 0}), 100)
	if err != nil {
		Te.Fatal(err)
	}
	if o.Displacement[0] != 2 {
		Te.Error("expected displacement 2, got", o.Displacement[0])
	}
	if o.Time != 100 {
		Te.Error("expected elapsed time 100, got", o.Time)
	}
	fmt.Println("scenario displacement:", o.Displacement)
}

func TestZeroOriginInvariant(Te *testing.T) {
	s := NewSnapshot(3)
	s.Pos.SetRow(0, []float64{1, 2, 3})
	s.Pos.SetRow(1, []float64{-4, 0, 2.5})
	s.Pos.SetRow(2, []float64{0.5, 0.5, 0.5})
	s.Image = [][3]int{{1, 0, 0}, {0, -2, 0}, {0, 0, 5}}
	s.Orient = []quat.Number{zQuat(0.3), zQuat(-1.2), zQuat(2.0)}
	s.Body = []int{0, 1, 2}
	s.Box = NewBox(10, 10, 10)
	T, zero, err := NewTracker(s, 42, TrackConfig{Rotation: true})
	if err != nil {
		Te.Fatal(err)
	}
	for i, v := range zero.Displacement {
		if v != 0 {
			Te.Error("zero record has nonzero displacement for body", i)
		}
	}
	for i, v := range zero.Rotation {
		if v != 0 {
			Te.Error("zero record has nonzero rotation for body", i)
		}
	}
	//observing the capture configuration again must give the same zeros
	o, err := T.Observe(s, 42)
	if err != nil {
		Te.Fatal(err)
	}
	if o.Time != 0 {
		Te.Error("expected elapsed time 0, got", o.Time)
	}
	for i := 0; i < 3; i++ {
		if o.Displacement[i] != 0 || o.Rotation[i] != 0 {
			Te.Error("observation at the capture timestep is not the zero record for body", i)
		}
	}
}

func TestRotations(Te *testing.T) {
	const eps = 0.1
	q0 := []quat.Number{zQuat(0), zQuat(0), zQuat(0), zQuat(0), zQuat(0.5)}
	q := []quat.Number{
		zQuat(1.0),            //plainly inside the range
		zQuat(math.Pi + eps),  //past the branch cut
		zQuat(-math.Pi - eps), //past it the other way
		zQuat(0),              //no rotation at all
		zQuat(1.5),            //non-identity origin orientation
	}
	want := []float64{1.0, -math.Pi + eps, math.Pi - eps, 0, 1.0}
	got := Rotations(nil, q0, q)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-10 {
			Te.Errorf("rotation %d: expected %g, got %g", i, want[i], got[i])
		}
	}
}

func TestRigidSubset(Te *testing.T) {
	//two bodies, but a single rigid center: the result has one element
	s := NewSnapshot(2)
	s.Pos.SetRow(0, []float64{1, 1, 1})
	s.Pos.SetRow(1, []float64{2, 2, 2})
	s.Image = [][3]int{{0, 0, 0}, {0, 0, 0}}
	s.Body = []int{0, 0}
	s.Box = NewBox(10, 10, 10)
	T, zero, err := NewTracker(s, 0, TrackConfig{RigidOnly: true})
	if err != nil {
		Te.Fatal(err)
	}
	if len(zero.Displacement) != 1 {
		Te.Error("expected 1 tracked body, got", len(zero.Displacement))
	}
	o, err := T.Observe(s, 10)
	if err != nil {
		Te.Fatal(err)
	}
	if len(o.Displacement) != 1 {
		Te.Error("expected a 1-element result for B=1, got", len(o.Displacement))
	}
}

func TestInvalidTimestep(Te *testing.T) {
	T, _, err := NewTracker(boxSnapshot([3]float64{0, 0, 0}, [3]int{0, 0, 0}), 100, TrackConfig{})
	if err != nil {
		Te.Fatal(err)
	}
	_, err = T.Observe(boxSnapshot([3]float64{0, 0, 0}, [3]int{0, 0, 0}), 50)
	if _, ok := err.(*InvalidTimestepError); !ok {
		Te.Error("expected an *InvalidTimestepError, got", err)
	}
}

func TestMissingOrientation(Te *testing.T) {
	//rotation without orientation data must fail at construction time
	s := boxSnapshot([3]float64{0, 0, 0}, [3]int{0, 0, 0})
	s.Body = []int{0}
	_, _, err := NewTracker(s, 0, TrackConfig{Rotation: true})
	if err == nil {
		Te.Error("expected a configuration error for missing orientations")
	}
	//and rigid analysis without body data as well
	_, _, err = NewTracker(boxSnapshot([3]float64{0, 0, 0}, [3]int{0, 0, 0}), 0, TrackConfig{RigidOnly: true})
	if err == nil {
		Te.Error("expected a configuration error for missing rigid-body ids")
	}
}

//testSink collects appended observations in memory.
type testSink struct {
	rows   []*Observation
	closed bool
}

func (t *testSink) Append(o *Observation) error { t.rows = append(t.rows, o); return nil }
func (t *testSink) Flush() error                { return nil }
func (t *testSink) Close() error                { t.closed = true; return nil }

func TestAccumulator(Te *testing.T) {
	sink := new(testSink)
	acc := NewAccumulator(sink, TrackConfig{})

	//origin 0 at step 0: creates the origin and writes its zero record
	if err := acc.Record(boxSnapshot([3]float64{9, 0, 0}, [3]int{0, 0, 0}), 0, 0); err != nil {
		Te.Fatal(err)
	}
	//origin 0 at step 50: a real displacement row
	if err := acc.Record(boxSnapshot([3]float64{1, 0, 0}, [3]int{1, 0, 0}), 0, 50); err != nil {
		Te.Fatal(err)
	}
	//origin 1 at step 50: an independent origin with its own zero record
	if err := acc.Record(boxSnapshot([3]float64{1, 0, 0}, [3]int{1, 0, 0}), 1, 50); err != nil {
		Te.Fatal(err)
	}
	if len(sink.rows) != 3 {
		Te.Fatal("expected exactly 3 rows, got", len(sink.rows))
	}
	if sink.rows[0].OriginIndex != 0 || sink.rows[0].Time != 0 || sink.rows[0].Displacement[0] != 0 {
		Te.Error("wrong zero record for origin 0:", sink.rows[0])
	}
	if sink.rows[1].OriginIndex != 0 || sink.rows[1].Time != 50 || sink.rows[1].Displacement[0] != 2 {
		Te.Error("wrong measurement row for origin 0:", sink.rows[1])
	}
	if sink.rows[2].OriginIndex != 1 || sink.rows[2].Time != 0 || sink.rows[2].Displacement[0] != 0 {
		Te.Error("wrong zero record for origin 1:", sink.rows[2])
	}
	if acc.Origins() != 2 {
		Te.Error("expected 2 origins, got", acc.Origins())
	}
}

func TestLazyOriginCreation(Te *testing.T) {
	sink := new(testSink)
	acc := NewAccumulator(sink, TrackConfig{})
	if err := acc.Record(boxSnapshot([3]float64{9, 0, 0}, [3]int{0, 0, 0}), 7, 0); err != nil {
		Te.Fatal(err)
	}
	first := acc.Tracker(7)
	if first == nil {
		Te.Fatal("recording an unseen index did not create a tracker")
	}
	//recording again must reuse the same origin, not capture a new one
	if err := acc.Record(boxSnapshot([3]float64{5, 0, 0}, [3]int{0, 0, 0}), 7, 10); err != nil {
		Te.Fatal(err)
	}
	if acc.Tracker(7) != first {
		Te.Error("a second record with the same index replaced the tracker")
	}
	if acc.Origins() != 1 {
		Te.Error("expected a single origin, got", acc.Origins())
	}
	if first.Origin().Timestep() != 0 {
		Te.Error("origin capture timestep changed:", first.Origin().Timestep())
	}
}

func TestMonotonicElapsed(Te *testing.T) {
	sink := new(testSink)
	acc := NewAccumulator(sink, TrackConfig{})
	steps := []int{0, 1, 5, 5, 20, 100}
	for _, ts := range steps {
		if err := acc.Record(boxSnapshot([3]float64{0, 0, 0}, [3]int{0, 0, 0}), 0, ts); err != nil {
			Te.Fatal(err)
		}
	}
	last := -1
	for _, o := range sink.rows {
		if o.Time < last {
			Te.Error("elapsed times are not non-decreasing:", o.Time, "after", last)
		}
		last = o.Time
	}
}

func TestClosedAccumulator(Te *testing.T) {
	sink := new(testSink)
	acc := NewAccumulator(sink, TrackConfig{})
	if err := acc.Close(); err != nil {
		Te.Fatal(err)
	}
	if !sink.closed {
		Te.Error("closing the accumulator did not close the sink")
	}
	err := acc.Record(boxSnapshot([3]float64{0, 0, 0}, [3]int{0, 0, 0}), 0, 0)
	if _, ok := err.(*ClosedAccumulatorError); !ok {
		Te.Error("expected a *ClosedAccumulatorError, got", err)
	}
	if err := acc.Close(); err != nil {
		Te.Error("second Close should be harmless, got", err)
	}
}
