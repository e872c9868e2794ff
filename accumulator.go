/*
 * accumulator.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

import "fmt"

// Accumulator routes incoming snapshots to per-origin Trackers and appends
// every produced Observation to a Sink. Origins are created lazily: the
// first time an origin index is recorded, the snapshot is captured as that
// origin and its zero record written; on later calls with the same index
// the existing origin is measured against. Origin indices remain valid for
// the life of the Accumulator.
//
// An Accumulator is not safe for concurrent use. For parallel analysis of
// independent trajectories, give each its own Accumulator and Sink.
type Accumulator struct {
	cfg      TrackConfig
	sink     Sink
	trackers map[int]*Tracker
	closed   bool
}

// NewAccumulator returns an Accumulator writing to the given sink. The sink
// is owned by the accumulator from this point on: Close closes it.
func NewAccumulator(sink Sink, cfg TrackConfig) *Accumulator {
	return &Accumulator{
		cfg:      cfg,
		sink:     sink,
		trackers: make(map[int]*Tracker),
	}
}

// Record processes one scheduling decision: measure the snapshot at the
// given timestep against origin index. An unseen index captures the
// snapshot as a new origin and appends its zero record; a seen index
// appends a real measurement. Observations for a given index must be
// recorded in non-decreasing timestep order; Record does not re-sort.
// Storage failures are returned as-is and are fatal to the run.
func (A *Accumulator) Record(s *Snapshot, index, timestep int) error {
	if A.closed {
		return &ClosedAccumulatorError{}
	}
	if index < 0 {
		return CError{fmt.Sprintf("origin index must be non-negative, got %d", index), []string{"Accumulator.Record"}}
	}
	T, ok := A.trackers[index]
	if !ok {
		T, zero, err := NewTracker(s, timestep, A.cfg)
		if err != nil {
			return errDecorate(err, "Accumulator.Record")
		}
		A.trackers[index] = T
		zero.OriginIndex = index
		return A.sink.Append(zero)
	}
	o, err := T.Observe(s, timestep)
	if err != nil {
		return errDecorate(err, "Accumulator.Record")
	}
	o.OriginIndex = index
	return A.sink.Append(o)
}

// Origins returns the number of origins created so far.
func (A *Accumulator) Origins() int { return len(A.trackers) }

// Tracker returns the tracker for the given origin index, or nil if that
// index has not been seen.
func (A *Accumulator) Tracker(index int) *Tracker { return A.trackers[index] }

// Flush forwards to the sink, guaranteeing all buffered Observations reach
// durable storage before returning.
func (A *Accumulator) Flush() error {
	if A.closed {
		return &ClosedAccumulatorError{}
	}
	return A.sink.Flush()
}

// Close flushes and closes the sink. Record calls after Close fail with a
// *ClosedAccumulatorError. Closing twice is harmless.
func (A *Accumulator) Close() error {
	if A.closed {
		return nil
	}
	A.closed = true
	return A.sink.Close()
}
