/*
 * tracker.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

import "fmt"

// TrackConfig selects which bodies are tracked and which observables are
// computed. The zero value tracks translational displacement of every body
// in the system, which is the right choice for point-particle molecules.
type TrackConfig struct {
	//Rotation enables rotational tracking of the rigid-body centers. It
	//requires snapshots with orientation and rigid-body data, and implies
	//RigidOnly: both observables are then computed for the rigid centers.
	Rotation bool

	//RigidOnly restricts displacement tracking to the first B indices,
	//the rigid-body centers. Requires snapshots with rigid-body ids.
	RigidOnly bool
}

//Bodies returns the number of bodies the configuration tracks in the given
//snapshot: the rigid-center count B for rigid analysis, the full system
//size otherwise.
func (c TrackConfig) Bodies(s *Snapshot) (int, error) {
	if c.Rotation || c.RigidOnly {
		b, err := s.Rigid()
		if err != nil {
			return 0, errDecorate(err, "TrackConfig.Bodies")
		}
		return b, nil
	}
	return s.Len(), nil
}

// Tracker binds one Origin to the displacement and rotation engines and
// produces one Observation per queried timestep. A Tracker owns exactly one
// Origin for its entire lifetime.
type Tracker struct {
	cfg    TrackConfig
	origin *Origin
}

// NewTracker captures the given snapshot as the origin configuration of a
// new Tracker and returns the tracker together with its first Observation:
// the trivial zero record at elapsed time 0, with displacement (and
// rotation, if tracked) equal to zero for every body. Requesting rotation
// for a snapshot without orientation or rigid-body data is a configuration
// error, reported here and not deferred to first use.
func NewTracker(s *Snapshot, timestep int, cfg TrackConfig) (*Tracker, *Observation, error) {
	n, err := cfg.Bodies(s)
	if err != nil {
		return nil, nil, err
	}
	rigid := 0
	if cfg.Rotation {
		if s.Orient == nil {
			return nil, nil, CError{"rotation tracking requested but the snapshot carries no orientations", []string{"NewTracker"}}
		}
		rigid = n
		if len(s.Orient) < rigid {
			return nil, nil, CError{fmt.Sprintf("%d orientations given, but %d rigid centers tracked", len(s.Orient), rigid), []string{"NewTracker"}}
		}
	}
	T := &Tracker{cfg: cfg, origin: captureOrigin(s, timestep, n, rigid)}
	zero := &Observation{Time: 0, Displacement: make([]float64, n)}
	if cfg.Rotation {
		zero.Rotation = make([]float64, rigid)
	}
	return T, zero, nil
}

// Origin returns the immutable origin configuration of the tracker.
func (T *Tracker) Origin() *Origin { return T.origin }

// Observe measures displacement (and rotation, if tracked) of every tracked
// body at the given timestep, relative to the tracker's origin. The elapsed
// time of the returned Observation is timestep minus the origin capture
// timestep. Querying a timestep earlier than the capture timestep returns
// an *InvalidTimestepError.
func (T *Tracker) Observe(s *Snapshot, timestep int) (*Observation, error) {
	if timestep < T.origin.timestep {
		return nil, &InvalidTimestepError{Timestep: timestep, Origin: T.origin.timestep}
	}
	o := &Observation{Time: timestep - T.origin.timestep}
	o.Displacement = Displacements(nil, T.origin, s)
	if T.cfg.Rotation {
		o.Rotation = Rotations(nil, T.origin.orient, s.Orient)
	}
	return o, nil
}
