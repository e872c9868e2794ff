/*
 * observation.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

// Observation is one computed row of the dataset: the per-body displacement
// magnitudes (and, when rotation is tracked, rotation angles) measured at a
// single timestep relative to a single origin. Observations are immutable
// once produced.
type Observation struct {
	OriginIndex  int       //which origin this row was measured from
	Time         int       //elapsed time: queried timestep - origin capture timestep
	Displacement []float64 //per-body, non-negative
	Rotation     []float64 //per-body, in (-pi, pi]; nil when rotation is not tracked
}

// Len returns the number of bodies in the observation.
func (O *Observation) Len() int { return len(O.Displacement) }
