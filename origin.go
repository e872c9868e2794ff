/*
 * origin.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Origin is the immutable reference state from which displacements and
// rotations are measured: the wrapped positions, image counts and (for
// rigid analysis) orientations of the tracked bodies at capture time.
// An Origin is created once, by Tracker capture, and never mutated.
type Origin struct {
	pos      *mat.Dense    //wrapped positions of the tracked subset at capture
	image    [][3]int      //reference images for later unwrap operations
	orient   []quat.Number //nil when rotation is not tracked
	timestep int
	buf      *mat.Dense //scratch for unwrapping, not part of the reference state
}

// Timestep returns the timestep at which the origin was captured.
func (O *Origin) Timestep() int { return O.timestep }

// Len returns the number of bodies tracked from this origin.
func (O *Origin) Len() int {
	r, _ := O.pos.Dims()
	return r
}

// Rigid returns the number of bodies with tracked orientations. It is zero
// when rotation tracking is disabled.
func (O *Origin) Rigid() int { return len(O.orient) }

//captureOrigin copies the tracked subset of the snapshot into a fresh
//Origin. n is the number of tracked bodies and rigid the number of tracked
//orientations (0 disables rotation).
func captureOrigin(s *Snapshot, timestep, n, rigid int) *Origin {
	O := &Origin{
		pos:      mat.NewDense(n, 3, nil),
		image:    make([][3]int, n),
		timestep: timestep,
		buf:      mat.NewDense(n, 3, nil),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			O.pos.Set(i, j, s.Pos.At(i, j))
		}
		O.image[i] = s.Image[i]
	}
	if rigid > 0 {
		O.orient = make([]quat.Number, rigid)
		copy(O.orient, s.Orient[:rigid])
	}
	return O
}
