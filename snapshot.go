/*
 * snapshot.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Box holds the component-wise lengths of an orthorhombic simulation box.
type Box [3]float64

// NewBox returns a Box with the given lengths along each axis.
func NewBox(x, y, z float64) Box {
	return Box{x, y, z}
}

// BoxFromConfiguration builds a Box from a generic box descriptor, as found
// in configuration sections of several trajectory formats. Only the first
// three elements (the axis lengths) are used; tilt factors, if present, are
// ignored. Descriptors with fewer than 3 elements are an error.
func BoxFromConfiguration(conf []float64) (Box, error) {
	if len(conf) < 3 {
		return Box{}, CError{fmt.Sprintf("box descriptor needs at least 3 elements, got %d", len(conf)), []string{"BoxFromConfiguration"}}
	}
	return Box{conf[0], conf[1], conf[2]}, nil
}

// Snapshot is one frame of a trajectory: the state of every body in the
// system at a single timestep. Positions are wrapped into the periodic box;
// Image carries the per-body box-crossing counts needed to unwrap them.
// Orient and Body are optional: they are only required when rigid-body
// observables are requested.
type Snapshot struct {
	Timestep int
	Pos      *mat.Dense  // Nx3 wrapped positions
	Image    [][3]int    // per-body periodic image counts
	Orient   []quat.Number // per-body orientations, nil for point particles
	Body     []int       // per-body rigid-body ids, nil for point particles
	Box      Box
}

// NewSnapshot returns a Snapshot with positions and images allocated for n
// bodies. Orientations and body ids are left nil.
func NewSnapshot(n int) *Snapshot {
	return &Snapshot{
		Pos:   mat.NewDense(n, 3, nil),
		Image: make([][3]int, n),
	}
}

// Len returns the number of bodies in the snapshot.
func (S *Snapshot) Len() int {
	if S.Pos == nil {
		return 0
	}
	r, _ := S.Pos.Dims()
	return r
}

// Rigid returns the number of rigid-body centers B in the snapshot,
// i.e. max(body id)+1. The first B indices of the per-body arrays are the
// rigid centers. It is an error to call Rigid on a snapshot without
// rigid-body data.
func (S *Snapshot) Rigid() (int, error) {
	if S.Body == nil {
		return 0, CError{"snapshot carries no rigid-body ids", []string{"Snapshot.Rigid"}}
	}
	max := -1
	for _, v := range S.Body {
		if v > max {
			max = v
		}
	}
	return max + 1, nil
}
