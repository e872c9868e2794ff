/*
 * rotation.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Rotations computes the angle each rigid body has rotated between the
// origin orientations q0 and the current orientations q. The relative
// rotation quaternion q*conj(q0)/|q0|^2 is converted to its rotation-vector
// representation and reduced to a single scalar by summing the three
// components; the sum is then wrapped into (-pi, pi]. Multiple full turns
// are not accounted for.
//
// Summing the rotation-vector components only captures the net rotation
// when motion is confined to a single plane, which is the case for the 2D
// rigid molecules this is used on. It is not a general 3D rotation
// magnitude.
//
// q must have at least len(q0) elements. If dst is nil a new slice is
// allocated; otherwise it must have at least len(q0) elements.
func Rotations(dst []float64, q0, q []quat.Number) []float64 {
	n := len(q0)
	if dst == nil {
		dst = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		rel := quat.Mul(q[i], quat.Conj(q0[i]))
		if a := quat.Abs(q0[i]); a != 0 {
			rel = quat.Scale(1/(a*a), rel)
		}
		x, y, z := rotationVector(rel)
		dst[i] = wrapAngle(x + y + z)
	}
	return dst[:n]
}

//rotationVector converts a rotation quaternion to axis*angle form, with the
//angle in [0, 2pi).
func rotationVector(r quat.Number) (x, y, z float64) {
	v := math.Sqrt(r.Imag*r.Imag + r.Jmag*r.Jmag + r.Kmag*r.Kmag)
	if v == 0 {
		return 0, 0, 0
	}
	angle := 2 * math.Atan2(v, r.Real)
	s := angle / v
	return r.Imag * s, r.Jmag * s, r.Kmag * s
}

//wrapAngle reduces a to the range (-pi, pi]. Both corrections are applied
//in sequence, so pi itself maps to pi and -pi maps to pi.
func wrapAngle(a float64) float64 {
	if a > math.Pi {
		a -= 2 * math.Pi
	}
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
