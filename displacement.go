/*
 * displacement.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Displacements computes, for every body tracked by the origin, the
// Euclidean magnitude of its displacement between the origin configuration
// and the current snapshot. Current positions are first unwrapped against
// the origin's reference images, so no further periodic correction is
// needed. The result is order-preserving: element i corresponds to body i.
// If dst is nil a new slice is allocated; otherwise it must have at least
// Len(origin) elements.
func Displacements(dst []float64, o *Origin, s *Snapshot) []float64 {
	n := o.Len()
	if dst == nil {
		dst = make([]float64, n)
	}
	curr := Unwrap(o.buf, s.Pos.Slice(0, n, 0, 3).(*mat.Dense), s.Image[:n], o.image, s.Box)
	for i := 0; i < n; i++ {
		dx := curr.At(i, 0) - o.pos.At(i, 0)
		dy := curr.At(i, 1) - o.pos.At(i, 1)
		dz := curr.At(i, 2) - o.pos.At(i, 2)
		dst[i] = math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return dst[:n]
}
