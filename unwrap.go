/*
 * unwrap.go, part of godyn.
 *
 * Copyright © 2017 Malcolm Ramsay <malramsay64@gmail.com>
 *
 * Distributed under terms of the MIT license.
 *
 */

package dyn

import "gonum.org/v1/gonum/mat"

// Unwrap converts wrapped periodic positions into absolute positions by
// taking into account the image each body exists on, relative to the
// reference images ref captured at origin time:
//
//	absolute = pos + (image - ref) .* box
//
// component-wise along each axis. pos must have 3 columns, and image and
// ref at least as many entries as pos has rows. If dst is nil a new matrix
// is allocated; otherwise it must have the dimensions of pos and is
// overwritten. Unwrap is a pure function of its inputs: a body whose image
// is unchanged since the reference keeps its raw wrapped position.
func Unwrap(dst, pos *mat.Dense, image, ref [][3]int, box Box) *mat.Dense {
	r, _ := pos.Dims()
	if dst == nil {
		dst = mat.NewDense(r, 3, nil)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < 3; j++ {
			dst.Set(i, j, pos.At(i, j)+float64(image[i][j]-ref[i][j])*box[j])
		}
	}
	return dst
}
