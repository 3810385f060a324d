/*
 * massweight.go, part of gopes.
 *
 *
 * Copyright 2025 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package pes

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

/*The intrinsic reaction coordinate is a steepest-descent path in
 * mass-weighted coordinates q = sqrt(m)*x, so everything in the irc
 * subpackage works in that space. The transforms here are pure functions:
 * the mass-weighted representation of a quantity is always derived from
 * its Cartesian counterpart, never mutated on its own.
 *
 * Mind the chain rule: coordinate-like vectors are weighted by
 * multiplication, gradients by division (dE/dq = (1/sqrt(m)) dE/dx),
 * and Hessians by division by both masses. UnWeigh is the exact inverse
 * of MassWeigh, so the gradient transforms just use the two functions
 * with the roles swapped.*/

//MassWeigh returns v scaled elementwise by the square roots of the masses.
//sqrtm can be given per atom (length len(v)/3, each entry broadcast to the
//x, y and z components of its atom) or per coordinate (length len(v)).
//It panics on any other length mismatch.
func MassWeigh(v, sqrtm []float64) []float64 {
	w := make([]float64, len(v))
	switch {
	case len(sqrtm) == len(v):
		for i, s := range sqrtm {
			w[i] = v[i] * s
		}
	case 3*len(sqrtm) == len(v):
		for i, s := range sqrtm {
			w[3*i] = v[3*i] * s
			w[3*i+1] = v[3*i+1] * s
			w[3*i+2] = v[3*i+2] * s
		}
	default:
		panic("MassWeigh: mismatched vector and sqrt-masses lengths")
	}
	return w
}

//UnWeigh returns v scaled elementwise by the inverse square roots of the
//masses. It is the exact inverse of MassWeigh: UnWeigh(MassWeigh(v,m),m)
//recovers v to floating point precision. The sqrtm slice follows the same
//per-atom/per-coordinate convention as in MassWeigh.
func UnWeigh(v, sqrtm []float64) []float64 {
	w := make([]float64, len(v))
	switch {
	case len(sqrtm) == len(v):
		for i, s := range sqrtm {
			w[i] = v[i] / s
		}
	case 3*len(sqrtm) == len(v):
		for i, s := range sqrtm {
			w[3*i] = v[3*i] / s
			w[3*i+1] = v[3*i+1] / s
			w[3*i+2] = v[3*i+2] / s
		}
	default:
		panic("UnWeigh: mismatched vector and sqrt-masses lengths")
	}
	return w
}

//MassWeighHessian returns the mass-weighted Hessian H'ij = Hij/(si*sj),
//where si is the square root of the mass associated to coordinate i.
//sqrtm must be per coordinate (length n, with H n x n) or per atom
//(length n/3). H is not modified.
func MassWeighHessian(H *mat.SymDense, sqrtm []float64) *mat.SymDense {
	n := H.SymmetricDim()
	s := sqrtm
	if 3*len(sqrtm) == n {
		s = make([]float64, n)
		for i, v := range sqrtm {
			s[3*i], s[3*i+1], s[3*i+2] = v, v, v
		}
	} else if len(sqrtm) != n {
		panic("MassWeighHessian: mismatched Hessian and sqrt-masses dimensions")
	}
	W := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			W.SetSym(i, j, H.At(i, j)/(s[i]*s[j]))
		}
	}
	return W
}

//RMS returns the root mean square of the elements of v.
//It panics on an empty vector.
func RMS(v []float64) float64 {
	if len(v) == 0 {
		panic("RMS of an empty vector")
	}
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum / float64(len(v)))
}
