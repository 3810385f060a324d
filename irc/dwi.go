/*
 * dwi.go, part of gopes.
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

package irc

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//squared distances below this are treated as "query sits on a sample"
const dwiEps = 1e-18

//sample is one stored expansion point of the surrogate surface. All the
//data is in mass-weighted coordinates and immutable once stored.
type sample struct {
	coords []float64
	energy float64
	grad   []float64
	hess   *mat.SymDense
}

//taylor evaluates the second-order expansion of the sample at displacement
//d from its anchor, returning the predicted energy and, if g is not nil,
//writing the predicted gradient (grad + H d) into g.
func (s *sample) taylor(d []float64, g []float64) float64 {
	n := len(d)
	hd := make([]float64, n)
	hdv := mat.NewVecDense(n, hd)
	hdv.MulVec(s.hess, mat.NewVecDense(n, d))
	e := s.energy + floats.Dot(s.grad, d) + 0.5*floats.Dot(d, hd)
	if g != nil {
		for i := range g {
			g[i] = s.grad[i] + hd[i]
		}
	}
	return e
}

//DWI is a distance-weighted interpolator over quadratic expansions of the
//potential energy surface: each stored sample carries its own second-order
//Taylor model, and a query blends the predictions of all samples with
//normalized inverse-squared-distance weights. The nearest sample dominates,
//far samples contribute vanishingly, and a query exactly on a sample anchor
//returns that sample's own prediction. The interpolator only sees data the
//calculator already produced, so querying it is cheap; that is the whole
//point, as the corrector queries it thousands of times per macro-step.
//
//Samples accumulate in insertion order (the chronological order of the
//calculator evaluations) and are never dropped.
type DWI struct {
	dim     int
	samples []sample
}

//NewDWI returns an empty interpolator for vectors of the given dimension.
func NewDWI(dim int) *DWI {
	return &DWI{dim: dim}
}

//Len returns the number of stored samples.
func (D *DWI) Len() int {
	return len(D.samples)
}

//Update appends a new expansion point. The arguments are copied, so the
//caller is free to keep mutating its own buffers. It panics on mismatched
//dimensions, as that is always a programming error.
func (D *DWI) Update(coords []float64, energy float64, grad []float64, hess *mat.SymDense) {
	if len(coords) != D.dim || len(grad) != D.dim || hess.SymmetricDim() != D.dim {
		panic("DWI.Update: mismatched dimensions")
	}
	c := make([]float64, D.dim)
	copy(c, coords)
	g := make([]float64, D.dim)
	copy(g, grad)
	h := mat.NewSymDense(D.dim, nil)
	h.CopySym(hess)
	D.samples = append(D.samples, sample{coords: c, energy: energy, grad: g, hess: h})
}

//Interpolate returns the interpolated energy at the query point, and the
//interpolated gradient if wantGrad is true (nil otherwise). The gradient
//includes the derivative of the weights, not just the blend of the sample
//gradients, so it is the exact gradient of the interpolated energy surface.
//Calling Interpolate on an empty DWI is a precondition violation and panics.
func (D *DWI) Interpolate(query []float64, wantGrad bool) (float64, []float64) {
	if len(D.samples) == 0 {
		panic("Interpolate called on a DWI with no samples")
	}
	if len(query) != D.dim {
		panic("DWI.Interpolate: mismatched dimensions")
	}
	ns := len(D.samples)
	n := D.dim

	//per-sample displacements, Taylor predictions and unnormalized weights
	ds := make([][]float64, ns)
	taylorE := make([]float64, ns)
	var taylorG [][]float64
	if wantGrad {
		taylorG = make([][]float64, ns)
	}
	v := make([]float64, ns) //v_i = 1/d_i^2
	sum := 0.0
	for i := range D.samples {
		s := &D.samples[i]
		d := make([]float64, n)
		for j := range d {
			d[j] = query[j] - s.coords[j]
		}
		ds[i] = d
		d2 := floats.Dot(d, d)
		var g []float64
		if wantGrad {
			g = make([]float64, n)
		}
		e := s.taylor(d, g)
		//removable singularity: the query sits on this anchor, so its
		//weight tends to one and everyone else's to zero.
		if d2 < dwiEps {
			return e, g
		}
		taylorE[i] = e
		if wantGrad {
			taylorG[i] = g
		}
		v[i] = 1 / d2
		sum += v[i]
	}
	energy := 0.0
	for i := range v {
		energy += v[i] / sum * taylorE[i]
	}
	if !wantGrad {
		return energy, nil
	}
	//gradient of the weights: v_i = |d_i|^-2, so grad v_i = -2 d_i v_i^2,
	//and grad w_i = grad v_i/S - v_i/S^2 * sum_j grad v_j.
	gradSum := make([]float64, n) //sum_j grad v_j
	for i := range v {
		floats.AddScaled(gradSum, -2*v[i]*v[i], ds[i])
	}
	grad := make([]float64, n)
	for i := range v {
		w := v[i] / sum
		//w_i * grad T_i
		floats.AddScaled(grad, w, taylorG[i])
		//T_i * grad w_i
		floats.AddScaled(grad, -2*v[i]*v[i]*taylorE[i]/sum, ds[i])
		floats.AddScaled(grad, -w/sum*taylorE[i], gradSum)
	}
	return energy, grad
}
