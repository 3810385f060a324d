/*
 * hessup.go, part of gopes.
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

//Quasi-Newton updates of the running Hessian. Each rule is a pure function
//taking the current Hessian H and the displacement/gradient-change pair
//(dx, dg) of the last step, and returning an additive correction dH such
//that H+dH is still symmetric, together with a tag saying which formula
//actually fired. Under numerical degeneracy (violated curvature condition,
//vanishing residual) the rules return a zero correction tagged Skipped;
//that is a defined fallback, not an error, and callers just keep the old
//Hessian for that step.

//denominators smaller than this are considered degenerate
const updEps = 1e-12

//UpdateRule selects the quasi-Newton formula used to propagate the Hessian
//between exact evaluations.
type UpdateRule int

const (
	//BFGS is the standard rank-2 secant update. It keeps the Hessian
	//positive definite while the curvature condition dx.dg > 0 holds,
	//which makes it the choice when walking down towards a minimum.
	BFGS UpdateRule = iota
	//Bofill blends the symmetric-rank-one and Powell-symmetric-Broyden
	//corrections and tolerates negative curvature, so it is the usual
	//choice near saddle points. It is the default for IRC runs.
	Bofill
)

func (r UpdateRule) String() string {
	switch r {
	case BFGS:
		return "bfgs"
	case Bofill:
		return "bofill"
	}
	return "unknown"
}

//ParseUpdateRule returns the UpdateRule named by s ("bfgs" or "bofill").
func ParseUpdateRule(s string) (UpdateRule, error) {
	switch s {
	case "bfgs":
		return BFGS, nil
	case "bofill":
		return Bofill, nil
	}
	return 0, Error{"Unknown Hessian update rule: " + s, -1, []string{"ParseUpdateRule"}}
}

//Tag identifies the formula that produced a Hessian correction.
type Tag int

const (
	//Skipped marks a zero correction returned because the update was
	//numerically degenerate.
	Skipped Tag = iota
	TagBFGS
	TagBofill
)

func (t Tag) String() string {
	switch t {
	case TagBFGS:
		return "BFGS"
	case TagBofill:
		return "Bofill"
	}
	return "skipped"
}

//Update applies the rule to (H, dx, dg) and returns the additive correction
//and the tag for the formula that fired. H is not modified.
func (r UpdateRule) Update(H *mat.SymDense, dx, dg []float64) (*mat.SymDense, Tag) {
	switch r {
	case BFGS:
		return bfgsUpdate(H, dx, dg)
	case Bofill:
		return bofillUpdate(H, dx, dg)
	}
	panic("Update called on an unknown rule")
}

//bfgsUpdate is the rank-2 secant correction
//dH = dg dg'/(dg.dx) - (H dx)(H dx)'/(dx.H dx).
//If the curvature condition dg.dx > 0 does not hold (or barely holds),
//the update is skipped.
func bfgsUpdate(H *mat.SymDense, dx, dg []float64) (*mat.SymDense, Tag) {
	n := len(dx)
	dH := mat.NewSymDense(n, nil)
	dgdx := floats.Dot(dg, dx)
	if dgdx <= updEps {
		return dH, Skipped
	}
	hdx := make([]float64, n)
	hdxv := mat.NewVecDense(n, hdx)
	hdxv.MulVec(H, mat.NewVecDense(n, dx))
	dxhdx := floats.Dot(dx, hdx)
	if dxhdx <= updEps {
		return dH, Skipped
	}
	dH.SymRankOne(dH, 1/dgdx, mat.NewVecDense(n, dg))
	dH.SymRankOne(dH, -1/dxhdx, hdxv)
	return dH, TagBFGS
}

//bofillUpdate mixes the SR1 and PSB corrections,
//dH = mix*dH_SR1 + (1-mix)*dH_PSB, with
//mix = (r.dx)^2 / ((r.r)(dx.dx)) and r = dg - H dx.
//mix is the squared collinearity of the SR1 residual r with the step, so
//the formula leans on SR1 exactly when SR1 is well conditioned. A vanishing
//residual means the secant condition already holds and the update is skipped.
func bofillUpdate(H *mat.SymDense, dx, dg []float64) (*mat.SymDense, Tag) {
	n := len(dx)
	dH := mat.NewSymDense(n, nil)
	r := make([]float64, n)
	rv := mat.NewVecDense(n, r)
	rv.MulVec(H, mat.NewVecDense(n, dx))
	for i := range r {
		r[i] = dg[i] - r[i]
	}
	rr := floats.Dot(r, r)
	dxdx := floats.Dot(dx, dx)
	if rr <= updEps || dxdx <= updEps {
		return dH, Skipped
	}
	rdx := floats.Dot(r, dx)
	mix := rdx * rdx / (rr * dxdx)
	dxv := mat.NewVecDense(n, dx)
	//SR1 part; its denominator r.dx vanishes exactly when mix does,
	//so the weight kills the ill-conditioned term on its own.
	if mix > updEps {
		dH.SymRankOne(dH, mix/rdx, rv)
	}
	//PSB part
	dH.RankTwo(dH, (1-mix)/dxdx, rv, dxv)
	dH.SymRankOne(dH, -(1-mix)*rdx/(dxdx*dxdx), dxv)
	return dH, TagBofill
}
