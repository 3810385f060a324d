/*
 * analytic.go, part of gopes.
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

package calc

import (
	"fmt"
	"math"

	"github.com/rmera/gopes"
	"gonum.org/v1/gonum/mat"
)

//Harmonic is an exact quadratic surface E(x) = E0 + 1/2 (x-x0)' K (x-x0),
//with stationary point x0. Its gradient field is linear and its Hessian
//constant, which makes it the reference surface for integrator tests:
//every local quadratic model built on it is exact.
type Harmonic struct {
	K  *mat.SymDense
	X0 []float64
	E0 float64
}

//NewHarmonic returns a Harmonic surface with force-constant matrix k,
//stationary point x0 and energy e0 at the stationary point.
func NewHarmonic(k *mat.SymDense, x0 []float64, e0 float64) (*Harmonic, error) {
	if k == nil || x0 == nil {
		return nil, Error{"Nil force constants or stationary point", "Harmonic", []string{"NewHarmonic"}}
	}
	if k.SymmetricDim() != len(x0) {
		return nil, Error{fmt.Sprintf("Mismatched dimensions: %d force constants, %d coordinates", k.SymmetricDim(), len(x0)), "Harmonic", []string{"NewHarmonic"}}
	}
	return &Harmonic{K: k, X0: x0, E0: e0}, nil
}

func (H *Harmonic) Evaluate(mol *pes.Mol, cart []float64) (*Result, error) {
	if len(cart) != len(H.X0) {
		return nil, Error{fmt.Sprintf("Got %d coordinates, want %d", len(cart), len(H.X0)), "Harmonic", []string{"Evaluate"}}
	}
	n := len(cart)
	d := make([]float64, n)
	for i := range cart {
		d[i] = cart[i] - H.X0[i]
	}
	g := make([]float64, n)
	gv := mat.NewVecDense(n, g)
	gv.MulVec(H.K, mat.NewVecDense(n, d))
	e := H.E0
	for i := range d {
		e += 0.5 * d[i] * g[i]
	}
	return &Result{Energy: e, Gradient: g}, nil
}

func (H *Harmonic) EvaluateHessian(mol *pes.Mol, cart []float64) (*Result, error) {
	res, err := H.Evaluate(mol, cart)
	if err != nil {
		return nil, errDecorate(err, "EvaluateHessian")
	}
	hess := mat.NewSymDense(H.K.SymmetricDim(), nil)
	hess.CopySym(H.K)
	res.Hessian = hess
	return res, nil
}

//The Muller-Brown parameters, in the usual order of the four Gaussians.
var (
	mbA = [4]float64{-200, -100, -170, 15}
	mba = [4]float64{-1, -1, -6.5, 0.7}
	mbb = [4]float64{0, 0, 11, 0.6}
	mbc = [4]float64{-10, -10, -6.5, 0.7}
	mbx = [4]float64{1, 0, -0.5, -1}
	mby = [4]float64{0, 0.5, 1.5, 1}
)

//MullerBrown is the classic 2D model surface of Muller and Brown
//(Theor. Chim. Acta 53, 75, 1979). It reads the x and y coordinates of the
//first atom and ignores everything else, so it should be used with
//single-atom geometries. The Hessian is obtained by central finite
//differences of the analytic gradient.
type MullerBrown struct{}

func (MB *MullerBrown) Evaluate(mol *pes.Mol, cart []float64) (*Result, error) {
	if len(cart) < 2 {
		return nil, Error{"Need at least x and y coordinates", "MullerBrown", []string{"Evaluate"}}
	}
	x, y := cart[0], cart[1]
	e := 0.0
	gx, gy := 0.0, 0.0
	for i := 0; i < 4; i++ {
		dx := x - mbx[i]
		dy := y - mby[i]
		t := mbA[i] * math.Exp(mba[i]*dx*dx+mbb[i]*dx*dy+mbc[i]*dy*dy)
		e += t
		gx += t * (2*mba[i]*dx + mbb[i]*dy)
		gy += t * (mbb[i]*dx + 2*mbc[i]*dy)
	}
	g := make([]float64, len(cart))
	g[0] = gx
	g[1] = gy
	return &Result{Energy: e, Gradient: g}, nil
}

func (MB *MullerBrown) EvaluateHessian(mol *pes.Mol, cart []float64) (*Result, error) {
	res, err := MB.Evaluate(mol, cart)
	if err != nil {
		return nil, errDecorate(err, "EvaluateHessian")
	}
	hess, err := NumHessian(MB, mol, cart, 1e-5)
	if err != nil {
		return nil, errDecorate(err, "EvaluateHessian")
	}
	res.Hessian = hess
	return res, nil
}

//errDecorate is a helper function that asserts that the error implements
//pes.Error and calls Decorate on it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(pes.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
