/*
 * findiff.go, part of gopes.
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
	"github.com/rmera/gopes"
	"gonum.org/v1/gonum/mat"
)

//NumHessian builds a Hessian for c at cart by central finite differences of
//the gradient, with displacement step along each coordinate. The result is
//symmetrized by averaging H and H'. It costs 2*len(cart) evaluations, so it
//is only reasonable for cheap (analytic) calculators; external programs
//normally provide their own second derivatives.
func NumHessian(c Calculator, mol *pes.Mol, cart []float64, step float64) (*mat.SymDense, error) {
	n := len(cart)
	cols := make([][]float64, n)
	disp := make([]float64, n)
	for i := 0; i < n; i++ {
		copy(disp, cart)
		disp[i] = cart[i] + step
		plus, err := c.Evaluate(mol, disp)
		if err != nil {
			return nil, errDecorate(err, "NumHessian")
		}
		disp[i] = cart[i] - step
		minus, err := c.Evaluate(mol, disp)
		if err != nil {
			return nil, errDecorate(err, "NumHessian")
		}
		col := make([]float64, n)
		for j := 0; j < n; j++ {
			col[j] = (plus.Gradient[j] - minus.Gradient[j]) / (2 * step)
		}
		cols[i] = col
	}
	H := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			H.SetSym(i, j, 0.5*(cols[i][j]+cols[j][i]))
		}
	}
	return H, nil
}
