/*
 * displace.go, part of gopes.
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

package irc

import (
	"fmt"

	"github.com/rmera/gopes"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//TSDisplacements produces the two starting geometries for an IRC from a
//first-order saddle point: the transition-state geometry displaced by
//length (in mass-weighted coordinates) along the imaginary mode, once in
//each direction. hess is the Cartesian Hessian at the saddle point; it is
//mass-weighted and diagonalized here, and its lowest eigenvalue must be
//negative, otherwise tsCart is not a transition state and an error is
//returned. The returned geometries are Cartesian.
func TSDisplacements(mol *pes.Mol, tsCart []float64, hess *mat.SymDense, length float64) (fwd, bwd []float64, err error) {
	dim := 3 * mol.Len()
	if len(tsCart) != dim || hess.SymmetricDim() != dim {
		return nil, nil, Error{fmt.Sprintf("Mismatched dimensions: %d coordinates, %d Hessian rows, %d atoms",
			len(tsCart), hess.SymmetricDim(), mol.Len()), -1, []string{"TSDisplacements"}}
	}
	sqrtm := mol.SqrtMasses()
	mwH := pes.MassWeighHessian(hess, sqrtm)
	var eig mat.EigenSym
	if ok := eig.Factorize(mwH, true); !ok {
		return nil, nil, Error{"Eigendecomposition of the mass-weighted Hessian failed", -1, []string{"TSDisplacements"}}
	}
	vals := eig.Values(nil)
	//gonum returns the eigenvalues in ascending order, so the transition
	//mode, if any, comes first.
	if vals[0] >= 0 {
		return nil, nil, Error{fmt.Sprintf("Not a first-order saddle point: lowest eigenvalue %.6e is not negative",
			vals[0]), -1, []string{"TSDisplacements"}}
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	mode := mat.Col(nil, 0, &vecs)
	mwTS := pes.MassWeigh(tsCart, sqrtm)
	f := clone(mwTS)
	floats.AddScaled(f, length, mode)
	b := clone(mwTS)
	floats.AddScaled(b, -length, mode)
	return pes.UnWeigh(f, sqrtm), pes.UnWeigh(b, sqrtm), nil
}
