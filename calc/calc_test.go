/*
 * calc_test.go, part of gopes.
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
 */

package calc

import (
	"fmt"
	"math"
	"testing"

	"github.com/rmera/gopes"
	"gonum.org/v1/gonum/mat"
)

func oneAtom(Te *testing.T) *pes.Mol {
	mol, err := pes.NewMol([]*pes.Atom{{Symbol: "H", Mass: 1.0}})
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

func TestHarmonic(Te *testing.T) {
	fmt.Println("Harmonic surface test!")
	mol := oneAtom(Te)
	K := mat.NewSymDense(3, []float64{2, 0, 0, 0, 0, 0, 0, 0, 0})
	h, err := NewHarmonic(K, []float64{0, 0, 0}, 0)
	if err != nil {
		Te.Fatal(err)
	}
	res, err := h.Evaluate(mol, []float64{1.0, 0.3, -0.2})
	if err != nil {
		Te.Fatal(err)
	}
	//E = x^2, g = (2x, 0, 0)
	if math.Abs(res.Energy-1.0) > 1e-14 {
		Te.Errorf("Wrong energy: got %v, want 1.0", res.Energy)
	}
	if math.Abs(res.Gradient[0]-2.0) > 1e-14 || res.Gradient[1] != 0 || res.Gradient[2] != 0 {
		Te.Errorf("Wrong gradient: %v", res.Gradient)
	}
	res, err = h.EvaluateHessian(mol, []float64{1.0, 0.3, -0.2})
	if err != nil {
		Te.Fatal(err)
	}
	if res.Hessian == nil || math.Abs(res.Hessian.At(0, 0)-2.0) > 1e-14 {
		Te.Error("EvaluateHessian did not return the force-constant matrix")
	}
}

func TestMullerBrown(Te *testing.T) {
	fmt.Println("Muller-Brown surface test!")
	mol := oneAtom(Te)
	mb := new(MullerBrown)
	//deepest minimum, from the original publication
	min := []float64{-0.558223634633, 1.441725841805, 0}
	res, err := mb.Evaluate(mol, min)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(res.Energy-(-146.6995)) > 1e-2 {
		Te.Errorf("Wrong energy at the A minimum: got %v", res.Energy)
	}
	if math.Abs(res.Gradient[0]) > 1e-3 || math.Abs(res.Gradient[1]) > 1e-3 {
		Te.Errorf("Gradient does not vanish at the A minimum: %v", res.Gradient)
	}
}

//The numerical Hessian of an exact quadratic must recover its
//force-constant matrix.
func TestNumHessian(Te *testing.T) {
	mol := oneAtom(Te)
	K := mat.NewSymDense(3, []float64{
		2.0, 0.3, -0.1,
		0.3, 1.5, 0.2,
		-0.1, 0.2, 0.8,
	})
	h, err := NewHarmonic(K, []float64{0.1, -0.2, 0.3}, -1.0)
	if err != nil {
		Te.Fatal(err)
	}
	H, err := NumHessian(h, mol, []float64{1, 1, 1}, 1e-4)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(H.At(i, j)-K.At(i, j)) > 1e-6 {
				Te.Errorf("NumHessian(%d,%d): got %v, want %v", i, j, H.At(i, j), K.At(i, j))
			}
		}
	}
}
