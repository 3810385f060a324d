/*
 * calc.go, part of gopes.
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

//Package calc defines the contract between the numerical methods in gopes and
//whatever produces energies, gradients and Hessians for a geometry. Those can
//be external quantum-chemistry programs wrapped behind the Calculator
//interface, or the analytic model surfaces defined here, which are exact,
//cheap, and mostly used for testing the integrators.
package calc

import (
	"strings"

	"github.com/rmera/gopes"
	"gonum.org/v1/gonum/mat"
)

//Result holds the data produced by one evaluation of a calculator at one
//geometry. Gradient is a flat vector matching the coordinates given to
//Evaluate. Hessian may be nil if the calculator was not asked for it, or
//cannot produce it.
type Result struct {
	Energy   float64
	Gradient []float64
	Hessian  *mat.SymDense
}

//Calculator is the interface to anything that can compute the energy and
//gradient of a molecule at the given Cartesian coordinates. Evaluations may
//take from seconds to hours when they wrap an external program; the call
//blocks until the result is available. A failed evaluation (the external
//program crashed or its output couldn't be parsed) returns an error which
//callers must treat as fatal for the current run.
type Calculator interface {
	Evaluate(mol *pes.Mol, cart []float64) (*Result, error)
}

//HessianCalculator is implemented by calculators that can also produce
//second derivatives. EvaluateHessian returns a Result with the Hessian
//field set, besides the energy and gradient.
type HessianCalculator interface {
	Calculator
	EvaluateHessian(mol *pes.Mol, cart []float64) (*Result, error)
}

//Error is the error type for failed evaluations. It fulfills pes.Error.
type Error struct {
	message    string
	calculator string //name of the calculator/program that failed
	deco       []string
}

func NewError(message, calculator string, deco []string) Error {
	return Error{message, calculator, deco}
}

func (err Error) Error() string {
	return err.message + " (calculator: " + err.calculator + ") " + strings.Join(err.deco, "/")
}

//Decorate adds the deco string to the decoration slice of strings of the
//error, and returns the resulting slice.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Calculator returns the name of the calculator that produced the error.
func (err Error) Calculator() string { return err.calculator }
