/*
 * eulerpc_test.go, part of gopes.
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

package irc

import (
	"fmt"
	"math"
	"testing"

	"github.com/rmera/gopes"
	"github.com/rmera/gopes/calc"
	"gonum.org/v1/gonum/mat"
)

//a single unit-mass atom, so mass-weighted and Cartesian
//coordinates coincide and the expected numbers can be done by hand
func oneAtom(Te *testing.T) *pes.Mol {
	mol, err := pes.NewMol([]*pes.Atom{{Symbol: "H", Mass: 1.0}})
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

//E = x^2 on a unit-mass atom.
func xSquared(Te *testing.T) *calc.Harmonic {
	K := mat.NewSymDense(3, []float64{2, 0, 0, 0, 0, 0, 0, 0, 0})
	h, err := calc.NewHarmonic(K, []float64{0, 0, 0}, 0)
	if err != nil {
		Te.Fatal(err)
	}
	return h
}

func TestNewValidation(Te *testing.T) {
	fmt.Println("EulerPC construction test!")
	mol := oneAtom(Te)
	h := xSquared(Te)
	if _, err := New(nil, h, nil); err == nil {
		Te.Error("Expected an error for a nil molecule")
	}
	if _, err := New(mol, nil, nil); err == nil {
		Te.Error("Expected an error for a nil calculator")
	}
	par := DefaultParams()
	par.HessianUpdate = "nope"
	if _, err := New(mol, h, par); err == nil {
		Te.Error("Expected an error for an unknown update rule")
	}
	par = DefaultParams()
	par.HessianRecalc = 5
	if _, err := New(mol, h, par); err != nil {
		Te.Errorf("Harmonic can do Hessians, hessian_recalc should be accepted: %v", err)
	}
	if _, err := New(mol, gradOnly{h}, par); err == nil {
		Te.Error("Expected an error: hessian_recalc with a gradient-only calculator")
	}
}

//On E = x^2 starting at x=10 with step budget to spare, the predictor
//must march exactly the requested arc length down the x axis.
func TestPredictorArcLength(Te *testing.T) {
	fmt.Println("Predictor arc length test!")
	mol := oneAtom(Te)
	par := DefaultParams()
	par.StepLength = 1.0
	par.MaxPredSteps = 1000
	e, err := New(mol, xSquared(Te), par)
	if err != nil {
		Te.Fatal(err)
	}
	//frozen model: gradient 2x along the x axis
	e.mwH = mat.NewSymDense(3, []float64{2, 0, 0, 0, 0, 0, 0, 0, 0})
	init := []float64{10, 0, 0}
	end, outcome := e.predictor(init, []float64{20, 0, 0})
	if outcome != predReached {
		Te.Fatalf("Expected the predictor to reach the target, got outcome %v", outcome)
	}
	//unit masses make conv_fact clamp to 2, so the Euler step is
	//1.0/(1000/2) = 2e-3 and 500 steps land exactly on x=9
	if math.Abs(end[0]-9.0) > 1e-10 || math.Abs(end[1]) > 1e-14 || math.Abs(end[2]) > 1e-14 {
		Te.Errorf("Predictor endpoint: got %v, want (9,0,0)", end)
	}
	if got := e.pathLength(init, end); math.Abs(got-par.StepLength) > 1e-10 {
		Te.Errorf("Covered arc length %v, want %v", got, par.StepLength)
	}
}

//The arc covered by the predictor grows monotonically with the sub-steps.
//With the micro-step held fixed, predictors with growing targets retrace the
//same march and stop at successive points of it, so the covered arcs must
//come out strictly increasing, each within one micro-step of its target.
func TestPredictorArcMonotonic(Te *testing.T) {
	fmt.Println("Predictor arc monotonicity test!")
	mol := oneAtom(Te)
	//a coupled quadratic, so the march actually curves
	K := mat.NewSymDense(3, []float64{2, 0.5, 0, 0.5, 1, 0, 0, 0, 0})
	init := []float64{1, 1, 0}
	mwGrad := []float64{2.5, 1.5, 0} //K init
	prevArc := 0.0
	for i := 1; i <= 5; i++ {
		par := DefaultParams()
		par.StepLength = 0.2 * float64(i)
		par.MaxPredSteps = 200 * i //micro-step stays 2e-3
		e, err := New(mol, xSquared(Te), par)
		if err != nil {
			Te.Fatal(err)
		}
		e.mwH = K
		end, outcome := e.predictor(init, mwGrad)
		if outcome != predReached {
			Te.Fatalf("Target %v not reached, outcome %v", par.StepLength, outcome)
		}
		arc := e.pathLength(init, end)
		if arc <= prevArc {
			Te.Errorf("Covered arc did not grow: %v after %v", arc, prevArc)
		}
		if arc < par.StepLength || arc-par.StepLength > 2e-3 {
			Te.Errorf("Target %v overshot by more than one micro-step: %v", par.StepLength, arc)
		}
		prevArc = arc
	}
}

//On an exactly quadratic field the corrector endpoint does not depend on
//the refinement level, so Richardson must converge at the second level.
func TestCorrectorQuadratic(Te *testing.T) {
	fmt.Println("Corrector on a quadratic field test!")
	mol := oneAtom(Te)
	e, err := New(mol, xSquared(Te), nil)
	if err != nil {
		Te.Fatal(err)
	}
	dwi := NewDWI(3)
	H := mat.NewSymDense(3, []float64{2, 0, 0, 0, 0, 0, 0, 0, 0})
	dwi.Update([]float64{1, 0, 0}, 1.0, []float64{2, 0, 0}, H)
	corr, k, err := e.corrector([]float64{1, 0, 0}, 0.1, dwi)
	if err != nil {
		Te.Fatal(err)
	}
	if k > 2 {
		Te.Errorf("Expected convergence by the second refinement level, got %d", k)
	}
	if math.Abs(corr[0]-0.9) > 1e-8 || math.Abs(corr[1]) > 1e-10 || math.Abs(corr[2]) > 1e-10 {
		Te.Errorf("Corrected point: got %v, want (0.9,0,0)", corr)
	}
}

//A walk started a fraction of a micro-step away from the minimum of a
//bowl can only bounce back and forth across it. The corrector must
//notice and hand back the last stable point instead of spinning.
func TestCorrectorOscillation(Te *testing.T) {
	fmt.Println("Corrector oscillation guard test!")
	mol := oneAtom(Te)
	e, err := New(mol, xSquared(Te), nil)
	if err != nil {
		Te.Fatal(err)
	}
	dwi := NewDWI(3)
	eye := mat.NewSymDense(3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	dwi.Update([]float64{0, 0, 0}, 0.0, []float64{0, 0, 0}, eye)
	stepLength := 1.0
	corrStep := stepLength / float64(corrBasePoints-1)
	init := []float64{0.3 * corrStep, 0, 0}
	corr, k, err := e.corrector(init, stepLength, dwi)
	if err != nil {
		Te.Fatal(err)
	}
	if k != 0 {
		Te.Errorf("The oscillation should already show at the coarsest level, got k=%d", k)
	}
	if math.Abs(corr[0]-init[0]) > 1e-12 {
		Te.Errorf("Expected truncation to the starting point %v, got %v", init, corr)
	}
}

//A NaN in a stored gradient poisons the whole interpolated field, and a walk
//on NaNs satisfies no comparison: not the arc target, not the gradient floor,
//not the oscillation guard. The corrector must give up with an error instead
//of walking forever.
func TestCorrectorNaNField(Te *testing.T) {
	fmt.Println("Corrector NaN field test!")
	mol := oneAtom(Te)
	e, err := New(mol, xSquared(Te), nil)
	if err != nil {
		Te.Fatal(err)
	}
	dwi := NewDWI(3)
	eye := mat.NewSymDense(3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	dwi.Update([]float64{0, 0, 0}, 0.0, []float64{math.NaN(), 0, 0}, eye)
	if _, _, err := e.corrector([]float64{1, 0, 0}, 0.1, dwi); err == nil {
		Te.Error("Expected an error from a walk on a NaN field")
	}
}

//Full macro-step on E = x^2 from x=1: the corrected first point must land
//on the exact steepest-descent arc-length point, x=0.9.
func TestRunQuadratic(Te *testing.T) {
	fmt.Println("EulerPC on a one-dimensional quadratic test!")
	mol := oneAtom(Te)
	par := DefaultParams()
	par.MaxCycles = 2
	e, err := New(mol, xSquared(Te), par)
	if err != nil {
		Te.Fatal(err)
	}
	path, err := e.Run([]float64{1, 0, 0}, nil, Forward)
	if err != nil {
		Te.Fatal(err)
	}
	if len(path.Points) != 2 {
		Te.Fatalf("Expected 2 evaluated points, got %d", len(path.Points))
	}
	if math.Abs(path.Points[0].Coords[0]-1.0) > 1e-14 {
		Te.Errorf("First point should be the start geometry, got %v", path.Points[0].Coords)
	}
	p := path.Points[1]
	if math.Abs(p.Coords[0]-0.9) > 1e-6 {
		Te.Errorf("Corrected point: got x=%v, want 0.9", p.Coords[0])
	}
	if math.Abs(p.Energy-0.81) > 1e-5 {
		Te.Errorf("Energy at the corrected point: got %v, want 0.81", p.Energy)
	}
	if math.Abs(path.Last[0]-0.8) > 1e-6 {
		Te.Errorf("Final geometry: got x=%v, want 0.8", path.Last[0])
	}
	if path.Converged {
		Te.Error("Two cycles on this surface cannot satisfy rms(grad) <= 1e-4")
	}
}

//Both branches of the Muller-Brown IRC from the known first-order saddle
//point. Just a handful of macro-steps, checking that both walks descend
//and leave in opposite directions.
func TestWalkMullerBrown(Te *testing.T) {
	fmt.Println("Muller-Brown IRC test!")
	mol := oneAtom(Te)
	mb := new(calc.MullerBrown)
	saddle := []float64{-0.822001558732732, 0.624312802814871, 0}
	hres, err := mb.EvaluateHessian(mol, saddle)
	if err != nil {
		Te.Fatal(err)
	}
	tsres, err := mb.Evaluate(mol, saddle)
	if err != nil {
		Te.Fatal(err)
	}
	par := DefaultParams()
	par.StepLength = 0.02
	par.MaxCycles = 3
	par.DisplLength = 0.05
	e, err := New(mol, mb, par)
	if err != nil {
		Te.Fatal(err)
	}
	fwd, bwd, err := e.Walk(&Anchor{Coords: saddle, Hessian: hres.Hessian})
	if err != nil {
		Te.Fatal(err)
	}
	for _, path := range []*Path{fwd, bwd} {
		if len(path.Points) < 2 {
			Te.Fatalf("Direction %v: too few points (%d)", path.Direction, len(path.Points))
		}
		first := path.Points[0]
		last := path.Points[len(path.Points)-1]
		if first.Energy >= tsres.Energy {
			Te.Errorf("Direction %v: the displaced start is not below the saddle (%v >= %v)",
				path.Direction, first.Energy, tsres.Energy)
		}
		if last.Energy >= first.Energy {
			Te.Errorf("Direction %v: the walk did not descend (%v >= %v)",
				path.Direction, last.Energy, first.Energy)
		}
	}
	fl := fwd.Points[len(fwd.Points)-1].Coords
	bl := bwd.Points[len(bwd.Points)-1].Coords
	if dist(fl, bl) < par.DisplLength {
		Te.Errorf("The two branches did not separate: %v vs %v", fl, bl)
	}
}

//A failed evaluation must abort the run with a decorated error, and the
//path walked so far must still come back.
func TestRunReportsFatalErrors(Te *testing.T) {
	mol := oneAtom(Te)
	par := DefaultParams()
	par.MaxCycles = 1
	e, err := New(mol, errCalc{}, par)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := e.Run([]float64{1, 0, 0}, nil, Forward); err == nil {
		Te.Error("Expected the calculator failure to be reported")
	}
}

//gradOnly hides the Hessian ability of an inner calculator.
type gradOnly struct {
	inner calc.Calculator
}

func (g gradOnly) Evaluate(mol *pes.Mol, cart []float64) (*calc.Result, error) {
	return g.inner.Evaluate(mol, cart)
}

//errCalc always fails.
type errCalc struct{}

func (errCalc) Evaluate(mol *pes.Mol, cart []float64) (*calc.Result, error) {
	return nil, calc.NewError("deliberate failure", "errCalc", nil)
}
