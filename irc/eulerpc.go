/*
 * eulerpc.go, part of gopes.
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
	"fmt"
	"io"
	"log"

	"github.com/rmera/gopes"
	"github.com/rmera/gopes/calc"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Direction tells which way the path is walked from the transition state.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

//Anchor holds the data of one already-evaluated reference geometry,
//normally the transition state: its Cartesian coordinates, energy,
//gradient and Hessian. The Hessian is the only mandatory field for a
//run; with coordinates and gradient also present, the very first
//quasi-Newton update can be done against the anchor.
type Anchor struct {
	Coords   []float64
	Energy   float64
	Gradient []float64
	Hessian  *mat.SymDense
}

//Point is one evaluated geometry along the reaction path.
type Point struct {
	Coords  []float64 //Cartesian
	Energy  float64
	RMSGrad float64 //root mean square of the Cartesian gradient
}

//Path is the result of walking one direction of the IRC. Points holds the
//geometries at which the calculator was actually evaluated, in order. Last
//is the final geometry of the walk, which can be one corrector step past
//the last evaluated point.
type Path struct {
	Direction Direction
	Points    []Point
	Last      []float64
	Converged bool
}

//predictor exit tags
type predOutcome int

const (
	//the requested arc length was covered
	predReached predOutcome = iota
	//the step budget ran out, but the model gradient already meets a
	//relaxed convergence criterion: the whole run can stop here
	predConvergedEarly
	//the step budget ran out; the partial step is still accepted and
	//the macro-step proceeds with whatever arc length was achieved
	predExhausted
)

//EulerPC integrates an IRC with the Euler predictor-corrector scheme.
//It is strictly sequential: one outstanding calculator evaluation at a
//time, each macro-step depending on the previous accepted point. The
//zero value is not usable; build it with New.
type EulerPC struct {
	mol    *pes.Mol
	calc   calc.Calculator
	par    *Params
	rule   UpdateRule
	logger *log.Logger

	//per-run state, reset by Run
	sqrtm    []float64
	dim      int
	dir      Direction
	dwi      *DWI
	mwH      *mat.SymDense
	mwCoords []float64
	//histories of the accepted (cycle-start) points, mass-weighted
	histCoords [][]float64
	histGrads  [][]float64
	cycle      int
}

//New returns an EulerPC integrator for the given molecule and calculator.
//If par is nil the defaults are used. Periodic exact-Hessian recalculation
//(hessian_recalc) requires a calculator that implements
//calc.HessianCalculator; that is checked here rather than midway into a run.
func New(mol *pes.Mol, c calc.Calculator, par *Params) (*EulerPC, error) {
	if mol == nil || c == nil {
		return nil, Error{"Nil molecule or calculator", -1, []string{"New"}}
	}
	if par == nil {
		par = DefaultParams()
	}
	if err := par.Check(); err != nil {
		return nil, errDecorate(err, "New")
	}
	rule, err := ParseUpdateRule(par.HessianUpdate)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	if par.HessianRecalc > 0 {
		if _, ok := c.(calc.HessianCalculator); !ok {
			return nil, Error{"hessian_recalc requires a calculator able to produce Hessians", -1, []string{"New"}}
		}
	}
	e := &EulerPC{
		mol:    mol,
		calc:   c,
		par:    par,
		rule:   rule,
		logger: log.New(io.Discard, "", 0),
		sqrtm:  mol.SqrtMasses(),
		dim:    3 * mol.Len(),
	}
	return e, nil
}

//SetLogger directs the progress report of the integrator to l. By default
//nothing is logged.
func (e *EulerPC) SetLogger(l *log.Logger) {
	if l != nil {
		e.logger = l
	}
}

//Walk runs the IRC in both directions from the transition state described
//by ts, which needs coordinates and Hessian (the initial displacement is
//taken along the imaginary mode). It returns the forward and backward
//paths. If the forward walk fails, the backward one is not attempted.
func (e *EulerPC) Walk(ts *Anchor) (forward, backward *Path, err error) {
	if ts == nil || ts.Coords == nil || ts.Hessian == nil {
		return nil, nil, Error{"Walk needs an anchor with coordinates and Hessian", -1, []string{"Walk"}}
	}
	fwd, bwd, err := TSDisplacements(e.mol, ts.Coords, ts.Hessian, e.par.DisplLength)
	if err != nil {
		return nil, nil, errDecorate(err, "Walk")
	}
	forward, err = e.Run(fwd, ts, Forward)
	if err != nil {
		return forward, nil, errDecorate(err, "Walk")
	}
	backward, err = e.Run(bwd, ts, Backward)
	if err != nil {
		return forward, backward, errDecorate(err, "Walk")
	}
	return forward, backward, nil
}

//Run walks the IRC one direction, starting from the Cartesian geometry
//start (normally the TS displaced along the imaginary mode). ts, if not
//nil, provides the initial Hessian and, optionally, the reference data for
//the first quasi-Newton update; with a nil ts, the calculator must be able
//to produce an exact Hessian at the start geometry. Run returns the path
//walked so far even on a fatal error (failed evaluation, corrector that
//would not converge).
func (e *EulerPC) Run(start []float64, ts *Anchor, dir Direction) (*Path, error) {
	if len(start) != e.dim {
		return nil, Error{fmt.Sprintf("Got %d coordinates, want %d", len(start), e.dim), -1, []string{"Run"}}
	}
	e.dir = dir
	e.dwi = NewDWI(e.dim)
	e.histCoords = nil
	e.histGrads = nil
	e.cycle = 0
	e.mwCoords = pes.MassWeigh(start, e.sqrtm)
	path := &Path{Direction: dir}

	//first evaluation and Hessian seeding
	res, err := e.calc.Evaluate(e.mol, start)
	if err != nil {
		return path, errDecorate(err, "Run: initial evaluation")
	}
	energy := res.Energy
	//gradients transform with the inverse factor of coordinates
	mwGrad := pes.UnWeigh(res.Gradient, e.sqrtm)
	if ts != nil && ts.Hessian != nil {
		e.mwH = pes.MassWeighHessian(ts.Hessian, e.sqrtm)
		if ts.Coords != nil && ts.Gradient != nil {
			dx := sub(e.mwCoords, pes.MassWeigh(ts.Coords, e.sqrtm))
			dg := sub(mwGrad, pes.UnWeigh(ts.Gradient, e.sqrtm))
			dH, tag := e.rule.Update(e.mwH, dx, dg)
			e.mwH.AddSym(e.mwH, dH)
			e.logger.Printf("cycle=000 did %s hessian update against the anchor", tag)
		}
	} else {
		hc, ok := e.calc.(calc.HessianCalculator)
		if !ok {
			return path, Error{"No anchor Hessian given and the calculator cannot produce one", -1, []string{"Run"}}
		}
		hres, err := hc.EvaluateHessian(e.mol, start)
		if err != nil {
			return path, errDecorate(err, "Run: initial Hessian")
		}
		e.mwH = pes.MassWeighHessian(hres.Hessian, e.sqrtm)
	}
	e.dwi.Update(e.mwCoords, energy, mwGrad, e.mwH)
	e.pushHist(e.mwCoords, mwGrad)
	path.Points = append(path.Points, Point{Coords: clone(start), Energy: energy, RMSGrad: pes.RMS(res.Gradient)})

	for cycle := 0; cycle < e.par.MaxCycles; cycle++ {
		e.cycle = cycle
		if cycle > 0 {
			//evaluate at the point accepted by the last corrector
			cart := pes.UnWeigh(e.mwCoords, e.sqrtm)
			res, err = e.calc.Evaluate(e.mol, cart)
			if err != nil {
				path.Last = cart
				return path, errDecorate(err, fmt.Sprintf("Run: evaluation at cycle %d", cycle))
			}
			energy = res.Energy
			mwGrad = pes.UnWeigh(res.Gradient, e.sqrtm)
			e.pushHist(e.mwCoords, mwGrad)
			rmsGrad := pes.RMS(res.Gradient)
			path.Points = append(path.Points, Point{Coords: clone(cart), Energy: energy, RMSGrad: rmsGrad})
			e.logger.Printf("cycle=%03d dir=%s energy=%.8f rms(grad)=%.3e", cycle, dir, energy, rmsGrad)
			if rmsGrad <= e.par.RMSGradThresh {
				e.logger.Printf("cycle=%03d converged on rms(grad)", cycle)
				path.Converged = true
				break
			}
			//propagate the Hessian to the current point
			if e.par.HessianRecalc > 0 && cycle%e.par.HessianRecalc == 0 {
				hc := e.calc.(calc.HessianCalculator) //checked in New
				hres, err := hc.EvaluateHessian(e.mol, cart)
				if err != nil {
					path.Last = cart
					return path, errDecorate(err, fmt.Sprintf("Run: Hessian recalculation at cycle %d", cycle))
				}
				e.mwH = pes.MassWeighHessian(hres.Hessian, e.sqrtm)
				e.logger.Printf("cycle=%03d calculated exact hessian", cycle)
			} else {
				last := len(e.histCoords) - 1
				dx := sub(e.histCoords[last], e.histCoords[last-1])
				dg := sub(e.histGrads[last], e.histGrads[last-1])
				dH, tag := e.rule.Update(e.mwH, dx, dg)
				e.mwH.AddSym(e.mwH, dH)
				e.logger.Printf("cycle=%03d did %s hessian update before the predictor", cycle, tag)
			}
			e.dwi.Update(e.mwCoords, energy, mwGrad, e.mwH)
		}

		//predictor
		initMW := clone(e.mwCoords)
		predMW, outcome := e.predictor(initMW, mwGrad)
		e.mwCoords = predMW
		if outcome == predConvergedEarly {
			e.logger.Printf("cycle=%03d sufficient convergence achieved on the model rms(grad)", cycle)
			path.Converged = true
			path.Last = pes.UnWeigh(e.mwCoords, e.sqrtm)
			return path, nil
		}

		//evaluate at the predictor endpoint and feed the interpolator
		predCart := pes.UnWeigh(e.mwCoords, e.sqrtm)
		pres, err := e.calc.Evaluate(e.mol, predCart)
		if err != nil {
			path.Last = predCart
			return path, errDecorate(err, fmt.Sprintf("Run: evaluation at predictor endpoint, cycle %d", cycle))
		}
		predMWGrad := pes.UnWeigh(pres.Gradient, e.sqrtm)
		last := len(e.histCoords) - 1
		dx := sub(e.mwCoords, e.histCoords[last])
		dg := sub(predMWGrad, e.histGrads[last])
		dH, tag := e.rule.Update(e.mwH, dx, dg)
		e.mwH.AddSym(e.mwH, dH)
		e.logger.Printf("cycle=%03d did %s hessian update after the predictor", cycle, tag)
		e.dwi.Update(e.mwCoords, pres.Energy, predMWGrad, e.mwH)

		if e.par.DumpDWI {
			name := fmt.Sprintf("dwi_%s_%03d.zst", dir, cycle)
			if err := e.dwi.Dump(name, map[string]string{
				"cycle":     fmt.Sprintf("%d", cycle),
				"direction": dir.String(),
			}); err != nil {
				//the dump is diagnostic only, a failure does not
				//invalidate the integration
				e.logger.Printf("cycle=%03d could not dump the DWI: %v", cycle, err)
			}
		}

		//corrector
		corrMW, _, err := e.corrector(initMW, e.par.StepLength, e.dwi)
		if err != nil {
			path.Last = predCart
			return path, errDecorate(err, "Run")
		}
		e.mwCoords = corrMW
	}
	path.Last = pes.UnWeigh(e.mwCoords, e.sqrtm)
	if !path.Converged {
		e.logger.Printf("dir=%s max_cycles=%d exhausted without convergence", dir, e.par.MaxCycles)
	}
	return path, nil
}

//predictor advances from initMW by the configured arc length (measured in
//un-mass-weighted coordinates) with Euler steps on a frozen second-order
//Taylor model built from mwGrad and the running Hessian. No calculator
//calls happen here. The returned outcome is one of the three exit tags;
//for predExhausted, the point reached so far is still returned and used.
func (e *EulerPC) predictor(initMW, mwGrad []float64) ([]float64, predOutcome) {
	//The integration happens in mass-weighted coordinates, but the target
	//arc length is un-mass-weighted, and un-weighting a step shrinks its
	//norm. Comparing the two gradient norms gives a conversion factor that
	//accounts for which atoms actually move.
	normMW := floats.Norm(mwGrad, 2)
	normCart := floats.Norm(pes.MassWeigh(mwGrad, e.sqrtm), 2)
	convFact := normCart / normMW
	if convFact < 2 {
		convFact = 2
	}
	eulerStep := e.par.StepLength / (float64(e.par.MaxPredSteps) / convFact)
	e.logger.Printf("cycle=%03d predictor ds=%.6f conv_fact=%.4f max_steps=%d",
		e.cycle, eulerStep, convFact, e.par.MaxPredSteps)

	cur := clone(initMW)
	grad := clone(mwGrad)
	gbuf := make([]float64, e.dim)
	gbufv := mat.NewVecDense(e.dim, gbuf)
	curLength := 0.0
	prevLength := 0.0
	for i := 0; i < e.par.MaxPredSteps; i++ {
		curLength = e.pathLength(initMW, cur)
		if i%50 == 0 {
			e.logger.Printf("\t%03d: ds=%.4f delta=%.4f", i, curLength, curLength-prevLength)
			prevLength = curLength
		}
		if curLength >= e.par.StepLength {
			e.logger.Printf("cycle=%03d predictor reached ds=%.4f (target %.4f) after %d steps",
				e.cycle, curLength, e.par.StepLength, i+1)
			return cur, predReached
		}
		gnorm := floats.Norm(grad, 2)
		floats.AddScaled(cur, -eulerStep/gnorm, grad)
		//gradient of the frozen Taylor model at the new offset
		step := sub(cur, initMW)
		gbufv.MulVec(e.mwH, mat.NewVecDense(e.dim, step))
		for j := range grad {
			grad[j] = mwGrad[j] + gbuf[j]
		}
	}
	e.logger.Printf("cycle=%03d predictor did not reach the target in %d steps, ds=%.4f",
		e.cycle, e.par.MaxPredSteps, curLength)
	//maybe the walk stalled because there is nowhere left to go; check the
	//model gradient against a relaxed threshold before complaining.
	cartGrad := pes.MassWeigh(grad, e.sqrtm)
	if pes.RMS(cartGrad) <= 5*e.par.RMSGradThresh {
		return cur, predConvergedEarly
	}
	return cur, predExhausted
}

//pathLength returns the length of the integration path from initMW to
//curMW, both mass-weighted, in un-mass-weighted coordinates.
func (e *EulerPC) pathLength(initMW, curMW []float64) float64 {
	d := make([]float64, e.dim)
	floats.SubTo(d, curMW, initMW)
	return floats.Norm(pes.UnWeigh(d, e.sqrtm), 2)
}

func (e *EulerPC) pushHist(mwCoords, mwGrad []float64) {
	e.histCoords = append(e.histCoords, clone(mwCoords))
	e.histGrads = append(e.histGrads, clone(mwGrad))
}

func clone(v []float64) []float64 {
	c := make([]float64, len(v))
	copy(c, v)
	return c
}

func sub(a, b []float64) []float64 {
	d := make([]float64, len(a))
	floats.SubTo(d, a, b)
	return d
}
