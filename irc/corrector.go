/*
 * corrector.go, part of gopes.
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
	"math"

	"github.com/rmera/gopes"
	"gonum.org/v1/gonum/floats"
)

const (
	//number of points of the coarsest corrector walk; level k uses
	//corrBasePoints * 2^k of them
	corrBasePoints = 20
	//refinement ceiling; not converging by the last level is fatal
	richardsonLevels = 15
	//convergence criterion on the RMS difference of the two highest
	//extrapolation orders (Numerical Recipes Eq. 17.3.9 style estimate)
	corrTol = 1e-5
	//an interpolated gradient this small means the walk sits on a
	//stationary point of the surrogate surface
	corrGradFloor = 1e-12
)

//corrector re-integrates the macro-step arc on the interpolated surface: a
//modified Bulirsch-Stoer scheme where plain Euler walks with doubling point
//counts are combined by Richardson extrapolation. Only the DWI is queried,
//never the calculator. It returns the corrected mass-weighted coordinates
//and the refinement level at which they were accepted. An oscillating walk
//is truncated to its last stable point and accepted right away; running out
//of refinement levels is a hard error, as accepting an unconverged point
//would silently corrupt the path.
func (e *EulerPC) corrector(initMW []float64, stepLength float64, dwi *DWI) ([]float64, int, error) {
	e.logger.Printf("cycle=%03d starting mBS integration using Richardson extrapolation", e.cycle)
	var prevRow [][]float64
	for k := 0; k < richardsonLevels; k++ {
		points := corrBasePoints * (1 << uint(k))
		corrStep := stepLength / float64(points-1)
		cur := clone(initMW)
		kCoords := make([][]float64, 0, points)
		curLength := 0.0
		//NaNs in the field (a corrupted sample) make every stop condition
		//below compare false, so the walk itself is also bounded.
		maxWalk := 10 * points
		for steps := 0; ; steps++ {
			if steps > maxWalk {
				return nil, k, Error{fmt.Sprintf("Corrector walk did not cover the arc in %d micro-steps at level %d", maxWalk, k),
					e.cycle, []string{"corrector"}}
			}
			kCoords = append(kCoords, clone(cur))
			if math.Abs(stepLength-curLength) < 0.5*corrStep {
				e.logger.Printf("\tk=%02d points=%5d step=%.5f ds=%.4f", k, points, corrStep, curLength)
				break
			}
			_, grad := dwi.Interpolate(cur, true)
			gnorm := floats.Norm(grad, 2)
			if gnorm < corrGradFloor {
				e.logger.Printf("\tk=%02d reached a stationary point of the interpolated field at ds=%.4f", k, curLength)
				break
			}
			floats.AddScaled(cur, -corrStep/gnorm, grad)
			curLength = e.pathLength(initMW, cur)
			//oscillation guard: if two steps take us (almost) nowhere,
			//the walk is bouncing around a point at this resolution.
			//Truncate to the last stable point instead of looping.
			if len(kCoords) >= 2 {
				prev := kCoords[len(kCoords)-2]
				if dist(cur, prev) <= corrStep {
					e.logger.Printf("\tk=%02d points=%5d oscillation detected, aborting the corrector", k, points)
					return clone(prev), k, nil
				}
			}
		}
		//Richardson refinement: R[k,j] = (2^j R[k,j-1] - R[k-1,j-1])/(2^j - 1).
		//Only the previous and current rows are ever needed.
		curRow := make([][]float64, k+1)
		curRow[0] = cur
		for j := 1; j <= k; j++ {
			fac := math.Pow(2, float64(j))
			r := make([]float64, e.dim)
			for i := range r {
				r[i] = (fac*curRow[j-1][i] - prevRow[j-1][i]) / (fac - 1)
			}
			curRow[j] = r
		}
		if k > 0 {
			diff := make([]float64, e.dim)
			floats.SubTo(diff, curRow[k], curRow[k-1])
			rmsErr := pes.RMS(diff)
			if rmsErr <= corrTol {
				e.logger.Printf("cycle=%03d mBS integration converged at k=%02d (error=%.4e)", e.cycle, k, rmsErr)
				return curRow[k], k, nil
			}
		}
		prevRow = curRow
	}
	return nil, richardsonLevels - 1,
		Error{fmt.Sprintf("Richardson extrapolation did not converge in %d levels", richardsonLevels),
			e.cycle, []string{"corrector"}}
}

func dist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
