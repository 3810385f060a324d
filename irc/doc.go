/*
 * doc.go, part of gopes.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package irc integrates intrinsic reaction coordinates: the steepest-descent
//path in mass-weighted coordinates from a first-order saddle point down to
//the adjacent minima. The integrator is the Euler predictor-corrector of
//Hratchian and Schlegel (J. Chem. Phys. 133, 224101, 2010), as revisited by
//Meisner and Kastner (Phys. Chem. Chem. Phys. 19, 23085, 2017): an Euler
//predictor marches on a frozen quadratic model of the surface, the expensive
//calculator is queried only at the predictor endpoints, and a corrector
//re-integrates each segment on a distance-weighted interpolation (DWI) of the
//stored quadratic expansions, refined by Richardson extrapolation. The
//running Hessian is propagated between evaluations with quasi-Newton updates
//(BFGS or Bofill).
package irc
