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
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package pes provides the basic types for exploring potential energy surfaces
//of molecules: atoms with their masses, molecule containers and the
//mass-weighting transforms used by reaction-path methods. The actual
//electronic-structure results (energies, gradients, Hessians) are obtained
//through the calculators in the calc subpackage, while the irc subpackage
//implements the intrinsic-reaction-coordinate integrator built on top of both.
package pes
