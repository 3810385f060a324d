/*
 * atoms.go, part of gopes.
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

package pes

import (
	"fmt"
	"math"
)

/**Note: Some functions here panic instead of returning errors. This is because they
 * are "fundamental" functions. I considered that if something goes wrong there, the
 * program is way-most likely wrong and should crash. Most panics are related to
 * out-of-bounds indexes or mismatched dimensions.**/

//Atom contains the data for one atom in a molecule, except for the
//coordinates, which are kept in a flat 3N vector owned by the caller.
type Atom struct {
	Name   string //PDB-like name, if any
	Id     int
	Symbol string
	Mass   float64
	Charge float64
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	Newat := new(Atom)
	Newat.Name = A.Name
	Newat.Id = A.Id
	Newat.Symbol = A.Symbol
	Newat.Mass = A.Mass
	Newat.Charge = A.Charge
	return Newat
}

//Mol contains the atoms of a molecule, which are not expected to change
//during a run (i.e. everything except for the coordinates).
//The atom order is fixed once the Mol is built.
type Mol struct {
	atoms []*Atom
}

//NewMol makes a molecule from the given atoms and returns it. Atoms with
//non-positive mass get it assigned from their symbol. It returns an error
//if the slice is nil or empty, or if a mass cannot be assigned.
func NewMol(ats []*Atom) (*Mol, error) {
	if len(ats) == 0 {
		return nil, CError{"Supplied a nil or empty atom list", []string{"NewMol"}}
	}
	for i, v := range ats {
		if v == nil {
			return nil, CError{fmt.Sprintf("Nil atom at position %d", i), []string{"NewMol"}}
		}
		if v.Mass <= 0 {
			m, ok := symbolMass[v.Symbol]
			if !ok {
				return nil, CError{fmt.Sprintf("Can't assign a mass to atom %d, symbol %q", i, v.Symbol), []string{"NewMol"}}
			}
			v.Mass = m
		}
	}
	M := new(Mol)
	M.atoms = ats
	return M, nil
}

//Len returns the number of atoms in the molecule.
func (M *Mol) Len() int {
	return len(M.atoms)
}

//Atom returns the atom at index i. It panics if the index is out of range.
func (M *Mol) Atom(i int) *Atom {
	if i >= M.Len() {
		panic("Requested an atom out of range")
	}
	return M.atoms[i]
}

//Masses returns a slice with the masses of the atoms, in order.
func (M *Mol) Masses() []float64 {
	mass := make([]float64, M.Len())
	for i, v := range M.atoms {
		mass[i] = v.Mass
	}
	return mass
}

//SqrtMasses returns a 3N vector with the square root of the mass of each
//atom repeated for its x, y and z components. This is the vector used by
//the mass-weighting transforms.
func (M *Mol) SqrtMasses() []float64 {
	s := make([]float64, 3*M.Len())
	for i, v := range M.atoms {
		sq := math.Sqrt(v.Mass)
		s[3*i] = sq
		s[3*i+1] = sq
		s[3*i+2] = sq
	}
	return s
}
