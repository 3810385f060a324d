/*
 * errors.go, part of gopes.
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
	"strings"

	"github.com/rmera/gopes"
)

//Error is the general structure for IRC integration errors.
//It fulfills pes.Error.
type Error struct {
	message string
	cycle   int //the macro-step on which the error happened, or -1
	deco    []string
}

func (err Error) Error() string {
	return err.message + strings.Join(err.deco, "/")
}

//Decorate adds the deco string to the decoration slice of strings of the
//error, and returns the resulting slice.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Cycle returns the macro-step at which the error happened, or -1 if it is
//not tied to a particular one.
func (err Error) Cycle() int { return err.cycle }

//errDecorate is a helper function that asserts that the error implements
//pes.Error and calls Decorate on it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(pes.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
