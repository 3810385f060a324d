/*
 * params.go, part of gopes.
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
	"os"

	"gopkg.in/yaml.v3"
)

//Params carries the knobs of an IRC run. It can be built with
//DefaultParams and adjusted, or read from a YAML file with LoadParams.
//If built by hand, use the Check method before running.
type Params struct {
	//StepLength is the arc length of one macro-step, measured in
	//un-mass-weighted coordinates.
	StepLength float64 `yaml:"step_length"`

	//MaxCycles is the largest number of macro-steps per direction.
	//Exhausting it is reported, not an error: the partial path is
	//still usable.
	MaxCycles int `yaml:"max_cycles"`

	//MaxPredSteps bounds the Euler sub-steps of the predictor.
	MaxPredSteps int `yaml:"max_pred_steps"`

	//RMSGradThresh is the convergence criterion on the root mean
	//square of the Cartesian gradient.
	RMSGradThresh float64 `yaml:"rms_grad_thresh"`

	//HessianRecalc, if positive, recomputes an exact Hessian every
	//that many macro-steps instead of the quasi-Newton update. It
	//requires a calculator that can produce Hessians.
	HessianRecalc int `yaml:"hessian_recalc"`

	//HessianUpdate names the quasi-Newton rule: "bfgs" or "bofill".
	HessianUpdate string `yaml:"hessian_update"`

	//DisplLength is the length of the initial mass-weighted
	//displacement off the transition state.
	DisplLength float64 `yaml:"displ_length"`

	//DumpDWI writes the interpolator samples to a compressed container
	//once per macro-step, for offline inspection.
	DumpDWI bool `yaml:"dump_dwi"`
}

//DefaultParams returns the parameters used when nothing else is specified.
func DefaultParams() *Params {
	return &Params{
		StepLength:    0.1,
		MaxCycles:     75,
		MaxPredSteps:  500,
		RMSGradThresh: 1e-4,
		HessianRecalc: 0,
		HessianUpdate: "bofill",
		DisplLength:   0.1,
		DumpDWI:       false,
	}
}

//LoadParams reads parameters from a YAML file. Options absent from the
//file keep their default values.
func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := DefaultParams()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if err := p.Check(); err != nil {
		return nil, errDecorate(err, "LoadParams: "+path)
	}
	return p, nil
}

//Check verifies that the parameters make sense. It returns the first
//problem found.
func (p *Params) Check() error {
	if p.StepLength <= 0 {
		return Error{"step_length must be positive", -1, []string{"Params.Check"}}
	}
	if p.MaxCycles <= 0 {
		return Error{"max_cycles must be positive", -1, []string{"Params.Check"}}
	}
	if p.MaxPredSteps <= 0 {
		return Error{"max_pred_steps must be positive", -1, []string{"Params.Check"}}
	}
	if p.RMSGradThresh <= 0 {
		return Error{"rms_grad_thresh must be positive", -1, []string{"Params.Check"}}
	}
	if p.HessianRecalc < 0 {
		return Error{"hessian_recalc cannot be negative", -1, []string{"Params.Check"}}
	}
	if p.DisplLength <= 0 {
		return Error{"displ_length must be positive", -1, []string{"Params.Check"}}
	}
	if _, err := ParseUpdateRule(p.HessianUpdate); err != nil {
		return errDecorate(err, "Params.Check")
	}
	return nil
}
