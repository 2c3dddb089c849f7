// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp reads the simulation parameters
package inp

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/ghodss/yaml"
)

// Params holds one simulation setup. Zero values are replaced by the
// defaults of the reference convection problem.
type Params struct {

	// mesh
	Nx int     `json:"nx"` // cells along x
	Ny int     `json:"ny"` // cells along y (0: 1D problem)
	Lx float64 `json:"lx"` // domain length along x
	Ly float64 `json:"ly"` // domain length along y

	// physics
	Pr    float64 `json:"pr"`    // Prandtl number
	Ra    float64 `json:"ra"`    // Rayleigh number
	Alpha float64 `json:"alpha"` // thermal diffusivity factor
	Beta  float64 `json:"beta"`  // buoyancy factor

	// time stepping
	Dt     float64 `json:"dt"`     // step size
	Nsteps int     `json:"nsteps"` // number of steps

	// nonlinear iteration
	NlMaxIt int     `json:"nlmaxit"` // Newton iteration cap
	NlAtol  float64 `json:"nlatol"`  // Newton residual tolerance

	// multigrid
	MgCycles  int     `json:"mgcycles"`  // cycle budget per linear solve
	MgAtol    float64 `json:"mgatol"`    // linear residual tolerance
	SmooMaxIt int     `json:"smoomaxit"` // smoother iteration bound

	// output
	SaveEvery int    `json:"saveevery"` // steps between writer calls
	OutFile   string `json:"outfile"`   // diagnostics file ("" : stdout)
}

// Default fills unset entries with the reference setup
func (o *Params) Default() {
	if o.Nx == 0 {
		o.Nx = 16
	}
	if o.Lx == 0 {
		o.Lx = 1
	}
	if o.Ny > 0 && o.Ly == 0 {
		o.Ly = 1
	}
	if o.Pr == 0 {
		o.Pr = 0.015
	}
	if o.Ra == 0 {
		o.Ra = 3000
	}
	if o.Alpha == 0 {
		o.Alpha = 1
	}
	if o.Beta == 0 {
		o.Beta = 1
	}
	if o.Dt == 0 {
		o.Dt = 0.1
	}
	if o.Nsteps == 0 {
		o.Nsteps = 10
	}
	if o.NlMaxIt == 0 {
		o.NlMaxIt = 10
	}
	if o.NlAtol == 0 {
		o.NlAtol = 1e-8
	}
	if o.MgCycles == 0 {
		o.MgCycles = 40
	}
	if o.MgAtol == 0 {
		o.MgAtol = 1e-10
	}
	if o.SmooMaxIt == 0 {
		o.SmooMaxIt = 4
	}
	if o.SaveEvery == 0 {
		o.SaveEvery = 1
	}
}

// Validate reports inconsistent setups
func (o *Params) Validate() error {
	if o.Nx < 1 || (o.Ny < 0) {
		return chk.Err("mesh must have at least one cell: nx=%d ny=%d", o.Nx, o.Ny)
	}
	if o.Lx <= 0 || (o.Ny > 0 && o.Ly <= 0) {
		return chk.Err("domain lengths must be positive: lx=%v ly=%v", o.Lx, o.Ly)
	}
	if o.Dt <= 0 {
		return chk.Err("time step must be positive: dt=%v", o.Dt)
	}
	if o.Pr <= 0 || o.Ra <= 0 {
		return chk.Err("Prandtl and Rayleigh numbers must be positive: pr=%v ra=%v", o.Pr, o.Ra)
	}
	return nil
}

// Read loads parameters from a YAML file, applies the defaults and
// validates the result
func Read(fname string) (o *Params, err error) {
	buf, err := os.ReadFile(fname)
	if err != nil {
		return nil, chk.Err("cannot read parameters file: %v", err)
	}
	o = new(Params)
	err = yaml.Unmarshal(buf, o)
	if err != nil {
		return nil, chk.Err("cannot parse parameters file %q: %v", fname, err)
	}
	o.Default()
	err = o.Validate()
	if err != nil {
		return nil, err
	}
	return
}

// String renders the parameters back as YAML
func (o *Params) String() string {
	buf, err := yaml.Marshal(o)
	if err != nil {
		return err.Error()
	}
	return string(buf)
}
