// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Femus solves the differentially heated cavity: natural convection in the
// Boussinesq approximation, advanced by implicit time steps with a Newton
// iteration and a field-split preconditioned linear solver.
//
//	femus [simfile.yml]
package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/jonathonloftin/femus/fem"
	"github.com/jonathonloftin/femus/inp"
	"github.com/jonathonloftin/femus/leq"
	"github.com/jonathonloftin/femus/mdl"
	"github.com/jonathonloftin/femus/msh"
)

func main() {

	// parameters
	flag.Parse()
	var par *inp.Params
	if flag.NArg() > 0 {
		var err error
		par, err = inp.Read(flag.Arg(0))
		if err != nil {
			chk.Panic("cannot load simulation parameters: %v", err)
		}
	} else {
		par = &inp.Params{Ny: 16}
		par.Default()
	}
	io.Pf("femus: %d x %d cavity, Ra=%g Pr=%g, dt=%g, %d steps\n",
		par.Nx, par.Ny, par.Ra, par.Pr, par.Dt, par.Nsteps)

	// mesh and model
	m := msh.UniformQuad(par.Nx, par.Ny, par.Lx, par.Ly)
	itg := mdl.NewBoussinesq()
	itg.Pr = par.Pr
	itg.Ra = par.Ra
	itg.Alpha = par.Alpha
	itg.Beta = par.Beta

	// hot left wall, cold right wall, no-slip everywhere
	bfunc := func(x []float64, field string, group int, t float64) (bool, float64) {
		switch field {
		case "T":
			if group == 1 {
				return true, 0.5
			}
			if group == 2 {
				return true, -0.5
			}
			return false, 0
		case "U", "V":
			return true, 0
		}
		return false, 0
	}

	// domain and field-split preconditioner: the temperature block apart
	// from velocity-pressure, whose pressure tail is a Schur block
	dom := fem.NewDomain(m, itg, bfunc, leq.SerialComm{})
	fs := leq.CreateNode(leq.Richardson, leq.FieldSplitPrecond, []*leq.FieldSplitTree{
		leq.CreateLeaf(leq.PreOnly, leq.ASMPrecond,
			[]int{dom.Dm.FieldIndex("T")}, []leq.SolType{leq.SolNode}, "T"),
		leq.CreateLeaf(leq.PreOnly, leq.ASMPrecond,
			[]int{dom.Dm.FieldIndex("U"), dom.Dm.FieldIndex("V"), dom.Dm.FieldIndex("P")},
			[]leq.SolType{leq.SolNode, leq.SolNode, leq.SolCell},
			"VP").SetNumSchur(len(m.Cells)),
	}, "TVP")

	sv := fem.NewSolver(dom, fs)
	sv.MgCycles = par.MgCycles
	sv.MgAtol = par.MgAtol
	sv.SmooMaxIt = par.SmooMaxIt
	sv.NlMaxIt = par.NlMaxIt
	sv.NlAtol = par.NlAtol

	// diagnostics: one "time rms-velocity" row per saved step
	out := os.Stdout
	if par.OutFile != "" {
		f, err := os.Create(par.OutFile)
		if err != nil {
			chk.Panic("cannot create diagnostics file: %v", err)
		}
		defer f.Close()
		out = f
	}
	w := &fem.EnergyWriter{W: out, U: "U", V: "V", Area: par.Lx * par.Ly}

	// run
	err := sv.Run(par.Dt, par.Nsteps, w, par.SaveEvery)
	if err != nil {
		chk.Panic("simulation failed: %v", err)
	}

	ke, err := dom.KineticEnergy("U", "V")
	if err != nil {
		chk.Panic("cannot compute kinetic energy: %v", err)
	}
	io.Pf("done: t=%g  kinetic energy=%g  T(center)=%g\n",
		dom.Sol.T, ke, dom.ProbeValue("T", []float64{par.Lx / 2, par.Ly / 2}))
}
