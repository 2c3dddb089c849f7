// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"

	"github.com/jonathonloftin/femus/leq"
	"github.com/jonathonloftin/femus/mg"
)

// Solver is the nonlinear time-step driver: implicit steps advanced by a
// Newton iteration whose linear systems run through multigrid cycles. The
// first step uses an F-cycle; later steps use V-cycles.
//
// Rs and Ps optionally declare a level hierarchy (coarsest-first): Rs[i]
// restricts level i+1 onto level i and Ps[i] prolongs back. Coarse
// operators come from the Galerkin product of the fine Jacobian. Without
// transfer operators the single level runs GMRES around the field-split
// tree, or a direct solve when no tree is given.
type Solver struct {
	Dom *Domain
	FS  *leq.FieldSplitTree // optional field-split preconditioner

	Rs, Ps []*mat.Dense // optional transfer operators, coarsest-first

	MgCycles  int     // cycle budget per linear solve
	MgAtol    float64 // linear residual tolerance
	SmooMaxIt int     // smoother iteration bound

	NlMaxIt int     // Newton iteration cap
	NlAtol  float64 // Newton residual tolerance

	step int // accepted steps so far
}

// NewSolver returns the driver with sane bounds and validates the
// field-split tree against the domain's fields
func NewSolver(dom *Domain, fs *leq.FieldSplitTree) (o *Solver) {
	o = &Solver{
		Dom:       dom,
		FS:        fs,
		MgCycles:  40,
		MgAtol:    1e-10,
		SmooMaxIt: 4,
		NlMaxIt:   10,
		NlAtol:    1e-8,
	}
	if fs != nil {
		fs.Validate(len(dom.Dm.Fields))
	}
	return
}

// buildDriver sets up the multigrid hierarchy for the current Jacobian
func (o *Solver) buildDriver() *mg.Driver {
	fine := o.Dom.KK.Dense()

	// coarse operators by Galerkin products, finest to coarsest
	nlev := len(o.Rs) + 1
	ops := make([]*mat.Dense, nlev)
	ops[nlev-1] = fine
	for l := nlev - 2; l >= 0; l-- {
		ops[l] = mg.GalerkinRAP(o.Rs[l], ops[l+1], o.Ps[l])
	}

	levels := make([]*mg.Level, nlev)
	levels[0] = &mg.Level{A: &leq.DenseMat{D: ops[0]}}
	for l := 1; l < nlev; l++ {
		var m leq.Preconditioner
		if l == nlev-1 && o.FS != nil {
			m = o.FS.Build(ops[l], o.Dom.Dm.FieldRanges())
		} else {
			m = leq.NewJacobi(ops[l])
		}
		levels[l] = &mg.Level{
			A: &leq.DenseMat{D: ops[l]},
			R: o.Rs[l-1], P: o.Ps[l-1],
			Smoo: &leq.Smoother{
				Kind: leq.GMRES, MaxIt: o.SmooMaxIt,
				A: &leq.DenseMat{D: ops[l]}, M: m,
			},
		}
	}

	cycle := mg.VCycle
	if o.step == 0 {
		cycle = mg.FCycle
	}
	return mg.NewDriver(levels, cycle, o.MgCycles, o.MgAtol)
}

// Step advances the solution by one implicit step of size dt. A Newton
// iteration that runs out of its cap is reported and tolerated: the step is
// accepted with the last iterate. A diverged linear solve aborts.
func (o *Solver) Step(dt float64) (err error) {
	sol := o.Dom.Sol
	sol.Dt = dt
	sol.T += dt
	o.Dom.ApplyEssential(sol.T)

	converged := false
	rnorm := 0.0
	for it := 0; it < o.NlMaxIt; it++ {
		err = o.Dom.AssembleSystem(true)
		if err != nil {
			return
		}
		rnorm = o.Dom.RES.Norm()
		if rnorm <= o.NlAtol {
			converged = true
			break
		}

		delta := make([]float64, o.Dom.Dm.Ny)
		if len(o.Rs) == 0 && o.FS != nil {

			// single level: GMRES wrapped around the field-split tree
			m := o.FS.Build(o.Dom.KK.Dense(), o.Dom.Dm.FieldRanges())
			sm := &leq.Smoother{
				Kind: leq.GMRES, MaxIt: o.MgCycles * o.SmooMaxIt, Tol: o.MgAtol,
				A: o.Dom.KK, M: m,
			}
			_, lrnorm, conv := sm.Solve(delta, o.Dom.RES.Values())
			if !conv && chk.Verbose {
				io.Pforan("t=%g it=%d: linear solve stopped at the iteration bound (rnorm=%g)\n", sol.T, it, lrnorm)
			}
		} else {
			drv := o.buildDriver()
			status, cycles, lrnorm := drv.Solve(delta, o.Dom.RES.Values())
			if status == mg.Diverged {
				return chk.Err("linear solve diverged at t=%g (cycles=%d, rnorm=%g)", sol.T, cycles, lrnorm)
			}
			if status == mg.NonConverged && chk.Verbose {
				io.Pforan("t=%g it=%d: linear solve stopped at the cycle budget (rnorm=%g)\n", sol.T, it, lrnorm)
			}
		}
		for i, d := range delta {
			sol.Y[i] += d
		}
	}
	if !converged {
		io.Pforan("t=%g: Newton iteration not converged within %d iterations (rnorm=%g); continuing\n",
			sol.T, o.NlMaxIt, rnorm)
	}
	sol.Commit()
	o.step++
	return
}

// Run advances nsteps steps, invoking the writer every saveEvery accepted
// steps (saveEvery < 1 writes every step)
func (o *Solver) Run(dt float64, nsteps int, w Writer, saveEvery int) (err error) {
	if saveEvery < 1 {
		saveEvery = 1
	}
	for n := 0; n < nsteps; n++ {
		err = o.Step(dt)
		if err != nil {
			return
		}
		if w != nil && (n+1)%saveEvery == 0 {
			err = w.Write(n, o.Dom.Sol.T, o.Dom)
			if err != nil {
				return
			}
		}
	}
	return
}
