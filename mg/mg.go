// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mg implements the geometric multigrid driver: V- and F-cycles
// over a hierarchy of levels with bounded smoothers and a direct coarsest
// solve
package mg

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"

	"github.com/jonathonloftin/femus/leq"
)

// Level holds the operator, transfer operators and smoother of one grid
// level. Levels are ordered coarsest-first; the coarsest level carries no
// transfer operators and no smoother (it is solved directly).
type Level struct {
	A    leq.Matrix    // level operator
	R    *mat.Dense    // restriction to the next-coarser level
	P    *mat.Dense    // prolongation from the next-coarser level
	Smoo *leq.Smoother // bounded smoother (nil on the coarsest level)

	// scratch
	r, rc, ec []float64
	direct    *leq.DirectLU
}

// CycleKind selects the multigrid cycle
type CycleKind int

const (

	// VCycle is one coarse-grid correction per level per cycle
	VCycle CycleKind = iota

	// FCycle recurses with F-cycles and finishes each level with a V-cycle
	FCycle
)

// Status reports the outcome of a multigrid solve
type Status int

const (

	// Converged: the residual dropped below the tolerance
	Converged Status = iota

	// NonConverged: the cycle budget ran out first
	NonConverged

	// Diverged: the residual grew beyond the divergence guard
	Diverged
)

// Driver runs multigrid cycles over the level hierarchy
type Driver struct {
	Levels    []*Level  // coarsest-first
	Cycle     CycleKind // cycle type
	MaxCycles int       // cycle budget
	Atol      float64   // absolute residual tolerance
	DivFactor float64   // residual growth declaring divergence (0: 1e4)
}

// NewDriver checks the hierarchy and prepares the scratch space
func NewDriver(levels []*Level, cycle CycleKind, maxCycles int, atol float64) (o *Driver) {
	if len(levels) == 0 {
		chk.Panic("multigrid needs at least one level")
	}
	for l, lev := range levels {
		n := lev.A.Dim()
		if l == 0 {
			if lev.Smoo != nil || lev.R != nil || lev.P != nil {
				chk.Panic("the coarsest level carries no smoother and no transfer operators")
			}
		} else {
			if lev.Smoo == nil || lev.R == nil || lev.P == nil {
				chk.Panic("level %d misses its smoother or transfer operators", l)
			}
			rr, rcn := lev.R.Dims()
			if rcn != n || rr != levels[l-1].A.Dim() {
				chk.Panic("level %d restriction has wrong shape %dx%d", l, rr, rcn)
			}
			lev.rc = make([]float64, rr)
			lev.ec = make([]float64, rr)
		}
		lev.r = make([]float64, n)
	}
	return &Driver{Levels: levels, Cycle: cycle, MaxCycles: maxCycles, Atol: atol}
}

// Finest returns the finest level
func (o *Driver) Finest() *Level { return o.Levels[len(o.Levels)-1] }

// Solve runs cycles on the finest level until the residual of A x = b drops
// below Atol, the budget runs out, or the residual diverges. x is improved
// in place and kept at the best bounded iterate even without convergence.
func (o *Driver) Solve(x, b []float64) (status Status, cycles int, rnorm float64) {
	lf := len(o.Levels) - 1
	div := o.DivFactor
	if div == 0 {
		div = 1e4
	}
	r0 := o.residual(lf, x, b)
	if r0 <= o.Atol {
		return Converged, 0, r0
	}
	for cycles = 1; cycles <= o.MaxCycles; cycles++ {
		switch o.Cycle {
		case VCycle:
			o.vcycle(lf, x, b)
		case FCycle:
			o.fcycle(lf, x, b)
		default:
			chk.Panic("unknown cycle kind %d", o.Cycle)
		}
		rnorm = o.residual(lf, x, b)
		if rnorm <= o.Atol {
			return Converged, cycles, rnorm
		}
		if rnorm > div*r0 {
			return Diverged, cycles, rnorm
		}
	}
	return NonConverged, o.MaxCycles, rnorm
}

// residual returns ||b - A x|| on level l, leaving the vector in lev.r
func (o *Driver) residual(l int, x, b []float64) float64 {
	lev := o.Levels[l]
	lev.A.MatVec(lev.r, x)
	for i := range lev.r {
		lev.r[i] = b[i] - lev.r[i]
	}
	s := 0.0
	for _, v := range lev.r {
		s += v * v
	}
	return math.Sqrt(s)
}

// coarseSolve solves the coarsest level directly (cached LU)
func (o *Driver) coarseSolve(x, b []float64) {
	lev := o.Levels[0]
	if lev.direct == nil {
		lev.direct = leq.NewDirectLU(lev.A.Dense())
	}
	lev.direct.Apply(x, b)
}

func (o *Driver) vcycle(l int, x, b []float64) {
	if l == 0 {
		o.coarseSolve(x, b)
		return
	}
	lev := o.Levels[l]

	// pre-smooth, then restrict the residual
	lev.Smoo.Solve(x, b)
	o.residual(l, x, b)
	mulVec(lev.R, lev.rc, lev.r)

	// coarse-grid correction
	for i := range lev.ec {
		lev.ec[i] = 0
	}
	o.vcycle(l-1, lev.ec, lev.rc)
	addMulVec(lev.P, x, lev.ec)

	// post-smooth
	lev.Smoo.Solve(x, b)
}

func (o *Driver) fcycle(l int, x, b []float64) {
	if l == 0 {
		o.coarseSolve(x, b)
		return
	}
	lev := o.Levels[l]

	// descend with F-cycles, then polish with a V-cycle at this level
	o.residual(l, x, b)
	mulVec(lev.R, lev.rc, lev.r)
	for i := range lev.ec {
		lev.ec[i] = 0
	}
	o.fcycle(l-1, lev.ec, lev.rc)
	addMulVec(lev.P, x, lev.ec)
	o.vcycle(l, x, b)
}

// GalerkinRAP builds the coarse operator R A P; the fallback when no
// per-level assembly is available
func GalerkinRAP(r *mat.Dense, a *mat.Dense, p *mat.Dense) *mat.Dense {
	var ap, rap mat.Dense
	ap.Mul(a, p)
	rap.Mul(r, &ap)
	return &rap
}

// Interp1D returns the linear prolongation from a 1D Dirichlet grid with nc
// interior points to the refined grid with 2*nc+1, and its transpose-scaled
// restriction (full weighting)
func Interp1D(nc int) (p, r *mat.Dense) {
	nf := 2*nc + 1
	p = mat.NewDense(nf, nc, nil)
	for j := 0; j < nc; j++ {
		fi := 2*j + 1 // fine index of coarse point j
		p.Set(fi, j, 1)
		p.Set(fi-1, j, 0.5)
		p.Set(fi+1, j, 0.5)
	}
	r = mat.NewDense(nc, nf, nil)
	for j := 0; j < nc; j++ {
		fi := 2*j + 1
		r.Set(j, fi, 0.5)
		r.Set(j, fi-1, 0.25)
		r.Set(j, fi+1, 0.25)
	}
	return
}

// small helpers over raw slices /////////////////////////////////////////////////////////////////

func mulVec(a *mat.Dense, y, x []float64) {
	yv := mat.NewVecDense(len(y), y)
	yv.MulVec(a, mat.NewVecDense(len(x), x))
}

func addMulVec(a *mat.Dense, y, x []float64) {
	m, _ := a.Dims()
	w := make([]float64, m)
	mulVec(a, w, x)
	for i := range y {
		y[i] += w[i]
	}
}
