// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mg

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/jonathonloftin/femus/leq"
)

// fdLaplacian returns the n x n 1D Dirichlet Laplacian scaled by 1/h^2
func fdLaplacian(n int) *mat.Dense {
	h := 1.0 / float64(n+1)
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, 2/(h*h))
		if i > 0 {
			a.Set(i, i-1, -1/(h*h))
		}
		if i < n-1 {
			a.Set(i, i+1, -1/(h*h))
		}
	}
	return a
}

// twoLevel builds a two-level hierarchy over nc coarse points with damped
// Jacobi smoothing bounded to nsmooth iterations
func twoLevel(nc, nsmooth int) (levels []*Level, af *mat.Dense) {
	nf := 2*nc + 1
	af = fdLaplacian(nf)
	p, r := Interp1D(nc)
	ac := GalerkinRAP(r, af, p)

	fine := &Level{
		A: &leq.DenseMat{D: af},
		R: r, P: p,
		Smoo: &leq.Smoother{
			Kind: leq.Richardson, MaxIt: nsmooth, Damp: 2.0 / 3.0,
			A: &leq.DenseMat{D: af}, M: leq.NewJacobi(af),
		},
	}
	coarse := &Level{A: &leq.DenseMat{D: ac}}
	return []*Level{coarse, fine}, af
}

func direct(a *mat.Dense, b []float64) []float64 {
	n, _ := a.Dims()
	x := make([]float64, n)
	var lu mat.LU
	lu.Factorize(a)
	err := lu.SolveVecTo(mat.NewVecDense(n, x), false, mat.NewVecDense(n, b))
	if err != nil {
		panic(err)
	}
	return x
}

func TestVCycleConverges(t *testing.T) {
	nc := 15
	levels, af := twoLevel(nc, 2)
	drv := NewDriver(levels, VCycle, 50, 1e-10)

	nf := 2*nc + 1
	b := make([]float64, nf)
	rnd := rand.New(rand.NewSource(1))
	for i := range b {
		b[i] = rnd.Float64()
	}
	x := make([]float64, nf)
	status, cycles, rnorm := drv.Solve(x, b)
	require.Equal(t, Converged, status, "rnorm=%v after %d cycles", rnorm, cycles)
	require.Less(t, cycles, 40, "two-level V-cycles on Poisson must converge quickly")

	xref := direct(af, b)
	for i := range x {
		require.InDelta(t, xref[i], x[i], 1e-8)
	}
}

func TestFCycleConverges(t *testing.T) {
	nc := 7
	ncMid := 2*nc + 1
	nf := 2*ncMid + 1

	// three levels, Galerkin all the way down
	af := fdLaplacian(nf)
	p1, r1 := Interp1D(ncMid)
	am := GalerkinRAP(r1, af, p1)
	p0, r0 := Interp1D(nc)
	ac := GalerkinRAP(r0, am, p0)

	smoo := func(a *mat.Dense) *leq.Smoother {
		return &leq.Smoother{
			Kind: leq.Richardson, MaxIt: 2, Damp: 2.0 / 3.0,
			A: &leq.DenseMat{D: a}, M: leq.NewJacobi(a),
		}
	}
	levels := []*Level{
		{A: &leq.DenseMat{D: ac}},
		{A: &leq.DenseMat{D: am}, R: r0, P: p0, Smoo: smoo(am)},
		{A: &leq.DenseMat{D: af}, R: r1, P: p1, Smoo: smoo(af)},
	}
	drv := NewDriver(levels, FCycle, 50, 1e-10)

	b := make([]float64, nf)
	for i := range b {
		b[i] = 1
	}
	x := make([]float64, nf)
	status, _, rnorm := drv.Solve(x, b)
	require.Equal(t, Converged, status, "rnorm=%v", rnorm)

	xref := direct(af, b)
	for i := range x {
		require.InDelta(t, xref[i], x[i], 1e-8)
	}
}

func TestZeroSmoothingIsCoarseSolve(t *testing.T) {
	n := 9
	a := fdLaplacian(n)

	// identity transfers and no smoothing: one V-cycle must reproduce the
	// exact coarse solve
	eye := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		eye.Set(i, i, 1)
	}
	levels := []*Level{
		{A: &leq.DenseMat{D: a}},
		{
			A: &leq.DenseMat{D: a},
			R: eye, P: eye,
			Smoo: &leq.Smoother{
				Kind: leq.Richardson, MaxIt: 0,
				A: &leq.DenseMat{D: a}, M: leq.NewJacobi(a),
			},
		},
	}
	drv := NewDriver(levels, VCycle, 5, 1e-12)

	b := make([]float64, n)
	for i := range b {
		b[i] = float64(i + 1)
	}
	x := make([]float64, n)
	status, cycles, _ := drv.Solve(x, b)
	require.Equal(t, Converged, status)
	require.Equal(t, 1, cycles)

	xref := direct(a, b)
	for i := range x {
		require.InDelta(t, xref[i], x[i], 1e-9)
	}
}

func TestSingleLevelIsDirect(t *testing.T) {
	n := 9
	a := fdLaplacian(n)
	drv := NewDriver([]*Level{{A: &leq.DenseMat{D: a}}}, VCycle, 5, 1e-12)

	b := make([]float64, n)
	for i := range b {
		b[i] = float64(i)
	}
	x := make([]float64, n)
	status, cycles, _ := drv.Solve(x, b)
	require.Equal(t, Converged, status)
	require.Equal(t, 1, cycles)

	xref := direct(a, b)
	for i := range x {
		require.InDelta(t, xref[i], x[i], 1e-9)
	}
}

func TestDivergenceGuard(t *testing.T) {
	nc := 7
	levels, _ := twoLevel(nc, 2)

	// an amplifying smoother blows the iteration up; the driver must
	// report divergence instead of burning the whole cycle budget
	levels[1].Smoo.Damp = -8
	drv := NewDriver(levels, VCycle, 1000, 1e-12)

	nf := 2*nc + 1
	b := make([]float64, nf)
	for i := range b {
		b[i] = 1
	}
	x := make([]float64, nf)
	status, cycles, _ := drv.Solve(x, b)
	require.Equal(t, Diverged, status)
	require.Less(t, cycles, 1000)
}

func TestCappedCyclesNonConverged(t *testing.T) {
	nc := 15
	levels, _ := twoLevel(nc, 1)
	drv := NewDriver(levels, VCycle, 1, 1e-14)

	nf := 2*nc + 1
	b := make([]float64, nf)
	for i := range b {
		b[i] = 1
	}
	x := make([]float64, nf)
	status, cycles, rnorm := drv.Solve(x, b)
	require.Equal(t, NonConverged, status)
	require.Equal(t, 1, cycles)
	require.Greater(t, rnorm, 0.0)
}
