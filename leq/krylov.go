// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leq

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// SolverKind selects the iteration wrapped around a preconditioner
type SolverKind int

const (

	// PreOnly applies the preconditioner once, with no outer iteration
	PreOnly SolverKind = iota

	// Richardson iterates x += damp * M (b - A x)
	Richardson

	// GMRES runs right-preconditioned GMRES without restarts
	GMRES
)

// Smoother is a bounded Krylov (or stationary) iteration: it runs at most
// MaxIt iterations and returns whichever iterate it reached, converged or
// not. Multigrid smoothing and field-split inner solves both rely on the
// bound; the smoother is never asked to converge on its own.
type Smoother struct {
	Kind  SolverKind
	MaxIt int
	Tol   float64 // absolute residual tolerance
	Damp  float64 // Richardson damping (0 means 1)
	A     Matrix
	M     Preconditioner
}

// Solve improves x in place towards A x = b. It reports the iterations
// spent, the final residual norm and whether Tol was reached.
func (o *Smoother) Solve(x, b []float64) (iters int, rnorm float64, converged bool) {
	if o.MaxIt < 0 {
		chk.Panic("smoother needs MaxIt >= 0 (have %d)", o.MaxIt)
	}
	if o.MaxIt == 0 { // no smoothing: x is left alone
		r := make([]float64, len(x))
		o.A.MatVec(r, x)
		for i := range r {
			r[i] = b[i] - r[i]
		}
		rnorm = norm2(r)
		return 0, rnorm, rnorm <= o.Tol
	}
	switch o.Kind {
	case PreOnly:
		o.M.Apply(x, b)
		return 1, 0, true
	case Richardson:
		return o.richardson(x, b)
	case GMRES:
		return o.gmres(x, b)
	}
	chk.Panic("unknown solver kind %d", o.Kind)
	return
}

func (o *Smoother) richardson(x, b []float64) (iters int, rnorm float64, converged bool) {
	n := len(x)
	damp := o.Damp
	if damp == 0 {
		damp = 1
	}
	r := make([]float64, n)
	z := make([]float64, n)
	for iters = 0; iters < o.MaxIt; iters++ {
		o.A.MatVec(r, x)
		for i := 0; i < n; i++ {
			r[i] = b[i] - r[i]
		}
		rnorm = norm2(r)
		if rnorm <= o.Tol {
			return iters, rnorm, true
		}
		o.M.Apply(z, r)
		for i := 0; i < n; i++ {
			x[i] += damp * z[i]
		}
	}
	o.A.MatVec(r, x)
	for i := 0; i < n; i++ {
		r[i] = b[i] - r[i]
	}
	rnorm = norm2(r)
	return iters, rnorm, rnorm <= o.Tol
}

// gmres is right-preconditioned GMRES bounded by MaxIt, no restarts.
// The Krylov basis is built on A M; the update is x += M (V y).
func (o *Smoother) gmres(x, b []float64) (iters int, rnorm float64, converged bool) {
	n := len(x)
	m := o.MaxIt

	r := make([]float64, n)
	o.A.MatVec(r, x)
	for i := 0; i < n; i++ {
		r[i] = b[i] - r[i]
	}
	beta := norm2(r)
	if beta <= o.Tol {
		return 0, beta, true
	}

	v := make([][]float64, m+1)
	v[0] = make([]float64, n)
	for i := 0; i < n; i++ {
		v[0][i] = r[i] / beta
	}
	h := make([][]float64, m+1)
	for i := range h {
		h[i] = make([]float64, m)
	}
	cs := make([]float64, m)
	sn := make([]float64, m)
	g := make([]float64, m+1)
	g[0] = beta

	z := make([]float64, n)
	w := make([]float64, n)
	k := 0
	for ; k < m; k++ {

		// Arnoldi step with modified Gram-Schmidt
		o.M.Apply(z, v[k])
		o.A.MatVec(w, z)
		for j := 0; j <= k; j++ {
			h[j][k] = dot(w, v[j])
			for i := 0; i < n; i++ {
				w[i] -= h[j][k] * v[j][i]
			}
		}
		hk := norm2(w)

		// rotate the new column into upper-triangular form
		for j := 0; j < k; j++ {
			t := cs[j]*h[j][k] + sn[j]*h[j+1][k]
			h[j+1][k] = -sn[j]*h[j][k] + cs[j]*h[j+1][k]
			h[j][k] = t
		}
		cs[k], sn[k] = givens(h[k][k], hk)
		h[k][k] = cs[k]*h[k][k] + sn[k]*hk
		g[k+1] = -sn[k] * g[k]
		g[k] = cs[k] * g[k]

		rnorm = math.Abs(g[k+1])
		if rnorm <= o.Tol {
			k++
			converged = true
			break
		}
		if hk == 0 { // lucky breakdown: the basis is exhausted
			k++
			converged = true
			break
		}
		v[k+1] = make([]float64, n)
		for i := 0; i < n; i++ {
			v[k+1][i] = w[i] / hk
		}
	}

	// back substitution and update
	y := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		y[i] = g[i]
		for j := i + 1; j < k; j++ {
			y[i] -= h[i][j] * y[j]
		}
		y[i] /= h[i][i]
	}
	for i := 0; i < n; i++ {
		z[i] = 0
	}
	for j := 0; j < k; j++ {
		for i := 0; i < n; i++ {
			z[i] += y[j] * v[j][i]
		}
	}
	o.M.Apply(w, z)
	for i := 0; i < n; i++ {
		x[i] += w[i]
	}
	return k, rnorm, converged || rnorm <= o.Tol
}

func givens(a, b float64) (c, s float64) {
	if b == 0 {
		return 1, 0
	}
	if math.Abs(b) > math.Abs(a) {
		t := a / b
		s = 1 / math.Sqrt(1+t*t)
		c = s * t
		return
	}
	t := b / a
	c = 1 / math.Sqrt(1+t*t)
	s = c * t
	return
}

func norm2(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
