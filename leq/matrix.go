// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leq

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// Matrix is the distributed global matrix, filled by the same exact-once
// protocol as Vector: Zero, AddBlocked per owned element, collective Close.
// Row surgery (essential rows) and products are only valid once closed.
type Matrix interface {
	Dim() int
	Zero()
	AddBlocked(jac []float64, dofs []int)
	Close(c Comm)
	SetIdentityRows(rows []int)
	MatVec(y, x []float64)
	Dense() *mat.Dense
}

// TripletMat is the reference Matrix: contributions accumulate into a
// sparse triplet and materialize into a dense matrix at Close. It targets
// the coarse levels and moderate fine grids of the reference backend; a
// production backend would keep a distributed sparse format throughout.
type TripletMat struct {
	n      int
	tri    *la.Triplet
	dense  *mat.Dense
	closed bool
}

// NewTripletMat returns an open matrix of dimension n with capacity for
// nnzMax accumulated entries (duplicates counted separately)
func NewTripletMat(n, nnzMax int) (o *TripletMat) {
	o = new(TripletMat)
	o.n = n
	o.tri = la.NewTriplet(n, n, nnzMax)
	o.dense = mat.NewDense(n, n, nil)
	return
}

// Dim returns the global dimension
func (o *TripletMat) Dim() int { return o.n }

// Zero reopens the matrix for a new accumulation round
func (o *TripletMat) Zero() {
	o.tri.Start()
	o.closed = false
}

// AddBlocked accumulates one element's dense local block (row-major over
// the given dofs)
func (o *TripletMat) AddBlocked(jac []float64, dofs []int) {
	if o.closed {
		chk.Panic("cannot accumulate into a closed matrix")
	}
	n := len(dofs)
	if len(jac) != n*n {
		chk.Panic("local block has wrong size: %d != %d*%d", len(jac), n, n)
	}
	for i, r := range dofs {
		for j, c := range dofs {
			if v := jac[i*n+j]; v != 0 {
				o.tri.Put(r, c, v)
			}
		}
	}
}

// Close finishes accumulation collectively and materializes the dense form
func (o *TripletMat) Close(c Comm) {
	if o.closed {
		chk.Panic("matrix closed twice in one accumulation round")
	}
	d := o.tri.ToDense()
	for i := 0; i < o.n; i++ {
		for j := 0; j < o.n; j++ {
			o.dense.Set(i, j, d.Get(i, j))
		}
	}
	c.AllReduceSum(o.dense.RawMatrix().Data)
	o.closed = true
}

// SetIdentityRows replaces the given rows of the closed matrix by identity
// rows (essential boundary conditions)
func (o *TripletMat) SetIdentityRows(rows []int) {
	if !o.closed {
		chk.Panic("cannot modify rows of an open matrix")
	}
	for _, r := range rows {
		for j := 0; j < o.n; j++ {
			o.dense.Set(r, j, 0)
		}
		o.dense.Set(r, r, 1)
	}
}

// MatVec computes y = A x on the closed matrix
func (o *TripletMat) MatVec(y, x []float64) {
	if !o.closed {
		chk.Panic("cannot multiply with an open matrix")
	}
	yv := mat.NewVecDense(len(y), y)
	yv.MulVec(o.dense, mat.NewVecDense(len(x), x))
}

// Dense returns the closed dense form (shared, not a copy)
func (o *TripletMat) Dense() *mat.Dense {
	if !o.closed {
		chk.Panic("cannot read an open matrix")
	}
	return o.dense
}

// DenseMat adapts a plain gonum matrix (e.g. a Galerkin coarse operator)
// to the Matrix interface. It is born closed; accumulation is not supported.
type DenseMat struct {
	D *mat.Dense
}

// Dim returns the dimension
func (o *DenseMat) Dim() int { r, _ := o.D.Dims(); return r }

// Zero is not supported: DenseMat carries a precomputed operator
func (o *DenseMat) Zero() { chk.Panic("DenseMat does not support accumulation") }

// AddBlocked is not supported
func (o *DenseMat) AddBlocked(jac []float64, dofs []int) {
	chk.Panic("DenseMat does not support accumulation")
}

// Close is a no-op: the operator is already assembled
func (o *DenseMat) Close(c Comm) {}

// SetIdentityRows replaces the given rows by identity rows
func (o *DenseMat) SetIdentityRows(rows []int) {
	n := o.Dim()
	for _, r := range rows {
		for j := 0; j < n; j++ {
			o.D.Set(r, j, 0)
		}
		o.D.Set(r, r, 1)
	}
}

// MatVec computes y = A x
func (o *DenseMat) MatVec(y, x []float64) {
	yv := mat.NewVecDense(len(y), y)
	yv.MulVec(o.D, mat.NewVecDense(len(x), x))
}

// Dense returns the underlying matrix
func (o *DenseMat) Dense() *mat.Dense { return o.D }
