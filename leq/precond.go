// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leq

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Preconditioner approximates the action of A^{-1}: z = M r
type Preconditioner interface {
	Apply(z, r []float64)
}

// Jacobi is diagonal scaling
type Jacobi struct {
	d []float64
}

// NewJacobi extracts the inverse diagonal of A
func NewJacobi(a *mat.Dense) (o *Jacobi) {
	n, _ := a.Dims()
	o = &Jacobi{d: make([]float64, n)}
	for i := 0; i < n; i++ {
		v := a.At(i, i)
		if v == 0 {
			chk.Panic("zero diagonal at row %d: Jacobi preconditioning impossible", i)
		}
		o.d[i] = 1.0 / v
	}
	return
}

// Apply computes z = D^{-1} r
func (o *Jacobi) Apply(z, r []float64) {
	for i := range z {
		z[i] = o.d[i] * r[i]
	}
}

// DirectLU is the exact preconditioner: a dense LU factorization of A.
// Used on coarse grids and inside field-split leaves.
type DirectLU struct {
	lu mat.LU
	n  int
}

// NewDirectLU factorizes A. A singular factorization is a fatal error.
func NewDirectLU(a *mat.Dense) (o *DirectLU) {
	o = new(DirectLU)
	o.n, _ = a.Dims()
	o.lu.Factorize(a)
	return
}

// Apply solves A z = r
func (o *DirectLU) Apply(z, r []float64) {
	zv := mat.NewVecDense(o.n, z)
	err := o.lu.SolveVecTo(zv, false, mat.NewVecDense(o.n, r))
	if err != nil {
		chk.Panic("dense LU solve failed: %v", err)
	}
}

// ASM is an additive Schwarz preconditioner over contiguous, non-overlapping
// blocks of the given size, each factorized with a dense LU. With ns > 0 the
// trailing ns unknowns are split off and solved through an approximate Schur
// complement built on the block-inverse of the leading part, which is the
// usual treatment of a constraint block (e.g. pressure) inside a leaf.
type ASM struct {
	n, ns  int
	blocks [][2]int    // [lo,hi) of each leading block
	lus    []*DirectLU // one factorization per leading block
	schur  *DirectLU   // factorization of the approximate Schur complement
	aIS    *mat.Dense  // coupling A_IS (leading x trailing)
	aSI    *mat.Dense  // coupling A_SI (trailing x leading)
	wi, ws []float64   // scratch
}

// NewASM builds the preconditioner. bsize <= 0 means a single block.
func NewASM(a *mat.Dense, bsize, ns int) (o *ASM) {
	o = new(ASM)
	o.n, _ = a.Dims()
	o.ns = ns
	ni := o.n - ns
	if ni <= 0 {
		chk.Panic("cannot split %d trailing unknowns out of dimension %d", ns, o.n)
	}
	if bsize <= 0 {
		bsize = ni
	}
	for lo := 0; lo < ni; lo += bsize {
		hi := lo + bsize
		if hi > ni {
			hi = ni
		}
		o.blocks = append(o.blocks, [2]int{lo, hi})
		sub := mat.DenseCopyOf(a.Slice(lo, hi, lo, hi))
		o.lus = append(o.lus, NewDirectLU(sub))
	}
	o.wi = make([]float64, ni)
	if ns == 0 {
		return
	}

	// approximate Schur complement: S = A_SS - A_SI blkinv(A_II) A_IS
	o.aIS = mat.DenseCopyOf(a.Slice(0, ni, ni, o.n))
	o.aSI = mat.DenseCopyOf(a.Slice(ni, o.n, 0, ni))
	binv := mat.NewDense(ni, ns, nil)
	col := make([]float64, ni)
	zol := make([]float64, ni)
	for j := 0; j < ns; j++ {
		mat.Col(col, j, o.aIS)
		o.blkSolve(zol, col)
		binv.SetCol(j, zol)
	}
	s := mat.DenseCopyOf(a.Slice(ni, o.n, ni, o.n))
	var c mat.Dense
	c.Mul(o.aSI, binv)
	s.Sub(s, &c)
	o.schur = NewDirectLU(s)
	o.ws = make([]float64, ns)
	return
}

// blkSolve applies the block-diagonal inverse of the leading part
func (o *ASM) blkSolve(z, r []float64) {
	for b, blk := range o.blocks {
		o.lus[b].Apply(z[blk[0]:blk[1]], r[blk[0]:blk[1]])
	}
}

// Apply computes z = M r
func (o *ASM) Apply(z, r []float64) {
	ni := o.n - o.ns
	if o.ns == 0 {
		o.blkSolve(z, r)
		return
	}

	// predict interior, correct through the Schur block, re-solve interior
	o.blkSolve(z[:ni], r[:ni])
	tv := mat.NewVecDense(o.ns, o.ws)
	tv.MulVec(o.aSI, mat.NewVecDense(ni, z[:ni]))
	for i := 0; i < o.ns; i++ {
		o.ws[i] = r[ni+i] - o.ws[i]
	}
	o.schur.Apply(z[ni:], o.ws)
	iv := mat.NewVecDense(ni, o.wi)
	iv.MulVec(o.aIS, mat.NewVecDense(o.ns, z[ni:]))
	for i := 0; i < ni; i++ {
		o.wi[i] = r[i] - o.wi[i]
	}
	o.blkSolve(z[:ni], o.wi)
}
