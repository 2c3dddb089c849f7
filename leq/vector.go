// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leq

import "github.com/cpmech/gosl/chk"

// Vector is a distributed global vector filled by exact-once accumulation:
// Zero, then AddBlocked once per owned element, then a collective Close that
// sums the partial contributions across partitions. Reading values or
// overwriting single entries is only valid on a closed vector.
type Vector interface {
	Len() int
	Zero()
	AddBlocked(vals []float64, dofs []int)
	Close(c Comm)
	Set(r int, v float64)
	Values() []float64
	Norm() float64
}

// DenseVec is the reference Vector over a plain slice
type DenseVec struct {
	data   []float64
	closed bool
}

// NewDenseVec returns an open, zeroed vector with n entries
func NewDenseVec(n int) *DenseVec {
	return &DenseVec{data: make([]float64, n)}
}

// Len returns the global size
func (o *DenseVec) Len() int { return len(o.data) }

// Zero reopens the vector for a new accumulation round
func (o *DenseVec) Zero() {
	for i := range o.data {
		o.data[i] = 0
	}
	o.closed = false
}

// AddBlocked accumulates one element's contribution
func (o *DenseVec) AddBlocked(vals []float64, dofs []int) {
	if o.closed {
		chk.Panic("cannot accumulate into a closed vector")
	}
	for i, r := range dofs {
		o.data[r] += vals[i]
	}
}

// Close finishes accumulation collectively. Closing twice is a fatal error.
func (o *DenseVec) Close(c Comm) {
	if o.closed {
		chk.Panic("vector closed twice in one accumulation round")
	}
	c.AllReduceSum(o.data)
	o.closed = true
}

// Set overwrites one entry of the closed vector (essential rows)
func (o *DenseVec) Set(r int, v float64) {
	if !o.closed {
		chk.Panic("cannot overwrite entries of an open vector")
	}
	o.data[r] = v
}

// Values returns the assembled entries of the closed vector
func (o *DenseVec) Values() []float64 {
	if !o.closed {
		chk.Panic("cannot read values of an open vector")
	}
	return o.data
}

// Norm returns the Euclidean norm of the closed vector
func (o *DenseVec) Norm() float64 {
	return norm2(o.Values())
}
