// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build mpi

package leq

import "github.com/cpmech/gosl/mpi"

// MPIComm runs the reductions over an MPI communicator. Build with the
// "mpi" tag and launch one process per mesh partition.
type MPIComm struct {
	C   *mpi.Communicator
	buf []float64
}

// NewMPIComm wraps the world communicator. mpi.Start must have been called.
func NewMPIComm() *MPIComm {
	return &MPIComm{C: mpi.NewCommunicator(nil)}
}

// Rank returns this partition's rank
func (o *MPIComm) Rank() int { return o.C.Rank() }

// Size returns the number of partitions
func (o *MPIComm) Size() int { return o.C.Size() }

func (o *MPIComm) scratch(n int) []float64 {
	if cap(o.buf) < n {
		o.buf = make([]float64, n)
	}
	return o.buf[:n]
}

// AllReduceSum sums x across all partitions, in place
func (o *MPIComm) AllReduceSum(x []float64) {
	w := o.scratch(len(x))
	copy(w, x)
	o.C.AllReduceSum(x, w)
}

// AllReduceMax maximizes x across all partitions, in place
func (o *MPIComm) AllReduceMax(x []float64) {
	w := o.scratch(len(x))
	copy(w, x)
	o.C.AllReduceMax(x, w)
}

// AllReduceMin minimizes x across all partitions, in place. min(x) equals
// -max(-x), so the reduction runs through AllReduceMax on the negated data.
func (o *MPIComm) AllReduceMin(x []float64) {
	for i := range x {
		x[i] = -x[i]
	}
	o.AllReduceMax(x)
	for i := range x {
		x[i] = -x[i]
	}
}
