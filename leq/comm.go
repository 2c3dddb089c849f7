// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package leq implements the distributed linear-algebra layer: exact-once
// global vectors and matrices, preconditioners, bounded Krylov smoothers and
// the field-split preconditioner tree
package leq

// Comm is the collective-communication capability of the solver. Every
// partition calls the reductions collectively; the serial implementation
// makes them no-ops so the same assembly and solve code runs unchanged.
type Comm interface {
	Rank() int
	Size() int
	AllReduceSum(x []float64)
	AllReduceMax(x []float64)
	AllReduceMin(x []float64)
}

// SerialComm is the single-partition communicator
type SerialComm struct{}

// Rank returns 0
func (o SerialComm) Rank() int { return 0 }

// Size returns 1
func (o SerialComm) Size() int { return 1 }

// AllReduceSum is a no-op in serial runs
func (o SerialComm) AllReduceSum(x []float64) {}

// AllReduceMax is a no-op in serial runs
func (o SerialComm) AllReduceMax(x []float64) {}

// AllReduceMin is a no-op in serial runs
func (o SerialComm) AllReduceMin(x []float64) {}
