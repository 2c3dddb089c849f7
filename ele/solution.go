// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Solution holds the two-slot solution state: the current values mutated
// during nonlinear iteration and the old (last accepted step) values. Yold
// is overwritten only by Commit, which the time-step driver invokes on step
// acceptance.
type Solution struct {
	T    float64   // current time
	Dt   float64   // current time-step size
	Y    []float64 // [ny] current values, indexed by global dof
	Yold []float64 // [ny] last accepted values
}

// NewSolution returns a zeroed solution with ny dofs
func NewSolution(ny int) (o *Solution) {
	o = new(Solution)
	o.Y = make([]float64, ny)
	o.Yold = make([]float64, ny)
	return
}

// Commit accepts the current step: the current values become the old ones
func (o *Solution) Commit() {
	copy(o.Yold, o.Y)
}
