// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

// FDJacobian fills jac (row-major, nr × len(u)) with a central-difference
// approximation of dr/du by re-running the residual function. This is the
// substitutable fallback differentiation strategy; the solver uses the tape.
func FDJacobian(jac []float64, resfcn func(u, r []float64), u []float64, nr int, h float64) {
	nu := len(u)
	rp := make([]float64, nr)
	rm := make([]float64, nr)
	uu := make([]float64, nu)
	copy(uu, u)
	for j := 0; j < nu; j++ {
		uu[j] = u[j] + h
		resfcn(uu, rp)
		uu[j] = u[j] - h
		resfcn(uu, rm)
		uu[j] = u[j]
		for i := 0; i < nr; i++ {
			jac[i*nu+j] = (rp[i] - rm[i]) / (2.0 * h)
		}
	}
}
