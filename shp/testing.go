// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// loop over all vertices
	errS := 0.0
	r := []float64{0, 0, 0}
	for n := 0; n < shape.Nverts; n++ {

		// natural coordinates @ vertex
		for i := 0; i < shape.Gndim; i++ {
			r[i] = shape.NatCoords[i][n]
		}

		// compute function
		shape.Func(shape.S, shape.DSdR, r, false)

		// check
		if verbose {
			io.Pf("S = %v\n", shape.S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(shape.S[m] - 1.0)
			} else {
				errS += math.Abs(shape.S[m])
			}
		}
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckShapeFace checks shape functions @ faces
func CheckShapeFace(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// skip shapes with point faces
	if shape.FaceType == "" {
		return
	}

	// loop over face vertices
	errS := 0.0
	r := []float64{0, 0, 0}
	for k := range shape.FaceLocalVerts {
		for n := range shape.FaceLocalVerts[k] {

			// natural coordinates @ vertex
			m := shape.FaceLocalVerts[k][n]
			for i := 0; i < shape.Gndim; i++ {
				r[i] = shape.NatCoords[i][m]
			}

			// compute function
			shape.Func(shape.S, shape.DSdR, r, false)

			// check
			if verbose {
				io.Pforan("S = %v\n", shape.S)
			}
			for j, l := range shape.FaceLocalVerts[k] {
				if n == j {
					errS += math.Abs(shape.S[l] - 1.0)
				} else {
					errS += math.Abs(shape.S[l])
				}
			}
		}
	}

	// error
	if verbose {
		io.Pforan("%g\n", errS)
	}
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckDSdR checks dSdR derivatives of shape structures against central
// finite differences
func CheckDSdR(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {

	// analytical
	shape.Func(shape.S, shape.DSdR, r, true)

	// numerical
	h := 1e-6
	rr := make([]float64, len(r))
	copy(rr, r)
	Sp := make([]float64, shape.Nverts)
	Sm := make([]float64, shape.Nverts)
	for j := 0; j < shape.Gndim; j++ {
		rr[j] = r[j] + h
		shape.Func(Sp, nil, rr, false)
		rr[j] = r[j] - h
		shape.Func(Sm, nil, rr, false)
		rr[j] = r[j]
		for m := 0; m < shape.Nverts; m++ {
			dnum := (Sp[m] - Sm[m]) / (2.0 * h)
			if verbose {
				io.Pf("dS%d/dR%d: ana=%13.6e num=%13.6e\n", m, j, shape.DSdR[m][j], dnum)
			}
			chk.Float64(tst, io.Sf("dS%d/dR%d", m, j), tol, shape.DSdR[m][j], dnum)
		}
	}
}
