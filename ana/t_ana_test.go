// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func verbose() {
	chk.Verbose = true
}

func Test_rod01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rod01. steady rod solution")

	rod := &SteadyRod{L: 2, K: 3, Ua: 1, Ub: 5, Src: 6}
	chk.Float64(tst, "u(0)", 1e-15, rod.U(0), 1)
	chk.Float64(tst, "u(L)", 1e-15, rod.U(2), 5)

	// -k u'' = src at the midpoint, by central differences
	h := 1e-4
	d2 := (rod.U(1+h) - 2*rod.U(1) + rod.U(1-h)) / (h * h)
	chk.Float64(tst, "-k u''", 1e-5, -rod.K*d2, rod.Src)
}

func Test_slab01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("slab01. slab mode satisfies the heat equation")

	s := &SlabMode{L: 1.5, Kappa: 0.7, U0: 2}
	chk.Float64(tst, "u(0,t)", 1e-15, s.U(0, 0.3), 0)
	chk.Float64(tst, "u(L,t)", 1e-14, s.U(1.5, 0.3), 0)

	h := 1e-4
	x, t := 0.4, 0.2
	ut := (s.U(x, t+h) - s.U(x, t-h)) / (2 * h)
	uxx := (s.U(x+h, t) - 2*s.U(x, t) + s.U(x-h, t)) / (h * h)
	chk.Float64(tst, "u_t - kappa u_xx", 1e-6, ut-s.Kappa*uxx, 0)
	if math.Abs(s.U(x, t)) < 1e-10 {
		tst.Errorf("mode must be non-trivial at interior points\n")
	}
}
