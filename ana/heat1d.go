// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana provides closed-form reference solutions used to verify the
// discretization
package ana

import "math"

// SteadyRod is steady conduction in a rod with prescribed end values and a
// uniform source:
//
//	k u'' + src = 0,  u(0) = Ua,  u(L) = Ub
type SteadyRod struct {
	L   float64 // rod length
	K   float64 // conductivity
	Ua  float64 // value at x=0
	Ub  float64 // value at x=L
	Src float64 // uniform source
}

// U returns the value at x
func (o *SteadyRod) U(x float64) float64 {
	lin := o.Ua + (o.Ub-o.Ua)*x/o.L
	return lin + o.Src/(2.0*o.K)*x*(o.L-x)
}

// SlabMode is the fundamental decay mode of a slab held at zero on both
// faces with a sinusoidal initial condition:
//
//	u_t = kappa u_xx,  u(0,t) = u(L,t) = 0,  u(x,0) = U0 sin(pi x / L)
type SlabMode struct {
	L     float64 // slab thickness
	Kappa float64 // diffusivity
	U0    float64 // initial amplitude
}

// U returns the value at x and time t
func (o *SlabMode) U(x, t float64) float64 {
	lam := o.Kappa * math.Pi * math.Pi / (o.L * o.L)
	return o.U0 * math.Sin(math.Pi*x/o.L) * math.Exp(-lam*t)
}
