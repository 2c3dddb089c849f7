// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mdl implements concrete weak-form models for the assembly engine
package mdl

import (
	"github.com/jonathonloftin/femus/ad"
	"github.com/jonathonloftin/femus/ele"
	"github.com/jonathonloftin/femus/msh"
)

// SourceFunc returns the volumetric source at a physical point and time
type SourceFunc func(x []float64, t float64) float64

// Diffusion models transient heat conduction with an optionally
// temperature-dependent conductivity:
//
//	rho du/dt - div(k(u) grad(u)) = src   with   k(u) = K0 (1 + Beta u)
//
// Beta == 0 recovers the linear problem.
type Diffusion struct {
	Rho    float64    // capacity coefficient
	K0     float64    // reference conductivity
	Beta   float64    // conductivity nonlinearity
	Src    SourceFunc // may be nil
	Steady bool       // drop the du/dt term
}

// Fields returns the single unknown field
func (o *Diffusion) Fields() []msh.Field {
	return []msh.Field{{Name: "u", Kind: msh.NodeField}}
}

// Transient tells whether the time-derivative term is active
func (o *Diffusion) Transient(f int) bool { return !o.Steady }

// Term evaluates the spatial integrand at the current state
func (o *Diffusion) Term(s *ad.Stack, p *ele.PointState, f, m int) ad.Num {
	src := 0.0
	if o.Src != nil {
		src = o.Src(p.X, p.T)
	}
	k := s.Scale(o.K0, s.AddVal(s.Scale(o.Beta, p.U[0]), 1))
	term := s.Const(-src * p.Phi[f][m] / o.Rho)
	for i := 0; i < p.Ndim; i++ {
		term = s.Add(term, s.Scale(1.0/o.Rho, s.Mul(k, s.Scale(p.GradPhi[f][m][i], p.GradU[f][i]))))
	}
	return term
}

// TermOld evaluates the spatial integrand at the old-step state
func (o *Diffusion) TermOld(p *ele.PointState, f, m int) float64 {
	src := 0.0
	if o.Src != nil {
		src = o.Src(p.X, p.Told)
	}
	k := o.K0 * (1 + o.Beta*p.Uold[0])
	term := -src * p.Phi[f][m] / o.Rho
	for i := 0; i < p.Ndim; i++ {
		term += k * p.GradPhi[f][m][i] * p.GradUold[f][i] / o.Rho
	}
	return term
}
