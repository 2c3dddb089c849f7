// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"

	"github.com/jonathonloftin/femus/ad"
	"github.com/jonathonloftin/femus/ele"
	"github.com/jonathonloftin/femus/msh"
)

// Boussinesq models 2D natural convection in the nondimensional Boussinesq
// approximation. Unknowns, in block order: temperature T, velocities U and
// V (node fields) and a piecewise constant pressure P (cell field).
//
//	dT/dt + u.grad(T) - alpha/sqrt(Ra Pr) lap(T)              = 0
//	du/dt + u.grad(u) + grad(P) - sqrt(Pr/Ra) div(2 eps(u))   = beta T ey
//	div(u)                                                    = 0
//
// The momentum diffusion uses the symmetric velocity gradient and the
// buoyancy acts on the vertical (V) component only.
// The continuity equation carries a small pressure penalty: the bilinear
// velocity / constant pressure pair admits spurious pressure modes and the
// penalty keeps the pressure block invertible.
type Boussinesq struct {
	Pr      float64 // Prandtl number
	Ra      float64 // Rayleigh number
	Alpha   float64 // thermal diffusivity factor
	Beta    float64 // buoyancy factor
	Penalty float64 // pressure penalty in the continuity equation
}

// field block indices
const (
	bqT = iota
	bqU
	bqV
	bqP
)

// NewBoussinesq returns the model with the reference low-Prandtl setup
func NewBoussinesq() *Boussinesq {
	return &Boussinesq{Pr: 0.015, Ra: 3000, Alpha: 1, Beta: 1, Penalty: 1e-6}
}

// Fields returns the unknown fields in block order
func (o *Boussinesq) Fields() []msh.Field {
	return []msh.Field{
		{Name: "T", Kind: msh.NodeField},
		{Name: "U", Kind: msh.NodeField},
		{Name: "V", Kind: msh.NodeField},
		{Name: "P", Kind: msh.CellField},
	}
}

// Transient tells which blocks carry a time derivative. The continuity
// equation is a pure constraint.
func (o *Boussinesq) Transient(f int) bool { return f != bqP }

// Term evaluates the spatial integrand at the current state
func (o *Boussinesq) Term(s *ad.Stack, p *ele.PointState, f, m int) ad.Num {
	kappa := o.Alpha / math.Sqrt(o.Ra*o.Pr)
	nu := math.Sqrt(o.Pr / o.Ra)
	term := s.Const(0)
	switch f {
	case bqT:
		for j := 0; j < p.Ndim; j++ {
			term = s.Add(term, s.Scale(kappa*p.GradPhi[f][m][j], p.GradU[bqT][j]))
			term = s.Add(term, s.Scale(p.Phi[f][m], s.Mul(p.U[bqU+j], p.GradU[bqT][j])))
		}
	case bqU, bqV:
		k := f - bqU
		for j := 0; j < p.Ndim; j++ {
			sym := s.Add(p.GradU[bqU+k][j], p.GradU[bqU+j][k])
			term = s.Add(term, s.Scale(nu*p.GradPhi[f][m][j], sym))
			term = s.Add(term, s.Scale(p.Phi[f][m], s.Mul(p.U[bqU+j], p.GradU[bqU+k][j])))
		}
		term = s.Sub(term, s.Scale(p.GradPhi[f][m][k], p.U[bqP]))
		if k == 1 {
			term = s.Sub(term, s.Scale(o.Beta*p.Phi[f][m], p.U[bqT]))
		}
	case bqP:
		for k := 0; k < p.Ndim; k++ {
			term = s.Add(term, s.Scale(p.Phi[f][m], p.GradU[bqU+k][k]))
		}
		term = s.Add(term, s.Scale(o.Penalty*p.Phi[f][m], p.U[bqP]))
	}
	return term
}

// TermOld evaluates the spatial integrand at the old-step state
func (o *Boussinesq) TermOld(p *ele.PointState, f, m int) float64 {
	kappa := o.Alpha / math.Sqrt(o.Ra*o.Pr)
	nu := math.Sqrt(o.Pr / o.Ra)
	term := 0.0
	switch f {
	case bqT:
		for j := 0; j < p.Ndim; j++ {
			term += kappa * p.GradPhi[f][m][j] * p.GradUold[bqT][j]
			term += p.Phi[f][m] * p.Uold[bqU+j] * p.GradUold[bqT][j]
		}
	case bqU, bqV:
		k := f - bqU
		for j := 0; j < p.Ndim; j++ {
			term += nu * p.GradPhi[f][m][j] * (p.GradUold[bqU+k][j] + p.GradUold[bqU+j][k])
			term += p.Phi[f][m] * p.Uold[bqU+j] * p.GradUold[bqU+k][j]
		}
		term -= p.GradPhi[f][m][k] * p.Uold[bqP]
		if k == 1 {
			term -= o.Beta * p.Phi[f][m] * p.Uold[bqT]
		}
	case bqP:
		for k := 0; k < p.Ndim; k++ {
			term += p.Phi[f][m] * p.GradUold[bqU+k][k]
		}
		term += o.Penalty * p.Phi[f][m] * p.Uold[bqP]
	}
	return term
}
