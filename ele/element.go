// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele implements the element-level weak-form assembly engine
package ele

import (
	"github.com/jonathonloftin/femus/ad"
	"github.com/jonathonloftin/femus/msh"
)

// BoundaryFunc is the application-supplied boundary-condition predicate,
// invoked once per boundary face at the face centroid:
//  x     -- centroid coordinate
//  field -- field name
//  group -- boundary group id
//  t     -- current time
// When isDirichlet is false, value is the weak Neumann/Robin datum.
type BoundaryFunc func(x []float64, field string, group int, t float64) (isDirichlet bool, value float64)

// PointState holds the interpolated state at one quadrature point. It is
// rebuilt for every element; nothing here persists across elements.
type PointState struct {
	Ndim     int
	W        float64       // quadrature weight × |Jacobian|
	T        float64       // current time
	Told     float64       // old-step time
	X        []float64     // physical coordinates of the point
	Phi      [][]float64   // [field][dof] test-function values
	GradPhi  [][][]float64 // [field][dof][dim] test-function gradients
	U        []ad.Num      // [field] current value (recorded)
	GradU    [][]ad.Num    // [field][dim] current gradient (recorded)
	Uold     []float64     // [field] old-step value
	GradUold [][]float64   // [field][dim] old-step gradient
}

// Integrand is the injected weak form. PDE-specific physical parameters
// live inside the concrete integrand; the assembler is generic.
type Integrand interface {

	// Fields returns the unknown fields in block order
	Fields() []msh.Field

	// Transient tells whether field f carries a du/dt term. Transient
	// integrands are averaged between current and old state (implicit
	// trapezoid); steady ones are evaluated at the current state only.
	Transient(f int) bool

	// Term evaluates the spatial weak-form integrand at the current
	// (recorded) state, tested against local shape m of field f
	Term(s *ad.Stack, p *PointState, f, m int) ad.Num

	// TermOld evaluates the same integrand at the old-step state
	TermOld(p *PointState, f, m int) float64
}
