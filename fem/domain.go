// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem ties the mesh, the element assembly and the linear-algebra
// layer into the global system and the nonlinear time-step driver
package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/jonathonloftin/femus/ad"
	"github.com/jonathonloftin/femus/ele"
	"github.com/jonathonloftin/femus/leq"
	"github.com/jonathonloftin/femus/msh"
)

// Domain holds the global system of one mesh level: the dof map, the
// element assembler, the solution state and the global residual and matrix
type Domain struct {
	Msh   *msh.Mesh
	Dm    *msh.DofMap
	Itg   ele.Integrand
	Bfunc ele.BoundaryFunc
	Comm  leq.Comm

	St  *ad.Stack
	Asm *ele.Assembler
	Sol *ele.Solution

	RES leq.Vector // global right-hand side: -R with essential overrides
	KK  leq.Matrix // global Jacobian dR/dy with essential identity rows
}

// NewDomain allocates the global system over the given level
func NewDomain(m *msh.Mesh, itg ele.Integrand, bfunc ele.BoundaryFunc, comm leq.Comm) (o *Domain) {
	o = new(Domain)
	o.Msh = m
	o.Dm = msh.NewDofMap(m, itg.Fields())
	o.Itg = itg
	o.Bfunc = bfunc
	o.Comm = comm
	o.St = ad.NewStack()
	o.Asm = ele.NewAssembler(m, o.Dm, itg, bfunc, o.St)
	o.Sol = ele.NewSolution(o.Dm.Ny)
	o.RES = leq.NewDenseVec(o.Dm.Ny)

	// every owned element contributes one dense local block
	nnz := 0
	for _, c := range m.OwnedCells(comm.Rank()) {
		nd := 0
		for f := range itg.Fields() {
			nd += o.Dm.NumDofs(f, c)
		}
		nnz += nd * nd
	}
	o.KK = leq.NewTripletMat(o.Dm.Ny, nnz)
	return
}

// AssembleSystem rebuilds RES (and, with withMatrix, KK) from the current
// solution state by the exact-once protocol: zero, one blocked addition per
// owned element, collective close, then essential-row surgery. Residual-only
// passes keep the differentiation tape paused and produce bit-identical
// residual values.
func (o *Domain) AssembleSystem(withMatrix bool) (err error) {
	if !withMatrix {
		o.St.Pause()
		defer o.St.Resume()
	}
	o.RES.Zero()
	if withMatrix {
		o.KK.Zero()
	}

	neg := make([]float64, 0, 64)
	var jac []float64
	for _, c := range o.Msh.OwnedCells(o.Comm.Rank()) {
		loc, e := o.Asm.AssembleElement(c, o.Sol)
		if e != nil {
			return e
		}
		n := loc.Ndofs()
		neg = neg[:0]
		for _, v := range loc.Res {
			neg = append(neg, -v)
		}
		o.RES.AddBlocked(neg, loc.Dofs)
		if withMatrix {
			if cap(jac) < n*n {
				jac = make([]float64, n*n)
			}
			loc.Jacobian(jac[:n*n])
			o.KK.AddBlocked(jac[:n*n], loc.Dofs)
		} else {
			loc.Discard()
		}
	}
	o.RES.Close(o.Comm)
	if withMatrix {
		o.KK.Close(o.Comm)
	}

	// essential rows: identity in KK, prescribed-minus-current in RES, so
	// the Newton update drives the prescribed dofs onto their values
	ebc := ele.MarkEssential(o.Msh, o.Dm, o.Bfunc, o.Sol.T)
	for i, r := range ebc.Dofs {
		o.RES.Set(r, ebc.Vals[i]-o.Sol.Y[r])
	}
	if withMatrix {
		o.KK.SetIdentityRows(ebc.Dofs)
	}
	return
}

// ApplyEssential writes the prescribed values at time t straight into the
// solution vector (initial conditions and step predictors)
func (o *Domain) ApplyEssential(t float64) {
	ebc := ele.MarkEssential(o.Msh, o.Dm, o.Bfunc, t)
	ebc.Apply(o.Sol.Y)
}

// FieldValue reads the current value of a node field at vertex v
func (o *Domain) FieldValue(field string, v int) float64 {
	f := o.Dm.FieldIndex(field)
	if o.Dm.Fields[f].Kind != msh.NodeField {
		chk.Panic("field %q has no vertex values", field)
	}
	return o.Sol.Y[o.Dm.Offs[f]+v]
}
