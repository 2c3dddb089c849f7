// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/jonathonloftin/femus/ad"
	"github.com/jonathonloftin/femus/ele"
	"github.com/jonathonloftin/femus/msh"
)

func verbose() {
	chk.Verbose = true
}

func Test_mdl01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mdl01. diffusion residual of a linear field")

	// u = x over [0,2] with k = 3, rho = 2: R = [-k, 0, k]/rho
	m := msh.Uniform1D(2, 2.0)
	itg := &Diffusion{Rho: 2, K0: 3, Steady: true}
	dm := msh.NewDofMap(m, itg.Fields())
	st := ad.NewStack()
	st.Pause()
	asm := ele.NewAssembler(m, dm, itg, nil, st)

	sol := ele.NewSolution(dm.Ny)
	for i, v := range m.Verts {
		sol.Y[i] = v.X[0]
	}
	res := make([]float64, dm.Ny)
	for _, c := range m.Cells {
		loc, err := asm.AssembleElement(c, sol)
		if err != nil {
			tst.Errorf("assembly failed: %v\n", err)
			return
		}
		for i, r := range loc.Dofs {
			res[r] += loc.Res[i]
		}
		loc.Discard()
	}
	chk.Array(tst, "R", 1e-14, res, []float64{-1.5, 0, 1.5})
}

func Test_mdl02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mdl02. Boussinesq Jacobian matches finite differences")

	m := msh.UniformQuad(1, 1, 1.0, 1.0)
	itg := NewBoussinesq()
	dm := msh.NewDofMap(m, itg.Fields())
	st := ad.NewStack()
	asm := ele.NewAssembler(m, dm, itg, nil, st)

	sol := ele.NewSolution(dm.Ny)
	sol.Dt = 0.1
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < dm.Ny; i++ {
		sol.Y[i] = 0.5 * rnd.Float64()
		sol.Yold[i] = 0.5 * rnd.Float64()
	}

	c := m.Cells[0]
	loc, err := asm.AssembleElement(c, sol)
	if err != nil {
		tst.Errorf("assembly failed: %v\n", err)
		return
	}
	n := loc.Ndofs() // 4 T + 4 U + 4 V + 1 P
	if n != 13 {
		tst.Errorf("wrong number of local dofs: %d\n", n)
		return
	}
	jac := make([]float64, n*n)
	loc.Jacobian(jac)

	stfd := ad.NewStack()
	stfd.Pause()
	asmfd := ele.NewAssembler(m, dm, itg, nil, stfd)
	resfcn := func(u, r []float64) {
		for i, rr := range loc.Dofs {
			sol.Y[rr] = u[i]
		}
		l, e := asmfd.AssembleElement(c, sol)
		if e != nil {
			tst.Errorf("assembly failed: %v\n", e)
			return
		}
		copy(r, l.Res)
		l.Discard()
	}
	u := make([]float64, n)
	for i, rr := range loc.Dofs {
		u[i] = sol.Y[rr]
	}
	jfd := make([]float64, n*n)
	ad.FDJacobian(jfd, resfcn, u, n, 1e-6)
	chk.Array(tst, "K vs FD", 1e-6, jac, jfd)
}

func Test_mdl03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mdl03. divergence residual of a linear velocity field")

	// u = (x, -y) is divergence free: the P block residual vanishes
	m := msh.UniformQuad(2, 2, 1.0, 1.0)
	itg := NewBoussinesq()
	dm := msh.NewDofMap(m, itg.Fields())
	st := ad.NewStack()
	st.Pause()
	asm := ele.NewAssembler(m, dm, itg, nil, st)

	sol := ele.NewSolution(dm.Ny)
	fU, fV := dm.FieldIndex("U"), dm.FieldIndex("V")
	loU, _ := dm.FieldRange(fU)
	loV, _ := dm.FieldRange(fV)
	for i, v := range m.Verts {
		sol.Y[loU+i] = v.X[0]
		sol.Y[loV+i] = -v.X[1]
	}
	sol.Commit() // steady state: old equals current

	fP := dm.FieldIndex("P")
	loP, hiP := dm.FieldRange(fP)
	res := make([]float64, dm.Ny)
	for _, c := range m.Cells {
		loc, err := asm.AssembleElement(c, sol)
		if err != nil {
			tst.Errorf("assembly failed: %v\n", err)
			return
		}
		for i, r := range loc.Dofs {
			res[r] += loc.Res[i]
		}
		loc.Discard()
	}
	for r := loP; r < hiP; r++ {
		chk.Float64(tst, "div(u)", 1e-14, res[r], 0)
	}
}
