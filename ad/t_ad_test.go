// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func verbose() {
	chk.Verbose = true
}

func Test_tape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tape01. Jacobian of a small recorded function")

	// r0 = u0*u1 + 2 u0
	// r1 = u1/u0
	s := NewStack()
	s.NewRecording()
	u := s.RegisterAll([]float64{3.0, 5.0})
	r0 := s.Add(s.Mul(u[0], u[1]), s.Scale(2, u[0]))
	r1 := s.Div(u[1], u[0])
	s.Dependent(r0, r1)
	s.Independent(u...)

	jac := make([]float64, 4)
	s.Jacobian(jac)
	s.EndRecording()

	chk.Float64(tst, "r0", 1e-15, r0.Val, 21.0)
	chk.Float64(tst, "r1", 1e-15, r1.Val, 5.0/3.0)
	chk.Array(tst, "J", 1e-14, jac, []float64{
		5.0 + 2.0, 3.0, // dr0/du
		-5.0 / 9.0, 1.0 / 3.0, // dr1/du
	})
}

func Test_tape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tape02. tape matches finite differences")

	resfcn := func(u, r []float64) {
		r[0] = u[0]*u[0]*u[1] - u[2]
		r[1] = u[1]*u[2] + 4.0*u[0]
	}
	u := []float64{1.2, -0.7, 2.5}

	// tape
	s := NewStack()
	s.NewRecording()
	un := s.RegisterAll(u)
	r0 := s.Sub(s.Mul(s.Mul(un[0], un[0]), un[1]), un[2])
	r1 := s.Add(s.Mul(un[1], un[2]), s.Scale(4, un[0]))
	s.Dependent(r0, r1)
	s.Independent(un...)
	jac := make([]float64, 6)
	s.Jacobian(jac)
	s.EndRecording()

	// finite differences
	jfd := make([]float64, 6)
	FDJacobian(jfd, resfcn, u, 2, 1e-6)
	chk.Array(tst, "J vs FD", 1e-7, jac, jfd)
}

func Test_tape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tape03. overlapping recordings are fatal")

	s := NewStack()
	s.NewRecording()
	defer func() {
		if err := recover(); err == nil {
			tst.Errorf("opening a second recording must panic\n")
		}
	}()
	s.NewRecording()
}

func Test_tape04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tape04. paused tape computes values passively")

	s := NewStack()
	s.Pause()
	s.NewRecording() // no-op while paused
	u := s.RegisterAll([]float64{2.0, 3.0})
	r := s.Mul(u[0], u[1])
	chk.Float64(tst, "r", 1e-15, r.Val, 6.0)
	if len(s.nodes) != 0 {
		tst.Errorf("paused tape must not record nodes\n")
	}
	s.Resume()

	// values computed while paused must equal values computed while taping
	s.NewRecording()
	v := s.RegisterAll([]float64{2.0, 3.0})
	rr := s.Mul(v[0], v[1])
	s.EndRecording()
	if r.Val != rr.Val {
		tst.Errorf("paused and recorded evaluations differ: %v != %v\n", r.Val, rr.Val)
	}
}
