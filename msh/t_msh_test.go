// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func verbose() {
	chk.Verbose = true
}

func Test_mesh01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh01. 1D mesh and boundary sentinels")

	m := Uniform1D(2, 1.0)
	chk.IntAssert(len(m.Verts), 3)
	chk.IntAssert(len(m.Cells), 2)

	// shared vertex
	chk.Ints(tst, "cell0 verts", m.Cells[0].Verts, []int{0, 1})
	chk.Ints(tst, "cell1 verts", m.Cells[1].Verts, []int{1, 2})

	// boundary sentinels
	g, onBry := m.BoundaryGroup(m.Cells[0], 0)
	if !onBry {
		tst.Errorf("left face of cell 0 must be on the boundary\n")
		return
	}
	chk.IntAssert(g, 1)
	g, onBry = m.BoundaryGroup(m.Cells[1], 1)
	if !onBry {
		tst.Errorf("right face of cell 1 must be on the boundary\n")
		return
	}
	chk.IntAssert(g, 2)

	// interior faces
	_, onBry = m.BoundaryGroup(m.Cells[0], 1)
	if onBry {
		tst.Errorf("interior face reported as boundary\n")
	}
}

func Test_mesh02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mesh02. quad mesh groups")

	m := UniformQuad(2, 2, 1.0, 1.0)
	chk.IntAssert(len(m.Verts), 9)
	chk.IntAssert(len(m.Cells), 4)

	// cell 0 touches bottom (3) and left (1)
	g, onBry := m.BoundaryGroup(m.Cells[0], 0)
	chk.IntAssert(g, 3)
	if !onBry {
		tst.Errorf("bottom face of cell 0 must be on the boundary\n")
	}
	g, _ = m.BoundaryGroup(m.Cells[0], 3)
	chk.IntAssert(g, 1)

	// cell 3 touches right (2) and top (4)
	g, _ = m.BoundaryGroup(m.Cells[3], 1)
	chk.IntAssert(g, 2)
	g, _ = m.BoundaryGroup(m.Cells[3], 2)
	chk.IntAssert(g, 4)
}

func Test_dofmap01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dofmap01. shared dofs merged, fields in blocks")

	m := Uniform1D(2, 1.0)
	dm := NewDofMap(m, []Field{{"u", NodeField}, {"p", CellField}})
	chk.IntAssert(dm.Ny, 3+2)

	// shared vertex 1 maps onto the same dof from both cells
	chk.IntAssert(dm.Dof(0, m.Cells[0], 1), dm.Dof(0, m.Cells[1], 0))

	// no dof is dropped or duplicated: all global indices covered exactly
	seen := make(map[int]int)
	for _, c := range m.Cells {
		for f := range dm.Fields {
			for i := 0; i < dm.NumDofs(f, c); i++ {
				seen[dm.Dof(f, c, i)]++
			}
		}
	}
	chk.IntAssert(len(seen), dm.Ny)

	// field blocks are contiguous and ordered
	lo, hi := dm.FieldRange(0)
	chk.Ints(tst, "u range", []int{lo, hi}, []int{0, 3})
	lo, hi = dm.FieldRange(1)
	chk.Ints(tst, "p range", []int{lo, hi}, []int{3, 5})
}

func Test_dofmap02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dofmap02. unresolvable field name is fatal")

	defer func() {
		if err := recover(); err == nil {
			tst.Errorf("FieldIndex must panic on unknown names\n")
		}
	}()
	m := Uniform1D(1, 1.0)
	dm := NewDofMap(m, []Field{{"u", NodeField}})
	dm.FieldIndex("does-not-exist")
}
