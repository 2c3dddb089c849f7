// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msh holds the partitioned mesh level and the dof map
package msh

import "github.com/cpmech/gosl/chk"

// Vertex holds a mesh vertex
type Vertex struct {
	Id int       // identifier
	X  []float64 // coordinates [ndim]
}

// Cell holds an element of the mesh level
//
// FaceGroups encodes, per local face, either the id of the neighbour cell
// across that face (value >= 0) or a physical boundary with group id
// recoverable by negation and offset: group = -(value + 1)
type Cell struct {
	Id         int    // identifier
	Geo        string // geometry key; e.g. "lin2", "qua4"
	Part       int    // owning partition
	Verts      []int  // vertices (global ids)
	FaceGroups []int  // [nfaces] neighbour id or negative boundary sentinel
}

// Mesh holds one level of a partitioned mesh. It is immutable during a
// solve; only external refinement replaces it.
type Mesh struct {
	Ndim   int       // space dimension
	Verts  []*Vertex // all vertices
	Cells  []*Cell   // all cells (every partition sees the whole level)
	Nparts int       // number of partitions
}

// OwnedCells returns the cells owned by the given partition. With a single
// partition every cell is owned.
func (o *Mesh) OwnedCells(proc int) (cells []*Cell) {
	if o.Nparts <= 1 {
		return o.Cells
	}
	for _, c := range o.Cells {
		if c.Part == proc {
			cells = append(cells, c)
		}
	}
	return
}

// BoundaryGroup decodes the face sentinel of cell c at local face idxface.
// onBry is false when the face has a neighbour cell instead.
func (o *Mesh) BoundaryGroup(c *Cell, idxface int) (group int, onBry bool) {
	v := c.FaceGroups[idxface]
	if v >= 0 {
		return 0, false
	}
	return -(v + 1), true
}

// CellCoords builds the coordinates matrix of a cell: [ndim][nverts]
func (o *Mesh) CellCoords(c *Cell) (x [][]float64) {
	x = make([][]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		x[i] = make([]float64, len(c.Verts))
		for m, v := range c.Verts {
			x[i][m] = o.Verts[v].X[i]
		}
	}
	return
}

// constructors (test meshes; reading real mesh files is external) ///////////////////////////////

// Uniform1D returns a 1D mesh of nx lin2 cells over [0,L], all in one
// partition. Boundary groups: 1 @ x=0 and 2 @ x=L.
func Uniform1D(nx int, L float64) (o *Mesh) {
	if nx < 1 {
		chk.Panic("Uniform1D needs at least one cell. nx=%d is invalid", nx)
	}
	o = new(Mesh)
	o.Ndim = 1
	o.Nparts = 1
	dx := L / float64(nx)
	for i := 0; i <= nx; i++ {
		o.Verts = append(o.Verts, &Vertex{Id: i, X: []float64{float64(i) * dx}})
	}
	for e := 0; e < nx; e++ {
		left, right := e-1, e+1
		if e == 0 {
			left = -(1 + 1) // group 1
		}
		if e == nx-1 {
			right = -(2 + 1) // group 2
		}
		o.Cells = append(o.Cells, &Cell{
			Id: e, Geo: "lin2", Verts: []int{e, e + 1},
			FaceGroups: []int{left, right},
		})
	}
	return
}

// UniformQuad returns a 2D mesh of nx*ny qua4 cells over [0,Lx]×[0,Ly], all
// in one partition. Boundary groups: 1=left, 2=right, 3=bottom, 4=top.
// Local faces follow the qua4 edge order: bottom, right, top, left.
func UniformQuad(nx, ny int, Lx, Ly float64) (o *Mesh) {
	if nx < 1 || ny < 1 {
		chk.Panic("UniformQuad needs at least one cell per direction. nx=%d ny=%d is invalid", nx, ny)
	}
	o = new(Mesh)
	o.Ndim = 2
	o.Nparts = 1
	dx, dy := Lx/float64(nx), Ly/float64(ny)
	id := 0
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			o.Verts = append(o.Verts, &Vertex{Id: id, X: []float64{float64(i) * dx, float64(j) * dy}})
			id++
		}
	}
	vid := func(i, j int) int { return j*(nx+1) + i }
	cid := func(i, j int) int { return j*nx + i }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			fg := []int{cid(i, j-1), cid(i+1, j), cid(i, j+1), cid(i-1, j)}
			if j == 0 {
				fg[0] = -(3 + 1)
			}
			if i == nx-1 {
				fg[1] = -(2 + 1)
			}
			if j == ny-1 {
				fg[2] = -(4 + 1)
			}
			if i == 0 {
				fg[3] = -(1 + 1)
			}
			o.Cells = append(o.Cells, &Cell{
				Id: cid(i, j), Geo: "qua4",
				Verts:      []int{vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)},
				FaceGroups: fg,
			})
		}
	}
	return
}
