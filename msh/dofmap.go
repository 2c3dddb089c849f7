// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import "github.com/cpmech/gosl/chk"

// FieldKind distinguishes how a field attaches dofs to the mesh
type FieldKind int

const (

	// NodeField has one dof per vertex (Lagrange interpolation)
	NodeField FieldKind = iota

	// CellField has one dof per cell (piecewise constant; e.g. pressure)
	CellField
)

// Field describes one unknown field of the PDE system
type Field struct {
	Name string    // e.g. "T", "U", "V", "P"
	Kind FieldKind // dof attachment
}

// DofMap maps (field, cell, local index) onto the global dof set. Fields
// occupy contiguous global blocks in declaration order, so a field-split
// leaf spans a well defined index range. Shared dofs of neighbouring cells
// map onto the same global index; none are dropped or duplicated.
type DofMap struct {
	Msh    *Mesh
	Fields []Field
	Offs   []int // [nfields] global offset of each field block
	Ny     int   // total number of dofs
}

// NewDofMap builds the dof map for the given fields over the mesh level
func NewDofMap(m *Mesh, fields []Field) (o *DofMap) {
	o = new(DofMap)
	o.Msh = m
	o.Fields = fields
	o.Offs = make([]int, len(fields))
	for f, fld := range fields {
		o.Offs[f] = o.Ny
		switch fld.Kind {
		case NodeField:
			o.Ny += len(m.Verts)
		case CellField:
			o.Ny += len(m.Cells)
		default:
			chk.Panic("unknown field kind %d for field %q", fld.Kind, fld.Name)
		}
	}
	return
}

// FieldIndex returns the index of a field given its name. Unresolvable
// names are a fatal configuration error.
func (o *DofMap) FieldIndex(name string) int {
	for f, fld := range o.Fields {
		if fld.Name == name {
			return f
		}
	}
	chk.Panic("cannot resolve field named %q", name)
	return -1
}

// NumDofs returns the number of local dofs of field f on cell c
func (o *DofMap) NumDofs(f int, c *Cell) int {
	if o.Fields[f].Kind == CellField {
		return 1
	}
	return len(c.Verts)
}

// Dof returns the global dof index of local dof i of field f on cell c
func (o *DofMap) Dof(f int, c *Cell, i int) int {
	if o.Fields[f].Kind == CellField {
		return o.Offs[f] + c.Id
	}
	return o.Offs[f] + c.Verts[i]
}

// FieldRange returns the half-open global index range [lo,hi) of field f
func (o *DofMap) FieldRange(f int) (lo, hi int) {
	lo = o.Offs[f]
	if f+1 < len(o.Fields) {
		return lo, o.Offs[f+1]
	}
	return lo, o.Ny
}

// FieldRanges returns all per-field ranges, in field order
func (o *DofMap) FieldRanges() (ranges [][]int) {
	ranges = make([][]int, len(o.Fields))
	for f := range o.Fields {
		lo, hi := o.FieldRange(f)
		ranges[f] = []int{lo, hi}
	}
	return
}
