// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leq

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// PrecKind selects the preconditioner applied at a tree level
type PrecKind int

const (

	// ASMPrecond solves the level's block with additive Schwarz
	ASMPrecond PrecKind = iota

	// JacobiPrecond scales the level's block by its inverse diagonal
	JacobiPrecond

	// FieldSplitPrecond delegates the level's block to the child trees
	FieldSplitPrecond
)

// SolType tags the interpolation family of a field
type SolType int

const (

	// SolNode marks a nodal (Lagrange) field
	SolNode SolType = iota

	// SolCell marks a piecewise-constant cell field
	SolCell
)

// FieldSplitTree declares a recursive block preconditioner over the unknown
// fields. Leaves own disjoint sets of field indices and solve their block
// with their own preconditioner; inner nodes delegate to their children.
// Every level wraps its outer iterative scheme around that preconditioner:
// PreOnly applies it once, Richardson sweeps over it, GMRES accelerates it.
// The tree is declarative: Build turns it into a Preconditioner for a given
// matrix and field layout.
type FieldSplitTree struct {
	Name     string
	Kind     SolverKind // outer scheme of this level
	Prec     PrecKind   // preconditioner of this level
	Fields   []int      // leaf: owned field indices, in block order
	Types    []SolType  // leaf: solution type per owned field
	Children []*FieldSplitTree

	// leaf solver settings
	BlockSize int // ASM block size (0: one block)
	NumSchur  int // trailing unknowns split into a Schur block

	// outer-scheme settings
	Sweeps int     // iteration bound of the outer scheme (0: one)
	Damp   float64 // Richardson damping (0: one)
}

// CreateLeaf declares a leaf owning the given field indices, one solution
// type tag per field
func CreateLeaf(kind SolverKind, prec PrecKind, fields []int, types []SolType, name string) *FieldSplitTree {
	if prec == FieldSplitPrecond {
		chk.Panic("field split %q: a leaf has no children to delegate to", name)
	}
	if len(types) != len(fields) {
		chk.Panic("field split %q: %d fields need %d solution type tags (have %d)",
			name, len(fields), len(fields), len(types))
	}
	return &FieldSplitTree{Name: name, Kind: kind, Prec: prec, Fields: fields, Types: types}
}

// CreateNode declares an inner node over the given children
func CreateNode(kind SolverKind, prec PrecKind, children []*FieldSplitTree, name string) *FieldSplitTree {
	if prec != FieldSplitPrecond {
		chk.Panic("field split %q: an inner node delegates to its children", name)
	}
	return &FieldSplitTree{Name: name, Kind: kind, Prec: prec, Children: children}
}

// SetBlockSize sets the ASM block size of a leaf
func (o *FieldSplitTree) SetBlockSize(b int) *FieldSplitTree {
	if len(o.Children) > 0 {
		chk.Panic("field split %q: block size applies to leaves only", o.Name)
	}
	o.BlockSize = b
	return o
}

// SetNumSchur sets the number of trailing Schur unknowns of a leaf
func (o *FieldSplitTree) SetNumSchur(ns int) *FieldSplitTree {
	if len(o.Children) > 0 {
		chk.Panic("field split %q: Schur count applies to leaves only", o.Name)
	}
	o.NumSchur = ns
	return o
}

// allFields collects the field indices of the subtree, in declaration order
func (o *FieldSplitTree) allFields() (fields []int) {
	if len(o.Children) == 0 {
		return o.Fields
	}
	for _, c := range o.Children {
		fields = append(fields, c.allFields()...)
	}
	return
}

// Validate checks that the leaves own disjoint field sets whose union is
// exactly {0,...,nfields-1}. A malformed tree is a fatal setup error.
func (o *FieldSplitTree) Validate(nfields int) {
	seen := make(map[int]string)
	var walk func(t *FieldSplitTree)
	walk = func(t *FieldSplitTree) {
		if len(t.Children) == 0 {
			if len(t.Fields) == 0 {
				chk.Panic("field split %q: leaf owns no fields", t.Name)
			}
			for _, f := range t.Fields {
				if f < 0 || f >= nfields {
					chk.Panic("field split %q: field index %d out of range [0,%d)", t.Name, f, nfields)
				}
				if prev, ok := seen[f]; ok {
					chk.Panic("field split: field %d claimed by both %q and %q", f, prev, t.Name)
				}
				seen[f] = t.Name
			}
			return
		}
		for _, c := range t.Children {
			walk(c)
		}
	}
	walk(o)
	for f := 0; f < nfields; f++ {
		if _, ok := seen[f]; !ok {
			chk.Panic("field split: field %d is not claimed by any leaf", f)
		}
	}
}

// Build turns the tree into a preconditioner for the given matrix. ranges
// holds the half-open global dof range of each field, by field index. The
// returned preconditioner reads and writes full-length vectors but only
// touches the dofs of the subtree.
func (o *FieldSplitTree) Build(a *mat.Dense, ranges [][]int) Preconditioner {
	idx := fieldDofs(o.allFields(), ranges)
	sub := subMatrix(a, idx)

	var m Preconditioner
	if len(o.Children) == 0 {
		switch o.Prec {
		case ASMPrecond:
			m = NewASM(sub, o.BlockSize, o.NumSchur)
		case JacobiPrecond:
			m = NewJacobi(sub)
		default:
			chk.Panic("field split %q: unknown leaf preconditioner %d", o.Name, o.Prec)
		}
	} else {
		n, _ := a.Dims()
		add := &additivePrec{
			idx: idx,
			pos: make(map[int]int, len(idx)),
			rg:  make([]float64, n),
			zg:  make([]float64, n),
		}
		for i, g := range idx {
			add.pos[g] = i
		}
		for _, c := range o.Children {
			add.children = append(add.children, c.Build(a, ranges))
			add.cidx = append(add.cidx, fieldDofs(c.allFields(), ranges))
		}
		m = add
	}

	it := o.Sweeps
	if it == 0 {
		it = 1
	}
	return &splitPrec{
		idx: idx,
		smoo: &Smoother{
			Kind: o.Kind, MaxIt: it, Damp: o.Damp,
			A: &DenseMat{D: sub}, M: m,
		},
		rl: make([]float64, len(idx)),
		zl: make([]float64, len(idx)),
	}
}

// fieldDofs concatenates the dof ranges of the given fields, in order
func fieldDofs(fields []int, ranges [][]int) (idx []int) {
	for _, f := range fields {
		for r := ranges[f][0]; r < ranges[f][1]; r++ {
			idx = append(idx, r)
		}
	}
	return
}

// subMatrix extracts the dense submatrix over the given index set
func subMatrix(a *mat.Dense, idx []int) (s *mat.Dense) {
	n := len(idx)
	s = mat.NewDense(n, n, nil)
	for i, r := range idx {
		for j, c := range idx {
			s.Set(i, j, a.At(r, c))
		}
	}
	return
}

// splitPrec runs one level's outer scheme over its dof span: gather the
// residual, smooth the block system from a zero guess, scatter the result
type splitPrec struct {
	idx    []int
	smoo   *Smoother
	rl, zl []float64
}

func (o *splitPrec) Apply(z, r []float64) {
	for i, g := range o.idx {
		o.rl[i] = r[g]
		o.zl[i] = 0
	}
	o.smoo.Solve(o.zl, o.rl)
	for i, g := range o.idx {
		z[g] = o.zl[i]
	}
}

// additivePrec sums the children's corrections, each applied to the node's
// residual over its own dofs (the block-Jacobi composition of the split).
// It works on node-local vectors; the children work on full-length ones.
type additivePrec struct {
	idx      []int
	pos      map[int]int // global dof to node-local position
	children []Preconditioner
	cidx     [][]int
	rg, zg   []float64
}

func (o *additivePrec) Apply(z, r []float64) {
	for i := range o.rg {
		o.rg[i] = 0
	}
	for i, g := range o.idx {
		o.rg[g] = r[i]
	}
	for i := range z {
		z[i] = 0
	}
	for c, child := range o.children {
		child.Apply(o.zg, o.rg)
		for _, g := range o.cidx[c] {
			z[o.pos[g]] += o.zg[g]
		}
	}
}
