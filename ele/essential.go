// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"sort"

	"github.com/jonathonloftin/femus/msh"
	"github.com/jonathonloftin/femus/shp"
)

// EssentialBcs collects the prescribed (Dirichlet) dofs of one mesh level,
// sorted by global dof index with no duplicates
type EssentialBcs struct {
	Dofs []int     // prescribed global dofs
	Vals []float64 // prescribed values, aligned with Dofs
}

// MarkEssential sweeps every boundary face of the level and asks the
// boundary predicate, at each face vertex, whether the node fields are
// prescribed there. A vertex shared by a Dirichlet face and a flux face
// ends up prescribed: essential conditions win at corners.
func MarkEssential(m *msh.Mesh, dm *msh.DofMap, bfunc BoundaryFunc, t float64) (o *EssentialBcs) {
	o = new(EssentialBcs)
	if bfunc == nil {
		return
	}
	vals := make(map[int]float64)
	shapes := make(map[string]*shp.Shape)
	for _, c := range m.Cells {
		sh, ok := shapes[c.Geo]
		if !ok {
			sh = shp.Get(c.Geo)
			shapes[c.Geo] = sh
		}
		for idxface := range c.FaceGroups {
			group, onBry := m.BoundaryGroup(c, idxface)
			if !onBry {
				continue
			}
			for _, lv := range sh.FaceLocalVerts[idxface] {
				v := m.Verts[c.Verts[lv]]
				for f, fld := range dm.Fields {
					if fld.Kind == msh.CellField {
						continue
					}
					isDir, val := bfunc(v.X, fld.Name, group, t)
					if !isDir {
						continue
					}
					vals[dm.Dof(f, c, lv)] = val
				}
			}
		}
	}
	for r := range vals {
		o.Dofs = append(o.Dofs, r)
	}
	sort.Ints(o.Dofs)
	o.Vals = make([]float64, len(o.Dofs))
	for i, r := range o.Dofs {
		o.Vals[i] = vals[r]
	}
	return
}

// Apply writes the prescribed values into the solution vector
func (o *EssentialBcs) Apply(y []float64) {
	for i, r := range o.Dofs {
		y[r] = o.Vals[i]
	}
}
