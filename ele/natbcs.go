// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/gosl/chk"

	"github.com/jonathonloftin/femus/msh"
	"github.com/jonathonloftin/femus/shp"
)

// addNatBcs subtracts natural (flux) boundary contributions from the local
// residual. The boundary predicate is queried once per face at the face
// centroid; the returned datum is then applied at every face integration
// point. Faces whose predicate answers Dirichlet, or whose datum is zero,
// contribute nothing. Cell fields carry no face test functions and are
// always skipped.
func (o *Assembler) addNatBcs(c *msh.Cell, sh *shp.Shape, x [][]float64, sol *Solution, loc *Local) (err error) {
	if o.Bfunc == nil {
		return
	}
	for idxface := range c.FaceGroups {
		group, onBry := o.Msh.BoundaryGroup(c, idxface)
		if !onBry {
			continue
		}
		xc := sh.FaceCentroid(x, idxface)
		for f, fld := range o.Itg.Fields() {
			if fld.Kind == msh.CellField {
				continue
			}
			isDir, val := o.Bfunc(xc, fld.Name, group, sol.T)
			if isDir || val == 0 {
				continue
			}

			// 1D: the face is a point with implicit unit weight
			if sh.FaceType == "" {
				m := sh.FaceLocalVerts[idxface][0]
				loc.ares[f][m] = o.St.AddVal(loc.ares[f][m], -val)
				continue
			}

			// 2D: integrate val against the face test functions
			for _, ipf := range o.ipsF[c.Geo] {
				err = sh.CalcAtFaceIp(x, ipf, idxface)
				if err != nil {
					return chk.Err("element %d, face %d: %v", c.Id, idxface, err)
				}
				coef := ipf[len(ipf)-1] * sh.FnvecNorm() * val
				for k, m := range sh.FaceLocalVerts[idxface] {
					loc.ares[f][m] = o.St.AddVal(loc.ares[f][m], -coef*sh.Sf[k])
				}
			}
		}
	}
	return
}
