// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/gosl/chk"

	"github.com/jonathonloftin/femus/ad"
	"github.com/jonathonloftin/femus/msh"
	"github.com/jonathonloftin/femus/shp"
)

// Assembler builds per-element residuals and differentiation recordings
// from the injected weak form
type Assembler struct {
	Msh   *msh.Mesh
	Dm    *msh.DofMap
	Itg   Integrand
	Bfunc BoundaryFunc // may be nil: every face defaults to "not Dirichlet" with zero datum
	St    *ad.Stack

	shapes map[string]*shp.Shape
	ipsE   map[string][]shp.Ipoint
	ipsF   map[string][]shp.Ipoint
}

// Local holds the result of one element assembly: the local residual and
// the (still open) differentiation recording. The recording is consumed by
// Jacobian or released by Discard, exactly once.
type Local struct {
	Dofs []int     // local-to-global map, field blocks concatenated
	Res  []float64 // local residual R, same layout as Dofs
	Nper []int     // dofs per field block

	st   ad.Recorder
	u    [][]ad.Num
	ares [][]ad.Num
	open bool
}

// NewAssembler returns an element assembler over the given mesh level
func NewAssembler(m *msh.Mesh, dm *msh.DofMap, itg Integrand, bfunc BoundaryFunc, st *ad.Stack) (o *Assembler) {
	o = new(Assembler)
	o.Msh = m
	o.Dm = dm
	o.Itg = itg
	o.Bfunc = bfunc
	o.St = st
	o.shapes = make(map[string]*shp.Shape)
	o.ipsE = make(map[string][]shp.Ipoint)
	o.ipsF = make(map[string][]shp.Ipoint)
	for _, c := range m.Cells {
		if _, ok := o.shapes[c.Geo]; ok {
			continue
		}
		sh := shp.Get(c.Geo)
		ipse, ipsf, err := sh.GetIps(0, 0)
		if err != nil {
			chk.Panic("cannot allocate integration points of %q element: %v", c.Geo, err)
		}
		o.shapes[c.Geo] = sh
		o.ipsE[c.Geo] = ipse
		o.ipsF[c.Geo] = ipsf
	}
	return
}

// AssembleElement runs the quadrature loop of one element: interpolates
// field values and gradients from nodal values, evaluates the weak-form
// integrand at current and old state, adds boundary face contributions, and
// returns the local residual together with the open recording. Transient
// fields use the average of current- and old-step integrands plus a
// backward-difference du/dt term over sol.Dt.
func (o *Assembler) AssembleElement(c *msh.Cell, sol *Solution) (loc *Local, err error) {

	// element data
	sh := o.shapes[c.Geo]
	x := o.Msh.CellCoords(c)
	fields := o.Itg.Fields()
	nf := len(fields)

	// local buffers: rebuilt every element
	loc = new(Local)
	loc.st = o.St
	loc.Nper = make([]int, nf)
	ntot := 0
	for f := range fields {
		loc.Nper[f] = o.Dm.NumDofs(f, c)
		ntot += loc.Nper[f]
	}
	loc.Dofs = make([]int, 0, ntot)
	for f := range fields {
		for i := 0; i < loc.Nper[f]; i++ {
			loc.Dofs = append(loc.Dofs, o.Dm.Dof(f, c, i))
		}
	}

	// local storage of current and old solution
	ucur := make([][]float64, nf)
	uold := make([][]float64, nf)
	for f := range fields {
		ucur[f] = make([]float64, loc.Nper[f])
		uold[f] = make([]float64, loc.Nper[f])
		for i := 0; i < loc.Nper[f]; i++ {
			r := o.Dm.Dof(f, c, i)
			ucur[f][i] = sol.Y[r]
			uold[f][i] = sol.Yold[r]
		}
	}

	// open the recording and register independents in field order
	o.St.NewRecording()
	loc.open = !o.St.Paused()
	loc.u = make([][]ad.Num, nf)
	loc.ares = make([][]ad.Num, nf)
	for f := range fields {
		loc.u[f] = o.St.RegisterAll(ucur[f])
		loc.ares[f] = make([]ad.Num, loc.Nper[f])
		for i := range loc.ares[f] {
			loc.ares[f][i] = o.St.Const(0)
		}
	}

	// point state scratchpad
	p := new(PointState)
	p.Ndim = o.Msh.Ndim
	p.T = sol.T
	p.Told = sol.T - sol.Dt
	p.Phi = make([][]float64, nf)
	p.GradPhi = make([][][]float64, nf)
	p.U = make([]ad.Num, nf)
	p.GradU = make([][]ad.Num, nf)
	p.Uold = make([]float64, nf)
	p.GradUold = make([][]float64, nf)
	for f := range fields {
		p.GradU[f] = make([]ad.Num, p.Ndim)
		p.GradUold[f] = make([]float64, p.Ndim)
	}
	onePhi := []float64{1}
	zeroGrad := make([][]float64, 1)
	zeroGrad[0] = make([]float64, p.Ndim)

	// quadrature loop
	for _, ip := range o.ipsE[c.Geo] {

		// geometry: shape values, gradients and Jacobian @ ip
		err = sh.CalcAtIp(x, ip, true)
		if err != nil {
			return nil, chk.Err("element %d: %v", c.Id, err)
		}
		p.W = sh.J * ip[len(ip)-1]
		p.X = sh.IpRealCoords(x, ip)

		// interpolate field values and gradients
		for f, fld := range fields {
			if fld.Kind == msh.CellField {
				p.Phi[f] = onePhi
				p.GradPhi[f] = zeroGrad
				p.U[f] = loc.u[f][0]
				p.Uold[f] = uold[f][0]
				for i := 0; i < p.Ndim; i++ {
					p.GradU[f][i] = o.St.Const(0)
					p.GradUold[f][i] = 0
				}
				continue
			}
			p.Phi[f] = sh.S
			p.GradPhi[f] = sh.G
			val := o.St.Const(0)
			vold := 0.0
			for i := 0; i < p.Ndim; i++ {
				p.GradU[f][i] = o.St.Const(0)
				p.GradUold[f][i] = 0
			}
			for m := 0; m < sh.Nverts; m++ {
				val = o.St.Add(val, o.St.Scale(sh.S[m], loc.u[f][m]))
				vold += sh.S[m] * uold[f][m]
				for i := 0; i < p.Ndim; i++ {
					p.GradU[f][i] = o.St.Add(p.GradU[f][i], o.St.Scale(sh.G[m][i], loc.u[f][m]))
					p.GradUold[f][i] += sh.G[m][i] * uold[f][m]
				}
			}
			p.U[f] = val
			p.Uold[f] = vold
		}

		// accumulate weak-form terms into every test-function slot
		for f := range fields {
			for m := 0; m < loc.Nper[f]; m++ {
				term := o.Itg.Term(o.St, p, f, m)
				if o.Itg.Transient(f) {
					told := o.Itg.TermOld(p, f, m)
					dudt := o.St.Scale(p.Phi[f][m]/sol.Dt, o.St.AddVal(p.U[f], -p.Uold[f]))
					avg := o.St.Scale(0.5, o.St.AddVal(term, told))
					loc.ares[f][m] = o.St.Add(loc.ares[f][m], o.St.Scale(p.W, o.St.Add(dudt, avg)))
				} else {
					loc.ares[f][m] = o.St.Add(loc.ares[f][m], o.St.Scale(p.W, term))
				}
			}
		}
	}

	// boundary face contributions
	err = o.addNatBcs(c, sh, x, sol, loc)
	if err != nil {
		return nil, err
	}

	// local residual
	loc.Res = make([]float64, 0, ntot)
	for f := range fields {
		for m := 0; m < loc.Nper[f]; m++ {
			loc.Res = append(loc.Res, loc.ares[f][m].Val)
		}
	}
	return
}

// Jacobian extracts the dense local Jacobian block dR[dep][indep] in
// row-major order, blocks concatenated in field order (all residual blocks,
// then all unknown blocks), and closes the recording.
func (o *Local) Jacobian(jac []float64) {
	if !o.open {
		chk.Panic("no open recording: Jacobian extraction is only valid in with-matrix passes")
	}
	for f := range o.ares {
		o.st.Dependent(o.ares[f]...)
	}
	for f := range o.u {
		o.st.Independent(o.u[f]...)
	}
	o.st.Jacobian(jac)
	o.st.EndRecording()
	o.open = false
}

// Discard releases the recording without extraction (residual-only passes
// keep the tape paused, so this is usually a no-op)
func (o *Local) Discard() {
	if o.open {
		o.st.EndRecording()
		o.open = false
	}
}

// Ndofs returns the total number of local dofs
func (o *Local) Ndofs() int { return len(o.Dofs) }
