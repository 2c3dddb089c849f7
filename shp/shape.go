// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape functions and quadrature rules
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Ipoint holds one integration point: natural coordinates and weight.
// The weight is always the last (fourth) component, as in [r, s, t, w].
type Ipoint []float64

// Shape holds the shape-function data of one geometry type. The scratchpad
// fields (S, DSdR, G, J, Sf, Fnvec) are overwritten by every call to
// CalcAtIp / CalcAtFaceIp; a Shape must not be shared across goroutines.
type Shape struct {

	// constants
	Type           string      // geometry key; e.g. "lin2"
	Gndim          int         // geometry dimension
	Nverts         int         // number of vertices
	NatCoords      [][]float64 // [gndim][nverts] natural coordinates of vertices
	FaceType       string      // geometry key of faces ("" in 1D: faces are points)
	FaceNverts     int         // number of vertices per face
	FaceLocalVerts [][]int     // [nfaces][face nverts] local vertex ids per face

	// function
	fcn     func(S []float64, dSdR [][]float64, r []float64, derivs bool) // shape function
	faceFcn func(S []float64, dSdR [][]float64, r []float64, derivs bool) // face shape function

	// scratchpad: volume
	S    []float64   // [nverts] shape values @ ip
	DSdR [][]float64 // [nverts][gndim] derivatives w.r.t natural coordinates
	G    [][]float64 // [nverts][gndim] derivatives w.r.t physical coordinates
	J    float64     // Jacobian determinant @ ip

	// scratchpad: face
	Sf    []float64 // [face nverts] face shape values @ face ip
	Fnvec []float64 // [gndim] face normal vector, scaled by the face Jacobian

	// scratchpad: auxiliary
	dxdr [][]float64
	drdx [][]float64
	dSfdR [][]float64
}

// Get returns a new Shape structure for the given geometry type.
// Unknown types are a fatal configuration error.
func Get(geoType string) (o *Shape) {
	o = new(Shape)
	o.Type = geoType
	switch geoType {
	case "lin2":
		o.Gndim = 1
		o.Nverts = 2
		o.NatCoords = [][]float64{{-1, 1}}
		o.FaceNverts = 1
		o.FaceLocalVerts = [][]int{{0}, {1}}
		o.fcn = lin2Fcn
	case "qua4":
		o.Gndim = 2
		o.Nverts = 4
		o.NatCoords = [][]float64{
			{-1, 1, 1, -1},
			{-1, -1, 1, 1},
		}
		o.FaceType = "lin2"
		o.FaceNverts = 2
		o.FaceLocalVerts = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
		o.fcn = qua4Fcn
		o.faceFcn = lin2Fcn
	default:
		chk.Panic("cannot find shape type %q", geoType)
	}
	o.S = make([]float64, o.Nverts)
	o.DSdR = utl.Alloc(o.Nverts, o.Gndim)
	o.G = utl.Alloc(o.Nverts, o.Gndim)
	o.dxdr = utl.Alloc(o.Gndim, o.Gndim)
	o.drdx = utl.Alloc(o.Gndim, o.Gndim)
	if o.FaceType != "" {
		o.Sf = make([]float64, o.FaceNverts)
		o.Fnvec = make([]float64, o.Gndim)
		o.dSfdR = utl.Alloc(o.FaceNverts, 1)
	}
	return
}

// Func evaluates the shape functions (and derivatives) at natural coords r
func (o *Shape) Func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	o.fcn(S, dSdR, r, derivs)
}

// GetIps returns the integration points of the element and of its faces.
// nip/nipf == 0 selects the default rule of the geometry.
func (o *Shape) GetIps(nip, nipf int) (ipsElem, ipsFace []Ipoint, err error) {
	switch o.Type {
	case "lin2":
		ipsElem, err = gaussLine(nip, 2)
		if err != nil {
			return
		}
		// faces are points in 1D: no face rule
	case "qua4":
		var ips1 []Ipoint
		ips1, err = gaussLine(nip, 2)
		if err != nil {
			return
		}
		for _, a := range ips1 {
			for _, b := range ips1 {
				ipsElem = append(ipsElem, Ipoint{a[0], b[0], 0, a[3] * b[3]})
			}
		}
		ipsFace, err = gaussLine(nipf, 2)
		if err != nil {
			return
		}
	}
	return
}

// CalcAtIp computes the shape values, Jacobian determinant and, if derivs is
// true, the physical-coordinate gradients G at one integration point.
//  x -- coordinates matrix [ndim][nverts]
func (o *Shape) CalcAtIp(x [][]float64, ip Ipoint, derivs bool) (err error) {
	o.fcn(o.S, o.DSdR, ip, true) // DSdR is always needed for the Jacobian
	// dx/dr
	for i := 0; i < o.Gndim; i++ {
		for j := 0; j < o.Gndim; j++ {
			o.dxdr[i][j] = 0
			for m := 0; m < o.Nverts; m++ {
				o.dxdr[i][j] += x[i][m] * o.DSdR[m][j]
			}
		}
	}
	// determinant and inverse
	switch o.Gndim {
	case 1:
		o.J = o.dxdr[0][0]
		if o.J == 0 {
			return chk.Err("singular Jacobian in %q element", o.Type)
		}
		o.drdx[0][0] = 1.0 / o.J
	case 2:
		o.J = o.dxdr[0][0]*o.dxdr[1][1] - o.dxdr[0][1]*o.dxdr[1][0]
		if o.J == 0 {
			return chk.Err("singular Jacobian in %q element", o.Type)
		}
		o.drdx[0][0] = o.dxdr[1][1] / o.J
		o.drdx[0][1] = -o.dxdr[0][1] / o.J
		o.drdx[1][0] = -o.dxdr[1][0] / o.J
		o.drdx[1][1] = o.dxdr[0][0] / o.J
	}
	if !derivs {
		return
	}
	// G = dS/dx
	for m := 0; m < o.Nverts; m++ {
		for i := 0; i < o.Gndim; i++ {
			o.G[m][i] = 0
			for j := 0; j < o.Gndim; j++ {
				o.G[m][i] += o.DSdR[m][j] * o.drdx[j][i]
			}
		}
	}
	return
}

// CalcAtFaceIp computes the face shape values Sf and the face normal vector
// Fnvec (whose norm is the face Jacobian) at one face integration point.
// Only meaningful for Gndim >= 2; in 1D a face is a single point with
// implicit unit weight and no Jacobian transform.
func (o *Shape) CalcAtFaceIp(x [][]float64, ipf Ipoint, idxface int) (err error) {
	if o.FaceType == "" {
		return chk.Err("%q has point faces: no face integration rule", o.Type)
	}
	o.faceFcn(o.Sf, o.dSfdR, ipf, true)
	lverts := o.FaceLocalVerts[idxface]
	// tangent vector dx/dr along the face
	tx, ty := 0.0, 0.0
	for k, m := range lverts {
		tx += o.dSfdR[k][0] * x[0][m]
		ty += o.dSfdR[k][0] * x[1][m]
	}
	// outward normal (faces are ordered counter-clockwise)
	o.Fnvec[0] = ty
	o.Fnvec[1] = -tx
	return
}

// FnvecNorm returns the norm of the face normal vector (the face Jacobian)
func (o *Shape) FnvecNorm() float64 {
	s := 0.0
	for _, v := range o.Fnvec {
		s += v * v
	}
	return math.Sqrt(s)
}

// FaceCentroid returns the centroid coordinate of a face
func (o *Shape) FaceCentroid(x [][]float64, idxface int) (c []float64) {
	lverts := o.FaceLocalVerts[idxface]
	nd := len(x)
	c = make([]float64, nd)
	for _, m := range lverts {
		for i := 0; i < nd; i++ {
			c[i] += x[i][m] / float64(len(lverts))
		}
	}
	return
}

// IpRealCoords returns the physical coordinates of an integration point
func (o *Shape) IpRealCoords(x [][]float64, ip Ipoint) (c []float64) {
	o.fcn(o.S, o.DSdR, ip, false)
	nd := len(x)
	c = make([]float64, nd)
	for m := 0; m < o.Nverts; m++ {
		for i := 0; i < nd; i++ {
			c[i] += o.S[m] * x[i][m]
		}
	}
	return
}

// shape functions //////////////////////////////////////////////////////////////////////////////

func lin2Fcn(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	S[0] = 0.5 * (1.0 - r[0])
	S[1] = 0.5 * (1.0 + r[0])
	if derivs {
		dSdR[0][0] = -0.5
		dSdR[1][0] = 0.5
	}
}

func qua4Fcn(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	rm := []float64{-1, 1, 1, -1}
	sm := []float64{-1, -1, 1, 1}
	for m := 0; m < 4; m++ {
		S[m] = 0.25 * (1.0 + r[0]*rm[m]) * (1.0 + r[1]*sm[m])
		if derivs {
			dSdR[m][0] = 0.25 * rm[m] * (1.0 + r[1]*sm[m])
			dSdR[m][1] = 0.25 * sm[m] * (1.0 + r[0]*rm[m])
		}
	}
}

// quadrature ///////////////////////////////////////////////////////////////////////////////////

// gaussLine returns a 1D Gauss-Legendre rule with npts points (0 == default)
func gaussLine(npts, def int) (ips []Ipoint, err error) {
	if npts == 0 {
		npts = def
	}
	switch npts {
	case 1:
		ips = []Ipoint{{0, 0, 0, 2}}
	case 2:
		a := 1.0 / math.Sqrt(3.0)
		ips = []Ipoint{{-a, 0, 0, 1}, {a, 0, 0, 1}}
	case 3:
		a := math.Sqrt(3.0 / 5.0)
		ips = []Ipoint{{-a, 0, 0, 5.0 / 9.0}, {0, 0, 0, 8.0 / 9.0}, {a, 0, 0, 5.0 / 9.0}}
	default:
		err = chk.Err("cannot find 1D Gauss rule with %d points", npts)
	}
	return
}
