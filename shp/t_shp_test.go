// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func verbose() {
	chk.Verbose = true
}

func Test_shp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shp01. shape functions @ nodes and faces")

	for _, geo := range []string{"lin2", "qua4"} {
		s := Get(geo)
		CheckShape(tst, s, 1e-15, chk.Verbose)
		CheckShapeFace(tst, s, 1e-15, chk.Verbose)
		CheckDSdR(tst, s, []float64{0.25, -0.4, 0}, 1e-8, chk.Verbose)
	}
}

func Test_shp02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shp02. Jacobian and quadrature on reference cells")

	// lin2 over [0,2]: J = 1, ∫ dx = sum w*J = 2
	s := Get("lin2")
	x := [][]float64{{0, 2}}
	ips, _, err := s.GetIps(0, 0)
	if err != nil {
		tst.Errorf("GetIps failed: %v\n", err)
		return
	}
	vol := 0.0
	for _, ip := range ips {
		err = s.CalcAtIp(x, ip, true)
		if err != nil {
			tst.Errorf("CalcAtIp failed: %v\n", err)
			return
		}
		chk.Float64(tst, "J", 1e-15, s.J, 1.0)
		vol += s.J * ip[3]
	}
	chk.Float64(tst, "length", 1e-15, vol, 2.0)

	// qua4 over [0,3]×[0,2]: area = 6
	q := Get("qua4")
	xq := [][]float64{
		{0, 3, 3, 0},
		{0, 0, 2, 2},
	}
	ipsq, ipsf, err := q.GetIps(0, 0)
	if err != nil {
		tst.Errorf("GetIps failed: %v\n", err)
		return
	}
	area := 0.0
	for _, ip := range ipsq {
		err = q.CalcAtIp(xq, ip, true)
		if err != nil {
			tst.Errorf("CalcAtIp failed: %v\n", err)
			return
		}
		area += q.J * ip[3]
	}
	chk.Float64(tst, "area", 1e-14, area, 6.0)

	// face 0 (bottom edge, length 3): ∫ dΓ = sum wf*|Fnvec| = 3
	flen := 0.0
	for _, ipf := range ipsf {
		err = q.CalcAtFaceIp(xq, ipf, 0)
		if err != nil {
			tst.Errorf("CalcAtFaceIp failed: %v\n", err)
			return
		}
		flen += ipf[3] * q.FnvecNorm()
	}
	chk.Float64(tst, "face length", 1e-14, flen, 3.0)

	// bottom edge normal points outwards (negative y)
	if q.Fnvec[1] >= 0 {
		tst.Errorf("bottom face normal must point downwards. Fnvec=%v\n", q.Fnvec)
	}

	// centroid of the right edge
	c := q.FaceCentroid(xq, 1)
	chk.Array(tst, "face centroid", 1e-15, c, []float64{3, 1})

	// physical coordinates of the first volume ip: the reference point
	// (-g,-g) with g = 1/sqrt(3) mapped into the rectangle
	g := 1.0 / math.Sqrt(3.0)
	cip := q.IpRealCoords(xq, ipsq[0])
	chk.Array(tst, "ip coords", 1e-14, cip, []float64{1.5 * (1 - g), 1 - g})
}

func Test_shp03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shp03. gradients of a linear field are exact")

	// u(x,y) = 2x - y interpolated on a stretched quad
	q := Get("qua4")
	x := [][]float64{
		{0, 2, 2.5, 0.2},
		{0, 0.1, 1.8, 1.5},
	}
	u := make([]float64, 4)
	for m := 0; m < 4; m++ {
		u[m] = 2.0*x[0][m] - x[1][m]
	}
	ips, _, _ := q.GetIps(0, 0)
	for _, ip := range ips {
		if err := q.CalcAtIp(x, ip, true); err != nil {
			tst.Errorf("CalcAtIp failed: %v\n", err)
			return
		}
		gx, gy := 0.0, 0.0
		for m := 0; m < 4; m++ {
			gx += q.G[m][0] * u[m]
			gy += q.G[m][1] * u[m]
		}
		chk.Float64(tst, "du/dx", 1e-13, gx, 2.0)
		chk.Float64(tst, "du/dy", 1e-13, gy, -1.0)
	}

	// Jacobian must be positive for a properly oriented cell
	if q.J <= 0 || math.IsNaN(q.J) {
		tst.Errorf("invalid Jacobian %v\n", q.J)
	}
}
