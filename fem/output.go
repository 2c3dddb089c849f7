// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	"io"
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/jonathonloftin/femus/msh"
	"github.com/jonathonloftin/femus/shp"
)

// Writer receives the domain after accepted steps
type Writer interface {
	Write(step int, t float64, d *Domain) error
}

// EnergyWriter appends one "time value" row per call, the value being the
// root-mean-square velocity sqrt(E/2/Area) with E the kinetic energy
type EnergyWriter struct {
	W    io.Writer
	U, V string  // velocity field names
	Area float64 // domain area
}

// Write appends one diagnostics row. Only rank 0 writes.
func (o *EnergyWriter) Write(step int, t float64, d *Domain) error {
	ke, err := d.KineticEnergy(o.U, o.V)
	if err != nil {
		return err
	}
	if d.Comm.Rank() != 0 {
		return nil
	}
	_, err = fmt.Fprintf(o.W, "%g  %g\n", t, math.Sqrt(ke/2.0/o.Area))
	return err
}

// KineticEnergy integrates u^2+v^2 over the level, reduced across
// partitions. Every partition must call it collectively.
func (o *Domain) KineticEnergy(ufield, vfield string) (ke float64, err error) {
	fu := o.Dm.FieldIndex(ufield)
	fv := o.Dm.FieldIndex(vfield)
	if o.Dm.Fields[fu].Kind != msh.NodeField || o.Dm.Fields[fv].Kind != msh.NodeField {
		return 0, chk.Err("kinetic energy needs node velocity fields")
	}
	shapes := make(map[string]*shp.Shape)
	ips := make(map[string][]shp.Ipoint)
	for _, c := range o.Msh.OwnedCells(o.Comm.Rank()) {
		sh, ok := shapes[c.Geo]
		if !ok {
			sh = shp.Get(c.Geo)
			var e []shp.Ipoint
			e, _, err = sh.GetIps(0, 0)
			if err != nil {
				return
			}
			shapes[c.Geo] = sh
			ips[c.Geo] = e
		}
		x := o.Msh.CellCoords(c)
		for _, ip := range ips[c.Geo] {
			err = sh.CalcAtIp(x, ip, false)
			if err != nil {
				return
			}
			u, v := 0.0, 0.0
			for m, vid := range c.Verts {
				u += sh.S[m] * o.Sol.Y[o.Dm.Offs[fu]+vid]
				v += sh.S[m] * o.Sol.Y[o.Dm.Offs[fv]+vid]
			}
			ke += sh.J * ip[len(ip)-1] * (u*u + v*v)
		}
	}
	sum := []float64{ke}
	o.Comm.AllReduceSum(sum)
	return sum[0], nil
}

// ProbeValue recovers the value of a node field at the vertex nearest to x.
// The owning partition contributes the value, the others zero, and the
// result comes out of a max/min reduction, so it is only reliable for
// non-zero values; a true zero cannot be told apart from a non-owning
// partition's contribution. Every partition must call it collectively.
func (o *Domain) ProbeValue(field string, x []float64) float64 {
	f := o.Dm.FieldIndex(field)
	if o.Dm.Fields[f].Kind != msh.NodeField {
		chk.Panic("cannot probe cell field %q at a point", field)
	}

	// local nearest vertex among owned cells
	best := math.MaxFloat64
	val := 0.0
	for _, c := range o.Msh.OwnedCells(o.Comm.Rank()) {
		for _, vid := range c.Verts {
			d := 0.0
			for i, xi := range x {
				dx := o.Msh.Verts[vid].X[i] - xi
				d += dx * dx
			}
			if d < best {
				best = d
				val = o.FieldValue(field, vid)
			}
		}
	}

	// keep only the globally nearest partition's candidate
	dist := []float64{best}
	o.Comm.AllReduceMin(dist)
	if best != dist[0] {
		val = 0
	}
	vmax := []float64{val}
	vmin := []float64{val}
	o.Comm.AllReduceMax(vmax)
	o.Comm.AllReduceMin(vmin)
	if vmax[0] > 0 {
		return vmax[0]
	}
	return vmin[0]
}
