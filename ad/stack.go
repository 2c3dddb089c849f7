// Copyright 2016 The Femus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ad implements the differentiation recording (tape) used to
// extract local Jacobian blocks from element residual evaluations
package ad

import "github.com/cpmech/gosl/chk"

// Num is one tagged value on a recording. A negative id marks a passive
// value: its arithmetic is computed but never taped.
type Num struct {
	Val float64
	id  int32
}

// node holds one taped operation: up to two parents and the partial
// derivatives of the result with respect to each
type node struct {
	a, b   int32
	da, db float64
}

// Recorder is the capability required from a differentiation strategy.
// Stack implements it with a reverse-mode tape; finite-difference or
// dual-number strategies can substitute without touching assembly logic.
type Recorder interface {
	NewRecording()
	Paused() bool
	Dependent(nums ...Num)
	Independent(nums ...Num)
	Jacobian(jac []float64)
	EndRecording()
}

// Stack is a reverse-mode tape. It is a process-wide exclusive resource:
// recordings are opened and closed strictly once per element and may never
// overlap. There is no locking here; one worker per partition runs the
// assembly loop synchronously.
type Stack struct {
	open   bool
	paused bool
	nodes  []node
	indep  []int32
	dep    []int32
	adj    []float64
}

// NewStack returns a new (closed, unpaused) tape
func NewStack() *Stack {
	return &Stack{}
}

// Paused tells whether recording is suspended (residual-only passes)
func (o *Stack) Paused() bool { return o.paused }

// Pause suspends recording: subsequent arithmetic is computed passively and
// NewRecording becomes a no-op. Pausing mid-recording is a fatal error.
func (o *Stack) Pause() {
	if o.open {
		chk.Panic("cannot pause the tape while a recording is open")
	}
	o.paused = true
}

// Resume re-enables recording
func (o *Stack) Resume() {
	if o.open {
		chk.Panic("cannot resume the tape while a recording is open")
	}
	o.paused = false
}

// NewRecording opens a fresh recording. Recordings may not overlap: opening
// while another one is open is a fatal error. When the tape is paused this
// is a no-op and all subsequent values stay passive.
func (o *Stack) NewRecording() {
	if o.paused {
		return
	}
	if o.open {
		chk.Panic("differentiation recordings may not overlap: a recording is already open")
	}
	o.open = true
	o.nodes = o.nodes[:0]
	o.indep = o.indep[:0]
	o.dep = o.dep[:0]
}

// EndRecording closes the current recording and discards the tape.
// Must be called exactly once per opened recording.
func (o *Stack) EndRecording() {
	if !o.open {
		chk.Panic("EndRecording called with no open recording")
	}
	o.open = false
	o.nodes = o.nodes[:0]
	o.indep = o.indep[:0]
	o.dep = o.dep[:0]
}

// Register puts an independent (unknown) value on the tape and returns its
// tagged handle. With no open recording the value is passive.
func (o *Stack) Register(v float64) Num {
	if !o.open {
		return Num{v, -1}
	}
	o.nodes = append(o.nodes, node{a: -1, b: -1})
	return Num{v, int32(len(o.nodes) - 1)}
}

// RegisterAll registers a slice of values in order
func (o *Stack) RegisterAll(vals []float64) (nums []Num) {
	nums = make([]Num, len(vals))
	for i, v := range vals {
		nums[i] = o.Register(v)
	}
	return
}

// Const wraps a plain value that never carries derivatives
func (o *Stack) Const(v float64) Num { return Num{v, -1} }

// Independent declares independents; declaration order defines the column
// block layout of the extracted Jacobian
func (o *Stack) Independent(nums ...Num) {
	for _, n := range nums {
		o.indep = append(o.indep, n.id)
	}
}

// Dependent declares dependents; declaration order defines the row block
// layout of the extracted Jacobian
func (o *Stack) Dependent(nums ...Num) {
	for _, n := range nums {
		o.dep = append(o.dep, n.id)
	}
}

// arithmetic ///////////////////////////////////////////////////////////////////////////////////

func (o *Stack) push(val float64, a Num, da float64, b Num, db float64) Num {
	if !o.open || (a.id < 0 && b.id < 0) {
		return Num{val, -1}
	}
	o.nodes = append(o.nodes, node{a: a.id, b: b.id, da: da, db: db})
	return Num{val, int32(len(o.nodes) - 1)}
}

// Add returns a+b
func (o *Stack) Add(a, b Num) Num { return o.push(a.Val+b.Val, a, 1, b, 1) }

// Sub returns a-b
func (o *Stack) Sub(a, b Num) Num { return o.push(a.Val-b.Val, a, 1, b, -1) }

// Mul returns a*b
func (o *Stack) Mul(a, b Num) Num { return o.push(a.Val*b.Val, a, b.Val, b, a.Val) }

// Div returns a/b
func (o *Stack) Div(a, b Num) Num {
	return o.push(a.Val/b.Val, a, 1.0/b.Val, b, -a.Val/(b.Val*b.Val))
}

// Scale returns c*a for a plain coefficient c
func (o *Stack) Scale(c float64, a Num) Num { return o.push(c*a.Val, a, c, Num{id: -1}, 0) }

// AddVal returns a+c for a plain coefficient c
func (o *Stack) AddVal(a Num, c float64) Num { return o.push(a.Val+c, a, 1, Num{id: -1}, 0) }

// extraction ///////////////////////////////////////////////////////////////////////////////////

// Jacobian fills jac (row-major, ndep × nindep, blocks concatenated in
// declaration order) with the derivatives of the declared dependents with
// respect to the declared independents, by one adjoint sweep per dependent.
func (o *Stack) Jacobian(jac []float64) {
	if !o.open {
		chk.Panic("Jacobian extraction needs an open recording")
	}
	ndep, nind := len(o.dep), len(o.indep)
	if len(jac) != ndep*nind {
		chk.Panic("Jacobian slice has wrong size: %d != %d*%d", len(jac), ndep, nind)
	}
	if cap(o.adj) < len(o.nodes) {
		o.adj = make([]float64, len(o.nodes))
	}
	adj := o.adj[:len(o.nodes)]
	for di, d := range o.dep {
		row := jac[di*nind : (di+1)*nind]
		if d < 0 { // passive dependent: zero row
			for i := range row {
				row[i] = 0
			}
			continue
		}
		for i := range adj {
			adj[i] = 0
		}
		adj[d] = 1
		for k := int(d); k >= 0; k-- {
			if adj[k] == 0 {
				continue
			}
			nd := &o.nodes[k]
			if nd.a >= 0 {
				adj[nd.a] += nd.da * adj[k]
			}
			if nd.b >= 0 {
				adj[nd.b] += nd.db * adj[k]
			}
		}
		for ii, ind := range o.indep {
			row[ii] = adj[ind]
		}
	}
}
