// SPDX-License-Identifier: MIT

// Package acflow evaluates AC power injections and branch flows of a network
// at a given voltage state, in polar form.
//
// Branches use the π model: series admittance y = 1/(R + jX) and half of the
// total charging B at each end. For a branch from i to j, with θ = θi − θj:
//
//	Pij =  vi²·g − vi·vj·(g·cos θ + b·sin θ)
//	Qij = −vi²·(b + B/2) − vi·vj·(g·sin θ − b·cos θ)
//
// Fixed shunts consume G·v² and −B·v² (capacitive B positive). Everything is
// per-unit on the system base given to New.
package acflow

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/gridflow/network"
	"github.com/katalvlaran/gridflow/units"
)

var (
	// ErrBase indicates a non-positive system base.
	ErrBase = errors.New("acflow: system base must be positive")

	// ErrState indicates voltage vectors whose length is not the bus count.
	ErrState = errors.New("acflow: voltage state size mismatch")
)

type branch struct {
	from, to int
	g, b     float64 // series admittance
	halfB    float64 // charging per end
	on       bool
	// results of the last Calc, p.u.
	pf, qf, pt, qt float64
}

// Calc is the AC calculator for one network. It implements pflow.Calculator.
type Calc struct {
	net   *network.Network
	sbase float64

	branches []branch
	pload    []float64 // scheduled demand per bus, p.u.
	qload    []float64
	gsh      []float64 // shunt admittance per bus, p.u. at 1 p.u. voltage
	bsh      []float64
	qfixed   []float64 // fixed SVC output per bus, p.u.

	pinj []float64 // calculated injection of the last Calc
	qinj []float64
}

// New snapshots the branch, load, shunt and SVC data of net.
// Loads, shunts and SVCs out of service are ignored; regulating SVCs are
// left to the solver.
func New(net *network.Network, sbase float64) (*Calc, error) {
	if !(sbase > 0) {
		return nil, fmt.Errorf("sbase %g: %w", sbase, ErrBase)
	}
	nbus := len(net.Buses)
	c := &Calc{
		net:      net,
		sbase:    sbase,
		branches: make([]branch, len(net.Branches)),
		pload:    make([]float64, nbus),
		qload:    make([]float64, nbus),
		gsh:      make([]float64, nbus),
		bsh:      make([]float64, nbus),
		qfixed:   make([]float64, nbus),
		pinj:     make([]float64, nbus),
		qinj:     make([]float64, nbus),
	}
	for i := range net.Branches {
		br := &net.Branches[i]
		c.branches[i] = branch{
			from:  br.From,
			to:    br.To,
			halfB: br.B / 2,
			on:    br.InService,
		}
		// a zero-impedance branch carries no admittance here; the
		// susceptance factorization rejects it before any Calc
		if z2 := br.R*br.R + br.X*br.X; z2 > 0 {
			c.branches[i].g = br.R / z2
			c.branches[i].b = -br.X / z2
		}
	}
	for i := range net.Loads {
		l := &net.Loads[i]
		if l.InService {
			c.pload[l.Bus] += units.MVAToPU(l.P, sbase)
			c.qload[l.Bus] += units.MVAToPU(l.Q, sbase)
		}
	}
	for i := range net.Shunts {
		s := &net.Shunts[i]
		if s.InService {
			c.gsh[s.Bus] += units.MVAToPU(s.G, sbase)
			c.bsh[s.Bus] += units.MVAToPU(s.B, sbase)
		}
	}
	for i := range net.SVCs {
		s := &net.SVCs[i]
		if s.InService && !s.RegKV {
			c.qfixed[s.Bus] += units.MVAToPU(s.QS, sbase)
		}
	}
	return c, nil
}

// Calc evaluates every in-service branch and shunt at (vm, va) and stores
// the resulting bus injections. vm is in p.u., va in radians.
func (c *Calc) Calc(vm, va []float64) error {
	if len(vm) != len(c.pinj) || len(va) != len(c.pinj) {
		return fmt.Errorf("vm %d, va %d, buses %d: %w", len(vm), len(va), len(c.pinj), ErrState)
	}
	clear(c.pinj)
	clear(c.qinj)

	for i := range c.branches {
		br := &c.branches[i]
		if !br.on {
			br.pf, br.qf, br.pt, br.qt = 0, 0, 0, 0
			continue
		}
		vi, vj := vm[br.from], vm[br.to]
		sin, cos := math.Sincos(va[br.from] - va[br.to])
		vv := vi * vj

		// sin(−θ) = −sin θ for the reverse direction
		br.pf = vi*vi*br.g - vv*(br.g*cos+br.b*sin)
		br.qf = -vi*vi*(br.b+br.halfB) - vv*(br.g*sin-br.b*cos)
		br.pt = vj*vj*br.g - vv*(br.g*cos-br.b*sin)
		br.qt = -vj*vj*(br.b+br.halfB) - vv*(-br.g*sin-br.b*cos)

		c.pinj[br.from] += br.pf
		c.qinj[br.from] += br.qf
		c.pinj[br.to] += br.pt
		c.qinj[br.to] += br.qt
	}
	for b, v := range vm {
		v2 := v * v
		c.pinj[b] += c.gsh[b] * v2
		c.qinj[b] -= c.bsh[b] * v2
	}
	return nil
}

// ApplyMismatch accumulates scheduled minus calculated injection into p and
// q, excluding generators: the schedule here is −demand plus the fixed
// output of non-regulating SVCs.
func (c *Calc) ApplyMismatch(p, q []float64) {
	for b := range c.pinj {
		p[b] += -c.pload[b] - c.pinj[b]
		q[b] += -c.qload[b] + c.qfixed[b] - c.qinj[b]
	}
}

// BusInjection returns the calculated net injection at bus from the last
// Calc (branch flows leaving the bus plus shunt consumption), p.u.
func (c *Calc) BusInjection(bus int) (p, q float64) {
	return c.pinj[bus], c.qinj[bus]
}

// BranchFlow returns the p.u. flows of branch i from the last Calc.
func (c *Calc) BranchFlow(i int) (pf, qf, pt, qt float64) {
	br := &c.branches[i]
	return br.pf, br.qf, br.pt, br.qt
}

// UpdateResults writes the branch flows of the last Calc into the network,
// in MW and MVAr.
func (c *Calc) UpdateResults() error {
	if len(c.net.Branches) != len(c.branches) {
		return fmt.Errorf("acflow: %d branches, calculator built for %d: %w",
			len(c.net.Branches), len(c.branches), network.ErrModel)
	}
	for i := range c.branches {
		br := &c.branches[i]
		m := &c.net.Branches[i]
		m.FromP = units.PUToMVA(br.pf, c.sbase)
		m.FromQ = units.PUToMVA(br.qf, c.sbase)
		m.ToP = units.PUToMVA(br.pt, c.sbase)
		m.ToQ = units.PUToMVA(br.qt, c.sbase)
	}
	return nil
}
