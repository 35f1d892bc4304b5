// SPDX-License-Identifier: MIT

package pflow

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/katalvlaran/gridflow/acflow"
	"github.com/katalvlaran/gridflow/bustype"
	"github.com/katalvlaran/gridflow/mismatch"
	"github.com/katalvlaran/gridflow/network"
	"github.com/katalvlaran/gridflow/reactive"
	"github.com/katalvlaran/gridflow/sparse"
	"github.com/katalvlaran/gridflow/units"
	"gonum.org/v1/gonum/floats"
)

// activeGen is an in-service unit producing active power.
type activeGen struct {
	index int
	bus   int
	ps    float64          // p.u.
	qs    float64          // p.u.
	dev   *reactive.Device // nil unless the unit regulates voltage
}

// Solver is one fast-decoupled power flow over a network. It is not safe for
// concurrent use and runs once.
type Solver struct {
	net   *network.Network
	opts  Options
	log   *slog.Logger
	state State

	islands []network.Island
	hot     []bool
	cold    []int // buses of de-energized islands, never eliminated
	adj     *network.Adjacency
	cls     *bustype.Classifier
	calc    Calculator

	bp     *sparse.Factorized
	bppMat *sparse.BMatrix
	bpp    factorCell

	gens    []activeGen
	svcs    []*reactive.Device
	devices map[int][]*reactive.Device
	mon     *reactive.Monitor
	vset    []float64 // regulated magnitude per bus, p.u.; 0 if none

	vm, va   []float64
	pmm, qmm *mismatch.Vector
	tracker  *mismatch.Tracker
	rhs      []float64
	corr     []float64
	iter     int
}

// New prepares a solve of net.
//
// Stages:
//  1. Apply options and validate the model; clear old generator and SVC results.
//  2. Find islands, energized (hot) islands and generating units.
//  3. Build the slot adjacency, classify buses and index regulating devices.
//  4. Build and factorize B′ (retaining reference buses), build B″ values.
//
// Besides the result reset, New writes the island index of every bus into
// Bus.Island; the model is not otherwise touched until UpdateResults.
func New(net *network.Network, opts ...Option) (*Solver, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if net == nil {
		return nil, fmt.Errorf("pflow: nil network: %w", network.ErrModel)
	}

	// Stage 1: validation
	if err := net.Validate(); err != nil {
		return nil, fmt.Errorf("pflow: validate: %w", err)
	}
	s := &Solver{net: net, opts: cfg, log: cfg.Logger}
	s.clearResults()

	// Stage 2: islands
	s.islands = net.Islands()
	s.hot = make([]bool, len(s.islands))
	for i, isl := range s.islands {
		s.hot[i] = net.Hot(isl)
		if !s.hot[i] {
			s.cold = append(s.cold, isl.Buses...)
		}
	}

	// Stage 3: topology, bus types, devices
	var err error
	if s.adj, err = net.Adjacency(); err != nil {
		return nil, fmt.Errorf("pflow: adjacency: %w", err)
	}
	if s.cls, err = bustype.Classify(net, s.hot); err != nil {
		return nil, fmt.Errorf("pflow: classify: %w: %w", network.ErrModel, err)
	}
	s.calc = cfg.Calculator
	if s.calc == nil {
		if s.calc, err = acflow.New(net, cfg.SBase); err != nil {
			return nil, fmt.Errorf("pflow: calculator: %w", err)
		}
	}
	s.setupDevices()

	// Stage 4: matrices
	retained := append(s.cls.Retained(bustype.Reference), s.cold...)
	if s.bp, err = factorize("Bp", buildBPrime(net, s.adj), s.adj, retained); err != nil {
		return nil, fmt.Errorf("pflow: %w", err)
	}
	s.bppMat = buildBDoublePrime(net, s.adj, cfg.SBase)

	s.log.Debug("power flow initialized",
		"buses", len(net.Buses),
		"slots", s.adj.BranchCount(),
		"islands", len(s.islands),
		"generating_units", len(s.gens),
		"pv_buses", s.cls.Count(bustype.PV))

	return s, nil
}

// clearResults zeroes generator P/Q and SVC Q left by an earlier solve.
func (s *Solver) clearResults() {
	for i := range s.net.Generators {
		s.net.Generators[i].P = 0
		s.net.Generators[i].Q = 0
	}
	for i := range s.net.SVCs {
		s.net.SVCs[i].Q = 0
	}
}

// setupDevices walks the units of every bus, collecting generating units and
// wrapping each voltage regulating generator and SVC of a hot island in a
// reactive.Device. Generators come before SVCs at a bus; the first setpoint
// found is the bus setpoint.
func (s *Solver) setupDevices() {
	sb := s.opts.SBase
	s.vset = make([]float64, len(s.net.Buses))
	s.devices = make(map[int][]*reactive.Device)
	gens, svcs := s.net.DevicesAt()

	for b := range s.net.Buses {
		for _, i := range gens[b] {
			g := &s.net.Generators[i]
			if !g.Generating() {
				continue
			}
			ag := activeGen{
				index: i,
				bus:   b,
				ps:    units.MVAToPU(g.PS, sb),
				qs:    units.MVAToPU(g.QS, sb),
			}
			if g.RegKV {
				ag.dev = &reactive.Device{
					Kind:       reactive.Generator,
					Index:      i,
					Bus:        b,
					QMin:       units.MVAToPU(g.QMin, sb),
					QMax:       units.MVAToPU(g.QMax, sb),
					Regulating: true,
				}
				s.devices[b] = append(s.devices[b], ag.dev)
				if s.vset[b] == 0 && g.VSet > 0 {
					s.vset[b] = g.VSet
				}
			}
			s.gens = append(s.gens, ag)
		}

		if !s.hot[s.net.Buses[b].Island] {
			continue
		}
		for _, i := range svcs[b] {
			sv := &s.net.SVCs[i]
			if !sv.Regulating() {
				continue
			}
			d := &reactive.Device{
				Kind:       reactive.SVC,
				Index:      i,
				Bus:        b,
				QMin:       units.MVAToPU(sv.QMin, sb),
				QMax:       units.MVAToPU(sv.QMax, sb),
				Regulating: true,
			}
			s.svcs = append(s.svcs, d)
			s.devices[b] = append(s.devices[b], d)
			if s.vset[b] == 0 && sv.VSet > 0 {
				s.vset[b] = sv.VSet
			}
		}
	}

	s.mon = reactive.NewMonitor(s.devices)
}

// Run iterates until every hot island converges or the iteration cap is
// reached. Either way the returned error is nil unless the calculator, the
// classifier or a factorization failed.
func (s *Solver) Run() (*Result, error) {
	if s.state != Initializing {
		return nil, ErrSolved
	}
	s.state = Iterating
	nbus := len(s.net.Buses)

	// state vectors from the model, regulated buses at their setpoint
	s.vm = make([]float64, nbus)
	s.va = make([]float64, nbus)
	for b := range s.net.Buses {
		bus := &s.net.Buses[b]
		s.vm[b] = units.KVToPU(bus.VM, bus.BaseKV)
		if !(s.vm[b] > 0) {
			s.vm[b] = 1
		}
		s.va[b] = units.DegToRad(bus.VA)
		if v := s.vset[b]; v > 0 && s.cls.Type(b) != bustype.PQ {
			s.vm[b] = v
		}
	}

	s.pmm = mismatch.NewVector(nbus, s.active(bustype.PV, bustype.PQ))
	s.qmm = mismatch.NewVector(nbus, s.active(bustype.PQ))
	s.tracker = mismatch.NewTracker(s.islands, s.hot, s.cls, s.pmm, s.qmm, s.opts.Tolerance, s.opts.Tolerance)
	s.begin()

	s.log.Info("power flow started",
		"buses", nbus,
		"islands", len(s.islands),
		"max_iterations", s.opts.MaxIterations,
		"tolerance", s.opts.Tolerance)

	converged := false
	for s.iter < s.opts.MaxIterations {
		if err := s.evaluate(); err != nil {
			return nil, err
		}
		s.iter++
		s.report(false)

		converged = s.tracker.Test()
		s.logIteration()
		if converged {
			break
		}

		if err := s.limitCheck(); err != nil {
			return nil, err
		}
		if err := s.correct(); err != nil {
			return nil, err
		}
	}

	s.report(true)
	s.end()

	s.state = MaxIterationsReached
	if converged {
		s.state = Converged
	}
	res := &Result{
		Converged:  converged,
		Iterations: s.iter,
		Islands:    s.tracker.Results(),
	}
	s.log.Info("power flow finished", "state", s.state.String(), "iterations", s.iter)
	for _, st := range res.Islands {
		if st.Hot && !st.Converged() {
			s.log.Warn("island did not converge", "island", st.Island,
				"worst_p_bus", st.WorstPBus, "worst_p", st.WorstP,
				"worst_q_bus", st.WorstQBus, "worst_q", st.WorstQ)
		}
	}

	return res, nil
}

// active returns the buses of hot islands whose type is one of ts.
func (s *Solver) active(ts ...bustype.Type) []int {
	var out []int
	for b := range s.net.Buses {
		if s.hot[s.cls.Island(b)] && slices.Contains(ts, s.cls.Type(b)) {
			out = append(out, b)
		}
	}
	return out
}

// evaluate recomputes both mismatch vectors at the current state. Units that
// regulate voltage contribute active power only; a unit pinned at a limit
// contributes its fixed reactive output.
func (s *Solver) evaluate() error {
	s.pmm.Reset()
	s.qmm.Reset()
	if err := s.calc.Calc(s.vm, s.va); err != nil {
		return fmt.Errorf("pflow: calculate: %w", err)
	}
	p, q := s.pmm.Values(), s.qmm.Values()
	s.calc.ApplyMismatch(p, q)

	for i := range s.gens {
		g := &s.gens[i]
		p[g.bus] += g.ps
		switch {
		case g.dev == nil:
			q[g.bus] += g.qs
		case !g.dev.Regulating:
			q[g.bus] += g.dev.Q
		}
	}
	for _, d := range s.svcs {
		if !d.Regulating {
			q[d.Bus] += d.Q
		}
	}
	return nil
}

// limitCheck converts PV buses whose devices cannot supply the required
// vars. Each conversion pins the devices, moves their fixed output into the
// reactive schedule of the bus and marks B″ stale.
func (s *Solver) limitCheck() error {
	pv := s.cls.Buses(bustype.PV)
	if len(pv) == 0 {
		return nil
	}
	skip := func(bus int) bool { return s.tracker.Converged(s.cls.Island(bus)) }

	for _, v := range s.mon.Check(s.qmm.Values(), pv, skip) {
		ch, err := s.cls.ToPQ(v.Bus)
		if err != nil {
			return fmt.Errorf("pflow: limit check: %w", err)
		}
		var fixed float64
		for _, d := range s.mon.Pin(v) {
			fixed += d.Q
		}
		s.qmm.Add(v.Bus, fixed)
		s.qmm.SetActive(v.Bus, true)
		s.bpp.invalidate()

		s.log.Info("bus converted from PV to PQ",
			"bus", s.net.Buses[v.Bus].ID,
			"island", ch.Island,
			"iteration", s.iter,
			"upper", v.Upper,
			"required_mvar", units.PUToMVA(v.Required, s.opts.SBase),
			"limit_mvar", units.PUToMVA(v.Limit, s.opts.SBase))
	}
	return nil
}

// correct applies the angle correction, then the magnitude correction.
func (s *Solver) correct() error {
	if err := s.solve(s.bp, s.pmm, s.va); err != nil {
		return fmt.Errorf("pflow: Bp: %w", err)
	}

	if !s.bpp.valid {
		retained := append(s.cls.Retained(bustype.Reference, bustype.PV), s.cold...)
		f, err := factorize("Bpp", s.bppMat, s.adj, retained)
		if err != nil {
			return fmt.Errorf("pflow: %w", err)
		}
		s.bpp.set(f)
		s.log.Debug("Bpp factorized", "iteration", s.iter, "retained", len(retained))
	}
	if err := s.solve(s.bpp.f, s.qmm, s.vm); err != nil {
		return fmt.Errorf("pflow: Bpp: %w", err)
	}
	return nil
}

// solve divides the masked mismatch by the magnitude of each eliminated bus,
// solves f and adds the correction to state.
func (s *Solver) solve(f *sparse.Factorized, mm *mismatch.Vector, state []float64) error {
	s.rhs = mm.Masked(s.rhs)
	for b := range s.rhs {
		if f.IsEliminated(b) {
			s.rhs[b] /= s.vm[b]
		}
	}
	if len(s.corr) != len(s.rhs) {
		s.corr = make([]float64, len(s.rhs))
	}
	if err := f.SolveTo(s.corr, s.rhs); err != nil {
		return err
	}
	floats.Add(state, s.corr)
	return nil
}

func (s *Solver) logIteration() {
	if !s.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	pb, pw := s.pmm.MaxAbs(s.active(bustype.PV, bustype.PQ))
	qb, qw := s.qmm.MaxAbs(s.active(bustype.PQ))
	s.log.Debug("iteration",
		"n", s.iter,
		"worst_p_bus", pb, "worst_p_mw", units.PUToMVA(pw, s.opts.SBase),
		"worst_q_bus", qb, "worst_q_mvar", units.PUToMVA(qw, s.opts.SBase))
}

// State returns the lifecycle stage.
func (s *Solver) State() State { return s.state }

// VM returns a copy of the voltage magnitudes, p.u.
func (s *Solver) VM() []float64 { return slices.Clone(s.vm) }

// VA returns a copy of the voltage angles, radians.
func (s *Solver) VA() []float64 { return slices.Clone(s.va) }

// Types returns the current bus types.
func (s *Solver) Types() []bustype.Type { return s.cls.Types() }

// Islands returns the islands found by New.
func (s *Solver) Islands() []network.Island { return s.islands }
