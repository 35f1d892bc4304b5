// SPDX-License-Identifier: MIT

package pflow

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/katalvlaran/gridflow/reactive"
	"github.com/katalvlaran/gridflow/units"
)

// UpdateResults commits the solution to the model:
//
//   - bus VM in kV (magnitude × BaseKV) and VA in degrees;
//   - branch flows through the calculator;
//   - reactive output of regulating devices, allocated per bus from the
//     reactive requirement of the bus; pinned devices keep their limit;
//   - active output of generating units, the reference bus units also taking
//     the island imbalance in proportion to their schedule.
//
// Mismatches are re-evaluated at the final state first, so results are
// consistent with the committed voltages even when the cap was reached.
func (s *Solver) UpdateResults() error {
	if s.state != Converged && s.state != MaxIterationsReached {
		return ErrNotSolved
	}
	if err := s.evaluate(); err != nil {
		return err
	}

	for b := range s.net.Buses {
		bus := &s.net.Buses[b]
		base := bus.BaseKV
		if base <= 0 {
			base = 1
		}
		bus.VM = s.vm[b] * base
		bus.VA = units.RadToDeg(s.va[b])
	}
	if err := s.calc.UpdateResults(); err != nil {
		return fmt.Errorf("pflow: update results: %w", err)
	}

	s.dispatchReactive()
	s.dispatchActive()
	return nil
}

// dispatchReactive allocates −q[bus] over the still regulating devices of
// every bus and writes all unit outputs to the model. Devices restart from
// zero; Allocate moves one whose range excludes zero onto its nearer limit.
func (s *Solver) dispatchReactive() {
	sb := s.opts.SBase
	q := s.qmm.Values()

	for _, b := range slices.Sorted(maps.Keys(s.devices)) {
		var regs []*reactive.Device
		for _, d := range s.devices[b] {
			if d.Regulating {
				d.Q = 0
				regs = append(regs, d)
			}
		}
		if len(regs) == 0 {
			continue
		}
		if res := reactive.Allocate(regs, -q[b]); res != 0 {
			s.log.Warn("reactive requirement outside device capability",
				"bus", s.net.Buses[b].ID,
				"unassigned_mvar", units.PUToMVA(res, sb))
		}
	}

	for i := range s.gens {
		g := &s.gens[i]
		mg := &s.net.Generators[g.index]
		if g.dev == nil {
			mg.Q = mg.QS
		} else {
			mg.Q = units.PUToMVA(g.dev.Q, sb)
		}
	}
	for i := range s.net.SVCs {
		sv := &s.net.SVCs[i]
		if sv.InService && !sv.RegKV {
			sv.Q = sv.QS
		}
	}
	for _, d := range s.svcs {
		s.net.SVCs[d.Index].Q = units.PUToMVA(d.Q, sb)
	}
}

// dispatchActive writes scheduled P to every generating unit; the units at
// each hot island's reference bus share the residual active mismatch.
func (s *Solver) dispatchActive() {
	p := s.pmm.Values()
	for i := range s.gens {
		mg := &s.net.Generators[s.gens[i].index]
		mg.P = mg.PS
	}

	for isl, hot := range s.hot {
		if !hot {
			continue
		}
		ref := s.cls.ReferenceOf(isl)
		var total float64
		for i := range s.gens {
			if s.gens[i].bus == ref {
				total += s.gens[i].ps
			}
		}
		imbalance := units.PUToMVA(p[ref], s.opts.SBase)
		if total == 0 {
			if math.Abs(p[ref]) >= s.opts.Tolerance {
				s.log.Warn("reference bus has no generation to take the imbalance",
					"bus", s.net.Buses[ref].ID, "imbalance_mw", imbalance)
			}
			continue
		}
		for i := range s.gens {
			g := &s.gens[i]
			if g.bus == ref {
				mg := &s.net.Generators[g.index]
				mg.P = mg.PS - imbalance*g.ps/total
			}
		}
	}
}
