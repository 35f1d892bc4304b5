// SPDX-License-Identifier: MIT

package pflow

import (
	"slices"

	"github.com/katalvlaran/gridflow/units"
)

func (s *Solver) record() Record {
	sb := s.opts.SBase
	return Record{
		Iteration: s.iter,
		P:         units.PUSliceToMVA(s.pmm.Values(), sb),
		Q:         units.PUSliceToMVA(s.qmm.Values(), sb),
		VM:        slices.Clone(s.vm),
		VA:        units.RadSliceToDeg(s.va),
		Types:     s.cls.Types(),
	}
}

func (s *Solver) begin() {
	for _, r := range s.opts.Reporters {
		if err := r.Begin(s.net.Buses); err != nil {
			s.log.Warn("mismatch reporter failed to begin", "err", err)
		}
	}
}

// report feeds the per-iteration reporters (last == false) or the
// final-only ones (last == true).
func (s *Solver) report(last bool) {
	for _, r := range s.opts.Reporters {
		if r.LastOnly() != last {
			continue
		}
		if err := r.Report(s.record()); err != nil {
			s.log.Warn("mismatch reporter failed", "iteration", s.iter, "err", err)
		}
	}
}

func (s *Solver) end() {
	for _, r := range s.opts.Reporters {
		if err := r.End(); err != nil {
			s.log.Warn("mismatch reporter failed to finish", "err", err)
		}
	}
}
