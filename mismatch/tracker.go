// SPDX-License-Identifier: MIT

package mismatch

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gridflow/bustype"
	"github.com/katalvlaran/gridflow/network"
)

// Status is the convergence state of one island.
type Status struct {
	Island     int
	Hot        bool
	PConverged bool
	QConverged bool
	WorstPBus  int     // -1 if the island has no P-tracked bus
	WorstP     float64 // p.u.
	WorstQBus  int     // -1 if the island has no Q-tracked bus
	WorstQ     float64 // p.u.
	Iterations int     // mismatch tests run for this island
}

// Converged reports whether both P and Q are within tolerance.
func (s Status) Converged() bool { return s.PConverged && s.QConverged }

// String renders a one-line island report, mismatches in p.u.
func (s Status) String() string {
	if !s.Hot {
		return fmt.Sprintf("island %d: de-energized", s.Island)
	}
	state := "converged"
	if !s.Converged() {
		state = "not converged"
	}
	return fmt.Sprintf("island %d: %s after %d iterations (worst P %.6f p.u. at bus %d, worst Q %.6f p.u. at bus %d)",
		s.Island, state, s.Iterations, s.WorstP, s.WorstPBus, s.WorstQ, s.WorstQBus)
}

// Tracker tests convergence island by island. Bus types are read from the
// classifier at every test, so PV → PQ conversions are honoured.
type Tracker struct {
	islands []network.Island
	cls     *bustype.Classifier
	p, q    *Vector
	ptol    float64
	qtol    float64
	status  []Status
}

// NewTracker prepares a tracker. hot[i] marks island i energized; cold
// islands are reported converged and never evaluated.
func NewTracker(islands []network.Island, hot []bool, cls *bustype.Classifier, p, q *Vector, ptol, qtol float64) *Tracker {
	t := &Tracker{
		islands: islands,
		cls:     cls,
		p:       p,
		q:       q,
		ptol:    ptol,
		qtol:    qtol,
		status:  make([]Status, len(islands)),
	}
	for i := range islands {
		t.status[i] = Status{
			Island:     islands[i].Index,
			Hot:        hot[i],
			PConverged: !hot[i],
			QConverged: !hot[i],
			WorstPBus:  -1,
			WorstQBus:  -1,
		}
	}
	return t
}

// Test evaluates every hot island against the current vectors and reports
// whether all of them are converged.
func (t *Tracker) Test() bool {
	all := true
	for i := range t.islands {
		st := &t.status[i]
		if !st.Hot {
			continue
		}
		st.Iterations++
		st.WorstPBus, st.WorstP = -1, 0
		st.WorstQBus, st.WorstQ = -1, 0
		for _, b := range t.islands[i].Buses {
			bt := t.cls.Type(b)
			if bt == bustype.Reference {
				continue
			}
			if v := t.p.v[b]; st.WorstPBus == -1 || math.Abs(v) > math.Abs(st.WorstP) {
				st.WorstPBus, st.WorstP = b, v
			}
			if bt != bustype.PQ {
				continue
			}
			if v := t.q.v[b]; st.WorstQBus == -1 || math.Abs(v) > math.Abs(st.WorstQ) {
				st.WorstQBus, st.WorstQ = b, v
			}
		}
		st.PConverged = math.Abs(st.WorstP) < t.ptol
		st.QConverged = math.Abs(st.WorstQ) < t.qtol
		if !st.Converged() {
			all = false
		}
	}
	return all
}

// Converged reports the last test result of island isl.
func (t *Tracker) Converged(isl int) bool { return t.status[isl].Converged() }

// Hot reports whether island isl is energized.
func (t *Tracker) Hot(isl int) bool { return t.status[isl].Hot }

// Results returns a copy of every island status.
func (t *Tracker) Results() []Status {
	out := make([]Status, len(t.status))
	copy(out, t.status)
	return out
}
