// SPDX-License-Identifier: MIT

package pflow

import (
	"errors"

	"github.com/katalvlaran/gridflow/bustype"
	"github.com/katalvlaran/gridflow/mismatch"
	"github.com/katalvlaran/gridflow/network"
)

var (
	// ErrOptionViolation is returned by New when an Option was invalid.
	ErrOptionViolation = errors.New("pflow: invalid option supplied")

	// ErrNotSolved is returned by UpdateResults before Run completed.
	ErrNotSolved = errors.New("pflow: no solution to commit")

	// ErrSolved is returned by a second call to Run.
	ErrSolved = errors.New("pflow: solver already ran")
)

// State is the lifecycle stage of a Solver.
type State uint8

const (
	Initializing State = iota
	Iterating
	Converged
	MaxIterationsReached
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max iterations reached"
	default:
		return "unknown"
	}
}

// Calculator evaluates the network at a voltage state.
//
// Calc receives magnitudes in p.u. and angles in radians. ApplyMismatch
// accumulates scheduled minus calculated injection into p and q (p.u.),
// leaving generators out: the solver adds their schedule itself because only
// it knows which units currently regulate voltage. UpdateResults pushes
// branch flows of the last Calc into the model.
type Calculator interface {
	Calc(vm, va []float64) error
	ApplyMismatch(p, q []float64)
	UpdateResults() error
}

// Record is what a Reporter receives for one iteration. P and Q are
// mismatches in MW and MVAr, VM in p.u., VA in degrees. Slices are fresh
// copies owned by the reporter.
type Record struct {
	Iteration int
	P, Q      []float64
	VM, VA    []float64
	Types     []bustype.Type
}

// Reporter observes mismatches for diagnostics. A reporter with LastOnly
// receives a single Record after the loop ends; the others receive one per
// iteration. Reporter errors are logged and never stop the solve.
type Reporter interface {
	Begin(buses []network.Bus) error
	Report(rec Record) error
	End() error
	LastOnly() bool
}

// Result summarizes a Run. Iterations counts mismatch evaluations.
type Result struct {
	Converged  bool
	Iterations int
	Islands    []mismatch.Status
}
