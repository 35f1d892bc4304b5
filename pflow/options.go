// SPDX-License-Identifier: MIT

package pflow

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/gridflow/units"
)

// Defaults.
const (
	DefaultMaxIterations = 40
	DefaultTolerance     = 0.005 // p.u.
)

// Option configures a Solver. An invalid value is recorded and surfaced as
// ErrOptionViolation by New.
type Option func(*Options)

// Options holds the solver configuration.
type Options struct {
	MaxIterations int
	Tolerance     float64 // p.u., applied to both P and Q
	SBase         float64 // MVA
	Calculator    Calculator
	Reporters     []Reporter
	Logger        *slog.Logger

	err error
}

// DefaultOptions returns 40 iterations, 0.005 p.u. tolerance, a 100 MVA base,
// the built-in AC calculator and a discarding logger.
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		SBase:         units.DefaultSBase,
		Logger:        slog.New(slog.DiscardHandler),
	}
}

// WithMaxIterations caps the number of iterations; n must be positive.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: max iterations must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxIterations = n
	}
}

// WithTolerance sets the convergence tolerance in p.u.; it must be positive.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if !(tol > 0) || math.IsInf(tol, 0) {
			o.err = fmt.Errorf("%w: tolerance must be positive and finite (%g)", ErrOptionViolation, tol)
			return
		}
		o.Tolerance = tol
	}
}

// WithSBase sets the system base in MVA; it must be positive.
func WithSBase(mva float64) Option {
	return func(o *Options) {
		if !(mva > 0) || math.IsInf(mva, 0) {
			o.err = fmt.Errorf("%w: system base must be positive and finite (%g)", ErrOptionViolation, mva)
			return
		}
		o.SBase = mva
	}
}

// WithCalculator replaces the built-in AC calculator.
func WithCalculator(c Calculator) Option {
	return func(o *Options) {
		if c != nil {
			o.Calculator = c
		}
	}
}

// WithReporter registers a mismatch reporter. May be given several times.
func WithReporter(r Reporter) Option {
	return func(o *Options) {
		if r != nil {
			o.Reporters = append(o.Reporters, r)
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
