// SPDX-License-Identifier: MIT

// Package mismatch holds per-bus power mismatch vectors and the per-island
// convergence test of the power flow.
//
// A Vector spans every bus but only its active positions are meaningful:
// active power is tracked over PV and PQ buses, reactive power over PQ buses.
// Values are in per-unit, scheduled minus calculated injection.
package mismatch

import "math"

// Vector is a bus-indexed mismatch with an active mask.
type Vector struct {
	v      []float64
	active []bool
}

// NewVector returns a zeroed vector over n buses with the given buses active.
func NewVector(n int, active []int) *Vector {
	m := &Vector{
		v:      make([]float64, n),
		active: make([]bool, n),
	}
	for _, b := range active {
		m.active[b] = true
	}
	return m
}

// Len returns the number of buses.
func (m *Vector) Len() int { return len(m.v) }

// Reset zeroes every position.
func (m *Vector) Reset() { clear(m.v) }

// Values returns the live backing slice, active or not. Calculators write
// into it directly.
func (m *Vector) Values() []float64 { return m.v }

// Add accumulates v at bus.
func (m *Vector) Add(bus int, v float64) { m.v[bus] += v }

// Active reports whether bus is part of the tracked subset.
func (m *Vector) Active(bus int) bool { return m.active[bus] }

// SetActive includes or excludes bus from the tracked subset.
func (m *Vector) SetActive(bus int, on bool) { m.active[bus] = on }

// Masked copies the values into dst with inactive positions zeroed and
// returns dst. A dst of the wrong length is replaced by a new slice.
func (m *Vector) Masked(dst []float64) []float64 {
	if len(dst) != len(m.v) {
		dst = make([]float64, len(m.v))
	}
	for i, x := range m.v {
		if m.active[i] {
			dst[i] = x
		} else {
			dst[i] = 0
		}
	}
	return dst
}

// MaxAbs returns the active bus among buses with the largest absolute
// mismatch and that mismatch (signed). It returns (-1, 0) when none of
// buses is active.
func (m *Vector) MaxAbs(buses []int) (int, float64) {
	worst, val := -1, 0.0
	for _, b := range buses {
		if !m.active[b] {
			continue
		}
		if worst == -1 || math.Abs(m.v[b]) > math.Abs(val) {
			worst, val = b, m.v[b]
		}
	}
	return worst, val
}
