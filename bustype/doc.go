// SPDX-License-Identifier: MIT

// Package bustype tracks the solve type of every bus: Reference, PV or PQ.
//
// Each island owns exactly one Reference bus. PV buses hold their voltage
// magnitude through a regulating device; PQ buses have both magnitude and
// angle solved. During a solve the only legal change is PV → PQ, raised when
// a regulating device runs out of reactive capability. ToPQ returns the
// change as an event so the caller can invalidate what depends on the PV set
// in the same step.
package bustype
