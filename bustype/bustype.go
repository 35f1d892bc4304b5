// SPDX-License-Identifier: MIT

package bustype

import (
	"errors"
	"fmt"
	"slices"

	"github.com/katalvlaran/gridflow/network"
)

// Type is the solve role of a bus.
type Type uint8

const (
	// PQ buses have scheduled P and Q; magnitude and angle are solved.
	PQ Type = iota
	// PV buses have scheduled P and a regulated magnitude.
	PV
	// Reference buses fix the angle of their island and absorb its imbalance.
	Reference
)

// String returns the conventional short name of t.
func (t Type) String() string {
	switch t {
	case PQ:
		return "PQ"
	case PV:
		return "PV"
	case Reference:
		return "Reference"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

var (
	// ErrTransition indicates a type change other than PV → PQ.
	ErrTransition = errors.New("bustype: illegal type transition")

	// ErrReference indicates an island without exactly one Reference bus.
	ErrReference = errors.New("bustype: island must have exactly one reference bus")

	// ErrShape indicates inconsistent input lengths or indices.
	ErrShape = errors.New("bustype: inconsistent classification input")
)

// Change is emitted by ToPQ.
type Change struct {
	Bus    int
	Island int
	From   Type
	To     Type
}

// Classifier holds the current type of every bus.
type Classifier struct {
	types  []Type
	island []int
	refs   []int // reference bus per island
}

// New validates types against island membership: island[i] is the island
// of bus i in [0, nisland) and every island must own exactly one Reference.
func New(types []Type, island []int, nisland int) (*Classifier, error) {
	if len(types) != len(island) {
		return nil, fmt.Errorf("%d types for %d buses: %w", len(types), len(island), ErrShape)
	}
	c := &Classifier{
		types:  slices.Clone(types),
		island: slices.Clone(island),
		refs:   make([]int, nisland),
	}
	for i := range c.refs {
		c.refs[i] = -1
	}
	for b, t := range types {
		isl := island[b]
		if isl < 0 || isl >= nisland {
			return nil, fmt.Errorf("bus %d: island %d out of range [0,%d): %w", b, isl, nisland, ErrShape)
		}
		if t > Reference {
			return nil, fmt.Errorf("bus %d: %v: %w", b, t, ErrShape)
		}
		if t != Reference {
			continue
		}
		if c.refs[isl] != -1 {
			return nil, fmt.Errorf("island %d: buses %d and %d: %w", isl, c.refs[isl], b, ErrReference)
		}
		c.refs[isl] = b
	}
	for isl, r := range c.refs {
		if r == -1 {
			return nil, fmt.Errorf("island %d: none: %w", isl, ErrReference)
		}
	}
	return c, nil
}

// Classify derives the initial types from net, whose Bus.Island fields must
// already be filled by Network.Islands. hot[i] reports whether island i is
// energized; len(hot) is the island count.
//
// A bus of a hot island is PV when it carries a generating unit with voltage
// regulation or a regulating SVC. Each island's Reference is, in order of
// preference: the lowest-index bus marked Slack; the PV bus with the largest
// scheduled generation; the lowest-index bus.
func Classify(net *network.Network, hot []bool) (*Classifier, error) {
	nbus, nisl := len(net.Buses), len(hot)
	types := make([]Type, nbus)
	island := make([]int, nbus)
	sched := make([]float64, nbus)

	for b := range net.Buses {
		island[b] = net.Buses[b].Island
		if island[b] < 0 || island[b] >= nisl {
			return nil, fmt.Errorf("bus %d: island %d out of range [0,%d): %w", b, island[b], nisl, ErrShape)
		}
	}
	for i := range net.Generators {
		g := &net.Generators[i]
		if !g.Generating() || !hot[island[g.Bus]] {
			continue
		}
		sched[g.Bus] += g.PS
		if g.RegKV {
			types[g.Bus] = PV
		}
	}
	for i := range net.SVCs {
		s := &net.SVCs[i]
		if s.Regulating() && hot[island[s.Bus]] {
			types[s.Bus] = PV
		}
	}

	slack := make([]int, nisl)
	best := make([]int, nisl)
	first := make([]int, nisl)
	for i := 0; i < nisl; i++ {
		slack[i], best[i], first[i] = -1, -1, -1
	}
	for b := 0; b < nbus; b++ {
		isl := island[b]
		if first[isl] == -1 {
			first[isl] = b
		}
		if net.Buses[b].Slack && slack[isl] == -1 {
			slack[isl] = b
		}
		if types[b] == PV && (best[isl] == -1 || sched[b] > sched[best[isl]]) {
			best[isl] = b
		}
	}
	for isl := 0; isl < nisl; isl++ {
		ref := slack[isl]
		if ref == -1 {
			ref = best[isl]
		}
		if ref == -1 {
			ref = first[isl]
		}
		if ref == -1 {
			return nil, fmt.Errorf("island %d has no buses: %w", isl, ErrShape)
		}
		types[ref] = Reference
	}

	return New(types, island, nisl)
}

// Type returns the current type of bus.
func (c *Classifier) Type(bus int) Type { return c.types[bus] }

// Types returns a copy of all bus types.
func (c *Classifier) Types() []Type { return slices.Clone(c.types) }

// Island returns the island of bus.
func (c *Classifier) Island(bus int) int { return c.island[bus] }

// IslandCount returns the number of islands.
func (c *Classifier) IslandCount() int { return len(c.refs) }

// ReferenceOf returns the Reference bus of island isl.
func (c *Classifier) ReferenceOf(isl int) int { return c.refs[isl] }

// Buses returns the buses of type t in ascending order.
func (c *Classifier) Buses(t Type) []int {
	var out []int
	for b, bt := range c.types {
		if bt == t {
			out = append(out, b)
		}
	}
	return out
}

// IslandBuses returns the buses of type t in island isl, ascending.
func (c *Classifier) IslandBuses(t Type, isl int) []int {
	var out []int
	for b, bt := range c.types {
		if bt == t && c.island[b] == isl {
			out = append(out, b)
		}
	}
	return out
}

// Retained returns the buses whose type is any of ts, ascending. It is the
// retained set for an elimination pattern.
func (c *Classifier) Retained(ts ...Type) []int {
	var out []int
	for b, bt := range c.types {
		if slices.Contains(ts, bt) {
			out = append(out, b)
		}
	}
	return out
}

// Count returns the number of buses of type t.
func (c *Classifier) Count(t Type) int {
	n := 0
	for _, bt := range c.types {
		if bt == t {
			n++
		}
	}
	return n
}

// ToPQ converts a PV bus to PQ. Any other current type is ErrTransition and
// leaves the classifier unchanged.
func (c *Classifier) ToPQ(bus int) (Change, error) {
	if bus < 0 || bus >= len(c.types) {
		return Change{}, fmt.Errorf("bus %d: %w", bus, ErrShape)
	}
	from := c.types[bus]
	if from != PV {
		return Change{}, fmt.Errorf("bus %d: %v -> %v: %w", bus, from, PQ, ErrTransition)
	}
	c.types[bus] = PQ
	return Change{Bus: bus, Island: c.island[bus], From: PV, To: PQ}, nil
}
