// SPDX-License-Identifier: MIT

package network

import (
	"errors"
	"fmt"
)

// ErrModel indicates malformed or inconsistent grid data, such as a branch
// referencing a bus that does not exist.
var ErrModel = errors.New("network: invalid model")

// modelErrorf wraps ErrModel with the structural step that failed.
func modelErrorf(step string, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", step, ErrModel, fmt.Sprintf(format, args...))
}

// Bus is a network node.
//
// VM and VA hold the current (or solved) voltage magnitude in kV and angle in
// degrees. Island is filled by Network.Islands.
type Bus struct {
	ID     string
	Name   string
	BaseKV float64 // nominal voltage, kV
	VM     float64 // kV
	VA     float64 // degrees
	Slack  bool    // preferred reference bus of its island
	Island int
}

// Branch is a π-model line or fixed-ratio transformer between two buses.
// Flow results are written by the AC calculator when results are committed.
type Branch struct {
	ID        string
	From, To  int
	R, X      float64 // series impedance, p.u.
	B         float64 // total line charging, p.u.
	InService bool

	FromP, FromQ float64 // MW, MVAr leaving From
	ToP, ToQ     float64 // MW, MVAr leaving To
}

// Generator is a synchronous machine. PS/QS are the schedule, P/Q the solved
// output. VSet is the regulated voltage setpoint in per-unit.
type Generator struct {
	ID         string
	Bus        int
	PS, QS     float64 // MW, MVAr
	P, Q       float64 // MW, MVAr
	QMin, QMax float64 // MVAr
	RegKV      bool
	VSet       float64 // p.u.
	InService  bool
}

// Generating reports whether the unit is in service and producing active power.
func (g *Generator) Generating() bool { return g.InService && g.PS > 0 }

// SVC is a static var compensator.
type SVC struct {
	ID         string
	Bus        int
	QS         float64 // MVAr, fixed output when not regulating
	Q          float64 // MVAr
	QMin, QMax float64 // MVAr
	RegKV      bool
	VSet       float64 // p.u.
	InService  bool
}

// Regulating reports whether the SVC holds its bus voltage.
func (s *SVC) Regulating() bool { return s.InService && s.RegKV }

// Load is a constant-power demand.
type Load struct {
	ID        string
	Bus       int
	P, Q      float64 // MW, MVAr
	InService bool
}

// Shunt is a fixed shunt admittance expressed as power at 1 p.u. voltage.
// Positive B is capacitive (injects vars).
type Shunt struct {
	ID        string
	Bus       int
	G, B      float64 // MW, MVAr at 1 p.u.
	InService bool
}

// Island is a maximal connected subnetwork.
type Island struct {
	Index      int
	Buses      []int
	Generators []int
}
