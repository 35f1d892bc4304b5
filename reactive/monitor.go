// SPDX-License-Identifier: MIT

package reactive

import "slices"

// Violation reports a PV bus whose regulating devices cannot supply the
// required reactive output. Limit is the summed capability that was
// exceeded: ΣQMax when Upper, ΣQMin otherwise.
type Violation struct {
	Bus      int
	Upper    bool
	Required float64
	Limit    float64
}

// Monitor checks PV buses against the capability of their devices.
type Monitor struct {
	devices map[int][]*Device
}

// NewMonitor indexes devices by bus. The map is used as is; the caller keeps
// ownership of the devices and may inspect them after pinning.
func NewMonitor(devices map[int][]*Device) *Monitor {
	return &Monitor{devices: devices}
}

// Devices returns the devices at bus (regulating or not).
func (m *Monitor) Devices(bus int) []*Device { return m.devices[bus] }

// Capability returns the summed limits of the regulating devices at bus
// and how many there are.
func (m *Monitor) Capability(bus int) (qmin, qmax float64, n int) {
	for _, d := range m.devices[bus] {
		if !d.Regulating {
			continue
		}
		qmin += d.QMin
		qmax += d.QMax
		n++
	}
	return qmin, qmax, n
}

// Check returns a violation for every PV bus not skipped whose required
// reactive output, −q[bus], lies outside the regulating capability of the
// bus. Buses without regulating devices are ignored. Violations are ordered
// by bus.
func (m *Monitor) Check(q []float64, pv []int, skip func(bus int) bool) []Violation {
	var out []Violation
	for _, b := range pv {
		if skip != nil && skip(b) {
			continue
		}
		qmin, qmax, n := m.Capability(b)
		if n == 0 {
			continue
		}
		req := -q[b]
		switch {
		case req > qmax:
			out = append(out, Violation{Bus: b, Upper: true, Required: req, Limit: qmax})
		case req < qmin:
			out = append(out, Violation{Bus: b, Upper: false, Required: req, Limit: qmin})
		}
	}
	slices.SortFunc(out, func(a, b Violation) int { return a.Bus - b.Bus })
	return out
}

// Pin fixes every regulating device at v.Bus on the violated limit and
// returns them.
func (m *Monitor) Pin(v Violation) []*Device {
	var pinned []*Device
	for _, d := range m.devices[v.Bus] {
		if d.Regulating {
			d.Pin(v.Upper)
			pinned = append(pinned, d)
		}
	}
	return pinned
}
