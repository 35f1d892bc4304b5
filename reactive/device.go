// SPDX-License-Identifier: MIT

package reactive

import "fmt"

// Kind discriminates the concrete device behind a Device.
type Kind uint8

const (
	Generator Kind = iota
	SVC
)

// String returns "generator" or "svc".
func (k Kind) String() string {
	switch k {
	case Generator:
		return "generator"
	case SVC:
		return "svc"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Device is a reactive source attached to a bus. Index points into the
// generator or SVC table of the network, depending on Kind.
type Device struct {
	Kind       Kind
	Index      int
	Bus        int
	QMin, QMax float64
	Q          float64

	// Regulating is cleared when the device is pinned at a limit.
	Regulating bool
	// Disabled marks a device clamped during the last Allocate call.
	Disabled bool
}

// Limit returns QMax for a positive direction and QMin otherwise.
func (d *Device) Limit(up bool) float64 {
	if up {
		return d.QMax
	}
	return d.QMin
}

// Headroom returns how far Q can still move toward the limit in the given
// direction; never negative.
func (d *Device) Headroom(up bool) float64 {
	var h float64
	if up {
		h = d.QMax - d.Q
	} else {
		h = d.Q - d.QMin
	}
	if h < 0 {
		return 0
	}
	return h
}

// Pin stops regulation and fixes Q at the limit of the given direction.
func (d *Device) Pin(up bool) {
	d.Regulating = false
	d.Q = d.Limit(up)
}
