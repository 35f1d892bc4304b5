// SPDX-License-Identifier: MIT

package reactive

// Allocate adds m to the reactive output of devs and returns the part that
// could not be placed.
//
// A device whose output lies outside [QMin, QMax] is first moved onto the
// nearer limit and that move is counted against m, so every device ends
// inside its range.
//
// Devices whose limit lies beyond their current output in the direction of m
// take part; every pass splits the pool in proportion to their headroom
// (limit minus current output, which is the full capability for a device
// starting at zero), the last device taking the exact remainder. A device that would cross its
// limit is clamped there, marked Disabled and its overflow returned to the
// pool for the next pass. The loop ends when the pool is exactly zero or no
// device is left; with no headroom at all the whole of m is returned.
//
// Complexity: O(n²) for n devices, since every extra pass disables one.
func Allocate(devs []*Device, m float64) (residual float64) {
	for _, d := range devs {
		d.Disabled = false
		if q := min(max(d.Q, d.QMin), d.QMax); q != d.Q {
			m -= q - d.Q
			d.Q = q
		}
	}
	if m == 0 {
		return 0
	}
	up := m > 0

	active := make([]*Device, 0, len(devs))
	for _, d := range devs {
		if d.Headroom(up) > 0 {
			active = append(active, d)
		}
	}

	for m != 0 {
		if len(active) == 0 {
			return m
		}
		var total float64
		for _, d := range active {
			total += d.Headroom(up)
		}
		if total == 0 {
			return m
		}

		pool, left := m, m
		var overflow float64
		next := active[:0]
		for i, d := range active {
			share := left
			if i < len(active)-1 {
				share = pool * d.Headroom(up) / total
				left -= share
			}
			qa := d.Q + share
			lim := d.Limit(up)
			if (up && qa >= lim) || (!up && qa <= lim) {
				overflow += qa - lim
				d.Q = lim
				d.Disabled = true
				continue
			}
			d.Q = qa
			next = append(next, d)
		}
		active = next
		m = overflow
	}
	return 0
}
