// SPDX-License-Identifier: MIT

// Package reactive handles the reactive power of voltage regulating devices:
// generators and static var compensators sharing one Device variant.
//
// Monitor runs during the iteration. At every PV bus it compares the reactive
// output the bus needs against the summed capability of its regulating
// devices and reports a Violation when the bus can no longer hold voltage.
//
// Allocate runs after the solve. It splits the reactive requirement of a bus
// over its devices in proportion to their remaining capability, clamping any
// device that reaches its limit and re-splitting the overflow among the rest.
//
// All quantities are per-unit on the system base.
package reactive
