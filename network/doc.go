// SPDX-License-Identifier: MIT

// Package network is the in-memory grid model consumed by the power-flow core.
//
// What:
//
//   - Network is an arena of buses, branches, generators, SVCs, loads and
//     fixed shunts addressed by dense 0-based indices (slice positions).
//   - Islands splits the buses into maximal connected subnetworks over the
//     in-service branches and records island membership on every bus.
//   - Adjacency collapses parallel branches into unique bus-pair slots; the
//     elimination engine and the B-matrix builders work on those slots.
//
// Units:
//
//   - Bus.VM is in kV and Bus.VA in degrees; powers are MW/MVAr.
//   - Branch R, X and B are per-unit on the system base.
//
// Errors:
//
//   - ErrModel is the single failure kind for malformed or inconsistent
//     model data. Every error returned by this package wraps it together with
//     the structural step that failed, e.g. "branch 7: network: invalid model:
//     to bus 42 out of range". Callers match with errors.Is.
//
// Concurrency:
//
//   - A Network is not safe for concurrent mutation. The solver reads it
//     during setup and writes it only when results are committed.
package network
