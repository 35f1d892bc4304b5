// SPDX-License-Identifier: MIT

// Package pflow solves the AC power flow with the fast-decoupled method.
//
// Two constant susceptance matrices approximate the Jacobian blocks:
//
//	B′  (angle / active power):      off-diagonal −1/X, diagonal Σ 1/X
//	B″  (magnitude / reactive power): off-diagonal −X/(R²+X²),
//	                                  diagonal Σ X/(R²+X²) − charging/2 − shunt B
//
// and every iteration solves
//
//	B′ · Δθ = ΔP / V
//	B″ · ΔV = ΔQ / V
//
// with ΔP, ΔQ the scheduled minus calculated injections. B′ retains only the
// reference bus of each island and is factorized once. B″ also retains the
// PV buses, whose magnitude is held by regulation; it is refactorized after
// any PV bus is converted to PQ because its devices ran out of reactive
// capability.
//
// Lifecycle:
//
//	s, err := pflow.New(net, pflow.WithTolerance(0.001))  // Initializing
//	res, err := s.Run()                                   // Iterating → Converged | MaxIterationsReached
//	err = s.UpdateResults()                               // commit voltages, flows, device outputs
//
// Only islands with at least one generating unit are solved ("hot"); the
// others are reported converged and left untouched. Running out of
// iterations is reported through Result, not as an error.
//
// Errors:
//
//   - network.ErrModel:     malformed or inconsistent model data, including
//     topology the elimination cannot cover.
//   - sparse.ErrSingular:   a zero or non-finite pivot (for example a
//     zero-impedance branch).
//   - ErrOptionViolation:   an invalid option value.
//   - ErrNotSolved:         UpdateResults before Run.
package pflow
