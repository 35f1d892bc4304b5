// SPDX-License-Identifier: MIT

// Package report provides pflow.Reporter implementations:
//
//   - Summary: one table row per iteration with the worst active and
//     reactive mismatch, rendered when the solve ends.
//   - Detail:  per-bus CSV of the final iteration (type, voltage, mismatch).
//   - Chart:   convergence plot of the worst mismatches, PNG or SVG by
//     file extension.
//
// Reporters only observe; their errors are logged by the solver.
package report
