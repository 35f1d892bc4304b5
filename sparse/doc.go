// SPDX-License-Identifier: MIT

// Package sparse factorizes symmetric susceptance matrices along a symbolic
// elimination.Pattern and solves them by forward reduction and back
// substitution.
//
// A BMatrix stores the diagonal (Self, one entry per bus) and the off-diagonal
// (Branch, one entry per original slot) of a symmetric matrix. Factorize copies
// both, extends the branch values with zeroed fill-in slots and replays every
// elimination step:
//
//	for each step e with neighbors n₀…n_{d-1}:
//	    for i:   f = −B[e,nᵢ] / S[e]
//	             S[nᵢ]      += f · B[e,nᵢ]
//	             B[nᵢ,nⱼ]   += f · B[e,nⱼ]   (j > i)
//
// and stores one coefficient −B[e,n]/S[e] per (e, n) pair. Retained buses are
// not part of the reduced system: their correction is always zero.
//
// The source BMatrix is never modified, so it may be factorized again (for
// example after IncSelf, or along a different pattern).
//
// Errors:
//
//   - ErrSize:     vector lengths disagree with the pattern.
//   - ErrSingular: a pivot is zero (below MinPivot) or not finite. This is a
//     numeric problem of the data (zero-impedance branch, isolated bus),
//     distinct from structural model errors.
package sparse
