// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"slices"
)

// Factorized is the numeric result of BMatrix.Factorize. It is read-only and
// may be solved against any number of right-hand sides.
type Factorized struct {
	nbus   int
	pivot  []float64 // reduced diagonal of eliminated buses
	order  []int     // eliminated buses, elimination order
	start  []int     // triples of order[k] are child/coeff[start[k]:start[k+1]]
	child  []int
	coeff  []float64
	solved []bool
}

// Solve returns the correction x with B·x = rhs on the eliminated buses and
// x = 0 on retained buses. rhs is not modified.
func (f *Factorized) Solve(rhs []float64) ([]float64, error) {
	x := make([]float64, f.nbus)
	if err := f.SolveTo(x, rhs); err != nil {
		return nil, err
	}
	return x, nil
}

// SolveTo is Solve writing into dst, which must not alias rhs.
func (f *Factorized) SolveTo(dst, rhs []float64) error {
	if len(rhs) != f.nbus || len(dst) != f.nbus {
		return fmt.Errorf("solve: rhs %d, dst %d, buses %d: %w", len(rhs), len(dst), f.nbus, ErrSize)
	}
	copy(dst, rhs)

	// forward reduction
	for k, e := range f.order {
		v := dst[e]
		if v == 0 {
			continue
		}
		for t := f.start[k]; t < f.start[k+1]; t++ {
			dst[f.child[t]] += f.coeff[t] * v
		}
	}

	for b := range dst {
		if !f.solved[b] {
			dst[b] = 0
		}
	}

	// back substitution
	for k := len(f.order) - 1; k >= 0; k-- {
		e := f.order[k]
		v := dst[e] / f.pivot[e]
		for t := f.start[k]; t < f.start[k+1]; t++ {
			v += f.coeff[t] * dst[f.child[t]]
		}
		dst[e] = v
	}

	return nil
}

// Eliminated returns the buses that receive a correction, in elimination order.
func (f *Factorized) Eliminated() []int { return slices.Clone(f.order) }

// IsEliminated reports whether bus receives a correction.
func (f *Factorized) IsEliminated(bus int) bool { return f.solved[bus] }

// Pivot returns the reduced diagonal of an eliminated bus (0 for retained ones).
func (f *Factorized) Pivot(bus int) float64 { return f.pivot[bus] }

// BusCount returns the dimension of the vectors accepted by Solve.
func (f *Factorized) BusCount() int { return f.nbus }
