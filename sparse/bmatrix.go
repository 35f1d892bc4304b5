// SPDX-License-Identifier: MIT

package sparse

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/gridflow/elimination"
)

// MinPivot is the smallest pivot magnitude accepted by Factorize.
const MinPivot = 1e-12

var (
	// ErrSingular indicates a zero or non-finite pivot.
	ErrSingular = errors.New("sparse: singular matrix")

	// ErrSize indicates a vector whose length disagrees with the pattern.
	ErrSize = errors.New("sparse: dimension mismatch")
)

// BMatrix is a symmetric matrix over a bus/slot adjacency.
type BMatrix struct {
	Self   []float64 // diagonal, per bus
	Branch []float64 // off-diagonal, per original slot
}

// NewBMatrix returns a zero matrix for nbus buses and nslot slots.
func NewBMatrix(nbus, nslot int) *BMatrix {
	return &BMatrix{
		Self:   make([]float64, nbus),
		Branch: make([]float64, nslot),
	}
}

// IncSelf adds v to the diagonal entry of bus.
func (b *BMatrix) IncSelf(bus int, v float64) { b.Self[bus] += v }

// IncBranch adds v to the off-diagonal entry of slot.
func (b *BMatrix) IncBranch(slot int, v float64) { b.Branch[slot] += v }

// Factorize replays p numerically over a copy of b.
//
// Returns ErrSize if len(Self) != p.BusCount() or len(Branch) != p.BranchCount(),
// and ErrSingular (wrapped with the bus index) for an unusable pivot.
//
// Complexity: O(Σ d_e²) time, O(V + slots) memory.
func (b *BMatrix) Factorize(p *elimination.Pattern) (*Factorized, error) {
	if len(b.Self) != p.BusCount() {
		return nil, fmt.Errorf("self has %d entries, pattern %d buses: %w", len(b.Self), p.BusCount(), ErrSize)
	}
	if len(b.Branch) != p.BranchCount() {
		return nil, fmt.Errorf("branch has %d entries, pattern %d slots: %w", len(b.Branch), p.BranchCount(), ErrSize)
	}

	self := make([]float64, len(b.Self))
	copy(self, b.Self)
	branch := make([]float64, p.SlotCount())
	copy(branch, b.Branch)

	steps := p.Steps()
	ntri := 0
	for i := range steps {
		ntri += len(steps[i].Neighbors)
	}
	f := &Factorized{
		nbus:   p.BusCount(),
		pivot:  make([]float64, p.BusCount()),
		order:  make([]int, len(steps)),
		start:  make([]int, len(steps)+1),
		child:  make([]int, 0, ntri),
		coeff:  make([]float64, 0, ntri),
		solved: make([]bool, p.BusCount()),
	}

	// Stage 1: numeric elimination
	for k := range steps {
		st := &steps[k]
		pv := self[st.Bus]
		if math.Abs(pv) < MinPivot || math.IsNaN(pv) || math.IsInf(pv, 0) {
			return nil, fmt.Errorf("bus %d: pivot %g: %w", st.Bus, pv, ErrSingular)
		}
		m := 0
		for i, nb := range st.Neighbors {
			bi := branch[st.Branches[i]]
			r := -bi / pv
			self[nb] += r * bi
			for j := i + 1; j < len(st.Neighbors); j++ {
				branch[st.Mutual[m]] += r * branch[st.Branches[j]]
				m++
			}
		}
	}

	// Stage 2: coefficients in elimination order
	for k := range steps {
		st := &steps[k]
		pv := self[st.Bus]
		f.order[k] = st.Bus
		f.pivot[st.Bus] = pv
		f.solved[st.Bus] = true
		f.start[k] = len(f.child)
		for i, nb := range st.Neighbors {
			f.child = append(f.child, nb)
			f.coeff = append(f.coeff, -branch[st.Branches[i]]/pv)
		}
	}
	f.start[len(steps)] = len(f.child)

	return f, nil
}
