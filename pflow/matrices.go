// SPDX-License-Identifier: MIT

package pflow

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/gridflow/elimination"
	"github.com/katalvlaran/gridflow/network"
	"github.com/katalvlaran/gridflow/sparse"
	"github.com/katalvlaran/gridflow/units"
)

// buildBPrime assembles B′: −1/X per slot, parallel branches summed.
func buildBPrime(net *network.Network, adj *network.Adjacency) *sparse.BMatrix {
	b := sparse.NewBMatrix(adj.BusCount(), adj.BranchCount())
	for i := range net.Branches {
		s := adj.Slot(i)
		if s < 0 {
			continue
		}
		br := &net.Branches[i]
		y := 1 / br.X
		b.IncBranch(s, -y)
		b.IncSelf(br.From, y)
		b.IncSelf(br.To, y)
	}
	return b
}

// buildBDoublePrime assembles B″: −X/(R²+X²) per slot; the diagonal also
// subtracts half the line charging at each end and the fixed shunt
// susceptance (capacitive positive).
func buildBDoublePrime(net *network.Network, adj *network.Adjacency, sbase float64) *sparse.BMatrix {
	b := sparse.NewBMatrix(adj.BusCount(), adj.BranchCount())
	for i := range net.Branches {
		s := adj.Slot(i)
		if s < 0 {
			continue
		}
		br := &net.Branches[i]
		y := br.X / (br.R*br.R + br.X*br.X)
		b.IncBranch(s, -y)
		b.IncSelf(br.From, y-br.B/2)
		b.IncSelf(br.To, y-br.B/2)
	}
	for i := range net.Shunts {
		sh := &net.Shunts[i]
		if sh.InService {
			b.IncSelf(sh.Bus, -units.MVAToPU(sh.B, sbase))
		}
	}
	return b
}

// factorize builds the pattern for retained and replays m on it. Structural
// failures are model errors; numeric ones keep sparse.ErrSingular.
func factorize(name string, m *sparse.BMatrix, adj *network.Adjacency, retained []int) (*sparse.Factorized, error) {
	p, err := elimination.Build(adj, retained)
	if err != nil {
		return nil, fmt.Errorf("%s pattern: %w: %w", name, network.ErrModel, err)
	}
	f, err := m.Factorize(p)
	if err != nil {
		if errors.Is(err, sparse.ErrSize) {
			return nil, fmt.Errorf("%s: %w: %w", name, network.ErrModel, err)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// factorCell is the B″ factorization: valid with a value, or stale.
type factorCell struct {
	f     *sparse.Factorized
	valid bool
}

func (c *factorCell) invalidate() {
	c.f = nil
	c.valid = false
}

func (c *factorCell) set(f *sparse.Factorized) {
	c.f = f
	c.valid = true
}
