// SPDX-License-Identifier: MIT

package elimination

import (
	"container/heap"
	"fmt"
	"slices"
)

// Pattern is an immutable symbolic elimination of one graph for one retained
// set. It is safe to share between factorizations and goroutines.
type Pattern struct {
	nbus     int
	nbranch  int
	steps    []Step
	retained []int
	elim     []bool
	from, to []int // endpoints of every slot, original and fill-in
}

// Build orders every non-retained bus of g by minimum current degree and
// records the resulting elimination steps.
//
// Stages:
//  1. Validate slot endpoints and the retained set.
//  2. Reject buses that cannot reach a retained bus (BFS from the retained set).
//  3. Repeatedly pop the lowest-degree live bus from a lazy min-heap, connect
//     its neighbors pairwise (creating fill-in slots) and detach it.
//  4. Trim the step index arrays to their final size.
//
// Retained buses are never eliminated; duplicate entries in retained are ignored.
func Build(g Graph, retained []int) (*Pattern, error) {
	nbus, nbranch := g.BusCount(), g.BranchCount()

	// Stage 1: adjacency and validation
	links := make([][]link, nbus)
	p := &Pattern{
		nbus:    nbus,
		nbranch: nbranch,
		elim:    make([]bool, nbus),
		from:    make([]int, nbranch, 2*nbranch+nbus),
		to:      make([]int, nbranch, 2*nbranch+nbus),
	}
	for s := 0; s < nbranch; s++ {
		a, b := g.Ends(s)
		if a < 0 || a >= nbus || b < 0 || b >= nbus {
			return nil, fmt.Errorf("slot %d (%d-%d): %w", s, a, b, ErrBusIndex)
		}
		if a == b {
			return nil, fmt.Errorf("slot %d loops on bus %d: %w", s, a, ErrBadSlot)
		}
		if a > b {
			a, b = b, a
		}
		if _, ok := findLink(links[a], b); ok {
			return nil, fmt.Errorf("slot %d repeats pair %d-%d: %w", s, a, b, ErrBadSlot)
		}
		p.from[s], p.to[s] = a, b
		links[a] = append(links[a], link{bus: b, slot: s})
		links[b] = append(links[b], link{bus: a, slot: s})
	}

	isRetained := make([]bool, nbus)
	for _, r := range retained {
		if r < 0 || r >= nbus {
			return nil, fmt.Errorf("retained bus %d: %w", r, ErrBusIndex)
		}
		if !isRetained[r] {
			isRetained[r] = true
			p.retained = append(p.retained, r)
		}
	}
	slices.Sort(p.retained)
	if nbus > 0 && len(p.retained) == 0 {
		return nil, ErrNoRetained
	}

	// Stage 2: connectivity
	if bus, ok := unreachable(links, p.retained); ok {
		return nil, fmt.Errorf("bus %d: %w", bus, ErrDisconnected)
	}

	// Stage 3: minimum degree elimination
	neliminate := nbus - len(p.retained)
	p.steps = make([]Step, 0, neliminate)

	// Flat index buffers; steps refer to offsets until Stage 4.
	type span struct{ nbr, mut, fill, nnbr, nmut, nfill int }
	spans := make([]span, 0, neliminate)
	nbrBuf := make([]int, 0, 2*nbranch)
	brBuf := make([]int, 0, 2*nbranch)
	mutBuf := make([]int, 0, 2*nbranch)
	fillBuf := make([]int, 0, nbranch)

	pq := make(degreePQ, 0, nbus)
	for b := 0; b < nbus; b++ {
		if !isRetained[b] {
			pq = append(pq, degreeItem{bus: b, degree: len(links[b])})
		}
	}
	heap.Init(&pq)

	var nbrs []link
	for pq.Len() > 0 {
		it := heap.Pop(&pq).(degreeItem)
		e := it.bus
		if p.elim[e] || it.degree != len(links[e]) {
			continue // stale entry
		}
		p.elim[e] = true

		nbrs = append(nbrs[:0], links[e]...)
		slices.SortFunc(nbrs, func(x, y link) int { return x.bus - y.bus })

		sp := span{nbr: len(nbrBuf), mut: len(mutBuf), fill: len(fillBuf), nnbr: len(nbrs)}
		for _, l := range nbrs {
			nbrBuf = append(nbrBuf, l.bus)
			brBuf = append(brBuf, l.slot)
		}
		for i := 0; i < len(nbrs); i++ {
			a := nbrs[i].bus
			for j := i + 1; j < len(nbrs); j++ {
				b := nbrs[j].bus
				slot, ok := findLink(links[a], b)
				if !ok {
					slot = len(p.from)
					p.from = append(p.from, a)
					p.to = append(p.to, b)
					links[a] = append(links[a], link{bus: b, slot: slot})
					links[b] = append(links[b], link{bus: a, slot: slot})
					fillBuf = append(fillBuf, slot)
				}
				mutBuf = append(mutBuf, slot)
			}
		}
		sp.nmut = len(mutBuf) - sp.mut
		sp.nfill = len(fillBuf) - sp.fill
		spans = append(spans, sp)

		// detach e from its neighbors and refresh their heap entries
		for _, l := range nbrs {
			links[l.bus] = dropLink(links[l.bus], e)
			if !isRetained[l.bus] {
				heap.Push(&pq, degreeItem{bus: l.bus, degree: len(links[l.bus])})
			}
		}
		links[e] = nil
		p.steps = append(p.steps, Step{Bus: e})
	}

	// Stage 4: trim and attach index arrays
	nbrBuf = slices.Clip(nbrBuf)
	brBuf = slices.Clip(brBuf)
	mutBuf = slices.Clip(mutBuf)
	fillBuf = slices.Clip(fillBuf)
	for i, sp := range spans {
		st := &p.steps[i]
		st.Neighbors = nbrBuf[sp.nbr : sp.nbr+sp.nnbr : sp.nbr+sp.nnbr]
		st.Branches = brBuf[sp.nbr : sp.nbr+sp.nnbr : sp.nbr+sp.nnbr]
		st.Mutual = mutBuf[sp.mut : sp.mut+sp.nmut : sp.mut+sp.nmut]
		st.FillIn = fillBuf[sp.fill : sp.fill+sp.nfill : sp.fill+sp.nfill]
	}
	p.from = slices.Clip(p.from)
	p.to = slices.Clip(p.to)

	return p, nil
}

// Steps returns the elimination steps in order. The slice is shared; callers
// must not modify it.
func (p *Pattern) Steps() []Step { return p.steps }

// Retained returns the retained buses in ascending order.
func (p *Pattern) Retained() []int { return slices.Clone(p.retained) }

// IsEliminated reports whether bus is eliminated (not retained).
func (p *Pattern) IsEliminated(bus int) bool { return p.elim[bus] }

// BusCount returns the number of buses of the source graph.
func (p *Pattern) BusCount() int { return p.nbus }

// BranchCount returns the number of original slots.
func (p *Pattern) BranchCount() int { return p.nbranch }

// SlotCount returns original plus fill-in slots.
func (p *Pattern) SlotCount() int { return len(p.from) }

// FillInCount returns the number of fill-in slots.
func (p *Pattern) FillInCount() int { return len(p.from) - p.nbranch }

// Ends returns the buses joined by slot s, lower index first.
func (p *Pattern) Ends(s int) (int, int) { return p.from[s], p.to[s] }

func findLink(ls []link, bus int) (int, bool) {
	for _, l := range ls {
		if l.bus == bus {
			return l.slot, true
		}
	}
	return -1, false
}

// dropLink removes the link to bus by swapping in the last element.
func dropLink(ls []link, bus int) []link {
	for i := range ls {
		if ls[i].bus == bus {
			last := len(ls) - 1
			ls[i] = ls[last]
			return ls[:last]
		}
	}
	return ls
}

// unreachable returns the lowest bus not reachable from any retained bus.
func unreachable(links [][]link, retained []int) (int, bool) {
	seen := make([]bool, len(links))
	queue := make([]int, 0, len(links))
	for _, r := range retained {
		seen[r] = true
		queue = append(queue, r)
	}
	for qi := 0; qi < len(queue); qi++ {
		for _, l := range links[queue[qi]] {
			if !seen[l.bus] {
				seen[l.bus] = true
				queue = append(queue, l.bus)
			}
		}
	}
	for b, ok := range seen {
		if !ok {
			return b, true
		}
	}
	return -1, false
}
