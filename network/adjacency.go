// SPDX-License-Identifier: MIT

package network

// Adjacency maps in-service branches onto unique bus-pair slots.
//
// Slot s joins buses From(s) < To(s). Parallel branches share a slot, so the
// slot count is the number of distinct connected bus pairs. Out-of-service
// branches have no slot (Slot returns -1).
type Adjacency struct {
	nbus     int
	from, to []int
	slotOf   []int // per branch
}

type busPair struct{ lo, hi int }

// Adjacency builds the slot view of the in-service branches.
// Returns ErrModel if a branch references a missing bus or loops on one bus.
//
// Complexity: O(E) time, O(E) memory.
func (n *Network) Adjacency() (*Adjacency, error) {
	a := &Adjacency{
		nbus:   len(n.Buses),
		slotOf: make([]int, len(n.Branches)),
	}
	pairs := make(map[busPair]int, len(n.Branches))
	for i := range n.Branches {
		br := &n.Branches[i]
		if err := n.checkBranch(i, br); err != nil {
			return nil, err
		}
		if !br.InService {
			a.slotOf[i] = -1
			continue
		}
		p := busPair{lo: br.From, hi: br.To}
		if p.lo > p.hi {
			p.lo, p.hi = p.hi, p.lo
		}
		slot, ok := pairs[p]
		if !ok {
			slot = len(a.from)
			pairs[p] = slot
			a.from = append(a.from, p.lo)
			a.to = append(a.to, p.hi)
		}
		a.slotOf[i] = slot
	}
	return a, nil
}

// BusCount returns the number of buses.
func (a *Adjacency) BusCount() int { return a.nbus }

// BranchCount returns the number of slots.
func (a *Adjacency) BranchCount() int { return len(a.from) }

// Ends returns the buses joined by slot s, lower index first.
func (a *Adjacency) Ends(s int) (int, int) { return a.from[s], a.to[s] }

// Slot returns the slot carrying branch i, or -1 if the branch is out of service.
func (a *Adjacency) Slot(i int) int { return a.slotOf[i] }
