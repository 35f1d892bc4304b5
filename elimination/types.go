// SPDX-License-Identifier: MIT

package elimination

import "errors"

// Sentinel errors returned by Build.
var (
	// ErrBusIndex indicates a slot endpoint or retained bus outside [0, BusCount()).
	ErrBusIndex = errors.New("elimination: bus index out of range")

	// ErrBadSlot indicates a slot joining a bus to itself or repeating the
	// bus pair of an earlier slot.
	ErrBadSlot = errors.New("elimination: invalid branch slot")

	// ErrNoRetained indicates an empty retained set for a graph with buses.
	ErrNoRetained = errors.New("elimination: no retained bus")

	// ErrDisconnected indicates a bus with no path to any retained bus.
	ErrDisconnected = errors.New("elimination: bus cannot reach a retained bus")
)

// Graph is the topology consumed by Build: BusCount buses and BranchCount
// undirected slots, each joining two distinct buses. At most one slot may
// join any bus pair.
type Graph interface {
	BusCount() int
	BranchCount() int
	Ends(slot int) (int, int)
}

// Step records the elimination of one bus.
//
// Neighbors are the buses still present when Bus was eliminated, ascending.
// Branches[i] is the slot joining Bus and Neighbors[i]. Mutual holds the slots
// joining every neighbor pair (i, j) with i < j in row-major order, so the
// pair (i, j) is found at offset i*(2d-i-1)/2 + (j-i-1) for d neighbors.
// FillIn lists the slots created by this step; each also appears in Mutual.
type Step struct {
	Bus       int
	Neighbors []int
	Branches  []int
	Mutual    []int
	FillIn    []int
}

// Degree returns the number of neighbors at elimination time.
func (s *Step) Degree() int { return len(s.Neighbors) }

// MutualSlot returns the slot joining Neighbors[i] and Neighbors[j], i != j.
func (s *Step) MutualSlot(i, j int) int {
	if i > j {
		i, j = j, i
	}
	d := len(s.Neighbors)
	return s.Mutual[i*(2*d-i-1)/2+(j-i-1)]
}

// link is one half of an undirected slot as seen from a bus.
type link struct {
	bus  int
	slot int
}

// degreeItem is a heap entry. Entries are never updated in place: a changed
// degree pushes a fresh entry and stale ones are skipped on pop.
type degreeItem struct {
	bus    int
	degree int
}

// degreePQ is a min-heap of degreeItem ordered by degree, then bus index.
type degreePQ []degreeItem

func (pq degreePQ) Len() int { return len(pq) }

func (pq degreePQ) Less(i, j int) bool {
	if pq[i].degree != pq[j].degree {
		return pq[i].degree < pq[j].degree
	}
	return pq[i].bus < pq[j].bus
}

func (pq degreePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *degreePQ) Push(x interface{}) { *pq = append(*pq, x.(degreeItem)) }

func (pq *degreePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
