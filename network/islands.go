// SPDX-License-Identifier: MIT

package network

// Islands finds all maximal connected subnetworks over in-service branches,
// writes the island index into every Bus.Island and returns the islands in
// order of their lowest bus index. Isolated buses form single-bus islands.
//
// Each island lists its buses in BFS order from its lowest-index bus and the
// generators attached to those buses (in service or not).
//
// Time:   O(V + E)
// Memory: O(V + E) for the neighbor lists and the queue.
func (n *Network) Islands() []Island {
	nbus := len(n.Buses)
	nbrs := n.neighborLists()
	seen := make([]bool, nbus)
	var islands []Island

	for start := 0; start < nbus; start++ {
		if seen[start] {
			continue
		}
		idx := len(islands)
		// BFS to collect the component
		queue := []int{start}
		seen[start] = true
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			n.Buses[u].Island = idx
			for _, v := range nbrs[u] {
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		islands = append(islands, Island{Index: idx, Buses: queue})
	}

	for i := range n.Generators {
		isl := n.Buses[n.Generators[i].Bus].Island
		islands[isl].Generators = append(islands[isl].Generators, i)
	}

	return islands
}

// Hot reports whether at least one in-service generator in isl produces
// active power. Only hot islands are solved.
func (n *Network) Hot(isl Island) bool {
	for _, g := range isl.Generators {
		if n.Generators[g].Generating() {
			return true
		}
	}
	return false
}

// neighborLists returns, per bus, the buses joined to it by an in-service
// branch. Parallel branches produce repeated entries; BFS tolerates them.
func (n *Network) neighborLists() [][]int {
	nbrs := make([][]int, len(n.Buses))
	for i := range n.Branches {
		br := &n.Branches[i]
		if !br.InService {
			continue
		}
		nbrs[br.From] = append(nbrs[br.From], br.To)
		nbrs[br.To] = append(nbrs[br.To], br.From)
	}
	return nbrs
}
