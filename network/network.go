// SPDX-License-Identifier: MIT

package network

import (
	"math"
	"strconv"
)

// Network is the grid model. Element slices are exported so loaders and
// tests can build a model directly; call Validate before handing a literal
// Network to the solver. The Add* helpers validate as they go.
type Network struct {
	Buses      []Bus
	Branches   []Branch
	Generators []Generator
	SVCs       []SVC
	Loads      []Load
	Shunts     []Shunt

	byID map[string]int // bus ID → index, rebuilt on demand
}

// New returns an empty Network.
func New() *Network {
	return &Network{byID: make(map[string]int)}
}

// AddBus appends b and returns its index.
// Returns ErrModel for an empty or duplicate ID.
func (n *Network) AddBus(b Bus) (int, error) {
	if b.ID == "" {
		return -1, modelErrorf("bus", "empty id")
	}
	n.reindex()
	if _, dup := n.byID[b.ID]; dup {
		return -1, modelErrorf("bus "+b.ID, "duplicate id")
	}
	idx := len(n.Buses)
	n.Buses = append(n.Buses, b)
	n.byID[b.ID] = idx

	return idx, nil
}

// BusIndex resolves a bus ID to its index.
func (n *Network) BusIndex(id string) (int, error) {
	n.reindex()
	idx, ok := n.byID[id]
	if !ok {
		return -1, modelErrorf("bus "+id, "unknown bus")
	}
	return idx, nil
}

// reindex rebuilds byID when buses were appended outside AddBus.
func (n *Network) reindex() {
	if n.byID != nil && len(n.byID) == len(n.Buses) {
		return
	}
	n.byID = make(map[string]int, len(n.Buses))
	for i := range n.Buses {
		n.byID[n.Buses[i].ID] = i
	}
}

// AddBranch appends br after checking its endpoints.
func (n *Network) AddBranch(br Branch) (int, error) {
	idx := len(n.Branches)
	if err := n.checkBranch(idx, &br); err != nil {
		return -1, err
	}
	n.Branches = append(n.Branches, br)
	return idx, nil
}

// AddGenerator appends g after checking its bus and limits.
func (n *Network) AddGenerator(g Generator) (int, error) {
	idx := len(n.Generators)
	if err := n.checkGenerator(idx, &g); err != nil {
		return -1, err
	}
	n.Generators = append(n.Generators, g)
	return idx, nil
}

// AddSVC appends s after checking its bus and limits.
func (n *Network) AddSVC(s SVC) (int, error) {
	idx := len(n.SVCs)
	if err := n.checkSVC(idx, &s); err != nil {
		return -1, err
	}
	n.SVCs = append(n.SVCs, s)
	return idx, nil
}

// AddLoad appends l after checking its bus.
func (n *Network) AddLoad(l Load) (int, error) {
	idx := len(n.Loads)
	if err := n.checkBus("load", idx, l.Bus); err != nil {
		return -1, err
	}
	n.Loads = append(n.Loads, l)
	return idx, nil
}

// AddShunt appends s after checking its bus.
func (n *Network) AddShunt(s Shunt) (int, error) {
	idx := len(n.Shunts)
	if err := n.checkBus("shunt", idx, s.Bus); err != nil {
		return -1, err
	}
	n.Shunts = append(n.Shunts, s)
	return idx, nil
}

// Validate checks every element reference and numeric field.
//
// Zero-impedance branches are NOT rejected here: they are a numeric problem
// that the factorization reports separately from structural failures.
func (n *Network) Validate() error {
	if len(n.Buses) == 0 {
		return modelErrorf("buses", "network has no buses")
	}
	seen := make(map[string]struct{}, len(n.Buses))
	for i := range n.Buses {
		b := &n.Buses[i]
		if b.ID == "" {
			return modelErrorf("bus", "bus %d has empty id", i)
		}
		if _, dup := seen[b.ID]; dup {
			return modelErrorf("bus "+b.ID, "duplicate id")
		}
		seen[b.ID] = struct{}{}
		if !finite(b.BaseKV, b.VM, b.VA) {
			return modelErrorf("bus "+b.ID, "non-finite voltage data")
		}
	}
	n.byID = nil
	n.reindex()

	for i := range n.Branches {
		if err := n.checkBranch(i, &n.Branches[i]); err != nil {
			return err
		}
	}
	for i := range n.Generators {
		if err := n.checkGenerator(i, &n.Generators[i]); err != nil {
			return err
		}
	}
	for i := range n.SVCs {
		if err := n.checkSVC(i, &n.SVCs[i]); err != nil {
			return err
		}
	}
	for i := range n.Loads {
		if err := n.checkBus("load", i, n.Loads[i].Bus); err != nil {
			return err
		}
		if !finite(n.Loads[i].P, n.Loads[i].Q) {
			return modelErrorf(stepName("load", i), "non-finite demand")
		}
	}
	for i := range n.Shunts {
		if err := n.checkBus("shunt", i, n.Shunts[i].Bus); err != nil {
			return err
		}
		if !finite(n.Shunts[i].G, n.Shunts[i].B) {
			return modelErrorf(stepName("shunt", i), "non-finite admittance")
		}
	}

	return nil
}

// DevicesAt returns, per bus, the indices of attached generators and SVCs.
func (n *Network) DevicesAt() (gens, svcs [][]int) {
	gens = make([][]int, len(n.Buses))
	svcs = make([][]int, len(n.Buses))
	for i := range n.Generators {
		b := n.Generators[i].Bus
		gens[b] = append(gens[b], i)
	}
	for i := range n.SVCs {
		b := n.SVCs[i].Bus
		svcs[b] = append(svcs[b], i)
	}
	return gens, svcs
}

func (n *Network) checkBus(kind string, idx, bus int) error {
	if bus < 0 || bus >= len(n.Buses) {
		return modelErrorf(stepName(kind, idx), "bus %d out of range [0,%d)", bus, len(n.Buses))
	}
	return nil
}

func (n *Network) checkBranch(idx int, br *Branch) error {
	step := stepName("branch", idx)
	if br.From < 0 || br.From >= len(n.Buses) {
		return modelErrorf(step, "from bus %d out of range [0,%d)", br.From, len(n.Buses))
	}
	if br.To < 0 || br.To >= len(n.Buses) {
		return modelErrorf(step, "to bus %d out of range [0,%d)", br.To, len(n.Buses))
	}
	if br.From == br.To {
		return modelErrorf(step, "both ends on bus %d", br.From)
	}
	if !finite(br.R, br.X, br.B) {
		return modelErrorf(step, "non-finite impedance")
	}
	return nil
}

func (n *Network) checkGenerator(idx int, g *Generator) error {
	if err := n.checkBus("generator", idx, g.Bus); err != nil {
		return err
	}
	step := stepName("generator", idx)
	if !finite(g.PS, g.QS, g.QMin, g.QMax, g.VSet) {
		return modelErrorf(step, "non-finite schedule or limits")
	}
	if g.QMin > g.QMax {
		return modelErrorf(step, "qmin %g above qmax %g", g.QMin, g.QMax)
	}
	return nil
}

func (n *Network) checkSVC(idx int, s *SVC) error {
	if err := n.checkBus("svc", idx, s.Bus); err != nil {
		return err
	}
	step := stepName("svc", idx)
	if !finite(s.QS, s.QMin, s.QMax, s.VSet) {
		return modelErrorf(step, "non-finite schedule or limits")
	}
	if s.QMin > s.QMax {
		return modelErrorf(step, "qmin %g above qmax %g", s.QMin, s.QMax)
	}
	return nil
}

func stepName(kind string, idx int) string {
	return kind + " " + strconv.Itoa(idx)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
