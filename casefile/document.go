// SPDX-License-Identifier: MIT

package casefile

import (
	"fmt"

	"github.com/katalvlaran/gridflow/network"
)

// document mirrors the file layout.
type document struct {
	Name       string        `toml:"name" yaml:"name"`
	Solver     Solver        `toml:"solver" yaml:"solver"`
	Buses      []busEntry    `toml:"bus" yaml:"bus"`
	Branches   []branchEntry `toml:"branch" yaml:"branch"`
	Generators []genEntry    `toml:"generator" yaml:"generator"`
	SVCs       []svcEntry    `toml:"svc" yaml:"svc"`
	Loads      []injectEntry `toml:"load" yaml:"load"`
	Shunts     []shuntEntry  `toml:"shunt" yaml:"shunt"`
}

type busEntry struct {
	ID     string  `toml:"id" yaml:"id"`
	Name   string  `toml:"name" yaml:"name"`
	BaseKV float64 `toml:"base_kv" yaml:"base_kv"`
	VM     float64 `toml:"vm" yaml:"vm"` // kV, 0 means base_kv
	VA     float64 `toml:"va" yaml:"va"` // degrees
	Slack  bool    `toml:"slack" yaml:"slack"`
}

type branchEntry struct {
	ID        string  `toml:"id" yaml:"id"`
	From      string  `toml:"from" yaml:"from"`
	To        string  `toml:"to" yaml:"to"`
	R         float64 `toml:"r" yaml:"r"`
	X         float64 `toml:"x" yaml:"x"`
	B         float64 `toml:"b" yaml:"b"`
	InService *bool   `toml:"in_service" yaml:"in_service"`
}

type genEntry struct {
	ID        string  `toml:"id" yaml:"id"`
	Bus       string  `toml:"bus" yaml:"bus"`
	P         float64 `toml:"p" yaml:"p"`
	Q         float64 `toml:"q" yaml:"q"`
	QMin      float64 `toml:"qmin" yaml:"qmin"`
	QMax      float64 `toml:"qmax" yaml:"qmax"`
	RegKV     bool    `toml:"reg_kv" yaml:"reg_kv"`
	VSet      float64 `toml:"vset" yaml:"vset"`
	InService *bool   `toml:"in_service" yaml:"in_service"`
}

type svcEntry struct {
	ID        string  `toml:"id" yaml:"id"`
	Bus       string  `toml:"bus" yaml:"bus"`
	Q         float64 `toml:"q" yaml:"q"`
	QMin      float64 `toml:"qmin" yaml:"qmin"`
	QMax      float64 `toml:"qmax" yaml:"qmax"`
	RegKV     bool    `toml:"reg_kv" yaml:"reg_kv"`
	VSet      float64 `toml:"vset" yaml:"vset"`
	InService *bool   `toml:"in_service" yaml:"in_service"`
}

type injectEntry struct {
	ID        string  `toml:"id" yaml:"id"`
	Bus       string  `toml:"bus" yaml:"bus"`
	P         float64 `toml:"p" yaml:"p"`
	Q         float64 `toml:"q" yaml:"q"`
	InService *bool   `toml:"in_service" yaml:"in_service"`
}

type shuntEntry struct {
	ID        string  `toml:"id" yaml:"id"`
	Bus       string  `toml:"bus" yaml:"bus"`
	G         float64 `toml:"g" yaml:"g"`
	B         float64 `toml:"b" yaml:"b"`
	InService *bool   `toml:"in_service" yaml:"in_service"`
}

func inService(v *bool) bool { return v == nil || *v }

// build resolves bus IDs and assembles the network.
//
// Stages:
//  1. Buses, in file order; vm defaults to base_kv (flat start).
//  2. Branches, then generators, SVCs, loads and shunts, each resolving its
//     bus IDs through the network index.
//  3. Full validation.
func (d *document) build() (*network.Network, error) {
	n := network.New()

	// Stage 1: buses
	for _, b := range d.Buses {
		vm := b.VM
		if vm == 0 {
			vm = b.BaseKV
		}
		if _, err := n.AddBus(network.Bus{
			ID: b.ID, Name: b.Name, BaseKV: b.BaseKV, VM: vm, VA: b.VA, Slack: b.Slack,
		}); err != nil {
			return nil, err
		}
	}

	// Stage 2: elements
	for _, e := range d.Branches {
		from, err := n.BusIndex(e.From)
		if err != nil {
			return nil, fmt.Errorf("branch %s: %w", e.ID, err)
		}
		to, err := n.BusIndex(e.To)
		if err != nil {
			return nil, fmt.Errorf("branch %s: %w", e.ID, err)
		}
		if _, err = n.AddBranch(network.Branch{
			ID: e.ID, From: from, To: to, R: e.R, X: e.X, B: e.B, InService: inService(e.InService),
		}); err != nil {
			return nil, fmt.Errorf("branch %s: %w", e.ID, err)
		}
	}
	for _, e := range d.Generators {
		bus, err := n.BusIndex(e.Bus)
		if err == nil {
			_, err = n.AddGenerator(network.Generator{
				ID: e.ID, Bus: bus, PS: e.P, QS: e.Q, QMin: e.QMin, QMax: e.QMax,
				RegKV: e.RegKV, VSet: e.VSet, InService: inService(e.InService),
			})
		}
		if err != nil {
			return nil, fmt.Errorf("generator %s: %w", e.ID, err)
		}
	}
	for _, e := range d.SVCs {
		bus, err := n.BusIndex(e.Bus)
		if err == nil {
			_, err = n.AddSVC(network.SVC{
				ID: e.ID, Bus: bus, QS: e.Q, QMin: e.QMin, QMax: e.QMax,
				RegKV: e.RegKV, VSet: e.VSet, InService: inService(e.InService),
			})
		}
		if err != nil {
			return nil, fmt.Errorf("svc %s: %w", e.ID, err)
		}
	}
	for _, e := range d.Loads {
		bus, err := n.BusIndex(e.Bus)
		if err == nil {
			_, err = n.AddLoad(network.Load{ID: e.ID, Bus: bus, P: e.P, Q: e.Q, InService: inService(e.InService)})
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", e.ID, err)
		}
	}
	for _, e := range d.Shunts {
		bus, err := n.BusIndex(e.Bus)
		if err == nil {
			_, err = n.AddShunt(network.Shunt{ID: e.ID, Bus: bus, G: e.G, B: e.B, InService: inService(e.InService)})
		}
		if err != nil {
			return nil, fmt.Errorf("shunt %s: %w", e.ID, err)
		}
	}

	// Stage 3: validation
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}
