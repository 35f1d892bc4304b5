// SPDX-License-Identifier: MIT

package bustype_test

import (
	"testing"

	"github.com/katalvlaran/gridflow/bustype"
	"github.com/katalvlaran/gridflow/network"
	"github.com/stretchr/testify/require"
)

func TestNew_ReferencePerIsland(t *testing.T) {
	island := []int{0, 0, 1, 1}

	_, err := bustype.New([]bustype.Type{bustype.Reference, bustype.PQ, bustype.Reference, bustype.PV}, island, 2)
	require.NoError(t, err)

	_, err = bustype.New([]bustype.Type{bustype.Reference, bustype.Reference, bustype.Reference, bustype.PQ}, island, 2)
	require.ErrorIs(t, err, bustype.ErrReference)

	_, err = bustype.New([]bustype.Type{bustype.Reference, bustype.PQ, bustype.PQ, bustype.PV}, island, 2)
	require.ErrorIs(t, err, bustype.ErrReference)

	_, err = bustype.New([]bustype.Type{bustype.Reference}, island, 2)
	require.ErrorIs(t, err, bustype.ErrShape)

	_, err = bustype.New([]bustype.Type{bustype.Reference, bustype.PQ, bustype.PQ, bustype.PQ}, []int{0, 0, 3, 0}, 2)
	require.ErrorIs(t, err, bustype.ErrShape)
}

func TestToPQ_OneWay(t *testing.T) {
	c, err := bustype.New(
		[]bustype.Type{bustype.Reference, bustype.PV, bustype.PQ},
		[]int{0, 0, 0}, 1)
	require.NoError(t, err)

	ch, err := c.ToPQ(1)
	require.NoError(t, err)
	require.Equal(t, bustype.Change{Bus: 1, Island: 0, From: bustype.PV, To: bustype.PQ}, ch)
	require.Equal(t, bustype.PQ, c.Type(1))

	for _, bus := range []int{0, 1, 2} {
		_, err = c.ToPQ(bus)
		require.ErrorIs(t, err, bustype.ErrTransition, "bus %d", bus)
	}
	require.Equal(t, bustype.Reference, c.Type(0))
	_, err = c.ToPQ(0)
	require.ErrorContains(t, err, "bus 0: Reference -> PQ")

	_, err = c.ToPQ(7)
	require.ErrorIs(t, err, bustype.ErrShape)
}

func TestQueries(t *testing.T) {
	c, err := bustype.New(
		[]bustype.Type{bustype.PQ, bustype.Reference, bustype.PV, bustype.Reference, bustype.PV},
		[]int{0, 0, 0, 1, 1}, 2)
	require.NoError(t, err)

	require.Equal(t, []int{2, 4}, c.Buses(bustype.PV))
	require.Equal(t, []int{4}, c.IslandBuses(bustype.PV, 1))
	require.Equal(t, []int{1, 2, 3, 4}, c.Retained(bustype.Reference, bustype.PV))
	require.Equal(t, 1, c.ReferenceOf(0))
	require.Equal(t, 3, c.ReferenceOf(1))
	require.Equal(t, 2, c.Count(bustype.Reference))
	require.Equal(t, "PV", bustype.PV.String())
	require.Equal(t, "Reference", bustype.Reference.String())

	types := c.Types()
	types[0] = bustype.Reference
	require.Equal(t, bustype.PQ, c.Type(0))
}

// TestClassify covers the reference preference order and PV detection.
func TestClassify(t *testing.T) {
	n := network.New()
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		_, err := n.AddBus(network.Bus{ID: id, BaseKV: 100, VM: 100})
		require.NoError(t, err)
	}
	// island 0: a-b-c ; island 1: d-e ; island 2: f
	for _, br := range [][2]int{{0, 1}, {1, 2}, {3, 4}} {
		_, err := n.AddBranch(network.Branch{From: br[0], To: br[1], X: 0.1, InService: true})
		require.NoError(t, err)
	}
	gens := []network.Generator{
		{ID: "g-b", Bus: 1, PS: 80, RegKV: true, VSet: 1.01, InService: true},
		{ID: "g-c", Bus: 2, PS: 120, RegKV: true, VSet: 1.02, InService: true},
		{ID: "g-d", Bus: 3, PS: 10, RegKV: false, InService: true},
		{ID: "g-f", Bus: 5, PS: 0, RegKV: true, InService: true},
	}
	for _, g := range gens {
		_, err := n.AddGenerator(g)
		require.NoError(t, err)
	}
	_, err := n.AddSVC(network.SVC{ID: "s-e", Bus: 4, RegKV: true, VSet: 1, InService: true})
	require.NoError(t, err)

	islands := n.Islands()
	hot := make([]bool, len(islands))
	for i, isl := range islands {
		hot[i] = n.Hot(isl)
	}
	require.Equal(t, []bool{true, true, false}, hot)

	c, err := bustype.Classify(n, hot)
	require.NoError(t, err)
	// largest scheduled PV generation wins without a Slack marker
	require.Equal(t, []bustype.Type{
		bustype.PQ, bustype.PV, bustype.Reference,
		bustype.PQ, bustype.Reference, // the SVC bus is the only PV candidate
		bustype.Reference,
	}, c.Types())

	n.Buses[0].Slack = true
	c, err = bustype.Classify(n, hot)
	require.NoError(t, err)
	require.Equal(t, bustype.Reference, c.Type(0))
	require.Equal(t, bustype.PV, c.Type(2))
}
