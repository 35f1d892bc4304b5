// SPDX-License-Identifier: MIT

package elimination_test

import (
	"testing"

	"github.com/katalvlaran/gridflow/elimination"
	"github.com/stretchr/testify/require"
)

// edgeList is a minimal elimination.Graph.
type edgeList struct {
	n     int
	pairs [][2]int
}

func (g edgeList) BusCount() int         { return g.n }
func (g edgeList) BranchCount() int      { return len(g.pairs) }
func (g edgeList) Ends(s int) (int, int) { return g.pairs[s][0], g.pairs[s][1] }

func order(p *elimination.Pattern) []int {
	var out []int
	for _, st := range p.Steps() {
		out = append(out, st.Bus)
	}
	return out
}

// TestBuild_Chain eliminates a radial feeder from its tail without fill-in.
//
//	0 — 1 — 2 — 3
func TestBuild_Chain(t *testing.T) {
	g := edgeList{n: 4, pairs: [][2]int{{0, 1}, {1, 2}, {2, 3}}}
	p, err := elimination.Build(g, []int{0})
	require.NoError(t, err)

	require.Equal(t, []int{3, 2, 1}, order(p))
	require.Zero(t, p.FillInCount())
	require.Equal(t, 3, p.SlotCount())
	require.Equal(t, []int{0}, p.Retained())
	require.False(t, p.IsEliminated(0))
	require.True(t, p.IsEliminated(3))

	st := p.Steps()[0]
	require.Equal(t, []int{2}, st.Neighbors)
	require.Equal(t, []int{2}, st.Branches)
	require.Empty(t, st.Mutual)
}

// TestBuild_RingFillIn checks fill-in creation and the lowest-index tie break.
//
//	0 — 1
//	|   |
//	3 — 2
func TestBuild_RingFillIn(t *testing.T) {
	g := edgeList{n: 4, pairs: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}}
	p, err := elimination.Build(g, []int{0})
	require.NoError(t, err)

	require.Equal(t, []int{1, 2, 3}, order(p))
	require.Equal(t, 1, p.FillInCount())
	require.Equal(t, 5, p.SlotCount())

	first := p.Steps()[0]
	require.Equal(t, []int{0, 2}, first.Neighbors)
	require.Equal(t, []int{0, 1}, first.Branches)
	require.Equal(t, []int{4}, first.FillIn)
	require.Equal(t, 4, first.MutualSlot(0, 1))
	a, b := p.Ends(4)
	require.Equal(t, [2]int{0, 2}, [2]int{a, b})

	// bus 2 then sees 0 (via the fill-in) and 3 (original slot 2–3)
	second := p.Steps()[1]
	require.Equal(t, []int{0, 3}, second.Neighbors)
	require.Equal(t, []int{4, 2}, second.Branches)
	require.Equal(t, []int{3}, second.Mutual)
	require.Empty(t, second.FillIn)
}

// TestBuild_Properties verifies the structural guarantees on a meshed graph
// with two retained buses.
func TestBuild_Properties(t *testing.T) {
	g := edgeList{n: 8, pairs: [][2]int{
		{0, 1}, {0, 2}, {1, 2}, {1, 3}, {2, 4}, {3, 4},
		{3, 5}, {4, 6}, {5, 6}, {5, 7}, {6, 7}, {2, 7},
	}}
	retained := []int{6, 0, 6}
	p, err := elimination.Build(g, retained)
	require.NoError(t, err)
	require.Equal(t, []int{0, 6}, p.Retained())

	seen := map[int]int{}
	for _, st := range p.Steps() {
		seen[st.Bus]++
		require.NotContains(t, []int{0, 6}, st.Bus)

		d := st.Degree()
		require.Len(t, st.Branches, d)
		require.Len(t, st.Mutual, d*(d-1)/2)

		for i, nb := range st.Neighbors {
			lo, hi := p.Ends(st.Branches[i])
			require.ElementsMatch(t, []int{st.Bus, nb}, []int{lo, hi})
		}
		slots := map[int]bool{}
		for i := 0; i < d; i++ {
			for j := i + 1; j < d; j++ {
				s := st.MutualSlot(i, j)
				require.False(t, slots[s], "slot %d repeated in step of bus %d", s, st.Bus)
				slots[s] = true
				lo, hi := p.Ends(s)
				require.ElementsMatch(t, []int{st.Neighbors[i], st.Neighbors[j]}, []int{lo, hi})
				require.Equal(t, s, st.MutualSlot(j, i))
			}
		}
		for _, f := range st.FillIn {
			require.GreaterOrEqual(t, f, p.BranchCount())
		}
	}
	require.Len(t, seen, 6)
	for bus, n := range seen {
		require.Equal(t, 1, n, "bus %d", bus)
	}
	require.Equal(t, p.BranchCount()+p.FillInCount(), p.SlotCount())
}

// TestBuild_Errors covers every sentinel.
func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name     string
		g        edgeList
		retained []int
		want     error
	}{
		{"island without retained bus", edgeList{n: 3, pairs: [][2]int{{0, 1}}}, []int{0}, elimination.ErrDisconnected},
		{"empty retained", edgeList{n: 2, pairs: [][2]int{{0, 1}}}, nil, elimination.ErrNoRetained},
		{"endpoint out of range", edgeList{n: 2, pairs: [][2]int{{0, 2}}}, []int{0}, elimination.ErrBusIndex},
		{"retained out of range", edgeList{n: 2, pairs: [][2]int{{0, 1}}}, []int{5}, elimination.ErrBusIndex},
		{"self loop", edgeList{n: 2, pairs: [][2]int{{1, 1}}}, []int{0}, elimination.ErrBadSlot},
		{"duplicate pair", edgeList{n: 2, pairs: [][2]int{{0, 1}, {1, 0}}}, []int{0}, elimination.ErrBadSlot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := elimination.Build(tc.g, tc.retained)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// TestBuild_ErrorText names slots with plain ASCII bus pairs.
func TestBuild_ErrorText(t *testing.T) {
	_, err := elimination.Build(edgeList{n: 2, pairs: [][2]int{{0, 1}, {1, 0}}}, []int{0})
	require.EqualError(t, err, "slot 1 repeats pair 0-1: elimination: invalid branch slot")

	_, err = elimination.Build(edgeList{n: 2, pairs: [][2]int{{0, 3}}}, []int{0})
	require.EqualError(t, err, "slot 0 (0-3): elimination: bus index out of range")
}

// TestBuild_AllRetained yields an empty pattern.
func TestBuild_AllRetained(t *testing.T) {
	p, err := elimination.Build(edgeList{n: 2, pairs: [][2]int{{0, 1}}}, []int{0, 1})
	require.NoError(t, err)
	require.Empty(t, p.Steps())
	require.Zero(t, p.FillInCount())
}
