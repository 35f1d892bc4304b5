// SPDX-License-Identifier: MIT

package mismatch_test

import (
	"testing"

	"github.com/katalvlaran/gridflow/bustype"
	"github.com/katalvlaran/gridflow/mismatch"
	"github.com/katalvlaran/gridflow/network"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestVector(t *testing.T) {
	v := mismatch.NewVector(4, []int{1, 3})
	v.Add(0, 5)
	v.Add(1, -2)
	v.Add(3, 0.5)
	v.Add(3, 0.5)

	require.Equal(t, []float64{5, -2, 0, 1}, v.Values())
	require.Equal(t, []float64{0, -2, 0, 1}, v.Masked(nil))

	bus, worst := v.MaxAbs([]int{0, 1, 2, 3})
	require.Equal(t, 1, bus)
	require.Equal(t, -2.0, worst)

	bus, worst = v.MaxAbs([]int{0, 2})
	require.Equal(t, -1, bus)
	require.Zero(t, worst)

	v.SetActive(1, false)
	dst := make([]float64, 4)
	v.Masked(dst)
	require.Equal(t, 1.0, floats.Sum(dst))

	v.Reset()
	require.Zero(t, floats.Norm(v.Values(), 2))
	require.True(t, v.Active(3))
	require.Equal(t, 4, v.Len())
}

// TestTracker exercises two hot islands and one cold island.
//
//	island 0: bus 0 Reference, bus 1 PV, bus 2 PQ
//	island 1: bus 3 Reference, bus 4 PQ
//	island 2: bus 5 Reference (cold)
func TestTracker(t *testing.T) {
	cls, err := bustype.New(
		[]bustype.Type{bustype.Reference, bustype.PV, bustype.PQ, bustype.Reference, bustype.PQ, bustype.Reference},
		[]int{0, 0, 0, 1, 1, 2}, 3)
	require.NoError(t, err)
	islands := []network.Island{
		{Index: 0, Buses: []int{0, 1, 2}},
		{Index: 1, Buses: []int{3, 4}},
		{Index: 2, Buses: []int{5}},
	}
	p := mismatch.NewVector(6, []int{1, 2, 4})
	q := mismatch.NewVector(6, []int{2, 4})
	tr := mismatch.NewTracker(islands, []bool{true, true, false}, cls, p, q, 0.01, 0.01)

	// reference and cold buses never count; PV reactive mismatch is ignored
	p.Add(0, 100)
	p.Add(5, 100)
	q.Add(1, 100)
	p.Add(1, 0.001)
	q.Add(2, -0.002)
	p.Add(4, 0.5)
	require.False(t, tr.Test())

	res := tr.Results()
	require.True(t, res[0].Converged())
	require.Equal(t, 2, res[0].WorstQBus)
	require.InDelta(t, -0.002, res[0].WorstQ, 1e-15)
	require.False(t, res[1].PConverged)
	require.True(t, res[1].QConverged)
	require.Equal(t, 4, res[1].WorstPBus)
	require.True(t, res[2].Converged())
	require.Zero(t, res[2].Iterations)
	require.Contains(t, res[2].String(), "de-energized")
	require.Contains(t, res[1].String(), "not converged")

	// converting the PV bus makes its reactive mismatch visible
	_, err = cls.ToPQ(1)
	require.NoError(t, err)
	p.Reset()
	q.Reset()
	q.Add(1, 0.3)
	require.False(t, tr.Test())
	require.False(t, tr.Converged(0))
	require.Equal(t, 1, tr.Results()[0].WorstQBus)
	require.True(t, tr.Converged(1))

	q.Reset()
	require.True(t, tr.Test())
	require.Equal(t, 3, tr.Results()[0].Iterations)
	require.True(t, tr.Hot(0))
	require.False(t, tr.Hot(2))
}
