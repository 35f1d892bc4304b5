// SPDX-License-Identifier: MIT

package acflow_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/gridflow/acflow"
	"github.com/katalvlaran/gridflow/network"
	"github.com/stretchr/testify/require"
)

// twoBus returns A–B joined by one branch, with a load and a shunt at B.
func twoBus(t *testing.T, r, x, b float64) *network.Network {
	t.Helper()
	n := network.New()
	for _, id := range []string{"A", "B"} {
		_, err := n.AddBus(network.Bus{ID: id, BaseKV: 138, VM: 138})
		require.NoError(t, err)
	}
	_, err := n.AddBranch(network.Branch{ID: "ab", From: 0, To: 1, R: r, X: x, B: b, InService: true})
	require.NoError(t, err)
	_, err = n.AddLoad(network.Load{ID: "l", Bus: 1, P: 50, Q: 20, InService: true})
	require.NoError(t, err)
	_, err = n.AddLoad(network.Load{ID: "off", Bus: 1, P: 999, Q: 999})
	require.NoError(t, err)
	_, err = n.AddShunt(network.Shunt{ID: "c", Bus: 1, G: 1, B: 10, InService: true})
	require.NoError(t, err)
	_, err = n.AddSVC(network.SVC{ID: "fixed", Bus: 0, QS: 5, InService: true})
	require.NoError(t, err)
	_, err = n.AddSVC(network.SVC{ID: "avr", Bus: 0, QS: 100, RegKV: true, InService: true})
	require.NoError(t, err)
	return n
}

func TestCalc_LosslessFlow(t *testing.T) {
	n := twoBus(t, 0, 0.1, 0)
	c, err := acflow.New(n, 100)
	require.NoError(t, err)

	const theta = 0.1
	require.NoError(t, c.Calc([]float64{1, 1}, []float64{0, -theta}))

	pf, qf, pt, qt := c.BranchFlow(0)
	require.InDelta(t, 10*math.Sin(theta), pf, 1e-12)
	require.InDelta(t, -pf, pt, 1e-12)
	require.InDelta(t, 10*(1-math.Cos(theta)), qf, 1e-12)
	require.InDelta(t, qf, qt, 1e-12)

	// bus B also carries the shunt: G·v² consumed, B·v² injected
	p, q := c.BusInjection(1)
	require.InDelta(t, pt+0.01, p, 1e-12)
	require.InDelta(t, qt-0.1, q, 1e-12)
}

func TestCalc_LossesAndCharging(t *testing.T) {
	n := twoBus(t, 0.02, 0.1, 0.04)
	c, err := acflow.New(n, 100)
	require.NoError(t, err)
	require.NoError(t, c.Calc([]float64{1.02, 0.98}, []float64{0.05, -0.02}))

	pf, qf, pt, qt := c.BranchFlow(0)
	require.Positive(t, pf+pt, "series resistance must dissipate")

	// flat voltage: only charging flows, −B/2 at each end
	require.NoError(t, c.Calc([]float64{1, 1}, []float64{0, 0}))
	pf, qf, pt, qt = c.BranchFlow(0)
	require.InDelta(t, 0, pf, 1e-15)
	require.InDelta(t, 0, pt, 1e-15)
	require.InDelta(t, -0.02, qf, 1e-15)
	require.InDelta(t, -0.02, qt, 1e-15)
}

func TestApplyMismatch(t *testing.T) {
	n := twoBus(t, 0, 0.1, 0)
	c, err := acflow.New(n, 100)
	require.NoError(t, err)
	require.NoError(t, c.Calc([]float64{1, 1}, []float64{0, 0}))

	p := make([]float64, 2)
	q := make([]float64, 2)
	c.ApplyMismatch(p, q)

	// no flow at flat start; only schedule and shunt remain
	require.InDelta(t, 0, p[0], 1e-15)
	require.InDelta(t, 0.05, q[0], 1e-15) // fixed SVC output only
	require.InDelta(t, -0.5-0.01, p[1], 1e-15)
	require.InDelta(t, -0.2+0.1, q[1], 1e-15)
}

func TestUpdateResults(t *testing.T) {
	n := twoBus(t, 0, 0.1, 0)
	c, err := acflow.New(n, 100)
	require.NoError(t, err)
	require.NoError(t, c.Calc([]float64{1, 1}, []float64{0.1, 0}))
	require.NoError(t, c.UpdateResults())

	require.InDelta(t, 1000*math.Sin(0.1), n.Branches[0].FromP, 1e-9)
	require.InDelta(t, -n.Branches[0].FromP, n.Branches[0].ToP, 1e-9)
}

func TestErrors(t *testing.T) {
	n := twoBus(t, 0, 0.1, 0)
	_, err := acflow.New(n, 0)
	require.ErrorIs(t, err, acflow.ErrBase)

	c, err := acflow.New(n, 100)
	require.NoError(t, err)
	require.ErrorIs(t, c.Calc([]float64{1}, []float64{0, 0}), acflow.ErrState)

	n.Branches = append(n.Branches, network.Branch{From: 0, To: 1})
	require.ErrorIs(t, c.UpdateResults(), network.ErrModel)
}
