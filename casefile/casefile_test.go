// SPDX-License-Identifier: MIT

package casefile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/gridflow/casefile"
	"github.com/katalvlaran/gridflow/network"
	"github.com/katalvlaran/gridflow/pflow"
	"github.com/stretchr/testify/require"
)

// TestLoad_FormatsAgree decodes the same case from TOML and YAML.
func TestLoad_FormatsAgree(t *testing.T) {
	tc, err := casefile.Load(filepath.Join("testdata", "three_bus.toml"))
	require.NoError(t, err)
	yc, err := casefile.Load(filepath.Join("testdata", "three_bus.yaml"))
	require.NoError(t, err)
	require.Equal(t, tc, yc)

	require.Equal(t, "three bus", tc.Name)
	require.Equal(t, casefile.Solver{MaxIterations: 20, Tolerance: 0.001, SBase: 100}, tc.Solver)

	n := tc.Network
	require.Len(t, n.Buses, 3)
	require.Equal(t, 230.0, n.Buses[1].VM, "vm defaults to base_kv")
	require.True(t, n.Buses[0].Slack)

	require.Len(t, n.Branches, 3)
	require.Equal(t, 1, n.Branches[1].From)
	require.Equal(t, 2, n.Branches[1].To)
	require.True(t, n.Branches[0].InService)
	require.False(t, n.Branches[2].InService)

	require.Equal(t, network.Generator{
		ID: "G2", Bus: 1, PS: 50, QMin: -100, QMax: 100, RegKV: true, VSet: 1.02, InService: true,
	}, n.Generators[1])
	require.Equal(t, network.Load{ID: "D3", Bus: 2, P: 100, Q: 30, InService: true}, n.Loads[0])
	require.Equal(t, 10.0, n.Shunts[0].B)
}

// TestLoad_Solves runs the decoded case end to end.
func TestLoad_Solves(t *testing.T) {
	c, err := casefile.Load(filepath.Join("testdata", "three_bus.toml"))
	require.NoError(t, err)

	s, err := pflow.New(c.Network, c.Solver.Options()...)
	require.NoError(t, err)
	res, err := s.Run()
	require.NoError(t, err)
	require.True(t, res.Converged)
}

// TestLoad_NameFromPath falls back to the file stem.
func TestLoad_NameFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeder.yml")
	require.NoError(t, os.WriteFile(path, []byte("bus:\n  - {id: A, base_kv: 11}\n"), 0o600))
	c, err := casefile.Load(path)
	require.NoError(t, err)
	require.Equal(t, "feeder", c.Name)
	require.Empty(t, c.Solver.Options())
}

// TestDecode_Errors covers format and model failures.
func TestDecode_Errors(t *testing.T) {
	_, err := casefile.FormatOf("case.json")
	require.ErrorIs(t, err, casefile.ErrFormat)
	_, err = casefile.Load("case.json")
	require.ErrorIs(t, err, casefile.ErrFormat)
	_, err = casefile.Decode(strings.NewReader(""), casefile.Format(9))
	require.ErrorIs(t, err, casefile.ErrFormat)

	cases := []struct {
		name string
		doc  string
	}{
		{"unknown branch end", "[[bus]]\nid = \"A\"\n[[branch]]\nid = \"L\"\nfrom = \"A\"\nto = \"Z\"\nx = 0.1\n"},
		{"unknown generator bus", "[[bus]]\nid = \"A\"\n[[generator]]\nid = \"G\"\nbus = \"Q\"\n"},
		{"duplicate bus", "[[bus]]\nid = \"A\"\n[[bus]]\nid = \"A\"\n"},
		{"inverted limits", "[[bus]]\nid = \"A\"\n[[svc]]\nid = \"S\"\nbus = \"A\"\nqmin = 5\nqmax = -5\n"},
		{"no buses", "name = \"empty\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := casefile.Decode(strings.NewReader(tc.doc), casefile.TOML)
			require.ErrorIs(t, err, network.ErrModel)
		})
	}

	_, err = casefile.Decode(strings.NewReader("[[bus]\n"), casefile.TOML)
	require.ErrorContains(t, err, "casefile: toml")
	_, err = casefile.Decode(strings.NewReader("bus: [\n"), casefile.YAML)
	require.ErrorContains(t, err, "casefile: yaml")
}
