// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var threeBus = filepath.Join("..", "..", "..", "casefile", "testdata", "three_bus.toml")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSolve_PrintsResults(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "detail.csv")
	pngPath := filepath.Join(dir, "conv.png")

	out, err := execute(t, "solve", threeBus, "--summary", "--detail", csvPath, "--chart", pngPath)
	require.NoError(t, err)
	require.Contains(t, out, "three bus")
	require.Contains(t, out, "island 0: converged")
	require.Contains(t, out, "G2")
	require.Contains(t, out, "Reference")
	require.Contains(t, out, "Q MVAr")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "p_mismatch_mw")
	info, err := os.Stat(pngPath)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestSolve_IterationCap(t *testing.T) {
	_, err := execute(t, "solve", threeBus, "--max-iterations", "1", "--tolerance", "1e-9",
		"--summary=false", "--detail", "", "--chart", "")
	require.ErrorIs(t, err, ErrNotConverged)
}

func TestSolve_BadFlags(t *testing.T) {
	_, err := execute(t, "solve", threeBus, "--tolerance", "-1", "--max-iterations", "40",
		"--summary=false", "--detail", "", "--chart", "")
	require.Error(t, err)

	_, err = execute(t, "--log-format", "xml", "version")
	require.ErrorContains(t, err, "log format")
	_, err = execute(t, "--log-format", "text", "--log-level", "loud", "version")
	require.ErrorContains(t, err, "log level")
}

func TestCheck_ListsIslands(t *testing.T) {
	out, err := execute(t, "--log-level", "warn", "check", threeBus)
	require.NoError(t, err)
	require.Contains(t, out, "island 0: energized, 3 buses, 2 generators, reference N1")
	require.Contains(t, out, "ok")

	_, err = execute(t, "check", "missing.toml")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--log-format", "json", "version")
	require.NoError(t, err)
	require.Equal(t, "gridflow dev\n", out)
}
