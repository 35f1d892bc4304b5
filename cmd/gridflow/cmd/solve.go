// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/katalvlaran/gridflow/bustype"
	"github.com/katalvlaran/gridflow/casefile"
	"github.com/katalvlaran/gridflow/mismatch"
	"github.com/katalvlaran/gridflow/network"
	"github.com/katalvlaran/gridflow/pflow"
	"github.com/katalvlaran/gridflow/report"
	"github.com/spf13/cobra"
)

// ErrNotConverged makes solve exit non-zero when a hot island did not converge.
var ErrNotConverged = errors.New("gridflow: power flow did not converge")

var solveFlags struct {
	maxIterations int
	tolerance     float64
	sbase         float64
	summary       bool
	detail        string
	chart         string
}

var solveCmd = &cobra.Command{
	Use:   "solve <case>",
	Short: "Run the power flow on a case file",
	Long: `Loads a TOML or YAML case, runs the fast-decoupled power flow and
prints island convergence, bus voltages and generator dispatch.

Flags override the [solver] section of the case.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.IntVar(&solveFlags.maxIterations, "max-iterations", pflow.DefaultMaxIterations, "iteration cap")
	f.Float64Var(&solveFlags.tolerance, "tolerance", pflow.DefaultTolerance, "mismatch tolerance, p.u.")
	f.Float64Var(&solveFlags.sbase, "sbase", 100, "system base, MVA")
	f.BoolVar(&solveFlags.summary, "summary", false, "print the per-iteration mismatch table")
	f.StringVar(&solveFlags.detail, "detail", "", "write final per-bus mismatches to this CSV file")
	f.StringVar(&solveFlags.chart, "chart", "", "save a convergence chart (.png, .svg)")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) (err error) {
	c, err := casefile.Load(args[0])
	if err != nil {
		return err
	}
	runID := uuid.New()
	log := logger.With("run", runID.String(), "case", c.Name)
	out := cmd.OutOrStdout()

	opts := c.Solver.Options()
	fl := cmd.Flags()
	if fl.Changed("max-iterations") {
		opts = append(opts, pflow.WithMaxIterations(solveFlags.maxIterations))
	}
	if fl.Changed("tolerance") {
		opts = append(opts, pflow.WithTolerance(solveFlags.tolerance))
	}
	if fl.Changed("sbase") {
		opts = append(opts, pflow.WithSBase(solveFlags.sbase))
	}
	opts = append(opts, pflow.WithLogger(log))

	if solveFlags.summary {
		opts = append(opts, pflow.WithReporter(report.NewSummary(out)))
	}
	if solveFlags.detail != "" {
		f, cerr := os.Create(solveFlags.detail)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		opts = append(opts, pflow.WithReporter(report.NewDetail(f)))
	}
	if solveFlags.chart != "" {
		opts = append(opts, pflow.WithReporter(report.NewChart(solveFlags.chart)))
	}

	s, err := pflow.New(c.Network, opts...)
	if err != nil {
		return err
	}
	res, err := s.Run()
	if err != nil {
		return err
	}
	if err = s.UpdateResults(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s\n", titleStyle.Render(c.Name), dimStyle.Render("run "+runID.String()))
	printIslands(out, res.Islands)
	printBuses(out, c.Network, s.Types())
	printGenerators(out, c.Network)

	if !res.Converged {
		return ErrNotConverged
	}
	return nil
}

func printIslands(w io.Writer, st []mismatch.Status) {
	for _, s := range st {
		style := okStyle
		switch {
		case !s.Hot:
			style = dimStyle
		case !s.Converged():
			style = failStyle
		}
		fmt.Fprintln(w, style.Render(s.String()))
	}
}

func printBuses(w io.Writer, n *network.Network, types []bustype.Type) {
	rows := make([][]string, len(n.Buses))
	for i := range n.Buses {
		b := &n.Buses[i]
		rows[i] = []string{
			b.ID, types[i].String(), strconv.Itoa(b.Island),
			strconv.FormatFloat(b.VM, 'f', 3, 64),
			strconv.FormatFloat(b.VA, 'f', 3, 64),
		}
	}
	fmt.Fprintln(w, render([]string{"bus", "type", "island", "VM kV", "VA deg"}, rows))
}

func printGenerators(w io.Writer, n *network.Network) {
	if len(n.Generators)+len(n.SVCs) == 0 {
		return
	}
	var rows [][]string
	for i := range n.Generators {
		g := &n.Generators[i]
		rows = append(rows, []string{
			g.ID, "generator", n.Buses[g.Bus].ID,
			strconv.FormatFloat(g.P, 'f', 2, 64),
			strconv.FormatFloat(g.Q, 'f', 2, 64),
		})
	}
	for i := range n.SVCs {
		sv := &n.SVCs[i]
		rows = append(rows, []string{
			sv.ID, "svc", n.Buses[sv.Bus].ID, "-",
			strconv.FormatFloat(sv.Q, 'f', 2, 64),
		})
	}
	fmt.Fprintln(w, render([]string{"unit", "kind", "bus", "P MW", "Q MVAr"}, rows))
}

func render(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headStyle
			}
			return cellStyle
		}).
		Render()
}
