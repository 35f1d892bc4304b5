// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gridflow/network"
	"github.com/katalvlaran/gridflow/pflow"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Chart plots |worst P| and |worst Q| against the iteration number and
// saves the figure when the solve ends. The image format follows the file
// extension (.png, .svg, .pdf, ...).
type Chart struct {
	path          string
	width, height vg.Length
	p, q          plotter.XYs
}

// NewChart returns a 6×4 inch chart saved to path.
func NewChart(path string) *Chart {
	return &Chart{path: path, width: 6 * vg.Inch, height: 4 * vg.Inch}
}

// Begin clears the series of an earlier solve.
func (c *Chart) Begin([]network.Bus) error {
	c.p, c.q = c.p[:0], c.q[:0]
	return nil
}

// Report appends the worst |P| and |Q| of the iteration.
func (c *Chart) Report(rec pflow.Record) error {
	_, p, _, q := worst(rec)
	x := float64(rec.Iteration)
	c.p = append(c.p, plotter.XY{X: x, Y: math.Abs(p)})
	c.q = append(c.q, plotter.XY{X: x, Y: math.Abs(q)})
	return nil
}

// End draws both series and saves the image. An empty chart is ErrNoRecord.
func (c *Chart) End() error {
	if len(c.p) == 0 {
		return ErrNoRecord
	}
	pl := plot.New()
	pl.Title.Text = "Power flow convergence"
	pl.X.Label.Text = "iteration"
	pl.Y.Label.Text = "worst mismatch (MW / MVAr)"
	pl.Add(plotter.NewGrid())
	if err := plotutil.AddLinePoints(pl, "P", c.p, "Q", c.q); err != nil {
		return fmt.Errorf("report: chart: %w", err)
	}
	if err := pl.Save(c.width, c.height, c.path); err != nil {
		return fmt.Errorf("report: chart: %w", err)
	}
	return nil
}

// LastOnly is false: the chart needs every iteration.
func (c *Chart) LastOnly() bool { return false }
