// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/katalvlaran/gridflow/bustype"
	"github.com/katalvlaran/gridflow/network"
	"github.com/katalvlaran/gridflow/pflow"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Summary renders the worst mismatch of every iteration as a table.
type Summary struct {
	w    io.Writer
	ids  []string
	rows [][]string
}

// NewSummary returns a Summary writing to w.
func NewSummary(w io.Writer) *Summary { return &Summary{w: w} }

// Begin records the bus IDs used to label the worst buses and drops rows of
// an earlier solve.
func (s *Summary) Begin(buses []network.Bus) error {
	s.ids = make([]string, len(buses))
	for i := range buses {
		s.ids[i] = buses[i].ID
	}
	s.rows = s.rows[:0]
	return nil
}

// Report adds one row: the worst active mismatch over PV and PQ buses, the
// worst reactive mismatch over PQ buses and the PV bus count.
func (s *Summary) Report(rec pflow.Record) error {
	pb, p, qb, q := worst(rec)
	var pv int
	for _, t := range rec.Types {
		if t == bustype.PV {
			pv++
		}
	}
	s.rows = append(s.rows, []string{
		strconv.Itoa(rec.Iteration),
		s.id(pb), strconv.FormatFloat(p, 'f', 3, 64),
		s.id(qb), strconv.FormatFloat(q, 'f', 3, 64),
		strconv.Itoa(pv),
	})
	return nil
}

// End renders the table to the writer.
func (s *Summary) End() error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("iter", "P bus", "P MW", "Q bus", "Q MVAr", "PV").
		Rows(s.rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(s.w, t.Render())
	return err
}

// LastOnly is false: Summary wants every iteration.
func (s *Summary) LastOnly() bool { return false }

func (s *Summary) id(bus int) string {
	if bus < 0 {
		return "-"
	}
	return s.ids[bus]
}
