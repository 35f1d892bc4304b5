// SPDX-License-Identifier: MIT

package report

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/katalvlaran/gridflow/network"
	"github.com/katalvlaran/gridflow/pflow"
)

// ErrNoRecord is returned by Detail.End when no record was received.
var ErrNoRecord = errors.New("report: no mismatch record")

var detailHeader = []string{"bus", "type", "vm_pu", "va_deg", "p_mismatch_mw", "q_mismatch_mvar"}

// Detail writes the final per-bus state and mismatch as CSV.
type Detail struct {
	w   *csv.Writer
	ids []string
	got bool
}

// NewDetail returns a Detail writing CSV to w.
func NewDetail(w io.Writer) *Detail { return &Detail{w: csv.NewWriter(w)} }

// Begin records the bus IDs and writes the CSV header.
func (d *Detail) Begin(buses []network.Bus) error {
	d.ids = make([]string, len(buses))
	for i := range buses {
		d.ids[i] = buses[i].ID
	}
	return d.w.Write(detailHeader)
}

// Report writes one CSV row per bus.
func (d *Detail) Report(rec pflow.Record) error {
	d.got = true
	for b, id := range d.ids {
		err := d.w.Write([]string{
			id,
			rec.Types[b].String(),
			strconv.FormatFloat(rec.VM[b], 'f', 5, 64),
			strconv.FormatFloat(rec.VA[b], 'f', 4, 64),
			strconv.FormatFloat(rec.P[b], 'f', 4, 64),
			strconv.FormatFloat(rec.Q[b], 'f', 4, 64),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// End flushes the CSV writer. It returns the first write error, or
// ErrNoRecord when Report was never called.
func (d *Detail) End() error {
	d.w.Flush()
	if err := d.w.Error(); err != nil {
		return err
	}
	if !d.got {
		return ErrNoRecord
	}
	return nil
}

// LastOnly is true: only the final iteration is written.
func (d *Detail) LastOnly() bool { return true }
