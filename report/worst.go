// SPDX-License-Identifier: MIT

package report

import (
	"math"

	"github.com/katalvlaran/gridflow/bustype"
	"github.com/katalvlaran/gridflow/pflow"
)

// worst returns the largest |P| over PV and PQ buses and the largest |Q|
// over PQ buses of rec, with their bus indices (-1 if none).
func worst(rec pflow.Record) (pb int, p float64, qb int, q float64) {
	pb, qb = -1, -1
	for b, t := range rec.Types {
		if t == bustype.Reference {
			continue
		}
		if pb == -1 || math.Abs(rec.P[b]) > math.Abs(p) {
			pb, p = b, rec.P[b]
		}
		if t == bustype.PQ && (qb == -1 || math.Abs(rec.Q[b]) > math.Abs(q)) {
			qb, q = b, rec.Q[b]
		}
	}
	return pb, p, qb, q
}
