// SPDX-License-Identifier: MIT

// Package units converts between engineering quantities stored on the grid
// model (MW, MVAr, kV, degrees) and the per-unit/radian quantities used by the
// solver.
//
// Scalar helpers are generic over float32 and float64; slice helpers work on
// float64 and always allocate a fresh destination so the model arrays are
// never aliased by solver state.
package units

import (
	"math"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
)

// DefaultSBase is the system MVA base used when none is configured.
const DefaultSBase = 100.0

// MVAToPU converts a power quantity (MW, MVAr or MVA) to per-unit on sbase.
func MVAToPU[T constraints.Float](v, sbase T) T { return v / sbase }

// PUToMVA converts a per-unit power quantity back to MW/MVAr/MVA.
func PUToMVA[T constraints.Float](v, sbase T) T { return v * sbase }

// KVToPU converts a voltage magnitude in kV to per-unit of the nominal kV.
// A non-positive nominal voltage yields 1 (flat start).
func KVToPU[T constraints.Float](kv, basekv T) T {
	if basekv <= 0 {
		return 1
	}
	return kv / basekv
}

// DegToRad converts degrees to radians.
func DegToRad[T constraints.Float](deg T) T { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg[T constraints.Float](rad T) T { return rad * 180 / math.Pi }

// MVASliceToPU returns a new slice holding v scaled to per-unit.
func MVASliceToPU(v []float64, sbase float64) []float64 {
	return floats.ScaleTo(make([]float64, len(v)), 1/sbase, v)
}

// PUSliceToMVA returns a new slice holding v scaled to MW/MVAr.
func PUSliceToMVA(v []float64, sbase float64) []float64 {
	return floats.ScaleTo(make([]float64, len(v)), sbase, v)
}

// RadSliceToDeg returns a new slice holding v converted to degrees.
func RadSliceToDeg(v []float64) []float64 {
	return floats.ScaleTo(make([]float64, len(v)), 180/math.Pi, v)
}

// DegSliceToRad returns a new slice holding v converted to radians.
func DegSliceToRad(v []float64) []float64 {
	return floats.ScaleTo(make([]float64, len(v)), math.Pi/180, v)
}
