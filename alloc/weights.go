// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package alloc

import "math"

// WeightSumTolerance is how far a weight set's total may drift from 100
// before it is flagged. Violations warn the caller but never block a run.
const WeightSumTolerance = 0.01

// Weights maps each party to its percentage share of the base vote count.
// Every known party has an entry; absent form fields default to 0.
type Weights map[Party]float64

// WeightsFromForm builds a weight set from flat "<code>_percentage" fields.
// Unknown fields are ignored and missing parties default to 0. No range
// check is applied here; an out-of-range weight propagates into an
// out-of-range vote count.
func WeightsFromForm(fields map[string]float64) Weights {
	w := make(Weights, len(Parties))
	for _, p := range Parties {
		w[p] = fields[p.FormKey()]
	}
	return w
}

// TotalPercentage sums all party weights.
func (w Weights) TotalPercentage() float64 {
	var total float64
	for _, p := range Parties {
		total += w[p]
	}
	return total
}

// IsValidAllocation reports whether the weights sum to 100 within tolerance.
func (w Weights) IsValidAllocation() bool {
	return math.Abs(w.TotalPercentage()-100.0) < WeightSumTolerance
}
