// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package alloc

// UnitResult pairs one unit's allocation with the base it was computed from.
type UnitResult struct {
	BaseVotes int
	Votes     map[Party]int
	Total     int
}

// Summary aggregates a result batch across units.
type Summary struct {
	Units        int
	PartyTotals  map[Party]int
	GrandTotal   int
	Achieved     map[Party]float64
	InvalidVotes int
}

// InvalidVotes is the uncast shortfall for one unit. Never negative, even
// when a Randomized reconciliation overshoots the base.
func InvalidVotes(baseVotes, totalVotes int) int {
	if d := baseVotes - totalVotes; d > 0 {
		return d
	}
	return 0
}

// Aggregate sums per-party votes across units and derives each party's
// achieved percentage of the grand total. A zero grand total divides by 1
// instead, so every achieved percentage reads 0 rather than failing.
func Aggregate(rows []UnitResult) Summary {
	s := Summary{
		Units:       len(rows),
		PartyTotals: make(map[Party]int, len(Parties)),
		Achieved:    make(map[Party]float64, len(Parties)),
	}
	for _, r := range rows {
		for _, p := range Parties {
			s.PartyTotals[p] += r.Votes[p]
		}
		s.GrandTotal += r.Total
		s.InvalidVotes += InvalidVotes(r.BaseVotes, r.Total)
	}

	denom := s.GrandTotal
	if denom == 0 {
		denom = 1
	}
	for _, p := range Parties {
		s.Achieved[p] = float64(s.PartyTotals[p]) / float64(denom) * 100.0
	}
	return s
}
