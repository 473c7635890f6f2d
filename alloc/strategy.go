// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package alloc

import (
	"math"
	"math/rand"
)

// Allocation is the computed per-party split for a single polling unit.
// Total is the sum of the per-party values by construction.
type Allocation struct {
	Votes map[Party]int
	Total int
}

// Strategy converts one unit's base vote count into integer per-party votes.
// Implementations must be pure with respect to their inputs; Randomized owns
// its rand source so runs are reproducible under a fixed seed.
type Strategy interface {
	Name() string
	Allocate(baseVotes int, weights Weights) Allocation
}

// Deterministic floors each party's proportional share of the base count.
// Truncation means Total <= baseVotes when the weights sum to 100; the
// shortfall is reported downstream as invalid votes, never rebalanced.
type Deterministic struct{}

func (Deterministic) Name() string { return "deterministic" }

func (Deterministic) Allocate(baseVotes int, weights Weights) Allocation {
	votes := make(map[Party]int, len(Parties))
	total := 0
	for _, p := range Parties {
		v := int(float64(baseVotes) * weights[p] / 100.0)
		votes[p] = v
		total += v
	}
	return Allocation{Votes: votes, Total: total}
}

// Turnout and jitter bounds for the Randomized strategy.
const (
	turnoutMin  = 0.75
	turnoutMax  = 0.95
	jitterRange = 0.10
)

// Randomized scales the base by a uniform turnout factor, jitters each
// party's target by up to ±10%, then reconciles the rounded sum back to the
// turnout-adjusted count by adjusting the current leader. Callers pass the
// PVC-collected count as the base for this strategy.
type Randomized struct {
	Rand *rand.Rand
}

// NewRandomized returns a Randomized strategy over a seeded source.
func NewRandomized(seed int64) *Randomized {
	return &Randomized{Rand: rand.New(rand.NewSource(seed))}
}

func (*Randomized) Name() string { return "randomized" }

func (s *Randomized) Allocate(baseVotes int, weights Weights) Allocation {
	turnout := turnoutMin + s.Rand.Float64()*(turnoutMax-turnoutMin)
	actual := int(float64(baseVotes) * turnout)

	votes := make(map[Party]int, len(Parties))
	sum := 0
	for _, p := range Parties {
		target := float64(actual) * weights[p] / 100.0
		if target == 0 {
			votes[p] = 0
			continue
		}
		jitter := -jitterRange + s.Rand.Float64()*2*jitterRange
		v := int(math.Round(target * (1 + jitter)))
		if v < 0 {
			v = 0
		}
		votes[p] = v
		sum += v
	}

	// The whole shortfall or excess lands on the current leader. Ties go to
	// whichever party appears first in Parties.
	if sum != actual {
		leader := Parties[0]
		for _, p := range Parties[1:] {
			if votes[p] > votes[leader] {
				leader = p
			}
		}
		votes[leader] += actual - sum
	}

	// Clamp after adjustment; a re-clamped leader can leave Total slightly
	// off from the turnout-adjusted count, which is accepted.
	total := 0
	for _, p := range Parties {
		if votes[p] < 0 {
			votes[p] = 0
		}
		total += votes[p]
	}
	return Allocation{Votes: votes, Total: total}
}
