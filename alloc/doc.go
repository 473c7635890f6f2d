// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package alloc holds the vote-distribution core: column detection, column
validation, the two allocation strategies and the cross-unit aggregator.

Everything here is pure, synchronous computation over in-memory values; the
package does no I/O and knows nothing about HTTP or the database.

# Detection

DetectVoteField inspects uploaded column names and picks the one supplying
the vote-count base, in three tiers: exact canonical names, vote-keyword
substrings, then a counting-term heuristic over non-identity columns.
ValidateVoteField then checks the chosen column's cells parse as
non-negative numbers. Both are advisory: the upload flow decides what to do
on a miss.

# Allocation

Two interchangeable Strategy implementations:

  - Deterministic: floor(base * weight / 100) per party. The truncation
    shortfall is deliberate and surfaces as invalid votes.
  - Randomized: turnout factor in [0.75, 0.95], ±10% per-party jitter,
    difference reconciled onto the leading party, zero-clamped.

Callers choose the strategy explicitly and pass the matching base quantity
(the detected field for Deterministic, PVC collected for Randomized).

# Aggregation

Aggregate sums a result batch into per-party totals, achieved percentages
and the invalid-vote figure. A batch with no votes reports 0% everywhere.

# Parties

The Parties slice is the single ordered enumeration of the twenty party
codes. Weight forms, result payloads, export columns and the Randomized
tie-break all derive their order from it.
*/
package alloc
