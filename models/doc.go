// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain rows and the JSON request/response types
shared by handlers, exports and tests.

# Domain Types

  - PollingUnit: one polling location from the most recent import, with its
    detected base vote count
  - WeightSet: a named, immutable set of per-party percentage weights
  - AllocationResult: one (unit, weight set) outcome; at most one row per
    pair, enforced by a database unique constraint
  - ImportSession: which column fed base_votes and how the import went

# Conventions

All rows carry TEXT uuid primary keys. Per-party maps marshal with the party
code as the JSON key. Fields never exposed to clients carry the `json:"-"`
tag; everything else is snake_case.
*/
package models
