// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - polling_unit: one row per polling location; an import replaces the set
  - weight_set: named per-party percentage weights (JSONB payload)
  - allocation_result: one computed outcome per (weight set, unit) pair
  - import_session: detection metadata for the most recent import

# Relationships

	weight_set 1──* allocation_result
	polling_unit 1──* allocation_result

Foreign keys use ON DELETE CASCADE; UNIQUE (weight_set_id, unit_id) enforces
the one-result-per-pair invariant. Allocation runs clear and rebuild a weight
set's results inside a single transaction so a failed run never leaves a
partial batch visible.
*/
package db
