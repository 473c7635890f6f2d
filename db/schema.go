// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Polling units (replaced wholesale by each import)
CREATE TABLE IF NOT EXISTS polling_unit (
    id TEXT PRIMARY KEY,
    sno INTEGER NOT NULL,
    state TEXT NOT NULL,
    lga TEXT NOT NULL,
    ra TEXT NOT NULL,
    delim TEXT NOT NULL,
    register_code_2023 TEXT,
    registered_voters INTEGER NOT NULL DEFAULT 0,
    pvc_collected INTEGER NOT NULL DEFAULT 0,
    balance_uncollected INTEGER NOT NULL DEFAULT 0,
    base_votes INTEGER NOT NULL DEFAULT 0 CHECK (base_votes >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_polling_unit_sno ON polling_unit(sno);
CREATE INDEX IF NOT EXISTS idx_polling_unit_state ON polling_unit(state);

-- Weight sets (immutable once created)
CREATE TABLE IF NOT EXISTS weight_set (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    weights JSONB NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Allocation results, one row per (weight set, unit) pair
CREATE TABLE IF NOT EXISTS allocation_result (
    id TEXT PRIMARY KEY,
    weight_set_id TEXT NOT NULL REFERENCES weight_set(id) ON DELETE CASCADE,
    unit_id TEXT NOT NULL REFERENCES polling_unit(id) ON DELETE CASCADE,
    votes JSONB NOT NULL,
    total_votes INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (weight_set_id, unit_id)
);

CREATE INDEX IF NOT EXISTS idx_allocation_result_weight_set ON allocation_result(weight_set_id);
CREATE INDEX IF NOT EXISTS idx_allocation_result_unit ON allocation_result(unit_id);

-- Import sessions (which column fed base_votes, and how the batch went)
CREATE TABLE IF NOT EXISTS import_session (
    id TEXT PRIMARY KEY,
    detected_field TEXT NOT NULL,
    source_note TEXT,
    unit_count INTEGER NOT NULL DEFAULT 0,
    error_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_import_session_created ON import_session(created_at);
`
