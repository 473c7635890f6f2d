// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/kelechidike/voteshare/alloc"
)

// Strategy name constants accepted by the allocate endpoint.
const (
	StrategyDeterministic = "deterministic"
	StrategyRandomized    = "randomized"
)

// Domain types

type PollingUnit struct {
	ID                 string    `json:"id"`
	SNo                int       `json:"sno"`
	State              string    `json:"state"`
	LGA                string    `json:"lga"`
	RA                 string    `json:"ra"`
	Delim              string    `json:"delim"`
	RegisterCode2023   string    `json:"register_code_2023"`
	RegisteredVoters   int       `json:"registered_voters"`
	PVCCollected       int       `json:"pvc_collected"`
	BalanceUncollected int       `json:"balance_uncollected"`
	BaseVotes          int       `json:"base_votes"`
	CreatedAt          time.Time `json:"created_at"`
}

type WeightSet struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Weights     alloc.Weights `json:"weights"`
	CreatedAt   time.Time     `json:"created_at"`
}

type AllocationResult struct {
	ID          string              `json:"id"`
	WeightSetID string              `json:"weight_set_id"`
	UnitID      string              `json:"unit_id"`
	Votes       map[alloc.Party]int `json:"votes"`
	TotalVotes  int                 `json:"total_votes"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ImportSession records how the most recent import resolved the vote-count
// column, so exports can label the base column without re-detecting.
type ImportSession struct {
	ID            string    `json:"id"`
	DetectedField string    `json:"detected_field"`
	SourceNote    string    `json:"source_note"`
	UnitCount     int       `json:"unit_count"`
	ErrorCount    int       `json:"error_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Response types

type ImportResponse struct {
	CreatedCount   int    `json:"created_count"`
	ErrorCount     int    `json:"error_count"`
	DetectedField  string `json:"detected_field"`
	FieldOverride  bool   `json:"field_override"`
	ValidationOK   bool   `json:"validation_ok"`
	ValidationNote string `json:"validation_note"`
	Message        string `json:"message"`
}

type UnitsPage struct {
	Units      []PollingUnit `json:"units"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	TotalCount int           `json:"total_count"`
}

type CreateWeightSetResponse struct {
	WeightSet   WeightSet `json:"weight_set"`
	ResultCount int       `json:"result_count"`
	Warning     string    `json:"warning,omitempty"`
}

type ValidateWeightsResponse struct {
	Total   float64 `json:"total"`
	IsValid bool    `json:"is_valid"`
}

type AllocateResponse struct {
	WeightSetID string `json:"weight_set_id"`
	Strategy    string `json:"strategy"`
	ResultCount int    `json:"result_count"`
	Warning     string `json:"warning,omitempty"`
}

// ResultRow is one unit's outcome under a weight set, with the uncast
// shortfall precomputed.
type ResultRow struct {
	Unit         PollingUnit         `json:"unit"`
	Votes        map[alloc.Party]int `json:"votes"`
	TotalVotes   int                 `json:"total_votes"`
	InvalidVotes int                 `json:"invalid_votes"`
}

type ResultsSummary struct {
	Units        int                     `json:"units"`
	PartyTotals  map[alloc.Party]int     `json:"party_totals"`
	GrandTotal   int                     `json:"grand_total"`
	Achieved     map[alloc.Party]float64 `json:"achieved_percentages"`
	InvalidVotes int                     `json:"invalid_votes"`
}

type ResultsResponse struct {
	WeightSet  WeightSet      `json:"weight_set"`
	Summary    ResultsSummary `json:"summary"`
	Rows       []ResultRow    `json:"rows"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalCount int            `json:"total_count"`
}

type DashboardResponse struct {
	TotalUnits      int            `json:"total_units"`
	TotalWeightSets int            `json:"total_weight_sets"`
	TotalBaseVotes  int            `json:"total_base_votes"`
	AverageBase     float64        `json:"average_base_votes"`
	TotalBaseLabel  string         `json:"total_base_label"`
	RecentSets      []WeightSet    `json:"recent_weight_sets"`
	LastImport      *ImportSession `json:"last_import,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
