// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/kelechidike/voteshare/alloc"
	"github.com/kelechidike/voteshare/cliparse"
	"github.com/kelechidike/voteshare/middleware"
	"github.com/kelechidike/voteshare/models"
)

const resultsPageSize = 50

// allocMu serializes allocation runs so two re-runs on the same weight set
// cannot interleave their delete-and-insert transactions.
var allocMu sync.Mutex

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// loadWeightSet fetches one weight set by ID. Returns sql.ErrNoRows when
// the ID is unknown.
func loadWeightSet(db *sql.DB, id string) (models.WeightSet, error) {
	row := db.QueryRow(`
		SELECT id, name, COALESCE(description, ''), weights, created_at
		FROM weight_set
		WHERE id = $1
	`, id)
	return scanWeightSet(row)
}

// runAllocation recomputes every unit's result for the weight set inside
// the caller's transaction: existing results are cleared, each unit is fed
// through the strategy, and the new rows are bulk-inserted. The randomized
// strategy draws from the PVC-collected count; the deterministic one from
// the stored base votes.
func runAllocation(tx *sql.Tx, ws models.WeightSet, strategy alloc.Strategy) (int, error) {
	if _, err := tx.Exec("DELETE FROM allocation_result WHERE weight_set_id = $1", ws.ID); err != nil {
		return 0, fmt.Errorf("failed to clear results: %w", err)
	}

	rows, err := tx.Query(`
		SELECT id, base_votes, pvc_collected
		FROM polling_unit
		ORDER BY sno
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	type unitInput struct {
		id   string
		base int
	}
	units := []unitInput{}
	for rows.Next() {
		var id string
		var base, pvc int
		if err := rows.Scan(&id, &base, &pvc); err != nil {
			return 0, fmt.Errorf("failed to scan unit: %w", err)
		}
		if strategy.Name() == models.StrategyRandomized {
			base = pvc
		}
		units = append(units, unitInput{id: id, base: base})
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read units: %w", err)
	}

	now := time.Now()
	insert := sq.Insert("allocation_result").
		Columns("id", "weight_set_id", "unit_id", "votes", "total_votes", "created_at").
		PlaceholderFormat(sq.Dollar)

	pending := 0
	flush := func() error {
		if pending == 0 {
			return nil
		}
		if _, err := insert.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("failed to insert results: %w", err)
		}
		insert = sq.Insert("allocation_result").
			Columns("id", "weight_set_id", "unit_id", "votes", "total_votes", "created_at").
			PlaceholderFormat(sq.Dollar)
		pending = 0
		return nil
	}

	for _, unit := range units {
		result := strategy.Allocate(unit.base, ws.Weights)
		votesJSON, err := json.Marshal(result.Votes)
		if err != nil {
			return 0, fmt.Errorf("failed to encode votes: %w", err)
		}
		insert = insert.Values(uuid.NewString(), ws.ID, unit.id, votesJSON, result.Total, now)
		pending++
		if pending >= 500 {
			if err := flush(); err != nil {
				return 0, err
			}
		}
	}
	if err := flush(); err != nil {
		return 0, err
	}

	return len(units), nil
}

// Allocate handles POST /weight-sets/:id/allocate
// Re-runs the allocation for one weight set; ?strategy= picks deterministic
// (default) or randomized.
func (h *ResultsHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "weight set id is required")
		return
	}

	strategyName := r.URL.Query().Get("strategy")
	if strategyName == "" {
		strategyName = models.StrategyDeterministic
	}
	var strategy alloc.Strategy
	switch strategyName {
	case models.StrategyDeterministic:
		strategy = alloc.Deterministic{}
	case models.StrategyRandomized:
		strategy = alloc.NewRandomized(time.Now().UnixNano())
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown strategy: "+strategyName)
		return
	}

	ws, err := loadWeightSet(h.db, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Weight set not found")
		return
	}
	if err != nil {
		slog.Error("failed to load weight set", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	warning := ""
	if !ws.Weights.IsValidAllocation() {
		warning = fmt.Sprintf("percentages sum to %.2f, not 100", ws.Weights.TotalPercentage())
	}

	allocMu.Lock()
	defer allocMu.Unlock()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	resultCount, err := runAllocation(tx, ws, strategy)
	if err != nil {
		slog.Error("failed to run allocation", "error", err, "weight_set_id", ws.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to allocate votes")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to allocate votes")
		return
	}

	slog.Info("allocation run complete",
		"weight_set_id", ws.ID, "strategy", strategy.Name(), "results", resultCount)

	middleware.JSONResponse(w, http.StatusOK, models.AllocateResponse{
		WeightSetID: ws.ID,
		Strategy:    strategy.Name(),
		ResultCount: resultCount,
		Warning:     warning,
	})
}

// loadResultRows returns every result row for a weight set joined with its
// unit, ordered by unit sequence number.
func loadResultRows(db *sql.DB, weightSetID string) ([]models.ResultRow, error) {
	rows, err := db.Query(`
		SELECT u.id, u.sno, u.state, u.lga, u.ra, u.delim,
		       COALESCE(u.register_code_2023, ''), u.registered_voters,
		       u.pvc_collected, u.balance_uncollected, u.base_votes, u.created_at,
		       ar.votes, ar.total_votes
		FROM allocation_result ar
		JOIN polling_unit u ON u.id = ar.unit_id
		WHERE ar.weight_set_id = $1
		ORDER BY u.sno
	`, weightSetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := []models.ResultRow{}
	for rows.Next() {
		var row models.ResultRow
		var votesJSON []byte
		err := rows.Scan(
			&row.Unit.ID, &row.Unit.SNo, &row.Unit.State, &row.Unit.LGA,
			&row.Unit.RA, &row.Unit.Delim, &row.Unit.RegisterCode2023,
			&row.Unit.RegisteredVoters, &row.Unit.PVCCollected,
			&row.Unit.BalanceUncollected, &row.Unit.BaseVotes, &row.Unit.CreatedAt,
			&votesJSON, &row.TotalVotes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if err := json.Unmarshal(votesJSON, &row.Votes); err != nil {
			return nil, fmt.Errorf("failed to decode votes: %w", err)
		}
		row.InvalidVotes = alloc.InvalidVotes(row.Unit.BaseVotes, row.TotalVotes)
		results = append(results, row)
	}
	return results, rows.Err()
}

// summarize runs the aggregator over the full result set.
func summarize(rows []models.ResultRow) models.ResultsSummary {
	units := make([]alloc.UnitResult, len(rows))
	for i, row := range rows {
		units[i] = alloc.UnitResult{
			BaseVotes: row.Unit.BaseVotes,
			Votes:     row.Votes,
			Total:     row.TotalVotes,
		}
	}
	s := alloc.Aggregate(units)
	return models.ResultsSummary{
		Units:        s.Units,
		PartyTotals:  s.PartyTotals,
		GrandTotal:   s.GrandTotal,
		Achieved:     s.Achieved,
		InvalidVotes: s.InvalidVotes,
	}
}

// GetResults handles GET /weight-sets/:id/results
// The summary always covers the full result set; ?search= and ?page= only
// narrow the rows returned for display.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "weight set id is required")
		return
	}

	ws, err := loadWeightSet(h.db, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Weight set not found")
		return
	}
	if err != nil {
		slog.Error("failed to load weight set", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	allRows, err := loadResultRows(h.db, id)
	if err != nil {
		slog.Error("failed to load results", "error", err, "weight_set_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	summary := summarize(allRows)

	filtered := allRows
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		needle := strings.ToLower(search)
		filtered = []models.ResultRow{}
		for _, row := range allRows {
			haystack := strings.ToLower(row.Unit.State + " " + row.Unit.LGA + " " + row.Unit.Delim)
			if strings.Contains(haystack, needle) {
				filtered = append(filtered, row)
			}
		}
	}

	page := pageParam(r)
	totalCount := len(filtered)
	totalPages := (totalCount + resultsPageSize - 1) / resultsPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * resultsPageSize
	end := start + resultsPageSize
	if end > totalCount {
		end = totalCount
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		WeightSet:  ws,
		Summary:    summary,
		Rows:       filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		TotalCount: totalCount,
	})
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
