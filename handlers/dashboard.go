// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/kelechidike/voteshare/cliparse"
	"github.com/kelechidike/voteshare/middleware"
	"github.com/kelechidike/voteshare/models"
)

type DashboardHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewDashboardHandler(db *sql.DB, cfg cliparse.Config) *DashboardHandler {
	return &DashboardHandler{db: db, cfg: cfg}
}

// GetDashboard handles GET /dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	var totalUnits, totalBase int
	err := h.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(base_votes), 0)
		FROM polling_unit
	`).Scan(&totalUnits, &totalBase)
	if err != nil {
		slog.Error("failed to query unit stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var totalSets int
	if err := h.db.QueryRow("SELECT COUNT(*) FROM weight_set").Scan(&totalSets); err != nil {
		slog.Error("failed to count weight sets", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	averageBase := 0.0
	if totalUnits > 0 {
		averageBase = float64(totalBase) / float64(totalUnits)
	}

	// Recent weight sets, newest first
	rows, err := h.db.Query(`
		SELECT id, name, COALESCE(description, ''), weights, created_at
		FROM weight_set
		ORDER BY created_at DESC
		LIMIT 5
	`)
	if err != nil {
		slog.Error("failed to query recent weight sets", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	recent := []models.WeightSet{}
	for rows.Next() {
		ws, err := scanWeightSet(rows)
		if err != nil {
			slog.Error("failed to scan weight set", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		recent = append(recent, ws)
	}

	response := models.DashboardResponse{
		TotalUnits:      totalUnits,
		TotalWeightSets: totalSets,
		TotalBaseVotes:  totalBase,
		AverageBase:     averageBase,
		TotalBaseLabel:  humanize.Comma(int64(totalBase)),
		RecentSets:      recent,
	}

	var session models.ImportSession
	err = h.db.QueryRow(`
		SELECT id, detected_field, COALESCE(source_note, ''), unit_count, error_count, created_at
		FROM import_session
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&session.ID, &session.DetectedField, &session.SourceNote,
		&session.UnitCount, &session.ErrorCount, &session.CreatedAt)
	switch {
	case err == sql.ErrNoRows:
		// No imports yet; leave LastImport empty.
	case err != nil:
		slog.Error("failed to query last import", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	default:
		response.LastImport = &session
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}
