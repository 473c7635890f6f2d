// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kelechidike/voteshare/alloc"
	"github.com/kelechidike/voteshare/cliparse"
	"github.com/kelechidike/voteshare/middleware"
	"github.com/kelechidike/voteshare/models"
)

type WeightSetHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewWeightSetHandler(db *sql.DB, cfg cliparse.Config) *WeightSetHandler {
	return &WeightSetHandler{db: db, cfg: cfg}
}

// parseWeightFields pulls the flat "<code>_percentage" fields out of a JSON
// body. Values may arrive as numbers or numeric strings; absent parties
// default to zero inside WeightsFromForm.
func parseWeightFields(body map[string]interface{}) (alloc.Weights, error) {
	fields := make(map[string]float64, len(alloc.Parties))
	for _, p := range alloc.Parties {
		raw, ok := body[p.FormKey()]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			fields[p.FormKey()] = v
		case string:
			if v == "" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid percentage for %s: %q", p, v)
			}
			fields[p.FormKey()] = f
		default:
			return nil, fmt.Errorf("invalid percentage for %s", p)
		}
	}
	return alloc.WeightsFromForm(fields), nil
}

func stringField(body map[string]interface{}, key string) string {
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWeightSet(row rowScanner) (models.WeightSet, error) {
	var ws models.WeightSet
	var weightsJSON []byte
	if err := row.Scan(&ws.ID, &ws.Name, &ws.Description, &weightsJSON, &ws.CreatedAt); err != nil {
		return ws, err
	}
	if err := json.Unmarshal(weightsJSON, &ws.Weights); err != nil {
		return ws, fmt.Errorf("failed to decode weights: %w", err)
	}
	return ws, nil
}

// CreateWeightSet handles POST /weight-sets
// The new set is saved and immediately run through the deterministic
// strategy, so results are browsable as soon as creation returns.
func (h *WeightSetHandler) CreateWeightSet(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := stringField(body, "name")
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	weights, err := parseWeightFields(body)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Off-100 totals are allowed but flagged; truncation already under-fills
	// and an off total widens the gap.
	warning := ""
	if !weights.IsValidAllocation() {
		warning = fmt.Sprintf("percentages sum to %.2f, not 100", weights.TotalPercentage())
	}

	ws := models.WeightSet{
		ID:          uuid.NewString(),
		Name:        name,
		Description: stringField(body, "description"),
		Weights:     weights,
		CreatedAt:   time.Now(),
	}

	weightsJSON, err := json.Marshal(ws.Weights)
	if err != nil {
		slog.Error("failed to encode weights", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create weight set")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO weight_set (id, name, description, weights, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ws.ID, ws.Name, ws.Description, weightsJSON, ws.CreatedAt)
	if err != nil {
		slog.Error("failed to insert weight set", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create weight set")
		return
	}

	resultCount, err := runAllocation(tx, ws, alloc.Deterministic{})
	if err != nil {
		slog.Error("failed to run allocation", "error", err, "weight_set_id", ws.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to allocate votes")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create weight set")
		return
	}

	slog.Info("weight set created", "weight_set_id", ws.ID, "name", ws.Name, "results", resultCount)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateWeightSetResponse{
		WeightSet:   ws,
		ResultCount: resultCount,
		Warning:     warning,
	})
}

// ListWeightSets handles GET /weight-sets
func (h *WeightSetHandler) ListWeightSets(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, COALESCE(description, ''), weights, created_at
		FROM weight_set
		ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query weight sets", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	sets := []models.WeightSet{}
	for rows.Next() {
		ws, err := scanWeightSet(rows)
		if err != nil {
			slog.Error("failed to scan weight set", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		sets = append(sets, ws)
	}

	middleware.JSONResponse(w, http.StatusOK, sets)
}

// ValidateWeights handles POST /weight-sets/validate
// Live total check for the weight entry form; no rows are written.
func (h *WeightSetHandler) ValidateWeights(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	weights, err := parseWeightFields(body)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	total := math.Round(weights.TotalPercentage()*100) / 100
	middleware.JSONResponse(w, http.StatusOK, models.ValidateWeightsResponse{
		Total:   total,
		IsValid: weights.IsValidAllocation(),
	})
}
