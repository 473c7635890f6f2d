// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kelechidike/voteshare/alloc"
	"github.com/kelechidike/voteshare/cliparse"
	"github.com/kelechidike/voteshare/middleware"
	"github.com/kelechidike/voteshare/models"
	"github.com/kelechidike/voteshare/spreadsheet"
)

type ExportHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewExportHandler(db *sql.DB, cfg cliparse.Config) *ExportHandler {
	return &ExportHandler{db: db, cfg: cfg}
}

// loadReportData gathers everything an export needs: the weight set, its
// result rows in unit order, the aggregate summary, and the detected base
// column recorded by the most recent import.
func (h *ExportHandler) loadReportData(id string) (*spreadsheet.ReportData, error) {
	ws, err := loadWeightSet(h.db, id)
	if err != nil {
		return nil, err
	}

	rows, err := loadResultRows(h.db, id)
	if err != nil {
		return nil, err
	}

	detected := ""
	err = h.db.QueryRow(`
		SELECT detected_field
		FROM import_session
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&detected)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	units := make([]alloc.UnitResult, len(rows))
	for i, row := range rows {
		units[i] = alloc.UnitResult{
			BaseVotes: row.Unit.BaseVotes,
			Votes:     row.Votes,
			Total:     row.TotalVotes,
		}
	}

	return &spreadsheet.ReportData{
		WeightSet:     ws,
		DetectedField: detected,
		Rows:          rows,
		Summary:       alloc.Aggregate(units),
	}, nil
}

// exportFilename builds "vote_allocation_<name>_<id>.<ext>" with the set
// name reduced to filesystem-safe characters.
func exportFilename(ws models.WeightSet, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		default:
			return -1
		}
	}, ws.Name)
	if name == "" {
		name = "results"
	}
	return fmt.Sprintf("vote_allocation_%s_%s.%s", name, ws.ID, ext)
}

// ExportExcel handles GET /weight-sets/:id/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "weight set id is required")
		return
	}

	data, err := h.loadReportData(id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Weight set not found")
		return
	}
	if err != nil {
		slog.Error("failed to load export data", "error", err, "weight_set_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	f, err := spreadsheet.BuildWorkbook(data)
	if err != nil {
		slog.Error("failed to build workbook", "error", err, "weight_set_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build export")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFilename(data.WeightSet, "xlsx")))

	if err := f.Write(w); err != nil {
		// Headers are already out; all we can do is log.
		slog.Error("failed to stream workbook", "error", err, "weight_set_id", id)
		return
	}

	slog.Info("excel export served", "weight_set_id", id, "rows", len(data.Rows))
}

// ExportPDF handles GET /weight-sets/:id/export/pdf
func (h *ExportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "weight set id is required")
		return
	}

	data, err := h.loadReportData(id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Weight set not found")
		return
	}
	if err != nil {
		slog.Error("failed to load export data", "error", err, "weight_set_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	pdf, err := spreadsheet.BuildPDF(data)
	if err != nil {
		slog.Error("failed to build PDF", "error", err, "weight_set_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build export")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFilename(data.WeightSet, "pdf")))

	if err := pdf.Output(w); err != nil {
		slog.Error("failed to stream PDF", "error", err, "weight_set_id", id)
		return
	}

	slog.Info("pdf export served", "weight_set_id", id, "rows", len(data.Rows))
}
