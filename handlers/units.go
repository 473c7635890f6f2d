// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/kelechidike/voteshare/alloc"
	"github.com/kelechidike/voteshare/cliparse"
	"github.com/kelechidike/voteshare/middleware"
	"github.com/kelechidike/voteshare/models"
	"github.com/kelechidike/voteshare/spreadsheet"
)

const (
	unitsPageSize = 25
	maxUploadSize = 32 << 20 // 32 MiB
)

type UnitHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUnitHandler(db *sql.DB, cfg cliparse.Config) *UnitHandler {
	return &UnitHandler{db: db, cfg: cfg}
}

// Identity column aliases seen across INEC-derived sheets; the uncollected
// balance header is misspelled in the canonical source files.
var identityAliases = map[string][]string{
	"sno":        {"S/NO", "S/N", "SNO"},
	"state":      {"STATE"},
	"lga":        {"LGA"},
	"ra":         {"RA"},
	"delim":      {"DELIM", "DELIMITATION"},
	"code2023":   {"REGISTER VOTER AS AT 2023", "REGISTERED VOTER AS AT 2023"},
	"registered": {"REGISTERED VOTER AS AT 2024", "REGISTER VOTER AS AT 2024", "REGISTERED VOTERS"},
	"pvc":        {"NO OF PVC COLLECTED", "PVC COLLECTED"},
	"balance":    {"BALANCE OF UNCOLLECTED PVCs", "BALANCE OF UNCOLECTED PVCs", "BALANCE"},
}

// resolveColumn finds the first alias present in the table, returning the
// sheet's original spelling.
func resolveColumn(table *spreadsheet.Table, key string) (string, bool) {
	for _, alias := range identityAliases[key] {
		if col, ok := table.Lookup(alias); ok {
			return col, true
		}
	}
	return "", false
}

// cellInt coerces one raw cell to a non-negative int, zero when absent or
// unparseable.
func cellInt(row map[string]string, col string) int {
	if col == "" {
		return 0
	}
	v, ok := alloc.ParseCount(row[col])
	if !ok || v < 0 {
		return 0
	}
	return int(v)
}

// ImportUnits handles POST /units/import
// Accepts a multipart .xlsx upload in the "file" field and replaces the
// entire polling-unit table with the sheet's contents. An optional ?field=
// query names the vote-count column explicitly; otherwise it is detected
// from the headers. Field validation is advisory: a suspect column is
// reported but never blocks the import.
func (h *UnitHandler) ImportUnits(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	table, err := spreadsheet.ReadTable(file)
	if err != nil {
		slog.Error("failed to parse workbook", "error", err, "filename", header.Filename)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Could not read the workbook: "+err.Error())
		return
	}

	override := r.URL.Query().Get("field")
	if override == "" {
		override = r.FormValue("field")
	}

	var voteField string
	fieldOverride := false
	if override != "" {
		col, ok := table.Lookup(override)
		if !ok {
			middleware.ErrorResponse(w, http.StatusBadRequest,
				fmt.Sprintf("column %q not found in the sheet", override))
			return
		}
		voteField = col
		fieldOverride = true
	} else {
		col, ok := alloc.DetectVoteField(table.Columns)
		if !ok {
			middleware.ErrorResponse(w, http.StatusBadRequest,
				"could not detect a vote-count column; pass ?field= to name one")
			return
		}
		voteField = col
	}

	validationOK, validationNote := alloc.ValidateVoteField(table.ColumnValues(voteField))
	if !validationOK {
		slog.Warn("vote field validation failed", "field", voteField, "note", validationNote)
	}

	cols := map[string]string{}
	for key := range identityAliases {
		if col, ok := resolveColumn(table, key); ok {
			cols[key] = col
		}
	}

	now := time.Now()
	created := 0
	errorCount := 0

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Imports replace the dataset wholesale; dependent results go first.
	if _, err := tx.Exec("DELETE FROM allocation_result"); err != nil {
		slog.Error("failed to clear results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import units")
		return
	}
	if _, err := tx.Exec("DELETE FROM polling_unit"); err != nil {
		slog.Error("failed to clear units", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import units")
		return
	}

	insert := newUnitInsert()
	pending := 0
	flush := func() error {
		if pending == 0 {
			return nil
		}
		if _, err := insert.RunWith(tx).Exec(); err != nil {
			return err
		}
		insert = newUnitInsert()
		pending = 0
		return nil
	}

	for i, row := range table.Rows {
		base, ok := alloc.ParseCount(row[voteField])
		if !ok || base < 0 {
			errorCount++
			continue
		}

		sno := cellInt(row, cols["sno"])
		if sno == 0 {
			sno = i + 1
		}

		insert = insert.Values(
			uuid.NewString(), sno,
			row[cols["state"]], row[cols["lga"]], row[cols["ra"]], row[cols["delim"]],
			row[cols["code2023"]],
			cellInt(row, cols["registered"]),
			cellInt(row, cols["pvc"]),
			cellInt(row, cols["balance"]),
			int(base), now,
		)
		pending++
		created++
		if pending >= 500 {
			if err := flush(); err != nil {
				slog.Error("failed to insert units", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import units")
				return
			}
		}
	}
	if err := flush(); err != nil {
		slog.Error("failed to insert units", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import units")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO import_session (id, detected_field, source_note, unit_count, error_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), voteField, header.Filename, created, errorCount, now)
	if err != nil {
		slog.Error("failed to record import session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import units")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import units")
		return
	}

	slog.Info("units imported",
		"created", created, "errors", errorCount,
		"field", voteField, "filename", header.Filename)

	message := fmt.Sprintf("Imported %s polling units from %q using column %q",
		humanize.Comma(int64(created)), header.Filename, voteField)
	if errorCount > 0 {
		message += fmt.Sprintf(" (%s rows skipped)", humanize.Comma(int64(errorCount)))
	}

	middleware.JSONResponse(w, http.StatusCreated, models.ImportResponse{
		CreatedCount:   created,
		ErrorCount:     errorCount,
		DetectedField:  voteField,
		FieldOverride:  fieldOverride,
		ValidationOK:   validationOK,
		ValidationNote: validationNote,
		Message:        message,
	})
}

func newUnitInsert() sq.InsertBuilder {
	return sq.Insert("polling_unit").
		Columns("id", "sno", "state", "lga", "ra", "delim", "register_code_2023",
			"registered_voters", "pvc_collected", "balance_uncollected", "base_votes", "created_at").
		PlaceholderFormat(sq.Dollar)
}

// ListUnits handles GET /units
// Paginated browse over the imported units; ?search= matches state, LGA,
// or delimitation code.
func (h *UnitHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	page := pageParam(r)

	builder := sq.Select(
		"id", "sno", "state", "lga", "ra", "delim",
		"COALESCE(register_code_2023, '')",
		"registered_voters", "pvc_collected", "balance_uncollected", "base_votes", "created_at").
		From("polling_unit").
		PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From("polling_unit").PlaceholderFormat(sq.Dollar)

	if search != "" {
		pattern := "%" + search + "%"
		filter := sq.Or{
			sq.ILike{"state": pattern},
			sq.ILike{"lga": pattern},
			sq.ILike{"delim": pattern},
		}
		builder = builder.Where(filter)
		countBuilder = countBuilder.Where(filter)
	}

	var totalCount int
	if err := countBuilder.RunWith(h.db).QueryRow().Scan(&totalCount); err != nil {
		slog.Error("failed to count units", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	totalPages := (totalCount + unitsPageSize - 1) / unitsPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	rows, err := builder.
		OrderBy("sno").
		Limit(unitsPageSize).
		Offset(uint64((page - 1) * unitsPageSize)).
		RunWith(h.db).Query()
	if err != nil {
		slog.Error("failed to query units", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	units := []models.PollingUnit{}
	for rows.Next() {
		var u models.PollingUnit
		err := rows.Scan(&u.ID, &u.SNo, &u.State, &u.LGA, &u.RA, &u.Delim,
			&u.RegisterCode2023, &u.RegisteredVoters, &u.PVCCollected,
			&u.BalanceUncollected, &u.BaseVotes, &u.CreatedAt)
		if err != nil {
			slog.Error("failed to scan unit", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		units = append(units, u)
	}

	middleware.JSONResponse(w, http.StatusOK, models.UnitsPage{
		Units:      units,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: totalCount,
	})
}
