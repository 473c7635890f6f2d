// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/kelechidike/voteshare/cliparse"
	"github.com/kelechidike/voteshare/handlers"
	"github.com/kelechidike/voteshare/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(db, cfg)
	unitHandler := handlers.NewUnitHandler(db, cfg)
	weightSetHandler := handlers.NewWeightSetHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	exportHandler := handlers.NewExportHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Dashboard
	mux.HandleFunc("GET /dashboard", middleware.WithLogging(dashboardHandler.GetDashboard))

	// Polling units (import + browse)
	mux.HandleFunc("POST /units/import", middleware.WithLogging(unitHandler.ImportUnits))
	mux.HandleFunc("GET /units", middleware.WithLogging(unitHandler.ListUnits))

	// Weight sets
	mux.HandleFunc("POST /weight-sets", middleware.WithLogging(weightSetHandler.CreateWeightSet))
	mux.HandleFunc("GET /weight-sets", middleware.WithLogging(weightSetHandler.ListWeightSets))
	mux.HandleFunc("POST /weight-sets/validate", middleware.WithLogging(weightSetHandler.ValidateWeights))

	// Allocation runs and results
	mux.HandleFunc("POST /weight-sets/{id}/allocate", middleware.WithLogging(resultsHandler.Allocate))
	mux.HandleFunc("GET /weight-sets/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// File exports
	mux.HandleFunc("GET /weight-sets/{id}/export/excel", middleware.WithLogging(exportHandler.ExportExcel))
	mux.HandleFunc("GET /weight-sets/{id}/export/pdf", middleware.WithLogging(exportHandler.ExportPDF))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voteshare API v1"))
	})

	return mux
}
