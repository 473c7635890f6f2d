// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the voteshare API server.

voteshare ingests per-polling-unit voter records from spreadsheet uploads
and distributes each unit's base vote count across twenty political parties
according to user-defined percentage weight sets, with Excel and PDF exports
of the computed results.

# Starting the Server

The server requires a database URL via environment or CLI flag:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 4217 -d "postgres://..."

A .env file in the working directory is honored.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - alloc: the allocation core (field detection, validation, strategies,
    aggregation) — pure functions, no I/O
  - spreadsheet: .xlsx parsing and Excel/PDF report rendering
  - handlers: HTTP request handlers (units, weight sets, results, exports)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: domain rows and request/response types
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
