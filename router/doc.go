// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all API routes using Go 1.22+ method routing.

# Routes

Dashboard and health:

	GET  /health
	GET  /dashboard

Polling units:

	POST /units/import   multipart .xlsx upload, replaces the unit set
	GET  /units          paginated list, ?search= over state/lga/delim

Weight sets and results:

	POST /weight-sets             create (runs deterministic allocation)
	GET  /weight-sets             list, newest first
	POST /weight-sets/validate    {total, is_valid} echo for forms
	POST /weight-sets/{id}/allocate   ?strategy=deterministic|randomized
	GET  /weight-sets/{id}/results    summary + paginated rows

Exports:

	GET /weight-sets/{id}/export/excel
	GET /weight-sets/{id}/export/pdf

All mutating routes are JSON except the import upload; exports stream files
with attachment dispositions.
*/
package router
