// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP endpoints of the voteshare API.

Handlers are grouped by resource: dashboard summary, polling-unit import
and browsing, weight-set management, allocation runs with their result
views, and file exports. Each handler struct holds the shared *sql.DB and
parsed config, and every endpoint writes JSON through the middleware
helpers except the export endpoints, which stream workbook and PDF bytes.

Allocation runs are serialized on a per-process mutex so two concurrent
runs cannot interleave their delete-and-insert transactions for the same
weight set.
*/
package handlers
