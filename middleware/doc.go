// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Request Logging

WithLogging wraps a handler and logs start/completion with method, path and
duration via slog.

# JSON Helpers

JSONResponse and ErrorResponse write the standard envelope; ParseJSONBody
decodes a request body. ErrorResponse pairs the HTTP status text with a
human-readable message:

	{"error": "Bad Request", "message": "name is required"}

# CORS

CORS reflects the request origin and answers preflight OPTIONS requests,
for browser clients served from another host.
*/
package middleware
