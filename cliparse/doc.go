// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles server configuration from CLI flags and
environment variables.

# Usage

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

# Settings

Required:

  - DATABASE_URL (-d): PostgreSQL connection string

Optional:

  - PORT (-p): server port (default: 4217)

CLI flags take precedence over environment variables. A .env file in the
working directory is loaded by main before parsing.
*/
package cliparse
