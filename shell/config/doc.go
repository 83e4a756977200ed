// Package config provides configuration loading and database connection factories
// for the library circulation ledger.
//
// Configuration is read from command line flags, with environment variables overriding the
// flag defaults. The factory functions open SQLite connections (modernc.org/sqlite via
// sql.DB or sqlx.DB) and PostgreSQL connections (pgx.Pool, sql.DB with lib/pq, sqlx.DB with lib/pq),
// and OpenStore wires the selected connection into a sqlengine.Store.
//
// This package is part of the shell (infrastructure) layer.
package config
