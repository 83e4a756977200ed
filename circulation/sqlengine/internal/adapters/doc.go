// Package adapters provide database adapter implementations for the SQL circulation store.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgxpool.Pool, sql.DB, and sqlx.DB. All adapters expose the same DBAdapter interface,
// including transactions, so the store builds its statements once and runs them
// on any supported connection type (SQLite or PostgreSQL).
package adapters
