package config

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

const (
	sqliteDriverName = "sqlite"
	sqliteDSNParams  = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
)

// SQLiteDSN turns a database file path into a modernc.org/sqlite DSN with foreign keys enforced,
// a busy timeout, and write-locking transactions. A DSN that already carries parameters is returned unchanged.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}

	return path + sqliteDSNParams
}

// SQLiteSQLDB opens a *sql.DB on the SQLite database file at path.
func SQLiteSQLDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// a single connection serializes writers and keeps the pragmas in effect
	db.SetMaxOpenConns(1)

	return db, nil
}

// SQLiteSQLX opens a *sqlx.DB on the SQLite database file at path.
func SQLiteSQLX(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(sqliteDriverName, SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	return db, nil
}
