package sqlengine

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type constraintViolation int

const (
	noViolation constraintViolation = iota
	uniqueViolation
	foreignKeyViolation
)

const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	sqliteMsgUnique           = "UNIQUE constraint failed"
	sqliteMsgForeignKey       = "FOREIGN KEY constraint failed"
)

// classifyConstraintViolation inspects a driver error for unique and foreign-key violations.
// It understands modernc.org/sqlite, pgx, and lib/pq errors.
func classifyConstraintViolation(err error) constraintViolation {
	if err == nil {
		return noViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return classifySQLiteCode(sqliteErr.Code(), sqliteErr.Error())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPostgresCode(pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifyPostgresCode(string(pqErr.Code))
	}

	return noViolation
}

func classifySQLiteCode(code int, msg string) constraintViolation {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return uniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return foreignKeyViolation
	}

	// without extended result codes only the primary code is set
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return noViolation
	}

	switch {
	case strings.Contains(msg, sqliteMsgUnique):
		return uniqueViolation
	case strings.Contains(msg, sqliteMsgForeignKey):
		return foreignKeyViolation
	default:
		return noViolation
	}
}

func classifyPostgresCode(code string) constraintViolation {
	switch code {
	case pgCodeUniqueViolation:
		return uniqueViolation
	case pgCodeForeignKeyViolation:
		return foreignKeyViolation
	default:
		return noViolation
	}
}
