package sqlengine

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// Tables are created with hand-written DDL, goqu only builds DML.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		book_id TEXT PRIMARY KEY,
		title   TEXT NOT NULL,
		author  TEXT NOT NULL,
		issued  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		name    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id        TEXT NOT NULL REFERENCES users (user_id),
		book_id        TEXT NOT NULL REFERENCES books (book_id),
		date_issued    TEXT NOT NULL,
		date_returned  TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_book_idx ON transactions (user_id, book_id)`,
	`CREATE TABLE IF NOT EXISTS payments (
		user_id        TEXT NOT NULL REFERENCES users (user_id),
		fine           INTEGER NOT NULL CHECK (fine >= 0),
		transaction_id INTEGER REFERENCES transactions (transaction_id)
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS books (
		book_id TEXT PRIMARY KEY,
		title   TEXT NOT NULL,
		author  TEXT NOT NULL,
		issued  BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		name    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id BIGSERIAL PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES users (user_id),
		book_id        TEXT NOT NULL REFERENCES books (book_id),
		date_issued    TEXT NOT NULL,
		date_returned  TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_book_idx ON transactions (user_id, book_id)`,
	`CREATE TABLE IF NOT EXISTS payments (
		user_id        TEXT NOT NULL REFERENCES users (user_id),
		fine           BIGINT NOT NULL CHECK (fine >= 0),
		transaction_id BIGINT REFERENCES transactions (transaction_id)
	)`,
	`ALTER TABLE payments ADD COLUMN IF NOT EXISTS transaction_id BIGINT REFERENCES transactions (transaction_id)`,
}

// Databases written before payments were linked to their loan lack payments.transaction_id.
// Their payment rows keep a NULL link, SQLite has no ADD COLUMN IF NOT EXISTS so the column is probed first.
const (
	sqliteCountPaymentsLinkColumn = `SELECT COUNT(*) FROM pragma_table_info('payments') WHERE name = 'transaction_id'`
	sqliteAddPaymentsLinkColumn   = `ALTER TABLE payments ADD COLUMN transaction_id INTEGER REFERENCES transactions (transaction_id)`
)

func schemaFor(dialect Dialect) ([]string, error) {
	switch dialect {
	case DialectSQLite:
		return sqliteSchema, nil
	case DialectPostgres:
		return postgresSchema, nil
	default:
		return nil, circulation.ErrUnsupportedDialect
	}
}
