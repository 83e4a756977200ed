package config

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresSQLX opens a *sqlx.DB with lib/pq and verifies the connection.
func PostgresSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := PostgresSQLDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlx connection: %w", err)
	}

	return sqlx.NewDb(db, postgresDriverName), nil
}
