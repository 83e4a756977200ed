package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/sqlengine"
)

// CloseFunc releases the database connection behind a Store.
type CloseFunc func() error

// OpenStore opens the configured database connection, builds the Store, and initializes the schema.
// The returned CloseFunc must be called once the Store is no longer used.
func OpenStore(ctx context.Context, cfg Config, options ...sqlengine.Option) (sqlengine.Store, CloseFunc, error) {
	store, closeFn, err := openStore(ctx, cfg, options)
	if err != nil {
		return sqlengine.Store{}, nil, errors.Join(circulation.ErrStorageUnavailable, err)
	}

	if initErr := store.Initialize(ctx); initErr != nil {
		_ = closeFn()
		return sqlengine.Store{}, nil, initErr
	}

	return store, closeFn, nil
}

func openStore(ctx context.Context, cfg Config, options []sqlengine.Option) (sqlengine.Store, CloseFunc, error) {
	postgresOptions := append([]sqlengine.Option{sqlengine.WithDialect(sqlengine.DialectPostgres)}, options...)

	switch cfg.Adapter {
	case AdapterSQLite:
		db, err := SQLiteSQLDB(cfg.DSN)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLDB(db, options...)
		return closeOnError(store, db.Close, err)

	case AdapterSQLiteSQLX:
		db, err := SQLiteSQLX(cfg.DSN)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLX(db, options...)
		return closeOnError(store, db.Close, err)

	case AdapterPGX:
		pool, err := PostgresPGXPool(ctx, cfg.DSN)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromPGXPool(pool, options...)
		return closeOnError(store, func() error { pool.Close(); return nil }, err)

	case AdapterPostgres:
		db, err := PostgresSQLDB(ctx, cfg.DSN)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLDB(db, postgresOptions...)
		return closeOnError(store, db.Close, err)

	case AdapterPostgresSQLX:
		db, err := PostgresSQLX(ctx, cfg.DSN)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLX(db, postgresOptions...)
		return closeOnError(store, db.Close, err)

	default:
		return sqlengine.Store{}, nil, fmt.Errorf("%w: unknown adapter %q", ErrInvalidConfig, cfg.Adapter)
	}
}

func closeOnError(store sqlengine.Store, closeFn CloseFunc, err error) (sqlengine.Store, CloseFunc, error) {
	if err != nil {
		_ = closeFn()
		return sqlengine.Store{}, nil, err
	}

	return store, closeFn, nil
}
