package adapters

import "context"

// Executor runs plain SQL strings. Both a connection pool and an open transaction are executors.
type Executor interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

// DBAdapter defines the interface for database operations needed by the circulation store.
type DBAdapter interface {
	Executor
	Begin(ctx context.Context) (TxAdapter, error)
}

// TxAdapter is an open database transaction.
type TxAdapter interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
