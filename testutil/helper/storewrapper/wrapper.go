// Package storewrapper creates circulation stores for tests, one per supported database adapter.
//
// SQLite stores always work: each one lives in its own file under t.TempDir().
// PostgreSQL stores need a DSN in LIBRARY_TEST_POSTGRES_DSN, tests requesting them are skipped otherwise.
package storewrapper

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/sqlengine"
	"github.com/AntonStoeckl/library-circulation-go/shell/config"
)

// Environment variables for the test setup.
const (
	EnvTestAdapter     = "LIBRARY_TEST_ADAPTER"
	EnvTestPostgresDSN = "LIBRARY_TEST_POSTGRES_DSN"
)

const truncateAll = "TRUNCATE TABLE payments, transactions, users, books RESTART IDENTITY CASCADE"

// Wrapper gives access to a Store and releases its connection.
type Wrapper interface {
	GetStore() sqlengine.Store
	Close()
}

type storeWrapper struct {
	store   sqlengine.Store
	closeFn config.CloseFunc
}

func (w *storeWrapper) GetStore() sqlengine.Store {
	return w.store
}

func (w *storeWrapper) Close() {
	_ = w.closeFn() // ignore error
}

// CreateWrapper creates an initialized, empty Store for the given adapter.
// The connection is closed automatically at the end of the test.
func CreateWrapper(t testing.TB, adapter string, options ...sqlengine.Option) Wrapper {
	t.Helper()

	ctx := context.Background()
	cfg := config.Config{Adapter: adapter}

	if cfg.IsSQLite() {
		cfg.DSN = filepath.Join(t.TempDir(), "library.db")
	} else {
		cfg.DSN = postgresDSNOrSkip(t)
		cleanUpPostgres(t, ctx, cfg.DSN)
	}

	store, closeFn, err := config.OpenStore(ctx, cfg, options...)
	require.NoError(t, err, "error opening store in test setup")

	wrapper := &storeWrapper{store: store, closeFn: closeFn}
	t.Cleanup(wrapper.Close)

	return wrapper
}

// CreateWrapperWithTestConfig creates a Store for the adapter named in LIBRARY_TEST_ADAPTER, sqlite by default.
func CreateWrapperWithTestConfig(t testing.TB, options ...sqlengine.Option) Wrapper {
	t.Helper()

	return CreateWrapper(t, TestAdapter(), options...)
}

// TestAdapter returns the adapter named in LIBRARY_TEST_ADAPTER, sqlite by default.
func TestAdapter() string {
	adapter := strings.ToLower(os.Getenv(EnvTestAdapter))
	if adapter == "" {
		return config.AdapterSQLite
	}

	return adapter
}

// Adapters lists the adapters to run store tests against.
// PostgreSQL adapters are included only when LIBRARY_TEST_POSTGRES_DSN is set.
func Adapters() []string {
	adapters := []string{config.AdapterSQLite, config.AdapterSQLiteSQLX}

	if os.Getenv(EnvTestPostgresDSN) != "" {
		adapters = append(adapters, config.AdapterPGX, config.AdapterPostgres, config.AdapterPostgresSQLX)
	}

	return adapters
}

func postgresDSNOrSkip(t testing.TB) string {
	t.Helper()

	dsn := os.Getenv(EnvTestPostgresDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvTestPostgresDSN)
	}

	return dsn
}

// cleanUpPostgres empties the tables of a previous test run, if they exist.
func cleanUpPostgres(t testing.TB, ctx context.Context, dsn string) {
	t.Helper()

	db, err := config.PostgresSQLDB(ctx, dsn)
	require.NoError(t, err, "error connecting to postgres in test setup")
	defer func() { _ = db.Close() }()

	var exists bool
	err = db.QueryRowContext(ctx, "SELECT to_regclass('public.payments') IS NOT NULL").Scan(&exists)
	require.NoError(t, err, "error inspecting postgres schema in test setup")

	if exists {
		_, err = db.ExecContext(ctx, truncateAll)
		require.NoError(t, err, "error cleaning up the tables")
	}
}
