package config_test

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/sqlengine"
	"github.com/AntonStoeckl/library-circulation-go/shell/config"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func Test_Load_Defaults(t *testing.T) {
	// act
	cfg, err := config.Load(nil, envFrom(nil), &bytes.Buffer{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, config.Config{
		Adapter:   config.AdapterSQLite,
		DSN:       "library.db",
		LogLevel:  "warn",
		LogFormat: config.LogFormatText,
		Output:    config.OutputText,
	}, cfg)
	assert.True(t, cfg.IsSQLite())
}

func Test_Load_EnvironmentOverridesDefaults(t *testing.T) {
	// arrange
	env := envFrom(map[string]string{
		config.EnvAdapter:     "PGX",
		config.EnvDSN:         "postgres://localhost/library",
		config.EnvLogLevel:    "debug",
		config.EnvLogFormat:   "json",
		config.EnvMetricsAddr: ":9090",
	})

	// act
	cfg, err := config.Load(nil, env, &bytes.Buffer{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, config.AdapterPGX, cfg.Adapter)
	assert.Equal(t, "postgres://localhost/library", cfg.DSN)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, config.LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.False(t, cfg.IsSQLite())
}

func Test_Load_FlagsOverrideEnvironment(t *testing.T) {
	// arrange
	env := envFrom(map[string]string{config.EnvAdapter: config.AdapterPGX, config.EnvDSN: "from-env"})
	args := []string{"-adapter", "sqlite-sqlx", "-dsn", "/tmp/lib.db", "-output", "json"}

	// act
	cfg, err := config.Load(args, env, &bytes.Buffer{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, config.AdapterSQLiteSQLX, cfg.Adapter)
	assert.Equal(t, "/tmp/lib.db", cfg.DSN)
	assert.Equal(t, config.OutputJSON, cfg.Output)
}

func Test_Load_RejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		description string
		args        []string
	}{
		{description: "adapter", args: []string{"-adapter", "mysql"}},
		{description: "empty dsn", args: []string{"-dsn", "  "}},
		{description: "log level", args: []string{"-log-level", "verbose"}},
		{description: "log format", args: []string{"-log-format", "xml"}},
		{description: "output", args: []string{"-output", "yaml"}},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			_, err := config.Load(tc.args, envFrom(nil), &bytes.Buffer{})

			// assert
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func Test_Load_UnknownFlag(t *testing.T) {
	// arrange
	errOutput := &bytes.Buffer{}

	// act
	_, err := config.Load([]string{"-verbose"}, envFrom(nil), errOutput)

	// assert
	assert.Error(t, err)
	assert.Contains(t, errOutput.String(), "-verbose")
}

func Test_SQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"library.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		config.SQLiteDSN("library.db"),
	)
	assert.Equal(t, "file:library.db?mode=ro", config.SQLiteDSN("file:library.db?mode=ro"), "explicit parameters are kept")
}

func Test_NewLogger_JSON(t *testing.T) {
	// arrange
	out := &bytes.Buffer{}

	// act
	logger, err := config.NewLogger(out, config.Config{LogLevel: "info", LogFormat: config.LogFormatJSON})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("visible", "user_id", "U1")

	// assert
	assert.NotContains(t, out.String(), "hidden")
	assert.True(t, strings.HasPrefix(out.String(), "{"))
	assert.Contains(t, out.String(), `"user_id":"U1"`)
}

func Test_ParseLogLevel(t *testing.T) {
	level, err := config.ParseLogLevel("warning")
	assert.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func Test_OpenStore_SQLite(t *testing.T) {
	for _, adapter := range []string{config.AdapterSQLite, config.AdapterSQLiteSQLX} {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			cfg := config.Config{Adapter: adapter, DSN: filepath.Join(t.TempDir(), "library.db")}

			// act
			store, closeFn, err := config.OpenStore(ctx, cfg)

			// assert
			require.NoError(t, err)
			defer func() { _ = closeFn() }()
			assert.Equal(t, sqlengine.DialectSQLite, store.Dialect())

			users, err := store.SelectUsers(ctx)
			assert.NoError(t, err, "the schema should be initialized")
			assert.Empty(t, users)
		})
	}
}

func Test_PostgresSQLX_Reports_UnreachableServer(t *testing.T) {
	// arrange
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dsn := "postgres://library@127.0.0.1:1/library?sslmode=disable&connect_timeout=1"

	// act
	db, err := config.PostgresSQLX(ctx, dsn)

	// assert
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "failed to open sqlx connection")
	assert.ErrorContains(t, err, "failed to connect to database")
}
