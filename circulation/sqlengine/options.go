package sqlengine

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithDialect selects the SQL dialect the statements are built for.
// Stores created from sql.DB or sqlx.DB default to DialectSQLite, stores created from a pgxpool.Pool
// always use DialectPostgres.
func WithDialect(dialect Dialect) Option {
	return func(s *Store) error {
		switch dialect {
		case DialectSQLite, DialectPostgres:
			s.dialect = dialect
			return nil

		default:
			return circulation.ErrUnsupportedDialect
		}
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: operation outcomes with durations and row counts (production-safe)
// Warn level: Non-critical issues like cleanup or rollback failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger circulation.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Store.
// It receives the same messages as the Logger, together with the context of the calling operation.
func WithContextualLogger(logger circulation.ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// The collector receives statement durations, transaction outcomes, and database errors.
func WithMetrics(collector circulation.MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}
