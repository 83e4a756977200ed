package sqlengine

import (
	"context"
	"math"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

const (
	metricStatementDuration   = "circulation_store_statement_duration_seconds"
	metricTransactionDuration = "circulation_store_transaction_duration_seconds"
	metricTransactions        = "circulation_store_transactions_total"
	metricDatabaseErrors      = "circulation_store_database_errors_total"
	metricRowsReturned        = "circulation_store_rows_returned"
	labelOperation            = "operation"
	labelStatus               = "status"
	labelErrorType            = "error_type"
	statusSuccess             = "success"
	statusError               = "error"
	statusRejected            = "rejected"
	errorTypeBuildQuery       = "build_query"
	errorTypeQuery            = "query"
	errorTypeExec             = "exec"
	errorTypeScan             = "scan"
	errorTypeRowsAffected     = "rows_affected"
	errorTypeBegin            = "begin"
	errorTypeCommit           = "commit"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if a logger is configured.
func (s Store) logQueryWithDuration(ctx context.Context, sqlQuery string, operation string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+operation, logAttrDurationMS, s.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation, logAttrDurationMS, s.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (s Store) logOperation(ctx context.Context, operation string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+operation, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+operation, args...)
	}
}

// logWarn logs non-critical failures at warn level if a logger is configured.
func (s Store) logWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Warn(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, message, allArgs...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (s Store) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Error(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (s Store) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordErrorMetrics records database errors if a metrics collector is configured.
func (s Store) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    statusError,
		labelErrorType: errorType,
	}

	if contextualCollector, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
}

// recordDurationMetrics records a duration if a metrics collector is configured.
func (s Store) recordDurationMetrics(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {

	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    status,
	}

	if contextualCollector, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metricName, duration, labels)
}

// recordValueMetrics records a value if a metrics collector is configured.
func (s Store) recordValueMetrics(ctx context.Context, metricName string, value float64, operation string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    statusSuccess,
	}

	if contextualCollector, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metricName, value, labels)
}

// recordTransactionMetrics records the outcome of one Transact call.
func (s Store) recordTransactionMetrics(ctx context.Context, duration time.Duration, status string) {
	if s.metricsCollector == nil {
		return
	}

	s.recordDurationMetrics(ctx, metricTransactionDuration, duration, operationTransact, status)

	labels := map[string]string{
		labelOperation: operationTransact,
		labelStatus:    status,
	}

	if contextualCollector, ok := s.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricTransactions, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metricTransactions, labels)
}
