package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// QueryWrapper provides observability instrumentation for any query handler.
type QueryWrapper[Q shell.Query, R any] struct {
	coreHandler      shell.QueryHandler[Q, R]
	queryType        string
	metricsCollector shell.MetricsCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewQueryWrapper creates a new observable wrapper around the core query handler.
func NewQueryWrapper[Q shell.Query, R any](
	coreHandler shell.QueryHandler[Q, R],
	opts ...Option,
) (*QueryWrapper[Q, R], error) {

	var zeroQuery Q

	var cfg settings
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	wrapper := &QueryWrapper[Q, R]{
		coreHandler:      coreHandler,
		queryType:        zeroQuery.QueryType(),
		metricsCollector: cfg.metricsCollector,
		contextualLogger: cfg.contextualLogger,
		logger:           cfg.logger,
	}

	return wrapper, nil
}

// Handle executes the wrapped query handler with metrics and logs.
func (w *QueryWrapper[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	queryStart := time.Now()
	shell.LogQueryStart(ctx, w.logger, w.contextualLogger, w.queryType)

	result, err := w.coreHandler.Handle(ctx, query)
	duration := time.Since(queryStart)
	status := shell.ClassifyError(err)

	shell.RecordQueryMetrics(ctx, w.metricsCollector, w.queryType, status, duration)

	if err != nil {
		shell.LogQueryError(ctx, w.logger, w.contextualLogger, w.queryType, status, err)
		return result, err
	}

	shell.LogQuerySuccess(ctx, w.logger, w.contextualLogger, w.queryType, duration)

	return result, nil
}
