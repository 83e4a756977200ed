package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// CommandWrapper provides observability instrumentation for any command handler.
// It wraps a core command handler and adds metrics and logging.
type CommandWrapper[C shell.Command, R any] struct {
	coreHandler      shell.CommandHandler[C, R]
	commandType      string
	metricsCollector shell.MetricsCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandWrapper creates a new observable wrapper around the core command handler.
func NewCommandWrapper[C shell.Command, R any](
	coreHandler shell.CommandHandler[C, R],
	opts ...Option,
) (*CommandWrapper[C, R], error) {

	var zeroCommand C

	var cfg settings
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	wrapper := &CommandWrapper[C, R]{
		coreHandler:      coreHandler,
		commandType:      zeroCommand.CommandType(),
		metricsCollector: cfg.metricsCollector,
		contextualLogger: cfg.contextualLogger,
		logger:           cfg.logger,
	}

	return wrapper, nil
}

// Handle executes the wrapped handler, instrumenting it with a correlation id, metrics, and logs.
func (w *CommandWrapper[C, R]) Handle(ctx context.Context, command C) (R, error) {
	commandStart := time.Now()
	ctx, _ = shell.EnsureCorrelationID(ctx)
	shell.LogCommandStart(ctx, w.logger, w.contextualLogger, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)
	duration := time.Since(commandStart)
	status := shell.ClassifyError(err)

	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration)

	switch status {
	case shell.StatusSuccess:
		shell.LogCommandSuccess(ctx, w.logger, w.contextualLogger, w.commandType, duration)
	case shell.StatusRejected:
		shell.LogCommandRejected(ctx, w.logger, w.contextualLogger, w.commandType, err)
	default:
		shell.LogCommandError(ctx, w.logger, w.contextualLogger, w.commandType, status, err)
	}

	return result, err
}
