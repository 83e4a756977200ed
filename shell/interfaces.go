package shell

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// CommandHandler defines the contract for components that process commands.
// R is the receipt type of the command, usually embedding HandlerResult.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// QueryHandler defines the contract for components that process queries and return read models.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// Interface aliases for convenience when using handler observability.
// These match the store's observability interfaces for consistency.

// Logger interface for basic logging in handlers.
type Logger = circulation.Logger

// ContextualLogger interface for context-aware logging in handlers.
type ContextualLogger = circulation.ContextualLogger

// MetricsCollector interface for collecting handler performance metrics.
type MetricsCollector = circulation.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = circulation.ContextualMetricsCollector
