package shell

import (
	"context"

	"github.com/google/uuid"
)

type correlationIDKey struct{}

// HandlerResult carries execution metadata of a command handler call.
type HandlerResult struct {
	// CommandType names the handled command.
	CommandType string

	// CorrelationID ties the result to the log records and metrics of the same call.
	CorrelationID uuid.UUID
}

// NewHandlerResult creates a HandlerResult for the command, picking up the correlation id from ctx.
func NewHandlerResult(ctx context.Context, command Command) HandlerResult {
	return HandlerResult{
		CommandType:   command.CommandType(),
		CorrelationID: CorrelationIDFrom(ctx),
	}
}

// WithCorrelationID returns a copy of ctx carrying id.
func WithCorrelationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFrom returns the correlation id carried by ctx, or uuid.Nil.
func CorrelationIDFrom(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(correlationIDKey{}).(uuid.UUID); ok {
		return id
	}

	return uuid.Nil
}

// EnsureCorrelationID returns ctx unchanged if it carries a correlation id, otherwise a copy with a new one.
func EnsureCorrelationID(ctx context.Context) (context.Context, uuid.UUID) {
	if id := CorrelationIDFrom(ctx); id != uuid.Nil {
		return ctx, id
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return WithCorrelationID(ctx, id), id
}
