package adduser

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// Store defines the interface needed by the CommandHandler.
type Store interface {
	InsertUser(ctx context.Context, user circulation.User) error
}

// Receipt is returned for a registered user.
type Receipt struct {
	shell.HandlerResult
	User circulation.User
}

// CommandHandler registers users.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle inserts the user. A duplicate identifier returns circulation.ErrDuplicateKey.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Receipt, error) {
	user := circulation.User{ID: command.UserID, Name: command.Name}

	if err := h.store.InsertUser(ctx, user); err != nil {
		return Receipt{HandlerResult: shell.NewHandlerResult(ctx, command)}, err
	}

	return Receipt{HandlerResult: shell.NewHandlerResult(ctx, command), User: user}, nil
}
