package listusers

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	SelectUsers(ctx context.Context) ([]circulation.User, error)
}

// QueryHandler lists users.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns all users ordered by identifier.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (RegisteredUsers, error) {
	users, err := h.store.SelectUsers(ctx)
	if err != nil {
		return RegisteredUsers{}, err
	}

	return RegisteredUsers{Users: users, Count: len(users)}, nil
}
