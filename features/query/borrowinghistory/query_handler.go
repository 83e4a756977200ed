package borrowinghistory

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// Store defines the interface needed by the QueryHandler.
type Store interface {
	SelectHistory(ctx context.Context, userID circulation.UserID) ([]circulation.HistoryEntry, error)
}

// QueryHandler orchestrates the query workflow: Select -> Project.
type QueryHandler struct {
	store Store
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store Store) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the borrowing history of the user. An unknown user has an empty history.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BorrowingHistory, error) {
	entries, err := h.store.SelectHistory(ctx, query.UserID)
	if err != nil {
		return BorrowingHistory{}, err
	}

	return ProjectBorrowingHistory(entries, query), nil
}
