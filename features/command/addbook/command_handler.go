package addbook

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// Store defines the interface needed by the CommandHandler.
type Store interface {
	InsertBook(ctx context.Context, book circulation.Book) error
}

// Receipt is returned for an added book.
type Receipt struct {
	shell.HandlerResult
	Book circulation.Book
}

// CommandHandler adds books to the catalog.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle inserts the book as available. A duplicate identifier returns circulation.ErrDuplicateKey.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Receipt, error) {
	book := circulation.Book{
		ID:     command.BookID,
		Title:  command.Title,
		Author: command.Author,
		Issued: false,
	}

	if err := h.store.InsertBook(ctx, book); err != nil {
		return Receipt{HandlerResult: shell.NewHandlerResult(ctx, command)}, err
	}

	return Receipt{HandlerResult: shell.NewHandlerResult(ctx, command), Book: book}, nil
}
