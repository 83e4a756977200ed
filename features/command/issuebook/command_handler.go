package issuebook

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// Store defines the interface needed by the CommandHandler.
type Store interface {
	Transact(ctx context.Context, fn circulation.UnitOfWorkFunc) error
}

// Receipt is returned for an issued book and carries the new loan.
type Receipt struct {
	shell.HandlerResult
	Loan circulation.LoanTransaction
}

// CommandHandler orchestrates the issue workflow: Load -> Decide -> Write, all in one unit of work.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle issues the book.
// It returns circulation.ErrNotAvailable for a missing or already issued book
// and circulation.ErrUnknownUser for a user that is not registered. No state changes in both cases.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Receipt, error) {
	receipt := Receipt{HandlerResult: shell.NewHandlerResult(ctx, command)}

	err := h.store.Transact(ctx, func(ctx context.Context, uow circulation.UnitOfWork) error {
		// Load phase
		book, found, err := uow.FindBook(ctx, command.BookID)
		if err != nil {
			return err
		}

		// Business logic phase
		if err = Decide(book, found, command); err != nil {
			return err
		}

		// Write phase, the conditional update catches a concurrent issue of the same book
		if err = uow.MarkBookIssued(ctx, command.BookID); err != nil {
			return err
		}

		loan, err := uow.InsertLoan(ctx, command.UserID, command.BookID, command.IssuedOn)
		if err != nil {
			return err
		}

		receipt.Loan = loan

		return nil
	})
	if err != nil {
		return Receipt{HandlerResult: receipt.HandlerResult}, err
	}

	return receipt, nil
}
