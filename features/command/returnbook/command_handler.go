package returnbook

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/shell"
)

// Store defines the interface needed by the CommandHandler.
type Store interface {
	Transact(ctx context.Context, fn circulation.UnitOfWorkFunc) error
}

// Receipt is returned for a returned book and reports the computed fine.
type Receipt struct {
	shell.HandlerResult
	Settlement
}

// CommandHandler orchestrates the return workflow: Load -> Decide -> Write, all in one unit of work.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	store Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store) CommandHandler {
	return CommandHandler{store: store}
}

// Handle returns the book.
// It returns circulation.ErrNoSuchLoan if the user has not borrowed the book
// and circulation.ErrReturnBeforeIssue for a return date before the issue date.
// No state changes in both cases.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Receipt, error) {
	receipt := Receipt{HandlerResult: shell.NewHandlerResult(ctx, command)}

	err := h.store.Transact(ctx, func(ctx context.Context, uow circulation.UnitOfWork) error {
		// Load phase
		loan, found, err := uow.FindOutstandingLoan(ctx, command.UserID, command.BookID)
		if err != nil {
			return err
		}

		// Business logic phase
		settlement, err := Decide(loan, found, command)
		if err != nil {
			return err
		}

		// Write phase
		if err = uow.MarkBookReturned(ctx, command.BookID); err != nil {
			return err
		}

		if err = uow.CloseLoan(ctx, settlement.Loan.ID, settlement.Loan.ReturnedOn); err != nil {
			return err
		}

		if settlement.FineCharged() {
			if err = uow.InsertPayment(ctx, settlement.Payment()); err != nil {
				return err
			}
		}

		receipt.Settlement = settlement

		return nil
	})
	if err != nil {
		return Receipt{HandlerResult: receipt.HandlerResult}, err
	}

	return receipt, nil
}
