package circulation

import "context"

// UnitOfWork exposes the reads and writes of one atomic circulation step.
// All calls made through one UnitOfWork are committed together or not at all.
type UnitOfWork interface {
	// FindBook loads a book, found is false if it does not exist.
	FindBook(ctx context.Context, bookID BookID) (book Book, found bool, err error)

	// FindOutstandingLoan loads the oldest loan of bookID to userID that has not been returned.
	FindOutstandingLoan(ctx context.Context, userID UserID, bookID BookID) (loan LoanTransaction, found bool, err error)

	// MarkBookIssued flips an available book to issued, ErrNotAvailable if it was not available.
	MarkBookIssued(ctx context.Context, bookID BookID) error

	// MarkBookReturned flips the book back to available.
	MarkBookReturned(ctx context.Context, bookID BookID) error

	// InsertLoan creates an outstanding loan and returns it with its assigned identifier.
	InsertLoan(ctx context.Context, userID UserID, bookID BookID, issuedOn Date) (LoanTransaction, error)

	// CloseLoan sets the return date of a loan.
	CloseLoan(ctx context.Context, transactionID int64, returnedOn Date) error

	// InsertPayment appends a fine.
	InsertPayment(ctx context.Context, payment Payment) error
}

// UnitOfWorkFunc is the body of an atomic circulation step.
// Returning an error rolls back every write made through uow.
type UnitOfWorkFunc func(ctx context.Context, uow UnitOfWork) error
