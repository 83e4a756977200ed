// Package circulation provides the core types and rules for a single-user library circulation ledger.
//
// This package defines the records kept by the ledger (books, users, loan transactions, payments),
// the fine calculation, the common sentinel errors, and the interfaces that storage
// implementations and observability adapters have to satisfy.
//
// Key types:
//   - BookID, UserID: validated identifiers
//   - Date: a calendar date without time-of-day, persisted as "YYYY-MM-DD"
//   - Book, User, LoanTransaction, Payment, HistoryEntry: the persisted records and the joined history view
//   - UnitOfWork: the reads and writes available inside one atomic circulation step
//
// Common usage pattern:
//
//	err := store.Transact(ctx, func(ctx context.Context, uow circulation.UnitOfWork) error {
//		book, found, err := uow.FindBook(ctx, bookID)
//		if err != nil {
//			return err
//		}
//		// decide, then write
//		return uow.MarkBookIssued(ctx, bookID)
//	})
package circulation
