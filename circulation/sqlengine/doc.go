// Package sqlengine provides a relational implementation of the circulation ledger.
//
// The Store keeps books, users, loan transactions, and payments in four tables and supports
// SQLite (modernc.org/sqlite, the default for local use) and PostgreSQL. Connections can be
// supplied as pgxpool.Pool, sql.DB, or sqlx.DB; all statements are built with goqu for the
// configured dialect.
//
// Circulation steps that touch several rows run through Transact, which hands a
// circulation.UnitOfWork bound to one database transaction to the caller:
//
//	err := store.Transact(ctx, func(ctx context.Context, uow circulation.UnitOfWork) error {
//		if err := uow.MarkBookIssued(ctx, bookID); err != nil {
//			return err // rolled back
//		}
//		_, err := uow.InsertLoan(ctx, userID, bookID, issuedOn)
//		return err
//	})
//
// Constraint violations reported by the drivers are mapped to circulation.ErrDuplicateKey
// and circulation.ErrUnknownUser. Issuing a book that is missing or already on loan is
// detected by a conditional update and reported as circulation.ErrNotAvailable.
//
// SQLite connections must enable foreign keys, e.g. with the DSN parameter "_pragma=foreign_keys(1)".
package sqlengine
