package sqlengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/sqlengine/internal/adapters"
)

var errLoanNotReadBack = errors.New("inserted loan could not be read back")

// unitOfWork implements circulation.UnitOfWork on top of one open transaction.
type unitOfWork struct {
	store Store
	tx    adapters.TxAdapter
}

func (u unitOfWork) FindBook(ctx context.Context, bookID circulation.BookID) (circulation.Book, bool, error) {
	return u.store.findBook(ctx, u.tx, bookID)
}

func (u unitOfWork) FindOutstandingLoan(
	ctx context.Context,
	userID circulation.UserID,
	bookID circulation.BookID,
) (circulation.LoanTransaction, bool, error) {

	s := u.store

	sqlQuery, err := s.buildFindOutstandingLoan(userID, bookID)
	if err != nil {
		return circulation.LoanTransaction{}, false, s.buildFailed(ctx, operationFindLoan, err)
	}

	rows, _, queryErr := s.queryRows(ctx, u.tx, operationFindLoan, sqlQuery)
	if queryErr != nil {
		return circulation.LoanTransaction{}, false, queryErr
	}
	defer s.closeRows(ctx, rows)

	if !rows.Next() {
		if iterErr := rows.Err(); iterErr != nil {
			return circulation.LoanTransaction{}, false, s.scanFailed(ctx, operationFindLoan, iterErr)
		}

		return circulation.LoanTransaction{}, false, nil
	}

	loan, scanErr := s.scanLoan(rows)
	if scanErr != nil {
		return circulation.LoanTransaction{}, false, s.scanFailed(ctx, operationFindLoan, scanErr)
	}

	return loan, true, nil
}

func (u unitOfWork) MarkBookIssued(ctx context.Context, bookID circulation.BookID) error {
	s := u.store

	sqlQuery, err := s.buildMarkBookIssued(bookID)
	if err != nil {
		return s.buildFailed(ctx, operationMarkIssued, err)
	}

	rowsAffected, _, execErr := s.execStatement(ctx, u.tx, operationMarkIssued, sqlQuery)
	if execErr != nil {
		return execErr
	}

	if rowsAffected < 1 {
		s.logOperation(ctx, logMsgBookNotAvailable,
			logAttrBookID, bookID.String(),
			logAttrRowsAffected, rowsAffected)

		return circulation.ErrNotAvailable
	}

	return nil
}

func (u unitOfWork) MarkBookReturned(ctx context.Context, bookID circulation.BookID) error {
	s := u.store

	sqlQuery, err := s.buildMarkBookReturned(bookID)
	if err != nil {
		return s.buildFailed(ctx, operationMarkReturned, err)
	}

	_, _, execErr := s.execStatement(ctx, u.tx, operationMarkReturned, sqlQuery)

	return execErr
}

func (u unitOfWork) InsertLoan(
	ctx context.Context,
	userID circulation.UserID,
	bookID circulation.BookID,
	issuedOn circulation.Date,
) (circulation.LoanTransaction, error) {

	s := u.store

	sqlQuery, err := s.buildInsertLoan(userID, bookID, issuedOn)
	if err != nil {
		return circulation.LoanTransaction{}, s.buildFailed(ctx, operationInsertLoan, err)
	}

	_, duration, execErr := s.execStatement(ctx, u.tx, operationInsertLoan, sqlQuery)
	if execErr != nil {
		if classifyConstraintViolation(execErr) == foreignKeyViolation {
			return circulation.LoanTransaction{}, errors.Join(circulation.ErrUnknownUser, execErr)
		}

		return circulation.LoanTransaction{}, execErr
	}

	transactionID, readErr := u.latestLoanID(ctx, userID, bookID)
	if readErr != nil {
		return circulation.LoanTransaction{}, readErr
	}

	s.logOperation(ctx, operationInsertLoan,
		logAttrTransactionID, transactionID,
		logAttrUserID, userID.String(),
		logAttrBookID, bookID.String(),
		logAttrDurationMS, s.toMilliseconds(duration))

	loan := circulation.LoanTransaction{
		ID:       transactionID,
		UserID:   userID,
		BookID:   bookID,
		IssuedOn: issuedOn,
	}

	return loan, nil
}

func (u unitOfWork) latestLoanID(ctx context.Context, userID circulation.UserID, bookID circulation.BookID) (int64, error) {
	s := u.store

	sqlQuery, err := s.buildLatestLoanID(userID, bookID)
	if err != nil {
		return 0, s.buildFailed(ctx, operationInsertLoan, err)
	}

	rows, _, queryErr := s.queryRows(ctx, u.tx, operationInsertLoan, sqlQuery)
	if queryErr != nil {
		return 0, queryErr
	}
	defer s.closeRows(ctx, rows)

	if !rows.Next() {
		if iterErr := rows.Err(); iterErr != nil {
			return 0, s.scanFailed(ctx, operationInsertLoan, iterErr)
		}

		return 0, s.scanFailed(ctx, operationInsertLoan, errLoanNotReadBack)
	}

	var transactionID int64
	if scanErr := rows.Scan(&transactionID); scanErr != nil {
		return 0, s.scanFailed(ctx, operationInsertLoan, scanErr)
	}

	return transactionID, nil
}

func (u unitOfWork) CloseLoan(ctx context.Context, transactionID int64, returnedOn circulation.Date) error {
	s := u.store

	sqlQuery, err := s.buildCloseLoan(transactionID, returnedOn)
	if err != nil {
		return s.buildFailed(ctx, operationCloseLoan, err)
	}

	rowsAffected, _, execErr := s.execStatement(ctx, u.tx, operationCloseLoan, sqlQuery)
	if execErr != nil {
		return execErr
	}

	if rowsAffected < 1 {
		return fmt.Errorf("loan %d: %w", transactionID, circulation.ErrNoSuchLoan)
	}

	s.logOperation(ctx, operationCloseLoan,
		logAttrTransactionID, transactionID)

	return nil
}

func (u unitOfWork) InsertPayment(ctx context.Context, payment circulation.Payment) error {
	s := u.store

	sqlQuery, err := s.buildInsertPayment(payment)
	if err != nil {
		return s.buildFailed(ctx, operationInsertPayment, err)
	}

	if _, _, execErr := s.execStatement(ctx, u.tx, operationInsertPayment, sqlQuery); execErr != nil {
		return execErr
	}

	s.logOperation(ctx, operationInsertPayment,
		logAttrUserID, payment.UserID.String(),
		logAttrTransactionID, payment.TransactionID,
		logAttrFine, payment.Fine)

	return nil
}
