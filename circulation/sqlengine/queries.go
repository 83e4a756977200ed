package sqlengine

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/sqlengine/internal/adapters"
)

const (
	tableBooks        = "books"
	tableUsers        = "users"
	tableTransactions = "transactions"
	tablePayments     = "payments"
	colBookID         = "book_id"
	colTitle          = "title"
	colAuthor         = "author"
	colIssued         = "issued"
	colUserID         = "user_id"
	colName           = "name"
	colTransactionID  = "transaction_id"
	colDateIssued     = "date_issued"
	colDateReturned   = "date_returned"
	colFine           = "fine"
	aliasTransactions = "t"
	aliasBooks        = "b"
	aliasPayments     = "p"
)

func (s Store) buildInsertUser(user circulation.User) (string, error) {
	sqlQuery, _, err := s.builder().
		Insert(tableUsers).
		Rows(goqu.Record{
			colUserID: user.ID.String(),
			colName:   user.Name,
		}).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildInsertBook(book circulation.Book) (string, error) {
	sqlQuery, _, err := s.builder().
		Insert(tableBooks).
		Rows(goqu.Record{
			colBookID: book.ID.String(),
			colTitle:  book.Title,
			colAuthor: book.Author,
			colIssued: false,
		}).
		ToSQL()

	return sqlQuery, err
}

// buildSelectUsers orders by identifier length first, numeric identifiers list in numeric order.
func (s Store) buildSelectUsers() (string, error) {
	sqlQuery, _, err := s.builder().
		From(tableUsers).
		Select(colUserID, colName).
		Order(
			goqu.Func("LENGTH", goqu.C(colUserID)).Asc(),
			goqu.C(colUserID).Asc(),
		).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildSelectHistory(userID circulation.UserID) (string, error) {
	t := goqu.T(aliasTransactions)
	b := goqu.T(aliasBooks)
	p := goqu.T(aliasPayments)

	sqlQuery, _, err := s.builder().
		From(goqu.T(tableTransactions).As(aliasTransactions)).
		LeftJoin(
			goqu.T(tableBooks).As(aliasBooks),
			goqu.On(b.Col(colBookID).Eq(t.Col(colBookID))),
		).
		LeftJoin(
			goqu.T(tablePayments).As(aliasPayments),
			goqu.On(p.Col(colTransactionID).Eq(t.Col(colTransactionID))),
		).
		Select(
			t.Col(colTransactionID),
			t.Col(colBookID),
			b.Col(colTitle),
			t.Col(colDateIssued),
			t.Col(colDateReturned),
			p.Col(colFine),
		).
		Where(t.Col(colUserID).Eq(userID.String())).
		Order(t.Col(colTransactionID).Asc()).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildFindBook(bookID circulation.BookID) (string, error) {
	sqlQuery, _, err := s.builder().
		From(tableBooks).
		Select(colBookID, colTitle, colAuthor, colIssued).
		Where(goqu.C(colBookID).Eq(bookID.String())).
		Limit(1).
		ToSQL()

	return sqlQuery, err
}

// buildFindOutstandingLoan selects the oldest loan of the book to the user that has no return date.
func (s Store) buildFindOutstandingLoan(userID circulation.UserID, bookID circulation.BookID) (string, error) {
	sqlQuery, _, err := s.builder().
		From(tableTransactions).
		Select(colTransactionID, colUserID, colBookID, colDateIssued, colDateReturned).
		Where(
			goqu.C(colUserID).Eq(userID.String()),
			goqu.C(colBookID).Eq(bookID.String()),
			goqu.C(colDateReturned).IsNull(),
		).
		Order(goqu.C(colTransactionID).Asc()).
		Limit(1).
		ToSQL()

	return sqlQuery, err
}

// buildLatestLoanID selects the newest outstanding loan of the book to the user.
// It reads back the id of a loan inserted in the same transaction, the sqlite3 dialect has no RETURNING.
func (s Store) buildLatestLoanID(userID circulation.UserID, bookID circulation.BookID) (string, error) {
	sqlQuery, _, err := s.builder().
		From(tableTransactions).
		Select(colTransactionID).
		Where(
			goqu.C(colUserID).Eq(userID.String()),
			goqu.C(colBookID).Eq(bookID.String()),
			goqu.C(colDateReturned).IsNull(),
		).
		Order(goqu.C(colTransactionID).Desc()).
		Limit(1).
		ToSQL()

	return sqlQuery, err
}

// buildMarkBookIssued flips the issued flag only if it is currently false.
// Zero affected rows mean the book is missing or already on loan.
func (s Store) buildMarkBookIssued(bookID circulation.BookID) (string, error) {
	sqlQuery, _, err := s.builder().
		Update(tableBooks).
		Set(goqu.Record{colIssued: true}).
		Where(
			goqu.C(colBookID).Eq(bookID.String()),
			goqu.C(colIssued).IsFalse(),
		).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildMarkBookReturned(bookID circulation.BookID) (string, error) {
	sqlQuery, _, err := s.builder().
		Update(tableBooks).
		Set(goqu.Record{colIssued: false}).
		Where(goqu.C(colBookID).Eq(bookID.String())).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildInsertLoan(userID circulation.UserID, bookID circulation.BookID, issuedOn circulation.Date) (string, error) {
	sqlQuery, _, err := s.builder().
		Insert(tableTransactions).
		Rows(goqu.Record{
			colUserID:     userID.String(),
			colBookID:     bookID.String(),
			colDateIssued: issuedOn.String(),
		}).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildCloseLoan(transactionID int64, returnedOn circulation.Date) (string, error) {
	sqlQuery, _, err := s.builder().
		Update(tableTransactions).
		Set(goqu.Record{colDateReturned: returnedOn.String()}).
		Where(
			goqu.C(colTransactionID).Eq(transactionID),
			goqu.C(colDateReturned).IsNull(),
		).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildInsertPayment(payment circulation.Payment) (string, error) {
	sqlQuery, _, err := s.builder().
		Insert(tablePayments).
		Rows(goqu.Record{
			colUserID:        payment.UserID.String(),
			colFine:          payment.Fine,
			colTransactionID: payment.TransactionID,
		}).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildSelectPayments(userID circulation.UserID) (string, error) {
	sqlQuery, _, err := s.builder().
		From(tablePayments).
		Select(colUserID, colFine, colTransactionID).
		Where(goqu.C(colUserID).Eq(userID.String())).
		Order(goqu.C(colTransactionID).Asc()).
		ToSQL()

	return sqlQuery, err
}

// findBook is shared by the Store and the unit of work, exec is either the pool or the open transaction.
func (s Store) findBook(ctx context.Context, exec adapters.Executor, bookID circulation.BookID) (
	circulation.Book,
	bool,
	error,
) {

	sqlQuery, err := s.buildFindBook(bookID)
	if err != nil {
		return circulation.Book{}, false, s.buildFailed(ctx, operationFindBook, err)
	}

	rows, _, queryErr := s.queryRows(ctx, exec, operationFindBook, sqlQuery)
	if queryErr != nil {
		return circulation.Book{}, false, queryErr
	}
	defer s.closeRows(ctx, rows)

	if !rows.Next() {
		if iterErr := rows.Err(); iterErr != nil {
			return circulation.Book{}, false, s.scanFailed(ctx, operationFindBook, iterErr)
		}

		return circulation.Book{}, false, nil
	}

	var id, title, author string
	var issued bool
	if scanErr := rows.Scan(&id, &title, &author, &issued); scanErr != nil {
		return circulation.Book{}, false, s.scanFailed(ctx, operationFindBook, scanErr)
	}

	book := circulation.Book{
		ID:     circulation.BookID(id),
		Title:  title,
		Author: author,
		Issued: issued,
	}

	return book, true, nil
}

func (s Store) scanLoan(rows adapters.DBRows) (circulation.LoanTransaction, error) {
	var id int64
	var userID, bookID, dateIssued string
	var dateReturned sql.NullString

	if err := rows.Scan(&id, &userID, &bookID, &dateIssued, &dateReturned); err != nil {
		return circulation.LoanTransaction{}, err
	}

	issuedOn, err := circulation.ParseDate(dateIssued)
	if err != nil {
		return circulation.LoanTransaction{}, err
	}

	returnedOn, err := parseNullableDate(dateReturned)
	if err != nil {
		return circulation.LoanTransaction{}, err
	}

	loan := circulation.LoanTransaction{
		ID:         id,
		UserID:     circulation.UserID(userID),
		BookID:     circulation.BookID(bookID),
		IssuedOn:   issuedOn,
		ReturnedOn: returnedOn,
	}

	return loan, nil
}

func (s Store) scanHistoryEntry(rows adapters.DBRows) (circulation.HistoryEntry, error) {
	var transactionID int64
	var bookID, dateIssued string
	var title, dateReturned sql.NullString
	var fine sql.NullInt64

	if err := rows.Scan(&transactionID, &bookID, &title, &dateIssued, &dateReturned, &fine); err != nil {
		return circulation.HistoryEntry{}, err
	}

	issuedOn, err := circulation.ParseDate(dateIssued)
	if err != nil {
		return circulation.HistoryEntry{}, err
	}

	returnedOn, err := parseNullableDate(dateReturned)
	if err != nil {
		return circulation.HistoryEntry{}, err
	}

	entry := circulation.HistoryEntry{
		TransactionID: transactionID,
		BookID:        circulation.BookID(bookID),
		Title:         title.String,
		IssuedOn:      issuedOn,
		ReturnedOn:    returnedOn,
		Fine:          int(fine.Int64),
	}

	return entry, nil
}

func parseNullableDate(value sql.NullString) (circulation.Date, error) {
	if !value.Valid || value.String == "" {
		return circulation.Date{}, nil
	}

	return circulation.ParseDate(value.String)
}
