package circulation

// Book is a catalog entry. Issued is true while the book is on loan.
type Book struct {
	ID     BookID
	Title  string
	Author string
	Issued bool
}

// User is a registered borrower.
type User struct {
	ID   UserID
	Name string
}

// LoanTransaction records one issue of a book to a user.
// A zero ReturnedOn means the loan is still outstanding.
type LoanTransaction struct {
	ID         int64
	UserID     UserID
	BookID     BookID
	IssuedOn   Date
	ReturnedOn Date
}

// IsOutstanding reports whether the book has not been returned yet.
func (l LoanTransaction) IsOutstanding() bool {
	return l.ReturnedOn.IsZero()
}

// Payment is a fine charged to a user for the overdue return of the referenced loan.
type Payment struct {
	UserID        UserID
	Fine          int
	TransactionID int64
}

// HistoryEntry is one loan of a user joined with the book title and the fine charged for it.
// Title is empty if the book record can't be found, Fine is zero if no fine was charged.
type HistoryEntry struct {
	TransactionID int64
	BookID        BookID
	Title         string
	IssuedOn      Date
	ReturnedOn    Date
	Fine          int
}
