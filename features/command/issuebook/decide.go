package issuebook

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// Decide determines whether the book can be issued. It is a pure function.
//
// Business Rules:
//
//	GIVEN: A book with BookID and a user with UserID
//	WHEN: IssueBook command is received
//	THEN: the book becomes issued and an outstanding loan is recorded
//	ERROR: ErrNotAvailable if the book does not exist
//	ERROR: ErrNotAvailable if the book is already issued, to this or any other user
func Decide(book circulation.Book, found bool, _ Command) error {
	if !found || book.Issued {
		return circulation.ErrNotAvailable
	}

	return nil
}
