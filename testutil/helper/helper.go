package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/sqlengine"
)

// GivenUniqueID returns a fresh identifier, so tests sharing a database don't collide.
func GivenUniqueID(t testing.TB) string {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id.String()
}

// GivenUserID builds a fresh UserID.
func GivenUserID(t testing.TB) circulation.UserID {
	t.Helper()

	userID, err := circulation.BuildUserID("U-" + GivenUniqueID(t))
	require.NoError(t, err, "error in arranging test data")

	return userID
}

// GivenBookID builds a fresh BookID.
func GivenBookID(t testing.TB) circulation.BookID {
	t.Helper()

	bookID, err := circulation.BuildBookID("B-" + GivenUniqueID(t))
	require.NoError(t, err, "error in arranging test data")

	return bookID
}

// GivenUserWasRegistered inserts a user.
func GivenUserWasRegistered(t testing.TB, ctx context.Context, store sqlengine.Store, userID circulation.UserID, name string) {
	t.Helper()

	err := store.InsertUser(ctx, circulation.User{ID: userID, Name: name})
	require.NoError(t, err, "error in arranging test data")
}

// GivenBookWasAdded inserts an available book.
func GivenBookWasAdded(t testing.TB, ctx context.Context, store sqlengine.Store, bookID circulation.BookID, title string) {
	t.Helper()

	err := store.InsertBook(ctx, circulation.Book{ID: bookID, Title: title, Author: "Vlad Khononov"})
	require.NoError(t, err, "error in arranging test data")
}

// GivenBookWasIssued issues the book to the user directly through a unit of work and returns the loan.
func GivenBookWasIssued(
	t testing.TB,
	ctx context.Context,
	store sqlengine.Store,
	userID circulation.UserID,
	bookID circulation.BookID,
	issuedOn circulation.Date,
) circulation.LoanTransaction {

	t.Helper()

	var loan circulation.LoanTransaction
	err := store.Transact(ctx, func(ctx context.Context, uow circulation.UnitOfWork) error {
		if err := uow.MarkBookIssued(ctx, bookID); err != nil {
			return err
		}

		var insertErr error
		loan, insertErr = uow.InsertLoan(ctx, userID, bookID, issuedOn)

		return insertErr
	})
	require.NoError(t, err, "error in arranging test data")

	return loan
}

// FixtureDay returns a date in January 2024.
func FixtureDay(day int) circulation.Date {
	return circulation.BuildDate(2024, time.January, day)
}

// FixtureTime returns a time on the given day in January 2024, late in the evening to catch date truncation bugs.
func FixtureTime(day int) time.Time {
	return time.Date(2024, time.January, day, 22, 45, 0, 0, time.UTC)
}
