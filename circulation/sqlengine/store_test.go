package sqlengine_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/library-circulation-go/circulation"
	. "github.com/AntonStoeckl/library-circulation-go/circulation/sqlengine"
	"github.com/AntonStoeckl/library-circulation-go/shell/config"
	"github.com/AntonStoeckl/library-circulation-go/testutil/helper"
	"github.com/AntonStoeckl/library-circulation-go/testutil/helper/storewrapper"
)

func Test_NewStore_Rejects_NilConnection(t *testing.T) {
	_, sqlDBErr := NewStoreFromSQLDB(nil)
	_, sqlxErr := NewStoreFromSQLX(nil)
	_, pgxErr := NewStoreFromPGXPool(nil)

	assert.ErrorIs(t, sqlDBErr, ErrNilDatabaseConnection)
	assert.ErrorIs(t, sqlxErr, ErrNilDatabaseConnection)
	assert.ErrorIs(t, pgxErr, ErrNilDatabaseConnection)
}

func Test_NewStore_Rejects_UnsupportedDialect(t *testing.T) {
	// arrange
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// act
	_, storeErr := NewStoreFromSQLDB(db, WithDialect("mysql"))

	// assert
	assert.ErrorIs(t, storeErr, ErrUnsupportedDialect)
}

func Test_NewStore_DefaultsToSQLiteDialect(t *testing.T) {
	// arrange
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// act
	store, storeErr := NewStoreFromSQLX(db)

	// assert
	require.NoError(t, storeErr)
	assert.Equal(t, DialectSQLite, store.Dialect())
}

func Test_Initialize_IsIdempotent(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			userID := helper.GivenUserID(t)
			helper.GivenUserWasRegistered(t, ctx, store, userID, "Ada")

			// act
			err := store.Initialize(ctx)

			// assert
			assert.NoError(t, err, "initializing twice should not fail")
			users, selectErr := store.SelectUsers(ctx)
			assert.NoError(t, selectErr)
			assert.Len(t, users, 1, "initializing should keep existing rows")
		})
	}
}

func Test_Initialize_Upgrades_LegacyPaymentsTable(t *testing.T) {
	// arrange
	ctx := context.Background()
	db, err := config.SQLiteSQLDB(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	givenLegacyLibraryDatabase(t, ctx, db)
	store, err := NewStoreFromSQLDB(db)
	require.NoError(t, err)

	// act
	initErr := store.Initialize(ctx)
	secondInitErr := store.Initialize(ctx)

	// assert
	require.NoError(t, initErr)
	assert.NoError(t, secondInitErr, "initializing an upgraded database should be a no-op")

	loan := givenLoanWasReturned(t, ctx, store, "1", "B1", helper.FixtureDay(1), helper.FixtureDay(6), 50)
	history, historyErr := store.SelectHistory(ctx, "1")
	assert.NoError(t, historyErr)
	assert.Equal(t, []HistoryEntry{
		{TransactionID: 1, BookID: "B1", Title: "Dune", IssuedOn: helper.FixtureDay(1), ReturnedOn: helper.FixtureDay(2)},
		{TransactionID: loan.ID, BookID: "B1", Title: "Dune", IssuedOn: helper.FixtureDay(1), ReturnedOn: helper.FixtureDay(6), Fine: 50},
	}, history, "unlinked legacy payments should not be attributed to any loan")

	payments, paymentsErr := store.SelectPayments(ctx, "1")
	assert.NoError(t, paymentsErr)
	assert.Equal(t, []Payment{
		{UserID: "1", Fine: 30},
		{UserID: "1", Fine: 50, TransactionID: loan.ID},
	}, payments, "the legacy payment should be kept without a loan")
}

func Test_InsertUser_And_SelectUsers(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()

			// act
			assert.NoError(t, store.InsertUser(ctx, User{ID: "10", Name: "Barbara"}))
			assert.NoError(t, store.InsertUser(ctx, User{ID: "2", Name: "Grace"}))
			assert.NoError(t, store.InsertUser(ctx, User{ID: "1", Name: "Ada"}))
			users, err := store.SelectUsers(ctx)

			// assert
			assert.NoError(t, err)
			assert.Equal(t,
				[]User{{ID: "1", Name: "Ada"}, {ID: "2", Name: "Grace"}, {ID: "10", Name: "Barbara"}},
				users,
				"numeric ids should be listed in numeric order",
			)
		})
	}
}

func Test_SelectUsers_Returns_EmptySlice_ForEmptyStore(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			store := storewrapper.CreateWrapper(t, adapter).GetStore()

			// act
			users, err := store.SelectUsers(context.Background())

			// assert
			assert.NoError(t, err)
			assert.NotNil(t, users)
			assert.Empty(t, users)
		})
	}
}

func Test_InsertUser_Rejects_DuplicateID(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			userID := helper.GivenUserID(t)
			helper.GivenUserWasRegistered(t, ctx, store, userID, "Ada")

			// act
			err := store.InsertUser(ctx, User{ID: userID, Name: "Somebody else"})

			// assert
			assert.ErrorIs(t, err, ErrDuplicateKey)
			users, selectErr := store.SelectUsers(ctx)
			assert.NoError(t, selectErr)
			assert.Equal(t, []User{{ID: userID, Name: "Ada"}}, users, "the original user should be unchanged")
		})
	}
}

func Test_InsertBook_Rejects_DuplicateID(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			bookID := helper.GivenBookID(t)
			helper.GivenBookWasAdded(t, ctx, store, bookID, "Learning Domain-Driven Design")

			// act
			err := store.InsertBook(ctx, Book{ID: bookID, Title: "Other", Author: "Other"})

			// assert
			assert.ErrorIs(t, err, ErrDuplicateKey)
			book, found, findErr := store.FindBook(ctx, bookID)
			assert.NoError(t, findErr)
			assert.True(t, found)
			assert.Equal(t, "Learning Domain-Driven Design", book.Title)
		})
	}
}

func Test_InsertBook_Adds_AvailableBook(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			bookID := helper.GivenBookID(t)

			// act
			err := store.InsertBook(ctx, Book{ID: bookID, Title: "Dune", Author: "Frank Herbert", Issued: true})

			// assert
			assert.NoError(t, err)
			book, found, findErr := store.FindBook(ctx, bookID)
			assert.NoError(t, findErr)
			assert.True(t, found)
			assert.Equal(t, Book{ID: bookID, Title: "Dune", Author: "Frank Herbert", Issued: false}, book)
		})
	}
}

func Test_FindBook_Reports_NotFound(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			store := storewrapper.CreateWrapper(t, adapter).GetStore()

			// act
			_, found, err := store.FindBook(context.Background(), helper.GivenBookID(t))

			// assert
			assert.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func Test_Transact_MarkBookIssued_Rejects_BookOnLoan(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			userID, bookID := helper.GivenUserID(t), helper.GivenBookID(t)
			helper.GivenUserWasRegistered(t, ctx, store, userID, "Ada")
			helper.GivenBookWasAdded(t, ctx, store, bookID, "Dune")
			helper.GivenBookWasIssued(t, ctx, store, userID, bookID, helper.FixtureDay(1))

			// act
			err := store.Transact(ctx, func(ctx context.Context, uow UnitOfWork) error {
				return uow.MarkBookIssued(ctx, bookID)
			})

			// assert
			assert.ErrorIs(t, err, ErrNotAvailable)
		})
	}
}

func Test_Transact_MarkBookIssued_Rejects_UnknownBook(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			bookID := helper.GivenBookID(t)

			// act
			err := store.Transact(context.Background(), func(ctx context.Context, uow UnitOfWork) error {
				return uow.MarkBookIssued(ctx, bookID)
			})

			// assert
			assert.ErrorIs(t, err, ErrNotAvailable)
		})
	}
}

func Test_Transact_RollsBack_AllWrites_OnError(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			userID, bookID := helper.GivenUserID(t), helper.GivenBookID(t)
			helper.GivenUserWasRegistered(t, ctx, store, userID, "Ada")
			helper.GivenBookWasAdded(t, ctx, store, bookID, "Dune")
			errFailingStep := errors.New("failing step")

			// act
			err := store.Transact(ctx, func(ctx context.Context, uow UnitOfWork) error {
				if markErr := uow.MarkBookIssued(ctx, bookID); markErr != nil {
					return markErr
				}

				if _, insertErr := uow.InsertLoan(ctx, userID, bookID, helper.FixtureDay(1)); insertErr != nil {
					return insertErr
				}

				return errFailingStep
			})

			// assert
			assert.ErrorIs(t, err, errFailingStep, "the error of the unit of work should be returned unchanged")
			book, _, findErr := store.FindBook(ctx, bookID)
			assert.NoError(t, findErr)
			assert.False(t, book.Issued, "the issued flag should be rolled back")
			history, historyErr := store.SelectHistory(ctx, userID)
			assert.NoError(t, historyErr)
			assert.Empty(t, history, "the loan should be rolled back")
		})
	}
}

func Test_Transact_RollsBack_WhenUnitOfWorkPanics(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			userID, bookID := helper.GivenUserID(t), helper.GivenBookID(t)
			helper.GivenUserWasRegistered(t, ctx, store, userID, "Ada")
			helper.GivenBookWasAdded(t, ctx, store, bookID, "Dune")

			// act
			transact := func() {
				_ = store.Transact(ctx, func(ctx context.Context, uow UnitOfWork) error {
					if markErr := uow.MarkBookIssued(ctx, bookID); markErr != nil {
						return markErr
					}

					panic("unit of work failed")
				})
			}

			// assert
			assert.PanicsWithValue(t, "unit of work failed", transact)
			book, _, findErr := store.FindBook(ctx, bookID)
			assert.NoError(t, findErr)
			assert.False(t, book.Issued, "the issued flag should be rolled back")
			loan := helper.GivenBookWasIssued(t, ctx, store, userID, bookID, helper.FixtureDay(1))
			assert.Equal(t, bookID, loan.BookID, "the store should accept new transactions")
		})
	}
}

func Test_Transact_InsertLoan_Rejects_UnknownUser(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			bookID := helper.GivenBookID(t)
			helper.GivenBookWasAdded(t, ctx, store, bookID, "Dune")

			// act
			err := store.Transact(ctx, func(ctx context.Context, uow UnitOfWork) error {
				if markErr := uow.MarkBookIssued(ctx, bookID); markErr != nil {
					return markErr
				}

				_, insertErr := uow.InsertLoan(ctx, helper.GivenUserID(t), bookID, helper.FixtureDay(1))

				return insertErr
			})

			// assert
			assert.ErrorIs(t, err, ErrUnknownUser)
			book, _, findErr := store.FindBook(ctx, bookID)
			assert.NoError(t, findErr)
			assert.False(t, book.Issued, "the book should stay available")
		})
	}
}

func Test_Transact_FindOutstandingLoan(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			userID, otherUserID, bookID := helper.GivenUserID(t), helper.GivenUserID(t), helper.GivenBookID(t)
			helper.GivenUserWasRegistered(t, ctx, store, userID, "Ada")
			helper.GivenUserWasRegistered(t, ctx, store, otherUserID, "Grace")
			helper.GivenBookWasAdded(t, ctx, store, bookID, "Dune")
			issuedLoan := helper.GivenBookWasIssued(t, ctx, store, userID, bookID, helper.FixtureDay(3))

			var loan, otherLoan LoanTransaction
			var found, otherFound bool

			// act
			err := store.Transact(ctx, func(ctx context.Context, uow UnitOfWork) error {
				var findErr error
				if loan, found, findErr = uow.FindOutstandingLoan(ctx, userID, bookID); findErr != nil {
					return findErr
				}

				otherLoan, otherFound, findErr = uow.FindOutstandingLoan(ctx, otherUserID, bookID)

				return findErr
			})

			// assert
			assert.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, issuedLoan, loan)
			assert.Equal(t, helper.FixtureDay(3), loan.IssuedOn)
			assert.True(t, loan.IsOutstanding())
			assert.False(t, otherFound, "another user's lookup should not match the loan")
			assert.Equal(t, LoanTransaction{}, otherLoan)
		})
	}
}

func Test_Transact_CloseLoan_Rejects_ClosedLoan(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			userID, bookID := helper.GivenUserID(t), helper.GivenBookID(t)
			helper.GivenUserWasRegistered(t, ctx, store, userID, "Ada")
			helper.GivenBookWasAdded(t, ctx, store, bookID, "Dune")
			loan := helper.GivenBookWasIssued(t, ctx, store, userID, bookID, helper.FixtureDay(1))
			closeLoan := func(ctx context.Context, uow UnitOfWork) error {
				return uow.CloseLoan(ctx, loan.ID, helper.FixtureDay(2))
			}
			require.NoError(t, store.Transact(ctx, closeLoan))

			// act
			err := store.Transact(ctx, closeLoan)

			// assert
			assert.ErrorIs(t, err, ErrNoSuchLoan)
		})
	}
}

func Test_SelectHistory_Joins_TitleAndFine_PerLoan(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			userID, bookID := helper.GivenUserID(t), helper.GivenBookID(t)
			helper.GivenUserWasRegistered(t, ctx, store, userID, "Ada")
			helper.GivenBookWasAdded(t, ctx, store, bookID, "Dune")

			first := givenLoanWasReturned(t, ctx, store, userID, bookID, helper.FixtureDay(1), helper.FixtureDay(6), 50)
			second := givenLoanWasReturned(t, ctx, store, userID, bookID, helper.FixtureDay(7), helper.FixtureDay(9), 20)
			third := helper.GivenBookWasIssued(t, ctx, store, userID, bookID, helper.FixtureDay(10))

			// act
			history, err := store.SelectHistory(ctx, userID)

			// assert
			assert.NoError(t, err)
			assert.Equal(t, []HistoryEntry{
				{TransactionID: first.ID, BookID: bookID, Title: "Dune", IssuedOn: helper.FixtureDay(1), ReturnedOn: helper.FixtureDay(6), Fine: 50},
				{TransactionID: second.ID, BookID: bookID, Title: "Dune", IssuedOn: helper.FixtureDay(7), ReturnedOn: helper.FixtureDay(9), Fine: 20},
				{TransactionID: third.ID, BookID: bookID, Title: "Dune", IssuedOn: helper.FixtureDay(10)},
			}, history, "each loan should appear once with its own fine")
		})
	}
}

func Test_SelectHistory_Returns_EmptySlice_ForUserWithoutLoans(t *testing.T) {
	for _, adapter := range storewrapper.Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// arrange
			ctx := context.Background()
			store := storewrapper.CreateWrapper(t, adapter).GetStore()
			userID := helper.GivenUserID(t)
			helper.GivenUserWasRegistered(t, ctx, store, userID, "Ada")

			// act
			history, err := store.SelectHistory(ctx, userID)

			// assert
			assert.NoError(t, err)
			assert.NotNil(t, history)
			assert.Empty(t, history)
		})
	}
}

func Test_Store_Logs_SQLAndOperations(t *testing.T) {
	// arrange
	ctx := context.Background()
	logHandler := helper.NewLogHandlerSpy(false)
	logger := slog.New(logHandler)
	store := storewrapper.CreateWrapperWithTestConfig(t, WithLogger(logger)).GetStore()
	userID := helper.GivenUserID(t)

	// act
	err := store.InsertUser(ctx, User{ID: userID, Name: "Ada"})
	duplicateErr := store.InsertUser(ctx, User{ID: userID, Name: "Ada"})

	// assert
	assert.NoError(t, err)
	assert.ErrorIs(t, duplicateErr, ErrDuplicateKey)
	assert.True(t, logHandler.HasDebugLogWithDurationMS("executed sql for: insert_user"), "debug log with sql and duration expected")
	assert.True(t, logHandler.HasLogWithAttr(slog.LevelInfo, "circulation store operation: insert_user", "user_id"), "info log for the insert expected")
	assert.True(t, logHandler.HasLog(slog.LevelInfo, "circulation store operation: duplicate identifier rejected"), "duplicate should be logged at info level")
	assert.False(t, logHandler.HasLogWithPrefix(slog.LevelError, ""), "a duplicate is no database failure")
}

func Test_Store_Logs_WithContextualLogger(t *testing.T) {
	// arrange
	ctx := context.Background()
	logHandler := helper.NewLogHandlerSpy(false)
	store := storewrapper.CreateWrapperWithTestConfig(t, WithContextualLogger(slog.New(logHandler))).GetStore()

	// act
	_, err := store.SelectUsers(ctx)

	// assert
	assert.NoError(t, err)
	assert.True(t, logHandler.HasLogWithAttr(slog.LevelInfo, "circulation store operation: select_users", "row_count"))
}

func Test_Store_Records_Metrics(t *testing.T) {
	// arrange
	ctx := context.Background()
	metrics := helper.NewMetricsCollectorSpy()
	store := storewrapper.CreateWrapperWithTestConfig(t, WithMetrics(metrics)).GetStore()
	bookID := helper.GivenBookID(t)

	// act
	_, _ = store.SelectUsers(ctx)
	rejectedErr := store.Transact(ctx, func(ctx context.Context, uow UnitOfWork) error {
		return uow.MarkBookIssued(ctx, bookID)
	})

	// assert
	assert.ErrorIs(t, rejectedErr, ErrNotAvailable)
	assert.True(t, metrics.HasDurationRecord(
		"circulation_store_statement_duration_seconds",
		map[string]string{"operation": "select_users", "status": "success"},
	))
	assert.True(t, metrics.HasValueRecord(
		"circulation_store_rows_returned",
		0,
		map[string]string{"operation": "select_users"},
	))
	assert.Equal(t, 1, metrics.CountCounterRecords(
		"circulation_store_transactions_total",
		map[string]string{"status": "rejected"},
	))
}

func givenLoanWasReturned(
	t testing.TB,
	ctx context.Context,
	store Store,
	userID UserID,
	bookID BookID,
	issuedOn, returnedOn Date,
	fine int,
) LoanTransaction {

	t.Helper()

	loan := helper.GivenBookWasIssued(t, ctx, store, userID, bookID, issuedOn)

	err := store.Transact(ctx, func(ctx context.Context, uow UnitOfWork) error {
		if err := uow.MarkBookReturned(ctx, bookID); err != nil {
			return err
		}

		if err := uow.CloseLoan(ctx, loan.ID, returnedOn); err != nil {
			return err
		}

		return uow.InsertPayment(ctx, Payment{UserID: userID, Fine: fine, TransactionID: loan.ID})
	})
	require.NoError(t, err, "error in arranging test data")

	return loan
}

// givenLegacyLibraryDatabase creates the tables the way databases written before payments were linked to loans look,
// with one returned loan and one unlinked payment.
func givenLegacyLibraryDatabase(t testing.TB, ctx context.Context, db *sql.DB) {
	t.Helper()

	statements := []string{
		`CREATE TABLE books (book_id TEXT PRIMARY KEY, title TEXT, author TEXT, issued INTEGER DEFAULT 0)`,
		`CREATE TABLE users (user_id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE transactions (
			transaction_id INTEGER PRIMARY KEY,
			user_id INTEGER,
			book_id TEXT,
			date_issued TEXT,
			date_returned TEXT,
			FOREIGN KEY (user_id) REFERENCES users(user_id),
			FOREIGN KEY (book_id) REFERENCES books(book_id)
		)`,
		`CREATE TABLE payments (user_id INTEGER, fine INTEGER, FOREIGN KEY (user_id) REFERENCES users(user_id))`,
		`INSERT INTO users (user_id, name) VALUES (1, 'Ada')`,
		`INSERT INTO books (book_id, title, author, issued) VALUES ('B1', 'Dune', 'Frank Herbert', 0)`,
		`INSERT INTO transactions (user_id, book_id, date_issued, date_returned) VALUES (1, 'B1', '2024-01-01', '2024-01-02')`,
		`INSERT INTO payments (user_id, fine) VALUES (1, 30)`,
	}

	for _, statement := range statements {
		_, err := db.ExecContext(ctx, statement)
		require.NoError(t, err, "error in arranging test data")
	}
}
