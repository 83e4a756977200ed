package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/sqlengine/internal/adapters"
)

const (
	logMsgBuildQueryFailed      = "failed to build sql statement"
	logMsgDBQueryFailed         = "database query execution failed"
	logMsgDBExecFailed          = "database statement execution failed"
	logMsgCloseRowsFailed       = "failed to close database rows"
	logMsgScanRowFailed         = "failed to scan database row"
	logMsgRowsAffectedFailed    = "failed to get rows affected count"
	logMsgBeginFailed           = "failed to begin transaction"
	logMsgCommitFailed          = "failed to commit transaction"
	logMsgRollbackFailed        = "failed to roll back transaction"
	logMsgSchemaFailed          = "failed to initialize schema"
	logMsgSchemaUpgraded        = "added payments.transaction_id to legacy schema"
	logMsgDuplicateKey          = "duplicate identifier rejected"
	logMsgBookNotAvailable      = "book not available for issue"
	logMsgTransactionRolledBack = "transaction rolled back"
	logMsgSQLExecuted           = "executed sql for: "
	logMsgOperation             = "circulation store operation: "
	logAttrError                = "error"
	logAttrQuery                = "query"
	logAttrDurationMS           = "duration_ms"
	logAttrRowsAffected         = "rows_affected"
	logAttrRowCount             = "row_count"
	logAttrUserID               = "user_id"
	logAttrBookID               = "book_id"
	logAttrTransactionID        = "transaction_id"
	logAttrFine                 = "fine"
	logAttrDialect              = "dialect"
	operationInitialize         = "initialize"
	operationUpgradeSchema      = "upgrade_schema"
	operationInsertUser         = "insert_user"
	operationInsertBook         = "insert_book"
	operationSelectUsers        = "select_users"
	operationSelectHistory      = "select_history"
	operationSelectPayments     = "select_payments"
	operationFindBook           = "find_book"
	operationFindLoan           = "find_outstanding_loan"
	operationMarkIssued         = "mark_book_issued"
	operationMarkReturned       = "mark_book_returned"
	operationInsertLoan         = "insert_loan"
	operationCloseLoan          = "close_loan"
	operationInsertPayment      = "insert_payment"
	operationTransact           = "transact"
)

// Dialect names the SQL flavor a Store builds its statements for.
type Dialect string

// Supported dialects. The values are goqu dialect names.
const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// Store persists the circulation records in a relational database.
// It works on SQLite (modernc.org/sqlite) and PostgreSQL through pgxpool.Pool, sql.DB, or sqlx.DB.
type Store struct {
	db               adapters.DBAdapter
	dialect          Dialect
	logger           circulation.Logger
	contextualLogger circulation.ContextualLogger
	metricsCollector circulation.MetricsCollector
}

// NewStoreFromPGXPool creates a new PostgreSQL Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	s := Store{db: adapters.NewPGXAdapter(db), dialect: DialectPostgres}

	if err := s.apply(options); err != nil {
		return Store{}, err
	}

	if s.dialect != DialectPostgres {
		return Store{}, circulation.ErrUnsupportedDialect
	}

	return s, nil
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
// The dialect defaults to SQLite, use WithDialect(DialectPostgres) for a lib/pq or pgx stdlib connection.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	s := Store{db: adapters.NewSQLAdapter(db), dialect: DialectSQLite}

	if err := s.apply(options); err != nil {
		return Store{}, err
	}

	return s, nil
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
// The dialect defaults to SQLite, use WithDialect(DialectPostgres) for a PostgreSQL connection.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, circulation.ErrNilDatabaseConnection
	}

	s := Store{db: adapters.NewSQLXAdapter(db), dialect: DialectSQLite}

	if err := s.apply(options); err != nil {
		return Store{}, err
	}

	return s, nil
}

func (s *Store) apply(options []Option) error {
	for _, option := range options {
		if err := option(s); err != nil {
			return err
		}
	}

	return nil
}

// Dialect returns the SQL dialect the Store was configured with.
func (s Store) Dialect() Dialect {
	return s.dialect
}

// Initialize creates the books, users, transactions, and payments tables if they don't exist yet.
// A payments table without the transaction_id column gets it added, existing payments keep a NULL link.
// Running it against an initialized database is a no-op.
func (s Store) Initialize(ctx context.Context) error {
	statements, err := schemaFor(s.dialect)
	if err != nil {
		return err
	}

	start := time.Now()

	for _, statement := range statements {
		if _, _, execErr := s.execStatement(ctx, s.db, operationInitialize, statement); execErr != nil {
			s.logError(ctx, logMsgSchemaFailed, execErr, logAttrDialect, string(s.dialect))

			return errors.Join(circulation.ErrStorageUnavailable, circulation.ErrInitializingSchemaFailed, execErr)
		}
	}

	if upgradeErr := s.upgradeLegacySQLiteSchema(ctx); upgradeErr != nil {
		s.logError(ctx, logMsgSchemaFailed, upgradeErr, logAttrDialect, string(s.dialect))

		return errors.Join(circulation.ErrStorageUnavailable, circulation.ErrInitializingSchemaFailed, upgradeErr)
	}

	s.logOperation(ctx, operationInitialize,
		logAttrDialect, string(s.dialect),
		logAttrDurationMS, s.toMilliseconds(time.Since(start)))

	return nil
}

func (s Store) upgradeLegacySQLiteSchema(ctx context.Context) error {
	if s.dialect != DialectSQLite {
		return nil
	}

	linked, err := s.paymentsAreLinkedToLoans(ctx)
	if err != nil || linked {
		return err
	}

	if _, _, execErr := s.execStatement(ctx, s.db, operationUpgradeSchema, sqliteAddPaymentsLinkColumn); execErr != nil {
		return execErr
	}

	s.logOperation(ctx, logMsgSchemaUpgraded, logAttrDialect, string(s.dialect))

	return nil
}

func (s Store) paymentsAreLinkedToLoans(ctx context.Context) (bool, error) {
	rows, _, queryErr := s.queryRows(ctx, s.db, operationUpgradeSchema, sqliteCountPaymentsLinkColumn)
	if queryErr != nil {
		return false, queryErr
	}
	defer s.closeRows(ctx, rows)

	var columns int64
	if rows.Next() {
		if scanErr := rows.Scan(&columns); scanErr != nil {
			return false, s.scanFailed(ctx, operationUpgradeSchema, scanErr)
		}
	}

	if iterErr := rows.Err(); iterErr != nil {
		return false, s.scanFailed(ctx, operationUpgradeSchema, iterErr)
	}

	return columns > 0, nil
}

// InsertUser registers a new user, ErrDuplicateKey if the identifier is taken.
func (s Store) InsertUser(ctx context.Context, user circulation.User) error {
	sqlQuery, err := s.buildInsertUser(user)
	if err != nil {
		return s.buildFailed(ctx, operationInsertUser, err)
	}

	_, duration, execErr := s.execStatement(ctx, s.db, operationInsertUser, sqlQuery)
	if execErr != nil {
		if classifyConstraintViolation(execErr) == uniqueViolation {
			s.logOperation(ctx, logMsgDuplicateKey, logAttrUserID, user.ID.String())
			return errors.Join(circulation.ErrDuplicateKey, execErr)
		}

		return execErr
	}

	s.logOperation(ctx, operationInsertUser,
		logAttrUserID, user.ID.String(),
		logAttrDurationMS, s.toMilliseconds(duration))

	return nil
}

// InsertBook adds a new, available book to the catalog, ErrDuplicateKey if the identifier is taken.
func (s Store) InsertBook(ctx context.Context, book circulation.Book) error {
	sqlQuery, err := s.buildInsertBook(book)
	if err != nil {
		return s.buildFailed(ctx, operationInsertBook, err)
	}

	_, duration, execErr := s.execStatement(ctx, s.db, operationInsertBook, sqlQuery)
	if execErr != nil {
		if classifyConstraintViolation(execErr) == uniqueViolation {
			s.logOperation(ctx, logMsgDuplicateKey, logAttrBookID, book.ID.String())
			return errors.Join(circulation.ErrDuplicateKey, execErr)
		}

		return execErr
	}

	s.logOperation(ctx, operationInsertBook,
		logAttrBookID, book.ID.String(),
		logAttrDurationMS, s.toMilliseconds(duration))

	return nil
}

// SelectUsers returns all registered users ordered by identifier, numeric identifiers in numeric order.
func (s Store) SelectUsers(ctx context.Context) ([]circulation.User, error) {
	sqlQuery, err := s.buildSelectUsers()
	if err != nil {
		return nil, s.buildFailed(ctx, operationSelectUsers, err)
	}

	rows, duration, queryErr := s.queryRows(ctx, s.db, operationSelectUsers, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(ctx, rows)

	users := make([]circulation.User, 0)

	for rows.Next() {
		var id, name string
		if scanErr := rows.Scan(&id, &name); scanErr != nil {
			return nil, s.scanFailed(ctx, operationSelectUsers, scanErr)
		}

		users = append(users, circulation.User{ID: circulation.UserID(id), Name: name})
	}

	if iterErr := rows.Err(); iterErr != nil {
		return nil, s.scanFailed(ctx, operationSelectUsers, iterErr)
	}

	s.recordValueMetrics(ctx, metricRowsReturned, float64(len(users)), operationSelectUsers)
	s.logOperation(ctx, operationSelectUsers,
		logAttrRowCount, len(users),
		logAttrDurationMS, s.toMilliseconds(duration))

	return users, nil
}

// SelectHistory returns every loan of the user ordered by transaction id, joined with the book title
// and the fine charged for the loan.
func (s Store) SelectHistory(ctx context.Context, userID circulation.UserID) ([]circulation.HistoryEntry, error) {
	sqlQuery, err := s.buildSelectHistory(userID)
	if err != nil {
		return nil, s.buildFailed(ctx, operationSelectHistory, err)
	}

	rows, duration, queryErr := s.queryRows(ctx, s.db, operationSelectHistory, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(ctx, rows)

	history := make([]circulation.HistoryEntry, 0)

	for rows.Next() {
		entry, scanErr := s.scanHistoryEntry(rows)
		if scanErr != nil {
			return nil, s.scanFailed(ctx, operationSelectHistory, scanErr)
		}

		history = append(history, entry)
	}

	if iterErr := rows.Err(); iterErr != nil {
		return nil, s.scanFailed(ctx, operationSelectHistory, iterErr)
	}

	s.recordValueMetrics(ctx, metricRowsReturned, float64(len(history)), operationSelectHistory)
	s.logOperation(ctx, operationSelectHistory,
		logAttrUserID, userID.String(),
		logAttrRowCount, len(history),
		logAttrDurationMS, s.toMilliseconds(duration))

	return history, nil
}

// SelectPayments returns the fines charged to the user ordered by transaction id.
// Payments recorded before they were linked to a loan have a zero TransactionID.
func (s Store) SelectPayments(ctx context.Context, userID circulation.UserID) ([]circulation.Payment, error) {
	sqlQuery, err := s.buildSelectPayments(userID)
	if err != nil {
		return nil, s.buildFailed(ctx, operationSelectPayments, err)
	}

	rows, duration, queryErr := s.queryRows(ctx, s.db, operationSelectPayments, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(ctx, rows)

	payments := make([]circulation.Payment, 0)

	for rows.Next() {
		var id string
		var fine int
		var transactionID sql.NullInt64
		if scanErr := rows.Scan(&id, &fine, &transactionID); scanErr != nil {
			return nil, s.scanFailed(ctx, operationSelectPayments, scanErr)
		}

		payments = append(payments, circulation.Payment{
			UserID:        circulation.UserID(id),
			Fine:          fine,
			TransactionID: transactionID.Int64,
		})
	}

	if iterErr := rows.Err(); iterErr != nil {
		return nil, s.scanFailed(ctx, operationSelectPayments, iterErr)
	}

	s.recordValueMetrics(ctx, metricRowsReturned, float64(len(payments)), operationSelectPayments)
	s.logOperation(ctx, operationSelectPayments,
		logAttrUserID, userID.String(),
		logAttrRowCount, len(payments),
		logAttrDurationMS, s.toMilliseconds(duration))

	return payments, nil
}

// FindBook loads a book outside a transaction, found is false if it does not exist.
func (s Store) FindBook(ctx context.Context, bookID circulation.BookID) (circulation.Book, bool, error) {
	return s.findBook(ctx, s.db, bookID)
}

// Transact runs fn inside one database transaction.
// The transaction is committed if fn returns nil and rolled back otherwise, fn's error is returned unchanged.
// A panic in fn rolls the transaction back before it propagates.
func (s Store) Transact(ctx context.Context, fn circulation.UnitOfWorkFunc) error {
	start := time.Now()

	tx, beginErr := s.db.Begin(ctx)
	if beginErr != nil {
		s.logError(ctx, logMsgBeginFailed, beginErr)
		s.recordErrorMetrics(ctx, operationTransact, errorTypeBegin)

		return errors.Join(circulation.ErrBeginningTransactionFailed, beginErr)
	}

	finished := false
	defer func() {
		// fn panicked
		if !finished {
			s.rollback(ctx, tx)
			s.recordTransactionMetrics(ctx, time.Since(start), statusError)
		}
	}()

	err := fn(ctx, unitOfWork{store: s, tx: tx})
	finished = true

	if err != nil {
		s.rollback(ctx, tx)

		status := statusError
		if circulation.IsBusinessError(err) {
			status = statusRejected
		}

		s.recordTransactionMetrics(ctx, time.Since(start), status)
		s.logOperation(ctx, logMsgTransactionRolledBack, logAttrError, err.Error())

		return err
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		s.logError(ctx, logMsgCommitFailed, commitErr)
		s.recordErrorMetrics(ctx, operationTransact, errorTypeCommit)
		s.recordTransactionMetrics(ctx, time.Since(start), statusError)

		return errors.Join(circulation.ErrCommittingTransactionFailed, commitErr)
	}

	s.recordTransactionMetrics(ctx, time.Since(start), statusSuccess)

	return nil
}

func (s Store) rollback(ctx context.Context, tx adapters.TxAdapter) {
	if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
		s.logWarn(ctx, logMsgRollbackFailed, rollbackErr)
	}
}

// queryRows executes a select statement and returns rows with timing information.
func (s Store) queryRows(ctx context.Context, exec adapters.Executor, operation, sqlQuery string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := exec.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if queryErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		s.recordErrorMetrics(ctx, operation, errorTypeQuery)
		s.recordDurationMetrics(ctx, metricStatementDuration, duration, operation, statusError)

		return nil, duration, errors.Join(circulation.ErrQueryingFailed, queryErr)
	}

	s.recordDurationMetrics(ctx, metricStatementDuration, duration, operation, statusSuccess)

	return rows, duration, nil
}

// execStatement executes an insert, update, or DDL statement and returns rows affected and duration.
// Constraint violations are logged at info level, they are business outcomes for the caller to map.
func (s Store) execStatement(ctx context.Context, exec adapters.Executor, operation, sqlQuery string) (
	rowsAffectedInt64,
	time.Duration,
	error,
) {

	start := time.Now()
	result, execErr := exec.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(ctx, sqlQuery, operation, duration)

	if execErr != nil {
		if classifyConstraintViolation(execErr) == noViolation {
			s.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
			s.recordErrorMetrics(ctx, operation, errorTypeExec)
		}

		s.recordDurationMetrics(ctx, metricStatementDuration, duration, operation, statusError)

		return 0, duration, errors.Join(circulation.ErrExecutingFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		s.recordErrorMetrics(ctx, operation, errorTypeRowsAffected)

		return 0, duration, errors.Join(circulation.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	s.recordDurationMetrics(ctx, metricStatementDuration, duration, operation, statusSuccess)

	return rowsAffected, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (s Store) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

func (s Store) buildFailed(ctx context.Context, operation string, err error) error {
	s.logError(ctx, logMsgBuildQueryFailed, err, logAttrQuery, operation)
	s.recordErrorMetrics(ctx, operation, errorTypeBuildQuery)

	return errors.Join(circulation.ErrBuildingQueryFailed, err)
}

func (s Store) scanFailed(ctx context.Context, operation string, err error) error {
	s.logError(ctx, logMsgScanRowFailed, err)
	s.recordErrorMetrics(ctx, operation, errorTypeScan)

	return errors.Join(circulation.ErrScanningDBRowFailed, err)
}

func (s Store) builder() goqu.DialectWrapper {
	return goqu.Dialect(string(s.dialect))
}

type rowsAffectedInt64 = int64
