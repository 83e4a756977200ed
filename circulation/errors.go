package circulation

import "errors"

// Business rule errors. These are recoverable at the call site and get converted to status messages.
var (
	// ErrDuplicateKey is returned when a user or book with the same identifier already exists.
	ErrDuplicateKey = errors.New("identifier already exists")

	// ErrNotAvailable is returned when a book can't be issued because it does not exist or is already on loan.
	ErrNotAvailable = errors.New("book not available")

	// ErrNoSuchLoan is returned when no outstanding loan matches the user and book of a return.
	ErrNoSuchLoan = errors.New("book not borrowed by the user")

	// ErrUnknownUser is returned when a loan references a user that is not registered.
	ErrUnknownUser = errors.New("user is not registered")

	// ErrReturnBeforeIssue is returned when the return date lies before the issue date of the loan.
	ErrReturnBeforeIssue = errors.New("return date is before issue date")

	// ErrInvalidIdentifier is returned when a book or user identifier is empty.
	ErrInvalidIdentifier = errors.New("identifier must not be empty")

	// ErrInvalidDate is returned when a date is not in YYYY-MM-DD format.
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")
)

// Infrastructure errors.
var (
	// ErrStorageUnavailable is returned when the underlying store can't be reached or initialized.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNilDatabaseConnection is returned when a nil database connection is supplied to a store constructor.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrUnsupportedDialect is returned when a store is configured with an unknown SQL dialect.
	ErrUnsupportedDialect = errors.New("unsupported sql dialect")

	// ErrInitializingSchemaFailed is returned when creating the tables fails.
	ErrInitializingSchemaFailed = errors.New("initializing schema failed")

	// ErrBuildingQueryFailed is returned when a SQL statement can't be built.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrQueryingFailed is returned when a select statement fails.
	ErrQueryingFailed = errors.New("querying failed")

	// ErrExecutingFailed is returned when an insert or update statement fails.
	ErrExecutingFailed = errors.New("executing statement failed")

	// ErrScanningDBRowFailed is returned when a result row can't be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrGettingRowsAffectedFailed is returned when the affected row count can't be determined.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")

	// ErrBeginningTransactionFailed is returned when a database transaction can't be started.
	ErrBeginningTransactionFailed = errors.New("beginning transaction failed")

	// ErrCommittingTransactionFailed is returned when a database transaction can't be committed.
	ErrCommittingTransactionFailed = errors.New("committing transaction failed")
)

// IsBusinessError reports whether err is one of the recoverable business rule errors.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrNotAvailable) ||
		errors.Is(err, ErrNoSuchLoan) ||
		errors.Is(err, ErrUnknownUser) ||
		errors.Is(err, ErrReturnBeforeIssue) ||
		errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrInvalidDate)
}
