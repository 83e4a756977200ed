package render

import (
	"errors"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/features/command/issuebook"
	"github.com/AntonStoeckl/library-circulation-go/features/command/returnbook"
)

const (
	msgUserAdded          = "User added successfully."
	msgUserDuplicate      = "User ID already exists. Please choose a different ID."
	msgBookAdded          = "Book added successfully."
	msgBookDuplicate      = "Book ID already exists. Please choose a different ID."
	msgBookIssued         = "Book %s issued to User %s successfully."
	msgBookReturned       = "Book returned successfully."
	msgFineAdded          = "Fine of %d added successfully."
	msgNoFine             = "No fine to add."
	msgNotAvailable       = "Book not available."
	msgNoSuchLoan         = "Book not borrowed by the user."
	msgUnknownUser        = "User not found. Please add the user first."
	msgReturnBeforeIssue  = "Return date is before the issue date."
	msgInvalidIdentifier  = "ID must not be empty."
	msgInvalidDate        = "Date must be formatted as YYYY-MM-DD."
	msgDuplicateKey       = "ID already exists. Please choose a different ID."
	msgStorageUnavailable = "Storage is unavailable."
	msgOperationFailed    = "Operation failed: %v"
)

// StatusMessage converts an error into a status line. A nil error yields an empty string.
func StatusMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, circulation.ErrDuplicateKey):
		return msgDuplicateKey
	case errors.Is(err, circulation.ErrNotAvailable):
		return msgNotAvailable
	case errors.Is(err, circulation.ErrNoSuchLoan):
		return msgNoSuchLoan
	case errors.Is(err, circulation.ErrUnknownUser):
		return msgUnknownUser
	case errors.Is(err, circulation.ErrReturnBeforeIssue):
		return msgReturnBeforeIssue
	case errors.Is(err, circulation.ErrInvalidIdentifier):
		return msgInvalidIdentifier
	case errors.Is(err, circulation.ErrInvalidDate):
		return msgInvalidDate
	case errors.Is(err, circulation.ErrStorageUnavailable):
		return msgStorageUnavailable
	default:
		return fmt.Sprintf(msgOperationFailed, err)
	}
}

// AddUserStatus is the status line of the Add User operation.
func AddUserStatus(err error) string {
	switch {
	case err == nil:
		return msgUserAdded
	case errors.Is(err, circulation.ErrDuplicateKey):
		return msgUserDuplicate
	default:
		return StatusMessage(err)
	}
}

// AddBookStatus is the status line of the Add Book operation.
func AddBookStatus(err error) string {
	switch {
	case err == nil:
		return msgBookAdded
	case errors.Is(err, circulation.ErrDuplicateKey):
		return msgBookDuplicate
	default:
		return StatusMessage(err)
	}
}

// IssueStatus is the status line of the Issue Book operation.
func IssueStatus(command issuebook.Command, err error) string {
	if err != nil {
		return StatusMessage(err)
	}

	return fmt.Sprintf(msgBookIssued, command.BookID, command.UserID)
}

// ReturnStatus is the status line of the Return Book operation, reporting the fine charged.
func ReturnStatus(receipt returnbook.Receipt, err error) string {
	if err != nil {
		return StatusMessage(err)
	}

	if receipt.FineCharged() {
		return msgBookReturned + " " + fmt.Sprintf(msgFineAdded, receipt.Fine)
	}

	return msgBookReturned + " " + msgNoFine
}
