package issuebook

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

const (
	commandType = "IssueBook"
)

// Command represents the intent to lend a book to a user on a given day.
type Command struct {
	UserID   circulation.UserID
	BookID   circulation.BookID
	IssuedOn circulation.Date
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command from raw input. Only the calendar day of issuedAt is kept.
func BuildCommand(rawUserID string, rawBookID string, issuedAt time.Time) (Command, error) {
	userID, err := circulation.BuildUserID(rawUserID)
	if err != nil {
		return Command{}, err
	}

	bookID, err := circulation.BuildBookID(rawBookID)
	if err != nil {
		return Command{}, err
	}

	return Command{
		UserID:   userID,
		BookID:   bookID,
		IssuedOn: circulation.ToDate(issuedAt),
	}, nil
}
