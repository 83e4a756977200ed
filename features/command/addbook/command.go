package addbook

import (
	"strings"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add a book to the catalog.
type Command struct {
	BookID circulation.BookID
	Title  string
	Author string
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command from raw input, rejecting an empty book id.
func BuildCommand(rawBookID string, title string, author string) (Command, error) {
	bookID, err := circulation.BuildBookID(rawBookID)
	if err != nil {
		return Command{}, err
	}

	return Command{
		BookID: bookID,
		Title:  strings.TrimSpace(title),
		Author: strings.TrimSpace(author),
	}, nil
}
