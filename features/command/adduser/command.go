package adduser

import (
	"strings"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

const (
	commandType = "AddUser"
)

// Command represents the intent to register a new user.
type Command struct {
	UserID circulation.UserID
	Name   string
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command from raw input, rejecting an empty user id.
func BuildCommand(rawUserID string, name string) (Command, error) {
	userID, err := circulation.BuildUserID(rawUserID)
	if err != nil {
		return Command{}, err
	}

	return Command{
		UserID: userID,
		Name:   strings.TrimSpace(name),
	}, nil
}
