package circulation

import (
	"fmt"
	"strings"
)

// BookID identifies a book. It is never empty once built with BuildBookID.
type BookID string

// UserID identifies a user (borrower). It is treated as opaque text.
type UserID string

// BuildBookID trims the raw input and rejects empty identifiers.
func BuildBookID(raw string) (BookID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("book %w", ErrInvalidIdentifier)
	}

	return BookID(id), nil
}

// BuildUserID trims the raw input and rejects empty identifiers.
func BuildUserID(raw string) (UserID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("user %w", ErrInvalidIdentifier)
	}

	return UserID(id), nil
}

// String returns the identifier as plain text.
func (id BookID) String() string {
	return string(id)
}

// String returns the identifier as plain text.
func (id UserID) String() string {
	return string(id)
}
