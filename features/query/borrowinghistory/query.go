package borrowinghistory

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

const (
	queryType = "BorrowingHistory"
)

// Query represents the intent to list the loans of a user.
type Query struct {
	UserID circulation.UserID
}

// BuildQuery creates a new Query from a raw user id.
func BuildQuery(rawUserID string) (Query, error) {
	userID, err := circulation.BuildUserID(rawUserID)
	if err != nil {
		return Query{}, err
	}

	return Query{UserID: userID}, nil
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
