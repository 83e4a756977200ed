package borrowinghistory

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// BorrowingHistory represents the query result containing all loans of a user.
type BorrowingHistory struct {
	UserID     circulation.UserID
	Entries    []circulation.HistoryEntry
	Count      int
	TotalFines int
}
