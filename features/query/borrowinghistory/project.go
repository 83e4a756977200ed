package borrowinghistory

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// ProjectBorrowingHistory builds the query result from the joined loan rows. It is a pure function.
//
// Query Logic:
//
//	GIVEN: A user with UserID
//	WHEN: BorrowingHistory query is executed
//	THEN: BorrowingHistory is returned with one entry per loan, in the given order
//	INCLUDES: outstanding loans, with a zero return date
//	INCLUDES: the sum of all fines charged to the user
func ProjectBorrowingHistory(entries []circulation.HistoryEntry, query Query) BorrowingHistory {
	if entries == nil {
		entries = make([]circulation.HistoryEntry, 0)
	}

	total := 0
	for _, entry := range entries {
		total += entry.Fine
	}

	return BorrowingHistory{
		UserID:     query.UserID,
		Entries:    entries,
		Count:      len(entries),
		TotalFines: total,
	}
}
