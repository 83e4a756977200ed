package borrowinghistory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/features/query/borrowinghistory"
	"github.com/AntonStoeckl/library-circulation-go/testutil/helper"
)

func Test_ProjectBorrowingHistory_SumsFines(t *testing.T) {
	// arrange
	query, err := borrowinghistory.BuildQuery("U1")
	assert.NoError(t, err)

	entries := []circulation.HistoryEntry{
		{TransactionID: 1, BookID: "B1", IssuedOn: helper.FixtureDay(1), ReturnedOn: helper.FixtureDay(6), Fine: 50},
		{TransactionID: 2, BookID: "B2", IssuedOn: helper.FixtureDay(2), ReturnedOn: helper.FixtureDay(2)},
		{TransactionID: 3, BookID: "B1", IssuedOn: helper.FixtureDay(7)},
	}

	// act
	result := borrowinghistory.ProjectBorrowingHistory(entries, query)

	// assert
	assert.Equal(t, circulation.UserID("U1"), result.UserID)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, 50, result.TotalFines)
	assert.Equal(t, entries, result.Entries)
}

func Test_ProjectBorrowingHistory_NilEntries(t *testing.T) {
	// act
	result := borrowinghistory.ProjectBorrowingHistory(nil, borrowinghistory.Query{UserID: "U1"})

	// assert
	assert.NotNil(t, result.Entries)
	assert.Equal(t, 0, result.Count)
}

func Test_BuildQuery_RejectsEmptyID(t *testing.T) {
	// act
	_, err := borrowinghistory.BuildQuery(" ")

	// assert
	assert.ErrorIs(t, err, circulation.ErrInvalidIdentifier)
}
