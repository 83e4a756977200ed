package borrowinghistory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/features/command/returnbook"
	"github.com/AntonStoeckl/library-circulation-go/features/query/borrowinghistory"
	"github.com/AntonStoeckl/library-circulation-go/testutil/helper"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_QueryHandler_Handle_ReturnsLoanWithFine(t *testing.T) {
	for _, adapter := range Adapters() {
		t.Run(adapter, func(t *testing.T) {
			// setup
			ctx := context.Background()
			store := CreateWrapper(t, adapter).GetStore()
			handler := borrowinghistory.NewQueryHandler(store)

			// arrange
			helper.GivenUserWasRegistered(t, ctx, store, "U1", "Ada Lovelace")
			helper.GivenBookWasAdded(t, ctx, store, "B1", "Dune")
			helper.GivenBookWasIssued(t, ctx, store, "U1", "B1", helper.FixtureDay(1))

			returnCmd, err := returnbook.BuildCommand("U1", "B1", helper.FixtureTime(6))
			require.NoError(t, err)
			_, err = returnbook.NewCommandHandler(store).Handle(ctx, returnCmd)
			require.NoError(t, err)

			query, err := borrowinghistory.BuildQuery("U1")
			require.NoError(t, err)

			// act
			result, err := handler.Handle(ctx, query)

			// assert
			assert.NoError(t, err)
			require.Equal(t, 1, result.Count)
			entry := result.Entries[0]
			assert.Equal(t, "B1", entry.BookID.String())
			assert.Equal(t, "Dune", entry.Title)
			assert.Equal(t, "2024-01-01", entry.IssuedOn.String())
			assert.Equal(t, "2024-01-06", entry.ReturnedOn.String())
			assert.Equal(t, 50, entry.Fine)
			assert.Equal(t, 50, result.TotalFines)
		})
	}
}

func Test_QueryHandler_Handle_ReturnsEmptyHistory_ForUserWithoutLoans(t *testing.T) {
	// setup
	ctx := context.Background()
	store := CreateWrapperWithTestConfig(t).GetStore()
	handler := borrowinghistory.NewQueryHandler(store)

	helper.GivenUserWasRegistered(t, ctx, store, "U2", "Grace Hopper")

	// act
	result, err := handler.Handle(ctx, borrowinghistory.Query{UserID: "U2"})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Entries)
}
