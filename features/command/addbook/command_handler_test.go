package addbook_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
	"github.com/AntonStoeckl/library-circulation-go/features/command/addbook"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	handler := addbook.NewCommandHandler(wrapper.GetStore())

	command, err := addbook.BuildCommand("B1", "Learning Domain-Driven Design", "Vlad Khononov")
	require.NoError(t, err)

	// act
	receipt, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err, "Should add the book")
	assert.Equal(t, "AddBook", receipt.CommandType)
	assert.False(t, receipt.Book.Issued)

	book, found, err := wrapper.GetStore().FindBook(ctx, command.BookID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, circulation.Book{
		ID:     command.BookID,
		Title:  "Learning Domain-Driven Design",
		Author: "Vlad Khononov",
		Issued: false,
	}, book)
}

func Test_CommandHandler_Handle_Error_DuplicateID(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	handler := addbook.NewCommandHandler(wrapper.GetStore())

	first, err := addbook.BuildCommand("B1", "Original Title", "Author A")
	require.NoError(t, err)
	_, err = handler.Handle(ctx, first)
	require.NoError(t, err)

	second, err := addbook.BuildCommand("B1", "Other Title", "Author B")
	require.NoError(t, err)

	// act
	_, err = handler.Handle(ctx, second)

	// assert
	assert.ErrorIs(t, err, circulation.ErrDuplicateKey)

	book, _, err := wrapper.GetStore().FindBook(ctx, first.BookID)
	require.NoError(t, err)
	assert.Equal(t, "Original Title", book.Title, "the original book must be unchanged")
}

func Test_BuildCommand_RejectsEmptyID(t *testing.T) {
	// act
	_, err := addbook.BuildCommand("", "Title", "Author")

	// assert
	assert.ErrorIs(t, err, circulation.ErrInvalidIdentifier)
}
