package main

import (
	"fmt"

	"github.com/AntonStoeckl/library-circulation-go/circulation/sqlengine"
	"github.com/AntonStoeckl/library-circulation-go/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-go/features/command/adduser"
	"github.com/AntonStoeckl/library-circulation-go/features/command/issuebook"
	"github.com/AntonStoeckl/library-circulation-go/features/command/returnbook"
	"github.com/AntonStoeckl/library-circulation-go/features/query/borrowinghistory"
	"github.com/AntonStoeckl/library-circulation-go/features/query/listusers"
	"github.com/AntonStoeckl/library-circulation-go/shell/observable"
)

// HandlerBundle contains all command and query handlers, each wrapped with observability.
type HandlerBundle struct {
	addUser          *observable.CommandWrapper[adduser.Command, adduser.Receipt]
	addBook          *observable.CommandWrapper[addbook.Command, addbook.Receipt]
	issueBook        *observable.CommandWrapper[issuebook.Command, issuebook.Receipt]
	returnBook       *observable.CommandWrapper[returnbook.Command, returnbook.Receipt]
	listUsers        *observable.QueryWrapper[listusers.Query, listusers.RegisteredUsers]
	borrowingHistory *observable.QueryWrapper[borrowinghistory.Query, borrowinghistory.BorrowingHistory]
}

// NewHandlerBundle creates all handlers on top of one store.
func NewHandlerBundle(store sqlengine.Store, opts ...observable.Option) (*HandlerBundle, error) {
	addUser, err := observable.NewCommandWrapper[adduser.Command, adduser.Receipt](
		adduser.NewCommandHandler(store), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AddUser handler: %w", err)
	}

	addBook, err := observable.NewCommandWrapper[addbook.Command, addbook.Receipt](
		addbook.NewCommandHandler(store), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AddBook handler: %w", err)
	}

	issueBook, err := observable.NewCommandWrapper[issuebook.Command, issuebook.Receipt](
		issuebook.NewCommandHandler(store), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create IssueBook handler: %w", err)
	}

	returnBook, err := observable.NewCommandWrapper[returnbook.Command, returnbook.Receipt](
		returnbook.NewCommandHandler(store), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ReturnBook handler: %w", err)
	}

	listUsers, err := observable.NewQueryWrapper[listusers.Query, listusers.RegisteredUsers](
		listusers.NewQueryHandler(store), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ListUsers handler: %w", err)
	}

	borrowingHistory, err := observable.NewQueryWrapper[borrowinghistory.Query, borrowinghistory.BorrowingHistory](
		borrowinghistory.NewQueryHandler(store), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BorrowingHistory handler: %w", err)
	}

	return &HandlerBundle{
		addUser:          addUser,
		addBook:          addBook,
		issueBook:        issueBook,
		returnBook:       returnBook,
		listUsers:        listUsers,
		borrowingHistory: borrowingHistory,
	}, nil
}
