package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-go/features/command/adduser"
	"github.com/AntonStoeckl/library-circulation-go/features/command/issuebook"
	"github.com/AntonStoeckl/library-circulation-go/features/command/returnbook"
	"github.com/AntonStoeckl/library-circulation-go/features/query/borrowinghistory"
	"github.com/AntonStoeckl/library-circulation-go/features/query/listusers"
	"github.com/AntonStoeckl/library-circulation-go/shell/render"
)

const (
	choiceIssue   = "1"
	choiceReturn  = "2"
	choiceAddUser = "3"
	choiceAddBook = "4"
	choiceUsers   = "5"
	choiceHistory = "6"
	choiceExit    = "7"
)

const menuText = `1. Issue Book
2. Return Book
3. Add User
4. Add Book
5. Show Users
6. User Borrowing History
7. Exit
`

const (
	promptChoice        = "Enter your choice: "
	promptUserID        = "Enter User ID: "
	promptUserName      = "Enter User Name: "
	promptBookID        = "Enter Book ID: "
	promptTitle         = "Enter Title: "
	promptAuthor        = "Enter Author: "
	msgExiting          = "Exiting"
	msgInvalidChoice    = "Invalid choice, please enter a valid number"
	msgUnexpectedOutput = "failed to write output: %w"
)

// Menu is the interactive dispatcher: it reads a choice and its parameters, calls one handler,
// and prints the outcome. Business errors never end the loop.
type Menu struct {
	handlers *HandlerBundle
	renderer render.Renderer
	scanner  *bufio.Scanner
	out      io.Writer
	now      func() time.Time
}

// NewMenu creates a Menu reading from in and writing prompts and results to out.
// now supplies the current time for issue and return dates.
func NewMenu(handlers *HandlerBundle, renderer render.Renderer, in io.Reader, out io.Writer, now func() time.Time) *Menu {
	return &Menu{
		handlers: handlers,
		renderer: renderer,
		scanner:  bufio.NewScanner(in),
		out:      out,
		now:      now,
	}
}

// Run loops until the exit choice, the end of the input, or the cancellation of ctx.
func (m *Menu) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		if _, err := io.WriteString(m.out, menuText); err != nil {
			return fmt.Errorf(msgUnexpectedOutput, err)
		}

		choice, ok := m.ask(promptChoice)
		if !ok {
			return m.scanner.Err()
		}

		var err error

		switch choice {
		case choiceIssue:
			err = m.issueBook(ctx)
		case choiceReturn:
			err = m.returnBook(ctx)
		case choiceAddUser:
			err = m.addUser(ctx)
		case choiceAddBook:
			err = m.addBook(ctx)
		case choiceUsers:
			err = m.showUsers(ctx)
		case choiceHistory:
			err = m.showHistory(ctx)
		case choiceExit:
			return m.renderer.Line(msgExiting)
		default:
			err = m.renderer.Line(msgInvalidChoice)
		}

		if err != nil {
			return fmt.Errorf(msgUnexpectedOutput, err)
		}
	}

	return ctx.Err()
}

// ask prints prompt and reads one trimmed line. ok is false at the end of the input.
func (m *Menu) ask(prompt string) (string, bool) {
	_, _ = io.WriteString(m.out, prompt)

	if !m.scanner.Scan() {
		return "", false
	}

	return strings.TrimSpace(m.scanner.Text()), true
}

func (m *Menu) askAll(prompts ...string) ([]string, bool) {
	answers := make([]string, 0, len(prompts))

	for _, prompt := range prompts {
		answer, ok := m.ask(prompt)
		if !ok {
			return nil, false
		}

		answers = append(answers, answer)
	}

	return answers, true
}

func (m *Menu) issueBook(ctx context.Context) error {
	answers, ok := m.askAll(promptUserID, promptBookID)
	if !ok {
		return nil
	}

	command, err := issuebook.BuildCommand(answers[0], answers[1], m.now())
	if err != nil {
		return m.renderer.Line(render.StatusMessage(err))
	}

	_, err = m.handlers.issueBook.Handle(ctx, command)

	return m.renderer.Line(render.IssueStatus(command, err))
}

func (m *Menu) returnBook(ctx context.Context) error {
	answers, ok := m.askAll(promptUserID, promptBookID)
	if !ok {
		return nil
	}

	command, err := returnbook.BuildCommand(answers[0], answers[1], m.now())
	if err != nil {
		return m.renderer.Line(render.StatusMessage(err))
	}

	receipt, err := m.handlers.returnBook.Handle(ctx, command)

	return m.renderer.Line(render.ReturnStatus(receipt, err))
}

func (m *Menu) addUser(ctx context.Context) error {
	answers, ok := m.askAll(promptUserID, promptUserName)
	if !ok {
		return nil
	}

	command, err := adduser.BuildCommand(answers[0], answers[1])
	if err != nil {
		return m.renderer.Line(render.StatusMessage(err))
	}

	_, err = m.handlers.addUser.Handle(ctx, command)

	return m.renderer.Line(render.AddUserStatus(err))
}

func (m *Menu) addBook(ctx context.Context) error {
	answers, ok := m.askAll(promptBookID, promptTitle, promptAuthor)
	if !ok {
		return nil
	}

	command, err := addbook.BuildCommand(answers[0], answers[1], answers[2])
	if err != nil {
		return m.renderer.Line(render.StatusMessage(err))
	}

	_, err = m.handlers.addBook.Handle(ctx, command)

	return m.renderer.Line(render.AddBookStatus(err))
}

func (m *Menu) showUsers(ctx context.Context) error {
	result, err := m.handlers.listUsers.Handle(ctx, listusers.BuildQuery())
	if err != nil {
		return m.renderer.Line(render.StatusMessage(err))
	}

	return m.renderer.Users(result)
}

func (m *Menu) showHistory(ctx context.Context) error {
	userID, ok := m.ask(promptUserID)
	if !ok {
		return nil
	}

	query, err := borrowinghistory.BuildQuery(userID)
	if err != nil {
		return m.renderer.Line(render.StatusMessage(err))
	}

	result, err := m.handlers.borrowingHistory.Handle(ctx, query)
	if err != nil {
		return m.renderer.Line(render.StatusMessage(err))
	}

	return m.renderer.History(result)
}
