package render

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-go/features/query/borrowinghistory"
	"github.com/AntonStoeckl/library-circulation-go/features/query/listusers"
	"github.com/AntonStoeckl/library-circulation-go/shell/config"
)

const (
	msgUsersHeader   = "Users: "
	msgUserLine      = "User ID: %s, Name: %s"
	msgNoUsers       = "No users found"
	msgHistoryHeader = "User %s borrowing history: "
	msgHistoryLine   = "Book ID: %s, Title: %s, Date Issued: %s, Date Returned: %s, Fine Paid: %s"
	msgFinePaid      = "Rs.%d"
	msgNoFinePaid    = "No fine payment, returned ontime"
	msgNotReturned   = "None"
	msgNoHistory     = "No borrowing history found for the user."
)

type userView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type usersView struct {
	Users []userView `json:"users"`
	Count int        `json:"count"`
}

type historyEntryView struct {
	TransactionID int64  `json:"transaction_id"`
	BookID        string `json:"book_id"`
	Title         string `json:"title"`
	DateIssued    string `json:"date_issued"`
	DateReturned  string `json:"date_returned,omitempty"`
	Fine          int    `json:"fine"`
}

type historyView struct {
	UserID     string             `json:"user_id"`
	Entries    []historyEntryView `json:"entries"`
	Count      int                `json:"count"`
	TotalFines int                `json:"total_fines"`
}

// Renderer writes status lines and query results to w.
type Renderer struct {
	w      io.Writer
	output string
}

// NewRenderer creates a Renderer. output is config.OutputText or config.OutputJSON.
func NewRenderer(w io.Writer, output string) Renderer {
	return Renderer{w: w, output: output}
}

// Line writes one line of text.
func (r Renderer) Line(line string) error {
	_, err := fmt.Fprintln(r.w, line)
	return err
}

// Users writes the registered users.
func (r Renderer) Users(result listusers.RegisteredUsers) error {
	if r.output == config.OutputJSON {
		view := usersView{Users: make([]userView, 0, len(result.Users)), Count: result.Count}
		for _, user := range result.Users {
			view.Users = append(view.Users, userView{ID: user.ID.String(), Name: user.Name})
		}

		return r.json(view)
	}

	if result.Count == 0 {
		return r.Line(msgNoUsers)
	}

	if err := r.Line(msgUsersHeader); err != nil {
		return err
	}

	for _, user := range result.Users {
		if err := r.Line(fmt.Sprintf(msgUserLine, user.ID, user.Name)); err != nil {
			return err
		}
	}

	return nil
}

// History writes the borrowing history of one user.
func (r Renderer) History(result borrowinghistory.BorrowingHistory) error {
	if r.output == config.OutputJSON {
		view := historyView{
			UserID:     result.UserID.String(),
			Entries:    make([]historyEntryView, 0, len(result.Entries)),
			Count:      result.Count,
			TotalFines: result.TotalFines,
		}
		for _, entry := range result.Entries {
			view.Entries = append(view.Entries, historyEntryView{
				TransactionID: entry.TransactionID,
				BookID:        entry.BookID.String(),
				Title:         entry.Title,
				DateIssued:    entry.IssuedOn.String(),
				DateReturned:  entry.ReturnedOn.String(),
				Fine:          entry.Fine,
			})
		}

		return r.json(view)
	}

	if result.Count == 0 {
		return r.Line(msgNoHistory)
	}

	if err := r.Line(fmt.Sprintf(msgHistoryHeader, result.UserID)); err != nil {
		return err
	}

	for _, entry := range result.Entries {
		returned := msgNotReturned
		if !entry.ReturnedOn.IsZero() {
			returned = entry.ReturnedOn.String()
		}

		fine := msgNoFinePaid
		if entry.Fine > 0 {
			fine = fmt.Sprintf(msgFinePaid, entry.Fine)
		}

		line := fmt.Sprintf(msgHistoryLine, entry.BookID, entry.Title, entry.IssuedOn, returned, fine)
		if err := r.Line(line); err != nil {
			return err
		}
	}

	return nil
}

func (r Renderer) json(view any) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(view)
	if err != nil {
		return err
	}

	return r.Line(string(data))
}
