// Package returnbook implements the Return Book use case.
//
// The handler runs Load -> Decide -> Write inside one database transaction.
// It finds the oldest outstanding loan of the book to the user, lets the pure Decide
// function compute the settlement, then makes the book available again, closes the loan,
// and appends a payment when the return is overdue.
package returnbook
