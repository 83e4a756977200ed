// Package borrowinghistory implements the User Borrowing History query use case.
//
// The query returns one entry per loan of a user, oldest first, with the book title,
// the issue and return dates, and the fine charged for that loan.
// Fines are attributed through the loan they were charged for, so a user with several
// fined loans sees each fine exactly once.
package borrowinghistory
