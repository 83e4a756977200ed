package returnbook

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// Decide settles the return of a loan. It is a pure function.
//
// Business Rules:
//
//	GIVEN: An outstanding loan of BookID to UserID
//	WHEN: ReturnBook command is received
//	THEN: the loan is closed on ReturnedOn, the book becomes available
//	THEN: a fine of 10 per day between issue and return is charged if that is more than zero
//	ERROR: ErrNoSuchLoan if no outstanding loan of the book to the user exists
//	ERROR: ErrReturnBeforeIssue if ReturnedOn lies before the issue date
func Decide(loan circulation.LoanTransaction, found bool, command Command) (Settlement, error) {
	if !found || !loan.IsOutstanding() {
		return Settlement{}, circulation.ErrNoSuchLoan
	}

	if command.ReturnedOn.Before(loan.IssuedOn) {
		return Settlement{}, circulation.ErrReturnBeforeIssue
	}

	loan.ReturnedOn = command.ReturnedOn

	return Settlement{
		Loan:        loan,
		OverdueDays: circulation.OverdueDays(loan.IssuedOn, command.ReturnedOn),
		Fine:        circulation.Fine(loan.IssuedOn, command.ReturnedOn),
	}, nil
}
