package returnbook

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

// Settlement is the outcome of a return: the closed loan and the fine it caused.
type Settlement struct {
	Loan        circulation.LoanTransaction
	OverdueDays int
	Fine        int
}

// FineCharged reports whether a payment is due for this return.
func (s Settlement) FineCharged() bool {
	return s.Fine > 0
}

// Payment returns the payment to append for this settlement. Only meaningful if FineCharged is true.
func (s Settlement) Payment() circulation.Payment {
	return circulation.Payment{
		UserID:        s.Loan.UserID,
		Fine:          s.Fine,
		TransactionID: s.Loan.ID,
	}
}
