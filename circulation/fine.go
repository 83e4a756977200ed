package circulation

// FinePerOverdueDay is charged for every day between issue and return.
// There is no grace period: a loan returned on a later day is overdue.
const FinePerOverdueDay = 10

// OverdueDays returns the whole days between issued and returned.
// The result is negative when returned lies before issued.
func OverdueDays(issued, returned Date) int {
	return issued.DaysUntil(returned)
}

// Fine computes the penalty for a loan issued and returned on the given dates.
// Non-positive day counts yield zero, including anomalous returns before the issue date.
func Fine(issued, returned Date) int {
	days := OverdueDays(issued, returned)
	if days <= 0 {
		return 0
	}

	return days * FinePerOverdueDay
}
