package circulation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/AntonStoeckl/library-circulation-go/circulation"
)

func Test_Fine(t *testing.T) {
	issued := BuildDate(2024, time.January, 1)

	testCases := []struct {
		name         string
		returned     Date
		expectedDays int
		expectedFine int
	}{
		{
			name:         "returned on the same day",
			returned:     BuildDate(2024, time.January, 1),
			expectedDays: 0,
			expectedFine: 0,
		},
		{
			name:         "returned one day later",
			returned:     BuildDate(2024, time.January, 2),
			expectedDays: 1,
			expectedFine: 10,
		},
		{
			name:         "returned five days later",
			returned:     BuildDate(2024, time.January, 6),
			expectedDays: 5,
			expectedFine: 50,
		},
		{
			name:         "returned across a month boundary",
			returned:     BuildDate(2024, time.February, 1),
			expectedDays: 31,
			expectedFine: 310,
		},
		{
			name:         "returned across a leap day",
			returned:     BuildDate(2024, time.March, 1),
			expectedDays: 60,
			expectedFine: 600,
		},
		{
			name:         "returned before issue",
			returned:     BuildDate(2023, time.December, 30),
			expectedDays: -2,
			expectedFine: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			days := OverdueDays(issued, tc.returned)
			fine := Fine(issued, tc.returned)

			// assert
			assert.Equal(t, tc.expectedDays, days, "overdue days mismatch")
			assert.Equal(t, tc.expectedFine, fine, "fine mismatch")
		})
	}
}

func Test_Fine_IgnoresTimeOfDay(t *testing.T) {
	// arrange
	issued := ToDate(time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC))
	returned := ToDate(time.Date(2024, time.January, 2, 0, 1, 0, 0, time.UTC))

	// act
	fine := Fine(issued, returned)

	// assert
	assert.Equal(t, 10, fine, "a return on the next calendar day should cost one day")
}
