package circulation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/AntonStoeckl/library-circulation-go/circulation"
)

func Test_ParseDate(t *testing.T) {
	// act
	date, err := ParseDate("2024-01-06")

	// assert
	assert.NoError(t, err, "parsing a valid date should not fail")
	assert.Equal(t, BuildDate(2024, time.January, 6), date)
	assert.Equal(t, "2024-01-06", date.String())
}

func Test_ParseDate_Rejects_MalformedInput(t *testing.T) {
	for _, input := range []string{"", "2024/01/06", "06-01-2024", "2024-13-01"} {
		t.Run(input, func(t *testing.T) {
			// act
			_, err := ParseDate(input)

			// assert
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func Test_ToDate_Keeps_TheCalendarDayOfTheLocation(t *testing.T) {
	// arrange
	location := time.FixedZone("UTC+5", 5*60*60)
	lateEvening := time.Date(2024, time.January, 1, 23, 30, 0, 0, location)

	// act
	date := ToDate(lateEvening)

	// assert
	assert.Equal(t, "2024-01-01", date.String())
}

func Test_Date_ZeroValue(t *testing.T) {
	var date Date

	assert.True(t, date.IsZero())
	assert.Equal(t, "", date.String())
}
