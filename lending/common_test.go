package lending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ToLibraryDate_TruncatesToUTCDayGranularity(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	assert.NoError(t, err)

	testCases := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "UTC afternoon",
			input:    time.Date(2025, 7, 1, 15, 42, 57, 123456789, time.UTC),
			expected: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "local time converts to UTC before truncation",
			input:    time.Date(2025, 7, 1, 1, 30, 0, 0, berlin),
			expected: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "midnight stays midnight",
			input:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ToLibraryDate(tc.input))
		})
	}
}

func Test_DueDateFrom_AddsTheLoanPeriod(t *testing.T) {
	today := time.Date(2025, 7, 1, 23, 59, 0, 0, time.UTC)

	dueDate := DueDateFrom(today)

	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), dueDate)
}
