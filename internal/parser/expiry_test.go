package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpiryDate(t *testing.T) {
	currentYear := time.Now().Year()

	tests := []struct {
		name     string
		text     string
		expected time.Time
		isNil    bool
	}{
		{
			name:     "ends with ordinal day and month name",
			text:     "Ends 21st March",
			expected: time.Date(currentYear, time.March, 21, 23, 59, 59, 0, time.Local),
		},
		{
			name:     "valid until with month name",
			text:     "Valid until 3rd August",
			expected: time.Date(currentYear, time.August, 3, 23, 59, 59, 0, time.Local),
		},
		{
			name:     "expires with plain day",
			text:     "Offer expires 2 December",
			expected: time.Date(currentYear, time.December, 2, 23, 59, 59, 0, time.Local),
		},
		{
			name:     "valid until slash date",
			text:     "Valid until 15/06/2026",
			expected: time.Date(2026, time.June, 15, 23, 59, 59, 0, time.Local),
		},
		{
			name:     "expires slash date",
			text:     "Expires 01/11/2026",
			expected: time.Date(2026, time.November, 1, 23, 59, 59, 0, time.Local),
		},
		{
			name:     "bare slash date",
			text:     "Hurry - 28/02/2027",
			expected: time.Date(2027, time.February, 28, 23, 59, 59, 0, time.Local),
		},
		{
			name:  "impossible calendar date",
			text:  "Expires 31/02/2026",
			isNil: true,
		},
		{
			name:  "month out of range",
			text:  "Expires 10/13/2026",
			isNil: true,
		},
		{
			name:  "no date at all",
			text:  "While stocks last",
			isNil: true,
		},
		{
			name:  "empty input",
			text:  "",
			isNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseExpiryDate(tt.text)

			if tt.isNil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.True(t, tt.expected.Equal(*result), "expected %v, got %v", tt.expected, *result)
			}
		})
	}
}

func TestParseExpiryDatePatternPrecedence(t *testing.T) {
	// The day-month-name pattern must win over a slash date further on.
	result := ParseExpiryDate("Ends 21st March - order by 01/01/2030")
	require.NotNil(t, result)
	assert.Equal(t, time.March, result.Month())
	assert.Equal(t, 21, result.Day())
	assert.Equal(t, time.Now().Year(), result.Year())
}
