package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
		isNil    bool
	}{
		{
			name:     "plain sterling amount",
			text:     "£12.99",
			expected: 12.99,
		},
		{
			name:     "amount with surrounding words",
			text:     "from £12.99 inc VAT",
			expected: 12.99,
		},
		{
			name:     "labelled was price",
			text:     "RRP: £15",
			expected: 15,
		},
		{
			name:     "thousands separator",
			text:     "£1,299.50",
			expected: 1299.50,
		},
		{
			name:     "four digits without separator",
			text:     "£1299.99",
			expected: 1299.99,
		},
		{
			name:     "four digit whole amount",
			text:     "£1399",
			expected: 1399,
		},
		{
			name:     "bare four digits without separator",
			text:     "1299.99 inc VAT",
			expected: 1299.99,
		},
		{
			name:     "bare number without symbol",
			text:     "129.99",
			expected: 129.99,
		},
		{
			name:     "symbol amount preferred over earlier bare number",
			text:     "3 for £25.00",
			expected: 25,
		},
		{
			name:  "no numeric token",
			text:  "Call for price",
			isNil: true,
		},
		{
			name:  "empty input",
			text:  "",
			isNil: true,
		},
		{
			name:  "whitespace only",
			text:  "   ",
			isNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParsePrice(tt.text)

			if tt.isNil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.InDelta(t, tt.expected, *result, 0.001)
				assert.GreaterOrEqual(t, *result, 0.0)
			}
		})
	}
}

func TestCalculateDiscount(t *testing.T) {
	price := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		current  *float64
		regular  *float64
		expected float64
		isNil    bool
	}{
		{
			name:     "genuine discount",
			current:  price(8),
			regular:  price(10),
			expected: 20,
		},
		{
			name:     "129.99 against 159.99 rounds to 19",
			current:  price(129.99),
			regular:  price(159.99),
			expected: 19,
		},
		{
			name:     "half percent rounds away from zero",
			current:  price(87.50),
			regular:  price(100),
			expected: 13,
		},
		{
			name:    "regular below current is not a discount",
			current: price(10),
			regular: price(8),
			isNil:   true,
		},
		{
			name:    "equal prices",
			current: price(10),
			regular: price(10),
			isNil:   true,
		},
		{
			name:    "nil current",
			current: nil,
			regular: price(10),
			isNil:   true,
		},
		{
			name:    "nil regular",
			current: price(10),
			regular: nil,
			isNil:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateDiscount(tt.current, tt.regular)

			if tt.isNil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.Equal(t, tt.expected, *result)
			}
		})
	}
}
