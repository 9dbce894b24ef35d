package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltscout/supplier-scraper/internal/models"
)

func TestParseDiscount(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedType  models.DiscountType
		expectedValue float64
	}{
		{
			name:          "percentage off",
			text:          "10% off selected tools",
			expectedType:  models.DiscountTypePercentage,
			expectedValue: 10,
		},
		{
			name:          "fixed currency amount",
			text:          "£5.50 off your first order",
			expectedType:  models.DiscountTypeFixed,
			expectedValue: 5.50,
		},
		{
			name:          "four digit amount without separator",
			text:          "£1299 off ex-display consumer units",
			expectedType:  models.DiscountTypeFixed,
			expectedValue: 1299,
		},
		{
			name:          "free delivery beats its minimum spend amount",
			text:          "Free delivery on orders over £50",
			expectedType:  models.DiscountTypeFreeDelivery,
			expectedValue: 0,
		},
		{
			name:          "free shipping phrasing",
			text:          "FREE SHIPPING this weekend",
			expectedType:  models.DiscountTypeFreeDelivery,
			expectedValue: 0,
		},
		{
			name:          "percentage beats currency amount",
			text:          "15% off when you spend £100",
			expectedType:  models.DiscountTypePercentage,
			expectedValue: 15,
		},
		{
			name:          "unclassifiable falls back to zero percentage",
			text:          "Exclusive member offer",
			expectedType:  models.DiscountTypePercentage,
			expectedValue: 0,
		},
		{
			name:          "empty input",
			text:          "",
			expectedType:  models.DiscountTypePercentage,
			expectedValue: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discountType, value := ParseDiscount(tt.text)

			assert.Equal(t, tt.expectedType, discountType)
			assert.Equal(t, tt.expectedValue, value)
		})
	}
}

func TestParseMinSpend(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
		isNil    bool
	}{
		{
			name:     "labelled minimum spend",
			text:     "Min spend £50",
			expected: 50,
		},
		{
			name:     "minimum order phrasing",
			text:     "minimum order of £25.50 applies",
			expected: 25.50,
		},
		{
			name:     "labelled amount beats earlier bare amount",
			text:     "£10 off - minimum spend £75",
			expected: 75,
		},
		{
			name:     "bare currency fallback",
			text:     "Free delivery on orders over £50",
			expected: 50,
		},
		{
			name:     "fallback keeps four digit amounts whole",
			text:     "Orders over £1250 qualify",
			expected: 1250,
		},
		{
			name:  "no amount",
			text:  "Selected lines only",
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
			result := ParseMinSpend(tt.text)

			if tt.isNil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.InDelta(t, tt.expected, *result, 0.001)
			}
		})
	}
}
