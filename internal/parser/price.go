package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Prefer an amount with an explicit currency symbol, so "save £5 on
	// orders of 3" resolves to 5, not 3. The comma-grouped branch demands
	// at least one group; otherwise it would clip ungrouped amounts like
	// 1299.99 to their first three digits.
	symbolAmountPattern = regexp.MustCompile(`£\s*(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`)
	bareAmountPattern   = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`)
)

// ParsePrice extracts a currency amount from free text ("from £12.99",
// "RRP: £1,299.00"). It returns nil when no currency-like token is present;
// unparseable input is an expected outcome, never an error.
func ParsePrice(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	match := symbolAmountPattern.FindStringSubmatch(text)
	if match == nil {
		match = bareAmountPattern.FindStringSubmatch(text)
	}
	if match == nil {
		return nil
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil || math.IsInf(value, 0) || value < 0 {
		return nil
	}

	return &value
}

// CalculateDiscount returns the whole-number percentage saved when regular
// genuinely exceeds current, nil otherwise. Ties round away from zero, so
// a 12.5% saving reports as 13.
func CalculateDiscount(current, regular *float64) *float64 {
	if current == nil || regular == nil {
		return nil
	}
	if *regular <= *current || *regular <= 0 {
		return nil
	}

	pct := math.Round((*regular - *current) / *regular * 100)
	return &pct
}
