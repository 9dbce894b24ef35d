package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/voltscout/supplier-scraper/internal/models"
)

var (
	percentPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	minSpendPattern = regexp.MustCompile(`(?i)min(?:imum)?\s+(?:spend|order)(?:s)?(?:\s+of)?\s*:?\s*£\s*(\d+(?:,\d{3})*(?:\.\d+)?)`)
)

// ParseDiscount classifies coupon wording into a discount type and value.
// Free-delivery phrasing is checked before amounts because such offers
// usually also carry a minimum-spend figure that must not be read as a
// fixed discount. An unclassifiable text falls back to a zero percentage.
func ParseDiscount(text string) (models.DiscountType, float64) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "free delivery") || strings.Contains(lower, "free shipping") {
		return models.DiscountTypeFreeDelivery, 0
	}

	if m := percentPattern.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return models.DiscountTypePercentage, value
		}
	}

	if m := symbolAmountPattern.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil {
			return models.DiscountTypeFixed, value
		}
	}

	return models.DiscountTypePercentage, 0
}

// ParseMinSpend pulls a minimum-spend threshold out of coupon text. The
// labelled form ("min spend £50") wins over any bare currency amount.
func ParseMinSpend(text string) *float64 {
	if m := minSpendPattern.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil {
			return &value
		}
	}

	if m := symbolAmountPattern.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil {
			return &value
		}
	}

	return nil
}
