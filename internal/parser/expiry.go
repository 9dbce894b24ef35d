package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayMonthPattern  = regexp.MustCompile(`(?i)(?:ends|valid until|expires)\s+(?:on\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)`)
	validUntilDMY    = regexp.MustCompile(`(?i)valid until\s+(\d{1,2})/(\d{1,2})/(\d{4})`)
	expiresDMY       = regexp.MustCompile(`(?i)expires?\s+(\d{1,2})/(\d{1,2})/(\d{4})`)
	bareDMY          = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// ParseExpiryDate resolves free-text expiry phrasing into a concrete time.
// Patterns are tried most specific first: "ends 21st March" (current year,
// end of day), "valid until DD/MM/YYYY", "expires DD/MM/YYYY", then a bare
// DD/MM/YYYY anywhere in the text. Nil means nothing matched or the matched
// tokens are not a real calendar date.
func ParseExpiryDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if m := dayMonthPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := monthsByName[strings.ToLower(m[2])]
		return endOfDay(day, month, time.Now().Year())
	}

	for _, pattern := range []*regexp.Regexp{validUntilDMY, expiresDMY, bareDMY} {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		monthNum, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if monthNum < 1 || monthNum > 12 {
			return nil
		}
		return endOfDay(day, time.Month(monthNum), year)
	}

	return nil
}

// endOfDay builds DD Month YYYY 23:59:59 local, rejecting day numbers that
// time.Date would roll into the next month (31st February and the like).
func endOfDay(day int, month time.Month, year int) *time.Time {
	if day < 1 || day > 31 {
		return nil
	}
	t := time.Date(year, month, day, 23, 59, 59, 0, time.Local)
	if t.Day() != day || t.Month() != month {
		return nil
	}
	return &t
}
