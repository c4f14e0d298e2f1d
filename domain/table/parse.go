package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// currencyMarkers are stripped before numeric parsing. Annexure data mixes
// plain numbers with formatted amounts, so the parser is deliberately lenient.
var currencyMarkers = []string{"$", "€", "£", "¥", "₹", "USD", "EUR", "GBP", "JPY", "INR"}

// ParseNumber attempts a lenient full-value numeric parse. It accepts
// currency symbols, thousands separators, percent signs, parenthesised
// negatives and European decimal commas.
func ParseNumber(s string) (float64, bool) {
	cleanVal := strings.TrimSpace(s)
	if cleanVal == "" {
		return 0, false
	}

	// Parentheses mark negatives in accounting exports: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, marker := range currencyMarkers {
		cleanVal = strings.ReplaceAll(cleanVal, marker, "")
	}
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")
	cleanVal = strings.TrimSpace(cleanVal)

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")

	switch {
	case hasComma && hasPeriod:
		// European style (1.234,56) when the comma is the last separator,
		// otherwise comma is a thousands separator (1,234.56).
		if strings.LastIndex(cleanVal, ",") > strings.LastIndex(cleanVal, ".") {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	case hasComma:
		// Comma only: decimal separator when it cuts off at most two digits,
		// thousands separator otherwise.
		afterComma := cleanVal[strings.LastIndex(cleanVal, ",")+1:]
		if strings.Count(cleanVal, ",") == 1 && len(afterComma) <= 2 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	}
	cleanVal = strings.ReplaceAll(cleanVal, " ", "")

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// dateLayouts are tried in order by the best-effort date parse. The two
// day-first conventions come first; bare integers are deliberately not
// treated as dates.
var dateLayouts = []string{
	"02-01-2006 15:04",
	"02-01-2006",
	"02/01/2006",
	"02-Jan-2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// ParseDateAny attempts a best-effort date parse across the common layouts.
// The matched layout is returned alongside the parsed time.
func ParseDateAny(s string) (time.Time, string, bool) {
	cleanVal := strings.TrimSpace(s)
	if cleanVal == "" {
		return time.Time{}, "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleanVal); err == nil {
			return t, layout, true
		}
	}
	return time.Time{}, "", false
}

// ParseDate attempts a strict parse under exactly one Go layout
func ParseDate(s, layout string) (time.Time, bool) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
