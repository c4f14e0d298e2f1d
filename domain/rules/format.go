package rules

import (
	"fmt"
	"strings"
)

// Operator-facing format tokens. These are what findings suggest and what
// coercion requests carry; Go layouts stay an internal detail.
const (
	TokenDate     = "dd-mm-yyyy"
	TokenDateTime = "dd-mm-yyyy hh:mm"
)

// InferHeaderFormat derives the expected date/time format from a column
// name alone. Names containing "time" expect day-month-year hour:minute;
// names containing "date" expect day-month-year. The check is independent
// of the rule table and fires for every dataset column.
func InferHeaderFormat(column string) (string, bool) {
	lower := strings.ToLower(column)
	switch {
	case strings.Contains(lower, "time"):
		return TokenDateTime, true
	case strings.Contains(lower, "date"):
		return TokenDate, true
	}
	return "", false
}

// TranslateFormat converts an operator-facing format token string into a Go
// time layout. Recognized tokens: yyyy, yy, dd, hh, mm, ss; mm means month
// until an hour token has been seen and minutes afterwards. Separators
// -, /, :, ., and space pass through. Anything else is an error.
func TranslateFormat(token string) (string, error) {
	src := strings.ToLower(strings.TrimSpace(token))
	if src == "" {
		return "", fmt.Errorf("format is empty")
	}

	var out strings.Builder
	sawHour := false
	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "yyyy"):
			out.WriteString("2006")
			i += 4
		case strings.HasPrefix(src[i:], "yy"):
			out.WriteString("06")
			i += 2
		case strings.HasPrefix(src[i:], "dd"):
			out.WriteString("02")
			i += 2
		case strings.HasPrefix(src[i:], "hh"):
			out.WriteString("15")
			sawHour = true
			i += 2
		case strings.HasPrefix(src[i:], "mm"):
			if sawHour {
				out.WriteString("04")
			} else {
				out.WriteString("01")
			}
			i += 2
		case strings.HasPrefix(src[i:], "ss"):
			out.WriteString("05")
			i += 2
		case strings.ContainsRune("-/:. ", rune(src[i])):
			out.WriteByte(src[i])
			i++
		default:
			return "", fmt.Errorf("format %q: unsupported token at %q", token, src[i:])
		}
	}
	return out.String(), nil
}
