package table

import (
	"testing"
	"time"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"plain integer", "12", 12, true},
		{"plain float", "7.5", 7.5, true},
		{"negative", "-3.25", -3.25, true},
		{"thousands separator", "1,234.56", 1234.56, true},
		{"european decimal comma", "1234,56", 1234.56, true},
		{"european thousands", "1.234,56", 1234.56, true},
		{"currency dollar", "$45000", 45000, true},
		{"currency rupee", "₹1,00,000", 100000, true},
		{"currency code", "1200 INR", 1200, true},
		{"percent", "85%", 85, true},
		{"parenthesised negative", "(123)", -123, true},
		{"scientific", "1e3", 1000, true},
		{"internal spaces", "1 234", 1234, true},
		{"letters", "x", 0, false},
		{"mixed", "12a", 0, false},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"date-like", "31-01-2024", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseNumber(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ParseNumber(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDateAny(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		ok     bool
		layout string
	}{
		{"day first dash", "31-01-2024", true, "02-01-2006"},
		{"day first with time", "31-01-2024 18:30", true, "02-01-2006 15:04"},
		{"day first slash", "31/01/2024", true, "02/01/2006"},
		{"named month", "31-Jan-2024", true, "02-Jan-2006"},
		{"iso date", "2024-01-31", true, "2006-01-02"},
		{"invalid calendar date", "31-02-2024", false, ""},
		{"bare integer is not a date", "45321", false, ""},
		{"free text", "tomorrow", false, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, layout, ok := ParseDateAny(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDateAny(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			}
			if ok && layout != tt.layout {
				t.Errorf("ParseDateAny(%q) layout = %q, expected %q", tt.input, layout, tt.layout)
			}
		})
	}
}

func TestParseDateStrict(t *testing.T) {
	got, ok := ParseDate("31-01-2024", "02-01-2006")
	if !ok {
		t.Fatal("expected valid day-first date to parse")
	}
	want := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate = %v, expected %v", got, want)
	}

	// The strict parse must reject values a lenient parse would accept.
	if _, ok := ParseDate("2024-01-31", "02-01-2006"); ok {
		t.Error("expected ISO date to fail under the day-first layout")
	}
	if _, ok := ParseDate("31-02-2024", "02-01-2006"); ok {
		t.Error("expected the 31st of February to be rejected")
	}
}
