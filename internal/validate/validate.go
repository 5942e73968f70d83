// Package validate holds the field-level rules shared by ingestion and CRUD:
// tax-ID format, the dd/mm/yyyy date conventions of the inbound feeds, and
// enum normalization for values that arrive with inconsistent casing.
package validate

import (
	"regexp"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format for dates (dd/mm/yyyy).
	DateLayout = "02/01/2006"
	// DateTimeLayout is the wire format for timestamps (dd/mm/yyyy HH:MM).
	DateTimeLayout = "02/01/2006 15:04"
)

var (
	nitPattern      = regexp.MustCompile(`^\d+-[\dKk]$`)
	datePattern     = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)
	dateTimePattern = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4} \d{2}:\d{2})\b`)
)

// NIT reports whether s is a well-formed tax ID (digits, dash, check digit or K).
func NIT(s string) bool {
	return nitPattern.MatchString(s)
}

// ExtractDate finds a dd/mm/yyyy date anywhere in text and parses it.
// The inbound feeds embed dates in free-form element text.
func ExtractDate(text string) (time.Time, bool) {
	match := datePattern.FindString(text)
	if match == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, match)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ExtractDateTime finds a dd/mm/yyyy HH:MM timestamp anywhere in text and parses it.
func ExtractDateTime(text string) (time.Time, bool) {
	match := dateTimePattern.FindString(text)
	if match == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateTimeLayout, match)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t in the wire date format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime renders t in the wire timestamp format.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// NormalizeEnum canonicalizes value against the allowed spellings,
// case-insensitively. Returns the canonical form and whether it matched.
func NormalizeEnum(value string, allowed ...string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	for _, canonical := range allowed {
		if strings.EqualFold(trimmed, canonical) {
			return canonical, true
		}
	}
	return trimmed, false
}
