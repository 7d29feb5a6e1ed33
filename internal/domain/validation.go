package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFieldLength = 100

// Validator checks a single client-supplied field.
type Validator func(string) error

// ValidateName accepts letters, spaces, apostrophes, hyphens and periods.
func ValidateName(s string) error {
	if reason := checkField(s, func(r rune) bool {
		return unicode.IsLetter(r) || r == ' ' || r == '\'' || r == '-' || r == '.'
	}); reason != "" {
		return InvalidNameError{Value: s, Reason: reason}
	}
	return nil
}

// ValidateCitizenship accepts letters and spaces.
func ValidateCitizenship(s string) error {
	if reason := checkField(s, func(r rune) bool {
		return unicode.IsLetter(r) || r == ' '
	}); reason != "" {
		return InvalidCitizenshipError{Value: s, Reason: reason}
	}
	return nil
}

func checkField(s string, allowed func(rune) bool) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "must not be empty"
	}
	if utf8.RuneCountInString(trimmed) > maxFieldLength {
		return "too long"
	}
	for _, r := range trimmed {
		if !allowed(r) {
			return "contains invalid characters"
		}
	}
	return ""
}
