package utils

import (
	"regexp"

	"clearday/streak"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := streak.ParseDate(s)
	return err == nil
}

// ValidLevel reports whether a skin-condition level is within the 0-10 scale.
func ValidLevel(n int) bool {
	return n >= 0 && n <= 10
}
