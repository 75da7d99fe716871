package utils

import "testing"

func TestValidDate(t *testing.T) {
	valid := []string{"2025-01-01", "2024-02-29", "1999-12-31"}
	for _, s := range valid {
		if !ValidDate(s) {
			t.Errorf("Expected %q to be valid", s)
		}
	}

	invalid := []string{"", "2025-1-1", "06/15/2025", "2025-13-01", "2025-02-30", "2025-06-15T00:00:00Z", "not-a-date"}
	for _, s := range invalid {
		if ValidDate(s) {
			t.Errorf("Expected %q to be invalid", s)
		}
	}
}

func TestValidLevel(t *testing.T) {
	for _, n := range []int{0, 5, 10} {
		if !ValidLevel(n) {
			t.Errorf("Expected level %d to be valid", n)
		}
	}
	for _, n := range []int{-1, 11, 100} {
		if ValidLevel(n) {
			t.Errorf("Expected level %d to be invalid", n)
		}
	}
}
