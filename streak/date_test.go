package streak

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d := mustDate(t, "2025-06-15")
	if d.Year != 2025 || d.Month != time.June || d.Day != 15 {
		t.Errorf("ParseDate returned %+v", d)
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, s := range []string{"", "not-a-date", "2025-13-01", "2025-02-30", "06/15/2025"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("Expected error parsing %q", s)
		}
	}
}

func TestDateStringRoundTrip(t *testing.T) {
	const s = "2025-01-09"
	if got := mustDate(t, s).String(); got != s {
		t.Errorf("Round trip %q -> %q", s, got)
	}
}

func TestAddDaysAcrossBoundaries(t *testing.T) {
	cases := []struct {
		start string
		n     int
		want  string
	}{
		{"2025-06-15", 1, "2025-06-16"},
		{"2025-06-30", 1, "2025-07-01"},
		{"2025-12-31", 1, "2026-01-01"},
		{"2025-03-01", -1, "2025-02-28"},
		{"2024-03-01", -1, "2024-02-29"}, // leap year
		{"2025-01-01", -1, "2024-12-31"},
	}
	for _, tc := range cases {
		got := mustDate(t, tc.start).AddDays(tc.n).String()
		if got != tc.want {
			t.Errorf("%s + %d days = %s, want %s", tc.start, tc.n, got, tc.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := mustDate(t, "2025-06-15")
	cases := []struct {
		b    string
		want int
	}{
		{"2025-06-15", 0},
		{"2025-06-16", 1},
		{"2025-06-14", -1},
		{"2025-07-15", 30},
		{"2026-06-15", 365},
	}
	for _, tc := range cases {
		if got := DaysBetween(a, mustDate(t, tc.b)); got != tc.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", a, tc.b, got, tc.want)
		}
	}
}

func TestDateOfStripsTime(t *testing.T) {
	loc := time.FixedZone("UTC+12", 12*60*60)
	// 23:30 on the 15th locally is already the 16th in UTC; the calendar
	// date must follow the local clock.
	d := DateOf(time.Date(2025, 6, 15, 23, 30, 0, 0, loc))
	if d != (Date{2025, time.June, 15}) {
		t.Errorf("DateOf returned %+v", d)
	}
}
