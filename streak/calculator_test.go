package streak

import "testing"

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestCalculateEmptyHistory(t *testing.T) {
	today := Date{2025, 6, 15}
	if got := Calculate(nil, today); got != 0 {
		t.Errorf("Expected streak 0 for empty history, got %d", got)
	}
}

func TestCalculateTodayAndYesterday(t *testing.T) {
	today := Date{2025, 6, 15}
	dates := []Date{today, today.AddDays(-1)}
	if got := Calculate(dates, today); got != 2 {
		t.Errorf("Expected streak 2, got %d", got)
	}
}

func TestCalculateStopsAtGap(t *testing.T) {
	today := Date{2025, 6, 15}
	// Completed today and three days ago: gap breaks the streak at 1.
	dates := []Date{today, today.AddDays(-3)}
	if got := Calculate(dates, today); got != 1 {
		t.Errorf("Expected streak 1 across a gap, got %d", got)
	}
}

func TestCalculateSkipDayInBetween(t *testing.T) {
	today := Date{2025, 6, 15}
	// Today, yesterday, then a miss, then another completion: streak is 2.
	dates := []Date{today, today.AddDays(-1), today.AddDays(-3)}
	if got := Calculate(dates, today); got != 2 {
		t.Errorf("Expected streak 2, got %d", got)
	}
}

func TestCalculateStaleHistory(t *testing.T) {
	today := Date{2025, 6, 15}
	// Most recent completion two full days ago: outside the tolerance band.
	dates := []Date{today.AddDays(-2), today.AddDays(-3)}
	if got := Calculate(dates, today); got != 0 {
		t.Errorf("Expected streak 0 for stale history, got %d", got)
	}
}

func TestCalculateClientClockAhead(t *testing.T) {
	today := Date{2025, 6, 15}
	// A client one timezone ahead logs "tomorrow"; it still counts.
	dates := []Date{today.AddDays(1), today}
	if got := Calculate(dates, today); got != 2 {
		t.Errorf("Expected streak 2 with client clock ahead, got %d", got)
	}
}

func TestCalculateClientClockBehind(t *testing.T) {
	today := Date{2025, 6, 15}
	dates := []Date{today.AddDays(-1), today.AddDays(-2)}
	if got := Calculate(dates, today); got != 2 {
		t.Errorf("Expected streak 2 with client clock behind, got %d", got)
	}
}

func TestCalculateIgnoresDuplicates(t *testing.T) {
	today := Date{2025, 6, 15}
	dates := []Date{today, today, today.AddDays(-1)}
	if got := Calculate(dates, today); got != 2 {
		t.Errorf("Expected duplicates to be skipped, got streak %d", got)
	}
}

func TestCalculateLookbackCap(t *testing.T) {
	today := Date{2025, 6, 15}
	dates := make([]Date, 0, 150)
	for i := 0; i < 150; i++ {
		dates = append(dates, today.AddDays(-i))
	}
	if got := Calculate(dates, today); got != MaxLookback {
		t.Errorf("Expected streak capped at %d, got %d", MaxLookback, got)
	}
}

func TestSkippedDaysNewUser(t *testing.T) {
	today := Date{2025, 6, 15}
	if got := SkippedDays(History{}, today); got != 0 {
		t.Errorf("Expected 0 skipped days for a new user, got %d", got)
	}
}

func TestSkippedDaysCompletedToday(t *testing.T) {
	today := Date{2025, 6, 15}
	h := History{LastCompleted: &today, LastAny: &today, FirstLog: &today}
	if got := SkippedDays(h, today); got != 0 {
		t.Errorf("Expected 0 skipped days when completed today, got %d", got)
	}
}

func TestSkippedDaysExcludesToday(t *testing.T) {
	today := Date{2025, 6, 15}
	yesterday := today.AddDays(-1)
	h := History{LastCompleted: &yesterday, LastAny: &yesterday, FirstLog: &yesterday}
	// Today is still in progress, so missing only yesterday's follow-up
	// counts as zero skipped days.
	if got := SkippedDays(h, today); got != 0 {
		t.Errorf("Expected 0 skipped days, got %d", got)
	}
}

func TestSkippedDaysThreeDaysAgo(t *testing.T) {
	today := Date{2025, 6, 15}
	last := today.AddDays(-3)
	h := History{LastCompleted: &last, LastAny: &last, FirstLog: &last}
	if got := SkippedDays(h, today); got != 2 {
		t.Errorf("Expected 2 skipped days, got %d", got)
	}
}

func TestSkippedDaysNeverCompleted(t *testing.T) {
	today := Date{2025, 6, 15}
	first := today.AddDays(-5)
	h := History{LastAny: &first, FirstLog: &first}
	// Logged something five days ago but never finished a routine.
	if got := SkippedDays(h, today); got != 5 {
		t.Errorf("Expected 5 skipped days, got %d", got)
	}
}

func TestStreakAndSkipsNeverBothPositive(t *testing.T) {
	today := Date{2025, 6, 15}
	for offset := 0; offset <= 10; offset++ {
		last := today.AddDays(-offset)
		dates := []Date{last, last.AddDays(-1)}
		h := History{LastCompleted: &last, LastAny: &last, FirstLog: &last}

		s := Calculate(dates, today)
		k := SkippedDays(h, today)
		if s > 0 && k > 0 {
			t.Errorf("offset %d: streak %d and skipped %d both positive", offset, s, k)
		}
	}
}
