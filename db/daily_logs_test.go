package db

import (
	"testing"

	"clearday/streak"
)

func TestParseLogDateSkipsMalformedRows(t *testing.T) {
	// Mixed history the way a migration or a buggy old client could leave
	// it: the bad rows are dropped, the good rows still feed the streak.
	rows := []string{"2025-06-15", "garbage", "2025-06-14", "2025-02-30", "", "06/13/2025"}

	var dates []streak.Date
	for _, raw := range rows {
		if d, ok := parseLogDate(raw, "user1"); ok {
			dates = append(dates, d)
		}
	}

	if len(dates) != 2 {
		t.Fatalf("Expected 2 parsed dates, got %d", len(dates))
	}
	if dates[0].String() != "2025-06-15" || dates[1].String() != "2025-06-14" {
		t.Errorf("Expected the well-formed dates to survive, got %v", dates)
	}

	today := streak.Date{Year: 2025, Month: 6, Day: 15}
	if got := streak.Calculate(dates, today); got != 2 {
		t.Errorf("Expected streak 2 over the surviving dates, got %d", got)
	}
}
