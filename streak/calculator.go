package streak

// MaxLookback caps how many completed logs the streak walk inspects.
// Streaks longer than this are reported as MaxLookback.
const MaxLookback = 100

// Calculate computes the consecutive-day streak ending at today from a
// user's completed-log dates, sorted most recent first.
//
// The most recent completion must fall within one day of today in either
// direction: a client a timezone ahead logs "tomorrow", a client behind
// logs "yesterday", both still count.
func Calculate(completed []Date, today Date) int {
	if len(completed) == 0 {
		return 0
	}
	if len(completed) > MaxLookback {
		completed = completed[:MaxLookback]
	}

	mostRecent := completed[0]
	diff := DaysBetween(mostRecent, today)
	if diff < -1 || diff > 1 {
		return 0
	}

	streak := 0
	expected := mostRecent
	for _, d := range completed {
		gap := DaysBetween(d, expected)
		switch {
		case gap == 0:
			streak++
			expected = expected.AddDays(-1)
		case gap > 0:
			// Missed day, streak ends here.
			return streak
		}
		// gap < 0: duplicate or out-of-order entry, skip it.
	}
	return streak
}

// History is the minimal view of a user's log history needed to count
// skipped days. Nil fields mean "no such log exists".
type History struct {
	// LastCompleted is the most recent date with a completed routine.
	LastCompleted *Date
	// LastAny is the most recent log of any kind, completed or not.
	LastAny *Date
	// FirstLog is the user's earliest log of any kind.
	FirstLog *Date
}

// SkippedDays counts consecutive fully-elapsed days without a completed
// routine. Today is excluded while it is still in progress: missing
// "yesterday" only becomes one skipped day once today has been missed too.
func SkippedDays(h History, today Date) int {
	if h.LastCompleted == nil {
		if h.LastAny == nil || h.FirstLog == nil {
			// Brand-new user, nothing to skip yet.
			return 0
		}
		// Logged something but never finished a routine: every day since
		// the first interaction counts as skipped.
		return maxInt(0, DaysBetween(*h.FirstLog, today))
	}
	if h.LastCompleted.Equal(today) {
		return 0
	}
	return maxInt(0, DaysBetween(*h.LastCompleted, today)-1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
