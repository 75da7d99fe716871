package services

import (
	"context"
	"errors"
	"testing"

	"clearday/db"
	"clearday/models"
	"clearday/streak"
)

var testToday = streak.Date{Year: 2025, Month: 6, Day: 15}

// fakeLogs is an in-memory LogHistory.
type fakeLogs struct {
	completed []streak.Date // most recent first
	anyDates  []streak.Date // most recent first, completed or not
	err       error
}

func (f *fakeLogs) CompletedDates(_ context.Context, _ string, limit int64) ([]streak.Date, error) {
	if f.err != nil {
		return nil, f.err
	}
	if int64(len(f.completed)) > limit {
		return f.completed[:limit], nil
	}
	return f.completed, nil
}

func (f *fakeLogs) LastCompletedDate(context.Context, string) (*streak.Date, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.completed) == 0 {
		return nil, nil
	}
	d := f.completed[0]
	return &d, nil
}

func (f *fakeLogs) LastLogDate(context.Context, string) (*streak.Date, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.anyDates) == 0 {
		return nil, nil
	}
	d := f.anyDates[0]
	return &d, nil
}

func (f *fakeLogs) FirstLogDate(context.Context, string) (*streak.Date, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.anyDates) == 0 {
		return nil, nil
	}
	d := f.anyDates[len(f.anyDates)-1]
	return &d, nil
}

func (f *fakeLogs) CountCompleted(context.Context, string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.completed)), nil
}

// withCompleted sets both views of the history from the completed dates.
func withCompleted(dates ...streak.Date) *fakeLogs {
	return &fakeLogs{completed: dates, anyDates: dates}
}

// fakeAnalytics is an in-memory AnalyticsWriter with a CAS reset.
type fakeAnalytics struct {
	record     *models.Analytics
	resetFired int
}

func (f *fakeAnalytics) Find(context.Context, string) (*models.Analytics, error) {
	if f.record == nil {
		return nil, db.ErrAnalyticsNotFound
	}
	copied := *f.record
	return &copied, nil
}

func (f *fakeAnalytics) Create(_ context.Context, userID, baselineDate string) (*models.Analytics, error) {
	if f.record == nil {
		f.record = &models.Analytics{
			UserID:             userID,
			BaselineDate:       baselineDate,
			ProgressMetrics:    []models.ProgressMetric{},
			ProductEvaluations: []models.ProductEvaluation{},
		}
	}
	copied := *f.record
	return &copied, nil
}

func (f *fakeAnalytics) UpdateCounters(_ context.Context, _ string, skippedDays, totalDaysTracked int) error {
	f.record.SkippedDays = skippedDays
	f.record.TotalDaysTracked = totalDaysTracked
	return nil
}

func (f *fakeAnalytics) TryReset(_ context.Context, _ string, baselineDate string) (bool, error) {
	if f.record.IsReset {
		return false, nil
	}
	f.record.IsReset = true
	f.record.ProgressMetrics = []models.ProgressMetric{}
	f.record.BaselineDate = baselineDate
	f.record.SkippedDays = 0
	f.record.TotalDaysTracked = 0
	f.resetFired++
	return true, nil
}

// clearResetFlag mirrors the completed-routine write path.
func (f *fakeAnalytics) clearResetFlag() {
	f.record.IsReset = false
}

func newTestService(logs LogHistory, analytics AnalyticsWriter) *StatusService {
	svc := NewStatusService(logs, analytics)
	svc.now = func() streak.Date { return testToday }
	return svc
}

func TestRefreshLazyCreatesAnalytics(t *testing.T) {
	analytics := &fakeAnalytics{}
	svc := newTestService(withCompleted(), analytics)

	status, err := svc.Refresh(context.Background(), "user1")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if analytics.record == nil {
		t.Fatal("Expected analytics record to be created lazily")
	}
	if analytics.record.BaselineDate != testToday.String() {
		t.Errorf("Expected baseline %s, got %s", testToday, analytics.record.BaselineDate)
	}
	if status.Streak != 0 || status.SkippedDays != 0 || status.Warning != "" {
		t.Errorf("Expected empty status for new user, got %+v", status)
	}
}

func TestRefreshComputesStreakAndTotal(t *testing.T) {
	analytics := &fakeAnalytics{}
	logs := withCompleted(testToday, testToday.AddDays(-1), testToday.AddDays(-3))
	svc := newTestService(logs, analytics)

	status, err := svc.Refresh(context.Background(), "user1")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if status.Streak != 2 {
		t.Errorf("Expected streak 2, got %d", status.Streak)
	}
	if status.SkippedDays != 0 {
		t.Errorf("Expected 0 skipped days, got %d", status.SkippedDays)
	}
	if analytics.record.TotalDaysTracked != 3 {
		t.Errorf("Expected totalDaysTracked recomputed to 3, got %d", analytics.record.TotalDaysTracked)
	}
}

func TestRefreshWarningTiers(t *testing.T) {
	cases := []struct {
		daysAgo int
		want    string
	}{
		{0, ""},
		{2, WarningGentle},
		{3, WarningAccuracy},
		{4, WarningFinal},
	}
	for _, tc := range cases {
		last := testToday.AddDays(-tc.daysAgo)
		svc := newTestService(withCompleted(last), &fakeAnalytics{})

		status, err := svc.Refresh(context.Background(), "user1")
		if err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}
		if status.Warning != tc.want {
			t.Errorf("Last completed %d days ago: warning %q, want %q", tc.daysAgo, status.Warning, tc.want)
		}
	}
}

func TestRefreshResetFiresOnce(t *testing.T) {
	// Last completion five days back: 4 fully-elapsed missed days.
	logs := withCompleted(testToday.AddDays(-5))
	analytics := &fakeAnalytics{}
	svc := newTestService(logs, analytics)

	status, err := svc.Refresh(context.Background(), "user1")
	if err != nil {
		t.Fatalf("First refresh failed: %v", err)
	}
	if status.Warning != WarningReset {
		t.Errorf("Expected reset confirmation, got %q", status.Warning)
	}
	// The response carries the triggering skip count, the stored record
	// starts the new epoch at zero.
	if status.SkippedDays != 4 {
		t.Errorf("Expected returned skippedDays 4, got %d", status.SkippedDays)
	}
	if !status.Analytics.IsReset {
		t.Error("Expected returned record marked reset")
	}
	if len(status.Analytics.ProgressMetrics) != 0 {
		t.Errorf("Expected progressMetrics cleared, got %d entries", len(status.Analytics.ProgressMetrics))
	}
	if analytics.record.BaselineDate != testToday.String() {
		t.Errorf("Expected baseline rebased to %s, got %s", testToday, analytics.record.BaselineDate)
	}

	// Second call in the same skip streak: no second reset, no tier message.
	status, err = svc.Refresh(context.Background(), "user1")
	if err != nil {
		t.Fatalf("Second refresh failed: %v", err)
	}
	if analytics.resetFired != 1 {
		t.Errorf("Expected reset to fire exactly once, fired %d times", analytics.resetFired)
	}
	if status.Warning != "" {
		t.Errorf("Expected no warning after reset, got %q", status.Warning)
	}
}

func TestRefreshResetRaceLoser(t *testing.T) {
	logs := withCompleted(testToday.AddDays(-5))
	analytics := &fakeAnalytics{}
	// Simulate a concurrent call winning the CAS between Find and TryReset.
	if _, err := analytics.Create(context.Background(), "user1", testToday.AddDays(-10).String()); err != nil {
		t.Fatal(err)
	}
	analytics.record.ProgressMetrics = []models.ProgressMetric{{ID: "m1"}}

	svc := newTestService(logs, analytics)
	svc.now = func() streak.Date {
		// First invocation of now() happens before the CAS; flip the flag
		// here to model the concurrent winner.
		if !analytics.record.IsReset {
			analytics.record.IsReset = true
			analytics.record.ProgressMetrics = []models.ProgressMetric{}
			analytics.record.BaselineDate = testToday.String()
		}
		return testToday
	}

	status, err := svc.Refresh(context.Background(), "user1")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if analytics.resetFired != 0 {
		t.Errorf("Expected losing call not to fire the reset, fired %d times", analytics.resetFired)
	}
	if status.Warning == WarningReset {
		t.Error("Expected losing call not to report the reset confirmation")
	}
	if len(analytics.record.ProgressMetrics) != 0 {
		t.Error("Expected progressMetrics to stay cleared")
	}
	if analytics.record.BaselineDate != testToday.String() {
		t.Errorf("Expected baseline to stay %s, got %s", testToday, analytics.record.BaselineDate)
	}
}

func TestRefreshResetRearmsAfterCompletion(t *testing.T) {
	logs := withCompleted(testToday.AddDays(-5))
	analytics := &fakeAnalytics{}
	svc := newTestService(logs, analytics)

	if _, err := svc.Refresh(context.Background(), "user1"); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if analytics.resetFired != 1 {
		t.Fatalf("Expected first reset, fired %d times", analytics.resetFired)
	}

	// The user completes a routine (JustReset -> Active), then lapses again.
	analytics.clearResetFlag()
	if _, err := svc.Refresh(context.Background(), "user1"); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if analytics.resetFired != 2 {
		t.Errorf("Expected reset to re-arm after completion, fired %d times", analytics.resetFired)
	}
}

func TestRefreshFailsWhenLogsUnavailable(t *testing.T) {
	logs := &fakeLogs{err: errors.New("connection refused")}
	analytics := &fakeAnalytics{}
	if _, err := analytics.Create(context.Background(), "user1", testToday.String()); err != nil {
		t.Fatal(err)
	}

	svc := newTestService(logs, analytics)
	if _, err := svc.Refresh(context.Background(), "user1"); err == nil {
		t.Error("Expected Refresh to fail when the log source is unavailable")
	}
}

func TestRefreshReflectsNewLogs(t *testing.T) {
	logs := withCompleted()
	analytics := &fakeAnalytics{}
	svc := newTestService(logs, analytics)

	status, err := svc.Refresh(context.Background(), "user1")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if status.Streak != 0 {
		t.Fatalf("Expected streak 0 before logging, got %d", status.Streak)
	}

	// Write a completed log for today; the next status read must see it
	// without any separate recomputation step.
	logs.completed = []streak.Date{testToday}
	logs.anyDates = logs.completed

	status, err = svc.Refresh(context.Background(), "user1")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if status.Streak != 1 {
		t.Errorf("Expected streak 1 after logging today, got %d", status.Streak)
	}
	if status.SkippedDays != 0 {
		t.Errorf("Expected 0 skipped days after logging today, got %d", status.SkippedDays)
	}
}
