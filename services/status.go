package services

import (
	"context"
	"errors"
	"fmt"

	"clearday/db"
	"clearday/models"
	"clearday/streak"
)

// Warning messages returned by the status endpoint. The three tier strings
// and the reset confirmation are distinct and mutually exclusive.
const (
	WarningGentle   = "Gentle reminder: You missed yesterday. Try to stay consistent!"
	WarningAccuracy = "Warning: You missed 2 days. Your progress insights may be less accurate."
	WarningFinal    = "Final warning: One more missed day will reset your analytics."
	WarningReset    = "Analytics reset. Your photos are preserved, but insights start fresh."
)

// LogHistory is the read side of the daily_logs collection the status
// computation depends on. Implemented by db.DailyLogStore.
type LogHistory interface {
	CompletedDates(ctx context.Context, userID string, limit int64) ([]streak.Date, error)
	LastCompletedDate(ctx context.Context, userID string) (*streak.Date, error)
	LastLogDate(ctx context.Context, userID string) (*streak.Date, error)
	FirstLogDate(ctx context.Context, userID string) (*streak.Date, error)
	CountCompleted(ctx context.Context, userID string) (int64, error)
}

// AnalyticsWriter is the slice of the analytics store the status refresh
// needs. Implemented by db.AnalyticsStore.
type AnalyticsWriter interface {
	Find(ctx context.Context, userID string) (*models.Analytics, error)
	Create(ctx context.Context, userID, baselineDate string) (*models.Analytics, error)
	UpdateCounters(ctx context.Context, userID string, skippedDays, totalDaysTracked int) error
	TryReset(ctx context.Context, userID, baselineDate string) (bool, error)
}

// DailyStatus is the result of one status refresh.
type DailyStatus struct {
	Streak      int
	SkippedDays int
	Warning     string
	Analytics   *models.Analytics
}

// StatusService recomputes a user's streak, skip count and analytics record
// on every status read. It is idempotent and safe to call concurrently for
// the same user: the only guarded transition, the epoch reset, goes through
// an atomic conditional update.
type StatusService struct {
	logs      LogHistory
	analytics AnalyticsWriter
	now       func() streak.Date
}

func NewStatusService(logs LogHistory, analytics AnalyticsWriter) *StatusService {
	return &StatusService{logs: logs, analytics: analytics, now: streak.Today}
}

// Refresh computes the user's daily status and applies the reset policy.
// Any failure reading the log history fails the whole request: streak and
// warning are derived together, so there is no safe degraded mode.
func (s *StatusService) Refresh(ctx context.Context, userID string) (*DailyStatus, error) {
	today := s.now()

	record, err := s.analytics.Find(ctx, userID)
	if errors.Is(err, db.ErrAnalyticsNotFound) {
		record, err = s.analytics.Create(ctx, userID, today.String())
	}
	if err != nil {
		return nil, fmt.Errorf("loading analytics for %s: %w", userID, err)
	}

	completedDates, err := s.logs.CompletedDates(ctx, userID, streak.MaxLookback)
	if err != nil {
		return nil, fmt.Errorf("computing streak for %s: %w", userID, err)
	}
	currentStreak := streak.Calculate(completedDates, today)

	hist := streak.History{}
	if hist.LastCompleted, err = s.logs.LastCompletedDate(ctx, userID); err != nil {
		return nil, fmt.Errorf("computing skipped days for %s: %w", userID, err)
	}
	if hist.LastAny, err = s.logs.LastLogDate(ctx, userID); err != nil {
		return nil, fmt.Errorf("computing skipped days for %s: %w", userID, err)
	}
	if hist.FirstLog, err = s.logs.FirstLogDate(ctx, userID); err != nil {
		return nil, fmt.Errorf("computing skipped days for %s: %w", userID, err)
	}
	skippedDays := streak.SkippedDays(hist, today)

	completedCount, err := s.logs.CountCompleted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting completed logs for %s: %w", userID, err)
	}

	status := &DailyStatus{
		Streak:      currentStreak,
		SkippedDays: skippedDays,
		Analytics:   record,
	}

	if skippedDays >= models.ResetThreshold && record.State() == models.EpochActive {
		fired, err := s.analytics.TryReset(ctx, userID, today.String())
		if err != nil {
			return nil, fmt.Errorf("resetting analytics for %s: %w", userID, err)
		}
		if fired {
			// The stored record starts the new epoch at zero; the response
			// still carries the skip count that triggered the reset.
			record.IsReset = true
			record.ProgressMetrics = []models.ProgressMetric{}
			record.BaselineDate = today.String()
			record.SkippedDays = 0
			record.TotalDaysTracked = 0
			status.Warning = WarningReset
			return status, nil
		}
		// Lost the race: a concurrent call already fired the reset.
		// Fall through and treat this call like any post-reset read.
		if record, err = s.analytics.Find(ctx, userID); err != nil {
			return nil, fmt.Errorf("reloading analytics for %s: %w", userID, err)
		}
		status.Analytics = record
	}

	record.SkippedDays = skippedDays
	record.TotalDaysTracked = int(completedCount)
	if err := s.analytics.UpdateCounters(ctx, userID, skippedDays, int(completedCount)); err != nil {
		return nil, fmt.Errorf("persisting analytics counters for %s: %w", userID, err)
	}

	switch skippedDays {
	case 0:
		// No warning.
	case 1:
		status.Warning = WarningGentle
	case 2:
		status.Warning = WarningAccuracy
	case 3:
		status.Warning = WarningFinal
	default:
		// 4+ with the reset already fired earlier: the epoch is in
		// JustReset until the next completed routine, no tier message.
	}
	return status, nil
}
