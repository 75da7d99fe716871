package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"clearday/models"
	"clearday/streak"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DailyLogStore is the data-access layer over the daily_logs collection.
// It is the single source of truth the streak and skip calculators read
// from; the analytics counters are only a cache of what lives here.
type DailyLogStore struct {
	coll *mongo.Collection
}

func NewDailyLogStore() *DailyLogStore {
	return &DailyLogStore{coll: MongoDatabase.Collection("daily_logs")}
}

// CompletedDates returns the dates of completed-routine logs, most recent
// first, capped at limit. Logs with malformed date strings are skipped
// rather than failing the whole read: historical data may be inconsistent
// and one bad row must not break the streak computation.
func (s *DailyLogStore) CompletedDates(ctx context.Context, userID string, limit int64) ([]streak.Date, error) {
	opts := options.Find().
		SetSort(bson.M{"date": -1}).
		SetLimit(limit).
		SetProjection(bson.M{"date": 1})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID, "routineCompleted": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching completed dates: %w", err)
	}
	defer cursor.Close(ctx)

	var dates []streak.Date
	for cursor.Next(ctx) {
		var row struct {
			Date string `bson:"date"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decoding log date: %w", err)
		}
		d, ok := parseLogDate(row.Date, userID)
		if !ok {
			continue
		}
		dates = append(dates, d)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating completed dates: %w", err)
	}
	return dates, nil
}

// LastCompletedDate returns the most recent completed-log date, or nil.
func (s *DailyLogStore) LastCompletedDate(ctx context.Context, userID string) (*streak.Date, error) {
	return s.oneDate(ctx, bson.M{"userId": userID, "routineCompleted": true}, -1)
}

// LastLogDate returns the most recent log date of any kind, or nil.
func (s *DailyLogStore) LastLogDate(ctx context.Context, userID string) (*streak.Date, error) {
	return s.oneDate(ctx, bson.M{"userId": userID}, -1)
}

// FirstLogDate returns the user's earliest log date of any kind, or nil.
func (s *DailyLogStore) FirstLogDate(ctx context.Context, userID string) (*streak.Date, error) {
	return s.oneDate(ctx, bson.M{"userId": userID}, 1)
}

func (s *DailyLogStore) oneDate(ctx context.Context, filter bson.M, sort int) (*streak.Date, error) {
	opts := options.FindOne().
		SetSort(bson.M{"date": sort}).
		SetProjection(bson.M{"date": 1})
	var row struct {
		Date string `bson:"date"`
	}
	err := s.coll.FindOne(ctx, filter, opts).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching log date: %w", err)
	}
	d, ok := parseLogDate(row.Date, "")
	if !ok {
		// Treat an unparseable date as absent rather than erroring out.
		return nil, nil
	}
	return &d, nil
}

// parseLogDate parses a stored date string. A malformed date is reported
// with ok == false instead of an error: historical data may be
// inconsistent and one bad row must not break the streak computation.
func parseLogDate(raw, userID string) (streak.Date, bool) {
	d, err := streak.ParseDate(raw)
	if err != nil {
		log.Printf("Skipping malformed log date for user %q: %v", userID, err)
		return streak.Date{}, false
	}
	return d, true
}

// CountCompleted counts the user's completed-routine logs.
func (s *DailyLogStore) CountCompleted(ctx context.Context, userID string) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"userId": userID, "routineCompleted": true})
	if err != nil {
		return 0, fmt.Errorf("counting completed logs: %w", err)
	}
	return n, nil
}

// FindByDate returns the log for one (userId, date) pair, or nil.
func (s *DailyLogStore) FindByDate(ctx context.Context, userID, date string) (*models.DailyLog, error) {
	var entry models.DailyLog
	err := s.coll.FindOne(ctx, bson.M{"userId": userID, "date": date}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching daily log: %w", err)
	}
	return &entry, nil
}

// FindRecent returns the user's most recent logs of any kind, newest first.
func (s *DailyLogStore) FindRecent(ctx context.Context, userID string, limit int64) ([]models.DailyLog, error) {
	opts := options.Find().SetSort(bson.M{"date": -1}).SetLimit(limit)
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching recent logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []models.DailyLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("decoding recent logs: %w", err)
	}
	return logs, nil
}

// FindSince returns logs created after the cutoff, newest first.
func (s *DailyLogStore) FindSince(ctx context.Context, userID string, cutoff time.Time) ([]models.DailyLog, error) {
	opts := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID, "createdAt": bson.M{"$gte": cutoff}}, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching log history: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []models.DailyLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("decoding log history: %w", err)
	}
	return logs, nil
}

// Upsert writes the given fields onto the (userId, date) log, creating it
// if needed, and returns the updated document. Keying the upsert on the
// unique pair means a retried request updates in place instead of
// duplicating the day.
func (s *DailyLogStore) Upsert(ctx context.Context, userID, date string, fields bson.M) (*models.DailyLog, error) {
	update := bson.M{
		"$setOnInsert": bson.M{"userId": userID, "date": date, "createdAt": time.Now()},
	}
	if len(fields) > 0 {
		update["$set"] = fields
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var entry models.DailyLog
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID, "date": date}, update, opts).Decode(&entry)
	if err != nil {
		return nil, fmt.Errorf("upserting daily log: %w", err)
	}
	return &entry, nil
}

// DeleteAllForUser removes every log for the user (account deletion only).
func (s *DailyLogStore) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("deleting daily logs: %w", err)
	}
	return nil
}
