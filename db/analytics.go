package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clearday/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAnalyticsNotFound is returned when a user has no analytics document.
var ErrAnalyticsNotFound = errors.New("analytics record not found")

// AnalyticsStore is the data-access layer over the analytics collection.
type AnalyticsStore struct {
	coll *mongo.Collection
}

func NewAnalyticsStore() *AnalyticsStore {
	return &AnalyticsStore{coll: MongoDatabase.Collection("analytics")}
}

// Find returns the user's analytics record or ErrAnalyticsNotFound.
func (s *AnalyticsStore) Find(ctx context.Context, userID string) (*models.Analytics, error) {
	var record models.Analytics
	err := s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, ErrAnalyticsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching analytics: %w", err)
	}
	return &record, nil
}

// Create inserts a fresh analytics record with the given baseline date. An
// upsert keyed on userId keeps concurrent lazy creations from colliding
// with the unique index.
func (s *AnalyticsStore) Create(ctx context.Context, userID, baselineDate string) (*models.Analytics, error) {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"userId":             userID,
			"baselineDate":       baselineDate,
			"isReset":            false,
			"skippedDays":        0,
			"totalDaysTracked":   0,
			"progressMetrics":    []models.ProgressMetric{},
			"productEvaluations": []models.ProductEvaluation{},
			"createdAt":          now,
			"updatedAt":          now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record models.Analytics
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&record)
	if err != nil {
		return nil, fmt.Errorf("creating analytics: %w", err)
	}
	return &record, nil
}

// UpdateCounters refreshes the cached skippedDays / totalDaysTracked values.
// A plain write is fine here: the values are recomputed from the source
// logs on every read, so a lost update self-heals on the next call.
func (s *AnalyticsStore) UpdateCounters(ctx context.Context, userID string, skippedDays, totalDaysTracked int) error {
	update := bson.M{"$set": bson.M{
		"skippedDays":      skippedDays,
		"totalDaysTracked": totalDaysTracked,
		"updatedAt":        time.Now(),
	}}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"userId": userID}, update); err != nil {
		return fmt.Errorf("updating analytics counters: %w", err)
	}
	return nil
}

// TryReset performs the Active -> JustReset transition atomically. The
// filter requires isReset to still be false at write time, so two
// concurrent status calls crossing the skip threshold fire the transition
// exactly once; the loser sees fired == false.
func (s *AnalyticsStore) TryReset(ctx context.Context, userID, baselineDate string) (bool, error) {
	filter := bson.M{"userId": userID, "isReset": false}
	update := bson.M{"$set": bson.M{
		"isReset":          true,
		"progressMetrics":  []models.ProgressMetric{},
		"baselineDate":     baselineDate,
		"skippedDays":      0,
		"totalDaysTracked": 0,
		"updatedAt":        time.Now(),
	}}
	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("applying analytics reset: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// ClearResetFlag moves the epoch back to Active once the user completes a
// routine after a reset.
func (s *AnalyticsStore) ClearResetFlag(ctx context.Context, userID string) error {
	update := bson.M{"$set": bson.M{"isReset": false, "updatedAt": time.Now()}}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"userId": userID}, update); err != nil {
		return fmt.Errorf("clearing reset flag: %w", err)
	}
	return nil
}

// AppendProgressMetric appends one AI analysis entry.
func (s *AnalyticsStore) AppendProgressMetric(ctx context.Context, userID string, metric models.ProgressMetric) error {
	update := bson.M{
		"$push": bson.M{"progressMetrics": metric},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := s.coll.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return fmt.Errorf("storing progress metric: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAnalyticsNotFound
	}
	return nil
}

// AppendProductEvaluation appends one product evaluation entry.
func (s *AnalyticsStore) AppendProductEvaluation(ctx context.Context, userID string, eval models.ProductEvaluation) error {
	update := bson.M{
		"$push": bson.M{"productEvaluations": eval},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := s.coll.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return fmt.Errorf("storing product evaluation: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAnalyticsNotFound
	}
	return nil
}

// RemoveProgressMetric deletes one analysis entry by its ID.
func (s *AnalyticsStore) RemoveProgressMetric(ctx context.Context, userID, metricID string) error {
	update := bson.M{
		"$pull": bson.M{"progressMetrics": bson.M{"id": metricID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := s.coll.UpdateOne(ctx, bson.M{"userId": userID}, update)
	if err != nil {
		return fmt.Errorf("removing progress metric: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAnalyticsNotFound
	}
	return nil
}

// Delete removes the user's analytics record (account deletion only).
func (s *AnalyticsStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("deleting analytics: %w", err)
	}
	return nil
}
