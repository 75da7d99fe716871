package db

import (
	"context"
	"fmt"
	"time"

	"clearday/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MilestoneStore is the data-access layer over the milestones collection.
type MilestoneStore struct {
	coll *mongo.Collection
}

func NewMilestoneStore() *MilestoneStore {
	return &MilestoneStore{coll: MongoDatabase.Collection("milestones")}
}

// FindOrCreate returns the user's milestone record, creating an empty one
// on first access.
func (s *MilestoneStore) FindOrCreate(ctx context.Context, userID string) (*models.Milestone, error) {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"userId":                 userID,
			"currentStreak":          0,
			"longestStreak":          0,
			"milestones":             models.MilestoneSet{},
			"realWorldGestures":      []models.Gesture{},
			"totalGesturesCompleted": 0,
			"createdAt":              now,
			"updatedAt":              now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var record models.Milestone
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&record)
	if err != nil {
		return nil, fmt.Errorf("fetching milestone record: %w", err)
	}
	return &record, nil
}

// Find returns the user's milestone record, or nil when absent.
func (s *MilestoneStore) Find(ctx context.Context, userID string) (*models.Milestone, error) {
	var record models.Milestone
	err := s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching milestone record: %w", err)
	}
	return &record, nil
}

// Save writes the full milestone record back.
func (s *MilestoneStore) Save(ctx context.Context, record *models.Milestone) error {
	record.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"currentStreak":          record.CurrentStreak,
		"longestStreak":          record.LongestStreak,
		"milestones":             record.Milestones,
		"realWorldGestures":      record.RealWorldGestures,
		"totalGesturesCompleted": record.TotalGesturesCompleted,
		"updatedAt":              record.UpdatedAt,
	}}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"userId": record.UserID}, update); err != nil {
		return fmt.Errorf("saving milestone record: %w", err)
	}
	return nil
}

// Delete removes the user's milestone record (account deletion only).
func (s *MilestoneStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("deleting milestone record: %w", err)
	}
	return nil
}
