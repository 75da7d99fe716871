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

// UserStore is the data-access layer over the users collection.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore() *UserStore {
	return &UserStore{coll: MongoDatabase.Collection("users")}
}

// Find returns the user keyed by Clerk ID, or nil when absent.
func (s *UserStore) Find(ctx context.Context, clerkID string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"clerkId": clerkID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &user, nil
}

// UpsertProfile creates or updates the user's profile and reports whether
// the document was newly created.
func (s *UserStore) UpsertProfile(ctx context.Context, clerkID string, profile models.Profile) (*models.User, bool, error) {
	now := time.Now()
	update := bson.M{
		"$set":         bson.M{"profile": profile, "updatedAt": now},
		"$setOnInsert": bson.M{"clerkId": clerkID, "createdAt": now},
	}
	opts := options.Update().SetUpsert(true)

	result, err := s.coll.UpdateOne(ctx, bson.M{"clerkId": clerkID}, update, opts)
	if err != nil {
		return nil, false, fmt.Errorf("upserting user profile: %w", err)
	}

	user, err := s.Find(ctx, clerkID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, fmt.Errorf("user %s missing after upsert", clerkID)
	}
	return user, upsertCreated(result), nil
}

// upsertCreated reports whether an upsert inserted a new document.
// Timestamps cannot answer this: BSON datetimes store milliseconds, so a
// decoded createdAt never equals the in-process write time.
func upsertCreated(result *mongo.UpdateResult) bool {
	return result.UpsertedCount == 1
}

// UpdateRoutineSteps stores the user's custom routine steps and ordering.
func (s *UserStore) UpdateRoutineSteps(ctx context.Context, clerkID string, steps, order []string) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if steps != nil {
		set["customRoutineSteps"] = steps
	}
	if order != nil {
		set["routineOrder"] = order
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"clerkId": clerkID}, bson.M{"$set": set}, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("updating routine steps: %w", err)
	}
	return &user, nil
}

// Delete removes the user document and reports whether it existed.
func (s *UserStore) Delete(ctx context.Context, clerkID string) (bool, error) {
	result, err := s.coll.DeleteOne(ctx, bson.M{"clerkId": clerkID})
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	return result.DeletedCount == 1, nil
}
