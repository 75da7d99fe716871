package db

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestUpsertCreatedFromUpdateResult(t *testing.T) {
	inserted := &mongo.UpdateResult{UpsertedCount: 1}
	if !upsertCreated(inserted) {
		t.Error("Expected an upsert that inserted to count as created")
	}

	updated := &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}
	if upsertCreated(updated) {
		t.Error("Expected an upsert that matched an existing document to not count as created")
	}
}

func TestStoredTimestampDropsSubMillisecond(t *testing.T) {
	// Creation detection must come from the update result, not from
	// comparing a decoded createdAt against the write time: the stored
	// datetime keeps only milliseconds.
	written := time.Date(2026, 8, 30, 20, 11, 29, 711286737, time.UTC)
	decoded := primitive.NewDateTimeFromTime(written).Time()

	if decoded.Equal(written) {
		t.Fatalf("Expected round-tripped timestamp to lose precision, got %v", decoded)
	}
	if !decoded.Equal(written.Truncate(time.Millisecond)) {
		t.Errorf("Expected millisecond truncation, got %v", decoded)
	}
}
