package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyLog is one user's record for one calendar date. The date is stored
// as a YYYY-MM-DD string, not a timestamp, because it is the unit the
// streak math operates on. A unique index on (userId, date) guarantees at
// most one log per day; all writes are upserts keyed on that pair.
type DailyLog struct {
	ID               primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID           string                 `bson:"userId" json:"userId"`
	Date             string                 `bson:"date" json:"date"`
	PhotoURL         string                 `bson:"photoUrl" json:"photoUrl"`
	RoutineCompleted bool                   `bson:"routineCompleted" json:"routineCompleted"`
	RoutineSteps     map[string]interface{} `bson:"routineSteps,omitempty" json:"routineSteps,omitempty"`
	TotalSteps       int                    `bson:"totalSteps" json:"totalSteps"`
	CompletedSteps   int                    `bson:"completedSteps" json:"completedSteps"`
	AcneLevel        *int                   `bson:"acneLevel,omitempty" json:"acneLevel,omitempty"`
	RednessLevel     *int                   `bson:"rednessLevel,omitempty" json:"rednessLevel,omitempty"`
	Notes            string                 `bson:"notes" json:"notes"`
	CreatedAt        time.Time              `bson:"createdAt" json:"createdAt"`
}
