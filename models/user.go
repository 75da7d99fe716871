package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Valid profile enum values, enforced at the handler layer.
var (
	ValidSkinGoals = map[string]bool{"acne": true, "glow": true, "healthy-skin": true}
	ValidSkinTypes = map[string]bool{"oily": true, "dry": true, "combination": true, "sensitive": true}
)

// Profile holds the onboarding answers the client AI uses for context.
type Profile struct {
	SkinGoal string `bson:"skinGoal" json:"skinGoal"`
	SkinType string `bson:"skinType" json:"skinType"`
}

// User defines a user entity, keyed by the Clerk identity.
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ClerkID            string             `bson:"clerkId" json:"clerkId"`
	Profile            Profile            `bson:"profile" json:"profile"`
	CustomRoutineSteps []string           `bson:"customRoutineSteps,omitempty" json:"customRoutineSteps,omitempty"`
	RoutineOrder       []string           `bson:"routineOrder,omitempty" json:"routineOrder,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
