package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MilestoneStatus records whether a single milestone has been unlocked.
type MilestoneStatus struct {
	Unlocked   bool       `bson:"unlocked" json:"unlocked"`
	UnlockedAt *time.Time `bson:"unlockedAt,omitempty" json:"unlockedAt,omitempty"`
}

// MilestoneSet holds the four streak milestones.
type MilestoneSet struct {
	ProofBuilder    MilestoneStatus `bson:"proofBuilder" json:"proofBuilder"`
	ConsistencyMode MilestoneStatus `bson:"consistencyMode" json:"consistencyMode"`
	IdentityLock    MilestoneStatus `bson:"identityLock" json:"identityLock"`
	RitualMaster    MilestoneStatus `bson:"ritualMaster" json:"ritualMaster"`
}

// Gesture is a real-world gesture completed after a milestone unlock.
type Gesture struct {
	Type               string     `bson:"type" json:"type"`
	Completed          bool       `bson:"completed" json:"completed"`
	CompletedAt        *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	MilestoneTriggered string     `bson:"milestoneTriggered" json:"milestoneTriggered"`
}

// Milestone is the per-user gamification record. CurrentStreak is a cached
// copy of the computed streak; the daily_logs collection stays the source
// of truth.
type Milestone struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID                 string             `bson:"userId" json:"userId"`
	CurrentStreak          int                `bson:"currentStreak" json:"currentStreak"`
	LongestStreak          int                `bson:"longestStreak" json:"longestStreak"`
	Milestones             MilestoneSet       `bson:"milestones" json:"milestones"`
	RealWorldGestures      []Gesture          `bson:"realWorldGestures" json:"realWorldGestures"`
	TotalGesturesCompleted int                `bson:"totalGesturesCompleted" json:"totalGesturesCompleted"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UnlockedMilestone describes a milestone that was unlocked during the
// current update, for the API response and the websocket feed.
type UnlockedMilestone struct {
	Name    string `json:"name"`
	Days    int    `json:"days"`
	Message string `json:"message"`
}

// MilestoneEvent is broadcast over the websocket feed when a milestone
// unlocks.
type MilestoneEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name,omitempty"`
	Days      int       `json:"days,omitempty"`
	Message   string    `json:"message,omitempty"`
	Streak    int       `json:"streak,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
