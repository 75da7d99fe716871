package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EpochState identifies where a user's analytics epoch sits in the reset
// state machine.
//
// Transition table:
//
//	Active    -> JustReset  when skippedDays reaches ResetThreshold,
//	                        via an atomic conditional update (fires once)
//	JustReset -> Active     when the user next completes a full routine
type EpochState string

const (
	EpochActive    EpochState = "active"
	EpochJustReset EpochState = "justReset"
)

// ResetThreshold is the number of consecutive skipped days that rebaselines
// a user's analytics epoch.
const ResetThreshold = 4

// ProgressMetric is one opaque AI progress-analysis result. Generation
// happens client-side; the server only stores and returns the blob.
type ProgressMetric struct {
	ID   string                 `bson:"id" json:"id"`
	Date string                 `bson:"date" json:"date"`
	Data map[string]interface{} `bson:"data" json:"data"`
}

// ProductEvaluation is one opaque AI product-evaluation result.
type ProductEvaluation struct {
	ID          string                 `bson:"id" json:"id"`
	Date        string                 `bson:"date" json:"date"`
	ProductName string                 `bson:"productName" json:"productName"`
	Data        map[string]interface{} `bson:"data" json:"data"`
}

// Analytics is the per-user aggregate record. Its counters are a cache:
// skippedDays and totalDaysTracked are recomputed from the daily_logs
// collection on every status read, never incremented in place.
type Analytics struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID             string              `bson:"userId" json:"userId"`
	BaselineDate       string              `bson:"baselineDate" json:"baselineDate"`
	IsReset            bool                `bson:"isReset" json:"isReset"`
	SkippedDays        int                 `bson:"skippedDays" json:"skippedDays"`
	TotalDaysTracked   int                 `bson:"totalDaysTracked" json:"totalDaysTracked"`
	ProgressMetrics    []ProgressMetric    `bson:"progressMetrics" json:"progressMetrics"`
	ProductEvaluations []ProductEvaluation `bson:"productEvaluations" json:"productEvaluations"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// State maps the persisted isReset flag onto the epoch state machine.
func (a *Analytics) State() EpochState {
	if a.IsReset {
		return EpochJustReset
	}
	return EpochActive
}
