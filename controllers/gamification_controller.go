package controllers

import (
	"context"
	"log"
	"math"
	"net/http"
	"time"

	"clearday/db"
	"clearday/models"
	"clearday/streak"
	"clearday/websocket"

	"github.com/gin-gonic/gin"
)

// milestoneDef ties a streak threshold to its unlock copy.
type milestoneDef struct {
	Name    string
	Days    int
	Message string
	Status  func(*models.MilestoneSet) *models.MilestoneStatus
}

var milestoneDefs = []milestoneDef{
	{
		Name:    "Proof Builder",
		Days:    3,
		Message: "You've built proof of commitment! Your consistency is showing.",
		Status:  func(set *models.MilestoneSet) *models.MilestoneStatus { return &set.ProofBuilder },
	},
	{
		Name:    "Consistency Mode",
		Days:    7,
		Message: "One week of dedication! You're in consistency mode.",
		Status:  func(set *models.MilestoneSet) *models.MilestoneStatus { return &set.ConsistencyMode },
	},
	{
		Name:    "Identity Lock",
		Days:    14,
		Message: "Two weeks! Skincare is now part of your identity.",
		Status:  func(set *models.MilestoneSet) *models.MilestoneStatus { return &set.IdentityLock },
	},
	{
		Name:    "Ritual Master",
		Days:    30,
		Message: "One month complete! You're a true ritual master.",
		Status:  func(set *models.MilestoneSet) *models.MilestoneStatus { return &set.RitualMaster },
	},
}

var gestureImpactURLs = map[string]string{
	"donate_meal":      "https://www.foodbanking.org/donate/",
	"plant_tree":       "https://www.onetreeplanted.org/",
	"blanket_donation": "https://www.salvationarmyusa.org/usn/donate/",
}

var gestureMessages = map[string]string{
	"donate_meal":      "Thank you! Your gesture will help provide a meal to someone in need.",
	"plant_tree":       "Amazing! A tree will be planted thanks to your consistency.",
	"blanket_donation": "Wonderful! Your gesture will provide warmth to someone in need.",
}

// UpdateMilestones recomputes the streak from the log history and unlocks
// any newly reached milestones, broadcasting each unlock to the websocket
// feed.
func UpdateMilestones(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	completedDates, err := db.NewDailyLogStore().CompletedDates(dbCtx, userID, streak.MaxLookback)
	if err != nil {
		log.Printf("Error computing streak for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to update milestones"})
		return
	}
	currentStreak := streak.Calculate(completedDates, streak.Today())

	milestones := db.NewMilestoneStore()
	record, err := milestones.FindOrCreate(dbCtx, userID)
	if err != nil {
		log.Printf("Error loading milestones for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to update milestones"})
		return
	}

	previousStreak := record.CurrentStreak
	record.CurrentStreak = currentStreak
	if currentStreak > record.LongestStreak {
		record.LongestStreak = currentStreak
	}

	now := time.Now()
	var newlyUnlocked []models.UnlockedMilestone
	for _, def := range milestoneDefs {
		status := def.Status(&record.Milestones)
		if currentStreak >= def.Days && !status.Unlocked {
			status.Unlocked = true
			unlockedAt := now
			status.UnlockedAt = &unlockedAt
			newlyUnlocked = append(newlyUnlocked, models.UnlockedMilestone{
				Name:    def.Name,
				Days:    def.Days,
				Message: def.Message,
			})
		}
	}

	if err := milestones.Save(dbCtx, record); err != nil {
		log.Printf("Error saving milestones for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to update milestones"})
		return
	}

	for _, unlocked := range newlyUnlocked {
		websocket.BroadcastMilestoneEvent(models.MilestoneEvent{
			Type:      "milestone_unlocked",
			UserID:    userID,
			Name:      unlocked.Name,
			Days:      unlocked.Days,
			Message:   unlocked.Message,
			Streak:    currentStreak,
			Timestamp: now,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"milestone":       record,
			"newlyUnlocked":   newlyUnlocked,
			"streakIncreased": currentStreak > previousStreak,
		},
	})
}

// GetGamificationStatus returns the milestone record plus progress toward
// the next locked milestone.
func GetGamificationStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	record, err := db.NewMilestoneStore().FindOrCreate(dbCtx, userID)
	if err != nil {
		log.Printf("Error loading milestones for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch gamification status"})
		return
	}

	completedDates, err := db.NewDailyLogStore().CompletedDates(dbCtx, userID, streak.MaxLookback)
	if err != nil {
		log.Printf("Error computing streak for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch gamification status"})
		return
	}
	currentStreak := streak.Calculate(completedDates, streak.Today())

	var nextMilestone gin.H
	for _, def := range milestoneDefs {
		if !def.Status(&record.Milestones).Unlocked {
			progress := math.Min(float64(currentStreak)/float64(def.Days)*100, 100)
			nextMilestone = gin.H{
				"name":     def.Name,
				"days":     def.Days,
				"progress": progress,
			}
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"milestone":              record,
			"currentStreak":          currentStreak,
			"nextMilestone":          nextMilestone,
			"totalGesturesCompleted": record.TotalGesturesCompleted,
		},
	})
}

type completeGestureRequest struct {
	GestureType        string `json:"gestureType" binding:"required"`
	MilestoneTriggered string `json:"milestoneTriggered" binding:"required"`
}

// CompleteGesture records a real-world gesture tied to a milestone unlock.
// Each (gesture, milestone) pair can be completed once.
func CompleteGesture(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req completeGestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Gesture type and milestone triggered are required"})
		return
	}
	if _, known := gestureImpactURLs[req.GestureType]; !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Unknown gesture type"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	milestones := db.NewMilestoneStore()
	record, err := milestones.Find(dbCtx, userID)
	if err != nil {
		log.Printf("Error loading milestones for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to complete gesture"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "Milestone record not found"})
		return
	}

	var existing *models.Gesture
	for i := range record.RealWorldGestures {
		g := &record.RealWorldGestures[i]
		if g.Type == req.GestureType && g.MilestoneTriggered == req.MilestoneTriggered {
			existing = g
			break
		}
	}
	if existing != nil && existing.Completed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "This gesture has already been completed"})
		return
	}

	now := time.Now()
	if existing != nil {
		existing.Completed = true
		existing.CompletedAt = &now
	} else {
		record.RealWorldGestures = append(record.RealWorldGestures, models.Gesture{
			Type:               req.GestureType,
			Completed:          true,
			CompletedAt:        &now,
			MilestoneTriggered: req.MilestoneTriggered,
		})
	}
	record.TotalGesturesCompleted++

	if err := milestones.Save(dbCtx, record); err != nil {
		log.Printf("Error saving gesture for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to complete gesture"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"gesture": gin.H{
				"type":               req.GestureType,
				"milestoneTriggered": req.MilestoneTriggered,
				"completed":          true,
				"impactUrl":          gestureImpactURLs[req.GestureType],
			},
			"totalGesturesCompleted": record.TotalGesturesCompleted,
			"message":                gestureMessages[req.GestureType],
		},
	})
}
