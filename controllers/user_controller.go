package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"clearday/db"
	"clearday/models"
	"clearday/streak"

	"github.com/gin-gonic/gin"
)

type profileRequest struct {
	SkinGoal string `json:"skinGoal"`
	SkinType string `json:"skinType"`
}

// CreateOrUpdateProfile writes the onboarding profile for the
// authenticated user. First-time creation also provisions the analytics
// doc with today as baseline.
func CreateOrUpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Invalid request body"})
		return
	}
	if req.SkinGoal != "" && !models.ValidSkinGoals[req.SkinGoal] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "skinGoal must be one of acne, glow, healthy-skin"})
		return
	}
	if req.SkinType != "" && !models.ValidSkinTypes[req.SkinType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "skinType must be one of oily, dry, combination, sensitive"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, created, err := db.NewUserStore().UpsertProfile(dbCtx, userID, models.Profile{
		SkinGoal: req.SkinGoal,
		SkinType: req.SkinType,
	})
	if err != nil {
		log.Printf("Error upserting profile for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to create or update profile"})
		return
	}

	if created {
		if _, err := db.NewAnalyticsStore().Create(dbCtx, userID, streak.Today().String()); err != nil {
			log.Printf("Error creating analytics for %s: %v", userID, err)
		}
	}

	message := "Profile updated successfully"
	if created {
		message = "Profile created successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
		"message": message,
	})
}

// GetProfile returns a user profile by Clerk ID.
func GetProfile(c *gin.Context) {
	clerkID := c.Param("clerkId")
	if clerkID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "clerkId is required"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := db.NewUserStore().Find(dbCtx, clerkID)
	if err != nil {
		log.Printf("Error fetching profile %s: %v", clerkID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch user profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

type routineStepsRequest struct {
	CustomRoutineSteps []string `json:"customRoutineSteps"`
	RoutineOrder       []string `json:"routineOrder"`
}

// UpdateCustomRoutineSteps stores the user's custom routine steps and their
// display order.
func UpdateCustomRoutineSteps(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req routineStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "customRoutineSteps and routineOrder must be arrays"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := db.NewUserStore().UpdateRoutineSteps(dbCtx, userID, req.CustomRoutineSteps, req.RoutineOrder)
	if err != nil {
		log.Printf("Error updating routine steps for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to update routine steps"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
		"message": "Routine steps updated successfully",
	})
}

// DeleteProfile removes the user together with its analytics, milestone
// record and logs. This is the only path that deletes log history.
func DeleteProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	clerkID := c.Param("clerkId")
	if clerkID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "clerkId is required"})
		return
	}
	if clerkID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "Cannot delete another user's profile"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := db.NewUserStore().Delete(dbCtx, clerkID)
	if err != nil {
		log.Printf("Error deleting profile %s: %v", clerkID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to delete user profile"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "User not found"})
		return
	}

	if err := db.NewAnalyticsStore().Delete(dbCtx, clerkID); err != nil {
		log.Printf("Error deleting analytics for %s: %v", clerkID, err)
	}
	if err := db.NewMilestoneStore().Delete(dbCtx, clerkID); err != nil {
		log.Printf("Error deleting milestones for %s: %v", clerkID, err)
	}
	if err := db.NewDailyLogStore().DeleteAllForUser(dbCtx, clerkID); err != nil {
		log.Printf("Error deleting logs for %s: %v", clerkID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User profile deleted successfully",
	})
}
