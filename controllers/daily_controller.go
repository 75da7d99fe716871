package controllers

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"clearday/db"
	"clearday/services"
	"clearday/streak"
	"clearday/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// maxPhotoSize caps uploaded routine photos at 5MB.
const maxPhotoSize = 5 << 20

// completionRatio is the share of declared steps that must be confirmed
// before a day counts as a completed routine.
const completionRatio = 0.75

// UploadPhoto stores a daily progress photo on the (userId, date) log.
func UploadPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	date := c.PostForm("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Date is required"})
		return
	}
	if !utils.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Date must be in YYYY-MM-DD format"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "No photo uploaded"})
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Photo must be smaller than 5MB"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Only image files are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to read photo"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to read photo"})
		return
	}
	photoURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logs := db.NewDailyLogStore()
	existing, err := logs.FindByDate(dbCtx, userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to upload photo"})
		return
	}
	if existing != nil && existing.PhotoURL != "" {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Conflict",
			"message": "You have already uploaded a photo for this date",
			"code":    "PHOTO_ALREADY_EXISTS",
		})
		return
	}

	entry, err := logs.Upsert(dbCtx, userID, date, bson.M{"photoUrl": photoURL})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Concurrent upload raced past the existence check.
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Conflict",
				"message": "You have already uploaded a photo for this date",
				"code":    "PHOTO_ALREADY_EXISTS",
			})
			return
		}
		log.Printf("Error uploading photo for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to upload photo"})
		return
	}

	// Make sure the analytics doc exists; counters stay untouched here,
	// completion is what moves them.
	if _, err := db.NewAnalyticsStore().Create(dbCtx, userID, date); err != nil {
		log.Printf("Error ensuring analytics for %s: %v", userID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    entry,
		"message": "Photo uploaded successfully",
	})
}

type completeStepsRequest struct {
	Date                string                 `json:"date" binding:"required"`
	Steps               map[string]interface{} `json:"steps" binding:"required"`
	TotalStepsCount     *int                   `json:"totalStepsCount" binding:"required"`
	CompletedStepsCount *int                   `json:"completedStepsCount" binding:"required"`
}

// CompleteRoutineSteps records partial or full routine completion for a
// date. A day counts as completed once at least 75% of the declared steps
// are confirmed; a newly completed routine also moves a JustReset epoch
// back to Active.
func CompleteRoutineSteps(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req completeStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Date, steps, totalStepsCount, and completedStepsCount are required",
		})
		return
	}
	if !utils.ValidDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Date must be in YYYY-MM-DD format"})
		return
	}
	if *req.TotalStepsCount <= 0 || *req.CompletedStepsCount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Step counts must be non-negative"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logs := db.NewDailyLogStore()
	existing, err := logs.FindByDate(dbCtx, userID, req.Date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to complete routine steps"})
		return
	}
	wasAlreadyCompleted := existing != nil && existing.RoutineCompleted

	required := int(math.Ceil(float64(*req.TotalStepsCount) * completionRatio))
	routineCompleted := *req.CompletedStepsCount >= required

	entry, err := logs.Upsert(dbCtx, userID, req.Date, bson.M{
		"routineCompleted": routineCompleted,
		"routineSteps":     req.Steps,
		"totalSteps":       *req.TotalStepsCount,
		"completedSteps":   *req.CompletedStepsCount,
	})
	if err != nil {
		log.Printf("Error completing routine steps for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to complete routine steps"})
		return
	}

	if routineCompleted && !wasAlreadyCompleted {
		analytics := db.NewAnalyticsStore()
		if _, err := analytics.Create(dbCtx, userID, req.Date); err != nil {
			log.Printf("Error ensuring analytics for %s: %v", userID, err)
		}
		// JustReset -> Active: a completed routine acknowledges the reset.
		if err := analytics.ClearResetFlag(dbCtx, userID); err != nil {
			log.Printf("Error clearing reset flag for %s: %v", userID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entry,
		"message": fmt.Sprintf("Completed %d of %d steps", *req.CompletedStepsCount, *req.TotalStepsCount),
	})
}

type completeRoutineRequest struct {
	Date string `json:"date" binding:"required"`
}

// CompleteRoutine marks a full routine as done in one call. Kept for older
// clients that predate per-step confirmation.
func CompleteRoutine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req completeRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Date is required"})
		return
	}
	if !utils.ValidDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Date must be in YYYY-MM-DD format"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entry, err := db.NewDailyLogStore().Upsert(dbCtx, userID, req.Date, bson.M{
		"routineCompleted": true,
		"routineSteps": map[string]interface{}{
			"cleanser":    true,
			"treatment":   true,
			"moisturizer": true,
			"sunscreen":   false,
		},
		"totalSteps":     3,
		"completedSteps": 3,
	})
	if err != nil {
		log.Printf("Error completing routine for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to complete routine"})
		return
	}

	analytics := db.NewAnalyticsStore()
	if _, err := analytics.Create(dbCtx, userID, req.Date); err != nil {
		log.Printf("Error ensuring analytics for %s: %v", userID, err)
	}
	if err := analytics.ClearResetFlag(dbCtx, userID); err != nil {
		log.Printf("Error clearing reset flag for %s: %v", userID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entry,
		"message": "Routine marked as completed",
	})
}

// GetDailyStatus recomputes streak, skipped days and the reset state and
// returns them together with today's log.
func GetDailyStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc := services.NewStatusService(db.NewDailyLogStore(), db.NewAnalyticsStore())
	status, err := svc.Refresh(dbCtx, userID)
	if err != nil {
		log.Printf("Error refreshing daily status for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch daily status"})
		return
	}

	today := streak.Today().String()
	todayLog, err := db.NewDailyLogStore().FindByDate(dbCtx, userID, today)
	if err != nil {
		log.Printf("Error fetching today's log for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch daily status"})
		return
	}

	var warning interface{}
	if status.Warning != "" {
		warning = status.Warning
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"streak":            status.Streak,
			"skippedDays":       status.SkippedDays,
			"datasetWarning":    warning,
			"hasCompletedToday": todayLog != nil && todayLog.RoutineCompleted,
			"hasUploadedToday":  todayLog != nil && todayLog.PhotoURL != "",
			"todayLog":          todayLog,
		},
	})
}

// GetDailyHistory returns the last 30 days of logs plus the analytics doc.
func GetDailyHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -30)
	logs, err := db.NewDailyLogStore().FindSince(dbCtx, userID, cutoff)
	if err != nil {
		log.Printf("Error fetching history for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch daily history"})
		return
	}

	analytics, err := db.NewAnalyticsStore().Find(dbCtx, userID)
	if err != nil && err != db.ErrAnalyticsNotFound {
		log.Printf("Error fetching analytics for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch daily history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"logs":      logs,
			"analytics": analytics,
		},
	})
}

type updateLogRequest struct {
	Date         string  `json:"date" binding:"required"`
	AcneLevel    *int    `json:"acneLevel"`
	RednessLevel *int    `json:"rednessLevel"`
	Notes        *string `json:"notes"`
}

// UpdateDailyLog stores the self-reported condition levels and notes for a
// date.
func UpdateDailyLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req updateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Date is required"})
		return
	}
	if !utils.ValidDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Date must be in YYYY-MM-DD format"})
		return
	}
	if req.AcneLevel != nil && !utils.ValidLevel(*req.AcneLevel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "acneLevel must be between 0 and 10"})
		return
	}
	if req.RednessLevel != nil && !utils.ValidLevel(*req.RednessLevel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "rednessLevel must be between 0 and 10"})
		return
	}
	if req.Notes != nil && len(*req.Notes) > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Notes must be at most 500 characters"})
		return
	}

	fields := bson.M{}
	if req.AcneLevel != nil {
		fields["acneLevel"] = *req.AcneLevel
	}
	if req.RednessLevel != nil {
		fields["rednessLevel"] = *req.RednessLevel
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entry, err := db.NewDailyLogStore().Upsert(dbCtx, userID, req.Date, fields)
	if err != nil {
		log.Printf("Error updating daily log for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to update daily log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entry,
		"message": "Daily log updated successfully",
	})
}
