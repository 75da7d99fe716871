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
	"github.com/google/uuid"
)

// AI insight generation happens client-side; these handlers only store and
// return the opaque result blobs on the analytics record.

type progressAnalysisRequest struct {
	Analysis map[string]interface{} `json:"analysis" binding:"required"`
}

// StoreProgressAnalysis appends one progress-analysis blob.
func StoreProgressAnalysis(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req progressAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Analysis data is required"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	metric := models.ProgressMetric{
		ID:   uuid.NewString(),
		Date: streak.Today().String(),
		Data: req.Analysis,
	}
	err := db.NewAnalyticsStore().AppendProgressMetric(dbCtx, userID, metric)
	if err == db.ErrAnalyticsNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "User analytics not found"})
		return
	}
	if err != nil {
		log.Printf("Error storing progress analysis for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to store progress analysis"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Progress analysis stored successfully",
	})
}

type productEvaluationRequest struct {
	Evaluation  map[string]interface{} `json:"evaluation" binding:"required"`
	ProductName string                 `json:"productName" binding:"required"`
}

// StoreProductEvaluation appends one product-evaluation blob.
func StoreProductEvaluation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req productEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "Evaluation data and product name are required"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	eval := models.ProductEvaluation{
		ID:          uuid.NewString(),
		Date:        streak.Today().String(),
		ProductName: req.ProductName,
		Data:        req.Evaluation,
	}
	err := db.NewAnalyticsStore().AppendProductEvaluation(dbCtx, userID, eval)
	if err == db.ErrAnalyticsNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "User analytics not found"})
		return
	}
	if err != nil {
		log.Printf("Error storing product evaluation for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to store product evaluation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product evaluation stored successfully",
	})
}

// GetUserDataForAI bundles the profile and the last week of logs for the
// client-side AI prompt.
func GetUserDataForAI(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := db.NewUserStore().Find(dbCtx, userID)
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch user data for AI processing"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "User not found"})
		return
	}

	analytics, err := db.NewAnalyticsStore().Find(dbCtx, userID)
	if err != nil && err != db.ErrAnalyticsNotFound {
		log.Printf("Error fetching analytics for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch user data for AI processing"})
		return
	}
	totalDaysTracked := 0
	if analytics != nil {
		totalDaysTracked = analytics.TotalDaysTracked
	}

	recentLogs, err := db.NewDailyLogStore().FindRecent(dbCtx, userID, 7)
	if err != nil {
		log.Printf("Error fetching recent logs for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch user data for AI processing"})
		return
	}

	type recentLog struct {
		Date         string `json:"date"`
		AcneLevel    *int   `json:"acneLevel"`
		RednessLevel *int   `json:"rednessLevel"`
		Notes        string `json:"notes"`
		HasPhoto     bool   `json:"hasPhoto"`
	}
	logsOut := make([]recentLog, 0, len(recentLogs))
	for _, entry := range recentLogs {
		logsOut = append(logsOut, recentLog{
			Date:         entry.Date,
			AcneLevel:    entry.AcneLevel,
			RednessLevel: entry.RednessLevel,
			Notes:        entry.Notes,
			HasPhoto:     entry.PhotoURL != "",
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"userProfile": gin.H{
				"skinGoal":         user.Profile.SkinGoal,
				"skinType":         user.Profile.SkinType,
				"totalDaysTracked": totalDaysTracked,
			},
			"recentLogs": logsOut,
		},
	})
}

// GetProgressMetrics returns the stored progress analyses.
func GetProgressMetrics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	analytics, err := db.NewAnalyticsStore().Find(dbCtx, userID)
	if err == db.ErrAnalyticsNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "User analytics not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching progress metrics for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch progress metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"progressMetrics":  analytics.ProgressMetrics,
			"totalDaysTracked": analytics.TotalDaysTracked,
			"skippedDays":      analytics.SkippedDays,
			"baselineDate":     analytics.BaselineDate,
		},
	})
}

// GetProductEvaluations returns the stored product evaluations.
func GetProductEvaluations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	analytics, err := db.NewAnalyticsStore().Find(dbCtx, userID)
	if err == db.ErrAnalyticsNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "User analytics not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching product evaluations for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to fetch product evaluations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"productEvaluations": analytics.ProductEvaluations,
		},
	})
}

// DeleteProgressMetric removes one stored analysis by ID.
func DeleteProgressMetric(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	metricID := c.Param("metricId")
	if metricID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "metricId is required"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := db.NewAnalyticsStore().RemoveProgressMetric(dbCtx, userID, metricID)
	if err == db.ErrAnalyticsNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "User analytics not found"})
		return
	}
	if err != nil {
		log.Printf("Error deleting progress metric for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to delete progress metric"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Progress metric deleted successfully",
	})
}
