package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"clearday/config"
	"clearday/db"
	"clearday/middlewares"
	"clearday/routes"
	"clearday/websocket"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Clerk.SecretKey == "" {
		log.Fatal("Clerk secret key is not set")
	}
	clerk.SetKey(cfg.Clerk.SecretKey)

	// Connect to MongoDB using the URI from the configuration
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	middlewares.InitPrometheus()
	go middlewares.CleanupVisitors()

	router := setupRouter(cfg)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	router.Use(middlewares.MonitorMiddleware())
	router.Use(middlewares.RateLimitMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK", "message": "ClearDay API is running"})
	})
	router.GET("/metrics",
		middlewares.BasicAuthMiddleware(cfg.Metrics.Username, cfg.Metrics.Password),
		gin.WrapH(promhttp.Handler()))

	// Protected routes (Clerk JWT auth)
	api := router.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/user/profile", routes.CreateOrUpdateProfileRouteHandler)
		api.GET("/user/profile/:clerkId", routes.GetProfileRouteHandler)
		api.PUT("/user/routine-steps", routes.UpdateCustomRoutineStepsRouteHandler)
		api.DELETE("/user/profile/:clerkId", routes.DeleteProfileRouteHandler)

		api.POST("/daily/upload-photo", routes.UploadPhotoRouteHandler)
		api.POST("/daily/complete-routine", routes.CompleteRoutineRouteHandler)
		api.POST("/daily/complete-steps", routes.CompleteRoutineStepsRouteHandler)
		api.GET("/daily/status", routes.GetDailyStatusRouteHandler)
		api.GET("/daily/history", routes.GetDailyHistoryRouteHandler)
		api.PUT("/daily/log", routes.UpdateDailyLogRouteHandler)

		api.POST("/ai/progress-analysis", routes.StoreProgressAnalysisRouteHandler)
		api.POST("/ai/product-evaluation", routes.StoreProductEvaluationRouteHandler)
		api.GET("/ai/user-data", routes.GetUserDataForAIRouteHandler)
		api.GET("/ai/progress-metrics", routes.GetProgressMetricsRouteHandler)
		api.GET("/ai/product-evaluations", routes.GetProductEvaluationsRouteHandler)
		api.DELETE("/ai/progress-metrics/:metricId", routes.DeleteProgressMetricRouteHandler)

		api.POST("/gamification/milestones", routes.UpdateMilestonesRouteHandler)
		api.GET("/gamification/status", routes.GetGamificationStatusRouteHandler)
		api.POST("/gamification/complete-gesture", routes.CompleteGestureRouteHandler)

		// WebSocket feed for milestone unlock events
		api.GET("/gamification/ws", websocket.MilestoneFeedHandler)
	}

	return router
}
