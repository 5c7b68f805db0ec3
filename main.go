package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"weddinggame/config"
	"weddinggame/handlers"
	"weddinggame/middleware"
	"weddinggame/models"
	"weddinggame/routes"
	"weddinggame/services"
	"weddinggame/storage"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Table{},
		&models.User{},
		&models.Task{},
		&models.Submission{},
		&models.GameConfig{},
	)
	if err != nil {
		logrus.Fatal("Failed to migrate database: ", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize blob storage
	storageClient := storage.NewClient(cfg)
	if !storageClient.Configured() {
		logrus.Warn("Blob storage not configured, submissions will use placeholder assets")
	}

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	tableService := services.NewTableService(db)
	taskService := services.NewTaskService(db)
	gameStateService := services.NewGameStateService(db)
	leaderboardService := services.NewLeaderboardService(db, redisClient)
	submissionService := services.NewSubmissionService(db, storageClient, gameStateService)

	// Initialize WebSocket hub for the live leaderboard
	hub := services.NewHub()
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, leaderboardService, hub)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	taskHandler := handlers.NewTaskHandler(taskService)
	adminHandler := handlers.NewAdminHandler(
		tableService,
		taskService,
		submissionService,
		authService,
		gameStateService,
		leaderboardService,
		hub,
		cfg.AdminSecret,
	)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, submissionHandler, leaderboardHandler, taskHandler, adminHandler, hub, cfg.JWTSecret)

	// Start server
	logrus.Infof("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}
