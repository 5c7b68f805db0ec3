package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"weddinggame/handlers"
	"weddinggame/middleware"
	"weddinggame/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	submissionHandler *handlers.SubmissionHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	taskHandler *handlers.TaskHandler,
	adminHandler *handlers.AdminHandler,
	hub *services.Hub,
	jwtSecret string,
) {
	// Guest-facing submission endpoint (multipart form)
	router.POST("/submit", submissionHandler.Submit)

	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public read endpoints
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.GET("/tasks", taskHandler.GetTasks)
		api.GET("/tasks/available", taskHandler.GetAvailableTasks)
		api.GET("/submissions", submissionHandler.GetSubmissions)

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)
		}

		// Admin routes: all gated on the session's admin flag, except the
		// bootstrap promotion endpoint which is secret-gated.
		api.POST("/admin/make-admin", adminHandler.MakeAdmin)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminOnly())
		{
			tables := admin.Group("/tables")
			{
				tables.GET("", adminHandler.GetTables)
				tables.POST("", adminHandler.CreateTable)
				tables.PUT("", adminHandler.UpdateTable)
				tables.DELETE("", adminHandler.DeleteTable)
			}

			tasks := admin.Group("/tasks")
			{
				tasks.GET("", adminHandler.GetTasks)
				tasks.POST("", adminHandler.CreateTask)
				tasks.PUT("", adminHandler.UpdateTask)
				tasks.DELETE("", adminHandler.DeleteTask)
			}

			admin.DELETE("/submissions/:submissionId", adminHandler.DeleteSubmission)
			admin.GET("/users", adminHandler.GetUsers)

			admin.POST("/game-control", adminHandler.ControlGame)
			admin.GET("/game-control", adminHandler.GetGameState)
		}
	}

	// WebSocket endpoint for the live leaderboard screen
	router.GET("/ws/leaderboard", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.Warnf("WebSocket upgrade failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
			return
		}

		hub.RegisterClient(conn)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
