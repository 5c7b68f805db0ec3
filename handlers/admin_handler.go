package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weddinggame/services"
)

type AdminHandler struct {
	tableService       *services.TableService
	taskService        *services.TaskService
	submissionService  *services.SubmissionService
	authService        *services.AuthService
	gameStateService   *services.GameStateService
	leaderboardService *services.LeaderboardService
	hub                *services.Hub
	adminSecret        string
}

func NewAdminHandler(
	tableService *services.TableService,
	taskService *services.TaskService,
	submissionService *services.SubmissionService,
	authService *services.AuthService,
	gameStateService *services.GameStateService,
	leaderboardService *services.LeaderboardService,
	hub *services.Hub,
	adminSecret string,
) *AdminHandler {
	return &AdminHandler{
		tableService:       tableService,
		taskService:        taskService,
		submissionService:  submissionService,
		authService:        authService,
		gameStateService:   gameStateService,
		leaderboardService: leaderboardService,
		hub:                hub,
		adminSecret:        adminSecret,
	}
}

// ---- Tables ----

func (h *AdminHandler) GetTables(c *gin.Context) {
	tables, err := h.tableService.ListTables()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *AdminHandler) CreateTable(c *gin.Context) {
	var req services.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := h.tableService.CreateTable(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"table":   table,
		"message": "Table created successfully",
	})
}

func (h *AdminHandler) UpdateTable(c *gin.Context) {
	var req services.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := h.tableService.UpdateTable(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.leaderboardService.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"table":   table,
		"message": "Table updated successfully",
	})
}

func (h *AdminHandler) DeleteTable(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Table ID is required"})
		return
	}

	if err := h.tableService.DeleteTable(uint(id)); err != nil {
		respondError(c, err)
		return
	}

	h.leaderboardService.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Table deleted successfully",
	})
}

// ---- Tasks ----

func (h *AdminHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *AdminHandler) CreateTask(c *gin.Context) {
	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"task":    task,
		"message": "Task created successfully",
	})
}

func (h *AdminHandler) UpdateTask(c *gin.Context) {
	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.UpdateTask(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    task,
		"message": "Task updated successfully",
	})
}

// DeleteTask cascades: the task's submissions go first, then the task.
func (h *AdminHandler) DeleteTask(c *gin.Context) {
	var req struct {
		ID uint `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task ID is required"})
		return
	}

	if err := h.taskService.DeleteTask(req.ID); err != nil {
		respondError(c, err)
		return
	}

	h.leaderboardService.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted successfully",
	})
}

// ---- Submissions ----

func (h *AdminHandler) DeleteSubmission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("submissionId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	if err := h.submissionService.DeleteSubmission(uint(id)); err != nil {
		respondError(c, err)
		return
	}

	h.leaderboardService.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission deleted successfully",
	})
}

// ---- Users ----

func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

// ---- Game control ----

type gameControlRequest struct {
	Action string `json:"action" binding:"required,oneof=pause resume"`
}

func (h *AdminHandler) ControlGame(c *gin.Context) {
	var req gameControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	paused := req.Action == "pause"
	if err := h.gameStateService.SetPaused(paused); err != nil {
		respondError(c, err)
		return
	}

	state := services.StateString(paused)
	h.hub.BroadcastGameState(state)

	message := "Game resumed"
	if paused {
		message = "Game paused"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   message,
		"gameState": state,
	})
}

func (h *AdminHandler) GetGameState(c *gin.Context) {
	paused, err := h.gameStateService.IsPaused()
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Game is active"
	if paused {
		message = "Game is paused"
	}

	c.JSON(http.StatusOK, gin.H{
		"gameState": services.StateString(paused),
		"message":   message,
	})
}

// ---- Promotion ----

type makeAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
}

// MakeAdmin promotes a user when the shared secret matches. This route is
// secret-gated rather than session-gated so the first admin can bootstrap
// itself.
func (h *AdminHandler) MakeAdmin(c *gin.Context) {
	var req makeAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Secret != h.adminSecret {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid secret"})
		return
	}

	user, err := h.authService.MakeAdmin(req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User " + user.Username + " is now an administrator",
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"is_admin":  user.IsAdmin,
			"tableName": user.Table.Name,
		},
	})
}
