package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"weddinggame/services"
)

type SubmissionHandler struct {
	submissionService  *services.SubmissionService
	leaderboardService *services.LeaderboardService
	hub                *services.Hub
}

func NewSubmissionHandler(submissionService *services.SubmissionService, leaderboardService *services.LeaderboardService, hub *services.Hub) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService:  submissionService,
		leaderboardService: leaderboardService,
		hub:                hub,
	}
}

// Submit handles the multipart task-completion form: taskId, userId, file.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.PostForm("taskId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	userID, err := strconv.ParseUint(c.PostForm("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")

	result, err := h.submissionService.Submit(c.Request.Context(), uint(taskID), uint(userID), fileHeader.Filename, contentType, data)
	if err != nil {
		respondError(c, err)
		return
	}

	h.refreshLeaderboard(c)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": result.Submission,
		"message":    result.Message,
		"points":     result.Points,
	})
}

// GetSubmissions backs the public gallery: every submission with its task
// and the submitting user's table.
func (h *SubmissionHandler) GetSubmissions(c *gin.Context) {
	submissions, err := h.submissionService.ListSubmissions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// refreshLeaderboard drops the cache and pushes a fresh snapshot to
// spectators. Best effort; a failure here never fails the submission.
func (h *SubmissionHandler) refreshLeaderboard(c *gin.Context) {
	ctx := c.Request.Context()
	h.leaderboardService.Invalidate(ctx)

	entries, err := h.leaderboardService.GetLeaderboard(ctx)
	if err != nil {
		logrus.WithField("method", "refreshLeaderboard").Warnf("Failed to recompute leaderboard: %v", err)
		return
	}
	h.hub.BroadcastLeaderboard(entries)
}
