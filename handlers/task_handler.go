package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weddinggame/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// GetTasks is the public listing shown before a guest logs in: all active
// tasks, highest score first.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskService.ListActiveTasks()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetAvailableTasks returns the active tasks the given user has not
// completed yet, plus progress counters.
func (h *TaskHandler) GetAvailableTasks(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	resp, err := h.taskService.AvailableTasks(uint(userID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
