package services

import (
	"errors"

	"gorm.io/gorm"

	"weddinggame/models"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Score       *int   `json:"score" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateTaskRequest struct {
	ID          uint    `json:"id" binding:"required"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Score       *int    `json:"score"`
	IsActive    *bool   `json:"is_active"`
}

type AdminTask struct {
	models.Task
	SubmissionCount int `json:"submission_count"`
}

type AvailableTasksResponse struct {
	AvailableTasks []models.Task `json:"availableTasks"`
	CompletedCount int           `json:"completedCount"`
	TotalCount     int           `json:"totalCount"`
}

func (s *TaskService) ListTasks() ([]AdminTask, error) {
	var tasks []models.Task
	if err := s.db.Order("score DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	result := make([]AdminTask, 0, len(tasks))
	for _, task := range tasks {
		var count int64
		if err := s.db.Model(&models.Submission{}).Where("task_id = ?", task.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		result = append(result, AdminTask{Task: task, SubmissionCount: int(count)})
	}
	return result, nil
}

// ListActiveTasks is the public task listing shown to guests without a
// session: every active task, highest score first.
func (s *TaskService) ListActiveTasks() ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Where("is_active = ?", true).Order("score DESC").Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) GetTask(id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) CreateTask(req *CreateTaskRequest) (*models.Task, error) {
	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Score:       *req.Score,
		IsActive:    true,
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) UpdateTask(req *UpdateTaskRequest) (*models.Task, error) {
	task, err := s.GetTask(req.ID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Score != nil {
		updates["score"] = *req.Score
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.db.Model(task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return task, nil
}

// DeleteTask removes the task's submissions first, then the task itself, in
// one transaction. Table scores are intentionally left untouched: the
// leaderboard recomputes its totals from the remaining submissions.
func (s *TaskService) DeleteTask(id uint) error {
	task, err := s.GetTask(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, task.ID).Error
	})
}

// AvailableTasks returns the active tasks the user has not submitted for
// yet. Completed ids are collected from all of the user's submissions, even
// ones whose task has since been deactivated.
func (s *TaskService) AvailableTasks(userID uint) (*AvailableTasksResponse, error) {
	var tasks []models.Task
	if err := s.db.Where("is_active = ?", true).Order("score DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	var completedIDs []uint
	if err := s.db.Model(&models.Submission{}).Where("user_id = ?", userID).
		Distinct().Pluck("task_id", &completedIDs).Error; err != nil {
		return nil, err
	}

	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	available := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if !completed[task.ID] {
			available = append(available, task)
		}
	}

	return &AvailableTasksResponse{
		AvailableTasks: available,
		CompletedCount: len(completed),
		TotalCount:     len(tasks),
	}, nil
}
