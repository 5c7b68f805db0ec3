package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"weddinggame/media"
	"weddinggame/models"
	"weddinggame/storage"
)

// SubmissionService implements the task-completion workflow: classify and
// recompress the media, upload it (falling back to a placeholder rather than
// failing), then record the submission and award the task's points in a
// single transaction.
type SubmissionService struct {
	db        *gorm.DB
	storage   *storage.Client
	gameState *GameStateService
}

func NewSubmissionService(db *gorm.DB, storageClient *storage.Client, gameState *GameStateService) *SubmissionService {
	return &SubmissionService{
		db:        db,
		storage:   storageClient,
		gameState: gameState,
	}
}

type SubmissionResult struct {
	Submission *models.Submission
	Message    string
	Points     int
}

func (s *SubmissionService) Submit(ctx context.Context, taskID, userID uint, filename, contentType string, data []byte) (*SubmissionResult, error) {
	l := logrus.WithFields(logrus.Fields{
		"method":  "Submit",
		"task_id": taskID,
		"user_id": userID,
	})

	paused, err := s.gameState.IsPaused()
	if err != nil {
		return nil, err
	}
	if paused {
		return nil, ErrGamePaused
	}

	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Cheap pre-check so an obvious duplicate is refused before any bytes
	// reach the blob store. The transaction below re-checks authoritatively.
	var existing models.Submission
	err = s.db.Where("task_id = ? AND user_id = ?", task.ID, user.ID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadySubmitted
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if int64(len(data)) > media.MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	fileType := media.Classify(contentType)
	if fileType == "image" {
		compressed, err := media.CompressImage(data)
		if err != nil {
			// An undecodable image still counts as a completed task; it is
			// stored as-is.
			l.Warnf("Image compression failed, storing original: %v", err)
		} else {
			data = compressed
			contentType = "image/jpeg"
		}
	}

	fileURL, uploaded := s.uploadOrPlaceholder(ctx, task.ID, filename, contentType, fileType, data)

	submission := models.Submission{
		TaskID:   task.ID,
		UserID:   user.ID,
		FileUrl:  fileURL,
		FileType: fileType,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Submission
		err := tx.Where("task_id = ? AND user_id = ?", task.ID, user.ID).First(&existing).Error
		if err == nil {
			return ErrAlreadySubmitted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		// Atomic increment; the task score may be negative.
		return tx.Model(&models.Table{}).Where("id = ?", user.TableID).
			UpdateColumn("score", gorm.Expr("score + ?", task.Score)).Error
	})
	if err != nil {
		return nil, err
	}

	message := "Task completed successfully!"
	if !uploaded {
		message = "Task completed! The file could not be stored, so a placeholder was saved instead."
	}

	return &SubmissionResult{
		Submission: &submission,
		Message:    message,
		Points:     task.Score,
	}, nil
}

// uploadOrPlaceholder attempts the real upload and degrades to an inline
// placeholder on any failure. A guest never loses points because storage was
// down.
func (s *SubmissionService) uploadOrPlaceholder(ctx context.Context, taskID uint, filename, contentType, fileType string, data []byte) (string, bool) {
	if !s.storage.Configured() {
		return storage.PlaceholderURL(fileType), false
	}

	objectPath := storage.ObjectPath(taskID, filename)
	fileURL, err := s.storage.Upload(ctx, objectPath, contentType, data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"method":  "uploadOrPlaceholder",
			"task_id": taskID,
		}).Warnf("Upload failed, falling back to placeholder: %v", err)
		return storage.PlaceholderURL(fileType), false
	}
	return fileURL, true
}

// ListSubmissions backs the public gallery: every submission with its task
// and the submitting user's table, newest first.
func (s *SubmissionService) ListSubmissions() ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.db.
		Preload("Task").
		Preload("User").
		Preload("User.Table").
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// DeleteSubmission removes the row and reverses the score credit the
// submission earned, keeping the denormalized table score consistent with
// the leaderboard's recomputation.
func (s *SubmissionService) DeleteSubmission(id uint) error {
	var submission models.Submission
	err := s.db.Preload("Task").Preload("User").First(&submission, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Submission{}, submission.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Table{}).Where("id = ?", submission.User.TableID).
			UpdateColumn("score", gorm.Expr("score - ?", submission.Task.Score)).Error
	})
}
