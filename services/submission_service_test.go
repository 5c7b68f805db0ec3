package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"weddinggame/config"
	"weddinggame/models"
	"weddinggame/storage"
)

func newSubmissionService(db *gorm.DB) *SubmissionService {
	// Unconfigured storage: every upload falls back to a placeholder.
	client := storage.NewClient(&config.Config{})
	return NewSubmissionService(db, client, NewGameStateService(db))
}

func submit(t *testing.T, s *SubmissionService, taskID, userID uint) (*SubmissionResult, error) {
	t.Helper()
	return s.Submit(context.Background(), taskID, userID, "clip.mp4", "video/mp4", []byte("fake video bytes"))
}

func TestSubmitAwardsTaskPoints(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	user := createUser(t, db, "alice", table.ID)
	task := createTask(t, db, "Group selfie", 50, true)

	service := newSubmissionService(db)
	result, err := submit(t, service, task.ID, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 50, result.Points)
	assert.Equal(t, "video", result.Submission.FileType)
	assert.True(t, strings.HasPrefix(result.Submission.FileUrl, "data:image/svg+xml;base64,"))
	assert.Contains(t, result.Message, "placeholder")

	var updated models.Table
	require.NoError(t, db.First(&updated, table.ID).Error)
	assert.Equal(t, 50, updated.Score)
}

func TestSubmitDuplicateIsRejected(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	user := createUser(t, db, "alice", table.ID)
	task := createTask(t, db, "Group selfie", 50, true)

	service := newSubmissionService(db)
	_, err := submit(t, service, task.ID, user.ID)
	require.NoError(t, err)

	_, err = submit(t, service, task.ID, user.ID)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).
		Where("task_id = ? AND user_id = ?", task.ID, user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The duplicate must not have awarded points twice.
	var updated models.Table
	require.NoError(t, db.First(&updated, table.ID).Error)
	assert.Equal(t, 50, updated.Score)
}

func TestSubmitNegativeScoreScenario(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo T")
	user := createUser(t, db, "ugo", table.ID)
	taskA := createTask(t, db, "Task A", 50, true)
	taskB := createTask(t, db, "Task B", -10, true)

	service := newSubmissionService(db)
	_, err := submit(t, service, taskA.ID, user.ID)
	require.NoError(t, err)
	result, err := submit(t, service, taskB.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, -10, result.Points)

	var updated models.Table
	require.NoError(t, db.First(&updated, table.ID).Error)
	assert.Equal(t, 40, updated.Score)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	tasks := NewTaskService(db)
	available, err := tasks.AvailableTasks(user.ID)
	require.NoError(t, err)
	assert.Empty(t, available.AvailableTasks)
	assert.Equal(t, 2, available.CompletedCount)
}

func TestSubmitRefusedWhilePaused(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	user := createUser(t, db, "alice", table.ID)
	task := createTask(t, db, "Group selfie", 50, true)

	gameState := NewGameStateService(db)
	require.NoError(t, gameState.SetPaused(true))

	service := newSubmissionService(db)
	_, err := submit(t, service, task.ID, user.ID)
	assert.ErrorIs(t, err, ErrGamePaused)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitUnknownTaskOrUser(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	user := createUser(t, db, "alice", table.ID)
	task := createTask(t, db, "Group selfie", 50, true)

	service := newSubmissionService(db)

	_, err := submit(t, service, 999, user.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = submit(t, service, task.ID, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSubmitUploadsWhenStorageConfigured(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	user := createUser(t, db, "alice", table.ID)
	task := createTask(t, db, "Group selfie", 50, true)

	var uploadedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploadedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := storage.NewClient(&config.Config{
		StorageURL:    server.URL,
		StorageKey:    "test-key",
		StorageBucket: "submissions",
	})
	service := NewSubmissionService(db, client, NewGameStateService(db))

	result, err := service.Submit(context.Background(), task.ID, user.ID, "clip.mp4", "video/mp4", []byte("fake video bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Submission.FileUrl, server.URL+"/storage/v1/object/public/submissions/"))
	assert.Contains(t, uploadedPath, "/storage/v1/object/submissions/")
	assert.NotContains(t, result.Message, "placeholder")
}

func TestSubmitDuplicateSkipsUpload(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	user := createUser(t, db, "alice", table.ID)
	task := createTask(t, db, "Group selfie", 50, true)

	var uploads int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploads++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := storage.NewClient(&config.Config{
		StorageURL:    server.URL,
		StorageKey:    "test-key",
		StorageBucket: "submissions",
	})
	service := NewSubmissionService(db, client, NewGameStateService(db))

	_, err := service.Submit(context.Background(), task.ID, user.ID, "clip.mp4", "video/mp4", []byte("fake video bytes"))
	require.NoError(t, err)

	_, err = service.Submit(context.Background(), task.ID, user.ID, "clip.mp4", "video/mp4", []byte("fake video bytes"))
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	// The repeat attempt is refused before any bytes reach the blob store.
	assert.Equal(t, 1, uploads)
}

func TestSubmitFallsBackOnStorageFailure(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	user := createUser(t, db, "alice", table.ID)
	task := createTask(t, db, "Group selfie", 50, true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket missing", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := storage.NewClient(&config.Config{
		StorageURL:    server.URL,
		StorageKey:    "test-key",
		StorageBucket: "submissions",
	})
	service := NewSubmissionService(db, client, NewGameStateService(db))

	result, err := service.Submit(context.Background(), task.ID, user.ID, "clip.mp4", "video/mp4", []byte("fake video bytes"))
	require.NoError(t, err)

	// Storage failure never blocks the completion; points are still awarded.
	assert.True(t, strings.HasPrefix(result.Submission.FileUrl, "data:image/svg+xml;base64,"))
	var updated models.Table
	require.NoError(t, db.First(&updated, table.ID).Error)
	assert.Equal(t, 50, updated.Score)
}

func TestDeleteSubmissionReversesScore(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	user := createUser(t, db, "alice", table.ID)
	task := createTask(t, db, "Group selfie", 50, true)

	service := newSubmissionService(db)
	result, err := submit(t, service, task.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, service.DeleteSubmission(result.Submission.ID))

	var updated models.Table
	require.NoError(t, db.First(&updated, table.ID).Error)
	assert.Equal(t, 0, updated.Score)

	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Count(&count).Error)
	assert.Zero(t, count)

	// The task becomes available to the user again.
	available, err := NewTaskService(db).AvailableTasks(user.ID)
	require.NoError(t, err)
	assert.Len(t, available.AvailableTasks, 1)
}

func TestDeleteSubmissionNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := newSubmissionService(db)
	assert.ErrorIs(t, service.DeleteSubmission(42), ErrSubmissionNotFound)
}

func TestListSubmissionsGalleryShape(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	alice := createUser(t, db, "alice", table.ID)
	bob := createUser(t, db, "bob", table.ID)
	task := createTask(t, db, "Group selfie", 50, true)

	service := newSubmissionService(db)
	first, err := submit(t, service, task.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Submission{}).
		Where("id = ?", first.Submission.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)
	second, err := submit(t, service, task.ID, bob.ID)
	require.NoError(t, err)

	submissions, err := service.ListSubmissions()
	require.NoError(t, err)
	require.Len(t, submissions, 2)

	// Newest first, with the task and the submitter's table resolved for
	// the gallery view.
	assert.Equal(t, second.Submission.ID, submissions[0].ID)
	assert.Equal(t, first.Submission.ID, submissions[1].ID)
	assert.Equal(t, "Group selfie", submissions[0].Task.Title)
	assert.Equal(t, "bob", submissions[0].User.Username)
	assert.Equal(t, "Tavolo 1", submissions[0].User.Table.Name)
}
