package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weddinggame/models"
)

func TestAvailableTasksSetDifference(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	user := createUser(t, db, "alice", table.ID)

	done := createTask(t, db, "Done", 50, true)
	open1 := createTask(t, db, "Open high", 80, true)
	open2 := createTask(t, db, "Open low", 10, true)
	createTask(t, db, "Inactive", 30, false)
	doneInactive := createTask(t, db, "Done then deactivated", 20, false)

	require.NoError(t, db.Create(&models.Submission{TaskID: done.ID, UserID: user.ID, FileUrl: "x", FileType: "image"}).Error)
	require.NoError(t, db.Create(&models.Submission{TaskID: doneInactive.ID, UserID: user.ID, FileUrl: "x", FileType: "image"}).Error)

	service := NewTaskService(db)
	resp, err := service.AvailableTasks(user.ID)
	require.NoError(t, err)

	// Only active, unsubmitted tasks remain, ordered by score descending.
	require.Len(t, resp.AvailableTasks, 2)
	assert.Equal(t, open1.ID, resp.AvailableTasks[0].ID)
	assert.Equal(t, open2.ID, resp.AvailableTasks[1].ID)

	// Completed count includes submissions for now-inactive tasks; total only
	// counts active tasks.
	assert.Equal(t, 2, resp.CompletedCount)
	assert.Equal(t, 3, resp.TotalCount)
}

func TestListActiveTasksHidesInactive(t *testing.T) {
	db := setupTestDB(t)
	high := createTask(t, db, "High", 100, true)
	low := createTask(t, db, "Low", 10, true)
	createTask(t, db, "Hidden", 50, false)

	tasks, err := NewTaskService(db).ListActiveTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, high.ID, tasks[0].ID)
	assert.Equal(t, low.ID, tasks[1].ID)
}

func TestDeleteTaskCascadesSubmissions(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	alice := createUser(t, db, "alice", table.ID)
	bob := createUser(t, db, "bob", table.ID)
	task := createTask(t, db, "Doomed", 50, true)
	other := createTask(t, db, "Survivor", 10, true)

	require.NoError(t, db.Create(&models.Submission{TaskID: task.ID, UserID: alice.ID, FileUrl: "x", FileType: "image"}).Error)
	require.NoError(t, db.Create(&models.Submission{TaskID: task.ID, UserID: bob.ID, FileUrl: "x", FileType: "video"}).Error)
	require.NoError(t, db.Create(&models.Submission{TaskID: other.ID, UserID: alice.ID, FileUrl: "x", FileType: "image"}).Error)

	service := NewTaskService(db)
	require.NoError(t, service.DeleteTask(task.ID))

	// No submission with a dangling task id remains.
	var count int64
	require.NoError(t, db.Model(&models.Submission{}).Where("task_id = ?", task.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, db.Model(&models.Submission{}).Where("task_id = ?", other.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err := service.GetTask(task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTaskNotFound(t *testing.T) {
	db := setupTestDB(t)
	assert.ErrorIs(t, NewTaskService(db).DeleteTask(7), ErrTaskNotFound)
}

func TestCreateTaskDefaultsToActive(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db)

	score := -25
	task, err := service.CreateTask(&CreateTaskRequest{
		Title:       "Penalty",
		Description: "Lose points",
		Score:       &score,
	})
	require.NoError(t, err)
	assert.True(t, task.IsActive)
	assert.Equal(t, -25, task.Score)
}

func TestUpdateTaskPartial(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db)
	task := createTask(t, db, "Original", 50, true)

	inactive := false
	updated, err := service.UpdateTask(&UpdateTaskRequest{ID: task.ID, IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, 50, updated.Score)
}

func TestListTasksIncludesSubmissionCounts(t *testing.T) {
	db := setupTestDB(t)
	table := createTable(t, db, "Tavolo 1")
	user := createUser(t, db, "alice", table.ID)
	high := createTask(t, db, "High", 100, true)
	low := createTask(t, db, "Low", 10, true)

	require.NoError(t, db.Create(&models.Submission{TaskID: high.ID, UserID: user.ID, FileUrl: "x", FileType: "image"}).Error)

	tasks, err := NewTaskService(db).ListTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, high.ID, tasks[0].ID)
	assert.Equal(t, 1, tasks[0].SubmissionCount)
	assert.Equal(t, low.ID, tasks[1].ID)
	assert.Equal(t, 0, tasks[1].SubmissionCount)
}
