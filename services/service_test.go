package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"weddinggame/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Table{},
		&models.User{},
		&models.Task{},
		&models.Submission{},
		&models.GameConfig{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTable(t *testing.T, db *gorm.DB, name string) *models.Table {
	t.Helper()
	table := models.Table{Name: name}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	return &table
}

func createUser(t *testing.T, db *gorm.DB, username string, tableID uint) *models.User {
	t.Helper()
	user := models.User{Username: username, Password: "hashed", TableID: tableID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

func createTask(t *testing.T, db *gorm.DB, title string, score int, active bool) *models.Task {
	t.Helper()
	task := models.Task{Title: title, Description: title, Score: score, IsActive: active}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	if !active {
		// The column defaults to true, so gorm drops a zero-value false
		// from the insert; force it explicitly.
		if err := db.Model(&task).UpdateColumn("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate task: %v", err)
		}
	}
	return &task
}
