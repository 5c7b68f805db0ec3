package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission records one user completing one task. FileUrl may point at blob
// storage or hold an inline placeholder when the upload had to fall back.
type Submission struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TaskID    uint           `json:"task_id" gorm:"not null;index"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	FileUrl   string         `json:"file_url" gorm:"not null"`
	FileType  string         `json:"file_type" gorm:"not null"` // "image" or "video"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Task Task `json:"task,omitempty"`
	User User `json:"user,omitempty"`
}
