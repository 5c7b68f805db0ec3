package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	TableID   uint           `json:"table_id" gorm:"not null"`
	IsAdmin   bool           `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Table       Table        `json:"table,omitempty"`
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:UserID"`
}
