package models

import (
	"time"

	"gorm.io/gorm"
)

// Table is a team of guests. Score is denormalized: it is incremented when a
// submission is accepted, while the leaderboard recomputes totals from the
// submissions themselves.
type Table struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	Score     int            `json:"score" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Users []User `json:"users,omitempty" gorm:"foreignKey:TableID"`
}
