package models

import "time"

// GameConfig is a generic key/value row. The "game_paused" key holds the
// global pause flag as a boolean string and is created lazily on first read.
type GameConfig struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex;not null"`
	Value     string    `json:"value" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
