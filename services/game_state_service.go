package services

import (
	"gorm.io/gorm"

	"weddinggame/models"
)

const gamePausedKey = "game_paused"

// GameStateService owns the persisted pause flag. The flag lives in the
// database rather than process memory so multiple instances agree on it.
type GameStateService struct {
	db *gorm.DB
}

func NewGameStateService(db *gorm.DB) *GameStateService {
	return &GameStateService{db: db}
}

// IsPaused reads the pause flag, lazily creating the config row on first
// read. Concurrent first reads may race on the insert; the loser hits the
// unique index on key and recovers by re-reading the winner's row.
func (s *GameStateService) IsPaused() (bool, error) {
	var row models.GameConfig
	err := s.db.Where(models.GameConfig{Key: gamePausedKey}).
		Attrs(models.GameConfig{Value: "false"}).
		FirstOrCreate(&row).Error
	if err != nil {
		if err2 := s.db.Where("key = ?", gamePausedKey).First(&row).Error; err2 != nil {
			return false, err
		}
	}
	return row.Value == "true", nil
}

func (s *GameStateService) SetPaused(paused bool) error {
	value := "false"
	if paused {
		value = "true"
	}

	var row models.GameConfig
	err := s.db.Where(models.GameConfig{Key: gamePausedKey}).
		Assign(models.GameConfig{Value: value}).
		FirstOrCreate(&row).Error
	if err != nil {
		// Lost a concurrent create; the row exists now, so plain update wins.
		return s.db.Model(&models.GameConfig{}).
			Where("key = ?", gamePausedKey).
			Update("value", value).Error
	}
	return nil
}

// StateString maps the boolean flag onto the wire representation.
func StateString(paused bool) string {
	if paused {
		return "paused"
	}
	return "active"
}
