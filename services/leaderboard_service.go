package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"weddinggame/models"
)

const (
	leaderboardCacheKey = "leaderboard"
	leaderboardCacheTTL = 10 * time.Second
)

// LeaderboardService recomputes table totals from scratch on every call. The
// denormalized Table.Score column is deliberately not consulted; the two are
// expected to agree but this path is the authoritative one. A short-lived
// Redis cache sits in front and is invalidated whenever a submission is
// accepted or removed.
type LeaderboardService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewLeaderboardService(db *gorm.DB, redisClient *redis.Client) *LeaderboardService {
	return &LeaderboardService{db: db, redis: redisClient}
}

type LeaderboardEntry struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	UserCount int    `json:"userCount"`
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	var tables []models.Table
	err := s.db.
		Preload("Users").
		Preload("Users.Submissions").
		Preload("Users.Submissions.Task").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(tables))
	for _, table := range tables {
		total := 0
		for _, user := range table.Users {
			for _, submission := range user.Submissions {
				total += submission.Task.Score
			}
		}
		entries = append(entries, LeaderboardEntry{
			ID:        table.ID,
			Name:      table.Name,
			Score:     total,
			UserCount: len(table.Users),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	s.toCache(ctx, entries)
	return entries, nil
}

// Invalidate drops the cached leaderboard. Best effort: a failed delete only
// extends staleness by the TTL.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"method": "Invalidate",
		}).Warnf("Failed to invalidate leaderboard cache: %v", err)
	}
}

func (s *LeaderboardService) fromCache(ctx context.Context) ([]LeaderboardEntry, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(ctx, leaderboardCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *LeaderboardService) toCache(ctx context.Context, entries []LeaderboardEntry) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"method": "toCache",
		}).Warnf("Failed to cache leaderboard: %v", err)
	}
}
