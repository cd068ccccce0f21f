package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/models"
	"github.com/habitforge/habitforge-backend/internal/scope"
	"gorm.io/gorm"
)

// UserStats is the gamification snapshot for one user.
type UserStats struct {
	TotalPoints   int            `json:"total_points"`
	Level         int            `json:"level"`
	TotalHabits   int            `json:"total_habits"`
	ActiveStreaks []int          `json:"active_streaks"`
	BadgesCount   int            `json:"badges_count"`
	RecentBadges  []models.Badge `json:"recent_badges"`
}

// UserStats gathers points, level, per-habit streaks and recent badges.
func (s *GamificationService) UserStats(userID uuid.UUID) (*UserStats, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var habits []models.Habit
	if err := s.db.Scopes(scope.ForUser(userID), scope.Active).Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	now := time.Now().UTC()
	streaks := make([]int, 0, len(habits))
	for _, habit := range habits {
		dates, err := s.checkInDates(habit.ID, nil)
		if err != nil {
			return nil, err
		}
		streaks = append(streaks, CurrentStreak(now, dates))
	}

	badges, err := s.Badges(userID)
	if err != nil {
		return nil, err
	}

	recent := badges
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return &UserStats{
		TotalPoints:   user.TotalPoints,
		Level:         user.Level,
		TotalHabits:   len(habits),
		ActiveStreaks: streaks,
		BadgesCount:   len(badges),
		RecentBadges:  recent,
	}, nil
}
