package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/models"
)

type CreateHabitRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	DifficultyLevel int    `json:"difficulty_level"`
	TargetFrequency string `json:"target_frequency"`
}

type CheckInRequest struct {
	MoodRating *int   `json:"mood_rating"`
	Notes      string `json:"notes"`
}

type HabitResponse struct {
	ID                  uuid.UUID        `json:"id"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	Category            string           `json:"category"`
	DifficultyLevel     int              `json:"difficulty_level"`
	TargetFrequency     string           `json:"target_frequency"`
	StartDate           time.Time        `json:"start_date"`
	IsActive            bool             `json:"is_active"`
	PointsPerCompletion int              `json:"points_per_completion"`
	CurrentStreak       int              `json:"current_streak"`
	CheckIns            []models.CheckIn `json:"check_ins"`
	CreatedAt           time.Time        `json:"created_at"`
}

func NewHabitResponse(habit models.Habit, currentStreak int, checkIns []models.CheckIn) HabitResponse {
	return HabitResponse{
		ID:                  habit.ID,
		Name:                habit.Name,
		Description:         habit.Description,
		Category:            habit.Category,
		DifficultyLevel:     habit.DifficultyLevel,
		TargetFrequency:     habit.TargetFrequency,
		StartDate:           habit.StartDate,
		IsActive:            habit.IsActive,
		PointsPerCompletion: habit.PointsPerCompletion,
		CurrentStreak:       currentStreak,
		CheckIns:            checkIns,
		CreatedAt:           habit.CreatedAt,
	}
}

// HabitResult pairs a habit's current detail with any badges the triggering
// operation (create or check-in) just awarded.
type HabitResult struct {
	Habit     HabitResponse  `json:"habit"`
	NewBadges []models.Badge `json:"new_badges"`
}
