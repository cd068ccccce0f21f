package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/models"
	"github.com/habitforge/habitforge-backend/internal/scope"
	"gorm.io/gorm"
)

// AnalyticsSummary is the per-user aggregate consumed by the recommendation
// pipeline and exposed read-only over the API. Struggling/strong lists hold
// indices into the same per-habit completion-rate array the averages use.
type AnalyticsSummary struct {
	TotalHabits           int            `json:"total_habits"`
	AverageStreak         float64        `json:"average_streak"`
	AverageCompletionRate float64        `json:"average_completion_rate"`
	BestStreak            int            `json:"best_streak"`
	Categories            map[string]int `json:"categories"`
	StrugglingHabits      []int          `json:"struggling_habits"`
	StrongHabits          []int          `json:"strong_habits"`
}

type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Summary aggregates the user's active habits over the trailing 30 days.
// A user with no habits yields all-zero metrics.
func (s *AnalyticsService) Summary(userID uuid.UUID) (*AnalyticsSummary, error) {
	var habits []models.Habit
	if err := s.db.Scopes(scope.ForUser(userID), scope.Active).Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	summary := &AnalyticsSummary{
		TotalHabits:      len(habits),
		Categories:       make(map[string]int),
		StrugglingHabits: []int{},
		StrongHabits:     []int{},
	}
	if len(habits) == 0 {
		return summary, nil
	}

	now := time.Now().UTC()
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	gam := NewGamificationService(s.db)

	streaks := make([]int, 0, len(habits))
	rates := make([]float64, 0, len(habits))

	for _, habit := range habits {
		dates, err := gam.checkInDates(habit.ID, &thirtyDaysAgo)
		if err != nil {
			return nil, err
		}

		streaks = append(streaks, CurrentStreak(now, dates))

		// The denominator shrinks for habits younger than the window so new
		// habits are not penalized for days that have not happened yet.
		daysSinceStart := int(now.Sub(habit.StartDate).Hours()/24) + 1
		if daysSinceStart < 1 {
			daysSinceStart = 1
		}
		expected := min(30, daysSinceStart)
		rates = append(rates, float64(len(dates))/float64(expected)*100)

		category := habit.Category
		if category == "" {
			category = "general"
		}
		summary.Categories[category]++
	}

	var streakSum int
	for _, st := range streaks {
		streakSum += st
		if st > summary.BestStreak {
			summary.BestStreak = st
		}
	}
	summary.AverageStreak = float64(streakSum) / float64(len(streaks))

	var rateSum float64
	for i, rate := range rates {
		rateSum += rate
		if rate < 50 {
			summary.StrugglingHabits = append(summary.StrugglingHabits, i)
		}
		if rate > 80 {
			summary.StrongHabits = append(summary.StrongHabits, i)
		}
	}
	summary.AverageCompletionRate = rateSum / float64(len(rates))

	return summary, nil
}

// TopCategory returns the category with the most habits, or "general".
func (a *AnalyticsSummary) TopCategory() string {
	top := "general"
	best := 0
	for category, count := range a.Categories {
		if count > best {
			best = count
			top = category
		}
	}
	return top
}
