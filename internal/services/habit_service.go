package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/models"
	"github.com/habitforge/habitforge-backend/internal/scope"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HabitService struct {
	db *gorm.DB
}

func NewHabitService(db *gorm.DB) *HabitService {
	return &HabitService{db: db}
}

// CreateHabitInput carries validated-by-service habit creation fields.
type CreateHabitInput struct {
	Name            string
	Description     string
	Category        string
	DifficultyLevel int
	TargetFrequency string
}

// HabitDetail is a habit together with its recomputed streak and history.
type HabitDetail struct {
	Habit         models.Habit
	CurrentStreak int
	CheckIns      []models.CheckIn
}

// CreateHabit creates a habit and runs the badge evaluator in the same
// transaction. PointsPerCompletion is fixed here and never recomputed.
func (s *HabitService) CreateHabit(userID uuid.UUID, in CreateHabitInput) (*HabitDetail, []models.Badge, error) {
	if in.Name == "" {
		return nil, nil, errors.New("habit name is required")
	}
	if in.DifficultyLevel < 1 || in.DifficultyLevel > 5 {
		return nil, nil, ErrInvalidDifficulty
	}
	if in.TargetFrequency == "" {
		in.TargetFrequency = "daily"
	}

	habit := models.Habit{
		ID:                  uuid.New(),
		UserID:              userID,
		Name:                in.Name,
		Description:         in.Description,
		Category:            in.Category,
		DifficultyLevel:     in.DifficultyLevel,
		TargetFrequency:     in.TargetFrequency,
		StartDate:           time.Now().UTC(),
		IsActive:            true,
		PointsPerCompletion: in.DifficultyLevel * 10,
	}

	var newBadges []models.Badge
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&habit).Error; err != nil {
			return fmt.Errorf("failed to create habit: %w", err)
		}

		badges, err := NewGamificationService(tx).EvaluateBadges(userID)
		if err != nil {
			return err
		}
		newBadges = badges
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &HabitDetail{Habit: habit, CurrentStreak: 0, CheckIns: []models.CheckIn{}}, newBadges, nil
}

// ListHabits returns all of the user's habits with streaks and histories.
func (s *HabitService) ListHabits(userID uuid.UUID) ([]HabitDetail, error) {
	var habits []models.Habit
	if err := s.db.Scopes(scope.ForUser(userID)).Order("created_at ASC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	details := make([]HabitDetail, 0, len(habits))
	for _, habit := range habits {
		detail, err := s.habitDetail(s.db, habit)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// GetHabit returns one habit the user owns; anything else reads as not found.
func (s *HabitService) GetHabit(userID, habitID uuid.UUID) (*HabitDetail, error) {
	var habit models.Habit
	err := s.db.Scopes(scope.ForUser(userID)).First(&habit, "id = ?", habitID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}
	return s.habitDetail(s.db, habit)
}

// Deactivate soft-disables a habit. The habit and its history remain.
func (s *HabitService) Deactivate(userID, habitID uuid.UUID) error {
	result := s.db.Model(&models.Habit{}).
		Scopes(scope.ForUser(userID)).
		Where("id = ?", habitID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate habit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

// CheckIn records today's completion for a habit as one unit of work: the
// habit row is locked, the same-day duplicate guard runs under that lock,
// then the check-in, point award and badge evaluation commit together.
// The returned detail includes the recomputed streak and full history.
func (s *HabitService) CheckIn(userID, habitID uuid.UUID, moodRating *int, notes string) (*HabitDetail, []models.Badge, error) {
	if moodRating != nil && (*moodRating < 1 || *moodRating > 5) {
		return nil, nil, ErrInvalidMoodRating
	}

	var (
		habit     models.Habit
		newBadges []models.Badge
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Scopes(scope.ForUser(userID))
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&habit, "id = ?", habitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return fmt.Errorf("failed to load habit: %w", err)
		}

		today := startOfToday()
		var todayCount int64
		err := tx.Model(&models.CheckIn{}).
			Where("habit_id = ? AND check_in_date >= ? AND check_in_date < ?", habit.ID, today, today.AddDate(0, 0, 1)).
			Count(&todayCount).Error
		if err != nil {
			return fmt.Errorf("failed to check today's check-ins: %w", err)
		}
		if todayCount > 0 {
			return ErrAlreadyCheckedIn
		}

		gam := NewGamificationService(tx)
		dates, err := gam.checkInDates(habit.ID, nil)
		if err != nil {
			return err
		}

		// Bonus rewards the streak standing before today's check-in:
		// 5 points per full week, capped at 25. Today has no check-in yet
		// (the duplicate guard ran above), so the walk anchors at
		// yesterday; anchored at today it would always come back zero.
		priorStreak := CurrentStreak(time.Now().UTC().AddDate(0, 0, -1), dates)
		streakBonus := min(priorStreak/7, 5) * 5
		pointsEarned := habit.PointsPerCompletion + streakBonus

		checkIn := models.CheckIn{
			ID:           uuid.New(),
			HabitID:      habit.ID,
			CheckInDate:  time.Now().UTC(),
			Notes:        notes,
			MoodRating:   moodRating,
			PointsEarned: pointsEarned,
		}
		if err := tx.Create(&checkIn).Error; err != nil {
			return fmt.Errorf("failed to create check-in: %w", err)
		}

		if err := gam.AwardPoints(userID, pointsEarned); err != nil {
			return err
		}

		badges, err := gam.EvaluateBadges(userID)
		if err != nil {
			return err
		}
		newBadges = badges
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	detail, err := s.habitDetail(s.db, habit)
	if err != nil {
		return nil, nil, err
	}
	return detail, newBadges, nil
}

func (s *HabitService) habitDetail(db *gorm.DB, habit models.Habit) (*HabitDetail, error) {
	var checkIns []models.CheckIn
	err := db.Where("habit_id = ?", habit.ID).Order("check_in_date DESC").Find(&checkIns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	dates := make([]time.Time, len(checkIns))
	for i, ci := range checkIns {
		dates[i] = ci.CheckInDate
	}

	return &HabitDetail{
		Habit:         habit,
		CurrentStreak: CurrentStreak(time.Now().UTC(), dates),
		CheckIns:      checkIns,
	}, nil
}

// Progress summarizes today's completion across active habits.
type Progress struct {
	CompletedToday int     `json:"completedToday"`
	TotalHabits    int     `json:"totalHabits"`
	CompletionRate float64 `json:"completionRate"`
	CurrentLevel   int     `json:"currentLevel"`
	TotalPoints    int     `json:"totalPoints"`
}

func (s *HabitService) Progress(userID uuid.UUID) (*Progress, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var total int64
	err := s.db.Model(&models.Habit{}).Scopes(scope.ForUser(userID), scope.Active).Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count habits: %w", err)
	}

	today := startOfToday()
	completed, err := s.distinctCompletedOn(userID, today)
	if err != nil {
		return nil, err
	}

	p := &Progress{
		CompletedToday: completed,
		TotalHabits:    int(total),
		CurrentLevel:   user.Level,
		TotalPoints:    user.TotalPoints,
	}
	if total > 0 {
		p.CompletionRate = float64(completed) / float64(total) * 100
	}
	return p, nil
}

// DayProgress is one day's completion inside the weekly view.
type DayProgress struct {
	Date           string  `json:"date"`
	Completed      int     `json:"completed"`
	Total          int     `json:"total"`
	CompletionRate float64 `json:"completion_rate"`
}

// WeeklyProgress reports completion per day for the current week
// (Monday through Sunday).
func (s *HabitService) WeeklyProgress(userID uuid.UUID) ([]DayProgress, error) {
	today := startOfToday()
	// Monday-based offset; Go's Sunday is 0.
	offset := (int(today.Weekday()) + 6) % 7
	weekStart := today.AddDate(0, 0, -offset)

	days := make([]DayProgress, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)

		var total int64
		err := s.db.Model(&models.Habit{}).
			Scopes(scope.ForUser(userID), scope.Active).
			Where("start_date < ?", day.AddDate(0, 0, 1)).
			Count(&total).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count habits: %w", err)
		}

		completed, err := s.distinctCompletedOn(userID, day)
		if err != nil {
			return nil, err
		}

		dp := DayProgress{
			Date:      day.Format("2006-01-02"),
			Completed: completed,
			Total:     int(total),
		}
		if total > 0 {
			dp.CompletionRate = float64(completed) / float64(total) * 100
		}
		days = append(days, dp)
	}
	return days, nil
}

func (s *HabitService) distinctCompletedOn(userID uuid.UUID, day time.Time) (int, error) {
	var completed int64
	err := s.db.Model(&models.CheckIn{}).
		Distinct("check_ins.habit_id").
		Joins("JOIN habits ON habits.id = check_ins.habit_id").
		Where("habits.user_id = ? AND habits.is_active = ?", userID, true).
		Where("check_ins.check_in_date >= ? AND check_ins.check_in_date < ?", day, day.AddDate(0, 0, 1)).
		Count(&completed).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed habits: %w", err)
	}
	return int(completed), nil
}
