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

// GamificationService owns points, leveling and badge awards. It is bound to
// a DB handle so the check-in flow can run it against an open transaction.
type GamificationService struct {
	db *gorm.DB
}

func NewGamificationService(db *gorm.DB) *GamificationService {
	return &GamificationService{db: db}
}

// AwardPoints adds points to the user's total and re-derives the level.
// A missing user is a caller contract violation and returns ErrUserNotFound.
func (s *GamificationService) AwardPoints(userID uuid.UUID, points int) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	user.TotalPoints += points
	user.Level = models.LevelForPoints(user.TotalPoints)

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to save user points: %w", err)
	}
	return nil
}

// streakTiers is checked highest first; at most the single highest
// qualifying tier is awarded per evaluation. A user who reaches 30 days
// before the evaluator ever ran at 7 receives only month_master.
var streakTiers = []struct {
	minStreak int
	badgeType models.BadgeType
}{
	{30, models.BadgeMonthMaster},
	{7, models.BadgeWeekWarrior},
	{3, models.BadgeStreakStarter},
}

// EvaluateBadges checks every rule family and persists any newly earned
// badges, returning them. Types the user already holds are never re-awarded.
func (s *GamificationService) EvaluateBadges(userID uuid.UUID) ([]models.Badge, error) {
	var existing []models.Badge
	if err := s.db.Scopes(scope.ForUser(userID)).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	held := make(map[models.BadgeType]bool, len(existing))
	for _, b := range existing {
		held[b.BadgeType] = true
	}

	var newBadges []models.Badge

	streakBadge, err := s.checkStreakBadges(userID, held)
	if err != nil {
		return nil, err
	}
	if streakBadge != nil {
		newBadges = append(newBadges, *streakBadge)
	}

	creationBadge, err := s.checkCreationBadges(userID, held)
	if err != nil {
		return nil, err
	}
	if creationBadge != nil {
		newBadges = append(newBadges, *creationBadge)
	}

	consistencyBadge, err := s.checkConsistencyBadges(userID, held)
	if err != nil {
		return nil, err
	}
	if consistencyBadge != nil {
		newBadges = append(newBadges, *consistencyBadge)
	}

	if len(newBadges) > 0 {
		if err := s.db.Create(&newBadges).Error; err != nil {
			return nil, fmt.Errorf("failed to persist badges: %w", err)
		}
	}
	return newBadges, nil
}

func (s *GamificationService) checkStreakBadges(userID uuid.UUID, held map[models.BadgeType]bool) (*models.Badge, error) {
	var habits []models.Habit
	if err := s.db.Scopes(scope.ForUser(userID), scope.Active).Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	maxStreak := 0
	now := time.Now().UTC()
	for _, habit := range habits {
		dates, err := s.checkInDates(habit.ID, nil)
		if err != nil {
			return nil, err
		}
		if streak := CurrentStreak(now, dates); streak > maxStreak {
			maxStreak = streak
		}
	}

	// Only the highest qualifying tier is ever considered. If the user
	// already holds it, the streak family awards nothing; lower tiers are
	// never backfilled.
	for _, tier := range streakTiers {
		if maxStreak >= tier.minStreak {
			if held[tier.badgeType] {
				return nil, nil
			}
			return newBadge(userID, tier.badgeType), nil
		}
	}
	return nil, nil
}

func (s *GamificationService) checkCreationBadges(userID uuid.UUID, held map[models.BadgeType]bool) (*models.Badge, error) {
	if held[models.BadgeHabitCreator] {
		return nil, nil
	}

	// Total habits ever created, active or not.
	var total int64
	if err := s.db.Model(&models.Habit{}).Scopes(scope.ForUser(userID)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count habits: %w", err)
	}

	if total >= 5 {
		return newBadge(userID, models.BadgeHabitCreator), nil
	}
	return nil, nil
}

func (s *GamificationService) checkConsistencyBadges(userID uuid.UUID, held map[models.BadgeType]bool) (*models.Badge, error) {
	if held[models.BadgeConsistencyKing] {
		return nil, nil
	}

	var habits []models.Habit
	if err := s.db.Scopes(scope.ForUser(userID), scope.Active).Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}
	if len(habits) == 0 {
		return nil, nil
	}

	habitIDs := make([]uuid.UUID, len(habits))
	for i, h := range habits {
		habitIDs[i] = h.ID
	}

	thirtyDaysAgo := time.Now().UTC().AddDate(0, 0, -30)
	var totalCheckIns int64
	err := s.db.Model(&models.CheckIn{}).
		Where("habit_id IN ? AND check_in_date >= ?", habitIDs, thirtyDaysAgo).
		Count(&totalCheckIns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}

	// Every active habit expects 30 days regardless of age; young habits
	// under-count and that is an accepted approximation.
	totalExpected := len(habits) * 30
	completionRate := float64(totalCheckIns) / float64(totalExpected) * 100

	if completionRate >= 90 {
		return newBadge(userID, models.BadgeConsistencyKing), nil
	}
	return nil, nil
}

// HabitStreak recomputes the current streak for one habit from its full
// check-in history, relative to now.
func (s *GamificationService) HabitStreak(habitID uuid.UUID) (int, error) {
	dates, err := s.checkInDates(habitID, nil)
	if err != nil {
		return 0, err
	}
	return CurrentStreak(time.Now().UTC(), dates), nil
}

// checkInDates loads check-in timestamps for a habit, optionally bounded to
// those on or after since.
func (s *GamificationService) checkInDates(habitID uuid.UUID, since *time.Time) ([]time.Time, error) {
	q := s.db.Model(&models.CheckIn{}).Where("habit_id = ?", habitID)
	if since != nil {
		q = q.Where("check_in_date >= ?", *since)
	}

	var checkIns []models.CheckIn
	if err := q.Select("check_in_date").Find(&checkIns).Error; err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	dates := make([]time.Time, len(checkIns))
	for i, ci := range checkIns {
		dates[i] = ci.CheckInDate
	}
	return dates, nil
}

func newBadge(userID uuid.UUID, t models.BadgeType) *models.Badge {
	info := models.BadgeCatalog[t]
	return &models.Badge{
		ID:               uuid.New(),
		UserID:           userID,
		BadgeType:        t,
		BadgeName:        info.Name,
		BadgeDescription: info.Description,
		EarnedAt:         time.Now().UTC(),
	}
}

// Badges returns all badges a user has earned, most recent first.
func (s *GamificationService) Badges(userID uuid.UUID) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.db.Scopes(scope.ForUser(userID)).Order("earned_at DESC").Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	return badges, nil
}
