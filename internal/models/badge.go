package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BadgeType is the fixed set of achievement types.
type BadgeType string

const (
	BadgeStreakStarter   BadgeType = "streak_starter"   // 3 day streak
	BadgeWeekWarrior     BadgeType = "week_warrior"     // 7 day streak
	BadgeMonthMaster     BadgeType = "month_master"     // 30 day streak
	BadgeHabitCreator    BadgeType = "habit_creator"    // created 5 habits
	BadgeConsistencyKing BadgeType = "consistency_king" // 90% completion over 30 days
	BadgeEarlyBird       BadgeType = "early_bird"       // check-in before 8 AM
	BadgeNightOwl        BadgeType = "night_owl"        // check-in after 10 PM
)

// BadgeInfo holds the display name and description for a badge type.
type BadgeInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BadgeCatalog maps every badge type to its display metadata.
var BadgeCatalog = map[BadgeType]BadgeInfo{
	BadgeStreakStarter:   {Name: "Streak Starter", Description: "Started your first 3-day streak!"},
	BadgeWeekWarrior:     {Name: "Week Warrior", Description: "Maintained a habit for 7 consecutive days!"},
	BadgeMonthMaster:     {Name: "Month Master", Description: "Maintained a habit for 30 consecutive days!"},
	BadgeHabitCreator:    {Name: "Habit Creator", Description: "Created 5 different habits!"},
	BadgeConsistencyKing: {Name: "Consistency King", Description: "Achieved 90% completion rate for 30 days!"},
	BadgeEarlyBird:       {Name: "Early Bird", Description: "Checked in before 8 AM!"},
	BadgeNightOwl:        {Name: "Night Owl", Description: "Checked in after 10 PM!"},
}

// Badge is an awarded achievement instance. A user holds at most one badge
// per type; rows are never mutated after creation.
type Badge struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_badges_user_type" json:"user_id"`
	BadgeType        BadgeType `gorm:"size:50;not null;uniqueIndex:idx_badges_user_type" json:"badge_type"`
	BadgeName        string    `gorm:"not null;size:255" json:"badge_name"`
	BadgeDescription string    `gorm:"type:text" json:"badge_description"`
	EarnedAt         time.Time `gorm:"not null" json:"earned_at"`
}

// BeforeCreate ensures UUID is set before creation
func (b *Badge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
