package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Habit difficulty runs 1-5 and fixes PointsPerCompletion (difficulty * 10)
// at creation time. Retiring a habit flips IsActive instead of deleting it.
type Habit struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                string         `gorm:"not null;size:255" json:"name"`
	Description         string         `gorm:"type:text" json:"description"`
	Category            string         `gorm:"size:100" json:"category"`
	DifficultyLevel     int            `gorm:"default:1" json:"difficulty_level"`
	TargetFrequency     string         `gorm:"size:50;default:'daily'" json:"target_frequency"`
	StartDate           time.Time      `gorm:"not null" json:"start_date"`
	IsActive            bool           `gorm:"default:true;not null" json:"is_active"`
	PointsPerCompletion int            `gorm:"default:10;not null" json:"points_per_completion"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	CheckIns []CheckIn `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE" json:"-"`
}

// CheckIn records one completion of a habit. PointsEarned includes the
// streak bonus and is computed exactly once; the row is never updated.
type CheckIn struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HabitID      uuid.UUID `gorm:"type:uuid;not null;index" json:"habit_id"`
	CheckInDate  time.Time `gorm:"not null;index" json:"check_in_date"`
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
	MoodRating   *int      `json:"mood_rating,omitempty"`
	PointsEarned int       `gorm:"default:10;not null" json:"points_earned"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate ensures UUID is set before creation
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// BeforeCreate ensures UUID is set before creation
func (ci *CheckIn) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}
