package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecommendationType selects the prompt framing and fallback template family.
type RecommendationType string

const (
	RecommendationHabitSuggestion RecommendationType = "habit_suggestion"
	RecommendationMotivation      RecommendationType = "motivation"
	RecommendationImprovement     RecommendationType = "improvement"
)

func (t RecommendationType) Valid() bool {
	switch t {
	case RecommendationHabitSuggestion, RecommendationMotivation, RecommendationImprovement:
		return true
	}
	return false
}

// Recommendation source tags.
const (
	SourceGemini = "gemini"
	SourceSystem = "system"
)

// Recommendation is generated text persisted with a 7-day expiry. Only
// IsRead is ever mutated after creation.
type Recommendation struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	RecommendationType RecommendationType `gorm:"size:50;not null" json:"recommendation_type"`
	Title              string             `gorm:"not null;size:255" json:"title"`
	Content            string             `gorm:"type:text;not null" json:"content"`
	Priority           int                `gorm:"default:1" json:"priority"`
	IsRead             bool               `gorm:"default:false" json:"is_read"`
	SourceAI           string             `gorm:"size:50" json:"source_ai"`
	ExtraData          datatypes.JSON     `json:"extra_data,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	ExpiresAt          *time.Time         `json:"expires_at,omitempty"`
}

// BeforeCreate ensures UUID is set before creation
func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
